package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"postboard/internal/db/dbtest"
	"postboard/internal/models"
	"postboard/internal/repository"
	"postboard/internal/response"
	"postboard/internal/session"
)

const cookieName = "postboard_session"

func init() {
	gin.SetMode(gin.TestMode)
}

type fixture struct {
	engine *gin.Engine
	mr     *miniredis.Miniredis
	repos  *repository.Repositories
}

func newFixture(t *testing.T, users UserFinder) *fixture {
	t.Helper()
	mr := miniredis.RunT(t)
	client, err := session.NewClient(mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	store, err := session.NewRedisStore(context.Background(), client, []byte("0123456789abcdef0123456789abcdef"))
	require.NoError(t, err)

	repos := repository.New(dbtest.New(t))
	if users == nil {
		users = repos.Users
	}

	r := gin.New()
	r.Use(sessions.Sessions(cookieName, store))
	r.POST("/login/:id", func(c *gin.Context) {
		s := sessions.Default(c)
		s.Set(SessionUserKey, c.Param("id"))
		require.NoError(t, s.Save())
		response.Success(c, nil)
	})
	r.GET("/me", AuthRequired(users, store, cookieName), func(c *gin.Context) {
		user, ok := CurrentUser(c)
		require.True(t, ok)
		response.Success(c, gin.H{"username": user.Username})
	})
	return &fixture{engine: r, mr: mr, repos: repos}
}

func (f *fixture) do(method, path string, cookie *http.Cookie) (*httptest.ResponseRecorder, map[string]any) {
	req := httptest.NewRequest(method, path, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)
	var body map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return w, body
}

func (f *fixture) login(t *testing.T, id string) *http.Cookie {
	t.Helper()
	w, _ := f.do(http.MethodPost, "/login/"+id, nil)
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	return cookies[0]
}

func (f *fixture) createUser(t *testing.T) *models.User {
	t.Helper()
	user := &models.User{Username: "alice", Email: "a@x.co", Password: "hash"}
	_, err := f.repos.Users.CreateWithProfile(context.Background(), user)
	require.NoError(t, err)
	return user
}

var unauthenticated = map[string]any{
	"status": "fail",
	"data":   map[string]any{"authentication": "user is not authenticated"},
}

func TestAuthRequiredNoSession(t *testing.T) {
	f := newFixture(t, nil)
	w, body := f.do(http.MethodGet, "/me", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, unauthenticated, body)
}

func TestAuthRequiredResolvesUser(t *testing.T) {
	f := newFixture(t, nil)
	user := f.createUser(t)
	cookie := f.login(t, user.ID.String())

	_, body := f.do(http.MethodGet, "/me", cookie)
	assert.Equal(t, "success", body["status"])
	assert.Equal(t, "alice", body["data"].(map[string]any)["username"])
}

func TestAuthRequiredSlidesExpiry(t *testing.T) {
	f := newFixture(t, nil)
	user := f.createUser(t)
	cookie := f.login(t, user.ID.String())

	keys := f.mr.Keys()
	require.Len(t, keys, 1)
	f.mr.FastForward(11 * time.Hour)
	assert.Equal(t, time.Hour, f.mr.TTL(keys[0]))

	_, body := f.do(http.MethodGet, "/me", cookie)
	assert.Equal(t, "success", body["status"])
	assert.Equal(t, 12*time.Hour, f.mr.TTL(keys[0]))
}

func TestAuthRequiredExpiredSession(t *testing.T) {
	f := newFixture(t, nil)
	user := f.createUser(t)
	cookie := f.login(t, user.ID.String())

	f.mr.FastForward(12*time.Hour + time.Second)
	_, body := f.do(http.MethodGet, "/me", cookie)
	assert.Equal(t, unauthenticated, body)
}

func TestAuthRequiredTamperedCookie(t *testing.T) {
	f := newFixture(t, nil)
	user := f.createUser(t)
	cookie := f.login(t, user.ID.String())
	cookie.Value = strings.ToUpper(cookie.Value)

	_, body := f.do(http.MethodGet, "/me", cookie)
	assert.Equal(t, unauthenticated, body)
}

func TestAuthRequiredUnknownUserClearsSession(t *testing.T) {
	f := newFixture(t, nil)
	cookie := f.login(t, uuid.NewString())
	require.Len(t, f.mr.Keys(), 1)

	_, body := f.do(http.MethodGet, "/me", cookie)
	assert.Equal(t, unauthenticated, body)
	assert.Empty(t, f.mr.Keys())
}

func TestAuthRequiredGarbageUserID(t *testing.T) {
	f := newFixture(t, nil)
	cookie := f.login(t, "not-a-uuid")
	_, body := f.do(http.MethodGet, "/me", cookie)
	assert.Equal(t, unauthenticated, body)
}

type failingFinder struct{}

func (failingFinder) FindByID(context.Context, uuid.UUID) (*models.User, error) {
	return nil, errors.New("connection reset")
}

func TestAuthRequiredLookupFailure(t *testing.T) {
	f := newFixture(t, failingFinder{})
	cookie := f.login(t, uuid.NewString())

	w, body := f.do(http.MethodGet, "/me", cookie)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, map[string]any{"status": "error", "message": "internal server error"}, body)
}

func TestAuthRequiredStoreOutage(t *testing.T) {
	f := newFixture(t, nil)
	user := f.createUser(t)
	cookie := f.login(t, user.ID.String())

	f.mr.Close()
	w, body := f.do(http.MethodGet, "/me", cookie)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, map[string]any{"status": "error", "message": "internal server error"}, body)
}
