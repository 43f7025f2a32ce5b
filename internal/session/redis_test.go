package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-contrib/sessions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cookieName = "postboard_session"

func newStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client, err := NewClient(mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	store, err := NewRedisStore(context.Background(), client, []byte("0123456789abcdef0123456789abcdef"))
	require.NoError(t, err)
	return store, mr
}

func saveNew(t *testing.T, store *RedisStore, values map[any]any) *http.Cookie {
	t.Helper()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	s, err := store.New(r, cookieName)
	require.NoError(t, err)
	assert.True(t, s.IsNew)
	for k, v := range values {
		s.Values[k] = v
	}
	require.NoError(t, store.Save(r, w, s))
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	return cookies[0]
}

func requestWith(cookie *http.Cookie) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(cookie)
	return r
}

func TestRoundTrip(t *testing.T) {
	store, mr := newStore(t)
	cookie := saveNew(t, store, map[any]any{"user_id": "42"})

	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, "/", cookie.Path)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
	assert.Len(t, mr.Keys(), 1)

	s, err := store.New(requestWith(cookie), cookieName)
	require.NoError(t, err)
	assert.False(t, s.IsNew)
	assert.Equal(t, "42", s.Values["user_id"])
	assert.Equal(t, 12*time.Hour, mr.TTL(keyPrefix+s.ID))
}

func TestSaveRefreshesTTL(t *testing.T) {
	store, mr := newStore(t)
	cookie := saveNew(t, store, map[any]any{"user_id": "42"})

	mr.FastForward(6 * time.Hour)
	r := requestWith(cookie)
	s, err := store.New(r, cookieName)
	require.NoError(t, err)
	assert.Equal(t, 6*time.Hour, mr.TTL(keyPrefix+s.ID))

	require.NoError(t, store.Save(r, httptest.NewRecorder(), s))
	assert.Equal(t, 12*time.Hour, mr.TTL(keyPrefix+s.ID))
}

func TestExpiredSessionIsNew(t *testing.T) {
	store, mr := newStore(t)
	cookie := saveNew(t, store, map[any]any{"user_id": "42"})

	mr.FastForward(13 * time.Hour)
	s, err := store.New(requestWith(cookie), cookieName)
	require.NoError(t, err)
	assert.True(t, s.IsNew)
	assert.Empty(t, s.Values)
}

func TestTamperedCookie(t *testing.T) {
	store, _ := newStore(t)
	cookie := saveNew(t, store, map[any]any{"user_id": "42"})
	cookie.Value = cookie.Value[:len(cookie.Value)-2] + "xx"

	s, err := store.New(requestWith(cookie), cookieName)
	require.NoError(t, err)
	assert.True(t, s.IsNew)
	assert.Empty(t, s.ID)
	assert.Nil(t, s.Values["user_id"])
}

func TestUnsignedIDIsNotAdopted(t *testing.T) {
	store, mr := newStore(t)
	mr.Set(keyPrefix+"attacker-chosen", "")

	r := requestWith(&http.Cookie{Name: cookieName, Value: "attacker-chosen"})
	s, err := store.New(r, cookieName)
	require.NoError(t, err)
	assert.True(t, s.IsNew)

	w := httptest.NewRecorder()
	s.Values["user_id"] = "42"
	require.NoError(t, store.Save(r, w, s))
	assert.NotEqual(t, "attacker-chosen", s.ID)
	assert.NotEqual(t, "attacker-chosen", w.Result().Cookies()[0].Value)
}

func TestExpiredIDGetsFreshOne(t *testing.T) {
	store, mr := newStore(t)
	cookie := saveNew(t, store, map[any]any{"user_id": "42"})
	mr.FlushAll()

	s, err := store.New(requestWith(cookie), cookieName)
	require.NoError(t, err)
	assert.True(t, s.IsNew)
	assert.Empty(t, s.ID)
}

func TestDeleteWithNegativeMaxAge(t *testing.T) {
	store, mr := newStore(t)
	cookie := saveNew(t, store, map[any]any{"user_id": "42"})

	r := requestWith(cookie)
	s, err := store.New(r, cookieName)
	require.NoError(t, err)
	s.Options.MaxAge = -1

	w := httptest.NewRecorder()
	require.NoError(t, store.Save(r, w, s))
	assert.Empty(t, mr.Keys())

	cleared := w.Result().Cookies()
	require.Len(t, cleared, 1)
	assert.Empty(t, cleared[0].Value)
	assert.True(t, cleared[0].MaxAge < 0)
}

func TestOptionsApplyToCookie(t *testing.T) {
	store, mr := newStore(t)
	store.Options(sessions.Options{Path: "/", MaxAge: 60, HttpOnly: true, Secure: true})
	cookie := saveNew(t, store, map[any]any{"k": "v"})
	assert.True(t, cookie.Secure)
	assert.Equal(t, 60, cookie.MaxAge)
	keys := mr.Keys()
	require.Len(t, keys, 1)
	assert.Equal(t, time.Minute, mr.TTL(keys[0]))
}

func TestLoadErrorIsReturnedByGet(t *testing.T) {
	store, mr := newStore(t)
	cookie := saveNew(t, store, map[any]any{"user_id": "42"})
	mr.Close()

	r := requestWith(cookie)
	s, err := store.Get(r, cookieName)
	assert.Error(t, err)
	require.NotNil(t, s)
	assert.True(t, s.IsNew)

	// cached per request
	_, again := store.Get(r, cookieName)
	assert.Error(t, again)
}

func TestPing(t *testing.T) {
	store, mr := newStore(t)
	assert.NoError(t, store.Ping(context.Background()))
	mr.Close()
	assert.Error(t, store.Ping(context.Background()))
}
