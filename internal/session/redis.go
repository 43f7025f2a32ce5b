// Package session adapts a go-redis backed gorilla store to
// gin-contrib/sessions.
package session

import (
	"context"
	"encoding/base32"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gorilla/securecookie"
	gsessions "github.com/gorilla/sessions"
	"github.com/rbcervilla/redisstore/v9"
	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix     = "session_"
	defaultMaxAge = 12 * 60 * 60
	// name the session id is signed under, independent of the cookie name
	signingName = "postboard_sid"
)

// RedisStore keeps session values in redis. The cookie carries only a
// session id signed with the configured key pairs.
type RedisStore struct {
	store   *redisstore.RedisStore
	client  *redis.Client
	codecs  []securecookie.Codec
	options gsessions.Options
}

var _ sessions.Store = (*RedisStore)(nil)

// NewRedisStore signs session ids with keyPairs (see
// securecookie.CodecsFromPairs) and pings redis once.
func NewRedisStore(ctx context.Context, client *redis.Client, keyPairs ...[]byte) (*RedisStore, error) {
	inner, err := redisstore.NewRedisStore(ctx, client)
	if err != nil {
		return nil, fmt.Errorf("create session store: %w", err)
	}
	codecs := securecookie.CodecsFromPairs(keyPairs...)
	for _, codec := range codecs {
		if sc, ok := codec.(*securecookie.SecureCookie); ok {
			// redis TTL decides expiry, so ids stay valid while the session slides
			sc.MaxAge(0)
		}
	}

	s := &RedisStore{store: inner, client: client, codecs: codecs}
	inner.KeyPrefix(keyPrefix)
	inner.KeyGen(s.newID)
	s.Options(sessions.Options{
		Path:     "/",
		MaxAge:   defaultMaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return s, nil
}

func (s *RedisStore) newID() (string, error) {
	raw := strings.TrimRight(base32.StdEncoding.EncodeToString(securecookie.GenerateRandomKey(32)), "=")
	return securecookie.EncodeMulti(signingName, raw, s.codecs...)
}

func (s *RedisStore) signed(id string) bool {
	var raw string
	return securecookie.DecodeMulti(signingName, id, &raw, s.codecs...) == nil
}

func (s *RedisStore) Options(opts sessions.Options) {
	s.options = *opts.ToGorillaOptions()
	s.store.Options(s.options)
}

// Get returns the request's session. The load error is cached per
// request, so later calls return it again.
func (s *RedisStore) Get(r *http.Request, name string) (*gsessions.Session, error) {
	return gsessions.GetRegistry(r).Get(s, name)
}

// New never adopts an id it did not issue: unsigned cookies and ids with
// no stored session both yield a session that gets a fresh id on save.
func (s *RedisStore) New(r *http.Request, name string) (*gsessions.Session, error) {
	if cookie, err := r.Cookie(name); err == nil && !s.signed(cookie.Value) {
		session := gsessions.NewSession(s.store, name)
		opts := s.options
		session.Options = &opts
		session.IsNew = true
		return session, nil
	}

	session, err := s.store.New(r, name)
	if session != nil && session.IsNew {
		session.ID = ""
	}
	if err != nil {
		return session, fmt.Errorf("load session: %w", err)
	}
	return session, nil
}

func (s *RedisStore) Save(r *http.Request, w http.ResponseWriter, session *gsessions.Session) error {
	if err := s.store.Save(r, w, session); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
