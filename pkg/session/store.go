// Package session keeps per-browser form state: the last container and
// location a user submitted with, so the next form opens pre-filled.
//
// Session keys should be 32 or 64 bytes for HMAC authentication,
// and 16, 24, or 32 bytes for AES encryption. Production deployments
// must use random keys generated with:
//
//	openssl rand -base64 32
package session

import (
	"bytes"
	"context"
	"encoding/base32"
	"encoding/gob"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"github.com/redis/go-redis/v9"
)

const (
	redisKeyPrefix = "session:"
	maxAge         = 86400 * 30 // 30 days
)

// NewStore returns a Redis-backed store when client is non-nil, otherwise a
// cookie store that keeps the (small) session values in the cookie itself.
func NewStore(client *redis.Client, authKey, encryptionKey []byte, secureCookie bool) sessions.Store {
	opts := &sessions.Options{
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   secureCookie,
		SameSite: http.SameSiteLaxMode,
	}

	if client == nil {
		cs := sessions.NewCookieStore(authKey, encryptionKey)
		cs.Options = opts
		return cs
	}

	return &RedisStore{
		client:  client,
		codecs:  securecookie.CodecsFromPairs(authKey, encryptionKey),
		options: opts,
	}
}

// RedisStore is a sessions.Store that keeps values server-side under
// "session:<id>" with a TTL equal to MaxAge. Only the signed and encrypted
// session ID travels in the cookie. Values are gob-encoded.
type RedisStore struct {
	client  *redis.Client
	codecs  []securecookie.Codec
	options *sessions.Options
}

// Get returns the named session, cached per request by the gorilla registry.
func (s *RedisStore) Get(r *http.Request, name string) (*sessions.Session, error) {
	return sessions.GetRegistry(r).Get(s, name)
}

// New loads the session referenced by the request cookie. A missing, tampered
// or expired cookie, or a missing Redis key, yields a fresh session.
func (s *RedisStore) New(r *http.Request, name string) (*sessions.Session, error) {
	session := sessions.NewSession(s, name)
	opts := *s.options
	session.Options = &opts
	session.IsNew = true

	c, err := r.Cookie(name)
	if err != nil {
		return session, nil
	}

	var id string
	if err := securecookie.DecodeMulti(name, c.Value, &id, s.codecs...); err != nil {
		return session, nil
	}

	session.ID = id
	if err := s.load(r.Context(), session); err != nil {
		return session, nil
	}
	session.IsNew = false
	return session, nil
}

// Save writes the values to Redis and sets the session cookie.
// A negative MaxAge deletes both.
func (s *RedisStore) Save(r *http.Request, w http.ResponseWriter, session *sessions.Session) error {
	if session.Options.MaxAge < 0 {
		if session.ID != "" {
			_ = s.client.Del(r.Context(), redisKeyPrefix+session.ID).Err()
		}
		http.SetCookie(w, sessions.NewCookie(session.Name(), "", session.Options))
		return nil
	}

	if session.ID == "" {
		session.ID = strings.TrimRight(
			base32.StdEncoding.EncodeToString(securecookie.GenerateRandomKey(32)),
			"=",
		)
	}

	if err := s.save(r.Context(), session); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}

	encoded, err := securecookie.EncodeMulti(session.Name(), session.ID, s.codecs...)
	if err != nil {
		return fmt.Errorf("encode session cookie: %w", err)
	}
	http.SetCookie(w, sessions.NewCookie(session.Name(), encoded, session.Options))
	return nil
}

func (s *RedisStore) save(ctx context.Context, session *sessions.Session) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(session.Values); err != nil {
		return fmt.Errorf("encode session values: %w", err)
	}
	ttl := time.Duration(session.Options.MaxAge) * time.Second
	if err := s.client.Set(ctx, redisKeyPrefix+session.ID, buf.Bytes(), ttl).Err(); err != nil {
		return fmt.Errorf("set session in redis: %w", err)
	}
	return nil
}

func (s *RedisStore) load(ctx context.Context, session *sessions.Session) error {
	data, err := s.client.Get(ctx, redisKeyPrefix+session.ID).Bytes()
	if err != nil {
		return fmt.Errorf("get session from redis: %w", err)
	}
	return gob.NewDecoder(bytes.NewBuffer(data)).Decode(&session.Values)
}
