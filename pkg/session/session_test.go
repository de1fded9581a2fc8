package session

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gorilla/sessions"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/treasuretrove/ledger/pkg/logger"
)

var (
	testAuthKey = []byte("test-auth-key-must-be-32-bytes!!")
	testEncKey  = []byte("test-enc-key-must-be-32-bytes!!!")
)

func cookieStore() sessions.Store {
	return NewStore(nil, testAuthKey, testEncKey, false)
}

func redisStore(t *testing.T) sessions.Store {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewStore(client, testAuthKey, testEncKey, false)
}

// remembered performs Remember on one request and returns a follow-up request
// carrying the resulting cookies.
func remembered(t *testing.T, store sessions.Store, d FormDefaults) *http.Request {
	t.Helper()
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/submissions", nil)
	require.NoError(t, Remember(w, r, store, d))

	next := httptest.NewRequest(http.MethodGet, "/api/form", nil)
	for _, c := range w.Result().Cookies() {
		next.AddCookie(c)
	}
	return next
}

func TestNewStore_PicksBackend(t *testing.T) {
	_, isCookie := cookieStore().(*sessions.CookieStore)
	assert.True(t, isCookie)

	_, isRedis := redisStore(t).(*RedisStore)
	assert.True(t, isRedis)
}

func TestRemember_Load(t *testing.T) {
	stores := map[string]func(t *testing.T) sessions.Store{
		"cookie": func(*testing.T) sessions.Store { return cookieStore() },
		"redis":  redisStore,
	}

	for name, newStore := range stores {
		t.Run(name, func(t *testing.T) {
			store := newStore(t)
			want := FormDefaults{ContainerID: "6f1c2a4e-0d1b-4c55-9a51-1f7a0b3c2d03", Location: "garage"}

			got, err := Load(remembered(t, store, want), store)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestLoad_NoCookie(t *testing.T) {
	got, err := Load(httptest.NewRequest(http.MethodGet, "/api/form", nil), cookieStore())
	require.NoError(t, err)
	assert.Equal(t, FormDefaults{}, got)
}

func TestRemember_ClearsEmptyFields(t *testing.T) {
	store := cookieStore()
	r := remembered(t, store, FormDefaults{ContainerID: "abc", Location: "attic"})

	w := httptest.NewRecorder()
	require.NoError(t, Remember(w, r, store, FormDefaults{Location: "attic"}))

	next := httptest.NewRequest(http.MethodGet, "/api/form", nil)
	for _, c := range w.Result().Cookies() {
		next.AddCookie(c)
	}
	got, err := Load(next, store)
	require.NoError(t, err)
	assert.Equal(t, FormDefaults{Location: "attic"}, got)
}

func TestMiddleware_InjectsDefaults(t *testing.T) {
	store := cookieStore()
	want := FormDefaults{Location: "shed"}
	r := remembered(t, store, want)

	var got FormDefaults
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = DefaultsFromCtx(r.Context())
	})
	Middleware(store, logger.Discard())(next).ServeHTTP(httptest.NewRecorder(), r)

	assert.Equal(t, want, got)
}

func TestMiddleware_TamperedCookieIsIgnored(t *testing.T) {
	store := cookieStore()
	r := httptest.NewRequest(http.MethodGet, "/api/form", nil)
	r.AddCookie(&http.Cookie{Name: sessionName, Value: "garbage"})

	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		assert.Equal(t, FormDefaults{}, DefaultsFromCtx(r.Context()))
	})
	w := httptest.NewRecorder()
	Middleware(store, logger.Discard())(next).ServeHTTP(w, r)

	assert.True(t, called)
	assert.Equal(t, http.StatusOK, w.Code)
}
