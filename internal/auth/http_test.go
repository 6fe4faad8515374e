package auth_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"Storefront/internal/auth"
)

func newAuthServer(t *testing.T) *auth.Server {
	t.Helper()

	creds, err := auth.NewCredentials("admin", "admin123")
	require.NoError(t, err)

	return &auth.Server{
		Log:         zap.NewNop(),
		Sessions:    auth.NewSessions("http-test-secret"),
		Credentials: creds,
		Logins:      auth.NewLoginCounter(prometheus.NewRegistry()),
	}
}

func post(h http.Handler, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == auth.CookieName {
			return c
		}
	}
	t.Fatalf("no %s cookie in response", auth.CookieName)
	return nil
}

func TestLogin_SetsSessionCookie(t *testing.T) {
	s := newAuthServer(t)
	h := s.Routes()

	rec := post(h, "/login", `{"username":"admin","password":"admin123"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	c := sessionCookie(t, rec)
	assert.True(t, c.HttpOnly)
	assert.Equal(t, "/", c.Path)
	assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
	assert.Equal(t, 86400, c.MaxAge)
	assert.False(t, c.Secure)
	assert.True(t, s.Sessions.Verify(c.Value))

	assert.Equal(t, 1.0, testutil.ToFloat64(s.Logins.WithLabelValues("ok")))
}

func TestLogin_SecureCookie(t *testing.T) {
	s := newAuthServer(t)
	s.SecureCookie = true

	rec := post(s.Routes(), "/login", `{"username":"admin","password":"admin123"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, sessionCookie(t, rec).Secure)
}

func TestLogin_Errors(t *testing.T) {
	s := newAuthServer(t)
	h := s.Routes()

	cases := []struct {
		name string
		body string
		want int
	}{
		{"bad json", `{"username":`, http.StatusBadRequest},
		{"not an object", `[1,2]`, http.StatusBadRequest},
		{"missing password", `{"username":"admin"}`, http.StatusBadRequest},
		{"missing username", `{"password":"admin123"}`, http.StatusBadRequest},
		{"wrong password", `{"username":"admin","password":"nope"}`, http.StatusUnauthorized},
		{"wrong user", `{"username":"root","password":"admin123"}`, http.StatusUnauthorized},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := post(h, "/login", tc.body)
			require.Equal(t, tc.want, rec.Code)

			var body map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, false, body["success"])
			assert.NotEmpty(t, body["message"])
			assert.Empty(t, rec.Result().Cookies())
		})
	}
}

func TestLogin_RateLimited(t *testing.T) {
	s := newAuthServer(t)
	s.LoginLimit = 2
	h := s.Routes()

	for i := 0; i < 2; i++ {
		rec := post(h, "/login", `{"username":"admin","password":"bad"}`)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	}
	rec := post(h, "/login", `{"username":"admin","password":"admin123"}`)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
}

func TestLogin_RateLimitIgnoresForgedForwardedFor(t *testing.T) {
	s := newAuthServer(t)
	s.LoginLimit = 1
	h := s.Routes()

	for i, xff := range []string{"203.0.113.1", "203.0.113.2"} {
		req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"username":"admin","password":"bad"}`))
		req.Header.Set("X-Forwarded-For", xff)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		want := http.StatusUnauthorized
		if i > 0 {
			want = http.StatusTooManyRequests
		}
		assert.Equal(t, want, rec.Code, xff)
	}
}

func TestCheckAndLogout(t *testing.T) {
	s := newAuthServer(t)
	h := s.Routes()

	check := func(cookies ...*http.Cookie) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/check", nil)
		for _, c := range cookies {
			req.AddCookie(c)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusUnauthorized, check().Code)
	assert.Equal(t, http.StatusUnauthorized, check(&http.Cookie{Name: auth.CookieName, Value: "forged.00"}).Code)

	login := post(h, "/login", `{"username":"admin","password":"admin123"}`)
	require.Equal(t, http.StatusOK, login.Code)
	c := sessionCookie(t, login)

	rec := check(c)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"authenticated":true,"message":"authenticated"}`, rec.Body.String())

	out := post(h, "/logout", "", c)
	require.Equal(t, http.StatusOK, out.Code)
	cleared := sessionCookie(t, out)
	assert.Empty(t, cleared.Value)
	assert.Less(t, cleared.MaxAge, 0)

	// A copied token stays valid after logout: there is no revocation list.
	assert.Equal(t, http.StatusOK, check(c).Code)
}

func TestRequireSession(t *testing.T) {
	s := newAuthServer(t)

	var got auth.Session
	h := auth.RequireSession(s.Sessions)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, ok := auth.SessionFromContext(r.Context())
		require.True(t, ok)
		got = sess
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Unauthorized")

	tok, err := s.Sessions.Issue("admin")
	require.NoError(t, err)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: tok})
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "admin", got.Subject)
}
