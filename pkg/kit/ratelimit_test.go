package kit

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIPRateLimiter_SlidingWindow(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	l := NewIPRateLimiter(2, time.Minute)
	l.now = func() time.Time { return now }

	_, limited := l.Allow("10.0.0.1")
	assert.False(t, limited)
	now = now.Add(10 * time.Second)
	_, limited = l.Allow("10.0.0.1")
	assert.False(t, limited)

	retry, limited := l.Allow("10.0.0.1")
	assert.True(t, limited)
	assert.Equal(t, 50*time.Second, retry)

	_, limited = l.Allow("10.0.0.2")
	assert.False(t, limited, "keys are independent")

	now = now.Add(51 * time.Second)
	_, limited = l.Allow("10.0.0.1")
	assert.False(t, limited, "oldest hit left the window")
}

func TestIPRateLimiter_Disabled(t *testing.T) {
	l := NewIPRateLimiter(0, time.Minute)
	for i := 0; i < 100; i++ {
		_, limited := l.Allow("10.0.0.1")
		require.False(t, limited)
	}
}

func TestIPRateLimiter_Middleware(t *testing.T) {
	l := NewIPRateLimiter(1, time.Minute)
	h := l.Middleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	send := func(xff string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = "192.0.2.10:4242"
		if xff != "" {
			req.Header.Set("X-Forwarded-For", xff)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusNoContent, send("").Code)

	rec := send("")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.JSONEq(t, `{"success":false,"message":"too many requests"}`, rec.Body.String())

	// A forged header does not buy a fresh window.
	assert.Equal(t, http.StatusTooManyRequests, send("203.0.113.5").Code)
	assert.Equal(t, http.StatusTooManyRequests, send("198.51.100.7, 203.0.113.9").Code)
}

func TestIPRateLimiter_SweepsIdleKeys(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	l := NewIPRateLimiter(5, time.Minute)
	l.now = func() time.Time { return now }

	for i := 0; i < 100; i++ {
		l.Allow("10.0.0." + strconv.Itoa(i))
	}
	require.Len(t, l.hits, 100)

	now = now.Add(2 * time.Minute)
	l.Allow("10.0.1.1")
	assert.Len(t, l.hits, 1)
}

func TestClientIP(t *testing.T) {
	l := NewIPRateLimiter(1, time.Minute)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.10:4242"
	assert.Equal(t, "192.0.2.10", l.clientIP(req))

	req.Header.Set("X-Forwarded-For", "203.0.113.5")
	assert.Equal(t, "192.0.2.10", l.clientIP(req), "header ignored unless trusted")

	l.TrustForwarded = true
	req.Header.Set("X-Forwarded-For", "198.51.100.7, 203.0.113.5 ")
	assert.Equal(t, "203.0.113.5", l.clientIP(req))

	req.Header.Del("X-Forwarded-For")
	assert.Equal(t, "192.0.2.10", l.clientIP(req))
}
