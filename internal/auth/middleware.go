package auth

import (
	"context"
	"net/http"

	"Storefront/pkg/kit"
)

const UnauthorizedMessage = "Unauthorized: please log in at /admin/login"

type ctxKey string

const sessionKey ctxKey = "admin_session"

func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, sessionKey, s)
}

func SessionFromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(sessionKey).(Session)
	return s, ok
}

// FromRequest verifies the session cookie of r, if any.
func (s *Sessions) FromRequest(r *http.Request) (Session, error) {
	c, err := r.Cookie(CookieName)
	if err != nil || c.Value == "" {
		return Session{}, ErrInvalidToken
	}
	return s.Parse(c.Value)
}

// RequireSession verifies the cookie once and hands the resulting Session to
// downstream handlers through the request context.
func RequireSession(s *Sessions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, err := s.FromRequest(r)
			if err != nil {
				kit.WriteError(w, r, http.StatusUnauthorized, UnauthorizedMessage)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), sess)))
		})
	}
}
