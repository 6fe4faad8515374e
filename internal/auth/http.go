package auth

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"Storefront/pkg/kit"
)

const (
	CookieName    = "admin_session"
	SessionMaxAge = 24 * time.Hour

	loginWindow = time.Minute
)

type Server struct {
	Log         *zap.Logger
	Sessions    *Sessions
	Credentials *Credentials

	// SecureCookie marks the session cookie Secure; set outside development.
	SecureCookie bool
	// LoginLimit caps login attempts per minute per client IP; 0 disables it.
	LoginLimit int
	// TrustProxy keys the login limit by X-Forwarded-For instead of the peer
	// address.
	TrustProxy bool
	// Logins counts login attempts by result when non-nil.
	Logins *prometheus.CounterVec
}

// NewLoginCounter registers admin_logins_total{result}.
func NewLoginCounter(reg prometheus.Registerer) *prometheus.CounterVec {
	c := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "admin_logins_total",
		Help: "Admin login attempts by result",
	}, []string{"result"})
	reg.MustRegister(c)
	return c
}

// Routes serves login, logout and check; mount it under /admin/auth.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	limiter := kit.NewIPRateLimiter(s.LoginLimit, loginWindow)
	limiter.TrustForwarded = s.TrustProxy
	r.With(limiter.Middleware).Post("/login", s.handleLogin)
	r.Post("/logout", s.handleLogout)
	r.Get("/check", s.handleCheck)

	return r
}

type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type statusResp struct {
	Success       bool   `json:"success"`
	Authenticated *bool  `json:"authenticated,omitempty"`
	Message       string `json:"message"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginReq
	if err := kit.DecodeJSON(w, r, &req); err != nil {
		s.countLogin("bad_request")
		kit.WriteError(w, r, http.StatusBadRequest, "invalid request")
		return
	}

	if req.Username == "" || req.Password == "" {
		s.countLogin("bad_request")
		kit.WriteError(w, r, http.StatusBadRequest, "username and password are required")
		return
	}

	if !s.Credentials.Verify(req.Username, req.Password) {
		s.countLogin("rejected")
		s.Log.Info("admin login rejected", zap.String("remote", r.RemoteAddr))
		kit.WriteError(w, r, http.StatusUnauthorized, "invalid username or password")
		return
	}

	tok, err := s.Sessions.Issue(req.Username)
	if err != nil {
		s.Log.Error("session issue", zap.Error(err))
		kit.WriteError(w, r, http.StatusInternalServerError, "server error")
		return
	}

	s.countLogin("ok")
	http.SetCookie(w, s.cookie(tok, SessionMaxAge))
	kit.WriteJSON(w, http.StatusOK, statusResp{Success: true, Message: "login successful"})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, s.cookie("", 0))
	kit.WriteJSON(w, http.StatusOK, statusResp{Success: true, Message: "logged out"})
}

func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	authenticated := true
	if _, err := s.Sessions.FromRequest(r); err != nil {
		authenticated = false
		kit.WriteJSON(w, http.StatusUnauthorized, statusResp{
			Success:       false,
			Authenticated: &authenticated,
			Message:       "not authenticated",
		})
		return
	}

	kit.WriteJSON(w, http.StatusOK, statusResp{
		Success:       true,
		Authenticated: &authenticated,
		Message:       "authenticated",
	})
}

// cookie builds the session cookie; maxAge 0 expires it immediately.
func (s *Server) cookie(value string, maxAge time.Duration) *http.Cookie {
	c := &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.SecureCookie,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(maxAge.Seconds()),
	}
	if maxAge <= 0 {
		c.MaxAge = -1
		c.Expires = time.Unix(0, 0)
	}
	return c
}

func (s *Server) countLogin(result string) {
	if s.Logins != nil {
		s.Logins.WithLabelValues(result).Inc()
	}
}
