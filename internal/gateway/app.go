package gateway

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"Storefront/internal/auth"
	"Storefront/internal/catalog"
	"Storefront/pkg/kit"
)

type HTTPDeps struct {
	Log      *zap.Logger
	Service  string
	Registry *prometheus.Registry

	MetricsEnabled bool
	MetricsToken   string
}

type Deps struct {
	Catalog *catalog.Server
	Auth    *auth.Server

	// Ready lists the probes behind /readyz, run in order.
	Ready []ReadyCheck
}

// ReadyCheck is one dependency probe for /readyz.
type ReadyCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

const (
	readyTimeout      = 2 * time.Second
	readyProbeTimeout = 700 * time.Millisecond
)

// NewHandler wires the public catalog, the admin auth endpoints and the
// session-guarded admin catalog into one router.
func NewHandler(deps Deps, httpDeps HTTPDeps) http.Handler {
	r := chi.NewRouter()
	setupMiddleware(r, httpDeps)
	setupMetrics(r, httpDeps)

	r.Get("/healthz", healthz)
	r.Get("/readyz", readyz(deps.Ready, httpDeps.Log))

	r.Group(deps.Catalog.PublicRoutes)

	r.Route("/admin", func(ar chi.Router) {
		ar.Mount("/auth", deps.Auth.Routes())

		ar.Route("/products", func(pr chi.Router) {
			pr.Use(auth.RequireSession(deps.Auth.Sessions))
			deps.Catalog.AdminRoutes(pr)
		})
	})

	return r
}

func setupMiddleware(r *chi.Mux, deps HTTPDeps) {
	r.Use(chimw.RequestID)
	r.Use(kit.Recoverer(deps.Log))
	r.Use(kit.Logging(deps.Log))
}

func setupMetrics(r *chi.Mux, deps HTTPDeps) {
	if deps.Registry == nil {
		return
	}

	metrics := kit.NewMetrics(deps.Registry, deps.Service)
	r.Use(metrics.Middleware)

	if !deps.MetricsEnabled {
		return
	}

	r.With(kit.MetricsAuth(deps.MetricsToken)).
		Handle("/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
}

func healthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func readyz(checks []ReadyCheck, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
		defer cancel()

		for _, c := range checks {
			if err := probe(ctx, c); err != nil {
				log.Warn("readyz failed", zap.String("check", c.Name), zap.Error(err))
				kit.WriteError(w, r, http.StatusServiceUnavailable, c.Name+" not ready")
				return
			}
		}

		w.WriteHeader(http.StatusOK)
	}
}

func probe(ctx context.Context, c ReadyCheck) error {
	cctx, cancel := context.WithTimeout(ctx, readyProbeTimeout)
	defer cancel()
	return c.Check(cctx)
}
