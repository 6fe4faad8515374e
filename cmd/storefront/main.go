package main

import (
	"context"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"golang.org/x/text/language"

	"Storefront/internal/auth"
	"Storefront/internal/catalog"
	"Storefront/internal/gateway"
	"Storefront/pkg/config"
	"Storefront/pkg/kit"
)

const service = "storefront"

func main() {
	cfg, err := config.Load()
	if err != nil {
		// No logger yet; the config decides where logs go.
		kit.NewLogger(service, kit.LogOptions{}).Fatal("load config failed", zap.Error(err))
	}

	log := kit.NewLogger(service, kit.LogOptions{Level: cfg.Log.Level, File: cfg.Log.File})
	defer func() { _ = log.Sync() }()

	ctx := context.Background()

	seed, err := loadSeed(ctx, cfg.Catalog, log)
	if err != nil {
		log.Fatal("load catalog seed failed", zap.Error(err))
	}
	store := catalog.NewStore(seed)

	collation, err := language.Parse(cfg.Catalog.Collation)
	if err != nil {
		log.Fatal("invalid CATALOG_COLLATION", zap.String("value", cfg.Catalog.Collation), zap.Error(err))
	}

	creds, err := credentials(cfg.Admin)
	if err != nil {
		log.Fatal("admin credentials", zap.Error(err))
	}
	if cfg.Admin.PasswordHash == "" && cfg.Admin.Password == config.DefaultAdminPassword {
		log.Warn("admin is using the default password; set ADMIN_PASSWORD or ADMIN_PASSWORD_HASH")
	}

	secret := cfg.Admin.SessionSecret
	if secret == "" {
		secret = uuid.NewString() + uuid.NewString()
		log.Warn("SESSION_SECRET is not set; using a random secret, sessions end on restart")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		catalog.NewCollector(store),
	)

	h := gateway.NewHandler(
		gateway.Deps{
			Catalog: &catalog.Server{
				Store:     store,
				Sorter:    catalog.NewSorter(collation),
				Collation: collation,
				Log:       log,
			},
			Auth: &auth.Server{
				Log:          log,
				Sessions:     auth.NewSessions(secret),
				Credentials:  creds,
				SecureCookie: cfg.App.IsProduction(),
				LoginLimit:   cfg.Admin.LoginRateLimit,
				TrustProxy:   cfg.HTTP.TrustProxyHeaders,
				Logins:       auth.NewLoginCounter(reg),
			},
			Ready: []gateway.ReadyCheck{{Name: "catalog", Check: store.Ping}},
		},
		gateway.HTTPDeps{
			Log:            log,
			Service:        service,
			Registry:       reg,
			MetricsEnabled: cfg.Metrics.Enabled,
			MetricsToken:   cfg.Metrics.Token,
		},
	)

	log.Info("catalog ready",
		zap.Int("products", store.Len()),
		zap.String("env", cfg.App.Env),
		zap.String("admin", creds.Subject()),
	)

	if err := kit.RunHTTPServer(ctx, kit.ServerConfig{Addr: cfg.HTTP.Addr}, h, log); err != nil {
		log.Fatal("http server stopped", zap.Error(err))
	}
}

// loadSeed picks the first configured source: Postgres, a JSON file, or the
// embedded default catalog.
func loadSeed(ctx context.Context, cfg config.CatalogConfig, log *zap.Logger) ([]catalog.Product, error) {
	switch {
	case cfg.SeedDSN != "":
		log.Info("seeding catalog from postgres")
		return catalog.LoadPostgresSeed(ctx, cfg.SeedDSN)
	case cfg.SeedFile != "":
		log.Info("seeding catalog from file", zap.String("path", cfg.SeedFile))
		return catalog.LoadSeedFile(cfg.SeedFile)
	default:
		return catalog.DefaultSeed()
	}
}

func credentials(cfg config.AdminConfig) (*auth.Credentials, error) {
	if cfg.PasswordHash != "" {
		return auth.NewHashedCredentials(cfg.Username, cfg.PasswordHash)
	}
	return auth.NewCredentials(cfg.Username, cfg.Password)
}
