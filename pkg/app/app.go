// Package app wires configuration into the backend client, services and
// optional infrastructure shared by the dashboard server and the CLI.
package app

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"webslayer-go/pkg/backend"
	"webslayer-go/pkg/cache"
	"webslayer-go/pkg/config"
	"webslayer-go/pkg/db"
	"webslayer-go/pkg/poller"
	"webslayer-go/pkg/services"
	"webslayer-go/pkg/state"
	"webslayer-go/pkg/storage"
)

const connectTimeout = 5 * time.Second

// App holds everything a front end needs. Redis, DB and Archive are nil when
// not configured or unreachable.
type App struct {
	Config   *config.Config
	Logger   *zap.Logger
	Backend  services.Backend
	Store    *state.Store
	Jobs     *services.JobService
	Reports  *services.ReportService
	Projects *services.ProjectService
	Cache    cache.Repository
	Redis    *redis.Client
	DB       *db.DB
	Archive  *storage.ReportArchive
}

type Options struct {
	// OnChange is forwarded to the job service.
	OnChange func(poller.Snapshot)
	// Offline skips Redis, Postgres and object storage.
	Offline bool
}

// New builds an App. Optional infrastructure that fails to connect is logged
// and left disabled.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger, opts Options) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &App{
		Config: cfg,
		Logger: logger,
		Store:  state.NewStore(),
	}

	if !opts.Offline {
		a.connect(ctx)
	}

	client := backend.NewClient(cfg.Backend.BaseURL, cfg.BackendTimeout(), backend.WithLogger(logger))
	a.Backend = services.Instrument(client)

	if a.Redis != nil {
		a.Cache = cache.NewRedisRepo(a.Redis)
	} else {
		a.Cache = cache.NewMemoryRepo()
	}

	reportOpts := services.ReportServiceOptions{
		Backend: a.Backend,
		Cache:   a.Cache,
		TTL:     cfg.ReportTTL(),
		Logger:  logger,
	}
	if a.Archive != nil {
		reportOpts.Archive = a.Archive
	}
	a.Reports = services.NewReportService(reportOpts)

	jobOpts := services.JobServiceOptions{
		Backend:  a.Backend,
		Reports:  a.Reports,
		Store:    a.Store,
		Interval: cfg.PollInterval(),
		Logger:   logger,
		OnChange: opts.OnChange,
	}
	if a.DB != nil {
		jobOpts.History = a.DB
	}
	a.Jobs = services.NewJobService(jobOpts)
	a.Projects = services.NewProjectService(a.Backend, a.Jobs)

	logger.Info("app initialized",
		zap.String("backend", cfg.Backend.BaseURL),
		zap.Bool("redis", a.Redis != nil),
		zap.Bool("history", a.DB != nil),
		zap.Bool("archive", a.Archive != nil))
	return a, nil
}

// connect brings up the optional stores concurrently.
func (a *App) connect(ctx context.Context) {
	cfg := a.Config
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)

	if cfg.Redis.Addr != "" {
		g.Go(func() error {
			client := cache.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
			if err := client.Ping(gctx).Err(); err != nil {
				a.Logger.Warn("redis unavailable, using in-memory report cache", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
				_ = client.Close()
				return nil
			}
			mu.Lock()
			a.Redis = client
			mu.Unlock()
			return nil
		})
	}

	if cfg.Database.URL != "" {
		g.Go(func() error {
			database, err := db.New(gctx, cfg.Database.URL)
			if err != nil {
				a.Logger.Warn("database unavailable, job history disabled", zap.Error(err))
				return nil
			}
			if err := database.EnsureSchema(gctx); err != nil {
				a.Logger.Warn("job history schema setup failed", zap.Error(err))
				database.Close()
				return nil
			}
			mu.Lock()
			a.DB = database
			mu.Unlock()
			return nil
		})
	}

	if cfg.Storage.Endpoint != "" {
		g.Go(func() error {
			archive, err := storage.NewReportArchive(cfg.Storage.Endpoint, cfg.Storage.AccessKey, cfg.Storage.SecretKey, cfg.Storage.Bucket, cfg.Storage.UseSSL)
			if err == nil {
				err = archive.EnsureBucket(gctx)
			}
			if err != nil {
				a.Logger.Warn("object storage unavailable, report archive disabled", zap.String("endpoint", cfg.Storage.Endpoint), zap.Error(err))
				return nil
			}
			mu.Lock()
			a.Archive = archive
			mu.Unlock()
			return nil
		})
	}

	_ = g.Wait()
}

// Close stops polling and releases connections.
func (a *App) Close() {
	if a.Jobs != nil {
		a.Jobs.Close()
	}
	if a.Redis != nil {
		_ = a.Redis.Close()
	}
	if a.DB != nil {
		a.DB.Close()
	}
	_ = a.Logger.Sync()
}
