package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/riskibarqy/flashscore-gateway/external/flashscore"
	"github.com/riskibarqy/flashscore-gateway/internal/config"
	"github.com/riskibarqy/flashscore-gateway/internal/domain/tournament"
	cacherepo "github.com/riskibarqy/flashscore-gateway/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/flashscore-gateway/internal/infrastructure/repository/file"
	"github.com/riskibarqy/flashscore-gateway/internal/infrastructure/repository/leveldb"
	"github.com/riskibarqy/flashscore-gateway/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/flashscore-gateway/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/flashscore-gateway/internal/interfaces/httpapi"
	"github.com/riskibarqy/flashscore-gateway/internal/platform/cache"
	"github.com/riskibarqy/flashscore-gateway/internal/platform/logging"
	"github.com/riskibarqy/flashscore-gateway/internal/platform/resilience"
	"github.com/riskibarqy/flashscore-gateway/internal/usecase"
)

const dbPingTimeout = 5 * time.Second

// App owns the HTTP server and every background resource behind it.
type App struct {
	Server *http.Server

	logger    *logging.Logger
	scheduler *cron.Cron
	closers   []namedCloser
}

type namedCloser struct {
	name  string
	close func() error
}

func New(cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	a := &App{logger: logger}
	ok := false
	defer func() {
		if !ok {
			_ = a.closeResources()
		}
	}()

	var db *sqlx.DB
	if cfg.UsesPostgres() {
		var err error
		db, err = openDB(cfg)
		if err != nil {
			return nil, err
		}
		a.addCloser("postgres", db.Close)
	}

	snapshotRepo, err := a.newSnapshotRepository(cfg, db)
	if err != nil {
		return nil, err
	}

	store := cache.NewStore(time.Minute)
	phaseRepo, err := newPhaseConfigRepository(cfg, db, store)
	if err != nil {
		return nil, err
	}

	client := flashscore.NewClient(flashscore.ClientConfig{
		BaseURL:        cfg.FlashscoreBaseURL,
		APIHost:        cfg.FlashscoreAPIHost,
		APIKey:         cfg.FlashscoreAPIKey,
		Timeout:        cfg.FlashscoreTimeout,
		Locale:         cfg.FlashscoreLocale,
		Timezone:       cfg.FlashscoreTimezone,
		Logger:         logger.Named("flashscore"),
		Cache:          store,
		Limiter:        resilience.NewLimiter(cfg.FlashscoreMaxConcurrency),
		CircuitBreaker: cfg.FlashscoreCircuit,
	})

	resolver := usecase.NewIdentifierResolver(client, store, logger)
	snapshots := usecase.NewSnapshotStore(snapshotRepo, logger)
	tournaments := usecase.NewTournamentService(resolver, client, snapshots, phaseRepo, logger)
	warmup := usecase.NewWarmupService(tournaments, cfg.WarmupTargets, cfg.FlashscoreIDPrefix, cfg.WarmupMaxWorkers, logger)

	handler := httpapi.NewHandler(tournaments, warmup, httpapi.HandlerOptions{
		IDPrefix:     cfg.FlashscoreIDPrefix,
		DefaultSport: cfg.FlashscoreDefaultSport,
	}, logger)
	router := httpapi.NewRouter(handler, httpapi.RouterConfig{
		SwaggerEnabled:     cfg.SwaggerEnabled,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		InternalJobToken:   cfg.InternalJobToken,
	}, logger)

	scheduler, err := newScheduler(cfg, store, warmup, logger)
	if err != nil {
		return nil, err
	}
	a.scheduler = scheduler

	a.Server = &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	logger.Info("app wired",
		"snapshot_backend", cfg.SnapshotBackend,
		"phase_config_backend", cfg.PhaseConfigBackend,
		"upstream_slots", cfg.FlashscoreMaxConcurrency,
		"warmup_targets", len(cfg.WarmupTargets),
		"warmup_schedule", cfg.WarmupSchedule,
	)
	ok = true
	return a, nil
}

// Start launches background jobs. The HTTP server is started by the caller.
func (a *App) Start() {
	a.scheduler.Start()
}

// Shutdown stops the server first, then background jobs, then storage.
func (a *App) Shutdown(ctx context.Context) error {
	var errs []error
	if a.Server != nil {
		if err := a.Server.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("shutdown http server: %w", err))
		}
	}

	if a.scheduler != nil {
		select {
		case <-a.scheduler.Stop().Done():
		case <-ctx.Done():
			errs = append(errs, fmt.Errorf("stop scheduler: %w", ctx.Err()))
		}
	}

	if err := a.closeResources(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (a *App) addCloser(name string, fn func() error) {
	a.closers = append(a.closers, namedCloser{name: name, close: fn})
}

func (a *App) closeResources() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		c := a.closers[i]
		if err := c.close(); err != nil {
			a.logger.Warn("close resource failed", "resource", c.name, "error", err)
			errs = append(errs, fmt.Errorf("close %s: %w", c.name, err))
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func (a *App) newSnapshotRepository(cfg config.Config, db *sqlx.DB) (tournament.SnapshotRepository, error) {
	switch cfg.SnapshotBackend {
	case config.BackendPostgres:
		return postgres.NewSnapshotRepository(db), nil
	case config.BackendLevelDB:
		repo, err := leveldb.Open(cfg.SnapshotLevelDBPath)
		if err != nil {
			return nil, fmt.Errorf("open leveldb snapshots: %w", err)
		}
		a.addCloser("leveldb", repo.Close)
		return repo, nil
	default:
		return memory.NewSnapshotRepository(), nil
	}
}

func newPhaseConfigRepository(cfg config.Config, db *sqlx.DB, store *cache.Store) (tournament.PhaseConfigRepository, error) {
	switch cfg.PhaseConfigBackend {
	case config.BackendPostgres:
		return cacherepo.NewPhaseConfigRepository(postgres.NewPhaseConfigRepository(db), store, cfg.PhaseConfigCacheTTL), nil
	case config.BackendYAML:
		repo, err := file.NewPhaseConfigRepository(cfg.PhaseConfigFile)
		if err != nil {
			return nil, fmt.Errorf("load phase config file: %w", err)
		}
		return repo, nil
	default:
		return memory.NewPhaseConfigRepository(nil), nil
	}
}

func newScheduler(cfg config.Config, store *cache.Store, warmup *usecase.WarmupService, logger *logging.Logger) (*cron.Cron, error) {
	scheduler := cron.New(cron.WithChain(cron.Recover(cronLogger{logger: logger})))

	purgeSpec := "@every " + cfg.CachePurgeInterval.String()
	if _, err := scheduler.AddFunc(purgeSpec, func() {
		if n := store.Purge(context.Background()); n > 0 {
			logger.Debug("cache purged", "evicted", n, "remaining", store.Len())
		}
	}); err != nil {
		return nil, fmt.Errorf("schedule cache purge: %w", err)
	}

	if cfg.WarmupSchedule != "" {
		if _, err := scheduler.AddFunc(cfg.WarmupSchedule, func() {
			result, err := warmup.Run(context.Background(), nil)
			if err != nil {
				logger.Warn("scheduled warmup failed", "error", err)
				return
			}
			logger.Info("scheduled warmup completed",
				"targets", result.TargetCount,
				"ok", result.OKCount,
				"fallback", result.FallbackCount,
				"failed", result.FailedCount,
			)
		}); err != nil {
			return nil, fmt.Errorf("schedule warmup: %w", err)
		}
	}

	return scheduler, nil
}

func openDB(cfg config.Config) (*sqlx.DB, error) {
	dsn := normalizeDBURL(cfg.DBURL, cfg.DBBinaryParameters)
	db, err := otelsqlx.Open("postgres", dsn,
		otelsql.WithDBName(dbNameFromURL(dsn)),
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), dbPingTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

// cronLogger adapts the app logger to cron.Logger.
type cronLogger struct {
	logger *logging.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug("cron "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error("cron "+msg, append(keysAndValues, "error", err)...)
}
