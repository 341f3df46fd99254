package app

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"kazi-hub/internal/config"
	"kazi-hub/internal/database"
	dbpostgres "kazi-hub/internal/database/postgres"
	"kazi-hub/internal/infrastructure/cache"
	"kazi-hub/internal/pipeline"
	"kazi-hub/internal/pkg/jwt"
	"kazi-hub/internal/scheduler"
	"kazi-hub/internal/scraper"
	"kazi-hub/internal/store"
	"kazi-hub/internal/usecase"
	"kazi-hub/internal/ws"
)

// Container owns every long-lived dependency. Postgres is optional: it
// backs the snapshot store when DATABASE_URL is set, the JSON file
// otherwise. Redis degrades to a no-op on its own.
type Container struct {
	Config config.Config
	Logger *log.Logger

	DB    database.DB
	Store store.Store
	Cache *cache.Redis

	Sources      []scraper.Source
	Orchestrator *pipeline.Orchestrator
	Scheduler    *scheduler.Scheduler
	Hub          *ws.Hub

	JobsQuery usecase.JobsQueryUsecase
	Status    usecase.StatusUsecase
	Refresh   usecase.RefreshUsecase
	AdminAuth usecase.AdminAuthUsecase
}

func NewContainer(cfg config.Config, logger *log.Logger) (*Container, error) {
	if logger == nil {
		logger = log.Default()
	}
	c := &Container{Config: cfg, Logger: logger}

	if strings.TrimSpace(cfg.Database.URL) != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		db, err := dbpostgres.Connect(ctx, cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("connect database: %w", err)
		}
		pg := store.NewPostgresStore(db)
		if err := pg.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("ensure snapshot schema: %w", err)
		}
		c.DB = db
		c.Store = pg
		logger.Printf("[App] snapshot store | backend=postgres")
	} else {
		c.Store = store.NewFileStore(cfg.Store.SnapshotFile)
		logger.Printf("[App] snapshot store | backend=file path=%s", cfg.Store.SnapshotFile)
	}

	c.Cache = cache.NewRedis(cfg.Redis, logger)

	srcCfgs, err := cfg.SourceConfigs()
	if err != nil {
		return nil, fmt.Errorf("load source catalog: %w", err)
	}
	sources, err := scraper.BuildSources(srcCfgs, cfg.Scrape)
	if err != nil {
		return nil, fmt.Errorf("build sources: %w", err)
	}
	c.Sources = sources

	c.Hub = ws.NewHub(logger)

	orch := pipeline.NewOrchestrator(sources, c.Store, cfg.Scrape.MaxParallelSources, logger)
	orch.SetCache(c.Cache)
	orch.SetNotifier(ws.NewSnapshotNotifier(c.Hub))
	c.Orchestrator = orch

	c.Scheduler = scheduler.New(orch, cfg.Scrape.Interval, logger)

	jwtSvc := jwt.NewHMACService(cfg.Admin.JWTSecret, cfg.Admin.TokenTTL)
	c.AdminAuth = usecase.NewAdminAuthUsecase(cfg.Admin.Secret, jwtSvc, logger)
	c.JobsQuery = usecase.NewJobsQueryUsecase(c.Store, c.Cache, logger)
	c.Status = usecase.NewStatusUsecase(c.Store, c.Scheduler, logger)
	c.Refresh = usecase.NewRefreshUsecase(c.Scheduler, logger)

	return c, nil
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	if c.Cache != nil {
		_ = c.Cache.Close()
	}
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
