package app

import (
	"context"
	"log/slog"

	"github.com/TyReed12/ResTracker/internal/cache"
	"github.com/TyReed12/ResTracker/internal/config"
	"github.com/TyReed12/ResTracker/internal/db"
	"github.com/TyReed12/ResTracker/internal/interceptor"
	"github.com/TyReed12/ResTracker/internal/netwatch"
	"github.com/TyReed12/ResTracker/internal/notion"
	"github.com/TyReed12/ResTracker/internal/repository"
	"github.com/TyReed12/ResTracker/internal/storage"
	"github.com/TyReed12/ResTracker/internal/syncer"
	"github.com/TyReed12/ResTracker/web"
	"github.com/jmoiron/sqlx"
)

type App struct {
	Cfg         *config.Config
	DB          *sqlx.DB
	Syncer      *syncer.Syncer
	Watcher     *netwatch.Watcher
	Cache       *cache.Manager
	Interceptor *interceptor.Interceptor
	Snapshots   *storage.SnapshotService
}

func New(cfg *config.Config) (*App, error) {
	// Repositories: durable when the database opens, memory-only for the
	// session otherwise. StorageUnavailable is never fatal.
	var (
		database  *sqlx.DB
		goalRepo  repository.GoalRepository
		queueRepo repository.QueueRepository
		cacheRepo repository.CacheRepository
	)

	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err == nil {
		err = db.RunMigrations(database.DB, cfg.DBDriver)
	}
	if err != nil {
		slog.Warn("durable storage unavailable, falling back to memory for this session", "error", err)
		if database != nil {
			database.Close()
			database = nil
		}
		goalRepo = repository.NewMemoryGoalRepository()
		queueRepo = repository.NewMemoryQueueRepository()
		cacheRepo = repository.NewMemoryCacheRepository()
	} else {
		goalRepo = repository.NewGoalRepository(database)
		queueRepo = repository.NewQueueRepository(database)
		cacheRepo = repository.NewCacheRepository(database)
	}

	// Remote gateway (nil when Notion is not configured: demo mode)
	var gateway syncer.Gateway
	probeURL := ""
	if cfg.RemoteConfigured() {
		gateway = notion.NewClient(cfg.NotionBaseURL, cfg.NotionToken, cfg.NotionVersion, cfg.NotionDatabaseID, cfg.RemoteTimeout)
		probeURL = cfg.NotionBaseURL
	} else {
		slog.Info("remote store not configured, running on local data")
	}

	watcher := netwatch.New(probeURL, cfg.ProbeInterval, cfg.ProbeTimeout)
	sync := syncer.New(gateway, goalRepo, queueRepo, watcher)

	// Caching layer in front of the upstream origin
	manager := cache.NewManager(cacheRepo, cfg.StaticCacheName(), cfg.DynamicCacheName())
	origin := interceptor.NewOriginFetcher(cfg.OriginURL, cfg.RemoteTimeout)
	routes := interceptor.DefaultRoutes(cfg.APIPrefix, interceptor.DefaultManifest)
	ic := interceptor.New(routes, manager, origin, web.OfflineHTML)

	app := &App{
		Cfg:         cfg,
		DB:          database,
		Syncer:      sync,
		Watcher:     watcher,
		Cache:       manager,
		Interceptor: ic,
	}

	// Snapshot backup (optional)
	if cfg.SnapshotConfigured() {
		uploader, err := storage.New(cfg)
		if err != nil {
			slog.Error("failed to initialize snapshot storage", "error", err)
		} else {
			app.Snapshots = storage.NewSnapshotService(uploader, cfg.S3Prefix)
		}
	}

	return app, nil
}

// Start launches the background loops and performs the startup
// reconciliation: activate the current cache generations, seed the static
// one, probe connectivity, load goals.
func (a *App) Start(ctx context.Context) {
	// One synchronous probe before the initial load, so a server started
	// with the network up does not take the offline load path.
	a.Watcher.Probe(ctx)

	// Drain the queue whenever connectivity comes back
	events := a.Watcher.Subscribe()
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case online := <-events:
				a.Syncer.OnConnectivityChange(ctx, online)
			}
		}
	}()
	go a.Watcher.Start(ctx)

	err := a.Cache.Activate()
	if err != nil {
		slog.Error("cache activation failed", "error", err)
	}

	if a.Cfg.OriginURL != "" {
		go func() {
			err := a.Cache.Seed(ctx, interceptor.NewOriginFetcher(a.Cfg.OriginURL, a.Cfg.RemoteTimeout), interceptor.DefaultManifest)
			if err != nil {
				slog.Error("static cache seeding aborted", "error", err)
			}
		}()
	}

	a.Syncer.Load(ctx)

	if a.Snapshots != nil && a.Cfg.SnapshotOnStart {
		go func() {
			_, err := a.Snapshots.Snapshot(ctx, a.Syncer.Goals())
			if err != nil {
				slog.Error("startup snapshot failed", "error", err)
			}
		}()
	}
}

func (a *App) Close() error {
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}
