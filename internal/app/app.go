package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/redis/go-redis/v9"

	"github.com/johnrirwin/fpviraq/internal/cache"
	"github.com/johnrirwin/fpviraq/internal/catalog"
	"github.com/johnrirwin/fpviraq/internal/config"
	"github.com/johnrirwin/fpviraq/internal/database"
	"github.com/johnrirwin/fpviraq/internal/httpapi"
	"github.com/johnrirwin/fpviraq/internal/logging"
	"github.com/johnrirwin/fpviraq/internal/market"
	"github.com/johnrirwin/fpviraq/internal/mcp"
	"github.com/johnrirwin/fpviraq/internal/news"
	"github.com/johnrirwin/fpviraq/internal/ratelimit"
	"github.com/johnrirwin/fpviraq/internal/session"
	"github.com/johnrirwin/fpviraq/internal/tagging"
	"github.com/johnrirwin/fpviraq/internal/tasks"
	"github.com/johnrirwin/fpviraq/internal/vault"
)

// App holds all application dependencies
type App struct {
	Config     *config.Config
	Logger     *logging.Logger
	Cache      cache.Cache
	Catalog    *catalog.Store
	Scheduler  *tasks.Scheduler
	Sessions   *session.Manager
	Tokens     *session.Tokens
	Vault      *vault.Store
	Market     *market.Converter
	News       *news.Hub
	HTTPServer *httpapi.Server
	MCPServer  *mcp.Server
	db         *database.DB
	redis      *redis.Client
	stopCache  func()
	stopNews   context.CancelFunc
}

// New creates and initializes a new App instance
func New(cfg *config.Config) (*App, error) {
	app := &App{Config: cfg}

	// Initialize logger
	app.Logger = logging.New(logging.ParseLevel(cfg.Logging.Level))

	// Initialize cache
	app.Cache = app.initCache()

	// Load or generate the parts catalog
	store, err := app.initCatalog()
	if err != nil {
		return nil, err
	}
	app.Catalog = store

	// Initialize database, when reachable
	app.initDatabase()

	// Initialize sessions
	app.Scheduler = tasks.NewScheduler(app.Logger)
	app.Tokens = session.NewTokens(cfg.Session.Secret, cfg.Session.Issuer, cfg.Session.TTL)
	app.Sessions = session.NewManager(app.Cache, app.Catalog, app.Scheduler, session.Config{
		TTL:               cfg.Session.TTL,
		StockRequestDelay: cfg.Session.StockRequestDelay,
	}, app.Logger)

	// Initialize project vault
	app.Vault = vault.Open(context.Background(), app.initVaultBackend(), app.Logger)

	// Initialize marketplace and news hub
	app.Market = market.NewConverter(cfg.Market.ExchangeRate, cfg.Market.Locale)
	app.News = app.initNews()

	// Initialize servers
	app.HTTPServer = httpapi.New(app.Catalog, app.Sessions, app.Tokens, app.Vault, app.Market, app.News, app.Logger)
	mcpHandler := mcp.NewHandler(app.Catalog, app.Vault, app.Market, app.News, app.Logger)
	app.MCPServer = mcp.NewServer(mcpHandler, app.Logger)

	return app, nil
}

// Run starts the application in the appropriate mode
func (a *App) Run(ctx context.Context) error {
	if a.Config.News.EnableFeeds {
		newsCtx, cancel := context.WithCancel(ctx)
		a.stopNews = cancel
		a.News.Start(newsCtx, a.Config.News.RefreshInterval)
	}

	if a.Config.Server.MCPMode {
		a.Logger.Info("Starting MCP server in stdio mode")
		return a.MCPServer.Run(ctx)
	}

	a.Logger.Info("Starting HTTP server", logging.WithField("addr", a.Config.Server.HTTPAddr))
	return a.HTTPServer.Start(a.Config.Server.HTTPAddr)
}

// Shutdown gracefully shuts down the application
func (a *App) Shutdown(ctx context.Context) error {
	if a.HTTPServer != nil {
		if err := a.HTTPServer.Shutdown(ctx); err != nil {
			a.Logger.Error("HTTP server shutdown error", logging.WithField("error", err.Error()))
		}
	}

	if a.stopNews != nil {
		a.stopNews()
	}
	if a.Scheduler != nil {
		a.Scheduler.Close()
	}
	if a.stopCache != nil {
		a.stopCache()
	}

	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.Logger.Error("Database close error", logging.WithField("error", err.Error()))
		}
	}

	a.Logger.Sync()
	return nil
}

func (a *App) initCache() cache.Cache {
	switch a.Config.Cache.Backend {
	case "redis":
		a.Logger.Info("Using Redis cache backend", logging.WithField("addr", a.Config.Cache.RedisAddr))
		redisCache, err := cache.NewRedis(cache.RedisConfig{
			Addr:   a.Config.Cache.RedisAddr,
			Prefix: "fpviraq:",
		}, a.Config.Cache.TTL)
		if err != nil {
			a.Logger.Error("Failed to connect to Redis, falling back to memory cache", logging.WithField("error", err.Error()))
			return a.memoryCache()
		}
		a.redis = redisCache.Client()
		a.stopCache = func() { redisCache.Close() }
		return redisCache
	default:
		a.Logger.Info("Using in-memory cache backend")
		return a.memoryCache()
	}
}

func (a *App) memoryCache() cache.Cache {
	mem := cache.NewMemory(a.Config.Cache.TTL)
	a.stopCache = mem.Stop
	return mem
}

// initCatalog reads the generated artifact, generating it first when allowed
func (a *App) initCatalog() (*catalog.Store, error) {
	path := a.Config.Catalog.Path

	store, err := catalog.LoadFile(path)
	if err == nil {
		a.Logger.Info("Loaded parts catalog", logging.WithFields(map[string]interface{}{
			"path":  path,
			"parts": store.Len(),
		}))
		return store, nil
	}
	if !errors.Is(err, fs.ErrNotExist) || !a.Config.Catalog.GenerateIfMissing {
		return nil, fmt.Errorf("failed to load catalog %s: %w", path, err)
	}

	parts := catalog.NewGenerator(a.Config.Catalog.Seed).Generate()
	if err := catalog.WriteFile(path, parts); err != nil {
		a.Logger.Warn("Failed to write generated catalog, serving it from memory", logging.WithFields(map[string]interface{}{
			"path":  path,
			"error": err,
		}))
	} else {
		a.Logger.Info("Generated parts catalog", logging.WithFields(map[string]interface{}{
			"path":  path,
			"parts": len(parts),
			"seed":  a.Config.Catalog.Seed,
		}))
	}
	return catalog.NewStore(parts)
}

func (a *App) initDatabase() {
	if a.Config.Vault.Backend != "postgres" {
		return
	}

	dbConfig := database.DefaultConfig()
	dbConfig.Host = a.Config.Database.Host
	dbConfig.Port = a.Config.Database.Port
	dbConfig.User = a.Config.Database.User
	dbConfig.Password = a.Config.Database.Password
	dbConfig.Database = a.Config.Database.Database
	dbConfig.SSLMode = a.Config.Database.SSLMode

	db, err := database.New(dbConfig)
	if err != nil {
		a.Logger.Warn("Failed to connect to PostgreSQL, using file vault", logging.WithField("error", err.Error()))
		return
	}

	a.Logger.Info("Connected to PostgreSQL")
	if err := db.Migrate(context.Background()); err != nil {
		a.Logger.Warn("Failed to run migrations, using file vault", logging.WithField("error", err.Error()))
		db.Close()
		return
	}

	a.db = db
}

func (a *App) initVaultBackend() vault.Backend {
	cfg := a.Config.Vault

	switch {
	case cfg.Backend == "postgres" && a.db != nil:
		a.Logger.Info("Using PostgreSQL project vault", logging.WithField("namespace", cfg.Namespace))
		return database.NewProjectStore(a.db, cfg.Namespace)
	case cfg.Backend == "redis" && a.redis != nil:
		a.Logger.Info("Using Redis project vault", logging.WithField("namespace", cfg.Namespace))
		return vault.NewRedisBackend(a.redis, cfg.Namespace)
	case cfg.Backend == "memory":
		a.Logger.Info("Using in-memory project vault")
		return vault.NewMemoryBackend()
	default:
		backend := vault.NewFileBackend(cfg.Dir, cfg.Namespace)
		a.Logger.Info("Using file project vault", logging.WithField("path", backend.Path()))
		return backend
	}
}

func (a *App) initNews() *news.Hub {
	var fetchers []news.Fetcher
	if a.Config.News.EnableFeeds {
		limiter := ratelimit.New(a.Config.News.RateLimit)
		fetcherConfig := news.DefaultConfig()
		fetchers = append(fetchers, news.DefaultRSSFetchers(limiter, fetcherConfig)...)
		fetchers = append(fetchers, news.DefaultForumFetchers(limiter, fetcherConfig)...)
		a.Logger.Info("News feeds enabled", logging.WithField("sources", len(fetchers)))
	}

	var archive news.Archive
	if a.db != nil {
		archive = database.NewNewsItemStore(a.db)
	}

	return news.New(fetchers, a.Cache, archive, tagging.New(), a.Logger)
}
