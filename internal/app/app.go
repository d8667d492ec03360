package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/yungbote/courseprogress-backend/internal/data/db"
	apphttp "github.com/yungbote/courseprogress-backend/internal/http"
	"github.com/yungbote/courseprogress-backend/internal/observability"
	"github.com/yungbote/courseprogress-backend/internal/platform/logger"
	"github.com/yungbote/courseprogress-backend/internal/realtime"
	"github.com/yungbote/courseprogress-backend/internal/realtime/bus"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Server   *apphttp.Server
	Cfg      Config
	Repos    Repos
	Services Services
	SSEHub   *realtime.SSEHub
	Metrics  *observability.Metrics

	pg           *db.PostgresService
	redis        goredis.UniversalClient
	sseBus       bus.Bus
	shutdownOtel func(context.Context) error
	cancel       context.CancelFunc
}

func New(ctx context.Context) (*App, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	shutdownOtel := observability.InitOTel(ctx, log, cfg.Otel)
	metrics := observability.NewMetrics(log, cfg.Metrics)

	pg, err := db.NewPostgresService(log, cfg.Postgres)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init postgres: %w", err)
	}
	theDB := pg.DB()
	if cfg.AutoMigrate {
		if err := db.AutoMigrateAll(theDB); err != nil {
			_ = pg.Close()
			log.Sync()
			return nil, fmt.Errorf("postgres automigrate: %w", err)
		}
	}

	var (
		rdb    goredis.UniversalClient
		sseBus bus.Bus
	)
	if cfg.RedisAddr != "" {
		rdb = goredis.NewClient(&goredis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := rdb.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			_ = rdb.Close()
			_ = pg.Close()
			log.Sync()
			return nil, fmt.Errorf("redis ping %s: %w", cfg.RedisAddr, err)
		}
		sseBus, err = bus.NewRedisBus(log, rdb, cfg.RedisChannel)
		if err != nil {
			_ = rdb.Close()
			_ = pg.Close()
			log.Sync()
			return nil, fmt.Errorf("init redis SSE bus: %w", err)
		}
	} else {
		log.Info("REDIS_ADDR not set; events are delivered to this instance only")
	}

	ssehub := realtime.NewSSEHub(log, metrics)
	reposet := wireRepos(theDB, log)
	serviceset := wireServices(theDB, log, cfg, reposet, ssehub, sseBus, metrics)
	handlerset := wireHandlers(log, serviceset, ssehub)
	middleware := wireMiddleware(log, serviceset)
	server := wireServer(log, cfg, metrics, handlerset, middleware)

	return &App{
		Log:          log,
		DB:           theDB,
		Server:       server,
		Cfg:          cfg,
		Repos:        reposet,
		Services:     serviceset,
		SSEHub:       ssehub,
		Metrics:      metrics,
		pg:           pg,
		redis:        rdb,
		sseBus:       sseBus,
		shutdownOtel: shutdownOtel,
	}, nil
}

// Start launches background loops: the Redis forwarder that feeds the local
// hub, the metrics endpoint and its collectors.
func (a *App) Start() error {
	if a == nil || a.cancel != nil {
		return nil
	}
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel

	if a.sseBus != nil {
		if err := a.sseBus.StartForwarder(ctx, a.SSEHub.Broadcast); err != nil {
			return fmt.Errorf("start SSE forwarder: %w", err)
		}
	}
	if a.Metrics != nil {
		a.Metrics.StartServer(ctx, a.Log, a.Cfg.Metrics.Addr)
		a.Metrics.StartPostgresCollector(ctx, a.Log, a.DB)
		if a.redis != nil {
			a.Metrics.StartRedisCollector(ctx, a.Log, a.redis)
		}
	}
	return nil
}

func (a *App) Run() error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	a.Log.Info("Server listening", "port", a.Cfg.Port)
	return a.Server.Run(":" + a.Cfg.Port)
}

// Shutdown drains HTTP first, then stops background loops and closes clients.
func (a *App) Shutdown(ctx context.Context) error {
	if a == nil {
		return nil
	}
	var errs []error
	if err := a.Server.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("http shutdown: %w", err))
	}
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	if a.sseBus != nil {
		_ = a.sseBus.Close()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("redis close: %w", err))
		}
	}
	if a.shutdownOtel != nil {
		if err := a.shutdownOtel(ctx); err != nil {
			errs = append(errs, fmt.Errorf("otel shutdown: %w", err))
		}
	}
	if a.pg != nil {
		if err := a.pg.Close(); err != nil {
			errs = append(errs, fmt.Errorf("postgres close: %w", err))
		}
	}
	a.Log.Sync()
	return errors.Join(errs...)
}
