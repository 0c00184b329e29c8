package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"gabigame_backend/internal/config"
	"gabigame_backend/internal/controller"
	"gabigame_backend/internal/gradebook"
	"gabigame_backend/internal/repository"
	"gabigame_backend/internal/service"
	"gabigame_backend/pkg/configwatcher"
	"gabigame_backend/pkg/database"
	"gabigame_backend/pkg/lock"
	"gabigame_backend/pkg/logger"
	"gabigame_backend/pkg/monitoring"
	"gabigame_backend/pkg/security"
	"gabigame_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config    *config.Config
	Router    *gin.Engine
	DB        *gorm.DB
	Redis     *redis.Client
	Gradebook gradebook.Sink

	configDir       string
	limiter         *security.RateLimiter
	tracer          *sdktrace.TracerProvider
	configCallbacks []configwatcher.Reloader
}

type repositories struct {
	game    *repository.GameRepository
	attempt *repository.AttemptRepository
	grade   *repository.GradeRepository
}

type services struct {
	grade   *service.GradeService
	attempt *service.AttemptService
	game    *service.GameService
}

type controllers struct {
	signal *controller.SignalController
	game   *controller.GameController
	grade  *controller.GradeController
	health *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback configwatcher.Reloader) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		game:    repository.NewGameRepository(db),
		attempt: repository.NewAttemptRepository(db),
		grade:   repository.NewGradeRepository(db),
	}
}

// newLocker 启用 Redis 时使用分布式锁，否则进程内加锁
func (a *App) newLocker() lock.Locker {
	if a.Redis != nil {
		return lock.NewRedisLocker(a.Redis, a.Config.Lock.TTL(), a.Config.Lock.Wait(), logger.Log)
	}
	return lock.NewMemoryLocker(a.Config.Lock.Wait())
}

func (a *App) initServices(repos *repositories) *services {
	locker := a.newLocker()
	s := &services{}
	s.grade = service.NewGradeService(repos.game, repos.attempt, repos.grade, a.Gradebook, locker, logger.Log)
	s.attempt = service.NewAttemptService(a.DB, repos.game, repos.attempt, s.grade, locker, logger.Log)
	s.game = service.NewGameService(repos.game, s.grade, a.Config.Game.ClientURL, logger.Log)
	return s
}

func (a *App) initControllers(s *services) *controllers {
	return &controllers{
		signal: controller.NewSignalController(s.attempt),
		game:   controller.NewGameController(s.game, s.attempt, s.grade),
		grade:  controller.NewGradeController(s.grade),
		health: controller.NewHealthController(a.DB, a.Redis),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	a.limiter = security.NewRateLimiter(cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute)
	router.Use(a.limiter.Middleware())

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func (a *App) registerDefaultCallbacks() {
	a.RegisterConfigCallback(logger.SetLevel)
	a.RegisterConfigCallback(func(cfg *config.Config) {
		a.limiter.Update(cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute)
	})
}

// NewApp configDir 为空时不监听配置文件变化
func NewApp(cfg *config.Config, configDir string) (*App, error) {
	logger.InitLogger(cfg)
	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database, cfg.Server.Mode == gin.DebugMode)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if cfg.ForceMigrate || cfg.Server.Mode != gin.ReleaseMode {
		if err := database.Migrate(db); err != nil {
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	app := &App{
		Config:    cfg,
		DB:        db,
		configDir: configDir,
	}
	if cfg.MigrateOnly {
		return app, nil
	}

	if cfg.Redis.Enabled {
		rdb, err := database.InitRedis(&cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize redis: %w", err)
		}
		app.Redis = rdb
	}

	app.Gradebook, err = gradebook.New(cfg.Gradebook, logger.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize gradebook: %w", err)
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos)
	controllers := app.initControllers(services)

	monitoring.Init()

	if cfg.Tracing.Enabled {
		app.tracer, err = tracing.InitTracer("gabigame", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize tracing: %w", err)
		}
	}

	gin.SetMode(cfg.Server.Mode)
	router := gin.New()
	router.Use(gin.Recovery())
	app.Router = router

	app.setupMiddlewares(router, cfg)
	app.registerRoutes(router, controllers, cfg)
	app.registerDefaultCallbacks()

	return app, nil
}

func (a *App) Run() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if a.configDir != "" {
		if err := configwatcher.Watch(ctx, a.configDir, a.configCallbacks...); err != nil {
			logger.Log.Warn("config hot reload disabled", zap.Error(err))
		}
	}

	srv := &http.Server{
		Addr:              ":" + a.Config.Server.Port,
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatal("listen failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
	}
	a.Close(shutdownCtx)

	logger.Log.Info("Server exiting")
}

// Close 释放外部连接
func (a *App) Close(ctx context.Context) {
	if a.limiter != nil {
		a.limiter.Stop()
	}
	if a.Gradebook != nil {
		if err := a.Gradebook.Close(); err != nil {
			logger.Log.Error("Failed to close gradebook", zap.Error(err))
		}
	}
	if a.tracer != nil {
		if err := a.tracer.Shutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if a.Redis != nil {
		a.Redis.Close()
	}
	if sqlDB, err := a.DB.DB(); err == nil {
		sqlDB.Close()
	}
}
