package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"hr_recruit_backend/internal/config"
	"hr_recruit_backend/internal/controller"
	"hr_recruit_backend/internal/repository"
	"hr_recruit_backend/internal/scheduler"
	"hr_recruit_backend/internal/service"
	"hr_recruit_backend/pkg/configwatcher"
	"hr_recruit_backend/pkg/database"
	"hr_recruit_backend/pkg/logger"
	"hr_recruit_backend/pkg/monitoring"
	"hr_recruit_backend/pkg/security"
	"hr_recruit_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// anchorTTL bounds how long a first-attempt timestamp stays cached. The
// database stays the source of truth.
const anchorTTL = 24 * time.Hour

type App struct {
	Config          *config.Config
	ConfigPath      string
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	services        *services
	scheduler       *scheduler.Scheduler
	tracer          *sdktrace.TracerProvider
	configCallbacks []func(*config.Config)
}

type repositories struct {
	vacancy     *repository.VacancyRepository
	vacancyFile *repository.VacancyFileRepository
	testing     *repository.TestingRepository
	question    *repository.QuestionRepository
	attempt     *repository.AttemptRepository
	anchors     *repository.AnchorCache
	approved    *repository.ApprovedCache
}

type services struct {
	storage  *service.MinioStorageProvider
	deadline *service.DeadlinePolicy
	vacancy  *service.VacancyService
	testing  *service.TestingService
	question *service.QuestionService
	approved *service.ApprovedService
}

type controllers struct {
	vacancy    *controller.VacancyController
	testing    *controller.TestingController
	question   *controller.QuestionController
	permission *controller.PermissionController
	health     *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) initRepositories(db *gorm.DB, rdb *redis.Client, cfg *config.Config) *repositories {
	return &repositories{
		vacancy:     repository.NewVacancyRepository(db),
		vacancyFile: repository.NewVacancyFileRepository(db),
		testing:     repository.NewTestingRepository(db),
		question:    repository.NewQuestionRepository(db),
		attempt:     repository.NewAttemptRepository(db),
		anchors:     repository.NewAnchorCache(rdb, anchorTTL),
		approved:    repository.NewApprovedCache(rdb, cfg.ApprovedCacheTTL()),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config) *services {
	s := &services{}

	storage, err := service.NewMinioStorageProvider(&cfg.Storage)
	if err != nil {
		logger.Log.Fatal("Failed to initialize object storage", zap.Error(err))
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := storage.EnsureBucket(ctx); err != nil {
		// uploads fail until the bucket exists, the rest of the API still works
		logger.Log.Error("Failed to ensure storage bucket", zap.String("bucket", cfg.Storage.MinioBucket), zap.Error(err))
	}
	s.storage = storage

	s.deadline = service.NewDeadlinePolicy(repos.attempt, repos.anchors, time.Now)
	s.vacancy = service.NewVacancyService(repos.vacancy, repos.vacancyFile, s.storage, repos.approved)
	s.testing = service.NewTestingService(
		repos.testing,
		repos.vacancy,
		repos.question,
		repos.attempt,
		repos.anchors,
		s.deadline,
		repos.approved,
	)
	s.question = service.NewQuestionService(repos.testing, repos.vacancy, repos.question)
	s.approved = service.NewApprovedService(repos.vacancy, repos.attempt, repos.approved)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		vacancy:    controller.NewVacancyController(s.vacancy),
		testing:    controller.NewTestingController(s.testing, s.approved),
		question:   controller.NewQuestionController(s.question),
		permission: controller.NewPermissionController(),
		health:     controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func (a *App) startBackgroundTasks(s *services) {
	a.scheduler = scheduler.New(context.Background())
	err := a.scheduler.Add(a.Config.Approved.Schedule, "refresh-approved", func(ctx context.Context) error {
		_, err := s.approved.Refresh(ctx)
		return err
	}, true)
	if err != nil {
		logger.Log.Fatal("Failed to schedule approved refresh", zap.String("schedule", a.Config.Approved.Schedule), zap.Error(err))
	}
	a.scheduler.Start()

	if a.ConfigPath != "" {
		go configwatcher.WatchConfig(a.ConfigPath, a.Config, func(cfg interface{}) {
			newCfg, ok := cfg.(*config.Config)
			if !ok {
				return
			}
			for _, cb := range a.configCallbacks {
				cb(newCfg)
			}
		})
	}
}

// NewApp connects the storage backends and builds the router. configDir is
// the directory holding config.yaml and is watched for log level changes.
func NewApp(cfg *config.Config, configDir string) *App {
	logger.InitLogger(cfg)
	logger.Log.Info("Logger initialized successfully")

	migrate := cfg.ForceMigrate || cfg.Server.Mode != "release"
	db, err := database.InitDB(&cfg.Database, cfg.Server.Mode, migrate)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	app := &App{
		Config: cfg,
		DB:     db,
	}
	if cfg.MigrateOnly {
		return app
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		// caches fall back to the database
		logger.Log.Warn("Redis unavailable, running without cache", zap.Error(err))
		rdb = nil
	}
	app.Redis = rdb
	if configDir != "" {
		app.ConfigPath = filepath.Join(configDir, "config.yaml")
	}

	repos := app.initRepositories(db, rdb, cfg)
	services := app.initServices(repos, cfg)
	app.services = services
	controllers := app.initControllers(services, db, rdb)

	monitoring.Init()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer(tracing.ServiceName, cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.tracer = tp
	}

	app.registerRoutes(router, controllers, cfg)

	app.RegisterConfigCallback(func(newCfg *config.Config) {
		logger.SetLevel(newCfg)
		logger.Log.Info("Log level reloaded", zap.String("mode", newCfg.Server.Mode), zap.String("log_level", newCfg.Server.LogLevel))
	})
	app.startBackgroundTasks(services)

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatal("listen", zap.Error(err))
		}
	}()

	// wait for an interrupt, then shut down with a 5 second grace period
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	if a.scheduler != nil {
		a.scheduler.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
	}

	if a.tracer != nil {
		if err := a.tracer.Shutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}

	logger.Log.Info("Server exiting")
}
