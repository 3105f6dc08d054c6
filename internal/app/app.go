package app

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"intern_hub_backend/internal/config"
	"intern_hub_backend/internal/controller"
	"intern_hub_backend/internal/repository"
	"intern_hub_backend/internal/seed"
	"intern_hub_backend/internal/service"
	"intern_hub_backend/internal/util"
	"intern_hub_backend/pkg/configwatcher"
	"intern_hub_backend/pkg/database"
	"intern_hub_backend/pkg/logger"
	"intern_hub_backend/pkg/monitoring"
	"intern_hub_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// lastSeen 最多每分钟写一次
const activityInterval = time.Minute

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	tracer          *sdktrace.TracerProvider
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user       *repository.UserRepository
	profile    *repository.ProfileRepository
	course     *repository.CourseRepository
	progress   *repository.ProgressRepository
	submission *repository.SubmissionRepository
	evaluation *repository.EvaluationRepository
	oauthState *repository.OAuthStateRepository
}

type services struct {
	tokens     *util.TokenIssuer
	auth       *service.AuthService
	storage    *service.StorageService
	user       *service.UserService
	course     *service.CourseService
	progress   *service.ProgressService
	submission *service.SubmissionService
	evaluation *service.EvaluationService
}

type controllers struct {
	auth       *controller.AuthController
	user       *controller.UserController
	course     *controller.CourseController
	progress   *controller.ProgressController
	submission *controller.SubmissionController
	evaluation *controller.EvaluationController
	upload     *controller.UploadController
	health     *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) initRepositories(db *gorm.DB, rdb *redis.Client) *repositories {
	repos := &repositories{
		user:       repository.NewUserRepository(db),
		profile:    repository.NewProfileRepository(db),
		course:     repository.NewCourseRepository(db),
		progress:   repository.NewProgressRepository(db),
		submission: repository.NewSubmissionRepository(db),
		evaluation: repository.NewEvaluationRepository(db),
	}
	// 没有 Redis 时无法保存 OAuth state，Google 授权码流程随之关闭
	if rdb != nil {
		repos.oauthState = repository.NewOAuthStateRepository(rdb)
	}
	return repos
}

func (a *App) initServices(repos *repositories, cfg *config.Config) *services {
	s := &services{}

	s.tokens = util.NewTokenIssuer(cfg.JWT.Secret, cfg.JWT.ExpireTime)
	s.storage = service.NewStorageService(cfg)

	var google service.GoogleProvider
	if cfg.OAuth.Google.Enabled() {
		google = service.NewGoogleOAuth(cfg.OAuth.Google)
	}
	s.auth = service.NewAuthService(repos.user, repos.oauthState, s.tokens, google)

	s.user = service.NewUserService(repos.user, repos.profile, s.storage)
	s.course = service.NewCourseService(repos.course)
	s.progress = service.NewProgressService(repos.progress, repos.course)
	s.submission = service.NewSubmissionService(repos.submission, repos.user)
	s.evaluation = service.NewEvaluationService(repos.evaluation, repos.user)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB, cfg *config.Config) *controllers {
	return &controllers{
		auth: controller.NewAuthController(
			s.auth,
			cfg.JWT.CookieName,
			int(cfg.JWT.ExpireTime.Seconds()),
			cfg.IsRelease(),
			cfg.OAuth.Google.SuccessRedirect,
		),
		user:       controller.NewUserController(s.user),
		course:     controller.NewCourseController(s.course),
		progress:   controller.NewProgressController(s.progress),
		submission: controller.NewSubmissionController(s.submission),
		evaluation: controller.NewEvaluationController(s.evaluation),
		upload:     controller.NewUploadController(s.storage),
		health:     controller.NewHealthController(db),
	}
}

// New 用已建立的连接组装应用；rdb 可以为 nil
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *App {
	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db, rdb)
	services := app.initServices(repos, cfg)
	controllers := app.initControllers(services, db, cfg)

	monitoring.Init()
	util.RegisterValidator()

	if cfg.IsRelease() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	app.Router = router

	app.setupMiddlewares(router, cfg)
	app.registerRoutes(router, controllers, services)

	if cfg.Storage.Type == util.StorageLocal {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	return app
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database, cfg.ForceMigrate || !cfg.IsRelease())
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	if cfg.Seed {
		if err := seed.Run(context.Background(), db); err != nil {
			logger.Log.Fatal("Failed to seed database", zap.Error(err))
		}
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Warn("Redis unavailable, Google sign-in redirect flow disabled", zap.Error(err))
	}

	app := New(cfg, db, rdb)

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer(tracing.ServiceName, cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Error("Failed to initialize tracing", zap.Error(err))
		} else {
			app.tracer = tp
		}
	}

	app.RegisterConfigCallback(logger.SetLevel)

	return app
}

// watchConfig 配置文件变化时依次调用回调
func (a *App) watchConfig(ctx context.Context, configDir string) {
	err := configwatcher.WatchConfig(ctx, configDir, func(cfg *config.Config) {
		for _, cb := range a.configCallbacks {
			cb(cfg)
		}
	})
	if err != nil {
		logger.Log.Warn("Config watcher stopped", zap.Error(err))
	}
}

func (a *App) Run(configDir string) {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go a.watchConfig(ctx, configDir)

	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal("listen", zap.Error(err))
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
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

// Close 释放数据库、Redis 与 tracer
func (a *App) Close(ctx context.Context) {
	if a.tracer != nil {
		if err := a.tracer.Shutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			logger.Log.Error("Failed to close redis", zap.Error(err))
		}
	}
	if a.DB != nil {
		if err := database.Close(a.DB); err != nil {
			logger.Log.Error("Failed to close database", zap.Error(err))
		}
	}
	_ = logger.Log.Sync()
}
