package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sapaa_backend/internal/config"
	"sapaa_backend/internal/controller"
	"sapaa_backend/internal/repository"
	"sapaa_backend/internal/service"
	"sapaa_backend/pkg/authstate"
	"sapaa_backend/pkg/configwatcher"
	"sapaa_backend/pkg/database"
	"sapaa_backend/pkg/logger"
	"sapaa_backend/pkg/monitoring"
	"sapaa_backend/pkg/security"
	"sapaa_backend/pkg/tracing"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const configFile = "configs/config.yaml"

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	Events          *authstate.Broadcaster
	ctx             context.Context
	cancel          context.CancelFunc
	tracer          *sdktrace.TracerProvider
	unsubscribe     []func()
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user       *repository.UserRepository
	site       *repository.SiteRepository
	question   *repository.QuestionRepository
	inspection *repository.InspectionRepository
	attachment *repository.AttachmentRepository
	draft      *repository.DraftRepository
	token      *repository.TokenRepository
}

type services struct {
	auth       *service.AuthService
	user       *service.UserService
	site       *service.SiteService
	liability  *service.LiabilityService
	inspection *service.InspectionService
	dashboard  *service.DashboardService
	storage    *service.StorageService
}

type controllers struct {
	auth       *controller.AuthController
	user       *controller.UserController
	site       *controller.SiteController
	inspection *controller.InspectionController
	dashboard  *controller.DashboardController
	health     *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) initRepositories(db *gorm.DB, rdb *redis.Client, cfg *config.Config) *repositories {
	return &repositories{
		user:       repository.NewUserRepository(db),
		site:       repository.NewSiteRepository(db),
		question:   repository.NewQuestionRepository(db),
		inspection: repository.NewInspectionRepository(db),
		attachment: repository.NewAttachmentRepository(db),
		draft:      repository.NewDraftRepository(rdb, cfg.Inspection.DraftTTL),
		token:      repository.NewTokenRepository(rdb),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config) *services {
	s := &services{}

	s.storage = service.NewStorageService(a.ctx, cfg)
	s.auth = service.NewAuthService(repos.user, repos.token, a.Events, cfg)
	s.user = service.NewUserService(repos.user)
	s.site = service.NewSiteService(repos.site, repos.inspection)
	s.liability = service.NewLiabilityService(repos.user, cfg)
	s.inspection = service.NewInspectionService(
		repos.question,
		repos.inspection,
		repos.site,
		repos.user,
		repos.attachment,
		repos.draft,
		s.storage,
		cfg,
	)
	s.dashboard = service.NewDashboardService(repos.site, repos.user, repos.inspection, repos.question)

	return s
}

func (a *App) initControllers(s *services) *controllers {
	return &controllers{
		auth:       controller.NewAuthController(s.auth, s.liability),
		user:       controller.NewUserController(s.user),
		site:       controller.NewSiteController(s.site),
		inspection: controller.NewInspectionController(s.inspection),
		dashboard:  controller.NewDashboardController(s.dashboard),
		health:     controller.NewHealthController(a.DB, a.Redis),
	}
}

// subscribeAuthEvents 登录状态变更：更新最后登录时间、计数、记录日志
func (a *App) subscribeAuthEvents(users *repository.UserRepository) {
	a.unsubscribe = append(a.unsubscribe,
		a.Events.Subscribe(func(e authstate.Event) {
			if e.Type != authstate.SignedIn {
				return
			}
			ctx, cancel := context.WithTimeout(a.ctx, 2*time.Second)
			defer cancel()
			if err := users.UpdateLastLogin(ctx, e.UserID, e.At); err != nil {
				logger.Log.Warn("Failed to update last login", zap.Uint("userID", e.UserID), zap.Error(err))
			}
		}),
		a.Events.Subscribe(func(e authstate.Event) {
			monitoring.AuthEvents.WithLabelValues(string(e.Type)).Inc()
		}),
		a.Events.Subscribe(func(e authstate.Event) {
			logger.Log.Info("Auth state changed",
				zap.String("event", string(e.Type)),
				zap.Uint("userID", e.UserID),
				zap.String("role", e.Role),
			)
		}),
	)
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	router.Use(security.RateLimiter(a.ctx, cfg.RateLimit.MaxRequests, window))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// prepareDatabase 非 release 模式或显式指定时执行迁移，题库为空时写入默认题目
func prepareDatabase(db *gorm.DB, cfg *config.Config) error {
	if cfg.Server.Mode == "release" && !cfg.ForceMigrate {
		return nil
	}
	if err := database.Migrate(db); err != nil {
		return err
	}
	if cfg.Inspection.SeedQuestions {
		return database.SeedQuestions(db)
	}
	return nil
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	if err := prepareDatabase(db, cfg); err != nil {
		logger.Log.Fatal("Failed to migrate database", zap.Error(err))
	}
	if cfg.MigrateOnly {
		return &App{Config: cfg, DB: db}
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
	}

	var tp *sdktrace.TracerProvider
	if cfg.Tracing.Enabled {
		tp, err = tracing.InitTracer(tracing.ServiceName, cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Error("Failed to initialize tracing", zap.Error(err))
		}
	}

	app := newApp(cfg, db, rdb)
	app.tracer = tp

	app.RegisterConfigCallback(func(newCfg *config.Config) {
		logger.SetMode(newCfg.Server.Mode)
	})

	return app
}

// newApp 在已建立的数据库与 Redis 连接上装配路由
func newApp(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *App {
	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
		Events: authstate.NewBroadcaster(),
		ctx:    ctx,
		cancel: cancel,
	}

	repos := app.initRepositories(db, rdb, cfg)
	services := app.initServices(repos, cfg)
	controllers := app.initControllers(services)
	app.subscribeAuthEvents(repos.user)

	monitoring.Init()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	if cfg.Server.Mode == "debug" {
		router.Use(gin.Logger())
	}
	app.Router = router

	app.setupMiddlewares(router, cfg)
	// MinIO 不可用时也会回退到本地存储
	if _, ok := services.storage.Provider.(*service.LocalStorageProvider); ok {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}
	app.registerRoutes(router, controllers, repos, cfg)

	return app
}

// Close 停止后台协程并释放订阅
func (a *App) Close() {
	for _, unsubscribe := range a.unsubscribe {
		unsubscribe()
	}
	a.unsubscribe = nil
	if a.cancel != nil {
		a.cancel()
	}
}

func (a *App) watchConfig() {
	path, err := filepath.Abs(configFile)
	if err != nil {
		logger.Log.Warn("Config watcher disabled", zap.Error(err))
		return
	}
	go func() {
		err := configwatcher.WatchConfig(a.ctx, path, time.Second, func(newCfg *config.Config) {
			for _, cb := range a.configCallbacks {
				cb(newCfg)
			}
		})
		if err != nil {
			logger.Log.Warn("Config watcher stopped", zap.Error(err))
		}
	}()
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:              ":" + a.Config.Server.Port,
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	a.watchConfig()

	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
	}

	a.Close()
	if a.tracer != nil {
		if err := a.tracer.Shutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if a.Redis != nil {
		a.Redis.Close()
	}

	logger.Log.Info("Server exiting")
}
