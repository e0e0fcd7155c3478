package app

import (
	"context"
	"learnpath_backend/internal/config"
	"learnpath_backend/internal/controller"
	"learnpath_backend/internal/repository"
	"learnpath_backend/internal/service"
	"learnpath_backend/pkg/configwatcher"
	"learnpath_backend/pkg/database"
	"learnpath_backend/pkg/logger"
	"learnpath_backend/pkg/monitoring"
	"learnpath_backend/pkg/security"
	"learnpath_backend/pkg/tracing"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	recalibrateInterval = 24 * time.Hour
	purgeInterval       = time.Hour
)

type App struct {
	Config          *config.Config
	ConfigFile      string
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	services        *services
	tracerProvider  *sdktrace.TracerProvider
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user           *repository.UserRepository
	checkin        *repository.CheckinRepository
	learningLog    *repository.LearningLogRepository
	motivation     *repository.MotivationRepository
	profile        *repository.LearningProfileRepository
	careerPath     *repository.CareerPathRepository
	recommendation *repository.RecommendationRepository
	studyPlan      *repository.StudyPlanRepository
	course         *repository.CourseRepository
	performance    *repository.PerformanceRepository
	snapshot       *repository.SnapshotRepository
}

type services struct {
	profiles       *service.ProfileBuilder
	scorer         *service.PathScorer
	calibrator     *service.DifficultyCalibrator
	collaborative  *service.CollaborativeRecommender
	engagement     *service.EngagementMonitor
	studyPlan      *service.StudyPlanService
	recommendation *service.RecommendationService
}

type controllers struct {
	recommendation *controller.RecommendationController
	studyPlan      *controller.StudyPlanController
	admin          *controller.AdminController
	health         *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:           repository.NewUserRepository(db),
		checkin:        repository.NewCheckinRepository(db),
		learningLog:    repository.NewLearningLogRepository(db),
		motivation:     repository.NewMotivationRepository(db),
		profile:        repository.NewLearningProfileRepository(db),
		careerPath:     repository.NewCareerPathRepository(db),
		recommendation: repository.NewRecommendationRepository(db),
		studyPlan:      repository.NewStudyPlanRepository(db),
		course:         repository.NewCourseRepository(db),
		performance:    repository.NewPerformanceRepository(db),
		snapshot:       repository.NewSnapshotRepository(db),
	}
}

func initServices(repos *repositories, cfg config.RecommenderConfig, rdb *redis.Client) *services {
	s := &services{}

	s.profiles = service.NewProfileBuilder(repos.profile)
	s.scorer = service.NewPathScorer(repos.careerPath, repos.recommendation, cfg)
	s.calibrator = service.NewDifficultyCalibrator(repos.profile, repos.performance, repos.user, cfg.Calibration)
	s.collaborative = service.NewCollaborativeRecommender(repos.snapshot, repos.course, rdb, cfg.Collaborative)
	s.engagement = service.NewEngagementMonitor(repos.user, repos.checkin, repos.performance, cfg.Engagement)
	s.studyPlan = service.NewStudyPlanService(
		repos.studyPlan,
		repos.profile,
		repos.careerPath,
		repos.course,
		repos.recommendation,
		repos.learningLog,
		repos.user,
		repos.motivation,
		cfg.Plan,
	)
	s.recommendation = service.NewRecommendationService(
		repos.profile,
		repos.recommendation,
		repos.careerPath,
		repos.course,
		repos.user,
		s.profiles,
		s.scorer,
		s.calibrator,
		s.collaborative,
		s.engagement,
		s.studyPlan,
		cfg,
	)

	return s
}

func initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		recommendation: controller.NewRecommendationController(s.recommendation),
		studyPlan:      controller.NewStudyPlanController(s.recommendation),
		admin:          controller.NewAdminController(s.calibrator),
		health:         controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 600
	}
	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	router.Use(security.RateLimiter(maxRequests, window))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// startBackgroundTasks 每日批量校准难度，每小时清理过期推荐；两者都可重复执行
func (a *App) startBackgroundTasks(ctx context.Context, s *services) {
	go func() {
		ticker := time.NewTicker(recalibrateInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if _, err := s.calibrator.RecalibrateAll(ctx); err != nil {
					logger.Log.Error("scheduled recalibration error", zap.Error(err))
				}
			}
		}
	}()

	go func() {
		ticker := time.NewTicker(purgeInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				n, err := s.recommendation.PurgeExpiredRecommendations(ctx)
				if err != nil {
					logger.Log.Error("purge expired recommendations error", zap.Error(err))
					continue
				}
				if n > 0 {
					logger.Log.Info("过期推荐已清理", zap.Int64("deleted", n))
				}
			}
		}
	}()
}

func NewApp(cfg *config.Config, configFile string) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database, cfg.Server.Mode)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	if cfg.ForceMigrate || cfg.Server.Mode != "release" {
		if err := database.Migrate(db); err != nil {
			logger.Log.Fatal("Failed to migrate database", zap.Error(err))
		}
	}

	app := &App{
		Config:     cfg,
		ConfigFile: configFile,
		DB:         db,
	}
	if cfg.MigrateOnly {
		return app
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		// 缓存只用于协同过滤结果，不可用时降级为直接计算
		logger.Log.Warn("Failed to initialize redis, collaborative cache disabled", zap.Error(err))
		rdb = nil
	}
	app.Redis = rdb

	repos := initRepositories(db)
	app.services = initServices(repos, cfg.Recommender, rdb)
	controllers := initControllers(app.services, db, rdb)

	// 监控初始化
	monitoring.Init()

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("learnpath-recommender", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.tracerProvider = tp
	}

	gin.SetMode(cfg.Server.Mode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	app.Router = router

	app.setupMiddlewares(router, cfg)
	app.registerRoutes(router, controllers, repos, cfg)

	// 配置热加载只调整日志级别
	app.RegisterConfigCallback(func(newCfg *config.Config) {
		logger.SetMode(newCfg.Server.Mode)
		logger.Log.Info("Log level updated", zap.String("level", logger.Level().String()))
	})

	return app
}

func (a *App) Run() {
	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	a.startBackgroundTasks(ctx, a.services)

	if a.ConfigFile != "" {
		callbacks := make([]configwatcher.Reloader, len(a.configCallbacks))
		for i, cb := range a.configCallbacks {
			callbacks[i] = configwatcher.Reloader(cb)
		}
		go func() {
			if err := configwatcher.Watch(ctx, filepath.Clean(a.ConfigFile), callbacks...); err != nil {
				logger.Log.Error("Config watcher stopped", zap.Error(err))
			}
		}()
	}

	srv := &http.Server{
		Addr:              ":" + a.Config.Server.Port,
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// 启动服务器
	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal("listen", zap.Error(err))
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
	}

	if a.tracerProvider != nil {
		if err := a.tracerProvider.Shutdown(shutdownCtx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if a.Redis != nil {
		_ = a.Redis.Close()
	}

	logger.Log.Info("Server exiting")
}
