package app

import (
	"context"
	"lingo_backend/internal/config"
	"lingo_backend/internal/controller"
	"lingo_backend/internal/repository"
	"lingo_backend/internal/service"
	"lingo_backend/pkg/database"
	"lingo_backend/pkg/logger"
	"lingo_backend/pkg/monitoring"
	"lingo_backend/pkg/security"
	"lingo_backend/pkg/tracing"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config   *config.Config
	Router   *gin.Engine
	DB       *gorm.DB
	Redis    *redis.Client
	services *services
}

type repositories struct {
	user         *repository.UserRepository
	course       *repository.CourseRepository
	unit         *repository.UnitRepository
	lesson       *repository.LessonRepository
	challenge    *repository.ChallengeRepository
	attempt      *repository.ChallengeProgressRepository
	userProgress *repository.UserProgressRepository
	subscription *repository.SubscriptionRepository
	streak       *repository.StreakRepository
}

type services struct {
	auth         *service.AuthService
	course       *service.CourseService
	lesson       *service.LessonService
	progress     *service.ProgressService
	subscription *service.SubscriptionService
	streak       *service.StreakService
	ai           *service.AIService
	generator    *service.GeneratorService
	leaderboard  *service.LeaderboardService
	storage      *service.StorageService
	content      *service.ContentService
}

type controllers struct {
	auth         *controller.AuthController
	course       *controller.CourseController
	lesson       *controller.LessonController
	progress     *controller.ProgressController
	streak       *controller.StreakController
	ai           *controller.AIController
	leaderboard  *controller.LeaderboardController
	media        *controller.MediaController
	subscription *controller.SubscriptionController
	content      *controller.ContentController
	health       *controller.HealthController
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:         repository.NewUserRepository(db),
		course:       repository.NewCourseRepository(db),
		unit:         repository.NewUnitRepository(db),
		lesson:       repository.NewLessonRepository(db),
		challenge:    repository.NewChallengeRepository(db),
		attempt:      repository.NewChallengeProgressRepository(db),
		userProgress: repository.NewUserProgressRepository(db),
		subscription: repository.NewSubscriptionRepository(db),
		streak:       repository.NewStreakRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, db *gorm.DB, rdb *redis.Client) *services {
	s := &services{}

	s.auth = service.NewAuthService(repos.user, cfg)
	s.subscription = service.NewSubscriptionService(repos.subscription)
	s.streak = service.NewStreakService(repos.streak)
	s.leaderboard = service.NewLeaderboardService(rdb, repos.userProgress, repos.user, logger.Log)
	s.progress = service.NewProgressService(
		repos.challenge,
		repos.attempt,
		repos.userProgress,
		repos.course,
		s.subscription,
		s.leaderboard,
		db,
	)
	s.course = service.NewCourseService(repos.course, repos.unit, repos.challenge, repos.attempt, repos.streak)
	s.lesson = service.NewLessonService(repos.lesson, repos.unit, repos.attempt)
	s.ai = service.NewAIService(cfg.AI)
	s.generator = service.NewGeneratorService(
		repos.course,
		repos.unit,
		repos.lesson,
		repos.challenge,
		repos.attempt,
		s.ai,
		db,
		logger.Log,
	)
	s.storage = service.NewStorageService(cfg, logger.Log)
	s.content = service.NewContentService(repos.course, repos.unit, repos.lesson, repos.challenge, db)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		auth:         controller.NewAuthController(s.auth),
		course:       controller.NewCourseController(s.course),
		lesson:       controller.NewLessonController(s.lesson),
		progress:     controller.NewProgressController(s.progress, s.auth),
		streak:       controller.NewStreakController(s.streak),
		ai:           controller.NewAIController(s.ai, s.generator),
		leaderboard:  controller.NewLeaderboardController(s.leaderboard),
		media:        controller.NewMediaController(s.storage),
		subscription: controller.NewSubscriptionController(s.subscription, a.Config.Webhook.Secret),
		content:      controller.NewContentController(s.content),
		health:       controller.NewHealthController(db, rdb),
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

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	if cfg.ForceMigrate || cfg.Server.Mode != "release" {
		if err := database.Migrate(db); err != nil {
			logger.Log.Fatal("Failed to migrate database", zap.Error(err))
		}
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		// The leaderboard degrades to database reads without redis.
		logger.Log.Warn("Failed to initialize redis", zap.Error(err))
		rdb = nil
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	if cfg.MigrateOnly {
		return app
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, db, rdb)
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
		if _, err := tracing.InitTracer("lingo-backend", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	return app
}

// ReloadConfig applies hot-reloadable settings from a freshly parsed config.
func (a *App) ReloadConfig(cfg *config.Config) {
	a.Config.AI = cfg.AI
	if a.services != nil && a.services.ai != nil {
		a.services.ai.UpdateConfig(cfg.AI)
	}
	logger.Log.Info("Configuration reloaded")
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
