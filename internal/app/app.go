package app

import (
	"bizdiag_backend/internal/config"
	"bizdiag_backend/internal/controller"
	"bizdiag_backend/internal/repository"
	"bizdiag_backend/internal/service"
	"bizdiag_backend/pkg/configwatcher"
	"bizdiag_backend/pkg/database"
	"bizdiag_backend/pkg/logger"
	"bizdiag_backend/pkg/monitoring"
	"bizdiag_backend/pkg/security"
	"bizdiag_backend/pkg/tracing"
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config   *config.Config
	Router   *gin.Engine
	DB       *gorm.DB
	Redis    *redis.Client
	services *services
	tracer   *sdktrace.TracerProvider
}

type repositories struct {
	template       *repository.TemplateRepository
	session        *repository.SessionRepository
	recommendation *repository.RecommendationRepository
	content        *repository.ContentRepository
	activity       *repository.ActivityRepository
}

type services struct {
	catalog        *service.CatalogHolder
	activity       *service.ActivityService
	template       *service.TemplateService
	recommendation *service.RecommendationService
	diagnostic     *service.DiagnosticService
}

type controllers struct {
	health     *controller.HealthController
	template   *controller.TemplateController
	diagnostic *controller.DiagnosticController
	activity   *controller.ActivityController
}

func (a *App) initRepositories(db *gorm.DB, rdb *redis.Client) *repositories {
	return &repositories{
		template:       repository.NewTemplateRepository(db, rdb, a.Config.Cache.TemplateTTL),
		session:        repository.NewSessionRepository(db),
		recommendation: repository.NewRecommendationRepository(db),
		content:        repository.NewContentRepository(db, rdb, a.Config.Cache.ContentTTL),
		activity:       repository.NewActivityRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config) (*services, error) {
	catalog, err := service.LoadRecommendationCatalog(cfg.Diagnostic.RecommendationsFile)
	if err != nil {
		return nil, err
	}

	classifier := service.NewMaturityClassifier(service.ThresholdsFromConfig(cfg.Diagnostic.Thresholds))
	limits := service.RecommendationLimits{
		ContentPerArea:     cfg.Diagnostic.ContentPerArea,
		ContentFallback:    cfg.Diagnostic.ContentFallback,
		PlanAreasPerLevel:  cfg.Diagnostic.PlanAreasPerLevel,
		PlanContentPerStep: cfg.Diagnostic.PlanContentPerStep,
	}

	s := &services{
		catalog:  service.NewCatalogHolder(catalog),
		activity: service.NewActivityService(repos.activity),
		template: service.NewTemplateService(repos.template),
	}
	s.recommendation = service.NewRecommendationService(
		repos.recommendation, repos.session, repos.template, repos.content,
		s.catalog, classifier, limits,
	)
	s.diagnostic = service.NewDiagnosticService(
		repos.template, repos.session, s.recommendation, s.activity, classifier,
	)
	return s, nil
}

func (a *App) initControllers(s *services) *controllers {
	return &controllers{
		health:     controller.NewHealthController(a.DB, a.Redis),
		template:   controller.NewTemplateController(s.template),
		diagnostic: controller.NewDiagnosticController(s.diagnostic),
		activity:   controller.NewActivityController(s.activity),
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

// assemble wires the application on top of already opened stores.
func assemble(cfg *config.Config, db *gorm.DB, rdb *redis.Client) (*App, error) {
	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db, rdb)
	svcs, err := app.initServices(repos, cfg)
	if err != nil {
		return nil, err
	}
	app.services = svcs
	ctrls := app.initControllers(svcs)

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	app.Router = router

	app.setupMiddlewares(router, cfg)
	app.registerRoutes(router, ctrls, cfg)
	return app, nil
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	logger.Log.Info("Logger initialized successfully")

	if cfg.Server.Mode == gin.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.InitDB(cfg)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}
	if cfg.MigrateOnly {
		return &App{Config: cfg, DB: db}
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
	}

	monitoring.Init()

	app, err := assemble(cfg, db, rdb)
	if err != nil {
		logger.Log.Fatal("Failed to assemble application", zap.Error(err))
	}

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer(cfg.Tracing.ServiceName, cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.tracer = tp
	}

	return app
}

// watchCatalog hot-reloads the recommendation catalog file until ctx ends.
func (a *App) watchCatalog(ctx context.Context) {
	path := a.Config.Diagnostic.RecommendationsFile
	if path == "" {
		return
	}
	go func() {
		err := configwatcher.Watch(ctx, path, time.Second, func() error {
			return a.services.catalog.Reload(path)
		})
		if err != nil {
			logger.Log.Error("Recommendation catalog watcher stopped", zap.Error(err))
		}
	}()
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:              ":" + a.Config.Server.Port,
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stopWatch := context.WithCancel(context.Background())
	defer stopWatch()
	a.watchCatalog(ctx)

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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
	}

	a.services.activity.Wait()
	if a.tracer != nil {
		if err := a.tracer.Shutdown(shutdownCtx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}

	log.Println("Server exiting")
}
