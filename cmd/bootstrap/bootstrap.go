package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-therapy-platform/config"
	deliveryHttp "go-therapy-platform/internal/delivery/http"
	"go-therapy-platform/internal/delivery/http/handler"
	"go-therapy-platform/internal/delivery/http/middleware"
	"go-therapy-platform/internal/infrastructure/cache"
	"go-therapy-platform/internal/infrastructure/database"
	"go-therapy-platform/internal/infrastructure/llm"
	"go-therapy-platform/internal/repository"
	"go-therapy-platform/internal/service"
	"go-therapy-platform/internal/usecase"
	"go-therapy-platform/pkg/jwt"
	"go-therapy-platform/pkg/metrics"
	"go-therapy-platform/pkg/validator"

	"github.com/cloudwego/eino/components/model"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

const metricsNamespace = "therapy"

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	DB          *gorm.DB
	RedisClient *redis.Client
	TokenStore  cache.TokenStore
	Metrics     *metrics.Metrics
	Log         *logrus.Logger
	Server      *http.Server
}

// Init loads configuration and opens the database. It does not build the
// HTTP server, so one-shot commands can reuse it.
func Init() (*App, error) {
	app := &App{}

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Config = cfg

	// Setup logger
	app.Log = setupLogger(cfg.App.Debug)
	app.Log.Info("Configuration loaded successfully")

	// Initialize database
	db, err := database.NewConnection(cfg.DB, cfg.App.Debug)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db

	return app, nil
}

// New creates a new App instance with all dependencies initialized
func New() (*App, error) {
	app, err := Init()
	if err != nil {
		return nil, err
	}
	cfg := app.Config

	if cfg.DB.AutoMigrate {
		if err := database.Migrate(app.DB, cfg.DB.Driver); err != nil {
			app.Close()
			return nil, err
		}
		app.Log.Info("Database schema is up to date")
	}

	// Token store: redis when configured, in-process otherwise
	if cfg.Redis.Enabled() {
		redisClient, err := cache.NewRedisClient(cfg.Redis)
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		app.RedisClient = redisClient
		app.TokenStore = cache.NewRedisTokenStore(redisClient)
		app.Log.Info("Redis connected successfully")
	} else {
		app.TokenStore = cache.NewMemoryTokenStore(time.Minute)
		app.Log.Warn("REDIS_HOST not set, tokens are kept in memory")
	}

	app.Metrics = metrics.NewMetrics(metricsNamespace)

	var chatModel model.BaseChatModel
	if cfg.LLM.APIKey != "" {
		chatModel = llm.NewOpenRouterChatModel(cfg.LLM, nil)
	} else {
		app.Log.Warn("OPENROUTER_API_KEY not set, chat replies use the fallback responder")
	}

	httpHandler := NewHTTPHandler(Deps{
		Config:     cfg,
		DB:         app.DB,
		TokenStore: app.TokenStore,
		ChatModel:  chatModel,
		Metrics:    app.Metrics,
		Log:        app.Log,
	})

	app.Server = &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.App.Port),
		Handler:           httpHandler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return app, nil
}

// setupLogger configures the logrus logger
func setupLogger(debug bool) *logrus.Logger {
	log := logrus.StandardLogger()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)
	if debug {
		log.SetLevel(logrus.DebugLevel)
	} else {
		log.SetLevel(logrus.InfoLevel)
	}
	return log
}

// Deps are the collaborators the HTTP layer is built from.
type Deps struct {
	Config     *config.Config
	DB         *gorm.DB
	TokenStore cache.TokenStore
	ChatModel  model.BaseChatModel
	Metrics    *metrics.Metrics
	Log        *logrus.Logger
}

// Usecases builds every usecase over the given dependencies.
type Usecases struct {
	Auth         usecase.AuthUsecase
	User         usecase.UserUsecase
	Patient      usecase.PatientUsecase
	Session      usecase.SessionUsecase
	Message      usecase.MessageUsecase
	Report       usecase.ReportUsecase
	Notification usecase.NotificationUsecase
	Chat         usecase.ChatUsecase
	Dashboard    usecase.DashboardUsecase
	AuditLog     usecase.AuditLogUsecase
}

func NewUsecases(d Deps, jwtService *jwt.JWTService) Usecases {
	db, log := d.DB, d.Log

	// Initialize repositories
	userRepo := repository.NewUserRepository()
	patientProfileRepo := repository.NewPatientProfileRepository()
	sessionRepo := repository.NewSessionRepository()
	messageRepo := repository.NewMessageRepository()
	reportRepo := repository.NewReportRepository()
	notificationRepo := repository.NewNotificationRepository()
	conversationRepo := repository.NewConversationRepository()
	auditLogRepo := repository.NewAuditLogRepository()

	// Initialize services
	auditService := service.NewAuditService(log, auditLogRepo)
	notificationService := service.NewNotificationService(log, notificationRepo, d.Metrics)
	assistant := service.NewAssistant(d.ChatModel, log, d.Metrics)

	return Usecases{
		Auth:         usecase.NewAuthUsecase(db, log, userRepo, patientProfileRepo, jwtService, d.TokenStore, auditService),
		User:         usecase.NewUserUsecase(db, log, userRepo, patientProfileRepo, d.TokenStore, auditService),
		Patient:      usecase.NewPatientUsecase(db, log, userRepo, patientProfileRepo, sessionRepo, reportRepo, auditService),
		Session:      usecase.NewSessionUsecase(db, log, sessionRepo, patientProfileRepo, notificationService, auditService),
		Message:      usecase.NewMessageUsecase(db, log, messageRepo, userRepo, patientProfileRepo, notificationService, auditService),
		Report:       usecase.NewReportUsecase(db, log, reportRepo, patientProfileRepo, auditService),
		Notification: usecase.NewNotificationUsecase(db, log, notificationRepo, userRepo, notificationService, auditService),
		Chat:         usecase.NewChatUsecase(db, log, conversationRepo, assistant),
		Dashboard:    usecase.NewDashboardUsecase(db, log, userRepo, patientProfileRepo, sessionRepo, conversationRepo, notificationRepo),
		AuditLog:     usecase.NewAuditLogUsecase(db, log, auditLogRepo),
	}
}

// NewHTTPHandler wires repositories, usecases, handlers and middleware into
// the routed HTTP handler.
func NewHTTPHandler(d Deps) http.Handler {
	cfg := d.Config

	// Initialize JWT service
	jwtService := jwt.NewJWTService(cfg.JWT)

	// Initialize validator
	customValidator := validator.NewValidator()

	uc := NewUsecases(d, jwtService)

	// Initialize middleware
	corsMiddleware := middleware.NewCORSMiddleware(cfg.Security.TrustedOrigins)
	csrfMiddleware := middleware.NewCSRFMiddleware(corsMiddleware, cfg.Security.CookieSecure)
	middlewares := deliveryHttp.Middlewares{
		Auth: middleware.NewAuthMiddleware(jwtService, d.TokenStore, d.Log),
		CORS: corsMiddleware,
		CSRF: csrfMiddleware,
		RateLimiter: middleware.NewRateLimiter(middleware.RateLimiterConfig{
			Rate:           rate.Limit(cfg.RateLimit.RequestsPerSecond),
			Burst:          cfg.RateLimit.Burst,
			TrustedProxies: cfg.Security.TrustedProxies,
		}, d.Metrics),
		Logger:       middleware.NewRequestLogger(d.Log, d.Metrics),
		AllowedHosts: cfg.App.AllowedHosts,
		Log:          d.Log,
	}

	// Initialize handlers
	handlers := deliveryHttp.Handlers{
		Auth:         handler.NewAuthHandler(uc.Auth, customValidator, jwtService, csrfMiddleware, cfg.Security.CookieSecure),
		User:         handler.NewUserHandler(uc.User, customValidator),
		Patient:      handler.NewPatientHandler(uc.Patient, customValidator),
		Session:      handler.NewSessionHandler(uc.Session, customValidator),
		Message:      handler.NewMessageHandler(uc.Message, customValidator),
		Report:       handler.NewReportHandler(uc.Report, customValidator),
		Notification: handler.NewNotificationHandler(uc.Notification, customValidator),
		Chat:         handler.NewChatHandler(uc.Chat, customValidator),
		Dashboard:    handler.NewDashboardHandler(uc.Dashboard),
		AuditLog:     handler.NewAuditLogHandler(uc.AuditLog),
	}

	// Initialize router
	return deliveryHttp.NewRouter(handlers, middlewares, d.Metrics).Setup()
}

// Run starts the HTTP server and handles graceful shutdown
func (app *App) Run() {
	// Start server in goroutine
	go func() {
		app.Log.Infof("Server starting on port %s", app.Config.App.Port)
		app.Log.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			app.Log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	app.waitForShutdown()
}

// waitForShutdown blocks until an interrupt signal is received
func (app *App) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	app.Log.Info("Shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown HTTP server gracefully
	if err := app.Server.Shutdown(ctx); err != nil {
		app.Log.Errorf("Server forced to shutdown: %v", err)
	}

	// Close connections
	app.Close()

	app.Log.Info("Server shutdown complete")
}

// Close closes all connections (database, redis, etc.)
func (app *App) Close() {
	// Close database connection
	if app.DB != nil {
		sqlDB, err := app.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}

	// Close Redis connection
	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}
