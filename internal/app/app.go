package app

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"hyperlocal_backend/internal/auth"
	"hyperlocal_backend/internal/config"
	"hyperlocal_backend/internal/email"
	"hyperlocal_backend/internal/handlers"
	"hyperlocal_backend/internal/imageprocessor"
	"hyperlocal_backend/internal/logger"
	"hyperlocal_backend/internal/middleware"
	"hyperlocal_backend/internal/repositories"
	"hyperlocal_backend/internal/repositories/gormstore"
	"hyperlocal_backend/internal/repositories/memstore"
	"hyperlocal_backend/internal/routes"
	"hyperlocal_backend/internal/services"
	"hyperlocal_backend/internal/storage"
	"hyperlocal_backend/internal/validator"
	"hyperlocal_backend/internal/workers"

	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 10 * time.Second

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to open store", "error", err, "driver", cfg.Database.Driver)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("Failed to close store", "error", err)
		}
	}()

	workers.NewEmailCodeWorker(store, cfg.Verification.CleanupInterval).Start(ctx)

	mailer, err := newMailer(cfg)
	if err != nil {
		logger.Fatal("Failed to initialize email", "error", err)
	}

	ginRouter, err := SetupRouter(cfg, store, mailer)
	if err != nil {
		logger.Fatal("Failed to set up router", "error", err)
	}

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         address,
		Handler:      ginRouter,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info("Server starting", "address", address)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server startup error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}
}

// SetupRouter собирает сервисы, хэндлеры и middleware поверх готового хранилища.
func SetupRouter(cfg *config.Config, store repositories.Store, mailer email.Provider) (*gin.Engine, error) {
	storageInstance, err := storage.NewStorage(storage.Config{
		Type:       cfg.Storage.Type,
		BasePath:   cfg.Storage.BasePath,
		BaseURL:    cfg.Storage.BaseURL,
		Bucket:     cfg.Storage.Bucket,
		Region:     cfg.Storage.Region,
		AccessKey:  cfg.Storage.AccessKey,
		SecretKey:  cfg.Storage.SecretKey,
		Endpoint:   cfg.Storage.Endpoint,
		PublicRead: cfg.Storage.PublicRead,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	logger.Info("Storage initialized", "type", cfg.Storage.Type)

	jwtSecret := cfg.Auth.JWTSecret
	if jwtSecret == "" {
		logger.Warn("JWT secret is empty, generating an ephemeral one")
		if jwtSecret, err = randomSecret(); err != nil {
			return nil, err
		}
	}
	tokens := auth.NewTokenManager(jwtSecret, cfg.Auth.JWTTTL)
	sessions := auth.NewSessionManager(cfg.Auth.SessionSecret, cfg.Auth.SessionName, cfg.Auth.SessionMaxAge, cfg.Auth.CookieSecure)

	// 1. Сервисы
	serviceContainer := services.NewServiceContainer(services.Deps{
		Store:   store,
		Storage: storageInstance,
		Mailer:  mailer,
		Images:  imageprocessor.NewProcessor(cfg.Upload.ImageQuality, cfg.Verification.MaxImageEdge),
		Tokens:  tokens,
		Config:  cfg,
	})

	// 2. Хэндлеры
	appHandlers := initializeHandlers(serviceContainer, sessions)

	rateLimit, err := middleware.NewIPRateLimiter(cfg.RateLimit.AuthRate, cfg.RateLimit.RedisURL)
	if err != nil {
		return nil, err
	}
	verifyRateLimit, err := middleware.NewUserRateLimiter(cfg.RateLimit.VerifyRate, cfg.RateLimit.RedisURL)
	if err != nil {
		return nil, err
	}
	guards := &handlers.Guards{
		Auth:            middleware.AuthMiddleware(serviceContainer.AuthService, sessions),
		Admin:           middleware.AdminTokenMiddleware(cfg.Admin.Token),
		RateLimit:       rateLimit,
		VerifyRateLimit: verifyRateLimit,
	}

	// 3. Gin
	ginRouter := initializeGinRouter(cfg)

	// 4. Маршруты
	routes.RegisterRoutes(ginRouter, appHandlers, guards)

	return ginRouter, nil
}

func initializeHandlers(svc *services.ServiceContainer, sessions *auth.SessionManager) *handlers.AppHandlers {
	customValidator := validator.New()
	baseHandler := handlers.NewBaseHandler(customValidator)

	return &handlers.AppHandlers{
		AuthHandler:         handlers.NewAuthHandler(baseHandler, svc.AuthService, svc.EmailVerificationService, sessions),
		UserHandler:         handlers.NewUserHandler(baseHandler, svc.UserService),
		JobHandler:          handlers.NewJobHandler(baseHandler, svc.JobService, svc.ApplicationService),
		ApplicationHandler:  handlers.NewApplicationHandler(baseHandler, svc.ApplicationService),
		RatingHandler:       handlers.NewRatingHandler(baseHandler, svc.RatingService),
		WorkerHandler:       handlers.NewWorkerHandler(baseHandler, svc.WorkerService, svc.ApplicationService),
		VerificationHandler: handlers.NewVerificationHandler(baseHandler, svc.VerificationService),
		ConversationHandler: handlers.NewConversationHandler(baseHandler, svc.ConversationService),
		AdminHandler:        handlers.NewAdminHandler(baseHandler, svc.AdminService),
		HealthHandler:       handlers.NewHealthHandler(svc.AdminService),
	}
}

func initializeGinRouter(cfg *config.Config) *gin.Engine {
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.PrometheusMiddleware())
	router.Use(middleware.SecureMiddleware(middleware.SecureOptions(cfg.IsDevelopment())))
	router.Use(middleware.CORSMiddleware(cfg.Server.CORSOrigins))
	return router
}

// openStore выбирает хранилище по database.driver.
func openStore(ctx context.Context, cfg *config.Config) (repositories.Store, error) {
	if cfg.Database.Driver == "memory" {
		logger.Warn("Using in-memory store, data is lost on restart")
		return memstore.New(), nil
	}

	logger.Info("Connecting to database...", "driver", cfg.Database.Driver)
	store, err := gormstore.Open(ctx, gormstore.Config{
		Driver:          cfg.Database.Driver,
		DSN:             cfg.Database.URL,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		AutoMigrate:     cfg.Database.AutoMigrate,
		Logger:          logger.NewGormLogger(cfg.Server.Env, cfg.Database.SlowQuery),
	})
	if err != nil {
		return nil, err
	}
	logger.Info("Database connected")
	return store, nil
}

// newMailer: без SMTP письма пишутся в лог.
func newMailer(cfg *config.Config) (email.Provider, error) {
	templates, err := email.NewDefaultTemplateManager()
	if err != nil {
		return nil, err
	}

	if !cfg.Email.Enabled() {
		logger.Warn("SMTP is not configured, emails will only be logged")
		return email.NewMailer(email.LogSender{}, templates, cfg.Email.FromEmail), nil
	}

	sender := email.NewSMTPSender(email.FromConfig(cfg.Email))
	if err := sender.Validate(); err != nil {
		return nil, err
	}
	return email.NewMailer(sender, templates, cfg.Email.FromEmail), nil
}

func randomSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate secret: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
