package services

import (
	"hyperlocal_backend/internal/auth"
	"hyperlocal_backend/internal/config"
	"hyperlocal_backend/internal/email"
	"hyperlocal_backend/internal/imageprocessor"
	"hyperlocal_backend/internal/repositories"
	"hyperlocal_backend/internal/storage"
)

// Deps - внешние зависимости сервисов.
type Deps struct {
	Store   repositories.Store
	Storage storage.Storage
	Mailer  email.Provider
	Images  *imageprocessor.Processor
	Tokens  *auth.TokenManager
	Config  *config.Config
	Now     Clock
}

// ServiceContainer содержит все сервисы приложения.
type ServiceContainer struct {
	AuthService              AuthService
	UserService              UserService
	EmailVerificationService EmailVerificationService
	JobService               JobService
	ApplicationService       ApplicationService
	RatingService            RatingService
	WorkerService            WorkerService
	VerificationService      VerificationService
	ConversationService      ConversationService
	AdminService             AdminService
}

func NewServiceContainer(d Deps) *ServiceContainer {
	cfg := d.Config
	emails := NewEmailVerificationService(d.Store, d.Mailer, cfg.Verification.EmailCodeTTL, d.Now)
	verification := NewVerificationService(d.Store, d.Storage, d.Images, UploadLimits{
		MaxSize:      cfg.Upload.MaxSize,
		AllowedTypes: cfg.Upload.AllowedTypes,
	}, d.Now)

	return &ServiceContainer{
		AuthService:              NewAuthService(d.Store, d.Tokens, emails, d.Now),
		UserService:              NewUserService(d.Store),
		EmailVerificationService: emails,
		JobService:               NewJobService(d.Store, d.Now),
		ApplicationService:       NewApplicationService(d.Store, d.Now),
		RatingService:            NewRatingService(d.Store, d.Now),
		WorkerService:            NewWorkerService(d.Store),
		VerificationService:      verification,
		ConversationService:      NewConversationService(d.Store, d.Now),
		AdminService:             NewAdminService(d.Store, verification),
	}
}
