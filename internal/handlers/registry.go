package handlers

// AppHandlers содержит все хэндлеры приложения.
type AppHandlers struct {
	AuthHandler         *AuthHandler
	UserHandler         *UserHandler
	JobHandler          *JobHandler
	ApplicationHandler  *ApplicationHandler
	RatingHandler       *RatingHandler
	WorkerHandler       *WorkerHandler
	VerificationHandler *VerificationHandler
	ConversationHandler *ConversationHandler
	AdminHandler        *AdminHandler
	HealthHandler       *HealthHandler
}
