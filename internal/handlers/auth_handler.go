package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hyperlocal_backend/internal/auth"
	"hyperlocal_backend/internal/logger"
	"hyperlocal_backend/internal/middleware"
	"hyperlocal_backend/internal/services"
	"hyperlocal_backend/internal/services/dto"
)

type AuthHandler struct {
	*BaseHandler
	authService  services.AuthService
	emailService services.EmailVerificationService
	sessions     *auth.SessionManager
}

func NewAuthHandler(
	base *BaseHandler,
	authService services.AuthService,
	emailService services.EmailVerificationService,
	sessions *auth.SessionManager,
) *AuthHandler {
	return &AuthHandler{
		BaseHandler:  base,
		authService:  authService,
		emailService: emailService,
		sessions:     sessions,
	}
}

func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup, g *Guards) {
	rg.POST("/register", g.RateLimit, h.Register)
	rg.POST("/login", g.RateLimit, h.Login)

	authed := rg.Group("", g.Auth)
	{
		authed.POST("/logout", h.Logout)
		authed.POST("/verify-email", g.VerifyRateLimit, h.VerifyEmail)
		authed.POST("/resend-verification", g.VerifyRateLimit, h.ResendVerification)
	}
}

// Register godoc
// @Summary Регистрация работника или работодателя
// @Description Создает пользователя, открывает сессию и отправляет код подтверждения email, если он указан
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "Данные регистрации"
// @Success 201 {object} dto.AuthResponse
// @Failure 400 {object} apperrors.ErrorResponse
// @Failure 409 {object} apperrors.ErrorResponse "Имя пользователя или email заняты"
// @Router /api/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.authService.Register(c.Request.Context(), &req)
	middleware.RecordAuthAttempt("register", err == nil)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.startSession(c, resp.User.ID)
	c.JSON(http.StatusCreated, resp)
}

// Login godoc
// @Summary Вход по имени пользователя и паролю
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Учетные данные"
// @Success 200 {object} dto.AuthResponse
// @Failure 401 {object} apperrors.ErrorResponse
// @Router /api/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.authService.Login(c.Request.Context(), &req)
	middleware.RecordAuthAttempt("login", err == nil)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.startSession(c, resp.User.ID)
	c.JSON(http.StatusOK, resp)
}

// startSession: без cookie клиент все равно может работать по токену.
func (h *AuthHandler) startSession(c *gin.Context, userID int64) {
	if err := h.sessions.Start(c.Writer, c.Request, userID); err != nil {
		logger.CtxWithError(c.Request.Context(), "Failed to start session", err, "user_id", userID)
	}
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.sessions.Clear(c.Writer, c.Request); err != nil {
		logger.CtxWithError(c.Request.Context(), "Failed to clear session", err)
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Logged out"})
}

// VerifyEmail godoc
// @Summary Подтверждение email шестизначным кодом
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.VerifyEmailRequest true "Код из письма"
// @Success 200 {object} dto.UserResponse
// @Failure 400 {object} apperrors.ErrorResponse "Код неверен или истек"
// @Failure 429 {object} apperrors.ErrorResponse "Слишком много попыток"
// @Router /api/verify-email [post]
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	var req dto.VerifyEmailRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	user, err := h.emailService.VerifyEmail(c.Request.Context(), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *AuthHandler) ResendVerification(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.emailService.ResendVerification(c.Request.Context(), userID); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Verification code sent"})
}
