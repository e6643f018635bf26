package middleware

import (
	"crypto/subtle"
	"strings"

	"github.com/gin-gonic/gin"

	"hyperlocal_backend/internal/auth"
	"hyperlocal_backend/internal/logger"
	"hyperlocal_backend/internal/models"
	"hyperlocal_backend/internal/services"
	"hyperlocal_backend/pkg/apperrors"
	"hyperlocal_backend/pkg/contextkeys"
)

// AuthMiddleware определяет пользователя по cookie сессии, а без нее - по
// заголовку Authorization: Bearer. Пользователь перечитывается из хранилища,
// поэтому удаленный аккаунт теряет доступ сразу.
func AuthMiddleware(authService services.AuthService, sessions *auth.SessionManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := sessions.UserID(c.Request)
		if !ok {
			token, found := bearerToken(c.GetHeader("Authorization"))
			if !found {
				apperrors.HandleError(c, apperrors.ErrAuthRequired)
				return
			}
			id, err := authService.ParseToken(token)
			if err != nil {
				apperrors.HandleError(c, err)
				return
			}
			userID = id
		}

		user, err := authService.Authenticate(c.Request.Context(), userID)
		if err != nil {
			apperrors.HandleError(c, err)
			return
		}

		c.Set(contextkeys.UserIDKey, user.ID)
		c.Set(contextkeys.UserKey, user)
		c.Set(contextkeys.RoleKey, user.Role)
		c.Request = c.Request.WithContext(logger.WithUserID(c.Request.Context(), user.ID))
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}

// RequireRoles - проверка роли для маршрутов без целевого объекта (дашборды).
// Маршруты с :id проверяют роль в сервисе, после поиска объекта.
func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	roleSet := make(map[models.UserRole]bool, len(roles))
	for _, r := range roles {
		roleSet[r] = true
	}

	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			apperrors.HandleError(c, apperrors.ErrAuthRequired)
			return
		}
		if !roleSet[user.Role] {
			apperrors.HandleError(c, apperrors.ErrInsufficientPermissions)
			return
		}
		c.Next()
	}
}

// AdminTokenMiddleware сверяет X-Admin-Token с настройкой. Пустая настройка
// закрывает административные маршруты полностью.
func AdminTokenMiddleware(expected string) gin.HandlerFunc {
	return func(c *gin.Context) {
		provided := c.GetHeader("X-Admin-Token")
		if provided == "" {
			apperrors.HandleError(c, apperrors.ErrAuthRequired)
			return
		}
		if expected == "" || subtle.ConstantTimeCompare([]byte(provided), []byte(expected)) != 1 {
			apperrors.HandleError(c, apperrors.ErrInsufficientPermissions)
			return
		}
		c.Next()
	}
}

// GetUserID извлекает ID пользователя из контекста; 0 - не аутентифицирован.
func GetUserID(c *gin.Context) int64 {
	userID, exists := c.Get(contextkeys.UserIDKey)
	if !exists {
		return 0
	}
	id, _ := userID.(int64)
	return id
}

func CurrentUser(c *gin.Context) (*models.User, bool) {
	value, exists := c.Get(contextkeys.UserKey)
	if !exists {
		return nil, false
	}
	user, ok := value.(*models.User)
	return user, ok && user != nil
}
