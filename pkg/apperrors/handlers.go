package apperrors

import (
	"hyperlocal_backend/internal/logger"

	"github.com/gin-gonic/gin"
)

// ErrorResponse - стандартный ответ об ошибке
type ErrorResponse struct {
	Error *AppError `json:"error"`
}

// HandleError отвечает клиенту ошибкой. Все, что не AppError, становится 500
// с общим сообщением, а причина уходит только в лог.
func HandleError(c *gin.Context, err error) {
	appErr, ok := AsAppError(err)
	if !ok {
		appErr = InternalError(err)
	}

	log := logger.FromContext(c.Request.Context())
	switch {
	case appErr.HTTPCode >= 500:
		fields := []any{"code", appErr.Code, "domain", appErr.Domain}
		if cause := appErr.Unwrap(); cause != nil {
			fields = append(fields, "error", cause.Error())
		}
		log.Error("server error", fields...)
	case appErr.HTTPCode >= 400:
		log.Debug("client error", "code", appErr.Code, "message", appErr.Message)
	}

	c.AbortWithStatusJSON(appErr.HTTPCode, ErrorResponse{Error: appErr})
}

func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
