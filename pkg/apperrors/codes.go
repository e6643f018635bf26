package apperrors

// ErrorCode - машиночитаемый код ошибки в ответе API
type ErrorCode string

const (
	// Системные
	CodeInternalError        ErrorCode = "INTERNAL_ERROR"
	CodeExternalServiceError ErrorCode = "EXTERNAL_SERVICE_ERROR"

	// Бизнес-логика
	CodeNotFound                ErrorCode = "NOT_FOUND"
	CodeValidationFailed        ErrorCode = "VALIDATION_FAILED"
	CodeConflict                ErrorCode = "CONFLICT"
	CodeLimitExceeded           ErrorCode = "LIMIT_EXCEEDED"
	CodeVerificationCodeExpired ErrorCode = "VERIFICATION_CODE_EXPIRED"
	CodeInvalidVerificationCode ErrorCode = "INVALID_VERIFICATION_CODE"

	// Аутентификация и авторизация
	CodeUnauthorized       ErrorCode = "UNAUTHORIZED"
	CodeForbidden          ErrorCode = "FORBIDDEN"
	CodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	CodeInvalidToken       ErrorCode = "INVALID_TOKEN"
	CodeTooManyRequests    ErrorCode = "TOO_MANY_REQUESTS"
)
