package apperrors

import "net/http"

// --- Auth ---

var ErrInvalidCredentials = New(
	CodeInvalidCredentials,
	"auth",
	"Invalid username or password",
	http.StatusUnauthorized,
)

var ErrInvalidToken = New(
	CodeInvalidToken,
	"auth",
	"Invalid or expired token",
	http.StatusUnauthorized,
)

var ErrAuthRequired = NewUnauthorizedError("Authentication required")

var ErrUsernameTaken = NewConflictError("auth", "Username already taken")

var ErrEmailAlreadyExists = NewConflictError("auth", "Email already in use")

var ErrInsufficientPermissions = NewForbiddenError("Insufficient permissions")

var ErrTooManyRequests = New(
	CodeTooManyRequests,
	"auth",
	"Too many requests, try again later",
	http.StatusTooManyRequests,
)

// --- Email verification ---

var ErrEmailRequired = New(
	CodeValidationFailed,
	"email_verification",
	"User has no email address",
	http.StatusBadRequest,
)

var ErrEmailAlreadyVerified = NewConflictError("email_verification", "Email is already verified")

var ErrVerificationCodeExpired = New(
	CodeVerificationCodeExpired,
	"email_verification",
	"Verification code is missing or expired",
	http.StatusBadRequest,
)

var ErrInvalidVerificationCode = New(
	CodeInvalidVerificationCode,
	"email_verification",
	"Invalid verification code",
	http.StatusBadRequest,
)

// --- Jobs & applications ---

var ErrJobNotFound = NewNotFoundError("job", "Job not found")

var ErrNotJobOwner = NewForbiddenError("Only the employer who posted the job can do this")

var ErrEmployerOnly = NewForbiddenError("Only employers can do this")

var ErrWorkerOnly = NewForbiddenError("Only workers can do this")

var ErrJobInactive = NewConflictError("job", "Job is not accepting applications")

var ErrAlreadyApplied = NewConflictError("application", "Worker already applied to this job")

var ErrApplicationNotFound = NewNotFoundError("application", "Application not found")

var ErrInvalidTransition = NewConflictError("application", "Status transition is not allowed")

// --- Ratings ---

var ErrWorkerNotFound = NewNotFoundError("worker", "Worker not found")

var ErrRatingOutOfRange = New(
	CodeValidationFailed,
	"rating",
	"Rating must be an integer from 1 to 5",
	http.StatusBadRequest,
)

var ErrJobNotCompleted = NewConflictError("rating", "Only completed jobs can be rated")

var ErrAlreadyRated = NewConflictError("rating", "This worker was already rated for this job")

// --- Verification ---

var ErrAlreadyVerified = NewConflictError("verification", "User is already verified")

var ErrDocumentNotFound = NewNotFoundError("verification", "Verification document not found")

var ErrDocumentAlreadyReviewed = NewConflictError("verification", "Document has already been reviewed")

var ErrFileTooLarge = New(
	CodeLimitExceeded,
	"verification",
	"File size exceeds the allowed limit",
	http.StatusRequestEntityTooLarge,
)

var ErrInvalidFileType = New(
	CodeValidationFailed,
	"verification",
	"The provided file type is not allowed",
	http.StatusUnsupportedMediaType,
)

// --- Chat ---

var ErrConversationNotFound = NewNotFoundError("chat", "Conversation not found")

var ErrConversationAccessDenied = NewForbiddenError("Access to conversation denied")

var ErrMessageNotFound = NewNotFoundError("chat", "Message not found")

var ErrParticipantNotFound = NewNotFoundError("chat", "Participant not found")

var ErrCannotMessageSelf = New(
	CodeValidationFailed,
	"chat",
	"Cannot start a conversation with yourself",
	http.StatusBadRequest,
)

// --- Users ---

var ErrUserNotFound = NewNotFoundError("user", "User not found")
