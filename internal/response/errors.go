package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Session & Tokens ──────────────────────────────────────────────
	ErrTokenRequired  ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid   ErrCode = "TOKEN_INVALID"
	ErrSessionExpired ErrCode = "SESSION_EXPIRED"
	ErrWrongScreen    ErrCode = "WRONG_SCREEN"

	// ─── Authentication ────────────────────────────────────────────────
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"
	ErrStudentAccessOnly  ErrCode = "STUDENT_ACCESS_ONLY"
	ErrEducatorAccessOnly ErrCode = "EDUCATOR_ACCESS_ONLY"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// ─── Quiz flow ─────────────────────────────────────────────────────
	ErrNoActiveQuiz        ErrCode = "NO_ACTIVE_QUIZ"
	ErrQuestionOutOfRange  ErrCode = "QUESTION_OUT_OF_RANGE"
	ErrQuizServiceDown     ErrCode = "QUIZ_SERVICE_UNAVAILABLE"
	ErrQuizServiceBadReply ErrCode = "QUIZ_SERVICE_BAD_RESPONSE"

	// ─── Media ─────────────────────────────────────────────────────────
	ErrFileRequired    ErrCode = "FILE_REQUIRED"
	ErrUnsupportedFile ErrCode = "UNSUPPORTED_FILE_TYPE"
	ErrFileTooLarge    ErrCode = "FILE_TOO_LARGE"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound ErrCode = "NOT_FOUND"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Session & Tokens ──────────────────────────────────────────────
	case ErrTokenRequired:
		return "A session token is required."
	case ErrTokenInvalid:
		return "The session token is invalid or expired."
	case ErrSessionExpired:
		return "Your session no longer exists. Start a new one."
	case ErrWrongScreen:
		return "This action is not available on the current screen."

	// ─── Authentication ────────────────────────────────────────────────
	case ErrInvalidCredentials:
		return "Invalid credentials."
	case ErrStudentAccessOnly:
		return "This resource is restricted to students."
	case ErrEducatorAccessOnly:
		return "This resource is restricted to educators."

	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidPayload:
		return "The request payload is invalid."

	// ─── Quiz flow ─────────────────────────────────────────────────────
	case ErrNoActiveQuiz:
		return "No quiz has been generated yet."
	case ErrQuestionOutOfRange:
		return "The question index is out of range."
	case ErrQuizServiceDown:
		return "Quiz server not running."
	case ErrQuizServiceBadReply:
		return "The quiz server returned an unusable response."

	// ─── Media ─────────────────────────────────────────────────────────
	case ErrFileRequired:
		return "A file upload is required."
	case ErrUnsupportedFile:
		return "The file type is not supported."
	case ErrFileTooLarge:
		return "The file exceeds the size limit."

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "The resource was not found."

	// ─── Rate Limiting ─────────────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "Too many requests. Try again later."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrInternal:
		return "An internal server error occurred."
	default:
		return "An unexpected error occurred."
	}
}
