package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"
	ErrTokenRequired      ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid       ErrCode = "TOKEN_INVALID"
	ErrEmailTaken         ErrCode = "EMAIL_TAKEN"
	ErrWrongPassword      ErrCode = "WRONG_PASSWORD"

	// ─── Authorization ─────────────────────────────────────────────────
	ErrForbidden ErrCode = "FORBIDDEN"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"
	ErrInvalidFilter  ErrCode = "INVALID_FILTER"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound        ErrCode = "NOT_FOUND"
	ErrConflict        ErrCode = "CONFLICT"
	ErrAlreadyMarked   ErrCode = "ALREADY_MARKED"
	ErrNotSubmitted    ErrCode = "NOT_SUBMITTED"
	ErrActionForbidden ErrCode = "ACTION_FORBIDDEN"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Authentication ────────────────────────────────────────────────
	case ErrInvalidCredentials:
		return "Invalid email or password"
	case ErrTokenRequired:
		return "Authorization header is required"
	case ErrTokenInvalid:
		return "Invalid or expired token"
	case ErrEmailTaken:
		return "An account with this email already exists"
	case ErrWrongPassword:
		return "Current password is incorrect"

	// ─── Authorization ─────────────────────────────────────────────────
	case ErrForbidden:
		return "You do not have permission to access this resource"

	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Validation failed"
	case ErrInvalidPayload:
		return "Invalid request body"
	case ErrInvalidFilter:
		return "Unknown filter"

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "Not found"
	case ErrConflict:
		return "Resource already exists"
	case ErrAlreadyMarked:
		return "Attendance already marked for today"
	case ErrNotSubmitted:
		return "No submission to grade"
	case ErrActionForbidden:
		return "This action is not allowed"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "Too many requests, slow down"

	// ─── Server ────────────────────────────────────────────────────────
	default:
		return "Internal server error"
	}
}
