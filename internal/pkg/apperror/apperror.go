package apperror

import "net/http"

// Kind is the closed set of error categories the service produces.
type Kind int

const (
	// KindNotFound signals that the requested entity does not exist.
	KindNotFound Kind = iota
	// KindValidation signals a rejected input, with per-field details.
	KindValidation
	// KindUnexpected covers everything else; the cause is logged but
	// never exposed to clients.
	KindUnexpected
)

// AppError is the error type crossing the service/handler boundary.
type AppError struct {
	Kind    Kind
	Message string   // user-facing error message
	Details []string // validation details, if any
	Err     error    // the underlying error, not exposed to clients
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// HTTPStatus maps the error kind to its HTTP status code.
func (e *AppError) HTTPStatus() int {
	switch e.Kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// NotFound creates a not-found error with a user-facing message.
func NotFound(message string) *AppError {
	return &AppError{Kind: KindNotFound, Message: message}
}

// Validation creates a validation error with optional details.
func Validation(message string, details ...string) *AppError {
	return &AppError{Kind: KindValidation, Message: message, Details: details}
}

// Unexpected wraps an internal error. The message shown to clients is
// always generic; the cause is kept for logging.
func Unexpected(err error) *AppError {
	return &AppError{Kind: KindUnexpected, Message: "Internal server error", Err: err}
}
