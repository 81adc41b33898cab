package chat

import "net/http"

// Stable error codes returned in API error bodies.
const (
	CodeValidationError   = "VALIDATION_ERROR"
	CodeNotFound          = "NOT_FOUND"
	CodeDatabaseError     = "DATABASE_ERROR"
	CodeLLMError          = "LLM_ERROR"
	CodeRateLimitExceeded = "RATE_LIMIT_EXCEEDED"
	CodeTimeoutError      = "TIMEOUT_ERROR"
	CodeMethodNotAllowed  = "METHOD_NOT_ALLOWED"
	CodeInternalError     = "INTERNAL_ERROR"
)

// APIError is a classified request failure carrying the HTTP status and
// stable code for the response body. Message is safe to show to end users;
// the wrapped cause is for logs only.
type APIError struct {
	Status  int
	Code    string
	Message string
	cause   error
}

func (e *APIError) Error() string {
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.cause
}

func NewValidationError(message string) *APIError {
	return &APIError{Status: http.StatusBadRequest, Code: CodeValidationError, Message: message}
}

func NewNotFoundError(message string) *APIError {
	return &APIError{Status: http.StatusNotFound, Code: CodeNotFound, Message: message}
}

func NewDatabaseError(message string, cause error) *APIError {
	return &APIError{Status: http.StatusInternalServerError, Code: CodeDatabaseError, Message: message, cause: cause}
}

func NewLLMError(message string, cause error) *APIError {
	return &APIError{Status: http.StatusBadGateway, Code: CodeLLMError, Message: message, cause: cause}
}

func NewRateLimitError(message string, cause error) *APIError {
	return &APIError{Status: http.StatusTooManyRequests, Code: CodeRateLimitExceeded, Message: message, cause: cause}
}

func NewTimeoutError(message string, cause error) *APIError {
	return &APIError{Status: http.StatusGatewayTimeout, Code: CodeTimeoutError, Message: message, cause: cause}
}

func NewMethodNotAllowedError(message string) *APIError {
	return &APIError{Status: http.StatusMethodNotAllowed, Code: CodeMethodNotAllowed, Message: message}
}

func NewInternalError() *APIError {
	return &APIError{Status: http.StatusInternalServerError, Code: CodeInternalError, Message: "An unexpected error occurred"}
}
