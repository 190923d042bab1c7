package util

// AppError is the common error type for everything the gateway raises itself.
// Operational errors are expected conditions (bad input, missing auth, upstream
// down) whose message is safe to return to clients. Non-operational errors are
// programming faults and get masked outside development.
type AppError struct {
	Message       string
	StatusCode    int
	IsOperational bool
	Details       any
}

func (e *AppError) Error() string { return e.Message }

// WithDetails attaches structured detail (e.g. field errors) to the error.
func (e *AppError) WithDetails(details any) *AppError {
	e.Details = details
	return e
}

func NewAppError(message string, statusCode int) *AppError {
	return &AppError{Message: message, StatusCode: statusCode, IsOperational: true}
}

func Validation(message string) *AppError { return NewAppError(message, 400) }

func Unauthorized(message string) *AppError {
	if message == "" {
		message = "Unauthorized access"
	}
	return NewAppError(message, 401)
}

func Forbidden(message string) *AppError {
	if message == "" {
		message = "Access forbidden"
	}
	return NewAppError(message, 403)
}

func NotFound(message string) *AppError {
	if message == "" {
		message = "Resource not found"
	}
	return NewAppError(message, 404)
}

// Conflict is reserved for downstream-proxied conflicts; the gateway itself
// never raises it but keeps the constructor so envelopes stay uniform.
func Conflict(message string) *AppError {
	if message == "" {
		message = "Resource conflict"
	}
	return NewAppError(message, 409)
}

func ServiceUnavailable(message string) *AppError {
	if message == "" {
		message = "Service unavailable"
	}
	return NewAppError(message, 503)
}
