package errors

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrorCode identifies the kind of failure.
type ErrorCode string

const (
	ErrCodeInternal          ErrorCode = "INTERNAL_ERROR"
	ErrCodeValidation        ErrorCode = "VALIDATION_ERROR"
	ErrCodeMethodNotAllowed  ErrorCode = "METHOD_NOT_ALLOWED"
	ErrCodeAlreadyRegistered ErrorCode = "ALREADY_REGISTERED"
	ErrCodeDatabaseError     ErrorCode = "DATABASE_ERROR"
)

// Public messages. These are the only texts a client ever sees in "error".
const (
	MsgMethodNotAllowed      = "Method not allowed"
	MsgMissingRequiredFields = "Missing required fields"
	MsgInvalidEmail          = "Invalid email format"
	MsgInvalidPhone          = "Invalid phone format"
	MsgAlreadyRegistered     = "Email already registered for this giveaway"
	MsgDatabaseError         = "Database error"
	MsgInternal              = "Internal server error"
)

// AppError is a typed application error. Message is safe to return to the
// client, Cause is for logs only.
type AppError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   map[string]interface{} `json:"details,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	RequestID string                 `json:"request_id,omitempty"`
	Cause     error                  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// IsInternal reports whether the error should be logged at error level.
func (e *AppError) IsInternal() bool {
	return e.Code == ErrCodeInternal || e.Code == ErrCodeDatabaseError
}

// WithDetail adds a key/value that is logged but never sent to clients.
func (e *AppError) WithDetail(key string, value interface{}) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithRequestID attaches the request id.
func (e *AppError) WithRequestID(requestID string) *AppError {
	e.RequestID = requestID
	return e
}

func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:      code,
		Message:   message,
		Timestamp: time.Now(),
	}
}

func Wrap(err error, code ErrorCode, message string) *AppError {
	appErr := New(code, message)
	appErr.Cause = err
	return appErr
}

// NewValidationError builds a 400 with one of the Msg* texts.
func NewValidationError(message string) *AppError {
	return New(ErrCodeValidation, message)
}

func NewMethodNotAllowedError(method string) *AppError {
	return New(ErrCodeMethodNotAllowed, MsgMethodNotAllowed).
		WithDetail("method", method)
}

func NewAlreadyRegisteredError(giveawayID string) *AppError {
	return New(ErrCodeAlreadyRegistered, MsgAlreadyRegistered).
		WithDetail("giveaway_id", giveawayID)
}

// NewDatabaseError wraps a failed store write.
func NewDatabaseError(operation string, err error) *AppError {
	return Wrap(err, ErrCodeDatabaseError, MsgDatabaseError).
		WithDetail("operation", operation)
}

// NewInternalError wraps anything else: bad bodies, failed reads, panics.
func NewInternalError(err error) *AppError {
	return Wrap(err, ErrCodeInternal, MsgInternal)
}

// AsAppError unwraps err to an *AppError.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// HTTPStatus returns the response status for an error code.
func HTTPStatus(appErr *AppError) int {
	switch appErr.Code {
	case ErrCodeValidation:
		return http.StatusBadRequest
	case ErrCodeMethodNotAllowed:
		return http.StatusMethodNotAllowed
	case ErrCodeAlreadyRegistered:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
