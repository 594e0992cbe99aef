package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"giveaway-entry-backend/internal/common/errors"
	"giveaway-entry-backend/internal/common/logger"
)

const (
	RequestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
)

// errorBody is the only failure shape clients see.
type errorBody struct {
	Error string `json:"error"`
}

// Recovery turns a panic into the generic 500 and logs the stack.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		appErr := errors.NewInternalError(fmt.Errorf("panic: %v", recovered)).
			WithDetail("stack", string(debug.Stack()))
		AbortWithError(c, appErr)
	})
}

// RequestID tags the request with X-Request-ID, generating one if absent.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		c.Set(requestIDKey, requestID)
		c.Header(RequestIDHeader, requestID)
		c.Next()
	}
}

// GetRequestID returns the request id set by RequestID.
func GetRequestID(c *gin.Context) string {
	if requestID, exists := c.Get(requestIDKey); exists {
		if id, ok := requestID.(string); ok {
			return id
		}
	}
	return "unknown"
}

// AbortWithError writes {"error": <public message>} with the status of the
// error code. Errors that are not *errors.AppError become the generic 500.
func AbortWithError(c *gin.Context, err error) {
	appErr, ok := errors.AsAppError(err)
	if !ok {
		appErr = errors.NewInternalError(err)
	}
	appErr.WithRequestID(GetRequestID(c))

	status := errors.HTTPStatus(appErr)
	logError(c, appErr, status)

	c.AbortWithStatusJSON(status, errorBody{Error: appErr.Message})
}

// logError logs server faults at error level. Client errors and conflicts
// are expected outcomes and only show up at debug.
func logError(c *gin.Context, appErr *errors.AppError, status int) {
	var event *zerolog.Event
	if appErr.IsInternal() {
		event = logger.Error().Err(appErr.Cause)
	} else {
		event = logger.Debug()
	}

	event.
		Str("request_id", appErr.RequestID).
		Str("method", c.Request.Method).
		Str("path", c.Request.URL.Path).
		Int("status", status).
		Str("error_code", string(appErr.Code)).
		Str("error_message", appErr.Message)

	for k, v := range appErr.Details {
		event.Interface(k, v)
	}

	if appErr.IsInternal() {
		event.Msg("Internal error occurred")
		return
	}
	event.Msg("Request rejected")
}
