package http

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "giveaway-entry-backend/internal/common/errors"
	"giveaway-entry-backend/internal/common/logger"
	"giveaway-entry-backend/internal/common/middleware"
	"giveaway-entry-backend/internal/features/entry/models"
	"giveaway-entry-backend/internal/features/entry/service"
)

const (
	MsgEntrySubmitted = "Entry submitted successfully"

	maxBodyBytes = 1 << 20
)

type EntryHandler struct {
	service service.EntryService
}

func NewEntryHandler(service service.EntryService) *EntryHandler {
	return &EntryHandler{
		service: service,
	}
}

// RegisterRoutes mounts the submission endpoint at path for every method,
// so that non-POST requests get the JSON 405 instead of a router 404. Methods
// gin has no tree for (PROPFIND, ...) reach the handler through NoRoute.
func (h *EntryHandler) RegisterRoutes(router *gin.Engine, path string) {
	router.Any(path, middleware.EntryHeaders(), h.SubmitEntry)
	router.NoRoute(onlyPath(path), middleware.EntryHeaders(), h.SubmitEntry)
}

// onlyPath stops the chain for other paths, leaving gin's default 404.
func onlyPath(path string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path != path {
			c.Abort()
			return
		}
		c.Next()
	}
}

// @Summary Submit a giveaway entry
// @Description Validates the entry, rejects an email already registered for the giveaway and stores the normalized entry. OPTIONS answers the CORS preflight with an empty 200.
// @Tags entries
// @Accept json
// @Produce json
// @Param entry body models.SubmitRequest true "Entry"
// @Success 200 {object} models.SubmitResponse "Entry stored"
// @Failure 400 {object} models.ErrorResponse "Missing required fields / Invalid email format / Invalid phone format"
// @Failure 405 {object} models.ErrorResponse "Method not allowed"
// @Failure 409 {object} models.ErrorResponse "Email already registered for this giveaway"
// @Failure 500 {object} models.ErrorResponse "Database error / Internal server error"
// @Router /api/submit-entry [post]
func (h *EntryHandler) SubmitEntry(c *gin.Context) {
	switch c.Request.Method {
	case http.MethodOptions:
		c.Status(http.StatusOK)
		return
	case http.MethodPost:
	default:
		middleware.AbortWithError(c, apperrors.NewMethodNotAllowedError(c.Request.Method))
		return
	}

	req, err := decodeSubmitRequest(c)
	if err != nil {
		middleware.AbortWithError(c, apperrors.NewInternalError(err).
			WithDetail("operation", "decode_body"))
		return
	}

	entry, err := h.service.Submit(c.Request.Context(), req)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.SubmitResponse{
		Success: true,
		Message: MsgEntrySubmitted,
		EntryID: entry.ID,
	})
}

// @Summary Health check
// @Description Reports whether the entry store answers.
// @Tags health
// @Produce json
// @Success 200 {object} models.HealthResponse
// @Failure 503 {object} models.HealthResponse
// @Router /health [get]
func (h *EntryHandler) Health(c *gin.Context) {
	if err := h.service.Health(c.Request.Context()); err != nil {
		logger.Warn().Err(err).Msg("Entry store health check failed")
		c.JSON(http.StatusServiceUnavailable, models.HealthResponse{Status: "unavailable"})
		return
	}
	c.JSON(http.StatusOK, models.HealthResponse{Status: "ok"})
}

// decodeSubmitRequest reads the whole body. Empty bodies, invalid JSON,
// trailing data and null are errors; see parseSubmitRequest for the rest.
func decodeSubmitRequest(c *gin.Context) (*models.SubmitRequest, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)

	body, err := c.GetRawData()
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return parseSubmitRequest(body)
}
