package controllers

import (
	"errors"
	"net/http"

	"hirehub-api/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type errorMapping struct {
	target error
	status int
	code   string
}

var errorMappings = []errorMapping{
	{services.ErrNotFound, http.StatusNotFound, "not_found"},
	{services.ErrForbiddenTransition, http.StatusBadRequest, "forbidden_transition"},
	{services.ErrDuplicateStatus, http.StatusBadRequest, "duplicate_status"},
	{services.ErrInvalidTransition, http.StatusBadRequest, "invalid_transition"},
	{services.ErrValidation, http.StatusBadRequest, "validation_error"},
	{services.ErrActionFailed, http.StatusBadRequest, "action_failed"},
	{services.ErrUnauthorized, http.StatusForbidden, "unauthorized"},
	{services.ErrStaleState, http.StatusConflict, "stale_state"},
	{services.ErrAlreadyApplied, http.StatusConflict, "already_applied"},
}

// respondError writes the client-facing error for err. Anything unclassified
// is logged and reported as a generic 500.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			c.JSON(m.status, gin.H{"message": err.Error(), "error": m.code})
			return
		}
	}

	logger.Error("request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.String("application_id", c.Param("id")),
		zap.Error(err),
	)
	c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal Server Error", "error": "internal_error"})
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"message": message, "error": "validation_error"})
}
