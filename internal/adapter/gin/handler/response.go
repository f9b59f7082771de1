package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apperrors "directory-service/pkg/errors"
)

const internalErrorMessage = "Internal server error"

// MessageResponse is the envelope for every JSON answer. Message is set on
// mutations and failures, Data on reads and mutations that return state.
type MessageResponse struct {
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// respondError maps usecase errors onto the 400/401/404/500 contract.
// Anything without a known status is logged and reported generically.
func respondError(c *gin.Context, log *zap.Logger, err error) {
	status, ok := apperrors.StatusOf(err)
	if !ok || status >= http.StatusInternalServerError {
		log.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, MessageResponse{Message: internalErrorMessage})
		return
	}

	log.Debug("request rejected", zap.Int("status", status), zap.Error(err))
	c.JSON(status, MessageResponse{Message: err.Error()})
}

// respondBadRequest answers 400 for bodies or parameters that cannot be bound.
func respondBadRequest(c *gin.Context, log *zap.Logger, message string, err error) {
	log.Warn("invalid request", zap.String("path", c.FullPath()), zap.Error(err))
	c.JSON(http.StatusBadRequest, MessageResponse{Message: message})
}
