package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/prathmbavge/ai-powered-bus-crowd-detect/internal/pkg/detection/application/usecase"
	"github.com/prathmbavge/ai-powered-bus-crowd-detect/internal/pkg/detection/vision"
)

// busIDParam rejects malformed ids before they reach a uuid cast in SQL.
func busIDParam(c *gin.Context) (string, bool) {
	id := c.Param("busId")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid bus id"})
		return "", false
	}
	return id, true
}

func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, usecase.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
	case errors.Is(err, usecase.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "Bus not found"})
	case errors.Is(err, usecase.ErrNotAuthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Not authorized"})
	case errors.Is(err, vision.ErrUpstreamTimeout):
		c.JSON(http.StatusGatewayTimeout, gin.H{"message": "Detection service timed out"})
	case errors.Is(err, usecase.ErrUpstream):
		c.JSON(http.StatusBadGateway, gin.H{"message": "Detection service failed"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
	}
}
