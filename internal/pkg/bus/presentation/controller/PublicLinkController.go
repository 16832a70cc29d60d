package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/prathmbavge/ai-powered-bus-crowd-detect/internal/auth"
	"github.com/prathmbavge/ai-powered-bus-crowd-detect/internal/pkg/bus/application/usecase"
	busrepo "github.com/prathmbavge/ai-powered-bus-crowd-detect/internal/pkg/bus/persistence/repository/port"
)

// PublicLinkController handles share-link generation and resolution.
type PublicLinkController struct {
	uc *usecase.PublicLinkUseCase
}

func NewPublicLinkController(buses busrepo.BusRepository) *PublicLinkController {
	return &PublicLinkController{uc: usecase.NewPublicLinkUseCase(buses)}
}

// HandleGenerate mints a fresh public token for the bus.
func (h *PublicLinkController) HandleGenerate() gin.HandlerFunc {
	return func(c *gin.Context) {
		busID, ok := busIDParam(c)
		if !ok {
			return
		}
		userID, role := auth.Identity(c)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		token, err := h.uc.Generate(ctx, busID, userID, role)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"publicAccessToken": token})
	}
}

// HandleResolve returns the bus behind a public token; no auth required.
func (h *PublicLinkController) HandleResolve() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		b, err := h.uc.Resolve(ctx, c.Param("token"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, b)
	}
}
