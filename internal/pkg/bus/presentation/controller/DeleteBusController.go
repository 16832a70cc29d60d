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

// DeleteBusController handles bus removal only (one controller per endpoint)
type DeleteBusController struct {
	uc *usecase.DeleteBusUseCase
}

func NewDeleteBusController(buses busrepo.BusRepository) *DeleteBusController {
	return &DeleteBusController{uc: usecase.NewDeleteBusUseCase(buses)}
}

func (h *DeleteBusController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		busID, ok := busIDParam(c)
		if !ok {
			return
		}
		userID, role := auth.Identity(c)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		if err := h.uc.Execute(ctx, busID, userID, role); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Bus removed"})
	}
}
