package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/prathmbavge/ai-powered-bus-crowd-detect/internal/pkg/bus/application/usecase"
	busrepo "github.com/prathmbavge/ai-powered-bus-crowd-detect/internal/pkg/bus/persistence/repository/port"
)

// GetBusController handles the single-bus read only (one controller per endpoint)
type GetBusController struct {
	uc *usecase.GetBusUseCase
}

func NewGetBusController(buses busrepo.BusRepository) *GetBusController {
	return &GetBusController{uc: usecase.NewGetBusUseCase(buses)}
}

func (h *GetBusController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		busID, ok := busIDParam(c)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		b, err := h.uc.Execute(ctx, busID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, b)
	}
}
