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

// ListBusesController handles the fleet listing only (one controller per endpoint)
type ListBusesController struct {
	uc   *usecase.ListBusesUseCase
	mine bool
}

func NewListBusesController(buses busrepo.BusRepository, mine bool) *ListBusesController {
	return &ListBusesController{uc: usecase.NewListBusesUseCase(buses), mine: mine}
}

func (h *ListBusesController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := auth.Identity(c)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		buses, err := h.uc.Execute(ctx, userID, h.mine)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, buses)
	}
}
