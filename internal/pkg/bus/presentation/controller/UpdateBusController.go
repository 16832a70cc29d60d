package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/prathmbavge/ai-powered-bus-crowd-detect/internal/auth"
	"github.com/prathmbavge/ai-powered-bus-crowd-detect/internal/pkg/bus/application/usecase"
	bus "github.com/prathmbavge/ai-powered-bus-crowd-detect/internal/pkg/bus/domain"
	busrepo "github.com/prathmbavge/ai-powered-bus-crowd-detect/internal/pkg/bus/persistence/repository/port"
)

// UpdateBusController handles the partial update only (one controller per endpoint)
type UpdateBusController struct {
	uc *usecase.UpdateBusUseCase
}

func NewUpdateBusController(buses busrepo.BusRepository) *UpdateBusController {
	return &UpdateBusController{uc: usecase.NewUpdateBusUseCase(buses)}
}

type updateBusRequest struct {
	BusNumber    *string `json:"busNumber"`
	Route        *string `json:"route"`
	Capacity     *int    `json:"capacity"`
	Status       *string `json:"status"`
	StreamURL    *string `json:"streamUrl"`
	IsMonitoring *bool   `json:"isMonitoring"`
}

func (h *UpdateBusController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		busID, ok := busIDParam(c)
		if !ok {
			return
		}

		var req updateBusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
			return
		}
		userID, role := auth.Identity(c)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		updated, err := h.uc.Execute(ctx, busID, bus.Update{
			BusNumber:    req.BusNumber,
			Route:        req.Route,
			Capacity:     req.Capacity,
			Status:       req.Status,
			StreamURL:    req.StreamURL,
			IsMonitoring: req.IsMonitoring,
		}, userID, role)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, updated)
	}
}
