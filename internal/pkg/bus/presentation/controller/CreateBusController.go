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

// CreateBusController handles bus registration only (one controller per endpoint)
type CreateBusController struct {
	uc *usecase.CreateBusUseCase
}

func NewCreateBusController(buses busrepo.BusRepository) *CreateBusController {
	return &CreateBusController{uc: usecase.NewCreateBusUseCase(buses)}
}

type createBusRequest struct {
	BusNumber string  `json:"busNumber" binding:"required"`
	Route     string  `json:"route" binding:"required"`
	Capacity  int     `json:"capacity"`
	StreamURL *string `json:"streamUrl"`
}

func (h *CreateBusController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createBusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Bus number and route are required"})
			return
		}
		userID, _ := auth.Identity(c)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		created, err := h.uc.Execute(ctx, usecase.CreateBusInput{
			BusNumber: req.BusNumber,
			Route:     req.Route,
			Capacity:  req.Capacity,
			StreamURL: req.StreamURL,
			CreatorID: userID,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, created)
	}
}
