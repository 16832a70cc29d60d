package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/prathmbavge/ai-powered-bus-crowd-detect/internal/auth"
	"github.com/prathmbavge/ai-powered-bus-crowd-detect/internal/pkg/detection/application/usecase"
)

// MonitoringController handles the start/stop monitoring endpoints.
type MonitoringController struct {
	uc *usecase.MonitoringUseCase
}

func NewMonitoringController(uc *usecase.MonitoringUseCase) *MonitoringController {
	return &MonitoringController{uc: uc}
}

func (h *MonitoringController) HandleStart() gin.HandlerFunc {
	return h.handle(true)
}

func (h *MonitoringController) HandleStop() gin.HandlerFunc {
	return h.handle(false)
}

func (h *MonitoringController) handle(start bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		busID, ok := busIDParam(c)
		if !ok {
			return
		}
		userID, role := auth.Identity(c)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var (
			b   interface{}
			err error
			msg string
		)
		if start {
			b, err = h.uc.Start(ctx, busID, userID, role)
			msg = "Monitoring started"
		} else {
			b, err = h.uc.Stop(ctx, busID, userID, role)
			msg = "Monitoring stopped"
		}
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": msg, "bus": b})
	}
}
