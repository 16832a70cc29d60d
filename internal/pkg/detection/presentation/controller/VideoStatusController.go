package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/prathmbavge/ai-powered-bus-crowd-detect/internal/pkg/detection/application/usecase"
)

// VideoStatusController handles video progress polling only (one controller per endpoint)
type VideoStatusController struct {
	uc *usecase.VideoStatusUseCase
}

func NewVideoStatusController(uc *usecase.VideoStatusUseCase) *VideoStatusController {
	return &VideoStatusController{uc: uc}
}

func (h *VideoStatusController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		busID, ok := busIDParam(c)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
		defer cancel()

		status, err := h.uc.Execute(ctx, busID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, status)
	}
}
