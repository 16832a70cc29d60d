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

// UploadVideoURLController stores an external video reference on a bus.
type UploadVideoURLController struct {
	uc *usecase.UploadVideoURLUseCase
}

func NewUploadVideoURLController(buses busrepo.BusRepository) *UploadVideoURLController {
	return &UploadVideoURLController{uc: usecase.NewUploadVideoURLUseCase(buses)}
}

type uploadVideoURLRequest struct {
	VideoURL string `json:"videoUrl"`
}

func (h *UploadVideoURLController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		busID, ok := busIDParam(c)
		if !ok {
			return
		}

		var req uploadVideoURLRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
			return
		}
		userID, role := auth.Identity(c)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		updated, err := h.uc.Execute(ctx, busID, req.VideoURL, userID, role)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, updated)
	}
}
