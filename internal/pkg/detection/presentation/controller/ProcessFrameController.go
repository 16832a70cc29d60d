package controller

import (
	"context"
	"encoding/base64"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/prathmbavge/ai-powered-bus-crowd-detect/internal/pkg/detection/application/usecase"
)

const maxFrameBytes = 10 << 20

// ProcessFrameController handles single-frame detection only (one controller per endpoint)
type ProcessFrameController struct {
	uc *usecase.ProcessFrameUseCase
}

func NewProcessFrameController(uc *usecase.ProcessFrameUseCase) *ProcessFrameController {
	return &ProcessFrameController{uc: uc}
}

type processFrameRequest struct {
	Image string `json:"image"`
}

// Handle accepts either a multipart image upload or a JSON body with a base64
// image, runs detection, and returns the applied reading.
func (h *ProcessFrameController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		busID, ok := busIDParam(c)
		if !ok {
			return
		}
		image, ok := h.extractImage(c)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
		defer cancel()

		out, err := h.uc.Execute(ctx, busID, image)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

func (h *ProcessFrameController) extractImage(c *gin.Context) (string, bool) {
	if file, err := c.FormFile("image"); err == nil {
		f, err := file.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Unreadable image upload"})
			return "", false
		}
		defer f.Close()
		raw, err := io.ReadAll(io.LimitReader(f, maxFrameBytes))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Unreadable image upload"})
			return "", false
		}
		return base64.StdEncoding.EncodeToString(raw), true
	}

	var req processFrameRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Image == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "No image provided"})
		return "", false
	}
	return req.Image, true
}
