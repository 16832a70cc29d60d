package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/prathmbavge/ai-powered-bus-crowd-detect/internal/pkg/chat/application/usecase"
)

// AIResponseController handles the assistant endpoint only (one controller per endpoint)
type AIResponseController struct {
	uc *usecase.AIResponseUseCase
}

func NewAIResponseController(uc *usecase.AIResponseUseCase) *AIResponseController {
	return &AIResponseController{uc: uc}
}

type aiResponseRequest struct {
	Text string `json:"text" binding:"required"`
}

// Handle answers a question about the bus as a public system message. The
// endpoint is reachable without a token so public-link viewers can use it.
func (h *AIResponseController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		busID, ok := busIDParam(c)
		if !ok {
			return
		}

		var req aiResponseRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Question text is required"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		msg, err := h.uc.Execute(ctx, busID, req.Text)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, msg)
	}
}
