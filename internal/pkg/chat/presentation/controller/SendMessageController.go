package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/prathmbavge/ai-powered-bus-crowd-detect/internal/auth"
	"github.com/prathmbavge/ai-powered-bus-crowd-detect/internal/pkg/chat/application/usecase"
	chat "github.com/prathmbavge/ai-powered-bus-crowd-detect/internal/pkg/chat/domain"
)

// SendMessageController handles the HTTP send-message endpoint only (one controller per endpoint)
type SendMessageController struct {
	router *usecase.RouteMessageUseCase
}

func NewSendMessageController(router *usecase.RouteMessageUseCase) *SendMessageController {
	return &SendMessageController{router: router}
}

// sendMessageRequest is the DTO for the HTTP request body
type sendMessageRequest struct {
	Text        string `json:"text" binding:"required"`
	RecipientID string `json:"recipientId"`
}

// Handle persists the message and fans it out to live subscribers. The sender
// is always the authenticated user, never a body field.
func (h *SendMessageController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		busID, ok := busIDParam(c)
		if !ok {
			return
		}
		userID, role := auth.Identity(c)

		var req sendMessageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Message text is required"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		msg, err := h.router.Execute(ctx, usecase.RouteMessageInput{
			BusID:       busID,
			SenderID:    userID,
			RecipientID: req.RecipientID,
			Text:        req.Text,
			MessageType: chat.MessageTypeText,
			SenderRole:  role,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, msg)
	}
}
