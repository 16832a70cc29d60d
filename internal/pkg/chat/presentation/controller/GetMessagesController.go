package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/prathmbavge/ai-powered-bus-crowd-detect/internal/auth"
	busrepo "github.com/prathmbavge/ai-powered-bus-crowd-detect/internal/pkg/bus/persistence/repository/port"
	"github.com/prathmbavge/ai-powered-bus-crowd-detect/internal/pkg/chat/application/usecase"
	chat "github.com/prathmbavge/ai-powered-bus-crowd-detect/internal/pkg/chat/domain"
	msgAdapter "github.com/prathmbavge/ai-powered-bus-crowd-detect/internal/pkg/chat/persistence/repository/adapter"
)

// GetMessagesController handles the chat history endpoint only (one controller per endpoint)
type GetMessagesController struct {
	uc *usecase.ListMessagesUseCase
}

func NewGetMessagesController(pool *pgxpool.Pool, buses busrepo.BusRepository) *GetMessagesController {
	return &GetMessagesController{
		uc: usecase.NewListMessagesUseCase(msgAdapter.NewPgMessageRepository(pool), buses),
	}
}

// Handle returns the visibility-filtered history for the bus, oldest first.
func (h *GetMessagesController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		busID, ok := busIDParam(c)
		if !ok {
			return
		}
		userID, role := auth.Identity(c)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		msgs, err := h.uc.Execute(ctx, busID, chat.Viewer{ID: userID, Role: role})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, msgs)
	}
}
