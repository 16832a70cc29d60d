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
	msgAdapter "github.com/prathmbavge/ai-powered-bus-crowd-detect/internal/pkg/chat/persistence/repository/adapter"
)

// MarkReadController handles the mark-read endpoint only (one controller per endpoint)
type MarkReadController struct {
	uc *usecase.MarkReadUseCase
}

func NewMarkReadController(pool *pgxpool.Pool, buses busrepo.BusRepository) *MarkReadController {
	return &MarkReadController{
		uc: usecase.NewMarkReadUseCase(msgAdapter.NewPgMessageRepository(pool), buses),
	}
}

// Handle marks all messages addressed to the caller in this bus chat as read.
// Repeated calls are harmless. Kept as GET for compatibility with the
// existing frontend.
func (h *MarkReadController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		busID, ok := busIDParam(c)
		if !ok {
			return
		}
		userID, _ := auth.Identity(c)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		count, err := h.uc.Execute(ctx, busID, userID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Messages marked as read", "updated": count})
	}
}
