package repository

import (
	"context"
	"time"

	chat "github.com/prathmbavge/ai-powered-bus-crowd-detect/internal/pkg/chat/domain"
)

// MessageRepository defines persistence operations for chat messages.
type MessageRepository interface {
	// Save inserts the draft and returns the generated id and created_at.
	// Referential checks on bus and recipient happen before Save, in the
	// route use case; created_at is assigned by the database.
	Save(ctx context.Context, d chat.Draft) (id string, createdAt time.Time, err error)

	// ListForBus returns every message for a bus ascending by created_at
	// (id as tiebreak), with sender/recipient name and role joined in.
	// Visibility filtering is the caller's job.
	ListForBus(ctx context.Context, busID string) ([]chat.Message, error)

	// MarkRead flips is_read on unread messages addressed to the viewer in
	// this bus and returns how many rows changed. Idempotent.
	MarkRead(ctx context.Context, busID, viewerID string) (int64, error)
}
