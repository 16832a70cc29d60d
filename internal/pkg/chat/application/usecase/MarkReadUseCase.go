package usecase

import (
	"context"
	"fmt"

	busrepo "github.com/prathmbavge/ai-powered-bus-crowd-detect/internal/pkg/bus/persistence/repository/port"
	msgrepo "github.com/prathmbavge/ai-powered-bus-crowd-detect/internal/pkg/chat/persistence/repository/port"
)

// MarkReadUseCase flips the unread flag on all messages addressed to the
// viewer in a bus chat. Safe to call repeatedly; the second call finds
// nothing left to update.
type MarkReadUseCase struct {
	Messages msgrepo.MessageRepository
	Buses    busrepo.BusRepository
}

func NewMarkReadUseCase(messages msgrepo.MessageRepository, buses busrepo.BusRepository) *MarkReadUseCase {
	return &MarkReadUseCase{Messages: messages, Buses: buses}
}

func (uc *MarkReadUseCase) Execute(ctx context.Context, busID, viewerID string) (int64, error) {
	b, err := uc.Buses.FindByID(ctx, busID)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if b == nil {
		return 0, fmt.Errorf("%w: bus %s", ErrNotFound, busID)
	}

	count, err := uc.Messages.MarkRead(ctx, busID, viewerID)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return count, nil
}
