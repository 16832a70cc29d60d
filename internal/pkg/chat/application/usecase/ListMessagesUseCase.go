package usecase

import (
	"context"
	"fmt"

	busrepo "github.com/prathmbavge/ai-powered-bus-crowd-detect/internal/pkg/bus/persistence/repository/port"
	chat "github.com/prathmbavge/ai-powered-bus-crowd-detect/internal/pkg/chat/domain"
	msgrepo "github.com/prathmbavge/ai-powered-bus-crowd-detect/internal/pkg/chat/persistence/repository/port"
)

// ListMessagesUseCase returns the visibility-filtered chat history for a bus,
// ascending by time. The filter applied here is the same predicate the live
// path enforces through room selection.
type ListMessagesUseCase struct {
	Messages msgrepo.MessageRepository
	Buses    busrepo.BusRepository
}

func NewListMessagesUseCase(messages msgrepo.MessageRepository, buses busrepo.BusRepository) *ListMessagesUseCase {
	return &ListMessagesUseCase{Messages: messages, Buses: buses}
}

func (uc *ListMessagesUseCase) Execute(ctx context.Context, busID string, viewer chat.Viewer) ([]chat.Message, error) {
	b, err := uc.Buses.FindByID(ctx, busID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if b == nil {
		return nil, fmt.Errorf("%w: bus %s", ErrNotFound, busID)
	}

	msgs, err := uc.Messages.ListForBus(ctx, busID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	visible := make([]chat.Message, 0, len(msgs))
	for _, m := range msgs {
		if chat.Visible(m, viewer, b.CreatedBy.ID) {
			visible = append(visible, m)
		}
	}
	return visible, nil
}
