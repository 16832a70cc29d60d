package usecase

import (
	"context"
	"fmt"

	bus "github.com/prathmbavge/ai-powered-bus-crowd-detect/internal/pkg/bus/domain"
	busrepo "github.com/prathmbavge/ai-powered-bus-crowd-detect/internal/pkg/bus/persistence/repository/port"
)

// GetBusUseCase fetches one bus by id.
type GetBusUseCase struct {
	Buses busrepo.BusRepository
}

func NewGetBusUseCase(buses busrepo.BusRepository) *GetBusUseCase {
	return &GetBusUseCase{Buses: buses}
}

func (uc *GetBusUseCase) Execute(ctx context.Context, id string) (*bus.Bus, error) {
	b, err := uc.Buses.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if b == nil {
		return nil, fmt.Errorf("%w: bus %s", ErrNotFound, id)
	}
	return b, nil
}
