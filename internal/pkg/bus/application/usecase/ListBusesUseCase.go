package usecase

import (
	"context"
	"fmt"

	bus "github.com/prathmbavge/ai-powered-bus-crowd-detect/internal/pkg/bus/domain"
	busrepo "github.com/prathmbavge/ai-powered-bus-crowd-detect/internal/pkg/bus/persistence/repository/port"
)

// ListBusesUseCase returns the whole fleet, or only the caller's buses when
// mine is set.
type ListBusesUseCase struct {
	Buses busrepo.BusRepository
}

func NewListBusesUseCase(buses busrepo.BusRepository) *ListBusesUseCase {
	return &ListBusesUseCase{Buses: buses}
}

func (uc *ListBusesUseCase) Execute(ctx context.Context, callerID string, mine bool) ([]bus.Bus, error) {
	var (
		out []bus.Bus
		err error
	)
	if mine {
		out, err = uc.Buses.ListByCreator(ctx, callerID)
	} else {
		out, err = uc.Buses.List(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return out, nil
}
