package usecase

import (
	"context"
	"fmt"

	bus "github.com/prathmbavge/ai-powered-bus-crowd-detect/internal/pkg/bus/domain"
	busrepo "github.com/prathmbavge/ai-powered-bus-crowd-detect/internal/pkg/bus/persistence/repository/port"
)

// UpdateBusUseCase applies a partial update. Only an admin or the creator may
// modify a bus; changing the number re-checks fleet-wide uniqueness.
type UpdateBusUseCase struct {
	Buses busrepo.BusRepository
}

func NewUpdateBusUseCase(buses busrepo.BusRepository) *UpdateBusUseCase {
	return &UpdateBusUseCase{Buses: buses}
}

func (uc *UpdateBusUseCase) Execute(ctx context.Context, id string, u bus.Update, callerID, callerRole string) (*bus.Bus, error) {
	b, err := uc.Buses.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if b == nil {
		return nil, fmt.Errorf("%w: bus %s", ErrNotFound, id)
	}
	if !b.ManagedBy(callerID, callerRole) {
		return nil, fmt.Errorf("%w: only the creator or an admin may update this bus", ErrNotAuthorized)
	}

	if u.BusNumber != nil && *u.BusNumber != b.BusNumber {
		existing, err := uc.Buses.FindByNumber(ctx, *u.BusNumber)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
		}
		if existing != nil {
			return nil, fmt.Errorf("%w: bus number %s already exists", ErrConflict, *u.BusNumber)
		}
	}

	updated, err := uc.Buses.Update(ctx, id, u)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return updated, nil
}
