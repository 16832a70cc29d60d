package usecase

import (
	"context"
	"fmt"

	busrepo "github.com/prathmbavge/ai-powered-bus-crowd-detect/internal/pkg/bus/persistence/repository/port"
)

// DeleteBusUseCase removes a bus and its chat history. Same authorization
// rule as update.
type DeleteBusUseCase struct {
	Buses busrepo.BusRepository
}

func NewDeleteBusUseCase(buses busrepo.BusRepository) *DeleteBusUseCase {
	return &DeleteBusUseCase{Buses: buses}
}

func (uc *DeleteBusUseCase) Execute(ctx context.Context, id, callerID, callerRole string) error {
	b, err := uc.Buses.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if b == nil {
		return fmt.Errorf("%w: bus %s", ErrNotFound, id)
	}
	if !b.ManagedBy(callerID, callerRole) {
		return fmt.Errorf("%w: only the creator or an admin may delete this bus", ErrNotAuthorized)
	}
	if err := uc.Buses.Delete(ctx, id); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return nil
}
