package usecase

import (
	"context"
	"fmt"
	"strings"

	bus "github.com/prathmbavge/ai-powered-bus-crowd-detect/internal/pkg/bus/domain"
	busrepo "github.com/prathmbavge/ai-powered-bus-crowd-detect/internal/pkg/bus/persistence/repository/port"
)

// CreateBusInput carries the fields a creator supplies; everything else is
// defaulted here.
type CreateBusInput struct {
	BusNumber string
	Route     string
	Capacity  int
	StreamURL *string
	CreatorID string
}

// CreateBusUseCase registers a new bus. The bus number is unique across the
// fleet; its chat room exists implicitly from this moment on.
type CreateBusUseCase struct {
	Buses busrepo.BusRepository
}

func NewCreateBusUseCase(buses busrepo.BusRepository) *CreateBusUseCase {
	return &CreateBusUseCase{Buses: buses}
}

func (uc *CreateBusUseCase) Execute(ctx context.Context, in CreateBusInput) (*bus.Bus, error) {
	in.BusNumber = strings.TrimSpace(in.BusNumber)
	in.Route = strings.TrimSpace(in.Route)
	if in.BusNumber == "" || in.Route == "" {
		return nil, fmt.Errorf("%w: bus number and route are required", ErrValidation)
	}
	if in.Capacity <= 0 {
		in.Capacity = 50
	}

	existing, err := uc.Buses.FindByNumber(ctx, in.BusNumber)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: bus number %s already exists", ErrConflict, in.BusNumber)
	}

	created, err := uc.Buses.Create(ctx, bus.Bus{
		BusNumber:         in.BusNumber,
		Route:             in.Route,
		Capacity:          in.Capacity,
		Status:            bus.StatusActive,
		StreamURL:         in.StreamURL,
		CreatedBy:         bus.Owner{ID: in.CreatorID},
		CurrentCrowdLevel: bus.CrowdUnknown,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return created, nil
}
