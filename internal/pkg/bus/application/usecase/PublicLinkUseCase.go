package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	bus "github.com/prathmbavge/ai-powered-bus-crowd-detect/internal/pkg/bus/domain"
	busrepo "github.com/prathmbavge/ai-powered-bus-crowd-detect/internal/pkg/bus/persistence/repository/port"
)

// PublicLinkUseCase issues and resolves shareable read-only tokens. Anyone
// holding the token can view the bus without an account; generating a new
// token invalidates the previous one.
type PublicLinkUseCase struct {
	Buses busrepo.BusRepository
}

func NewPublicLinkUseCase(buses busrepo.BusRepository) *PublicLinkUseCase {
	return &PublicLinkUseCase{Buses: buses}
}

// Generate mints a fresh token for the bus. Only the creator or an admin may
// share a bus publicly.
func (uc *PublicLinkUseCase) Generate(ctx context.Context, id, callerID, callerRole string) (string, error) {
	b, err := uc.Buses.FindByID(ctx, id)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if b == nil {
		return "", fmt.Errorf("%w: bus %s", ErrNotFound, id)
	}
	if !b.ManagedBy(callerID, callerRole) {
		return "", fmt.Errorf("%w: only the creator or an admin may share this bus", ErrNotAuthorized)
	}

	token := uuid.NewString()
	if err := uc.Buses.SetPublicToken(ctx, id, token); err != nil {
		return "", fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return token, nil
}

// Resolve returns the bus behind a public token.
func (uc *PublicLinkUseCase) Resolve(ctx context.Context, token string) (*bus.Bus, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: token is required", ErrValidation)
	}
	b, err := uc.Buses.FindByPublicToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if b == nil {
		return nil, fmt.Errorf("%w: invalid or expired link", ErrNotFound)
	}
	return b, nil
}
