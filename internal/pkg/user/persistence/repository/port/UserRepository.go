package repository

import (
	"context"

	user "github.com/prathmbavge/ai-powered-bus-crowd-detect/internal/pkg/user/domain"
)

// UserRepository defines the read surface this service needs for users.
type UserRepository interface {
	// FindByID returns the user or (nil, nil) when no such user exists.
	FindByID(ctx context.Context, id string) (*user.User, error)

	// TouchLastActive records activity for presence bookkeeping. Best effort.
	TouchLastActive(ctx context.Context, id string) error
}
