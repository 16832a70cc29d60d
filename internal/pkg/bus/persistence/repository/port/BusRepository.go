package repository

import (
	"context"

	bus "github.com/prathmbavge/ai-powered-bus-crowd-detect/internal/pkg/bus/domain"
)

// BusRepository defines persistence operations for the bus domain.
// Read methods return (nil, nil) when the bus does not exist.
type BusRepository interface {
	Create(ctx context.Context, b bus.Bus) (*bus.Bus, error)
	FindByID(ctx context.Context, id string) (*bus.Bus, error)
	FindByNumber(ctx context.Context, busNumber string) (*bus.Bus, error)
	FindByPublicToken(ctx context.Context, token string) (*bus.Bus, error)
	List(ctx context.Context) ([]bus.Bus, error)
	ListByCreator(ctx context.Context, userID string) ([]bus.Bus, error)
	Update(ctx context.Context, id string, u bus.Update) (*bus.Bus, error)
	Delete(ctx context.Context, id string) error

	// SetCrowd records a detection result on the live state.
	SetCrowd(ctx context.Context, id string, level bus.CrowdLevel, count int) error
	// SetMonitoring toggles the monitoring flag; starting also resets the
	// crowd level to Unknown.
	SetMonitoring(ctx context.Context, id string, monitoring bool) error
	// SetVideoTask records the vision-service task handle and pipeline status.
	SetVideoTask(ctx context.Context, id string, taskID *string, status *string) error
	// SetPublicToken stores a freshly generated public access token.
	SetPublicToken(ctx context.Context, id string, token string) error
	// SetVideoURL stores the uploaded video reference.
	SetVideoURL(ctx context.Context, id string, videoURL string) error
}
