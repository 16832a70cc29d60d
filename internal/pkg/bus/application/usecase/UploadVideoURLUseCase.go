package usecase

import (
	"context"
	"fmt"
	"strings"

	bus "github.com/prathmbavge/ai-powered-bus-crowd-detect/internal/pkg/bus/domain"
	busrepo "github.com/prathmbavge/ai-powered-bus-crowd-detect/internal/pkg/bus/persistence/repository/port"
)

// UploadVideoURLUseCase records an externally hosted video reference on the
// bus. Detection on an uploaded file goes through the detection pipeline
// instead; this only stores the URL.
type UploadVideoURLUseCase struct {
	Buses busrepo.BusRepository
}

func NewUploadVideoURLUseCase(buses busrepo.BusRepository) *UploadVideoURLUseCase {
	return &UploadVideoURLUseCase{Buses: buses}
}

func (uc *UploadVideoURLUseCase) Execute(ctx context.Context, id, videoURL, callerID, callerRole string) (*bus.Bus, error) {
	videoURL = strings.TrimSpace(videoURL)
	if videoURL == "" {
		return nil, fmt.Errorf("%w: video URL is required", ErrValidation)
	}

	b, err := uc.Buses.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if b == nil {
		return nil, fmt.Errorf("%w: bus %s", ErrNotFound, id)
	}
	if !b.ManagedBy(callerID, callerRole) {
		return nil, fmt.Errorf("%w: only the creator or an admin may upload videos for this bus", ErrNotAuthorized)
	}

	if err := uc.Buses.SetVideoURL(ctx, id, videoURL); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	updated, err := uc.Buses.FindByID(ctx, id)
	if err != nil || updated == nil {
		b.VideoURL = &videoURL
		return b, nil
	}
	return updated, nil
}
