package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/prathmbavge/ai-powered-bus-crowd-detect/internal/infrastructure/realtime"
	bus "github.com/prathmbavge/ai-powered-bus-crowd-detect/internal/pkg/bus/domain"
	busrepo "github.com/prathmbavge/ai-powered-bus-crowd-detect/internal/pkg/bus/persistence/repository/port"
	"github.com/prathmbavge/ai-powered-bus-crowd-detect/internal/pkg/detection/vision"
)

// VideoStatusUseCase polls the vision service for an in-flight video task and
// folds terminal outcomes back into the bus record, notifying subscribers.
type VideoStatusUseCase struct {
	Buses  busrepo.BusRepository
	Vision VisionService
	Pub    Publisher
}

func NewVideoStatusUseCase(buses busrepo.BusRepository, vs VisionService, pub Publisher) *VideoStatusUseCase {
	return &VideoStatusUseCase{Buses: buses, Vision: vs, Pub: pub}
}

// VideoStatusResult combines the bus identity with the upstream status.
type VideoStatusResult struct {
	BusID  string `json:"busId"`
	TaskID string `json:"taskId"`
	vision.VideoStatus
}

type videoCompletedFrame struct {
	Type    string          `json:"type"`
	BusID   string          `json:"busId"`
	Count   int             `json:"count"`
	Level   string          `json:"level"`
	Results json.RawMessage `json:"results,omitempty"`
}

type videoErrorFrame struct {
	Type  string `json:"type"`
	BusID string `json:"busId"`
	Error string `json:"error"`
}

func (uc *VideoStatusUseCase) Execute(ctx context.Context, busID string) (*VideoStatusResult, error) {
	b, err := uc.Buses.FindByID(ctx, busID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if b == nil {
		return nil, fmt.Errorf("%w: bus %s", ErrNotFound, busID)
	}
	if b.VideoTaskID == nil || *b.VideoTaskID == "" {
		return nil, fmt.Errorf("%w: no video processing task found for this bus", ErrValidation)
	}

	status, err := uc.Vision.VideoStatus(ctx, *b.VideoTaskID)
	if err != nil {
		if errors.Is(err, vision.ErrUpstreamTimeout) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	switch status.Status {
	case "completed":
		level := normalizeLevel(status.MaxLevel)
		if err := uc.Buses.SetCrowd(ctx, busID, level, status.MaxCount); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
		}
		done := bus.VideoCompleted
		if err := uc.Buses.SetVideoTask(ctx, busID, b.VideoTaskID, &done); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
		}
		uc.publish(busID, videoCompletedFrame{
			Type:    "video:completed",
			BusID:   busID,
			Count:   status.MaxCount,
			Level:   string(level),
			Results: status.Results,
		})
	case "error":
		failed := bus.VideoError
		if err := uc.Buses.SetVideoTask(ctx, busID, b.VideoTaskID, &failed); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
		}
		uc.publish(busID, videoErrorFrame{Type: "video:error", BusID: busID, Error: status.Error})
	}

	return &VideoStatusResult{BusID: busID, TaskID: *b.VideoTaskID, VideoStatus: *status}, nil
}

func (uc *VideoStatusUseCase) publish(busID string, frame interface{}) {
	payload, err := json.Marshal(frame)
	if err != nil {
		log.Printf("detection: encode video event for bus %s: %v", busID, err)
		return
	}
	uc.Pub.Publish(realtime.DetectionRoom(busID), payload)
}
