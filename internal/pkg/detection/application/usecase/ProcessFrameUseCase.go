package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/prathmbavge/ai-powered-bus-crowd-detect/internal/infrastructure/realtime"
	bus "github.com/prathmbavge/ai-powered-bus-crowd-detect/internal/pkg/bus/domain"
	busrepo "github.com/prathmbavge/ai-powered-bus-crowd-detect/internal/pkg/bus/persistence/repository/port"
	"github.com/prathmbavge/ai-powered-bus-crowd-detect/internal/pkg/detection/vision"
)

// ProcessFrameUseCase runs one camera frame through the vision service and
// applies the reading: persist first, then broadcast to the detection room.
// Frames for a bus that is not monitoring are rejected.
type ProcessFrameUseCase struct {
	Buses  busrepo.BusRepository
	Vision VisionService
	Pub    Publisher
}

func NewProcessFrameUseCase(buses busrepo.BusRepository, vs VisionService, pub Publisher) *ProcessFrameUseCase {
	return &ProcessFrameUseCase{Buses: buses, Vision: vs, Pub: pub}
}

// FrameOutcome is the applied detection result.
type FrameOutcome struct {
	BusID string         `json:"busId"`
	Count int            `json:"count"`
	Level bus.CrowdLevel `json:"level"`
}

type detectionUpdateFrame struct {
	Type      string         `json:"type"`
	BusID     string         `json:"busId"`
	Count     int            `json:"count"`
	Level     bus.CrowdLevel `json:"level"`
	Timestamp int64          `json:"timestamp"`
}

func (uc *ProcessFrameUseCase) Execute(ctx context.Context, busID, imageBase64 string) (*FrameOutcome, error) {
	if imageBase64 == "" {
		return nil, fmt.Errorf("%w: no image provided", ErrValidation)
	}

	b, err := uc.Buses.FindByID(ctx, busID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if b == nil {
		return nil, fmt.Errorf("%w: bus %s", ErrNotFound, busID)
	}
	if !b.IsMonitoring {
		return nil, fmt.Errorf("%w: bus is not currently being monitored", ErrValidation)
	}

	res, err := uc.Vision.DetectFrame(ctx, imageBase64)
	if err != nil {
		if errors.Is(err, vision.ErrUpstreamTimeout) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	level := normalizeLevel(res.Level)
	if err := uc.Buses.SetCrowd(ctx, busID, level, res.Count); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	publishDetectionUpdate(uc.Pub, busID, res.Count, level)
	return &FrameOutcome{BusID: busID, Count: res.Count, Level: level}, nil
}

func publishDetectionUpdate(pub Publisher, busID string, count int, level bus.CrowdLevel) {
	payload, err := json.Marshal(detectionUpdateFrame{
		Type:      "detection:update",
		BusID:     busID,
		Count:     count,
		Level:     level,
		Timestamp: time.Now().UnixMilli(),
	})
	if err != nil {
		log.Printf("detection: encode update for bus %s: %v", busID, err)
		return
	}
	pub.Publish(realtime.DetectionRoom(busID), payload)
}

func normalizeLevel(raw string) bus.CrowdLevel {
	switch bus.CrowdLevel(raw) {
	case bus.CrowdLow, bus.CrowdMedium, bus.CrowdHigh, bus.CrowdCritical:
		return bus.CrowdLevel(raw)
	default:
		return bus.CrowdUnknown
	}
}
