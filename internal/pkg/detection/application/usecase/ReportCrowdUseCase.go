package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/prathmbavge/ai-powered-bus-crowd-detect/internal/infrastructure/realtime"
	bus "github.com/prathmbavge/ai-powered-bus-crowd-detect/internal/pkg/bus/domain"
	busrepo "github.com/prathmbavge/ai-powered-bus-crowd-detect/internal/pkg/bus/persistence/repository/port"
)

// ReportCrowdUseCase applies a crowd reading pushed over a live connection by
// a monitoring client that runs detection on its own hardware. The reading is
// trusted as-is; unknown level strings degrade to Unknown.
type ReportCrowdUseCase struct {
	Buses busrepo.BusRepository
	Pub   Publisher
}

func NewReportCrowdUseCase(buses busrepo.BusRepository, pub Publisher) *ReportCrowdUseCase {
	return &ReportCrowdUseCase{Buses: buses, Pub: pub}
}

// Report satisfies the socket controller's CrowdReporter dependency.
func (uc *ReportCrowdUseCase) Report(ctx context.Context, busID string, count int, level string) error {
	if count < 0 {
		return fmt.Errorf("%w: count must not be negative", ErrValidation)
	}

	b, err := uc.Buses.FindByID(ctx, busID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if b == nil {
		return fmt.Errorf("%w: bus %s", ErrNotFound, busID)
	}

	normalized := normalizeLevel(level)
	if err := uc.Buses.SetCrowd(ctx, busID, normalized, count); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	uc.publishCrowdUpdate(busID, count, normalized)
	return nil
}

// crowdUpdate frames echo the inbound event name so existing subscribers keep
// working; readings that arrive through the vision pipeline use
// detection:update instead.
func (uc *ReportCrowdUseCase) publishCrowdUpdate(busID string, count int, level bus.CrowdLevel) {
	payload, err := json.Marshal(struct {
		Type       string         `json:"type"`
		BusID      string         `json:"busId"`
		Count      int            `json:"count"`
		CrowdLevel bus.CrowdLevel `json:"crowdLevel"`
		Timestamp  int64          `json:"timestamp"`
	}{
		Type:       "crowdUpdate",
		BusID:      busID,
		Count:      count,
		CrowdLevel: level,
		Timestamp:  time.Now().UnixMilli(),
	})
	if err != nil {
		log.Printf("detection: encode crowd update for bus %s: %v", busID, err)
		return
	}
	uc.Pub.Publish(realtime.DetectionRoom(busID), payload)
}
