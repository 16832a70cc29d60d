package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/prathmbavge/ai-powered-bus-crowd-detect/internal/infrastructure/realtime"
	bus "github.com/prathmbavge/ai-powered-bus-crowd-detect/internal/pkg/bus/domain"
	busrepo "github.com/prathmbavge/ai-powered-bus-crowd-detect/internal/pkg/bus/persistence/repository/port"
)

// MonitoringUseCase starts and stops live monitoring for a bus. Starting
// resets the crowd level to Unknown until the first reading arrives; both
// transitions are announced to the bus detection room.
type MonitoringUseCase struct {
	Buses busrepo.BusRepository
	Pub   Publisher
}

func NewMonitoringUseCase(buses busrepo.BusRepository, pub Publisher) *MonitoringUseCase {
	return &MonitoringUseCase{Buses: buses, Pub: pub}
}

type monitoringFrame struct {
	Type   string `json:"type"`
	BusID  string `json:"busId"`
	Status string `json:"status"`
}

func (uc *MonitoringUseCase) Start(ctx context.Context, busID, callerID, callerRole string) (*bus.Bus, error) {
	return uc.set(ctx, busID, callerID, callerRole, true)
}

func (uc *MonitoringUseCase) Stop(ctx context.Context, busID, callerID, callerRole string) (*bus.Bus, error) {
	return uc.set(ctx, busID, callerID, callerRole, false)
}

func (uc *MonitoringUseCase) set(ctx context.Context, busID, callerID, callerRole string, monitoring bool) (*bus.Bus, error) {
	b, err := uc.Buses.FindByID(ctx, busID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if b == nil {
		return nil, fmt.Errorf("%w: bus %s", ErrNotFound, busID)
	}
	if !b.ManagedBy(callerID, callerRole) {
		return nil, fmt.Errorf("%w: only the creator or an admin may control monitoring", ErrNotAuthorized)
	}

	if err := uc.Buses.SetMonitoring(ctx, busID, monitoring); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	updated, err := uc.Buses.FindByID(ctx, busID)
	if err != nil || updated == nil {
		updated = b
		updated.IsMonitoring = monitoring
	}

	event, status := "monitoring:started", "started"
	if !monitoring {
		event, status = "monitoring:stopped", "stopped"
	}
	if payload, err := json.Marshal(monitoringFrame{Type: event, BusID: busID, Status: status}); err == nil {
		uc.Pub.Publish(realtime.DetectionRoom(busID), payload)
	} else {
		log.Printf("detection: encode %s for bus %s: %v", event, busID, err)
	}
	return updated, nil
}
