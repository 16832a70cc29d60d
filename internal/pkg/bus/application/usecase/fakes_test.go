package usecase

import (
	"context"
	"fmt"
	"time"

	bus "github.com/prathmbavge/ai-powered-bus-crowd-detect/internal/pkg/bus/domain"
)

// memBuses is an in-memory BusRepository used across the use case tests.
type memBuses struct {
	seq   int
	buses map[string]*bus.Bus
}

func newMemBuses() *memBuses {
	return &memBuses{buses: make(map[string]*bus.Bus)}
}

func (f *memBuses) Create(ctx context.Context, b bus.Bus) (*bus.Bus, error) {
	f.seq++
	b.ID = fmt.Sprintf("bus-%d", f.seq)
	b.CreatedAt = time.Now().UTC()
	b.UpdatedAt = b.CreatedAt
	f.buses[b.ID] = &b
	out := b
	return &out, nil
}

func (f *memBuses) FindByID(ctx context.Context, id string) (*bus.Bus, error) {
	if b, ok := f.buses[id]; ok {
		out := *b
		return &out, nil
	}
	return nil, nil
}

func (f *memBuses) FindByNumber(ctx context.Context, busNumber string) (*bus.Bus, error) {
	for _, b := range f.buses {
		if b.BusNumber == busNumber {
			out := *b
			return &out, nil
		}
	}
	return nil, nil
}

func (f *memBuses) FindByPublicToken(ctx context.Context, token string) (*bus.Bus, error) {
	for _, b := range f.buses {
		if b.PublicAccessToken != nil && *b.PublicAccessToken == token {
			out := *b
			return &out, nil
		}
	}
	return nil, nil
}

func (f *memBuses) List(ctx context.Context) ([]bus.Bus, error) {
	out := make([]bus.Bus, 0, len(f.buses))
	for _, b := range f.buses {
		out = append(out, *b)
	}
	return out, nil
}

func (f *memBuses) ListByCreator(ctx context.Context, userID string) ([]bus.Bus, error) {
	var out []bus.Bus
	for _, b := range f.buses {
		if b.CreatedBy.ID == userID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (f *memBuses) Update(ctx context.Context, id string, u bus.Update) (*bus.Bus, error) {
	b, ok := f.buses[id]
	if !ok {
		return nil, nil
	}
	if u.BusNumber != nil {
		b.BusNumber = *u.BusNumber
	}
	if u.Route != nil {
		b.Route = *u.Route
	}
	if u.Capacity != nil {
		b.Capacity = *u.Capacity
	}
	if u.Status != nil {
		b.Status = *u.Status
	}
	if u.StreamURL != nil {
		b.StreamURL = u.StreamURL
	}
	if u.CurrentCrowdLevel != nil {
		b.CurrentCrowdLevel = *u.CurrentCrowdLevel
	}
	if u.CurrentCount != nil {
		b.CurrentCount = *u.CurrentCount
	}
	if u.IsMonitoring != nil {
		b.IsMonitoring = *u.IsMonitoring
	}
	b.UpdatedAt = time.Now().UTC()
	out := *b
	return &out, nil
}

func (f *memBuses) Delete(ctx context.Context, id string) error {
	delete(f.buses, id)
	return nil
}

func (f *memBuses) SetCrowd(ctx context.Context, id string, level bus.CrowdLevel, count int) error {
	if b, ok := f.buses[id]; ok {
		b.CurrentCrowdLevel = level
		b.CurrentCount = count
	}
	return nil
}

func (f *memBuses) SetMonitoring(ctx context.Context, id string, monitoring bool) error {
	if b, ok := f.buses[id]; ok {
		b.IsMonitoring = monitoring
		if monitoring {
			b.CurrentCrowdLevel = bus.CrowdUnknown
			b.CurrentCount = 0
		}
	}
	return nil
}

func (f *memBuses) SetVideoTask(ctx context.Context, id string, taskID *string, status *string) error {
	if b, ok := f.buses[id]; ok {
		b.VideoTaskID = taskID
		b.VideoStatus = status
	}
	return nil
}

func (f *memBuses) SetPublicToken(ctx context.Context, id string, token string) error {
	if b, ok := f.buses[id]; ok {
		b.PublicAccessToken = &token
	}
	return nil
}

func (f *memBuses) SetVideoURL(ctx context.Context, id string, videoURL string) error {
	if b, ok := f.buses[id]; ok {
		b.VideoURL = &videoURL
	}
	return nil
}
