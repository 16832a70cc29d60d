package usecase

import (
	"context"
	"errors"
	"io"

	"github.com/prathmbavge/ai-powered-bus-crowd-detect/internal/infrastructure/realtime"
	bus "github.com/prathmbavge/ai-powered-bus-crowd-detect/internal/pkg/bus/domain"
	"github.com/prathmbavge/ai-powered-bus-crowd-detect/internal/pkg/detection/vision"
)

// memBuses is an in-memory BusRepository for the detection tests.
type memBuses struct {
	buses        map[string]*bus.Bus
	failSetCrowd error
}

func newMemBuses(buses ...*bus.Bus) *memBuses {
	m := make(map[string]*bus.Bus)
	for _, b := range buses {
		m[b.ID] = b
	}
	return &memBuses{buses: m}
}

func (f *memBuses) Create(ctx context.Context, b bus.Bus) (*bus.Bus, error) {
	return nil, errors.New("not implemented")
}

func (f *memBuses) FindByID(ctx context.Context, id string) (*bus.Bus, error) {
	if b, ok := f.buses[id]; ok {
		out := *b
		return &out, nil
	}
	return nil, nil
}

func (f *memBuses) FindByNumber(ctx context.Context, n string) (*bus.Bus, error) { return nil, nil }
func (f *memBuses) FindByPublicToken(ctx context.Context, t string) (*bus.Bus, error) {
	return nil, nil
}
func (f *memBuses) List(ctx context.Context) ([]bus.Bus, error) { return nil, nil }
func (f *memBuses) ListByCreator(ctx context.Context, u string) ([]bus.Bus, error) {
	return nil, nil
}
func (f *memBuses) Update(ctx context.Context, id string, u bus.Update) (*bus.Bus, error) {
	return nil, errors.New("not implemented")
}
func (f *memBuses) Delete(ctx context.Context, id string) error { return nil }

func (f *memBuses) SetCrowd(ctx context.Context, id string, level bus.CrowdLevel, count int) error {
	if f.failSetCrowd != nil {
		return f.failSetCrowd
	}
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

func (f *memBuses) SetPublicToken(ctx context.Context, id string, token string) error { return nil }
func (f *memBuses) SetVideoURL(ctx context.Context, id string, videoURL string) error { return nil }

// fakeVision returns canned answers.
type fakeVision struct {
	frame     *vision.FrameResult
	frameErr  error
	task      *vision.VideoTask
	status    *vision.VideoStatus
	statusErr error
}

func (f *fakeVision) DetectFrame(ctx context.Context, imageBase64 string) (*vision.FrameResult, error) {
	return f.frame, f.frameErr
}

func (f *fakeVision) DetectVideo(ctx context.Context, busID, filename string, video io.Reader) (*vision.VideoTask, error) {
	return f.task, nil
}

func (f *fakeVision) VideoStatus(ctx context.Context, taskID string) (*vision.VideoStatus, error) {
	return f.status, f.statusErr
}

// fakePublisher records frames by room.
type fakePublisher struct {
	published map[realtime.Room][][]byte
}

func newFakePublisher() *fakePublisher {
	return &fakePublisher{published: make(map[realtime.Room][][]byte)}
}

func (f *fakePublisher) Publish(room realtime.Room, payload []byte) int {
	f.published[room] = append(f.published[room], payload)
	return 1
}
