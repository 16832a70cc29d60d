package usecase

import (
	"context"
	"encoding/json"
	"fmt"

	queueport "github.com/prathmbavge/ai-powered-bus-crowd-detect/internal/infrastructure/queue/port"
	bus "github.com/prathmbavge/ai-powered-bus-crowd-detect/internal/pkg/bus/domain"
	busrepo "github.com/prathmbavge/ai-powered-bus-crowd-detect/internal/pkg/bus/persistence/repository/port"
)

// SubmitVideoInput references a video already spooled to local disk by the
// upload handler.
type SubmitVideoInput struct {
	BusID      string
	CallerID   string
	CallerRole string
	FilePath   string
	Filename   string
}

// SubmitVideoUseCase hands an uploaded video to the background worker. The
// request returns as soon as the job is queued; progress flows to subscribers
// over the detection room.
type SubmitVideoUseCase struct {
	Buses    busrepo.BusRepository
	Queue    queueport.Client
	TaskType string
}

func NewSubmitVideoUseCase(buses busrepo.BusRepository, queue queueport.Client, taskType string) *SubmitVideoUseCase {
	return &SubmitVideoUseCase{Buses: buses, Queue: queue, TaskType: taskType}
}

func (uc *SubmitVideoUseCase) Execute(ctx context.Context, in SubmitVideoInput) error {
	b, err := uc.Buses.FindByID(ctx, in.BusID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if b == nil {
		return fmt.Errorf("%w: bus %s", ErrNotFound, in.BusID)
	}
	if !b.ManagedBy(in.CallerID, in.CallerRole) {
		return fmt.Errorf("%w: only the creator or an admin may process videos", ErrNotAuthorized)
	}

	payload, err := json.Marshal(map[string]string{
		"bus_id":    in.BusID,
		"file_path": in.FilePath,
		"filename":  in.Filename,
	})
	if err != nil {
		return fmt.Errorf("%w: encode task payload: %v", ErrPersistence, err)
	}

	status := bus.VideoPending
	if err := uc.Buses.SetVideoTask(ctx, in.BusID, nil, &status); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	_, err = uc.Queue.Enqueue(ctx, queueport.Task{Type: uc.TaskType, Payload: payload}, queueport.EnqueueOption{
		Queue:    "detection",
		MaxRetry: -1,
	})
	if err != nil {
		return fmt.Errorf("%w: enqueue video task: %v", ErrPersistence, err)
	}
	return nil
}
