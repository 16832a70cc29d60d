package task

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	queueport "github.com/prathmbavge/ai-powered-bus-crowd-detect/internal/infrastructure/queue/port"
	"github.com/prathmbavge/ai-powered-bus-crowd-detect/internal/infrastructure/realtime"
	bus "github.com/prathmbavge/ai-powered-bus-crowd-detect/internal/pkg/bus/domain"
	busrepo "github.com/prathmbavge/ai-powered-bus-crowd-detect/internal/pkg/bus/persistence/repository/port"
	"github.com/prathmbavge/ai-powered-bus-crowd-detect/internal/pkg/detection/application/usecase"
)

// ProcessVideoTaskType identifies the background video-submission job.
const ProcessVideoTaskType = "detection:process_video"

// ProcessVideoTaskPayload references an uploaded video on local disk. The
// file is owned by the task once enqueued and is deleted after submission.
type ProcessVideoTaskPayload struct {
	BusID    string `json:"bus_id"`
	FilePath string `json:"file_path"`
	Filename string `json:"filename"`
}

type videoEventFrame struct {
	Type   string `json:"type"`
	BusID  string `json:"busId"`
	TaskID string `json:"taskId,omitempty"`
	Status string `json:"status,omitempty"`
	Error  string `json:"error,omitempty"`
}

// ProcessVideoWorker submits uploaded videos to the vision service off the
// request path. Submission alone can take minutes for large files, hence the
// queue hop; the HTTP handler only stores the file and enqueues.
type ProcessVideoWorker struct {
	Buses  busrepo.BusRepository
	Vision usecase.VisionService
	Pub    usecase.Publisher
}

func NewProcessVideoWorker(buses busrepo.BusRepository, vs usecase.VisionService, pub usecase.Publisher) *ProcessVideoWorker {
	return &ProcessVideoWorker{Buses: buses, Vision: vs, Pub: pub}
}

// Handle is the queue handler. Every outcome is terminal: a failed
// submission marks the bus errored and notifies subscribers rather than
// retrying a multi-minute upload.
func (w *ProcessVideoWorker) Handle(ctx context.Context, t queueport.Task) error {
	var payload ProcessVideoTaskPayload
	if err := json.Unmarshal(t.Payload, &payload); err != nil {
		log.Printf("detection: drop malformed video task: %v", err)
		return nil
	}
	defer func() {
		if err := os.Remove(payload.FilePath); err != nil && !os.IsNotExist(err) {
			log.Printf("detection: remove temp video %s: %v", payload.FilePath, err)
		}
	}()

	if err := w.submit(ctx, payload); err != nil {
		log.Printf("detection: video submission for bus %s: %v", payload.BusID, err)
		status := bus.VideoError
		_ = w.Buses.SetVideoTask(ctx, payload.BusID, nil, &status)
		w.publish(videoEventFrame{Type: "video:error", BusID: payload.BusID, Error: err.Error()})
	}
	return nil
}

func (w *ProcessVideoWorker) submit(ctx context.Context, payload ProcessVideoTaskPayload) error {
	f, err := os.Open(payload.FilePath)
	if err != nil {
		return fmt.Errorf("open uploaded video: %w", err)
	}
	defer f.Close()

	task, err := w.Vision.DetectVideo(ctx, payload.BusID, payload.Filename, f)
	if err != nil {
		return fmt.Errorf("submit video for bus %s: %w", payload.BusID, err)
	}

	status := bus.VideoProcessing
	if err := w.Buses.SetVideoTask(ctx, payload.BusID, &task.TaskID, &status); err != nil {
		return fmt.Errorf("record video task for bus %s: %w", payload.BusID, err)
	}

	w.publish(videoEventFrame{Type: "video:processing", BusID: payload.BusID, TaskID: task.TaskID, Status: bus.VideoProcessing})
	return nil
}

func (w *ProcessVideoWorker) publish(frame videoEventFrame) {
	payload, err := json.Marshal(frame)
	if err != nil {
		log.Printf("detection: encode %s for bus %s: %v", frame.Type, frame.BusID, err)
		return
	}
	w.Pub.Publish(realtime.DetectionRoom(frame.BusID), payload)
}
