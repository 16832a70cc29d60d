package usecase

import (
	"context"
	"io"

	"github.com/prathmbavge/ai-powered-bus-crowd-detect/internal/infrastructure/realtime"
	"github.com/prathmbavge/ai-powered-bus-crowd-detect/internal/pkg/detection/vision"
)

// Publisher is the live fan-out surface the detection use cases need.
type Publisher interface {
	Publish(room realtime.Room, payload []byte) int
}

// VisionService is the slice of the detection client the use cases consume.
// *vision.Client satisfies it; tests substitute fakes.
type VisionService interface {
	DetectFrame(ctx context.Context, imageBase64 string) (*vision.FrameResult, error)
	DetectVideo(ctx context.Context, busID, filename string, video io.Reader) (*vision.VideoTask, error)
	VideoStatus(ctx context.Context, taskID string) (*vision.VideoStatus, error)
}
