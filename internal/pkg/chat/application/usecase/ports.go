package usecase

import (
	"github.com/prathmbavge/ai-powered-bus-crowd-detect/internal/infrastructure/realtime"
)

// Publisher is the fan-out port the use cases publish through. The realtime
// Registry satisfies it; tests substitute a recording fake.
type Publisher interface {
	Publish(room realtime.Room, payload []byte) int
}
