package presence

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/prathmbavge/ai-powered-bus-crowd-detect/internal/infrastructure/realtime"
	bus "github.com/prathmbavge/ai-powered-bus-crowd-detect/internal/pkg/bus/domain"
	"github.com/prathmbavge/ai-powered-bus-crowd-detect/internal/pkg/chat/application/usecase"
	chat "github.com/prathmbavge/ai-powered-bus-crowd-detect/internal/pkg/chat/domain"
)

// Liveness is the slice of the connection registry the presence manager
// drives. *realtime.Registry satisfies it.
type Liveness interface {
	Join(connID string, room realtime.Room)
	Leave(connID string, room realtime.Room)
	PublishExcept(room realtime.Room, payload []byte, exceptConnID string) int
	SendTo(connID string, payload []byte) bool
}

// BusLookup resolves the bus a connection wants to chat about. The full
// repository satisfies it; the manager only ever reads.
type BusLookup interface {
	FindByID(ctx context.Context, id string) (*bus.Bus, error)
}

// Manager emits the ephemeral join/leave chatter around room membership.
// None of these notices are persisted; they exist only for connections that
// are present when they fire. A connection that drops without leaving says
// nothing, so a quick reconnect is invisible to the room.
type Manager struct {
	Live  Liveness
	Buses BusLookup
}

func NewManager(live Liveness, buses BusLookup) *Manager {
	return &Manager{Live: live, Buses: buses}
}

type noticeFrame struct {
	Type    string       `json:"type"`
	Message chat.Message `json:"message"`
}

func notice(busID, text string) []byte {
	payload, err := json.Marshal(noticeFrame{
		Type: "chatMessage",
		Message: chat.Message{
			BusID:       busID,
			Sender:      &chat.UserRef{Name: "System", Role: "system"},
			Text:        text,
			IsSystem:    true,
			MessageType: chat.MessageTypeNotification,
			CreatedAt:   time.Now().UTC(),
		},
	})
	if err != nil {
		log.Printf("presence: encode notice: %v", err)
		return nil
	}
	return payload
}

// JoinChat subscribes the connection to the bus chat room, greets the joiner
// privately, and tells everyone already there. The welcome goes only to the
// new connection; the join notice goes to everyone but them. Unknown buses
// are rejected before any room state changes, so a typo'd id cannot create a
// phantom room.
func (m *Manager) JoinChat(ctx context.Context, connID, busID, userName string) error {
	b, err := m.Buses.FindByID(ctx, busID)
	if err != nil {
		return fmt.Errorf("%w: %v", usecase.ErrPersistence, err)
	}
	if b == nil {
		return fmt.Errorf("%w: bus %s", usecase.ErrNotFound, busID)
	}

	m.Live.Join(connID, realtime.ChatRoom(busID))

	if welcome := notice(busID, fmt.Sprintf("Welcome to the chat for Bus %s (Route: %s)", b.BusNumber, b.Route)); welcome != nil {
		m.Live.SendTo(connID, welcome)
	}

	if userName == "" {
		userName = "A passenger"
	}
	if joined := notice(busID, fmt.Sprintf("%s has joined the chat", userName)); joined != nil {
		m.Live.PublishExcept(realtime.ChatRoom(busID), joined, connID)
	}
	return nil
}

// LeaveChat unsubscribes immediately and announces the departure in the
// background so the leaver never waits on the notification.
func (m *Manager) LeaveChat(connID, busID, userName string) {
	m.Live.Leave(connID, realtime.ChatRoom(busID))

	if userName == "" {
		userName = "A passenger"
	}
	go func() {
		if left := notice(busID, fmt.Sprintf("%s has left the chat", userName)); left != nil {
			m.Live.PublishExcept(realtime.ChatRoom(busID), left, connID)
		}
	}()
}
