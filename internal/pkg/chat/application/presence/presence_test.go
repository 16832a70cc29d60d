package presence

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prathmbavge/ai-powered-bus-crowd-detect/internal/infrastructure/realtime"
	bus "github.com/prathmbavge/ai-powered-bus-crowd-detect/internal/pkg/bus/domain"
	"github.com/prathmbavge/ai-powered-bus-crowd-detect/internal/pkg/chat/application/usecase"
)

type sent struct {
	room   realtime.Room
	connID string
	data   []byte
}

type fakeLive struct {
	joins    []realtime.Room
	leaves   []realtime.Room
	direct   []sent
	roomWide chan sent
}

func newFakeLive() *fakeLive {
	return &fakeLive{roomWide: make(chan sent, 8)}
}

func (f *fakeLive) Join(connID string, room realtime.Room)  { f.joins = append(f.joins, room) }
func (f *fakeLive) Leave(connID string, room realtime.Room) { f.leaves = append(f.leaves, room) }

func (f *fakeLive) PublishExcept(room realtime.Room, payload []byte, exceptConnID string) int {
	f.roomWide <- sent{room: room, connID: exceptConnID, data: payload}
	return 1
}

func (f *fakeLive) SendTo(connID string, payload []byte) bool {
	f.direct = append(f.direct, sent{connID: connID, data: payload})
	return true
}

type fakeBuses map[string]*bus.Bus

func (f fakeBuses) FindByID(ctx context.Context, id string) (*bus.Bus, error) {
	return f[id], nil
}

func knownBus() fakeBuses {
	return fakeBuses{"bus-1": {ID: "bus-1", BusNumber: "42A", Route: "Central - Airport"}}
}

func frameText(t *testing.T, data []byte) string {
	t.Helper()
	var frame struct {
		Type    string `json:"type"`
		Message struct {
			Text     string `json:"text"`
			IsSystem bool   `json:"isSystem"`
		} `json:"message"`
	}
	if err := json.Unmarshal(data, &frame); err != nil {
		t.Fatalf("decode frame: %v", err)
	}
	if frame.Type != "chatMessage" || !frame.Message.IsSystem {
		t.Fatalf("unexpected frame shape: %s", data)
	}
	return frame.Message.Text
}

func TestJoinChatGreetsJoinerPrivately(t *testing.T) {
	live := newFakeLive()
	m := NewManager(live, knownBus())

	if err := m.JoinChat(context.Background(), "conn-1", "bus-1", "Alice"); err != nil {
		t.Fatalf("JoinChat: %v", err)
	}

	if len(live.joins) != 1 || live.joins[0] != realtime.ChatRoom("bus-1") {
		t.Fatalf("joins = %v, want the bus chat room", live.joins)
	}
	if len(live.direct) != 1 || live.direct[0].connID != "conn-1" {
		t.Fatalf("welcome not sent directly to the joiner: %+v", live.direct)
	}
	text := frameText(t, live.direct[0].data)
	if !strings.Contains(text, "Bus 42A") || !strings.Contains(text, "Central - Airport") {
		t.Fatalf("welcome text = %q, want the bus number and route", text)
	}

	select {
	case got := <-live.roomWide:
		if got.connID != "conn-1" {
			t.Fatalf("join notice did not exclude the joiner (except=%q)", got.connID)
		}
		if text := frameText(t, got.data); !strings.Contains(text, "Alice has joined") {
			t.Fatalf("join notice text = %q", text)
		}
	case <-time.After(time.Second):
		t.Fatal("no join notice published")
	}
}

func TestJoinChatRejectsUnknownBus(t *testing.T) {
	live := newFakeLive()
	m := NewManager(live, knownBus())

	err := m.JoinChat(context.Background(), "conn-1", "no-such-bus", "Alice")
	if !errors.Is(err, usecase.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if len(live.joins) != 0 {
		t.Fatalf("joined rooms for an unknown bus: %v", live.joins)
	}
	if len(live.direct) != 0 {
		t.Fatalf("greeted a joiner for an unknown bus: %+v", live.direct)
	}
	select {
	case got := <-live.roomWide:
		t.Fatalf("unexpected notice for an unknown bus: %s", got.data)
	default:
	}
}

func TestLeaveChatAnnouncesAsynchronously(t *testing.T) {
	live := newFakeLive()
	m := NewManager(live, knownBus())

	m.LeaveChat("conn-1", "bus-1", "Alice")

	if len(live.leaves) != 1 || live.leaves[0] != realtime.ChatRoom("bus-1") {
		t.Fatalf("leaves = %v, want the bus chat room", live.leaves)
	}
	select {
	case got := <-live.roomWide:
		if text := frameText(t, got.data); !strings.Contains(text, "Alice has left") {
			t.Fatalf("leave notice text = %q", text)
		}
	case <-time.After(time.Second):
		t.Fatal("no leave notice published")
	}
}

// A dropped connection is detached by the registry without going through the
// presence manager, so the room hears nothing and a fast reconnect is silent.
func TestDirtyDisconnectSaysNothing(t *testing.T) {
	live := newFakeLive()
	_ = NewManager(live, knownBus())

	reg := realtime.NewRegistry()
	conn := realtime.NewConnection(nil)
	reg.Attach(conn)
	reg.Join(conn.ID, realtime.ChatRoom("bus-1"))
	reg.Detach(conn.ID)

	select {
	case got := <-live.roomWide:
		t.Fatalf("unexpected notice after dirty disconnect: %s", got.data)
	case <-time.After(50 * time.Millisecond):
	}
}
