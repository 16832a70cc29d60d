package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/prathmbavge/ai-powered-bus-crowd-detect/internal/infrastructure/realtime"
	busdomain "github.com/prathmbavge/ai-powered-bus-crowd-detect/internal/pkg/bus/domain"
	chat "github.com/prathmbavge/ai-powered-bus-crowd-detect/internal/pkg/chat/domain"
	userdomain "github.com/prathmbavge/ai-powered-bus-crowd-detect/internal/pkg/user/domain"
)

func routeFixture() (*RouteMessageUseCase, *fakeMessages, *fakePublisher) {
	msgs := newFakeMessages()
	buses := newFakeBuses(&busdomain.Bus{
		ID:        "bus-1",
		BusNumber: "42A",
		Route:     "Central - Airport",
		CreatedBy: busdomain.Owner{ID: "owner-1"},
	})
	users := newFakeUsers(
		&userdomain.User{ID: "alice", Name: "Alice", Role: userdomain.RolePassenger},
		&userdomain.User{ID: "bob", Name: "Bob", Role: userdomain.RolePassenger},
	)
	pub := newFakePublisher()
	return NewRouteMessageUseCase(msgs, buses, users, pub), msgs, pub
}

func TestRouteMessagePublicGoesToChatRoom(t *testing.T) {
	uc, msgs, pub := routeFixture()

	msg, err := uc.Execute(context.Background(), RouteMessageInput{
		BusID:    "bus-1",
		SenderID: "alice",
		Text:     "anyone near the front door?",
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(msgs.saved) != 1 {
		t.Fatalf("saved %d messages, want 1", len(msgs.saved))
	}
	if msg.Sender == nil || msg.Sender.Name != "Alice" {
		t.Fatalf("sender not resolved from store: %+v", msg.Sender)
	}
	if got := len(pub.published[realtime.ChatRoom("bus-1")]); got != 1 {
		t.Fatalf("chat room received %d frames, want 1", got)
	}
	if len(pub.published) != 1 {
		t.Fatalf("published to %d rooms, want only the chat room", len(pub.published))
	}
}

func TestRouteMessagePrivateSkipsChatRoom(t *testing.T) {
	uc, _, pub := routeFixture()

	_, err := uc.Execute(context.Background(), RouteMessageInput{
		BusID:       "bus-1",
		SenderID:    "alice",
		RecipientID: "bob",
		Text:        "save me a seat",
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if frames := pub.published[realtime.ChatRoom("bus-1")]; len(frames) != 0 {
		t.Fatalf("private message leaked to the bus chat room")
	}
	for _, room := range []realtime.Room{realtime.UserRoom("alice"), realtime.UserRoom("bob")} {
		if len(pub.published[room]) != 1 {
			t.Fatalf("room %s received %d frames, want 1", room, len(pub.published[room]))
		}
	}
}

func TestRouteMessageSelfAddressedDeliversOnce(t *testing.T) {
	uc, _, pub := routeFixture()

	_, err := uc.Execute(context.Background(), RouteMessageInput{
		BusID:       "bus-1",
		SenderID:    "alice",
		RecipientID: "alice",
		Text:        "note to self",
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if got := len(pub.published[realtime.UserRoom("alice")]); got != 1 {
		t.Fatalf("self-addressed message delivered %d frames, want 1", got)
	}
}

func TestRouteMessageNoFanOutWhenPersistFails(t *testing.T) {
	uc, msgs, pub := routeFixture()
	msgs.failSave = errors.New("connection refused")

	_, err := uc.Execute(context.Background(), RouteMessageInput{
		BusID:    "bus-1",
		SenderID: "alice",
		Text:     "hello",
	})
	if !errors.Is(err, ErrPersistence) {
		t.Fatalf("err = %v, want ErrPersistence", err)
	}
	if len(pub.published) != 0 {
		t.Fatalf("fan-out happened for an unpersisted message")
	}
}

func TestRouteMessageRejectsEmptyText(t *testing.T) {
	uc, msgs, _ := routeFixture()

	_, err := uc.Execute(context.Background(), RouteMessageInput{
		BusID:    "bus-1",
		SenderID: "alice",
		Text:     "   ",
	})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
	if len(msgs.saved) != 0 {
		t.Fatalf("blank message was persisted")
	}
}

func TestRouteMessageUnknownBus(t *testing.T) {
	uc, _, _ := routeFixture()

	_, err := uc.Execute(context.Background(), RouteMessageInput{
		BusID:    "no-such-bus",
		SenderID: "alice",
		Text:     "hello",
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestRouteMessageUnknownRecipient(t *testing.T) {
	uc, msgs, _ := routeFixture()

	_, err := uc.Execute(context.Background(), RouteMessageInput{
		BusID:       "bus-1",
		SenderID:    "alice",
		RecipientID: "ghost",
		Text:        "hello?",
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if len(msgs.saved) != 0 {
		t.Fatalf("message to unknown recipient was persisted")
	}
}

func TestRouteMessageSystemBroadcastsEvenWithRecipient(t *testing.T) {
	uc, _, pub := routeFixture()

	_, err := uc.Execute(context.Background(), RouteMessageInput{
		BusID:       "bus-1",
		RecipientID: "bob",
		Text:        "service disruption ahead",
		IsSystem:    true,
		MessageType: chat.MessageTypeNotification,
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if got := len(pub.published[realtime.ChatRoom("bus-1")]); got != 1 {
		t.Fatalf("system message not broadcast to the chat room (%d frames)", got)
	}
}

func TestMarkReadIsIdempotent(t *testing.T) {
	msgs := newFakeMessages()
	msgs.unread["bus-1"] = map[string]int{"alice": 3}
	buses := newFakeBuses(&busdomain.Bus{ID: "bus-1"})
	uc := NewMarkReadUseCase(msgs, buses)

	first, err := uc.Execute(context.Background(), "bus-1", "alice")
	if err != nil {
		t.Fatalf("first Execute: %v", err)
	}
	if first != 3 {
		t.Fatalf("first call marked %d messages, want 3", first)
	}

	second, err := uc.Execute(context.Background(), "bus-1", "alice")
	if err != nil {
		t.Fatalf("second Execute: %v", err)
	}
	if second != 0 {
		t.Fatalf("second call marked %d messages, want 0", second)
	}
}

func TestAIResponseReportsCrowd(t *testing.T) {
	msgs := newFakeMessages()
	buses := newFakeBuses(&busdomain.Bus{
		ID:                "bus-1",
		BusNumber:         "42A",
		Route:             "Central - Airport",
		Capacity:          50,
		CurrentCrowdLevel: busdomain.CrowdHigh,
		CurrentCount:      40,
		CreatedBy:         busdomain.Owner{ID: "owner-1"},
	})
	users := newFakeUsers()
	pub := newFakePublisher()
	router := NewRouteMessageUseCase(msgs, buses, users, pub)
	uc := NewAIResponseUseCase(buses, router)

	msg, err := uc.Execute(context.Background(), "bus-1", "How crowded is it right now?")
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !strings.Contains(msg.Text, "High") {
		t.Fatalf("reply %q does not mention the crowd level", msg.Text)
	}
	if !strings.Contains(msg.Text, "40") {
		t.Fatalf("reply %q does not mention the passenger count", msg.Text)
	}
	if msg.MessageType != chat.MessageTypeAIResponse {
		t.Fatalf("message type = %q, want ai_response", msg.MessageType)
	}
	if !msg.IsSystem {
		t.Fatalf("assistant reply not flagged as system")
	}
	if got := len(pub.published[realtime.ChatRoom("bus-1")]); got != 1 {
		t.Fatalf("assistant reply not broadcast (%d frames)", got)
	}
	if msg.Sender == nil || msg.Sender.Name != "Bus Assistant" {
		t.Fatalf("sender = %+v, want Bus Assistant", msg.Sender)
	}
}

func TestAIResponseRejectsEmptyQuestion(t *testing.T) {
	buses := newFakeBuses(&busdomain.Bus{ID: "bus-1"})
	uc := NewAIResponseUseCase(buses, NewRouteMessageUseCase(newFakeMessages(), buses, newFakeUsers(), newFakePublisher()))

	if _, err := uc.Execute(context.Background(), "bus-1", "  "); !errors.Is(err, ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
}
