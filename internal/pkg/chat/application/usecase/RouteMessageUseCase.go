package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/prathmbavge/ai-powered-bus-crowd-detect/internal/infrastructure/realtime"
	busrepo "github.com/prathmbavge/ai-powered-bus-crowd-detect/internal/pkg/bus/persistence/repository/port"
	chat "github.com/prathmbavge/ai-powered-bus-crowd-detect/internal/pkg/chat/domain"
	msgrepo "github.com/prathmbavge/ai-powered-bus-crowd-detect/internal/pkg/chat/persistence/repository/port"
	userrepo "github.com/prathmbavge/ai-powered-bus-crowd-detect/internal/pkg/user/persistence/repository/port"
)

// RouteMessageInput carries an inbound message from either the HTTP path or a
// live connection. SenderName/SenderRole are display fallbacks supplied by
// live frames; the stored sender is always SenderID.
type RouteMessageInput struct {
	BusID       string
	SenderID    string
	RecipientID string
	Text        string
	MessageType chat.MessageType
	IsSystem    bool
	SenderName  string
	SenderRole  string
}

// RouteMessageUseCase persists a message exactly once and fans it out live.
// Public messages go to the bus chat room; private ones go only to the sender
// and recipient user rooms, which is the confidentiality enforcement point on
// the live path. Fan-out never runs for a message that failed to persist, and
// a fan-out problem after a successful persist is logged, not returned: the
// message is durable and recoverable over HTTP.
type RouteMessageUseCase struct {
	Messages msgrepo.MessageRepository
	Buses    busrepo.BusRepository
	Users    userrepo.UserRepository
	Pub      Publisher
}

func NewRouteMessageUseCase(messages msgrepo.MessageRepository, buses busrepo.BusRepository, users userrepo.UserRepository, pub Publisher) *RouteMessageUseCase {
	return &RouteMessageUseCase{Messages: messages, Buses: buses, Users: users, Pub: pub}
}

// chatMessageFrame is the outbound live envelope shared by both send paths.
type chatMessageFrame struct {
	Type    string       `json:"type"`
	Message chat.Message `json:"message"`
}

func (uc *RouteMessageUseCase) Execute(ctx context.Context, in RouteMessageInput) (*chat.Message, error) {
	draft, err := chat.NewDraft(chat.Draft{
		BusID:       in.BusID,
		SenderID:    in.SenderID,
		RecipientID: in.RecipientID,
		Text:        in.Text,
		IsSystem:    in.IsSystem,
		MessageType: in.MessageType,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	b, err := uc.Buses.FindByID(ctx, in.BusID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if b == nil {
		return nil, fmt.Errorf("%w: bus %s", ErrNotFound, in.BusID)
	}

	sender, err := uc.resolveSender(ctx, in)
	if err != nil {
		return nil, err
	}

	var recipient *chat.UserRef
	if in.RecipientID != "" {
		ru, err := uc.Users.FindByID(ctx, in.RecipientID)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
		}
		if ru == nil {
			return nil, fmt.Errorf("%w: recipient %s", ErrNotFound, in.RecipientID)
		}
		recipient = &chat.UserRef{ID: ru.ID, Name: ru.Name, Role: ru.Role}
	}

	id, createdAt, err := uc.Messages.Save(ctx, draft)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	msg := chat.Message{
		ID:          id,
		BusID:       draft.BusID,
		Sender:      sender,
		Recipient:   recipient,
		Text:        draft.Text,
		IsSystem:    draft.IsSystem,
		MessageType: draft.MessageType,
		CreatedAt:   createdAt,
	}

	uc.fanOut(msg)
	return &msg, nil
}

func (uc *RouteMessageUseCase) resolveSender(ctx context.Context, in RouteMessageInput) (*chat.UserRef, error) {
	if in.SenderID == "" {
		if !in.IsSystem {
			return nil, fmt.Errorf("%w: sender is required for non-system messages", ErrValidation)
		}
		name := in.SenderName
		if name == "" {
			name = "System"
		}
		return &chat.UserRef{Name: name, Role: "system"}, nil
	}

	u, err := uc.Users.FindByID(ctx, in.SenderID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	ref := &chat.UserRef{ID: in.SenderID, Name: in.SenderName, Role: in.SenderRole}
	if u != nil {
		if ref.Name == "" {
			ref.Name = u.Name
		}
		if ref.Role == "" {
			ref.Role = u.Role
		}
	}
	if ref.Name == "" {
		ref.Name = "Unknown"
	}
	if ref.Role == "" {
		ref.Role = "passenger"
	}
	return ref, nil
}

func (uc *RouteMessageUseCase) fanOut(msg chat.Message) {
	payload, err := json.Marshal(chatMessageFrame{Type: "chatMessage", Message: msg})
	if err != nil {
		log.Printf("chat: encode fan-out for message %s: %v", msg.ID, err)
		return
	}

	// System messages are always public, even if a recipient slipped in.
	if msg.Recipient == nil || msg.IsSystem {
		n := uc.Pub.Publish(realtime.ChatRoom(msg.BusID), payload)
		log.Printf("chat: public message %s delivered to %d subscribers of bus %s", msg.ID, n, msg.BusID)
		return
	}

	// Private: only the participants' user rooms, never the bus room. A
	// self-addressed message hits the shared user room once.
	delivered := 0
	if msg.Sender != nil && msg.Sender.ID != "" {
		delivered += uc.Pub.Publish(realtime.UserRoom(msg.Sender.ID), payload)
	}
	if msg.Sender == nil || msg.Sender.ID != msg.Recipient.ID {
		delivered += uc.Pub.Publish(realtime.UserRoom(msg.Recipient.ID), payload)
	}
	log.Printf("chat: private message %s delivered to %d connections", msg.ID, delivered)
}
