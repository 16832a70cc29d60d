package usecase

import (
	"context"
	"fmt"
	"strings"

	busdomain "github.com/prathmbavge/ai-powered-bus-crowd-detect/internal/pkg/bus/domain"
	busrepo "github.com/prathmbavge/ai-powered-bus-crowd-detect/internal/pkg/bus/persistence/repository/port"
	chat "github.com/prathmbavge/ai-powered-bus-crowd-detect/internal/pkg/chat/domain"
)

// AIResponseUseCase answers a bus-related question with a canned reply keyed
// on keyword matching against the bus record, persists it as a public system
// message, and broadcasts it to the bus chat room.
type AIResponseUseCase struct {
	Buses  busrepo.BusRepository
	Router *RouteMessageUseCase
}

func NewAIResponseUseCase(buses busrepo.BusRepository, router *RouteMessageUseCase) *AIResponseUseCase {
	return &AIResponseUseCase{Buses: buses, Router: router}
}

func (uc *AIResponseUseCase) Execute(ctx context.Context, busID, question string) (*chat.Message, error) {
	if strings.TrimSpace(question) == "" {
		return nil, fmt.Errorf("%w: question text is required", ErrValidation)
	}

	b, err := uc.Buses.FindByID(ctx, busID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if b == nil {
		return nil, fmt.Errorf("%w: bus %s", ErrNotFound, busID)
	}

	return uc.Router.Execute(ctx, RouteMessageInput{
		BusID:       busID,
		Text:        assistantReply(question, b),
		IsSystem:    true,
		MessageType: chat.MessageTypeAIResponse,
		SenderName:  "Bus Assistant",
	})
}

func containsAny(s string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

func assistantReply(question string, b *busdomain.Bus) string {
	q := strings.ToLower(question)

	switch {
	case containsAny(q, "schedule", "timing", "when"):
		return fmt.Sprintf("Bus %s runs on route %s regularly throughout the day. Please check the schedule board for exact timings.", b.BusNumber, b.Route)
	case containsAny(q, "route", "stop", "destination", "where"):
		return fmt.Sprintf("Bus %s travels on route %s. It makes all regular stops along this route.", b.BusNumber, b.Route)
	case containsAny(q, "crowd", "busy", "full"):
		level := b.CurrentCrowdLevel
		if level == "" {
			level = busdomain.CrowdUnknown
		}
		reply := fmt.Sprintf("Currently, the crowd level on bus %s is %s.", b.BusNumber, level)
		if b.CurrentCount > 0 {
			reply += fmt.Sprintf(" There are approximately %d passengers on board.", b.CurrentCount)
		}
		return reply
	case strings.Contains(q, "capacity"):
		level := b.CurrentCrowdLevel
		if level == "" {
			level = busdomain.CrowdUnknown
		}
		return fmt.Sprintf("Bus %s has a maximum capacity of %d passengers. Currently, the crowd level is %s.", b.BusNumber, b.Capacity, level)
	case containsAny(q, "hello", "hi", "hey"):
		return fmt.Sprintf("Hello! How can I help you with bus %s today? You can ask about routes, schedules, or crowd levels.", b.BusNumber)
	case strings.Contains(q, "thank"):
		return "You're welcome! Let me know if you need any other information about your journey."
	default:
		return fmt.Sprintf("Thank you for your question about bus %s. For specific information about this bus route, schedules, or current status, please contact the bus operator or check the official transit app.", b.BusNumber)
	}
}
