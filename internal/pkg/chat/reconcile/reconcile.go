// Package reconcile merges the persisted chat history with messages received
// live and with optimistic local sends that have not been confirmed yet. It
// backs the reconnect path: after a drop, a client refetches history over HTTP
// and folds in whatever it already holds, ending with one deduplicated,
// chronologically ordered view.
package reconcile

import (
	"sort"
	"strings"
	"time"

	chat "github.com/prathmbavge/ai-powered-bus-crowd-detect/internal/pkg/chat/domain"
)

// Pending is a locally sent message awaiting its server echo. TempID is a
// client-generated placeholder that never collides with store ids.
type Pending struct {
	TempID   string
	SenderID string
	Text     string
	SentAt   time.Time
}

// Merge combines history and live messages, dropping duplicates by id, and
// resolves pending sends: a pending entry whose sender and trimmed text match
// a confirmed message is superseded by it, otherwise it stays in the view
// under its temp id. The result is ordered by creation time with id as the
// tiebreak. Merging the output with the same inputs again yields the same
// view.
func Merge(history, live []chat.Message, pending []Pending) []chat.Message {
	seen := make(map[string]struct{}, len(history)+len(live))
	merged := make([]chat.Message, 0, len(history)+len(live)+len(pending))

	for _, src := range [][]chat.Message{history, live} {
		for _, m := range src {
			if m.ID != "" {
				if _, dup := seen[m.ID]; dup {
					continue
				}
				seen[m.ID] = struct{}{}
			}
			merged = append(merged, m)
		}
	}

	for _, p := range pending {
		if _, confirmed := seen[p.TempID]; confirmed {
			continue
		}
		if supersededBy(merged, p) != nil {
			continue
		}
		merged = append(merged, chat.Message{
			ID:          p.TempID,
			Sender:      &chat.UserRef{ID: p.SenderID},
			Text:        strings.TrimSpace(p.Text),
			MessageType: chat.MessageTypeText,
			CreatedAt:   p.SentAt,
		})
		seen[p.TempID] = struct{}{}
	}

	sort.SliceStable(merged, func(i, j int) bool {
		if merged[i].CreatedAt.Equal(merged[j].CreatedAt) {
			return merged[i].ID < merged[j].ID
		}
		return merged[i].CreatedAt.Before(merged[j].CreatedAt)
	})
	return merged
}

// supersededBy finds a confirmed message that is the server echo of the
// pending send: same sender, same trimmed text.
func supersededBy(confirmed []chat.Message, p Pending) *chat.Message {
	want := strings.TrimSpace(p.Text)
	for i := range confirmed {
		m := &confirmed[i]
		if m.ID == "" || m.ID == p.TempID {
			continue
		}
		if m.Sender != nil && m.Sender.ID == p.SenderID && strings.TrimSpace(m.Text) == want {
			return m
		}
	}
	return nil
}
