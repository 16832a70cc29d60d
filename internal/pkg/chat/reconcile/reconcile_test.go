package reconcile

import (
	"testing"
	"time"

	chat "github.com/prathmbavge/ai-powered-bus-crowd-detect/internal/pkg/chat/domain"
)

func msg(id, senderID, text string, at time.Time) chat.Message {
	return chat.Message{
		ID:        id,
		Sender:    &chat.UserRef{ID: senderID},
		Text:      text,
		CreatedAt: at,
	}
}

func ids(msgs []chat.Message) []string {
	out := make([]string, len(msgs))
	for i, m := range msgs {
		out[i] = m.ID
	}
	return out
}

func TestMergeDeduplicatesByID(t *testing.T) {
	t0 := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	history := []chat.Message{
		msg("m1", "alice", "first", t0),
		msg("m2", "bob", "second", t0.Add(time.Minute)),
	}
	live := []chat.Message{
		msg("m2", "bob", "second", t0.Add(time.Minute)),
		msg("m3", "alice", "third", t0.Add(2*time.Minute)),
	}

	got := Merge(history, live, nil)
	want := []string{"m1", "m2", "m3"}
	if len(got) != len(want) {
		t.Fatalf("merged %d messages, want %d: %v", len(got), len(want), ids(got))
	}
	for i, id := range want {
		if got[i].ID != id {
			t.Fatalf("order = %v, want %v", ids(got), want)
		}
	}
}

func TestMergeSupersedesConfirmedPending(t *testing.T) {
	t0 := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	live := []chat.Message{msg("m1", "alice", "save me a seat", t0)}
	pending := []Pending{{TempID: "tmp-1", SenderID: "alice", Text: "  save me a seat ", SentAt: t0.Add(-time.Second)}}

	got := Merge(nil, live, pending)
	if len(got) != 1 || got[0].ID != "m1" {
		t.Fatalf("merged = %v, want the confirmed message only", ids(got))
	}
}

func TestMergeKeepsUnconfirmedPending(t *testing.T) {
	t0 := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	history := []chat.Message{msg("m1", "bob", "hello", t0)}
	pending := []Pending{{TempID: "tmp-1", SenderID: "alice", Text: "still in flight", SentAt: t0.Add(time.Second)}}

	got := Merge(history, nil, pending)
	if len(got) != 2 {
		t.Fatalf("merged = %v, want history plus the pending send", ids(got))
	}
	if got[1].ID != "tmp-1" || got[1].Text != "still in flight" {
		t.Fatalf("pending entry = %+v", got[1])
	}
}

func TestMergeIsIdempotent(t *testing.T) {
	t0 := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	history := []chat.Message{
		msg("m1", "alice", "a", t0),
		msg("m2", "bob", "b", t0.Add(time.Minute)),
	}
	live := []chat.Message{
		msg("m3", "alice", "c", t0.Add(2*time.Minute)),
	}
	pending := []Pending{{TempID: "tmp-1", SenderID: "carol", Text: "d", SentAt: t0.Add(3 * time.Minute)}}

	once := Merge(history, live, pending)
	twice := Merge(once, live, pending)
	if len(once) != len(twice) {
		t.Fatalf("second merge changed cardinality: %v vs %v", ids(once), ids(twice))
	}
	for i := range once {
		if once[i].ID != twice[i].ID {
			t.Fatalf("second merge reordered: %v vs %v", ids(once), ids(twice))
		}
	}
}

func TestMergeOrdersByTimeThenID(t *testing.T) {
	t0 := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	live := []chat.Message{
		msg("mB", "bob", "tie b", t0),
		msg("mA", "alice", "tie a", t0),
		msg("m0", "carol", "earlier", t0.Add(-time.Minute)),
	}

	got := Merge(nil, live, nil)
	want := []string{"m0", "mA", "mB"}
	for i, id := range want {
		if got[i].ID != id {
			t.Fatalf("order = %v, want %v", ids(got), want)
		}
	}
}
