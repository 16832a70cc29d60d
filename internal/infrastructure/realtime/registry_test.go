package realtime

import (
	"testing"
)

func attached(t *testing.T, r *Registry) *Connection {
	t.Helper()
	conn := NewConnection(nil)
	r.Attach(conn)
	return conn
}

func drain(c *Connection) [][]byte {
	var out [][]byte
	for {
		select {
		case msg := <-c.send:
			out = append(out, msg)
		default:
			return out
		}
	}
}

func TestJoinIsIdempotent(t *testing.T) {
	r := NewRegistry()
	conn := attached(t, r)
	room := ChatRoom("bus-1")

	r.Join(conn.ID, room)
	r.Join(conn.ID, room)

	if n := r.Publish(room, []byte("x")); n != 1 {
		t.Fatalf("expected 1 delivery after double join, got %d", n)
	}
	if got := len(drain(conn)); got != 1 {
		t.Fatalf("expected 1 buffered payload, got %d", got)
	}
}

func TestLeaveIsIdempotent(t *testing.T) {
	r := NewRegistry()
	conn := attached(t, r)
	room := ChatRoom("bus-1")

	r.Join(conn.ID, room)
	r.Leave(conn.ID, room)
	r.Leave(conn.ID, room) // second leave is a no-op

	if n := r.Publish(room, []byte("x")); n != 0 {
		t.Fatalf("expected 0 deliveries after leave, got %d", n)
	}
}

func TestDetachRemovesFromAllRooms(t *testing.T) {
	r := NewRegistry()
	conn := attached(t, r)
	other := attached(t, r)

	r.Join(conn.ID, ChatRoom("bus-1"))
	r.Join(conn.ID, DetectionRoom("bus-1"))
	r.Join(other.ID, ChatRoom("bus-1"))

	r.Detach(conn.ID)

	if n := r.Publish(ChatRoom("bus-1"), []byte("x")); n != 1 {
		t.Fatalf("expected only remaining member to receive, got %d", n)
	}
	if n := r.Publish(DetectionRoom("bus-1"), []byte("x")); n != 0 {
		t.Fatalf("expected empty detection room after detach, got %d", n)
	}
	if _, ok := r.State(conn.ID); ok {
		t.Fatal("state should be forgotten after detach")
	}
}

func TestAuthenticateJoinsUserRoom(t *testing.T) {
	r := NewRegistry()
	conn := attached(t, r)

	r.Authenticate(conn.ID, "user-7", "passenger")

	s, ok := r.State(conn.ID)
	if !ok || !s.Authenticated || s.UserID != "user-7" || s.Role != "passenger" {
		t.Fatalf("unexpected state: %+v ok=%v", s, ok)
	}
	if n := r.Publish(UserRoom("user-7"), []byte("dm")); n != 1 {
		t.Fatalf("expected private room delivery, got %d", n)
	}
}

func TestPublishExceptSkipsSender(t *testing.T) {
	r := NewRegistry()
	joiner := attached(t, r)
	other := attached(t, r)
	room := ChatRoom("bus-2")
	r.Join(joiner.ID, room)
	r.Join(other.ID, room)

	if n := r.PublishExcept(room, []byte("joined"), joiner.ID); n != 1 {
		t.Fatalf("expected 1 delivery, got %d", n)
	}
	if got := len(drain(joiner)); got != 0 {
		t.Fatalf("joiner should not see own join notice, got %d payloads", got)
	}
	if got := len(drain(other)); got != 1 {
		t.Fatalf("other member should see join notice, got %d payloads", got)
	}
}

func TestRoomKindsDoNotCollide(t *testing.T) {
	r := NewRegistry()
	conn := attached(t, r)
	r.Join(conn.ID, ChatRoom("42"))

	if n := r.Publish(DetectionRoom("42"), []byte("x")); n != 0 {
		t.Fatalf("detection room must not reach chat members, got %d", n)
	}
	if n := r.Publish(UserRoom("42"), []byte("x")); n != 0 {
		t.Fatalf("user room must not reach chat members, got %d", n)
	}
}
