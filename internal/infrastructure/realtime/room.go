package realtime

import "fmt"

// roomKind distinguishes the three logical channel families. Rooms are pure
// fan-out addresses; nothing about them is persisted.
type roomKind string

const (
	kindChat      roomKind = "chat"
	kindDetection roomKind = "bus"
	kindUser      roomKind = "user"
)

// Room is a typed fan-out target. Using a struct instead of concatenated
// strings keeps a bus id from ever colliding with a user id.
type Room struct {
	kind roomKind
	id   string
}

// ChatRoom addresses every live subscriber of a bus chat.
func ChatRoom(busID string) Room { return Room{kind: kindChat, id: busID} }

// DetectionRoom addresses subscribers of a bus's monitoring events.
func DetectionRoom(busID string) Room { return Room{kind: kindDetection, id: busID} }

// UserRoom addresses all live connections of a single user. Private messages
// are delivered through user rooms only, never through chat rooms.
func UserRoom(userID string) Room { return Room{kind: kindUser, id: userID} }

func (r Room) String() string { return fmt.Sprintf("%s:%s", r.kind, r.id) }

// IsZero reports whether the room was never constructed through one of the
// typed constructors.
func (r Room) IsZero() bool { return r.kind == "" }
