package chat

import (
	user "github.com/prathmbavge/ai-powered-bus-crowd-detect/internal/pkg/user/domain"
)

// Viewer is the authenticated identity a message list is filtered for.
type Viewer struct {
	ID   string
	Role string
}

// Visible reports whether the viewer may see the message. The same predicate
// filters the HTTP read path; the live path enforces it structurally by
// publishing private messages only into the participants' user rooms.
//
// Private messages are readable by the sender, the recipient, any admin, and
// the bus owner. The owner override holds even when the owner is neither a
// participant nor an admin: owners moderate the chat on their own bus.
func Visible(m Message, viewer Viewer, busOwnerID string) bool {
	if m.Recipient == nil {
		return true
	}
	if m.Sender != nil && m.Sender.ID == viewer.ID {
		return true
	}
	if m.Recipient.ID == viewer.ID {
		return true
	}
	if viewer.Role == user.RoleAdmin {
		return true
	}
	if busOwnerID != "" && viewer.ID == busOwnerID {
		return true
	}
	return false
}
