package chat

import "testing"

func privateMsg(senderID, recipientID string) Message {
	return Message{
		BusID:     "bus-1",
		Sender:    &UserRef{ID: senderID, Name: "Sender"},
		Recipient: &UserRef{ID: recipientID, Name: "Recipient"},
		Text:      "private",
	}
}

func TestVisible(t *testing.T) {
	const owner = "owner-1"

	tests := []struct {
		name   string
		msg    Message
		viewer Viewer
		want   bool
	}{
		{
			name:   "public message visible to anyone",
			msg:    Message{BusID: "bus-1", Sender: &UserRef{ID: "x"}, Text: "hi"},
			viewer: Viewer{ID: "stranger", Role: "passenger"},
			want:   true,
		},
		{
			name:   "system message visible to anyone",
			msg:    Message{BusID: "bus-1", Text: "welcome", IsSystem: true},
			viewer: Viewer{ID: "stranger", Role: "passenger"},
			want:   true,
		},
		{
			name:   "private visible to sender",
			msg:    privateMsg("alice", "bob"),
			viewer: Viewer{ID: "alice", Role: "passenger"},
			want:   true,
		},
		{
			name:   "private visible to recipient",
			msg:    privateMsg("alice", "bob"),
			viewer: Viewer{ID: "bob", Role: "passenger"},
			want:   true,
		},
		{
			name:   "private visible to admin",
			msg:    privateMsg("alice", "bob"),
			viewer: Viewer{ID: "carol", Role: "admin"},
			want:   true,
		},
		{
			name:   "private visible to bus owner",
			msg:    privateMsg("alice", "bob"),
			viewer: Viewer{ID: owner, Role: "passenger"},
			want:   true,
		},
		{
			name:   "private hidden from third party",
			msg:    privateMsg("alice", "bob"),
			viewer: Viewer{ID: "mallory", Role: "passenger"},
			want:   false,
		},
		{
			name:   "system-sent private still hidden from third party",
			msg:    Message{BusID: "bus-1", Recipient: &UserRef{ID: "bob"}, Text: "dm", IsSystem: true},
			viewer: Viewer{ID: "mallory", Role: "passenger"},
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Visible(tt.msg, tt.viewer, owner); got != tt.want {
				t.Errorf("Visible() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewDraft(t *testing.T) {
	if _, err := NewDraft(Draft{BusID: "b", Text: "   "}); err != ErrEmptyText {
		t.Fatalf("expected ErrEmptyText for blank text, got %v", err)
	}

	d, err := NewDraft(Draft{BusID: "b", SenderID: "s", Text: "  hello  "})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Text != "hello" {
		t.Errorf("text not trimmed: %q", d.Text)
	}
	if d.MessageType != MessageTypeText {
		t.Errorf("message type not defaulted: %q", d.MessageType)
	}
}
