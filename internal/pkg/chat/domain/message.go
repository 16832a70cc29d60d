package chat

import (
	"errors"
	"strings"
	"time"
)

// MessageType mirrors the stored message_type column.
type MessageType string

const (
	MessageTypeText         MessageType = "text"
	MessageTypeNotification MessageType = "notification"
	MessageTypeAIResponse   MessageType = "ai_response"
)

var ErrEmptyText = errors.New("chat: message text is required")

// UserRef is a display-ready participant reference, resolved from the user
// record at read/route time rather than denormalized into the message row.
type UserRef struct {
	ID   string `json:"_id,omitempty"`
	Name string `json:"name"`
	Role string `json:"role,omitempty"`
}

// Message is immutable once created, except for the IsRead flag which the
// recipient flips via mark-read. A nil Recipient means the message is public
// to every subscriber of the bus chat; a nil Sender marks a system message.
type Message struct {
	ID          string      `json:"_id"`
	BusID       string      `json:"busId"`
	Sender      *UserRef    `json:"sender"`
	Recipient   *UserRef    `json:"recipient,omitempty"`
	Text        string      `json:"text"`
	IsSystem    bool        `json:"isSystem"`
	IsRead      bool        `json:"isRead"`
	MessageType MessageType `json:"messageType"`
	CreatedAt   time.Time   `json:"createdAt"`
}

// Draft is a message before persistence. Empty SenderID marks a system
// message; empty RecipientID marks a public one.
type Draft struct {
	BusID       string
	SenderID    string
	RecipientID string
	Text        string
	IsSystem    bool
	MessageType MessageType
}

// NewDraft trims and validates the text and defaults the message type.
func NewDraft(d Draft) (Draft, error) {
	d.Text = strings.TrimSpace(d.Text)
	if d.Text == "" {
		return Draft{}, ErrEmptyText
	}
	if d.MessageType == "" {
		d.MessageType = MessageTypeText
	}
	return d, nil
}
