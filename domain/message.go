// Package domain contains core concepts of the conversation engine.
// This file defines Message events and related rules.
// Messages are immutable once appended to a session log.
package domain

import (
	"time"

	"github.com/google/uuid"
)

type Sender string

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
)

// Message represents an immutable chat entry.
type Message struct {
	ID        uuid.UUID // unique identifier
	Text      string
	Sender    Sender
	Timestamp time.Time
}

func NewUserMessage(text string, at time.Time) Message {
	return Message{ID: uuid.New(), Text: text, Sender: SenderUser, Timestamp: at}
}

func NewAssistantMessage(text string, at time.Time) Message {
	return Message{ID: uuid.New(), Text: text, Sender: SenderAssistant, Timestamp: at}
}

// WithText returns a copy carrying another text, keeping id, sender and timestamp.
func (m Message) WithText(text string) Message {
	m.Text = text
	return m
}
