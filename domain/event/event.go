package event

import (
	"afya-chat/domain"
	"time"
)

// DomainEvent is anything the engine reports to the presentation layer.
type DomainEvent interface {
	Name() string
	OccurredAt() time.Time
}

// MessageAppended is emitted once per message added to the session log.
type MessageAppended struct {
	Message  domain.Message
	Position int
}

func (e MessageAppended) Name() string          { return "MessageAppended" }
func (e MessageAppended) OccurredAt() time.Time { return e.Message.Timestamp }

// ConversationReset is emitted when the session starts over. Everything
// published before it belongs to the previous conversation.
type ConversationReset struct {
	Language domain.Language
	At       time.Time
}

func (e ConversationReset) Name() string          { return "ConversationReset" }
func (e ConversationReset) OccurredAt() time.Time { return e.At }

// WelcomeRewritten is emitted when the welcome message changes language.
type WelcomeRewritten struct {
	Message  domain.Message
	Language domain.Language
	At       time.Time
}

func (e WelcomeRewritten) Name() string          { return "WelcomeRewritten" }
func (e WelcomeRewritten) OccurredAt() time.Time { return e.At }

type ReplyPendingChanged struct {
	Pending bool
	At      time.Time
}

func (e ReplyPendingChanged) Name() string          { return "ReplyPendingChanged" }
func (e ReplyPendingChanged) OccurredAt() time.Time { return e.At }

type LanguageChanged struct {
	From domain.Language
	To   domain.Language
	At   time.Time
}

func (e LanguageChanged) Name() string          { return "LanguageChanged" }
func (e LanguageChanged) OccurredAt() time.Time { return e.At }

// LanguageHint suggests switching language when a query looks written in the other one.
type LanguageHint struct {
	Active   domain.Language
	Detected domain.Language
	At       time.Time
}

func (e LanguageHint) Name() string          { return "LanguageHint" }
func (e LanguageHint) OccurredAt() time.Time { return e.At }
