package sink

import (
	"afya-chat/domain"
	"afya-chat/domain/event"
	"afya-chat/repositories"
	"context"
	"fmt"
	"log/slog"
)

// TranscriptSink mirrors the session log into the transcript repository.
type TranscriptSink struct {
	repository repositories.ITranscriptRepository
	log        *slog.Logger
}

func NewTranscriptSink(repository repositories.ITranscriptRepository, log *slog.Logger) TranscriptSink {
	return TranscriptSink{repository: repository, log: log}
}

func (d TranscriptSink) Consume(ctx context.Context, e event.DomainEvent) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("transcript skipped %s: %w", e.Name(), err)
	}
	switch evt := e.(type) {
	case event.ConversationReset:
		return d.repository.Reset()
	case event.MessageAppended:
		return d.repository.StoreMessage(toTranscriptMessage(evt.Message, evt.Position))
	case event.WelcomeRewritten:
		return d.repository.StoreMessage(toTranscriptMessage(evt.Message, 0))
	default:
		d.log.Debug(fmt.Sprintf("Not handled by transcript : %s", e.Name()))
		return nil
	}
}

func toTranscriptMessage(message domain.Message, position int) repositories.TranscriptMessage {
	return repositories.TranscriptMessage{
		ID:       message.ID,
		Position: position,
		Sender:   message.Sender,
		Text:     message.Text,
		At:       message.Timestamp,
	}
}
