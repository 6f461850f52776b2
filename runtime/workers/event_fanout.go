package workers

import (
	"afya-chat/contract"
	"afya-chat/domain/event"
	"context"
	"fmt"
	"log/slog"
	"time"
)

// EventFanout delivers engine events to in-process sinks (transcript, speech
// bridge, terminal presenter), one event at a time and in publication order.
//
// Delivery is best effort: a sink error or timeout is logged and the next
// sink still receives the event.
type EventFanout struct {
	log         *slog.Logger
	events      <-chan event.DomainEvent
	sinks       []contract.EventSink
	sinkTimeout time.Duration
}

func NewEventFanout(log *slog.Logger, events <-chan event.DomainEvent, sinkTimeout time.Duration, sinks ...contract.EventSink) *EventFanout {
	return &EventFanout{log: log, events: events, sinkTimeout: sinkTimeout, sinks: sinks}
}

func (w *EventFanout) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Context done, stopping event fanout")
			return nil
		case evt, ok := <-w.events:
			if !ok {
				w.log.Debug("Event channel closed")
				return nil
			}
			w.Fanout(ctx, evt)
		}
	}
}

// Fanout hands evt to every sink, each bounded by sinkTimeout.
func (w *EventFanout) Fanout(ctx context.Context, evt event.DomainEvent) {
	for _, sink := range w.sinks {
		sinkCtx, cancel := context.WithTimeout(ctx, w.sinkTimeout)
		if err := sink.Consume(sinkCtx, evt); err != nil {
			w.log.Error("Sink failed", "event", evt.Name(), "sink", fmt.Sprintf("%T", sink), "error", err)
		}
		cancel()
	}
}
