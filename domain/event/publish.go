package event

import "log/slog"

// Publish hands e to ch without blocking. Events are best effort: when the channel
// is full the event is dropped and logged, the caller's state is already updated.
func Publish(ch chan<- DomainEvent, e DomainEvent, log *slog.Logger) bool {
	if ch == nil {
		return false
	}
	select {
	case ch <- e:
		return true
	default:
		if log != nil {
			log.Warn("Event channel full, event lost", "event", e.Name())
		}
		return false
	}
}
