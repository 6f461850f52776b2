// Package speech wraps a platform recognizer into a single-shot capture state machine:
// Idle -> Listening -> Resolved | Failed -> Idle.
package speech

import (
	"afya-chat/contract"
	"afya-chat/domain"
	"afya-chat/domain/event"
	"afya-chat/errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
)

type Adapter struct {
	mu         sync.Mutex
	recognizer contract.Recognizer
	consumer   contract.SpeechConsumer
	events     chan<- event.DomainEvent
	log        *slog.Logger

	lang      domain.Language
	phase     Phase
	attempt   uint64
	activeTag string
	last      *Outcome
	closed    bool
}

func NewAdapter(recognizer contract.Recognizer, lang domain.Language, events chan<- event.DomainEvent, log *slog.Logger) *Adapter {
	if log == nil {
		log = slog.Default()
	}
	return &Adapter{recognizer: recognizer, lang: lang, events: events, log: log, phase: PhaseIdle}
}

// IsSupported reports whether the platform provides speech recognition.
func (a *Adapter) IsSupported() bool {
	return a.recognizer != nil && a.recognizer.IsSupported()
}

// StartListening begins one capture in the configured language.
// An unsupported platform returns ErrUnsupportedCapability, raises one
// SpeechUnsupported event and leaves the adapter idle.
func (a *Adapter) StartListening() error {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return errors.ErrAdapterClosed
	}
	if a.phase == PhaseListening {
		a.mu.Unlock()
		return errors.ErrAlreadyListening
	}
	if !a.IsSupported() {
		a.mu.Unlock()
		event.Publish(a.events, event.SpeechUnsupported{At: time.Now().UTC()}, a.log)
		return errors.ErrUnsupportedCapability
	}

	a.attempt++
	id := a.attempt
	tag := a.lang.SpeechTag()
	a.phase = PhaseListening
	a.activeTag = tag
	a.mu.Unlock()

	a.log.Debug("Speech capture started", "attempt", id, "tag", tag)
	event.Publish(a.events, event.SpeechStarted{Tag: tag, At: time.Now().UTC()}, a.log)

	// The recognizer may call back synchronously, so no lock is held here.
	if err := a.recognizer.Begin(tag, &attemptListener{adapter: a, id: id}); err != nil {
		wrapped := fmt.Errorf("%w: %v", errors.ErrCaptureFailed, err)
		a.settle(id, Outcome{Phase: PhaseFailed, Reason: ReasonStartFailed, Err: wrapped})
		return wrapped
	}
	return nil
}

// StopListening asks the platform to cancel. The attempt settles when the
// platform calls back, with whatever it already captured.
func (a *Adapter) StopListening() error {
	a.mu.Lock()
	if a.phase != PhaseListening {
		a.mu.Unlock()
		return errors.ErrNotListening
	}
	a.mu.Unlock()

	a.recognizer.Cancel()
	return nil
}

// Bind routes every settled outcome to consumer. Events are still published
// for the presentation.
func (a *Adapter) Bind(consumer contract.SpeechConsumer) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.consumer = consumer
}

// SetLanguage configures the next attempt. A capture in flight keeps its tag.
func (a *Adapter) SetLanguage(lang domain.Language) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.lang = lang
}

func (a *Adapter) Status() Status {
	a.mu.Lock()
	defer a.mu.Unlock()
	s := Status{Phase: a.phase, Language: a.lang, ActiveTag: a.activeTag}
	if a.last != nil {
		last := *a.last
		s.Last = &last
	}
	return s
}

// Close cancels a capture in flight before releasing the adapter.
// Callbacks arriving afterwards are dropped. Close is idempotent.
func (a *Adapter) Close() error {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return nil
	}
	a.closed = true
	listening := a.phase == PhaseListening
	a.phase = PhaseIdle
	a.activeTag = ""
	a.mu.Unlock()

	if listening {
		a.log.Debug("Cancelling speech capture on close")
		a.recognizer.Cancel()
	}
	return nil
}

// settle ends attempt id once. Stale or duplicate callbacks are ignored.
func (a *Adapter) settle(id uint64, outcome Outcome) {
	a.mu.Lock()
	if a.closed || id != a.attempt || a.phase != PhaseListening {
		a.mu.Unlock()
		a.log.Debug("Ignoring speech callback", "attempt", id, "phase", outcome.Phase)
		return
	}
	outcome.At = time.Now().UTC()
	a.last = &outcome
	a.phase = PhaseIdle
	a.activeTag = ""
	consumer := a.consumer
	a.mu.Unlock()

	switch outcome.Phase {
	case PhaseResolved:
		a.log.Debug("Speech capture resolved", "attempt", id)
		if consumer != nil {
			consumer.ConsumeSpeechResult(outcome.Text)
		}
		event.Publish(a.events, event.SpeechResolved{Text: outcome.Text, At: outcome.At}, a.log)
	default:
		a.log.Info("Speech capture failed", "attempt", id, "reason", outcome.Reason)
		if consumer != nil {
			consumer.SpeechFailed(outcome.Reason)
		}
		event.Publish(a.events, event.SpeechFailed{Reason: outcome.Reason, Err: outcome.Err, At: outcome.At}, a.log)
	}
}

// attemptListener binds platform callbacks to the attempt that started them.
type attemptListener struct {
	adapter *Adapter
	id      uint64
}

func (l *attemptListener) OnResult(text string) {
	if strings.TrimSpace(text) == "" {
		l.adapter.settle(l.id, Outcome{Phase: PhaseFailed, Reason: ReasonNoSpeech, Err: errors.ErrCaptureFailed})
		return
	}
	l.adapter.settle(l.id, Outcome{Phase: PhaseResolved, Text: text})
}

func (l *attemptListener) OnError(reason string) {
	l.adapter.settle(l.id, Outcome{
		Phase:  PhaseFailed,
		Reason: reason,
		Err:    fmt.Errorf("%w: %s", errors.ErrCaptureFailed, reason),
	})
}

func (l *attemptListener) OnEnd() {
	l.adapter.settle(l.id, Outcome{Phase: PhaseFailed, Reason: ReasonNoSpeech, Err: errors.ErrCaptureFailed})
}
