// Package session owns one conversation: the ordered message log, the pending
// reply flag and the input buffer shared by typed and spoken input.
package session

import (
	"afya-chat/domain"
	"afya-chat/domain/event"
	"afya-chat/errors"
	"afya-chat/i18n"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// DefaultLatency models the assistant "thinking" before a reply lands.
const DefaultLatency = time.Second

const welcomeKey = "welcomeMessage"

// Responder computes the reply to a query. It must be total.
type Responder interface {
	Generate(query string, lang domain.Language) string
}

type replyJob struct {
	query string
	lang  domain.Language
	epoch uint64
}

type Snapshot struct {
	Messages     []domain.Message
	PendingReply bool
	Language     domain.Language
	Input        string
}

// Session replies are single flight: sends made while a reply is pending are
// queued and answered in arrival order by Run.
type Session struct {
	mu        sync.Mutex
	i18n      i18n.Context
	responder Responder
	events    chan<- event.DomainEvent
	log       *slog.Logger
	latency   time.Duration
	detect    func(text string) (domain.Language, bool)

	messages []domain.Message
	input    string
	pending  bool
	queue    []replyJob
	epoch    uint64
	disposed bool

	wake chan struct{}
	done chan struct{}
}

// New creates a session seeded with the welcome message in the context's language.
func New(ctx i18n.Context, responder Responder, latency time.Duration, events chan<- event.DomainEvent, log *slog.Logger) *Session {
	if log == nil {
		log = slog.Default()
	}
	if latency < 0 {
		latency = 0
	}
	s := &Session{
		i18n:      ctx,
		responder: responder,
		events:    events,
		log:       log,
		latency:   latency,
		detect:    DetectLanguage,
		wake:      make(chan struct{}, 1),
		done:      make(chan struct{}),
	}
	s.Initialize(ctx.Language())
	return s
}

// Initialize resets the log to a single assistant welcome message.
// Replies still queued from before are discarded.
func (s *Session) Initialize(lang domain.Language) {
	s.mu.Lock()
	restart := s.messages != nil
	s.i18n = s.i18n.WithLanguage(lang)
	welcome := domain.NewAssistantMessage(s.i18n.T(welcomeKey), time.Now().UTC())
	s.messages = []domain.Message{welcome}
	s.input = ""
	s.pending = false
	s.queue = nil
	s.epoch++
	s.mu.Unlock()

	s.log.Debug("Session initialized", "language", lang)
	if restart {
		event.Publish(s.events, event.ConversationReset{Language: lang, At: welcome.Timestamp}, s.log)
	}
	event.Publish(s.events, event.MessageAppended{Message: welcome, Position: 0}, s.log)
}

// SetLanguage switches the active language and rewrites the welcome message in
// place. Messages already exchanged are not translated.
func (s *Session) SetLanguage(lang domain.Language) error {
	if !lang.IsValid() {
		return fmt.Errorf("%w: %q", errors.ErrUnknownLanguage, lang)
	}
	now := time.Now().UTC()

	s.mu.Lock()
	from := s.i18n.Language()
	s.i18n = s.i18n.WithLanguage(lang)
	s.messages[0] = s.messages[0].WithText(s.i18n.T(welcomeKey))
	welcome := s.messages[0]
	s.mu.Unlock()

	s.log.Debug("Language changed", "from", from, "to", lang)
	event.Publish(s.events, event.LanguageChanged{From: from, To: lang, At: now}, s.log)
	event.Publish(s.events, event.WelcomeRewritten{Message: welcome, Language: lang, At: now}, s.log)
	return nil
}

// Send appends a user message and queues its reply. Empty or whitespace-only
// text is ignored and reported as false.
func (s *Session) Send(text string) bool {
	if strings.TrimSpace(text) == "" {
		return false
	}

	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		s.log.Debug("Send on disposed session ignored")
		return false
	}
	msg := domain.NewUserMessage(text, time.Now().UTC())
	s.messages = append(s.messages, msg)
	position := len(s.messages) - 1
	lang := s.i18n.Language()
	wasPending := s.pending
	s.pending = true
	s.input = ""
	s.queue = append(s.queue, replyJob{query: text, lang: lang, epoch: s.epoch})
	s.mu.Unlock()

	event.Publish(s.events, event.MessageAppended{Message: msg, Position: position}, s.log)
	if !wasPending {
		event.Publish(s.events, event.ReplyPendingChanged{Pending: true, At: msg.Timestamp}, s.log)
	}
	s.hint(text, lang)

	select {
	case s.wake <- struct{}{}:
	default:
	}
	return true
}

// SendQuickAction sends the localized label of action as a user message.
func (s *Session) SendQuickAction(action domain.QuickAction) (bool, error) {
	key := action.LabelKey()
	if key == "" {
		return false, fmt.Errorf("%w: %q", errors.ErrUnknownAction, action)
	}
	return s.Send(s.Context().T(key)), nil
}

// ConsumeSpeechResult puts a transcript in the input buffer. It is never sent
// automatically.
func (s *Session) ConsumeSpeechResult(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.disposed {
		return
	}
	s.input = text
}

// SpeechFailed leaves the input buffer as it is.
func (s *Session) SpeechFailed(reason string) {
	s.log.Info("Speech input failed, keeping input buffer", "reason", reason)
}

func (s *Session) SetInput(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.input = text
}

// SendInput sends the input buffer, as the send button does.
func (s *Session) SendInput() bool {
	return s.Send(s.Input())
}

// Run answers queued sends one at a time until ctx is done or the session is
// disposed.
func (s *Session) Run(ctx context.Context) error {
	for {
		job, ok := s.next()
		if !ok {
			select {
			case <-ctx.Done():
				return nil
			case <-s.done:
				return nil
			case <-s.wake:
				continue
			}
		}

		timer := time.NewTimer(s.latency)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case <-s.done:
			timer.Stop()
			return nil
		case <-timer.C:
		}

		reply := s.responder.Generate(job.query, job.lang)
		if err := s.deliver(job, reply); err != nil {
			s.log.Debug("Reply dropped", "error", err)
		}
	}
}

// Dispose stops the reply worker. Replies that were still pending are dropped.
func (s *Session) Dispose() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.disposed {
		return
	}
	s.disposed = true
	s.queue = nil
	close(s.done)
}

func (s *Session) next() (replyJob, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.disposed || len(s.queue) == 0 {
		return replyJob{}, false
	}
	job := s.queue[0]
	s.queue = s.queue[1:]
	return job, true
}

func (s *Session) deliver(job replyJob, reply string) error {
	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		return errors.ErrSessionDisposed
	}
	if job.epoch != s.epoch {
		s.mu.Unlock()
		return fmt.Errorf("reply to a previous conversation: %w", errors.ErrSessionDisposed)
	}
	msg := domain.NewAssistantMessage(reply, time.Now().UTC())
	s.messages = append(s.messages, msg)
	position := len(s.messages) - 1
	drained := len(s.queue) == 0
	if drained {
		s.pending = false
	}
	s.mu.Unlock()

	event.Publish(s.events, event.MessageAppended{Message: msg, Position: position}, s.log)
	if drained {
		event.Publish(s.events, event.ReplyPendingChanged{Pending: false, At: msg.Timestamp}, s.log)
	}
	return nil
}

func (s *Session) Messages() []domain.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

func (s *Session) PendingReply() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

func (s *Session) Language() domain.Language {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.i18n.Language()
}

func (s *Session) Input() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.input
}

// Context returns the localization context of the active language.
func (s *Session) Context() i18n.Context {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.i18n
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	messages := make([]domain.Message, len(s.messages))
	copy(messages, s.messages)
	return Snapshot{
		Messages:     messages,
		PendingReply: s.pending,
		Language:     s.i18n.Language(),
		Input:        s.input,
	}
}
