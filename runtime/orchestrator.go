// Package runtime assembles one conversation: session, speech adapter,
// connectivity monitor and transcript, all publishing on a single event
// channel drained by the fanout worker.
// It orchestrates the components without containing business logic.
package runtime

import (
	"afya-chat/connectivity"
	"afya-chat/contract"
	"afya-chat/domain"
	"afya-chat/domain/event"
	"afya-chat/i18n"
	"afya-chat/repositories"
	"afya-chat/responder"
	"afya-chat/runtime/workers"
	"afya-chat/session"
	"afya-chat/sink"
	"afya-chat/speech"
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/blugelabs/bluge"
	"github.com/dgraph-io/badger/v4"
)

const defaultSinkTimeout = 2 * time.Second

type Options struct {
	Language        domain.Language
	Latency         time.Duration
	BannerWindow    time.Duration
	BufferSize      int
	SinkTimeout     time.Duration
	TranscriptLimit *int
	// Recognizer may be nil: speech is then unsupported.
	Recognizer contract.Recognizer
	// Probe may be nil: the network is then considered reachable and only
	// SetReachable changes it.
	Probe         *connectivity.DialProbe
	ProbeInterval time.Duration
}

type Orchestrator struct {
	mu         sync.Mutex
	log        *slog.Logger
	supervisor contract.ISupervisor
	options    Options
	events     chan event.DomainEvent
	sinks      []contract.EventSink

	generator  *responder.Generator
	session    *session.Session
	speech     *speech.Adapter
	monitor    *connectivity.Monitor
	transcript repositories.ITranscriptRepository

	db     *badger.DB
	writer *bluge.Writer
	closed bool
}

// NewOrchestrator loads the localization table and the reply rules, opens the
// in-memory transcript and seeds the session with its welcome message.
func NewOrchestrator(log *slog.Logger, supervisor contract.ISupervisor, options Options) (*Orchestrator, error) {
	if options.BufferSize <= 0 {
		options.BufferSize = 256
	}
	if options.SinkTimeout <= 0 {
		options.SinkTimeout = defaultSinkTimeout
	}
	if !options.Language.IsValid() {
		options.Language = domain.Primary
	}

	table, err := i18n.DefaultTable()
	if err != nil {
		return nil, fmt.Errorf("loading translations: %w", err)
	}
	rules, err := responder.DefaultRules()
	if err != nil {
		return nil, fmt.Errorf("loading reply rules: %w", err)
	}
	generator, err := responder.NewGenerator(rules, log)
	if err != nil {
		return nil, fmt.Errorf("building reply generator: %w", err)
	}
	log.Info(fmt.Sprintf("%d translation keys loaded", len(table.Keys())))

	db, writer, err := repositories.OpenInMemory()
	if err != nil {
		return nil, fmt.Errorf("opening transcript: %w", err)
	}

	events := make(chan event.DomainEvent, options.BufferSize)
	ctx := i18n.NewContext(i18n.NewResolver(table, log)).WithLanguage(options.Language)

	var signal contract.ConnectivitySignal
	if options.Probe != nil {
		signal = options.Probe
	}

	conversation := session.New(ctx, generator, options.Latency, events, log)
	adapter := speech.NewAdapter(options.Recognizer, options.Language, events, log)
	adapter.Bind(conversation)

	return &Orchestrator{
		log:        log,
		supervisor: supervisor,
		options:    options,
		events:     events,
		generator:  generator,
		session:    conversation,
		speech:     adapter,
		monitor:    connectivity.NewMonitor(signal, options.BannerWindow, events, log),
		transcript: repositories.NewTranscriptRepository(db, writer, log, options.TranscriptLimit),
		db:         db,
		writer:     writer,
	}, nil
}

// Add registers extra sinks. It must be called before Start.
func (o *Orchestrator) Add(sinks ...contract.EventSink) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.sinks = append(o.sinks, sinks...)
}

// Start registers the reply worker, the fanout and the optional probe with the
// supervisor and blocks until ctx is done or Stop is called.
func (o *Orchestrator) Start(ctx context.Context) error {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return fmt.Errorf("orchestrator already closed")
	}
	sinks := append([]contract.EventSink{sink.NewTranscriptSink(o.transcript, o.log)}, o.sinks...)
	o.supervisor.Add(o.session, workers.NewEventFanout(o.log, o.events, o.options.SinkTimeout, sinks...))
	if o.options.Probe != nil {
		o.supervisor.Add(connectivity.NewProbeWorker(o.options.Probe, o.monitor, o.options.ProbeInterval, o.log))
	}
	o.mu.Unlock()

	o.log.Info("Starting orchestrator and all supervised workers", "language", o.session.Language())
	o.supervisor.Run(ctx)
	return nil
}

// Stop cancels the supervised workers.
func (o *Orchestrator) Stop() {
	o.log.Info("Requesting orchestrator shutdown")
	o.supervisor.Stop()
}

// Close disposes the session and releases the transcript. It is idempotent.
func (o *Orchestrator) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return nil
	}
	o.closed = true

	o.session.Dispose()
	_ = o.speech.Close()
	o.monitor.Close()

	var firstErr error
	if err := o.writer.Close(); err != nil {
		firstErr = fmt.Errorf("closing transcript index: %w", err)
	}
	if err := o.db.Close(); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("closing transcript store: %w", err)
	}
	return firstErr
}

func (o *Orchestrator) Send(text string) bool {
	return o.session.Send(text)
}

// Restart starts a new conversation in the current language. Replies still
// pending are dropped and the transcript is cleared.
func (o *Orchestrator) Restart() {
	o.session.Initialize(o.session.Language())
}

func (o *Orchestrator) SendQuickAction(action domain.QuickAction) (bool, error) {
	return o.session.SendQuickAction(action)
}

func (o *Orchestrator) SendInput() bool {
	return o.session.SendInput()
}

// SetLanguage switches the session and the next speech capture.
func (o *Orchestrator) SetLanguage(lang domain.Language) error {
	if err := o.session.SetLanguage(lang); err != nil {
		return err
	}
	o.speech.SetLanguage(lang)
	return nil
}

func (o *Orchestrator) ToggleLanguage() (domain.Language, error) {
	next := o.session.Language().Toggle()
	return next, o.SetLanguage(next)
}

func (o *Orchestrator) StartListening() error {
	return o.speech.StartListening()
}

func (o *Orchestrator) StopListening() error {
	return o.speech.StopListening()
}

// SetReachable feeds a connectivity edge observed outside the probe.
func (o *Orchestrator) SetReachable(reachable bool) bool {
	now := time.Now().UTC()
	if reachable {
		return o.monitor.BecameReachable(now)
	}
	return o.monitor.BecameUnreachable(now)
}

func (o *Orchestrator) ShowBanner() connectivity.Banner {
	return o.monitor.Show()
}

func (o *Orchestrator) ToggleBanner() connectivity.Banner {
	return o.monitor.Toggle()
}

func (o *Orchestrator) Banner() connectivity.Banner {
	return o.monitor.Banner()
}

// T resolves key in the current conversation language.
func (o *Orchestrator) T(key string) string {
	return o.session.Context().T(key)
}

func (o *Orchestrator) Snapshot() session.Snapshot {
	return o.session.Snapshot()
}

func (o *Orchestrator) SpeechStatus() speech.Status {
	return o.speech.Status()
}

func (o *Orchestrator) SpeechSupported() bool {
	return o.speech.IsSupported()
}

// History pages the transcript newest first.
func (o *Orchestrator) History(cursor *string) ([]repositories.TranscriptMessage, *string, error) {
	return o.transcript.GetMessages(cursor)
}

func (o *Orchestrator) Search(ctx context.Context, terms string, limit int) ([]repositories.TranscriptMessage, error) {
	return o.transcript.Search(ctx, terms, limit)
}

func (o *Orchestrator) Classify(query string) responder.Category {
	return o.generator.Classify(query, o.session.Language())
}
