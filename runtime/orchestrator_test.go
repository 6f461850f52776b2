package runtime

import (
	"afya-chat/connectivity"
	"afya-chat/contract"
	"afya-chat/domain"
	"afya-chat/domain/event"
	"afya-chat/mocks"
	"afya-chat/responder"
	"afya-chat/runtime/workers"
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// recordingSink keeps the names of the events it receives.
type recordingSink struct {
	mu    sync.Mutex
	names []string
}

func (r *recordingSink) Consume(_ context.Context, e event.DomainEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.names = append(r.names, e.Name())
	return nil
}

func (r *recordingSink) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.names...)
}

func startOrchestrator(t *testing.T, options Options) (*Orchestrator, *recordingSink) {
	t.Helper()
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	options.Latency = 10 * time.Millisecond
	if options.BannerWindow == 0 {
		options.BannerWindow = 50 * time.Millisecond
	}

	o, err := NewOrchestrator(log, workers.NewSupervisor(log, 10*time.Millisecond), options)
	require.NoError(t, err)
	recorder := &recordingSink{}
	o.Add(recorder)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = o.Start(ctx)
		close(done)
	}()

	t.Cleanup(func() {
		cancel()
		<-done
		require.NoError(t, o.Close())
	})
	return o, recorder
}

func TestOrchestrator_ConversationIsTranscribed(t *testing.T) {
	req := require.New(t)
	o, _ := startOrchestrator(t, Options{Language: domain.English})

	req.True(o.Send("I want to book an appointment"))
	req.Eventually(func() bool {
		s := o.Snapshot()
		return len(s.Messages) == 3 && !s.PendingReply
	}, time.Second, 5*time.Millisecond)

	var history []string
	req.Eventually(func() bool {
		messages, _, err := o.History(nil)
		if err != nil || len(messages) != 3 {
			return false
		}
		history = nil
		for _, m := range messages {
			history = append(history, m.Text)
		}
		return true
	}, time.Second, 5*time.Millisecond)

	// Newest first
	req.Equal("I want to book an appointment", history[1])
	req.Equal("Welcome to Afya Kitui! How can I help you today?", history[2])

	found, err := o.Search(context.Background(), "appointment", 10)
	req.NoError(err)
	req.NotEmpty(found)
}

func TestOrchestrator_SetLanguageRewritesWelcomeInTranscript(t *testing.T) {
	req := require.New(t)
	o, recorder := startOrchestrator(t, Options{Language: domain.English})

	req.NoError(o.SetLanguage(domain.Swahili))
	req.Equal("Karibu Afya Kitui! Nawezaje kukusaidia leo?", o.Snapshot().Messages[0].Text)
	req.Equal("Uko mtandaoni.", o.T("onlineMode"))

	req.Eventually(func() bool {
		found, err := o.Search(context.Background(), "karibu", 10)
		return err == nil && len(found) == 1 && found[0].Position == 0
	}, time.Second, 5*time.Millisecond)
	req.Eventually(func() bool {
		return lo.Contains(recorder.Names(), "WelcomeRewritten")
	}, time.Second, 5*time.Millisecond)

	next, err := o.ToggleLanguage()
	req.NoError(err)
	req.Equal(domain.English, next)
	req.Equal(responder.CategoryScheduling, o.Classify("book"))
}

func TestOrchestrator_SpeechFillsInput(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	recognizer := mocks.NewMockRecognizer(ctrl)

	var listener contract.Listener
	recognizer.EXPECT().IsSupported().Return(true).AnyTimes()
	recognizer.EXPECT().Begin("sw-KE", gomock.Any()).
		DoAndReturn(func(_ string, l contract.Listener) error {
			listener = l
			return nil
		})
	recognizer.EXPECT().Cancel().AnyTimes()

	o, _ := startOrchestrator(t, Options{Language: domain.Swahili, Recognizer: recognizer})
	req.True(o.SpeechSupported())
	req.NoError(o.StartListening())
	listener.OnResult("nataka kupanga miadi")

	// The transcript fills the input, it is not sent
	req.Eventually(func() bool {
		return o.Snapshot().Input == "nataka kupanga miadi"
	}, time.Second, 5*time.Millisecond)
	req.Len(o.Snapshot().Messages, 1)

	req.True(o.SendInput())
	req.Eventually(func() bool {
		s := o.Snapshot()
		return len(s.Messages) == 3 && !s.PendingReply
	}, time.Second, 5*time.Millisecond)
	req.Contains(o.Snapshot().Messages[2].Text, "miadi")
}

func TestOrchestrator_WithoutRecognizer(t *testing.T) {
	req := require.New(t)
	o, recorder := startOrchestrator(t, Options{Language: domain.English})

	req.False(o.SpeechSupported())
	req.Error(o.StartListening())
	req.Eventually(func() bool {
		return lo.Contains(recorder.Names(), "SpeechUnsupported")
	}, time.Second, 5*time.Millisecond)
}

func TestOrchestrator_ConnectivityBanner(t *testing.T) {
	req := require.New(t)
	o, recorder := startOrchestrator(t, Options{Language: domain.English})

	req.False(o.SetReachable(true))
	req.True(o.SetReachable(false))
	req.Equal(connectivity.BannerExpanded, o.Banner().Mode)
	req.True(o.SetReachable(true))

	req.Eventually(func() bool {
		return o.Banner().Mode == connectivity.BannerCollapsed
	}, time.Second, 5*time.Millisecond)
	req.Eventually(func() bool {
		names := recorder.Names()
		return lo.Contains(names, "BecameUnreachable") && lo.Contains(names, "BecameReachable")
	}, time.Second, 5*time.Millisecond)
}

func TestOrchestrator_CloseIsIdempotent(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	o, err := NewOrchestrator(log, workers.NewSupervisor(log, 0), Options{})
	req.NoError(err)
	req.Equal(domain.Primary, o.Snapshot().Language)

	req.NoError(o.Close())
	req.NoError(o.Close())
	req.False(o.Send("hello"))
	req.Error(o.Start(context.Background()))
}

func TestOrchestrator_SpeechResultSurvivesFullEventChannel(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	ctrl := gomock.NewController(t)
	recognizer := mocks.NewMockRecognizer(ctrl)

	var listener contract.Listener
	recognizer.EXPECT().IsSupported().Return(true).AnyTimes()
	recognizer.EXPECT().Begin("sw-KE", gomock.Any()).
		DoAndReturn(func(_ string, l contract.Listener) error {
			listener = l
			return nil
		})

	// Nothing drains the channel: the orchestrator is never started
	o, err := NewOrchestrator(log, workers.NewSupervisor(log, 0), Options{
		Language:   domain.Swahili,
		BufferSize: 4,
		Recognizer: recognizer,
	})
	req.NoError(err)
	t.Cleanup(func() { _ = o.Close() })

	req.NoError(o.StartListening())
	req.True(o.SetReachable(false))
	// Welcome, SpeechStarted, BecameUnreachable and BannerChanged fill the buffer
	listener.OnResult("nataka miadi")

	req.Equal("nataka miadi", o.Snapshot().Input)
	req.Equal("nataka miadi", o.SpeechStatus().Last.Text)
}

func TestOrchestrator_RestartClearsTranscript(t *testing.T) {
	req := require.New(t)
	o, _ := startOrchestrator(t, Options{Language: domain.English})

	req.True(o.Send("where is the clinic"))
	req.Eventually(func() bool {
		messages, _, err := o.History(nil)
		return err == nil && len(messages) == 3
	}, time.Second, 5*time.Millisecond)

	o.Restart()
	req.True(o.Send("hello there"))
	req.Eventually(func() bool {
		messages, _, err := o.History(nil)
		return err == nil && len(messages) == 3 && messages[1].Text == "hello there"
	}, time.Second, 5*time.Millisecond)

	found, err := o.Search(context.Background(), "clinic", 10)
	req.NoError(err)
	req.Empty(found)

	found, err = o.Search(context.Background(), "there", 10)
	req.NoError(err)
	req.Len(found, 1)
	req.Equal("hello there", found[0].Text)
}
