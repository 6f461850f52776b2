package e2e

import (
	"afya-chat/contract"
	"afya-chat/domain"
	"afya-chat/repositories"
	"afya-chat/runtime"
	"afya-chat/runtime/workers"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gookit/color"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/suite"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

const waitFor = 2 * time.Second

type BaseEngineSuite struct {
	suite.Suite
	Config Config
}

// SetupSuite loads the environment configuration before running tests
func (s *BaseEngineSuite) SetupSuite() {
	var err error
	s.Config, err = LoadConfig()
	s.Require().NoError(err)
}

// Header prints a colorized step header in the test log
func (s *BaseEngineSuite) Header(name string) {
	header := fmt.Sprintf("  ====== %s ======", name)
	if s.Config.Colours {
		header = color.New(color.BgBlack, color.FgGreen).Render(header)
	}
	s.T().Log(header)
}

// WithOrchestrator runs fn against a started conversation and tears it down afterwards.
func (s *BaseEngineSuite) WithOrchestrator(name string, lang domain.Language, recognizer contract.Recognizer, fn func(ctx context.Context, o *runtime.Orchestrator)) {
	s.Header(name)
	log := logs.GetLoggerFromLevel(slog.LevelWarn)

	o, err := runtime.NewOrchestrator(log, workers.NewSupervisor(log, 10*time.Millisecond), runtime.Options{
		Language:     lang,
		Latency:      s.Config.Latency,
		BannerWindow: s.Config.BannerWindow,
		Recognizer:   recognizer,
	})
	s.Require().NoError(err)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	done := make(chan struct{})
	go func() {
		_ = o.Start(ctx)
		close(done)
	}()
	defer func() {
		cancel()
		<-done
		s.Require().NoError(o.Close())
	}()

	fn(ctx, o)

	if s.Config.DebugJSON {
		s.DumpTranscript(o)
	}
}

// WaitIdle blocks until the session holds count messages and no reply is pending.
func (s *BaseEngineSuite) WaitIdle(o *runtime.Orchestrator, count int) {
	s.Require().Eventually(func() bool {
		snapshot := o.Snapshot()
		return len(snapshot.Messages) == count && !snapshot.PendingReply
	}, waitFor, 5*time.Millisecond)
}

// DumpTranscript logs every stored message as JSON, newest first
func (s *BaseEngineSuite) DumpTranscript(o *runtime.Orchestrator) {
	messages, _, err := o.History(nil)
	s.Require().NoError(err)

	marshaler := protojson.MarshalOptions{Multiline: true, EmitUnpopulated: true}
	for _, m := range messages {
		record, err := structpb.NewStruct(transcriptFields(m))
		s.Require().NoError(err)
		s.T().Log(marshaler.Format(record))
	}
}

func transcriptFields(m repositories.TranscriptMessage) map[string]any {
	return map[string]any{
		"id":       m.ID.String(),
		"position": m.Position,
		"sender":   string(m.Sender),
		"text":     m.Text,
		"at":       m.At.Format(time.RFC3339Nano),
	}
}
