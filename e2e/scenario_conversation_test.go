package e2e

import (
	"afya-chat/connectivity"
	"afya-chat/contract"
	"afya-chat/domain"
	"afya-chat/mocks"
	"afya-chat/runtime"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

const (
	facilityEN = "We have clinics in Kitui Town, Mwingi, and Mutomo. Which location would you like more information about?"
	fallbackEN = "Thank you for your question. How else can I assist you with health services in Kitui County?"
	facilitySW = "Tuna kliniki katika Mji wa Kitui, Mwingi, na Mutomo. Ungependa habari zaidi kuhusu eneo gani?"
	fallbackSW = "Asante kwa swali lako. Ni vipi ninaweza kukusaidia zaidi na huduma za afya katika Kaunti ya Kitui?"
	welcomeSW  = "Karibu Afya Kitui! Nawezaje kukusaidia leo?"
)

type testConversationSuite struct {
	BaseEngineSuite
}

func TestConversationSuite(t *testing.T) {
	suite.Run(t, &testConversationSuite{})
}

func (s *testConversationSuite) TestBilingualConversation() {
	s.WithOrchestrator("English then Kiswahili", domain.English, nil, func(ctx context.Context, o *runtime.Orchestrator) {
		s.Run("Step 1: Ask for a clinic", func() {
			s.Require().True(o.Send("Where is the nearest clinic?"))
			s.Require().True(o.Snapshot().PendingReply)
			s.WaitIdle(o, 3)
			s.Require().Equal(facilityEN, o.Snapshot().Messages[2].Text)
		})

		s.Run("Step 2: Switch language, only the welcome is rewritten", func() {
			s.Require().NoError(o.SetLanguage(domain.Swahili))
			messages := o.Snapshot().Messages
			s.Require().Equal(welcomeSW, messages[0].Text)
			s.Require().Equal(facilityEN, messages[2].Text)
		})

		s.Run("Step 3: Quick actions use the new language", func() {
			sent, err := o.SendQuickAction(domain.ActionClinics)
			s.Require().NoError(err)
			s.Require().True(sent)
			s.WaitIdle(o, 5)
			s.Require().Equal("Maeneo ya Kliniki", o.Snapshot().Messages[3].Text)
			s.Require().Equal(facilitySW, o.Snapshot().Messages[4].Text)

			_, err = o.SendQuickAction(domain.ActionFAQs)
			s.Require().NoError(err)
			s.WaitIdle(o, 7)
			s.Require().Equal(fallbackSW, o.Snapshot().Messages[6].Text)
		})

		s.Run("Step 4: The transcript is searchable", func() {
			s.Require().Eventually(func() bool {
				found, err := o.Search(ctx, "Mutomo", 10)
				return err == nil && len(found) == 2
			}, waitFor, 5*time.Millisecond)
		})
	})
}

func (s *testConversationSuite) TestRepliesStayInOrder() {
	s.WithOrchestrator("Queued sends", domain.English, nil, func(ctx context.Context, o *runtime.Orchestrator) {
		s.Require().True(o.Send("hospital"))
		s.Require().True(o.Send("what is this?"))
		s.Require().True(o.Send("???"))
		s.Require().False(o.Send("   "))
		s.WaitIdle(o, 7)

		senders := make([]domain.Sender, 0, 7)
		for _, m := range o.Snapshot().Messages {
			senders = append(senders, m.Sender)
		}
		s.Require().Equal([]domain.Sender{
			domain.SenderAssistant,
			domain.SenderUser, domain.SenderUser, domain.SenderUser,
			domain.SenderAssistant, domain.SenderAssistant, domain.SenderAssistant,
		}, senders)
		s.Require().Equal(facilityEN, o.Snapshot().Messages[4].Text)
		// "this" contains "hi"
		s.Require().Equal("Hello! How can I help you with your health needs today?", o.Snapshot().Messages[5].Text)
		s.Require().Equal(fallbackEN, o.Snapshot().Messages[6].Text)
	})
}

func (s *testConversationSuite) TestVoiceInput() {
	ctrl := gomock.NewController(s.T())
	recognizer := mocks.NewMockRecognizer(ctrl)
	var listener contract.Listener
	recognizer.EXPECT().IsSupported().Return(true).AnyTimes()
	recognizer.EXPECT().Begin("sw-KE", gomock.Any()).
		DoAndReturn(func(_ string, l contract.Listener) error {
			listener = l
			return nil
		}).Times(2)

	s.WithOrchestrator("Dictation", domain.Swahili, recognizer, func(ctx context.Context, o *runtime.Orchestrator) {
		s.Run("Step 1: A transcript fills the input", func() {
			s.Require().NoError(o.StartListening())
			listener.OnResult("kliniki iko wapi")
			s.Require().Eventually(func() bool {
				return o.Snapshot().Input == "kliniki iko wapi"
			}, waitFor, 5*time.Millisecond)
			s.Require().True(o.SendInput())
			s.WaitIdle(o, 3)
			s.Require().Equal(facilitySW, o.Snapshot().Messages[2].Text)
		})

		s.Run("Step 2: Silence leaves the input untouched", func() {
			s.Require().NoError(o.StartListening())
			listener.OnEnd()
			s.Require().Eventually(func() bool {
				last := o.SpeechStatus().Last
				return last != nil && last.Reason == "no-speech"
			}, waitFor, 5*time.Millisecond)
			s.Require().Empty(o.Snapshot().Input)
		})
	})
}

func (s *testConversationSuite) TestConnectivityBanner() {
	s.WithOrchestrator("Offline then online", domain.English, nil, func(ctx context.Context, o *runtime.Orchestrator) {
		s.Require().True(o.SetReachable(false))
		banner := o.Banner()
		s.Require().Equal(connectivity.BannerExpanded, banner.Mode)
		s.Require().True(banner.Persistent)

		s.Require().True(o.SetReachable(true))
		s.Require().Equal(connectivity.BannerExpanded, o.Banner().Mode)
		s.Require().Eventually(func() bool {
			return o.Banner().Mode == connectivity.BannerCollapsed
		}, waitFor, 5*time.Millisecond)

		// A manual re-expand after the window stays expanded
		s.Require().Equal(connectivity.BannerExpanded, o.ToggleBanner().Mode)
		time.Sleep(3 * s.Config.BannerWindow)
		s.Require().Equal(connectivity.BannerExpanded, o.Banner().Mode)
	})
}
