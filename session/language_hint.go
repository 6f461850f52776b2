package session

import (
	"afya-chat/domain"
	"afya-chat/domain/event"
	"time"

	"github.com/abadojack/whatlanggo"
)

// DetectLanguage guesses which supported language text is written in.
// Short or ambiguous text is reported as unknown.
func DetectLanguage(text string) (domain.Language, bool) {
	info := whatlanggo.Detect(text)
	if !info.IsReliable() {
		return "", false
	}
	lang, err := domain.ParseLanguage(info.Lang.Iso6391())
	if err != nil {
		return "", false
	}
	return lang, true
}

// hint publishes a LanguageHint when a query looks written in the other language.
// The reply is still computed in the active language.
func (s *Session) hint(text string, active domain.Language) {
	if s.detect == nil {
		return
	}
	detected, ok := s.detect(text)
	if !ok || detected == active {
		return
	}
	s.log.Debug("Query language differs from active language", "active", active, "detected", detected)
	event.Publish(s.events, event.LanguageHint{Active: active, Detected: detected, At: time.Now().UTC()}, s.log)
}
