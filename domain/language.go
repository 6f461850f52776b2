package domain

import (
	"afya-chat/errors"
	"fmt"
	"strings"
)

// Language is one of the two languages the assistant speaks.
type Language string

const (
	English Language = "en"
	Swahili Language = "sw"

	Primary   = English
	Secondary = Swahili
)

// Languages returns the supported languages, primary first.
func Languages() []Language {
	return []Language{Primary, Secondary}
}

func ParseLanguage(s string) (Language, error) {
	switch Language(strings.ToLower(strings.TrimSpace(s))) {
	case English:
		return English, nil
	case Swahili:
		return Swahili, nil
	default:
		return "", fmt.Errorf("%w: %q", errors.ErrUnknownLanguage, s)
	}
}

func (l Language) IsValid() bool {
	return l == English || l == Swahili
}

// Toggle returns the other language.
func (l Language) Toggle() Language {
	if l == Swahili {
		return English
	}
	return Swahili
}

// SpeechTag is the BCP-47 tag handed to the platform recognizer.
func (l Language) SpeechTag() string {
	if l == Swahili {
		return "sw-KE"
	}
	return "en-US"
}

func (l Language) String() string {
	return string(l)
}
