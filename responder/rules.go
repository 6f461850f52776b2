package responder

import (
	"afya-chat/domain"
	"afya-chat/errors"
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed rules.yaml
var bundledRules []byte

type Category string

const (
	CategoryFacility   Category = "facility"
	CategoryScheduling Category = "scheduling"
	CategoryGreeting   Category = "greeting"
	CategoryFallback   Category = "fallback"
)

// Rule is one keyword bucket of a language's ordered dispatch list.
type Rule struct {
	Category Category `yaml:"category"`
	Keywords []string `yaml:"keywords"`
	Reply    string   `yaml:"reply"`
}

// RuleSet is maintained per language; sets are not translations of each other.
type RuleSet struct {
	Categories []Rule `yaml:"categories"`
	Fallback   string `yaml:"fallback"`
}

type Rules map[domain.Language]RuleSet

func LoadRules(r io.Reader) (Rules, error) {
	rules := Rules{}
	if err := yaml.NewDecoder(r).Decode(&rules); err != nil {
		return nil, fmt.Errorf("decode rules: %w", err)
	}
	for lang, set := range rules {
		if strings.TrimSpace(set.Fallback) == "" {
			return nil, fmt.Errorf("%w: language=%s", errors.ErrEmptyFallback, lang)
		}
	}
	return rules, nil
}

// DefaultRules returns the rule sets bundled with the binary.
func DefaultRules() (Rules, error) {
	return LoadRules(bytes.NewReader(bundledRules))
}
