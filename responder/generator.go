package responder

import (
	"afya-chat/domain"
	"afya-chat/errors"
	"fmt"
	"log/slog"
	"strings"

	goahocorasick "github.com/anknown/ahocorasick"
)

// matcher is the compiled form of a RuleSet.
type matcher struct {
	rules    []Rule
	fallback string
	machine  *goahocorasick.Machine
	// keyword -> index of the first rule declaring it
	owner map[string]int
}

// Generator maps a query to a canned reply. It is deterministic, total and
// safe for concurrent use once built.
type Generator struct {
	matchers map[domain.Language]matcher
	log      *slog.Logger
}

// NewGenerator compiles one Aho-Corasick automaton per language.
// Both supported languages must have a rule set.
func NewGenerator(rules Rules, log *slog.Logger) (*Generator, error) {
	if log == nil {
		log = slog.Default()
	}
	g := &Generator{matchers: make(map[domain.Language]matcher, len(rules)), log: log}
	for _, lang := range domain.Languages() {
		set, ok := rules[lang]
		if !ok {
			return nil, fmt.Errorf("%w: no rules for %s", errors.ErrUnknownLanguage, lang)
		}
		m, err := compile(set)
		if err != nil {
			return nil, fmt.Errorf("compile rules for %s: %w", lang, err)
		}
		g.matchers[lang] = m
	}
	return g, nil
}

func compile(set RuleSet) (matcher, error) {
	if strings.TrimSpace(set.Fallback) == "" {
		return matcher{}, errors.ErrEmptyFallback
	}
	m := matcher{rules: set.Categories, fallback: set.Fallback, owner: map[string]int{}}

	var patterns [][]rune
	for i, rule := range set.Categories {
		if strings.TrimSpace(rule.Reply) == "" {
			return matcher{}, fmt.Errorf("rule %q has an empty reply", rule.Category)
		}
		for _, keyword := range rule.Keywords {
			normalized := strings.ToLower(strings.TrimSpace(keyword))
			if normalized == "" {
				continue
			}
			if _, seen := m.owner[normalized]; seen {
				continue
			}
			m.owner[normalized] = i
			patterns = append(patterns, []rune(normalized))
		}
	}
	if len(patterns) == 0 {
		return m, nil
	}

	machine := new(goahocorasick.Machine)
	if err := machine.Build(patterns); err != nil {
		return matcher{}, err
	}
	m.machine = machine
	return m, nil
}

// Generate returns the reply of the highest-priority category matching query.
func (g *Generator) Generate(query string, lang domain.Language) string {
	m := g.matcherFor(lang)
	if idx, ok := m.match(query); ok {
		return m.rules[idx].Reply
	}
	return m.fallback
}

// Classify reports which category Generate would answer with.
func (g *Generator) Classify(query string, lang domain.Language) Category {
	m := g.matcherFor(lang)
	if idx, ok := m.match(query); ok {
		return m.rules[idx].Category
	}
	return CategoryFallback
}

func (g *Generator) matcherFor(lang domain.Language) matcher {
	if m, ok := g.matchers[lang]; ok {
		return m
	}
	g.log.Warn("No rules for language, using primary", "language", lang)
	return g.matchers[domain.Primary]
}

// match returns the index of the first rule having a keyword inside query.
func (m matcher) match(query string) (int, bool) {
	if m.machine == nil {
		return 0, false
	}
	content := []rune(strings.ToLower(query))
	if len(content) == 0 {
		return 0, false
	}

	best := len(m.rules)
	for _, term := range m.machine.MultiPatternSearch(content, false) {
		if idx, ok := m.owner[string(term.Word)]; ok && idx < best {
			best = idx
		}
	}
	if best == len(m.rules) {
		return 0, false
	}
	return best, true
}
