// Package i18n resolves display text for the two supported languages.
package i18n

import (
	"afya-chat/domain"
	"bytes"
	_ "embed"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

//go:embed translations.yaml
var bundledTranslations []byte

// Entry holds one key's text per language.
type Entry map[domain.Language]string

// Table maps a localization key to its entries. It is read-only after loading.
type Table map[string]Entry

// LoadTable decodes a YAML document of the form `key: {en: ..., sw: ...}`.
func LoadTable(r io.Reader) (Table, error) {
	table := Table{}
	if err := yaml.NewDecoder(r).Decode(&table); err != nil {
		if err == io.EOF {
			return table, nil
		}
		return nil, fmt.Errorf("decode translations: %w", err)
	}
	return table, nil
}

// DefaultTable returns the translations bundled with the binary.
func DefaultTable() (Table, error) {
	return LoadTable(bytes.NewReader(bundledTranslations))
}

func (t Table) Keys() []string {
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	return keys
}
