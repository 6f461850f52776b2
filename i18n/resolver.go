package i18n

import (
	"afya-chat/domain"
	"afya-chat/errors"
	"fmt"
	"log/slog"
)

type Resolver struct {
	table Table
	log   *slog.Logger
}

func NewResolver(table Table, log *slog.Logger) *Resolver {
	if table == nil {
		table = Table{}
	}
	if log == nil {
		log = slog.Default()
	}
	return &Resolver{table: table, log: log}
}

// Lookup returns the text of key in lang, or ErrMissingLocalizationKey.
func (r *Resolver) Lookup(key string, lang domain.Language) (string, error) {
	if entry, ok := r.table[key]; ok {
		if text := entry[lang]; text != "" {
			return text, nil
		}
	}
	return "", fmt.Errorf("%w: key=%q language=%s", errors.ErrMissingLocalizationKey, key, lang)
}

// Resolve never fails: a missing key or column falls back to the key itself
// and logs a warning so the gap can be fixed in the table.
func (r *Resolver) Resolve(key string, lang domain.Language) string {
	text, err := r.Lookup(key, lang)
	if err != nil {
		r.log.Warn("Translation missing", "key", key, "language", lang, "error", err)
		return key
	}
	return text
}
