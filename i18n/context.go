package i18n

import "afya-chat/domain"

// Context carries the active language and the resolver to whoever needs to
// display text. It is a value: changing language returns a new Context.
type Context struct {
	lang     domain.Language
	resolver *Resolver
}

// NewContext starts in the primary language.
func NewContext(resolver *Resolver) Context {
	return Context{lang: domain.Primary, resolver: resolver}
}

func (c Context) Language() domain.Language {
	return c.lang
}

func (c Context) WithLanguage(lang domain.Language) Context {
	c.lang = lang
	return c
}

// T resolves key in the context's language.
func (c Context) T(key string) string {
	return c.resolver.Resolve(key, c.lang)
}

func (c Context) Resolver() *Resolver {
	return c.resolver
}
