package ports

import "fulfillment/internal/core/domain/model/kernel"

// Translator looks up a localized text by key. Variables are substituted into
// the template by the implementation. Translation is always best-effort for
// callers: on error they fall back to the untranslated text.
type Translator interface {
	Translate(key string, language kernel.Language, variables map[string]string) (string, error)
}
