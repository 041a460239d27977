// Package nlp wraps the sentiment models behind one Classify call. Each
// supported language gets its own specialist model; everything else goes to
// a generic multilingual fallback.
package nlp

import (
	"context"
	"strings"

	"go-triage/types"
)

// Sentiment models choke on very long inputs; the specialists were trained
// on 512-token windows, so truncate before classifying.
const maxClassifyRunes = 512

// Classifier is a single sentiment model.
type Classifier interface {
	Classify(ctx context.Context, text string) (types.Sentiment, error)
}

// Registry maps language tags onto concrete classifiers. The Default entry
// is required and serves as the fallback for tags without a specialist.
type Registry struct {
	classifiers map[types.LanguageTag]Classifier
	fallback    Classifier
}

// NewRegistry builds a registry. fallback must not be nil.
func NewRegistry(fallback Classifier) *Registry {
	return &Registry{
		classifiers: make(map[types.LanguageTag]Classifier),
		fallback:    fallback,
	}
}

// Register installs the specialist model for a language.
func (r *Registry) Register(lang types.LanguageTag, c Classifier) {
	r.classifiers[lang] = c
}

// Classify dispatches to the model registered for the language. Empty or
// whitespace-only text short-circuits to Neutral/0.0 without touching any
// model, since model behavior on empty input is undefined.
func (r *Registry) Classify(ctx context.Context, text string, lang types.LanguageTag) (types.Sentiment, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return types.Sentiment{Label: types.LabelNeutral, Confidence: 0.0}, nil
	}

	runes := []rune(trimmed)
	if len(runes) > maxClassifyRunes {
		trimmed = string(runes[:maxClassifyRunes])
	}

	c, ok := r.classifiers[lang]
	if !ok {
		c = r.fallback
	}
	return c.Classify(ctx, trimmed)
}
