// Package langid routes comments to a supported language. Detection is
// best-effort: anything empty, low-confidence, or outside the supported set
// goes down the default path, and no comment is ever rejected over it.
package langid

import (
	"strings"

	"go-triage/types"

	"github.com/pemistahl/lingua-go"
)

// Router picks a LanguageTag for a comment text.
type Router struct {
	detector            lingua.LanguageDetector
	confidenceThreshold float64
}

// NewRouter builds the detector once; lingua loads its language models
// lazily but the detector itself is cheap and shared across workers.
// The candidate set includes neighbors of the supported languages so the
// detector has something to reject toward.
func NewRouter(confidenceThreshold float64) *Router {
	detector := lingua.NewLanguageDetectorBuilder().
		FromLanguages(
			lingua.Russian,
			lingua.Kazakh,
			lingua.Ukrainian,
			lingua.English,
			lingua.Turkish,
		).
		Build()
	return &Router{detector: detector, confidenceThreshold: confidenceThreshold}
}

// Route returns the language tag for a text. Unsupported or uncertain
// detections return LangDefault.
func (r *Router) Route(text string) types.LanguageTag {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return types.LangDefault
	}

	values := r.detector.ComputeLanguageConfidenceValues(trimmed)
	if len(values) == 0 {
		return types.LangDefault
	}
	best := values[0]
	if best.Value() < r.confidenceThreshold {
		return types.LangDefault
	}

	switch best.Language() {
	case lingua.Russian:
		return types.LangRussian
	case lingua.Kazakh:
		return types.LangKazakh
	default:
		return types.LangDefault
	}
}
