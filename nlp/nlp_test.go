package nlp

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go-triage/types"
)

type fakeClassifier struct {
	sentiment types.Sentiment
	err       error
	lastText  string
	calls     int
}

func (f *fakeClassifier) Classify(ctx context.Context, text string) (types.Sentiment, error) {
	f.calls++
	f.lastText = text
	return f.sentiment, f.err
}

func TestRegistry_DispatchesToSpecialist(t *testing.T) {
	fallback := &fakeClassifier{sentiment: types.Sentiment{Label: types.LabelNeutral, Confidence: 0.5}}
	russian := &fakeClassifier{sentiment: types.Sentiment{Label: types.LabelNegative, Confidence: 0.9}}

	registry := NewRegistry(fallback)
	registry.Register(types.LangRussian, russian)

	got, err := registry.Classify(context.Background(), "ужасный сервис", types.LangRussian)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Label != types.LabelNegative {
		t.Errorf("expected specialist result, got %+v", got)
	}
	if fallback.calls != 0 {
		t.Errorf("fallback should not have been called")
	}
}

func TestRegistry_UnknownLanguageUsesFallback(t *testing.T) {
	fallback := &fakeClassifier{sentiment: types.Sentiment{Label: types.LabelPositive, Confidence: 0.7}}
	registry := NewRegistry(fallback)

	got, err := registry.Classify(context.Background(), "nice video", types.LangDefault)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Label != types.LabelPositive || fallback.calls != 1 {
		t.Errorf("expected fallback to serve the request, got %+v (calls=%d)", got, fallback.calls)
	}
}

func TestRegistry_EmptyTextShortCircuits(t *testing.T) {
	fallback := &fakeClassifier{err: errors.New("model must not be called")}
	registry := NewRegistry(fallback)

	for _, text := range []string{"", "   ", "\n\n"} {
		got, err := registry.Classify(context.Background(), text, types.LangRussian)
		if err != nil {
			t.Fatalf("Classify(%q) returned error: %v", text, err)
		}
		if got.Label != types.LabelNeutral || got.Confidence != 0.0 {
			t.Errorf("Classify(%q) = %+v, want Neutral/0.0", text, got)
		}
	}
	if fallback.calls != 0 {
		t.Errorf("empty text must never reach a model, got %d calls", fallback.calls)
	}
}

func TestRegistry_TruncatesLongText(t *testing.T) {
	fallback := &fakeClassifier{sentiment: types.Sentiment{Label: types.LabelNeutral}}
	registry := NewRegistry(fallback)

	long := strings.Repeat("ц", 2000)
	if _, err := registry.Classify(context.Background(), long, types.LangDefault); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := len([]rune(fallback.lastText)); got != maxClassifyRunes {
		t.Errorf("expected text truncated to %d runes, model saw %d", maxClassifyRunes, got)
	}
}

func TestHTTPClassifier_RemapsLabels(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[[{"label":"LABEL_0","score":0.91},{"label":"LABEL_2","score":0.05}]]`))
	}))
	defer server.Close()

	c := NewHTTPClassifier(server.URL, "test-model", 5*time.Second)
	got, err := c.Classify(context.Background(), "ужасно")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Label != types.LabelNegative {
		t.Errorf("expected LABEL_0 remapped to Negative, got %v", got.Label)
	}
	if got.Confidence != 0.91 {
		t.Errorf("expected confidence 0.91, got %v", got.Confidence)
	}
}

func TestHTTPClassifier_PicksHighestScore(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[[{"label":"NEGATIVE","score":0.2},{"label":"POSITIVE","score":0.75},{"label":"NEUTRAL","score":0.05}]]`))
	}))
	defer server.Close()

	c := NewHTTPClassifier(server.URL, "test-model", 5*time.Second)
	got, err := c.Classify(context.Background(), "керемет")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Label != types.LabelPositive || got.Confidence != 0.75 {
		t.Errorf("expected Positive/0.75, got %+v", got)
	}
}

func TestHTTPClassifier_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model loading", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	c := NewHTTPClassifier(server.URL, "test-model", 5*time.Second)
	if _, err := c.Classify(context.Background(), "text"); err == nil {
		t.Error("expected an error for a 503 response")
	}
}

func TestNormalizeLabel(t *testing.T) {
	tests := []struct {
		raw  string
		want types.Label
	}{
		{"LABEL_0", types.LabelNegative},
		{"LABEL_1", types.LabelNeutral},
		{"LABEL_2", types.LabelPositive},
		{"LABEL_3", types.LabelNeutral},
		{"LABEL_4", types.LabelPositive},
		{"NEGATIVE", types.LabelNegative},
		{"POS", types.LabelPositive},
		{"something_else", types.LabelNeutral},
	}
	for _, tt := range tests {
		if got := NormalizeLabel(tt.raw); got != tt.want {
			t.Errorf("NormalizeLabel(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func TestSentimentFromScore(t *testing.T) {
	tests := []struct {
		score float64
		want  types.Label
	}{
		{0.8, types.LabelPositive},
		{0.25, types.LabelPositive},
		{0.1, types.LabelNeutral},
		{-0.1, types.LabelNeutral},
		{-0.3, types.LabelNegative},
		{-1.0, types.LabelNegative},
	}
	for _, tt := range tests {
		if got := sentimentFromScore(tt.score); got.Label != tt.want {
			t.Errorf("sentimentFromScore(%v) = %v, want %v", tt.score, got.Label, tt.want)
		}
	}
}
