package handlers_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go-triage/config"
	"go-triage/db"
	"go-triage/handlers"
	"go-triage/langid"
	"go-triage/nlp"
	"go-triage/processor"
	"go-triage/routes"
	"go-triage/types"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeSource struct {
	comments []types.Comment
	err      error
}

func (f *fakeSource) FetchComments(ctx context.Context, videoURL string, max int) ([]types.Comment, error) {
	return f.comments, f.err
}

type neutralClassifier struct{}

func (neutralClassifier) Classify(ctx context.Context, text string) (types.Sentiment, error) {
	return types.Sentiment{Label: types.LabelNeutral, Confidence: 0.5}, nil
}

func testDeps(t *testing.T, source *fakeSource) *handlers.Deps {
	t.Helper()
	cfg := config.Defaults()
	cfg.Workers = 2

	store, err := db.Open(filepath.Join(t.TempDir(), "triage.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	p := processor.New(&cfg, langid.NewRouter(cfg.LangConfidenceThreshold), nlp.NewRegistry(neutralClassifier{}), nil)
	return &handlers.Deps{Cfg: &cfg, Source: source, Processor: p, Store: store}
}

func TestAnalyzeHandler_BadRequests(t *testing.T) {
	router := routes.SetupRouter(testDeps(t, &fakeSource{}))

	tests := []struct {
		name string
		body string
		want int
	}{
		{"missing url", `{}`, http.StatusBadRequest},
		{"not json", `not json`, http.StatusBadRequest},
		{"unparseable video url", `{"url": "https://example.com/nope"}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/triage/analyze", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			router.ServeHTTP(w, req)
			if w.Code != tt.want {
				t.Errorf("got status %d, want %d (body %s)", w.Code, tt.want, w.Body.String())
			}
		})
	}
}

func TestAnalyzeHandler_SourceUnavailable(t *testing.T) {
	source := &fakeSource{err: fmt.Errorf("%w: quota exceeded", types.ErrSourceUnavailable)}
	router := routes.SetupRouter(testDeps(t, source))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/triage/analyze",
		strings.NewReader(`{"url": "https://youtu.be/dQw4w9WgXcQ"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadGateway {
		t.Errorf("a down source maps to 502, got %d", w.Code)
	}
}

func TestAnalyzeHandler_NoComments(t *testing.T) {
	router := routes.SetupRouter(testDeps(t, &fakeSource{}))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/triage/analyze",
		strings.NewReader(`{"url": "https://youtu.be/dQw4w9WgXcQ"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "no comments found") {
		t.Errorf("expected the empty-video message, got %s", w.Body.String())
	}
}

func TestAnalyzeThenFetchRun(t *testing.T) {
	source := &fakeSource{comments: []types.Comment{
		{ID: "c1", Author: "alice", Text: "how do I cancel my subscription?", LikeCount: 5, Timestamp: time.Now().Add(-time.Hour)},
		{ID: "c2", Author: "bob", Text: "this is spam http://x.co buy now!!!", LikeCount: 1, Timestamp: time.Now()},
	}}
	router := routes.SetupRouter(testDeps(t, source))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/triage/analyze",
		strings.NewReader(`{"url": "https://youtu.be/dQw4w9WgXcQ"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("analyze failed: %d %s", w.Code, w.Body.String())
	}

	var rep types.RankedReport
	if err := json.Unmarshal(w.Body.Bytes(), &rep); err != nil {
		t.Fatalf("decoding report: %v", err)
	}
	if len(rep.Results) != 2 || rep.RunID == "" {
		t.Fatalf("unexpected report: %+v", rep)
	}
	// spam outranks the plain question
	if rep.Results[0].CommentID != "c2" {
		t.Errorf("expected the spam comment first, got %s", rep.Results[0].CommentID)
	}

	// the run was persisted and is listable
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/triage/runs", nil))
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), rep.RunID) {
		t.Fatalf("run listing missing the new run: %d %s", w.Code, w.Body.String())
	}

	// and fetchable with filters
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/triage/runs/"+rep.RunID+"?questions=true", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("get run failed: %d %s", w.Code, w.Body.String())
	}
	var filtered types.RankedReport
	if err := json.Unmarshal(w.Body.Bytes(), &filtered); err != nil {
		t.Fatal(err)
	}
	if len(filtered.Results) != 1 || !filtered.Results[0].IsQuestion {
		t.Errorf("questions filter wrong: %+v", filtered.Results)
	}

	// likes sort
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/triage/runs/"+rep.RunID+"?sort=likes", nil))
	var byLikes types.RankedReport
	if err := json.Unmarshal(w.Body.Bytes(), &byLikes); err != nil {
		t.Fatal(err)
	}
	if byLikes.Results[0].CommentID != "c1" {
		t.Errorf("likes sort should put c1 first, got %s", byLikes.Results[0].CommentID)
	}

	// CSV export round trip
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/triage/runs/"+rep.RunID+"/export", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("export failed: %d", w.Code)
	}
	if got := w.Header().Get("Content-Type"); !strings.HasPrefix(got, "text/csv") {
		t.Errorf("export content type %q", got)
	}
	if !strings.HasPrefix(w.Body.String(), "triage_score,") {
		t.Errorf("CSV header missing: %s", w.Body.String()[:60])
	}
}

func TestGetRunHandler_NotFound(t *testing.T) {
	router := routes.SetupRouter(testDeps(t, &fakeSource{}))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/triage/runs/ghost", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown run should 404, got %d", w.Code)
	}
}

func TestGetRunHandler_BadSort(t *testing.T) {
	source := &fakeSource{comments: []types.Comment{{ID: "c1", Text: "hello there"}}}
	deps := testDeps(t, source)
	router := routes.SetupRouter(deps)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/triage/analyze",
		strings.NewReader(`{"url": "https://youtu.be/dQw4w9WgXcQ"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	var rep types.RankedReport
	if err := json.Unmarshal(w.Body.Bytes(), &rep); err != nil {
		t.Fatal(err)
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/triage/runs/"+rep.RunID+"?sort=alphabetical", nil))
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad sort should 400, got %d", w.Code)
	}
}
