package processor

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go-triage/config"
	"go-triage/langid"
	"go-triage/nlp"
	"go-triage/rag"
	"go-triage/types"
)

// scriptedClassifier answers from substring rules so tests control the
// sentiment stage without a live model.
type scriptedClassifier struct {
	rules map[string]types.Sentiment
	err   error
}

func (s *scriptedClassifier) Classify(ctx context.Context, text string) (types.Sentiment, error) {
	if s.err != nil {
		return types.Sentiment{}, s.err
	}
	for key, sentiment := range s.rules {
		if strings.Contains(strings.ToLower(text), key) {
			return sentiment, nil
		}
	}
	return types.Sentiment{Label: types.LabelNeutral, Confidence: 0.5}, nil
}

type keyedEmbedder struct {
	vectors map[string][]float32
}

func (k *keyedEmbedder) Available() bool { return true }

func (k *keyedEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	for key, vec := range k.vectors {
		if strings.Contains(strings.ToLower(text), key) {
			return vec, nil
		}
	}
	return []float32{0, 0, 1}, nil
}

func testProcessor(t *testing.T, fallback nlp.Classifier) *Processor {
	t.Helper()
	cfg := config.Defaults()
	cfg.Workers = 2

	registry := nlp.NewRegistry(fallback)

	index := rag.NewIndex()
	index.Add("Passwords are reset from the account settings page.", []float32{1, 0, 0})
	index.Add("Delivery takes three to five business days.", []float32{0, 1, 0})
	embedder := &keyedEmbedder{vectors: map[string][]float32{"password": {1, 0, 0}}}
	answerer := rag.NewAnswerer(embedder, index, "", cfg.OpenAIModel, cfg.TopK, cfg.RelevanceFloor, 5*time.Second)

	return New(&cfg, langid.NewRouter(cfg.LangConfidenceThreshold), registry, answerer)
}

func TestBuildReport_RanksSpamQuestionPositive(t *testing.T) {
	classifier := &scriptedClassifier{rules: map[string]types.Sentiment{
		"great video": {Label: types.LabelPositive, Confidence: 0.95},
		"spam":        {Label: types.LabelNeutral, Confidence: 0.6},
		"password":    {Label: types.LabelNeutral, Confidence: 0.7},
	}}
	p := testProcessor(t, classifier)

	comments := []types.Comment{
		{ID: "c1", Author: "alice", Text: "great video! really helpful"},
		{ID: "c2", Author: "bob", Text: "how do I reset my password?"},
		{ID: "c3", Author: "mallory", Text: "this is spam http://x.co buy now!!!"},
	}

	report := p.BuildReport(context.Background(), "https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ", comments)

	if len(report.Results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(report.Results))
	}
	if report.RunID == "" || report.VideoID != "dQw4w9WgXcQ" {
		t.Errorf("report metadata incomplete: %+v", report)
	}

	// spam first, answered question second, positive last
	if report.Results[0].CommentID != "c3" {
		t.Errorf("expected the spam comment ranked first, got %s (%.2f)", report.Results[0].CommentID, report.Results[0].TriageScore)
	}
	if report.Results[1].CommentID != "c2" {
		t.Errorf("expected the question ranked second, got %s", report.Results[1].CommentID)
	}
	if report.Results[2].CommentID != "c1" {
		t.Errorf("expected the positive comment ranked last, got %s", report.Results[2].CommentID)
	}

	spam := report.Results[0]
	if !spam.IsSpam || !spam.HasURL {
		t.Errorf("spam flags missing: %+v", spam)
	}
	// neutral floor 0.1 + spam 0.35 + url 0.15
	if diff := spam.TriageScore - 0.6; diff < -1e-9 || diff > 1e-9 {
		t.Errorf("expected spam score 0.6, got %v", spam.TriageScore)
	}

	question := report.Results[1]
	if !question.IsQuestion {
		t.Errorf("question comment not flagged: %+v", question)
	}
	if question.Answer == "" {
		t.Error("expected a knowledge-base answer for the password question")
	}
	if !strings.Contains(question.Answer, "account settings page") {
		t.Errorf("answer not grounded in the retrieved passage: %q", question.Answer)
	}
	if question.SuggestedResponse != question.Answer {
		t.Errorf("answered questions should suggest the answer itself")
	}

	positive := report.Results[2]
	if positive.TriageScore != 0.0 {
		t.Errorf("confident positive comment should score 0.0, got %v", positive.TriageScore)
	}
	if positive.Answer != "" {
		t.Errorf("non-questions must not get answers, got %q", positive.Answer)
	}

	stats := report.Stats
	if stats.TotalComments != 3 || stats.Questions != 1 {
		t.Errorf("unexpected stats: %+v", stats)
	}
	if stats.BySentiment[types.LabelPositive] != 1 {
		t.Errorf("sentiment counts wrong: %v", stats.BySentiment)
	}
}

func TestProcessBatch_ClassifierFailureDegradesToNeutral(t *testing.T) {
	p := testProcessor(t, &scriptedClassifier{err: errors.New("model down")})

	results := p.ProcessBatch(context.Background(), []types.Comment{
		{ID: "c1", Text: "the app keeps crashing"},
	})
	if len(results) != 1 {
		t.Fatalf("a failing model must not drop comments, got %d results", len(results))
	}
	r := results[0]
	if r.SentimentLabel != types.LabelNeutral || r.SentimentConfidence != 0.0 {
		t.Errorf("expected Neutral/0.0 on classifier failure, got %s/%v", r.SentimentLabel, r.SentimentConfidence)
	}
	if r.TriageScore <= 0 {
		t.Errorf("degraded comments still get the neutral floor, got %v", r.TriageScore)
	}
}

func TestProcessBatch_EmptyText(t *testing.T) {
	p := testProcessor(t, &scriptedClassifier{})

	results := p.ProcessBatch(context.Background(), []types.Comment{
		{ID: "c1", Text: "   \n  "},
	})
	if len(results) != 1 {
		t.Fatalf("empty comments are kept, got %d results", len(results))
	}
	r := results[0]
	if r.SentimentLabel != types.LabelNeutral || r.SentimentConfidence != 0.0 {
		t.Errorf("empty text must classify Neutral/0.0, got %s/%v", r.SentimentLabel, r.SentimentConfidence)
	}
	if r.HasProfanity || r.HasURL || r.IsQuestion || r.IsSpam {
		t.Errorf("empty text must carry no heuristic flags: %+v", r)
	}
	if r.TriageScore != 0.1 {
		t.Errorf("empty text scores the neutral floor, got %v", r.TriageScore)
	}
}

func TestProcessBatch_PreservesInputOrder(t *testing.T) {
	p := testProcessor(t, &scriptedClassifier{})

	comments := make([]types.Comment, 20)
	for i := range comments {
		comments[i] = types.Comment{ID: string(rune('a' + i)), Text: "just a comment"}
	}
	results := p.ProcessBatch(context.Background(), comments)
	for i, r := range results {
		if r.CommentID != comments[i].ID {
			t.Fatalf("result %d is for comment %s, want %s", i, r.CommentID, comments[i].ID)
		}
	}
}

func TestBuildReport_RussianComment(t *testing.T) {
	classifier := &scriptedClassifier{rules: map[string]types.Sentiment{
		"ужасн": {Label: types.LabelNegative, Confidence: 0.9},
	}}
	p := testProcessor(t, classifier)

	report := p.BuildReport(context.Background(), "https://youtu.be/abc12345678", "abc12345678", []types.Comment{
		{ID: "c1", Text: "Это просто ужасно и ничего не работает, сплошное дерьмо"},
	})

	r := report.Results[0]
	if r.Language != types.LangRussian {
		t.Errorf("expected Russian routing, got %s", r.Language)
	}
	if !r.HasProfanity {
		t.Error("expected the Russian profanity list to flag the comment")
	}
	if r.CommentType != types.TypeComplaint {
		t.Errorf("expected complaint type, got %s", r.CommentType)
	}
	// negative 0.9*0.6 + profanity 0.25
	if diff := r.TriageScore - 0.79; diff < -1e-9 || diff > 1e-9 {
		t.Errorf("expected score 0.79, got %v", r.TriageScore)
	}
	if !strings.Contains(r.SuggestedResponse, "нарушение правил сообщества") {
		t.Errorf("expected the profanity moderator response, got %q", r.SuggestedResponse)
	}
}
