// Package processor sequences the analysis pipeline over a batch of
// comments and assembles the ranked report. The failure policy is strict:
// a comment is never dropped, because a comment silently missing from
// moderation is worse than a mis-scored one.
package processor

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"go-triage/config"
	"go-triage/heuristics"
	"go-triage/langid"
	"go-triage/nlp"
	"go-triage/rag"
	"go-triage/triage"
	"go-triage/types"

	"github.com/google/uuid"
)

// Processor owns the loaded model handles. Built once at startup and shared
// read-only across all workers; nothing in here mutates after New.
type Processor struct {
	cfg      *config.Config
	router   *langid.Router
	registry *nlp.Registry
	answerer *rag.Answerer
}

// New wires a processor from already-loaded handles.
func New(cfg *config.Config, router *langid.Router, registry *nlp.Registry, answerer *rag.Answerer) *Processor {
	return &Processor{
		cfg:      cfg,
		router:   router,
		registry: registry,
		answerer: answerer,
	}
}

// ProcessBatch runs the full pipeline over every comment with a bounded
// worker pool and returns one result per comment, in input order. Comment
// processing is independent, so order of execution does not matter; the
// ranking step later is the only ordering guarantee.
func (p *Processor) ProcessBatch(ctx context.Context, comments []types.Comment) []types.AnalysisResult {
	results := make([]types.AnalysisResult, len(comments))

	sem := make(chan struct{}, p.cfg.Workers)
	var wg sync.WaitGroup
	for i := range comments {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			results[idx] = p.analyzeOne(ctx, comments[idx])
		}(i)
	}
	wg.Wait()

	return results
}

// BuildReport fetches nothing itself; it processes the given comments,
// ranks them, and attaches the run stats.
func (p *Processor) BuildReport(ctx context.Context, videoURL, videoID string, comments []types.Comment) types.RankedReport {
	start := time.Now()

	results := p.ProcessBatch(ctx, comments)
	triage.Rank(results)

	report := types.RankedReport{
		RunID:     uuid.NewString(),
		VideoURL:  videoURL,
		VideoID:   videoID,
		CreatedAt: time.Now().UTC(),
		Results:   results,
		Stats:     p.buildStats(results, time.Since(start)),
	}
	return report
}

// analyzeOne walks one comment through every pipeline stage. Model failures
// degrade to safe defaults and are logged; they never abort the batch.
func (p *Processor) analyzeOne(ctx context.Context, comment types.Comment) types.AnalysisResult {
	text := strings.TrimSpace(strings.ReplaceAll(comment.Text, "\n", " "))

	lang := p.router.Route(text)

	callCtx, cancel := context.WithTimeout(ctx, p.cfg.CallTimeout())
	sentiment, err := p.registry.Classify(callCtx, text, lang)
	cancel()
	if err != nil {
		log.Printf("Warning: sentiment failed for comment %s (%.30q): %v", comment.ID, text, err)
		sentiment = types.Sentiment{Label: types.LabelNeutral, Confidence: 0.0}
	}

	signals := heuristics.Extract(text, heuristics.Options{
		Profanity:        p.cfg.ProfanityFor(lang),
		QuestionPrefixes: p.cfg.QuestionPrefixesFor(lang),
		SpamMaxLength:    p.cfg.SpamMaxLength,
		AllCapsRatio:     p.cfg.AllCapsRatio,
	})
	commentType := heuristics.ClassifyType(text, lang, signals.IsQuestion)

	answer := ""
	if signals.IsQuestion && p.answerer != nil {
		answer, err = p.answerer.Answer(ctx, text, lang)
		if err != nil {
			// timeout or retrieval failure means "no answer found"
			log.Printf("Warning: answering failed for comment %s: %v", comment.ID, err)
			answer = ""
		}
	}

	score, explanation := triage.Score(sentiment, signals, p.cfg.Weights)

	result := types.AnalysisResult{
		CommentID:           comment.ID,
		Author:              comment.Author,
		Text:                text,
		Timestamp:           comment.Timestamp,
		LikeCount:           comment.LikeCount,
		Language:            lang,
		SentimentLabel:      sentiment.Label,
		SentimentConfidence: sentiment.Confidence,
		HasProfanity:        signals.HasProfanity,
		HasURL:              signals.HasURL,
		IsQuestion:          signals.IsQuestion,
		IsSpam:              signals.IsSpam,
		CommentType:         commentType,
		Answer:              answer,
		TriageScore:         score,
		ScoreExplanation:    explanation,
	}
	result.SuggestedResponse = triage.SuggestedResponse(&result)
	return result
}

func (p *Processor) buildStats(results []types.AnalysisResult, elapsed time.Duration) types.ReportStats {
	stats := types.ReportStats{
		TotalComments: len(results),
		ByLanguage:    make(map[types.LanguageTag]int),
		BySentiment:   make(map[types.Label]int),
		ByType:        make(map[types.CommentType]int),
		ElapsedSec:    elapsed.Seconds(),
	}
	for _, r := range results {
		stats.ByLanguage[r.Language]++
		stats.BySentiment[r.SentimentLabel]++
		stats.ByType[r.CommentType]++
		if r.TriageScore > p.cfg.HighPriorityThreshold {
			stats.HighPriority++
		}
		if r.IsQuestion {
			stats.Questions++
		}
	}
	return stats
}
