// Package triage turns the per-comment signals into a single 0.0-1.0
// urgency score and a ranked report. The scorer is a plain weighted sum on
// purpose: a moderator has to be able to reconstruct any score from its
// explanation, which rules out anything learned.
package triage

import (
	"sort"

	"go-triage/config"
	"go-triage/heuristics"
	"go-triage/types"
)

// Signal names used in score explanations.
const (
	SignalSentiment = "sentiment"
	SignalProfanity = "profanity"
	SignalSpam      = "spam"
	SignalURL       = "url"
)

// Score combines sentiment and heuristic flags into a triage score plus its
// explanation. Pure function: identical inputs always produce identical
// output.
//
// Negative sentiment contributes confidence * W_sentiment, Neutral
// contributes the configured floor so no comment is fully suppressed, and
// Positive contributes nothing. Each true flag adds its weight once; a URL
// inside a genuine question is not penalized. The sum saturates at 1.0.
func Score(sentiment types.Sentiment, signals heuristics.Signals, w config.Weights) (float64, []types.Contribution) {
	var contributions []types.Contribution

	switch sentiment.Label {
	case types.LabelNegative:
		if c := sentiment.Confidence * w.Sentiment; c > 0 {
			contributions = append(contributions, types.Contribution{Signal: SignalSentiment, Value: c})
		}
	case types.LabelNeutral:
		if w.NeutralFloor > 0 {
			contributions = append(contributions, types.Contribution{Signal: SignalSentiment, Value: w.NeutralFloor})
		}
	case types.LabelPositive:
		// contributes nothing
	}

	if signals.HasProfanity && w.Profanity > 0 {
		contributions = append(contributions, types.Contribution{Signal: SignalProfanity, Value: w.Profanity})
	}
	if signals.IsSpam && w.Spam > 0 {
		contributions = append(contributions, types.Contribution{Signal: SignalSpam, Value: w.Spam})
	}
	if signals.HasURL && !signals.IsQuestion && w.URL > 0 {
		contributions = append(contributions, types.Contribution{Signal: SignalURL, Value: w.URL})
	}

	score := 0.0
	for _, c := range contributions {
		score += c.Value
	}
	if score > 1.0 {
		score = 1.0
	}
	if score < 0.0 {
		score = 0.0
	}

	// largest contribution first; ties broken by name to stay deterministic
	sort.SliceStable(contributions, func(i, j int) bool {
		if contributions[i].Value != contributions[j].Value {
			return contributions[i].Value > contributions[j].Value
		}
		return contributions[i].Signal < contributions[j].Signal
	})

	return score, contributions
}

// Rank sorts results by triage score descending. The sort is stable, so
// comments with equal scores keep their original arrival order and reports
// stay reproducible.
func Rank(results []types.AnalysisResult) {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].TriageScore > results[j].TriageScore
	})
}
