package types

import (
	"errors"
	"time"
)

// ErrSourceUnavailable means the video page or comment feed could not be
// reached or parsed. Fatal for the whole run.
var ErrSourceUnavailable = errors.New("comment source unavailable")

// ErrModelUnavailable means a model or index failed to load at startup.
// Fatal, reported before any comment is processed.
var ErrModelUnavailable = errors.New("model unavailable")

// LanguageTag is the closed set of languages the pipeline routes on.
// Anything the identifier is unsure about falls back to Default.
type LanguageTag string

const (
	LangRussian LanguageTag = "ru"
	LangKazakh  LanguageTag = "kk"
	LangDefault LanguageTag = "default"
)

// Label is a normalized sentiment label. Raw model outputs (LABEL_0,
// NEGATIVE, NEG, ...) are remapped onto this set before anything downstream
// sees them.
type Label string

const (
	LabelPositive Label = "Positive"
	LabelNegative Label = "Negative"
	LabelNeutral  Label = "Neutral"
)

// Sentiment is a normalized classifier output.
type Sentiment struct {
	Label      Label   `json:"label"`
	Confidence float64 `json:"confidence"`
}

// CommentType is the keyword-based category of a comment.
type CommentType string

const (
	TypeComplaint CommentType = "complaint"
	TypeGratitude CommentType = "gratitude"
	TypeQuestion  CommentType = "question"
	TypeFeedback  CommentType = "feedback"
	TypeOther     CommentType = "other"
)

// Comment is a raw comment as fetched from the source. Never mutated after
// creation; identity is the source-provided ID, or the fetch index when the
// source supplies none.
type Comment struct {
	ID        string    `json:"id"`
	Author    string    `json:"author"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
	LikeCount int64     `json:"like_count"`
}

// AnalysisResult is the enriched record produced for every comment. Exactly
// one per Comment, immutable once the processor emits it.
type AnalysisResult struct {
	CommentID           string      `json:"comment_id"`
	Author              string      `json:"author"`
	Text                string      `json:"text"`
	Timestamp           time.Time   `json:"timestamp"`
	LikeCount           int64       `json:"like_count"`
	Language            LanguageTag `json:"language"`
	SentimentLabel      Label       `json:"sentiment_label"`
	SentimentConfidence float64     `json:"sentiment_confidence"`
	HasProfanity        bool        `json:"has_profanity"`
	HasURL              bool        `json:"has_url"`
	IsQuestion          bool        `json:"is_question"`
	IsSpam              bool        `json:"is_spam"`
	CommentType         CommentType `json:"comment_type"`
	// Answer is only ever non-empty when IsQuestion is true, and may still
	// be empty when retrieval finds nothing relevant enough.
	Answer            string         `json:"answer,omitempty"`
	TriageScore       float64        `json:"triage_score"`
	ScoreExplanation  []Contribution `json:"score_explanation"`
	SuggestedResponse string         `json:"suggested_response"`
}

// Contribution is one non-zero term of the triage score, kept so a moderator
// can reconstruct why a comment was ranked where it was.
type Contribution struct {
	Signal string  `json:"signal"`
	Value  float64 `json:"value"`
}

// ReportStats are the headline numbers shown above a report.
type ReportStats struct {
	TotalComments int                 `json:"total_comments"`
	HighPriority  int                 `json:"high_priority"`
	Questions     int                 `json:"questions"`
	ByLanguage    map[LanguageTag]int `json:"by_language"`
	BySentiment   map[Label]int       `json:"by_sentiment"`
	ByType        map[CommentType]int `json:"by_type"`
	ElapsedSec    float64             `json:"elapsed_sec"`
}

// RankedReport is the final output of one pipeline run: every result, sorted
// by triage score descending with the original comment order preserved on
// ties.
type RankedReport struct {
	RunID     string           `json:"run_id"`
	VideoURL  string           `json:"video_url"`
	VideoID   string           `json:"video_id"`
	CreatedAt time.Time        `json:"created_at"`
	Results   []AnalysisResult `json:"results"`
	Stats     ReportStats      `json:"stats"`
}
