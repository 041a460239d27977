// Package db persists pipeline runs so the dashboard can list and re-serve
// past reports without re-analyzing a video.
package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"go-triage/types"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id            TEXT PRIMARY KEY,
	video_url     TEXT NOT NULL,
	video_id      TEXT NOT NULL,
	created_at    TEXT NOT NULL,
	total         INTEGER NOT NULL,
	high_priority INTEGER NOT NULL,
	questions     INTEGER NOT NULL,
	elapsed_sec   REAL NOT NULL
);

CREATE TABLE IF NOT EXISTS results (
	run_id               TEXT NOT NULL,
	position             INTEGER NOT NULL,
	comment_id           TEXT NOT NULL,
	author               TEXT NOT NULL,
	text                 TEXT NOT NULL,
	timestamp            TEXT NOT NULL,
	like_count           INTEGER NOT NULL,
	language             TEXT NOT NULL,
	sentiment_label      TEXT NOT NULL,
	sentiment_confidence REAL NOT NULL,
	has_profanity        INTEGER NOT NULL,
	has_url              INTEGER NOT NULL,
	is_question          INTEGER NOT NULL,
	is_spam              INTEGER NOT NULL,
	comment_type         TEXT NOT NULL,
	answer               TEXT NOT NULL,
	triage_score         REAL NOT NULL,
	explanation          TEXT NOT NULL,
	suggested_response   TEXT NOT NULL,
	PRIMARY KEY (run_id, position),
	FOREIGN KEY (run_id) REFERENCES runs(id) ON DELETE CASCADE
);
`

// RunSummary is one row of the run listing.
type RunSummary struct {
	ID           string    `json:"id"`
	VideoURL     string    `json:"video_url"`
	VideoID      string    `json:"video_id"`
	CreatedAt    time.Time `json:"created_at"`
	Total        int       `json:"total"`
	HighPriority int       `json:"high_priority"`
	Questions    int       `json:"questions"`
}

// Store wraps the sqlite database.
type Store struct {
	sqldb *sql.DB
}

// Open opens (or creates) the database at path and applies the schema.
func Open(path string) (*Store, error) {
	sqldb, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database %s: %w", path, err)
	}
	if _, err := sqldb.Exec("PRAGMA journal_mode=WAL; PRAGMA foreign_keys=ON;"); err != nil {
		sqldb.Close()
		return nil, fmt.Errorf("setting pragmas: %w", err)
	}
	if _, err := sqldb.Exec(schema); err != nil {
		sqldb.Close()
		return nil, fmt.Errorf("applying schema: %w", err)
	}
	return &Store{sqldb: sqldb}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.sqldb.Close()
}

// SaveReport stores a run and all of its results in one transaction. The
// result positions record the ranked order.
func (s *Store) SaveReport(ctx context.Context, rep *types.RankedReport) error {
	tx, err := s.sqldb.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, video_url, video_id, created_at, total, high_priority, questions, elapsed_sec)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rep.RunID, rep.VideoURL, rep.VideoID, rep.CreatedAt.Format(time.RFC3339),
		rep.Stats.TotalComments, rep.Stats.HighPriority, rep.Stats.Questions, rep.Stats.ElapsedSec)
	if err != nil {
		return fmt.Errorf("inserting run %s: %w", rep.RunID, err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO results (run_id, position, comment_id, author, text, timestamp, like_count,
		 language, sentiment_label, sentiment_confidence, has_profanity, has_url, is_question,
		 is_spam, comment_type, answer, triage_score, explanation, suggested_response)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing result insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range rep.Results {
		explanation, err := json.Marshal(r.ScoreExplanation)
		if err != nil {
			return fmt.Errorf("marshaling explanation: %w", err)
		}
		_, err = stmt.ExecContext(ctx,
			rep.RunID, i, r.CommentID, r.Author, r.Text, r.Timestamp.Format(time.RFC3339), r.LikeCount,
			string(r.Language), string(r.SentimentLabel), r.SentimentConfidence,
			boolInt(r.HasProfanity), boolInt(r.HasURL), boolInt(r.IsQuestion), boolInt(r.IsSpam),
			string(r.CommentType), r.Answer, r.TriageScore, string(explanation), r.SuggestedResponse)
		if err != nil {
			return fmt.Errorf("inserting result %d of run %s: %w", i, rep.RunID, err)
		}
	}

	return tx.Commit()
}

// ListRuns returns run summaries, newest first.
func (s *Store) ListRuns(ctx context.Context) ([]RunSummary, error) {
	rows, err := s.sqldb.QueryContext(ctx,
		`SELECT id, video_url, video_id, created_at, total, high_priority, questions
		 FROM runs ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var runs []RunSummary
	for rows.Next() {
		var run RunSummary
		var createdAt string
		if err := rows.Scan(&run.ID, &run.VideoURL, &run.VideoID, &createdAt,
			&run.Total, &run.HighPriority, &run.Questions); err != nil {
			return nil, fmt.Errorf("scanning run row: %w", err)
		}
		run.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// GetReport reloads a stored run as a full RankedReport. Returns
// sql.ErrNoRows when the run id is unknown.
func (s *Store) GetReport(ctx context.Context, runID string) (*types.RankedReport, error) {
	rep := &types.RankedReport{RunID: runID}

	var createdAt string
	err := s.sqldb.QueryRowContext(ctx,
		`SELECT video_url, video_id, created_at, total, high_priority, questions, elapsed_sec
		 FROM runs WHERE id = ?`, runID).
		Scan(&rep.VideoURL, &rep.VideoID, &createdAt,
			&rep.Stats.TotalComments, &rep.Stats.HighPriority, &rep.Stats.Questions, &rep.Stats.ElapsedSec)
	if err != nil {
		return nil, err
	}
	rep.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)

	rows, err := s.sqldb.QueryContext(ctx,
		`SELECT comment_id, author, text, timestamp, like_count, language, sentiment_label,
		 sentiment_confidence, has_profanity, has_url, is_question, is_spam, comment_type,
		 answer, triage_score, explanation, suggested_response
		 FROM results WHERE run_id = ? ORDER BY position`, runID)
	if err != nil {
		return nil, fmt.Errorf("loading results of run %s: %w", runID, err)
	}
	defer rows.Close()

	rep.Stats.ByLanguage = make(map[types.LanguageTag]int)
	rep.Stats.BySentiment = make(map[types.Label]int)
	rep.Stats.ByType = make(map[types.CommentType]int)

	for rows.Next() {
		var r types.AnalysisResult
		var ts, lang, label, ctype, explanation string
		var profanity, url, question, spam int
		if err := rows.Scan(&r.CommentID, &r.Author, &r.Text, &ts, &r.LikeCount, &lang, &label,
			&r.SentimentConfidence, &profanity, &url, &question, &spam, &ctype,
			&r.Answer, &r.TriageScore, &explanation, &r.SuggestedResponse); err != nil {
			return nil, fmt.Errorf("scanning result row: %w", err)
		}
		r.Timestamp, _ = time.Parse(time.RFC3339, ts)
		r.Language = types.LanguageTag(lang)
		r.SentimentLabel = types.Label(label)
		r.CommentType = types.CommentType(ctype)
		r.HasProfanity = profanity != 0
		r.HasURL = url != 0
		r.IsQuestion = question != 0
		r.IsSpam = spam != 0
		if err := json.Unmarshal([]byte(explanation), &r.ScoreExplanation); err != nil {
			r.ScoreExplanation = nil
		}

		rep.Stats.ByLanguage[r.Language]++
		rep.Stats.BySentiment[r.SentimentLabel]++
		rep.Stats.ByType[r.CommentType]++
		rep.Results = append(rep.Results, r)
	}
	return rep, rows.Err()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
