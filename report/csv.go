// Package report renders a ranked report to its sinks: the CSV file for
// offline review and the summary tables the CLI prints.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"go-triage/types"
)

// Column order is part of the report contract; moderators read these files
// left to right, most useful column first.
var csvHeader = []string{
	"triage_score",
	"suggested_response",
	"text",
	"language",
	"sentiment_label",
	"sentiment_score",
	"comment_type",
	"has_profanity",
	"is_spam",
	"is_question",
	"answer",
	"cid",
	"author",
	"time",
	"like_count",
}

// Filename builds the report file name for a run:
// report_<videoID>_<YYYYMMDD_HHMMSS>.csv. The timestamp keeps repeated runs
// on the same video from overwriting each other.
func Filename(videoID string, at time.Time) string {
	if videoID == "" {
		videoID = "unknown_video"
	}
	return fmt.Sprintf("report_%s_%s.csv", videoID, at.Format("20060102_150405"))
}

// WriteCSV writes the ranked report to outputDir, creating the directory if
// needed, and returns the full path of the file written. Rows come out in
// the report's ranked order.
func WriteCSV(rep *types.RankedReport, outputDir string) (string, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", fmt.Errorf("creating report directory %s: %w", outputDir, err)
	}

	path := filepath.Join(outputDir, Filename(rep.VideoID, rep.CreatedAt))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating report file: %w", err)
	}
	defer f.Close()

	if err := StreamCSV(f, rep); err != nil {
		return "", err
	}
	return path, nil
}

// StreamCSV writes the report rows to any writer; the dashboard export
// endpoint streams through this directly.
func StreamCSV(out io.Writer, rep *types.RankedReport) error {
	w := csv.NewWriter(out)
	if err := w.Write(csvHeader); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	for i := range rep.Results {
		if err := w.Write(csvRow(&rep.Results[i])); err != nil {
			return fmt.Errorf("writing CSV row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flushing CSV: %w", err)
	}
	return nil
}

func csvRow(r *types.AnalysisResult) []string {
	ts := ""
	if !r.Timestamp.IsZero() {
		ts = r.Timestamp.Format(time.RFC3339)
	}
	return []string{
		strconv.FormatFloat(r.TriageScore, 'f', 4, 64),
		r.SuggestedResponse,
		r.Text,
		string(r.Language),
		string(r.SentimentLabel),
		strconv.FormatFloat(r.SentimentConfidence, 'f', 4, 64),
		string(r.CommentType),
		strconv.FormatBool(r.HasProfanity),
		strconv.FormatBool(r.IsSpam),
		strconv.FormatBool(r.IsQuestion),
		r.Answer,
		r.CommentID,
		r.Author,
		ts,
		strconv.FormatInt(r.LikeCount, 10),
	}
}
