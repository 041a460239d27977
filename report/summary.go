package report

import (
	"fmt"
	"io"
	"sort"

	"go-triage/types"

	"github.com/jedib0t/go-pretty/v6/table"
)

// PrintSummary writes the run's headline numbers and breakdown tables, the
// CLI equivalent of the dashboard metrics row.
func PrintSummary(w io.Writer, rep *types.RankedReport) {
	stats := rep.Stats

	fmt.Fprintln(w)
	fmt.Fprintln(w, "--- Triage Report Summary ---")
	fmt.Fprintf(w, "Total comments:  %d\n", stats.TotalComments)
	fmt.Fprintf(w, "High priority:   %d\n", stats.HighPriority)
	fmt.Fprintf(w, "Questions:       %d\n", stats.Questions)
	fmt.Fprintf(w, "Processing time: %.2fs\n", stats.ElapsedSec)

	printCounts(w, "Language", languageRows(stats.ByLanguage))
	printCounts(w, "Sentiment", sentimentRows(stats.BySentiment))
	printCounts(w, "Type", typeRows(stats.ByType))
}

// PrintTop writes the n highest-ranked comments as a table.
func PrintTop(w io.Writer, rep *types.RankedReport, n int) {
	if n > len(rep.Results) {
		n = len(rep.Results)
	}
	if n == 0 {
		return
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"score", "sentiment", "type", "author", "comment"})
	for _, r := range rep.Results[:n] {
		text := r.Text
		if len([]rune(text)) > 60 {
			text = string([]rune(text)[:57]) + "..."
		}
		tw.AppendRow(table.Row{
			fmt.Sprintf("%.2f", r.TriageScore),
			r.SentimentLabel,
			r.CommentType,
			r.Author,
			text,
		})
	}
	fmt.Fprintln(w)
	tw.Render()
}

type countRow struct {
	name  string
	count int
}

func printCounts(w io.Writer, title string, rows []countRow) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{title, "Count"})
	for _, row := range rows {
		tw.AppendRow(table.Row{row.name, row.count})
	}
	fmt.Fprintln(w)
	tw.Render()
}

func languageRows(m map[types.LanguageTag]int) []countRow {
	rows := make([]countRow, 0, len(m))
	for k, v := range m {
		rows = append(rows, countRow{string(k), v})
	}
	sortRows(rows)
	return rows
}

func sentimentRows(m map[types.Label]int) []countRow {
	rows := make([]countRow, 0, len(m))
	for k, v := range m {
		rows = append(rows, countRow{string(k), v})
	}
	sortRows(rows)
	return rows
}

func typeRows(m map[types.CommentType]int) []countRow {
	rows := make([]countRow, 0, len(m))
	for k, v := range m {
		rows = append(rows, countRow{string(k), v})
	}
	sortRows(rows)
	return rows
}

// biggest bucket first, names break ties so output is stable
func sortRows(rows []countRow) {
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].count != rows[j].count {
			return rows[i].count > rows[j].count
		}
		return rows[i].name < rows[j].name
	})
}
