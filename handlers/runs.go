package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"sort"
	"strconv"

	"go-triage/report"
	"go-triage/types"

	"github.com/gin-gonic/gin"
)

// ListRunsHandler returns past runs, newest first.
func ListRunsHandler(c *gin.Context, deps *Deps) {
	runs, err := deps.Store.ListRuns(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"runs": runs})
}

// GetRunHandler serves one stored report. Query parameters make the
// dashboard table sortable and filterable server-side:
//
//	sort=score|time|likes   row order (score is the ranked default)
//	language=ru|kk|default  only that language
//	sentiment=Negative|...  only that sentiment label
//	questions=true          only question comments
//	min_score=0.5           only rows at or above the score
func GetRunHandler(c *gin.Context, deps *Deps) {
	rep, err := deps.Store.GetReport(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "run not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	results := filterResults(rep.Results, c)

	switch c.Query("sort") {
	case "", "score":
		// already in ranked order
	case "time":
		sort.SliceStable(results, func(i, j int) bool {
			return results[i].Timestamp.After(results[j].Timestamp)
		})
	case "likes":
		sort.SliceStable(results, func(i, j int) bool {
			return results[i].LikeCount > results[j].LikeCount
		})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "sort must be one of score, time, likes"})
		return
	}

	rep.Results = results
	c.JSON(http.StatusOK, rep)
}

// ExportRunHandler streams a stored report as the CSV the CLI would have
// written.
func ExportRunHandler(c *gin.Context, deps *Deps) {
	rep, err := deps.Store.GetReport(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "run not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+report.Filename(rep.VideoID, rep.CreatedAt))
	c.Header("Content-Type", "text/csv; charset=utf-8")
	if err := report.StreamCSV(c.Writer, rep); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func filterResults(results []types.AnalysisResult, c *gin.Context) []types.AnalysisResult {
	filtered := make([]types.AnalysisResult, 0, len(results))

	language := c.Query("language")
	sentiment := c.Query("sentiment")
	questionsOnly := c.Query("questions") == "true"
	minScore := 0.0
	if v := c.Query("min_score"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			minScore = parsed
		}
	}

	for _, r := range results {
		if language != "" && string(r.Language) != language {
			continue
		}
		if sentiment != "" && string(r.SentimentLabel) != sentiment {
			continue
		}
		if questionsOnly && !r.IsQuestion {
			continue
		}
		if r.TriageScore < minScore {
			continue
		}
		filtered = append(filtered, r)
	}
	return filtered
}
