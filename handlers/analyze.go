package handlers

import (
	"errors"
	"log"
	"net/http"

	"go-triage/types"
	"go-triage/youtube"

	"github.com/gin-gonic/gin"
)

// AnalyzeHandler runs the full pipeline for a video URL and returns the
// ranked report. The run is persisted so it shows up in the run listing.
func AnalyzeHandler(c *gin.Context, deps *Deps) {
	var request struct {
		URL string `json:"url" binding:"required"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "url is required"})
		return
	}

	videoID, err := youtube.ExtractVideoID(request.URL)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	comments, err := deps.Source.FetchComments(ctx, request.URL, deps.Cfg.MaxComments)
	if err != nil {
		if errors.Is(err, types.ErrSourceUnavailable) {
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if len(comments) == 0 {
		c.JSON(http.StatusOK, gin.H{"message": "no comments found", "video_id": videoID})
		return
	}

	report := deps.Processor.BuildReport(ctx, request.URL, videoID, comments)

	if deps.Store != nil {
		if err := deps.Store.SaveReport(ctx, &report); err != nil {
			// the analysis still succeeded; history is best-effort
			log.Printf("Warning: failed to persist run %s: %v", report.RunID, err)
		}
	}

	c.JSON(http.StatusOK, report)
}
