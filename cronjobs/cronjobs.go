package cronjobs

import (
	"context"
	"log"

	"go-triage/handlers"
	"go-triage/youtube"

	"github.com/robfig/cron/v3"
)

// InitCronJobs schedules re-analysis of the configured watch URLs while the
// dashboard is up, so their reports stay fresh without anyone pressing a
// button. Returns nil when nothing is configured to watch.
func InitCronJobs(deps *handlers.Deps) *cron.Cron {
	if len(deps.Cfg.WatchURLs) == 0 {
		return nil
	}

	log.Println("Starting watch jobs -------------------------------------------------------")
	c := cron.New()

	for _, watchURL := range deps.Cfg.WatchURLs {
		url := watchURL // capture for the closure
		_, err := c.AddFunc(deps.Cfg.WatchSchedule, func() {
			log.Printf("CronJob: re-analyzing %s", url)
			analyzeWatched(deps, url)
		})
		if err != nil {
			log.Printf("Error scheduling watch for %s: %v", url, err)
		}
	}

	c.Start()
	return c
}

func analyzeWatched(deps *handlers.Deps, url string) {
	ctx := context.Background()

	videoID, err := youtube.ExtractVideoID(url)
	if err != nil {
		log.Printf("Watch job: bad URL %s: %v", url, err)
		return
	}

	comments, err := deps.Source.FetchComments(ctx, url, deps.Cfg.MaxComments)
	if err != nil {
		log.Printf("Watch job: fetching %s failed: %v", url, err)
		return
	}
	if len(comments) == 0 {
		log.Printf("Watch job: no comments for %s", url)
		return
	}

	report := deps.Processor.BuildReport(ctx, url, videoID, comments)
	if deps.Store != nil {
		if err := deps.Store.SaveReport(ctx, &report); err != nil {
			log.Printf("Watch job: persisting run %s failed: %v", report.RunID, err)
			return
		}
	}
	log.Printf("Watch job: run %s stored (%d comments, %d high priority)",
		report.RunID, report.Stats.TotalComments, report.Stats.HighPriority)
}
