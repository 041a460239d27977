package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"go-triage/config"
	"go-triage/report"
	"go-triage/youtube"

	"github.com/spf13/cobra"
)

func newReportCommand(configFlag *string) *cobra.Command {
	var urlFlag string
	var limitFlag int
	var topFlag int

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Fetch, analyze and rank the comments of a video into a CSV report",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configFlag)
			if err != nil {
				return err
			}
			if limitFlag > 0 {
				cfg.MaxComments = limitFlag
			}
			return runReport(cmd.Context(), &cfg, urlFlag, topFlag)
		},
	}

	cmd.Flags().StringVar(&urlFlag, "url", "", "Full URL of the YouTube video to process")
	cmd.Flags().IntVar(&limitFlag, "limit", 0, "Maximum number of comments to fetch (0 uses the configured default)")
	cmd.Flags().IntVar(&topFlag, "top", 10, "Number of top-ranked comments to print")
	cmd.MarkFlagRequired("url")

	return cmd
}

func runReport(ctx context.Context, cfg *config.Config, videoURL string, top int) error {
	log.Printf("--- Starting triage run for URL: %s ---", videoURL)

	videoID, err := youtube.ExtractVideoID(videoURL)
	if err != nil {
		return err
	}

	source, err := youtube.NewAPISource(ctx, cfg.YouTubeAPIKey)
	if err != nil {
		return err
	}

	log.Println("[Step 1/4] Fetching comments...")
	comments, err := source.FetchComments(ctx, videoURL, cfg.MaxComments)
	if err != nil {
		return err
	}
	if len(comments) == 0 {
		fmt.Println("No comments found for this video. Nothing to do.")
		return nil
	}
	log.Printf("Fetched %d comments.", len(comments))

	log.Println("[Step 2/4] Loading models...")
	proc, cleanup, err := loadProcessor(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	log.Println("[Step 3/4] Analyzing and ranking...")
	rep := proc.BuildReport(ctx, videoURL, videoID, comments)

	log.Println("[Step 4/4] Writing report...")
	path, err := report.WriteCSV(&rep, cfg.ReportDir)
	if err != nil {
		return err
	}

	report.PrintSummary(os.Stdout, &rep)
	report.PrintTop(os.Stdout, &rep, top)

	fmt.Printf("\nReport saved to %s\n", path)
	return nil
}
