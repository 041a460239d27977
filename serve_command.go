package main

import (
	"log"

	"go-triage/config"
	"go-triage/cronjobs"
	"go-triage/db"
	"go-triage/handlers"
	"go-triage/routes"
	"go-triage/youtube"

	"github.com/spf13/cobra"
)

func newServeCommand(configFlag *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the moderation dashboard API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configFlag)
			if err != nil {
				return err
			}

			ctx := cmd.Context()

			source, err := youtube.NewAPISource(ctx, cfg.YouTubeAPIKey)
			if err != nil {
				return err
			}

			proc, cleanup, err := loadProcessor(ctx, &cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			store, err := db.Open(cfg.DBPath)
			if err != nil {
				return err
			}
			defer store.Close()

			deps := &handlers.Deps{
				Cfg:       &cfg,
				Source:    source,
				Processor: proc,
				Store:     store,
			}

			if c := cronjobs.InitCronJobs(deps); c != nil {
				defer c.Stop()
			}

			r := routes.SetupRouter(deps)
			log.Printf("Dashboard listening on %s", cfg.ServeAddr)
			return r.Run(cfg.ServeAddr)
		},
	}
	return cmd
}
