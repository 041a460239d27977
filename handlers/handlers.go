// Package handlers implements the dashboard API. The dashboard is a thin
// sink over the same pipeline the CLI uses: analyze a video, store the run,
// and serve ranked results with server-side sorting and filtering.
package handlers

import (
	"go-triage/config"
	"go-triage/db"
	"go-triage/processor"
	"go-triage/youtube"
)

// Deps are the shared handles the handlers close over. Built once at
// startup, read-only afterwards.
type Deps struct {
	Cfg       *config.Config
	Source    youtube.Source
	Processor *processor.Processor
	Store     *db.Store
}
