package main

import (
	"fmt"
	"log"

	"go-triage/config"
	"go-triage/rag"
	"go-triage/types"

	"github.com/spf13/cobra"
)

func newBuildKBCommand(configFlag *string) *cobra.Command {
	var sourceFlag string

	cmd := &cobra.Command{
		Use:   "buildkb",
		Short: "Build the knowledge-base vector index from the source documents",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configFlag)
			if err != nil {
				return err
			}
			if sourceFlag != "" {
				cfg.KBSourceDir = sourceFlag
			}

			ctx := cmd.Context()

			embedder := rag.NewOllamaEmbedder(cfg.EmbedEndpoint, cfg.EmbedModel, cfg.CallTimeout())
			if !embedder.Available() {
				return fmt.Errorf("%w: embedding model %s not reachable at %s",
					types.ErrModelUnavailable, cfg.EmbedModel, cfg.EmbedEndpoint)
			}

			log.Printf("--- Building knowledge base from %s ---", cfg.KBSourceDir)
			index, err := rag.BuildKB(ctx, embedder, cfg.KBSourceDir)
			if err != nil {
				return err
			}

			if err := index.Save(cfg.KBIndexPath, cfg.KBChunksPath); err != nil {
				return err
			}
			log.Printf("Knowledge base build complete: %d passages indexed.", index.Len())
			fmt.Printf("Index written to %s, chunks to %s\n", cfg.KBIndexPath, cfg.KBChunksPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&sourceFlag, "source", "", "Directory of .txt/.md knowledge base documents")

	return cmd
}
