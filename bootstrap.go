package main

import (
	"context"
	"fmt"
	"log"

	"go-triage/config"
	"go-triage/langid"
	"go-triage/nlp"
	"go-triage/processor"
	"go-triage/rag"
	"go-triage/types"
)

// loadProcessor builds every model handle exactly once and hands them to
// the processor. Model loading is the expensive part of startup, so both
// the CLI and the dashboard go through here before touching any comment.
// Any failure in here is a ModelUnavailable condition and aborts the run
// before processing begins.
func loadProcessor(ctx context.Context, cfg *config.Config) (*processor.Processor, func(), error) {
	log.Println("Initializing comment processor...")

	router := langid.NewRouter(cfg.LangConfidenceThreshold)

	log.Println("Connecting multilingual fallback classifier...")
	fallback, err := nlp.NewCloudClassifier(ctx)
	if err != nil {
		return nil, nil, err
	}

	registry := nlp.NewRegistry(fallback)
	for lang, model := range cfg.SentimentModels {
		log.Printf("Registering %s sentiment model: %s", lang, model.Model)
		registry.Register(types.LanguageTag(lang), nlp.NewHTTPClassifier(model.Endpoint, model.Model, cfg.CallTimeout()))
	}

	log.Printf("Loading KB index from: %s", cfg.KBIndexPath)
	index, err := rag.LoadIndex(cfg.KBIndexPath, cfg.KBChunksPath)
	if err != nil {
		fallback.Close()
		return nil, nil, err
	}
	log.Printf("KB index ready (%d passages)", index.Len())

	embedder := rag.NewOllamaEmbedder(cfg.EmbedEndpoint, cfg.EmbedModel, cfg.CallTimeout())
	if !embedder.Available() {
		fallback.Close()
		return nil, nil, fmt.Errorf("%w: embedding model %s not reachable at %s",
			types.ErrModelUnavailable, cfg.EmbedModel, cfg.EmbedEndpoint)
	}

	answerer := rag.NewAnswerer(embedder, index, cfg.OpenAIAPIKey, cfg.OpenAIModel,
		cfg.TopK, cfg.RelevanceFloor, cfg.CallTimeout())
	if cfg.OpenAIAPIKey == "" {
		log.Println("OPENAI_API_KEY not set; question answers will use retrieved passages directly")
	}

	proc := processor.New(cfg, router, registry, answerer)
	cleanup := func() { fallback.Close() }

	log.Println("Comment processor initialized, all models ready.")
	return proc, cleanup, nil
}
