package rag

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"go-triage/types"

	"github.com/sashabaranov/go-openai"
)

// Per-language wrappers for the retrieval-only fallback, shown when no
// generation backend is configured. The default path uses the Russian
// template, same as the rest of the product copy.
var answerTemplates = map[types.LanguageTag]string{
	types.LangRussian: "Похоже, вы задали вопрос. Вот информация, которая может быть полезна:\n\n---\n%s\n---",
	types.LangKazakh:  "Сіз сұрақ қойған сияқтысыз. Міне, пайдалы болуы мүмкін ақпарат:\n\n---\n%s\n---",
}

// Answerer resolves question comments against the knowledge base. It only
// generates when retrieval found something relevant enough; out-of-domain
// questions get an empty answer instead of a hallucinated one.
type Answerer struct {
	embedder       Embedder
	index          *Index
	client         *openai.Client // nil disables generation
	model          string
	topK           int
	relevanceFloor float64
	timeout        time.Duration
}

// NewAnswerer wires the retrieval stack together. apiKey may be empty, in
// which case answers fall back to templated retrieval output.
func NewAnswerer(embedder Embedder, index *Index, apiKey, model string, topK int, relevanceFloor float64, timeout time.Duration) *Answerer {
	a := &Answerer{
		embedder:       embedder,
		index:          index,
		model:          model,
		topK:           topK,
		relevanceFloor: relevanceFloor,
		timeout:        timeout,
	}
	if apiKey != "" {
		a.client = openai.NewClient(apiKey)
	}
	return a
}

// Answer embeds the question, retrieves the nearest passages, and produces
// an answer grounded in them. Returns "" when nothing clears the relevance
// floor. Errors here are per-comment conditions; the caller degrades them
// to "no answer".
func (a *Answerer) Answer(ctx context.Context, question string, lang types.LanguageTag) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	vec, err := a.embedder.Embed(ctx, QueryPrefix+question)
	if err != nil {
		return "", fmt.Errorf("embedding question: %w", err)
	}

	hits := a.index.Search(vec, a.topK)
	if len(hits) == 0 || hits[0].Similarity < a.relevanceFloor {
		return "", nil
	}

	var passages []string
	for _, hit := range hits {
		if hit.Similarity >= a.relevanceFloor {
			passages = append(passages, hit.Passage)
		}
	}

	if a.client == nil {
		return a.templated(passages[0], lang), nil
	}

	answer, err := a.generate(ctx, question, passages)
	if err != nil {
		// generation is optional polish; retrieval already succeeded
		log.Printf("Warning: generation failed, falling back to retrieved passage: %v", err)
		return a.templated(passages[0], lang), nil
	}
	return answer, nil
}

func (a *Answerer) templated(passage string, lang types.LanguageTag) string {
	template, ok := answerTemplates[lang]
	if !ok {
		template = answerTemplates[types.LangRussian]
	}
	return fmt.Sprintf(template, passage)
}

func (a *Answerer) generate(ctx context.Context, question string, passages []string) (string, error) {
	prompt := fmt.Sprintf("Answer the user's question using ONLY the reference passages below. Answer in the language of the question, in 2-3 sentences. If the passages do not contain the answer, say you don't have that information.\n\nReference passages:\n---\n%s\n---\n\nQuestion: %s\n\nAnswer:",
		strings.Join(passages, "\n---\n"), question)

	resp, err := a.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: a.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleSystem,
					Content: "You are a support assistant that answers customer questions strictly from the provided company knowledge base passages.",
				},
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			MaxTokens:   200,
			N:           1,
			Temperature: 0.3,
		},
	)
	if err != nil {
		return "", fmt.Errorf("openai chat completion error: %w", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("openai returned empty response or choices")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
