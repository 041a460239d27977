package rag

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	chunkSize    = 500
	chunkOverlap = 100
	minChunkLen  = 20
)

var multiSpace = regexp.MustCompile(`\s{2,}`)

// BuildKB reads every .txt and .md file in sourceDir, chunks the combined
// text, embeds each chunk with the passage prefix, and returns the index.
// This is the offline half of the RAG setup; the pipeline only ever loads
// the result read-only.
func BuildKB(ctx context.Context, embedder Embedder, sourceDir string) (*Index, error) {
	entries, err := os.ReadDir(sourceDir)
	if err != nil {
		return nil, fmt.Errorf("reading KB source dir %s: %w", sourceDir, err)
	}

	var fullText strings.Builder
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".txt" && ext != ".md" {
			continue
		}
		data, err := os.ReadFile(filepath.Join(sourceDir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("reading KB source %s: %w", entry.Name(), err)
		}
		fullText.Write(data)
		fullText.WriteString("\n\n")
	}

	chunks := ChunkText(cleanMarkdown(fullText.String()))
	if len(chunks) == 0 {
		return nil, fmt.Errorf("no usable chunks found in %s", sourceDir)
	}
	log.Printf("Prepared %d chunks from %s", len(chunks), sourceDir)

	index := NewIndex()
	for i, chunk := range chunks {
		vec, err := embedder.Embed(ctx, PassagePrefix+chunk)
		if err != nil {
			return nil, fmt.Errorf("embedding chunk %d/%d: %w", i+1, len(chunks), err)
		}
		index.Add(chunk, vec)
		if (i+1)%10 == 0 {
			log.Printf("Embedded %d/%d chunks", i+1, len(chunks))
		}
	}
	return index, nil
}

// cleanMarkdown flattens markdown table syntax and collapses whitespace so
// the chunker sees plain prose.
func cleanMarkdown(text string) string {
	text = strings.ReplaceAll(text, "|", " ")
	text = strings.ReplaceAll(text, "---", " ")
	text = strings.ReplaceAll(text, "#", " ")
	text = strings.ReplaceAll(text, "*", " ")
	text = strings.ReplaceAll(text, "\n", " ")
	return strings.TrimSpace(multiSpace.ReplaceAllString(text, " "))
}

// ChunkText splits text into overlapping windows of roughly chunkSize
// runes, cutting on the last space inside each window so words stay whole.
// Chunks at or under minChunkLen runes are dropped.
func ChunkText(text string) []string {
	runes := []rune(text)
	var chunks []string

	start := 0
	for start < len(runes) {
		end := start + chunkSize
		if end >= len(runes) {
			end = len(runes)
		} else {
			// back up to a word boundary when one is close enough
			cut := end
			for cut > start+chunkSize/2 && runes[cut-1] != ' ' {
				cut--
			}
			if cut > start+chunkSize/2 {
				end = cut
			}
		}

		chunk := strings.TrimSpace(string(runes[start:end]))
		if utf8.RuneCountInString(chunk) > minChunkLen {
			chunks = append(chunks, chunk)
		}

		if end == len(runes) {
			break
		}
		start = end - chunkOverlap
	}
	return chunks
}
