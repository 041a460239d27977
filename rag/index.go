package rag

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go-triage/types"

	"github.com/coder/hnsw"
)

// Hit is one retrieved passage with its similarity to the query, where 1.0
// means identical direction and 0.0 means opposite.
type Hit struct {
	Passage    string
	Similarity float64
}

// Index is the knowledge-base vector index: an HNSW graph over passage
// embeddings plus the original chunk texts, addressed by chunk number.
// Read-only after load; safe to share across workers.
type Index struct {
	graph  *hnsw.Graph[int]
	chunks []string
}

func newGraph() *hnsw.Graph[int] {
	g := hnsw.NewGraph[int]()
	g.Distance = hnsw.CosineDistance
	g.M = 16
	g.EfSearch = 32
	return g
}

// NewIndex creates an empty index ready for Add calls.
func NewIndex() *Index {
	return &Index{graph: newGraph()}
}

// Add appends a chunk and its passage embedding to the index.
func (ix *Index) Add(chunk string, vec []float32) {
	id := len(ix.chunks)
	ix.chunks = append(ix.chunks, chunk)
	ix.graph.Add(hnsw.MakeNode(id, vec))
}

// Len reports how many passages are indexed.
func (ix *Index) Len() int {
	return len(ix.chunks)
}

// Search returns up to k passages nearest to the query vector, most similar
// first. CosineDistance runs 0..2, so similarity is 1 - distance/2.
func (ix *Index) Search(vec []float32, k int) []Hit {
	if ix.graph.Len() == 0 || k <= 0 {
		return nil
	}

	neighbors := ix.graph.Search(vec, k)
	hits := make([]Hit, 0, len(neighbors))
	for _, n := range neighbors {
		if len(n.Value) != len(vec) {
			continue
		}
		if n.Key < 0 || n.Key >= len(ix.chunks) {
			continue
		}
		dist := hnsw.CosineDistance(vec, n.Value)
		hits = append(hits, Hit{
			Passage:    ix.chunks[n.Key],
			Similarity: 1.0 - float64(dist)/2.0,
		})
	}
	return hits
}

// Save writes the graph and the chunk sidecar next to each other, creating
// parent directories as needed.
func (ix *Index) Save(indexPath, chunksPath string) error {
	if err := os.MkdirAll(filepath.Dir(indexPath), 0755); err != nil {
		return fmt.Errorf("creating index directory: %w", err)
	}

	f, err := os.Create(indexPath)
	if err != nil {
		return fmt.Errorf("creating index file: %w", err)
	}
	defer f.Close()
	if err := ix.graph.Export(f); err != nil {
		return fmt.Errorf("exporting index: %w", err)
	}

	data, err := json.MarshalIndent(ix.chunks, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling chunks: %w", err)
	}
	if err := os.WriteFile(chunksPath, data, 0644); err != nil {
		return fmt.Errorf("writing chunks file: %w", err)
	}
	return nil
}

// LoadIndex reads a previously built index. The index is built offline by
// the buildkb command, so a missing or unreadable file at startup is a
// ModelUnavailable condition.
func LoadIndex(indexPath, chunksPath string) (*Index, error) {
	f, err := os.Open(indexPath)
	if err != nil {
		return nil, fmt.Errorf("%w: opening KB index %s: %v", types.ErrModelUnavailable, indexPath, err)
	}
	defer f.Close()

	g := newGraph()
	if err := g.Import(bufio.NewReader(f)); err != nil {
		return nil, fmt.Errorf("%w: importing KB index %s: %v", types.ErrModelUnavailable, indexPath, err)
	}

	data, err := os.ReadFile(chunksPath)
	if err != nil {
		return nil, fmt.Errorf("%w: reading KB chunks %s: %v", types.ErrModelUnavailable, chunksPath, err)
	}
	var chunks []string
	if err := json.Unmarshal(data, &chunks); err != nil {
		return nil, fmt.Errorf("%w: parsing KB chunks %s: %v", types.ErrModelUnavailable, chunksPath, err)
	}

	return &Index{graph: g, chunks: chunks}, nil
}
