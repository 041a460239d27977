package nlp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go-triage/types"
)

// HTTPClassifier calls a hosted text-classification model over plain
// HTTP/JSON, in the Hugging Face inference format: the request is
// {"inputs": text} and the response is [[{"label","score"}, ...]].
type HTTPClassifier struct {
	endpoint string
	model    string
	client   *http.Client
}

type inferenceRequest struct {
	Inputs string `json:"inputs"`
}

type inferencePrediction struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// NewHTTPClassifier builds a classifier for one inference endpoint. The
// model name only shows up in errors; the endpoint decides what runs.
func NewHTTPClassifier(endpoint, model string, timeout time.Duration) *HTTPClassifier {
	return &HTTPClassifier{
		endpoint: endpoint,
		model:    model,
		client:   &http.Client{Timeout: timeout},
	}
}

// Classify posts the text and returns the highest-scoring prediction,
// remapped onto the normalized label set.
func (h *HTTPClassifier) Classify(ctx context.Context, text string) (types.Sentiment, error) {
	var sentiment types.Sentiment

	payload, err := json.Marshal(inferenceRequest{Inputs: text})
	if err != nil {
		return sentiment, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.endpoint, bytes.NewBuffer(payload))
	if err != nil {
		return sentiment, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return sentiment, fmt.Errorf("sentiment model %s: %w", h.model, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return sentiment, errors.New("sentiment model " + h.model + " returned status: " + resp.Status)
	}

	var predictions [][]inferencePrediction
	if err := json.NewDecoder(resp.Body).Decode(&predictions); err != nil {
		return sentiment, fmt.Errorf("decoding sentiment response from %s: %w", h.model, err)
	}
	if len(predictions) == 0 || len(predictions[0]) == 0 {
		return sentiment, errors.New("sentiment model " + h.model + " returned no predictions")
	}

	best := predictions[0][0]
	for _, p := range predictions[0][1:] {
		if p.Score > best.Score {
			best = p
		}
	}

	sentiment.Label = NormalizeLabel(best.Label)
	sentiment.Confidence = best.Score
	return sentiment, nil
}
