package nlp

import (
	"context"
	"encoding/base64"
	"fmt"
	"math"
	"os"

	"go-triage/types"

	language "cloud.google.com/go/language/apiv2"
	"cloud.google.com/go/language/apiv2/languagepb"
	"google.golang.org/api/option"
)

// Document score above this counts as Positive, below the negation as
// Negative. Cloud NL scores run from -1.0 to 1.0.
const cloudPolarityThreshold = 0.25

// CloudClassifier is the generic multilingual fallback, backed by the Cloud
// Natural Language API. Languages without a specialist model land here.
type CloudClassifier struct {
	client *language.Client
}

// NewCloudClassifier creates the Natural Language API client from the
// base64 credentials in NATURAL_LANGUAGE_CREDENTIALS. A load failure here is
// fatal for the run, so it is wrapped in ErrModelUnavailable.
func NewCloudClassifier(ctx context.Context) (*CloudClassifier, error) {
	encodedCreds := os.Getenv("NATURAL_LANGUAGE_CREDENTIALS")
	if encodedCreds == "" {
		return nil, fmt.Errorf("%w: NATURAL_LANGUAGE_CREDENTIALS is not set", types.ErrModelUnavailable)
	}

	creds, err := base64.StdEncoding.DecodeString(encodedCreds)
	if err != nil {
		return nil, fmt.Errorf("%w: decoding Natural Language credentials: %v", types.ErrModelUnavailable, err)
	}

	client, err := language.NewClient(ctx, option.WithCredentialsJSON(creds))
	if err != nil {
		return nil, fmt.Errorf("%w: creating Natural Language client: %v", types.ErrModelUnavailable, err)
	}

	return &CloudClassifier{client: client}, nil
}

// Classify runs AnalyzeSentiment and folds the score/magnitude pair into a
// label plus confidence.
func (c *CloudClassifier) Classify(ctx context.Context, text string) (types.Sentiment, error) {
	var sentiment types.Sentiment

	req := &languagepb.AnalyzeSentimentRequest{
		Document: &languagepb.Document{
			Source: &languagepb.Document_Content{
				Content: text,
			},
			Type: languagepb.Document_PLAIN_TEXT,
		},
		EncodingType: languagepb.EncodingType_UTF8,
	}

	resp, err := c.client.AnalyzeSentiment(ctx, req)
	if err != nil {
		return sentiment, fmt.Errorf("AnalyzeSentiment request error: %w", err)
	}

	return sentimentFromScore(float64(resp.DocumentSentiment.Score)), nil
}

// Close releases the underlying API client.
func (c *CloudClassifier) Close() {
	if c.client != nil {
		c.client.Close()
	}
}

// sentimentFromScore maps a [-1,1] polarity score onto the label set. The
// confidence for Positive/Negative is how far the score sits from zero; for
// Neutral it is how close.
func sentimentFromScore(score float64) types.Sentiment {
	abs := math.Abs(score)
	switch {
	case score >= cloudPolarityThreshold:
		return types.Sentiment{Label: types.LabelPositive, Confidence: abs}
	case score <= -cloudPolarityThreshold:
		return types.Sentiment{Label: types.LabelNegative, Confidence: abs}
	default:
		return types.Sentiment{Label: types.LabelNeutral, Confidence: 1 - abs}
	}
}
