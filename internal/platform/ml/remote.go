package ml

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// RemoteClassifier calls a classifier served over HTTP. The request timeout
// bounds the one pipeline step that can block on the network.
type RemoteClassifier struct {
	client *resty.Client
}

type classifyRequest struct {
	Features []float64 `json:"features"`
}

// NewRemoteClassifier builds a classifier client for the given base URL.
func NewRemoteClassifier(baseURL string, timeout time.Duration) *RemoteClassifier {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetRetryCount(1)
	return &RemoteClassifier{client: client}
}

// Classify posts the feature vector to the remote model's /classify
// endpoint. Transport failures and non-200 responses surface as
// ErrUnavailable so the pipeline aborts cleanly.
func (r *RemoteClassifier) Classify(ctx context.Context, features []float64) (Classification, error) {
	if len(features) != FeatureCount {
		return Classification{}, fmt.Errorf("feature vector has width %d, want %d", len(features), FeatureCount)
	}

	var result Classification
	resp, err := r.client.R().
		SetContext(ctx).
		SetBody(classifyRequest{Features: features}).
		SetResult(&result).
		Post("/classify")
	if err != nil {
		return Classification{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if resp.StatusCode() != 200 {
		return Classification{}, fmt.Errorf("%w: classifier returned status %d", ErrUnavailable, resp.StatusCode())
	}
	return result, nil
}
