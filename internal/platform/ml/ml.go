// Package ml wraps the trained stroke/hypertension classifier and its
// categorical encoders behind interfaces the scoring pipeline can depend on.
// A model is built once at startup, is immutable afterwards, and is safe for
// concurrent read-only use.
package ml

import (
	"context"
	"errors"
)

// FeatureCount is the width of the classifier's input vector: gender, age,
// hypertension, heart_disease, ever_married, work_type, residence_type,
// avg_glucose_level, bmi, smoking_status.
const FeatureCount = 10

// ErrUnavailable is returned when no classifier is loaded or the remote
// classifier cannot be reached. There is no meaningful score without one.
var ErrUnavailable = errors.New("classifier unavailable")

// Classification is the opaque classifier's output: a binary label and the
// probability of each class. Probabilities are trusted to sum to 1.
type Classification struct {
	Label         int        `json:"label"`
	Probabilities [2]float64 `json:"probabilities"`
}

// Classifier is the opaque prediction function.
type Classifier interface {
	Classify(ctx context.Context, features []float64) (Classification, error)
}

// Encoders maps raw categorical values to the integer codes the classifier
// was trained on. Unseen values encode to the neutral code 0 rather than
// failing, mirroring the training pipeline's tolerance.
type Encoders map[string]map[string]int

// Encode returns the code for a raw categorical value, or 0 when the field
// or value is unknown.
func (e Encoders) Encode(field, raw string) int {
	values, ok := e[field]
	if !ok {
		return 0
	}
	code, ok := values[raw]
	if !ok {
		return 0
	}
	return code
}

// Model bundles a classifier with its encoders; this is the single service
// object injected into the scoring pipeline.
type Model struct {
	Classifier Classifier
	Encoders   Encoders
	Kind       string
}

// Stats describes the loaded model for the diagnostics endpoint.
type Stats struct {
	Kind          string         `json:"kind"`
	FeatureCount  int            `json:"feature_count"`
	EncoderFields map[string]int `json:"encoder_fields"`
}

// Stats reports the model kind and the size of each encoder table.
func (m *Model) Stats() Stats {
	fields := make(map[string]int, len(m.Encoders))
	for field, values := range m.Encoders {
		fields[field] = len(values)
	}
	return Stats{Kind: m.Kind, FeatureCount: FeatureCount, EncoderFields: fields}
}
