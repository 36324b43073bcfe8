package ml

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
)

// Artifact is the on-disk model format: logistic regression weights exported
// from the training pipeline together with the feature scaler and the
// categorical encoder tables.
type Artifact struct {
	ModelType    string                    `json:"model_type"`
	Coefficients []float64                 `json:"coefficients"`
	Intercept    float64                   `json:"intercept"`
	Scaler       *Scaler                   `json:"scaler,omitempty"`
	Encoders     map[string]map[string]int `json:"encoders"`
}

// Scaler holds per-feature standardization parameters.
type Scaler struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

// LogisticModel is a local classifier evaluating exported logistic
// regression weights. All fields are fixed at load time.
type LogisticModel struct {
	coefficients []float64
	intercept    float64
	scaler       *Scaler
}

// LoadArtifact reads a model artifact from disk and returns a ready Model.
func LoadArtifact(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model artifact %s: %w", path, err)
	}

	var art Artifact
	if err := json.Unmarshal(data, &art); err != nil {
		return nil, fmt.Errorf("parse model artifact %s: %w", path, err)
	}
	if len(art.Coefficients) != FeatureCount {
		return nil, fmt.Errorf("model artifact has %d coefficients, want %d", len(art.Coefficients), FeatureCount)
	}
	if art.Scaler != nil && (len(art.Scaler.Mean) != FeatureCount || len(art.Scaler.Scale) != FeatureCount) {
		return nil, fmt.Errorf("model artifact scaler has wrong width")
	}

	clf := &LogisticModel{
		coefficients: art.Coefficients,
		intercept:    art.Intercept,
		scaler:       art.Scaler,
	}
	kind := art.ModelType
	if kind == "" {
		kind = "logistic-regression"
	}
	return &Model{Classifier: clf, Encoders: Encoders(art.Encoders), Kind: kind}, nil
}

// Classify evaluates the logistic model on a 10-wide feature vector.
func (m *LogisticModel) Classify(_ context.Context, features []float64) (Classification, error) {
	if len(features) != FeatureCount {
		return Classification{}, fmt.Errorf("feature vector has width %d, want %d", len(features), FeatureCount)
	}

	z := m.intercept
	for i, x := range features {
		if m.scaler != nil {
			scale := m.scaler.Scale[i]
			if scale == 0 {
				scale = 1
			}
			x = (x - m.scaler.Mean[i]) / scale
		}
		z += m.coefficients[i] * x
	}

	p1 := 1.0 / (1.0 + math.Exp(-z))
	label := 0
	if p1 >= 0.5 {
		label = 1
	}
	return Classification{Label: label, Probabilities: [2]float64{1 - p1, p1}}, nil
}
