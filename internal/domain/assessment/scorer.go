package assessment

import (
	"context"
	"fmt"
	"math"

	"github.com/rs/zerolog"

	"github.com/clinicore/hms/internal/platform/ml"
)

// Score adjustments applied on top of the raw classifier probability.
const (
	glucoseUpAdj   = 5.0
	glucoseDownAdj = 3.0
	bmiUpAdj       = 3.0
	bmiDownAdj     = 2.0
	riskWorseAdj   = 2.0
)

// Scorer runs the classifier on the encoded feature vector and applies
// the deterministic trend adjustments.
type Scorer struct {
	model *ml.Model
	log   zerolog.Logger
}

func NewScorer(model *ml.Model, log zerolog.Logger) *Scorer {
	return &Scorer{model: model, log: log}
}

// Score produces the final result. A classifier failure returns
// ml.ErrUnavailable: there is no meaningful score without one, so the
// caller must treat the nil result as "assessment unavailable" rather
// than minimal risk.
func (s *Scorer) Score(ctx context.Context, enriched EnrichedFeatures) (*ScoringResult, error) {
	vector := s.encode(enriched)

	c, err := s.model.Classifier.Classify(ctx, vector)
	if err != nil {
		s.log.Error().Err(err).Msg("classifier unavailable")
		return nil, fmt.Errorf("scoring: %w", ml.ErrUnavailable)
	}

	base := c.Probabilities[1] * 100
	adjusted := base
	var notes []string

	switch enriched.GlucoseTrend {
	case TrendIncreasing:
		adjusted += glucoseUpAdj
		notes = append(notes, "Glucose is trending above this patient's historical average")
	case TrendDecreasing:
		adjusted = math.Max(adjusted-glucoseDownAdj, 0)
		notes = append(notes, "Glucose is trending below this patient's historical average")
	}

	switch enriched.BMITrend {
	case TrendIncreasing:
		adjusted += bmiUpAdj
		notes = append(notes, "BMI is trending above this patient's historical average")
	case TrendDecreasing:
		adjusted = math.Max(adjusted-bmiDownAdj, 0)
		notes = append(notes, "BMI is trending below this patient's historical average")
	}

	if enriched.RiskChange != nil {
		switch {
		case *enriched.RiskChange > riskDeltaBand:
			adjusted += riskWorseAdj
			notes = append(notes, "ALERT: risk score rose sharply since the previous assessment")
		case *enriched.RiskChange < -riskDeltaBand:
			notes = append(notes, "Risk score has improved since the previous assessment")
		}
	}

	adjusted = math.Max(0, math.Min(adjusted, 100))

	level, severity := riskLevel(adjusted)
	prediction := "No stroke risk detected"
	if c.Label == 1 {
		prediction = "Stroke risk detected"
	}

	return &ScoringResult{
		Prediction:        prediction,
		RiskLevel:         level,
		Severity:          severity,
		Confidence:        c.Probabilities[c.Label] * 100,
		BaseRiskScore:     base,
		AdjustedRiskScore: adjusted,
		Probabilities:     [2]float64{c.Probabilities[0] * 100, c.Probabilities[1] * 100},
		Notes:             notes,

		HistoricalAvgGlucose: enriched.HistoricalAvgGlucose,
		HistoricalAvgBMI:     enriched.HistoricalAvgBMI,
		PreviousRiskScore:    enriched.PreviousRiskScore,
	}, nil
}

// encode builds the canonical 10-field vector. Categorical misses
// encode to the neutral code inside Encoders.Encode, so this step
// cannot fail.
func (s *Scorer) encode(enriched EnrichedFeatures) []float64 {
	form := enriched.Form

	bmi := ScoringBMI
	if enriched.BMI != nil {
		bmi = *enriched.BMI
	}

	return []float64{
		float64(s.model.Encoders.Encode("gender", form.Gender)),
		form.Age,
		float64(form.Hypertension),
		float64(form.HeartDisease),
		float64(s.model.Encoders.Encode("ever_married", form.EverMarried)),
		float64(s.model.Encoders.Encode("work_type", form.WorkType)),
		float64(s.model.Encoders.Encode("residence_type", form.ResidenceType)),
		enriched.AvgGlucoseLevel,
		bmi,
		float64(s.model.Encoders.Encode("smoking_status", form.SmokingStatus)),
	}
}

// riskLevel maps an adjusted score to a discrete level and its display
// severity tag. Boundaries are inclusive on the lower edge.
func riskLevel(score float64) (string, string) {
	switch {
	case score >= 75:
		return LevelHigh, "danger"
	case score >= 50:
		return LevelModerate, "warning"
	case score >= 25:
		return LevelLow, "info"
	default:
		return LevelMinimal, "success"
	}
}
