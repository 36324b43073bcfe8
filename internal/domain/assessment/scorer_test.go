package assessment

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/rs/zerolog"

	"github.com/clinicore/hms/internal/platform/ml"
)

func newTestScorer(c ml.Classifier) *Scorer {
	return NewScorer(testModel(c), zerolog.Nop())
}

func TestScore_NoTrendsLeavesBaseUntouched(t *testing.T) {
	s := newTestScorer(&fixedClassifier{p1: 0.7})
	enriched := EnrichedFeatures{Form: sampleForm(), AvgGlucoseLevel: 185, BMI: floatPtr(29)}

	result, err := s.Score(context.Background(), enriched)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.BaseRiskScore != 70 {
		t.Errorf("expected base 70, got %v", result.BaseRiskScore)
	}
	if result.AdjustedRiskScore != result.BaseRiskScore {
		t.Errorf("expected no adjustment, got %v", result.AdjustedRiskScore)
	}
	if len(result.Notes) != 0 {
		t.Errorf("expected no notes, got %v", result.Notes)
	}
	if result.Confidence != 70 {
		t.Errorf("expected confidence 70, got %v", result.Confidence)
	}
}

func TestScore_AdjustmentsStackAndClamp(t *testing.T) {
	s := newTestScorer(&fixedClassifier{p1: 0.95})
	riskChange := 20.0
	enriched := EnrichedFeatures{
		Form:            sampleForm(),
		AvgGlucoseLevel: 185,
		BMI:             floatPtr(29),
		GlucoseTrend:    TrendIncreasing,
		BMITrend:        TrendIncreasing,
		RiskChange:      &riskChange,
	}

	result, err := s.Score(context.Background(), enriched)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 95 + 5 + 3 + 2 would be 105; the clamp holds the invariant.
	if result.AdjustedRiskScore != 100 {
		t.Errorf("expected clamped 100, got %v", result.AdjustedRiskScore)
	}
	if result.RiskLevel != LevelHigh || result.Severity != "danger" {
		t.Errorf("expected HIGH RISK/danger, got %s/%s", result.RiskLevel, result.Severity)
	}
	if len(result.Notes) != 3 {
		t.Fatalf("expected 3 notes, got %d: %v", len(result.Notes), result.Notes)
	}
}

func TestScore_DecreasingTrendsFloorAtZero(t *testing.T) {
	s := newTestScorer(&fixedClassifier{p1: 0.02})
	enriched := EnrichedFeatures{
		Form:            sampleForm(),
		AvgGlucoseLevel: 70,
		GlucoseTrend:    TrendDecreasing,
		BMITrend:        TrendDecreasing,
	}

	result, err := s.Score(context.Background(), enriched)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.AdjustedRiskScore != 0 {
		t.Errorf("expected floor at 0, got %v", result.AdjustedRiskScore)
	}
	if result.RiskLevel != LevelMinimal {
		t.Errorf("expected MINIMAL RISK, got %s", result.RiskLevel)
	}
}

func TestScore_ImprovingRiskAddsNoteWithoutAdjustment(t *testing.T) {
	s := newTestScorer(&fixedClassifier{p1: 0.6})
	riskChange := -20.0
	enriched := EnrichedFeatures{Form: sampleForm(), AvgGlucoseLevel: 100, RiskChange: &riskChange}

	result, err := s.Score(context.Background(), enriched)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.AdjustedRiskScore != result.BaseRiskScore {
		t.Errorf("improvement note must not move the score, got %v", result.AdjustedRiskScore)
	}
	if len(result.Notes) != 1 {
		t.Errorf("expected 1 note, got %v", result.Notes)
	}
}

func TestScore_LevelBoundaries(t *testing.T) {
	cases := []struct {
		p1   float64
		want string
	}{
		{0.75, LevelHigh},
		{0.74999, LevelModerate},
		{0.50, LevelModerate},
		{0.49999, LevelLow},
		{0.25, LevelLow},
		{0.24999, LevelMinimal},
	}
	for _, tc := range cases {
		s := newTestScorer(&fixedClassifier{p1: tc.p1})
		result, err := s.Score(context.Background(), EnrichedFeatures{Form: sampleForm(), AvgGlucoseLevel: 100})
		if err != nil {
			t.Fatalf("p1=%v: unexpected error: %v", tc.p1, err)
		}
		if result.RiskLevel != tc.want {
			t.Errorf("p1=%v: expected %s, got %s", tc.p1, tc.want, result.RiskLevel)
		}
	}
}

func TestScore_ClassifierFailureReturnsUnavailable(t *testing.T) {
	s := newTestScorer(&fixedClassifier{err: ml.ErrUnavailable})
	result, err := s.Score(context.Background(), EnrichedFeatures{Form: sampleForm(), AvgGlucoseLevel: 100})
	if result != nil {
		t.Error("expected nil result when classifier is down")
	}
	if !errors.Is(err, ml.ErrUnavailable) {
		t.Errorf("expected ErrUnavailable, got %v", err)
	}
}

func TestScore_FeatureVector(t *testing.T) {
	c := &captureClassifier{fixedClassifier: fixedClassifier{p1: 0.5}}
	s := newTestScorer(c)

	enriched := EnrichedFeatures{Form: sampleForm(), AvgGlucoseLevel: 151, BMI: floatPtr(27.4)}
	if _, err := s.Score(context.Background(), enriched); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []float64{1, 45, 0, 0, 1, 2, 1, 151, 27.4, 2}
	if len(c.lastVector) != ml.FeatureCount {
		t.Fatalf("expected %d features, got %d", ml.FeatureCount, len(c.lastVector))
	}
	for i := range want {
		if math.Abs(c.lastVector[i]-want[i]) > 1e-9 {
			t.Errorf("feature %d: expected %v, got %v", i, want[i], c.lastVector[i])
		}
	}
}

func TestScore_MissingBMIAndUnseenCategoricals(t *testing.T) {
	c := &captureClassifier{fixedClassifier: fixedClassifier{p1: 0.5}}
	s := newTestScorer(c)

	form := sampleForm()
	form.BMI = nil
	form.WorkType = "Astronaut" // not in the encoders
	enriched := EnrichedFeatures{Form: form, AvgGlucoseLevel: form.AvgGlucoseLevel}

	result, err := s.Score(context.Background(), enriched)
	if err != nil || result == nil {
		t.Fatalf("encoder misses must not fail scoring: %v", err)
	}
	if c.lastVector[8] != ScoringBMI {
		t.Errorf("expected default bmi %v, got %v", ScoringBMI, c.lastVector[8])
	}
	if c.lastVector[5] != 0 {
		t.Errorf("expected neutral code for unseen work_type, got %v", c.lastVector[5])
	}
}
