package assessment

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Trend labels for glucose and BMI comparisons.
const (
	TrendIncreasing = "increasing"
	TrendDecreasing = "decreasing"
	TrendStable     = "stable"

	TrajectoryWorsening = "worsening"
	TrajectoryImproving = "improving"
	TrajectoryStable    = "stable"
)

// Relative bands for trend classification. Glucose swings more day to
// day than BMI, hence the wider band.
const (
	glucoseUpperRatio = 1.2
	glucoseLowerRatio = 0.8
	bmiUpperRatio     = 1.1
	bmiLowerRatio     = 0.9
	riskDeltaBand     = 15.0
)

// TrendAnalyzer compares the current submission against the raw
// historical averages (not the blended values) and attaches trend
// labels and deltas to the enriched feature set.
type TrendAnalyzer struct {
	patients PatientDirectory
	history  HistoryRepository
	log      zerolog.Logger
}

func NewTrendAnalyzer(patients PatientDirectory, history HistoryRepository, log zerolog.Logger) *TrendAnalyzer {
	return &TrendAnalyzer{patients: patients, history: history, log: log}
}

// Analyze mutates enriched in place. A nil patientID, an unknown
// patient, or a storage failure all leave it untouched.
func (t *TrendAnalyzer) Analyze(ctx context.Context, enriched *EnrichedFeatures, patientID *uuid.UUID) {
	if patientID == nil {
		return
	}
	if p, err := t.patients.GetByID(ctx, *patientID); err != nil || p == nil {
		return
	}

	records, err := t.history.History(ctx, *patientID, trendLimit)
	if err != nil {
		t.log.Warn().Err(err).Str("patient_id", patientID.String()).
			Msg("trend history unavailable, skipping trend analysis")
		return
	}

	enriched.HasPatientRecord = true
	form := enriched.Form

	var glucoseSum, bmiSum float64
	var glucoseN, bmiN int
	for _, rec := range records {
		if rec.AvgGlucoseLevel > 0 {
			glucoseSum += rec.AvgGlucoseLevel
			glucoseN++
		}
		if rec.BMI != nil && *rec.BMI > 0 {
			bmiSum += *rec.BMI
			bmiN++
		}
	}

	if glucoseN > 0 {
		avg := glucoseSum / float64(glucoseN)
		enriched.HistoricalAvgGlucose = &avg
		change := form.AvgGlucoseLevel - avg
		enriched.GlucoseChange = &change
		switch {
		case form.AvgGlucoseLevel > glucoseUpperRatio*avg:
			enriched.GlucoseTrend = TrendIncreasing
		case form.AvgGlucoseLevel < glucoseLowerRatio*avg:
			enriched.GlucoseTrend = TrendDecreasing
		default:
			enriched.GlucoseTrend = TrendStable
		}
	}

	if bmiN > 0 && form.BMI != nil {
		avg := bmiSum / float64(bmiN)
		enriched.HistoricalAvgBMI = &avg
		change := *form.BMI - avg
		enriched.BMIChange = &change
		switch {
		case *form.BMI > bmiUpperRatio*avg:
			enriched.BMITrend = TrendIncreasing
		case *form.BMI < bmiLowerRatio*avg:
			enriched.BMITrend = TrendDecreasing
		default:
			enriched.BMITrend = TrendStable
		}
	}

	if len(records) >= 1 {
		prev := records[0].RiskScore
		enriched.PreviousRiskScore = &prev
	}
	if len(records) >= 2 {
		change := records[0].RiskScore - records[1].RiskScore
		enriched.RiskChange = &change
		switch {
		case change > riskDeltaBand:
			enriched.RiskTrajectory = TrajectoryWorsening
		case change < -riskDeltaBand:
			enriched.RiskTrajectory = TrajectoryImproving
		default:
			enriched.RiskTrajectory = TrajectoryStable
		}
	}

	switch {
	case form.Age > 60:
		enriched.PatientAgeCategory = "senior"
	case form.Age > 30:
		enriched.PatientAgeCategory = "adult"
	default:
		enriched.PatientAgeCategory = "young"
	}
}
