package assessment

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/clinicore/hms/internal/domain/patient"
)

// Service is the single entry point for scoring runs and the read-only
// history/trend views.
//
// Concurrent runs for the same patient are not coordinated: two
// in-flight assessments may both read the same "previous" record and
// both append, and whichever lands first becomes "latest" for the next
// read. Assessments are advisory, so this ordering ambiguity is
// accepted rather than locked around.
type Service struct {
	blender  *Blender
	trends   *TrendAnalyzer
	scorer   *Scorer
	history  HistoryRepository
	patients PatientDirectory
	log      zerolog.Logger
}

func NewService(blender *Blender, trends *TrendAnalyzer, scorer *Scorer,
	history HistoryRepository, patients PatientDirectory, log zerolog.Logger) *Service {
	return &Service{
		blender:  blender,
		trends:   trends,
		scorer:   scorer,
		history:  history,
		patients: patients,
		log:      log,
	}
}

// RunAssessment composes blend, trend analysis, scoring and recording.
// The returned error is non-nil only when the classifier is unavailable;
// recording failures are logged, reflected in result.Recorded and do not
// unwind the computed score.
func (s *Service) RunAssessment(ctx context.Context, form FormInput, patientID *uuid.UUID) (*ScoringResult, error) {
	enriched := s.blender.Blend(ctx, form, patientID)
	s.trends.Analyze(ctx, &enriched, patientID)

	result, err := s.scorer.Score(ctx, enriched)
	if err != nil {
		return nil, err
	}

	if patientID != nil {
		if err := s.Record(ctx, *patientID, form, result); err != nil {
			s.log.Warn().Err(err).Str("patient_id", patientID.String()).
				Msg("assessment computed but not recorded")
		} else {
			result.Recorded = true
		}
	}

	return result, nil
}

// Record appends one assessment to the patient's history. A patientID
// that does not resolve to a stored patient is an error, distinguishing
// a bad reference from an anonymous run.
func (s *Service) Record(ctx context.Context, patientID uuid.UUID, form FormInput, result *ScoringResult) error {
	p, err := s.patients.GetByID(ctx, patientID)
	switch {
	case errors.Is(err, patient.ErrNotFound), err == nil && p == nil:
		return fmt.Errorf("record assessment: unknown patient %s", patientID)
	case err != nil:
		return fmt.Errorf("record assessment: patient lookup: %w", err)
	}

	rec := &AssessmentRecord{
		PatientID:       patientID,
		Gender:          form.Gender,
		Age:             form.Age,
		Hypertension:    form.Hypertension,
		HeartDisease:    form.HeartDisease,
		EverMarried:     form.EverMarried,
		WorkType:        form.WorkType,
		ResidenceType:   form.ResidenceType,
		AvgGlucoseLevel: form.AvgGlucoseLevel,
		BMI:             form.BMI,
		SmokingStatus:   form.SmokingStatus,
		RiskLevel:       result.RiskLevel,
		RiskScore:       result.AdjustedRiskScore,
		Confidence:      result.Confidence,
		ProbabilityNo:   result.Probabilities[0],
		ProbabilityYes:  result.Probabilities[1],
	}
	return s.history.Append(ctx, rec)
}

// GetHistory returns the patient's ten most recent assessments, newest
// first.
func (s *Service) GetHistory(ctx context.Context, patientID uuid.UUID) ([]*AssessmentRecord, error) {
	return s.history.History(ctx, patientID, displayLimit)
}

// GetTrend summarizes the direction of the two most recent risk scores.
func (s *Service) GetTrend(ctx context.Context, patientID uuid.UUID) (*TrendSummary, error) {
	records, err := s.history.History(ctx, patientID, 2)
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return &TrendSummary{Trend: "No History"}, nil
	}

	latest, previous := records[0].RiskScore, records[1].RiskScore
	change := latest - previous
	summary := &TrendSummary{
		Change:       change,
		PreviousRisk: previous,
		LatestRisk:   latest,
	}
	switch {
	case change > 10:
		summary.Trend = "Worsening"
		summary.Direction = "up"
	case change < -10:
		summary.Trend = "Improving"
		summary.Direction = "down"
	default:
		summary.Trend = "Stable"
		summary.Direction = "flat"
	}
	return summary, nil
}
