package assessment

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/clinicore/hms/internal/domain/patient"
)

// Extractor derives a HistoricalFeatures set from the patient store.
// Extraction never fails: missing patients yield the baseline set and
// storage errors degrade to the baseline set with a degraded source tag.
type Extractor struct {
	patients PatientDirectory
	history  HistoryRepository
	now      func() time.Time
	log      zerolog.Logger
}

func NewExtractor(patients PatientDirectory, history HistoryRepository, log zerolog.Logger) *Extractor {
	return &Extractor{patients: patients, history: history, now: time.Now, log: log}
}

func (e *Extractor) Extract(ctx context.Context, patientID *uuid.UUID) HistoricalFeatures {
	if patientID == nil {
		return Baseline(SourceBaseline)
	}

	p, err := e.patients.GetByID(ctx, *patientID)
	if err != nil {
		if errors.Is(err, patient.ErrNotFound) {
			return Baseline(SourceBaseline)
		}
		e.log.Warn().Err(err).Str("patient_id", patientID.String()).
			Msg("patient store unavailable, degrading to defaults")
		return Baseline(SourceDegradedStorage)
	}
	if p == nil {
		return Baseline(SourceBaseline)
	}

	f := Baseline(SourceHistory)
	f.HasStoredHypertension = p.Hypertension
	f.HasStoredHeartDisease = p.HeartDisease

	days := e.now().Sub(p.CreatedAt).Hours() / 24
	f.DaysAsPatient = math.Min(days/365.0, 1.0)

	records, err := e.history.History(ctx, *patientID, extractLimit)
	if err != nil {
		e.log.Warn().Err(err).Str("patient_id", patientID.String()).
			Msg("assessment history unavailable, degrading to defaults")
		degraded := Baseline(SourceDegradedStorage)
		degraded.HasStoredHypertension = f.HasStoredHypertension
		degraded.HasStoredHeartDisease = f.HasStoredHeartDisease
		degraded.DaysAsPatient = f.DaysAsPatient
		return degraded
	}

	f.AssessmentCount = len(records)

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
	// Fall back to the population defaults rather than zero so a sparse
	// history does not drag the blend toward zero glucose.
	if glucoseN > 0 {
		f.AvgHistoricalGlucose = glucoseSum / float64(glucoseN)
	}
	if bmiN > 0 {
		f.AvgHistoricalBMI = bmiSum / float64(bmiN)
	}

	perMonth := float64(f.AssessmentCount) / math.Max(f.DaysAsPatient*12, 0.1)
	f.VisitFrequency = math.Min(perMonth, 5.0) / 5.0

	if len(records) >= 2 {
		delta := records[0].RiskScore - records[1].RiskScore
		switch {
		case delta > 20:
			f.RiskTrajectory = 1.0
		case delta < -20:
			f.RiskTrajectory = 0.0
		default:
			f.RiskTrajectory = DefaultTrajectory
		}
	}

	return f
}
