package assessment

import (
	"context"
	"math"

	"github.com/google/uuid"
)

// Blend weights for merging a fresh reading with the historical mean.
// The weights are fixed regardless of history depth; the reliability
// fields computed below are reported but deliberately not applied to
// the weighting.
const (
	currentWeight    = 0.6
	historicalWeight = 0.4
	storedFlagConf   = 0.8
)

// Blender merges one form submission with the patient's extracted
// historical features.
type Blender struct {
	extractor *Extractor
}

func NewBlender(extractor *Extractor) *Blender {
	return &Blender{extractor: extractor}
}

// Blend returns the enriched feature set. With a nil patientID the form
// passes through untouched.
func (b *Blender) Blend(ctx context.Context, form FormInput, patientID *uuid.UUID) EnrichedFeatures {
	enriched := EnrichedFeatures{
		Form:            form,
		AvgGlucoseLevel: form.AvgGlucoseLevel,
		BMI:             form.BMI,
	}
	if patientID == nil {
		return enriched
	}

	hist := b.extractor.Extract(ctx, patientID)
	enriched.PatientFeatures = &hist

	// A stored diagnosis the form does not report gets a confidence
	// marker rather than an override: history suggests the condition
	// may still apply even though it was not reported today.
	if hist.HasStoredHypertension && form.Hypertension == 0 {
		conf := storedFlagConf
		enriched.HypertensionConfidence = &conf
	}
	if hist.HasStoredHeartDisease && form.HeartDisease == 0 {
		conf := storedFlagConf
		enriched.HeartDiseaseConfidence = &conf
	}

	if hist.AssessmentCount > 0 {
		reliability := math.Min(0.5+0.1*float64(hist.AssessmentCount), 1.0)

		enriched.AvgGlucoseLevel = currentWeight*form.AvgGlucoseLevel + historicalWeight*hist.AvgHistoricalGlucose
		gr := reliability
		enriched.GlucoseReliability = &gr

		formBMI := hist.AvgHistoricalBMI
		if form.BMI != nil {
			formBMI = *form.BMI
		}
		blendedBMI := currentWeight*formBMI + historicalWeight*hist.AvgHistoricalBMI
		enriched.BMI = &blendedBMI
		br := reliability
		enriched.BMIReliability = &br
	}

	return enriched
}
