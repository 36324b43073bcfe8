package assessment

import (
	"time"

	"github.com/google/uuid"
)

// Defaults used when a patient has no usable history.
const (
	DefaultGlucose    = 100.0
	DefaultBMI        = 25.0
	DefaultTrajectory = 0.5
	// ScoringBMI fills a missing BMI just before encoding, matching the
	// population mean the classifier was trained against.
	ScoringBMI = 28.5
)

// History fetch windows. Extraction averages over a deeper window than
// the trend pass; the display surface shows the ten most recent runs.
const (
	extractLimit = 20
	trendLimit   = 10
	displayLimit = 10
)

// Source tells callers why a feature set holds the values it does:
// computed from real history, baseline defaults for a new or anonymous
// patient, or defaults substituted because storage was unreachable.
type Source string

const (
	SourceBaseline        Source = "baseline"
	SourceHistory         Source = "history"
	SourceDegradedStorage Source = "degraded-storage"
)

// FormInput is one point-in-time submission from the assessment form.
type FormInput struct {
	Gender          string   `json:"gender"`
	Age             float64  `json:"age"`
	Hypertension    int      `json:"hypertension"`
	HeartDisease    int      `json:"heart_disease"`
	EverMarried     string   `json:"ever_married"`
	WorkType        string   `json:"work_type"`
	ResidenceType   string   `json:"residence_type"`
	AvgGlucoseLevel float64  `json:"avg_glucose_level"`
	BMI             *float64 `json:"bmi,omitempty"`
	SmokingStatus   string   `json:"smoking_status"`
}

// HistoricalFeatures is the fixed-shape summary of a patient's record,
// recomputed on every invocation and never persisted.
type HistoricalFeatures struct {
	HasStoredHypertension bool    `json:"has_stored_hypertension"`
	HasStoredHeartDisease bool    `json:"has_stored_heart_disease"`
	AvgHistoricalGlucose  float64 `json:"avg_historical_glucose"`
	AvgHistoricalBMI      float64 `json:"avg_historical_bmi"`
	VisitFrequency        float64 `json:"visit_frequency"`
	AssessmentCount       int     `json:"assessment_count"`
	DaysAsPatient         float64 `json:"days_as_patient"`
	RiskTrajectory        float64 `json:"risk_trajectory"`
	Source                Source  `json:"source"`
}

// Baseline is the new/anonymous-patient feature set.
func Baseline(src Source) HistoricalFeatures {
	return HistoricalFeatures{
		AvgHistoricalGlucose: DefaultGlucose,
		AvgHistoricalBMI:     DefaultBMI,
		RiskTrajectory:       DefaultTrajectory,
		Source:               src,
	}
}

// EnrichedFeatures is the form submission after the blending and trend
// passes. Pointer fields are present only when the corresponding rule
// fired; the zero value of the struct is a plain passthrough of Form.
type EnrichedFeatures struct {
	Form FormInput `json:"form"`

	// Blender outputs.
	HypertensionConfidence *float64            `json:"hypertension_confidence,omitempty"`
	HeartDiseaseConfidence *float64            `json:"heart_disease_confidence,omitempty"`
	AvgGlucoseLevel        float64             `json:"avg_glucose_level"`
	BMI                    *float64            `json:"bmi,omitempty"`
	GlucoseReliability     *float64            `json:"glucose_reliability,omitempty"`
	BMIReliability         *float64            `json:"bmi_reliability,omitempty"`
	PatientFeatures        *HistoricalFeatures `json:"patient_features,omitempty"`

	// Trend pass outputs. Never fed to the classifier; consumed by the
	// scorer's adjustment step and by display collaborators.
	GlucoseTrend         string   `json:"glucose_trend,omitempty"`
	GlucoseChange        *float64 `json:"glucose_change,omitempty"`
	HistoricalAvgGlucose *float64 `json:"historical_avg_glucose,omitempty"`
	BMITrend             string   `json:"bmi_trend,omitempty"`
	BMIChange            *float64 `json:"bmi_change,omitempty"`
	HistoricalAvgBMI     *float64 `json:"historical_avg_bmi,omitempty"`
	RiskTrajectory       string   `json:"risk_trajectory,omitempty"`
	PreviousRiskScore    *float64 `json:"previous_risk_score,omitempty"`
	RiskChange           *float64 `json:"risk_change,omitempty"`
	PatientAgeCategory   string   `json:"patient_age_category,omitempty"`
	HasPatientRecord     bool     `json:"has_patient_record"`
}

// Risk levels, keyed by adjusted score thresholds.
const (
	LevelHigh     = "HIGH RISK"
	LevelModerate = "MODERATE RISK"
	LevelLow      = "LOW RISK"
	LevelMinimal  = "MINIMAL RISK"
)

// ScoringResult is the output of one scoring run.
type ScoringResult struct {
	Prediction        string     `json:"prediction"`
	RiskLevel         string     `json:"risk_level"`
	Severity          string     `json:"severity"`
	Confidence        float64    `json:"confidence"`
	BaseRiskScore     float64    `json:"base_risk_score"`
	AdjustedRiskScore float64    `json:"adjusted_risk_score"`
	Probabilities     [2]float64 `json:"probabilities"`
	Notes             []string   `json:"notes"`

	HistoricalAvgGlucose *float64 `json:"historical_avg_glucose,omitempty"`
	HistoricalAvgBMI     *float64 `json:"historical_avg_bmi,omitempty"`
	PreviousRiskScore    *float64 `json:"previous_risk_score,omitempty"`

	Recorded bool `json:"recorded"`
}

// AssessmentRecord is one persisted scoring run. Records are append-only
// and immutable once written.
type AssessmentRecord struct {
	ID        uuid.UUID `db:"id" json:"id"`
	PatientID uuid.UUID `db:"patient_id" json:"patient_id"`

	Gender          string   `db:"gender" json:"gender"`
	Age             float64  `db:"age" json:"age"`
	Hypertension    int      `db:"hypertension" json:"hypertension"`
	HeartDisease    int      `db:"heart_disease" json:"heart_disease"`
	EverMarried     string   `db:"ever_married" json:"ever_married"`
	WorkType        string   `db:"work_type" json:"work_type"`
	ResidenceType   string   `db:"residence_type" json:"residence_type"`
	AvgGlucoseLevel float64  `db:"avg_glucose_level" json:"avg_glucose_level"`
	BMI             *float64 `db:"bmi" json:"bmi,omitempty"`
	SmokingStatus   string   `db:"smoking_status" json:"smoking_status"`

	RiskLevel      string  `db:"risk_level" json:"risk_level"`
	RiskScore      float64 `db:"risk_score" json:"risk_score"`
	Confidence     float64 `db:"confidence" json:"confidence"`
	ProbabilityNo  float64 `db:"probability_no" json:"probability_no"`
	ProbabilityYes float64 `db:"probability_yes" json:"probability_yes"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// TrendSummary is the read-only risk trend view for display collaborators.
type TrendSummary struct {
	Trend        string  `json:"trend"`
	Direction    string  `json:"direction,omitempty"`
	Change       float64 `json:"change,omitempty"`
	PreviousRisk float64 `json:"previous_risk,omitempty"`
	LatestRisk   float64 `json:"latest_risk,omitempty"`
}
