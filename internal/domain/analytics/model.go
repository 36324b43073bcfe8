package analytics

import (
	"time"

	"github.com/google/uuid"
)

// DashboardStats is the front-desk summary view.
type DashboardStats struct {
	TotalPatients         int     `json:"total_patients"`
	ScheduledAppointments int     `json:"scheduled_appointments"`
	RegisteredToday       int     `json:"registered_today"`
	UnpaidTotal           float64 `json:"unpaid_total"`
}

// HighRiskPatient is one row of the high-risk sweep: a patient whose
// most recent assessment scored at or above the sweep threshold.
type HighRiskPatient struct {
	PatientID  uuid.UUID `json:"patient_id"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	RiskLevel  string    `json:"risk_level"`
	RiskScore  float64   `json:"risk_score"`
	AssessedAt time.Time `json:"assessed_at"`
}
