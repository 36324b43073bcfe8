package assessment

import (
	"context"

	"github.com/google/uuid"

	"github.com/clinicore/hms/internal/domain/patient"
)

// HistoryRepository is the persistence surface the scoring pipeline
// reads from and appends to.
//
// Ordering contract: History MUST return records newest first,
// descending by creation timestamp with insertion order breaking ties.
// Trend computation depends on this (latest = index 0).
type HistoryRepository interface {
	History(ctx context.Context, patientID uuid.UUID, limit int) ([]*AssessmentRecord, error)
	Append(ctx context.Context, rec *AssessmentRecord) error
}

// PatientDirectory is the slice of the patient store the pipeline needs.
// Satisfied by patient.Repository.
type PatientDirectory interface {
	GetByID(ctx context.Context, id uuid.UUID) (*patient.Patient, error)
}
