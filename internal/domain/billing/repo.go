package billing

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, b *Bill) error
	GetByID(ctx context.Context, id uuid.UUID) (*Bill, error)
	Update(ctx context.Context, b *Bill) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*Bill, int, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Bill, int, error)

	// OutstandingBalance sums the unpaid amounts for one patient.
	OutstandingBalance(ctx context.Context, patientID uuid.UUID) (float64, error)
	// UnpaidTotal sums the unpaid amounts across all patients.
	UnpaidTotal(ctx context.Context) (float64, error)
}
