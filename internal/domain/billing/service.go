package billing

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

type Service struct {
	bills Repository
}

func NewService(bills Repository) *Service {
	return &Service{bills: bills}
}

var validStatuses = map[string]bool{"Paid": true, "Unpaid": true}

func (s *Service) Create(ctx context.Context, b *Bill) error {
	if b.PatientID == uuid.Nil {
		return fmt.Errorf("patient_id is required")
	}
	if b.Amount <= 0 {
		return fmt.Errorf("amount must be positive")
	}
	if b.Status == "" {
		b.Status = "Unpaid"
	}
	if !validStatuses[b.Status] {
		return fmt.Errorf("invalid bill status: %s", b.Status)
	}
	return s.bills.Create(ctx, b)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Bill, error) {
	return s.bills.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, b *Bill) error {
	if b.Amount <= 0 {
		return fmt.Errorf("amount must be positive")
	}
	if !validStatuses[b.Status] {
		return fmt.Errorf("invalid bill status: %s", b.Status)
	}
	return s.bills.Update(ctx, b)
}

// MarkPaid flips a bill to Paid without touching the rest of the record.
func (s *Service) MarkPaid(ctx context.Context, id uuid.UUID) (*Bill, error) {
	b, err := s.bills.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	b.Status = "Paid"
	if err := s.bills.Update(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.bills.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Bill, int, error) {
	return s.bills.List(ctx, limit, offset)
}

func (s *Service) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Bill, int, error) {
	return s.bills.ListByPatient(ctx, patientID, limit, offset)
}

func (s *Service) OutstandingBalance(ctx context.Context, patientID uuid.UUID) (float64, error) {
	return s.bills.OutstandingBalance(ctx, patientID)
}
