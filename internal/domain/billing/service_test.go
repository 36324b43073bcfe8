package billing

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
)

type mockRepo struct {
	bills map[uuid.UUID]*Bill
}

func newMockRepo() *mockRepo {
	return &mockRepo{bills: make(map[uuid.UUID]*Bill)}
}

func (m *mockRepo) Create(_ context.Context, b *Bill) error {
	b.ID = uuid.New()
	b.CreatedAt = time.Now()
	b.UpdatedAt = time.Now()
	m.bills[b.ID] = b
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Bill, error) {
	b, ok := m.bills[id]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	return b, nil
}

func (m *mockRepo) Update(_ context.Context, b *Bill) error {
	m.bills[b.ID] = b
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.bills, id)
	return nil
}

func (m *mockRepo) List(_ context.Context, limit, offset int) ([]*Bill, int, error) {
	var result []*Bill
	for _, b := range m.bills {
		result = append(result, b)
	}
	return result, len(result), nil
}

func (m *mockRepo) ListByPatient(_ context.Context, patientID uuid.UUID, limit, offset int) ([]*Bill, int, error) {
	var result []*Bill
	for _, b := range m.bills {
		if b.PatientID == patientID {
			result = append(result, b)
		}
	}
	return result, len(result), nil
}

func (m *mockRepo) OutstandingBalance(_ context.Context, patientID uuid.UUID) (float64, error) {
	var sum float64
	for _, b := range m.bills {
		if b.PatientID == patientID && b.Status == "Unpaid" {
			sum += b.Amount
		}
	}
	return sum, nil
}

func (m *mockRepo) UnpaidTotal(_ context.Context) (float64, error) {
	var sum float64
	for _, b := range m.bills {
		if b.Status == "Unpaid" {
			sum += b.Amount
		}
	}
	return sum, nil
}

func TestCreateBill_RejectsNonPositiveAmount(t *testing.T) {
	svc := NewService(newMockRepo())
	for _, amount := range []float64{0, -10} {
		b := &Bill{PatientID: uuid.New(), Amount: amount}
		if err := svc.Create(context.Background(), b); err == nil {
			t.Errorf("expected error for amount %v", amount)
		}
	}
}

func TestCreateBill_DefaultsToUnpaid(t *testing.T) {
	svc := NewService(newMockRepo())
	b := &Bill{PatientID: uuid.New(), Amount: 150.00}
	if err := svc.Create(context.Background(), b); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.Status != "Unpaid" {
		t.Errorf("expected status Unpaid, got %s", b.Status)
	}
}

func TestMarkPaid(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	b := &Bill{PatientID: uuid.New(), Amount: 150.00}
	if err := svc.Create(context.Background(), b); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	paid, err := svc.MarkPaid(context.Background(), b.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if paid.Status != "Paid" {
		t.Errorf("expected status Paid, got %s", paid.Status)
	}
}

func TestOutstandingBalance_SumsUnpaidOnly(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	pid := uuid.New()

	svc.Create(context.Background(), &Bill{PatientID: pid, Amount: 100})
	svc.Create(context.Background(), &Bill{PatientID: pid, Amount: 50})
	paid := &Bill{PatientID: pid, Amount: 75}
	svc.Create(context.Background(), paid)
	svc.MarkPaid(context.Background(), paid.ID)
	svc.Create(context.Background(), &Bill{PatientID: uuid.New(), Amount: 999})

	balance, err := svc.OutstandingBalance(context.Background(), pid)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if balance != 150 {
		t.Errorf("expected balance 150, got %v", balance)
	}
}
