package patient

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

// -- Mock Repository --

type mockRepo struct {
	patients map[uuid.UUID]*Patient
}

func newMockRepo() *mockRepo {
	return &mockRepo{patients: make(map[uuid.UUID]*Patient)}
}

func (m *mockRepo) Create(_ context.Context, p *Patient) error {
	p.ID = uuid.New()
	p.CreatedAt = time.Now()
	p.UpdatedAt = time.Now()
	m.patients[p.ID] = p
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Patient, error) {
	p, ok := m.patients[id]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	return p, nil
}

func (m *mockRepo) Update(_ context.Context, p *Patient) error {
	m.patients[p.ID] = p
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.patients, id)
	return nil
}

func (m *mockRepo) List(_ context.Context, limit, offset int) ([]*Patient, int, error) {
	var result []*Patient
	for _, p := range m.patients {
		result = append(result, p)
	}
	return result, len(result), nil
}

func (m *mockRepo) SearchByName(_ context.Context, name string, limit, offset int) ([]*Patient, int, error) {
	var result []*Patient
	for _, p := range m.patients {
		if strings.Contains(strings.ToLower(p.FirstName), strings.ToLower(name)) ||
			strings.Contains(strings.ToLower(p.LastName), strings.ToLower(name)) {
			result = append(result, p)
		}
	}
	return result, len(result), nil
}

// -- Tests --

func strPtr(s string) *string { return &s }

func TestCreatePatient_RequiresName(t *testing.T) {
	svc := NewService(newMockRepo())

	if err := svc.Create(context.Background(), &Patient{LastName: "Okafor"}); err == nil {
		t.Error("expected error for missing first_name")
	}
	if err := svc.Create(context.Background(), &Patient{FirstName: "Ada"}); err == nil {
		t.Error("expected error for missing last_name")
	}
}

func TestCreatePatient_RejectsInvalidGender(t *testing.T) {
	svc := NewService(newMockRepo())
	p := &Patient{FirstName: "Ada", LastName: "Okafor", Gender: strPtr("unknown")}
	if err := svc.Create(context.Background(), p); err == nil {
		t.Error("expected error for invalid gender")
	}
}

func TestCreatePatient_SetsActive(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	p := &Patient{FirstName: "Ada", LastName: "Okafor", Gender: strPtr("Female")}

	if err := svc.Create(context.Background(), p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !p.Active {
		t.Error("expected new patient to be active")
	}
	if _, err := svc.Get(context.Background(), p.ID); err != nil {
		t.Errorf("expected patient to be retrievable: %v", err)
	}
}

func TestCreatePatient_RejectsFutureDOB(t *testing.T) {
	svc := NewService(newMockRepo())
	future := time.Now().Add(24 * time.Hour)
	p := &Patient{FirstName: "Ada", LastName: "Okafor", DateOfBirth: &future}
	if err := svc.Create(context.Background(), p); err == nil {
		t.Error("expected error for future date of birth")
	}
}

func TestList_SearchesByName(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	svc.Create(context.Background(), &Patient{FirstName: "Ada", LastName: "Okafor"})
	svc.Create(context.Background(), &Patient{FirstName: "Ben", LastName: "Iwu"})

	items, total, err := svc.List(context.Background(), "oka", 20, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 1 || len(items) != 1 {
		t.Fatalf("expected 1 match, got %d", total)
	}
	if items[0].LastName != "Okafor" {
		t.Errorf("expected Okafor, got %s", items[0].LastName)
	}
}

func TestAgeAt(t *testing.T) {
	dob := time.Date(1980, 6, 15, 0, 0, 0, 0, time.UTC)
	p := &Patient{DateOfBirth: &dob}

	if got := p.AgeAt(time.Date(2020, 6, 14, 0, 0, 0, 0, time.UTC)); got != 39 {
		t.Errorf("day before birthday: expected 39, got %d", got)
	}
	if got := p.AgeAt(time.Date(2020, 6, 15, 0, 0, 0, 0, time.UTC)); got != 40 {
		t.Errorf("on birthday: expected 40, got %d", got)
	}

	noDOB := &Patient{}
	if got := noDOB.Age(); got != DefaultAge {
		t.Errorf("expected default age %d, got %d", DefaultAge, got)
	}
}
