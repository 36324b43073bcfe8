package assessment

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/clinicore/hms/internal/domain/patient"
	"github.com/clinicore/hms/internal/platform/ml"
)

type mockPatients struct {
	patients map[uuid.UUID]*patient.Patient
	failErr  error
}

func newMockPatients() *mockPatients {
	return &mockPatients{patients: make(map[uuid.UUID]*patient.Patient)}
}

func (m *mockPatients) add(p *patient.Patient) uuid.UUID {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().AddDate(-2, 0, 0)
	}
	m.patients[p.ID] = p
	return p.ID
}

func (m *mockPatients) GetByID(_ context.Context, id uuid.UUID) (*patient.Patient, error) {
	if m.failErr != nil {
		return nil, m.failErr
	}
	p, ok := m.patients[id]
	if !ok {
		return nil, patient.ErrNotFound
	}
	return p, nil
}

// mockHistory keeps records newest first, matching the repository's
// ordering contract.
type mockHistory struct {
	records []*AssessmentRecord
	failErr error
}

func (m *mockHistory) History(_ context.Context, patientID uuid.UUID, limit int) ([]*AssessmentRecord, error) {
	if m.failErr != nil {
		return nil, m.failErr
	}
	var out []*AssessmentRecord
	for _, rec := range m.records {
		if rec.PatientID == patientID {
			out = append(out, rec)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

func (m *mockHistory) Append(_ context.Context, rec *AssessmentRecord) error {
	if m.failErr != nil {
		return m.failErr
	}
	rec.ID = uuid.New()
	rec.CreatedAt = time.Now()
	m.records = append([]*AssessmentRecord{rec}, m.records...)
	return nil
}

// addScores seeds records for a patient, oldest score first in the
// argument list so the last argument becomes the latest record.
func (m *mockHistory) addScores(patientID uuid.UUID, scores ...float64) {
	for _, score := range scores {
		m.Append(context.Background(), &AssessmentRecord{PatientID: patientID, RiskScore: score})
	}
}

// fixedClassifier always answers with the given positive-class
// probability.
type fixedClassifier struct {
	p1  float64
	err error
}

func (f *fixedClassifier) Classify(_ context.Context, features []float64) (ml.Classification, error) {
	if f.err != nil {
		return ml.Classification{}, f.err
	}
	label := 0
	if f.p1 >= 0.5 {
		label = 1
	}
	return ml.Classification{Label: label, Probabilities: [2]float64{1 - f.p1, f.p1}}, nil
}

// captureClassifier records the feature vector it was called with.
type captureClassifier struct {
	fixedClassifier
	lastVector []float64
}

func (c *captureClassifier) Classify(ctx context.Context, features []float64) (ml.Classification, error) {
	c.lastVector = features
	return c.fixedClassifier.Classify(ctx, features)
}

func testModel(c ml.Classifier) *ml.Model {
	return &ml.Model{
		Classifier: c,
		Encoders: ml.Encoders{
			"gender":         {"Male": 1, "Female": 0},
			"ever_married":   {"Yes": 1, "No": 0},
			"work_type":      {"Private": 2, "Self-employed": 3},
			"residence_type": {"Urban": 1, "Rural": 0},
			"smoking_status": {"never smoked": 2, "smokes": 3},
		},
	}
}

func floatPtr(f float64) *float64 { return &f }

func testPipeline(patients *mockPatients, history *mockHistory, classifier ml.Classifier) *Service {
	log := zerolog.Nop()
	extractor := NewExtractor(patients, history, log)
	blender := NewBlender(extractor)
	trends := NewTrendAnalyzer(patients, history, log)
	scorer := NewScorer(testModel(classifier), log)
	return NewService(blender, trends, scorer, history, patients, log)
}
