package assessment

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) HistoryRepository { return &repoPG{pool: pool} }

const assessmentCols = `id, patient_id, gender, age, hypertension, heart_disease, ever_married,
	work_type, residence_type, avg_glucose_level, bmi, smoking_status,
	risk_level, risk_score, confidence, probability_no, probability_yes, created_at`

// History returns up to limit records, newest first. The id tiebreak
// keeps same-timestamp inserts in a stable order.
func (r *repoPG) History(ctx context.Context, patientID uuid.UUID, limit int) ([]*AssessmentRecord, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+assessmentCols+`
		FROM health_assessment
		WHERE patient_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2`, patientID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*AssessmentRecord
	for rows.Next() {
		var a AssessmentRecord
		if err := rows.Scan(&a.ID, &a.PatientID, &a.Gender, &a.Age, &a.Hypertension,
			&a.HeartDisease, &a.EverMarried, &a.WorkType, &a.ResidenceType,
			&a.AvgGlucoseLevel, &a.BMI, &a.SmokingStatus,
			&a.RiskLevel, &a.RiskScore, &a.Confidence,
			&a.ProbabilityNo, &a.ProbabilityYes, &a.CreatedAt); err != nil {
			return nil, err
		}
		records = append(records, &a)
	}
	return records, rows.Err()
}

func (r *repoPG) Append(ctx context.Context, rec *AssessmentRecord) error {
	rec.ID = uuid.New()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO health_assessment (
			id, patient_id, gender, age, hypertension, heart_disease, ever_married,
			work_type, residence_type, avg_glucose_level, bmi, smoking_status,
			risk_level, risk_score, confidence, probability_no, probability_yes
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)`,
		rec.ID, rec.PatientID, rec.Gender, rec.Age, rec.Hypertension, rec.HeartDisease,
		rec.EverMarried, rec.WorkType, rec.ResidenceType, rec.AvgGlucoseLevel,
		rec.BMI, rec.SmokingStatus, rec.RiskLevel, rec.RiskScore, rec.Confidence,
		rec.ProbabilityNo, rec.ProbabilityYes)
	return err
}
