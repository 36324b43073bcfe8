package analytics

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) DashboardStats(ctx context.Context) (*DashboardStats, error) {
	var stats DashboardStats
	err := r.pool.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM patient WHERE active),
			(SELECT COUNT(*) FROM appointment WHERE status = 'Scheduled'),
			(SELECT COUNT(*) FROM patient WHERE created_at >= CURRENT_DATE),
			(SELECT COALESCE(SUM(amount), 0) FROM bill WHERE status = 'Unpaid')
	`).Scan(&stats.TotalPatients, &stats.ScheduledAppointments,
		&stats.RegisteredToday, &stats.UnpaidTotal)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

func (r *repoPG) HighRiskPatients(ctx context.Context, threshold float64, limit int) ([]*HighRiskPatient, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT latest.patient_id, p.first_name, p.last_name,
		       latest.risk_level, latest.risk_score, latest.created_at
		FROM (
			SELECT DISTINCT ON (patient_id)
			       patient_id, risk_level, risk_score, created_at
			FROM health_assessment
			ORDER BY patient_id, created_at DESC, id DESC
		) latest
		JOIN patient p ON p.id = latest.patient_id
		WHERE latest.risk_score >= $1
		ORDER BY latest.risk_score DESC
		LIMIT $2`, threshold, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*HighRiskPatient
	for rows.Next() {
		var h HighRiskPatient
		if err := rows.Scan(&h.PatientID, &h.FirstName, &h.LastName,
			&h.RiskLevel, &h.RiskScore, &h.AssessedAt); err != nil {
			return nil, err
		}
		items = append(items, &h)
	}
	return items, rows.Err()
}
