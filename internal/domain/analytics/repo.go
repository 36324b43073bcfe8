package analytics

import "context"

type Repository interface {
	DashboardStats(ctx context.Context) (*DashboardStats, error)
	// HighRiskPatients returns patients whose latest assessment scored
	// at or above threshold, highest score first.
	HighRiskPatients(ctx context.Context, threshold float64, limit int) ([]*HighRiskPatient, error)
}
