package analytics

import (
	"context"
	"fmt"
)

// DefaultHighRiskThreshold matches the MODERATE RISK boundary.
const DefaultHighRiskThreshold = 50.0

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Dashboard(ctx context.Context) (*DashboardStats, error) {
	return s.repo.DashboardStats(ctx)
}

func (s *Service) HighRisk(ctx context.Context, threshold float64, limit int) ([]*HighRiskPatient, error) {
	if threshold < 0 || threshold > 100 {
		return nil, fmt.Errorf("threshold must be in [0,100]")
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.repo.HighRiskPatients(ctx, threshold, limit)
}
