package service

import (
	"context"

	"go-artisan-pricing/internal/pricing"
	"go-artisan-pricing/internal/repository"

	"github.com/google/uuid"
)

// DashboardStats is the owner's home page summary.
type DashboardStats struct {
	*repository.MaterialStats
	*repository.ProductStats
}

type DashboardService interface {
	GetDashboardStats(ctx context.Context, ownerID uuid.UUID) (*DashboardStats, error)
}

type dashboardService struct {
	materials repository.MaterialRepository
	products  repository.ProductRepository
}

func NewDashboardService(materials repository.MaterialRepository, products repository.ProductRepository) DashboardService {
	return &dashboardService{materials: materials, products: products}
}

func (s *dashboardService) GetDashboardStats(ctx context.Context, ownerID uuid.UUID) (*DashboardStats, error) {
	ms, err := s.materials.Stats(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	ps, err := s.products.Stats(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	ms.TotalInvested = pricing.RoundMoney(ms.TotalInvested)
	ps.AverageFinalPrice = pricing.RoundMoney(ps.AverageFinalPrice)
	for _, p := range []*repository.ProductSummary{ps.MostExpensive, ps.LeastExpensive} {
		if p != nil {
			p.FinalPrice = pricing.RoundMoney(p.FinalPrice)
		}
	}
	return &DashboardStats{MaterialStats: ms, ProductStats: ps}, nil
}
