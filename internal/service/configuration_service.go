package service

import (
	"context"
	"log/slog"

	"go-artisan-pricing/internal/model"
	"go-artisan-pricing/internal/pricing"
	"go-artisan-pricing/internal/repository"
	"go-artisan-pricing/internal/ws"

	"github.com/google/uuid"
)

// The sample quote on the configuration screen prices this much material
// and labor.
const (
	SampleMaterialsCost = 10.0
	SampleMinutes       = 60
)

type ConfigurationService interface {
	GetOrCreate(ctx context.Context, ownerID uuid.UUID) (*model.PricingConfiguration, error)
	Save(ctx context.Context, ownerID uuid.UUID, actor string, patch model.ConfigurationPatch) (*model.PricingConfiguration, error)
	View(ctx context.Context, ownerID uuid.UUID) (*model.ConfigurationResponse, error)
}

type configurationService struct {
	repo     repository.ConfigurationRepository
	notifier Notifier
	log      *slog.Logger
}

func NewConfigurationService(repo repository.ConfigurationRepository, notifier Notifier, log *slog.Logger) ConfigurationService {
	return &configurationService{repo: repo, notifier: notifierOrNop(notifier), log: log}
}

func (s *configurationService) GetOrCreate(ctx context.Context, ownerID uuid.UUID) (*model.PricingConfiguration, error) {
	return s.repo.GetOrCreate(ctx, ownerID)
}

// Save merges patch into the stored configuration. Fields left nil keep
// their value.
func (s *configurationService) Save(ctx context.Context, ownerID uuid.UUID, actor string, patch model.ConfigurationPatch) (*model.PricingConfiguration, error) {
	if err := validate(&patch); err != nil {
		return nil, err
	}

	cfg, err := s.repo.GetOrCreate(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	patch.Apply(cfg)
	cfg.Touch(actor)
	if err := s.repo.Save(ctx, cfg); err != nil {
		return nil, err
	}

	s.log.Info("configuration saved", "owner_id", ownerID, "hourly_rate", cfg.HourlyRate, "profit_margin_percent", cfg.ProfitMarginPercent)
	s.notifier.Notify(ownerID, ws.ConfigurationUpdated, withSample(cfg))
	return cfg, nil
}

func (s *configurationService) View(ctx context.Context, ownerID uuid.UUID) (*model.ConfigurationResponse, error) {
	cfg, err := s.repo.GetOrCreate(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	res := withSample(cfg)
	return &res, nil
}

func withSample(cfg *model.PricingConfiguration) model.ConfigurationResponse {
	res := cfg.ToResponse()
	if q, ok := sampleQuote(cfg); ok {
		res.SampleQuote = q
	}
	return res
}

func sampleQuote(cfg *model.PricingConfiguration) (*model.SampleQuote, bool) {
	b, err := pricing.ComputeProduct([]float64{SampleMaterialsCost}, SampleMinutes, cfg.PerMinuteRate(), cfg.ProfitMarginPercent)
	if err != nil {
		return nil, false
	}
	b = b.Rounded()
	return &model.SampleQuote{
		MaterialsCost:     b.MaterialsCost,
		ProductionMinutes: SampleMinutes,
		LaborCost:         b.LaborCost,
		TotalCost:         b.TotalCost,
		FinalPrice:        b.FinalPrice,
	}, true
}
