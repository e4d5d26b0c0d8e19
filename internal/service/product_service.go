package service

import (
	"bytes"
	"context"
	"log/slog"

	"go-artisan-pricing/internal/calculation"
	"go-artisan-pricing/internal/export"
	"go-artisan-pricing/internal/metrics"
	"go-artisan-pricing/internal/model"
	"go-artisan-pricing/internal/repository"
	"go-artisan-pricing/internal/ws"

	"github.com/google/uuid"
)

// CalculationRequest is a draft plus the optional margin typed on the
// result screen. A nil margin uses the owner's configuration.
type CalculationRequest struct {
	calculation.Draft
	ProfitMarginPercent *float64 `json:"profit_margin_percent"`
}

type ProductService interface {
	Calculate(ctx context.Context, ownerID uuid.UUID, req CalculationRequest) (*model.Product, error)
	Save(ctx context.Context, ownerID uuid.UUID, actor string, req CalculationRequest) (*model.Product, error)
	List(ctx context.Context, ownerID uuid.UUID) ([]model.Product, error)
	Get(ctx context.Context, ownerID, id uuid.UUID) (*model.Product, error)
	Delete(ctx context.Context, ownerID, id uuid.UUID, actor string) error
	Export(ctx context.Context, ownerID uuid.UUID) (*bytes.Buffer, error)
}

type productService struct {
	products  repository.ProductRepository
	materials repository.MaterialRepository
	configs   repository.ConfigurationRepository
	notifier  Notifier
	metrics   *metrics.Metrics
	log       *slog.Logger
}

func NewProductService(
	products repository.ProductRepository,
	materials repository.MaterialRepository,
	configs repository.ConfigurationRepository,
	notifier Notifier,
	m *metrics.Metrics,
	log *slog.Logger,
) ProductService {
	return &productService{
		products:  products,
		materials: materials,
		configs:   configs,
		notifier:  notifierOrNop(notifier),
		metrics:   m,
		log:       log,
	}
}

// session loads the owner's current materials and configuration and runs
// the draft up to Calculated.
func (s *productService) session(ctx context.Context, ownerID uuid.UUID, req CalculationRequest) (*calculation.Session, error) {
	if err := req.Draft.Validate(); err != nil {
		return nil, err
	}
	if req.ProfitMarginPercent != nil {
		if err := calculation.ValidateMargin("profit_margin_percent", *req.ProfitMarginPercent); err != nil {
			return nil, err
		}
	}

	materials, err := s.materials.FindAll(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	cfg, err := s.configs.GetOrCreate(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	sess := calculation.NewSession(materials, *cfg)
	if err := sess.SetDraft(req.Draft); err != nil {
		return nil, err
	}
	p, err := sess.Calculate()
	if err != nil {
		return nil, err
	}
	if req.ProfitMarginPercent != nil {
		if p, err = sess.OverrideMargin(*req.ProfitMarginPercent); err != nil {
			return nil, err
		}
	}

	s.metrics.Calculated()
	if names := calculation.ZeroCostLines(p); len(names) > 0 {
		s.log.Debug("materials without unit cost used", "owner_id", ownerID, "materials", names)
	}
	return sess, nil
}

// Calculate prices the draft without storing anything.
func (s *productService) Calculate(ctx context.Context, ownerID uuid.UUID, req CalculationRequest) (*model.Product, error) {
	sess, err := s.session(ctx, ownerID, req)
	if err != nil {
		return nil, err
	}
	return sess.Result(), nil
}

// Save prices the draft against the materials as they are now and writes
// the snapshot to the history in one transaction.
func (s *productService) Save(ctx context.Context, ownerID uuid.UUID, actor string, req CalculationRequest) (*model.Product, error) {
	sess, err := s.session(ctx, ownerID, req)
	if err != nil {
		return nil, err
	}

	p, err := sess.Save(func(p *model.Product) error {
		p.Touch(actor)
		return s.products.Create(ctx, p)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("product saved", "owner_id", ownerID, "product_id", p.ID, "final_price", p.FinalPrice)
	s.metrics.ProductSaved()
	s.notifier.Notify(ownerID, ws.ProductSaved, p.ToResponse())
	return p, nil
}

func (s *productService) List(ctx context.Context, ownerID uuid.UUID) ([]model.Product, error) {
	return s.products.FindAll(ctx, ownerID)
}

func (s *productService) Get(ctx context.Context, ownerID, id uuid.UUID) (*model.Product, error) {
	return s.products.FindByID(ctx, ownerID, id)
}

func (s *productService) Delete(ctx context.Context, ownerID, id uuid.UUID, actor string) error {
	if err := s.products.Delete(ctx, ownerID, id, actor); err != nil {
		return err
	}
	s.log.Info("product deleted", "owner_id", ownerID, "product_id", id)
	s.notifier.Notify(ownerID, ws.ProductDeleted, map[string]uuid.UUID{"id": id})
	return nil
}

func (s *productService) Export(ctx context.Context, ownerID uuid.UUID) (*bytes.Buffer, error) {
	products, err := s.products.FindAll(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return export.Products(products)
}
