package service

import (
	"bytes"
	"context"
	"log/slog"
	"strings"

	"go-artisan-pricing/internal/export"
	"go-artisan-pricing/internal/metrics"
	"go-artisan-pricing/internal/model"
	"go-artisan-pricing/internal/repository"
	"go-artisan-pricing/internal/ws"

	"github.com/google/uuid"
)

type MaterialService interface {
	List(ctx context.Context, ownerID uuid.UUID) ([]model.Material, error)
	Get(ctx context.Context, ownerID, id uuid.UUID) (*model.Material, error)
	Create(ctx context.Context, ownerID uuid.UUID, actor string, in model.MaterialInput) (*model.Material, error)
	Update(ctx context.Context, ownerID, id uuid.UUID, actor string, patch model.MaterialPatch) (*model.Material, error)
	Delete(ctx context.Context, ownerID, id uuid.UUID, actor string) error
	Export(ctx context.Context, ownerID uuid.UUID) (*bytes.Buffer, error)
}

type materialService struct {
	repo     repository.MaterialRepository
	notifier Notifier
	metrics  *metrics.Metrics
	log      *slog.Logger
}

func NewMaterialService(repo repository.MaterialRepository, notifier Notifier, m *metrics.Metrics, log *slog.Logger) MaterialService {
	return &materialService{
		repo:     repo,
		notifier: notifierOrNop(notifier),
		metrics:  m,
		log:      log,
	}
}

func (s *materialService) List(ctx context.Context, ownerID uuid.UUID) ([]model.Material, error) {
	return s.repo.FindAll(ctx, ownerID)
}

func (s *materialService) Get(ctx context.Context, ownerID, id uuid.UUID) (*model.Material, error) {
	return s.repo.FindByID(ctx, ownerID, id)
}

func (s *materialService) Create(ctx context.Context, ownerID uuid.UUID, actor string, in model.MaterialInput) (*model.Material, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := validate(&in); err != nil {
		return nil, err
	}

	m := &model.Material{OwnerID: ownerID}
	m.Assign(in)
	m.Touch(actor)

	// BeforeSave fills UnitCost
	if err := s.repo.Create(ctx, m); err != nil {
		return nil, err
	}

	s.log.Info("material created", "owner_id", ownerID, "material_id", m.ID, "kind", m.MeasurementKind)
	s.metrics.MaterialWritten("create")
	s.notifier.Notify(ownerID, ws.MaterialCreated, m.ToResponse())
	return m, nil
}

// Update overlays patch on the stored material. Changing the kind clears
// the purchased quantities of the old kind and the unit cost is always
// recomputed.
func (s *materialService) Update(ctx context.Context, ownerID, id uuid.UUID, actor string, patch model.MaterialPatch) (*model.Material, error) {
	m, err := s.repo.FindByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	in := patch.Apply(m.Input())
	in.Name = strings.TrimSpace(in.Name)
	if err := validate(&in); err != nil {
		return nil, err
	}

	m.Assign(in)
	m.Touch(actor)
	if err := s.repo.Save(ctx, m); err != nil {
		return nil, err
	}

	s.log.Info("material updated", "owner_id", ownerID, "material_id", m.ID)
	s.metrics.MaterialWritten("update")
	s.notifier.Notify(ownerID, ws.MaterialUpdated, m.ToResponse())
	return m, nil
}

// Delete removes a material. Products already saved keep their copy of it.
func (s *materialService) Delete(ctx context.Context, ownerID, id uuid.UUID, actor string) error {
	if err := s.repo.Delete(ctx, ownerID, id, actor); err != nil {
		return err
	}

	s.log.Info("material deleted", "owner_id", ownerID, "material_id", id)
	s.metrics.MaterialWritten("delete")
	s.notifier.Notify(ownerID, ws.MaterialDeleted, map[string]uuid.UUID{"id": id})
	return nil
}

func (s *materialService) Export(ctx context.Context, ownerID uuid.UUID) (*bytes.Buffer, error) {
	materials, err := s.repo.FindAll(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return export.Materials(materials)
}
