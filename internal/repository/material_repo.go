package repository

import (
	"context"
	"fmt"

	"go-artisan-pricing/internal/apperr"
	"go-artisan-pricing/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MaterialRepository interface {
	FindAll(ctx context.Context, ownerID uuid.UUID) ([]model.Material, error)
	FindByID(ctx context.Context, ownerID, id uuid.UUID) (*model.Material, error)
	Create(ctx context.Context, material *model.Material) error
	Save(ctx context.Context, material *model.Material) error
	Delete(ctx context.Context, ownerID, id uuid.UUID, deletedBy string) error
	Stats(ctx context.Context, ownerID uuid.UUID) (*MaterialStats, error)
}

// MaterialStats summarizes an owner's catalog for the dashboard.
type MaterialStats struct {
	Count         int64   `json:"material_count"`
	TotalInvested float64 `json:"total_invested"`
}

type materialRepo struct {
	db *gorm.DB
}

func NewMaterialRepo(db *gorm.DB) MaterialRepository {
	return &materialRepo{db}
}

func (r *materialRepo) FindAll(ctx context.Context, ownerID uuid.UUID) ([]model.Material, error) {
	var materials []model.Material
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("name ASC").
		Find(&materials).Error
	if err != nil {
		return nil, wrap("list materials", err)
	}
	return materials, nil
}

func (r *materialRepo) FindByID(ctx context.Context, ownerID, id uuid.UUID) (*model.Material, error) {
	var material model.Material
	err := r.db.WithContext(ctx).First(&material, "owner_id = ? AND id = ?", ownerID, id).Error
	if err != nil {
		return nil, wrap(fmt.Sprintf("find material %s", id), err)
	}
	return &material, nil
}

// Create and Save both go through the BeforeSave hook, which recomputes
// the cached unit cost.
func (r *materialRepo) Create(ctx context.Context, material *model.Material) error {
	return wrap("create material", r.db.WithContext(ctx).Create(material).Error)
}

func (r *materialRepo) Save(ctx context.Context, material *model.Material) error {
	return wrap("save material", r.db.WithContext(ctx).Save(material).Error)
}

func (r *materialRepo) Delete(ctx context.Context, ownerID, id uuid.UUID, deletedBy string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Material{}).
			Where("owner_id = ? AND id = ?", ownerID, id).
			UpdateColumn("deleted_by", deletedBy)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("delete material %s: %w", id, apperr.ErrNotFound)
		}
		return tx.Where("owner_id = ? AND id = ?", ownerID, id).Delete(&model.Material{}).Error
	})
	return wrap("delete material", err)
}

func (r *materialRepo) Stats(ctx context.Context, ownerID uuid.UUID) (*MaterialStats, error) {
	var stats MaterialStats
	err := r.db.WithContext(ctx).Model(&model.Material{}).
		Select("COUNT(*) AS count, COALESCE(SUM(purchase_price), 0) AS total_invested").
		Where("owner_id = ?", ownerID).
		Scan(&stats).Error
	if err != nil {
		return nil, wrap("material stats", err)
	}
	return &stats, nil
}
