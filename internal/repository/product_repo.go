package repository

import (
	"context"
	"fmt"

	"go-artisan-pricing/internal/apperr"
	"go-artisan-pricing/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProductRepository stores saved calculations. There is deliberately no
// Update: a product is frozen once written.
type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	FindAll(ctx context.Context, ownerID uuid.UUID) ([]model.Product, error)
	FindByID(ctx context.Context, ownerID, id uuid.UUID) (*model.Product, error)
	Delete(ctx context.Context, ownerID, id uuid.UUID, deletedBy string) error
	Stats(ctx context.Context, ownerID uuid.UUID) (*ProductStats, error)
}

// ProductSummary identifies a product in dashboard statistics.
type ProductSummary struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	FinalPrice float64   `json:"final_price"`
}

// ProductStats summarizes an owner's history for the dashboard.
type ProductStats struct {
	Count             int64           `json:"product_count"`
	AverageFinalPrice float64         `json:"average_final_price"`
	MostExpensive     *ProductSummary `json:"most_expensive,omitempty"`
	LeastExpensive    *ProductSummary `json:"least_expensive,omitempty"`
}

type productAggregate struct {
	Count   int64
	Average float64
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

// Create writes the product and its material lines in one transaction.
func (r *productRepo) Create(ctx context.Context, product *model.Product) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(product).Error; err != nil {
			return err
		}
		if len(product.Materials) == 0 {
			return nil
		}
		for i := range product.Materials {
			product.Materials[i].ProductID = product.ID
			product.Materials[i].Position = i
		}
		return tx.Create(&product.Materials).Error
	})
	return wrap("save product", err)
}

func withLines(db *gorm.DB) *gorm.DB {
	return db.Preload("Materials", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	})
}

// FindAll lists the owner's products, newest first.
func (r *productRepo) FindAll(ctx context.Context, ownerID uuid.UUID) ([]model.Product, error) {
	var products []model.Product
	err := withLines(r.db.WithContext(ctx)).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&products).Error
	if err != nil {
		return nil, wrap("list products", err)
	}
	return products, nil
}

func (r *productRepo) FindByID(ctx context.Context, ownerID, id uuid.UUID) (*model.Product, error) {
	var product model.Product
	err := withLines(r.db.WithContext(ctx)).
		First(&product, "owner_id = ? AND id = ?", ownerID, id).Error
	if err != nil {
		return nil, wrap(fmt.Sprintf("find product %s", id), err)
	}
	return &product, nil
}

func (r *productRepo) Delete(ctx context.Context, ownerID, id uuid.UUID, deletedBy string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Product{}).
			Where("owner_id = ? AND id = ?", ownerID, id).
			UpdateColumn("deleted_by", deletedBy)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("delete product %s: %w", id, apperr.ErrNotFound)
		}
		return tx.Where("owner_id = ? AND id = ?", ownerID, id).Delete(&model.Product{}).Error
	})
	return wrap("delete product", err)
}

func (r *productRepo) Stats(ctx context.Context, ownerID uuid.UUID) (*ProductStats, error) {
	db := r.db.WithContext(ctx)

	var agg productAggregate
	err := db.Model(&model.Product{}).
		Select("COUNT(*) AS count, COALESCE(AVG(final_price), 0) AS average").
		Where("owner_id = ?", ownerID).
		Scan(&agg).Error
	if err != nil {
		return nil, wrap("product stats", err)
	}

	stats := &ProductStats{Count: agg.Count, AverageFinalPrice: agg.Average}
	if agg.Count == 0 {
		return stats, nil
	}

	pick := func(order string) (*ProductSummary, error) {
		var s ProductSummary
		err := db.Model(&model.Product{}).
			Select("id, name, final_price").
			Where("owner_id = ?", ownerID).
			Order(order).
			Limit(1).
			Scan(&s).Error
		return &s, err
	}
	if stats.MostExpensive, err = pick("final_price DESC, created_at DESC"); err != nil {
		return nil, wrap("product stats", err)
	}
	if stats.LeastExpensive, err = pick("final_price ASC, created_at DESC"); err != nil {
		return nil, wrap("product stats", err)
	}
	return stats, nil
}
