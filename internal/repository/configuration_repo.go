package repository

import (
	"context"

	"go-artisan-pricing/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ConfigurationRepository interface {
	GetOrCreate(ctx context.Context, ownerID uuid.UUID) (*model.PricingConfiguration, error)
	Save(ctx context.Context, cfg *model.PricingConfiguration) error
}

type configurationRepo struct {
	db *gorm.DB
}

func NewConfigurationRepo(db *gorm.DB) ConfigurationRepository {
	return &configurationRepo{db}
}

// GetOrCreate returns the owner's configuration, inserting the defaults the
// first time. The unique owner index keeps it to one row even when two
// requests race; the loser simply reads the winner's row.
func (r *configurationRepo) GetOrCreate(ctx context.Context, ownerID uuid.UUID) (*model.PricingConfiguration, error) {
	defaults := model.DefaultConfiguration(ownerID)
	defaults.CreatedBy = ownerID.String()
	defaults.UpdatedBy = ownerID.String()

	var cfg model.PricingConfiguration
	err := r.db.WithContext(ctx).
		Where(model.PricingConfiguration{OwnerID: ownerID}).
		Attrs(defaults).
		FirstOrCreate(&cfg).Error
	if err != nil {
		var existing model.PricingConfiguration
		if again := r.db.WithContext(ctx).First(&existing, "owner_id = ?", ownerID).Error; again == nil {
			return &existing, nil
		}
		return nil, wrap("get or create configuration", err)
	}
	return &cfg, nil
}

func (r *configurationRepo) Save(ctx context.Context, cfg *model.PricingConfiguration) error {
	return wrap("save configuration", r.db.WithContext(ctx).Save(cfg).Error)
}
