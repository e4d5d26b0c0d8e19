package model

import (
	"go-artisan-pricing/internal/pricing"

	"github.com/google/uuid"
)

const (
	DefaultHourlyRate          = 20.0
	DefaultProfitMarginPercent = 50.0
)

// PricingConfiguration holds an owner's labor rate and default margin.
// There is exactly one row per owner.
type PricingConfiguration struct {
	BaseModel
	OwnerID             uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"owner_id"`
	HourlyRate          float64   `gorm:"not null" json:"hourly_rate"`
	ProfitMarginPercent float64   `gorm:"not null" json:"profit_margin_percent"`
}

// DefaultConfiguration returns the configuration a new owner starts with.
func DefaultConfiguration(ownerID uuid.UUID) PricingConfiguration {
	return PricingConfiguration{
		OwnerID:             ownerID,
		HourlyRate:          DefaultHourlyRate,
		ProfitMarginPercent: DefaultProfitMarginPercent,
	}
}

// PerMinuteRate is derived on demand and never stored.
func (c *PricingConfiguration) PerMinuteRate() float64 {
	return pricing.PerMinuteRate(c.HourlyRate)
}

// ConfigurationPatch is a partial update; nil fields are left unchanged.
type ConfigurationPatch struct {
	HourlyRate          *float64 `json:"hourly_rate" validate:"omitempty,finite,gte=0"`
	ProfitMarginPercent *float64 `json:"profit_margin_percent" validate:"omitempty,finite,gte=0,lte=500"`
}

// Apply overlays the non-nil fields of p onto c.
func (p ConfigurationPatch) Apply(c *PricingConfiguration) {
	if p.HourlyRate != nil {
		c.HourlyRate = pricing.RoundMoney(*p.HourlyRate)
	}
	if p.ProfitMarginPercent != nil {
		c.ProfitMarginPercent = *p.ProfitMarginPercent
	}
}

// ConfigurationResponse is used for API responses
type ConfigurationResponse struct {
	HourlyRate          float64      `json:"hourly_rate"`
	ProfitMarginPercent float64      `json:"profit_margin_percent"`
	PerMinuteRate       float64      `json:"per_minute_rate"`
	SampleQuote         *SampleQuote `json:"sample_quote,omitempty"`
}

// SampleQuote shows what a product with fixed materials and labor would
// cost under the configuration.
type SampleQuote struct {
	MaterialsCost     float64 `json:"materials_cost"`
	ProductionMinutes int     `json:"production_minutes"`
	LaborCost         float64 `json:"labor_cost"`
	TotalCost         float64 `json:"total_cost"`
	FinalPrice        float64 `json:"final_price"`
}

// ToResponse converts PricingConfiguration to ConfigurationResponse
func (c *PricingConfiguration) ToResponse() ConfigurationResponse {
	return ConfigurationResponse{
		HourlyRate:          pricing.RoundMoney(c.HourlyRate),
		ProfitMarginPercent: c.ProfitMarginPercent,
		PerMinuteRate:       pricing.RoundUnitCost(c.PerMinuteRate()),
	}
}
