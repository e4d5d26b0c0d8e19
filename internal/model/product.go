package model

import (
	"time"

	"go-artisan-pricing/internal/pricing"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Product is a saved price calculation. Everything it needs to be displayed
// is frozen at save time; it has no update path.
type Product struct {
	BaseModel
	OwnerID             uuid.UUID `gorm:"type:uuid;index;not null" json:"owner_id"`
	Name                string    `gorm:"type:varchar(255);not null" json:"name"`
	ProductionMinutes   int       `gorm:"not null" json:"production_minutes"`
	HourlyRate          float64   `gorm:"not null" json:"hourly_rate"`
	MaterialsCost       float64   `gorm:"not null" json:"materials_cost"`
	LaborCost           float64   `gorm:"not null" json:"labor_cost"`
	TotalCost           float64   `gorm:"not null" json:"total_cost"`
	ProfitMarginPercent float64   `gorm:"not null" json:"profit_margin_percent"`
	Profit              float64   `gorm:"not null" json:"profit"`
	FinalPrice          float64   `gorm:"not null" json:"final_price"`

	// Material lines, frozen at save time
	Materials []ProductMaterialUsage `gorm:"foreignKey:ProductID" json:"materials"`
}

// ProductMaterialUsage is one material line of a saved product. MaterialID
// is kept for reference only and never looked up again.
type ProductMaterialUsage struct {
	ID              uuid.UUID               `gorm:"type:uuid;primary_key;" json:"id"`
	ProductID       uuid.UUID               `gorm:"type:uuid;index;not null" json:"product_id"`
	Position        int                     `gorm:"not null" json:"position"`
	MaterialID      uuid.UUID               `gorm:"type:uuid;not null" json:"material_id"`
	Name            string                  `gorm:"type:varchar(255);not null" json:"name"`
	MeasurementKind pricing.MeasurementKind `gorm:"type:varchar(10);not null" json:"measurement_kind"`
	UnitCost        float64                 `gorm:"not null" json:"unit_cost"`
	UnitsUsed       float64                 `json:"units_used"`
	LengthUsed      float64                 `json:"length_used"`
	WidthUsed       float64                 `json:"width_used"`
	HeightUsed      float64                 `json:"height_used"`
	LineCost        float64                 `gorm:"not null" json:"line_cost"`
}

func (u *ProductMaterialUsage) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// Consumed returns the consumed quantity as a pricing.Quantity.
func (u *ProductMaterialUsage) Consumed() pricing.Quantity {
	return pricing.Quantity{Units: u.UnitsUsed, Length: u.LengthUsed, Width: u.WidthUsed, Height: u.HeightUsed}
}

// Breakdown returns the stored totals.
func (p *Product) Breakdown() pricing.Breakdown {
	return pricing.Breakdown{
		MaterialsCost: p.MaterialsCost,
		LaborCost:     p.LaborCost,
		TotalCost:     p.TotalCost,
		Profit:        p.Profit,
		FinalPrice:    p.FinalPrice,
	}
}

// UsageResponse is a rounded material line for API responses
type UsageResponse struct {
	MaterialID      uuid.UUID               `json:"material_id"`
	Name            string                  `json:"name"`
	MeasurementKind pricing.MeasurementKind `json:"measurement_kind"`
	UnitCost        float64                 `json:"unit_cost"`
	UnitsUsed       float64                 `json:"units_used,omitempty"`
	LengthUsed      float64                 `json:"length_used,omitempty"`
	WidthUsed       float64                 `json:"width_used,omitempty"`
	HeightUsed      float64                 `json:"height_used,omitempty"`
	LineCost        float64                 `json:"line_cost"`
}

// ProductResponse is used for API responses. Money is rounded to cents.
type ProductResponse struct {
	ID                  *uuid.UUID      `json:"id,omitempty"`
	Name                string          `json:"name"`
	Materials           []UsageResponse `json:"materials"`
	ProductionMinutes   int             `json:"production_minutes"`
	HourlyRate          float64         `json:"hourly_rate"`
	MaterialsCost       float64         `json:"materials_cost"`
	LaborCost           float64         `json:"labor_cost"`
	TotalCost           float64         `json:"total_cost"`
	ProfitMarginPercent float64         `json:"profit_margin_percent"`
	Profit              float64         `json:"profit"`
	FinalPrice          float64         `json:"final_price"`
	CreatedAt           *time.Time      `json:"created_at,omitempty"`
}

// ToResponse converts Product to ProductResponse
func (p *Product) ToResponse() ProductResponse {
	lines := make([]UsageResponse, len(p.Materials))
	for i, u := range p.Materials {
		lines[i] = UsageResponse{
			MaterialID:      u.MaterialID,
			Name:            u.Name,
			MeasurementKind: u.MeasurementKind,
			UnitCost:        pricing.RoundUnitCost(u.UnitCost),
			UnitsUsed:       u.UnitsUsed,
			LengthUsed:      u.LengthUsed,
			WidthUsed:       u.WidthUsed,
			HeightUsed:      u.HeightUsed,
			LineCost:        pricing.RoundMoney(u.LineCost),
		}
	}

	b := p.Breakdown().Rounded()
	resp := ProductResponse{
		Name:                p.Name,
		Materials:           lines,
		ProductionMinutes:   p.ProductionMinutes,
		HourlyRate:          pricing.RoundMoney(p.HourlyRate),
		MaterialsCost:       b.MaterialsCost,
		LaborCost:           b.LaborCost,
		TotalCost:           b.TotalCost,
		ProfitMarginPercent: p.ProfitMarginPercent,
		Profit:              b.Profit,
		FinalPrice:          b.FinalPrice,
	}
	if p.ID != uuid.Nil {
		id := p.ID
		resp.ID = &id
	}
	if !p.CreatedAt.IsZero() {
		created := p.CreatedAt
		resp.CreatedAt = &created
	}
	return resp
}
