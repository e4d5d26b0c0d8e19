package model

import (
	"fmt"
	"time"

	"go-artisan-pricing/internal/pricing"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Material is a raw material bought by an owner. UnitCost is derived from
// the purchase and kept in sync by BeforeSave.
type Material struct {
	BaseModel
	OwnerID         uuid.UUID               `gorm:"type:uuid;index;not null" json:"owner_id"`
	Name            string                  `gorm:"type:varchar(255);not null" json:"name"`
	MeasurementKind pricing.MeasurementKind `gorm:"type:varchar(10);not null" json:"measurement_kind"`
	PurchasePrice   float64                 `gorm:"not null" json:"purchase_price"`
	PurchasedUnits  int64                   `json:"purchased_units"`
	PurchasedLength float64                 `json:"purchased_length"`
	PurchasedWidth  float64                 `json:"purchased_width"`
	PurchasedHeight float64                 `json:"purchased_height"`
	UnitCost        float64                 `gorm:"not null" json:"unit_cost"`

	Supplier     string     `gorm:"type:varchar(255)" json:"supplier"`
	Notes        string     `gorm:"type:text" json:"notes"`
	PurchaseDate *time.Time `gorm:"type:date" json:"purchase_date,omitempty"`
}

// Purchased returns the purchased quantity as a pricing.Quantity.
func (m *Material) Purchased() pricing.Quantity {
	return pricing.Quantity{
		Units:  float64(m.PurchasedUnits),
		Length: m.PurchasedLength,
		Width:  m.PurchasedWidth,
		Height: m.PurchasedHeight,
	}
}

// Recompute clears the quantity fields that do not belong to the current
// kind and refreshes UnitCost.
func (m *Material) Recompute() error {
	q := pricing.Relevant(m.MeasurementKind, m.Purchased())
	m.PurchasedUnits = int64(q.Units)
	m.PurchasedLength = q.Length
	m.PurchasedWidth = q.Width
	m.PurchasedHeight = q.Height

	unitCost, err := pricing.Normalize(m.MeasurementKind, m.PurchasePrice, q)
	if err != nil {
		return fmt.Errorf("material %q: %w", m.Name, err)
	}
	m.UnitCost = unitCost
	return nil
}

// BeforeSave runs on every create and save, so a stored UnitCost always
// matches the stored purchase.
func (m *Material) BeforeSave(tx *gorm.DB) error {
	return m.Recompute()
}

// MaterialInput is the body accepted when creating a material.
type MaterialInput struct {
	Name            string                  `json:"name" validate:"required,max=255"`
	MeasurementKind pricing.MeasurementKind `json:"measurement_kind" validate:"required,oneof=unit length area"`
	PurchasePrice   float64                 `json:"purchase_price" validate:"finite,gte=0"`
	PurchasedUnits  int64                   `json:"purchased_units" validate:"gte=0"`
	PurchasedLength float64                 `json:"purchased_length" validate:"finite,gte=0"`
	PurchasedWidth  float64                 `json:"purchased_width" validate:"finite,gte=0"`
	PurchasedHeight float64                 `json:"purchased_height" validate:"finite,gte=0"`
	Supplier        string                  `json:"supplier" validate:"max=255"`
	Notes           string                  `json:"notes"`
	PurchaseDate    *time.Time              `json:"purchase_date"`
}

// MaterialPatch is a partial update. Nil fields keep their stored value.
type MaterialPatch struct {
	Name            *string                  `json:"name"`
	MeasurementKind *pricing.MeasurementKind `json:"measurement_kind"`
	PurchasePrice   *float64                 `json:"purchase_price"`
	PurchasedUnits  *int64                   `json:"purchased_units"`
	PurchasedLength *float64                 `json:"purchased_length"`
	PurchasedWidth  *float64                 `json:"purchased_width"`
	PurchasedHeight *float64                 `json:"purchased_height"`
	Supplier        *string                  `json:"supplier"`
	Notes           *string                  `json:"notes"`
	PurchaseDate    *time.Time               `json:"purchase_date"`
}

// Input returns the editable fields of m.
func (m *Material) Input() MaterialInput {
	return MaterialInput{
		Name:            m.Name,
		MeasurementKind: m.MeasurementKind,
		PurchasePrice:   m.PurchasePrice,
		PurchasedUnits:  m.PurchasedUnits,
		PurchasedLength: m.PurchasedLength,
		PurchasedWidth:  m.PurchasedWidth,
		PurchasedHeight: m.PurchasedHeight,
		Supplier:        m.Supplier,
		Notes:           m.Notes,
		PurchaseDate:    m.PurchaseDate,
	}
}

// Apply overlays the non-nil fields of p onto in.
func (p MaterialPatch) Apply(in MaterialInput) MaterialInput {
	if p.Name != nil {
		in.Name = *p.Name
	}
	if p.MeasurementKind != nil {
		in.MeasurementKind = *p.MeasurementKind
	}
	if p.PurchasePrice != nil {
		in.PurchasePrice = *p.PurchasePrice
	}
	if p.PurchasedUnits != nil {
		in.PurchasedUnits = *p.PurchasedUnits
	}
	if p.PurchasedLength != nil {
		in.PurchasedLength = *p.PurchasedLength
	}
	if p.PurchasedWidth != nil {
		in.PurchasedWidth = *p.PurchasedWidth
	}
	if p.PurchasedHeight != nil {
		in.PurchasedHeight = *p.PurchasedHeight
	}
	if p.Supplier != nil {
		in.Supplier = *p.Supplier
	}
	if p.Notes != nil {
		in.Notes = *p.Notes
	}
	if p.PurchaseDate != nil {
		in.PurchaseDate = p.PurchaseDate
	}
	return in
}

// Assign copies in onto m. The price is rounded to cents.
func (m *Material) Assign(in MaterialInput) {
	m.Name = in.Name
	m.MeasurementKind = in.MeasurementKind
	m.PurchasePrice = pricing.RoundMoney(in.PurchasePrice)
	m.PurchasedUnits = in.PurchasedUnits
	m.PurchasedLength = in.PurchasedLength
	m.PurchasedWidth = in.PurchasedWidth
	m.PurchasedHeight = in.PurchasedHeight
	m.Supplier = in.Supplier
	m.Notes = in.Notes
	m.PurchaseDate = in.PurchaseDate
}

// MaterialResponse is used for API responses
type MaterialResponse struct {
	ID              uuid.UUID               `json:"id"`
	Name            string                  `json:"name"`
	MeasurementKind pricing.MeasurementKind `json:"measurement_kind"`
	PurchasePrice   float64                 `json:"purchase_price"`
	PurchasedUnits  int64                   `json:"purchased_units,omitempty"`
	PurchasedLength float64                 `json:"purchased_length,omitempty"`
	PurchasedWidth  float64                 `json:"purchased_width,omitempty"`
	PurchasedHeight float64                 `json:"purchased_height,omitempty"`
	UnitCost        float64                 `json:"unit_cost"`
	Supplier        string                  `json:"supplier,omitempty"`
	Notes           string                  `json:"notes,omitempty"`
	PurchaseDate    *time.Time              `json:"purchase_date,omitempty"`
	CreatedAt       time.Time               `json:"created_at"`
	UpdatedAt       time.Time               `json:"updated_at"`
}

// ToResponse converts Material to MaterialResponse
func (m *Material) ToResponse() MaterialResponse {
	return MaterialResponse{
		ID:              m.ID,
		Name:            m.Name,
		MeasurementKind: m.MeasurementKind,
		PurchasePrice:   pricing.RoundMoney(m.PurchasePrice),
		PurchasedUnits:  m.PurchasedUnits,
		PurchasedLength: m.PurchasedLength,
		PurchasedWidth:  m.PurchasedWidth,
		PurchasedHeight: m.PurchasedHeight,
		UnitCost:        pricing.RoundUnitCost(m.UnitCost),
		Supplier:        m.Supplier,
		Notes:           m.Notes,
		PurchaseDate:    m.PurchaseDate,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}
