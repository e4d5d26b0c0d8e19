// Package calculation turns an owner's draft into a priced product snapshot.
package calculation

import (
	"errors"
	"fmt"
	"strings"

	"go-artisan-pricing/internal/apperr"
	"go-artisan-pricing/internal/model"
	"go-artisan-pricing/internal/pricing"
	"go-artisan-pricing/pkg/validator"

	"github.com/google/uuid"
)

// UsageInput is one material line as entered by the owner. Only the fields
// matching the material's kind are read; missing ones count as zero.
type UsageInput struct {
	MaterialID uuid.UUID `json:"material_id" validate:"uuid_required"`
	UnitsUsed  float64   `json:"units_used" validate:"finite,gte=0"`
	LengthUsed float64   `json:"length_used" validate:"finite,gte=0"`
	WidthUsed  float64   `json:"width_used" validate:"finite,gte=0"`
	HeightUsed float64   `json:"height_used" validate:"finite,gte=0"`
}

func (u UsageInput) Quantity() pricing.Quantity {
	return pricing.Quantity{Units: u.UnitsUsed, Length: u.LengthUsed, Width: u.WidthUsed, Height: u.HeightUsed}
}

// Draft is the editable part of a calculation.
type Draft struct {
	Name              string       `json:"name" validate:"max=255"`
	Materials         []UsageInput `json:"materials" validate:"dive"`
	ProductionMinutes int          `json:"production_minutes"`
}

// Validate applies the rule that enables "calculate": a name, at least one
// material line and a production time above zero.
func (d Draft) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return apperr.Invalid("name", "is required")
	}
	if len(d.Materials) == 0 {
		return apperr.Invalid("materials", "add at least one material")
	}
	if d.ProductionMinutes <= 0 {
		return apperr.Invalid("production_minutes", "must be greater than 0")
	}
	if e := validator.First(&d); e != nil {
		return apperr.Invalid(e.FailedField, e.Message())
	}
	return nil
}

// ValidateMargin checks a margin against the bound shared by the
// configuration screen and the inline override.
func ValidateMargin(field string, pct float64) error {
	switch {
	case !pricing.IsFinite(pct):
		return apperr.Invalid(field, "must be a finite number")
	case pct < 0:
		return apperr.Invalid(field, "must be greater than or equal to 0")
	case pct > pricing.MaxMarginPercent:
		return apperr.Invalid(field, fmt.Sprintf("must be less than or equal to %g", pricing.MaxMarginPercent))
	}
	return nil
}

// BuildSnapshot prices a draft against the given materials and
// configuration and returns an unsaved product. Every line copies the
// material's name, kind and unit cost, so the result never depends on the
// materials again. A line naming a material absent from materials fails
// with *apperr.MissingReferenceError.
func BuildSnapshot(name string, materials []model.Material, inputs []UsageInput, productionMinutes int, cfg model.PricingConfiguration, marginOverride *float64) (*model.Product, error) {
	draft := Draft{Name: name, Materials: inputs, ProductionMinutes: productionMinutes}
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	margin := cfg.ProfitMarginPercent
	if marginOverride != nil {
		if err := ValidateMargin("profit_margin_percent", *marginOverride); err != nil {
			return nil, err
		}
		margin = *marginOverride
	}

	byID := make(map[uuid.UUID]*model.Material, len(materials))
	for i := range materials {
		byID[materials[i].ID] = &materials[i]
	}

	lines := make([]model.ProductMaterialUsage, 0, len(inputs))
	costs := make([]float64, 0, len(inputs))
	for i, in := range inputs {
		m, ok := byID[in.MaterialID]
		if !ok {
			return nil, &apperr.MissingReferenceError{MaterialID: in.MaterialID}
		}

		consumed := pricing.Relevant(m.MeasurementKind, in.Quantity())
		cost, err := pricing.LineCost(m.MeasurementKind, m.UnitCost, consumed)
		if err != nil {
			return nil, apperr.Invalid(fmt.Sprintf("materials[%d]", i), err.Error())
		}

		lines = append(lines, model.ProductMaterialUsage{
			Position:        i,
			MaterialID:      m.ID,
			Name:            m.Name,
			MeasurementKind: m.MeasurementKind,
			UnitCost:        m.UnitCost,
			UnitsUsed:       consumed.Units,
			LengthUsed:      consumed.Length,
			WidthUsed:       consumed.Width,
			HeightUsed:      consumed.Height,
			LineCost:        cost,
		})
		costs = append(costs, cost)
	}

	b, err := pricing.ComputeProduct(costs, productionMinutes, cfg.PerMinuteRate(), margin)
	if err != nil {
		return nil, breakdownError(err)
	}

	return &model.Product{
		OwnerID:             cfg.OwnerID,
		Name:                strings.TrimSpace(name),
		ProductionMinutes:   productionMinutes,
		HourlyRate:          cfg.HourlyRate,
		MaterialsCost:       b.MaterialsCost,
		LaborCost:           b.LaborCost,
		TotalCost:           b.TotalCost,
		ProfitMarginPercent: margin,
		Profit:              b.Profit,
		FinalPrice:          b.FinalPrice,
		Materials:           lines,
	}, nil
}

func breakdownError(err error) error {
	switch {
	case errors.Is(err, pricing.ErrNegativeMinutes):
		return apperr.Invalid("production_minutes", err.Error())
	case errors.Is(err, pricing.ErrNegativeMargin):
		return apperr.Invalid("profit_margin_percent", err.Error())
	}
	return apperr.Invalid("", err.Error())
}

// ZeroCostLines names the lines whose material had no usable unit cost,
// usually a purchase recorded without a quantity.
func ZeroCostLines(p *model.Product) []string {
	var names []string
	for _, u := range p.Materials {
		if u.UnitCost == 0 {
			names = append(names, u.Name)
		}
	}
	return names
}
