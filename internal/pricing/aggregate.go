package pricing

import (
	"errors"
	"math"

	"github.com/shopspring/decimal"
)

// MaxMarginPercent bounds the profit margin accepted from users, both on the
// configuration and as a per-calculation override.
const MaxMarginPercent = 500.0

var (
	ErrNegativeMinutes = errors.New("production minutes must not be negative")
	ErrNegativeMargin  = errors.New("profit margin must not be negative")
	ErrNonFinite       = errors.New("value is not a finite number")
)

// Breakdown is the full-precision result of a product cost roll-up.
type Breakdown struct {
	MaterialsCost float64
	LaborCost     float64
	TotalCost     float64
	Profit        float64
	FinalPrice    float64
}

// PerMinuteRate converts an hourly labor rate into a per-minute rate.
func PerMinuteRate(hourlyRate float64) float64 {
	return hourlyRate / 60
}

// ComputeProduct sums material line costs, adds labor and applies the margin.
//
// Line costs are accumulated as exact decimals so the materials total does
// not depend on line order. Nothing is rounded here.
func ComputeProduct(lineCosts []float64, productionMinutes int, perMinuteRate, profitMarginPercent float64) (Breakdown, error) {
	if productionMinutes < 0 {
		return Breakdown{}, ErrNegativeMinutes
	}
	if !IsFinite(perMinuteRate) || !IsFinite(profitMarginPercent) {
		return Breakdown{}, ErrNonFinite
	}
	if profitMarginPercent < 0 {
		return Breakdown{}, ErrNegativeMargin
	}

	sum := decimal.Zero
	for _, c := range lineCosts {
		if !IsFinite(c) {
			return Breakdown{}, ErrNonFinite
		}
		sum = sum.Add(decimal.NewFromFloat(c))
	}

	materialsCost := sum.InexactFloat64()
	laborCost := float64(productionMinutes) * perMinuteRate
	totalCost := materialsCost + laborCost
	finalPrice := totalCost * (1 + profitMarginPercent/100)

	return Breakdown{
		MaterialsCost: materialsCost,
		LaborCost:     laborCost,
		TotalCost:     totalCost,
		Profit:        finalPrice - totalCost,
		FinalPrice:    finalPrice,
	}, nil
}

// IsFinite reports whether v is neither NaN nor an infinity.
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
