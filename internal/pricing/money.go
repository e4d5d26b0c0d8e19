package pricing

import (
	"math"

	"github.com/shopspring/decimal"
)

const (
	moneyPlaces    = 2
	unitCostPlaces = 4
)

// RoundMoney rounds a currency amount to 2 fractional digits (half away from
// zero). Use it only at the presentation boundary.
func RoundMoney(v float64) float64 {
	return round(v, moneyPlaces)
}

// RoundUnitCost rounds a per-base-unit cost for display.
func RoundUnitCost(v float64) float64 {
	return round(v, unitCostPlaces)
}

// FormatMoney renders v with exactly 2 fractional digits, e.g. "93.00".
func FormatMoney(v float64) string {
	if !IsFinite(v) {
		return "0.00"
	}
	return decimal.NewFromFloat(v).StringFixed(moneyPlaces)
}

// FormatUnitCost renders v with exactly 4 fractional digits.
func FormatUnitCost(v float64) string {
	if !IsFinite(v) {
		return "0.0000"
	}
	return decimal.NewFromFloat(v).StringFixed(unitCostPlaces)
}

func round(v float64, places int32) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}

// Rounded returns a copy of b with every amount rounded for display.
func (b Breakdown) Rounded() Breakdown {
	return Breakdown{
		MaterialsCost: RoundMoney(b.MaterialsCost),
		LaborCost:     RoundMoney(b.LaborCost),
		TotalCost:     RoundMoney(b.TotalCost),
		Profit:        RoundMoney(b.Profit),
		FinalPrice:    RoundMoney(b.FinalPrice),
	}
}
