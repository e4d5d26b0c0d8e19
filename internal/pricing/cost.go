package pricing

import "math"

// Normalize converts a purchase into a cost per base unit.
//
// A zero (or negative) base quantity yields 0 instead of an error so that a
// material being edited never produces NaN or Inf. Callers that cache the
// result must call Normalize again whenever the kind, price or purchased
// quantity changes.
func Normalize(kind MeasurementKind, purchasePrice float64, purchased Quantity) (float64, error) {
	base, err := BaseQuantity(kind, purchased)
	if err != nil {
		return 0, err
	}
	if base <= 0 || math.IsNaN(base) || math.IsInf(base, 0) {
		return 0, nil
	}
	return purchasePrice / base, nil
}

// LineCost is the cost contribution of consuming the given quantity of a
// material whose normalized cost is unitCost. Missing quantity fields count
// as zero.
func LineCost(kind MeasurementKind, unitCost float64, consumed Quantity) (float64, error) {
	base, err := BaseQuantity(kind, consumed)
	if err != nil {
		return 0, err
	}
	return unitCost * base, nil
}
