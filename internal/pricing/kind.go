package pricing

import (
	"errors"
	"fmt"
)

// MeasurementKind is the unit system a material is bought and consumed in.
type MeasurementKind string

const (
	KindUnit   MeasurementKind = "unit"   // discrete pieces
	KindLength MeasurementKind = "length" // centimeters
	KindArea   MeasurementKind = "area"   // square centimeters (width x height)
)

// Kinds lists every supported measurement kind.
var Kinds = []MeasurementKind{KindUnit, KindLength, KindArea}

var ErrUnknownKind = errors.New("unknown measurement kind")

// Valid reports whether k is one of the supported kinds.
func (k MeasurementKind) Valid() bool {
	switch k {
	case KindUnit, KindLength, KindArea:
		return true
	}
	return false
}

// Quantity carries the quantity fields of a purchase or a consumption.
// Only the fields that belong to the measurement kind are read; the rest
// are ignored and treated as zero.
type Quantity struct {
	Units  float64
	Length float64
	Width  float64
	Height float64
}

// BaseQuantity expresses q in the kind's fundamental unit: pieces,
// centimeters or square centimeters.
func BaseQuantity(kind MeasurementKind, q Quantity) (float64, error) {
	switch kind {
	case KindUnit:
		return q.Units, nil
	case KindLength:
		return q.Length, nil
	case KindArea:
		return q.Width * q.Height, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownKind, string(kind))
	}
}

// Relevant returns q with every field that does not belong to kind zeroed.
func Relevant(kind MeasurementKind, q Quantity) Quantity {
	switch kind {
	case KindUnit:
		return Quantity{Units: q.Units}
	case KindLength:
		return Quantity{Length: q.Length}
	case KindArea:
		return Quantity{Width: q.Width, Height: q.Height}
	}
	return Quantity{}
}
