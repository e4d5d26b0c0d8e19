package validator

import (
	"math"
	"testing"

	"github.com/google/uuid"
)

type sample struct {
	Name   string    `json:"name" validate:"required"`
	Kind   string    `json:"kind" validate:"required,oneof=unit length area"`
	Margin *float64  `json:"margin" validate:"omitempty,gte=0,lte=500"`
	Rate   float64   `json:"rate" validate:"finite,gte=0"`
	Ref    uuid.UUID `json:"ref" validate:"uuid_required"`
}

func TestValidateStructReportsJSONNames(t *testing.T) {
	over := 501.0
	errs := ValidateStruct(&sample{Kind: "weight", Margin: &over, Ref: uuid.Nil})
	got := map[string]string{}
	for _, e := range errs {
		got[e.FailedField] = e.Tag
	}

	want := map[string]string{"name": "required", "kind": "oneof", "margin": "lte", "ref": "uuid_required"}
	for field, tag := range want {
		if got[field] != tag {
			t.Fatalf("field %s: tag %q, want %q (all: %v)", field, got[field], tag, got)
		}
	}
}

func TestValidateStructAcceptsValidInput(t *testing.T) {
	margin := 0.0
	s := sample{Name: "Bag", Kind: "area", Margin: &margin, Rate: 20, Ref: uuid.New()}
	if errs := ValidateStruct(&s); len(errs) != 0 {
		t.Fatalf("unexpected errors: %+v", errs[0])
	}
}

func TestFiniteRejectsNaN(t *testing.T) {
	s := sample{Name: "Bag", Kind: "unit", Rate: math.NaN(), Ref: uuid.New()}
	errs := ValidateStruct(&s)
	if len(errs) == 0 || errs[0].FailedField != "rate" || errs[0].Tag != "finite" {
		t.Fatalf("expected finite failure on rate, got %+v", errs)
	}
}

func TestMessage(t *testing.T) {
	e := ErrorResponse{FailedField: "profit_margin_percent", Tag: "lte", Value: "500"}
	if got := e.Message(); got != "must be less than or equal to 500" {
		t.Fatalf("Message = %q", got)
	}
	e = ErrorResponse{Tag: "oneof", Value: "unit length area"}
	if got := e.Message(); got != "must be one of: unit, length, area" {
		t.Fatalf("Message = %q", got)
	}
}

type line struct {
	Units float64 `json:"units_used" validate:"gte=0"`
}

type draft struct {
	Lines []line `json:"materials" validate:"dive"`
}

func TestFirstReportsNestedPath(t *testing.T) {
	e := First(&draft{Lines: []line{{Units: 1}, {Units: -2}}})
	if e == nil {
		t.Fatalf("expected a failure")
	}
	if e.FailedField != "materials[1].units_used" {
		t.Fatalf("FailedField = %q", e.FailedField)
	}
	if First(&draft{}) != nil {
		t.Fatalf("empty draft should pass")
	}
}
