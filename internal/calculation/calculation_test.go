package calculation

import (
	"errors"
	"math"
	"testing"

	"go-artisan-pricing/internal/apperr"
	"go-artisan-pricing/internal/model"
	"go-artisan-pricing/internal/pricing"

	"github.com/google/uuid"
)

func nearlyEqual(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("%s = %v, want %v", name, got, want)
	}
}

// catalog returns the three materials of the worked example with their
// unit costs computed the way the store computes them.
func catalog(t *testing.T) []model.Material {
	t.Helper()
	ms := []model.Material{
		{Name: "Linen", MeasurementKind: pricing.KindArea, PurchasePrice: 100, PurchasedWidth: 200, PurchasedHeight: 50},
		{Name: "Cord", MeasurementKind: pricing.KindLength, PurchasePrice: 50, PurchasedLength: 500},
		{Name: "Beads", MeasurementKind: pricing.KindUnit, PurchasePrice: 30, PurchasedUnits: 10},
	}
	for i := range ms {
		ms[i].ID = uuid.New()
		if err := ms[i].Recompute(); err != nil {
			t.Fatalf("Recompute %s: %v", ms[i].Name, err)
		}
	}
	return ms
}

func lines(ms []model.Material) []UsageInput {
	return []UsageInput{
		{MaterialID: ms[0].ID, WidthUsed: 20, HeightUsed: 10},
		{MaterialID: ms[1].ID, LengthUsed: 120},
		{MaterialID: ms[2].ID, UnitsUsed: 4},
	}
}

func config(hourly, margin float64) model.PricingConfiguration {
	return model.PricingConfiguration{OwnerID: uuid.New(), HourlyRate: hourly, ProfitMarginPercent: margin}
}

func TestBuildSnapshotWorkedExample(t *testing.T) {
	ms := catalog(t)
	p, err := BuildSnapshot("Tote bag", ms, lines(ms), 90, config(24, 50), nil)
	if err != nil {
		t.Fatalf("BuildSnapshot: %v", err)
	}

	nearlyEqual(t, "line A", p.Materials[0].LineCost, 2)
	nearlyEqual(t, "line B", p.Materials[1].LineCost, 12)
	nearlyEqual(t, "line C", p.Materials[2].LineCost, 12)
	nearlyEqual(t, "materialsCost", p.MaterialsCost, 26)
	nearlyEqual(t, "laborCost", p.LaborCost, 36)
	nearlyEqual(t, "totalCost", p.TotalCost, 62)
	nearlyEqual(t, "profit", p.Profit, 31)
	nearlyEqual(t, "finalPrice", p.FinalPrice, 93)

	if p.HourlyRate != 24 || p.ProfitMarginPercent != 50 || p.ProductionMinutes != 90 {
		t.Fatalf("configuration not frozen into product: %+v", p)
	}
	if got := pricing.FormatMoney(p.FinalPrice); got != "93.00" {
		t.Fatalf("displayed final price = %s", got)
	}
	for i, u := range p.Materials {
		if u.Position != i || u.Name != ms[i].Name || u.MeasurementKind != ms[i].MeasurementKind {
			t.Fatalf("line %d not copied from its material: %+v", i, u)
		}
	}
}

func TestBuildSnapshotMarginOverride(t *testing.T) {
	ms := catalog(t)
	override := 100.0
	p, err := BuildSnapshot("Tote bag", ms, lines(ms), 90, config(24, 50), &override)
	if err != nil {
		t.Fatalf("BuildSnapshot: %v", err)
	}
	nearlyEqual(t, "finalPrice", p.FinalPrice, 124)
	if p.ProfitMarginPercent != 100 {
		t.Fatalf("applied margin = %v, want 100", p.ProfitMarginPercent)
	}

	tooHigh := pricing.MaxMarginPercent + 1
	var ve *apperr.ValidationError
	if _, err := BuildSnapshot("Tote bag", ms, lines(ms), 90, config(24, 50), &tooHigh); !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError for margin above the bound, got %v", err)
	}
	negative := -1.0
	if _, err := BuildSnapshot("Tote bag", ms, lines(ms), 90, config(24, 50), &negative); !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError for negative margin, got %v", err)
	}
}

func TestBuildSnapshotValidation(t *testing.T) {
	ms := catalog(t)
	cfg := config(24, 50)

	tests := []struct {
		name    string
		product string
		inputs  []UsageInput
		minutes int
		field   string
	}{
		{"zero minutes", "Tote bag", lines(ms), 0, "production_minutes"},
		{"negative minutes", "Tote bag", lines(ms), -5, "production_minutes"},
		{"blank name", "   ", lines(ms), 90, "name"},
		{"no lines", "Tote bag", nil, 90, "materials"},
		{"negative quantity", "Tote bag", []UsageInput{{MaterialID: ms[1].ID, LengthUsed: -1}}, 90, "materials[0].length_used"},
		{"nil material id", "Tote bag", []UsageInput{{UnitsUsed: 1}}, 90, "materials[0].material_id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildSnapshot(tt.product, ms, tt.inputs, tt.minutes, cfg, nil)
			var ve *apperr.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if ve.Field != tt.field {
				t.Fatalf("Field = %q, want %q", ve.Field, tt.field)
			}
		})
	}
}

func TestBuildSnapshotMissingReference(t *testing.T) {
	ms := catalog(t)
	gone := uuid.New()
	in := append(lines(ms), UsageInput{MaterialID: gone, UnitsUsed: 1})

	_, err := BuildSnapshot("Tote bag", ms, in, 90, config(24, 50), nil)
	var mr *apperr.MissingReferenceError
	if !errors.As(err, &mr) {
		t.Fatalf("expected MissingReferenceError, got %v", err)
	}
	if mr.MaterialID != gone {
		t.Fatalf("MaterialID = %s, want %s", mr.MaterialID, gone)
	}
}

func TestBuildSnapshotIgnoresForeignQuantityFields(t *testing.T) {
	ms := catalog(t)
	in := []UsageInput{{MaterialID: ms[2].ID, UnitsUsed: 4, LengthUsed: 999, WidthUsed: 9, HeightUsed: 9}}
	p, err := BuildSnapshot("Bracelet", ms, in, 10, config(24, 50), nil)
	if err != nil {
		t.Fatalf("BuildSnapshot: %v", err)
	}
	u := p.Materials[0]
	if u.LengthUsed != 0 || u.WidthUsed != 0 || u.HeightUsed != 0 {
		t.Fatalf("foreign quantities stored: %+v", u)
	}
	nearlyEqual(t, "line cost", u.LineCost, 12)
}

func TestSnapshotIsImmuneToMaterialChanges(t *testing.T) {
	ms := catalog(t)
	p, err := BuildSnapshot("Tote bag", ms, lines(ms), 90, config(24, 50), nil)
	if err != nil {
		t.Fatalf("BuildSnapshot: %v", err)
	}

	ms[1].PurchasePrice = 500
	if err := ms[1].Recompute(); err != nil {
		t.Fatal(err)
	}
	ms[0].Name = "Renamed"

	nearlyEqual(t, "materialsCost after change", p.MaterialsCost, 26)
	nearlyEqual(t, "finalPrice after change", p.FinalPrice, 93)
	if p.Materials[0].Name != "Linen" {
		t.Fatalf("line name followed the material: %q", p.Materials[0].Name)
	}

	again, _ := BuildSnapshot("Tote bag", ms, lines(ms), 90, config(24, 50), nil)
	if again.MaterialsCost == p.MaterialsCost {
		t.Fatalf("a new build should see the new price")
	}
}

func TestZeroCostMaterialContributesNothing(t *testing.T) {
	ms := catalog(t)
	empty := model.Material{Name: "Unmeasured", MeasurementKind: pricing.KindLength, PurchasePrice: 40}
	empty.ID = uuid.New()
	if err := empty.Recompute(); err != nil {
		t.Fatal(err)
	}
	ms = append(ms, empty)

	in := append(lines(ms), UsageInput{MaterialID: empty.ID, LengthUsed: 300})
	p, err := BuildSnapshot("Tote bag", ms, in, 90, config(24, 50), nil)
	if err != nil {
		t.Fatalf("BuildSnapshot: %v", err)
	}
	nearlyEqual(t, "materialsCost", p.MaterialsCost, 26)
	if names := ZeroCostLines(p); len(names) != 1 || names[0] != "Unmeasured" {
		t.Fatalf("ZeroCostLines = %v", names)
	}
}

func TestSessionHappyPath(t *testing.T) {
	ms := catalog(t)
	s := NewSession(ms, config(24, 50))

	if err := s.Validate(); err == nil {
		t.Fatalf("an empty draft must not be calculable")
	}
	if err := s.SetDraft(Draft{Name: "Tote bag", Materials: lines(ms), ProductionMinutes: 90}); err != nil {
		t.Fatalf("SetDraft: %v", err)
	}
	if err := s.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	p, err := s.Calculate()
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	if s.State() != Calculated {
		t.Fatalf("state = %s, want calculated", s.State())
	}
	nearlyEqual(t, "finalPrice", p.FinalPrice, 93)

	p, err = s.OverrideMargin(0)
	if err != nil {
		t.Fatalf("OverrideMargin: %v", err)
	}
	if s.State() != Calculated {
		t.Fatalf("override left Calculated: %s", s.State())
	}
	nearlyEqual(t, "finalPrice at 0%", p.FinalPrice, 62)

	var persisted *model.Product
	saved, err := s.Save(func(p *model.Product) error {
		persisted = p
		return nil
	})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if saved != persisted || saved.ProfitMarginPercent != 0 {
		t.Fatalf("unexpected saved product: %+v", saved)
	}
	if s.State() != Saved || s.Result() != nil || len(s.Draft().Materials) != 0 {
		t.Fatalf("session not cleared after save: state=%s", s.State())
	}

	// a saved product cannot be reopened
	if _, err := s.OverrideMargin(10); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	if err := s.Edit(); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}

	if err := s.SetDraft(Draft{Name: "Next"}); err != nil || s.State() != Editing {
		t.Fatalf("new draft after save: err=%v state=%s", err, s.State())
	}
}

func TestSessionEditDiscardsResult(t *testing.T) {
	ms := catalog(t)
	s := NewSession(ms, config(24, 50))
	_ = s.SetDraft(Draft{Name: "Tote bag", Materials: lines(ms), ProductionMinutes: 90})
	if _, err := s.Calculate(); err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	if _, err := s.OverrideMargin(80); err != nil {
		t.Fatalf("OverrideMargin: %v", err)
	}

	if err := s.SetDraft(Draft{Name: "Changed"}); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("draft must be locked while Calculated, got %v", err)
	}
	if err := s.Edit(); err != nil {
		t.Fatalf("Edit: %v", err)
	}
	if s.State() != Editing || s.Result() != nil || s.Override() != nil {
		t.Fatalf("Edit kept the result")
	}
	if s.Draft().Name != "Tote bag" {
		t.Fatalf("Edit lost the draft")
	}

	p, _ := s.Calculate()
	nearlyEqual(t, "recalculated finalPrice", p.FinalPrice, 93)
}

func TestSessionFailedSaveStaysCalculated(t *testing.T) {
	ms := catalog(t)
	s := NewSession(ms, config(24, 50))
	_ = s.SetDraft(Draft{Name: "Tote bag", Materials: lines(ms), ProductionMinutes: 90})
	if _, err := s.Calculate(); err != nil {
		t.Fatalf("Calculate: %v", err)
	}

	boom := errors.New("store unavailable")
	if _, err := s.Save(func(*model.Product) error { return boom }); !errors.Is(err, boom) {
		t.Fatalf("expected the persist error, got %v", err)
	}
	if s.State() != Calculated || s.Result() == nil {
		t.Fatalf("failed save must keep the result, state=%s", s.State())
	}

	if _, err := s.Save(func(*model.Product) error { return nil }); err != nil {
		t.Fatalf("retry: %v", err)
	}
}

func TestSessionRejectsInvalidDraftAndOverride(t *testing.T) {
	ms := catalog(t)
	s := NewSession(ms, config(24, 50))
	_ = s.SetDraft(Draft{Name: "Tote bag", Materials: lines(ms), ProductionMinutes: 0})

	var ve *apperr.ValidationError
	if _, err := s.Calculate(); !errors.As(err, &ve) || ve.Field != "production_minutes" {
		t.Fatalf("expected production_minutes ValidationError, got %v", err)
	}
	if s.State() != Editing {
		t.Fatalf("failed calculate changed state to %s", s.State())
	}
	if _, err := s.OverrideMargin(10); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("override before calculate: expected ErrInvalidTransition, got %v", err)
	}

	_ = s.SetDraft(Draft{Name: "Tote bag", Materials: lines(ms), ProductionMinutes: 90})
	if _, err := s.Calculate(); err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	if _, err := s.OverrideMargin(pricing.MaxMarginPercent + 0.5); !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError for margin over the bound, got %v", err)
	}
	nearlyEqual(t, "result kept after rejected override", s.Result().FinalPrice, 93)
}

func TestSessionCopiesMaterials(t *testing.T) {
	ms := catalog(t)
	s := NewSession(ms, config(24, 50))
	ms[2].UnitCost = 100

	_ = s.SetDraft(Draft{Name: "Tote bag", Materials: lines(ms), ProductionMinutes: 90})
	p, err := s.Calculate()
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	nearlyEqual(t, "finalPrice", p.FinalPrice, 93)
}
