package calculation

import (
	"errors"
	"fmt"

	"go-artisan-pricing/internal/model"
)

// State is a step of the calculation workflow.
type State int

const (
	Editing State = iota
	Calculated
	Saved
)

func (s State) String() string {
	switch s {
	case Editing:
		return "editing"
	case Calculated:
		return "calculated"
	case Saved:
		return "saved"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

var ErrInvalidTransition = errors.New("invalid calculation state transition")

// Session walks one product through Editing -> Calculated -> Saved.
//
// The materials and configuration are copied when the session starts and
// stay fixed for its lifetime, so edits made elsewhere never leak into an
// in-progress calculation. A Session is not safe for concurrent use.
type Session struct {
	materials []model.Material
	cfg       model.PricingConfiguration

	state    State
	draft    Draft
	override *float64
	result   *model.Product
}

func NewSession(materials []model.Material, cfg model.PricingConfiguration) *Session {
	copied := make([]model.Material, len(materials))
	copy(copied, materials)
	return &Session{materials: copied, cfg: cfg, state: Editing}
}

func (s *Session) State() State { return s.state }

// Draft returns a copy of the current draft.
func (s *Session) Draft() Draft {
	d := s.draft
	d.Materials = append([]UsageInput(nil), s.draft.Materials...)
	return d
}

// Result is the displayed product while Calculated, nil otherwise.
func (s *Session) Result() *model.Product { return s.result }

// SetDraft replaces the draft. It is allowed while Editing and right
// after a save, where it starts the next product.
func (s *Session) SetDraft(d Draft) error {
	if s.state == Calculated {
		return s.transitionError("edit draft")
	}
	d.Materials = append([]UsageInput(nil), d.Materials...)
	s.draft = d
	s.state = Editing
	return nil
}

// Validate reports why "calculate" is not available yet, if it is not.
func (s *Session) Validate() error {
	return s.draft.Validate()
}

// Calculate prices the draft with the configured margin and moves to
// Calculated.
func (s *Session) Calculate() (*model.Product, error) {
	if s.state != Editing {
		return nil, s.transitionError("calculate")
	}
	p, err := BuildSnapshot(s.draft.Name, s.materials, s.draft.Materials, s.draft.ProductionMinutes, s.cfg, nil)
	if err != nil {
		return nil, err
	}
	s.override = nil
	s.result = p
	s.state = Calculated
	return p, nil
}

// OverrideMargin reprices the displayed result with pct without going
// back to Editing.
func (s *Session) OverrideMargin(pct float64) (*model.Product, error) {
	if s.state != Calculated {
		return nil, s.transitionError("override margin")
	}
	if err := ValidateMargin("profit_margin_percent", pct); err != nil {
		return nil, err
	}
	p, err := BuildSnapshot(s.draft.Name, s.materials, s.draft.Materials, s.draft.ProductionMinutes, s.cfg, &pct)
	if err != nil {
		return nil, err
	}
	s.override = &pct
	s.result = p
	return p, nil
}

// Edit discards the displayed result and returns to Editing with the
// draft intact.
func (s *Session) Edit() error {
	if s.state != Calculated {
		return s.transitionError("edit")
	}
	s.result = nil
	s.override = nil
	s.state = Editing
	return nil
}

// Save hands the displayed result to persist. On success the draft is
// cleared and the session is Saved; a saved product is never reopened, so
// the only way on is a new draft. On failure it stays Calculated so the
// owner can retry.
func (s *Session) Save(persist func(*model.Product) error) (*model.Product, error) {
	if s.state != Calculated {
		return nil, s.transitionError("save")
	}
	p := s.result
	if err := persist(p); err != nil {
		return nil, err
	}
	s.draft = Draft{}
	s.override = nil
	s.result = nil
	s.state = Saved
	return p, nil
}

// Override is the margin applied inline to the displayed result, if any.
func (s *Session) Override() *float64 { return s.override }

func (s *Session) transitionError(action string) error {
	return fmt.Errorf("%s while %s: %w", action, s.state, ErrInvalidTransition)
}
