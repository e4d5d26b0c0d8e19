package service

import (
	"go-artisan-pricing/internal/apperr"
	"go-artisan-pricing/pkg/validator"

	"github.com/google/uuid"
)

// Notifier pushes an event to the live connections of one owner.
type Notifier interface {
	Notify(ownerID uuid.UUID, event string, payload any)
}

type nopNotifier struct{}

func (nopNotifier) Notify(uuid.UUID, string, any) {}

func notifierOrNop(n Notifier) Notifier {
	if n == nil {
		return nopNotifier{}
	}
	return n
}

// validate returns the first validation failure of v as a
// *apperr.ValidationError.
func validate(v any) error {
	if e := validator.First(v); e != nil {
		return apperr.Invalid(e.FailedField, e.Message())
	}
	return nil
}
