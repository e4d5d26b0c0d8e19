package repository

import (
	"errors"
	"fmt"

	"go-artisan-pricing/internal/apperr"

	"gorm.io/gorm"
)

// wrap turns a gorm error into the application's error kinds.
func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", op, apperr.ErrNotFound)
	}
	return apperr.Persistence(op, err)
}
