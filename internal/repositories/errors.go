package repositories

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"sedorist/internal/models"
)

// translateDBError maps GORM errors onto the shared error kinds. Requires
// gorm.Config{TranslateError: true} so driver-specific duplicate-key errors
// arrive as gorm.ErrDuplicatedKey.
func translateDBError(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return models.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return models.ErrConflict
	default:
		return fmt.Errorf("%w: %v", models.ErrStorage, err)
	}
}
