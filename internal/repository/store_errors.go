package repository

import (
	"errors"

	"github.com/Milad704/socialmedia/pkg/apperr"
	"gorm.io/gorm"
)

// All repositories translate raw store errors into the typed taxonomy here, so
// nothing above this layer ever sees a gorm error.
func mapStoreError(err error, notFound error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}
	return apperr.Transient("document store request failed", err)
}
