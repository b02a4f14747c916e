package repository

import (
	"context"
	"errors"
	"fmt"

	"mercadito/internal/domainerr"

	"gorm.io/gorm"
)

// conn returns tx when the caller is inside a transaction, otherwise the
// repository's own handle. Either way the context is attached.
func conn(ctx context.Context, db, tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx.WithContext(ctx)
	}
	return db.WithContext(ctx)
}

// notFound translates gorm.ErrRecordNotFound into the typed domain error.
func notFound(err error, entidad string, id fmt.Stringer) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domainerr.NotFound(entidad, id)
	}
	return err
}
