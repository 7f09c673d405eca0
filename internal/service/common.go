package service

import (
	"context"
	"errors"
	"os"

	"christocar/internal/model"

	"gorm.io/gorm"
)

// Actor is the authenticated employee performing an operation.
type Actor struct {
	ID   uint
	Name string
	Role string
}

// runTx wraps fn in a DB transaction. A nil db (unit tests with stub
// repositories) calls fn directly with a nil tx.
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// notFound converts gorm's sentinel into ErrNotFound and passes anything else through.
func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// mapLineErr translates model-level order errors.
func mapLineErr(err error) error {
	switch {
	case errors.Is(err, model.ErrLineIndex):
		return ErrLineIndex
	case errors.Is(err, model.ErrInvalidStatus):
		return ErrInvalidStatus
	}
	return err
}

func fileExists(path string) bool {
	st, err := os.Stat(path)
	return err == nil && !st.IsDir()
}
