package repository

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when no document matches the lookup key.
	ErrNotFound = errors.New("document not found")
	// ErrDuplicate is returned when a unique key is already taken.
	ErrDuplicate = errors.New("duplicate document")
	// ErrStale is returned when a versioned document changed since it was read.
	ErrStale = errors.New("document changed concurrently")
)

// translate maps GORM errors onto the repository sentinels; anything else is wrapped
// with a stack and the failing operation.
func translate(err error, op string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrDuplicate), errors.Is(err, ErrStale):
		return err
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	default:
		return errors.Wrap(err, op)
	}
}
