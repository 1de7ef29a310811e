package service

import (
	"errors"

	"github.com/noah-isme/ictak-go-api/internal/apperr"
	"github.com/noah-isme/ictak-go-api/internal/repository"
)

// classify turns a repository failure into an application error. Missing documents
// become notFound; anything else keeps the store error as cause behind failure.
func classify(err error, notFound, failure string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return apperr.NotFound(notFound)
	case errors.Is(err, repository.ErrDuplicate):
		return apperr.Wrap(err, apperr.KindConflict, failure)
	default:
		return apperr.Wrap(err, apperr.KindInternal, failure)
	}
}

func internal(err error, message string) error {
	return apperr.Wrap(err, apperr.KindInternal, message)
}
