package service

import (
	"errors"

	apperrors "interviewprep/internal/errors"
)

// notFoundAs replaces a bare not-found error with a resource-specific message.
func notFoundAs(err error, msg string) error {
	if errors.Is(err, apperrors.ErrNotFound) {
		return apperrors.NotFound(msg)
	}
	return err
}
