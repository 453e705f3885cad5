package repository

import (
	"errors"

	"gorm.io/gorm"

	apperrors "interviewprep/internal/errors"
)

// Page selects a 1-based page of Size rows.
type Page struct {
	Number int
	Size   int
}

// Offset returns the number of rows skipped before the page.
func (p Page) Offset() int {
	if p.Number < 1 {
		return 0
	}
	return (p.Number - 1) * p.Size
}

// storeErr converts store errors into application errors at the repository boundary.
func storeErr(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperrors.ErrNotFound
	default:
		return apperrors.Dependency(op, err)
	}
}
