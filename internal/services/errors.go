package services

import "github.com/cockroachdb/errors"

var (
	// ErrInvalidInput marks requests rejected for their content.
	ErrInvalidInput = errors.New("invalid input")
	// ErrConflict marks requests that clash with existing state.
	ErrConflict = errors.New("conflict")
)

func invalidInput(format string, args ...interface{}) error {
	return errors.Mark(errors.Newf(format, args...), ErrInvalidInput)
}
