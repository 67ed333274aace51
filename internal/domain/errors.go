package domain

import "errors"

// Error kinds. Package sentinels wrap one of them so callers (HTTP mapping, the
// auto-confirmation job) can classify an error without knowing where it came from.
var (
	ErrValidation        = errors.New("validation error")
	ErrConflict          = errors.New("conflict")
	ErrNotFound          = errors.New("not found")
	ErrInvalidTransition = errors.New("invalid state transition")
	ErrStore             = errors.New("store error")
)

type kindError struct {
	kind error
	msg  string
}

func (e *kindError) Error() string {
	return e.msg
}

func (e *kindError) Unwrap() error {
	return e.kind
}

// NewError creates a sentinel error of the given kind
func NewError(kind error, msg string) error {
	return &kindError{kind: kind, msg: msg}
}

// KindOf returns the kind of err; untagged errors are treated as store errors
func KindOf(err error) error {
	for _, kind := range []error{ErrValidation, ErrConflict, ErrNotFound, ErrInvalidTransition, ErrStore} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return ErrStore
}
