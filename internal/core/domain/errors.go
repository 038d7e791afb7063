package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by the core wraps exactly one of these.
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
)

var (
	ErrPlanNotFound     = kindError{"plan not found", ErrNotFound}
	ErrPollNotFound     = kindError{"poll not found", ErrNotFound}
	ErrOptionNotFound   = kindError{"option not found for this poll", ErrNotFound}
	ErrIdentityNotFound = kindError{"identity does not belong to this plan", ErrNotFound}

	ErrInvalidCredentials = kindError{"invalid guest credentials", ErrUnauthorized}
	ErrMissingIdentity    = kindError{"no session or guest identity presented", ErrUnauthorized}
	ErrForbidden          = kindError{"cannot act on behalf of another identity", ErrUnauthorized}
)

type kindError struct {
	msg  string
	kind error
}

func (e kindError) Error() string { return e.msg }

func (e kindError) Unwrap() error { return e.kind }

// InvalidInput builds an ErrInvalidInput carrying a formatted detail.
func InvalidInput(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
