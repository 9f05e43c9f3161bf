package brackets

import "errors"

// Error classes. Concrete errors wrap one of these so callers can branch with errors.Is.
var (
	ErrConfiguration = errors.New("invalid configuration")
	ErrNotFound      = errors.New("not found")
	ErrValidation    = errors.New("validation failed")
	ErrState         = errors.New("invalid round state")
)
