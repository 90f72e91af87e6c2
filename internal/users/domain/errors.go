package domain

import "errors"

// ErrValidation is the kind for all field validation failures. Specific
// messages wrap it so callers can match the class with errors.Is while
// still surfacing the field-level detail.
var ErrValidation = errors.New("validation failed")
