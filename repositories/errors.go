package repositories

import "errors"

// Domain error categories. Handlers map ErrNotFound to 404, ErrStateConflict
// to 409, and ErrValidation to 400; everything else is a 500. Specific causes
// wrap these sentinels with fmt.Errorf("%w: ...").
var (
	ErrNotFound      = errors.New("record not found")
	ErrStateConflict = errors.New("operation not allowed in current state")
	ErrValidation    = errors.New("validation failed")
)
