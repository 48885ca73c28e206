package validators

import "errors"

var (
	// ErrUnsupportedType is returned for values that are not request structs.
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")
	// ErrInvalidRequest wraps every tag violation.
	ErrInvalidRequest = errors.New("invalid request")
)
