package formhost

import "errors"

var (
	ErrInvalidForm   = errors.New("invalid form")
	ErrDuplicateForm = errors.New("form already registered")

	ErrUnsupportedValue = errors.New("unsupported form value")
)
