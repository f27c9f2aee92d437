package visit

import "errors"

var (
	ErrNotFound     = errors.New("vet visit not found")
	ErrInvalidInput = errors.New("invalid input")
)
