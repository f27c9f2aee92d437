package pet

import (
	"errors"

	"pettrack/internal/utils/validation"
)

var (
	ErrNotFound     = errors.New("pet not found")
	ErrInvalidInput = errors.New("invalid input")
)

// FormErrors ошибки формы питомца по полям
type FormErrors = validation.Errors

type DomainError struct {
	Err     error
	Message string
	Code    string
}

func (e *DomainError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Err.Error()
}

func (e *DomainError) Unwrap() error {
	return e.Err
}
