package domain

import (
	"errors"
	"fmt"
)

// ValidationError marks a client fault. Anything else reaching the HTTP layer
// is treated as an internal error.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func Invalidf(format string, args ...any) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

var ErrNoInsertedID = errors.New("store did not report a generated id")
