package domain

import "fmt"

// ValidationError marks a request that was rejected before any chain call.
// The HTTP layer maps it to a 400 response; everything else is a 500.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string { return e.msg }

// Validationf builds a ValidationError with a formatted message.
func Validationf(format string, args ...interface{}) error {
	return &ValidationError{msg: fmt.Sprintf(format, args...)}
}
