package otp

import (
	"fmt"

	"github.com/chris/retailer-services/pkg/apperr"
)

// InvalidCodeError is returned when a submitted code does not match. Remaining
// is how many more wrong codes the challenge accepts before it locks.
type InvalidCodeError struct {
	Remaining int
}

func (e *InvalidCodeError) Error() string {
	return fmt.Sprintf("invalid code, %d attempts remaining", e.Remaining)
}

// Unwrap exposes the structured error so callers can match it with errors.Is.
func (e *InvalidCodeError) Unwrap() error {
	return apperr.ErrInvalidCode.WithDetails("%d attempts remaining", e.Remaining)
}
