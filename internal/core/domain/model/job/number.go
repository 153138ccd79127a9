package job

import (
	"fmt"
	"strconv"

	"fieldwork/internal/pkg/errs"
	"fieldwork/internal/pkg/guard"
)

const (
	// NumberWidth is the fixed width of the zero-padded display number.
	NumberWidth = 6

	// NumberMin and NumberMax bound the numeric value a display number can hold.
	NumberMin = 1
	NumberMax = 999999
)

// ErrNumberIsNotConstructed is returned when attempting to use an improperly
// initialized Number.
var ErrNumberIsNotConstructed = errs.NewValueIsRequiredError(
	"job number must be created via NewNumber or NumberFromString")

// Number is the external, human-facing job identifier: a fixed-width,
// zero-padded decimal string such as "000042". It is globally unique when
// assigned and sparse (a job may have none).
type Number struct { //nolint:recvcheck //using for validation
	value int
	guard guard.ConstructorGuard
}

// NewNumber creates a Number from its numeric value.
// The value must lie in [NumberMin..NumberMax] so the formatted form keeps
// its fixed width.
func NewNumber(value int) (Number, error) {
	if value < NumberMin || value > NumberMax {
		return Number{}, errs.NewValueIsOutOfRangeError("job number", value, NumberMin, NumberMax)
	}

	return Number{
		value: value,
		guard: guard.NewConstructorGuard(),
	}, nil
}

// NumberFromString parses a persisted display number. Only strictly numeric
// strings are accepted; callers treat malformed stored values as absent.
func NumberFromString(s string) (Number, error) {
	value, err := strconv.Atoi(s)
	if err != nil {
		return Number{}, errs.NewValueIsInvalidErrorWithCause("job number", err)
	}

	return NewNumber(value)
}

// Validate checks the Number was produced by a constructor.
func (n Number) Validate() error {
	return n.guard.Validate(ErrNumberIsNotConstructed)
}

// Int returns the numeric value of the number.
func (n Number) Int() int {
	return n.value
}

// String returns the zero-padded display form, e.g. "000042".
func (n Number) String() string {
	return fmt.Sprintf("%0*d", NumberWidth, n.value)
}

// IsEqual reports whether two numbers hold the same value.
// Both numbers must be properly constructed.
func (n Number) IsEqual(other Number) (bool, error) {
	if err := n.Validate(); err != nil {
		return false, err
	}
	if err := other.Validate(); err != nil {
		return false, err
	}

	return n.value == other.value, nil
}
