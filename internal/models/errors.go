package models

import (
	"errors"
	"fmt"
)

// DegenerateInputError reports input whose geometry is undefined, such as
// a single control point or coincident chord endpoints.
type DegenerateInputError struct {
	Reason string
}

func (e *DegenerateInputError) Error() string {
	return fmt.Sprintf("degenerate input: %s", e.Reason)
}

// DivisionByZeroError reports a percentage or ratio whose denominator is zero.
type DivisionByZeroError struct {
	Reason string
}

func (e *DivisionByZeroError) Error() string {
	return fmt.Sprintf("division by zero: %s", e.Reason)
}

// MissingInputError reports an absent point sequence or attribute.
type MissingInputError struct {
	Reason string
}

func (e *MissingInputError) Error() string {
	return fmt.Sprintf("missing input: %s", e.Reason)
}

// IsDegenerate reports whether err wraps a DegenerateInputError.
func IsDegenerate(err error) bool {
	var target *DegenerateInputError
	return errors.As(err, &target)
}

// IsDivisionByZero reports whether err wraps a DivisionByZeroError.
func IsDivisionByZero(err error) bool {
	var target *DivisionByZeroError
	return errors.As(err, &target)
}

// IsMissingInput reports whether err wraps a MissingInputError.
func IsMissingInput(err error) bool {
	var target *MissingInputError
	return errors.As(err, &target)
}

// CheckSequence validates that a sequence can be measured: nil or empty
// is missing input, a single point is degenerate.
func CheckSequence(points ControlPointSequence) error {
	switch len(points) {
	case 0:
		return &MissingInputError{Reason: "control point sequence is empty"}
	case 1:
		return &DegenerateInputError{Reason: "at least 2 control points are required"}
	}
	return nil
}
