package lrtensor

import (
	"errors"
	"fmt"

	"github.com/born-ml/lrtensor/internal/seprep"
)

// Error categories. Every failure returned by this package matches exactly
// one of them under errors.Is.
var (
	// ErrTypeMismatch means the operands of a binary operation have different kinds.
	ErrTypeMismatch = errors.New("representation kinds differ")

	// ErrUnsupported means the operation is not defined for the active representation.
	ErrUnsupported = errors.New("unsupported for representation")

	// ErrUninitialized means an operand has no backend or no data.
	ErrUninitialized = errors.New("uninitialized operand")

	// ErrInvalidSliceAssignment means a view was assigned to; use AddAssign instead.
	ErrInvalidSliceAssignment = errors.New("invalid slice assignment, use AddAssign instead")

	// ErrInvalidOperation covers shape, axis and argument violations.
	ErrInvalidOperation = errors.New("invalid operation")

	// ErrStaleView means the handle behind a view was rebound or released.
	ErrStaleView = errors.New("view outlived its tensor")
)

// OpError records the operation and representation that failed.
type OpError struct {
	Op   string
	Kind Kind
	Err  error
}

func (e *OpError) Error() string {
	return fmt.Sprintf("lrtensor: %s on %s: %v", e.Op, e.Kind, e.Err)
}

func (e *OpError) Unwrap() error {
	return e.Err
}

// classify attaches a category to errors coming from the dense and
// separated primitives.
func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrTypeMismatch), errors.Is(err, ErrUnsupported),
		errors.Is(err, ErrUninitialized), errors.Is(err, ErrInvalidSliceAssignment),
		errors.Is(err, ErrInvalidOperation), errors.Is(err, ErrStaleView):
		return err
	case errors.Is(err, seprep.ErrInvalid):
		return fmt.Errorf("%w: %w", ErrUninitialized, err)
	default:
		return fmt.Errorf("%w: %w", ErrInvalidOperation, err)
	}
}

func unsupported(what string, k Kind) error {
	return fmt.Errorf("%w: no %s for %s tensors", ErrUnsupported, what, k)
}

func mismatch(a, b Kind) error {
	return fmt.Errorf("%w: %s vs %s", ErrTypeMismatch, a, b)
}
