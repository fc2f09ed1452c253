package tensor

import "errors"

// Common errors.
var (
	ErrShapeMismatch = errors.New("shape mismatch")
	ErrInvalidSlice  = errors.New("invalid slice")
	ErrEmpty         = errors.New("dense array has no data")
)
