package lrtensor

import "fmt"

// DefaultThresh is the accuracy used to finalize a low-rank accumulation
// when the tensor was built without an explicit threshold.
const DefaultThresh = 1e-12

// Args selects and parameterizes a backend at construction.
//
// The zero value is not valid; use NewArgs.
type Args struct {
	Thresh float64 // relative Frobenius accuracy of low-rank approximations
	Kind   Kind
}

// NewArgs returns validated construction arguments.
func NewArgs(thresh float64, kind Kind) (Args, error) {
	a := Args{Thresh: thresh, Kind: kind}
	if err := a.Validate(); err != nil {
		return Args{}, err
	}
	return a, nil
}

// Validate checks that a names a backend and carries a usable threshold.
func (a Args) Validate() error {
	switch {
	case a.Kind == KindFull:
		if a.Thresh < 0 {
			return fmt.Errorf("%w: negative threshold %g", ErrInvalidOperation, a.Thresh)
		}
	case a.Kind.IsLowRank():
		if !(a.Thresh > 0) {
			return fmt.Errorf("%w: %s requires a positive threshold, got %g", ErrInvalidOperation, a.Kind, a.Thresh)
		}
	default:
		return fmt.Errorf("%w: no representation kind", ErrInvalidOperation)
	}
	return nil
}

func (a Args) String() string {
	return fmt.Sprintf("Args{%s, thresh=%g}", a.Kind, a.Thresh)
}
