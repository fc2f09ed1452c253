package tensor

import (
	"fmt"
	"math"
)

// End marks an open upper bound in a Slice.
const End = math.MaxInt

// Slice selects a strided range [Start, Stop) along one axis.
// Negative Start or Stop count from the end of the axis.
type Slice struct {
	Start int
	Stop  int
	Step  int
}

// All selects a whole axis.
func All() Slice {
	return Slice{Start: 0, Stop: End, Step: 1}
}

// Range selects [start, stop) with unit step.
func Range(start, stop int) Slice {
	return Slice{Start: start, Stop: stop, Step: 1}
}

// AllSlices returns ndim whole-axis slices.
func AllSlices(ndim int) []Slice {
	s := make([]Slice, ndim)
	for i := range s {
		s[i] = All()
	}
	return s
}

// Resolve clamps the slice to an axis of length n and returns the first
// index, the number of selected elements and the step.
func (s Slice) Resolve(n int) (start, count, step int, err error) {
	step = s.Step
	if step == 0 {
		step = 1
	}
	if step < 0 {
		return 0, 0, 0, fmt.Errorf("%w: negative step %d", ErrInvalidSlice, s.Step)
	}

	start, stop := s.Start, s.Stop
	if start < 0 {
		start += n
	}
	if stop < 0 {
		stop += n
	}
	if stop > n {
		stop = n
	}
	if start < 0 || start >= n {
		return 0, 0, 0, fmt.Errorf("%w: start %d out of range for axis of length %d", ErrInvalidSlice, s.Start, n)
	}
	if stop <= start {
		return 0, 0, 0, fmt.Errorf("%w: empty range [%d, %d)", ErrInvalidSlice, s.Start, s.Stop)
	}

	count = (stop - start + step - 1) / step
	return start, count, step, nil
}

// String renders the slice in start:stop:step form.
func (s Slice) String() string {
	if s.Stop == End {
		return fmt.Sprintf("%d::%d", s.Start, s.Step)
	}
	return fmt.Sprintf("%d:%d:%d", s.Start, s.Stop, s.Step)
}

// Region is a resolved multi-axis slice.
type Region struct {
	Start []int
	Count []int
	Step  []int
}

// ResolveRegion resolves one slice per axis of shape.
func ResolveRegion(shape Shape, s []Slice) (Region, error) {
	if len(s) != len(shape) {
		return Region{}, fmt.Errorf("%w: %d slices for %d dimensions", ErrInvalidSlice, len(s), len(shape))
	}
	r := Region{
		Start: make([]int, len(s)),
		Count: make([]int, len(s)),
		Step:  make([]int, len(s)),
	}
	for i := range s {
		start, count, step, err := s[i].Resolve(shape[i])
		if err != nil {
			return Region{}, fmt.Errorf("axis %d: %w", i, err)
		}
		r.Start[i], r.Count[i], r.Step[i] = start, count, step
	}
	return r, nil
}

// Shape returns the extents of the selected region.
func (r Region) Shape() Shape {
	return Shape(r.Count).Clone()
}

// ForEach calls fn with the flat offset (under strides) of every element in
// the region, in row-major order.
func (r Region) ForEach(strides []int, fn func(offset int)) {
	ndim := len(r.Count)
	if ndim == 0 {
		fn(0)
		return
	}
	idx := make([]int, ndim)
	base := 0
	for i := range r.Start {
		base += r.Start[i] * strides[i]
	}
	offset := base
	for {
		fn(offset)
		// Advance the odometer from the innermost axis.
		d := ndim - 1
		for ; d >= 0; d-- {
			idx[d]++
			offset += r.Step[d] * strides[d]
			if idx[d] < r.Count[d] {
				break
			}
			offset -= idx[d] * r.Step[d] * strides[d]
			idx[d] = 0
		}
		if d < 0 {
			return
		}
	}
}
