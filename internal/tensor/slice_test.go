package tensor

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSliceResolve(t *testing.T) {
	tests := []struct {
		name  string
		s     Slice
		n     int
		start int
		count int
		step  int
	}{
		{"all", All(), 5, 0, 5, 1},
		{"range", Range(1, 3), 5, 1, 2, 1},
		{"negative stop", Slice{Start: 0, Stop: -1, Step: 1}, 5, 0, 4, 1},
		{"negative start", Slice{Start: -2, Stop: End, Step: 1}, 5, 3, 2, 1},
		{"strided", Slice{Start: 0, Stop: End, Step: 2}, 5, 0, 3, 2},
		{"zero step means one", Slice{Start: 1, Stop: 4}, 5, 1, 3, 1},
		{"stop clamped", Range(2, 100), 5, 2, 3, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, count, step, err := tt.s.Resolve(tt.n)
			if err != nil {
				t.Fatalf("Resolve() error: %v", err)
			}
			if start != tt.start || count != tt.count || step != tt.step {
				t.Errorf("Resolve() = (%d, %d, %d), want (%d, %d, %d)", start, count, step, tt.start, tt.count, tt.step)
			}
		})
	}
}

func TestSliceResolveInvalid(t *testing.T) {
	for _, s := range []Slice{
		{Start: 0, Stop: End, Step: -1},
		{Start: 5, Stop: End, Step: 1},
		{Start: 3, Stop: 2, Step: 1},
	} {
		if _, _, _, err := s.Resolve(5); !errors.Is(err, ErrInvalidSlice) {
			t.Errorf("Resolve(%v) error = %v, want ErrInvalidSlice", s, err)
		}
	}
}

func TestRegionForEach(t *testing.T) {
	shape := Shape{3, 4}
	r, err := ResolveRegion(shape, []Slice{Range(1, 3), {Start: 0, Stop: End, Step: 2}})
	if err != nil {
		t.Fatalf("ResolveRegion() error: %v", err)
	}

	var offsets []int
	r.ForEach(shape.ComputeStrides(), func(off int) {
		offsets = append(offsets, off)
	})

	want := []int{4, 6, 8, 10}
	if diff := cmp.Diff(want, offsets); diff != "" {
		t.Errorf("ForEach offsets mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(Shape{2, 2}, r.Shape()); diff != "" {
		t.Errorf("Region shape mismatch (-want +got):\n%s", diff)
	}
}

func TestResolveRegionRankMismatch(t *testing.T) {
	if _, err := ResolveRegion(Shape{2, 2}, AllSlices(3)); !errors.Is(err, ErrInvalidSlice) {
		t.Errorf("ResolveRegion() error = %v, want ErrInvalidSlice", err)
	}
}
