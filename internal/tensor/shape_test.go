package tensor

import (
	"errors"
	"testing"
)

func TestDataTypeSize(t *testing.T) {
	tests := []struct {
		dtype DataType
		size  int
	}{
		{Float32, 4},
		{Float64, 8},
	}

	for _, tt := range tests {
		if got := tt.dtype.Size(); got != tt.size {
			t.Errorf("%s.Size() = %d, want %d", tt.dtype, got, tt.size)
		}
	}
}

func TestInferDataType(t *testing.T) {
	type celsius float32

	if dt := inferDataType(float32(0)); dt != Float32 {
		t.Errorf("inferDataType(float32) = %v, want Float32", dt)
	}
	if dt := inferDataType(float64(0)); dt != Float64 {
		t.Errorf("inferDataType(float64) = %v, want Float64", dt)
	}
	if dt := inferDataType(celsius(0)); dt != Float32 {
		t.Errorf("inferDataType(celsius) = %v, want Float32", dt)
	}
}

func TestShapeNumElements(t *testing.T) {
	tests := []struct {
		shape    Shape
		expected int
	}{
		{Shape{}, 1},
		{Shape{5}, 5},
		{Shape{3, 4}, 12},
		{Shape{2, 3, 4}, 24},
		{Cubic(4, 4), 256},
	}

	for _, tt := range tests {
		if got := tt.shape.NumElements(); got != tt.expected {
			t.Errorf("Shape%v.NumElements() = %d, want %d", tt.shape, got, tt.expected)
		}
	}
}

func TestShapeValidation(t *testing.T) {
	for _, s := range []Shape{{1}, {3, 4}, {2, 3, 4}} {
		if err := s.Validate(); err != nil {
			t.Errorf("Shape%v.Validate() failed: %v", s, err)
		}
	}
	for _, s := range []Shape{{0}, {3, 0}, {-1}} {
		if err := s.Validate(); err == nil {
			t.Errorf("Shape%v.Validate() should fail but didn't", s)
		}
	}
}

func TestShapeIsCubic(t *testing.T) {
	tests := []struct {
		shape Shape
		cubic bool
	}{
		{Shape{}, false},
		{Shape{3}, true},
		{Shape{4, 4, 4}, true},
		{Shape{4, 3, 4}, false},
	}
	for _, tt := range tests {
		if got := tt.shape.IsCubic(); got != tt.cubic {
			t.Errorf("Shape%v.IsCubic() = %v, want %v", tt.shape, got, tt.cubic)
		}
	}
}

func TestComputeStrides(t *testing.T) {
	got := Shape{2, 3, 4}.ComputeStrides()
	want := []int{12, 4, 1}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ComputeStrides()[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestNormalizeAxis(t *testing.T) {
	if a, err := NormalizeAxis(-1, 3); err != nil || a != 2 {
		t.Errorf("NormalizeAxis(-1, 3) = %d, %v", a, err)
	}
	if _, err := NormalizeAxis(3, 3); !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("NormalizeAxis(3, 3) error = %v, want ErrShapeMismatch", err)
	}
}
