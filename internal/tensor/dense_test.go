package tensor

import (
	"errors"
	"math"
	"math/rand"
	"testing"
)

// Test helpers

func assertEqualFloat64(t *testing.T, expected, actual float64, msg string) {
	t.Helper()
	if math.Abs(expected-actual) > 1e-12 {
		t.Errorf("%s: expected %v, got %v", msg, expected, actual)
	}
}

func assertEqualShape(t *testing.T, expected, actual Shape, msg string) {
	t.Helper()
	if !expected.Equal(actual) {
		t.Errorf("%s: expected shape %v, got %v", msg, expected, actual)
	}
}

func arange(shape Shape) *Dense[float64] {
	d := Zeros[float64](shape)
	for i := range d.Data() {
		d.Data()[i] = float64(i)
	}
	return d
}

func TestFromSlice(t *testing.T) {
	data := []float64{1, 2, 3, 4, 5, 6}
	d, err := FromSlice(data, Shape{2, 3})
	if err != nil {
		t.Fatalf("FromSlice failed: %v", err)
	}

	data[0] = 100
	if d.At(0, 0) != 1 {
		t.Error("FromSlice should copy its input")
	}
	if d.At(1, 2) != 6 {
		t.Errorf("At(1, 2) = %v, want 6", d.At(1, 2))
	}

	if _, err := FromSlice(data, Shape{4, 4}); err == nil {
		t.Error("FromSlice with wrong element count should fail")
	}
}

func TestDenseCreation(t *testing.T) {
	ones := Ones[float32](Shape{2, 2})
	for _, v := range ones.Data() {
		if v != 1 {
			t.Fatalf("Ones produced %v", v)
		}
	}

	eye := Eye[float64](3)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			want := 0.0
			if i == j {
				want = 1
			}
			assertEqualFloat64(t, want, eye.At(i, j), "Eye")
		}
	}

	if _, err := NewDense[float64](Shape{2, 0}); err == nil {
		t.Error("NewDense with zero extent should fail")
	}
}

func TestDenseAtPanics(t *testing.T) {
	d := Zeros[float64](Shape{2, 2})
	defer func() {
		if recover() == nil {
			t.Error("At out of bounds should panic")
		}
	}()
	d.At(2, 0)
}

func TestDenseCopyIsDeep(t *testing.T) {
	d := arange(Shape{2, 2})
	c := d.Copy()
	c.Set(42, 0, 0)
	if d.At(0, 0) != 0 {
		t.Error("Copy shares storage with its source")
	}
}

func TestDenseReshapeSharesStorage(t *testing.T) {
	d := arange(Shape{2, 3})
	r, err := d.Reshape(Shape{3, 2})
	if err != nil {
		t.Fatalf("Reshape failed: %v", err)
	}
	r.Set(-1, 2, 1)
	if d.At(1, 2) != -1 {
		t.Error("Reshape should be a view")
	}
	if _, err := d.Reshape(Shape{4, 2}); !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("Reshape error = %v, want ErrShapeMismatch", err)
	}
}

func TestDenseGaxpy(t *testing.T) {
	a := Full[float64](Shape{2, 2}, 2)
	b := Full[float64](Shape{2, 2}, 3)
	if err := a.Gaxpy(0.5, b, 2); err != nil {
		t.Fatalf("Gaxpy failed: %v", err)
	}
	for _, v := range a.Data() {
		assertEqualFloat64(t, 7, v, "Gaxpy")
	}

	c := Zeros[float64](Shape{3})
	if err := a.Gaxpy(1, c, 1); !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("Gaxpy error = %v, want ErrShapeMismatch", err)
	}
}

func TestDenseSlice(t *testing.T) {
	d := arange(Shape{3, 3})
	s, err := d.Slice([]Slice{Range(1, 3), Range(0, 2)})
	if err != nil {
		t.Fatalf("Slice failed: %v", err)
	}
	assertEqualShape(t, Shape{2, 2}, s.Shape(), "Slice shape")

	want := []float64{3, 4, 6, 7}
	for i, v := range s.Data() {
		assertEqualFloat64(t, want[i], v, "Slice value")
	}

	s.Set(100, 0, 0)
	if d.At(1, 0) != 3 {
		t.Error("Slice should return a copy")
	}
}

func TestDenseAddSlice(t *testing.T) {
	d := Zeros[float64](Shape{3, 3})
	src := Ones[float64](Shape{2, 2})
	if err := d.AddSlice([]Slice{Range(1, 3), Range(1, 3)}, src, AllSlices(2), 2); err != nil {
		t.Fatalf("AddSlice failed: %v", err)
	}

	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			want := 0.0
			if i >= 1 && j >= 1 {
				want = 2
			}
			assertEqualFloat64(t, want, d.At(i, j), "AddSlice")
		}
	}

	if err := d.AddSlice(AllSlices(2), src, AllSlices(2), 1); !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("AddSlice error = %v, want ErrShapeMismatch", err)
	}
}

func TestDenseAddSliceAliased(t *testing.T) {
	d := arange(Shape{4})
	// d[0:2] += d[2:4]
	if err := d.AddSlice([]Slice{Range(0, 2)}, d, []Slice{Range(2, 4)}, 1); err != nil {
		t.Fatalf("AddSlice failed: %v", err)
	}
	want := []float64{2, 4, 2, 3}
	for i, v := range d.Data() {
		assertEqualFloat64(t, want[i], v, "aliased AddSlice")
	}
}

func TestDenseNormAndTrace(t *testing.T) {
	d := Full[float64](Shape{4, 4, 4, 4}, 1)
	assertEqualFloat64(t, 16, d.NormF(), "NormF")

	tr, err := d.TraceConj(d)
	if err != nil {
		t.Fatalf("TraceConj failed: %v", err)
	}
	assertEqualFloat64(t, 256, tr, "TraceConj")
}

func TestDenseSwapDim(t *testing.T) {
	d := arange(Shape{2, 3, 4})
	s, err := d.SwapDim(0, 2)
	if err != nil {
		t.Fatalf("SwapDim failed: %v", err)
	}
	assertEqualShape(t, Shape{4, 3, 2}, s.Shape(), "SwapDim shape")

	for i := 0; i < 2; i++ {
		for j := 0; j < 3; j++ {
			for k := 0; k < 4; k++ {
				assertEqualFloat64(t, d.At(i, j, k), s.At(k, j, i), "SwapDim value")
			}
		}
	}

	if _, err := d.SwapDim(0, 5); err == nil {
		t.Error("SwapDim with bad axis should fail")
	}
}

func TestDenseFillRandom(t *testing.T) {
	d := Zeros[float32](Shape{8, 8})
	d.FillRandom(rand.New(rand.NewSource(1)))
	if d.NormF() == 0 {
		t.Error("FillRandom left the array empty")
	}
	for _, v := range d.Data() {
		if v < 0 || v >= 1 {
			t.Fatalf("FillRandom produced %v outside [0, 1)", v)
		}
	}
}

func TestConvert(t *testing.T) {
	d := arange(Shape{2, 2})
	f := Convert[float32](d)
	if f.DType() != Float32 {
		t.Errorf("Convert dtype = %v, want float32", f.DType())
	}
	if f.At(1, 1) != 3 {
		t.Errorf("Convert value = %v, want 3", f.At(1, 1))
	}
}
