package tensor

import (
	"fmt"
	"math"
	"math/rand"
)

// Dense is a contiguous row-major array of T.
//
// Copy semantics are explicit: Copy allocates, every other accessor
// shares storage. Slicing with Slice returns a new contiguous copy.
type Dense[T DType] struct {
	data   []T
	shape  Shape
	stride []int
}

// NewDense allocates a zero-filled array of the given shape.
func NewDense[T DType](shape Shape) (*Dense[T], error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shape: %w", err)
	}
	return &Dense[T]{
		data:   make([]T, shape.NumElements()),
		shape:  shape.Clone(),
		stride: shape.ComputeStrides(),
	}, nil
}

// FromSlice creates an array from a Go slice.
// The slice is copied into the array's memory.
func FromSlice[T DType](data []T, shape Shape) (*Dense[T], error) {
	if shape.NumElements() != len(data) {
		return nil, fmt.Errorf("shape %v requires %d elements, but got %d", shape, shape.NumElements(), len(data))
	}
	d, err := NewDense[T](shape)
	if err != nil {
		return nil, err
	}
	copy(d.data, data)
	return d, nil
}

// Zeros creates an array filled with zeros.
// Panics on an invalid shape.
func Zeros[T DType](shape Shape) *Dense[T] {
	d, err := NewDense[T](shape)
	if err != nil {
		panic(err)
	}
	return d
}

// Ones creates an array filled with ones.
func Ones[T DType](shape Shape) *Dense[T] {
	return Full[T](shape, 1)
}

// Full creates an array filled with value.
func Full[T DType](shape Shape, value T) *Dense[T] {
	d := Zeros[T](shape)
	for i := range d.data {
		d.data[i] = value
	}
	return d
}

// Eye creates an n×n identity matrix.
func Eye[T DType](n int) *Dense[T] {
	d := Zeros[T](Shape{n, n})
	for i := 0; i < n; i++ {
		d.data[i*n+i] = 1
	}
	return d
}

// Shape returns the array's shape.
func (d *Dense[T]) Shape() Shape {
	return d.shape
}

// Strides returns the row-major strides.
func (d *Dense[T]) Strides() []int {
	return d.stride
}

// DType returns the runtime element type.
func (d *Dense[T]) DType() DataType {
	var dummy T
	return inferDataType(dummy)
}

// NDim returns the number of dimensions.
func (d *Dense[T]) NDim() int {
	return len(d.shape)
}

// Dim returns the extent of dimension i.
func (d *Dense[T]) Dim(i int) int {
	return d.shape[i]
}

// Size returns the total number of elements.
func (d *Dense[T]) Size() int {
	return len(d.data)
}

// Data returns the backing slice.
//
// WARNING: Modifications to the returned slice will modify the array.
func (d *Dense[T]) Data() []T {
	return d.data
}

func (d *Dense[T]) offset(indices []int) int {
	if len(indices) != len(d.shape) {
		panic(fmt.Sprintf("expected %d indices, got %d", len(d.shape), len(indices)))
	}
	offset := 0
	for i, idx := range indices {
		if idx < 0 || idx >= d.shape[i] {
			panic(fmt.Sprintf("index %d out of bounds for dimension %d (size %d)", idx, i, d.shape[i]))
		}
		offset += idx * d.stride[i]
	}
	return offset
}

// At returns the element at the given indices.
// Panics if indices are out of bounds.
func (d *Dense[T]) At(indices ...int) T {
	return d.data[d.offset(indices)]
}

// Set sets the element at the given indices.
// Panics if indices are out of bounds.
func (d *Dense[T]) Set(value T, indices ...int) {
	d.data[d.offset(indices)] = value
}

// String returns a human-readable description of the array.
func (d *Dense[T]) String() string {
	return fmt.Sprintf("Dense[%s]%v", d.DType(), d.shape)
}

// Copy returns a deep copy.
func (d *Dense[T]) Copy() *Dense[T] {
	c := &Dense[T]{
		data:   make([]T, len(d.data)),
		shape:  d.shape.Clone(),
		stride: append([]int(nil), d.stride...),
	}
	copy(c.data, d.data)
	return c
}

// Reshape returns a view with a new shape over the same storage.
func (d *Dense[T]) Reshape(shape Shape) (*Dense[T], error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("reshape: %w", err)
	}
	if shape.NumElements() != len(d.data) {
		return nil, fmt.Errorf("%w: cannot reshape %v to %v", ErrShapeMismatch, d.shape, shape)
	}
	return &Dense[T]{data: d.data, shape: shape.Clone(), stride: shape.ComputeStrides()}, nil
}

// Scale multiplies every element by a in place.
func (d *Dense[T]) Scale(a T) *Dense[T] {
	for i := range d.data {
		d.data[i] *= a
	}
	return d
}

// Gaxpy computes d = d*alpha + other*beta in place.
func (d *Dense[T]) Gaxpy(alpha T, other *Dense[T], beta T) error {
	if !d.shape.Equal(other.shape) {
		return fmt.Errorf("%w: gaxpy %v with %v", ErrShapeMismatch, d.shape, other.shape)
	}
	src := other.data
	for i := range d.data {
		d.data[i] = d.data[i]*alpha + src[i]*beta
	}
	return nil
}

// Slice returns a contiguous copy of the selected region.
func (d *Dense[T]) Slice(s []Slice) (*Dense[T], error) {
	r, err := ResolveRegion(d.shape, s)
	if err != nil {
		return nil, err
	}
	out := Zeros[T](r.Shape())
	i := 0
	r.ForEach(d.stride, func(off int) {
		out.data[i] = d.data[off]
		i++
	})
	return out, nil
}

// AddSlice computes d(lhs) += other(rhs)*fac in place.
// Both regions must have the same shape.
func (d *Dense[T]) AddSlice(lhs []Slice, other *Dense[T], rhs []Slice, fac T) error {
	lr, err := ResolveRegion(d.shape, lhs)
	if err != nil {
		return fmt.Errorf("lhs: %w", err)
	}
	rr, err := ResolveRegion(other.shape, rhs)
	if err != nil {
		return fmt.Errorf("rhs: %w", err)
	}
	if !lr.Shape().Equal(rr.Shape()) {
		return fmt.Errorf("%w: region %v += region %v", ErrShapeMismatch, lr.Shape(), rr.Shape())
	}

	// Gather the rhs first so that aliasing d == other is safe.
	src := make([]T, 0, rr.Shape().NumElements())
	rr.ForEach(other.stride, func(off int) {
		src = append(src, other.data[off])
	})
	i := 0
	lr.ForEach(d.stride, func(off int) {
		d.data[off] += src[i] * fac
		i++
	})
	return nil
}

// NormF returns the Frobenius norm.
func (d *Dense[T]) NormF() float64 {
	var sum float64
	for _, v := range d.data {
		f := float64(v)
		sum += f * f
	}
	return math.Sqrt(sum)
}

// TraceConj returns sum(conj(d) * other). Elements are real, so this is the dot product.
func (d *Dense[T]) TraceConj(other *Dense[T]) (T, error) {
	if !d.shape.Equal(other.shape) {
		return 0, fmt.Errorf("%w: trace_conj %v with %v", ErrShapeMismatch, d.shape, other.shape)
	}
	var sum float64
	for i, v := range d.data {
		sum += float64(v) * float64(other.data[i])
	}
	return T(sum), nil
}

// SwapDim returns a new contiguous array with dimensions i and j exchanged.
func (d *Dense[T]) SwapDim(i, j int) (*Dense[T], error) {
	ndim := len(d.shape)
	i, err := NormalizeAxis(i, ndim)
	if err != nil {
		return nil, err
	}
	j, err = NormalizeAxis(j, ndim)
	if err != nil {
		return nil, err
	}

	outShape := d.shape.Clone()
	outShape[i], outShape[j] = outShape[j], outShape[i]
	out := Zeros[T](outShape)

	// Walk the output in row-major order reading the input through swapped strides.
	inStride := append([]int(nil), d.stride...)
	inStride[i], inStride[j] = inStride[j], inStride[i]
	whole := Region{Start: make([]int, ndim), Count: outShape.Clone(), Step: ones(ndim)}
	k := 0
	whole.ForEach(inStride, func(off int) {
		out.data[k] = d.data[off]
		k++
	})
	return out, nil
}

// FillRandom fills the array with values uniformly distributed in [0, 1).
func (d *Dense[T]) FillRandom(rng *rand.Rand) {
	for i := range d.data {
		d.data[i] = T(rng.Float64())
	}
}

// Fill sets every element to value.
func (d *Dense[T]) Fill(value T) {
	for i := range d.data {
		d.data[i] = value
	}
}

// Convert copies an array into another element type.
func Convert[U, T DType](d *Dense[T]) *Dense[U] {
	out := &Dense[U]{
		data:   make([]U, len(d.data)),
		shape:  d.shape.Clone(),
		stride: append([]int(nil), d.stride...),
	}
	for i, v := range d.data {
		out.data[i] = U(v)
	}
	return out
}

func ones(n int) []int {
	s := make([]int, n)
	for i := range s {
		s[i] = 1
	}
	return s
}
