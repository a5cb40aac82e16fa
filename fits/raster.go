package fits

import (
	"fmt"
	"math"
)

// StorageMode tells whether a container owns its buffer.
type StorageMode int

// Storage modes.
const (
	// Owning containers allocate and own their buffer.
	Owning StorageMode = iota
	// Borrowed containers use a caller-provided buffer, which the caller
	// keeps ownership of.
	Borrowed
	// ConstBorrowed containers use a caller-provided buffer and reject
	// every write.
	ConstBorrowed
)

func (m StorageMode) String() string {
	switch m {
	case Owning:
		return "owning"
	case Borrowed:
		return "borrowed"
	case ConstBorrowed:
		return "const-borrowed"
	default:
		return fmt.Sprintf("StorageMode(%d)", int(m))
	}
}

// Raster is an N-dimensional array stored in a flat buffer, first axis
// varying fastest. Its length is always ShapeSize(shape).
type Raster[T Value] struct {
	shape Position
	data  []T
	mode  StorageMode
}

// NewRaster returns a zero-filled owning raster.
func NewRaster[T Value](shape Position) (*Raster[T], error) {
	size, err := ShapeSize(shape)
	if err != nil {
		return nil, err
	}
	return &Raster[T]{shape: shape.Clone(), data: make([]T, size), mode: Owning}, nil
}

// NewRasterFrom returns an owning raster holding a copy of data.
func NewRasterFrom[T Value](shape Position, data []T) (*Raster[T], error) {
	r, err := wrapRaster(shape, data, Owning)
	if err != nil {
		return nil, err
	}
	r.data = append([]T(nil), data...)
	return r, nil
}

// WrapRaster returns a raster over data, which is neither copied nor
// released.
func WrapRaster[T Value](shape Position, data []T) (*Raster[T], error) {
	return wrapRaster(shape, data, Borrowed)
}

// WrapConstRaster returns a read-only raster over data.
func WrapConstRaster[T Value](shape Position, data []T) (*Raster[T], error) {
	return wrapRaster(shape, data, ConstBorrowed)
}

func wrapRaster[T Value](shape Position, data []T, mode StorageMode) (*Raster[T], error) {
	size, err := ShapeSize(shape)
	if err != nil {
		return nil, err
	}
	if int64(len(data)) != size {
		return nil, &ShapeError{Reason: fmt.Sprintf("%d values for shape %s", len(data), shape)}
	}
	return &Raster[T]{shape: shape.Clone(), data: data, mode: mode}, nil
}

// Shape returns a copy of the shape.
func (r *Raster[T]) Shape() Position {
	return r.shape.Clone()
}

// Rank returns the number of axes.
func (r *Raster[T]) Rank() int {
	return len(r.shape)
}

// Size returns the number of elements.
func (r *Raster[T]) Size() int64 {
	return int64(len(r.data))
}

// Mode returns the storage mode.
func (r *Raster[T]) Mode() StorageMode {
	return r.mode
}

// Data returns the flat buffer. The buffer of a const-borrowed raster must
// not be modified.
func (r *Raster[T]) Data() []T {
	return r.data
}

// Index returns the offset of pos in the flat buffer.
func (r *Raster[T]) Index(pos Position) int64 {
	return Offset(r.shape, pos)
}

func (r *Raster[T]) inBounds(pos Position) error {
	if len(pos) != len(r.shape) {
		return &OutOfBoundsError{Index: pos.Clone(), Shape: r.Shape()}
	}
	for i, v := range pos {
		if v < 0 || v >= r.shape[i] {
			return &OutOfBoundsError{Index: pos.Clone(), Shape: r.Shape()}
		}
	}
	return nil
}

// At returns the element at pos, checking bounds.
func (r *Raster[T]) At(pos Position) (T, error) {
	if err := r.inBounds(pos); err != nil {
		var zero T
		return zero, err
	}
	return r.data[r.Index(pos)], nil
}

// Get returns the element at pos without checking bounds beyond those of
// the buffer.
func (r *Raster[T]) Get(pos Position) T {
	return r.data[r.Index(pos)]
}

func (r *Raster[T]) writable() error {
	if r.mode == ConstBorrowed {
		return &AccessError{Reason: "raster is const-borrowed"}
	}
	return nil
}

// Set assigns v to the element at pos.
func (r *Raster[T]) Set(pos Position, v T) error {
	if err := r.writable(); err != nil {
		return err
	}
	if err := r.inBounds(pos); err != nil {
		return err
	}
	r.data[r.Index(pos)] = v
	return nil
}

// Fill assigns v to every element.
func (r *Raster[T]) Fill(v T) error {
	if err := r.writable(); err != nil {
		return err
	}
	for i := range r.data {
		r.data[i] = v
	}
	return nil
}

// Clone returns an owning copy of r.
func (r *Raster[T]) Clone() *Raster[T] {
	return &Raster[T]{shape: r.Shape(), data: append([]T(nil), r.data...), mode: Owning}
}

// Section returns a view of the slices front to back (inclusive) along the
// last axis. The view shares the buffer of r and is const when r is.
func (r *Raster[T]) Section(front, back int64) (*Raster[T], error) {
	if len(r.shape) == 0 {
		return nil, &ShapeError{Reason: "cannot section a rank-0 raster"}
	}
	last := len(r.shape) - 1
	if front < 0 || back >= r.shape[last] || front > back {
		return nil, &OutOfBoundsError{Index: NewPosition(front, back), Shape: r.Shape()}
	}
	shape := r.Shape()
	shape[last] = back - front + 1
	stride := int64(1)
	for _, n := range r.shape[:last] {
		stride *= n
	}
	mode := Borrowed
	if r.mode == ConstBorrowed {
		mode = ConstBorrowed
	}
	return &Raster[T]{shape: shape, data: r.data[front*stride : (back+1)*stride], mode: mode}, nil
}

// Subraster returns a view of the region of r. The region is resolved
// against the shape of r, so WholeRegion selects everything.
func (r *Raster[T]) Subraster(region Region) (*Subraster[T], error) {
	resolved, err := region.Resolve(r.shape)
	if err != nil {
		return nil, err
	}
	return &Subraster[T]{parent: r, region: resolved}, nil
}

// RastersEqual reports whether a and b have the same shape and elements.
func RastersEqual[T Integer | bool | string](a, b *Raster[T]) bool {
	if !a.shape.Equal(b.shape) {
		return false
	}
	for i := range a.data {
		if a.data[i] != b.data[i] {
			return false
		}
	}
	return true
}

// RastersApprox reports whether test and ref have the same shape and
// elements within a relative tolerance: |test-ref|/|ref| <= tol. Where ref
// is 0, the absolute difference |test| <= tol is checked instead. A NaN on
// either side never matches.
func RastersApprox[T Float](test, ref *Raster[T], tol float64) bool {
	if !test.shape.Equal(ref.shape) {
		return false
	}
	for i := range ref.data {
		t, r := float64(test.data[i]), float64(ref.data[i])
		if r == 0 {
			if !(math.Abs(t) <= tol) {
				return false
			}
			continue
		}
		if !(math.Abs(t-r)/math.Abs(r) <= tol) {
			return false
		}
	}
	return true
}
