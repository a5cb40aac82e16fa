package fits

import (
	"fmt"
	"strconv"
	"strings"
)

// Position is an N-dimensional point or shape. Its rank is its length.
// Arithmetic returns new positions and never modifies its operands.
type Position []int64

// NewPosition returns a position holding coords.
func NewPosition(coords ...int64) Position {
	return append(Position{}, coords...)
}

// ZeroPosition returns the origin of the given rank.
func ZeroPosition(rank int) Position {
	return make(Position, rank)
}

// FilledPosition returns a position of the given rank whose coordinates
// all equal value.
func FilledPosition(rank int, value int64) Position {
	p := make(Position, rank)
	for i := range p {
		p[i] = value
	}
	return p
}

// Rank returns the number of coordinates.
func (p Position) Rank() int {
	return len(p)
}

// Clone returns a copy of p.
func (p Position) Clone() Position {
	return append(Position{}, p...)
}

// Equal reports whether p and other have the same rank and coordinates.
func (p Position) Equal(other Position) bool {
	if len(p) != len(other) {
		return false
	}
	for i := range p {
		if p[i] != other[i] {
			return false
		}
	}
	return true
}

// IsZero reports whether every coordinate is 0.
func (p Position) IsZero() bool {
	for _, v := range p {
		if v != 0 {
			return false
		}
	}
	return true
}

// Slice returns the first n coordinates.
func (p Position) Slice(n int) Position {
	return p[:n:n].Clone()
}

// Extend returns a position of the rank of padding whose first coordinates
// are those of p and the others those of padding.
func (p Position) Extend(padding Position) (Position, error) {
	if len(padding) < len(p) {
		return nil, &ShapeError{Reason: fmt.Sprintf("cannot extend rank %d to rank %d", len(p), len(padding))}
	}
	out := padding.Clone()
	copy(out, p)
	return out, nil
}

func (p Position) combine(other Position, op func(a, b int64) int64) (Position, error) {
	if len(p) != len(other) {
		return nil, &ShapeError{Reason: fmt.Sprintf("rank mismatch: %d and %d", len(p), len(other))}
	}
	out := make(Position, len(p))
	for i := range p {
		out[i] = op(p[i], other[i])
	}
	return out, nil
}

func (p Position) scalar(v int64, op func(a, b int64) int64) Position {
	out := make(Position, len(p))
	for i := range p {
		out[i] = op(p[i], v)
	}
	return out
}

func add(a, b int64) int64 { return a + b }
func sub(a, b int64) int64 { return a - b }
func mul(a, b int64) int64 { return a * b }
func div(a, b int64) int64 { return a / b }

// Add returns p + other, coordinate-wise.
func (p Position) Add(other Position) (Position, error) { return p.combine(other, add) }

// Sub returns p - other, coordinate-wise.
func (p Position) Sub(other Position) (Position, error) { return p.combine(other, sub) }

// Mul returns p * other, coordinate-wise.
func (p Position) Mul(other Position) (Position, error) { return p.combine(other, mul) }

// Div returns p / other, coordinate-wise. A zero coordinate in other is a
// *ShapeError.
func (p Position) Div(other Position) (Position, error) {
	for i, v := range other {
		if v == 0 {
			return nil, &ShapeError{Reason: fmt.Sprintf("division by zero in dimension %d", i)}
		}
	}
	return p.combine(other, div)
}

// AddScalar returns p with v added to every coordinate.
func (p Position) AddScalar(v int64) Position { return p.scalar(v, add) }

// SubScalar returns p with v subtracted from every coordinate.
func (p Position) SubScalar(v int64) Position { return p.scalar(v, sub) }

// MulScalar returns p with every coordinate multiplied by v.
func (p Position) MulScalar(v int64) Position { return p.scalar(v, mul) }

// DivScalar returns p with every coordinate divided by v.
func (p Position) DivScalar(v int64) (Position, error) {
	if v == 0 {
		return nil, &ShapeError{Reason: "division by zero"}
	}
	return p.scalar(v, div), nil
}

func (p Position) String() string {
	parts := make([]string, len(p))
	for i, v := range p {
		parts[i] = strconv.FormatInt(v, 10)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// ShapeSize returns the number of elements of an array of the given shape:
// the product of the extents, or 0 when an extent is 0. A negative extent
// is a ShapeError. The size of a rank-0 shape is 0.
func ShapeSize(shape Position) (int64, error) {
	if len(shape) == 0 {
		return 0, nil
	}
	size := int64(1)
	for i, n := range shape {
		if n < 0 {
			return 0, &ShapeError{Reason: fmt.Sprintf("negative extent %d along axis %d", n, i)}
		}
		size *= n
	}
	return size, nil
}

// Offset returns the index of pos in the flat buffer of an array of the
// given shape, with the first axis varying fastest:
//
//	pos[0] + shape[0]*(pos[1] + shape[1]*(pos[2] + ...))
//
// pos must have the rank of shape.
func Offset(shape, pos Position) int64 {
	offset := int64(0)
	for i := len(shape) - 1; i >= 0; i-- {
		offset = offset*shape[i] + pos[i]
	}
	return offset
}
