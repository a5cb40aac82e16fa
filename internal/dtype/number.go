package dtype

import (
	"errors"
	"fmt"
	"math"
)

// Kind is the numeric class of a value.
type Kind int

// Numeric classes.
const (
	KindBool Kind = iota + 1
	KindInt
	KindUint
	KindFloat
	KindComplex
)

var (
	// ErrOverflow is returned when a value does not fit the target type.
	ErrOverflow = errors.New("numeric overflow")
	// ErrConversion is returned when no conversion exists between two kinds.
	ErrConversion = errors.New("incompatible value conversion")
)

// twoPow63 is the TZERO/BZERO offset of unsigned 64-bit storage.
const twoPow63 = 9223372036854775808.0

// Number holds one element in its widest lossless form. Only the field
// selected by Kind is meaningful.
type Number struct {
	Kind Kind
	B    bool
	I    int64
	U    uint64
	F    float64
	C    complex128
}

// Int returns an integer Number.
func Int(v int64) Number { return Number{Kind: KindInt, I: v} }

// Uint returns an unsigned Number.
func Uint(v uint64) Number { return Number{Kind: KindUint, U: v} }

// Float returns a floating point Number.
func Float(v float64) Number { return Number{Kind: KindFloat, F: v} }

// Float64 returns the value as a float64. Complex values yield their real
// part and logicals 0 or 1.
func (n Number) Float64() float64 {
	switch n.Kind {
	case KindBool:
		if n.B {
			return 1
		}
		return 0
	case KindInt:
		return float64(n.I)
	case KindUint:
		return float64(n.U)
	case KindFloat:
		return n.F
	case KindComplex:
		return real(n.C)
	default:
		return 0
	}
}

// Load decodes the element of type t at the start of b.
func Load(t Type, b []byte) Number {
	switch t {
	case Bool:
		return Number{Kind: KindBool, B: b[0] == 'T'}
	case Int8:
		return Int(int64(int8(b[0])))
	case Uint8:
		return Uint(uint64(b[0]))
	case Int16:
		return Int(int64(int16(order.Uint16(b))))
	case Uint16:
		return Uint(uint64(order.Uint16(b)))
	case Int32:
		return Int(int64(int32(order.Uint32(b))))
	case Uint32:
		return Uint(uint64(order.Uint32(b)))
	case Int64:
		return Int(int64(order.Uint64(b)))
	case Uint64:
		return Uint(order.Uint64(b))
	case Float32:
		return Float(float64(math.Float32frombits(order.Uint32(b))))
	case Float64:
		return Float(math.Float64frombits(order.Uint64(b)))
	case Complex64:
		re := math.Float32frombits(order.Uint32(b))
		im := math.Float32frombits(order.Uint32(b[4:]))
		return Number{Kind: KindComplex, C: complex(float64(re), float64(im))}
	case Complex128:
		re := math.Float64frombits(order.Uint64(b))
		im := math.Float64frombits(order.Uint64(b[8:]))
		return Number{Kind: KindComplex, C: complex(re, im)}
	default:
		return Number{}
	}
}

// Store encodes n as type t at the start of b. Floating point values stored
// into integer types are rounded to the nearest integer.
func Store(t Type, b []byte, n Number) error {
	switch t.Kind() {
	case KindBool:
		if n.Kind != KindBool {
			return fmt.Errorf("%w: cannot store %s value as logical", ErrConversion, n.Kind)
		}
		b[0] = 'F'
		if n.B {
			b[0] = 'T'
		}
		return nil

	case KindInt:
		v, err := n.toInt(t)
		if err != nil {
			return err
		}
		switch t {
		case Int8:
			b[0] = byte(int8(v))
		case Int16:
			order.PutUint16(b, uint16(v))
		case Int32:
			order.PutUint32(b, uint32(v))
		default:
			order.PutUint64(b, uint64(v))
		}
		return nil

	case KindUint:
		v, err := n.toUint(t)
		if err != nil {
			return err
		}
		switch t {
		case Uint8:
			b[0] = byte(v)
		case Uint16:
			order.PutUint16(b, uint16(v))
		case Uint32:
			order.PutUint32(b, uint32(v))
		default:
			order.PutUint64(b, v)
		}
		return nil

	case KindFloat:
		if n.Kind == KindBool || n.Kind == KindComplex {
			return fmt.Errorf("%w: cannot store %s value as %s", ErrConversion, n.Kind, t)
		}
		f := n.Float64()
		if t == Float32 {
			if !math.IsInf(f, 0) && !math.IsNaN(f) && math.Abs(f) > math.MaxFloat32 {
				return fmt.Errorf("%w: %g does not fit float32", ErrOverflow, f)
			}
			order.PutUint32(b, math.Float32bits(float32(f)))
			return nil
		}
		order.PutUint64(b, math.Float64bits(f))
		return nil

	case KindComplex:
		if n.Kind == KindBool {
			return fmt.Errorf("%w: cannot store logical value as %s", ErrConversion, t)
		}
		c := n.C
		if n.Kind != KindComplex {
			c = complex(n.Float64(), 0)
		}
		if t == Complex64 {
			order.PutUint32(b, math.Float32bits(float32(real(c))))
			order.PutUint32(b[4:], math.Float32bits(float32(imag(c))))
			return nil
		}
		order.PutUint64(b, math.Float64bits(real(c)))
		order.PutUint64(b[8:], math.Float64bits(imag(c)))
		return nil
	}
	return fmt.Errorf("%w: unknown type %s", ErrConversion, t)
}

var intRange = map[Type][2]int64{
	Int8:  {math.MinInt8, math.MaxInt8},
	Int16: {math.MinInt16, math.MaxInt16},
	Int32: {math.MinInt32, math.MaxInt32},
	Int64: {math.MinInt64, math.MaxInt64},
}

var uintMax = map[Type]uint64{
	Uint8:  math.MaxUint8,
	Uint16: math.MaxUint16,
	Uint32: math.MaxUint32,
	Uint64: math.MaxUint64,
}

func (n Number) toInt(t Type) (int64, error) {
	lo, hi := intRange[t][0], intRange[t][1]
	var v int64
	switch n.Kind {
	case KindInt:
		v = n.I
	case KindUint:
		if n.U > math.MaxInt64 {
			return 0, fmt.Errorf("%w: %d does not fit %s", ErrOverflow, n.U, t)
		}
		v = int64(n.U)
	case KindFloat:
		f := math.Round(n.F)
		if math.IsNaN(f) || f < float64(lo) || f >= -float64(lo) {
			return 0, fmt.Errorf("%w: %g does not fit %s", ErrOverflow, n.F, t)
		}
		v = int64(f)
	default:
		return 0, fmt.Errorf("%w: cannot store %s value as %s", ErrConversion, n.Kind, t)
	}
	if v < lo || v > hi {
		return 0, fmt.Errorf("%w: %d does not fit %s", ErrOverflow, v, t)
	}
	return v, nil
}

func (n Number) toUint(t Type) (uint64, error) {
	hi := uintMax[t]
	var v uint64
	switch n.Kind {
	case KindInt:
		if n.I < 0 {
			return 0, fmt.Errorf("%w: %d does not fit %s", ErrOverflow, n.I, t)
		}
		v = uint64(n.I)
	case KindUint:
		v = n.U
	case KindFloat:
		f := math.Round(n.F)
		if math.IsNaN(f) || f < 0 || f >= 2*twoPow63 {
			return 0, fmt.Errorf("%w: %g does not fit %s", ErrOverflow, n.F, t)
		}
		v = uint64(f)
	default:
		return 0, fmt.Errorf("%w: cannot store %s value as %s", ErrConversion, n.Kind, t)
	}
	if v > hi {
		return 0, fmt.Errorf("%w: %d does not fit %s", ErrOverflow, v, t)
	}
	return v, nil
}

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "logical"
	case KindInt:
		return "integer"
	case KindUint:
		return "unsigned"
	case KindFloat:
		return "float"
	case KindComplex:
		return "complex"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Scale converts a stored value to its physical value: zero + scale*n.
// Integer offsets with unit scale are applied exactly, including the 2^63
// offset of unsigned 64-bit storage.
func Scale(n Number, zero, scale float64) Number {
	if zero == 0 && scale == 1 {
		return n
	}
	if scale == 1 && (n.Kind == KindInt || n.Kind == KindUint) {
		if zero == twoPow63 && n.Kind == KindInt {
			return Uint(uint64(n.I) ^ (1 << 63))
		}
		if off, ok := exactOffset(zero); ok {
			if n.Kind == KindInt {
				return Int(n.I + off)
			}
			if n.U <= math.MaxInt32 {
				return Int(int64(n.U) + off)
			}
		}
	}
	if n.Kind == KindComplex {
		return Number{Kind: KindComplex, C: complex(zero, 0) + complex(scale, 0)*n.C}
	}
	return Float(zero + scale*n.Float64())
}

// Unscale converts a physical value to its stored value: (n - zero) / scale.
func Unscale(n Number, zero, scale float64) (Number, error) {
	if zero == 0 && scale == 1 {
		return n, nil
	}
	if scale == 1 && (n.Kind == KindInt || n.Kind == KindUint) {
		if zero == twoPow63 {
			if n.Kind == KindUint {
				return Int(int64(n.U ^ (1 << 63))), nil
			}
			if n.I < 0 {
				return Number{}, fmt.Errorf("%w: %d is below the unsigned offset", ErrOverflow, n.I)
			}
			return Int(int64(uint64(n.I) ^ (1 << 63))), nil
		}
		if off, ok := exactOffset(zero); ok {
			if n.Kind == KindInt {
				return Int(n.I - off), nil
			}
			if n.U <= math.MaxInt32 {
				return Int(int64(n.U) - off), nil
			}
		}
	}
	if n.Kind == KindComplex {
		return Number{Kind: KindComplex, C: (n.C - complex(zero, 0)) / complex(scale, 0)}, nil
	}
	return Float((n.Float64() - zero) / scale), nil
}

// exactOffset reports whether zero is an integer small enough to add to
// any 32-bit value without leaving int64.
func exactOffset(zero float64) (int64, bool) {
	if zero != math.Trunc(zero) || math.Abs(zero) > 1<<32 {
		return 0, false
	}
	return int64(zero), true
}
