package dtype

import (
	"bytes"
	"fmt"
	"math"

	"github.com/robert-malhotra/go-fits/internal/binary"
)

var order = binary.Order

// Encode converts a typed slice to big-endian bytes.
// Logical values are encoded as the characters 'T' and 'F'.
func Encode[T Scalar](vals []T) []byte {
	out := make([]byte, len(vals)*Width[T]())

	switch v := any(vals).(type) {
	case []bool:
		for i, b := range v {
			out[i] = 'F'
			if b {
				out[i] = 'T'
			}
		}
	case []int8:
		for i, x := range v {
			out[i] = byte(x)
		}
	case []uint8:
		copy(out, v)
	case []int16:
		for i, x := range v {
			order.PutUint16(out[2*i:], uint16(x))
		}
	case []uint16:
		for i, x := range v {
			order.PutUint16(out[2*i:], x)
		}
	case []int32:
		for i, x := range v {
			order.PutUint32(out[4*i:], uint32(x))
		}
	case []uint32:
		for i, x := range v {
			order.PutUint32(out[4*i:], x)
		}
	case []int64:
		for i, x := range v {
			order.PutUint64(out[8*i:], uint64(x))
		}
	case []uint64:
		for i, x := range v {
			order.PutUint64(out[8*i:], x)
		}
	case []float32:
		for i, x := range v {
			order.PutUint32(out[4*i:], math.Float32bits(x))
		}
	case []float64:
		for i, x := range v {
			order.PutUint64(out[8*i:], math.Float64bits(x))
		}
	case []complex64:
		for i, x := range v {
			order.PutUint32(out[8*i:], math.Float32bits(real(x)))
			order.PutUint32(out[8*i+4:], math.Float32bits(imag(x)))
		}
	case []complex128:
		for i, x := range v {
			order.PutUint64(out[16*i:], math.Float64bits(real(x)))
			order.PutUint64(out[16*i+8:], math.Float64bits(imag(x)))
		}
	}
	return out
}

// Decode fills out from big-endian bytes. raw must hold exactly len(out)
// elements.
func Decode[T Scalar](raw []byte, out []T) error {
	if want := len(out) * Width[T](); len(raw) != want {
		return fmt.Errorf("decoding %d %s values: got %d bytes, want %d", len(out), TypeOf[T](), len(raw), want)
	}

	switch v := any(out).(type) {
	case []bool:
		for i := range v {
			v[i] = raw[i] == 'T'
		}
	case []int8:
		for i := range v {
			v[i] = int8(raw[i])
		}
	case []uint8:
		copy(v, raw)
	case []int16:
		for i := range v {
			v[i] = int16(order.Uint16(raw[2*i:]))
		}
	case []uint16:
		for i := range v {
			v[i] = order.Uint16(raw[2*i:])
		}
	case []int32:
		for i := range v {
			v[i] = int32(order.Uint32(raw[4*i:]))
		}
	case []uint32:
		for i := range v {
			v[i] = order.Uint32(raw[4*i:])
		}
	case []int64:
		for i := range v {
			v[i] = int64(order.Uint64(raw[8*i:]))
		}
	case []uint64:
		for i := range v {
			v[i] = order.Uint64(raw[8*i:])
		}
	case []float32:
		for i := range v {
			v[i] = math.Float32frombits(order.Uint32(raw[4*i:]))
		}
	case []float64:
		for i := range v {
			v[i] = math.Float64frombits(order.Uint64(raw[8*i:]))
		}
	case []complex64:
		for i := range v {
			re := math.Float32frombits(order.Uint32(raw[8*i:]))
			im := math.Float32frombits(order.Uint32(raw[8*i+4:]))
			v[i] = complex(re, im)
		}
	case []complex128:
		for i := range v {
			re := math.Float64frombits(order.Uint64(raw[16*i:]))
			im := math.Float64frombits(order.Uint64(raw[16*i+8:]))
			v[i] = complex(re, im)
		}
	}
	return nil
}

// EncodeStrings writes each string into a field of width bytes, padding
// with NUL characters. Strings longer than width are an error.
func EncodeStrings(vals []string, width int) ([]byte, error) {
	out := make([]byte, len(vals)*width)
	for i, s := range vals {
		if len(s) > width {
			return nil, fmt.Errorf("string %d has %d characters, field width is %d", i, len(s), width)
		}
		copy(out[i*width:], s)
	}
	return out, nil
}

// DecodeStrings splits raw into n fields of width bytes. Each field ends at
// its first NUL and trailing spaces are removed.
func DecodeStrings(raw []byte, width, n int) ([]string, error) {
	if len(raw) != width*n {
		return nil, fmt.Errorf("decoding %d strings of width %d: got %d bytes", n, width, len(raw))
	}
	out := make([]string, n)
	for i := range out {
		field := raw[i*width : (i+1)*width]
		if nul := bytes.IndexByte(field, 0); nul >= 0 {
			field = field[:nul]
		}
		out[i] = string(bytes.TrimRight(field, " "))
	}
	return out, nil
}
