package fits

import (
	"fmt"

	"github.com/robert-malhotra/go-fits/internal/dtype"
)

// encodeScalars encodes values as a big-endian engine buffer. Strings are
// handled by the callers, which know the field width.
func encodeScalars[T Value](values []T) ([]byte, error) {
	switch v := any(values).(type) {
	case []bool:
		return dtype.Encode(v), nil
	case []int8:
		return dtype.Encode(v), nil
	case []int16:
		return dtype.Encode(v), nil
	case []int32:
		return dtype.Encode(v), nil
	case []int64:
		return dtype.Encode(v), nil
	case []uint8:
		return dtype.Encode(v), nil
	case []uint16:
		return dtype.Encode(v), nil
	case []uint32:
		return dtype.Encode(v), nil
	case []uint64:
		return dtype.Encode(v), nil
	case []float32:
		return dtype.Encode(v), nil
	case []float64:
		return dtype.Encode(v), nil
	case []complex64:
		return dtype.Encode(v), nil
	case []complex128:
		return dtype.Encode(v), nil
	}
	return nil, &TypeError{Type: fmt.Sprintf("%T", values), Reason: "not a scalar type"}
}

// decodeScalars decodes a big-endian engine buffer into out.
func decodeScalars[T Value](raw []byte, out []T) error {
	var err error
	switch o := any(out).(type) {
	case []bool:
		err = dtype.Decode(raw, o)
	case []int8:
		err = dtype.Decode(raw, o)
	case []int16:
		err = dtype.Decode(raw, o)
	case []int32:
		err = dtype.Decode(raw, o)
	case []int64:
		err = dtype.Decode(raw, o)
	case []uint8:
		err = dtype.Decode(raw, o)
	case []uint16:
		err = dtype.Decode(raw, o)
	case []uint32:
		err = dtype.Decode(raw, o)
	case []uint64:
		err = dtype.Decode(raw, o)
	case []float32:
		err = dtype.Decode(raw, o)
	case []float64:
		err = dtype.Decode(raw, o)
	case []complex64:
		err = dtype.Decode(raw, o)
	case []complex128:
		err = dtype.Decode(raw, o)
	default:
		return &TypeError{Type: fmt.Sprintf("%T", out), Reason: "not a scalar type"}
	}
	if err != nil {
		return &ShapeError{Reason: err.Error()}
	}
	return nil
}

// encodeImage encodes pixels for the image tag of T. Logical pixels are
// stored as bytes holding 0 or 1.
func encodeImage[T Value](values []T) ([]byte, error) {
	if b, ok := any(values).([]bool); ok {
		raw := make([]byte, len(b))
		for i, v := range b {
			if v {
				raw[i] = 1
			}
		}
		return raw, nil
	}
	return encodeScalars(values)
}

// decodeImage decodes pixels read with the image tag of T into out.
func decodeImage[T Value](raw []byte, out []T) error {
	if b, ok := any(out).([]bool); ok {
		if len(raw) != len(b) {
			return &ShapeError{Reason: fmt.Sprintf("%d bytes for %d pixels", len(raw), len(b))}
		}
		for i, v := range raw {
			b[i] = v != 0
		}
		return nil
	}
	return decodeScalars(raw, out)
}
