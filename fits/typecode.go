package fits

import (
	"fmt"
	"strconv"

	"github.com/robert-malhotra/go-fits/internal/engine"
)

// Scalar is the set of numeric and logical value types that can be stored
// in records, images and columns.
type Scalar interface {
	bool | int8 | int16 | int32 | int64 | uint8 | uint16 | uint32 | uint64 |
		float32 | float64 | complex64 | complex128
}

// Value is the closed set of supported value types. int8 is the single-byte
// character type.
type Value interface {
	Scalar | string
}

// Integer is the set of integer value types.
type Integer interface {
	int8 | int16 | int32 | int64 | uint8 | uint16 | uint32 | uint64
}

// Float is the set of floating point value types.
type Float interface {
	float32 | float64
}

// TypeCode describes how a value type is exchanged with the engine in each
// context: header records, binary table columns and images.
type TypeCode struct {
	name     string
	record   engine.Tag
	bintable engine.Tag
	image    engine.Tag
	bitpix   int
	width    int
	letter   byte
}

var typeCodes = []TypeCode{
	{"bool", engine.TLOGICAL, engine.TLOGICAL, engine.TBYTE, engine.ByteImg, 1, 'L'},
	{"int8", engine.TSBYTE, engine.TSBYTE, engine.TSBYTE, engine.SByteImg, 1, 'S'},
	{"int16", engine.TSHORT, engine.TSHORT, engine.TSHORT, engine.ShortImg, 2, 'I'},
	{"int32", engine.TINT, engine.TINT, engine.TINT, engine.LongImg, 4, 'J'},
	{"int64", engine.TLONGLONG, engine.TLONGLONG, engine.TLONGLONG, engine.LongLongImg, 8, 'K'},
	{"uint8", engine.TBYTE, engine.TBYTE, engine.TBYTE, engine.ByteImg, 1, 'B'},
	{"uint16", engine.TUSHORT, engine.TUSHORT, engine.TUSHORT, engine.UShortImg, 2, 'U'},
	{"uint32", engine.TUINT, engine.TUINT, engine.TUINT, engine.ULongImg, 4, 'V'},
	{"uint64", engine.TULONGLONG, engine.TULONGLONG, engine.TULONGLONG, engine.ULongLongImg, 8, 'W'},
	{"float32", engine.TFLOAT, engine.TFLOAT, engine.TFLOAT, engine.FloatImg, 4, 'E'},
	{"float64", engine.TDOUBLE, engine.TDOUBLE, engine.TDOUBLE, engine.DoubleImg, 8, 'D'},
	{"complex64", engine.TCOMPLEX, engine.TCOMPLEX, 0, 0, 8, 'C'},
	{"complex128", engine.TDBLCOMPLEX, engine.TDBLCOMPLEX, 0, 0, 16, 'M'},
	{"string", engine.TSTRING, engine.TSTRING, 0, 0, 1, 'A'},
}

// Indices into typeCodes.
const (
	codeBool = iota
	codeInt8
	codeInt16
	codeInt32
	codeInt64
	codeUint8
	codeUint16
	codeUint32
	codeUint64
	codeFloat32
	codeFloat64
	codeComplex64
	codeComplex128
	codeString
)

// TypeCodeOf returns the type code of T.
func TypeCodeOf[T Value]() TypeCode {
	var zero T
	return typeCodes[codeIndex(any(zero))]
}

// codeIndex returns the index of the type code of v, or -1 when the type of
// v is not supported.
func codeIndex(v any) int {
	switch v.(type) {
	case bool:
		return codeBool
	case int8:
		return codeInt8
	case int16:
		return codeInt16
	case int32:
		return codeInt32
	case int64:
		return codeInt64
	case uint8:
		return codeUint8
	case uint16:
		return codeUint16
	case uint32:
		return codeUint32
	case uint64:
		return codeUint64
	case float32:
		return codeFloat32
	case float64:
		return codeFloat64
	case complex64:
		return codeComplex64
	case complex128:
		return codeComplex128
	case string:
		return codeString
	default:
		return -1
	}
}

// SupportedTypes returns the type code of every supported value type.
func SupportedTypes() []TypeCode {
	return append([]TypeCode(nil), typeCodes...)
}

// Name returns the Go name of the type.
func (c TypeCode) Name() string {
	return c.name
}

func (c TypeCode) String() string {
	return c.name
}

// RecordTag returns the engine type tag used for header records.
func (c TypeCode) RecordTag() int {
	return int(c.record)
}

// BintableTag returns the engine type tag used for binary table columns.
func (c TypeCode) BintableTag() int {
	return int(c.bintable)
}

// ImageTag returns the engine type tag used for images. Complex and string
// values have no image representation.
func (c TypeCode) ImageTag() (int, error) {
	if c.image == 0 {
		return 0, &TypeError{Type: c.name, Reason: "cannot be stored in an image"}
	}
	return int(c.image), nil
}

// ImageBitpix returns the BITPIX value of images of this type, using the
// offset pseudo values for signed bytes and unsigned integers.
func (c TypeCode) ImageBitpix() (int, error) {
	if c.image == 0 {
		return 0, &TypeError{Type: c.name, Reason: "cannot be stored in an image"}
	}
	return c.bitpix, nil
}

// Width returns the size in bytes of one value. For strings it is the size
// of one character.
func (c TypeCode) Width() int {
	return c.width
}

// Letter returns the TFORM type letter.
func (c TypeCode) Letter() byte {
	return c.letter
}

// TForm returns the column format of repeat values per row, such as "3E".
// For strings, repeat is the field width in characters.
func (c TypeCode) TForm(repeat int64) string {
	return strconv.FormatInt(repeat, 10) + string(c.letter)
}

// imageCode returns the type code of images whose physical values are
// described by the equivalent bitpix.
func imageCode(bitpix int) (TypeCode, error) {
	for _, c := range typeCodes[codeInt8:codeComplex64] {
		if c.bitpix == bitpix {
			return c, nil
		}
	}
	return TypeCode{}, &TypeError{Type: fmt.Sprintf("BITPIX=%d", bitpix), Reason: "no matching value type"}
}

// bintableCode returns the type code of columns read with tag.
func bintableCode(tag engine.Tag) (TypeCode, error) {
	for _, c := range typeCodes {
		if c.bintable == tag {
			return c, nil
		}
	}
	return TypeCode{}, &TypeError{Type: tag.String(), Reason: "no matching value type"}
}
