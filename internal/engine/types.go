package engine

import (
	"fmt"

	"github.com/robert-malhotra/go-fits/internal/dtype"
)

// Tag is a data type code selecting the encoding of a buffer.
type Tag int

// Type tags.
const (
	TBIT        Tag = 1
	TBYTE       Tag = 11
	TSBYTE      Tag = 12
	TLOGICAL    Tag = 14
	TSTRING     Tag = 16
	TUSHORT     Tag = 20
	TSHORT      Tag = 21
	TUINT       Tag = 30
	TINT        Tag = 31
	TULONG      Tag = 40
	TLONG       Tag = 41
	TFLOAT      Tag = 42
	TULONGLONG  Tag = 80
	TLONGLONG   Tag = 81
	TDOUBLE     Tag = 82
	TCOMPLEX    Tag = 83
	TDBLCOMPLEX Tag = 163
)

var tagTypes = map[Tag]dtype.Type{
	TBYTE:       dtype.Uint8,
	TSBYTE:      dtype.Int8,
	TLOGICAL:    dtype.Bool,
	TUSHORT:     dtype.Uint16,
	TSHORT:      dtype.Int16,
	TUINT:       dtype.Uint32,
	TINT:        dtype.Int32,
	TULONG:      dtype.Uint64,
	TLONG:       dtype.Int64,
	TFLOAT:      dtype.Float32,
	TULONGLONG:  dtype.Uint64,
	TLONGLONG:   dtype.Int64,
	TDOUBLE:     dtype.Float64,
	TCOMPLEX:    dtype.Complex64,
	TDBLCOMPLEX: dtype.Complex128,
}

var tagNames = map[Tag]string{
	TBIT:        "TBIT",
	TBYTE:       "TBYTE",
	TSBYTE:      "TSBYTE",
	TLOGICAL:    "TLOGICAL",
	TSTRING:     "TSTRING",
	TUSHORT:     "TUSHORT",
	TSHORT:      "TSHORT",
	TUINT:       "TUINT",
	TINT:        "TINT",
	TULONG:      "TULONG",
	TLONG:       "TLONG",
	TFLOAT:      "TFLOAT",
	TULONGLONG:  "TULONGLONG",
	TLONGLONG:   "TLONGLONG",
	TDOUBLE:     "TDOUBLE",
	TCOMPLEX:    "TCOMPLEX",
	TDBLCOMPLEX: "TDBLCOMPLEX",
}

func (t Tag) String() string {
	if name, ok := tagNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Tag(%d)", int(t))
}

// Type returns the element type of a numeric or logical tag.
func (t Tag) Type() (dtype.Type, bool) {
	typ, ok := tagTypes[t]
	return typ, ok
}

// Bitpix values, including the pseudo values that select an offset
// storage of signed bytes and unsigned integers.
const (
	ByteImg      = 8
	ShortImg     = 16
	LongImg      = 32
	LongLongImg  = 64
	FloatImg     = -32
	DoubleImg    = -64
	SByteImg     = 10
	UShortImg    = 20
	ULongImg     = 40
	ULongLongImg = 80
)

// storageBitpix maps a bitpix value to the value written in the header and
// the BZERO offset it implies.
func storageBitpix(bitpix int) (int, float64, bool) {
	switch bitpix {
	case ByteImg, ShortImg, LongImg, LongLongImg, FloatImg, DoubleImg:
		return bitpix, 0, true
	case SByteImg:
		return ByteImg, -128, true
	case UShortImg:
		return ShortImg, 32768, true
	case ULongImg:
		return LongImg, 2147483648, true
	case ULongLongImg:
		return LongLongImg, 9223372036854775808, true
	default:
		return 0, 0, false
	}
}

// bitpixType returns the storage element type of a header BITPIX value.
func bitpixType(bitpix int) (dtype.Type, bool) {
	switch bitpix {
	case ByteImg:
		return dtype.Uint8, true
	case ShortImg:
		return dtype.Int16, true
	case LongImg:
		return dtype.Int32, true
	case LongLongImg:
		return dtype.Int64, true
	case FloatImg:
		return dtype.Float32, true
	case DoubleImg:
		return dtype.Float64, true
	default:
		return 0, false
	}
}

// equivalentBitpix returns the pseudo bitpix value describing the physical
// values of data stored with bitpix and scaled by zero and scale.
func equivalentBitpix(bitpix int, zero, scale float64) int {
	if zero == 0 && scale == 1 {
		return bitpix
	}
	if scale == 1 {
		switch {
		case bitpix == ByteImg && zero == -128:
			return SByteImg
		case bitpix == ShortImg && zero == 32768:
			return UShortImg
		case bitpix == LongImg && zero == 2147483648:
			return ULongImg
		case bitpix == LongLongImg && zero == 9223372036854775808:
			return ULongLongImg
		}
	}
	if bitpix == ByteImg || bitpix == ShortImg {
		return FloatImg
	}
	return DoubleImg
}

// HDUType is the kind of a header-data unit.
type HDUType int

// HDU types.
const (
	ImageHDU    HDUType = 0
	ASCIITable  HDUType = 1
	BinaryTable HDUType = 2
)

func (t HDUType) String() string {
	switch t {
	case ImageHDU:
		return "IMAGE"
	case ASCIITable:
		return "TABLE"
	case BinaryTable:
		return "BINTABLE"
	default:
		return fmt.Sprintf("HDUType(%d)", int(t))
	}
}
