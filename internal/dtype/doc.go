// Package dtype converts between Go values and the big-endian byte layout of
// FITS data units.
//
// # Type Mapping Strategy
//
// Every FITS numeric storage type has a Go counterpart:
//
//	FITS storage        | Go Type
//	--------------------|------------------
//	BITPIX 8, TFORM B   | uint8
//	BITPIX 16, TFORM I  | int16
//	BITPIX 32, TFORM J  | int32
//	BITPIX 64, TFORM K  | int64
//	BITPIX -32, TFORM E | float32
//	BITPIX -64, TFORM D | float64
//	TFORM C / M         | complex64 / complex128
//	TFORM L             | bool ('T' / 'F' bytes)
//	TFORM A             | string (fixed width, NUL or space padded)
//
// Signed bytes and unsigned 16/32/64-bit values are stored with an offset
// (BZERO or TZEROn); [Number] carries values through that scaling.
//
// # Key Functions
//
//   - [Encode] / [Decode]: typed slices to and from big-endian bytes
//   - [EncodeStrings] / [DecodeStrings]: fixed-width character fields
//   - [Load] / [Store]: per-element access through a [Number]
//   - [Scale] / [Unscale]: apply or remove a zero/scale offset
package dtype
