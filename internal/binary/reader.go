// Package binary provides low-level block I/O for FITS file parsing.
//
// FITS files are a sequence of 2880-byte logical records. All numeric data
// is big-endian; header blocks are ASCII padded with spaces and data blocks
// are padded with zeros.
package binary

import (
	"encoding/binary"
	"errors"
	"io"
)

// BlockSize is the size of a FITS logical record in bytes.
const BlockSize = 2880

// CardSize is the size of one header card in bytes.
const CardSize = 80

// CardsPerBlock is the number of header cards in one block.
const CardsPerBlock = BlockSize / CardSize

// ErrShortBlock is returned when a file ends in the middle of a block.
var ErrShortBlock = errors.New("truncated FITS block")

// Order is the byte order of every FITS numeric value.
var Order = binary.BigEndian

// Reader reads FITS blocks from an io.ReaderAt.
type Reader struct {
	r    io.ReaderAt
	size int64
	pos  int64
}

// NewReader creates a block reader over r, which holds size bytes.
func NewReader(r io.ReaderAt, size int64) *Reader {
	return &Reader{
		r:    r,
		size: size,
	}
}

// At returns a new reader positioned at the given offset.
// The new reader shares the underlying io.ReaderAt but has independent position.
func (r *Reader) At(offset int64) *Reader {
	return &Reader{
		r:    r.r,
		size: r.size,
		pos:  offset,
	}
}

// Source returns the underlying io.ReaderAt.
func (r *Reader) Source() io.ReaderAt {
	return r.r
}

// Pos returns the current read position.
func (r *Reader) Pos() int64 {
	return r.pos
}

// Size returns the number of bytes available to the reader.
func (r *Reader) Size() int64 {
	return r.size
}

// EOF reports whether the reader has consumed all input.
func (r *Reader) EOF() bool {
	return r.pos >= r.size
}

// ReadBytes reads exactly n bytes from the current position.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if n <= 0 {
		return nil, nil
	}
	if r.pos+int64(n) > r.size {
		return nil, io.ErrUnexpectedEOF
	}
	buf := make([]byte, n)
	_, err := r.r.ReadAt(buf, r.pos)
	if err != nil && !(errors.Is(err, io.EOF) && r.pos+int64(n) == r.size) {
		return nil, err
	}
	r.pos += int64(n)
	return buf, nil
}

// ReadBlock reads one complete 2880-byte block.
func (r *Reader) ReadBlock() ([]byte, error) {
	if r.pos+BlockSize > r.size {
		return nil, ErrShortBlock
	}
	return r.ReadBytes(BlockSize)
}

// Skip advances the position by n bytes.
func (r *Reader) Skip(n int64) {
	r.pos += n
}

// PaddedSize rounds n up to a whole number of blocks.
func PaddedSize(n int64) int64 {
	if rem := n % BlockSize; rem != 0 {
		return n + BlockSize - rem
	}
	return n
}
