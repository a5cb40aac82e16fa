package binary

import (
	"io"
)

// Writer writes FITS blocks sequentially to an io.Writer and keeps track of
// the position so that padding can be computed.
type Writer struct {
	w   io.Writer
	pos int64
}

// NewWriter creates a block writer.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Pos returns the current write position.
func (w *Writer) Pos() int64 {
	return w.pos
}

// WriteBytes writes the given bytes at the current position.
func (w *Writer) WriteBytes(data []byte) error {
	if len(data) == 0 {
		return nil
	}
	n, err := w.w.Write(data)
	w.pos += int64(n)
	return err
}

// WritePadding writes fill bytes up to the next block boundary.
// Header units are padded with spaces and data units with zeros.
func (w *Writer) WritePadding(fill byte) error {
	remainder := w.pos % BlockSize
	if remainder == 0 {
		return nil
	}
	pad := make([]byte, BlockSize-remainder)
	if fill != 0 {
		for i := range pad {
			pad[i] = fill
		}
	}
	return w.WriteBytes(pad)
}

// WriteUint16 writes a big-endian unsigned 16-bit integer.
func (w *Writer) WriteUint16(v uint16) error {
	buf := make([]byte, 2)
	Order.PutUint16(buf, v)
	return w.WriteBytes(buf)
}

// WriteUint32 writes a big-endian unsigned 32-bit integer.
func (w *Writer) WriteUint32(v uint32) error {
	buf := make([]byte, 4)
	Order.PutUint32(buf, v)
	return w.WriteBytes(buf)
}

// WriteUint64 writes a big-endian unsigned 64-bit integer.
func (w *Writer) WriteUint64(v uint64) error {
	buf := make([]byte, 8)
	Order.PutUint64(buf, v)
	return w.WriteBytes(buf)
}
