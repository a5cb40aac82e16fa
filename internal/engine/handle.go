package engine

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"os"

	"github.com/robert-malhotra/go-fits/internal/binary"
	"github.com/robert-malhotra/go-fits/internal/filter"
	"github.com/robert-malhotra/go-fits/internal/mmap"
)

// Handle is an open FITS file with a current-HDU cursor.
type Handle struct {
	path     string
	writable bool
	units    []*unit
	current  int // 0-based
	modified bool
	closed   bool

	level    int
	pipeline *filter.Pipeline
	mapped   *mmap.File
}

// Option configures a Handle.
type Option func(*Handle)

// WithCompressionLevel sets the level used when the file is written through
// a compression filter.
func WithCompressionLevel(level int) Option {
	return func(h *Handle) {
		h.level = level
	}
}

func newHandle(path string, writable bool, opts []Option) *Handle {
	h := &Handle{path: path, writable: writable, level: filter.DefaultLevel}
	for _, opt := range opts {
		opt(h)
	}
	h.pipeline = filter.ForPathLevel(path, h.level)
	return h
}

// Create creates a new file holding an empty primary HDU. Unless overwrite
// is set, an existing file is an error.
func Create(path string, overwrite bool, opts ...Option) (*Handle, error) {
	h := newHandle(path, true, opts)

	flags := os.O_WRONLY | os.O_CREATE
	if overwrite {
		flags |= os.O_TRUNC
	} else {
		flags |= os.O_EXCL
	}
	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return nil, fail(FileNotCreated, "file %s already exists", path)
		}
		return nil, fail(FileNotCreated, "%v", err)
	}
	if err := f.Close(); err != nil {
		return nil, fail(FileNotCreated, "%v", err)
	}

	h.units = []*unit{newImageUnit(true, ByteImg, nil)}
	if err := h.write(); err != nil {
		os.Remove(path)
		return nil, err
	}
	return h, nil
}

// Open opens an existing file.
func Open(path string, writable bool, opts ...Option) (*Handle, error) {
	h := newHandle(path, writable, opts)

	if writable {
		if err := checkWritable(path); err != nil {
			return nil, err
		}
	}

	var src io.ReaderAt
	var size int64
	if h.pipeline.Empty() && !writable {
		m, err := mmap.Open(path)
		if err != nil {
			return nil, fail(FileNotOpened, "%v", err)
		}
		h.mapped = m
		src, size = m, int64(m.Len())
	} else {
		stored, err := os.ReadFile(path)
		if err != nil {
			return nil, fail(FileNotOpened, "%v", err)
		}
		data, err := h.pipeline.Decode(stored)
		if err != nil {
			return nil, fail(DataDecompression, "%s: %v", path, err)
		}
		src, size = bytes.NewReader(data), int64(len(data))
	}

	units, err := parseUnits(binary.NewReader(src, size))
	if err != nil {
		h.release()
		return nil, err
	}
	h.units = units
	return h, nil
}

func checkWritable(path string) error {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return fail(FileNotOpened, "%v", err)
	}
	return f.Close()
}

// Close flushes pending changes and releases the file.
func (h *Handle) Close() error {
	if err := h.check(); err != nil {
		return err
	}
	err := h.Flush()
	h.release()
	h.closed = true
	return err
}

// CloseAndDelete releases and removes the file.
func (h *Handle) CloseAndDelete() error {
	if err := h.check(); err != nil {
		return err
	}
	if !h.writable {
		return fail(ReadonlyFile, "cannot delete %s: opened read-only", h.path)
	}
	h.release()
	h.closed = true
	if err := os.Remove(h.path); err != nil {
		return fail(FileNotClosed, "removing %s: %v", h.path, err)
	}
	return nil
}

func (h *Handle) release() {
	if h.mapped != nil {
		h.mapped.Close()
		h.mapped = nil
	}
}

// Flush writes the file if it was modified.
func (h *Handle) Flush() error {
	if err := h.check(); err != nil {
		return err
	}
	if !h.modified {
		return nil
	}
	return h.write()
}

func (h *Handle) write() error {
	var buf bytes.Buffer
	w := binary.NewWriter(&buf)
	for i, u := range h.units {
		header, err := u.headerBytes()
		if err != nil {
			return err
		}
		data, err := u.bytes()
		if err != nil {
			return err
		}
		if err := w.WriteBytes(header); err != nil {
			return fail(WriteError, "HDU %d header: %v", i+1, err)
		}
		if err := w.WriteBytes(data); err != nil {
			return fail(WriteError, "HDU %d data: %v", i+1, err)
		}
		if err := w.WritePadding(0); err != nil {
			return fail(WriteError, "HDU %d padding: %v", i+1, err)
		}
	}

	out, err := h.pipeline.Encode(buf.Bytes())
	if err != nil {
		return fail(DataCompression, "%s: %v", h.path, err)
	}
	if err := os.WriteFile(h.path, out, 0o644); err != nil {
		return fail(WriteError, "%v", err)
	}
	h.modified = false
	return nil
}

func (h *Handle) check() error {
	if h == nil || h.closed {
		return fail(BadFileptr, "file is closed")
	}
	return nil
}

func (h *Handle) checkWrite() error {
	if err := h.check(); err != nil {
		return err
	}
	if !h.writable {
		return fail(ReadonlyFile, "%s was opened read-only", h.path)
	}
	return nil
}

// cur returns the current unit.
func (h *Handle) cur() (*unit, error) {
	if err := h.check(); err != nil {
		return nil, err
	}
	return h.units[h.current], nil
}

// curWrite returns the current unit and marks the file modified.
func (h *Handle) curWrite() (*unit, error) {
	if err := h.checkWrite(); err != nil {
		return nil, err
	}
	h.modified = true
	return h.units[h.current], nil
}

// FileName returns the path the file was opened with.
func (h *Handle) FileName() (string, error) {
	if err := h.check(); err != nil {
		return "", err
	}
	return h.path, nil
}

// Writable reports whether the file was opened for writing.
func (h *Handle) Writable() bool {
	return h.writable
}

// GotoHDU moves the cursor to HDU n (1-based) and returns its type.
func (h *Handle) GotoHDU(n int) (HDUType, error) {
	if err := h.check(); err != nil {
		return 0, err
	}
	if n < 1 || n > len(h.units) {
		return 0, fail(BadHDUNum, "HDU %d requested, file has %d", n, len(h.units))
	}
	h.current = n - 1
	return h.units[h.current].hduType(), nil
}

// CurrentHDU returns the 1-based index of the current HDU.
func (h *Handle) CurrentHDU() (int, error) {
	if err := h.check(); err != nil {
		return 0, err
	}
	return h.current + 1, nil
}

// HDUCount returns the number of HDUs in the file.
func (h *Handle) HDUCount() (int, error) {
	if err := h.check(); err != nil {
		return 0, err
	}
	return len(h.units), nil
}

// HDUType returns the type of the current HDU.
func (h *Handle) HDUType() (HDUType, error) {
	u, err := h.cur()
	if err != nil {
		return 0, err
	}
	return u.hduType(), nil
}

// HDUOffsets returns the byte offsets of the current HDU's header start,
// data start and end, as laid out in the uncompressed file.
func (h *Handle) HDUOffsets() (header, data, end int64, err error) {
	if err := h.check(); err != nil {
		return 0, 0, 0, err
	}
	for i, u := range h.units {
		hdr, err := u.headerBytes()
		if err != nil {
			return 0, 0, 0, err
		}
		size, err := u.dataSize()
		if err != nil {
			return 0, 0, 0, err
		}
		data = header + int64(len(hdr))
		end = data + binary.PaddedSize(size)
		if i == h.current {
			return header, data, end, nil
		}
		header = end
	}
	return header, data, end, nil
}

// appendUnit adds u at the end of the file and makes it current.
func (h *Handle) appendUnit(u *unit) {
	h.units = append(h.units, u)
	h.current = len(h.units) - 1
	h.modified = true
}

// DeleteHDU removes the current HDU, which must not be the primary, and
// moves the cursor to the previous HDU.
func (h *Handle) DeleteHDU() error {
	if err := h.checkWrite(); err != nil {
		return err
	}
	if h.current == 0 {
		return fail(BadHDUNum, "cannot delete the primary HDU")
	}
	h.units = append(h.units[:h.current], h.units[h.current+1:]...)
	h.current--
	h.modified = true
	return nil
}
