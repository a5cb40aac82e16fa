package fits

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/robert-malhotra/go-fits/internal/engine"
)

// Mode selects how a file is opened.
type Mode int

// File modes.
const (
	// Read opens an existing file read-only.
	Read Mode = iota
	// Edit opens an existing file for reading and writing.
	Edit
	// Create creates a new file and fails if it exists.
	Create
	// Overwrite creates a new file, replacing any existing one.
	Overwrite
	// Temporary creates a new file which is removed by Close.
	Temporary
)

func (m Mode) String() string {
	switch m {
	case Read:
		return "read"
	case Edit:
		return "edit"
	case Create:
		return "create"
	case Overwrite:
		return "overwrite"
	case Temporary:
		return "temporary"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// State is the lifecycle state of a File.
type State int

// File states.
const (
	Unopened State = iota
	OpenPrimaryOnly
	OpenWithExtensions
	Closed
)

func (s State) String() string {
	switch s {
	case Unopened:
		return "unopened"
	case OpenPrimaryOnly:
		return "open (primary only)"
	case OpenWithExtensions:
		return "open (with extensions)"
	case Closed:
		return "closed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// File is an open FITS file: a primary HDU followed by extensions.
//
// A File and the HDUs obtained from it share the position of the engine
// in the file. They must not be used from several goroutines at once.
type File struct {
	path   string
	mode   Mode
	a      *adapter
	opts   *fileOptions
	closed bool
}

// Open opens or creates the file at path. A created file holds an empty
// primary HDU.
func Open(path string, mode Mode, opts ...FileOption) (*File, error) {
	o := defaultFileOptions()
	for _, opt := range opts {
		opt(o)
	}
	engineOpts := []engine.Option{engine.WithCompressionLevel(o.level)}

	var h *engine.Handle
	var err error
	switch mode {
	case Read:
		h, err = engine.Open(path, false, engineOpts...)
	case Edit:
		h, err = engine.Open(path, true, engineOpts...)
	case Create, Temporary:
		h, err = engine.Create(path, false, engineOpts...)
	case Overwrite:
		h, err = engine.Create(path, true, engineOpts...)
	default:
		return nil, fmt.Errorf("opening %s: invalid mode %s", path, mode)
	}
	if err != nil {
		fe := newFitsError(err, "opening "+path)
		fe.File = path
		return nil, classify(fe)
	}

	o.logger.Debug("opened file", slog.String("path", path), slog.String("mode", mode.String()))
	return &File{
		path: path,
		mode: mode,
		a:    newAdapter(h, o.logger),
		opts: o,
	}, nil
}

// CreateTemp creates a Temporary file with a unique name in the directory
// set by WithTempDir, or in os.TempDir().
func CreateTemp(opts ...FileOption) (*File, error) {
	o := defaultFileOptions()
	for _, opt := range opts {
		opt(o)
	}
	dir := o.tempDir
	if dir == "" {
		dir = os.TempDir()
	}
	return Open(filepath.Join(dir, "fits-"+uuid.NewString()+".fits"), Temporary, opts...)
}

// Close writes pending changes and releases the file. A Temporary file is
// removed. Close can be called several times.
func (f *File) Close() error {
	if f.closed || f.a == nil {
		return nil
	}

	var errs []error
	if f.opts.checksumOnClose && f.mode != Read && f.mode != Temporary {
		if err := f.UpdateChecksums(); err != nil {
			errs = append(errs, err)
		}
	}
	f.closed = true

	var err error
	if f.mode == Temporary {
		err = f.a.h.CloseAndDelete()
	} else {
		err = f.a.h.Close()
	}
	if err != nil {
		errs = append(errs, f.closeError(err, "closing"))
	}
	f.a.log.Debug("closed file", slog.String("path", f.path), slog.Bool("deleted", f.mode == Temporary))
	return errors.Join(errs...)
}

// CloseAndDelete releases and removes the file. It fails with an
// *AccessError if the file was opened in Read mode, in which case the file
// stays open.
func (f *File) CloseAndDelete() error {
	if f.closed || f.a == nil {
		return ErrClosed
	}
	if err := f.a.h.CloseAndDelete(); err != nil {
		if engine.StatusOf(err) == engine.ReadonlyFile {
			return f.a.fail(err, "deleting %s", f.path)
		}
		f.closed = true
		return f.closeError(err, "deleting")
	}
	f.closed = true
	f.a.log.Debug("closed file", slog.String("path", f.path), slog.Bool("deleted", true))
	return nil
}

// closeError describes a failure of a handle which is now released.
func (f *File) closeError(err error, op string) error {
	fe := newFitsError(err, op+" "+f.path)
	fe.File = f.path
	return classify(fe)
}

// Flush writes pending changes to disk.
func (f *File) Flush() error {
	if f.closed {
		return ErrClosed
	}
	if err := f.a.h.Flush(); err != nil {
		return f.a.fail(err, "flushing %s", f.path)
	}
	return nil
}

// Path returns the file path.
func (f *File) Path() string {
	return f.path
}

// Mode returns the mode the file was opened with.
func (f *File) Mode() Mode {
	return f.mode
}

// State returns the lifecycle state of the file.
func (f *File) State() State {
	switch {
	case f.a == nil:
		return Unopened
	case f.closed:
		return Closed
	}
	n, err := f.a.h.HDUCount()
	if err != nil || n <= 1 {
		return OpenPrimaryOnly
	}
	return OpenWithExtensions
}

// Len returns the number of HDUs, primary included.
func (f *File) Len() (int, error) {
	if f.closed {
		return 0, ErrClosed
	}
	n, err := f.a.h.HDUCount()
	if err != nil {
		return 0, f.a.fail(err, "counting HDUs")
	}
	return n, nil
}

// Primary returns the primary HDU.
func (f *File) Primary() *HDU {
	return &HDU{file: f, index: 1, typ: ImageHDU}
}

// HDU returns the HDU at index. The primary HDU is at index 1.
func (f *File) HDU(index int) (*HDU, error) {
	if f.closed {
		return nil, ErrClosed
	}
	if _, err := f.a.at(index); err != nil {
		return nil, err
	}
	typ, err := f.a.h.HDUType()
	if err != nil {
		return nil, f.a.fail(err, "reading type of HDU %d", index)
	}
	return &HDU{file: f, index: index, typ: hduType(typ)}, nil
}

// Find returns the first HDU named name. If version is positive, EXTVER
// must match too.
func (f *File) Find(name string, version int) (*HDU, error) {
	if f.closed {
		return nil, ErrClosed
	}
	n, err := f.Len()
	if err != nil {
		return nil, err
	}
	for i := 1; i <= n; i++ {
		hdu, err := f.HDU(i)
		if err != nil {
			return nil, err
		}
		hduName, err := hdu.Name()
		if err != nil {
			return nil, err
		}
		if hduName != name {
			continue
		}
		if version > 0 {
			v, err := hdu.Version()
			if err != nil {
				return nil, err
			}
			if v != version {
				continue
			}
		}
		return hdu, nil
	}
	if version > 0 {
		return nil, fmt.Errorf("HDU %s version %d: %w", name, version, ErrNotFound)
	}
	return nil, fmt.Errorf("HDU %s: %w", name, ErrNotFound)
}

// HDUNames returns the name of every HDU, "" for unnamed ones.
func (f *File) HDUNames() ([]string, error) {
	var names []string
	err := f.Walk(func(hdu *HDU) error {
		name, err := hdu.Name()
		if err != nil {
			return err
		}
		names = append(names, name)
		return nil
	})
	return names, err
}

// RemoveHDU deletes the extension at index. The following HDUs move down
// by one.
func (f *File) RemoveHDU(index int) error {
	if f.closed {
		return ErrClosed
	}
	h, err := f.a.at(index)
	if err != nil {
		return err
	}
	if err := h.DeleteHDU(); err != nil {
		return f.a.fail(err, "removing HDU %d", index)
	}
	return nil
}

// appended returns the HDU created last.
func (f *File) appended(name string, typ HDUType) (*HDU, error) {
	n, err := f.a.h.HDUCount()
	if err != nil {
		return nil, f.a.fail(err, "counting HDUs")
	}
	f.a.log.Debug("appended HDU",
		slog.String("path", f.path),
		slog.Int("index", n),
		slog.String("name", name),
		slog.String("type", typ.String()))
	return &HDU{file: f, index: n, typ: typ}, nil
}

// AppendRecordExt appends an image extension with no data, holding
// records.
func (f *File) AppendRecordExt(name string, records ...Record[VariantValue]) (*HDU, error) {
	if f.closed {
		return nil, ErrClosed
	}
	if err := f.a.h.CreateImage(engine.ByteImg, nil); err != nil {
		return nil, f.a.fail(err, "appending extension %s", name)
	}
	hdu, err := f.appended(name, ImageHDU)
	if err != nil {
		return nil, err
	}
	if err := hdu.initName(name); err != nil {
		return nil, err
	}
	if err := hdu.Header().WriteSeq(records...); err != nil {
		return nil, err
	}
	return hdu, nil
}

// AppendImageExt appends an image extension of T with the given shape.
// Every stored value is zero, so the pixels of the pseudo-unsigned types
// read as their offset.
func AppendImageExt[T Value](f *File, name string, shape Position) (*HDU, error) {
	if f.closed {
		return nil, ErrClosed
	}
	bitpix, err := TypeCodeOf[T]().ImageBitpix()
	if err != nil {
		return nil, err
	}
	if _, err := ShapeSize(shape); err != nil {
		return nil, err
	}
	if err := f.a.h.CreateImage(bitpix, shape); err != nil {
		return nil, f.a.fail(err, "appending image extension %s", name)
	}
	hdu, err := f.appended(name, ImageHDU)
	if err != nil {
		return nil, err
	}
	if err := hdu.initName(name); err != nil {
		return nil, err
	}
	return hdu, nil
}

// AssignImageExt appends an image extension holding raster.
func AssignImageExt[T Value](f *File, name string, raster *Raster[T]) (*HDU, error) {
	hdu, err := AppendImageExt[T](f, name, raster.Shape())
	if err != nil {
		return nil, err
	}
	if err := WriteRaster(hdu.Image(), raster); err != nil {
		return nil, err
	}
	return hdu, nil
}

// AppendBintableExt appends a binary table extension with rows empty rows.
func (f *File) AppendBintableExt(name string, rows int64, defs ...ColumnDef) (*HDU, error) {
	if f.closed {
		return nil, ErrClosed
	}
	engineDefs := make([]engine.ColumnDef, len(defs))
	for i, d := range defs {
		engineDefs[i] = d.engineDef()
	}
	if err := f.a.h.CreateTable(rows, engineDefs, name); err != nil {
		return nil, f.a.fail(err, "appending binary table extension %s", name)
	}
	return f.appended(name, BintableHDU)
}

// AssignBintableExt appends a binary table extension holding columns. The
// table has as many rows as the longest column.
func (f *File) AssignBintableExt(name string, columns ...AnyColumn) (*HDU, error) {
	if f.closed {
		return nil, ErrClosed
	}
	var rows int64
	engineDefs := make([]engine.ColumnDef, len(columns))
	for i, c := range columns {
		rows = max(rows, c.RowCount())
		engineDefs[i] = c.def()
	}
	if err := f.a.h.CreateTable(rows, engineDefs, name); err != nil {
		return nil, f.a.fail(err, "appending binary table extension %s", name)
	}
	hdu, err := f.appended(name, BintableHDU)
	if err != nil {
		return nil, err
	}
	for i, c := range columns {
		if err := writeAnyColumn(f.a, hdu.index, i+1, 0, c); err != nil {
			return nil, err
		}
	}
	return hdu, nil
}

// UpdateChecksums writes the DATASUM and CHECKSUM keywords of every HDU.
func (f *File) UpdateChecksums() error {
	return f.Walk(func(hdu *HDU) error {
		return hdu.UpdateChecksums()
	})
}

// VerifyChecksums verifies the checksums of every HDU. It returns a
// *ChecksumError for the first HDU whose checksums are missing or wrong.
func (f *File) VerifyChecksums() error {
	return f.Walk(func(hdu *HDU) error {
		return hdu.VerifyChecksums()
	})
}
