package fits

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robert-malhotra/go-fits/internal/engine"
	"github.com/robert-malhotra/go-fits/internal/testutil"
)

// createFile creates a file in a temporary directory, closed when the test
// ends.
func createFile(t *testing.T, opts ...FileOption) *File {
	t.Helper()
	f, err := Open(testutil.TempPath(t, "test.fits"), Create, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

// reopen closes f and opens it again in mode.
func reopen(t *testing.T, f *File, mode Mode) *File {
	t.Helper()
	require.NoError(t, f.Close())
	g, err := Open(f.Path(), mode)
	require.NoError(t, err)
	t.Cleanup(func() { g.Close() })
	return g
}

func TestCreate(t *testing.T) {
	path := testutil.TempPath(t, "new.fits")

	f, err := Open(path, Create)
	require.NoError(t, err)
	assert.Equal(t, OpenPrimaryOnly, f.State())
	assert.Equal(t, Create, f.Mode())
	assert.Equal(t, path, f.Path())

	n, err := f.Len()
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	shape, err := f.Primary().Image().ReadShape()
	require.NoError(t, err)
	assert.Equal(t, 0, shape.Rank())
	require.NoError(t, f.Close())

	_, err = os.Stat(path)
	require.NoError(t, err)
}

func TestCreateExisting(t *testing.T) {
	f := createFile(t)
	require.NoError(t, f.Close())

	_, err := Open(f.Path(), Create)
	var fe *FitsError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, int(engine.FileNotCreated), fe.Status)
	assert.Equal(t, f.Path(), fe.File)

	g, err := Open(f.Path(), Overwrite)
	require.NoError(t, err)
	require.NoError(t, g.Close())
}

func TestOpenMissing(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.fits"), Read)
	var fe *FitsError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, int(engine.FileNotOpened), fe.Status)
}

func TestFileState(t *testing.T) {
	var f File
	assert.Equal(t, Unopened, f.State())

	g := createFile(t)
	assert.Equal(t, OpenPrimaryOnly, g.State())

	_, err := g.AppendRecordExt("META")
	require.NoError(t, err)
	assert.Equal(t, OpenWithExtensions, g.State())

	require.NoError(t, g.Close())
	assert.Equal(t, Closed, g.State())
	assert.NoError(t, g.Close(), "Close is idempotent")

	_, err = g.Len()
	assert.ErrorIs(t, err, ErrClosed)
	_, err = g.HDU(1)
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, g.Flush(), ErrClosed)
	assert.ErrorIs(t, g.CloseAndDelete(), ErrClosed)
}

func TestTemporary(t *testing.T) {
	path := testutil.TempPath(t, "tmp.fits")
	f, err := Open(path, Temporary)
	require.NoError(t, err)
	_, err = AppendImageExt[int16](f, "SCRATCH", NewPosition(4, 4))
	require.NoError(t, err)
	require.NoError(t, f.Flush())

	_, err = os.Stat(path)
	require.NoError(t, err)

	require.NoError(t, f.Close())
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestCreateTemp(t *testing.T) {
	dir := t.TempDir()
	f, err := CreateTemp(WithTempDir(dir))
	require.NoError(t, err)
	assert.Equal(t, Temporary, f.Mode())
	assert.Equal(t, dir, filepath.Dir(f.Path()))

	g, err := CreateTemp(WithTempDir(dir))
	require.NoError(t, err)
	assert.NotEqual(t, f.Path(), g.Path())

	require.NoError(t, f.Close())
	require.NoError(t, g.Close())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestCloseAndDelete(t *testing.T) {
	f := createFile(t)
	require.NoError(t, f.CloseAndDelete())
	_, err := os.Stat(f.Path())
	assert.True(t, os.IsNotExist(err))
	assert.Equal(t, Closed, f.State())
}

func TestReadOnly(t *testing.T) {
	f := createFile(t)
	_, err := AppendImageExt[float32](f, "SCI", NewPosition(2, 2))
	require.NoError(t, err)
	f = reopen(t, f, Read)

	var accessErr *AccessError
	hdu, err := f.HDU(2)
	require.NoError(t, err)
	assert.ErrorAs(t, Write(hdu.Header(), "GAIN", 2.0, "", ""), &accessErr)

	r, err := NewRaster[float32](NewPosition(2, 2))
	require.NoError(t, err)
	assert.ErrorAs(t, WriteRaster(hdu.Image(), r), &accessErr)
	assert.ErrorAs(t, f.RemoveHDU(2), &accessErr)

	_, err = AppendImageExt[int32](f, "NEW", NewPosition(1))
	assert.ErrorAs(t, err, &accessErr)

	err = f.CloseAndDelete()
	require.ErrorAs(t, err, &accessErr)
	var fe *FitsError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, f.Path(), fe.File)

	assert.NotEqual(t, Closed, f.State(), "a read-only file stays open")
	_, err = os.Stat(f.Path())
	assert.NoError(t, err)
}

func TestEditPersists(t *testing.T) {
	f := createFile(t)
	require.NoError(t, Write(f.Primary().Header(), "OBSERVER", "Hubble", "", ""))
	f = reopen(t, f, Edit)

	r, err := Parse[string](f.Primary().Header(), "OBSERVER")
	require.NoError(t, err)
	assert.Equal(t, "Hubble", r.Value)

	require.NoError(t, Write(f.Primary().Header(), "OBSERVER", "Leavitt", "", ""))
	f = reopen(t, f, Read)

	r, err = Parse[string](f.Primary().Header(), "OBSERVER")
	require.NoError(t, err)
	assert.Equal(t, "Leavitt", r.Value)
}

func TestCompressedFile(t *testing.T) {
	for _, ext := range []string{".fits.gz", ".fits.zst", ".fits.lz4"} {
		t.Run(ext, func(t *testing.T) {
			path := testutil.TempPath(t, "data"+ext)
			f, err := Open(path, Create, WithCompression(-1))
			require.NoError(t, err)

			raster, err := NewRasterFrom(NewPosition(3, 2), []int32{1, 2, 3, 4, 5, 6})
			require.NoError(t, err)
			_, err = AssignImageExt(f, "SCI", raster)
			require.NoError(t, err)
			require.NoError(t, f.Close())

			g, err := Open(path, Read)
			require.NoError(t, err)
			defer g.Close()

			hdu, err := g.Find("SCI", 0)
			require.NoError(t, err)
			got, err := ReadRaster[int32](hdu.Image())
			require.NoError(t, err)
			assert.True(t, RastersEqual(raster, got))
		})
	}
}

func TestFind(t *testing.T) {
	f := createFile(t)
	for _, v := range []int{1, 2} {
		hdu, err := f.AppendRecordExt("EVENTS")
		require.NoError(t, err)
		require.NoError(t, hdu.UpdateVersion(v))
	}

	hdu, err := f.Find("EVENTS", 0)
	require.NoError(t, err)
	assert.Equal(t, 2, hdu.Index())

	hdu, err = f.Find("EVENTS", 2)
	require.NoError(t, err)
	assert.Equal(t, 3, hdu.Index())

	_, err = f.Find("EVENTS", 3)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = f.Find("GTI", 0)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.HDU(4)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRemoveHDU(t *testing.T) {
	f := createFile(t)
	for _, name := range []string{"A", "B", "C"} {
		_, err := f.AppendRecordExt(name)
		require.NoError(t, err)
	}

	require.NoError(t, f.RemoveHDU(3))
	names, err := f.HDUNames()
	require.NoError(t, err)
	assert.Equal(t, []string{"", "A", "C"}, names)

	err = f.RemoveHDU(1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	f := createFile(t, WithLogger(logger))

	_, err := f.AppendRecordExt("META")
	require.NoError(t, err)
	_, err = f.HDU(5)
	require.Error(t, err)

	out := buf.String()
	assert.Contains(t, out, "opened file")
	assert.Contains(t, out, "appended HDU")
	assert.Contains(t, out, "engine call failed")
}
