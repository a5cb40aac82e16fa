package engine

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robert-malhotra/go-fits/internal/binary"
	"github.com/robert-malhotra/go-fits/internal/dtype"
)

func tempPath(t *testing.T, name string) string {
	t.Helper()
	return filepath.Join(t.TempDir(), name)
}

func requireStatus(t *testing.T, want Status, err error) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, want, StatusOf(err), "error: %v", err)
}

func TestCreateWritesEmptyPrimary(t *testing.T) {
	path := tempPath(t, "empty.fits")
	h, err := Create(path, false)
	require.NoError(t, err)
	require.NoError(t, h.Close())

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, int64(binary.BlockSize), info.Size())

	h, err = Open(path, false)
	require.NoError(t, err)
	defer h.Close()

	count, err := h.HDUCount()
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	params, err := h.ImageParams()
	require.NoError(t, err)
	assert.Equal(t, ByteImg, params.Bitpix)
	assert.Empty(t, params.Naxes)
}

func TestCreateExisting(t *testing.T) {
	path := tempPath(t, "exists.fits")
	h, err := Create(path, false)
	require.NoError(t, err)
	require.NoError(t, h.Close())

	_, err = Create(path, false)
	requireStatus(t, FileNotCreated, err)

	h, err = Create(path, true)
	require.NoError(t, err)
	require.NoError(t, h.Close())
}

func TestOpenMissing(t *testing.T) {
	_, err := Open(tempPath(t, "missing.fits"), false)
	requireStatus(t, FileNotOpened, err)
}

func TestOpenGarbage(t *testing.T) {
	path := tempPath(t, "garbage.fits")
	require.NoError(t, os.WriteFile(path, make([]byte, binary.BlockSize), 0o644))
	_, err := Open(path, false)
	require.Error(t, err)
}

// writeHeader writes a primary header holding cards and no data.
func writeHeader(t *testing.T, cards ...string) string {
	t.Helper()
	var b strings.Builder
	for _, c := range append(cards, "END") {
		fmt.Fprintf(&b, "%-80s", c)
	}
	path := tempPath(t, "crafted.fits")
	header := []byte(b.String())
	header = append(header, bytes.Repeat([]byte(" "), int(binary.PaddedSize(int64(len(header))))-len(header))...)
	require.NoError(t, os.WriteFile(path, header, 0o644))
	return path
}

func TestOpenOversizedData(t *testing.T) {
	tests := []struct {
		name  string
		cards []string
		want  Status
	}{
		{"axes product", []string{"NAXIS   = 2", "NAXIS1  = 4294967296", "NAXIS2  = 4294967296"}, BadNaxes},
		{"pixel width", []string{"NAXIS   = 1", "NAXIS1  = 2305843009213693952"}, BadNaxes},
		{"many axes", []string{"NAXIS   = 3", "NAXIS1  = 65536", "NAXIS2  = 65536", "NAXIS3  = 4294967296"}, BadNaxes},
		{"negative pcount", []string{"NAXIS   = 1", "NAXIS1  = 1", "PCOUNT  = -100"}, BadNaxes},
		{"pcount", []string{"NAXIS   = 1", "NAXIS1  = 1", "PCOUNT  = 9223372036854775807"}, BadNaxes},
		{"gcount", []string{"NAXIS   = 1", "NAXIS1  = 1073741824", "GCOUNT  = 8589934592"}, BadNaxes},
		{"larger than file", []string{"NAXIS   = 1", "NAXIS1  = 1099511627776"}, EndOfFile},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cards := append([]string{"SIMPLE  = T", "BITPIX  = 64"}, tt.cards...)
			_, err := Open(writeHeader(t, cards...), false)
			requireStatus(t, tt.want, err)
		})
	}
}

func TestCreateOversizedImage(t *testing.T) {
	h, err := Create(tempPath(t, "big.fits"), false)
	require.NoError(t, err)
	defer h.Close()

	requireStatus(t, BadNaxes, h.CreateImage(DoubleImg, []int64{1 << 31, 1 << 31, 1 << 31}))
	count, err := h.HDUCount()
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestGotoHDU(t *testing.T) {
	h, err := Create(tempPath(t, "goto.fits"), false)
	require.NoError(t, err)
	defer h.Close()

	require.NoError(t, h.CreateImage(FloatImg, []int64{2, 2}))
	require.NoError(t, h.CreateTable(0, []ColumnDef{{Name: "A", Form: "J"}}, "T"))

	typ, err := h.GotoHDU(2)
	require.NoError(t, err)
	assert.Equal(t, ImageHDU, typ)

	typ, err = h.GotoHDU(3)
	require.NoError(t, err)
	assert.Equal(t, BinaryTable, typ)

	n, err := h.CurrentHDU()
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	_, err = h.GotoHDU(4)
	requireStatus(t, BadHDUNum, err)
	_, err = h.GotoHDU(0)
	requireStatus(t, BadHDUNum, err)

	_, err = h.ImageParams()
	requireStatus(t, NotImage, err)
	_, err = h.GotoHDU(2)
	require.NoError(t, err)
	_, err = h.NumRows()
	requireStatus(t, NotBtable, err)
}

func TestClosedHandle(t *testing.T) {
	h, err := Create(tempPath(t, "closed.fits"), false)
	require.NoError(t, err)
	require.NoError(t, h.Close())

	_, err = h.CurrentHDU()
	requireStatus(t, BadFileptr, err)
	requireStatus(t, BadFileptr, h.Close())
}

func TestReadonly(t *testing.T) {
	path := tempPath(t, "ro.fits")
	h, err := Create(path, false)
	require.NoError(t, err)
	require.NoError(t, h.Close())

	h, err = Open(path, false)
	require.NoError(t, err)
	defer h.Close()

	requireStatus(t, ReadonlyFile, h.UpdateKey("OBJECT", TSTRING, []byte("x"), ""))
	requireStatus(t, ReadonlyFile, h.CreateImage(ByteImg, []int64{1}))
	requireStatus(t, ReadonlyFile, h.CloseAndDelete())
	assert.FileExists(t, path)
}

func TestCloseAndDelete(t *testing.T) {
	path := tempPath(t, "delete.fits")
	h, err := Create(path, false)
	require.NoError(t, err)
	require.NoError(t, h.CloseAndDelete())
	assert.NoFileExists(t, path)
}

func TestDeleteHDU(t *testing.T) {
	h, err := Create(tempPath(t, "del.fits"), false)
	require.NoError(t, err)
	defer h.Close()

	require.NoError(t, h.CreateImage(ByteImg, []int64{1}))
	require.NoError(t, h.DeleteHDU())
	n, _ := h.HDUCount()
	assert.Equal(t, 1, n)
	requireStatus(t, BadHDUNum, h.DeleteHDU())
}

func TestHDUOffsets(t *testing.T) {
	h, err := Create(tempPath(t, "offsets.fits"), false)
	require.NoError(t, err)
	defer h.Close()

	require.NoError(t, h.CreateImage(ShortImg, []int64{2000}))
	header, data, end, err := h.HDUOffsets()
	require.NoError(t, err)
	assert.Equal(t, int64(binary.BlockSize), header)
	assert.Equal(t, int64(2*binary.BlockSize), data)
	assert.Equal(t, int64(4*binary.BlockSize), end)
}

func TestCompressedRoundTrip(t *testing.T) {
	for _, suffix := range []string{".gz", ".zst", ".lz4"} {
		t.Run(suffix, func(t *testing.T) {
			path := tempPath(t, "image.fits"+suffix)
			h, err := Create(path, false, WithCompressionLevel(1))
			require.NoError(t, err)
			require.NoError(t, h.CreateImage(LongImg, []int64{3}))
			require.NoError(t, h.WriteImage(TINT, dtype.Encode([]int32{1, 2, 3})))
			require.NoError(t, h.Close())

			raw, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.NotEqual(t, "SIMPLE", string(raw[:6]))

			h, err = Open(path, false)
			require.NoError(t, err)
			defer h.Close()
			_, err = h.GotoHDU(2)
			require.NoError(t, err)
			out, err := h.ReadImage(TINT)
			require.NoError(t, err)
			assert.Equal(t, dtype.Encode([]int32{1, 2, 3}), out)
		})
	}
}

func TestStatusText(t *testing.T) {
	assert.Equal(t, "keyword not found in header", KeyNoExist.Text())
	assert.Equal(t, "unknown error status", Status(9999).Text())
	assert.Contains(t, KeyNoExist.Error(), "202")

	err := fail(ColNotFound, "column %q", "FLUX")
	assert.Equal(t, ColNotFound, StatusOf(err))
	assert.Equal(t, `column "FLUX"`, DetailOf(err))
	assert.Equal(t, OK, StatusOf(nil))
}
