package fits

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHDUName(t *testing.T) {
	f := createFile(t)
	primary := f.Primary()
	assert.True(t, primary.IsPrimary())
	assert.Equal(t, ImageHDU, primary.Type())
	assert.Same(t, f, primary.File())

	name, err := primary.Name()
	require.NoError(t, err)
	assert.Equal(t, "", name)
	version, err := primary.Version()
	require.NoError(t, err)
	assert.Equal(t, 1, version)

	hdu, err := f.AppendRecordExt("")
	require.NoError(t, err)
	assert.False(t, hdu.IsPrimary())
	name, err = hdu.Name()
	require.NoError(t, err)
	assert.Equal(t, "", name)

	require.NoError(t, hdu.UpdateName("CAL"))
	require.NoError(t, hdu.UpdateVersion(3))
	name, err = hdu.Name()
	require.NoError(t, err)
	assert.Equal(t, "CAL", name)
	version, err = hdu.Version()
	require.NoError(t, err)
	assert.Equal(t, 3, version)
}

func TestReadDataSize(t *testing.T) {
	f := createFile(t)
	size, err := f.Primary().ReadDataSize()
	require.NoError(t, err)
	assert.Equal(t, int64(0), size)

	hdu, err := AppendImageExt[float64](f, "SCI", NewPosition(10, 10))
	require.NoError(t, err)
	size, err = hdu.ReadDataSize()
	require.NoError(t, err)
	assert.Equal(t, int64(2880), size, "800 bytes padded to one block")
}

func TestChecksums(t *testing.T) {
	f := createFile(t)
	raster, err := NewRasterFrom(NewPosition(2, 2), []int32{1, 2, 3, 4})
	require.NoError(t, err)
	hdu, err := AssignImageExt(f, "SCI", raster)
	require.NoError(t, err)

	var sumErr *ChecksumError
	err = f.VerifyChecksums()
	require.ErrorAs(t, err, &sumErr)
	assert.Equal(t, 1, sumErr.HDUIndex)
	assert.Equal(t, ChecksumMissing, sumErr.Data)
	assert.Equal(t, ChecksumMissing, sumErr.HDU)

	require.NoError(t, f.UpdateChecksums())
	require.NoError(t, f.VerifyChecksums())

	require.NoError(t, Write(hdu.Header(), "GAIN", 2.0, "", ""))
	err = hdu.VerifyChecksums()
	require.ErrorAs(t, err, &sumErr)
	assert.Equal(t, ChecksumValid, sumErr.Data)
	assert.Equal(t, ChecksumInvalid, sumErr.HDU)

	raster.Data()[0] = 100
	require.NoError(t, WriteRaster(hdu.Image(), raster))
	require.NoError(t, f.Primary().VerifyChecksums())
	err = hdu.VerifyChecksums()
	require.ErrorAs(t, err, &sumErr)
	assert.Equal(t, ChecksumInvalid, sumErr.Data)
	assert.Equal(t, 2, sumErr.HDUIndex)
}

func TestChecksumOnClose(t *testing.T) {
	f := createFile(t, WithChecksumOnClose())
	_, err := f.AppendBintableExt("T", 3, DefineColumn[int16](ColumnInfo{Name: "X"}))
	require.NoError(t, err)

	f = reopen(t, f, Read)
	require.NoError(t, f.VerifyChecksums())
}

func TestCorruptedDatasum(t *testing.T) {
	f := createFile(t)
	_, err := AppendImageExt[int16](f, "SCI", NewPosition(4, 4))
	require.NoError(t, err)
	require.NoError(t, f.UpdateChecksums())
	require.NoError(t, f.VerifyChecksums())

	require.NoError(t, Write(f.Primary().Header(), "DATASUM", "12345", "", ""))
	f = reopen(t, f, Read)

	var sumErr *ChecksumError
	err = f.VerifyChecksums()
	require.ErrorAs(t, err, &sumErr)
	assert.Equal(t, 1, sumErr.HDUIndex)
	assert.Equal(t, ChecksumInvalid, sumErr.Data)
}
