package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robert-malhotra/go-fits/internal/dtype"
)

func TestChecksum(t *testing.T) {
	now = func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }
	t.Cleanup(func() { now = time.Now })

	path := tempPath(t, "sum.fits")
	h, err := Create(path, false)
	require.NoError(t, err)
	require.NoError(t, h.CreateImage(ShortImg, []int64{3, 5}))
	pixels := make([]int16, 15)
	for i := range pixels {
		pixels[i] = int16(i * 1000)
	}
	require.NoError(t, h.WriteImage(TSHORT, dtype.Encode(pixels)))

	data, hdu, err := h.VerifyChecksum()
	require.NoError(t, err)
	assert.Equal(t, ChecksumMissing, data)
	assert.Equal(t, ChecksumMissing, hdu)

	require.NoError(t, h.WriteChecksum())
	data, hdu, err = h.VerifyChecksum()
	require.NoError(t, err)
	assert.Equal(t, ChecksumValid, data)
	assert.Equal(t, ChecksumValid, hdu)
	require.NoError(t, h.Close())

	// Still valid once written to disk and read back from the raw header.
	h, err = Open(path, true)
	require.NoError(t, err)
	defer h.Close()
	_, err = h.GotoHDU(2)
	require.NoError(t, err)
	data, hdu, err = h.VerifyChecksum()
	require.NoError(t, err)
	assert.Equal(t, ChecksumValid, data)
	assert.Equal(t, ChecksumValid, hdu)

	raw, comment, err := h.ReadKey("CHECKSUM", TSTRING)
	require.NoError(t, err)
	assert.Len(t, raw, 16)
	assert.Equal(t, "HDU checksum updated 2024-01-02T03:04:05", comment)

	// Changing a pixel breaks both sums.
	require.NoError(t, h.WriteSubset(TSHORT, []int64{1, 1}, []int64{1, 1}, dtype.Encode([]int16{7})))
	data, hdu, err = h.VerifyChecksum()
	require.NoError(t, err)
	assert.Equal(t, ChecksumInvalid, data)
	assert.Equal(t, ChecksumInvalid, hdu)

	require.NoError(t, h.WriteChecksum())
	require.NoError(t, h.UpdateKey("DATASUM", TSTRING, []byte("12345"), ""))
	data, hdu, err = h.VerifyChecksum()
	require.NoError(t, err)
	assert.Equal(t, ChecksumInvalid, data)
	assert.Equal(t, ChecksumInvalid, hdu)
}

func TestChecksumEmptyPrimary(t *testing.T) {
	h := newTestHandle(t)
	require.NoError(t, h.WriteChecksum())
	data, hdu, err := h.VerifyChecksum()
	require.NoError(t, err)
	assert.Equal(t, ChecksumValid, data)
	assert.Equal(t, ChecksumValid, hdu)

	raw, _, err := h.ReadKey("DATASUM", TSTRING)
	require.NoError(t, err)
	assert.Equal(t, "0", string(raw))
}
