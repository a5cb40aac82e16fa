package binary

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriterPadding(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	require.NoError(t, w.WriteBytes([]byte("SIMPLE")))
	require.NoError(t, w.WritePadding(' '))
	assert.Equal(t, int64(BlockSize), w.Pos())
	assert.Equal(t, byte(' '), buf.Bytes()[BlockSize-1])

	require.NoError(t, w.WriteUint32(0x01020304))
	require.NoError(t, w.WritePadding(0))
	assert.Equal(t, 2*BlockSize, buf.Len())
	assert.Equal(t, []byte{1, 2, 3, 4, 0}, buf.Bytes()[BlockSize:BlockSize+5])

	// Already aligned: nothing written.
	require.NoError(t, w.WritePadding(0))
	assert.Equal(t, 2*BlockSize, buf.Len())
}
