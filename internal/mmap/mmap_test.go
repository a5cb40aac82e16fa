package mmap

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenReadAt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.fits")
	content := []byte("SIMPLE  =                    T")
	require.NoError(t, os.WriteFile(path, content, 0o644))

	m, err := Open(path)
	require.NoError(t, err)
	defer m.Close()

	assert.Equal(t, len(content), m.Len())
	whole := make([]byte, len(content))
	n, err := m.ReadAt(whole, 0)
	require.NoError(t, err)
	assert.Equal(t, len(content), n)
	assert.Equal(t, content, whole)

	buf := make([]byte, 6)
	n, err = m.ReadAt(buf, 0)
	require.NoError(t, err)
	assert.Equal(t, 6, n)
	assert.Equal(t, "SIMPLE", string(buf))

	n, err = m.ReadAt(buf, int64(len(content)-2))
	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, 2, n)

	_, err = m.ReadAt(buf, int64(len(content)))
	assert.ErrorIs(t, err, io.EOF)
}

func TestOpenEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.fits")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	m, err := Open(path)
	require.NoError(t, err)
	assert.Zero(t, m.Len())
	require.NoError(t, m.Close())
	require.NoError(t, m.Close())
}

func TestOpenMissing(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.fits"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
