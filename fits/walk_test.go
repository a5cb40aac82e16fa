package fits

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// layeredFile returns a file holding a primary HDU followed by an image, a
// binary table, a record extension and a second image.
func layeredFile(t *testing.T) *File {
	t.Helper()
	f := createFile(t)
	_, err := AppendImageExt[float32](f, "SCI", NewPosition(4, 4))
	require.NoError(t, err)
	_, err = f.AppendBintableExt("EVENTS", 2, DefineColumn[float64](ColumnInfo{Name: "TIME"}))
	require.NoError(t, err)
	_, err = f.AppendRecordExt("META")
	require.NoError(t, err)
	_, err = AppendImageExt[uint8](f, "MASK", NewPosition(4, 4))
	require.NoError(t, err)
	return f
}

func TestWalk(t *testing.T) {
	f := layeredFile(t)

	var indices []int
	var types []HDUType
	err := f.Walk(func(hdu *HDU) error {
		indices = append(indices, hdu.Index())
		types = append(types, hdu.Type())
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, indices)
	assert.Equal(t, []HDUType{ImageHDU, ImageHDU, BintableHDU, ImageHDU, ImageHDU}, types)

	names, err := f.HDUNames()
	require.NoError(t, err)
	assert.Equal(t, []string{"", "SCI", "EVENTS", "META", "MASK"}, names)
}

func TestWalkStop(t *testing.T) {
	f := layeredFile(t)

	count := 0
	err := f.Walk(func(hdu *HDU) error {
		count++
		if hdu.Type() == BintableHDU {
			return ErrStopWalk
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	boom := errors.New("boom")
	err = f.Walk(func(hdu *HDU) error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.True(t, IsStopWalk(ErrStopWalk))
	assert.False(t, IsStopWalk(boom))
}

func TestSelect(t *testing.T) {
	f := layeredFile(t)

	collect := func(filter HDUFilter) []int {
		var out []int
		for hdu, err := range f.Select(filter) {
			require.NoError(t, err)
			out = append(out, hdu.Index())
		}
		return out
	}

	assert.Equal(t, []int{1, 2, 3, 4, 5}, collect(nil))
	assert.Equal(t, []int{3}, collect(OfType(BintableHDU)))
	assert.Equal(t, []int{2, 4, 5}, collect(And(Extensions(), OfType(ImageHDU))))
	assert.Equal(t, []int{5}, collect(Named("MASK")))
	assert.Empty(t, collect(And(Named("MASK"), OfType(BintableHDU))))

	var first *HDU
	for hdu, err := range f.All() {
		require.NoError(t, err)
		first = hdu
		break
	}
	require.NotNil(t, first)
	assert.True(t, first.IsPrimary())

	require.NoError(t, f.Close())
	var errs []error
	for _, err := range f.All() {
		errs = append(errs, err)
	}
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], ErrClosed)
}
