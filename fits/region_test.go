package fits

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegion(t *testing.T) {
	r, err := NewRegion(NewPosition(1, 2), NewPosition(3, 2))
	require.NoError(t, err)

	assert.Equal(t, 2, r.Rank())
	assert.Equal(t, NewPosition(3, 1), r.Shape())
	assert.Equal(t, int64(3), r.Size())
	assert.True(t, r.Contains(NewPosition(2, 2)))
	assert.False(t, r.Contains(NewPosition(2, 3)))
	assert.False(t, r.Contains(NewPosition(2)))

	shifted, err := r.Shift(NewPosition(10, 20))
	require.NoError(t, err)
	assert.Equal(t, NewPosition(11, 22), shifted.Front)
	assert.Equal(t, NewPosition(13, 22), shifted.Back)

	_, err = NewRegion(NewPosition(3, 0), NewPosition(1, 0))
	var shapeErr *ShapeError
	assert.ErrorAs(t, err, &shapeErr)
}

func TestRegionFromShape(t *testing.T) {
	r, err := RegionFromShape(NewPosition(2, 3), NewPosition(4, 5))
	require.NoError(t, err)
	assert.Equal(t, NewPosition(5, 7), r.Back)

	_, err = RegionFromShape(NewPosition(0, 0), NewPosition(4, 0))
	var shapeErr *ShapeError
	assert.ErrorAs(t, err, &shapeErr)
}

func TestRegionResolve(t *testing.T) {
	shape := NewPosition(4, 5)

	whole, err := WholeRegion(2).Resolve(shape)
	require.NoError(t, err)
	assert.Equal(t, NewPosition(0, 0), whole.Front)
	assert.Equal(t, NewPosition(3, 4), whole.Back)

	tail, err := Region{Front: NewPosition(1, 2), Back: NewPosition(-2, -1)}.Resolve(shape)
	require.NoError(t, err)
	assert.Equal(t, NewPosition(2, 4), tail.Back)

	_, err = Region{Front: NewPosition(0, 0), Back: NewPosition(4, 4)}.Resolve(shape)
	var oob *OutOfBoundsError
	require.ErrorAs(t, err, &oob)
	var shapeErr *ShapeError
	assert.ErrorAs(t, err, &shapeErr)

	_, err = WholeRegion(3).Resolve(shape)
	assert.ErrorAs(t, err, &shapeErr)
}

func TestRegionPositions(t *testing.T) {
	r, err := NewRegion(NewPosition(1, 0), NewPosition(2, 1))
	require.NoError(t, err)

	got := slices.Collect(r.Positions())

	assert.Equal(t, []Position{
		NewPosition(1, 0),
		NewPosition(2, 0),
		NewPosition(1, 1),
		NewPosition(2, 1),
	}, got)
}
