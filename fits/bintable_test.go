package fits

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robert-malhotra/go-fits/internal/testutil"
)

// randomColumn returns a column of rows random rows of T.
func randomColumn[T Value](t *testing.T, rng *testutil.RNG, name string, repeat, rows int64) *Column[T] {
	t.Helper()
	n := rows * repeat
	if isString[T]() {
		n = rows
	}
	c, err := NewColumnFrom(ColumnInfo{Name: name, Unit: "u", RepeatCount: repeat}, testutil.Values[T](rng, int(n)))
	require.NoError(t, err)
	return c
}

func testColumnRoundTrip[T Value](t *testing.T) {
	t.Run(TypeCodeOf[T]().Name(), func(t *testing.T) {
		rng := testutil.NewRNG(7)
		f := createFile(t)

		scalar := randomColumn[T](t, rng, "SCALAR", 1, 10)
		vector := randomColumn[T](t, rng, "VECTOR", 3, 10)
		hdu, err := f.AssignBintableExt("TABLE", scalar, vector)
		require.NoError(t, err)
		cols := hdu.Columns()

		rows, err := cols.ReadRowCount()
		require.NoError(t, err)
		assert.Equal(t, int64(10), rows)

		code, err := cols.ReadTypeCode("SCALAR")
		require.NoError(t, err)
		assert.Equal(t, TypeCodeOf[T]().Name(), code.Name())

		f = reopen(t, f, Read)
		hdu, err = f.Find("TABLE", 0)
		require.NoError(t, err)
		cols = hdu.Columns()

		for _, want := range []*Column[T]{scalar, vector} {
			got, err := ReadColumn[T](cols, want.Name())
			require.NoError(t, err)
			assert.Equal(t, want.Data(), got.Data(), want.Name())
			assert.Equal(t, "u", got.Info().Unit)
		}
	})
}

func TestColumnRoundTrip(t *testing.T) {
	testColumnRoundTrip[bool](t)
	testColumnRoundTrip[int8](t)
	testColumnRoundTrip[int16](t)
	testColumnRoundTrip[int32](t)
	testColumnRoundTrip[int64](t)
	testColumnRoundTrip[uint8](t)
	testColumnRoundTrip[uint16](t)
	testColumnRoundTrip[uint32](t)
	testColumnRoundTrip[uint64](t)
	testColumnRoundTrip[float32](t)
	testColumnRoundTrip[float64](t)
	testColumnRoundTrip[complex64](t)
	testColumnRoundTrip[complex128](t)
}

func TestStringColumn(t *testing.T) {
	f := createFile(t)
	names, err := NewColumnFrom(ColumnInfo{Name: "NAME"}, []string{"", "Vega", "Betelgeuse", "Sirius A"})
	require.NoError(t, err)
	hdu, err := f.AssignBintableExt("STARS", names)
	require.NoError(t, err)
	cols := hdu.Columns()

	info, err := cols.ReadInfo("NAME")
	require.NoError(t, err)
	assert.Equal(t, int64(11), info.RepeatCount, "longest string plus one")

	got, err := ReadColumn[string](cols, "NAME")
	require.NoError(t, err)
	assert.Equal(t, names.Data(), got.Data())

	short, err := NewColumnFrom(ColumnInfo{Name: "NAME"}, []string{"Deneb"})
	require.NoError(t, err)
	require.NoError(t, WriteSegment(cols, 1, short))
	got, err = ReadColumn[string](cols, "NAME")
	require.NoError(t, err)
	assert.Equal(t, []string{"", "Deneb", "Betelgeuse", "Sirius A"}, got.Data())

	long, err := NewColumnFrom(ColumnInfo{Name: "NAME"}, []string{"Alpha Centauri A"})
	require.NoError(t, err)
	var shapeErr *ShapeError
	assert.ErrorAs(t, WriteSegment(cols, 0, long), &shapeErr)

	var typeErr *TypeError
	_, err = ReadColumn[int32](cols, "NAME")
	assert.ErrorAs(t, err, &typeErr)
}

func TestColumnTypeMismatch(t *testing.T) {
	f := createFile(t)
	c, err := NewColumnFrom(ColumnInfo{Name: "N", RepeatCount: 1}, []int32{1, -2, 3})
	require.NoError(t, err)
	hdu, err := f.AssignBintableExt("T", c)
	require.NoError(t, err)
	cols := hdu.Columns()

	wide, err := ReadColumn[float64](cols, "N")
	require.NoError(t, err)
	assert.Equal(t, []float64{1, -2, 3}, wide.Data())

	var typeErr *TypeError
	_, err = ReadColumn[uint16](cols, "N")
	assert.ErrorAs(t, err, &typeErr)
	_, err = ReadColumn[bool](cols, "N")
	assert.ErrorAs(t, err, &typeErr)

	_, err = hdu.Image().ReadShape()
	assert.ErrorIs(t, err, ErrNotImage)
	_, err = f.Primary().Columns().ReadRowCount()
	assert.ErrorIs(t, err, ErrNotBintable)
}

func TestSegments(t *testing.T) {
	f := createFile(t)
	hdu, err := f.AppendBintableExt("T", 4,
		DefineColumn[int64](ColumnInfo{Name: "ID"}),
		DefineColumn[float32](ColumnInfo{Name: "POS", Unit: "deg", RepeatCount: 2}))
	require.NoError(t, err)
	cols := hdu.Columns()

	n, err := cols.ReadColumnCount()
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	ids, err := ReadColumn[int64](cols, "ID")
	require.NoError(t, err)
	assert.Equal(t, []int64{0, 0, 0, 0}, ids.Data())

	seg, err := NewColumnFrom(ColumnInfo{Name: "ID", RepeatCount: 1}, []int64{10, 11})
	require.NoError(t, err)
	require.NoError(t, WriteSegment(cols, 1, seg))

	got, err := ReadSegment[int64](cols, "ID", 1, 2)
	require.NoError(t, err)
	assert.Equal(t, []int64{10, 11}, got.Data())

	got, err = ReadSegment[int64](cols, "ID", 2, -1)
	require.NoError(t, err)
	assert.Equal(t, []int64{11, 0}, got.Data())

	grow, err := NewColumnFrom(ColumnInfo{Name: "ID", RepeatCount: 1}, []int64{20, 21})
	require.NoError(t, err)
	require.NoError(t, WriteSegment(cols, 4, grow))
	rows, err := cols.ReadRowCount()
	require.NoError(t, err)
	assert.Equal(t, int64(6), rows, "writing past the end grows the table")

	_, err = ReadSegment[int64](cols, "ID", 5, 2)
	var fe *FitsError
	assert.ErrorAs(t, err, &fe)

	pos, err := ReadColumn[float32](cols, "POS")
	require.NoError(t, err)
	assert.Equal(t, int64(2), pos.Info().RepeatCount)
	assert.Equal(t, "deg", pos.Info().Unit)
	assert.Equal(t, int64(6), pos.RowCount())
}

func TestColumnStructure(t *testing.T) {
	f := createFile(t)
	a, _ := NewColumnFrom(ColumnInfo{Name: "A", RepeatCount: 1}, []int16{1, 2, 3})
	c, _ := NewColumnFrom(ColumnInfo{Name: "C", RepeatCount: 1}, []float64{0.5, 1.5, 2.5})
	hdu, err := f.AssignBintableExt("T", a, c)
	require.NoError(t, err)
	cols := hdu.Columns()

	b, _ := NewColumnFrom(ColumnInfo{Name: "B", RepeatCount: 2}, []uint8{1, 2, 3, 4, 5, 6})
	require.NoError(t, InsertColumn(cols, 1, b))

	d, _ := NewColumnFrom(ColumnInfo{Name: "D"}, []string{"x", "yy", "zzz"})
	require.NoError(t, AppendColumn(cols, d))

	require.NoError(t, cols.InsertNullColumn(0, DefineColumn[bool](ColumnInfo{Name: "FLAG"})))

	names, err := cols.ReadAllNames()
	require.NoError(t, err)
	assert.Equal(t, []string{"FLAG", "A", "B", "C", "D"}, names)

	index, err := cols.ReadIndex("C")
	require.NoError(t, err)
	assert.Equal(t, 3, index)

	name, err := cols.ReadName(2)
	require.NoError(t, err)
	assert.Equal(t, "B", name)

	got, err := ReadColumnAt[float64](cols, 3)
	require.NoError(t, err)
	assert.Equal(t, c.Data(), got.Data())
	gotB, err := ReadColumn[uint8](cols, "B")
	require.NoError(t, err)
	assert.Equal(t, b.Data(), gotB.Data())
	flags, err := ReadColumn[bool](cols, "FLAG")
	require.NoError(t, err)
	assert.Equal(t, []bool{false, false, false}, flags.Data())

	require.NoError(t, cols.Rename("C", "FLUX"))
	has, err := cols.Has("C")
	require.NoError(t, err)
	assert.False(t, has)
	has, err = cols.Has("FLUX")
	require.NoError(t, err)
	assert.True(t, has)

	require.NoError(t, cols.RemoveColumn("A"))
	names, err = cols.ReadAllNames()
	require.NoError(t, err)
	assert.Equal(t, []string{"FLAG", "B", "FLUX", "D"}, names)

	got, err = ReadColumn[float64](cols, "FLUX")
	require.NoError(t, err)
	assert.Equal(t, c.Data(), got.Data())
	gotD, err := ReadColumn[string](cols, "D")
	require.NoError(t, err)
	assert.Equal(t, d.Data(), gotD.Data())

	_, err = ReadColumn[float64](cols, "MISSING")
	var fe *FitsError
	assert.ErrorAs(t, err, &fe)
}
