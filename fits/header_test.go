package fits

import (
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robert-malhotra/go-fits/internal/engine"
)

func testRecordRoundTrip[T Value](t *testing.T, values ...T) {
	t.Run(TypeCodeOf[T]().Name(), func(t *testing.T) {
		f := createFile(t)
		var records []Record[T]
		for i, v := range values {
			records = append(records,
				NewRecord(fmt.Sprintf("VALUE%d", i), v, "unit", "a comment"),
				NewRecord(fmt.Sprintf("ESO.DET.K%d", i), v, "adu", "hierarch"),
				NewRecord(fmt.Sprintf("BARE%d", i), v, "", ""))
		}
		for _, r := range records {
			require.NoError(t, WriteRecord(f.Primary().Header(), r, CreateNew), r.Keyword)
		}

		f = reopen(t, f, Read)
		h := f.Primary().Header()
		for _, want := range records {
			got, err := Parse[T](h, want.Keyword)
			require.NoError(t, err, want.Keyword)
			assert.Equal(t, want, got)
		}
	})
}

func TestRecordRoundTrip(t *testing.T) {
	testRecordRoundTrip(t, true, false)
	testRecordRoundTrip[int8](t, math.MinInt8, -1, 0, math.MaxInt8)
	testRecordRoundTrip[int16](t, math.MinInt16, 0, math.MaxInt16)
	testRecordRoundTrip[int32](t, math.MinInt32, 0, math.MaxInt32)
	testRecordRoundTrip[int64](t, math.MinInt64, 0, math.MaxInt64)
	testRecordRoundTrip[uint8](t, 0, math.MaxUint8)
	testRecordRoundTrip[uint16](t, 0, math.MaxUint16)
	testRecordRoundTrip[uint32](t, 0, math.MaxUint32)
	testRecordRoundTrip[uint64](t, 0, math.MaxUint64)
	testRecordRoundTrip[float32](t, -1.5, 0, 3.25e-12, 1e30)
	testRecordRoundTrip[float64](t, -1.5, 0, math.Pi, 6.02214076e23)
	testRecordRoundTrip[complex64](t, complex(1, -2), complex(0.5, 0.25))
	testRecordRoundTrip[complex128](t, complex(math.Pi, -math.E))
	testRecordRoundTrip(t, "", "M31", "it's quoted", strings.Repeat("long", 30))
}

func TestLongRecordsPersist(t *testing.T) {
	longest := strings.Repeat("k", 63)
	records := []Record[string]{
		NewRecord("NAME", strings.Repeat("x", 60), "deg", "c"),
		NewRecord("LONGVAL", strings.Repeat("0123456789", 15), "deg", strings.Repeat("c", 50)),
		NewRecord("SHORT", "abc", "", strings.Repeat("c", 60)),
		NewRecord("QUOTES", strings.Repeat("'", 80), "m", "quoted"),
		NewRecord("ESO INS FILTER NAME", strings.Repeat("y", 90), "", "filter"),
		NewRecord(longest, "abc", "", "c"),
		NewRecord(longest, strings.Repeat("z", 100), "s", "at the limit"),
	}

	f := createFile(t)
	h := f.Primary().Header()
	for _, r := range records {
		require.NoError(t, WriteRecord(h, r, CreateOrUpdate), r.Keyword)
	}
	require.NoError(t, Write(h, strings.Repeat("K", 60), int64(12345), "", ""))

	f = reopen(t, f, Read)
	h = f.Primary().Header()
	for _, want := range records[:len(records)-2] {
		got, err := Parse[string](h, want.Keyword)
		require.NoError(t, err, want.Keyword)
		assert.Equal(t, want, got)
	}
	got, err := Parse[string](h, longest)
	require.NoError(t, err)
	assert.Equal(t, records[len(records)-1], got)

	n, err := Parse[int64](h, strings.Repeat("K", 60))
	require.NoError(t, err)
	assert.Equal(t, int64(12345), n.Value)
}

func TestRecordTooLong(t *testing.T) {
	f := createFile(t)
	h := f.Primary().Header()

	tests := []struct {
		name string
		err  error
	}{
		{"value after long keyword", Write(h, strings.Repeat("K", 60), int64(1234567890), "", "")},
		{"comment after number", Write(h, "GAIN", 2.5, "e-/ADU", strings.Repeat("c", 60))},
		{"comment after string", Write(h, "OBJECT", "M31", "", strings.Repeat("c", 70))},
		{"keyword", Write(h, strings.Repeat("k", 66), "abc", "", "")},
		{"keyword without room for a string", Write(h, strings.Repeat("k", 64), int32(1), "", "")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var kwErr *KeywordError
			require.ErrorAs(t, tt.err, &kwErr)
			assert.True(t, hasStatus(tt.err, engine.BadKeychar))
		})
	}

	for _, keyword := range []string{strings.Repeat("K", 60), "GAIN", "OBJECT"} {
		ok, err := h.Has(keyword)
		require.NoError(t, err)
		assert.False(t, ok, keyword)
	}
	reopen(t, f, Read)
}

func TestRecordTypeMismatch(t *testing.T) {
	f := createFile(t)
	h := f.Primary().Header()
	require.NoError(t, Write(h, "NAME", "Vega", "", ""))
	require.NoError(t, Write(h, "BIG", int64(1000), "", ""))
	require.NoError(t, Write(h, "RATIO", 0.5, "", ""))

	var typeErr *TypeError
	_, err := Parse[int32](h, "NAME")
	assert.ErrorAs(t, err, &typeErr)
	_, err = Parse[string](h, "BIG")
	assert.ErrorAs(t, err, &typeErr)
	_, err = Parse[int8](h, "BIG")
	assert.ErrorAs(t, err, &typeErr, "overflow")
	_, err = Parse[int64](h, "RATIO")
	assert.ErrorAs(t, err, &typeErr)
	_, err = Parse[bool](h, "BIG")
	assert.ErrorAs(t, err, &typeErr)

	wide, err := Parse[float64](h, "BIG")
	require.NoError(t, err)
	assert.Equal(t, 1000.0, wide.Value)

	var notFound *KeywordNotFoundError
	_, err = Parse[string](h, "MISSING")
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "MISSING", notFound.Keyword)

	undefined := Record[VariantValue]{Keyword: "EMPTY"}
	err = h.WriteSeq(undefined)
	assert.ErrorAs(t, err, &typeErr)
}

func TestParseOr(t *testing.T) {
	f := createFile(t)
	h := f.Primary().Header()
	require.NoError(t, Write[int32](h, "NCOMBINE", 4, "", ""))

	r, err := ParseOr(h, NewRecord[int32]("NCOMBINE", 1, "", ""))
	require.NoError(t, err)
	assert.Equal(t, int32(4), r.Value)

	r, err = ParseOr(h, NewRecord[int32]("NFRAMES", 1, "", "default"))
	require.NoError(t, err)
	assert.Equal(t, int32(1), r.Value)
	assert.Equal(t, "default", r.Comment)
}

func TestRecordModes(t *testing.T) {
	f := createFile(t)
	h := f.Primary().Header()

	require.NoError(t, WriteRecord(h, NewRecord("OBJECT", "M31", "", "first"), CreateUnique))
	err := WriteRecord(h, NewRecord("OBJECT", "M33", "", ""), CreateUnique)
	var exists *KeywordExistsError
	require.ErrorAs(t, err, &exists)
	assert.Equal(t, "OBJECT", exists.Keyword)

	require.NoError(t, WriteRecord(h, NewRecord("OBJECT", "M33", "", "updated"), UpdateExisting))
	r, err := Parse[string](h, "OBJECT")
	require.NoError(t, err)
	assert.Equal(t, "M33", r.Value)
	assert.Equal(t, "updated", r.Comment)

	var notFound *KeywordNotFoundError
	assert.ErrorAs(t, WriteRecord(h, NewRecord("FILTER", "V", "", ""), UpdateExisting), &notFound)
	has, err := h.Has("FILTER")
	require.NoError(t, err)
	assert.False(t, has)

	require.NoError(t, WriteRecord(h, NewRecord("OBJECT", "M101", "", ""), CreateNew))
	keywords, err := h.ReadKeywords(Reserved)
	require.NoError(t, err)
	assert.Equal(t, []string{"OBJECT", "OBJECT"}, keywords)

	require.NoError(t, WriteRecord(h, NewRecord("FILTER", "V", "", ""), CreateOrUpdate))
	require.NoError(t, WriteRecord(h, NewRecord("FILTER", "R", "", ""), CreateOrUpdate))
	r, err = Parse[string](h, "FILTER")
	require.NoError(t, err)
	assert.Equal(t, "R", r.Value)
}

func TestRemoveRecord(t *testing.T) {
	f := createFile(t)
	h := f.Primary().Header()
	require.NoError(t, Write(h, "GAIN", 1.5, "e/ADU", ""))

	has, err := h.Has("gain")
	require.NoError(t, err)
	assert.True(t, has)

	require.NoError(t, h.Remove("GAIN"))
	has, err = h.Has("GAIN")
	require.NoError(t, err)
	assert.False(t, has)

	var notFound *KeywordNotFoundError
	assert.ErrorAs(t, h.Remove("GAIN"), &notFound)
}

func TestWriteSeqPartial(t *testing.T) {
	f := createFile(t)
	h := f.Primary().Header()

	err := h.WriteSeq(
		AnyRecord(NewRecord("FIRST", int64(1), "", "")),
		AnyRecord(NewRecord("SECOND", "two", "", "")),
		AnyRecord(NewRecord("NAXIS", int64(3), "", "")),
		AnyRecord(NewRecord("FOURTH", 4.0, "", "")),
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "record 3 of 4")

	keywords, err := h.ReadKeywords(User)
	require.NoError(t, err)
	assert.Equal(t, []string{"FIRST", "SECOND"}, keywords, "records before the failure are kept")
}

func TestParseSeq(t *testing.T) {
	f := createFile(t)
	h := f.Primary().Header()
	seq := NewRecordSeq()
	AppendRecord(seq, NewRecord("OBJECT", "M31", "", "target"))
	AppendRecord(seq, NewRecord("EXPTIME", 30.5, "s", ""))
	AppendRecord(seq, NewRecord[int16]("NCOMBINE", 4, "", ""))
	AppendRecord(seq, NewRecord[uint64]("HUGE", math.MaxUint64, "", ""))
	AppendRecord(seq, NewRecord("FLAT", true, "", ""))
	AppendRecord(seq, NewRecord("PHASE", complex(1.0, 2.0), "", ""))
	require.NoError(t, h.WriteSeq(seq.Records()...))

	got, err := h.ParseSeq("OBJECT", "EXPTIME", "NCOMBINE", "HUGE", "FLAT", "PHASE")
	require.NoError(t, err)
	require.Equal(t, 6, got.Len())

	object, err := AsRecord[string](got, "OBJECT")
	require.NoError(t, err)
	assert.Equal(t, "target", object.Comment)

	exptime, err := AsRecord[float64](got, "EXPTIME")
	require.NoError(t, err)
	assert.Equal(t, 30.5, exptime.Value)
	assert.Equal(t, "s", exptime.Unit)

	ncombine, err := As[int64](got, "NCOMBINE")
	require.NoError(t, err)
	assert.Equal(t, int64(4), ncombine)

	huge, err := As[uint64](got, "HUGE")
	require.NoError(t, err)
	assert.Equal(t, uint64(math.MaxUint64), huge)

	flat, err := As[bool](got, "FLAT")
	require.NoError(t, err)
	assert.True(t, flat)

	phase, err := As[complex128](got, "PHASE")
	require.NoError(t, err)
	assert.Equal(t, complex(1.0, 2.0), phase)

	var notFound *KeywordNotFoundError
	_, err = h.ParseSeq("OBJECT", "MISSING")
	assert.ErrorAs(t, err, &notFound)
}

func TestParseAll(t *testing.T) {
	f := createFile(t)
	hdu, err := f.AppendRecordExt("META",
		AnyRecord(NewRecord("TELESCOP", "JWST", "", "")),
		AnyRecord(NewRecord("EXPTIME", 12.0, "s", "exposure")),
		AnyRecord(NewRecord[int32]("NINTS", 3, "", "")),
	)
	require.NoError(t, err)
	h := hdu.Header()
	require.NoError(t, h.WriteComment("free text"))
	require.NoError(t, h.WriteHistory("created by a test"))

	user, err := h.ParseAll(User)
	require.NoError(t, err)
	assert.Equal(t, []string{"EXPTIME", "NINTS"}, user.Keywords())

	exptime, err := AsRecord[float64](user, "EXPTIME")
	require.NoError(t, err)
	assert.Equal(t, 12.0, exptime.Value)
	assert.Equal(t, "s", exptime.Unit)
	assert.Equal(t, "exposure", exptime.Comment)

	nints, err := As[int64](user, "NINTS")
	require.NoError(t, err)
	assert.Equal(t, int64(3), nints)

	reserved, err := h.ParseAll(Reserved)
	require.NoError(t, err)
	assert.Equal(t, []string{"EXTNAME", "TELESCOP"}, reserved.Keywords())

	all, err := h.ParseAll(AllCategories)
	require.NoError(t, err)
	assert.NotContains(t, all.Keywords(), "COMMENT", "commentary cards carry no value")

	comments, err := h.ReadKeywords(Comment)
	require.NoError(t, err)
	assert.Equal(t, []string{"COMMENT", "HISTORY"}, comments)

	values, err := h.ReadKeywordsValues(Mandatory)
	require.NoError(t, err)
	assert.Equal(t, "IMAGE", strings.TrimSpace(values["XTENSION"]))
	assert.Equal(t, "0", values["NAXIS"])

	text, err := h.ReadAll(Comment)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(text, "\n")+1)
	assert.True(t, strings.HasPrefix(text, "COMMENT free text"))
}
