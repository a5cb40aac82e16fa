package engine

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/robert-malhotra/go-fits/internal/card"
	"github.com/robert-malhotra/go-fits/internal/dtype"
)

// ColumnDef describes a column to create. Form is a TFORM value such as
// "1J", "3E" or "16A". The codes S, U, V and W declare signed bytes and
// unsigned 16-, 32- and 64-bit integers, stored with a TZEROn offset.
type ColumnDef struct {
	Name string
	Form string
	Unit string
}

// ColumnInfo describes a column of the current table.
type ColumnInfo struct {
	Name string
	Unit string
	// Form is the TFORM value as stored in the header.
	Form string
	// Tag is the type of the physical values, once TZEROn and TSCALn are
	// applied.
	Tag Tag
	// Repeat is the number of elements per row; the field width for
	// character columns.
	Repeat int64
	// Width is the stored size of one element in bytes.
	Width int64
}

type column struct {
	name   string
	unit   string
	form   string
	code   byte
	repeat int64
	elem   dtype.Type
	width  int64
	offset int64
	zero   float64
	scale  float64
}

// size returns the number of bytes the column takes in a row.
func (c *column) size() int64 {
	if c.code == 'X' {
		return (c.repeat + 7) / 8
	}
	return c.repeat * c.width
}

func (c *column) tag() Tag {
	offset := c.scale == 1
	switch c.code {
	case 'A':
		return TSTRING
	case 'L':
		return TLOGICAL
	case 'X':
		return TBIT
	case 'P', 'Q':
		return 0
	case 'B':
		if offset && c.zero == -128 {
			return TSBYTE
		}
	case 'I':
		if offset && c.zero == 32768 {
			return TUSHORT
		}
	case 'J':
		if offset && c.zero == 2147483648 {
			return TUINT
		}
	case 'K':
		if offset && c.zero == 9223372036854775808 {
			return TULONGLONG
		}
	}
	if c.zero != 0 || c.scale != 1 {
		return TDOUBLE
	}
	return storedTags[c.code]
}

var storedTags = map[byte]Tag{
	'B': TBYTE,
	'I': TSHORT,
	'J': TINT,
	'K': TLONGLONG,
	'E': TFLOAT,
	'D': TDOUBLE,
	'C': TCOMPLEX,
	'M': TDBLCOMPLEX,
}

var formTypes = map[byte]dtype.Type{
	'L': dtype.Bool,
	'B': dtype.Uint8,
	'I': dtype.Int16,
	'J': dtype.Int32,
	'K': dtype.Int64,
	'E': dtype.Float32,
	'D': dtype.Float64,
	'C': dtype.Complex64,
	'M': dtype.Complex128,
}

// offsetForms maps the declaration-only codes to their storage code and
// TZEROn value.
var offsetForms = map[byte]struct {
	code byte
	zero float64
}{
	'S': {'B', -128},
	'U': {'I', 32768},
	'V': {'J', 2147483648},
	'W': {'K', 9223372036854775808},
}

var formPattern = regexp.MustCompile(`^([0-9]*)([A-Z])(.*)$`)

// parseForm splits a TFORM value into its repeat count and type code.
func parseForm(form string) (int64, byte, error) {
	m := formPattern.FindStringSubmatch(strings.ToUpper(strings.TrimSpace(form)))
	if m == nil {
		return 0, 0, fail(BadTform, "TFORM %q", form)
	}
	repeat := int64(1)
	if m[1] != "" {
		v, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			return 0, 0, fail(BadTform, "TFORM %q", form)
		}
		repeat = v
	}
	return repeat, m[2][0], nil
}

func newColumn(repeat int64, code byte) (*column, error) {
	c := &column{repeat: repeat, code: code, scale: 1}
	switch code {
	case 'A', 'X':
		c.width = 1
	case 'P':
		c.width = 8
	case 'Q':
		c.width = 16
	default:
		typ, ok := formTypes[code]
		if !ok {
			return nil, fail(BadTformDtype, "TFORM code %q", code)
		}
		c.elem = typ
		c.width = int64(typ.Width())
	}
	return c, nil
}

type tableLayout struct {
	rowWidth int64
	rows     int64
	cols     []*column
}

func (u *unit) table() (*tableLayout, error) {
	if u.hduType() != BinaryTable {
		return nil, fail(NotBtable, "HDU is a %s", u.hduType())
	}
	naxes, err := u.naxes()
	if err != nil {
		return nil, err
	}
	if len(naxes) != 2 {
		return nil, fail(BadNaxis, "binary table has NAXIS = %d", len(naxes))
	}
	nfields, ok := u.intValue("TFIELDS")
	if !ok || nfields < 0 || nfields > 999 {
		return nil, fail(BadTfields, "TFIELDS keyword is missing or invalid")
	}

	t := &tableLayout{rowWidth: naxes[0], rows: naxes[1]}
	offset := int64(0)
	for i := 1; i <= int(nfields); i++ {
		form := u.textValue(fmt.Sprintf("TFORM%d", i))
		repeat, code, err := parseForm(form)
		if err != nil {
			return nil, err
		}
		c, err := newColumn(repeat, code)
		if err != nil {
			return nil, err
		}
		c.form = form
		c.name = u.textValue(fmt.Sprintf("TTYPE%d", i))
		c.unit = u.textValue(fmt.Sprintf("TUNIT%d", i))
		c.zero = u.floatValue(fmt.Sprintf("TZERO%d", i), 0)
		c.scale = u.floatValue(fmt.Sprintf("TSCAL%d", i), 1)
		if c.scale == 0 {
			return nil, fail(ZeroScale, "TSCAL%d = 0", i)
		}
		c.offset = offset
		offset += c.size()
		t.cols = append(t.cols, c)
	}
	if offset > t.rowWidth {
		return nil, fail(BadTform, "columns need %d bytes per row, NAXIS1 = %d", offset, t.rowWidth)
	}
	return t, nil
}

func (t *tableLayout) column(col int) (*column, error) {
	if col < 1 || col > len(t.cols) {
		return nil, fail(BadColNum, "column %d requested, table has %d", col, len(t.cols))
	}
	return t.cols[col-1], nil
}

// columnCards returns the header cards declaring column n.
func columnCards(n int, def ColumnDef) ([]card.Card, int64, error) {
	repeat, code, err := parseForm(def.Form)
	if err != nil {
		return nil, 0, err
	}
	zero := 0.0
	if off, ok := offsetForms[code]; ok {
		code, zero = off.code, off.zero
	}
	c, err := newColumn(repeat, code)
	if err != nil {
		return nil, 0, err
	}
	if code == 'P' || code == 'Q' {
		return nil, 0, fail(BadTformDtype, "variable-length column %s is not supported", def.Name)
	}

	cards := []card.Card{
		card.String(fmt.Sprintf("TTYPE%d", n), def.Name, fmt.Sprintf("label for field %d", n)),
		card.String(fmt.Sprintf("TFORM%d", n), strconv.FormatInt(repeat, 10)+string(code), fmt.Sprintf("data format of field %d", n)),
	}
	if def.Unit != "" {
		cards = append(cards, card.String(fmt.Sprintf("TUNIT%d", n), def.Unit, fmt.Sprintf("physical unit of field %d", n)))
	}
	if zero != 0 {
		cards = append(cards, keyFloat(fmt.Sprintf("TZERO%d", n), zero, "offset for unsigned integers"))
	}
	return cards, c.size(), nil
}

// CreateTable appends a binary table extension with rows zeroed rows and
// makes it current. extname, when not empty, is written as EXTNAME.
func (h *Handle) CreateTable(rows int64, defs []ColumnDef, extname string) error {
	if err := h.checkWrite(); err != nil {
		return err
	}
	if rows < 0 {
		return fail(NegRows, "%d rows", rows)
	}
	if len(defs) > 999 {
		return fail(BadTfields, "%d columns", len(defs))
	}

	var colCards []card.Card
	rowWidth := int64(0)
	for i, def := range defs {
		cards, size, err := columnCards(i+1, def)
		if err != nil {
			return err
		}
		colCards = append(colCards, cards...)
		rowWidth += size
	}

	u := &unit{loaded: true}
	u.cards = []card.Card{
		card.String("XTENSION", "BINTABLE", "binary table extension"),
		card.Int("BITPIX", 8, "8-bit bytes"),
		card.Int("NAXIS", 2, "2-dimensional binary table"),
		card.Int("NAXIS1", rowWidth, "width of table in bytes"),
		card.Int("NAXIS2", rows, "number of rows in table"),
		card.Int("PCOUNT", 0, "size of special data area"),
		card.Int("GCOUNT", 1, "one data group (required keyword)"),
		card.Int("TFIELDS", int64(len(defs)), "number of fields in each row"),
	}
	u.cards = append(u.cards, colCards...)
	if extname != "" {
		u.cards = append(u.cards, card.String("EXTNAME", extname, "name of this binary table extension"))
	}
	u.setData(make([]byte, rows*rowWidth))
	h.appendUnit(u)
	return nil
}

// NumRows returns the number of rows of the current table.
func (h *Handle) NumRows() (int64, error) {
	u, err := h.cur()
	if err != nil {
		return 0, err
	}
	t, err := u.table()
	if err != nil {
		return 0, err
	}
	return t.rows, nil
}

// NumCols returns the number of columns of the current table.
func (h *Handle) NumCols() (int, error) {
	u, err := h.cur()
	if err != nil {
		return 0, err
	}
	t, err := u.table()
	if err != nil {
		return 0, err
	}
	return len(t.cols), nil
}

// ColNum returns the 1-based number of the column called name. Names are
// compared without regard to case.
func (h *Handle) ColNum(name string) (int, error) {
	u, err := h.cur()
	if err != nil {
		return 0, err
	}
	t, err := u.table()
	if err != nil {
		return 0, err
	}
	for i, c := range t.cols {
		if strings.EqualFold(strings.TrimSpace(c.name), strings.TrimSpace(name)) {
			return i + 1, nil
		}
	}
	return 0, fail(ColNotFound, "column %q", name)
}

// ColInfo describes column col (1-based).
func (h *Handle) ColInfo(col int) (ColumnInfo, error) {
	u, err := h.cur()
	if err != nil {
		return ColumnInfo{}, err
	}
	t, err := u.table()
	if err != nil {
		return ColumnInfo{}, err
	}
	c, err := t.column(col)
	if err != nil {
		return ColumnInfo{}, err
	}
	return ColumnInfo{
		Name:   c.name,
		Unit:   c.unit,
		Form:   c.form,
		Tag:    c.tag(),
		Repeat: c.repeat,
		Width:  c.width,
	}, nil
}

func checkRows(t *tableLayout, firstRow, rows int64, grow bool) error {
	if firstRow < 1 {
		return fail(BadRowNum, "first row %d", firstRow)
	}
	if rows < 0 {
		return fail(NegRows, "%d rows", rows)
	}
	if !grow && firstRow+rows-1 > t.rows {
		return fail(BadRowNum, "rows %d to %d requested, table has %d", firstRow, firstRow+rows-1, t.rows)
	}
	return nil
}

func checkColumnTag(c *column, tag Tag) error {
	switch {
	case c.code == 'X' || c.code == 'P' || c.code == 'Q':
		return fail(BadDatatype, "column %s of type %q is not supported", c.name, c.code)
	case c.code == 'A' && tag != TSTRING:
		return fail(BadDatatype, "character column %s read as %s", c.name, tag)
	case c.code != 'A' && tag == TSTRING:
		return fail(BadDatatype, "column %s of type %q read as %s", c.name, c.code, tag)
	case c.code != 'L' && tag == TLOGICAL:
		return fail(NotLogicalCol, "column %s", c.name)
	}
	return nil
}

// ReadCol returns rows rows of column col starting at firstRow (1-based),
// encoded according to tag. Character columns are returned as fixed-width
// fields of Repeat bytes.
func (h *Handle) ReadCol(col int, tag Tag, firstRow, rows int64) ([]byte, error) {
	u, err := h.cur()
	if err != nil {
		return nil, err
	}
	t, err := u.table()
	if err != nil {
		return nil, err
	}
	c, err := t.column(col)
	if err != nil {
		return nil, err
	}
	if err := checkRows(t, firstRow, rows, false); err != nil {
		return nil, err
	}
	if err := checkColumnTag(c, tag); err != nil {
		return nil, err
	}
	data, err := u.bytes()
	if err != nil {
		return nil, err
	}

	size := c.size()
	gathered := make([]byte, 0, rows*size)
	for r := firstRow - 1; r < firstRow-1+rows; r++ {
		start := r*t.rowWidth + c.offset
		gathered = append(gathered, data[start:start+size]...)
	}
	if tag == TSTRING {
		return gathered, nil
	}
	return decodeValues(gathered, c.elem, c.zero, c.scale, tag, rows*c.repeat)
}

// WriteCol writes rows rows of column col starting at firstRow (1-based).
// The table grows when the rows extend past its end.
func (h *Handle) WriteCol(col int, tag Tag, firstRow, rows int64, value []byte) error {
	u, err := h.curWrite()
	if err != nil {
		return err
	}
	t, err := u.table()
	if err != nil {
		return err
	}
	c, err := t.column(col)
	if err != nil {
		return err
	}
	if err := checkRows(t, firstRow, rows, true); err != nil {
		return err
	}
	if err := checkColumnTag(c, tag); err != nil {
		return err
	}

	size := c.size()
	encoded := value
	if tag == TSTRING {
		if int64(len(value)) != rows*size {
			return fail(BadDimen, "%d bytes supplied for %d fields of %d characters", len(value), rows, size)
		}
	} else {
		encoded, err = encodeValues(value, tag, c.elem, c.zero, c.scale, rows*c.repeat)
		if err != nil {
			return err
		}
	}

	data, err := u.bytes()
	if err != nil {
		return err
	}
	if last := firstRow - 1 + rows; last > t.rows {
		grown := make([]byte, last*t.rowWidth)
		copy(grown, data)
		data = grown
		u.setData(data)
		u.set(card.Int("NAXIS2", last, "number of rows in table"))
	}
	for i := int64(0); i < rows; i++ {
		start := (firstRow-1+i)*t.rowWidth + c.offset
		copy(data[start:start+size], encoded[i*size:])
	}
	return nil
}

var columnKeyPattern = regexp.MustCompile(`^(TTYPE|TFORM|TUNIT|TZERO|TSCAL|TNULL|TDIM|TDISP)([0-9]+)$`)

// renumberColumns applies shift to the index of every column keyword.
// Keywords for which shift returns 0 are removed.
func (u *unit) renumberColumns(shift func(int) int) {
	u.raw = nil
	kept := u.cards[:0:0]
	for _, c := range u.cards {
		if m := columnKeyPattern.FindStringSubmatch(c.Keyword); m != nil {
			n, _ := strconv.Atoi(m[2])
			to := shift(n)
			if to == 0 {
				continue
			}
			c.Keyword = m[1] + strconv.Itoa(to)
		}
		kept = append(kept, c)
	}
	u.cards = kept
}

// lastColumnCard returns the index of the last card of a column numbered
// below col, or of the TFIELDS card.
func (u *unit) lastColumnCard(col int) int {
	last := u.find("TFIELDS")
	for i, c := range u.cards {
		if m := columnKeyPattern.FindStringSubmatch(c.Keyword); m != nil {
			if n, _ := strconv.Atoi(m[2]); n < col {
				last = i
			}
		}
	}
	return last
}

// InsertCol inserts a zero-filled column before column col (1-based);
// col = NumCols()+1 appends it.
func (h *Handle) InsertCol(col int, def ColumnDef) error {
	u, err := h.curWrite()
	if err != nil {
		return err
	}
	t, err := u.table()
	if err != nil {
		return err
	}
	if col < 1 || col > len(t.cols)+1 {
		return fail(BadColNum, "cannot insert column %d in table of %d", col, len(t.cols))
	}
	cards, size, err := columnCards(col, def)
	if err != nil {
		return err
	}
	data, err := u.bytes()
	if err != nil {
		return err
	}

	at := t.rowWidth
	if col <= len(t.cols) {
		at = t.cols[col-1].offset
	}
	width := t.rowWidth + size
	grown := make([]byte, t.rows*width)
	for r := int64(0); r < t.rows; r++ {
		src := data[r*t.rowWidth : (r+1)*t.rowWidth]
		dst := grown[r*width : (r+1)*width]
		copy(dst, src[:at])
		copy(dst[at+size:], src[at:])
	}

	u.renumberColumns(func(n int) int {
		if n >= col {
			return n + 1
		}
		return n
	})
	u.insert(u.lastColumnCard(col)+1, cards...)
	u.set(card.Int("NAXIS1", width, "width of table in bytes"))
	u.set(card.Int("TFIELDS", int64(len(t.cols)+1), "number of fields in each row"))
	u.setData(grown)
	return nil
}

// DeleteCol removes column col (1-based).
func (h *Handle) DeleteCol(col int) error {
	u, err := h.curWrite()
	if err != nil {
		return err
	}
	t, err := u.table()
	if err != nil {
		return err
	}
	c, err := t.column(col)
	if err != nil {
		return err
	}
	data, err := u.bytes()
	if err != nil {
		return err
	}

	size := c.size()
	width := t.rowWidth - size
	shrunk := make([]byte, t.rows*width)
	for r := int64(0); r < t.rows; r++ {
		src := data[r*t.rowWidth : (r+1)*t.rowWidth]
		dst := shrunk[r*width : (r+1)*width]
		copy(dst, src[:c.offset])
		copy(dst[c.offset:], src[c.offset+size:])
	}

	u.renumberColumns(func(n int) int {
		switch {
		case n == col:
			return 0
		case n > col:
			return n - 1
		default:
			return n
		}
	})
	u.set(card.Int("NAXIS1", width, "width of table in bytes"))
	u.set(card.Int("TFIELDS", int64(len(t.cols)-1), "number of fields in each row"))
	u.setData(shrunk)
	return nil
}
