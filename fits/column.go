package fits

import (
	"fmt"

	"github.com/robert-malhotra/go-fits/internal/dtype"
	"github.com/robert-malhotra/go-fits/internal/engine"
)

// ColumnInfo describes a binary table column.
type ColumnInfo struct {
	Name string
	Unit string
	// RepeatCount is the number of values per row, or for string columns
	// the width of the field in characters.
	RepeatCount int64
}

// Column is one binary table column: its description and the values of
// all its rows, row after row. A string column holds one string per row.
type Column[T Value] struct {
	info ColumnInfo
	data []T
	mode StorageMode
}

func isString[T Value]() bool {
	var zero T
	_, ok := any(zero).(string)
	return ok
}

// NewColumn returns an owning column of rows zero-valued rows.
func NewColumn[T Value](info ColumnInfo, rows int64) (*Column[T], error) {
	if err := checkInfo[T](info); err != nil {
		return nil, err
	}
	if rows < 0 {
		return nil, &ShapeError{Reason: fmt.Sprintf("%d rows", rows)}
	}
	n := rows
	if !isString[T]() {
		n *= info.RepeatCount
	}
	return &Column[T]{info: info, data: make([]T, n), mode: Owning}, nil
}

// NewColumnFrom returns an owning column holding a copy of data.
func NewColumnFrom[T Value](info ColumnInfo, data []T) (*Column[T], error) {
	c, err := wrapColumn(info, data, Owning)
	if err != nil {
		return nil, err
	}
	c.data = append([]T(nil), data...)
	return c, nil
}

// WrapColumn returns a column over data, which is neither copied nor
// released.
func WrapColumn[T Value](info ColumnInfo, data []T) (*Column[T], error) {
	return wrapColumn(info, data, Borrowed)
}

// WrapConstColumn returns a read-only column over data.
func WrapConstColumn[T Value](info ColumnInfo, data []T) (*Column[T], error) {
	return wrapColumn(info, data, ConstBorrowed)
}

func wrapColumn[T Value](info ColumnInfo, data []T, mode StorageMode) (*Column[T], error) {
	if err := checkInfo[T](info); err != nil {
		return nil, err
	}
	if !isString[T]() && int64(len(data))%info.RepeatCount != 0 {
		return nil, &ShapeError{Reason: fmt.Sprintf("%d values do not fill rows of %d", len(data), info.RepeatCount)}
	}
	return &Column[T]{info: info, data: data, mode: mode}, nil
}

func checkInfo[T Value](info ColumnInfo) error {
	if isString[T]() {
		if info.RepeatCount < 0 {
			return &ShapeError{Reason: fmt.Sprintf("column %s: negative width %d", info.Name, info.RepeatCount)}
		}
		return nil
	}
	if info.RepeatCount < 1 {
		return &ShapeError{Reason: fmt.Sprintf("column %s: repeat count %d", info.Name, info.RepeatCount)}
	}
	return nil
}

// Info returns the column description.
func (c *Column[T]) Info() ColumnInfo {
	return c.info
}

// Name returns the column name.
func (c *Column[T]) Name() string {
	return c.info.Name
}

// Mode returns the storage mode.
func (c *Column[T]) Mode() StorageMode {
	return c.mode
}

// Data returns the values, row after row.
func (c *Column[T]) Data() []T {
	return c.data
}

// ElementCount returns the number of values.
func (c *Column[T]) ElementCount() int64 {
	return int64(len(c.data))
}

// RowCount returns the number of rows.
func (c *Column[T]) RowCount() int64 {
	if isString[T]() {
		return int64(len(c.data))
	}
	return int64(len(c.data)) / c.info.RepeatCount
}

// TypeCode returns the type code of the values.
func (c *Column[T]) TypeCode() TypeCode {
	return TypeCodeOf[T]()
}

// Reshape changes the repeat count without touching the values. For
// string columns it changes the field width; other columns must keep
// whole rows.
func (c *Column[T]) Reshape(repeat int64) error {
	info := c.info
	info.RepeatCount = repeat
	if err := checkInfo[T](info); err != nil {
		return err
	}
	if !isString[T]() && int64(len(c.data))%repeat != 0 {
		return &ShapeError{Reason: fmt.Sprintf("%d values do not fill rows of %d", len(c.data), repeat)}
	}
	c.info = info
	return nil
}

func (c *Column[T]) index(row, rep int64) (int64, error) {
	width := c.info.RepeatCount
	if isString[T]() {
		width = 1
	}
	if row < 0 || row >= c.RowCount() || rep < 0 || rep >= width {
		return 0, &OutOfBoundsError{Index: NewPosition(rep, row), Shape: NewPosition(width, c.RowCount())}
	}
	return row*width + rep, nil
}

// At returns value rep of row.
func (c *Column[T]) At(row, rep int64) (T, error) {
	i, err := c.index(row, rep)
	if err != nil {
		var zero T
		return zero, err
	}
	return c.data[i], nil
}

// Set assigns value rep of row.
func (c *Column[T]) Set(row, rep int64, v T) error {
	if c.mode == ConstBorrowed {
		return &AccessError{Reason: fmt.Sprintf("column %s is const-borrowed", c.info.Name)}
	}
	i, err := c.index(row, rep)
	if err != nil {
		return err
	}
	c.data[i] = v
	return nil
}

// Row returns the values of row, sharing the column buffer.
func (c *Column[T]) Row(row int64) ([]T, error) {
	i, err := c.index(row, 0)
	if err != nil {
		return nil, err
	}
	if isString[T]() {
		return c.data[i : i+1], nil
	}
	return c.data[i : i+c.info.RepeatCount], nil
}

// fieldWidth returns the width a string column needs: its repeat count,
// grown to fit the longest string and a terminating NUL.
func (c *Column[T]) fieldWidth() int64 {
	width := c.info.RepeatCount
	if s, ok := any(c.data).([]string); ok {
		for _, v := range s {
			if need := int64(len(v)) + 1; need > width {
				width = need
			}
		}
	}
	return max(width, 1)
}

// encode returns the values as an engine buffer. Strings are written as
// fields of width characters.
func (c *Column[T]) encode(width int64) ([]byte, error) {
	if s, ok := any(c.data).([]string); ok {
		raw, err := dtype.EncodeStrings(s, int(width))
		if err != nil {
			return nil, &ShapeError{Reason: fmt.Sprintf("column %s", c.info.Name), Err: err}
		}
		return raw, nil
	}
	return encodeScalars(c.data)
}

// def returns the definition of a new column holding c.
func (c *Column[T]) def() engine.ColumnDef {
	repeat := c.info.RepeatCount
	if isString[T]() {
		repeat = c.fieldWidth()
	}
	return engine.ColumnDef{Name: c.info.Name, Form: TypeCodeOf[T]().TForm(repeat), Unit: c.info.Unit}
}

// AnyColumn is a column of any value type, used to pass heterogeneous
// columns to a table. It is implemented by *Column.
type AnyColumn interface {
	Info() ColumnInfo
	RowCount() int64
	TypeCode() TypeCode

	def() engine.ColumnDef
	fieldWidth() int64
	encode(width int64) ([]byte, error)
}

// ColumnDef describes a column to create: its description and value type.
type ColumnDef struct {
	Info ColumnInfo
	Type TypeCode
}

// DefineColumn returns the definition of a column of T.
func DefineColumn[T Value](info ColumnInfo) ColumnDef {
	return ColumnDef{Info: info, Type: TypeCodeOf[T]()}
}

func (d ColumnDef) engineDef() engine.ColumnDef {
	repeat := d.Info.RepeatCount
	if repeat < 1 {
		repeat = 1
	}
	return engine.ColumnDef{Name: d.Info.Name, Form: d.Type.TForm(repeat), Unit: d.Info.Unit}
}
