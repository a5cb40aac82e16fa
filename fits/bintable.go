package fits

import (
	"strconv"

	"github.com/robert-malhotra/go-fits/internal/engine"
)

// BintableColumns reads and writes the columns of a binary table HDU.
// Columns are designated by name or by 0-based index, and rows by 0-based
// index.
type BintableColumns struct {
	a     *adapter
	index int
}

// ReadRowCount returns the number of rows.
func (cols *BintableColumns) ReadRowCount() (int64, error) {
	eh, err := cols.a.at(cols.index)
	if err != nil {
		return 0, err
	}
	n, err := eh.NumRows()
	if err != nil {
		return 0, cols.a.fail(err, "counting rows")
	}
	return n, nil
}

// ReadColumnCount returns the number of columns.
func (cols *BintableColumns) ReadColumnCount() (int, error) {
	eh, err := cols.a.at(cols.index)
	if err != nil {
		return 0, err
	}
	n, err := eh.NumCols()
	if err != nil {
		return 0, cols.a.fail(err, "counting columns")
	}
	return n, nil
}

// colNum returns the engine number of column name.
func (cols *BintableColumns) colNum(name string) (int, error) {
	eh, err := cols.a.at(cols.index)
	if err != nil {
		return 0, err
	}
	n, err := eh.ColNum(name)
	if err != nil {
		return 0, cols.a.fail(err, "looking up column %s", name)
	}
	return n, nil
}

// Has reports whether the table has a column named name.
func (cols *BintableColumns) Has(name string) (bool, error) {
	_, err := cols.colNum(name)
	switch {
	case err == nil:
		return true, nil
	case hasStatus(err, engine.ColNotFound):
		return false, nil
	}
	return false, err
}

// ReadIndex returns the 0-based index of column name.
func (cols *BintableColumns) ReadIndex(name string) (int, error) {
	n, err := cols.colNum(name)
	return n - 1, err
}

func (cols *BintableColumns) colInfo(col int) (engine.ColumnInfo, error) {
	eh, err := cols.a.at(cols.index)
	if err != nil {
		return engine.ColumnInfo{}, err
	}
	info, err := eh.ColInfo(col)
	if err != nil {
		return engine.ColumnInfo{}, cols.a.fail(err, "reading column %d", col)
	}
	return info, nil
}

// ReadName returns the name of the column at index.
func (cols *BintableColumns) ReadName(index int) (string, error) {
	info, err := cols.colInfo(index + 1)
	return info.Name, err
}

// ReadAllNames returns the name of every column.
func (cols *BintableColumns) ReadAllNames() ([]string, error) {
	n, err := cols.ReadColumnCount()
	if err != nil {
		return nil, err
	}
	names := make([]string, n)
	for i := range names {
		if names[i], err = cols.ReadName(i); err != nil {
			return nil, err
		}
	}
	return names, nil
}

// ReadInfo returns the description of column name.
func (cols *BintableColumns) ReadInfo(name string) (ColumnInfo, error) {
	n, err := cols.colNum(name)
	if err != nil {
		return ColumnInfo{}, err
	}
	info, err := cols.colInfo(n)
	if err != nil {
		return ColumnInfo{}, err
	}
	return ColumnInfo{Name: info.Name, Unit: info.Unit, RepeatCount: info.Repeat}, nil
}

// ReadTypeCode returns the type code of the physical values of column
// name.
func (cols *BintableColumns) ReadTypeCode(name string) (TypeCode, error) {
	n, err := cols.colNum(name)
	if err != nil {
		return TypeCode{}, err
	}
	info, err := cols.colInfo(n)
	if err != nil {
		return TypeCode{}, err
	}
	return bintableCode(info.Tag)
}

// Rename renames column name to newName.
func (cols *BintableColumns) Rename(name, newName string) error {
	n, err := cols.colNum(name)
	if err != nil {
		return err
	}
	old, err := readRecord[string](cols.a, cols.index, "TTYPE"+strconv.Itoa(n))
	if err != nil {
		return err
	}
	r := NewRecord(old.Keyword, VariantOf(newName), old.Unit, old.Comment)
	return writeRecord(cols.a, cols.index, r, UpdateExisting)
}

// RemoveColumn deletes column name.
func (cols *BintableColumns) RemoveColumn(name string) error {
	n, err := cols.colNum(name)
	if err != nil {
		return err
	}
	eh, err := cols.a.at(cols.index)
	if err != nil {
		return err
	}
	if err := eh.DeleteCol(n); err != nil {
		return cols.a.fail(err, "removing column %s", name)
	}
	return nil
}

// ReadColumn reads every row of column name as T.
func ReadColumn[T Value](cols *BintableColumns, name string) (*Column[T], error) {
	return ReadSegment[T](cols, name, 0, -1)
}

// ReadColumnAt reads every row of the column at index as T.
func ReadColumnAt[T Value](cols *BintableColumns, index int) (*Column[T], error) {
	return readSegment[T](cols, index+1, 0, -1)
}

// ReadSegment reads rows rows of column name from firstRow. A negative
// rows reads up to the last row.
func ReadSegment[T Value](cols *BintableColumns, name string, firstRow, rows int64) (*Column[T], error) {
	n, err := cols.colNum(name)
	if err != nil {
		return nil, err
	}
	return readSegment[T](cols, n, firstRow, rows)
}

func readSegment[T Value](cols *BintableColumns, col int, firstRow, rows int64) (*Column[T], error) {
	info, err := cols.colInfo(col)
	if err != nil {
		return nil, err
	}
	if rows < 0 {
		total, err := cols.ReadRowCount()
		if err != nil {
			return nil, err
		}
		rows = max(total-firstRow, 0)
	}
	data, err := readCells[T](cols.a, cols.index, col, firstRow, rows, info.Repeat)
	if err != nil {
		return nil, err
	}
	return wrapColumn(ColumnInfo{Name: info.Name, Unit: info.Unit, RepeatCount: info.Repeat}, data, Owning)
}

// WriteColumn writes every row of c to the column of the same name. The
// table grows if c has more rows.
func WriteColumn[T Value](cols *BintableColumns, c *Column[T]) error {
	return WriteSegment(cols, 0, c)
}

// WriteSegment writes the rows of c to the column of the same name, from
// firstRow.
func WriteSegment[T Value](cols *BintableColumns, firstRow int64, c *Column[T]) error {
	n, err := cols.colNum(c.Name())
	if err != nil {
		return err
	}
	return writeAnyColumn(cols.a, cols.index, n, firstRow, c)
}

// InsertColumn inserts c before the column at index and writes its rows.
// An index equal to the column count appends it.
func InsertColumn[T Value](cols *BintableColumns, index int, c *Column[T]) error {
	eh, err := cols.a.at(cols.index)
	if err != nil {
		return err
	}
	if err := eh.InsertCol(index+1, c.def()); err != nil {
		return cols.a.fail(err, "inserting column %s", c.Name())
	}
	return writeAnyColumn(cols.a, cols.index, index+1, 0, c)
}

// AppendColumn appends c after the last column and writes its rows.
func AppendColumn[T Value](cols *BintableColumns, c *Column[T]) error {
	n, err := cols.ReadColumnCount()
	if err != nil {
		return err
	}
	return InsertColumn(cols, n, c)
}

// InsertNullColumn inserts a zero-filled column described by def before
// the column at index.
func (cols *BintableColumns) InsertNullColumn(index int, def ColumnDef) error {
	eh, err := cols.a.at(cols.index)
	if err != nil {
		return err
	}
	if err := eh.InsertCol(index+1, def.engineDef()); err != nil {
		return cols.a.fail(err, "inserting column %s", def.Info.Name)
	}
	return nil
}

// writeAnyColumn writes the rows of c to column col (1-based) from
// firstRow. Strings are written in fields of the width of the column in
// the file.
func writeAnyColumn(a *adapter, index, col int, firstRow int64, c AnyColumn) error {
	tag := c.TypeCode().bintable
	width := c.fieldWidth()
	if tag == engine.TSTRING {
		eh, err := a.at(index)
		if err != nil {
			return err
		}
		info, err := eh.ColInfo(col)
		if err != nil {
			return a.fail(err, "reading column %d", col)
		}
		width = info.Repeat
	}
	raw, err := c.encode(width)
	if err != nil {
		return err
	}
	return writeCells(a, index, col, tag, firstRow, c.RowCount(), raw)
}
