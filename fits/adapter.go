package fits

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/robert-malhotra/go-fits/internal/dtype"
	"github.com/robert-malhotra/go-fits/internal/engine"
)

//go:generate mockgen -source=adapter.go -destination=diagnostics_mock_test.go -package=fits

// diagnostics is the engine state read to describe a failure.
type diagnostics interface {
	FileName() (string, error)
	CurrentHDU() (int, error)
	ReadKey(keyword string, tag engine.Tag) ([]byte, string, error)
}

// adapter is the boundary with the engine. The engine cursor is shared by
// every HDU handle of a file, so each HDU-scoped call goes through at,
// which moves it right before the engine call. Nothing is cached between calls.
type adapter struct {
	h    *engine.Handle
	diag diagnostics
	log  *slog.Logger
}

func newAdapter(h *engine.Handle, log *slog.Logger) *adapter {
	return &adapter{h: h, diag: h, log: log}
}

// at moves the cursor to HDU index (1-based) and returns the handle.
func (a *adapter) at(index int) (*engine.Handle, error) {
	if _, err := a.h.GotoHDU(index); err != nil {
		return nil, a.fail(err, "moving to HDU %d", index)
	}
	return a.h, nil
}

// fail translates a failed engine call into a *FitsError describing the
// file, wrapped in the error type matching its status.
func (a *adapter) fail(err error, format string, args ...any) error {
	fe := newFitsError(err, fmt.Sprintf(format, args...))
	a.describe(fe)
	a.log.Debug("engine call failed",
		slog.String("op", fe.Op),
		slog.Int("status", fe.Status),
		slog.String("file", fe.File),
		slog.Int("hdu", fe.HDUIndex),
		slog.String("detail", fe.Detail))
	return classify(fe)
}

func newFitsError(err error, op string) *FitsError {
	status := engine.StatusOf(err)
	return &FitsError{
		Op:      op,
		Status:  int(status),
		Message: status.Text(),
		Detail:  engine.DetailOf(err),
		File:    unknown,
		HDUName: unknown,
	}
}

// describe reads the file name and current HDU into e. Context is best
// effort: whatever cannot be read keeps its placeholder.
func (a *adapter) describe(e *FitsError) {
	if a.diag == nil {
		return
	}
	defer func() {
		_ = recover()
	}()
	if name, err := a.diag.FileName(); err == nil {
		e.File = name
	}
	if index, err := a.diag.CurrentHDU(); err == nil {
		e.HDUIndex = index
	}
	raw, _, err := a.diag.ReadKey("EXTNAME", engine.TSTRING)
	switch {
	case err == nil:
		e.HDUName = string(raw)
	case engine.StatusOf(err) == engine.KeyNoExist:
		e.HDUName = ""
	}
}

// classify wraps e in the error type of its status.
func classify(e *FitsError) error {
	switch engine.Status(e.Status) {
	case engine.BadF2C, engine.BadIntkey, engine.BadLogicalkey, engine.BadFloatkey,
		engine.BadDoublekey, engine.BadC2I, engine.BadC2F, engine.BadC2D,
		engine.BadDatatype, engine.NumOverflow, engine.NoQuote, engine.NotLogicalCol,
		engine.ValueUndefined:
		return &TypeError{Err: e}
	case engine.ReadonlyFile:
		return &AccessError{Err: e}
	case engine.BadKeychar:
		return &KeywordError{Err: e}
	case engine.BadDimen, engine.BadPixNum, engine.NegAxis, engine.BadNaxis, engine.BadNaxes:
		return &ShapeError{Err: e}
	}
	return e
}

// hasStatus reports whether err comes from an engine call which failed
// with status.
func hasStatus(err error, status engine.Status) bool {
	var fe *FitsError
	return errors.As(err, &fe) && engine.Status(fe.Status) == status
}

// RecordMode selects how a record is written when its keyword is present.
type RecordMode int

// Record modes.
const (
	// CreateOrUpdate modifies the record if the keyword exists and creates
	// it otherwise.
	CreateOrUpdate RecordMode = iota
	// CreateUnique creates the record and fails with a KeywordExistsError
	// if the keyword exists.
	CreateUnique
	// CreateNew creates the record even if the keyword exists.
	CreateNew
	// UpdateExisting modifies the record and fails with a
	// KeywordNotFoundError if the keyword does not exist.
	UpdateExisting
)

// readRecord reads keyword from HDU index as a T.
func readRecord[T Value](a *adapter, index int, keyword string) (Record[T], error) {
	h, err := a.at(index)
	if err != nil {
		return Record[T]{}, err
	}
	raw, comment, err := h.ReadKey(keyword, TypeCodeOf[T]().record)
	if err != nil {
		failed := a.fail(err, "parsing record %s", keyword)
		if engine.StatusOf(err) == engine.KeyNoExist {
			return Record[T]{}, &KeywordNotFoundError{Keyword: keyword, Err: failed}
		}
		return Record[T]{}, failed
	}
	value, err := decodeValue[T](raw)
	if err != nil {
		return Record[T]{}, err
	}
	unit, text := splitComment(comment)
	return Record[T]{Keyword: keyword, Value: value, Unit: unit, Comment: text}, nil
}

func decodeValue[T Value](raw []byte) (T, error) {
	var out [1]T
	if s, ok := any(&out[0]).(*string); ok {
		*s = string(raw)
		return out[0], nil
	}
	err := decodeScalars(raw, out[:])
	return out[0], err
}

// encodeVariant returns the record tag and engine buffer of v.
func encodeVariant(v VariantValue) (engine.Tag, []byte, error) {
	var raw []byte
	var err error
	switch x := v.value.(type) {
	case string:
		raw = []byte(x)
	case bool:
		raw, err = encodeScalars([]bool{x})
	case int8:
		raw, err = encodeScalars([]int8{x})
	case int16:
		raw, err = encodeScalars([]int16{x})
	case int32:
		raw, err = encodeScalars([]int32{x})
	case int64:
		raw, err = encodeScalars([]int64{x})
	case uint8:
		raw, err = encodeScalars([]uint8{x})
	case uint16:
		raw, err = encodeScalars([]uint16{x})
	case uint32:
		raw, err = encodeScalars([]uint32{x})
	case uint64:
		raw, err = encodeScalars([]uint64{x})
	case float32:
		raw, err = encodeScalars([]float32{x})
	case float64:
		raw, err = encodeScalars([]float64{x})
	case complex64:
		raw, err = encodeScalars([]complex64{x})
	case complex128:
		raw, err = encodeScalars([]complex128{x})
	default:
		return 0, nil, &TypeError{Type: v.TypeName(), Reason: "cannot be written to a record"}
	}
	code, _ := v.TypeCode()
	return code.record, raw, err
}

// writeRecord writes r to HDU index.
func writeRecord(a *adapter, index int, r Record[VariantValue], mode RecordMode) error {
	tag, raw, err := encodeVariant(r.Value)
	if err != nil {
		return fmt.Errorf("writing record %s: %w", r.Keyword, err)
	}
	h, err := a.at(index)
	if err != nil {
		return err
	}

	comment := r.RawComment()
	switch mode {
	case CreateUnique:
		_, err = h.KeyType(r.Keyword)
		if err == nil {
			return &KeywordExistsError{Keyword: r.Keyword}
		}
		if engine.StatusOf(err) != engine.KeyNoExist {
			return a.fail(err, "writing record %s", r.Keyword)
		}
		err = h.WriteKey(r.Keyword, tag, raw, comment)
	case CreateNew:
		err = h.WriteKey(r.Keyword, tag, raw, comment)
	case UpdateExisting:
		err = h.ModifyKey(r.Keyword, tag, raw, comment)
		if engine.StatusOf(err) == engine.KeyNoExist {
			return &KeywordNotFoundError{Keyword: r.Keyword, Err: a.fail(err, "updating record %s", r.Keyword)}
		}
	default:
		err = h.UpdateKey(r.Keyword, tag, raw, comment)
	}
	if err != nil {
		return a.fail(err, "writing record %s", r.Keyword)
	}
	return nil
}

// readPixels reads the pixels of HDU index from front to back, 0-based and
// inclusive, or every pixel when front is nil.
func readPixels[T Value](a *adapter, index int, front, back Position) ([]T, error) {
	code := TypeCodeOf[T]()
	if _, err := code.ImageTag(); err != nil {
		return nil, err
	}
	h, err := a.at(index)
	if err != nil {
		return nil, err
	}
	var raw []byte
	if front == nil {
		raw, err = h.ReadImage(code.image)
	} else {
		raw, err = h.ReadSubset(code.image, front.AddScalar(1), back.AddScalar(1))
	}
	if err != nil {
		return nil, a.fail(err, "reading %s pixels", code.name)
	}
	out := make([]T, len(raw)/code.width)
	if err := decodeImage(raw, out); err != nil {
		return nil, err
	}
	return out, nil
}

// writePixels writes the pixels of HDU index from front to back, 0-based
// and inclusive, or every pixel when front is nil.
func writePixels[T Value](a *adapter, index int, front, back Position, values []T) error {
	code := TypeCodeOf[T]()
	if _, err := code.ImageTag(); err != nil {
		return err
	}
	raw, err := encodeImage(values)
	if err != nil {
		return err
	}
	h, err := a.at(index)
	if err != nil {
		return err
	}
	if front == nil {
		err = h.WriteImage(code.image, raw)
	} else {
		err = h.WriteSubset(code.image, front.AddScalar(1), back.AddScalar(1), raw)
	}
	if err != nil {
		return a.fail(err, "writing %s pixels", code.name)
	}
	return nil
}

// readCells reads rows rows of column col (1-based) of HDU index from
// firstRow (0-based). width is the field width of string columns.
func readCells[T Value](a *adapter, index, col int, firstRow, rows, width int64) ([]T, error) {
	code := TypeCodeOf[T]()
	h, err := a.at(index)
	if err != nil {
		return nil, err
	}
	raw, err := h.ReadCol(col, code.bintable, firstRow+1, rows)
	if err != nil {
		return nil, a.fail(err, "reading column %d as %s", col, code.name)
	}
	if code.bintable == engine.TSTRING {
		s, err := dtype.DecodeStrings(raw, int(width), int(rows))
		if err != nil {
			return nil, &ShapeError{Reason: fmt.Sprintf("column %d", col), Err: err}
		}
		return any(s).([]T), nil
	}
	out := make([]T, len(raw)/code.width)
	if err := decodeScalars(raw, out); err != nil {
		return nil, err
	}
	return out, nil
}

// writeCells writes rows rows of column col (1-based) of HDU index from
// firstRow (0-based).
func writeCells(a *adapter, index, col int, tag engine.Tag, firstRow, rows int64, raw []byte) error {
	h, err := a.at(index)
	if err != nil {
		return err
	}
	if err := h.WriteCol(col, tag, firstRow+1, rows, raw); err != nil {
		return a.fail(err, "writing column %d", col)
	}
	return nil
}
