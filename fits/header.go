package fits

import (
	"errors"
	"fmt"
	"strings"

	"github.com/robert-malhotra/go-fits/internal/card"
	"github.com/robert-malhotra/go-fits/internal/engine"
)

// Header reads and writes the records of an HDU.
type Header struct {
	a     *adapter
	index int
}

// Has reports whether keyword is present.
func (h *Header) Has(keyword string) (bool, error) {
	eh, err := h.a.at(h.index)
	if err != nil {
		return false, err
	}
	_, err = eh.KeyType(keyword)
	switch {
	case err == nil:
		return true, nil
	case engine.StatusOf(err) == engine.KeyNoExist:
		return false, nil
	}
	return false, h.a.fail(err, "looking up %s", keyword)
}

// Remove deletes the record of keyword.
func (h *Header) Remove(keyword string) error {
	eh, err := h.a.at(h.index)
	if err != nil {
		return err
	}
	if err := eh.DeleteKey(keyword); err != nil {
		failed := h.a.fail(err, "removing %s", keyword)
		if engine.StatusOf(err) == engine.KeyNoExist {
			return &KeywordNotFoundError{Keyword: keyword, Err: failed}
		}
		return failed
	}
	return nil
}

// cards returns the cards of the header in the given categories.
func (h *Header) cards(categories KeywordCategory) ([]card.Card, error) {
	eh, err := h.a.at(h.index)
	if err != nil {
		return nil, err
	}
	all, err := eh.ReadCards()
	if err != nil {
		return nil, h.a.fail(err, "reading header of HDU %d", h.index)
	}
	var out []card.Card
	for _, c := range all {
		if categories.Contains(c.Keyword) {
			out = append(out, c)
		}
	}
	return out, nil
}

// ReadKeywords returns the keywords in the given categories, in header
// order. COMMENT and HISTORY appear once per card.
func (h *Header) ReadKeywords(categories KeywordCategory) ([]string, error) {
	cards, err := h.cards(categories)
	if err != nil {
		return nil, err
	}
	keywords := make([]string, len(cards))
	for i, c := range cards {
		keywords[i] = c.Keyword
	}
	return keywords, nil
}

// ReadKeywordsValues returns the value text of each valued keyword in the
// given categories.
func (h *Header) ReadKeywordsValues(categories KeywordCategory) (map[string]string, error) {
	cards, err := h.cards(categories)
	if err != nil {
		return nil, err
	}
	values := make(map[string]string, len(cards))
	for _, c := range cards {
		if c.Kind != card.KindCommentary {
			values[c.Keyword] = c.Value
		}
	}
	return values, nil
}

// ReadAll returns the header in the given categories as card lines
// separated by newlines.
func (h *Header) ReadAll(categories KeywordCategory) (string, error) {
	cards, err := h.cards(categories)
	if err != nil {
		return "", err
	}
	var lines []string
	for _, c := range cards {
		l, err := c.Format()
		if err != nil {
			return "", fmt.Errorf("formatting %s: %w", c.Keyword, err)
		}
		lines = append(lines, l...)
	}
	return strings.Join(lines, "\n"), nil
}

// ParseAll reads every valued record in the given categories, each with the
// type of its card: string, bool, int64 (uint64 beyond its range), float64
// or complex128. Records with no value hold an undefined VariantValue.
func (h *Header) ParseAll(categories KeywordCategory) (*RecordSeq, error) {
	cards, err := h.cards(categories)
	if err != nil {
		return nil, err
	}
	seq := NewRecordSeq()
	for _, c := range cards {
		if c.Kind == card.KindCommentary {
			continue
		}
		r, err := cardRecord(c)
		if err != nil {
			return nil, err
		}
		seq.Append(r)
	}
	return seq, nil
}

func cardRecord(c card.Card) (Record[VariantValue], error) {
	unit, comment := splitComment(c.Comment)
	r := Record[VariantValue]{Keyword: c.Keyword, Unit: unit, Comment: comment}
	var err error
	switch c.Kind {
	case card.KindString:
		r.Value = VariantOf(c.Value)
	case card.KindLogical:
		var b bool
		b, err = c.Bool()
		r.Value = VariantOf(b)
	case card.KindInteger:
		if i, ierr := c.Int(); ierr == nil {
			r.Value = VariantOf(i)
			break
		}
		var u uint64
		u, err = c.Uint()
		r.Value = VariantOf(u)
	case card.KindFloat:
		var f float64
		f, err = c.Float()
		r.Value = VariantOf(f)
	case card.KindComplex:
		var z complex128
		z, err = c.Complex()
		r.Value = VariantOf(z)
	}
	if err != nil {
		return Record[VariantValue]{}, &TypeError{Type: c.Kind.String(), Reason: "parsing " + c.Keyword, Err: err}
	}
	return r, nil
}

// ParseSeq reads the records of keywords, each with the type of its card
// as in ParseAll.
func (h *Header) ParseSeq(keywords ...string) (*RecordSeq, error) {
	seq := NewRecordSeq()
	for _, kw := range keywords {
		r, err := h.parseVariant(kw)
		if err != nil {
			return nil, err
		}
		seq.Append(r)
	}
	return seq, nil
}

func (h *Header) parseVariant(keyword string) (Record[VariantValue], error) {
	eh, err := h.a.at(h.index)
	if err != nil {
		return Record[VariantValue]{}, err
	}
	kind, err := eh.KeyType(keyword)
	if err != nil {
		failed := h.a.fail(err, "parsing record %s", keyword)
		if engine.StatusOf(err) == engine.KeyNoExist {
			return Record[VariantValue]{}, &KeywordNotFoundError{Keyword: keyword, Err: failed}
		}
		return Record[VariantValue]{}, failed
	}
	switch kind {
	case card.KindString:
		return anyRecord(readRecord[string](h.a, h.index, keyword))
	case card.KindLogical:
		return anyRecord(readRecord[bool](h.a, h.index, keyword))
	case card.KindInteger:
		r, err := readRecord[int64](h.a, h.index, keyword)
		if hasStatus(err, engine.NumOverflow) {
			return anyRecord(readRecord[uint64](h.a, h.index, keyword))
		}
		return anyRecord(r, err)
	case card.KindFloat:
		return anyRecord(readRecord[float64](h.a, h.index, keyword))
	case card.KindComplex:
		return anyRecord(readRecord[complex128](h.a, h.index, keyword))
	}
	eh, err = h.a.at(h.index)
	if err != nil {
		return Record[VariantValue]{}, err
	}
	c, err := findCard(eh, keyword)
	if err != nil {
		return Record[VariantValue]{}, h.a.fail(err, "parsing record %s", keyword)
	}
	unit, comment := splitComment(c.Comment)
	return Record[VariantValue]{Keyword: keyword, Unit: unit, Comment: comment}, nil
}

func anyRecord[T Value](r Record[T], err error) (Record[VariantValue], error) {
	if err != nil {
		return Record[VariantValue]{}, err
	}
	return AnyRecord(r), nil
}

// findCard returns the card of an undefined keyword, which ReadKey cannot
// read.
func findCard(eh *engine.Handle, keyword string) (card.Card, error) {
	cards, err := eh.ReadCards()
	if err != nil {
		return card.Card{}, err
	}
	for _, c := range cards {
		if strings.EqualFold(c.Keyword, keyword) {
			return c, nil
		}
	}
	return card.Card{}, engine.KeyNoExist
}

// Parse reads the record of keyword as a T. It fails with a *TypeError if
// the value cannot be represented as a T and with a *KeywordNotFoundError
// if keyword is absent.
func Parse[T Value](h *Header, keyword string) (Record[T], error) {
	return readRecord[T](h.a, h.index, keyword)
}

// ParseOr reads the record of fallback.Keyword as a T, or returns fallback
// if the keyword is absent.
func ParseOr[T Value](h *Header, fallback Record[T]) (Record[T], error) {
	r, err := readRecord[T](h.a, h.index, fallback.Keyword)
	var notFound *KeywordNotFoundError
	if errors.As(err, &notFound) {
		return fallback, nil
	}
	return r, err
}

// Write creates or updates the record of keyword.
func Write[T Value](h *Header, keyword string, value T, unit, comment string) error {
	return WriteRecord(h, NewRecord(keyword, value, unit, comment), CreateOrUpdate)
}

// WriteRecord writes r according to mode.
func WriteRecord[T Value](h *Header, r Record[T], mode RecordMode) error {
	return writeRecord(h.a, h.index, AnyRecord(r), mode)
}

// WriteSeq creates or updates records in order. Writing stops at the first
// failure; the records written before it are kept.
func (h *Header) WriteSeq(records ...Record[VariantValue]) error {
	return h.WriteSeqMode(CreateOrUpdate, records...)
}

// WriteSeqMode writes records in order according to mode. Writing stops at
// the first failure; the records written before it are kept.
func (h *Header) WriteSeqMode(mode RecordMode, records ...Record[VariantValue]) error {
	for i, r := range records {
		if err := writeRecord(h.a, h.index, r, mode); err != nil {
			return fmt.Errorf("record %d of %d: %w", i+1, len(records), err)
		}
	}
	return nil
}

// WriteComment appends a COMMENT card.
func (h *Header) WriteComment(text string) error {
	eh, err := h.a.at(h.index)
	if err != nil {
		return err
	}
	if err := eh.WriteComment(text); err != nil {
		return h.a.fail(err, "writing COMMENT")
	}
	return nil
}

// WriteHistory appends a HISTORY card.
func (h *Header) WriteHistory(text string) error {
	eh, err := h.a.at(h.index)
	if err != nil {
		return err
	}
	if err := eh.WriteHistory(text); err != nil {
		return h.a.fail(err, "writing HISTORY")
	}
	return nil
}
