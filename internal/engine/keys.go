package engine

import (
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/robert-malhotra/go-fits/internal/card"
	"github.com/robert-malhotra/go-fits/internal/dtype"
)

// structuralPattern matches the keywords that describe the data layout.
// They are maintained by the engine and cannot be written or deleted
// through the keyword primitives.
var structuralPattern = regexp.MustCompile(`^(SIMPLE|XTENSION|BITPIX|NAXIS[0-9]*|PCOUNT|GCOUNT|TFIELDS|TFORM[0-9]+|THEAP|END)$`)

func isStructural(keyword string) bool {
	return structuralPattern.MatchString(strings.ToUpper(keyword))
}

// ReadKey reads the value of keyword in the current HDU, encoded according
// to tag, and its comment. TSTRING values are returned as raw text.
//
// Integer cards can be read with any numeric tag, float cards with float
// and complex tags, complex cards with complex tags, logical cards with
// TLOGICAL and string cards with TSTRING.
func (h *Handle) ReadKey(keyword string, tag Tag) ([]byte, string, error) {
	u, err := h.cur()
	if err != nil {
		return nil, "", err
	}
	c, ok := u.get(keyword)
	if !ok {
		return nil, "", fail(KeyNoExist, "keyword %s", keyword)
	}
	if c.Kind == card.KindUndefined {
		return nil, c.Comment, fail(ValueUndefined, "keyword %s", keyword)
	}

	if tag == TSTRING {
		text, err := c.Text()
		if err != nil {
			return nil, c.Comment, fail(NoQuote, "keyword %s holds a %s value", keyword, c.Kind)
		}
		return []byte(text), c.Comment, nil
	}

	typ, ok := tag.Type()
	if !ok {
		return nil, c.Comment, fail(BadDatatype, "cannot read keyword as %s", tag)
	}
	n, err := cardNumber(c, typ.Kind())
	if err != nil {
		return nil, c.Comment, err
	}
	buf := make([]byte, typ.Width())
	if err := dtype.Store(typ, buf, n); err != nil {
		return nil, c.Comment, conversionStatus(err, "keyword %s", keyword)
	}
	return buf, c.Comment, nil
}

// cardNumber interprets the value of c for a target of the given kind.
func cardNumber(c card.Card, kind dtype.Kind) (dtype.Number, error) {
	mismatch := func(status Status) (dtype.Number, error) {
		return dtype.Number{}, fail(status, "keyword %s holds a %s value", c.Keyword, c.Kind)
	}

	switch kind {
	case dtype.KindBool:
		v, err := c.Bool()
		if err != nil {
			return mismatch(BadLogicalkey)
		}
		return dtype.Number{Kind: dtype.KindBool, B: v}, nil

	case dtype.KindInt, dtype.KindUint:
		if c.Kind != card.KindInteger {
			return mismatch(BadIntkey)
		}
		return integerNumber(c)

	case dtype.KindFloat:
		switch c.Kind {
		case card.KindInteger:
			return integerNumber(c)
		case card.KindFloat:
			v, err := c.Float()
			if err != nil {
				return dtype.Number{}, fail(BadC2D, "keyword %s: %v", c.Keyword, err)
			}
			return dtype.Float(v), nil
		}
		return mismatch(BadFloatkey)

	case dtype.KindComplex:
		if c.Kind == card.KindInteger {
			return integerNumber(c)
		}
		v, err := c.Complex()
		if err != nil {
			return mismatch(BadDoublekey)
		}
		return dtype.Number{Kind: dtype.KindComplex, C: v}, nil
	}
	return dtype.Number{}, fail(BadDatatype, "keyword %s", c.Keyword)
}

func integerNumber(c card.Card) (dtype.Number, error) {
	if v, err := c.Int(); err == nil {
		return dtype.Int(v), nil
	}
	if v, err := c.Uint(); err == nil {
		return dtype.Uint(v), nil
	}
	return dtype.Number{}, fail(NumOverflow, "keyword %s = %s", c.Keyword, c.Value)
}

// conversionStatus translates a dtype conversion failure.
func conversionStatus(err error, format string, args ...any) error {
	status := BadDatatype
	if errors.Is(err, dtype.ErrOverflow) {
		status = NumOverflow
	}
	args = append(args, err)
	return fail(status, format+": %v", args...)
}

// formatCard builds the card holding value encoded according to tag and
// checks that it can be written to a header.
func formatCard(keyword string, tag Tag, value []byte, comment string) (card.Card, error) {
	c, err := buildCard(keyword, tag, value, comment)
	if err != nil {
		return card.Card{}, err
	}
	if err := checkFits(c); err != nil {
		return card.Card{}, err
	}
	return c, nil
}

// checkFits fails with BadKeychar when c cannot be formatted: its value and
// comment are never truncated.
func checkFits(c card.Card) error {
	if _, err := c.Format(); err != nil {
		return fail(BadKeychar, "%v", err)
	}
	return nil
}

func buildCard(keyword string, tag Tag, value []byte, comment string) (card.Card, error) {
	if tag == TSTRING {
		return card.String(keyword, string(value), comment), nil
	}
	typ, ok := tag.Type()
	if !ok {
		return card.Card{}, fail(BadDatatype, "cannot write keyword as %s", tag)
	}
	if len(value) != typ.Width() {
		return card.Card{}, fail(BadDatatype, "%s value has %d bytes", tag, len(value))
	}

	n := dtype.Load(typ, value)
	switch typ {
	case dtype.Bool:
		return card.Logical(keyword, n.B, comment), nil
	case dtype.Float32, dtype.Float64:
		c, err := card.Float(keyword, n.F, typ.Width()*8, comment)
		if err != nil {
			return card.Card{}, fail(BadF2C, "keyword %s: %v", keyword, err)
		}
		return c, nil
	case dtype.Complex64, dtype.Complex128:
		c, err := card.Complex(keyword, n.C, typ.Width()*8, comment)
		if err != nil {
			return card.Card{}, fail(BadF2C, "keyword %s: %v", keyword, err)
		}
		return c, nil
	}
	if n.Kind == dtype.KindUint {
		return card.Uint(keyword, n.U, comment), nil
	}
	return card.Int(keyword, n.I, comment), nil
}

func (h *Handle) writableUnit(keyword string) (*unit, error) {
	u, err := h.curWrite()
	if err != nil {
		return nil, err
	}
	if err := card.ValidateKeyword(keyword); err != nil {
		return nil, fail(BadKeychar, "%v", err)
	}
	if isStructural(keyword) {
		return nil, fail(BadOrder, "keyword %s is maintained by the engine", keyword)
	}
	return u, nil
}

// WriteKey appends a new card to the current HDU, even when the keyword
// already exists.
func (h *Handle) WriteKey(keyword string, tag Tag, value []byte, comment string) error {
	u, err := h.writableUnit(keyword)
	if err != nil {
		return err
	}
	c, err := formatCard(card.NormalizeKeyword(keyword), tag, value, comment)
	if err != nil {
		return err
	}
	u.append(c)
	return nil
}

// UpdateKey replaces the value and comment of an existing card, or appends
// a new card.
func (h *Handle) UpdateKey(keyword string, tag Tag, value []byte, comment string) error {
	u, err := h.writableUnit(keyword)
	if err != nil {
		return err
	}
	c, err := formatCard(card.NormalizeKeyword(keyword), tag, value, comment)
	if err != nil {
		return err
	}
	u.set(c)
	return nil
}

// ModifyKey replaces the value and comment of an existing card.
func (h *Handle) ModifyKey(keyword string, tag Tag, value []byte, comment string) error {
	u, err := h.writableUnit(keyword)
	if err != nil {
		return err
	}
	if u.find(keyword) < 0 {
		return fail(KeyNoExist, "keyword %s", keyword)
	}
	c, err := formatCard(card.NormalizeKeyword(keyword), tag, value, comment)
	if err != nil {
		return err
	}
	u.set(c)
	return nil
}

// RenameKey changes the name of an existing keyword, keeping its value.
func (h *Handle) RenameKey(oldName, newName string) error {
	u, err := h.writableUnit(oldName)
	if err != nil {
		return err
	}
	if err := card.ValidateKeyword(newName); err != nil {
		return fail(BadKeychar, "%v", err)
	}
	if isStructural(newName) {
		return fail(BadOrder, "keyword %s is maintained by the engine", newName)
	}
	i := u.find(oldName)
	if i < 0 {
		return fail(KeyNoExist, "keyword %s", oldName)
	}
	renamed := u.cards[i]
	renamed.Keyword = card.NormalizeKeyword(newName)
	if err := checkFits(renamed); err != nil {
		return err
	}
	u.raw = nil
	u.cards[i] = renamed
	return nil
}

// DeleteKey removes the first card with the keyword.
func (h *Handle) DeleteKey(keyword string) error {
	u, err := h.writableUnit(keyword)
	if err != nil {
		return err
	}
	if !u.remove(keyword) {
		return fail(KeyNoExist, "keyword %s", keyword)
	}
	return nil
}

// KeyType returns the kind of the value of keyword.
func (h *Handle) KeyType(keyword string) (card.Kind, error) {
	u, err := h.cur()
	if err != nil {
		return 0, err
	}
	c, ok := u.get(keyword)
	if !ok {
		return 0, fail(KeyNoExist, "keyword %s", keyword)
	}
	return c.Kind, nil
}

// CardCount returns the number of cards in the current header, END
// excluded.
func (h *Handle) CardCount() (int, error) {
	u, err := h.cur()
	if err != nil {
		return 0, err
	}
	return len(u.cards), nil
}

// ReadCard returns card n (1-based) of the current header.
func (h *Handle) ReadCard(n int) (card.Card, error) {
	u, err := h.cur()
	if err != nil {
		return card.Card{}, err
	}
	if n < 1 || n > len(u.cards) {
		return card.Card{}, fail(KeyOutBounds, "card %d requested, header has %d", n, len(u.cards))
	}
	return u.cards[n-1], nil
}

// ReadCards returns every card of the current header, END excluded.
func (h *Handle) ReadCards() ([]card.Card, error) {
	u, err := h.cur()
	if err != nil {
		return nil, err
	}
	return append([]card.Card(nil), u.cards...), nil
}

// WriteComment appends COMMENT cards holding text.
func (h *Handle) WriteComment(text string) error {
	return h.writeCommentary("COMMENT", text)
}

// WriteHistory appends HISTORY cards holding text.
func (h *Handle) WriteHistory(text string) error {
	return h.writeCommentary("HISTORY", text)
}

func (h *Handle) writeCommentary(keyword, text string) error {
	u, err := h.curWrite()
	if err != nil {
		return err
	}
	const width = card.Size - card.KeywordSize
	for {
		chunk := text
		if len(chunk) > width {
			chunk = text[:width]
		}
		u.append(card.Commentary(keyword, chunk))
		text = text[len(chunk):]
		if text == "" {
			return nil
		}
	}
}

// keyFloat formats v for a float card in the engine's own keywords.
func keyFloat(keyword string, v float64, comment string) card.Card {
	if v == math.Trunc(v) && math.Abs(v) < 1<<63 {
		return card.Int(keyword, int64(v), comment)
	}
	if v == 9223372036854775808 {
		return card.Uint(keyword, uint64(v), comment)
	}
	c, err := card.Float(keyword, v, 64, comment)
	if err != nil {
		return card.Card{Keyword: keyword, Kind: card.KindFloat, Value: strconv.FormatFloat(v, 'G', -1, 64), Comment: comment}
	}
	return c
}
