package card

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// valueColumn is the column where fixed-format numeric values end.
const valueColumn = 30

// continueChunk is the number of string characters carried per card when a
// long string is split, leaving room for the quotes and the '&' marker.
const continueChunk = 67

// continuePrefix starts the cards carrying the rest of a long string.
const continuePrefix = "CONTINUE  "

// ErrCardOverflow is returned when a value or its comment does not fit in
// the card. Values are never truncated.
var ErrCardOverflow = errors.New("value does not fit in a card")

// Format renders the card as one or more 80-character lines.
// Long strings produce CONTINUE cards and long commentary text is wrapped.
// A string comment too long for the card holding the end of the value is
// moved to a CONTINUE card of its own. Other values fail with
// ErrCardOverflow when the value and comment exceed one card.
func (c Card) Format() ([]string, error) {
	if err := ValidateKeyword(c.Keyword); err != nil && !IsCommentary(c.Keyword) {
		return nil, err
	}

	if c.Kind == KindCommentary {
		return formatCommentary(c.Keyword, c.Comment), nil
	}

	prefix := c.prefix()

	if c.Kind == KindString {
		return c.formatString(prefix)
	}

	switch c.Kind {
	case KindUndefined:
		line, ok := withComment(prefix, c.Comment)
		if !ok {
			return nil, fmt.Errorf("comment of %s: %w", c.Keyword, ErrCardOverflow)
		}
		return []string{pad(line)}, nil
	case KindLogical, KindInteger, KindFloat, KindComplex:
	default:
		return nil, fmt.Errorf("cannot format value of kind %s", c.Kind)
	}

	if len(prefix)+len(c.Value) > Size {
		return nil, fmt.Errorf("keyword %s = %s: %w", c.Keyword, c.Value, ErrCardOverflow)
	}
	// Fixed format when it leaves room for the comment, free format
	// otherwise.
	if !IsHierarch(c.Keyword) {
		if n := valueColumn - len(prefix) - len(c.Value); n > 0 {
			if line, ok := withComment(prefix+strings.Repeat(" ", n)+c.Value, c.Comment); ok {
				return []string{pad(line)}, nil
			}
		}
	}
	line, ok := withComment(prefix+c.Value, c.Comment)
	if !ok {
		return nil, fmt.Errorf("comment of %s: %w", c.Keyword, ErrCardOverflow)
	}
	return []string{pad(line)}, nil
}

// prefix returns the keyword field and value indicator.
func (c Card) prefix() string {
	if IsHierarch(c.Keyword) {
		return "HIERARCH " + c.Keyword + " = "
	}
	return fmt.Sprintf("%-8s= ", c.Keyword)
}

func (c Card) formatString(prefix string) ([]string, error) {
	escaped := strings.ReplaceAll(c.Value, "'", "''")

	if len(c.Value) <= MaxStringValue {
		quoted := escaped
		if len(quoted) < 8 {
			quoted += strings.Repeat(" ", 8-len(quoted))
		}
		if line, ok := withComment(prefix+"'"+quoted+"'", c.Comment); ok {
			return []string{pad(line)}, nil
		}
	}

	chunks, err := splitEscaped(escaped, min(Size-len(prefix)-3, continueChunk), continueChunk)
	if err != nil {
		return nil, fmt.Errorf("keyword %s: %w", c.Keyword, err)
	}
	lines := make([]string, 0, len(chunks)+1)
	for i, chunk := range chunks {
		head := prefix
		if i > 0 {
			head = continuePrefix
		}
		if i == len(chunks)-1 {
			if line, ok := withComment(head+"'"+chunk+"'", c.Comment); ok {
				return append(lines, pad(line)), nil
			}
		}
		lines = append(lines, pad(head+"'"+chunk+"&'"))
	}

	line, ok := withComment(continuePrefix+"''", c.Comment)
	if !ok {
		return nil, fmt.Errorf("comment of %s: %w", c.Keyword, ErrCardOverflow)
	}
	return append(lines, pad(line)), nil
}

// splitEscaped splits an escaped string into a first chunk of at most
// first bytes and further chunks of at most n bytes, without separating the
// two quotes of an escaped quote.
func splitEscaped(s string, first, n int) ([]string, error) {
	if first < 2 || n < 2 {
		return nil, ErrCardOverflow
	}
	var chunks []string
	for size := first; len(s) > size; size = n {
		cut := size
		quotes := 0
		for i := cut - 1; i >= 0 && s[i] == '\''; i-- {
			quotes++
		}
		if quotes%2 == 1 {
			cut--
		}
		chunks = append(chunks, s[:cut])
		s = s[cut:]
	}
	return append(chunks, s), nil
}

func formatCommentary(keyword, text string) []string {
	head := fmt.Sprintf("%-8s", keyword)
	width := Size - KeywordSize
	if text == "" {
		return []string{pad(head)}
	}
	var lines []string
	for len(text) > width {
		lines = append(lines, head+text[:width])
		text = text[width:]
	}
	return append(lines, pad(head+text))
}

// withComment appends the comment to line and reports whether the result
// fits in a card.
func withComment(line, comment string) (string, bool) {
	if comment != "" {
		line += " / " + comment
	}
	return line, len(line) <= Size
}

func pad(line string) string {
	return line + strings.Repeat(" ", Size-len(line))
}

// String returns a string card.
func String(keyword, value, comment string) Card {
	return Card{Keyword: keyword, Kind: KindString, Value: value, Comment: comment}
}

// Logical returns a logical card.
func Logical(keyword string, value bool, comment string) Card {
	v := "F"
	if value {
		v = "T"
	}
	return Card{Keyword: keyword, Kind: KindLogical, Value: v, Comment: comment}
}

// Int returns a signed integer card.
func Int(keyword string, value int64, comment string) Card {
	return Card{Keyword: keyword, Kind: KindInteger, Value: strconv.FormatInt(value, 10), Comment: comment}
}

// Uint returns an unsigned integer card.
func Uint(keyword string, value uint64, comment string) Card {
	return Card{Keyword: keyword, Kind: KindInteger, Value: strconv.FormatUint(value, 10), Comment: comment}
}

// Float returns a floating point card. bits is 32 or 64 and selects the
// shortest representation that round-trips at that precision.
func Float(keyword string, value float64, bits int, comment string) (Card, error) {
	lit, err := formatFloat(value, bits)
	if err != nil {
		return Card{}, err
	}
	return Card{Keyword: keyword, Kind: KindFloat, Value: lit, Comment: comment}, nil
}

// Complex returns a complex card. bits is 64 or 128.
func Complex(keyword string, value complex128, bits int, comment string) (Card, error) {
	re, err := formatFloat(real(value), bits/2)
	if err != nil {
		return Card{}, err
	}
	im, err := formatFloat(imag(value), bits/2)
	if err != nil {
		return Card{}, err
	}
	return Card{Keyword: keyword, Kind: KindComplex, Value: "(" + re + ", " + im + ")", Comment: comment}, nil
}

// Commentary returns a COMMENT, HISTORY or blank-keyword card.
func Commentary(keyword, text string) Card {
	return Card{Keyword: keyword, Kind: KindCommentary, Comment: text}
}

func formatFloat(v float64, bits int) (string, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "", fmt.Errorf("cannot write non-finite value %v", v)
	}
	s := strings.ToUpper(strconv.FormatFloat(v, 'G', -1, bits))
	if !strings.ContainsAny(s, ".E") {
		s += ".0"
	}
	return s, nil
}
