package fits

import (
	"fmt"
	"strings"

	"github.com/robert-malhotra/go-fits/internal/card"
)

// Record is one header entry: a keyword, a value, a unit and a comment.
// The unit is stored in the card comment, as "[unit] comment".
type Record[T any] struct {
	Keyword string
	Value   T
	Unit    string
	Comment string
}

// NewRecord returns a record.
func NewRecord[T any](keyword string, value T, unit, comment string) Record[T] {
	return Record[T]{Keyword: keyword, Value: value, Unit: unit, Comment: comment}
}

// HasLongKeyword reports whether the keyword is longer than 8 characters
// and is written with the HIERARCH convention.
func (r Record[T]) HasLongKeyword() bool {
	return len(r.Keyword) > card.KeywordSize
}

// HasLongStringValue reports whether the value is a string too long for
// one card, written with the CONTINUE convention.
func (r Record[T]) HasLongStringValue() bool {
	var s string
	switch v := any(r.Value).(type) {
	case string:
		s = v
	case VariantValue:
		s, _ = v.value.(string)
	}
	return len(s) > card.MaxStringValue
}

// RawComment returns the comment as written in the card, with the unit.
func (r Record[T]) RawComment() string {
	if r.Unit == "" {
		return r.Comment
	}
	return "[" + r.Unit + "] " + r.Comment
}

func (r Record[T]) String() string {
	s := fmt.Sprintf("%s = %v", r.Keyword, r.Value)
	if raw := r.RawComment(); raw != "" {
		s += " / " + raw
	}
	return s
}

// splitComment separates the unit from a card comment.
func splitComment(raw string) (unit, comment string) {
	if !strings.HasPrefix(raw, "[") {
		return "", raw
	}
	end := strings.Index(raw, "]")
	if end < 0 {
		return "", raw
	}
	return raw[1:end], strings.TrimPrefix(raw[end+1:], " ")
}

// AnyRecord returns r with its value wrapped in a VariantValue.
func AnyRecord[T Value](r Record[T]) Record[VariantValue] {
	return Record[VariantValue]{Keyword: r.Keyword, Value: VariantOf(r.Value), Unit: r.Unit, Comment: r.Comment}
}

// RecordAs returns r with its value unwrapped as a T.
func RecordAs[T Value](r Record[VariantValue]) (Record[T], error) {
	v, err := VariantAs[T](r.Value)
	if err != nil {
		return Record[T]{}, fmt.Errorf("record %s: %w", r.Keyword, err)
	}
	return Record[T]{Keyword: r.Keyword, Value: v, Unit: r.Unit, Comment: r.Comment}, nil
}
