// Package card parses and formats FITS header cards.
//
// A card is an 80-character ASCII line holding a keyword, an optional value
// and an optional comment:
//
//	KEYWORD = value / comment
//
// Three conventions beyond the fixed-format card are supported:
//
//   - HIERARCH: keywords longer than 8 characters, written as
//     "HIERARCH long.keyword = value".
//   - CONTINUE: string values longer than one card, split into chunks that
//     end with '&' and continued on CONTINUE cards.
//   - Commentary cards (COMMENT, HISTORY, blank keyword) whose text runs
//     from column 9 to 80.
package card

import (
	"fmt"
	"strings"
)

// Size is the width of a card in characters.
const Size = 80

// KeywordSize is the width of the fixed-format keyword field.
const KeywordSize = 8

// MaxStringValue is the longest string value that fits a single card.
// Longer values use the CONTINUE convention.
const MaxStringValue = 68

// Kind is the lexical type of a card value.
type Kind int

// Value kinds.
const (
	KindUndefined Kind = iota
	KindString
	KindLogical
	KindInteger
	KindFloat
	KindComplex
	KindCommentary
)

func (k Kind) String() string {
	switch k {
	case KindUndefined:
		return "undefined"
	case KindString:
		return "string"
	case KindLogical:
		return "logical"
	case KindInteger:
		return "integer"
	case KindFloat:
		return "float"
	case KindComplex:
		return "complex"
	case KindCommentary:
		return "commentary"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Card is one parsed header entry. Long string values are held whole: the
// CONTINUE cards they were read from are merged by Parse.
type Card struct {
	Keyword string
	Kind    Kind
	// Value is the decoded value text: the unquoted string for strings,
	// the literal for numbers, "T" or "F" for logicals.
	Value   string
	Comment string
}

// Commentary keywords carry free text instead of a value.
var commentaryKeywords = map[string]bool{
	"COMMENT": true,
	"HISTORY": true,
	"":        true,
}

// IsCommentary reports whether keyword is a commentary keyword.
func IsCommentary(keyword string) bool {
	return commentaryKeywords[keyword]
}

// NormalizeKeyword returns the keyword as stored in the header: fixed-format
// keywords are upper-cased, HIERARCH keywords keep their case.
func NormalizeKeyword(keyword string) string {
	keyword = strings.TrimSpace(keyword)
	if len(keyword) <= KeywordSize && isStandardKeyword(strings.ToUpper(keyword)) {
		return strings.ToUpper(keyword)
	}
	return keyword
}

// IsHierarch reports whether keyword needs the HIERARCH convention.
func IsHierarch(keyword string) bool {
	return len(keyword) > KeywordSize || !isStandardKeyword(keyword)
}

func isStandardKeyword(keyword string) bool {
	for i := 0; i < len(keyword); i++ {
		c := keyword[i]
		ok := (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '-' || c == '_'
		if !ok {
			return false
		}
	}
	return true
}

// MaxHierarchKeyword is the longest HIERARCH keyword. It leaves room on the
// card for a string of two characters, its quotes and the '&' marker, which
// is the least a long string needs to continue on the next card.
const MaxHierarchKeyword = Size - len("HIERARCH  = ") - len("'xx&'")

// ValidateKeyword checks that keyword can be written to a header.
func ValidateKeyword(keyword string) error {
	if keyword == "" {
		return fmt.Errorf("empty keyword")
	}
	for i := 0; i < len(keyword); i++ {
		c := keyword[i]
		if c < 0x20 || c > 0x7E || c == '=' {
			return fmt.Errorf("invalid character %q in keyword %q", c, keyword)
		}
	}
	if IsHierarch(keyword) && len(keyword) > MaxHierarchKeyword {
		return fmt.Errorf("keyword %q is longer than %d characters", keyword, MaxHierarchKeyword)
	}
	return nil
}
