package card

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrEnd is returned by ParseLine for the END card.
var ErrEnd = errors.New("END card")

var (
	integerPattern = regexp.MustCompile(`^[+-]?[0-9]+$`)
	floatPattern   = regexp.MustCompile(`^[+-]?([0-9]+\.?[0-9]*|\.[0-9]+)([EeDd][+-]?[0-9]+)?$`)
)

// ParseLine parses one 80-character card. The END card yields ErrEnd.
func ParseLine(line string) (Card, error) {
	if len(line) > Size {
		line = line[:Size]
	}
	line = strings.TrimRight(line, " ")

	head := line
	if len(head) > KeywordSize {
		head = line[:KeywordSize]
	}
	keyword := strings.TrimSpace(head)

	if keyword == "END" && len(line) <= KeywordSize {
		return Card{}, ErrEnd
	}

	rest := ""
	if len(line) > KeywordSize {
		rest = line[KeywordSize:]
	}

	if keyword == "HIERARCH" {
		eq := strings.Index(rest, "=")
		if eq < 0 {
			return Card{Keyword: keyword, Kind: KindCommentary, Comment: strings.TrimSpace(rest)}, nil
		}
		c, err := parseValueField(rest[eq+1:])
		if err != nil {
			return Card{}, fmt.Errorf("HIERARCH card: %w", err)
		}
		c.Keyword = strings.TrimSpace(rest[:eq])
		return c, nil
	}

	if IsCommentary(keyword) || keyword == "CONTINUE" || !strings.HasPrefix(rest, "= ") {
		text := rest
		if keyword == "CONTINUE" {
			text = strings.TrimSpace(rest)
		}
		return Card{Keyword: keyword, Kind: KindCommentary, Comment: text}, nil
	}

	c, err := parseValueField(rest[2:])
	if err != nil {
		return Card{}, fmt.Errorf("keyword %s: %w", keyword, err)
	}
	c.Keyword = keyword
	return c, nil
}

// parseValueField parses the value/comment part following the "= " marker.
func parseValueField(field string) (Card, error) {
	trimmed := strings.TrimLeft(field, " ")
	if trimmed == "" {
		return Card{Kind: KindUndefined}, nil
	}

	if trimmed[0] == '\'' {
		value, after, err := parseQuoted(trimmed)
		if err != nil {
			return Card{}, err
		}
		return Card{Kind: KindString, Value: value, Comment: parseComment(after)}, nil
	}

	value, comment := trimmed, ""
	if slash := strings.Index(trimmed, "/"); slash >= 0 {
		value = trimmed[:slash]
		comment = parseComment(trimmed[slash:])
	}
	value = strings.TrimSpace(value)

	c := Card{Value: value, Comment: comment}
	switch {
	case value == "":
		c.Kind = KindUndefined
	case value == "T" || value == "F":
		c.Kind = KindLogical
	case integerPattern.MatchString(value):
		c.Kind = KindInteger
	case floatPattern.MatchString(value):
		c.Kind = KindFloat
		c.Value = strings.NewReplacer("D", "E", "d", "E").Replace(value)
	case strings.HasPrefix(value, "(") && strings.HasSuffix(value, ")"):
		if _, _, err := splitComplex(value); err != nil {
			return Card{}, err
		}
		c.Kind = KindComplex
	default:
		return Card{}, fmt.Errorf("unrecognized value %q", value)
	}
	return c, nil
}

// parseQuoted decodes a quoted string starting at s[0] == '\''.
// It returns the string with trailing spaces removed and the remaining text.
func parseQuoted(s string) (string, string, error) {
	var b strings.Builder
	i := 1
	for i < len(s) {
		if s[i] == '\'' {
			if i+1 < len(s) && s[i+1] == '\'' {
				b.WriteByte('\'')
				i += 2
				continue
			}
			return strings.TrimRight(b.String(), " "), s[i+1:], nil
		}
		b.WriteByte(s[i])
		i++
	}
	return "", "", fmt.Errorf("unterminated string %q", s)
}

// parseComment extracts the comment from text following a value.
func parseComment(after string) string {
	after = strings.TrimSpace(after)
	if !strings.HasPrefix(after, "/") {
		return ""
	}
	return strings.TrimSpace(after[1:])
}

func splitComplex(value string) (string, string, error) {
	inner := strings.TrimSuffix(strings.TrimPrefix(value, "("), ")")
	parts := strings.Split(inner, ",")
	if len(parts) != 2 {
		return "", "", fmt.Errorf("malformed complex value %q", value)
	}
	re := strings.TrimSpace(parts[0])
	im := strings.TrimSpace(parts[1])
	if !floatPattern.MatchString(re) || !floatPattern.MatchString(im) {
		return "", "", fmt.Errorf("malformed complex value %q", value)
	}
	return re, im, nil
}

// Parse parses a sequence of card lines up to the END card, merging
// CONTINUE cards into the long string they extend. It returns the parsed
// cards and whether END was found.
func Parse(lines []string) ([]Card, bool, error) {
	cards := make([]Card, 0, len(lines))
	for i, line := range lines {
		c, err := ParseLine(line)
		if errors.Is(err, ErrEnd) {
			return cards, true, nil
		}
		if err != nil {
			return nil, false, fmt.Errorf("card %d: %w", i+1, err)
		}

		if c.Keyword == "CONTINUE" && len(cards) > 0 {
			prev := &cards[len(cards)-1]
			if prev.Kind == KindString && strings.HasSuffix(prev.Value, "&") {
				cont, err := parseValueField(c.Comment)
				if err == nil && cont.Kind == KindString {
					prev.Value = strings.TrimSuffix(prev.Value, "&") + cont.Value
					if cont.Comment != "" {
						prev.Comment = cont.Comment
					}
					continue
				}
			}
		}
		cards = append(cards, c)
	}
	return cards, false, nil
}
