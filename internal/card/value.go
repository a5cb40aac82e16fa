package card

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrKind is returned when a card value cannot be read as the requested type.
var ErrKind = errors.New("card value has incompatible kind")

// Bool returns the value of a logical card.
func (c Card) Bool() (bool, error) {
	if c.Kind != KindLogical {
		return false, fmt.Errorf("%w: %s is %s, not logical", ErrKind, c.Keyword, c.Kind)
	}
	return c.Value == "T", nil
}

// Int returns the value of an integer card.
func (c Card) Int() (int64, error) {
	if c.Kind != KindInteger {
		return 0, fmt.Errorf("%w: %s is %s, not integer", ErrKind, c.Keyword, c.Kind)
	}
	return strconv.ParseInt(c.Value, 10, 64)
}

// Uint returns the value of a non-negative integer card.
func (c Card) Uint() (uint64, error) {
	if c.Kind != KindInteger {
		return 0, fmt.Errorf("%w: %s is %s, not integer", ErrKind, c.Keyword, c.Kind)
	}
	return strconv.ParseUint(c.Value, 10, 64)
}

// Float returns the value of an integer or float card.
func (c Card) Float() (float64, error) {
	if c.Kind != KindInteger && c.Kind != KindFloat {
		return 0, fmt.Errorf("%w: %s is %s, not numeric", ErrKind, c.Keyword, c.Kind)
	}
	return strconv.ParseFloat(c.Value, 64)
}

// Complex returns the value of a complex, float or integer card.
func (c Card) Complex() (complex128, error) {
	switch c.Kind {
	case KindInteger, KindFloat:
		f, err := c.Float()
		return complex(f, 0), err
	case KindComplex:
		reText, imText, err := splitComplex(c.Value)
		if err != nil {
			return 0, err
		}
		re, err := strconv.ParseFloat(reText, 64)
		if err != nil {
			return 0, err
		}
		im, err := strconv.ParseFloat(imText, 64)
		if err != nil {
			return 0, err
		}
		return complex(re, im), nil
	default:
		return 0, fmt.Errorf("%w: %s is %s, not complex", ErrKind, c.Keyword, c.Kind)
	}
}

// Text returns the value of a string card.
func (c Card) Text() (string, error) {
	if c.Kind != KindString {
		return "", fmt.Errorf("%w: %s is %s, not string", ErrKind, c.Keyword, c.Kind)
	}
	return c.Value, nil
}
