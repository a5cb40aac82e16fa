package fits

import "fmt"

// VariantValue holds a value of any supported type, tagged with its type.
// The zero VariantValue is undefined, as the value of a card with no value.
type VariantValue struct {
	// code is the index of the type code plus one; 0 means undefined.
	code  int
	value any
}

// VariantOf returns a VariantValue holding v.
func VariantOf[T Value](v T) VariantValue {
	return VariantValue{code: codeIndex(any(v)) + 1, value: v}
}

// IsUndefined reports whether v holds no value.
func (v VariantValue) IsUndefined() bool {
	return v.code == 0
}

// TypeCode returns the type code of the held value. It reports false for
// an undefined value.
func (v VariantValue) TypeCode() (TypeCode, bool) {
	if v.code == 0 {
		return TypeCode{}, false
	}
	return typeCodes[v.code-1], true
}

// TypeName returns the Go name of the held type, or "undefined".
func (v VariantValue) TypeName() string {
	if c, ok := v.TypeCode(); ok {
		return c.Name()
	}
	return "undefined"
}

// Any returns the held value, or nil when undefined.
func (v VariantValue) Any() any {
	return v.value
}

func (v VariantValue) String() string {
	if v.code == 0 {
		return ""
	}
	return fmt.Sprint(v.value)
}

// VariantAs returns the value held by v when it is of type T.
func VariantAs[T Value](v VariantValue) (T, error) {
	if t, ok := v.value.(T); ok && v.code != 0 {
		return t, nil
	}
	var zero T
	return zero, &TypeError{Type: TypeCodeOf[T]().Name(), Reason: "value holds " + v.TypeName()}
}
