package ir

import (
	"slices"
	"strings"
	"unicode/utf16"
)

// Value is a sealed interface over the values that may appear in canonical
// JSON. There is no float and no null: both break stable hashing.
type Value interface {
	value()
}

// String is a string value.
type String string

func (String) value() {}

// Int is an integer value.
type Int int64

func (Int) value() {}

// Bool is a boolean value.
type Bool bool

func (Bool) value() {}

// Array is an ordered list of values.
type Array []Value

func (Array) value() {}

// Object maps string keys to values. Use SortedKeys for deterministic iteration.
type Object map[string]Value

func (Object) value() {}

// SortedKeys returns the keys ordered by UTF-16 code units, as RFC 8785 requires.
func (o Object) SortedKeys() []string {
	keys := make([]string, 0, len(o))
	for k := range o {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, compareUTF16)
	return keys
}

func compareUTF16(a, b string) int {
	ua := utf16.Encode([]rune(a))
	ub := utf16.Encode([]rune(b))
	for i := 0; i < len(ua) && i < len(ub); i++ {
		if ua[i] != ub[i] {
			if ua[i] < ub[i] {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(ua) < len(ub):
		return -1
	case len(ua) > len(ub):
		return 1
	}
	return strings.Compare(a, b)
}

// QuadValue renders a quad as a four element integer array.
func QuadValue(q Quad) Array {
	return Array{Int(q.Subject), Int(q.Predicate), Int(q.Object), Int(q.Context)}
}
