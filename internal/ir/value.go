package ir

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"math"
	"slices"
	"unicode/utf16"
)

// Value is a normalized script result. It is one of Null, Str, Int, Float,
// Bool, List or Object, and never contains a reserved-key wrapper.
type Value interface {
	sealed()
}

type (
	// Null is JSON null. A nil Value is treated the same way.
	Null struct{}
	Str  string
	// Int holds integral numbers, including integral JS floats.
	Int int64
	// Float holds non-integral numbers. NaN and infinities survive
	// normalization but cannot be encoded.
	Float float64
	Bool  bool
	List  []Value
	// Object iterates in random order; use SortedKeys for stable output.
	Object map[string]Value
)

func (Null) sealed()   {}
func (Str) sealed()    {}
func (Int) sealed()    {}
func (Float) sealed()  {}
func (Bool) sealed()   {}
func (List) sealed()   {}
func (Object) sealed() {}

func (Null) MarshalJSON() ([]byte, error)     { return []byte("null"), nil }
func (l List) MarshalJSON() ([]byte, error)   { return MarshalValue(l) }
func (o Object) MarshalJSON() ([]byte, error) { return MarshalValue(o) }

// SortedKeys returns the keys ordered by UTF-16 code units, which is the
// order RFC 8785 requires and differs from byte order for astral characters.
func (o Object) SortedKeys() []string {
	return slices.SortedFunc(maps.Keys(o), compareUTF16)
}

func compareUTF16(a, b string) int {
	return slices.Compare(utf16.Encode([]rune(a)), utf16.Encode([]rune(b)))
}

// MarshalValue encodes v as compact JSON with sorted keys. Strings are
// written as-is; use MarshalCanonical when the bytes are compared or stored.
func MarshalValue(v Value) ([]byte, error) {
	var buf bytes.Buffer
	if err := encode(&buf, v, json.Marshal); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// numberValue decodes a json.Number into Int when it fits, Float otherwise.
func numberValue(n json.Number) (Value, error) {
	if i, err := n.Int64(); err == nil {
		return Int(i), nil
	}
	f, err := n.Float64()
	if err != nil {
		return nil, fmt.Errorf("invalid number %q: %w", n.String(), err)
	}
	return floatValue(f), nil
}

// floatValue folds integral floats inside the exact 2^53 range into Int.
func floatValue(f float64) Value {
	if math.Abs(f) < 1<<53 && f == math.Trunc(f) {
		return Int(int64(f))
	}
	return Float(f)
}
