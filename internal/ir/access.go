package ir

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Lookup walks a normalized value by object keys and array indices.
// Returns false when any segment is missing.
//
// Example: Lookup(v, "rows", "0", "1") reads v.rows[0][1].
func Lookup(v Value, path ...string) (Value, bool) {
	cur := v
	for _, seg := range path {
		switch node := cur.(type) {
		case Object:
			next, ok := node[seg]
			if !ok {
				return nil, false
			}
			cur = next
		case List:
			idx, err := strconv.Atoi(seg)
			if err != nil || idx < 0 || idx >= len(node) {
				return nil, false
			}
			cur = node[idx]
		default:
			return nil, false
		}
	}
	return cur, true
}

// SplitPath splits a dotted path ("rows.0.1") into Lookup segments.
// An empty path addresses the value itself.
func SplitPath(path string) []string {
	if path == "" {
		return nil
	}
	return strings.Split(path, ".")
}

// AsString returns the string form of a scalar.
// Numbers and booleans are formatted; null, arrays and objects are not strings.
func AsString(v Value) (string, bool) {
	switch val := v.(type) {
	case Str:
		return string(val), true
	case Int:
		return strconv.FormatInt(int64(val), 10), true
	case Float:
		return strconv.FormatFloat(float64(val), 'g', -1, 64), true
	case Bool:
		return strconv.FormatBool(bool(val)), true
	default:
		return "", false
	}
}

// AsBool returns the value of an Bool.
func AsBool(v Value) (bool, bool) {
	b, ok := v.(Bool)
	return bool(b), ok
}

// AsInt returns the value of an integral number.
func AsInt(v Value) (int64, bool) {
	switch val := v.(type) {
	case Int:
		return int64(val), true
	case Float:
		f := float64(val)
		if f == math.Trunc(f) {
			return int64(f), true
		}
	}
	return 0, false
}

// Truthy applies JavaScript truthiness to a normalized value.
// Arrays and objects are always truthy, as in JS.
func Truthy(v Value) bool {
	switch val := v.(type) {
	case nil, Null:
		return false
	case Bool:
		return bool(val)
	case Str:
		return val != ""
	case Int:
		return val != 0
	case Float:
		f := float64(val)
		return f != 0 && !math.IsNaN(f)
	default:
		return true
	}
}

// Equal reports deep equality of two normalized values.
// Int and Float compare numerically.
func Equal(a, b Value) bool {
	switch av := a.(type) {
	case nil, Null:
		switch b.(type) {
		case nil, Null:
			return true
		}
		return false
	case Int, Float:
		af, aok := toFloat(av)
		bf, bok := toFloat(b)
		return aok && bok && af == bf
	case Str:
		bv, ok := b.(Str)
		return ok && av == bv
	case Bool:
		bv, ok := b.(Bool)
		return ok && av == bv
	case List:
		bv, ok := b.(List)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !Equal(av[i], bv[i]) {
				return false
			}
		}
		return true
	case Object:
		bv, ok := b.(Object)
		if !ok || len(av) != len(bv) {
			return false
		}
		for k, elem := range av {
			other, ok := bv[k]
			if !ok || !Equal(elem, other) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func toFloat(v Value) (float64, bool) {
	switch val := v.(type) {
	case Int:
		return float64(val), true
	case Float:
		return float64(val), true
	}
	return 0, false
}

// String renders a normalized value for log and report details.
// Strings are returned bare; composite values are rendered as JSON.
func String(v Value) string {
	if s, ok := AsString(v); ok {
		return s
	}
	data, err := MarshalValue(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}
