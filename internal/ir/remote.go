package ir

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
)

// ReservedKey is the mapping key under which a remote script evaluation
// carries its real payload. Sibling keys are metadata (type tags, handles).
const ReservedKey = "value"

// MaxDepth bounds the nesting accepted from a remote result.
// Cyclic input never bottoms out, so it trips this limit as well.
const MaxDepth = 512

// ErrTooDeep is matched (errors.Is) by every DepthError.
var ErrTooDeep = errors.New("remote value too deep")

// DepthError reports where the depth limit was exceeded.
type DepthError struct {
	Limit int
	Path  string
}

func (e *DepthError) Error() string {
	return fmt.Sprintf("%v: exceeded %d levels at %s", ErrTooDeep, e.Limit, e.Path)
}

// Is lets errors.Is(err, ErrTooDeep) match.
func (e *DepthError) Is(target error) bool {
	return target == ErrTooDeep
}

// undefined marks a JS `undefined` delivered by a client.
type undefined struct{}

// Undefined is the "absent" marker. Client adapters place it where the page
// returned `undefined`. A reserved key holding Undefined is not a payload.
var Undefined any = undefined{}

// Remote is a sealed interface over raw results returned by page scripts.
// Classify resolves the variant once, where raw data enters the system.
type Remote interface {
	remote() // Sealed
}

// RemoteScalar is a leaf value (string, number, bool, null).
type RemoteScalar struct {
	Value Value
}

func (RemoteScalar) remote() {}

// RemoteSequence is an ordered list of raw values.
type RemoteSequence []Remote

func (RemoteSequence) remote() {}

// RemoteMapping is a keyed mapping without a usable reserved key.
type RemoteMapping map[string]Remote

func (RemoteMapping) remote() {}

// RemoteWrapped is a mapping that carries its payload under ReservedKey.
// Meta holds the sibling keys, which normalization discards.
type RemoteWrapped struct {
	Payload Remote
	Meta    map[string]Remote
}

func (RemoteWrapped) remote() {}

// Classify converts a decoded Go value into its Remote variant.
//
// Accepted inputs: nil, bool, string, every int/uint/float kind, json.Number,
// []any, map[string]any, any Value, Remote, and Undefined. Other slice and
// map types are accepted through reflection as long as map keys are strings.
func Classify(raw any) (Remote, error) {
	return classify(raw, 0, "$")
}

func classify(raw any, depth int, path string) (Remote, error) {
	if depth > MaxDepth {
		return nil, &DepthError{Limit: MaxDepth, Path: path}
	}

	switch v := raw.(type) {
	case nil:
		return RemoteScalar{Value: Null{}}, nil
	case undefined:
		return RemoteScalar{Value: Null{}}, nil
	case Remote:
		return v, nil
	case bool:
		return RemoteScalar{Value: Bool(v)}, nil
	case string:
		return RemoteScalar{Value: Str(v)}, nil
	case json.Number:
		n, err := numberValue(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return RemoteScalar{Value: n}, nil
	case int:
		return RemoteScalar{Value: Int(v)}, nil
	case int64:
		return RemoteScalar{Value: Int(v)}, nil
	case int32:
		return RemoteScalar{Value: Int(v)}, nil
	case float64:
		return RemoteScalar{Value: floatValue(v)}, nil
	case float32:
		return RemoteScalar{Value: floatValue(float64(v))}, nil
	case Null, Str, Int, Float, Bool:
		return RemoteScalar{Value: v.(Value)}, nil
	case List:
		seq := make(RemoteSequence, len(v))
		for i, elem := range v {
			r, err := classify(elem, depth+1, fmt.Sprintf("%s[%d]", path, i))
			if err != nil {
				return nil, err
			}
			seq[i] = r
		}
		return seq, nil
	case Object:
		m := make(map[string]any, len(v))
		for k, elem := range v {
			m[k] = elem
		}
		return classifyMapping(m, depth, path)
	case []any:
		seq := make(RemoteSequence, len(v))
		for i, elem := range v {
			r, err := classify(elem, depth+1, fmt.Sprintf("%s[%d]", path, i))
			if err != nil {
				return nil, err
			}
			seq[i] = r
		}
		return seq, nil
	case map[string]any:
		return classifyMapping(v, depth, path)
	default:
		return classifyReflect(raw, depth, path)
	}
}

// classifyMapping decides between RemoteWrapped and RemoteMapping.
func classifyMapping(m map[string]any, depth int, path string) (Remote, error) {
	if payload, ok := m[ReservedKey]; ok && payload != Undefined {
		wrapped := RemoteWrapped{Meta: make(map[string]Remote, len(m)-1)}
		r, err := classify(payload, depth+1, path+"."+ReservedKey)
		if err != nil {
			return nil, err
		}
		wrapped.Payload = r
		for k, elem := range m {
			if k == ReservedKey {
				continue
			}
			meta, err := classify(elem, depth+1, path+"."+k)
			if err != nil {
				return nil, err
			}
			wrapped.Meta[k] = meta
		}
		return wrapped, nil
	}

	mapping := make(RemoteMapping, len(m))
	for k, elem := range m {
		// An undefined member is dropped, as JSON serialization would.
		if elem == Undefined {
			continue
		}
		r, err := classify(elem, depth+1, path+"."+k)
		if err != nil {
			return nil, err
		}
		mapping[k] = r
	}
	return mapping, nil
}

// classifyReflect handles typed slices, typed maps and remaining number kinds.
func classifyReflect(raw any, depth int, path string) (Remote, error) {
	rv := reflect.ValueOf(raw)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return RemoteScalar{Value: Int(rv.Int())}, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return RemoteScalar{Value: Int(int64(rv.Uint()))}, nil
	case reflect.Float32, reflect.Float64:
		return RemoteScalar{Value: floatValue(rv.Float())}, nil
	case reflect.String:
		return RemoteScalar{Value: Str(rv.String())}, nil
	case reflect.Bool:
		return RemoteScalar{Value: Bool(rv.Bool())}, nil
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return RemoteScalar{Value: Null{}}, nil
		}
		return classify(rv.Elem().Interface(), depth+1, path)
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return RemoteScalar{Value: Null{}}, nil
		}
		elems := make([]any, rv.Len())
		for i := range elems {
			elems[i] = rv.Index(i).Interface()
		}
		return classify(elems, depth, path)
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, fmt.Errorf("%s: unsupported map key type %s", path, rv.Type().Key())
		}
		if rv.IsNil() {
			return RemoteScalar{Value: Null{}}, nil
		}
		m := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			m[iter.Key().String()] = iter.Value().Interface()
		}
		return classifyMapping(m, depth, path)
	default:
		return nil, fmt.Errorf("%s: unsupported type %T", path, raw)
	}
}

// DecodeRemoteJSON decodes a JSON document into its Remote variant.
// Numbers keep full precision: integral values become Int.
func DecodeRemoteJSON(data []byte) (Remote, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode remote value: %w", err)
	}
	return Classify(raw)
}
