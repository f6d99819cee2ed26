package ir

// Normalize converts a classified remote value into plain data.
//
// Rules, applied recursively:
//   - RemoteSequence: same length, same order, each element normalized
//   - RemoteWrapped: the payload is normalized, metadata is discarded
//   - RemoteMapping: same keys, each value normalized
//   - RemoteScalar: returned unchanged
//
// Normalize is total: Classify already rejected anything too deep.
func Normalize(r Remote) Value {
	switch v := r.(type) {
	case RemoteSequence:
		arr := make(List, len(v))
		for i, elem := range v {
			arr[i] = Normalize(elem)
		}
		return arr
	case RemoteWrapped:
		return Normalize(v.Payload)
	case RemoteMapping:
		obj := make(Object, len(v))
		for k, elem := range v {
			obj[k] = Normalize(elem)
		}
		return obj
	case RemoteScalar:
		if v.Value == nil {
			return Null{}
		}
		return v.Value
	default:
		return Null{}
	}
}

// NormalizeRaw classifies and normalizes a value returned by a client.
// The only failures are unsupported Go types and ErrTooDeep.
func NormalizeRaw(raw any) (Value, error) {
	r, err := Classify(raw)
	if err != nil {
		return nil, err
	}
	return Normalize(r), nil
}
