package vm

// Map is a view-model node: a JSON object. Values are one of string, bool,
// int64, float64, []any, or Map (nested). Key order carries no semantic
// meaning, but traversal during diffing is sorted by key for determinism.
type Map map[string]any

// Clone returns a deep copy of m, suitable for snapshotting before mutation.
func (m Map) Clone() Map {
	if m == nil {
		return nil
	}
	out := make(Map, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case Map:
		return t.Clone()
	case map[string]any:
		return Map(t).Clone()
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}

// asMap coerces a value to a Map if it is one of the two map representations
// a VM tree may use (our own Map, or a plain map[string]any decoded from
// JSON). Returns ok=false for anything else, including nil.
func asMap(v any) (Map, bool) {
	switch t := v.(type) {
	case Map:
		return t, true
	case map[string]any:
		return Map(t), true
	default:
		return nil, false
	}
}

// Equal reports whether a and b are structurally identical, preserving
// numeric type distinctions (an int64 42 is not equal to a float64 42.0):
// the data model treats integer and double as distinct leaf kinds.
func Equal(a, b any) bool {
	if am, aok := asMap(a); aok {
		bm, bok := asMap(b)
		if !bok {
			return false
		}
		return mapsEqual(am, bm)
	}
	if al, aok := a.([]any); aok {
		bl, bok := b.([]any)
		if !bok || len(al) != len(bl) {
			return false
		}
		for i := range al {
			if !Equal(al[i], bl[i]) {
				return false
			}
		}
		return true
	}
	return a == b
}

func mapsEqual(a, b Map) bool {
	if len(a) != len(b) {
		return false
	}
	for k, av := range a {
		bv, ok := b[k]
		if !ok || !Equal(av, bv) {
			return false
		}
	}
	return true
}
