package vm

import "sort"

// Diff computes the minimal patch-op list that transforms prev into next.
// Traversal descends key by key, sorted by string form for determinism,
// recursing into nested maps and emitting a single "replace" wherever a
// leaf, a list, or a map-vs-non-map mismatch is found.
func Diff(prev, next Map) []Op {
	if mapsEqual(prev, next) {
		return nil
	}
	var ops []Op
	diffMap(prev, next, "", &ops)
	return ops
}

func diffMap(prev, next Map, path string, out *[]Op) {
	keys := make(map[string]struct{}, len(prev)+len(next))
	for k := range prev {
		keys[k] = struct{}{}
	}
	for k := range next {
		keys[k] = struct{}{}
	}
	ordered := make([]string, 0, len(keys))
	for k := range keys {
		ordered = append(ordered, k)
	}
	sort.Strings(ordered)

	for _, k := range ordered {
		childPath := path + "/" + escape(k)
		pv, pok := prev[k]
		nv, nok := next[k]
		switch {
		case !pok && nok:
			*out = append(*out, Add(childPath, nv))
		case pok && !nok:
			*out = append(*out, Remove(childPath))
		default:
			diffValue(pv, nv, childPath, out)
		}
	}
}

// diffValue compares two present values at path, recursing when both are
// maps and emitting a replace otherwise.
func diffValue(prev, next any, path string, out *[]Op) {
	pm, pIsMap := asMap(prev)
	nm, nIsMap := asMap(next)
	if pIsMap && nIsMap {
		diffMap(pm, nm, path, out)
		return
	}
	if !Equal(prev, next) {
		*out = append(*out, Replace(path, next))
	}
}

// DiffAtPaths computes patch ops scoped to the given set of JSON Pointer
// paths into prev/next. Each path names a subtree that may have changed;
// paths not in the list are never compared, even if they in fact differ.
// A path whose parent is missing from both trees is silently skipped
// ("absent" short-circuits, per the differ's scoped-diff contract).
func DiffAtPaths(prev, next Map, paths []string) []Op {
	var ops []Op
	for _, p := range paths {
		tokens, err := ParsePointer(p)
		if err != nil {
			panic("vm: malformed scoped diff path " + p + ": " + err.Error())
		}
		pv, pok := lookup(prev, tokens)
		nv, nok := lookup(next, tokens)
		switch {
		case !pok && !nok:
			// absent on both sides: nothing to report.
		case !pok && nok:
			ops = append(ops, Add(p, nv))
		case pok && !nok:
			ops = append(ops, Remove(p))
		default:
			diffValue(pv, nv, p, &ops)
		}
	}
	return ops
}

// lookup walks tokens from the root of m, returning the value found and
// whether every intermediate node (and the final token) was present.
func lookup(m Map, tokens []string) (any, bool) {
	var cur any = m
	for _, t := range tokens {
		cm, ok := asMap(cur)
		if !ok {
			return nil, false
		}
		v, ok := cm[t]
		if !ok {
			return nil, false
		}
		cur = v
	}
	return cur, true
}
