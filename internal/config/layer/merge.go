package layer

import "strings"

// Settings are nested tables addressed by dotted paths such as
// "session.command". Tables are map[string]any; everything else is a leaf.

// DeepMerge copies src into dst and returns dst. Tables present on both
// sides are merged key by key; any other value in src replaces dst's.
func DeepMerge(dst, src map[string]any) map[string]any {
	if dst == nil {
		dst = make(map[string]any, len(src))
	}
	for key, val := range src {
		table, isTable := val.(map[string]any)
		existing, hasTable := dst[key].(map[string]any)
		if isTable && hasTable {
			dst[key] = DeepMerge(existing, table)
			continue
		}
		dst[key] = cloneValue(val)
	}
	return dst
}

// GetByPath returns the value at path, or false if any step is missing or
// is not a table.
func GetByPath(data map[string]any, path string) (any, bool) {
	parent, leaf := walk(data, path, false)
	if parent == nil {
		return nil, false
	}
	val, ok := parent[leaf]
	return val, ok
}

// SetByPath stores value at path, creating or replacing tables along the way.
func SetByPath(data map[string]any, path string, value any) {
	if parent, leaf := walk(data, path, true); parent != nil {
		parent[leaf] = value
	}
}

// walk returns the table holding the last element of path and that
// element's key. With create set, missing or non-table steps become empty
// tables; otherwise they end the walk with a nil table.
func walk(data map[string]any, path string, create bool) (map[string]any, string) {
	if data == nil {
		return nil, ""
	}
	steps := strings.Split(path, ".")
	table := data
	for _, step := range steps[:len(steps)-1] {
		next, ok := table[step].(map[string]any)
		if !ok {
			if !create {
				return nil, ""
			}
			next = make(map[string]any)
			table[step] = next
		}
		table = next
	}
	return table, steps[len(steps)-1]
}

// FlattenMap returns every leaf of data keyed by its dotted path.
func FlattenMap(data map[string]any) map[string]any {
	flat := make(map[string]any)
	var visit func(prefix string, table map[string]any)
	visit = func(prefix string, table map[string]any) {
		for key, val := range table {
			path := key
			if prefix != "" {
				path = prefix + "." + key
			}
			if nested, ok := val.(map[string]any); ok {
				visit(path, nested)
				continue
			}
			flat[path] = val
		}
	}
	visit("", data)
	return flat
}
