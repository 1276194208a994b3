package i18n

import (
	"strconv"
	"strings"

	"github.com/FACorreiaa/nora-content/internal/app/models"
)

// SetNested stores value at the dotted path inside tree and reports whether
// it was applied.
//
// Object segments are created when missing; scalars in the way become
// objects. Array segments must be a canonical index: in range indexes are
// set in place and len(array) appends. Any other index leaves the array
// untouched and the value is not applied.
func SetNested(tree map[string]any, path string, value any) bool {
	parts := strings.Split(path, ".")
	last := len(parts) - 1

	var node any = tree
	replace := func(any) {}
	for i, key := range parts {
		switch n := node.(type) {
		case map[string]any:
			if i == last {
				n[key] = value
				return true
			}
			child := n[key]
			if !isContainer(child) {
				child = map[string]any{}
				n[key] = child
			}
			node = child
			replace = func(v any) { n[key] = v }

		case []any:
			idx, ok := arrayIndex(key, len(n))
			if !ok {
				return false
			}
			if idx == len(n) {
				n = append(n, nil)
				replace(n)
			}
			if i == last {
				n[idx] = value
				return true
			}
			child := n[idx]
			if !isContainer(child) {
				child = map[string]any{}
				n[idx] = child
			}
			node = child
			replace = func(v any) { n[idx] = v }
		}
	}
	return false
}

// arrayIndex parses key as an index into an array of length n. Leading
// zeros and signs are rejected so "01" and "+1" never alias "1".
func arrayIndex(key string, n int) (int, bool) {
	idx, err := strconv.Atoi(key)
	if err != nil || idx < 0 || idx > n || strconv.Itoa(idx) != key {
		return 0, false
	}
	return idx, true
}

func isContainer(v any) bool {
	switch v.(type) {
	case map[string]any, []any:
		return true
	}
	return false
}

// ApplyOverrides applies overrides to tree in order; later entries win. It
// returns the key paths that could not be applied.
func ApplyOverrides(tree map[string]any, overrides []models.Override) (map[string]any, []string) {
	var skipped []string
	for _, o := range overrides {
		if !SetNested(tree, o.KeyPath, o.Value) {
			skipped = append(skipped, o.KeyPath)
		}
	}
	return tree, skipped
}
