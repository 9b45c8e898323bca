package generic

import (
	"golang.org/x/exp/constraints"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// SortedKeys returns the keys of the map in ascending order, so that callers
// iterating over a map get the same sequence on every run.
func SortedKeys[K constraints.Ordered, V any](m map[K]V) []K {
	keys := maps.Keys(m)
	slices.Sort(keys)

	return keys
}

// SortedValues returns the map values ordered by their keys.
func SortedValues[K constraints.Ordered, V any](m map[K]V) []V {
	keys := SortedKeys(m)
	values := make([]V, len(keys))

	for i, k := range keys {
		values[i] = m[k]
	}

	return values
}
