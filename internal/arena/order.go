package arena

import "sort"

// sortedKeys returns m's keys in ascending lexicographic order. Tick
// phases that iterate players or monsters use this instead of ranging the
// map directly, since spec §5 requires a stable ordering among players
// within a tick (simultaneous kills and PvP damage resolve the same way
// across two runs with identical inputs only if iteration order is fixed).
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
