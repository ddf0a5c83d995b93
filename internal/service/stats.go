// Path: internal/service/stats.go
package service

import "sort"

type keyCount struct {
	key   string
	count int
}

// sortCounts orders by count descending, then key ascending.
func sortCounts(counts map[string]int) []keyCount {
	out := make([]keyCount, 0, len(counts))
	for k, c := range counts {
		out = append(out, keyCount{key: k, count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].count != out[j].count {
			return out[i].count > out[j].count
		}
		return out[i].key < out[j].key
	})
	return out
}
