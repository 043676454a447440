package prompt

import "sort"

type entry struct {
	key   string
	count int
}

// sortByCount orders by count desc, then key asc, so prompts are stable.
func sortByCount(freq map[string]int) []entry {
	out := make([]entry, 0, len(freq))
	for k, v := range freq {
		out = append(out, entry{key: k, count: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].count != out[j].count {
			return out[i].count > out[j].count
		}
		return out[i].key < out[j].key
	})
	return out
}
