package domain

import "strings"

// Matcher resolves an order line label such as "Dumbbell 20kg" to the
// RowIndex of a catalog row.
type Matcher interface {
	Match(label string) (rowIndex int, ok bool)
}

// NameWeightMatcher matches labels exactly against normalized
// "<name> <weight>kg", "<name> <raw weight>" and, for rows without a
// numeric weight, "<name>". When two rows share a key the later row wins.
type NameWeightMatcher struct {
	lookup map[string]int
}

func NewNameWeightMatcher(rows []CatalogRow) *NameWeightMatcher {
	lookup := make(map[string]int, len(rows)*2)
	for _, r := range rows {
		name := strings.TrimSpace(r.Name())
		weight := r.WeightLabel()

		key := normalize(name + " " + weight)
		lookup[key] = r.RowIndex

		if raw := normalize(name + " " + r.RawWeight); raw != key {
			lookup[raw] = r.RowIndex
		}
		if weight == "" {
			lookup[normalize(name)] = r.RowIndex
		}
	}
	return &NameWeightMatcher{lookup: lookup}
}

func (m *NameWeightMatcher) Match(label string) (int, bool) {
	idx, ok := m.lookup[normalize(label)]
	return idx, ok
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
