package export

import (
	"cmp"
	"slices"

	"github.com/roach88/onebreath/internal/entry"
)

// Month is one exportable month and its active entries, earliest day first.
type Month struct {
	Key     string        `json:"month"`
	Entries []entry.Entry `json:"entries"`
}

// GroupByMonth groups active entries by YYYY-MM. Months are returned newest
// first; superseded entries are ignored.
func GroupByMonth(entries []entry.Entry) []Month {
	byKey := make(map[string][]entry.Entry)
	for _, e := range entries {
		if !e.Active() {
			continue
		}
		key := entry.MonthKey(e.YMD)
		byKey[key] = append(byKey[key], e.Clone())
	}

	months := make([]Month, 0, len(byKey))
	for key, es := range byKey {
		slices.SortStableFunc(es, func(a, b entry.Entry) int {
			return cmp.Compare(a.YMD, b.YMD)
		})
		months = append(months, Month{Key: key, Entries: es})
	}
	slices.SortFunc(months, func(a, b Month) int {
		return cmp.Compare(b.Key, a.Key)
	})
	return months
}

// Find returns the month with the given key.
func Find(months []Month, key string) (Month, bool) {
	for _, m := range months {
		if m.Key == key {
			return m, true
		}
	}
	return Month{}, false
}
