package entry

import (
	"cmp"
	"slices"
)

// SortForList returns a copy of entries ordered newest day first, and newest
// first within a day. This is the order of history views and of Get's
// tie-break among duplicate active entries.
func SortForList(entries []Entry) []Entry {
	out := slices.Clone(entries)
	slices.SortStableFunc(out, compareForList)
	return out
}

// SortChronologically returns a copy of entries ordered by CreatedAt ascending.
func SortChronologically(entries []Entry) []Entry {
	out := slices.Clone(entries)
	slices.SortStableFunc(out, func(a, b Entry) int {
		return cmp.Compare(a.CreatedAt, b.CreatedAt)
	})
	return out
}

func compareForList(a, b Entry) int {
	if c := cmp.Compare(b.YMD, a.YMD); c != 0 {
		return c
	}
	return cmp.Compare(b.CreatedAt, a.CreatedAt)
}
