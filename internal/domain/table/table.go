// Package table implements the shared admin-table view-model: free-text
// search across projected columns plus click-to-sort with direction toggling.
package table

import (
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Projection flattens an entity into the sortable/searchable column values
// shown in a table row, keyed by column name.
type Projection[T any] func(T) map[string]string

type Sort struct {
	Key        string
	Descending bool
}

// Toggle returns the sort that results from clicking a column header:
// a new column starts ascending, clicking the active column flips direction.
func (s Sort) Toggle(key string) Sort {
	if s.Key == key {
		return Sort{Key: key, Descending: !s.Descending}
	}
	return Sort{Key: key}
}

func (s Sort) Dir() string {
	if s.Descending {
		return "desc"
	}
	return "asc"
}

func ParseSort(key, dir string) Sort {
	return Sort{Key: strings.TrimSpace(key), Descending: dir == "desc"}
}

var collator = collate.New(language.English, collate.Loose)

// Apply filters items to those whose projected values contain the search term
// (case-insensitive substring over the concatenated values), then sorts by the
// active key. Numeric values compare numerically, everything else through the
// locale collator. The sort is stable so ties keep fetch order, and an unset
// key returns the filtered list in fetch order.
func Apply[T any](items []T, project Projection[T], search string, s Sort) []T {
	needle := strings.ToLower(strings.TrimSpace(search))
	out := make([]T, 0, len(items))
	for _, item := range items {
		if needle == "" || strings.Contains(haystack(project(item)), needle) {
			out = append(out, item)
		}
	}

	if s.Key == "" {
		return out
	}
	sort.SliceStable(out, func(i, j int) bool {
		a := project(out[i])[s.Key]
		b := project(out[j])[s.Key]
		if s.Descending {
			a, b = b, a
		}
		return less(a, b)
	})
	return out
}

func haystack(values map[string]string) string {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, values[k])
	}
	return strings.ToLower(strings.Join(parts, " "))
}

func less(a, b string) bool {
	na, errA := strconv.ParseFloat(strings.TrimSpace(a), 64)
	nb, errB := strconv.ParseFloat(strings.TrimSpace(b), 64)
	if errA == nil && errB == nil {
		return na < nb
	}
	return collator.CompareString(a, b) < 0
}
