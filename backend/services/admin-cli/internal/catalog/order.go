// Package catalog derives display rows from backend lists and applies the
// console's search, filter and sort rules to them.
package catalog

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Direction orders a sorted list.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// All matches every value in a filter.
const All = "all"

// ParseDirection accepts asc or desc, defaulting to asc.
func ParseDirection(raw string) (Direction, error) {
	switch Direction(strings.ToLower(strings.TrimSpace(raw))) {
	case "", Asc:
		return Asc, nil
	case Desc:
		return Desc, nil
	default:
		return "", fmt.Errorf("catalog: unknown sort direction %q", raw)
	}
}

// textOrder compares strings the way a browser's localeCompare does with the
// root locale. A Collator is not safe for concurrent use, so each sort builds one.
type textOrder struct {
	c *collate.Collator
}

func newTextOrder() textOrder {
	return textOrder{c: collate.New(language.Und)}
}

func (o textOrder) compare(a, b string) int {
	return o.c.CompareString(a, b)
}

// sortBy stable-sorts items with cmp, flipping it for Desc.
func sortBy[T any](items []T, dir Direction, cmp func(a, b T) int) {
	sort.SliceStable(items, func(i, j int) bool {
		c := cmp(items[i], items[j])
		if dir == Desc {
			return c > 0
		}
		return c < 0
	})
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func compareInt(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), needle)
}

func normalizeSearch(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func matchesAll(filter string) bool {
	filter = strings.TrimSpace(filter)
	return filter == "" || strings.EqualFold(filter, All)
}
