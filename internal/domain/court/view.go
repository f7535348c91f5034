package court

import (
	"cmp"
	"slices"
	"strings"
)

type Filter string

const (
	FilterAll         Filter = "all"
	FilterNeedPlayers Filter = "needPlayers"
	FilterActive      Filter = "active"
	FilterLights      Filter = "lights"
)

type SortKey string

const (
	SortActive SortKey = "active"
	SortRating SortKey = "rating"
	SortName   SortKey = "name"
)

func ParseFilter(v string) (Filter, bool) {
	switch Filter(strings.TrimSpace(v)) {
	case "", FilterAll:
		return FilterAll, true
	case FilterNeedPlayers:
		return FilterNeedPlayers, true
	case FilterActive:
		return FilterActive, true
	case FilterLights:
		return FilterLights, true
	}
	return "", false
}

func ParseSort(v string) (SortKey, bool) {
	switch SortKey(strings.TrimSpace(v)) {
	case "", SortActive:
		return SortActive, true
	case SortRating:
		return SortRating, true
	case SortName:
		return SortName, true
	}
	return "", false
}

// Query narrows and orders a list of live courts.
type Query struct {
	Filter Filter
	Sort   SortKey
	Search string
}

func (q Query) Apply(items []Live) []Live {
	term := strings.ToLower(strings.TrimSpace(q.Search))
	out := make([]Live, 0, len(items))
	for _, item := range items {
		if !q.Filter.keep(item) {
			continue
		}
		if term != "" &&
			!strings.Contains(strings.ToLower(item.Name), term) &&
			!strings.Contains(strings.ToLower(item.Address), term) {
			continue
		}
		out = append(out, item)
	}

	slices.SortStableFunc(out, q.Sort.compare)
	return out
}

func (f Filter) keep(item Live) bool {
	switch f {
	case FilterNeedPlayers:
		return item.NeedsPlayers()
	case FilterActive:
		return item.CheckedIn > 0
	case FilterLights:
		return item.Lights
	default:
		return true
	}
}

func (s SortKey) compare(a, b Live) int {
	switch s {
	case SortRating:
		return cmp.Compare(b.Rating, a.Rating)
	case SortName:
		return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	default:
		return cmp.Compare(b.CheckedIn, a.CheckedIn)
	}
}
