package court

import "testing"

func sampleLive() []Live {
	return []Live{
		{Court: Court{ID: 1, Name: "Pier Courts", Address: "Sinatra Dr", Rating: 4.1, Lights: true, MaxPlayers: 10}, CheckedIn: 2},
		{Court: Court{ID: 2, Name: "Church Square", Address: "Garden St", Rating: 4.6, MaxPlayers: 10}, CheckedIn: 7},
		{Court: Court{ID: 3, Name: "Avenue Park", Address: "Washington St", Rating: 3.9, NeedPlayers: true, MaxPlayers: 10}},
		{Court: Court{ID: 4, Name: "Bayside", Address: "Pier Rd", Rating: 4.6, Lights: true, MaxPlayers: 10}, Broadcasting: true},
	}
}

func ids(items []Live) []int {
	out := make([]int, 0, len(items))
	for _, item := range items {
		out = append(out, item.ID)
	}
	return out
}

func equalIDs(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestQuery_Apply(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		query Query
		want  []int
	}{
		{name: "all sorted by activity", query: Query{Filter: FilterAll, Sort: SortActive}, want: []int{2, 1, 3, 4}},
		{name: "active only", query: Query{Filter: FilterActive, Sort: SortActive}, want: []int{2, 1}},
		{name: "lights", query: Query{Filter: FilterLights, Sort: SortName}, want: []int{4, 1}},
		{name: "need players includes broadcasts", query: Query{Filter: FilterNeedPlayers, Sort: SortName}, want: []int{3, 4}},
		{name: "rating desc keeps input order on ties", query: Query{Filter: FilterAll, Sort: SortRating}, want: []int{2, 4, 1, 3}},
		{name: "search matches address", query: Query{Filter: FilterAll, Sort: SortName, Search: "PIER"}, want: []int{4, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(tt.query.Apply(sampleLive()))
			if !equalIDs(got, tt.want) {
				t.Fatalf("unexpected order: got=%v want=%v", got, tt.want)
			}
		})
	}
}

func TestParseFilterAndSort(t *testing.T) {
	t.Parallel()

	if f, ok := ParseFilter(""); !ok || f != FilterAll {
		t.Fatalf("expected empty filter to default to all")
	}
	if _, ok := ParseFilter("nearby"); ok {
		t.Fatalf("expected unknown filter to be rejected")
	}
	if s, ok := ParseSort("rating"); !ok || s != SortRating {
		t.Fatalf("expected rating sort")
	}
	if _, ok := ParseSort("distance"); ok {
		t.Fatalf("expected unknown sort to be rejected")
	}
}
