package ticker

import (
	"strconv"
	"testing"
)

func games(league League, states ...State) []Game {
	out := make([]Game, 0, len(states))
	for i, state := range states {
		out = append(out, Game{ID: string(league) + "-" + strconv.Itoa(i), League: league, State: state})
	}
	return out
}

func TestArrange_Order(t *testing.T) {
	t.Parallel()

	nba := games(LeagueNBA, StatePre, StateFinal, StateLive)
	ncaab := games(LeagueNCAAB, StateLive, StatePre, StateFinal)

	got := Arrange(nba, ncaab)
	want := []string{"NBA-2", "NCAAB-0", "NBA-1", "NCAAB-2", "NBA-0", "NCAAB-1"}
	if len(got) != len(want) {
		t.Fatalf("expected %d games, got=%d", len(want), len(got))
	}
	for i := range want {
		if got[i].ID != want[i] {
			t.Fatalf("position %d: expected %s, got=%s", i, want[i], got[i].ID)
		}
	}
}

func TestArrange_CapsCollegeGames(t *testing.T) {
	t.Parallel()

	ncaab := games(LeagueNCAAB,
		StateFinal, StateFinal, StateFinal, StateFinal, StateFinal, StateFinal,
		StatePre, StatePre, StatePre, StatePre,
		StatePre, StateLive,
	)

	got := Arrange(nil, ncaab)
	finals, upcoming, live := 0, 0, 0
	for _, game := range got {
		switch game.State {
		case StateFinal:
			finals++
		case StatePre:
			upcoming++
		case StateLive:
			live++
		}
	}
	if finals != 5 {
		t.Fatalf("expected 5 college finals, got=%d", finals)
	}
	if upcoming != 4 {
		t.Fatalf("expected 4 upcoming college games, got=%d", upcoming)
	}
	if live != 0 {
		t.Fatalf("expected live game beyond the event cap to be dropped, got=%d", live)
	}
}
