package court

import (
	"cmp"
	"fmt"
	"math"
	"slices"
)

type Breakdown struct {
	Name    string
	Players int
	Share   int
}

type Stats struct {
	TotalPlayers      int
	TotalCapacity     int
	ActiveCourts      int
	NeedPlayersCourts int
	AvgRating         float64
	OverallFill       int
	Locations         int
	TotalCourts       int
	TotalHoops        int
	ByLevel           []Breakdown
	BySurface         []Breakdown
	Ranking           []Live
}

func ComputeStats(items []Live) Stats {
	var stats Stats
	var ratingSum float64
	playersByLevel := make(map[Level]int, len(Levels))
	playersBySurface := make(map[Surface]int, len(Surfaces))

	for _, item := range items {
		stats.TotalPlayers += item.CheckedIn
		stats.TotalCapacity += item.MaxPlayers
		stats.TotalCourts += item.Courts
		stats.TotalHoops += item.Hoops
		if item.CheckedIn > 0 {
			stats.ActiveCourts++
		}
		if item.NeedsPlayers() {
			stats.NeedPlayersCourts++
		}
		ratingSum += item.Rating
		playersByLevel[item.Level] += item.CheckedIn
		playersBySurface[item.Surface] += item.CheckedIn
	}

	stats.Locations = len(items)
	if len(items) > 0 {
		stats.AvgRating = math.Round(ratingSum/float64(len(items))*10) / 10
	}
	stats.OverallFill = FillPercent(stats.TotalPlayers, stats.TotalCapacity)

	for _, level := range Levels {
		stats.ByLevel = append(stats.ByLevel, breakdown(string(level), playersByLevel[level], stats.TotalPlayers))
	}
	for _, surface := range Surfaces {
		stats.BySurface = append(stats.BySurface, breakdown(string(surface), playersBySurface[surface], stats.TotalPlayers))
	}

	stats.Ranking = slices.Clone(items)
	slices.SortStableFunc(stats.Ranking, func(a, b Live) int {
		return cmp.Compare(b.CheckedIn, a.CheckedIn)
	})
	return stats
}

func breakdown(name string, players, total int) Breakdown {
	return Breakdown{Name: name, Players: players, Share: FillPercent(players, total)}
}

// Summary feeds the status bar.
type Summary struct {
	CourtsActive int
	PlayersOut   int
}

func Summarize(items []Live) Summary {
	var out Summary
	for _, item := range items {
		if item.CheckedIn > 0 {
			out.CourtsActive++
		}
		out.PlayersOut += item.CheckedIn
	}
	return out
}

func (s Summary) CourtsLabel() string {
	return fmt.Sprintf("%d courts active", s.CourtsActive)
}

func (s Summary) PlayersLabel() string {
	return fmt.Sprintf("%d players out", s.PlayersOut)
}
