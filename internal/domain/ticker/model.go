package ticker

import (
	"context"
	"time"
)

type League string

const (
	LeagueNBA   League = "NBA"
	LeagueNCAAB League = "NCAAB"
)

type State string

const (
	StateLive  State = "live"
	StateFinal State = "final"
	StatePre   State = "pre"
)

const (
	collegeEventLimit    = 10
	collegeFinalLimit    = 5
	collegeUpcomingLimit = 4
)

type Team struct {
	Abbr  string
	Logo  string
	Score string
}

type Game struct {
	ID          string
	League      League
	Away        Team
	Home        Team
	State       State
	StatusLabel string
	StartsAt    time.Time
}

// Provider fetches the current scoreboard of a league.
type Provider interface {
	Scoreboard(ctx context.Context, league League) ([]Game, error)
}

// Arrange orders a ticker: live games first, then finals, then upcoming games,
// pro before college within each group. College games are capped.
func Arrange(nba, ncaab []Game) []Game {
	if len(ncaab) > collegeEventLimit {
		ncaab = ncaab[:collegeEventLimit]
	}

	out := make([]Game, 0, len(nba)+len(ncaab))
	out = append(out, byState(nba, StateLive, 0)...)
	out = append(out, byState(ncaab, StateLive, 0)...)
	out = append(out, byState(nba, StateFinal, 0)...)
	out = append(out, byState(ncaab, StateFinal, collegeFinalLimit)...)
	out = append(out, byState(nba, StatePre, 0)...)
	out = append(out, byState(ncaab, StatePre, collegeUpcomingLimit)...)
	return out
}

func byState(games []Game, state State, limit int) []Game {
	out := make([]Game, 0, len(games))
	for _, game := range games {
		if game.State != state {
			continue
		}
		out = append(out, game)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}
