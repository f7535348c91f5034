package espn

import (
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/courtside/internal/domain/ticker"
)

var eastern = loadEastern()

func loadEastern() *time.Location {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		return time.FixedZone("ET", -5*60*60)
	}
	return loc
}

// ESPN omits seconds in event dates.
var eventDateLayouts = []string{"2006-01-02T15:04Z07:00", time.RFC3339}

type scoreboardEnvelope struct {
	Events []scoreboardEvent `json:"events"`
}

type scoreboardEvent struct {
	ID           string        `json:"id"`
	Date         string        `json:"date"`
	Competitions []competition `json:"competitions"`
}

type competition struct {
	Competitors []competitor `json:"competitors"`
	Status      eventStatus  `json:"status"`
}

type competitor struct {
	HomeAway string `json:"homeAway"`
	Score    string `json:"score"`
	Team     struct {
		Abbreviation string `json:"abbreviation"`
		Logo         string `json:"logo"`
	} `json:"team"`
}

type eventStatus struct {
	Period       int    `json:"period"`
	DisplayClock string `json:"displayClock"`
	Type         struct {
		Name        string `json:"name"`
		ShortDetail string `json:"shortDetail"`
	} `json:"type"`
}

// parseEvents maps scoreboard events to ticker games. Events without a
// competition are skipped.
func parseEvents(events []scoreboardEvent, league ticker.League) []ticker.Game {
	out := make([]ticker.Game, 0, len(events))
	for _, event := range events {
		if len(event.Competitions) == 0 {
			continue
		}
		comp := event.Competitions[0]
		game := ticker.Game{
			ID:       event.ID,
			League:   league,
			Away:     teamFor(comp.Competitors, "away"),
			Home:     teamFor(comp.Competitors, "home"),
			StartsAt: parseEventDate(event.Date),
		}
		game.State, game.StatusLabel = classify(comp.Status, game.StartsAt)
		out = append(out, game)
	}
	return out
}

func teamFor(competitors []competitor, side string) ticker.Team {
	for _, c := range competitors {
		if c.HomeAway != side {
			continue
		}
		abbr := strings.TrimSpace(c.Team.Abbreviation)
		if abbr == "" {
			abbr = "?"
		}
		return ticker.Team{Abbr: abbr, Logo: c.Team.Logo, Score: c.Score}
	}
	return ticker.Team{Abbr: "?"}
}

func classify(status eventStatus, startsAt time.Time) (ticker.State, string) {
	name := status.Type.Name
	switch {
	case name == "STATUS_IN_PROGRESS":
		label := status.Type.ShortDetail
		if label == "" {
			label = "Q" + strconv.Itoa(status.Period) + " " + status.DisplayClock
		}
		return ticker.StateLive, label
	case strings.Contains(name, "FINAL") || name == "STATUS_FULL_TIME":
		return ticker.StateFinal, "FINAL"
	}
	if startsAt.IsZero() {
		return ticker.StatePre, "TBD"
	}
	return ticker.StatePre, startsAt.In(eastern).Format("3:04 PM") + " ET"
}

func parseEventDate(v string) time.Time {
	for _, layout := range eventDateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t
		}
	}
	return time.Time{}
}
