package court

import "math"

// Live is a court joined with its projected occupancy.
type Live struct {
	Court
	CheckedIn int
	// Broadcasting is true when an active broadcast targets this court.
	Broadcasting bool
}

type Status struct {
	Label string
	Color string
}

var (
	StatusEmpty  = Status{Label: "Empty", Color: "#555555"}
	StatusLight  = Status{Label: "Light", Color: "#22c55e"}
	StatusActive = Status{Label: "Active", Color: "#eab308"}
	StatusPacked = Status{Label: "Packed", Color: "#ef4444"}
)

func FillPercent(checkedIn, maxPlayers int) int {
	if maxPlayers <= 0 || checkedIn <= 0 {
		return 0
	}
	return int(math.Round(float64(checkedIn) / float64(maxPlayers) * 100))
}

func StatusForFill(fill int) Status {
	switch {
	case fill >= 75:
		return StatusPacked
	case fill >= 40:
		return StatusActive
	case fill > 0:
		return StatusLight
	default:
		return StatusEmpty
	}
}

func (l Live) FillPercent() int {
	return FillPercent(l.CheckedIn, l.MaxPlayers)
}

func (l Live) Status() Status {
	return StatusForFill(l.FillPercent())
}

func (l Live) SpotsRemaining() int {
	return max(0, l.MaxPlayers-l.CheckedIn)
}

func (l Live) NeedsPlayers() bool {
	return l.NeedPlayers || l.Broadcasting
}
