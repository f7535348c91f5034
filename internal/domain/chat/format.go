package chat

import (
	"strconv"
	"time"
	"unicode/utf16"
)

var palette = []string{
	"#ff6b1a", "#22c55e", "#3b82f6", "#a855f7",
	"#ef4444", "#eab308", "#06b6d4", "#ec4899",
	"#10b981", "#f97316", "#84cc16", "#e879f9",
}

// ColorFor assigns a stable colour to a player name. The hash runs over UTF-16
// code units; only the shift wraps to 32 bits, the running sum does not.
func ColorFor(name string) string {
	if name == "" {
		return "#888"
	}
	var hash int64
	for _, unit := range utf16.Encode([]rune(name)) {
		shifted := int64(int32(hash) << 5)
		hash = int64(unit) + (shifted - hash)
	}
	if hash < 0 {
		hash = -hash
	}
	return palette[hash%int64(len(palette))]
}

func RelativeTime(at, now time.Time) string {
	diff := now.Sub(at)
	if diff < time.Minute {
		return "now"
	}
	if diff < time.Hour {
		return strconv.Itoa(int(diff/time.Minute)) + "m"
	}
	return strconv.Itoa(int(diff/time.Hour)) + "h"
}
