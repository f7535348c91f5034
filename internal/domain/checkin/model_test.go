package checkin

import (
	"testing"
	"time"
)

func TestCheckIn_CountsAt(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 7, 20, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		in   CheckIn
		want bool
	}{
		{name: "fresh active", in: CheckIn{IsActive: true, CheckedInAt: now.Add(-time.Hour)}, want: true},
		{name: "exactly at cutoff", in: CheckIn{IsActive: true, CheckedInAt: now.Add(-ActiveWindow)}, want: true},
		{name: "forgotten check-in", in: CheckIn{IsActive: true, CheckedInAt: now.Add(-ActiveWindow - time.Minute)}, want: false},
		{name: "closed", in: CheckIn{IsActive: false, CheckedInAt: now.Add(-time.Minute)}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.CountsAt(now, ActiveWindow); got != tt.want {
				t.Fatalf("CountsAt()=%v want=%v", got, tt.want)
			}
		})
	}
}

func TestResolvePlayerName(t *testing.T) {
	t.Parallel()

	if got := ResolvePlayerName(" Jay ", "Sam"); got != "Jay" {
		t.Fatalf("expected input name first, got=%q", got)
	}
	if got := ResolvePlayerName("", "Sam"); got != "Sam" {
		t.Fatalf("expected session name fallback, got=%q", got)
	}
	if got := ResolvePlayerName("", "  "); got != AnonymousPlayer {
		t.Fatalf("expected %q, got=%q", AnonymousPlayer, got)
	}
}

func TestNormalizeDuration(t *testing.T) {
	t.Parallel()

	if got := NormalizeDuration("4+"); got != "4+" {
		t.Fatalf("expected 4+, got=%q", got)
	}
	if got := NormalizeDuration("12"); got != DefaultDuration {
		t.Fatalf("expected default duration, got=%q", got)
	}
}
