package chat

import (
	"testing"
	"time"
)

func TestScope_Matches(t *testing.T) {
	t.Parallel()

	court := 4
	other := 9
	tests := []struct {
		name  string
		scope Scope
		msg   Message
		want  bool
	}{
		{name: "global message in global room", scope: GlobalScope(), msg: Message{Type: ModeGlobal}, want: true},
		{name: "court message in global room", scope: GlobalScope(), msg: Message{Type: ModeCourt, CourtID: &court}, want: false},
		{name: "same court", scope: CourtScope(court), msg: Message{Type: ModeCourt, CourtID: &court}, want: true},
		{name: "other court", scope: CourtScope(court), msg: Message{Type: ModeCourt, CourtID: &other}, want: false},
		{name: "court message without court", scope: CourtScope(court), msg: Message{Type: ModeCourt}, want: false},
		{name: "global message in court room", scope: CourtScope(court), msg: Message{Type: ModeGlobal}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.scope.Matches(tt.msg); got != tt.want {
				t.Fatalf("Matches()=%v want=%v", got, tt.want)
			}
		})
	}
}

func TestColorFor_Stable(t *testing.T) {
	t.Parallel()

	if ColorFor("") != "#888" {
		t.Fatalf("expected neutral colour for empty name")
	}
	first := ColorFor("Marcus")
	if first != ColorFor("Marcus") {
		t.Fatalf("expected stable colour for the same name")
	}
}

func TestColorFor_Palette(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		want string
	}{
		{name: "Jo", want: "#eab308"},
		{name: "Marcus", want: "#f97316"},
		{name: "Anonymous", want: "#e879f9"},
		{name: "Zoë", want: "#84cc16"},
		{name: "🏀Dre", want: "#eab308"},
		{name: "Christopher Wallace-Johnson", want: "#06b6d4"},
	}
	for _, tt := range tests {
		if got := ColorFor(tt.name); got != tt.want {
			t.Errorf("ColorFor(%q)=%s want=%s", tt.name, got, tt.want)
		}
	}
}

func TestRelativeTime(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 7, 18, 0, 0, 0, time.UTC)
	if got := RelativeTime(now.Add(-30*time.Second), now); got != "now" {
		t.Fatalf("expected now, got=%q", got)
	}
	if got := RelativeTime(now.Add(-12*time.Minute), now); got != "12m" {
		t.Fatalf("expected 12m, got=%q", got)
	}
	if got := RelativeTime(now.Add(-3*time.Hour-5*time.Minute), now); got != "3h" {
		t.Fatalf("expected 3h, got=%q", got)
	}
}
