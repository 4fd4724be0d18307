package share

import (
	"strings"
	"testing"

	"github.com/gamepop/gamepop/internal/model"
)

func int64p(v int64) *int64 { return &v }

func TestBuildFullSession(t *testing.T) {
	sess := &model.Session{
		Title:      "Tuesday Futsal",
		Venue:      "Kallang Court 3",
		Time:       "2026-09-01 19:00-21:00",
		MinPlayers: int64p(4),
		MaxPlayers: int64p(8),
		Message:    "Bring both shirts",
	}

	got := Build(sess, "https://example.com/s/abc")
	want := strings.Join([]string{
		"Tuesday Futsal",
		"Kallang Court 3",
		"2026-09-01 19:00-21:00",
		"Players: 4-8",
		"Bring both shirts",
		"Join: https://example.com/s/abc",
	}, "\n")
	if got != want {
		t.Errorf("Build() = %q, want %q", got, want)
	}
}

func TestBuildOmitsEmptyFields(t *testing.T) {
	sess := &model.Session{
		Title: "Tuesday Futsal",
		Time:  "2026-09-01 19:00",
	}

	got := Build(sess, "https://example.com/s/abc")
	if strings.Contains(got, "Players:") {
		t.Errorf("output should omit player range: %q", got)
	}
	lines := strings.Split(got, "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3 (title, time, join): %q", len(lines), got)
	}
	if lines[2] != "Join: https://example.com/s/abc" {
		t.Errorf("last line = %q, want join URL", lines[2])
	}
}

func TestBuildPartialPlayerRange(t *testing.T) {
	sess := &model.Session{Title: "Game", MaxPlayers: int64p(10)}

	got := Build(sess, "u")
	if !strings.Contains(got, "Players: -10") {
		t.Errorf("output = %q, want open-ended range line", got)
	}
}
