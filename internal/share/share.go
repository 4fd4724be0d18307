// Package share formats a session's public-facing summary for external
// sharing channels.
package share

import (
	"fmt"
	"strings"

	"github.com/gamepop/gamepop/internal/model"
)

// Build renders the newline-joined share message for a session: title,
// venue, time, player-count range, message, and the join URL. Lines whose
// source field is empty are omitted. Pure formatting; no error conditions.
func Build(sess *model.Session, url string) string {
	var lines []string

	if sess.Title != "" {
		lines = append(lines, sess.Title)
	}
	if sess.Venue != "" {
		lines = append(lines, sess.Venue)
	}
	if sess.Time != "" {
		lines = append(lines, sess.Time)
	}
	if sess.MinPlayers != nil || sess.MaxPlayers != nil {
		lines = append(lines, fmt.Sprintf("Players: %s-%s", formatCount(sess.MinPlayers), formatCount(sess.MaxPlayers)))
	}
	if sess.Message != "" {
		lines = append(lines, sess.Message)
	}
	lines = append(lines, "Join: "+url)

	return strings.Join(lines, "\n")
}

func formatCount(v *int64) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%d", *v)
}
