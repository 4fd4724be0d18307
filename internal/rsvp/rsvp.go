// Package rsvp implements RSVP identity resolution and idempotent upserts.
//
// A submission is matched to a possibly-existing response by progressively
// weaker signals (email, then phone, then normalized name). Writes go
// insert-first: the unique index on (session_id, lower(email)) is the only
// serialization point, and a conflict falls back to updating the row that
// won the race.
package rsvp

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gamepop/gamepop/internal/model"
	"github.com/gamepop/gamepop/internal/store"
)

// Validation error codes returned for malformed submissions.
const (
	CodeMissingPlayerName = "missing_player_name"
	CodeInvalidStatus     = "invalid_status"
	CodeInvalidContact    = "invalid_contact"
)

// ValidationError marks a submission the user can correct.
type ValidationError struct {
	Code    string
	Message string
}

func (e *ValidationError) Error() string { return e.Code + ": " + e.Message }

// Submission is the raw, untrusted RSVP payload as it arrives over the wire.
type Submission struct {
	PlayerName       string
	Email            string
	PhoneWhatsapp    string
	PreferredContact string
	Status           string
}

// Command is a fully validated RSVP ready to persist. Optional fields are
// nil when absent rather than empty.
type Command struct {
	PlayerName       string
	Email            *string
	PhoneWhatsapp    *string
	PreferredContact *string
	Status           *string
}

// Normalize trims and validates a raw submission, mapping it to a typed
// command or a *ValidationError.
func Normalize(in Submission) (Command, error) {
	playerName := strings.TrimSpace(in.PlayerName)
	if playerName == "" {
		return Command{}, &ValidationError{Code: CodeMissingPlayerName, Message: "player name is required"}
	}

	cmd := Command{PlayerName: playerName}

	if email := strings.TrimSpace(in.Email); email != "" {
		cmd.Email = &email
	}
	if phone := strings.TrimSpace(in.PhoneWhatsapp); phone != "" {
		cmd.PhoneWhatsapp = &phone
	}

	if preferred := strings.TrimSpace(in.PreferredContact); preferred != "" {
		if preferred != model.ContactEmail && preferred != model.ContactPhone {
			return Command{}, &ValidationError{Code: CodeInvalidContact, Message: "preferred contact must be email or phone_whatsapp"}
		}
		cmd.PreferredContact = &preferred
	}

	if status := strings.TrimSpace(in.Status); status != "" {
		if status != model.StatusIn && status != model.StatusOut && status != model.StatusMaybe {
			return Command{}, &ValidationError{Code: CodeInvalidStatus, Message: "status must be in, out, or maybe"}
		}
		cmd.Status = &status
	}

	return cmd, nil
}

// Coordinator persists RSVPs idempotently per (session, identity) pair.
type Coordinator struct {
	responses *store.ResponseStore
	logger    *slog.Logger
}

func NewCoordinator(responses *store.ResponseStore, logger *slog.Logger) *Coordinator {
	return &Coordinator{responses: responses, logger: logger}
}

// FindExisting locates the response already recorded for the submitter's
// identity, trying email, then phone, then the normalized player name.
// A hit at a stronger signal short-circuits the weaker ones. Returns nil
// when no signal matches.
func (c *Coordinator) FindExisting(sessionID string, cmd Command) (*model.SessionResponse, error) {
	if cmd.Email != nil {
		matches, err := c.responses.FindByEmail(sessionID, *cmd.Email)
		if err != nil {
			return nil, err
		}
		return c.first(sessionID, "email", matches), nil
	}
	if cmd.PhoneWhatsapp != nil {
		matches, err := c.responses.FindByPhone(sessionID, *cmd.PhoneWhatsapp)
		if err != nil {
			return nil, err
		}
		return c.first(sessionID, "phone", matches), nil
	}

	nameKey := strings.ToLower(strings.TrimSpace(cmd.PlayerName))
	if nameKey == "" {
		return nil, nil
	}
	matches, err := c.responses.FindByNameSearch(sessionID, nameKey)
	if err != nil {
		return nil, err
	}
	return c.first(sessionID, "name", matches), nil
}

func (c *Coordinator) first(sessionID, signal string, matches []model.SessionResponse) *model.SessionResponse {
	if len(matches) == 0 {
		return nil
	}
	if len(matches) > 1 {
		// Should be impossible for email (unique index); for phone/name it
		// means duplicate identities slipped past the best-effort matcher.
		c.logger.Warn("multiple responses share one identity key",
			"session_id", sessionID, "signal", signal, "matches", len(matches))
	}
	return &matches[0]
}

// Upsert persists a validated RSVP. It attempts a direct insert, and on a
// uniqueness conflict re-resolves the identity and updates the existing row
// in place. The second return value reports whether a new row was created.
//
// A conflict that the matcher cannot resolve propagates the original
// conflict error: swallowing it would hide a lost write.
func (c *Coordinator) Upsert(sessionID string, cmd Command) (*model.SessionResponse, bool, error) {
	params := store.ResponseParams{
		PlayerName:       cmd.PlayerName,
		Email:            cmd.Email,
		PhoneWhatsapp:    cmd.PhoneWhatsapp,
		PreferredContact: cmd.PreferredContact,
		Status:           cmd.Status,
	}

	inserted, err := c.responses.Insert(sessionID, params)
	if err == nil {
		return inserted, true, nil
	}
	if !errors.Is(err, store.ErrDuplicateResponse) {
		return nil, false, fmt.Errorf("insert rsvp: %w", err)
	}

	existing, findErr := c.FindExisting(sessionID, cmd)
	if findErr != nil {
		return nil, false, fmt.Errorf("resolve conflicting rsvp: %w", findErr)
	}
	if existing == nil {
		return nil, false, err
	}

	updated, updateErr := c.responses.Update(existing.ID, params)
	if updateErr != nil {
		return nil, false, fmt.Errorf("update rsvp: %w", updateErr)
	}
	return updated, false, nil
}
