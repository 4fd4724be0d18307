package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/gamepop/gamepop/internal/model"
)

// ErrDuplicateResponse is returned by Insert when the unique index on
// (session_id, lower(email)) rejects the row. The caller is expected to
// fall back to locating and updating the existing row.
var ErrDuplicateResponse = errors.New("duplicate response identity")

type ResponseStore struct {
	db *sql.DB
}

func NewResponseStore(db *sql.DB) *ResponseStore {
	return &ResponseStore{db: db}
}

// ResponseParams carries the mutable fields of a response. PlayerName is
// stored as given; its lowercased form is written to player_name_search.
type ResponseParams struct {
	PlayerName       string
	Email            *string
	PhoneWhatsapp    *string
	PreferredContact *string
	Status           *string
}

func (s *ResponseStore) Insert(sessionID string, p ResponseParams) (*model.SessionResponse, error) {
	result, err := s.db.Exec(
		`INSERT INTO session_responses (session_id, player_name, player_name_search, email, phone_whatsapp, preferred_contact, status)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		sessionID, p.PlayerName, strings.ToLower(p.PlayerName),
		nullString(p.Email), nullString(p.PhoneWhatsapp),
		nullString(p.PreferredContact), nullString(p.Status),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: %v", ErrDuplicateResponse, err)
		}
		return nil, fmt.Errorf("insert response: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	return s.GetByID(id)
}

// Update overwrites the contact fields and status of an existing response
// and refreshes updated_at.
func (s *ResponseStore) Update(id int64, p ResponseParams) (*model.SessionResponse, error) {
	_, err := s.db.Exec(
		`UPDATE session_responses
		 SET player_name = ?, player_name_search = ?, email = ?, phone_whatsapp = ?, preferred_contact = ?, status = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		p.PlayerName, strings.ToLower(p.PlayerName),
		nullString(p.Email), nullString(p.PhoneWhatsapp),
		nullString(p.PreferredContact), nullString(p.Status), id,
	)
	if err != nil {
		return nil, fmt.Errorf("update response: %w", err)
	}

	return s.GetByID(id)
}

func (s *ResponseStore) GetByID(id int64) (*model.SessionResponse, error) {
	row := s.db.QueryRow(selectResponse+` WHERE id = ?`, id)
	resp, err := scanResponse(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query response: %w", err)
	}
	return resp, nil
}

// FindByEmail returns all responses for the session whose email matches
// case-insensitively, oldest first. The unique index should make more than
// one match impossible; callers log when it is not.
func (s *ResponseStore) FindByEmail(sessionID, email string) ([]model.SessionResponse, error) {
	return s.findWhere(`session_id = ? AND email IS NOT NULL AND lower(email) = lower(?)`, sessionID, email)
}

// FindByPhone returns all responses for the session whose phone matches
// case-insensitively, oldest first.
func (s *ResponseStore) FindByPhone(sessionID, phone string) ([]model.SessionResponse, error) {
	return s.findWhere(`session_id = ? AND phone_whatsapp IS NOT NULL AND lower(phone_whatsapp) = lower(?)`, sessionID, phone)
}

// FindByNameSearch returns all responses for the session whose
// player_name_search equals the given lowercased name, oldest first.
func (s *ResponseStore) FindByNameSearch(sessionID, nameSearch string) ([]model.SessionResponse, error) {
	return s.findWhere(`session_id = ? AND player_name_search = ?`, sessionID, nameSearch)
}

// ListBySession returns every response for a session, oldest first.
func (s *ResponseStore) ListBySession(sessionID string) ([]model.SessionResponse, error) {
	return s.findWhere(`session_id = ?`, sessionID)
}

// CountByStatus returns the number of responses for the session with the
// given status.
func (s *ResponseStore) CountByStatus(sessionID, status string) (int, error) {
	var n int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM session_responses WHERE session_id = ? AND status = ?`,
		sessionID, status,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count responses: %w", err)
	}
	return n, nil
}

const selectResponse = `SELECT id, session_id, player_name, player_name_search, email, phone_whatsapp, preferred_contact, status, created_at, updated_at
	 FROM session_responses`

func (s *ResponseStore) findWhere(where string, args ...any) ([]model.SessionResponse, error) {
	rows, err := s.db.Query(selectResponse+` WHERE `+where+` ORDER BY id ASC`, args...)
	if err != nil {
		return nil, fmt.Errorf("query responses: %w", err)
	}
	defer rows.Close()

	var responses []model.SessionResponse
	for rows.Next() {
		resp, err := scanResponse(rows)
		if err != nil {
			return nil, fmt.Errorf("scan response: %w", err)
		}
		responses = append(responses, *resp)
	}
	return responses, rows.Err()
}

func scanResponse(row rowScanner) (*model.SessionResponse, error) {
	var resp model.SessionResponse
	var email, phone, preferred, status sql.NullString

	err := row.Scan(&resp.ID, &resp.SessionID, &resp.PlayerName, &resp.PlayerNameSearch,
		&email, &phone, &preferred, &status, &resp.CreatedAt, &resp.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if email.Valid {
		resp.Email = &email.String
	}
	if phone.Valid {
		resp.PhoneWhatsapp = &phone.String
	}
	if preferred.Valid {
		resp.PreferredContact = &preferred.String
	}
	if status.Valid {
		resp.Status = &status.String
	}

	return &resp, nil
}

func nullString(v *string) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *v, Valid: true}
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
