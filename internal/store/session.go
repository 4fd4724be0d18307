package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/gamepop/gamepop/internal/model"
)

type SessionStore struct {
	db *sql.DB
}

func NewSessionStore(db *sql.DB) *SessionStore {
	return &SessionStore{db: db}
}

// SessionParams carries the mutable fields of a session.
type SessionParams struct {
	Title          string
	Venue          string
	Time           string
	MinPlayers     *int64
	MaxPlayers     *int64
	Message        string
	RequireContact bool
	PriceCents     *int64
}

func (s *SessionStore) Create(p SessionParams) (*model.Session, error) {
	id := uuid.NewString()

	_, err := s.db.Exec(
		`INSERT INTO sessions (id, title, venue, time, min_players, max_players, message, require_contact, price_cents)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, p.Title, p.Venue, p.Time, nullInt(p.MinPlayers), nullInt(p.MaxPlayers),
		p.Message, boolInt(p.RequireContact), nullInt(p.PriceCents),
	)
	if err != nil {
		return nil, fmt.Errorf("insert session: %w", err)
	}

	return s.GetByID(id)
}

func (s *SessionStore) GetByID(id string) (*model.Session, error) {
	row := s.db.QueryRow(
		`SELECT id, title, venue, time, min_players, max_players, message, require_contact, price_cents, created_at, updated_at
		 FROM sessions WHERE id = ?`,
		id,
	)
	sess, err := scanSession(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query session: %w", err)
	}
	return sess, nil
}

// Count returns the total number of sessions, for pagination.
func (s *SessionStore) Count() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM sessions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count sessions: %w", err)
	}
	return n, nil
}

// ListPage returns one page of sessions, newest first.
func (s *SessionStore) ListPage(offset, limit int) ([]model.Session, error) {
	rows, err := s.db.Query(
		`SELECT id, title, venue, time, min_players, max_players, message, require_contact, price_cents, created_at, updated_at
		 FROM sessions ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`,
		limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []model.Session
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, *sess)
	}
	return sessions, rows.Err()
}

func (s *SessionStore) Update(id string, p SessionParams) (*model.Session, error) {
	_, err := s.db.Exec(
		`UPDATE sessions
		 SET title = ?, venue = ?, time = ?, min_players = ?, max_players = ?, message = ?, require_contact = ?, price_cents = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		p.Title, p.Venue, p.Time, nullInt(p.MinPlayers), nullInt(p.MaxPlayers),
		p.Message, boolInt(p.RequireContact), nullInt(p.PriceCents), id,
	)
	if err != nil {
		return nil, fmt.Errorf("update session: %w", err)
	}

	return s.GetByID(id)
}

func (s *SessionStore) Delete(id string) error {
	_, err := s.db.Exec(`DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (*model.Session, error) {
	var sess model.Session
	var minPlayers, maxPlayers, priceCents sql.NullInt64
	var requireContact int

	err := row.Scan(&sess.ID, &sess.Title, &sess.Venue, &sess.Time,
		&minPlayers, &maxPlayers, &sess.Message, &requireContact, &priceCents,
		&sess.CreatedAt, &sess.UpdatedAt)
	if err != nil {
		return nil, err
	}

	sess.RequireContact = requireContact != 0
	if minPlayers.Valid {
		sess.MinPlayers = &minPlayers.Int64
	}
	if maxPlayers.Valid {
		sess.MaxPlayers = &maxPlayers.Int64
	}
	if priceCents.Valid {
		sess.PriceCents = &priceCents.Int64
	}

	return &sess, nil
}

func nullInt(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
