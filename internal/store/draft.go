package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/gamepop/gamepop/internal/model"
)

type DraftStore struct {
	db *sql.DB
}

func NewDraftStore(db *sql.DB) *DraftStore {
	return &DraftStore{db: db}
}

// Save merges the given fields into the draft stored under key, creating
// the draft if it does not exist. Later saves win field-by-field so each
// wizard step only submits what it owns.
func (s *DraftStore) Save(key string, fields map[string]string) (*model.SessionDraft, error) {
	existing, err := s.Get(key)
	if err != nil {
		return nil, err
	}

	merged := map[string]string{}
	if existing != nil {
		if err := json.Unmarshal([]byte(existing.Data), &merged); err != nil {
			return nil, fmt.Errorf("decode draft data: %w", err)
		}
	}
	for k, v := range fields {
		merged[k] = v
	}

	data, err := json.Marshal(merged)
	if err != nil {
		return nil, fmt.Errorf("encode draft data: %w", err)
	}

	_, err = s.db.Exec(
		`INSERT INTO session_drafts (key, data) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET data = excluded.data, updated_at = CURRENT_TIMESTAMP`,
		key, string(data),
	)
	if err != nil {
		return nil, fmt.Errorf("save draft: %w", err)
	}

	return s.Get(key)
}

func (s *DraftStore) Get(key string) (*model.SessionDraft, error) {
	var d model.SessionDraft
	err := s.db.QueryRow(
		`SELECT key, data, updated_at FROM session_drafts WHERE key = ?`,
		key,
	).Scan(&d.Key, &d.Data, &d.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query draft: %w", err)
	}
	return &d, nil
}

// Fields decodes a draft's JSON payload.
func (s *DraftStore) Fields(d *model.SessionDraft) (map[string]string, error) {
	fields := map[string]string{}
	if err := json.Unmarshal([]byte(d.Data), &fields); err != nil {
		return nil, fmt.Errorf("decode draft data: %w", err)
	}
	return fields, nil
}

func (s *DraftStore) Delete(key string) error {
	_, err := s.db.Exec(`DELETE FROM session_drafts WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("delete draft: %w", err)
	}
	return nil
}
