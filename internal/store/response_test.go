package store

import (
	"errors"
	"testing"
)

func seedSession(t *testing.T, s *SessionStore) string {
	t.Helper()
	sess, err := s.Create(SessionParams{Title: "Pickup Game"})
	if err != nil {
		t.Fatalf("seed session: %v", err)
	}
	return sess.ID
}

func TestResponseInsertAndGet(t *testing.T) {
	db := openTestDB(t)
	sessionID := seedSession(t, NewSessionStore(db))
	rs := NewResponseStore(db)

	resp, err := rs.Insert(sessionID, ResponseParams{
		PlayerName:       "Jane Doe",
		Email:            strp("jane@example.com"),
		PreferredContact: strp("email"),
		Status:           strp("in"),
	})
	if err != nil {
		t.Fatalf("insert response: %v", err)
	}
	if resp.PlayerNameSearch != "jane doe" {
		t.Errorf("player_name_search = %q, want %q", resp.PlayerNameSearch, "jane doe")
	}
	if resp.Email == nil || *resp.Email != "jane@example.com" {
		t.Errorf("email = %v, want jane@example.com", resp.Email)
	}
	if resp.Status == nil || *resp.Status != "in" {
		t.Errorf("status = %v, want in", resp.Status)
	}
	if resp.PhoneWhatsapp != nil {
		t.Errorf("phone should be nil, got %q", *resp.PhoneWhatsapp)
	}
}

func TestResponseDuplicateEmailRejected(t *testing.T) {
	db := openTestDB(t)
	sessionID := seedSession(t, NewSessionStore(db))
	rs := NewResponseStore(db)

	if _, err := rs.Insert(sessionID, ResponseParams{PlayerName: "Jane", Email: strp("jane@example.com")}); err != nil {
		t.Fatalf("first insert: %v", err)
	}

	_, err := rs.Insert(sessionID, ResponseParams{PlayerName: "Jane Again", Email: strp("JANE@EXAMPLE.COM")})
	if !errors.Is(err, ErrDuplicateResponse) {
		t.Fatalf("second insert err = %v, want ErrDuplicateResponse", err)
	}
}

func TestResponseDuplicateEmailAllowedAcrossSessions(t *testing.T) {
	db := openTestDB(t)
	ss := NewSessionStore(db)
	rs := NewResponseStore(db)
	a := seedSession(t, ss)
	b := seedSession(t, ss)

	if _, err := rs.Insert(a, ResponseParams{PlayerName: "Jane", Email: strp("jane@example.com")}); err != nil {
		t.Fatalf("insert session a: %v", err)
	}
	if _, err := rs.Insert(b, ResponseParams{PlayerName: "Jane", Email: strp("jane@example.com")}); err != nil {
		t.Fatalf("insert session b: %v", err)
	}
}

func TestResponseNilEmailsDoNotConflict(t *testing.T) {
	db := openTestDB(t)
	sessionID := seedSession(t, NewSessionStore(db))
	rs := NewResponseStore(db)

	if _, err := rs.Insert(sessionID, ResponseParams{PlayerName: "Alice"}); err != nil {
		t.Fatalf("insert alice: %v", err)
	}
	if _, err := rs.Insert(sessionID, ResponseParams{PlayerName: "Bob"}); err != nil {
		t.Fatalf("insert bob: %v", err)
	}
}

func TestResponseFindByEmailCaseInsensitive(t *testing.T) {
	db := openTestDB(t)
	sessionID := seedSession(t, NewSessionStore(db))
	rs := NewResponseStore(db)

	inserted, err := rs.Insert(sessionID, ResponseParams{PlayerName: "Jane", Email: strp("Jane@Example.com")})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	matches, err := rs.FindByEmail(sessionID, "jane@example.COM")
	if err != nil {
		t.Fatalf("find by email: %v", err)
	}
	if len(matches) != 1 || matches[0].ID != inserted.ID {
		t.Fatalf("matches = %+v, want single row id %d", matches, inserted.ID)
	}
}

func TestResponseFindByPhoneAndName(t *testing.T) {
	db := openTestDB(t)
	sessionID := seedSession(t, NewSessionStore(db))
	rs := NewResponseStore(db)

	inserted, err := rs.Insert(sessionID, ResponseParams{PlayerName: "Jane Doe", PhoneWhatsapp: strp("+65 1234 5678")})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	byPhone, err := rs.FindByPhone(sessionID, "+65 1234 5678")
	if err != nil {
		t.Fatalf("find by phone: %v", err)
	}
	if len(byPhone) != 1 || byPhone[0].ID != inserted.ID {
		t.Fatalf("byPhone = %+v, want single row id %d", byPhone, inserted.ID)
	}

	byName, err := rs.FindByNameSearch(sessionID, "jane doe")
	if err != nil {
		t.Fatalf("find by name: %v", err)
	}
	if len(byName) != 1 || byName[0].ID != inserted.ID {
		t.Fatalf("byName = %+v, want single row id %d", byName, inserted.ID)
	}

	// Different spacing is a different key: no phone canonicalization.
	byPhone, err = rs.FindByPhone(sessionID, "+6512345678")
	if err != nil {
		t.Fatalf("find by phone: %v", err)
	}
	if len(byPhone) != 0 {
		t.Errorf("byPhone = %+v, want no match for differently formatted number", byPhone)
	}
}

func TestResponseUpdateOverwritesAndRefreshesTimestamp(t *testing.T) {
	db := openTestDB(t)
	sessionID := seedSession(t, NewSessionStore(db))
	rs := NewResponseStore(db)

	resp, err := rs.Insert(sessionID, ResponseParams{PlayerName: "Jane", Email: strp("jane@example.com"), Status: strp("in")})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	updated, err := rs.Update(resp.ID, ResponseParams{
		PlayerName:    "Jane D",
		Email:         strp("jane@example.com"),
		PhoneWhatsapp: strp("+65 1234 5678"),
		Status:        strp("out"),
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Status == nil || *updated.Status != "out" {
		t.Errorf("status = %v, want out", updated.Status)
	}
	if updated.PlayerNameSearch != "jane d" {
		t.Errorf("player_name_search = %q, want %q", updated.PlayerNameSearch, "jane d")
	}
	if updated.PhoneWhatsapp == nil {
		t.Error("phone should be set after update")
	}
	if updated.UpdatedAt.Before(resp.UpdatedAt) {
		t.Errorf("updated_at went backwards: %v -> %v", resp.UpdatedAt, updated.UpdatedAt)
	}
}

func TestResponseCountByStatus(t *testing.T) {
	db := openTestDB(t)
	sessionID := seedSession(t, NewSessionStore(db))
	rs := NewResponseStore(db)

	rs.Insert(sessionID, ResponseParams{PlayerName: "A", Status: strp("in")})
	rs.Insert(sessionID, ResponseParams{PlayerName: "B", Status: strp("in")})
	rs.Insert(sessionID, ResponseParams{PlayerName: "C", Status: strp("out")})
	rs.Insert(sessionID, ResponseParams{PlayerName: "D"})

	n, err := rs.CountByStatus(sessionID, "in")
	if err != nil {
		t.Fatalf("count by status: %v", err)
	}
	if n != 2 {
		t.Errorf("in count = %d, want 2", n)
	}
}
