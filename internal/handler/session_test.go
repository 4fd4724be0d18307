package handler

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gamepop/gamepop/internal/store"
)

func setupSessions(t *testing.T) (*SessionHandler, *store.SessionStore) {
	t.Helper()

	db := openTestDB(t)
	sessions := store.NewSessionStore(db)
	return NewSessionHandler(sessions, slog.New(slog.DiscardHandler)), sessions
}

func TestSessionCreateValidation(t *testing.T) {
	h, _ := setupSessions(t)

	tests := []struct {
		name string
		body string
		want int
	}{
		{"valid", `{"title":"Catan night"}`, http.StatusCreated},
		{"missing title", `{"venue":"Pub"}`, http.StatusBadRequest},
		{"min exceeds max", `{"title":"t","min_players":6,"max_players":4}`, http.StatusBadRequest},
		{"zero price", `{"title":"t","price_cents":0}`, http.StatusBadRequest},
		{"bad json", `{"title":`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/api/sessions", strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			h.Create(w, r)
			if w.Code != tt.want {
				t.Errorf("status = %d, want %d: %s", w.Code, tt.want, w.Body.String())
			}
		})
	}
}

func TestSessionListClampsPage(t *testing.T) {
	h, sessions := setupSessions(t)

	for i := 0; i < 25; i++ {
		if _, err := sessions.Create(store.SessionParams{Title: fmt.Sprintf("Session %d", i)}); err != nil {
			t.Fatalf("seed session: %v", err)
		}
	}

	r := httptest.NewRequest(http.MethodGet, "/api/sessions?page=99", nil)
	w := httptest.NewRecorder()
	h.List(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}

	var got struct {
		Sessions   []json.RawMessage `json:"sessions"`
		Page       int               `json:"page"`
		TotalPages int               `json:"total_pages"`
		RangeStart int               `json:"range_start"`
		RangeEnd   int               `json:"range_end"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode list: %v", err)
	}

	if got.Page != 3 || got.TotalPages != 3 {
		t.Errorf("page = %d/%d, want 3/3", got.Page, got.TotalPages)
	}
	if len(got.Sessions) != 5 {
		t.Errorf("last page has %d sessions, want 5", len(got.Sessions))
	}
	if got.RangeStart != 21 || got.RangeEnd != 25 {
		t.Errorf("range = %d-%d, want 21-25", got.RangeStart, got.RangeEnd)
	}
}

func TestSessionDelete(t *testing.T) {
	h, sessions := setupSessions(t)

	sess, err := sessions.Create(store.SessionParams{Title: "Doomed"})
	if err != nil {
		t.Fatalf("create session: %v", err)
	}

	r := httptest.NewRequest(http.MethodDelete, "/api/sessions/"+sess.ID, nil)
	r.SetPathValue("id", sess.ID)
	w := httptest.NewRecorder()
	h.Delete(w, r)

	if w.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", w.Code)
	}

	gone, err := sessions.GetByID(sess.ID)
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	if gone != nil {
		t.Error("session should be gone after delete")
	}
}
