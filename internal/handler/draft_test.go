package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gamepop/gamepop/internal/store"
)

func setupDrafts(t *testing.T) (*DraftHandler, *store.SessionStore, *store.DraftStore) {
	t.Helper()

	db := openTestDB(t)
	sessions := store.NewSessionStore(db)
	drafts := store.NewDraftStore(db)
	h := NewDraftHandler(drafts, sessions, slog.New(slog.DiscardHandler))
	return h, sessions, drafts
}

func draftRequest(t *testing.T, h *DraftHandler, method, key, suffix, body string) *httptest.ResponseRecorder {
	t.Helper()

	r := httptest.NewRequest(method, "/api/drafts/"+key+suffix, strings.NewReader(body))
	r.SetPathValue("key", key)
	w := httptest.NewRecorder()

	switch {
	case suffix == "/commit":
		h.Commit(w, r)
	case method == http.MethodPut:
		h.Save(w, r)
	case method == http.MethodGet:
		h.Get(w, r)
	case method == http.MethodDelete:
		h.Delete(w, r)
	}
	return w
}

func TestDraftSaveMergesFields(t *testing.T) {
	h, _, _ := setupDrafts(t)

	w := draftRequest(t, h, http.MethodPut, "draft-1", "", `{"title":"Friday Catan","venue":"The Pub"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("first save status = %d: %s", w.Code, w.Body.String())
	}

	// Second save overwrites venue but keeps title.
	w = draftRequest(t, h, http.MethodPut, "draft-1", "", `{"venue":"The Crown"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("second save status = %d: %s", w.Code, w.Body.String())
	}

	w = draftRequest(t, h, http.MethodGet, "draft-1", "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("get status = %d", w.Code)
	}

	var got struct {
		Fields map[string]string `json:"fields"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode draft: %v", err)
	}
	if got.Fields["title"] != "Friday Catan" {
		t.Errorf("title = %q, want %q", got.Fields["title"], "Friday Catan")
	}
	if got.Fields["venue"] != "The Crown" {
		t.Errorf("venue = %q, want %q", got.Fields["venue"], "The Crown")
	}
}

func TestDraftCommitCreatesSessionAndDeletesDraft(t *testing.T) {
	h, sessions, drafts := setupDrafts(t)

	draftRequest(t, h, http.MethodPut, "draft-2", "", `{"title":"Saturday Wingspan","min_players":"2","max_players":"5","price_cents":"500"}`)

	w := draftRequest(t, h, http.MethodPost, "draft-2", "/commit", "")
	if w.Code != http.StatusCreated {
		t.Fatalf("commit status = %d: %s", w.Code, w.Body.String())
	}

	var created struct {
		ID         string `json:"id"`
		Title      string `json:"title"`
		MinPlayers *int64 `json:"min_players"`
		MaxPlayers *int64 `json:"max_players"`
		PriceCents *int64 `json:"price_cents"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode session: %v", err)
	}
	if created.Title != "Saturday Wingspan" {
		t.Errorf("title = %q", created.Title)
	}
	if created.MinPlayers == nil || *created.MinPlayers != 2 {
		t.Errorf("min_players = %v, want 2", created.MinPlayers)
	}
	if created.PriceCents == nil || *created.PriceCents != 500 {
		t.Errorf("price_cents = %v, want 500", created.PriceCents)
	}

	sess, err := sessions.GetByID(created.ID)
	if err != nil || sess == nil {
		t.Fatalf("created session not found: %v", err)
	}

	draft, err := drafts.Get("draft-2")
	if err != nil {
		t.Fatalf("get draft: %v", err)
	}
	if draft != nil {
		t.Error("draft should be deleted after a successful commit")
	}
}

func TestDraftCommitWithoutTitleKeepsDraft(t *testing.T) {
	h, _, drafts := setupDrafts(t)

	draftRequest(t, h, http.MethodPut, "draft-3", "", `{"venue":"Somewhere"}`)

	w := draftRequest(t, h, http.MethodPost, "draft-3", "/commit", "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("commit status = %d, want %d", w.Code, http.StatusBadRequest)
	}

	draft, err := drafts.Get("draft-3")
	if err != nil {
		t.Fatalf("get draft: %v", err)
	}
	if draft == nil {
		t.Error("a failed commit must not delete the draft")
	}
}

func TestDraftCommitMissingDraft(t *testing.T) {
	h, _, _ := setupDrafts(t)

	w := draftRequest(t, h, http.MethodPost, "nope", "/commit", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("commit status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

func TestDraftKeyValidation(t *testing.T) {
	h, _, _ := setupDrafts(t)

	long := strings.Repeat("x", 65)
	w := draftRequest(t, h, http.MethodPut, long, "", `{"title":"t"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("oversized key status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}
