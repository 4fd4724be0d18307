package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gamepop/gamepop/internal/store"
)

// DraftHandler manages in-progress wizard drafts. A draft never becomes a
// session implicitly: the client must commit it, and the draft row is only
// removed once the session row exists.
type DraftHandler struct {
	drafts   *store.DraftStore
	sessions *store.SessionStore
	logger   *slog.Logger
}

func NewDraftHandler(ds *store.DraftStore, ss *store.SessionStore, logger *slog.Logger) *DraftHandler {
	return &DraftHandler{drafts: ds, sessions: ss, logger: logger}
}

func draftKey(r *http.Request) (string, bool) {
	key := r.PathValue("key")
	if key == "" || len(key) > 64 {
		return "", false
	}
	return key, true
}

// Save handles PUT /api/drafts/{key}. The body is a flat JSON object of
// string fields, merged into whatever the draft already holds.
func (h *DraftHandler) Save(w http.ResponseWriter, r *http.Request) {
	key, ok := draftKey(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid draft key"})
		return
	}

	var fields map[string]string
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	draft, err := h.drafts.Save(key, fields)
	if err != nil {
		h.logger.Error("save draft", "key", key, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to save draft"})
		return
	}

	writeJSON(w, http.StatusOK, draft)
}

func (h *DraftHandler) Get(w http.ResponseWriter, r *http.Request) {
	key, ok := draftKey(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid draft key"})
		return
	}

	draft, err := h.drafts.Get(key)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load draft"})
		return
	}
	if draft == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "draft not found"})
		return
	}

	fields, err := h.drafts.Fields(draft)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to decode draft"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"key":        draft.Key,
		"fields":     fields,
		"updated_at": draft.UpdatedAt,
	})
}

func (h *DraftHandler) Delete(w http.ResponseWriter, r *http.Request) {
	key, ok := draftKey(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid draft key"})
		return
	}

	if err := h.drafts.Delete(key); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to delete draft"})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Commit handles POST /api/drafts/{key}/commit. It turns the draft's
// accumulated fields into a session and deletes the draft only after the
// session has been created.
func (h *DraftHandler) Commit(w http.ResponseWriter, r *http.Request) {
	key, ok := draftKey(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid draft key"})
		return
	}

	draft, err := h.drafts.Get(key)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load draft"})
		return
	}
	if draft == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "draft not found"})
		return
	}

	fields, err := h.drafts.Fields(draft)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to decode draft"})
		return
	}

	params, msg := draftParams(fields)
	if msg != "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
		return
	}

	sess, err := h.sessions.Create(params)
	if err != nil {
		h.logger.Error("commit draft", "key", key, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to create session"})
		return
	}

	if err := h.drafts.Delete(key); err != nil {
		// The session exists; a stale draft row is harmless.
		h.logger.Warn("delete committed draft", "key", key, "error", err)
	}

	writeJSON(w, http.StatusCreated, sess)
}

func draftParams(fields map[string]string) (store.SessionParams, string) {
	title := strings.TrimSpace(fields["title"])
	if title == "" {
		return store.SessionParams{}, "title is required"
	}

	minPlayers, msg := optionalCount(fields, "min_players")
	if msg != "" {
		return store.SessionParams{}, msg
	}
	maxPlayers, msg := optionalCount(fields, "max_players")
	if msg != "" {
		return store.SessionParams{}, msg
	}
	if minPlayers != nil && maxPlayers != nil && *minPlayers > *maxPlayers {
		return store.SessionParams{}, "min_players must not exceed max_players"
	}

	priceCents, msg := optionalCount(fields, "price_cents")
	if msg != "" {
		return store.SessionParams{}, msg
	}
	if priceCents != nil && *priceCents == 0 {
		priceCents = nil
	}

	return store.SessionParams{
		Title:          title,
		Venue:          strings.TrimSpace(fields["venue"]),
		Time:           strings.TrimSpace(fields["time"]),
		MinPlayers:     minPlayers,
		MaxPlayers:     maxPlayers,
		Message:        strings.TrimSpace(fields["message"]),
		RequireContact: fields["require_contact"] == "true",
		PriceCents:     priceCents,
	}, ""
}

func optionalCount(fields map[string]string, name string) (*int64, string) {
	raw := strings.TrimSpace(fields[name])
	if raw == "" {
		return nil, ""
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n < 0 {
		return nil, name + " must be a non-negative number"
	}
	return &n, ""
}
