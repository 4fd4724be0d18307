package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gamepop/gamepop/internal/model"
	"github.com/gamepop/gamepop/internal/pagination"
	"github.com/gamepop/gamepop/internal/store"
)

type SessionHandler struct {
	sessions *store.SessionStore
	logger   *slog.Logger
}

func NewSessionHandler(ss *store.SessionStore, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{sessions: ss, logger: logger}
}

type sessionRequest struct {
	Title          string `json:"title"`
	Venue          string `json:"venue"`
	Time           string `json:"time"`
	MinPlayers     *int64 `json:"min_players"`
	MaxPlayers     *int64 `json:"max_players"`
	Message        string `json:"message"`
	RequireContact bool   `json:"require_contact"`
	PriceCents     *int64 `json:"price_cents"`
}

func (req *sessionRequest) validate() (store.SessionParams, string) {
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		return store.SessionParams{}, "title is required"
	}
	if req.MinPlayers != nil && *req.MinPlayers < 0 {
		return store.SessionParams{}, "min_players must not be negative"
	}
	if req.MaxPlayers != nil && *req.MaxPlayers < 0 {
		return store.SessionParams{}, "max_players must not be negative"
	}
	if req.MinPlayers != nil && req.MaxPlayers != nil && *req.MinPlayers > *req.MaxPlayers {
		return store.SessionParams{}, "min_players must not exceed max_players"
	}
	if req.PriceCents != nil && *req.PriceCents <= 0 {
		return store.SessionParams{}, "price_cents must be positive when set"
	}

	return store.SessionParams{
		Title:          req.Title,
		Venue:          strings.TrimSpace(req.Venue),
		Time:           strings.TrimSpace(req.Time),
		MinPlayers:     req.MinPlayers,
		MaxPlayers:     req.MaxPlayers,
		Message:        strings.TrimSpace(req.Message),
		RequireContact: req.RequireContact,
		PriceCents:     req.PriceCents,
	}, ""
}

func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req sessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	params, msg := req.validate()
	if msg != "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
		return
	}

	sess, err := h.sessions.Create(params)
	if err != nil {
		h.logger.Error("create session", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to create session"})
		return
	}

	writeJSON(w, http.StatusCreated, sess)
}

func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	sess, err := h.sessions.GetByID(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load session"})
		return
	}
	if sess == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "session not found"})
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

// List handles GET /api/sessions?page=N, newest first, ten per page.
func (h *SessionHandler) List(w http.ResponseWriter, r *http.Request) {
	requested, _ := strconv.Atoi(r.URL.Query().Get("page"))

	total, err := h.sessions.Count()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to count sessions"})
		return
	}

	page := pagination.Paginate(total, requested, pagination.DefaultPageSize)
	sessions, err := h.sessions.ListPage(page.Offset, pagination.DefaultPageSize)
	if err != nil {
		h.logger.Error("list sessions", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list sessions"})
		return
	}
	if sessions == nil {
		sessions = []model.Session{}
	}
	page = page.ClampRangeEnd(len(sessions))

	writeJSON(w, http.StatusOK, map[string]any{
		"sessions":    sessions,
		"page":        page.ActivePage,
		"total_pages": page.TotalPages,
		"total_count": page.TotalCount,
		"range_start": page.RangeStart,
		"range_end":   page.RangeEnd,
	})
}

func (h *SessionHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	existing, err := h.sessions.GetByID(id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load session"})
		return
	}
	if existing == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "session not found"})
		return
	}

	var req sessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	params, msg := req.validate()
	if msg != "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
		return
	}

	sess, err := h.sessions.Update(id, params)
	if err != nil {
		h.logger.Error("update session", "session_id", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to update session"})
		return
	}

	writeJSON(w, http.StatusOK, sess)
}

func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	existing, err := h.sessions.GetByID(id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load session"})
		return
	}
	if existing == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "session not found"})
		return
	}

	if err := h.sessions.Delete(id); err != nil {
		h.logger.Error("delete session", "session_id", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to delete session"})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
