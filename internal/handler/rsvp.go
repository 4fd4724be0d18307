package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/gamepop/gamepop/internal/model"
	"github.com/gamepop/gamepop/internal/push"
	"github.com/gamepop/gamepop/internal/rsvp"
	"github.com/gamepop/gamepop/internal/store"
	"github.com/gamepop/gamepop/internal/websocket"
)

type RSVPHandler struct {
	sessions    *store.SessionStore
	responses   *store.ResponseStore
	coordinator *rsvp.Coordinator
	hub         *websocket.Hub
	pushService *push.Service
	logger      *slog.Logger
}

func NewRSVPHandler(ss *store.SessionStore, rs *store.ResponseStore, c *rsvp.Coordinator, hub *websocket.Hub, ps *push.Service, logger *slog.Logger) *RSVPHandler {
	return &RSVPHandler{
		sessions:    ss,
		responses:   rs,
		coordinator: c,
		hub:         hub,
		pushService: ps,
		logger:      logger,
	}
}

// rsvpRequest accepts both "phoneWhatsapp" and the shorter "phone" key
// older clients still send.
type rsvpRequest struct {
	PlayerName       string `json:"playerName"`
	Email            string `json:"email"`
	PhoneWhatsapp    string `json:"phoneWhatsapp"`
	Phone            string `json:"phone"`
	PreferredContact string `json:"preferredContact"`
	Status           string `json:"status"`
}

// Submit handles POST /api/sessions/{id}/rsvp.
func (h *RSVPHandler) Submit(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")

	sess, err := h.sessions.GetByID(sessionID)
	if err != nil {
		h.logger.Error("load session", "session_id", sessionID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load session"})
		return
	}
	if sess == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "session not found"})
		return
	}

	var req rsvpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	phone := req.PhoneWhatsapp
	if phone == "" {
		phone = req.Phone
	}

	cmd, err := rsvp.Normalize(rsvp.Submission{
		PlayerName:       req.PlayerName,
		Email:            req.Email,
		PhoneWhatsapp:    phone,
		PreferredContact: req.PreferredContact,
		Status:           req.Status,
	})
	if err != nil {
		var verr *rsvp.ValidationError
		if errors.As(err, &verr) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": verr.Message, "code": verr.Code})
			return
		}
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid submission"})
		return
	}

	resp, created, err := h.coordinator.Upsert(sessionID, cmd)
	if err != nil {
		h.logger.Error("upsert rsvp", "session_id", sessionID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to save response"})
		return
	}

	// The cookie lets the session page prefill the respondent's own entry
	// on a return visit.
	http.SetCookie(w, &http.Cookie{
		Name:     "session-rsvp-" + sessionID,
		Value:    url.QueryEscape(rsvp.ContactKey(cmd.Email, cmd.PhoneWhatsapp, cmd.PlayerName)),
		Path:     "/",
		MaxAge:   60 * 60 * 24 * 90,
		SameSite: http.SameSiteLaxMode,
	})

	status := ""
	if resp.Status != nil {
		status = *resp.Status
	}
	h.hub.Broadcast(websocket.Message{
		Type:      "rsvp",
		SessionID: sessionID,
		Player:    resp.PlayerName,
		Status:    status,
		Created:   created,
	})

	if h.pushService != nil {
		go h.pushService.NotifyRSVP(sess, resp, created)
	}

	code := http.StatusOK
	if created {
		code = http.StatusCreated
	}
	writeJSON(w, code, resp)
}

// Roster handles GET /api/sessions/{id}/responses. It returns the full
// response list plus per-status counts for the live roster view.
func (h *RSVPHandler) Roster(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")

	sess, err := h.sessions.GetByID(sessionID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load session"})
		return
	}
	if sess == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "session not found"})
		return
	}

	responses, err := h.responses.ListBySession(sessionID)
	if err != nil {
		h.logger.Error("list responses", "session_id", sessionID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list responses"})
		return
	}
	if responses == nil {
		responses = []model.SessionResponse{}
	}

	counts := map[string]int{}
	for _, status := range []string{model.StatusIn, model.StatusOut, model.StatusMaybe} {
		n, err := h.responses.CountByStatus(sessionID, status)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to count responses"})
			return
		}
		counts[status] = n
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"responses": responses,
		"counts":    counts,
	})
}
