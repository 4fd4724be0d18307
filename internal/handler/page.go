package handler

import (
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gamepop/gamepop/internal/model"
	"github.com/gamepop/gamepop/internal/pagination"
	"github.com/gamepop/gamepop/internal/share"
	"github.com/gamepop/gamepop/internal/store"
)

// PageHandler renders the HTML surface: the public session page, the admin
// sessions list and the creation wizard.
type PageHandler struct {
	sessions     *store.SessionStore
	responses    *store.ResponseStore
	paymentStore *store.PaymentStore
	baseURL      string
	vapidKey     string
	templates    *template.Template
	logger       *slog.Logger
}

func NewPageHandler(ss *store.SessionStore, rs *store.ResponseStore, ps *store.PaymentStore, baseURL, vapidKey string, logger *slog.Logger) *PageHandler {
	tmpl := template.Must(template.ParseGlob("web/templates/*.html"))
	return &PageHandler{
		sessions:     ss,
		responses:    rs,
		paymentStore: ps,
		baseURL:      baseURL,
		vapidKey:     vapidKey,
		templates:    tmpl,
		logger:       logger,
	}
}

func (h *PageHandler) Home(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	http.Redirect(w, r, "/admin/sessions", http.StatusSeeOther)
}

// SessionPage handles GET /s/{id}, the page players land on from a shared
// link.
func (h *PageHandler) SessionPage(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")

	sess, err := h.sessions.GetByID(sessionID)
	if err != nil {
		http.Error(w, "failed to load session", http.StatusInternalServerError)
		return
	}
	if sess == nil {
		http.NotFound(w, r)
		return
	}

	responses, err := h.responses.ListBySession(sessionID)
	if err != nil {
		http.Error(w, "failed to load responses", http.StatusInternalServerError)
		return
	}

	counts := map[string]int{}
	for _, status := range []string{model.StatusIn, model.StatusOut, model.StatusMaybe} {
		n, err := h.responses.CountByStatus(sessionID, status)
		if err != nil {
			http.Error(w, "failed to load responses", http.StatusInternalServerError)
			return
		}
		counts[status] = n
	}

	// A returning respondent carries their identity key in a cookie; the
	// page script uses it to prefill the form.
	ownKey := ""
	if c, err := r.Cookie("session-rsvp-" + sessionID); err == nil {
		if v, err := url.QueryUnescape(c.Value); err == nil {
			ownKey = v
		}
	}

	sessionURL := h.baseURL + "/s/" + sess.ID
	h.render(w, "session.html", map[string]any{
		"Title":      sess.Title + " — GamePop",
		"Session":    sess,
		"Responses":  responses,
		"Counts":     counts,
		"ShareText":  share.Build(sess, sessionURL),
		"SessionURL": sessionURL,
		"OwnKey":     ownKey,
		"VAPIDKey":   h.vapidKey,
	})
}

// AdminSessions handles GET /admin/sessions?page=N&new=ID. A freshly
// committed session id arrives via "new" and gets highlighted.
func (h *PageHandler) AdminSessions(w http.ResponseWriter, r *http.Request) {
	requested, _ := strconv.Atoi(r.URL.Query().Get("page"))

	total, err := h.sessions.Count()
	if err != nil {
		http.Error(w, "failed to count sessions", http.StatusInternalServerError)
		return
	}

	page := pagination.Paginate(total, requested, pagination.DefaultPageSize)
	sessions, err := h.sessions.ListPage(page.Offset, pagination.DefaultPageSize)
	if err != nil {
		http.Error(w, "failed to load sessions", http.StatusInternalServerError)
		return
	}
	page = page.ClampRangeEnd(len(sessions))

	// Both "new" and "created" name the session to highlight; clients have
	// used either.
	newID := r.URL.Query().Get("new")
	if newID == "" {
		newID = r.URL.Query().Get("created")
	}

	h.render(w, "admin_sessions.html", map[string]any{
		"Title":        "Sessions — GamePop",
		"Sessions":     sessions,
		"Page":         page,
		"NewSessionID": newID,
		"BaseURL":      h.baseURL,
	})
}

// NewSessionWizard handles GET /admin/sessions/new.
func (h *PageHandler) NewSessionWizard(w http.ResponseWriter, r *http.Request) {
	h.render(w, "wizard.html", map[string]any{
		"Title": "New session — GamePop",
	})
}

func (h *PageHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, "login.html", map[string]any{
		"Title":  "Log in — GamePop",
		"Failed": r.URL.Query().Get("error") != "",
	})
}

// SuccessPage handles GET /success?cs={CHECKOUT_SESSION_ID} after Stripe
// redirects back.
func (h *PageHandler) SuccessPage(w http.ResponseWriter, r *http.Request) {
	var sess *model.Session
	if csID := r.URL.Query().Get("cs"); csID != "" {
		payment, err := h.paymentStore.GetByStripeSessionID(csID)
		if err == nil && payment != nil {
			sess, _ = h.sessions.GetByID(payment.SessionID)
		}
	}

	h.render(w, "success.html", map[string]any{
		"Title":   "Payment received — GamePop",
		"Session": sess,
	})
}

func (h *PageHandler) render(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.templates.ExecuteTemplate(w, name, data); err != nil {
		h.logger.Error("render template", "template", name, "error", err)
		http.Error(w, "template error", http.StatusInternalServerError)
	}
}
