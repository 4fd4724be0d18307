package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gamepop/gamepop/internal/auth"
)

type AuthHandler struct {
	admin  *auth.Admin
	logger *slog.Logger
}

func NewAuthHandler(admin *auth.Admin, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{admin: admin, logger: logger}
}

// Login handles POST /login. On success it sets the admin cookie and
// redirects to the sessions list.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if !h.admin.Enabled() {
		http.Error(w, "admin login is not configured", http.StatusForbidden)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form data", http.StatusBadRequest)
		return
	}

	password := r.FormValue("password")
	if !h.admin.VerifyPassword(password) {
		h.logger.Warn("failed admin login")
		http.Redirect(w, r, "/login?error=1", http.StatusSeeOther)
		return
	}

	token, err := h.admin.IssueToken()
	if err != nil {
		h.logger.Error("issue admin token", "error", err)
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   60 * 60 * 24 * 7,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   strings.HasPrefix(r.Header.Get("X-Forwarded-Proto"), "https"),
	})

	http.Redirect(w, r, "/admin/sessions", http.StatusSeeOther)
}

// Logout handles POST /logout by expiring the admin cookie.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
