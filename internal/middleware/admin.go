package middleware

import (
	"net/http"

	"github.com/gamepop/gamepop/internal/auth"
)

// RequireAdmin gates the organizer surface behind the admin session cookie.
// Browser requests bounce to the login page; API requests get a plain 401.
func RequireAdmin(admin *auth.Admin) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(auth.CookieName)
			if err != nil || cookie.Value == "" || admin.VerifyToken(cookie.Value) != nil {
				if wantsJSON(r) {
					http.Error(w, "unauthorized", http.StatusUnauthorized)
					return
				}
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func wantsJSON(r *http.Request) bool {
	return r.Header.Get("Accept") == "application/json" ||
		r.Header.Get("Content-Type") == "application/json"
}
