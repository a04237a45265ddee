package middleware

import (
	"net/http"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/session"
)

const (
	HeaderCSRFToken = "X-CSRF-Token"
	FormCSRFToken   = "csrf_token"
)

// CSRF rejects unsafe requests whose token does not match the session's.
// Must run after Sessions.
func CSRF(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			next.ServeHTTP(w, r)
			return
		}

		token := r.Header.Get(HeaderCSRFToken)
		if token == "" {
			token = r.PostFormValue(FormCSRFToken)
		}
		if !session.ValidCSRF(GetSession(r.Context()), token) {
			if WantsJSON(r) {
				writeJSONError(w, r, http.StatusForbidden, "invalid or missing CSRF token", "")
				return
			}
			http.Error(w, "Your form expired. Go back, reload the page and try again.", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}
