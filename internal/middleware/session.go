package middleware

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"net/url"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/model"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/session"
)

// Sessions loads the visitor's session and exposes it, plus the API bearer
// token it holds, through the request context. New or half-expired sessions
// are written back before the handler runs so the cookie is always set.
func Sessions(mgr *session.Manager, logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s, err := mgr.Load(r)
			if err != nil {
				logger.Printf("session load failed: %v cid=%s", err, GetCorrelationID(r.Context()))
			}
			if s == nil {
				http.Error(w, "session unavailable", http.StatusServiceUnavailable)
				return
			}

			if mgr.NeedsRefresh(s) {
				if err := mgr.Commit(r.Context(), w, s); err != nil {
					logger.Printf("session commit failed: %v cid=%s", err, GetCorrelationID(r.Context()))
				}
			}

			ctx := WithSession(r.Context(), s)
			if s.Token != "" {
				ctx = WithBearerToken(ctx, s.Token)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func WithSession(ctx context.Context, s *session.Session) context.Context {
	return context.WithValue(ctx, ctxSession, s)
}

// GetSession returns the request's session, or nil outside the Sessions
// middleware.
func GetSession(ctx context.Context) *session.Session {
	if s, ok := ctx.Value(ctxSession).(*session.Session); ok {
		return s
	}
	return nil
}

// LoginURL builds the sign-in redirect that returns the visitor to r.
func LoginURL(r *http.Request) string {
	next := r.URL.RequestURI()
	if r.Method != http.MethodGet {
		if ref := r.Referer(); ref != "" {
			if u, err := url.Parse(ref); err == nil && u.Host == r.Host {
				next = u.RequestURI()
			}
		}
	}
	return "/login?next=" + url.QueryEscape(next)
}

// RequireAuth sends anonymous visitors to the login page.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s := GetSession(r.Context())
		if s == nil || !s.SignedIn() {
			if WantsJSON(r) {
				writeJSONError(w, r, http.StatusUnauthorized, "authentication required", "/login")
				return
			}
			http.Redirect(w, r, LoginURL(r), http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin lets only admin sessions through. Anonymous visitors are sent
// to login; signed-in non-admins get forbidden.
func RequireAdmin(forbidden http.Handler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if s := GetSession(r.Context()); !s.IsAdmin {
				if WantsJSON(r) || forbidden == nil {
					writeJSONError(w, r, http.StatusForbidden, "admin access required", "")
					return
				}
				forbidden.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r)
		}))
	}
}

func writeJSONError(w http.ResponseWriter, r *http.Request, status int, msg, redirect string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.ErrorResponse{
		Error:         msg,
		Redirect:      redirect,
		CorrelationID: GetCorrelationID(r.Context()),
	})
}
