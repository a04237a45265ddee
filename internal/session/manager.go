package session

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"time"
)

type Options struct {
	CookieName string
	TTL        time.Duration
	Secure     bool
}

// Manager binds sessions to the browser through a cookie holding only the
// session id. The API token stays server-side.
type Manager struct {
	repo Repository
	opts Options
	now  func() time.Time
}

func NewManager(repo Repository, opts Options) *Manager {
	if opts.CookieName == "" {
		opts.CookieName = "sid"
	}
	if opts.TTL <= 0 {
		opts.TTL = 7 * 24 * time.Hour
	}
	return &Manager{repo: repo, opts: opts, now: time.Now}
}

func (m *Manager) CookieName() string { return m.opts.CookieName }

// Load returns the session named by the request cookie, or a fresh unsaved
// one. The returned session is never nil; a non-nil error means the store
// failed and the fresh session is a fallback.
func (m *Manager) Load(r *http.Request) (*Session, error) {
	c, err := r.Cookie(m.opts.CookieName)
	if err != nil || c.Value == "" {
		return m.New()
	}

	s, err := m.repo.Get(r.Context(), c.Value)
	if err != nil {
		fresh, newErr := m.New()
		if errors.Is(err, ErrNotFound) {
			return fresh, newErr
		}
		return fresh, err
	}
	return s, nil
}

func (m *Manager) New() (*Session, error) {
	id, err := randomToken(32)
	if err != nil {
		return nil, err
	}
	csrf, err := randomToken(32)
	if err != nil {
		return nil, err
	}
	now := m.now().UTC()
	return &Session{
		ID:        id,
		CSRFToken: csrf,
		CreatedAt: now,
		ExpiresAt: now.Add(m.opts.TTL),
		isNew:     true,
	}, nil
}

// NeedsRefresh reports whether a session is new or past half its lifetime,
// so the middleware knows to write it back.
func (m *Manager) NeedsRefresh(s *Session) bool {
	return s.isNew || s.ExpiresAt.Sub(m.now()) < m.opts.TTL/2
}

// Commit persists s, slides its expiry and (re)sets the cookie. Call it
// before the response is written.
func (m *Manager) Commit(ctx context.Context, w http.ResponseWriter, s *Session) error {
	s.ExpiresAt = m.now().UTC().Add(m.opts.TTL)
	if err := m.repo.Save(ctx, s); err != nil {
		return err
	}
	s.isNew = false
	http.SetCookie(w, m.cookie(s.ID, s.ExpiresAt))
	return nil
}

// Renew moves the session to a new id and CSRF token. Used on sign-in so a
// pre-login session id can't be fixed by an attacker.
func (m *Manager) Renew(ctx context.Context, s *Session) error {
	oldID := s.ID
	id, err := randomToken(32)
	if err != nil {
		return err
	}
	csrf, err := randomToken(32)
	if err != nil {
		return err
	}
	s.ID, s.CSRFToken = id, csrf
	if !s.isNew {
		if err := m.repo.Delete(ctx, oldID); err != nil {
			return fmt.Errorf("drop old session: %w", err)
		}
	}
	return nil
}

// Destroy deletes the session and expires the cookie.
func (m *Manager) Destroy(ctx context.Context, w http.ResponseWriter, s *Session) error {
	http.SetCookie(w, m.cookie("", time.Unix(0, 0)))
	if s == nil || s.isNew {
		return nil
	}
	return m.repo.Delete(ctx, s.ID)
}

// ValidCSRF compares a submitted token with the session's in constant time.
func ValidCSRF(s *Session, token string) bool {
	if s == nil || s.CSRFToken == "" || token == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(s.CSRFToken), []byte(token)) == 1
}

func (m *Manager) cookie(value string, expires time.Time) *http.Cookie {
	c := &http.Cookie{
		Name:     m.opts.CookieName,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   m.opts.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	if value == "" {
		c.MaxAge = -1
	}
	return c
}

func randomToken(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
