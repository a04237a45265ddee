package session

import (
	"time"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/dto"
)

type FlashKind string

const (
	FlashSuccess FlashKind = "success"
	FlashInfo    FlashKind = "info"
	FlashError   FlashKind = "error"
)

// Flash is a one-shot notice shown as a toast on the next rendered page.
type Flash struct {
	Kind    FlashKind `json:"kind"`
	Message string    `json:"message"`
}

type Session struct {
	ID        string    `json:"id"`
	Token     string    `json:"token,omitempty"`
	UserID    string    `json:"userId,omitempty"`
	Email     string    `json:"email,omitempty"`
	Name      string    `json:"name,omitempty"`
	IsAdmin   bool      `json:"isAdmin,omitempty"`
	CSRFToken string    `json:"csrfToken"`
	CartCount int       `json:"cartCount,omitempty"`
	Flashes   []Flash   `json:"flashes,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`

	isNew bool
}

func (s *Session) IsNew() bool { return s.isNew }

func (s *Session) SignedIn() bool { return s.Token != "" }

func (s *Session) SignIn(token string, u dto.User) {
	s.Token = token
	s.UserID = u.ID
	s.Email = u.Email
	s.Name = u.Name
	s.IsAdmin = u.IsAdmin
}

// SignOut drops the identity but keeps pending flashes.
func (s *Session) SignOut() {
	s.Token = ""
	s.UserID = ""
	s.Email = ""
	s.Name = ""
	s.IsAdmin = false
	s.CartCount = 0
}

func (s *Session) AddFlash(kind FlashKind, msg string) {
	s.Flashes = append(s.Flashes, Flash{Kind: kind, Message: msg})
}

// PopFlashes returns pending flashes and clears them.
func (s *Session) PopFlashes() []Flash {
	out := s.Flashes
	s.Flashes = nil
	return out
}
