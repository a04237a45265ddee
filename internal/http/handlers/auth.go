package handlers

import (
	"context"
	"net/http"
	"net/url"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/clients"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/dto"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/events"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/middleware"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/session"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/validate"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/view"
)

type AuthHandler struct {
	*Base
	Auth *clients.AuthController
	Cart *clients.CartController
}

func NewAuthHandler(b *Base, auth *clients.AuthController, cart *clients.CartController) *AuthHandler {
	return &AuthHandler{Base: b, Auth: auth, Cart: cart}
}

func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	if h.session(r).SignedIn() {
		h.redirect(w, r, safeNext(r.URL.Query().Get("next")))
		return
	}
	h.html(w, r, http.StatusOK, "login", &view.Page{
		Title: "Sign in",
		Form:  url.Values{"next": {r.URL.Query().Get("next")}},
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	form := parseForm(r)
	req, errs := validate.LoginForm(form)

	var err error
	if errs.Valid() {
		var res *dto.LoginResult
		if res, err = h.Auth.Login(r.Context(), req); err == nil {
			h.signIn(w, r, res, "Welcome back!", safeNext(form.Get("next")))
			return
		}
		if clients.IsUnauthorized(err) {
			errs.Add("", "Invalid email or password.")
		} else if !h.formError(w, r, err, errs) {
			return
		}
	}

	form.Del("password")
	h.html(w, r, formStatus(err), "login", &view.Page{Title: "Sign in", Form: form, Errors: errs})
}

func (h *AuthHandler) RegisterForm(w http.ResponseWriter, r *http.Request) {
	if h.session(r).SignedIn() {
		h.redirect(w, r, "/")
		return
	}
	h.html(w, r, http.StatusOK, "register", &view.Page{Title: "Register"})
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	form := parseForm(r)
	req, errs := validate.RegisterForm(form)

	var err error
	if errs.Valid() {
		var res *dto.LoginResult
		if res, err = h.Auth.Register(r.Context(), req); err == nil {
			h.signIn(w, r, res, "Welcome! Your account is ready.", "/")
			return
		}
		if !h.formError(w, r, err, errs) {
			return
		}
	}

	form.Del("password")
	form.Del("password_confirm")
	h.html(w, r, formStatus(err), "register", &view.Page{Title: "Register", Form: form, Errors: errs})
}

// signIn stores the API token in a fresh session id and picks up the cart
// badge count for the header.
func (h *AuthHandler) signIn(w http.ResponseWriter, r *http.Request, res *dto.LoginResult, msg, next string) {
	s := h.session(r)
	if err := h.Sessions.Renew(r.Context(), s); err != nil {
		h.Logger.Printf("session renew failed: %v cid=%s", err, middleware.GetCorrelationID(r.Context()))
	}
	s.SignIn(res.AccessToken, res.User)

	ctx := middleware.WithBearerToken(r.Context(), res.AccessToken)
	if cart, err := h.Cart.Get(ctx); err == nil {
		s.CartCount = cart.Count()
	} else {
		h.logError(r, err)
	}

	s.AddFlash(session.FlashSuccess, msg)
	h.commit(w, r, s)

	h.publish(r, func(ctx context.Context) error {
		return h.Events.PublishUserSignedIn(ctx, events.NewUserSignedIn(
			res.User.ID, s.ID, middleware.GetCorrelationID(r.Context())))
	})
	h.redirect(w, r, next)
}

// Logout revokes the token at the API when it can; the local session is
// cleared regardless.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	s := h.session(r)
	if s.SignedIn() {
		if err := h.Auth.Logout(r.Context()); err != nil && !clients.IsUnauthorized(err) {
			h.logError(r, err)
		}
	}

	s.SignOut()
	if err := h.Sessions.Renew(r.Context(), s); err != nil {
		h.Logger.Printf("session renew failed: %v cid=%s", err, middleware.GetCorrelationID(r.Context()))
	}
	s.AddFlash(session.FlashInfo, "You have been signed out.")
	h.commit(w, r, s)
	h.redirect(w, r, "/")
}

func (h *AuthHandler) ForgotForm(w http.ResponseWriter, r *http.Request) {
	h.html(w, r, http.StatusOK, "forgot_password", &view.Page{Title: "Reset password"})
}

// Forgot always reports success for a well-formed address so the page does
// not reveal which emails have accounts.
func (h *AuthHandler) Forgot(w http.ResponseWriter, r *http.Request) {
	form := parseForm(r)
	email, errs := validate.ForgotPasswordForm(form)
	if !errs.Valid() {
		h.html(w, r, http.StatusUnprocessableEntity, "forgot_password", &view.Page{Title: "Reset password", Form: form, Errors: errs})
		return
	}

	if err := h.Auth.RequestPasswordReset(r.Context(), email); err != nil {
		if code := status(err); code >= 500 {
			h.logError(r, err)
			errs.Add("", h.message(err))
			h.html(w, r, code, "forgot_password", &view.Page{Title: "Reset password", Form: form, Errors: errs})
			return
		}
		if clients.IsValidation(err) {
			errs.MergeAPI(err)
			h.html(w, r, formStatus(err), "forgot_password", &view.Page{Title: "Reset password", Form: form, Errors: errs})
			return
		}
	}
	h.html(w, r, http.StatusOK, "forgot_password", &view.Page{Title: "Reset password", Data: true})
}
