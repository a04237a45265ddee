package handlers

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/clients"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/dto"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/session"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/validate"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/view"
)

type AccountHandler struct {
	*Base
	Users *clients.UserController
}

func NewAccountHandler(b *Base, users *clients.UserController) *AccountHandler {
	return &AccountHandler{Base: b, Users: users}
}

func (h *AccountHandler) Show(w http.ResponseWriter, r *http.Request) {
	u, err := h.Users.Me(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.renderAccount(w, r, http.StatusOK, u, url.Values{"name": {u.Name}, "phone": {u.Phone}}, nil)
}

func (h *AccountHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	form := parseForm(r)
	req, errs := validate.ProfileForm(form)

	var err error
	if errs.Valid() {
		var u *dto.User
		if u, err = h.Users.UpdateProfile(r.Context(), req); err == nil {
			s := h.session(r)
			s.Name = u.Name
			s.AddFlash(session.FlashSuccess, "Profile saved.")
			h.commit(w, r, s)
			h.redirect(w, r, "/account")
			return
		}
		if !h.formError(w, r, err, errs) {
			return
		}
	}
	h.rerenderAccount(w, r, formStatus(err), form, errs)
}

func (h *AccountHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	form := parseForm(r)
	req, errs := validate.PasswordForm(form)

	var err error
	if errs.Valid() {
		if err = h.Users.ChangePassword(r.Context(), req); err == nil {
			h.flash(w, r, session.FlashSuccess, "Password changed.")
			h.redirect(w, r, "/account")
			return
		}
		if !h.formError(w, r, err, errs) {
			return
		}
	}
	// never echo passwords back into the page
	h.rerenderAccount(w, r, formStatus(err), url.Values{}, errs)
}

func (h *AccountHandler) rerenderAccount(w http.ResponseWriter, r *http.Request, code int, form url.Values, errs validate.Errors) {
	u, err := h.Users.Me(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if form.Get("name") == "" && form.Get("phone") == "" {
		form.Set("name", u.Name)
		form.Set("phone", u.Phone)
	}
	h.renderAccount(w, r, code, u, form, errs)
}

func (h *AccountHandler) renderAccount(w http.ResponseWriter, r *http.Request, code int, u *dto.User, form url.Values, errs validate.Errors) {
	h.html(w, r, code, "account", &view.Page{
		Title:  "Account",
		Form:   form,
		Errors: errs,
		Data:   map[string]any{"User": u},
	})
}

// Addresses lists saved addresses. ?edit={id} preloads that address into the
// form.
func (h *AccountHandler) Addresses(w http.ResponseWriter, r *http.Request) {
	addresses, err := h.Users.ListAddresses(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}

	form := url.Values{}
	editing := r.URL.Query().Get("edit")
	if editing != "" {
		found := false
		for _, a := range addresses {
			if a.ID == editing {
				form = addressValues(a)
				found = true
				break
			}
		}
		if !found {
			editing = ""
		}
	}
	h.renderAddresses(w, r, http.StatusOK, addresses, editing, form, nil)
}

func (h *AccountHandler) CreateAddress(w http.ResponseWriter, r *http.Request) {
	h.saveAddress(w, r, "")
}

func (h *AccountHandler) UpdateAddress(w http.ResponseWriter, r *http.Request) {
	h.saveAddress(w, r, chi.URLParam(r, "id"))
}

func (h *AccountHandler) saveAddress(w http.ResponseWriter, r *http.Request, id string) {
	form := parseForm(r)
	a, errs := validate.AddressForm(form, "")

	var err error
	if errs.Valid() {
		if id == "" {
			_, err = h.Users.CreateAddress(r.Context(), a)
		} else {
			_, err = h.Users.UpdateAddress(r.Context(), id, a)
		}
		if err == nil {
			h.flash(w, r, session.FlashSuccess, "Address saved.")
			h.redirect(w, r, "/account/addresses")
			return
		}
		if !h.formError(w, r, err, errs) {
			return
		}
	}

	addresses, lerr := h.Users.ListAddresses(r.Context())
	if lerr != nil {
		h.fail(w, r, lerr)
		return
	}
	h.renderAddresses(w, r, formStatus(err), addresses, id, form, errs)
}

func (h *AccountHandler) DeleteAddress(w http.ResponseWriter, r *http.Request) {
	if err := h.Users.DeleteAddress(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.failAction(w, r, err, "/account/addresses")
		return
	}
	h.flash(w, r, session.FlashSuccess, "Address deleted.")
	h.redirect(w, r, "/account/addresses")
}

func (h *AccountHandler) renderAddresses(w http.ResponseWriter, r *http.Request, code int, addresses []dto.Address, editing string, form url.Values, errs validate.Errors) {
	h.html(w, r, code, "addresses", &view.Page{
		Title:  "Addresses",
		Form:   form,
		Errors: errs,
		Data:   map[string]any{"Addresses": addresses, "Editing": editing},
	})
}

func addressValues(a dto.Address) url.Values {
	v := url.Values{
		"label":       {a.Label},
		"line1":       {a.Line1},
		"line2":       {a.Line2},
		"city":        {a.City},
		"state":       {a.State},
		"postal_code": {a.PostalCode},
		"country":     {a.Country},
	}
	if a.IsDefault {
		v.Set("is_default", "on")
	}
	return v
}
