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

type CheckoutHandler struct {
	*Base
	Cart   *clients.CartController
	Users  *clients.UserController
	Orders *clients.OrdersController
}

func NewCheckoutHandler(b *Base, cart *clients.CartController, users *clients.UserController, orders *clients.OrdersController) *CheckoutHandler {
	return &CheckoutHandler{Base: b, Cart: cart, Users: users, Orders: orders}
}

func (h *CheckoutHandler) Show(w http.ResponseWriter, r *http.Request) {
	cart, addresses, ok := h.load(w, r)
	if !ok {
		return
	}
	form := url.Values{"shipping_method": {validate.ShippingStandard}, "payment_method": {validate.PaymentCard}}
	for _, a := range addresses {
		if a.IsDefault {
			form.Set("address_id", a.ID)
		}
	}
	h.render(w, r, http.StatusOK, cart, addresses, nil, form, nil)
}

// Quote asks the API for a shipping price for the chosen address and method.
func (h *CheckoutHandler) Quote(w http.ResponseWriter, r *http.Request) {
	form := parseForm(r)
	req, errs := validate.ShippingForm(form)

	var (
		quote *dto.ShippingQuote
		err   error
	)
	if errs.Valid() {
		quote, err = h.Cart.CalculateShipping(r.Context(), req)
		if err != nil && !h.formError(w, r, err, errs) {
			return
		}
	}

	if view.WantsJSON(r) {
		if !errs.Valid() {
			h.jsonError(w, r, formStatus(err), firstError(errs), errs)
			return
		}
		view.JSON(w, http.StatusOK, quote)
		return
	}

	cart, addresses, ok := h.load(w, r)
	if !ok {
		return
	}
	code := http.StatusOK
	if !errs.Valid() {
		code = formStatus(err)
	}
	h.render(w, r, code, cart, addresses, quote, form, errs)
}

func (h *CheckoutHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	form := parseForm(r)
	req, errs := validate.CheckoutForm(form)
	if !errs.Valid() {
		h.rerender(w, r, http.StatusUnprocessableEntity, form, errs)
		return
	}

	order, err := h.Orders.Create(r.Context(), req)
	if err != nil {
		if !h.formError(w, r, err, errs) {
			return
		}
		h.rerender(w, r, formStatus(err), form, errs)
		return
	}

	h.publish(r, func(ctx context.Context) error {
		return h.Events.PublishOrderPlaced(ctx, events.NewOrderPlaced(order, middleware.GetCorrelationID(r.Context())))
	})

	s := h.session(r)
	s.CartCount = 0
	s.AddFlash(session.FlashSuccess, "Thank you! Your order has been placed.")
	h.commit(w, r, s)
	h.redirect(w, r, "/orders/"+url.PathEscape(order.ID))
}

func (h *CheckoutHandler) rerender(w http.ResponseWriter, r *http.Request, code int, form url.Values, errs validate.Errors) {
	cart, addresses, ok := h.load(w, r)
	if !ok {
		return
	}
	h.render(w, r, code, cart, addresses, nil, form, errs)
}

// load fetches the cart and saved addresses. An empty cart sends the visitor
// back to the cart page.
func (h *CheckoutHandler) load(w http.ResponseWriter, r *http.Request) (*dto.Cart, []dto.Address, bool) {
	cart, err := h.Cart.Get(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return nil, nil, false
	}
	if cart.Empty() {
		s := h.session(r)
		s.CartCount = 0
		s.AddFlash(session.FlashInfo, "Your cart is empty.")
		h.commit(w, r, s)
		h.redirect(w, r, "/cart")
		return nil, nil, false
	}

	addresses, err := h.Users.ListAddresses(r.Context())
	if err != nil {
		if h.expired(w, r, err) {
			return nil, nil, false
		}
		// an inline address still works without the saved ones
		h.logError(r, err)
		addresses = nil
	}
	return cart, addresses, true
}

func (h *CheckoutHandler) render(w http.ResponseWriter, r *http.Request, code int, cart *dto.Cart, addresses []dto.Address, quote *dto.ShippingQuote, form url.Values, errs validate.Errors) {
	h.html(w, r, code, "checkout", &view.Page{
		Title:  "Checkout",
		Form:   form,
		Errors: errs,
		Data: map[string]any{
			"Cart":      cart,
			"Addresses": addresses,
			"Quote":     quote,
		},
	})
}

func firstError(errs validate.Errors) string {
	if msg := errs.Get(""); msg != "" {
		return msg
	}
	if f := errs.Fields(); len(f) > 0 {
		return errs[f[0]]
	}
	return ""
}
