package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/clients"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/dto"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/events"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/middleware"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/session"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/validate"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/view"
)

// cartResponse answers in-page cart updates. On failure Cart holds the
// authoritative cart so the page can undo its optimistic change.
type cartResponse struct {
	Cart          *dto.Cart         `json:"cart,omitempty"`
	Message       string            `json:"message,omitempty"`
	Error         string            `json:"error,omitempty"`
	Fields        map[string]string `json:"fields,omitempty"`
	CorrelationID string            `json:"correlationId,omitempty"`
}

type CartHandler struct {
	*Base
	Cart *clients.CartController
}

func NewCartHandler(b *Base, cart *clients.CartController) *CartHandler {
	return &CartHandler{Base: b, Cart: cart}
}

func (h *CartHandler) View(w http.ResponseWriter, r *http.Request) {
	cart, err := h.Cart.Get(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.syncCount(w, r, cart)

	if view.WantsJSON(r) {
		view.JSON(w, http.StatusOK, cartResponse{Cart: cart})
		return
	}
	h.html(w, r, http.StatusOK, "cart", &view.Page{Title: "Cart", Data: map[string]any{"Cart": cart}})
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	req, errs := validate.AddToCartForm(parseForm(r))
	if !errs.Valid() {
		h.invalid(w, r, errs, "/products/"+req.ProductID)
		return
	}

	cart, err := h.Cart.AddItem(r.Context(), req.ProductID, req.Quantity)
	if err != nil {
		h.failed(w, r, err, "/products/"+req.ProductID)
		return
	}

	s := h.session(r)
	h.publish(r, func(ctx context.Context) error {
		return h.Events.PublishCartItemAdded(ctx, events.NewCartItemAdded(
			s.UserID, s.ID, req.ProductID, req.Quantity, cart, middleware.GetCorrelationID(r.Context())))
	})
	h.done(w, r, cart, "Added to cart.", "/cart")
}

// UpdateItem sets a line's quantity; zero removes the line.
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productId")
	qty, errs := validate.CartQuantity(parseForm(r).Get("quantity"))
	if !errs.Valid() {
		h.invalid(w, r, errs, "/cart")
		return
	}

	var (
		cart *dto.Cart
		err  error
		msg  = "Cart updated."
	)
	if qty == 0 {
		cart, err = h.Cart.RemoveItem(r.Context(), productID)
		msg = "Item removed."
	} else {
		cart, err = h.Cart.UpdateItem(r.Context(), productID, qty)
	}
	if err != nil {
		h.failed(w, r, err, "/cart")
		return
	}
	h.done(w, r, cart, msg, "/cart")
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	cart, err := h.Cart.RemoveItem(r.Context(), chi.URLParam(r, "productId"))
	if err != nil {
		h.failed(w, r, err, "/cart")
		return
	}
	h.done(w, r, cart, "Item removed.", "/cart")
}

func (h *CartHandler) ApplyDiscount(w http.ResponseWriter, r *http.Request) {
	code, errs := validate.DiscountForm(parseForm(r))
	if !errs.Valid() {
		h.invalid(w, r, errs, "/cart")
		return
	}
	cart, err := h.Cart.ApplyDiscount(r.Context(), code)
	if err != nil {
		h.failed(w, r, err, "/cart")
		return
	}
	h.done(w, r, cart, "Discount applied.", "/cart")
}

func (h *CartHandler) RemoveDiscount(w http.ResponseWriter, r *http.Request) {
	cart, err := h.Cart.RemoveDiscount(r.Context())
	if err != nil {
		h.failed(w, r, err, "/cart")
		return
	}
	h.done(w, r, cart, "Discount removed.", "/cart")
}

func (h *CartHandler) done(w http.ResponseWriter, r *http.Request, cart *dto.Cart, msg, next string) {
	s := h.session(r)
	s.CartCount = cart.Count()
	if view.WantsJSON(r) {
		h.commit(w, r, s)
		view.JSON(w, http.StatusOK, cartResponse{Cart: cart, Message: msg})
		return
	}
	s.AddFlash(session.FlashSuccess, msg)
	h.commit(w, r, s)
	h.redirect(w, r, next)
}

func (h *CartHandler) invalid(w http.ResponseWriter, r *http.Request, errs validate.Errors, back string) {
	if view.WantsJSON(r) {
		h.rollback(w, r, http.StatusUnprocessableEntity, firstError(errs), errs)
		return
	}
	h.flash(w, r, session.FlashError, firstError(errs))
	h.redirect(w, r, back)
}

func (h *CartHandler) failed(w http.ResponseWriter, r *http.Request, err error, back string) {
	if h.expired(w, r, err) {
		return
	}
	h.logError(r, err)
	if view.WantsJSON(r) {
		h.rollback(w, r, status(err), h.message(err), fieldsOf(err))
		return
	}
	h.flash(w, r, session.FlashError, h.message(err))
	h.redirect(w, r, back)
}

// rollback answers a failed in-page update with the cart as the API now
// has it. If that read fails too, the page keeps its own state.
func (h *CartHandler) rollback(w http.ResponseWriter, r *http.Request, code int, msg string, fields map[string]string) {
	resp := cartResponse{
		Error:         msg,
		Fields:        fields,
		CorrelationID: middleware.GetCorrelationID(r.Context()),
	}
	if cart, err := h.Cart.Get(r.Context()); err == nil {
		resp.Cart = cart
		h.syncCount(w, r, cart)
	}
	view.JSON(w, code, resp)
}

// syncCount keeps the header badge in step with the API's cart.
func (h *CartHandler) syncCount(w http.ResponseWriter, r *http.Request, cart *dto.Cart) {
	s := h.session(r)
	if n := cart.Count(); s.CartCount != n {
		s.CartCount = n
		h.commit(w, r, s)
	}
}
