package handlers

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/clients"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/session"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/view"
)

type OrdersHandler struct {
	*Base
	Orders *clients.OrdersController
}

func NewOrdersHandler(b *Base, orders *clients.OrdersController) *OrdersHandler {
	return &OrdersHandler{Base: b, Orders: orders}
}

func (h *OrdersHandler) List(w http.ResponseWriter, r *http.Request) {
	page, err := h.Orders.List(r.Context(), pageParam(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if view.WantsJSON(r) {
		view.JSON(w, http.StatusOK, page)
		return
	}
	h.html(w, r, http.StatusOK, "orders", &view.Page{Title: "Orders", Data: map[string]any{"Page": page}})
}

func (h *OrdersHandler) Get(w http.ResponseWriter, r *http.Request) {
	order, err := h.Orders.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if view.WantsJSON(r) {
		view.JSON(w, http.StatusOK, order)
		return
	}
	h.html(w, r, http.StatusOK, "order", &view.Page{Title: "Order " + order.Number, Data: map[string]any{"Order": order}})
}

// Cancel asks the API to cancel; whether the order may still be cancelled is
// the API's decision.
func (h *OrdersHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	back := "/orders/" + url.PathEscape(id)

	order, err := h.Orders.Cancel(r.Context(), id)
	if err != nil {
		h.failAction(w, r, err, back)
		return
	}
	if view.WantsJSON(r) {
		view.JSON(w, http.StatusOK, order)
		return
	}
	h.flash(w, r, session.FlashSuccess, "Your order has been cancelled.")
	h.redirect(w, r, back)
}
