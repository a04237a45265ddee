package clients

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/dto"
)

type OrdersController struct{ c *Client }

func NewOrdersController(c *Client) *OrdersController { return &OrdersController{c: c} }

func (oc *OrdersController) Create(ctx context.Context, req dto.CreateOrderRequest) (*dto.Order, error) {
	var out dto.Order
	if err := oc.c.Do(ctx, http.MethodPost, "/orders", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (oc *OrdersController) List(ctx context.Context, page int) (*dto.OrderPage, error) {
	var out dto.OrderPage
	if err := oc.c.Do(ctx, http.MethodGet, "/orders", pageValues(page), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (oc *OrdersController) Get(ctx context.Context, id string) (*dto.Order, error) {
	var out dto.Order
	if err := oc.c.Do(ctx, http.MethodGet, pathf("/orders/%s", id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (oc *OrdersController) Cancel(ctx context.Context, id string) (*dto.Order, error) {
	var out dto.Order
	if err := oc.c.Do(ctx, http.MethodPost, pathf("/orders/%s/cancel", id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func pageValues(page int) url.Values {
	v := url.Values{}
	if page > 0 {
		v.Set("page", strconv.Itoa(page))
	}
	return v
}
