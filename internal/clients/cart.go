package clients

import (
	"context"
	"net/http"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/dto"
)

type CartController struct{ c *Client }

func NewCartController(c *Client) *CartController { return &CartController{c: c} }

func (cc *CartController) Get(ctx context.Context) (*dto.Cart, error) {
	return cc.cart(ctx, http.MethodGet, "/cart", nil)
}

func (cc *CartController) AddItem(ctx context.Context, productID string, quantity int) (*dto.Cart, error) {
	return cc.cart(ctx, http.MethodPost, "/cart/items", dto.AddCartItemRequest{ProductID: productID, Quantity: quantity})
}

func (cc *CartController) UpdateItem(ctx context.Context, productID string, quantity int) (*dto.Cart, error) {
	return cc.cart(ctx, http.MethodPut, pathf("/cart/items/%s", productID), dto.UpdateCartItemRequest{Quantity: quantity})
}

func (cc *CartController) RemoveItem(ctx context.Context, productID string) (*dto.Cart, error) {
	return cc.cart(ctx, http.MethodDelete, pathf("/cart/items/%s", productID), nil)
}

func (cc *CartController) Clear(ctx context.Context) error {
	return cc.c.Do(ctx, http.MethodDelete, "/cart", nil, nil, nil)
}

func (cc *CartController) ApplyDiscount(ctx context.Context, code string) (*dto.Cart, error) {
	return cc.cart(ctx, http.MethodPost, "/cart/discount", dto.ApplyDiscountRequest{Code: code})
}

func (cc *CartController) RemoveDiscount(ctx context.Context) (*dto.Cart, error) {
	return cc.cart(ctx, http.MethodDelete, "/cart/discount", nil)
}

func (cc *CartController) CalculateShipping(ctx context.Context, req dto.ShippingRequest) (*dto.ShippingQuote, error) {
	var out dto.ShippingQuote
	if err := cc.c.Do(ctx, http.MethodPost, "/cart/shipping", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (cc *CartController) cart(ctx context.Context, method, path string, in any) (*dto.Cart, error) {
	var out dto.Cart
	if err := cc.c.Do(ctx, method, path, nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
