package clients

import (
	"context"
	"net/http"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/dto"
)

// AdminController wraps the /admin API surface. Every call needs an admin token.
type AdminController struct{ c *Client }

func NewAdminController(c *Client) *AdminController { return &AdminController{c: c} }

func (ac *AdminController) ListProducts(ctx context.Context, q dto.ProductQuery) (*dto.ProductPage, error) {
	var out dto.ProductPage
	if err := ac.c.Do(ctx, http.MethodGet, "/admin/products", productQueryValues(q), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (ac *AdminController) GetProduct(ctx context.Context, id string) (*dto.Product, error) {
	var out dto.Product
	if err := ac.c.Do(ctx, http.MethodGet, pathf("/admin/products/%s", id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (ac *AdminController) CreateProduct(ctx context.Context, in dto.ProductInput) (*dto.Product, error) {
	var out dto.Product
	if err := ac.c.Do(ctx, http.MethodPost, "/admin/products", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (ac *AdminController) UpdateProduct(ctx context.Context, id string, in dto.ProductInput) (*dto.Product, error) {
	var out dto.Product
	if err := ac.c.Do(ctx, http.MethodPut, pathf("/admin/products/%s", id), nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (ac *AdminController) DeleteProduct(ctx context.Context, id string) error {
	return ac.c.Do(ctx, http.MethodDelete, pathf("/admin/products/%s", id), nil, nil, nil)
}

func (ac *AdminController) ListOrders(ctx context.Context, status dto.OrderStatus, page int) (*dto.OrderPage, error) {
	q := pageValues(page)
	if status != "" {
		q.Set("status", string(status))
	}
	var out dto.OrderPage
	if err := ac.c.Do(ctx, http.MethodGet, "/admin/orders", q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (ac *AdminController) UpdateOrderStatus(ctx context.Context, id string, status dto.OrderStatus) (*dto.Order, error) {
	var out dto.Order
	body := dto.UpdateOrderStatusRequest{Status: status}
	if err := ac.c.Do(ctx, http.MethodPatch, pathf("/admin/orders/%s", id), nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (ac *AdminController) ListUsers(ctx context.Context, page int) (*dto.UserPage, error) {
	var out dto.UserPage
	if err := ac.c.Do(ctx, http.MethodGet, "/admin/users", pageValues(page), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (ac *AdminController) UpdateUser(ctx context.Context, id string, req dto.UpdateUserRequest) (*dto.User, error) {
	var out dto.User
	if err := ac.c.Do(ctx, http.MethodPatch, pathf("/admin/users/%s", id), nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (ac *AdminController) GetSettings(ctx context.Context) (*dto.AdminSettings, error) {
	var out dto.AdminSettings
	if err := ac.c.Do(ctx, http.MethodGet, "/admin/settings", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (ac *AdminController) UpdateSettings(ctx context.Context, s dto.AdminSettings) (*dto.AdminSettings, error) {
	var out dto.AdminSettings
	if err := ac.c.Do(ctx, http.MethodPut, "/admin/settings", nil, s, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
