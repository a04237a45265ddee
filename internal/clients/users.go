package clients

import (
	"context"
	"net/http"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/dto"
)

type UserController struct{ c *Client }

func NewUserController(c *Client) *UserController { return &UserController{c: c} }

func (uc *UserController) Me(ctx context.Context) (*dto.User, error) {
	var out dto.User
	if err := uc.c.Do(ctx, http.MethodGet, "/users/me", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (uc *UserController) UpdateProfile(ctx context.Context, req dto.UpdateProfileRequest) (*dto.User, error) {
	var out dto.User
	if err := uc.c.Do(ctx, http.MethodPut, "/users/me", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (uc *UserController) ChangePassword(ctx context.Context, req dto.ChangePasswordRequest) error {
	return uc.c.Do(ctx, http.MethodPut, "/users/me/password", nil, req, nil)
}

func (uc *UserController) ListAddresses(ctx context.Context) ([]dto.Address, error) {
	var out []dto.Address
	if err := uc.c.Do(ctx, http.MethodGet, "/users/me/addresses", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (uc *UserController) CreateAddress(ctx context.Context, a dto.Address) (*dto.Address, error) {
	var out dto.Address
	if err := uc.c.Do(ctx, http.MethodPost, "/users/me/addresses", nil, a, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (uc *UserController) UpdateAddress(ctx context.Context, id string, a dto.Address) (*dto.Address, error) {
	var out dto.Address
	if err := uc.c.Do(ctx, http.MethodPut, pathf("/users/me/addresses/%s", id), nil, a, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (uc *UserController) DeleteAddress(ctx context.Context, id string) error {
	return uc.c.Do(ctx, http.MethodDelete, pathf("/users/me/addresses/%s", id), nil, nil, nil)
}
