package clients

import (
	"context"
	"net/http"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/dto"
)

type AuthController struct{ c *Client }

func NewAuthController(c *Client) *AuthController { return &AuthController{c: c} }

func (ac *AuthController) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResult, error) {
	var out dto.LoginResult
	if err := ac.c.Do(ctx, http.MethodPost, "/auth/login", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (ac *AuthController) Register(ctx context.Context, req dto.RegisterRequest) (*dto.LoginResult, error) {
	var out dto.LoginResult
	if err := ac.c.Do(ctx, http.MethodPost, "/auth/register", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout revokes the token carried by ctx.
func (ac *AuthController) Logout(ctx context.Context) error {
	return ac.c.Do(ctx, http.MethodPost, "/auth/logout", nil, nil, nil)
}

func (ac *AuthController) RequestPasswordReset(ctx context.Context, email string) error {
	return ac.c.Do(ctx, http.MethodPost, "/auth/password-reset", nil, dto.PasswordResetRequest{Email: email}, nil)
}
