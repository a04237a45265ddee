package clients

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/dto"
)

type ProductController struct{ c *Client }

func NewProductController(c *Client) *ProductController { return &ProductController{c: c} }

func (pc *ProductController) List(ctx context.Context, q dto.ProductQuery) (*dto.ProductPage, error) {
	var out dto.ProductPage
	if err := pc.c.Do(ctx, http.MethodGet, "/products", productQueryValues(q), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (pc *ProductController) Get(ctx context.Context, id string) (*dto.Product, error) {
	var out dto.Product
	if err := pc.c.Do(ctx, http.MethodGet, pathf("/products/%s", id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (pc *ProductController) Categories(ctx context.Context) ([]dto.Category, error) {
	var out []dto.Category
	if err := pc.c.Do(ctx, http.MethodGet, "/categories", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func productQueryValues(q dto.ProductQuery) url.Values {
	v := url.Values{}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.Category != "" {
		v.Set("category", q.Category)
	}
	if q.Sort != "" {
		v.Set("sort", q.Sort)
	}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.PageSize > 0 {
		v.Set("page_size", strconv.Itoa(q.PageSize))
	}
	return v
}
