package handlers

import (
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/clients"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/dto"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/middleware"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/view"
)

const (
	featuredCount   = 8
	catalogPageSize = 12
)

type StoreHandler struct {
	*Base
	Products *clients.ProductController
}

func NewStoreHandler(b *Base, products *clients.ProductController) *StoreHandler {
	return &StoreHandler{Base: b, Products: products}
}

// Home loads featured products and categories in parallel. A missing
// category list only hides the category links.
func (h *StoreHandler) Home(w http.ResponseWriter, r *http.Request) {
	var (
		wg         sync.WaitGroup
		featured   *dto.ProductPage
		categories []dto.Category
		prodErr    error
		catErr     error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		featured, prodErr = h.Products.List(r.Context(), dto.ProductQuery{Sort: "featured", PageSize: featuredCount})
	}()
	go func() {
		defer wg.Done()
		categories, catErr = h.Products.Categories(r.Context())
	}()
	wg.Wait()

	if prodErr != nil {
		h.fail(w, r, prodErr)
		return
	}
	if catErr != nil {
		h.Logger.Printf("load categories: %v cid=%s", catErr, middleware.GetCorrelationID(r.Context()))
	}

	h.html(w, r, http.StatusOK, "home", &view.Page{Data: map[string]any{
		"Featured":   featured.Items,
		"Categories": categories,
	}})
}

func (h *StoreHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := dto.ProductQuery{
		Search:   strings.TrimSpace(q.Get("search")),
		Category: strings.TrimSpace(q.Get("category")),
		Sort:     q.Get("sort"),
		Page:     pageParam(r),
		PageSize: catalogPageSize,
	}

	page, err := h.Products.List(r.Context(), query)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	categories, err := h.Products.Categories(r.Context())
	if err != nil {
		h.Logger.Printf("load categories: %v cid=%s", err, middleware.GetCorrelationID(r.Context()))
	}

	if view.WantsJSON(r) {
		view.JSON(w, http.StatusOK, page)
		return
	}

	title := "Products"
	if query.Search != "" {
		title = "Search: " + query.Search
	}
	h.html(w, r, http.StatusOK, "products", &view.Page{Title: title, Data: map[string]any{
		"Page":       page,
		"Categories": categories,
		"Search":     query.Search,
		"Category":   query.Category,
		"Sort":       query.Sort,
		"Query":      filterValues(query),
	}})
}

func (h *StoreHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.Products.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if view.WantsJSON(r) {
		view.JSON(w, http.StatusOK, p)
		return
	}
	h.html(w, r, http.StatusOK, "product", &view.Page{Title: p.Name, Data: map[string]any{"Product": p}})
}

// filterValues are the catalog filters carried across pagination links.
func filterValues(q dto.ProductQuery) url.Values {
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
	return v
}
