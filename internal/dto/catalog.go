package dto

import "time"

type Product struct {
	ID          string    `json:"id" csv:"id"`
	SKU         string    `json:"sku" csv:"sku"`
	Name        string    `json:"name" csv:"name"`
	Description string    `json:"description" csv:"description"`
	Price       float64   `json:"price" csv:"price"`
	Currency    string    `json:"currency" csv:"currency"`
	Stock       int       `json:"stock" csv:"stock"`
	Category    string    `json:"category" csv:"category"`
	ImageURL    string    `json:"image_url" csv:"image_url"`
	Active      bool      `json:"active" csv:"active"`
	CreatedAt   time.Time `json:"created_at" csv:"-"`
	UpdatedAt   time.Time `json:"updated_at" csv:"-"`
}

func (p Product) InStock() bool { return p.Stock > 0 }

type ProductPage struct {
	Items    []Product `json:"items"`
	Total    int       `json:"total"`
	Page     int       `json:"page"`
	PageSize int       `json:"page_size"`
}

// Pages returns the number of pages needed for Total items.
func (p ProductPage) Pages() int { return pageCount(p.Total, p.PageSize) }

type Category struct {
	Slug string `json:"slug"`
	Name string `json:"name"`
}

type ProductQuery struct {
	Search   string
	Category string
	Sort     string
	Page     int
	PageSize int
}

// ProductInput is the admin create/update body.
type ProductInput struct {
	SKU         string  `json:"sku" csv:"sku"`
	Name        string  `json:"name" csv:"name"`
	Description string  `json:"description,omitempty" csv:"description"`
	Price       float64 `json:"price" csv:"price"`
	Currency    string  `json:"currency" csv:"currency"`
	Stock       int     `json:"stock" csv:"stock"`
	Category    string  `json:"category,omitempty" csv:"category"`
	ImageURL    string  `json:"image_url,omitempty" csv:"image_url"`
	Active      bool    `json:"active" csv:"active"`
}
