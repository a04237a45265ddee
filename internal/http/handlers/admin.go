package handlers

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/gocarina/gocsv"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/clients"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/dto"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/session"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/validate"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/view"
)

const (
	adminPageSize  = 25
	exportPageSize = 100
)

type AdminHandler struct {
	*Base
	Admin *clients.AdminController
}

func NewAdminHandler(b *Base, admin *clients.AdminController) *AdminHandler {
	return &AdminHandler{Base: b, Admin: admin}
}

func (h *AdminHandler) Products(w http.ResponseWriter, r *http.Request) {
	h.renderProducts(w, r, http.StatusOK, nil, nil)
}

func (h *AdminHandler) renderProducts(w http.ResponseWriter, r *http.Request, code int, importErrors []string, errs validate.Errors) {
	search := strings.TrimSpace(r.URL.Query().Get("search"))
	page, err := h.Admin.ListProducts(r.Context(), dto.ProductQuery{Search: search, Page: pageParam(r), PageSize: adminPageSize})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	q := url.Values{}
	if search != "" {
		q.Set("search", search)
	}
	h.html(w, r, code, "admin_products", &view.Page{
		Title:  "Products",
		Errors: errs,
		Data: map[string]any{
			"Page":         page,
			"Query":        q,
			"ImportErrors": importErrors,
		},
	})
}

func (h *AdminHandler) NewProduct(w http.ResponseWriter, r *http.Request) {
	h.productForm(w, r, http.StatusOK, "", url.Values{"currency": {"USD"}, "stock": {"0"}, "active": {"on"}}, nil)
}

func (h *AdminHandler) EditProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.Admin.GetProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.productForm(w, r, http.StatusOK, p.ID, productValues(p), nil)
}

func (h *AdminHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	h.saveProduct(w, r, "")
}

func (h *AdminHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	h.saveProduct(w, r, chi.URLParam(r, "id"))
}

func (h *AdminHandler) saveProduct(w http.ResponseWriter, r *http.Request, id string) {
	form := parseForm(r)
	in, errs := validate.ProductForm(form)

	var err error
	if errs.Valid() {
		var p *dto.Product
		if id == "" {
			p, err = h.Admin.CreateProduct(r.Context(), in)
		} else {
			p, err = h.Admin.UpdateProduct(r.Context(), id, in)
		}
		if err == nil {
			h.flash(w, r, session.FlashSuccess, fmt.Sprintf("Saved %s.", p.Name))
			h.redirect(w, r, "/admin/products")
			return
		}
		if !h.formError(w, r, err, errs) {
			return
		}
	}
	h.productForm(w, r, formStatus(err), id, form, errs)
}

func (h *AdminHandler) productForm(w http.ResponseWriter, r *http.Request, code int, id string, form url.Values, errs validate.Errors) {
	title := "New product"
	if id != "" {
		title = "Edit product"
	}
	h.html(w, r, code, "admin_product_form", &view.Page{
		Title:  title,
		Form:   form,
		Errors: errs,
		Data:   map[string]any{"ID": id},
	})
}

func (h *AdminHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.Admin.DeleteProduct(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.failAction(w, r, err, "/admin/products")
		return
	}
	h.flash(w, r, session.FlashSuccess, "Product deleted.")
	h.redirect(w, r, "/admin/products")
}

// ExportProducts streams the whole catalog as CSV. All pages are fetched
// before the first byte is written so a failure can still be reported.
func (h *AdminHandler) ExportProducts(w http.ResponseWriter, r *http.Request) {
	var all []dto.Product
	for page := 1; ; page++ {
		p, err := h.Admin.ListProducts(r.Context(), dto.ProductQuery{Page: page, PageSize: exportPageSize})
		if err != nil {
			h.failAction(w, r, err, "/admin/products")
			return
		}
		all = append(all, p.Items...)
		if len(p.Items) == 0 || page >= p.Pages() {
			break
		}
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="products.csv"`)
	if err := gocsv.Marshal(&all, w); err != nil {
		h.logError(r, fmt.Errorf("write products csv: %w", err))
	}
}

// importRow is one CSV line. Columns match the export; a non-empty id
// updates that product, otherwise a new one is created.
type importRow struct {
	ID          string `csv:"id"`
	SKU         string `csv:"sku"`
	Name        string `csv:"name"`
	Description string `csv:"description"`
	Price       string `csv:"price"`
	Currency    string `csv:"currency"`
	Stock       string `csv:"stock"`
	Category    string `csv:"category"`
	ImageURL    string `csv:"image_url"`
	Active      string `csv:"active"`
}

func (row importRow) values() url.Values {
	return url.Values{
		"sku":         {row.SKU},
		"name":        {row.Name},
		"description": {row.Description},
		"price":       {row.Price},
		"currency":    {row.Currency},
		"stock":       {row.Stock},
		"category":    {row.Category},
		"image_url":   {row.ImageURL},
		"active":      {row.Active},
	}
}

// ImportProducts creates or updates products from an uploaded CSV. Bad rows
// are reported and skipped; the rest are still imported.
func (h *AdminHandler) ImportProducts(w http.ResponseWriter, r *http.Request) {
	file, _, err := r.FormFile("file")
	if err != nil {
		errs := validate.Errors{}
		errs.Add("file", "Choose a CSV file to import.")
		h.renderProducts(w, r, http.StatusUnprocessableEntity, nil, errs)
		return
	}
	defer file.Close()

	var rows []importRow
	if err := gocsv.Unmarshal(file, &rows); err != nil {
		errs := validate.Errors{}
		errs.Add("file", "The file is not a valid product CSV.")
		h.renderProducts(w, r, http.StatusUnprocessableEntity, nil, errs)
		return
	}

	var (
		imported int
		problems []string
	)
	for i, row := range rows {
		line := i + 2 // header is line 1
		in, errs := validate.ProductForm(row.values())
		if !errs.Valid() {
			for _, f := range errs.Fields() {
				problems = append(problems, fmt.Sprintf("Line %d: %s: %s", line, f, errs[f]))
			}
			continue
		}

		var err error
		if id := strings.TrimSpace(row.ID); id != "" {
			_, err = h.Admin.UpdateProduct(r.Context(), id, in)
		} else {
			_, err = h.Admin.CreateProduct(r.Context(), in)
		}
		if err != nil {
			if h.expired(w, r, err) {
				return
			}
			h.logError(r, err)
			problems = append(problems, fmt.Sprintf("Line %d: %s", line, h.message(err)))
			continue
		}
		imported++
	}

	summary := fmt.Sprintf("Imported %d of %d products.", imported, len(rows))
	if len(problems) > 0 {
		s := h.session(r)
		s.AddFlash(session.FlashInfo, summary)
		h.commit(w, r, s)
		h.renderProducts(w, r, http.StatusOK, problems, nil)
		return
	}
	h.flash(w, r, session.FlashSuccess, summary)
	h.redirect(w, r, "/admin/products")
}

func (h *AdminHandler) Orders(w http.ResponseWriter, r *http.Request) {
	status := dto.OrderStatus(r.URL.Query().Get("status"))
	if !status.Valid() {
		status = ""
	}
	page, err := h.Admin.ListOrders(r.Context(), status, pageParam(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	q := url.Values{}
	if status != "" {
		q.Set("status", string(status))
	}
	h.html(w, r, http.StatusOK, "admin_orders", &view.Page{
		Title: "Orders",
		Data:  map[string]any{"Page": page, "Status": string(status), "Query": q},
	})
}

func (h *AdminHandler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	status, errs := validate.OrderStatusForm(parseForm(r))
	if !errs.Valid() {
		h.flash(w, r, session.FlashError, firstError(errs))
		h.back(w, r, "/admin/orders")
		return
	}
	order, err := h.Admin.UpdateOrderStatus(r.Context(), chi.URLParam(r, "id"), status)
	if err != nil {
		h.failAction(w, r, err, "/admin/orders")
		return
	}
	h.flash(w, r, session.FlashSuccess, fmt.Sprintf("Order %s is now %s.", orderLabel(order), order.Status))
	h.back(w, r, "/admin/orders")
}

func (h *AdminHandler) Users(w http.ResponseWriter, r *http.Request) {
	page, err := h.Admin.ListUsers(r.Context(), pageParam(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.html(w, r, http.StatusOK, "admin_users", &view.Page{
		Title: "Users",
		Data:  map[string]any{"Page": page, "Query": url.Values{}},
	})
}

func (h *AdminHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	u, err := h.Admin.UpdateUser(r.Context(), chi.URLParam(r, "id"), validate.UserFlagsForm(parseForm(r)))
	if err != nil {
		h.failAction(w, r, err, "/admin/users")
		return
	}
	h.flash(w, r, session.FlashSuccess, fmt.Sprintf("Updated %s.", u.Email))
	h.back(w, r, "/admin/users")
}

func (h *AdminHandler) Settings(w http.ResponseWriter, r *http.Request) {
	s, err := h.Admin.GetSettings(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.html(w, r, http.StatusOK, "admin_settings", &view.Page{Title: "Settings", Form: settingsValues(s)})
}

func (h *AdminHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	form := parseForm(r)
	in, errs := validate.SettingsForm(form)

	var err error
	if errs.Valid() {
		if _, err = h.Admin.UpdateSettings(r.Context(), in); err == nil {
			h.flash(w, r, session.FlashSuccess, "Settings saved.")
			h.redirect(w, r, "/admin/settings")
			return
		}
		if !h.formError(w, r, err, errs) {
			return
		}
	}
	h.html(w, r, formStatus(err), "admin_settings", &view.Page{Title: "Settings", Form: form, Errors: errs})
}

func orderLabel(o *dto.Order) string {
	if o.Number != "" {
		return "#" + o.Number
	}
	return o.ID
}

func productValues(p *dto.Product) url.Values {
	v := url.Values{
		"sku":         {p.SKU},
		"name":        {p.Name},
		"description": {p.Description},
		"price":       {strconv.FormatFloat(p.Price, 'f', 2, 64)},
		"currency":    {p.Currency},
		"stock":       {strconv.Itoa(p.Stock)},
		"category":    {p.Category},
		"image_url":   {p.ImageURL},
	}
	if p.Active {
		v.Set("active", "on")
	}
	return v
}

func settingsValues(s *dto.AdminSettings) url.Values {
	v := url.Values{
		"store_name":              {s.StoreName},
		"support_email":           {s.SupportEmail},
		"currency":                {s.Currency},
		"tax_rate":                {strconv.FormatFloat(s.TaxRate, 'f', -1, 64)},
		"free_shipping_threshold": {strconv.FormatFloat(s.FreeShippingThreshold, 'f', 2, 64)},
	}
	if s.MaintenanceMode {
		v.Set("maintenance_mode", "on")
	}
	return v
}
