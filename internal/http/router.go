package http

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/clients"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/config"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/events"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/http/handlers"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/middleware"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/session"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/view"
)

// maxBodyBytes caps request bodies, CSV uploads included.
const maxBodyBytes = 8 << 20

type Deps struct {
	Logger *log.Logger
	Cfg    config.Config

	Render   *view.Renderer
	Sessions *session.Manager
	Events   events.Publisher

	Auth     *clients.AuthController
	Products *clients.ProductController
	Cart     *clients.CartController
	Orders   *clients.OrdersController
	Users    *clients.UserController
	Admin    *clients.AdminController

	HealthProbes []clients.HealthProbe
}

func NewRouter(d Deps) http.Handler {
	if d.Events == nil {
		d.Events = events.NopPublisher{}
	}
	base := &handlers.Base{Render: d.Render, Sessions: d.Sessions, Logger: d.Logger, Events: d.Events}

	health := &handlers.HealthHandler{Probes: d.HealthProbes}
	store := handlers.NewStoreHandler(base, d.Products)
	cart := handlers.NewCartHandler(base, d.Cart)
	checkout := handlers.NewCheckoutHandler(base, d.Cart, d.Users, d.Orders)
	orders := handlers.NewOrdersHandler(base, d.Orders)
	account := handlers.NewAccountHandler(base, d.Users)
	auth := handlers.NewAuthHandler(base, d.Auth, d.Cart)
	admin := handlers.NewAdminHandler(base, d.Admin)

	notFound := func(w http.ResponseWriter, r *http.Request) {
		d.Render.HTML(w, r, http.StatusNotFound, "not_found", &view.Page{Title: "Not found"})
	}
	forbidden := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		d.Render.HTML(w, r, http.StatusForbidden, "forbidden", &view.Page{Title: "Access denied"})
	})

	r := chi.NewRouter()
	// Middlewares (outer -> inner)
	r.Use(middleware.CorrelationID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logging(d.Logger))
	r.Use(middleware.Recover(d.Logger))
	r.Use(chimw.RequestSize(maxBodyBytes))

	// Health
	r.Get("/health", health.Service)
	r.Get("/health/upstreams", health.Upstreams)

	r.Handle("/static/*", http.StripPrefix("/static/", view.Static()))

	r.Group(func(r chi.Router) {
		r.Use(middleware.CORS(d.Cfg.CORSAllowOrigins))
		r.Use(middleware.Sessions(d.Sessions, d.Logger))
		r.Use(middleware.CSRF)
		// registered on the group so unknown pages still see the session
		r.NotFound(notFound)

		// Storefront
		r.Get("/", store.Home)
		r.Get("/products", store.ListProducts)
		r.Get("/products/{id}", store.GetProduct)

		// Auth
		r.Get("/login", auth.LoginForm)
		r.Post("/login", auth.Login)
		r.Get("/register", auth.RegisterForm)
		r.Post("/register", auth.Register)
		r.Post("/logout", auth.Logout)
		r.Get("/forgot-password", auth.ForgotForm)
		r.Post("/forgot-password", auth.Forgot)

		// Signed-in customer pages
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)

			r.Get("/cart", cart.View)
			r.Post("/cart/items", cart.AddItem)
			r.Post("/cart/items/{productId}", cart.UpdateItem)
			r.Post("/cart/items/{productId}/delete", cart.RemoveItem)
			r.Post("/cart/discount", cart.ApplyDiscount)
			r.Post("/cart/discount/delete", cart.RemoveDiscount)

			r.Get("/checkout", checkout.Show)
			r.Post("/checkout/shipping", checkout.Quote)
			r.Post("/checkout", checkout.PlaceOrder)

			r.Get("/orders", orders.List)
			r.Get("/orders/{id}", orders.Get)
			r.Post("/orders/{id}/cancel", orders.Cancel)

			r.Get("/account", account.Show)
			r.Post("/account", account.UpdateProfile)
			r.Post("/account/password", account.ChangePassword)
			r.Get("/account/addresses", account.Addresses)
			r.Post("/account/addresses", account.CreateAddress)
			r.Post("/account/addresses/{id}", account.UpdateAddress)
			r.Post("/account/addresses/{id}/delete", account.DeleteAddress)
		})

		// Admin console
		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireAdmin(forbidden))

			r.Get("/", func(w http.ResponseWriter, r *http.Request) {
				http.Redirect(w, r, "/admin/products", http.StatusSeeOther)
			})
			r.Get("/products", admin.Products)
			r.Get("/products/new", admin.NewProduct)
			r.Post("/products", admin.CreateProduct)
			r.Get("/products/export.csv", admin.ExportProducts)
			r.Post("/products/import", admin.ImportProducts)
			r.Get("/products/{id}/edit", admin.EditProduct)
			r.Post("/products/{id}", admin.UpdateProduct)
			r.Post("/products/{id}/delete", admin.DeleteProduct)

			r.Get("/orders", admin.Orders)
			r.Post("/orders/{id}/status", admin.UpdateOrderStatus)

			r.Get("/users", admin.Users)
			r.Post("/users/{id}", admin.UpdateUser)

			r.Get("/settings", admin.Settings)
			r.Post("/settings", admin.UpdateSettings)
		})
	})

	return r
}
