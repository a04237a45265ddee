package validate

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/clients"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/dto"
)

func TestLoginForm(t *testing.T) {
	req, errs := LoginForm(url.Values{"email": {"  Jane@Example.COM "}, "password": {"secret"}})
	assert.True(t, errs.Valid())
	assert.Equal(t, "jane@example.com", req.Email)

	_, errs = LoginForm(url.Values{"email": {"not-an-email"}})
	assert.True(t, errs.Has("email"))
	assert.True(t, errs.Has("password"))
}

func TestRegisterForm(t *testing.T) {
	cases := map[string]struct {
		values    url.Values
		wantField string
	}{
		"valid": {
			values: url.Values{"name": {"Jane"}, "email": {"jane@example.com"}, "password": {"abcdef12"}, "password_confirm": {"abcdef12"}},
		},
		"short password": {
			values:    url.Values{"name": {"Jane"}, "email": {"jane@example.com"}, "password": {"ab1"}, "password_confirm": {"ab1"}},
			wantField: "password",
		},
		"password without digit": {
			values:    url.Values{"name": {"Jane"}, "email": {"jane@example.com"}, "password": {"abcdefgh"}, "password_confirm": {"abcdefgh"}},
			wantField: "password",
		},
		"confirmation mismatch": {
			values:    url.Values{"name": {"Jane"}, "email": {"jane@example.com"}, "password": {"abcdef12"}, "password_confirm": {"abcdef13"}},
			wantField: "password_confirm",
		},
		"missing name": {
			values:    url.Values{"email": {"jane@example.com"}, "password": {"abcdef12"}, "password_confirm": {"abcdef12"}},
			wantField: "name",
		},
		"email without domain dot": {
			values:    url.Values{"name": {"Jane"}, "email": {"jane@localhost"}, "password": {"abcdef12"}, "password_confirm": {"abcdef12"}},
			wantField: "email",
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, errs := RegisterForm(tc.values)
			if tc.wantField == "" {
				assert.True(t, errs.Valid(), "unexpected errors: %v", errs)
				return
			}
			assert.True(t, errs.Has(tc.wantField), "expected error on %s, got %v", tc.wantField, errs)
		})
	}
}

func TestAddressForm(t *testing.T) {
	a, errs := AddressForm(url.Values{
		"shipping_line1":       {"1 Main St"},
		"shipping_city":        {"Springfield"},
		"shipping_postal_code": {"ab1 2cd"},
		"shipping_country":     {"gb"},
	}, "shipping_")
	require.True(t, errs.Valid(), "%v", errs)
	assert.Equal(t, "AB1 2CD", a.PostalCode)
	assert.Equal(t, "GB", a.Country)

	_, errs = AddressForm(url.Values{"country": {"GBR"}, "postal_code": {"!"}}, "")
	assert.Equal(t, []string{"city", "country", "line1", "postal_code"}, errs.Fields())
}

func TestCartQuantity(t *testing.T) {
	n, errs := CartQuantity("0")
	assert.True(t, errs.Valid())
	assert.Equal(t, 0, n)

	n, errs = CartQuantity(" 12 ")
	assert.True(t, errs.Valid())
	assert.Equal(t, 12, n)

	for _, bad := range []string{"", "-1", "100", "1.5", "abc"} {
		_, errs = CartQuantity(bad)
		assert.True(t, errs.Has("quantity"), "expected %q to be rejected", bad)
	}
}

func TestAddToCartFormDefaultsToOne(t *testing.T) {
	req, errs := AddToCartForm(url.Values{"product_id": {"p1"}})
	assert.True(t, errs.Valid())
	assert.Equal(t, 1, req.Quantity)

	_, errs = AddToCartForm(url.Values{"product_id": {"p1"}, "quantity": {"0"}})
	assert.True(t, errs.Has("quantity"))
}

func TestCheckoutForm(t *testing.T) {
	t.Run("saved address", func(t *testing.T) {
		req, errs := CheckoutForm(url.Values{
			"address_id":      {"addr-1"},
			"shipping_method": {"express"},
			"payment_method":  {"card"},
			"accept_terms":    {"on"},
		})
		require.True(t, errs.Valid(), "%v", errs)
		assert.Nil(t, req.Address)
		assert.Equal(t, "addr-1", req.AddressID)
	})

	t.Run("inline address required without id", func(t *testing.T) {
		_, errs := CheckoutForm(url.Values{
			"shipping_method": {"standard"},
			"payment_method":  {"cash_on_delivery"},
			"accept_terms":    {"on"},
		})
		assert.True(t, errs.Has("shipping_line1"))
		assert.True(t, errs.Has("shipping_country"))
	})

	t.Run("unknown methods and terms", func(t *testing.T) {
		_, errs := CheckoutForm(url.Values{"address_id": {"a"}, "shipping_method": {"drone"}, "payment_method": {"iou"}})
		assert.True(t, errs.Has("shipping_method"))
		assert.True(t, errs.Has("payment_method"))
		assert.True(t, errs.Has("accept_terms"))
	})
}

func TestProductForm(t *testing.T) {
	in, errs := ProductForm(url.Values{
		"sku": {"SKU-1"}, "name": {"Mug"}, "price": {"12.50"}, "stock": {"4"}, "active": {"on"},
	})
	require.True(t, errs.Valid(), "%v", errs)
	assert.Equal(t, 12.5, in.Price)
	assert.Equal(t, "USD", in.Currency)
	assert.True(t, in.Active)

	cases := map[string]url.Values{
		"price":     {"sku": {"S1"}, "name": {"x"}, "price": {"0"}, "stock": {"1"}},
		"stock":     {"sku": {"S1"}, "name": {"x"}, "price": {"1"}, "stock": {"-2"}},
		"currency":  {"sku": {"S1"}, "name": {"x"}, "price": {"1"}, "stock": {"1"}, "currency": {"EURO"}},
		"image_url": {"sku": {"S1"}, "name": {"x"}, "price": {"1"}, "stock": {"1"}, "image_url": {"ftp://x/y.png"}},
		"sku":       {"sku": {"bad sku"}, "name": {"x"}, "price": {"1"}, "stock": {"1"}},
	}
	for field, values := range cases {
		_, errs := ProductForm(values)
		assert.True(t, errs.Has(field), "expected error on %s, got %v", field, errs)
	}

	_, errs = ProductForm(url.Values{"sku": {"S1"}, "name": {"x"}, "price": {"1.999"}, "stock": {"1"}})
	assert.Equal(t, "At most two decimal places.", errs.Get("price"))

	for _, price := range []string{"1e-3", "0x1p-3", "1.5e-2", "1E2", "Inf", "NaN", ".5", "5.", "+3", "1_000"} {
		_, errs = ProductForm(url.Values{"sku": {"S1"}, "name": {"x"}, "price": {price}, "stock": {"1"}})
		assert.Equal(t, "Enter a number.", errs.Get("price"), "price=%q", price)
	}
}

func TestSettingsForm(t *testing.T) {
	s, errs := SettingsForm(url.Values{
		"store_name": {"Shop"}, "support_email": {"help@shop.io"}, "currency": {"eur"},
		"tax_rate": {"21"}, "free_shipping_threshold": {"0"}, "maintenance_mode": {"true"},
	})
	require.True(t, errs.Valid(), "%v", errs)
	assert.Equal(t, "EUR", s.Currency)
	assert.Equal(t, 21.0, s.TaxRate)
	assert.True(t, s.MaintenanceMode)

	_, errs = SettingsForm(url.Values{"store_name": {"Shop"}, "support_email": {"help@shop.io"}, "currency": {"EUR"}, "tax_rate": {"101"}, "free_shipping_threshold": {"-5"}})
	assert.True(t, errs.Has("tax_rate"))
	assert.True(t, errs.Has("free_shipping_threshold"))

	for _, threshold := range []string{"1e-3", "0x1p-3", "5e1"} {
		_, errs = SettingsForm(url.Values{"store_name": {"Shop"}, "support_email": {"help@shop.io"}, "currency": {"EUR"}, "tax_rate": {"21"}, "free_shipping_threshold": {threshold}})
		assert.Equal(t, "Enter a number.", errs.Get("free_shipping_threshold"), "threshold=%q", threshold)
	}

	s, errs = SettingsForm(url.Values{"store_name": {"Shop"}, "support_email": {"help@shop.io"}, "currency": {"EUR"}, "tax_rate": {"21"}, "free_shipping_threshold": {"49.99"}})
	require.True(t, errs.Valid(), "%v", errs)
	assert.Equal(t, 49.99, s.FreeShippingThreshold)
}

func TestOrderStatusForm(t *testing.T) {
	status, errs := OrderStatusForm(url.Values{"status": {"shipped"}})
	assert.True(t, errs.Valid())
	assert.Equal(t, dto.OrderShipped, status)

	_, errs = OrderStatusForm(url.Values{"status": {"lost"}})
	assert.True(t, errs.Has("status"))
}

func TestPasswordForm(t *testing.T) {
	_, errs := PasswordForm(url.Values{"current_password": {"abcdef12"}, "new_password": {"abcdef12"}, "new_password_confirm": {"abcdef12"}})
	assert.True(t, errs.Has("new_password"))
}

func TestMergeAPI(t *testing.T) {
	errs := Errors{"email": "local message"}
	merged := errs.MergeAPI(&clients.APIError{
		Status: http.StatusUnprocessableEntity,
		Fields: map[string]string{"email": "taken", "name": "too long"},
	})
	assert.True(t, merged)
	assert.Equal(t, "local message", errs.Get("email"))
	assert.Equal(t, "too long", errs.Get("name"))

	assert.False(t, Errors{}.MergeAPI(&clients.APIError{Status: http.StatusConflict}))
}
