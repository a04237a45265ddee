package validate

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/dto"
)

const (
	ShippingStandard = "standard"
	ShippingExpress  = "express"

	PaymentCard           = "card"
	PaymentCashOnDelivery = "cash_on_delivery"
)

func LoginForm(v url.Values) (dto.LoginRequest, Errors) {
	errs := Errors{}
	req := dto.LoginRequest{
		Email:    strings.ToLower(trimmed(v.Get("email"))),
		Password: v.Get("password"),
	}
	email(errs, "email", req.Email)
	required(errs, "password", req.Password)
	return req, errs
}

func RegisterForm(v url.Values) (dto.RegisterRequest, Errors) {
	errs := Errors{}
	req := dto.RegisterRequest{
		Email:    strings.ToLower(trimmed(v.Get("email"))),
		Password: v.Get("password"),
		Name:     trimmed(v.Get("name")),
	}
	if required(errs, "name", req.Name) {
		maxLen(errs, "name", req.Name, 100)
	}
	email(errs, "email", req.Email)
	password(errs, "password", req.Password)
	if v.Get("password_confirm") != req.Password {
		errs.Add("password_confirm", "Passwords do not match.")
	}
	return req, errs
}

func ForgotPasswordForm(v url.Values) (string, Errors) {
	errs := Errors{}
	addr := strings.ToLower(trimmed(v.Get("email")))
	email(errs, "email", addr)
	return addr, errs
}

func ProfileForm(v url.Values) (dto.UpdateProfileRequest, Errors) {
	errs := Errors{}
	req := dto.UpdateProfileRequest{
		Name:  trimmed(v.Get("name")),
		Phone: trimmed(v.Get("phone")),
	}
	if required(errs, "name", req.Name) {
		maxLen(errs, "name", req.Name, 100)
	}
	if req.Phone != "" {
		digits := 0
		for _, r := range req.Phone {
			switch {
			case r >= '0' && r <= '9':
				digits++
			case strings.ContainsRune("+-() ", r):
			default:
				errs.Add("phone", "Enter a valid phone number.")
			}
		}
		if digits < 7 || digits > 15 {
			errs.Add("phone", "Enter a valid phone number.")
		}
	}
	return req, errs
}

func PasswordForm(v url.Values) (dto.ChangePasswordRequest, Errors) {
	errs := Errors{}
	req := dto.ChangePasswordRequest{
		CurrentPassword: v.Get("current_password"),
		NewPassword:     v.Get("new_password"),
	}
	required(errs, "current_password", req.CurrentPassword)
	password(errs, "new_password", req.NewPassword)
	if v.Get("new_password_confirm") != req.NewPassword {
		errs.Add("new_password_confirm", "Passwords do not match.")
	}
	if req.CurrentPassword != "" && req.CurrentPassword == req.NewPassword {
		errs.Add("new_password", "New password must differ from the current one.")
	}
	return req, errs
}

// AddressForm reads an address from fields prefixed with prefix (e.g.
// "shipping_" on the checkout page, "" on the address book).
func AddressForm(v url.Values, prefix string) (dto.Address, Errors) {
	errs := Errors{}
	a := dto.Address{
		Label:      trimmed(v.Get(prefix + "label")),
		Line1:      trimmed(v.Get(prefix + "line1")),
		Line2:      trimmed(v.Get(prefix + "line2")),
		City:       trimmed(v.Get(prefix + "city")),
		State:      trimmed(v.Get(prefix + "state")),
		PostalCode: strings.ToUpper(trimmed(v.Get(prefix + "postal_code"))),
		Country:    strings.ToUpper(trimmed(v.Get(prefix + "country"))),
		IsDefault:  checkbox(v.Get(prefix + "is_default")),
	}
	if required(errs, prefix+"line1", a.Line1) {
		maxLen(errs, prefix+"line1", a.Line1, 200)
	}
	maxLen(errs, prefix+"line2", a.Line2, 200)
	if required(errs, prefix+"city", a.City) {
		maxLen(errs, prefix+"city", a.City, 100)
	}
	if required(errs, prefix+"postal_code", a.PostalCode) && !postalCodeRe.MatchString(a.PostalCode) {
		errs.Add(prefix+"postal_code", "Enter a valid postal code.")
	}
	if required(errs, prefix+"country", a.Country) && !countryRe.MatchString(a.Country) {
		errs.Add(prefix+"country", "Use a two-letter country code.")
	}
	return a, errs
}

// CartQuantity parses a requested quantity. Zero means "remove the line".
func CartQuantity(v string) (int, Errors) {
	errs := Errors{}
	n := intRange(errs, "quantity", trimmed(v), 0, maxQuantity)
	return n, errs
}

// AddToCartForm requires at least one unit.
func AddToCartForm(v url.Values) (dto.AddCartItemRequest, Errors) {
	errs := Errors{}
	req := dto.AddCartItemRequest{ProductID: trimmed(v.Get("product_id")), Quantity: 1}
	required(errs, "product_id", req.ProductID)
	if q := trimmed(v.Get("quantity")); q != "" {
		req.Quantity = intRange(errs, "quantity", q, 1, maxQuantity)
	}
	return req, errs
}

func DiscountForm(v url.Values) (string, Errors) {
	errs := Errors{}
	code := strings.ToUpper(trimmed(v.Get("code")))
	if required(errs, "code", code) && !discountRe.MatchString(code) {
		errs.Add("code", "Enter a valid discount code.")
	}
	return code, errs
}

func ShippingMethod(errs Errors, field, m string) {
	if m != ShippingStandard && m != ShippingExpress {
		errs.Add(field, "Choose a shipping method.")
	}
}

// ShippingForm reads the quote request sent from the checkout page.
func ShippingForm(v url.Values) (dto.ShippingRequest, Errors) {
	errs := Errors{}
	req := dto.ShippingRequest{
		AddressID: trimmed(v.Get("address_id")),
		Method:    trimmed(v.Get("shipping_method")),
	}
	ShippingMethod(errs, "shipping_method", req.Method)
	if req.AddressID == "" {
		a, addrErrs := AddressForm(v, "shipping_")
		for k, msg := range addrErrs {
			errs.Add(k, msg)
		}
		req.Address = &a
	}
	return req, errs
}

// CheckoutForm accepts either a saved address id or an inline address.
func CheckoutForm(v url.Values) (dto.CreateOrderRequest, Errors) {
	errs := Errors{}
	req := dto.CreateOrderRequest{
		AddressID:      trimmed(v.Get("address_id")),
		ShippingMethod: trimmed(v.Get("shipping_method")),
		PaymentMethod:  trimmed(v.Get("payment_method")),
		Notes:          trimmed(v.Get("notes")),
	}
	if req.AddressID == "" {
		a, addrErrs := AddressForm(v, "shipping_")
		for k, msg := range addrErrs {
			errs.Add(k, msg)
		}
		req.Address = &a
	}
	ShippingMethod(errs, "shipping_method", req.ShippingMethod)
	if req.PaymentMethod != PaymentCard && req.PaymentMethod != PaymentCashOnDelivery {
		errs.Add("payment_method", "Choose a payment method.")
	}
	maxLen(errs, "notes", req.Notes, 500)
	if !checkbox(v.Get("accept_terms")) {
		errs.Add("accept_terms", "You must accept the terms to place an order.")
	}
	return req, errs
}

func ProductForm(v url.Values) (dto.ProductInput, Errors) {
	errs := Errors{}
	in := dto.ProductInput{
		SKU:         trimmed(v.Get("sku")),
		Name:        trimmed(v.Get("name")),
		Description: trimmed(v.Get("description")),
		Currency:    strings.ToUpper(trimmed(v.Get("currency"))),
		Category:    trimmed(v.Get("category")),
		ImageURL:    trimmed(v.Get("image_url")),
		Active:      checkbox(v.Get("active")),
	}
	if required(errs, "sku", in.SKU) && !skuRe.MatchString(in.SKU) {
		errs.Add("sku", "Letters, digits, dot, dash and underscore only.")
	}
	if required(errs, "name", in.Name) {
		maxLen(errs, "name", in.Name, 200)
	}
	maxLen(errs, "description", in.Description, 5000)
	in.Price = money(errs, "price", trimmed(v.Get("price")), false)
	in.Stock = intRange(errs, "stock", trimmed(v.Get("stock")), 0, math.MaxInt32)
	if in.Currency == "" {
		in.Currency = "USD"
	} else if !currencyRe.MatchString(in.Currency) {
		errs.Add("currency", "Use a three-letter currency code.")
	}
	if in.ImageURL != "" {
		u, err := url.Parse(in.ImageURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errs.Add("image_url", "Enter an http(s) URL.")
		}
	}
	return in, errs
}

func SettingsForm(v url.Values) (dto.AdminSettings, Errors) {
	errs := Errors{}
	s := dto.AdminSettings{
		StoreName:       trimmed(v.Get("store_name")),
		SupportEmail:    strings.ToLower(trimmed(v.Get("support_email"))),
		Currency:        strings.ToUpper(trimmed(v.Get("currency"))),
		MaintenanceMode: checkbox(v.Get("maintenance_mode")),
	}
	if required(errs, "store_name", s.StoreName) {
		maxLen(errs, "store_name", s.StoreName, 100)
	}
	email(errs, "support_email", s.SupportEmail)
	if required(errs, "currency", s.Currency) && !currencyRe.MatchString(s.Currency) {
		errs.Add("currency", "Use a three-letter currency code.")
	}
	if rate := trimmed(v.Get("tax_rate")); required(errs, "tax_rate", rate) {
		f, err := strconv.ParseFloat(rate, 64)
		switch {
		case !amountRe.MatchString(rate) || err != nil:
			errs.Add("tax_rate", "Enter a number.")
		case f < 0 || f > 100:
			errs.Add("tax_rate", "Must be between 0 and 100.")
		default:
			s.TaxRate = f
		}
	}
	s.FreeShippingThreshold = money(errs, "free_shipping_threshold", trimmed(v.Get("free_shipping_threshold")), true)
	return s, errs
}

func OrderStatusForm(v url.Values) (dto.OrderStatus, Errors) {
	errs := Errors{}
	status := dto.OrderStatus(trimmed(v.Get("status")))
	if !status.Valid() {
		errs.Add("status", "Unknown order status.")
	}
	return status, errs
}

// UserFlagsForm reads the admin toggles; absent checkboxes mean false.
func UserFlagsForm(v url.Values) dto.UpdateUserRequest {
	active := checkbox(v.Get("is_active"))
	admin := checkbox(v.Get("is_admin"))
	return dto.UpdateUserRequest{IsActive: &active, IsAdmin: &admin}
}
