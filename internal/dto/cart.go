package dto

type CartItem struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	ImageURL  string  `json:"image_url,omitempty"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	Subtotal  float64 `json:"subtotal"`
}

type Cart struct {
	ID           string     `json:"id"`
	Items        []CartItem `json:"items"`
	Subtotal     float64    `json:"subtotal"`
	Discount     float64    `json:"discount"`
	DiscountCode string     `json:"discount_code,omitempty"`
	Shipping     float64    `json:"shipping"`
	Tax          float64    `json:"tax"`
	Total        float64    `json:"total"`
	Currency     string     `json:"currency"`
}

// Count is the number of units in the cart, shown in the header badge.
func (c Cart) Count() int {
	n := 0
	for _, it := range c.Items {
		n += it.Quantity
	}
	return n
}

func (c Cart) Empty() bool { return len(c.Items) == 0 }

type AddCartItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type UpdateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

type ApplyDiscountRequest struct {
	Code string `json:"code"`
}

type ShippingRequest struct {
	AddressID string   `json:"address_id,omitempty"`
	Address   *Address `json:"address,omitempty"`
	Method    string   `json:"method"`
}

type ShippingQuote struct {
	Method        string  `json:"method"`
	Cost          float64 `json:"cost"`
	Currency      string  `json:"currency"`
	EstimatedDays int     `json:"estimated_days"`
}
