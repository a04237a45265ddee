package dto

import "time"

type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderPaid       OrderStatus = "paid"
	OrderProcessing OrderStatus = "processing"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
	OrderRefunded   OrderStatus = "refunded"
)

// OrderStatuses lists every status the admin console may set.
var OrderStatuses = []OrderStatus{
	OrderPending, OrderPaid, OrderProcessing, OrderShipped,
	OrderDelivered, OrderCancelled, OrderRefunded,
}

func (s OrderStatus) Valid() bool {
	for _, v := range OrderStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// Cancellable reports whether the customer is offered a cancel button.
// The API still decides whether the transition is allowed.
func (s OrderStatus) Cancellable() bool {
	return s == OrderPending || s == OrderPaid
}

type OrderItem struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	Subtotal  float64 `json:"subtotal"`
}

type Order struct {
	ID              string      `json:"id"`
	Number          string      `json:"number"`
	UserID          string      `json:"user_id"`
	Status          OrderStatus `json:"status"`
	Items           []OrderItem `json:"items"`
	ShippingAddress Address     `json:"shipping_address"`
	ShippingMethod  string      `json:"shipping_method"`
	PaymentMethod   string      `json:"payment_method"`
	Subtotal        float64     `json:"subtotal"`
	Discount        float64     `json:"discount"`
	Shipping        float64     `json:"shipping"`
	Tax             float64     `json:"tax"`
	Total           float64     `json:"total"`
	Currency        string      `json:"currency"`
	Notes           string      `json:"notes,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

type OrderPage struct {
	Items    []Order `json:"items"`
	Total    int     `json:"total"`
	Page     int     `json:"page"`
	PageSize int     `json:"page_size"`
}

type CreateOrderRequest struct {
	AddressID      string   `json:"address_id,omitempty"`
	Address        *Address `json:"address,omitempty"`
	ShippingMethod string   `json:"shipping_method"`
	PaymentMethod  string   `json:"payment_method"`
	Notes          string   `json:"notes,omitempty"`
}

type UpdateOrderStatusRequest struct {
	Status OrderStatus `json:"status"`
}
