package events

import (
	"time"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/dto"
)

const (
	EventsExchange = "ecommerce.events"
	Producer       = "storefront-go"

	UserSignedInEvent  = "StorefrontUserSignedIn"
	CartItemAddedEvent = "StorefrontCartItemAdded"
	OrderPlacedEvent   = "StorefrontOrderPlaced"

	UserSignedInRoutingKey  = "storefront.user.signedin.v1"
	CartItemAddedRoutingKey = "storefront.cart.itemadded.v1"
	OrderPlacedRoutingKey   = "storefront.order.placed.v1"
)

type UserSignedInPayload struct {
	UserID     string    `json:"userId"`
	SessionID  string    `json:"sessionId"`
	SignedInAt time.Time `json:"signedInAt"`
}

type CartItemAddedPayload struct {
	UserID    string `json:"userId,omitempty"`
	SessionID string `json:"sessionId"`
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
	CartCount int    `json:"cartCount"`
}

type OrderPlacedItem struct {
	ProductID string  `json:"productId"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
}

type OrderPlacedPayload struct {
	OrderID  string            `json:"orderId"`
	UserID   string            `json:"userId"`
	Total    float64           `json:"total"`
	Currency string            `json:"currency"`
	Items    []OrderPlacedItem `json:"items"`
}

type UserSignedInEnvelope = EventEnvelope[UserSignedInPayload]
type CartItemAddedEnvelope = EventEnvelope[CartItemAddedPayload]
type OrderPlacedEnvelope = EventEnvelope[OrderPlacedPayload]

func NewUserSignedIn(userID, sessionID, correlationID string) UserSignedInEnvelope {
	return newEnvelope(UserSignedInEvent, 1, userID, correlationID, UserSignedInPayload{
		UserID:     userID,
		SessionID:  sessionID,
		SignedInAt: time.Now().UTC(),
	})
}

// NewCartItemAdded is keyed by user when signed in, otherwise by session.
func NewCartItemAdded(userID, sessionID, productID string, quantity int, cart *dto.Cart, correlationID string) CartItemAddedEnvelope {
	key := userID
	if key == "" {
		key = sessionID
	}
	p := CartItemAddedPayload{
		UserID:    userID,
		SessionID: sessionID,
		ProductID: productID,
		Quantity:  quantity,
	}
	if cart != nil {
		p.CartCount = cart.Count()
	}
	return newEnvelope(CartItemAddedEvent, 1, key, correlationID, p)
}

func NewOrderPlaced(o *dto.Order, correlationID string) OrderPlacedEnvelope {
	p := OrderPlacedPayload{
		OrderID:  o.ID,
		UserID:   o.UserID,
		Total:    o.Total,
		Currency: o.Currency,
		Items:    make([]OrderPlacedItem, 0, len(o.Items)),
	}
	for _, it := range o.Items {
		p.Items = append(p.Items, OrderPlacedItem{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
		})
	}
	return newEnvelope(OrderPlacedEvent, 1, o.ID, correlationID, p)
}
