package models

import "time"

// CartItem is one product line in a buyer's cart. Name and price are a
// snapshot taken when the item was added.
type CartItem struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	Image     string  `json:"image,omitempty"`
}

// Cart represents a user's cart stored in Redis
type Cart struct {
	UserID    string     `json:"user_id"`
	Items     []CartItem `json:"items"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Subtotal is the sum of price*quantity over all lines.
func (c *Cart) Subtotal() float64 {
	var total float64
	for _, it := range c.Items {
		total += it.Price * float64(it.Quantity)
	}
	return total
}

// ItemCount is the total number of units in the cart.
func (c *Cart) ItemCount() int {
	n := 0
	for _, it := range c.Items {
		n += it.Quantity
	}
	return n
}

// CartView is the JSON shape returned to the storefront.
type CartView struct {
	UserID    string     `json:"user_id"`
	Items     []CartItem `json:"items"`
	Subtotal  float64    `json:"subtotal"`
	ItemCount int        `json:"item_count"`
	UpdatedAt time.Time  `json:"updated_at,omitempty"`
}

func (c *Cart) View() CartView {
	items := c.Items
	if items == nil {
		items = []CartItem{}
	}
	return CartView{
		UserID:    c.UserID,
		Items:     items,
		Subtotal:  c.Subtotal(),
		ItemCount: c.ItemCount(),
		UpdatedAt: c.UpdatedAt,
	}
}

// CheckoutResult records the order created for a checkout. Replayed is set
// when an earlier checkout with the same idempotency key is returned.
type CheckoutResult struct {
	OrderID  string  `json:"order_id"`
	Total    float64 `json:"total"`
	Status   string  `json:"status"`
	Replayed bool    `json:"replayed,omitempty"`
}

// CheckoutEvent is published once an order has been placed for a cart.
type CheckoutEvent struct {
	UserID    string     `json:"user_id"`
	OrderID   string     `json:"order_id"`
	Items     []CartItem `json:"items"`
	Total     float64    `json:"total"`
	Timestamp time.Time  `json:"timestamp"`
}
