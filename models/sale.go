package models

import "time"

type SaleStatus string

const (
	SalePending   SaleStatus = "pending"
	SalePaid      SaleStatus = "paid"
	SaleShipped   SaleStatus = "shipped"
	SaleDelivered SaleStatus = "delivered"
	SaleCancelled SaleStatus = "cancelled"
	SaleRefunded  SaleStatus = "refunded"
)

// ValidSaleStatus reports whether s is a status the backend emits.
func ValidSaleStatus(s SaleStatus) bool {
	switch s {
	case SalePending, SalePaid, SaleShipped, SaleDelivered, SaleCancelled, SaleRefunded:
		return true
	}
	return false
}

// Sale is one order line sold by a seller.
type Sale struct {
	ID          string     `json:"id"`
	OrderID     string     `json:"order_id"`
	SellerID    string     `json:"seller_id"`
	ProductID   string     `json:"product_id"`
	ProductName string     `json:"product_name"`
	BuyerName   string     `json:"buyer_name"`
	BuyerEmail  string     `json:"buyer_email"`
	Quantity    int        `json:"quantity"`
	UnitPrice   float64    `json:"unit_price"`
	Amount      float64    `json:"amount"`
	Status      SaleStatus `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
}

// Counts toward revenue. Cancelled and refunded lines do not.
func (s Sale) Settled() bool {
	return s.Status != SaleCancelled && s.Status != SaleRefunded
}
