package listing

import (
	"time"

	"github.com/Brutalvik/smartai-shopping-sub000/models"
)

var base = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func day(n int) time.Time { return base.AddDate(0, 0, n) }

func f64(v float64) *float64 { return &v }

func sampleSales() []models.Sale {
	return []models.Sale{
		{ID: "s1", OrderID: "ORD-1", ProductName: "Red Mug", BuyerName: "Alice", BuyerEmail: "alice@example.com", Quantity: 2, UnitPrice: 10, Amount: 20, Status: models.SalePaid, CreatedAt: day(0)},
		{ID: "s2", OrderID: "ORD-2", ProductName: "Blue Mug", BuyerName: "Bob", BuyerEmail: "bob@example.com", Quantity: 1, UnitPrice: 12, Amount: 12, Status: models.SaleShipped, CreatedAt: day(1)},
		{ID: "s3", OrderID: "ORD-3", ProductName: "Teapot", BuyerName: "carol", BuyerEmail: "carol@example.com", Quantity: 1, UnitPrice: 45, Amount: 45, Status: models.SaleCancelled, CreatedAt: day(2)},
		{ID: "s4", OrderID: "ORD-3", ProductName: "Red Mug", BuyerName: "carol", BuyerEmail: "carol@example.com", Quantity: 3, UnitPrice: 10, Amount: 30, Status: models.SaleDelivered, CreatedAt: day(2)},
		{ID: "s5", OrderID: "ORD-4", ProductName: "Saucer", BuyerName: "Dan", BuyerEmail: "dan@example.com", Quantity: 4, UnitPrice: 5, Amount: 20, Status: models.SalePaid, CreatedAt: day(5)},
	}
}

func sampleProducts() []models.Product {
	return []models.Product{
		{ID: "p1", Name: "Red Mug", SKU: "MUG-R", Brand: "Acme", Category: "Kitchen", Price: 10, Stock: 12, Status: models.ProductActive, CreatedAt: day(0)},
		{ID: "p2", Name: "Blue Mug", SKU: "MUG-B", Brand: "Acme", Category: "kitchen", Price: 12, Stock: 0, Status: models.ProductActive, CreatedAt: day(1)},
		{ID: "p3", Name: "Teapot", SKU: "TP-1", Brand: "Brew", Category: "Kitchen", Price: 45, Stock: 3, Status: models.ProductDraft, CreatedAt: day(2)},
		{ID: "p4", Name: "Lamp", SKU: "LMP-1", Brand: "Glow", Category: "Home", Price: 30, Stock: 7, Status: models.ProductActive, CreatedAt: day(3)},
	}
}
