package listing

import (
	"math"

	"github.com/Brutalvik/smartai-shopping-sub000/models"
)

// SalesSummary aggregates a set of sales. Revenue, units and the average only
// count settled sales; Orders counts distinct order ids among them.
type SalesSummary struct {
	Revenue           float64                   `json:"revenue"`
	Orders            int                       `json:"orders"`
	UnitsSold         int                       `json:"units_sold"`
	AverageOrderValue float64                   `json:"average_order_value"`
	ByStatus          map[models.SaleStatus]int `json:"by_status"`
}

func SummarizeSales(sales []models.Sale) SalesSummary {
	sum := SalesSummary{ByStatus: make(map[models.SaleStatus]int)}
	orders := make(map[string]struct{})

	for _, s := range sales {
		sum.ByStatus[s.Status]++
		if !s.Settled() {
			continue
		}
		sum.Revenue += s.Amount
		sum.UnitsSold += s.Quantity
		orderKey := s.OrderID
		if orderKey == "" {
			orderKey = s.ID
		}
		orders[orderKey] = struct{}{}
	}

	sum.Orders = len(orders)
	sum.Revenue = round2(sum.Revenue)
	if sum.Orders > 0 {
		sum.AverageOrderValue = round2(sum.Revenue / float64(sum.Orders))
	}
	return sum
}

// ProductSummary counts a seller's catalog.
type ProductSummary struct {
	Total      int `json:"total"`
	Active     int `json:"active"`
	Draft      int `json:"draft"`
	OutOfStock int `json:"out_of_stock"`
	LowStock   int `json:"low_stock"`
}

// LowStockThreshold is the stock level at or below which an in-stock product
// counts as low.
const LowStockThreshold = 5

func SummarizeProducts(products []models.Product) ProductSummary {
	var sum ProductSummary
	for _, p := range products {
		sum.Total++
		switch p.Status {
		case models.ProductActive:
			sum.Active++
		case models.ProductDraft:
			sum.Draft++
		}
		switch {
		case p.Stock <= 0:
			sum.OutOfStock++
		case p.Stock <= LowStockThreshold:
			sum.LowStock++
		}
	}
	return sum
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
