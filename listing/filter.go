package listing

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/Brutalvik/smartai-shopping-sub000/models"
)

// ErrInvalidRange is returned by Validate when a lower bound exceeds its
// upper bound or a numeric bound is not a finite number.
var ErrInvalidRange = errors.New("invalid range")

// SaleFilter selects sales. Zero values match everything; all set criteria
// must hold.
type SaleFilter struct {
	Search    string
	Statuses  []models.SaleStatus
	From      *time.Time
	To        *time.Time
	MinAmount *float64
	MaxAmount *float64
}

func (f SaleFilter) Validate() error {
	if !finite(f.MinAmount) || !finite(f.MaxAmount) {
		return fmt.Errorf("%w: amount bounds must be finite numbers", ErrInvalidRange)
	}
	if f.From != nil && f.To != nil && f.From.After(*f.To) {
		return fmt.Errorf("%w: from must be before or equal to to", ErrInvalidRange)
	}
	if f.MinAmount != nil && f.MaxAmount != nil && *f.MinAmount > *f.MaxAmount {
		return fmt.Errorf("%w: minAmount must be less than or equal to maxAmount", ErrInvalidRange)
	}
	return nil
}

// Match reports whether s satisfies every criterion of f. Date bounds are
// inclusive.
func (f SaleFilter) Match(s models.Sale) bool {
	if len(f.Statuses) > 0 && !containsStatus(f.Statuses, s.Status) {
		return false
	}
	if f.From != nil && s.CreatedAt.Before(*f.From) {
		return false
	}
	if f.To != nil && s.CreatedAt.After(*f.To) {
		return false
	}
	if f.MinAmount != nil && s.Amount < *f.MinAmount {
		return false
	}
	if f.MaxAmount != nil && s.Amount > *f.MaxAmount {
		return false
	}
	return matchesSearch(f.Search, s.OrderID, s.ProductName, s.BuyerName, s.BuyerEmail)
}

// FilterSales returns the sales matching f, preserving their order.
func FilterSales(sales []models.Sale, f SaleFilter) []models.Sale {
	out := make([]models.Sale, 0, len(sales))
	for _, s := range sales {
		if f.Match(s) {
			out = append(out, s)
		}
	}
	return out
}

// ProductFilter selects products. Zero values match everything.
type ProductFilter struct {
	Search     string
	Categories []string
	Statuses   []models.ProductStatus
	MinPrice   *float64
	MaxPrice   *float64
	InStock    *bool
}

func (f ProductFilter) Validate() error {
	if !finite(f.MinPrice) || !finite(f.MaxPrice) {
		return fmt.Errorf("%w: price bounds must be finite numbers", ErrInvalidRange)
	}
	if f.MinPrice != nil && f.MaxPrice != nil && *f.MinPrice > *f.MaxPrice {
		return fmt.Errorf("%w: minPrice must be less than or equal to maxPrice", ErrInvalidRange)
	}
	return nil
}

func (f ProductFilter) Match(p models.Product) bool {
	if len(f.Categories) > 0 && !containsFold(f.Categories, p.Category) {
		return false
	}
	if len(f.Statuses) > 0 {
		found := false
		for _, st := range f.Statuses {
			if st == p.Status {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.MinPrice != nil && p.Price < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && p.Price > *f.MaxPrice {
		return false
	}
	if f.InStock != nil && (p.Stock > 0) != *f.InStock {
		return false
	}
	return matchesSearch(f.Search, p.Name, p.SKU, p.Brand)
}

// FilterProducts returns the products matching f, preserving their order.
func FilterProducts(products []models.Product, f ProductFilter) []models.Product {
	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if f.Match(p) {
			out = append(out, p)
		}
	}
	return out
}

// matchesSearch is a case-insensitive substring match against any field.
func matchesSearch(search string, fields ...string) bool {
	search = strings.ToLower(strings.TrimSpace(search))
	if search == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), search) {
			return true
		}
	}
	return false
}

func containsStatus(set []models.SaleStatus, s models.SaleStatus) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}

func containsFold(set []string, s string) bool {
	for _, v := range set {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}

func finite(v *float64) bool {
	return v == nil || !(math.IsNaN(*v) || math.IsInf(*v, 0))
}
