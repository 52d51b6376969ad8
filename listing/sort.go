package listing

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/Brutalvik/smartai-shopping-sub000/models"
)

var ErrUnknownSort = errors.New("invalid sort value")

// SortSpec is a parsed "<key>_asc" / "<key>_desc" sort parameter.
type SortSpec struct {
	Key  string
	Desc bool
}

func (s SortSpec) String() string {
	if s.Desc {
		return s.Key + "_desc"
	}
	return s.Key + "_asc"
}

var (
	DefaultSaleSort    = SortSpec{Key: "date", Desc: true}
	DefaultProductSort = SortSpec{Key: "created_at", Desc: true}
)

var saleLess = map[string]func(a, b models.Sale) bool{
	"date":     func(a, b models.Sale) bool { return a.CreatedAt.Before(b.CreatedAt) },
	"amount":   func(a, b models.Sale) bool { return a.Amount < b.Amount },
	"quantity": func(a, b models.Sale) bool { return a.Quantity < b.Quantity },
	"status":   func(a, b models.Sale) bool { return a.Status < b.Status },
	"product":  func(a, b models.Sale) bool { return lowerLess(a.ProductName, b.ProductName) },
	"buyer":    func(a, b models.Sale) bool { return lowerLess(a.BuyerName, b.BuyerName) },
	"order_id": func(a, b models.Sale) bool { return a.OrderID < b.OrderID },
}

var productLess = map[string]func(a, b models.Product) bool{
	"created_at": func(a, b models.Product) bool { return a.CreatedAt.Before(b.CreatedAt) },
	"name":       func(a, b models.Product) bool { return lowerLess(a.Name, b.Name) },
	"sku":        func(a, b models.Product) bool { return a.SKU < b.SKU },
	"category":   func(a, b models.Product) bool { return lowerLess(a.Category, b.Category) },
	"price":      func(a, b models.Product) bool { return a.Price < b.Price },
	"stock":      func(a, b models.Product) bool { return a.Stock < b.Stock },
	"status":     func(a, b models.Product) bool { return a.Status < b.Status },
}

// ParseSaleSort parses raw against the sale sort keys. Empty raw gives the
// default (newest first).
func ParseSaleSort(raw string) (SortSpec, error) {
	return parseSort(raw, DefaultSaleSort, func(k string) bool { _, ok := saleLess[k]; return ok })
}

// ParseProductSort parses raw against the product sort keys.
func ParseProductSort(raw string) (SortSpec, error) {
	return parseSort(raw, DefaultProductSort, func(k string) bool { _, ok := productLess[k]; return ok })
}

func parseSort(raw string, def SortSpec, known func(string) bool) (SortSpec, error) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" {
		return def, nil
	}
	i := strings.LastIndex(raw, "_")
	if i <= 0 {
		return SortSpec{}, fmt.Errorf("%w: %q", ErrUnknownSort, raw)
	}
	key, dir := raw[:i], raw[i+1:]
	if !known(key) || (dir != "asc" && dir != "desc") {
		return SortSpec{}, fmt.Errorf("%w: %q", ErrUnknownSort, raw)
	}
	return SortSpec{Key: key, Desc: dir == "desc"}, nil
}

// SortSales sorts sales in place. Equal elements keep their relative order.
func SortSales(sales []models.Sale, by SortSpec) error {
	less, ok := saleLess[by.Key]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownSort, by.Key)
	}
	sort.SliceStable(sales, func(i, j int) bool {
		if by.Desc {
			return less(sales[j], sales[i])
		}
		return less(sales[i], sales[j])
	})
	return nil
}

// SortProducts sorts products in place. Equal elements keep their relative
// order.
func SortProducts(products []models.Product, by SortSpec) error {
	less, ok := productLess[by.Key]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownSort, by.Key)
	}
	sort.SliceStable(products, func(i, j int) bool {
		if by.Desc {
			return less(products[j], products[i])
		}
		return less(products[i], products[j])
	})
	return nil
}

func lowerLess(a, b string) bool {
	return strings.ToLower(a) < strings.ToLower(b)
}
