package listing

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Brutalvik/smartai-shopping-sub000/models"
)

var ErrUnknownColumn = errors.New("unknown column")

// Column describes one table column a dashboard can show.
type Column struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// Row is one projected table row keyed by column key.
type Row map[string]interface{}

var saleColumns = []Column{
	{Key: "order_id", Label: "Order"},
	{Key: "date", Label: "Date"},
	{Key: "product", Label: "Product"},
	{Key: "buyer", Label: "Buyer"},
	{Key: "buyer_email", Label: "Buyer email"},
	{Key: "quantity", Label: "Qty"},
	{Key: "unit_price", Label: "Unit price"},
	{Key: "amount", Label: "Amount"},
	{Key: "status", Label: "Status"},
}

var productColumns = []Column{
	{Key: "name", Label: "Name"},
	{Key: "sku", Label: "SKU"},
	{Key: "brand", Label: "Brand"},
	{Key: "category", Label: "Category"},
	{Key: "price", Label: "Price"},
	{Key: "stock", Label: "Stock"},
	{Key: "status", Label: "Status"},
	{Key: "created_at", Label: "Created"},
}

var defaultColumns = map[models.DashboardKind][]string{
	models.DashboardSales:    {"order_id", "date", "product", "buyer", "quantity", "amount", "status"},
	models.DashboardProducts: {"name", "sku", "category", "price", "stock", "status"},
}

// AvailableColumns lists every column of kind in display order.
func AvailableColumns(kind models.DashboardKind) []Column {
	switch kind {
	case models.DashboardSales:
		return saleColumns
	case models.DashboardProducts:
		return productColumns
	}
	return nil
}

// DefaultColumns returns a copy of the column keys shown when nothing is
// configured.
func DefaultColumns(kind models.DashboardKind) []string {
	return append([]string(nil), defaultColumns[kind]...)
}

// ParseColumns validates requested column keys for kind. Keys are matched
// case-insensitively, duplicates are dropped keeping the first position, and
// an empty request yields the defaults. The requested order is kept.
func ParseColumns(kind models.DashboardKind, requested []string) ([]string, error) {
	known := make(map[string]bool)
	for _, c := range AvailableColumns(kind) {
		known[c.Key] = true
	}
	if len(known) == 0 {
		return nil, fmt.Errorf("unknown view %q", kind)
	}

	seen := make(map[string]bool)
	var out []string
	for _, raw := range requested {
		for _, part := range strings.Split(raw, ",") {
			key := strings.ToLower(strings.TrimSpace(part))
			if key == "" || seen[key] {
				continue
			}
			if !known[key] {
				return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, key)
			}
			seen[key] = true
			out = append(out, key)
		}
	}
	if len(out) == 0 {
		return DefaultColumns(kind), nil
	}
	return out, nil
}

// ColumnsFor resolves keys into Column descriptors in the given order.
func ColumnsFor(kind models.DashboardKind, keys []string) []Column {
	byKey := make(map[string]Column)
	for _, c := range AvailableColumns(kind) {
		byKey[c.Key] = c
	}
	out := make([]Column, 0, len(keys))
	for _, k := range keys {
		if c, ok := byKey[k]; ok {
			out = append(out, c)
		}
	}
	return out
}

func saleValue(s models.Sale, key string) interface{} {
	switch key {
	case "order_id":
		return s.OrderID
	case "date":
		return s.CreatedAt.UTC().Format(time.RFC3339)
	case "product":
		return s.ProductName
	case "buyer":
		return s.BuyerName
	case "buyer_email":
		return s.BuyerEmail
	case "quantity":
		return s.Quantity
	case "unit_price":
		return s.UnitPrice
	case "amount":
		return s.Amount
	case "status":
		return s.Status
	}
	return nil
}

func productValue(p models.Product, key string) interface{} {
	switch key {
	case "name":
		return p.Name
	case "sku":
		return p.SKU
	case "brand":
		return p.Brand
	case "category":
		return p.Category
	case "price":
		return p.Price
	case "stock":
		return p.Stock
	case "status":
		return p.Status
	case "created_at":
		return p.CreatedAt.UTC().Format(time.RFC3339)
	}
	return nil
}

// ProjectSales renders sales into rows holding only the given columns plus
// the row id.
func ProjectSales(sales []models.Sale, cols []string) []Row {
	rows := make([]Row, 0, len(sales))
	for _, s := range sales {
		row := Row{"id": s.ID}
		for _, c := range cols {
			row[c] = saleValue(s, c)
		}
		rows = append(rows, row)
	}
	return rows
}

// ProjectProducts renders products into rows holding only the given columns
// plus the row id.
func ProjectProducts(products []models.Product, cols []string) []Row {
	rows := make([]Row, 0, len(products))
	for _, p := range products {
		row := Row{"id": p.ID}
		for _, c := range cols {
			row[c] = productValue(p, c)
		}
		rows = append(rows, row)
	}
	return rows
}
