package models

import (
	"strings"
	"time"
)

// DashboardKind names one seller dashboard table.
type DashboardKind string

const (
	DashboardSales    DashboardKind = "sales"
	DashboardProducts DashboardKind = "products"
)

func ValidDashboardKind(k DashboardKind) bool {
	return k == DashboardSales || k == DashboardProducts
}

// DashboardView is a seller's saved table configuration.
type DashboardView struct {
	ID        uint          `gorm:"primaryKey" json:"-"`
	SellerID  string        `gorm:"type:varchar(64);not null;uniqueIndex:idx_seller_view" json:"seller_id"`
	Kind      DashboardKind `gorm:"column:view;type:varchar(20);not null;uniqueIndex:idx_seller_view" json:"view"`
	Columns   string        `gorm:"type:text;not null;default:''" json:"-"`
	Sort      string        `gorm:"type:varchar(40);not null;default:''" json:"sort"`
	PerPage   int           `gorm:"not null;default:0" json:"per_page"`
	CreatedAt time.Time     `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time     `gorm:"autoUpdateTime" json:"updated_at"`
}

// ColumnList splits the stored comma separated column keys.
func (v *DashboardView) ColumnList() []string {
	if v == nil || v.Columns == "" {
		return nil
	}
	return strings.Split(v.Columns, ",")
}

func (v *DashboardView) SetColumns(cols []string) {
	v.Columns = strings.Join(cols, ",")
}

// DashboardViewRequest is the PUT body for saving a view.
type DashboardViewRequest struct {
	Columns []string `json:"columns"`
	Sort    string   `json:"sort"`
	PerPage int      `json:"per_page" binding:"gte=0,lte=100"`
}

// DashboardViewResponse is how a saved view is returned.
type DashboardViewResponse struct {
	View    DashboardKind `json:"view"`
	Columns []string      `json:"columns"`
	Sort    string        `json:"sort"`
	PerPage int           `json:"per_page"`
}
