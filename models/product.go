package models

import "time"

type ProductStatus string

const (
	ProductActive ProductStatus = "active"
	ProductDraft  ProductStatus = "draft"
)

// Product is a catalog entry owned by a seller.
type Product struct {
	ID          string        `json:"id"`
	SellerID    string        `json:"seller_id"`
	Name        string        `json:"name"`
	SKU         string        `json:"sku"`
	Brand       string        `json:"brand,omitempty"`
	Description string        `json:"description,omitempty"`
	Category    string        `json:"category"`
	Price       float64       `json:"price"`
	Stock       int           `json:"stock"`
	Status      ProductStatus `json:"status"`
	Images      []string      `json:"images,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// ProductInput is the create/update payload sellers submit.
type ProductInput struct {
	Name        string        `json:"name" validate:"required,min=2,max=200"`
	SKU         string        `json:"sku" validate:"required,max=64"`
	Brand       string        `json:"brand,omitempty" validate:"max=100"`
	Description string        `json:"description,omitempty" validate:"max=5000"`
	Category    string        `json:"category" validate:"required"`
	Price       float64       `json:"price" validate:"gt=0"`
	Stock       int           `json:"stock" validate:"gte=0"`
	Status      ProductStatus `json:"status,omitempty" validate:"omitempty,oneof=active draft"`
	Images      []string      `json:"images,omitempty" validate:"max=10,dive,url"`
}
