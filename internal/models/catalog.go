package models

import "time"

// Category groups products in the catalog
type Category struct {
	ID          string     `json:"id" db:"id"`
	Name        string     `json:"name" db:"name"`
	Description string     `json:"description" db:"description"`
	ImageURL    *string    `json:"imageUrl,omitempty" db:"image_url"`
	Active      bool       `json:"active" db:"active"`
	DeletedAt   *time.Time `json:"-" db:"deleted_at"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time  `json:"updatedAt" db:"updated_at"`
}

// CategoryRequest represents data for creating or updating a category
type CategoryRequest struct {
	Name        string `json:"name" binding:"required,min=2,max=100" validate:"required"`
	Description string `json:"description" binding:"max=500"`
}

// Product represents a catalog item sold by a vendor
type Product struct {
	ID            string    `json:"id" db:"id"`
	Name          string    `json:"name" db:"name"`
	Description   string    `json:"description" db:"description"`
	Price         float64   `json:"price" db:"price"`
	StockQuantity int       `json:"stockQuantity" db:"stock_quantity"`
	CategoryID    *string   `json:"categoryId,omitempty" db:"category_id"`
	VendorID      string    `json:"vendorId" db:"vendor_id"`
	Active        bool      `json:"active" db:"active"`
	ImageURL      *string   `json:"imageUrl,omitempty" db:"image_url"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time `json:"updatedAt" db:"updated_at"`
}

// InStock reports whether at least the requested quantity is available
func (p *Product) InStock(quantity int) bool {
	return p.StockQuantity >= quantity
}

// ProductRequest represents data for creating a product
type ProductRequest struct {
	Name          string  `json:"name" binding:"required,min=2,max=200" validate:"required"`
	Description   string  `json:"description" binding:"max=2000"`
	Price         float64 `json:"price" binding:"required,gt=0" validate:"required,min=0"`
	StockQuantity int     `json:"stockQuantity" binding:"gte=0"`
	CategoryID    *string `json:"categoryId,omitempty"`
}

// ProductUpdate represents data for updating a product; nil fields are
// left unchanged
type ProductUpdate struct {
	Name          *string  `json:"name,omitempty"`
	Description   *string  `json:"description,omitempty"`
	Price         *float64 `json:"price,omitempty"`
	StockQuantity *int     `json:"stockQuantity,omitempty"`
	CategoryID    *string  `json:"categoryId,omitempty"`
	Active        *bool    `json:"active,omitempty"`
}

// ProductFilter holds catalog listing filters
type ProductFilter struct {
	Query      string
	CategoryID string
	VendorID   string
	MinPrice   *float64
	MaxPrice   *float64
	InStock    *bool
	Page       int
	PageSize   int
}

// Normalize clamps paging parameters to sane bounds
func (f *ProductFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 || f.PageSize > 100 {
		f.PageSize = 20
	}
}

// Offset returns the SQL offset for the current page
func (f *ProductFilter) Offset() int {
	return (f.Page - 1) * f.PageSize
}

// ProductPage is one page of catalog listing results
type ProductPage struct {
	Items      []Product `json:"items"`
	Page       int       `json:"page"`
	PageSize   int       `json:"pageSize"`
	TotalItems int       `json:"totalItems"`
	TotalPages int       `json:"totalPages"`
}
