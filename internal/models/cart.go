package models

import "time"

// Cart holds a customer's pending purchases
type Cart struct {
	ID        string     `json:"id" db:"id"`
	UserID    string     `json:"userId" db:"user_id"`
	Items     []CartItem `json:"items"`
	CreatedAt time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time  `json:"updatedAt" db:"updated_at"`
}

// IsEmpty reports whether the cart has no items
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// Total returns the cart total from current product prices
func (c *Cart) Total() float64 {
	var total float64
	for _, item := range c.Items {
		total += item.Subtotal()
	}
	return total
}

// CartItem is one product line within a cart
type CartItem struct {
	ID          string    `json:"id" db:"id"`
	CartID      string    `json:"-" db:"cart_id"`
	ProductID   string    `json:"productId" db:"product_id"`
	ProductName string    `json:"productName"`
	UnitPrice   float64   `json:"unitPrice"`
	Quantity    int       `json:"quantity" db:"quantity"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

// Subtotal returns the line total at the current unit price
func (ci *CartItem) Subtotal() float64 {
	return ci.UnitPrice * float64(ci.Quantity)
}

// CartItemRequest represents data for adding a product to the cart
type CartItemRequest struct {
	ProductID string `json:"productId" binding:"required" validate:"required"`
	Quantity  int    `json:"quantity" binding:"required,gt=0" validate:"required,min=1"`
}

// CartItemUpdate represents data for changing a line quantity
type CartItemUpdate struct {
	Quantity int `json:"quantity" binding:"required,gt=0" validate:"required,min=1"`
}
