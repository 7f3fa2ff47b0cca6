package models

import "time"

// Wishlist holds products a customer saved for later
type Wishlist struct {
	ID        string         `json:"id" db:"id"`
	UserID    string         `json:"userId" db:"user_id"`
	Items     []WishlistItem `json:"items"`
	CreatedAt time.Time      `json:"createdAt" db:"created_at"`
}

// WishlistItem is one saved product reference
type WishlistItem struct {
	WishlistID  string    `json:"-" db:"wishlist_id"`
	ProductID   string    `json:"productId" db:"product_id"`
	ProductName string    `json:"productName"`
	Price       float64   `json:"price"`
	ImageURL    *string   `json:"imageUrl,omitempty"`
	AddedAt     time.Time `json:"addedAt" db:"added_at"`
}

// FavouriteVendor marks a store a customer follows
type FavouriteVendor struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"userId" db:"user_id"`
	VendorID  string    `json:"vendorId" db:"vendor_id"`
	StoreName string    `json:"storeName"`
	AddedAt   time.Time `json:"addedAt" db:"added_at"`
}
