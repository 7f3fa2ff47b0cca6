package models

import "time"

// Vendor represents a seller's store
type Vendor struct {
	ID               string    `json:"id" db:"id"`
	StoreName        string    `json:"storeName" db:"store_name"`
	StoreDescription string    `json:"storeDescription" db:"store_description"`
	Address          *string   `json:"address,omitempty" db:"address"`
	ContactEmail     *string   `json:"contactEmail,omitempty" db:"contact_email"`
	ContactPhone     *string   `json:"contactPhone,omitempty" db:"contact_phone"`
	UserID           string    `json:"userId" db:"user_id"`
	CreatedAt        time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt        time.Time `json:"updatedAt" db:"updated_at"`
}

// VendorRegistration represents data for opening a store
type VendorRegistration struct {
	StoreName        string  `json:"storeName" binding:"required,min=2,max=100" validate:"required"`
	StoreDescription string  `json:"storeDescription" binding:"max=1000"`
	Address          *string `json:"address,omitempty"`
	ContactEmail     *string `json:"contactEmail,omitempty" binding:"omitempty,email"`
	ContactPhone     *string `json:"contactPhone,omitempty"`
}

// VendorUpdate represents data for updating a store profile
type VendorUpdate struct {
	StoreName        *string `json:"storeName,omitempty"`
	StoreDescription *string `json:"storeDescription,omitempty"`
	Address          *string `json:"address,omitempty"`
	ContactEmail     *string `json:"contactEmail,omitempty"`
	ContactPhone     *string `json:"contactPhone,omitempty"`
}
