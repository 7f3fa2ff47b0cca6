package models

import (
	"strings"
	"time"
)

// Role represents a user role
type Role string

const (
	RoleCustomer Role = "customer"
	RoleVendor   Role = "vendor"
	RoleManager  Role = "manager"
	RoleAdmin    Role = "admin"
)

// RoleSet is the set of roles carried by a user, stored as a
// comma-separated column
type RoleSet []Role

// Has reports whether the set contains the given role
func (rs RoleSet) Has(role Role) bool {
	for _, r := range rs {
		if r == role {
			return true
		}
	}
	return false
}

// Add appends a role if it is not already present
func (rs RoleSet) Add(role Role) RoleSet {
	if rs.Has(role) {
		return rs
	}
	return append(rs, role)
}

// String serializes the set for database storage
func (rs RoleSet) String() string {
	parts := make([]string, len(rs))
	for i, r := range rs {
		parts[i] = string(r)
	}
	return strings.Join(parts, ",")
}

// ParseRoles parses a comma-separated roles column
func ParseRoles(s string) RoleSet {
	var roles RoleSet
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			roles = append(roles, Role(part))
		}
	}
	return roles
}

// User represents an account in the system
type User struct {
	ID           string     `json:"id" db:"id"`
	Email        string     `json:"email" db:"email"`
	PasswordHash string     `json:"-" db:"password_hash"`
	FirstName    string     `json:"firstName" db:"first_name"`
	LastName     string     `json:"lastName" db:"last_name"`
	Roles        RoleSet    `json:"roles" db:"roles"`
	Enabled      bool       `json:"enabled" db:"enabled"`
	Locked       bool       `json:"locked" db:"locked"`
	Version      int64      `json:"-" db:"version"`
	Phone        *string    `json:"phone,omitempty" db:"phone"`
	Street       *string    `json:"street,omitempty" db:"street"`
	City         *string    `json:"city,omitempty" db:"city"`
	State        *string    `json:"state,omitempty" db:"state"`
	ZipCode      *string    `json:"zipCode,omitempty" db:"zip_code"`
	Country      *string    `json:"country,omitempty" db:"country"`
	LastLoginAt  *time.Time `json:"lastLoginAt,omitempty" db:"last_login_at"`
	CreatedAt    time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time  `json:"updatedAt" db:"updated_at"`
}

// IsAdmin reports whether the user carries the admin role
func (u *User) IsAdmin() bool {
	return u.Roles.Has(RoleAdmin)
}

// IsVendor reports whether the user carries the vendor role
func (u *User) IsVendor() bool {
	return u.Roles.Has(RoleVendor)
}

// IsActive reports whether the account may authenticate
func (u *User) IsActive() bool {
	return u.Enabled && !u.Locked
}

// FullName returns the display name for the user
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// UserRegistration represents data for registering a new user
type UserRegistration struct {
	Email     string `json:"email" binding:"required,email" validate:"required,email"`
	Password  string `json:"password" binding:"required,min=8" validate:"required,min=8"`
	FirstName string `json:"firstName" binding:"required,min=2,max=50" validate:"required"`
	LastName  string `json:"lastName" binding:"required,min=2,max=50" validate:"required"`
}

// UserLogin represents login credentials
type UserLogin struct {
	Email    string `json:"email" binding:"required,email" validate:"required,email"`
	Password string `json:"password" binding:"required" validate:"required"`
}

// ProfileUpdate represents data for updating a user's profile; nil
// fields are left unchanged
type ProfileUpdate struct {
	FirstName *string `json:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	Street    *string `json:"street,omitempty"`
	City      *string `json:"city,omitempty"`
	State     *string `json:"state,omitempty"`
	ZipCode   *string `json:"zipCode,omitempty"`
	Country   *string `json:"country,omitempty"`
}
