package services

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"sokoni-backend/internal/apperr"
	"sokoni-backend/internal/models"
	"sokoni-backend/internal/utils"
)

// VendorService manages vendor stores
type VendorService struct {
	db          *sql.DB
	userService *UserService
}

// NewVendorService creates a new vendor service
func NewVendorService(db *sql.DB, userService *UserService) *VendorService {
	return &VendorService{db: db, userService: userService}
}

// Register opens a store for the user and grants the vendor role
func (s *VendorService) Register(userID string, req *models.VendorRegistration) (*models.Vendor, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}

	if _, err := s.userService.GetByID(userID); err != nil {
		return nil, err
	}

	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM vendors WHERE user_id = ?", userID).Scan(&count)
	if err != nil {
		return nil, fmt.Errorf("failed to check vendor: %w", err)
	}
	if count > 0 {
		return nil, apperr.Business("user already has a store")
	}

	storeName := utils.SanitizeString(req.StoreName)
	err = s.db.QueryRow("SELECT COUNT(*) FROM vendors WHERE store_name = ?", storeName).Scan(&count)
	if err != nil {
		return nil, fmt.Errorf("failed to check store name: %w", err)
	}
	if count > 0 {
		return nil, apperr.Conflict("store name already taken")
	}

	now := time.Now()
	vendor := &models.Vendor{
		ID:               uuid.New().String(),
		StoreName:        storeName,
		StoreDescription: utils.SanitizeString(req.StoreDescription),
		Address:          req.Address,
		ContactEmail:     req.ContactEmail,
		ContactPhone:     req.ContactPhone,
		UserID:           userID,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	_, err = s.db.Exec(`
		INSERT INTO vendors (id, store_name, store_description, address, contact_email, contact_phone, user_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		vendor.ID, vendor.StoreName, vendor.StoreDescription, vendor.Address,
		vendor.ContactEmail, vendor.ContactPhone, vendor.UserID, vendor.CreatedAt, vendor.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create vendor: %w", err)
	}

	if err := s.userService.GrantRole(userID, models.RoleVendor); err != nil {
		return nil, err
	}

	return vendor, nil
}

// GetByID fetches a vendor by id
func (s *VendorService) GetByID(vendorID string) (*models.Vendor, error) {
	return s.getVendor("id = ?", vendorID)
}

// GetByUserID fetches the store owned by the given user
func (s *VendorService) GetByUserID(userID string) (*models.Vendor, error) {
	return s.getVendor("user_id = ?", userID)
}

// GetByStoreName fetches a vendor by store name, ignoring case
func (s *VendorService) GetByStoreName(storeName string) (*models.Vendor, error) {
	return s.getVendor("store_name = ? COLLATE NOCASE", storeName)
}

func (s *VendorService) getVendor(where string, arg string) (*models.Vendor, error) {
	var v models.Vendor
	var desc sql.NullString
	err := s.db.QueryRow(`
		SELECT id, store_name, store_description, address, contact_email, contact_phone, user_id, created_at, updated_at
		FROM vendors WHERE `+where, arg).Scan(
		&v.ID, &v.StoreName, &desc, &v.Address, &v.ContactEmail, &v.ContactPhone,
		&v.UserID, &v.CreatedAt, &v.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("vendor", arg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get vendor: %w", err)
	}
	v.StoreDescription = desc.String
	return &v, nil
}

// List returns all stores, newest first
func (s *VendorService) List() ([]models.Vendor, error) {
	rows, err := s.db.Query(`
		SELECT id, store_name, store_description, address, contact_email, contact_phone, user_id, created_at, updated_at
		FROM vendors ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list vendors: %w", err)
	}
	defer rows.Close()

	vendors := []models.Vendor{}
	for rows.Next() {
		var v models.Vendor
		var desc sql.NullString
		if err := rows.Scan(&v.ID, &v.StoreName, &desc, &v.Address, &v.ContactEmail,
			&v.ContactPhone, &v.UserID, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan vendor: %w", err)
		}
		v.StoreDescription = desc.String
		vendors = append(vendors, v)
	}
	return vendors, rows.Err()
}

// Update modifies a store profile. Only the owner or an admin may
// update; non-owners get access denied, not a missing resource.
func (s *VendorService) Update(vendorID string, actor *models.User, req *models.VendorUpdate) (*models.Vendor, error) {
	vendor, err := s.GetByID(vendorID)
	if err != nil {
		return nil, err
	}

	if !actor.IsAdmin() && vendor.UserID != actor.ID {
		return nil, apperr.AccessDenied("not the owner of this store")
	}

	if req.StoreName != nil {
		name := utils.SanitizeString(*req.StoreName)
		var count int
		err := s.db.QueryRow("SELECT COUNT(*) FROM vendors WHERE store_name = ? AND id != ?", name, vendorID).Scan(&count)
		if err != nil {
			return nil, fmt.Errorf("failed to check store name: %w", err)
		}
		if count > 0 {
			return nil, apperr.Conflict("store name already taken")
		}
		vendor.StoreName = name
	}
	if req.StoreDescription != nil {
		vendor.StoreDescription = utils.SanitizeString(*req.StoreDescription)
	}
	if req.Address != nil {
		vendor.Address = req.Address
	}
	if req.ContactEmail != nil {
		vendor.ContactEmail = req.ContactEmail
	}
	if req.ContactPhone != nil {
		vendor.ContactPhone = req.ContactPhone
	}
	vendor.UpdatedAt = time.Now()

	_, err = s.db.Exec(`
		UPDATE vendors SET store_name = ?, store_description = ?, address = ?, contact_email = ?, contact_phone = ?, updated_at = ?
		WHERE id = ?`,
		vendor.StoreName, vendor.StoreDescription, vendor.Address, vendor.ContactEmail,
		vendor.ContactPhone, vendor.UpdatedAt, vendorID)
	if err != nil {
		return nil, fmt.Errorf("failed to update vendor: %w", err)
	}

	return vendor, nil
}
