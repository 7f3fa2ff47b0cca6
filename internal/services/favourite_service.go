package services

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"sokoni-backend/internal/apperr"
	"sokoni-backend/internal/models"
)

// FavouriteService manages the stores a customer follows
type FavouriteService struct {
	db            *sql.DB
	vendorService *VendorService
}

// NewFavouriteService creates a new favourite vendor service
func NewFavouriteService(db *sql.DB, vendorService *VendorService) *FavouriteService {
	return &FavouriteService{db: db, vendorService: vendorService}
}

// Add marks a store as favourite. Favouriting a store twice is
// rejected.
func (s *FavouriteService) Add(userID, vendorID string) error {
	if _, err := s.vendorService.GetByID(vendorID); err != nil {
		return err
	}

	favourite, err := s.IsFavourite(userID, vendorID)
	if err != nil {
		return err
	}
	if favourite {
		return apperr.Business("vendor is already in your favourites")
	}

	_, err = s.db.Exec(`
		INSERT INTO favourite_vendors (id, user_id, vendor_id, added_at)
		VALUES (?, ?, ?, ?)`,
		uuid.New().String(), userID, vendorID, time.Now())
	if err != nil {
		return fmt.Errorf("failed to add favourite vendor: %w", err)
	}
	return nil
}

// Count returns how many users follow the store
func (s *FavouriteService) Count(vendorID string) (int, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM favourite_vendors WHERE vendor_id = ?", vendorID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count favourite vendors: %w", err)
	}
	return count, nil
}

// Remove unfollows a store
func (s *FavouriteService) Remove(userID, vendorID string) error {
	res, err := s.db.Exec("DELETE FROM favourite_vendors WHERE user_id = ? AND vendor_id = ?",
		userID, vendorID)
	if err != nil {
		return fmt.Errorf("failed to remove favourite vendor: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return apperr.NotFound("favourite vendor", vendorID)
	}
	return nil
}

// List returns the stores the user follows, most recent first
func (s *FavouriteService) List(userID string) ([]models.FavouriteVendor, error) {
	rows, err := s.db.Query(`
		SELECT fv.id, fv.user_id, fv.vendor_id, v.store_name, fv.added_at
		FROM favourite_vendors fv
		JOIN vendors v ON v.id = fv.vendor_id
		WHERE fv.user_id = ?
		ORDER BY fv.added_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list favourite vendors: %w", err)
	}
	defer rows.Close()

	favourites := []models.FavouriteVendor{}
	for rows.Next() {
		var f models.FavouriteVendor
		if err := rows.Scan(&f.ID, &f.UserID, &f.VendorID, &f.StoreName, &f.AddedAt); err != nil {
			return nil, fmt.Errorf("failed to scan favourite vendor: %w", err)
		}
		favourites = append(favourites, f)
	}
	return favourites, rows.Err()
}

// IsFavourite reports whether the user follows the store
func (s *FavouriteService) IsFavourite(userID, vendorID string) (bool, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM favourite_vendors WHERE user_id = ? AND vendor_id = ?",
		userID, vendorID).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check favourite vendor: %w", err)
	}
	return count > 0, nil
}
