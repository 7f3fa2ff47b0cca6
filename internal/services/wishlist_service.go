package services

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"sokoni-backend/internal/apperr"
	"sokoni-backend/internal/models"
)

// WishlistService manages a customer's saved products
type WishlistService struct {
	db             *sql.DB
	productService *ProductService
}

// NewWishlistService creates a new wishlist service
func NewWishlistService(db *sql.DB, productService *ProductService) *WishlistService {
	return &WishlistService{db: db, productService: productService}
}

// Get returns the user's wishlist, creating an empty one on first use
func (s *WishlistService) Get(userID string) (*models.Wishlist, error) {
	wishlist, err := s.getOrCreate(userID)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Query(`
		SELECT wi.wishlist_id, wi.product_id, p.name, p.price, p.image_url, wi.added_at
		FROM wishlist_items wi
		JOIN products p ON p.id = wi.product_id
		WHERE wi.wishlist_id = ?
		ORDER BY wi.added_at DESC`, wishlist.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load wishlist items: %w", err)
	}
	defer rows.Close()

	wishlist.Items = []models.WishlistItem{}
	for rows.Next() {
		var item models.WishlistItem
		var imageURL sql.NullString
		if err := rows.Scan(&item.WishlistID, &item.ProductID, &item.ProductName,
			&item.Price, &imageURL, &item.AddedAt); err != nil {
			return nil, fmt.Errorf("failed to scan wishlist item: %w", err)
		}
		if imageURL.Valid {
			item.ImageURL = &imageURL.String
		}
		wishlist.Items = append(wishlist.Items, item)
	}
	return wishlist, rows.Err()
}

func (s *WishlistService) getOrCreate(userID string) (*models.Wishlist, error) {
	var w models.Wishlist
	err := s.db.QueryRow("SELECT id, user_id, created_at FROM wishlists WHERE user_id = ?", userID).Scan(
		&w.ID, &w.UserID, &w.CreatedAt)
	if err == nil {
		return &w, nil
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to get wishlist: %w", err)
	}

	w = models.Wishlist{ID: uuid.New().String(), UserID: userID, CreatedAt: time.Now()}
	_, err = s.db.Exec("INSERT INTO wishlists (id, user_id, created_at) VALUES (?, ?, ?)",
		w.ID, w.UserID, w.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create wishlist: %w", err)
	}
	return &w, nil
}

// Add saves a product to the wishlist. Adding twice is a no-op.
func (s *WishlistService) Add(userID, productID string) (*models.Wishlist, error) {
	product, err := s.productService.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if !product.Active {
		return nil, apperr.Business("product is no longer available")
	}

	wishlist, err := s.getOrCreate(userID)
	if err != nil {
		return nil, err
	}

	_, err = s.db.Exec(`
		INSERT OR IGNORE INTO wishlist_items (wishlist_id, product_id, added_at) VALUES (?, ?, ?)`,
		wishlist.ID, productID, time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to add wishlist item: %w", err)
	}

	return s.Get(userID)
}

// Contains reports whether the product is on the user's wishlist
func (s *WishlistService) Contains(userID, productID string) (bool, error) {
	wishlist, err := s.getOrCreate(userID)
	if err != nil {
		return false, err
	}

	var count int
	err = s.db.QueryRow("SELECT COUNT(*) FROM wishlist_items WHERE wishlist_id = ? AND product_id = ?",
		wishlist.ID, productID).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check wishlist item: %w", err)
	}
	return count > 0, nil
}

// Clear empties the wishlist
func (s *WishlistService) Clear(userID string) error {
	wishlist, err := s.getOrCreate(userID)
	if err != nil {
		return err
	}
	if _, err := s.db.Exec("DELETE FROM wishlist_items WHERE wishlist_id = ?", wishlist.ID); err != nil {
		return fmt.Errorf("failed to clear wishlist: %w", err)
	}
	return nil
}

// Remove drops a product from the wishlist
func (s *WishlistService) Remove(userID, productID string) (*models.Wishlist, error) {
	wishlist, err := s.getOrCreate(userID)
	if err != nil {
		return nil, err
	}

	res, err := s.db.Exec("DELETE FROM wishlist_items WHERE wishlist_id = ? AND product_id = ?",
		wishlist.ID, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to remove wishlist item: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return nil, apperr.NotFound("wishlist item", productID)
	}

	return s.Get(userID)
}
