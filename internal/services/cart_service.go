package services

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"sokoni-backend/internal/apperr"
	"sokoni-backend/internal/models"
	"sokoni-backend/internal/utils"
)

// CartService manages per-user shopping carts
type CartService struct {
	db             *sql.DB
	productService *ProductService
}

// NewCartService creates a new cart service
func NewCartService(db *sql.DB, productService *ProductService) *CartService {
	return &CartService{db: db, productService: productService}
}

// Get returns the user's cart, creating an empty one on first use.
// Item lines carry the current product name and price.
func (s *CartService) Get(userID string) (*models.Cart, error) {
	cart, err := s.getOrCreate(userID)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Query(`
		SELECT ci.id, ci.cart_id, ci.product_id, p.name, p.price, ci.quantity, ci.created_at, ci.updated_at
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.cart_id = ?
		ORDER BY ci.created_at`, cart.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart items: %w", err)
	}
	defer rows.Close()

	cart.Items = []models.CartItem{}
	for rows.Next() {
		var item models.CartItem
		if err := rows.Scan(&item.ID, &item.CartID, &item.ProductID, &item.ProductName,
			&item.UnitPrice, &item.Quantity, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan cart item: %w", err)
		}
		cart.Items = append(cart.Items, item)
	}
	return cart, rows.Err()
}

func (s *CartService) getOrCreate(userID string) (*models.Cart, error) {
	var cart models.Cart
	err := s.db.QueryRow(`
		SELECT id, user_id, created_at, updated_at FROM carts WHERE user_id = ?`, userID).Scan(
		&cart.ID, &cart.UserID, &cart.CreatedAt, &cart.UpdatedAt)
	if err == nil {
		return &cart, nil
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}

	now := time.Now()
	cart = models.Cart{ID: uuid.New().String(), UserID: userID, CreatedAt: now, UpdatedAt: now}
	_, err = s.db.Exec("INSERT INTO carts (id, user_id, created_at, updated_at) VALUES (?, ?, ?, ?)",
		cart.ID, cart.UserID, cart.CreatedAt, cart.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create cart: %w", err)
	}
	return &cart, nil
}

// AddItem puts a product in the cart, merging quantities when the
// product is already present. The merged quantity must be covered by
// the current stock.
func (s *CartService) AddItem(userID string, req *models.CartItemRequest) (*models.Cart, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}

	product, err := s.productService.GetByID(req.ProductID)
	if err != nil {
		return nil, err
	}
	if !product.Active {
		return nil, apperr.Cart("product is no longer available")
	}

	cart, err := s.getOrCreate(userID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	var itemID string
	var quantity int
	err = s.db.QueryRow("SELECT id, quantity FROM cart_items WHERE cart_id = ? AND product_id = ?",
		cart.ID, req.ProductID).Scan(&itemID, &quantity)
	switch {
	case err == sql.ErrNoRows:
		if !product.InStock(req.Quantity) {
			return nil, apperr.InsufficientStock(product.Name)
		}
		_, err = s.db.Exec(`
			INSERT INTO cart_items (id, cart_id, product_id, quantity, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?)`,
			uuid.New().String(), cart.ID, req.ProductID, req.Quantity, now, now)
		if err != nil {
			return nil, fmt.Errorf("failed to add cart item: %w", err)
		}
	case err != nil:
		return nil, fmt.Errorf("failed to check cart item: %w", err)
	default:
		if !product.InStock(quantity + req.Quantity) {
			return nil, apperr.InsufficientStock(product.Name)
		}
		_, err = s.db.Exec("UPDATE cart_items SET quantity = ?, updated_at = ? WHERE id = ?",
			quantity+req.Quantity, now, itemID)
		if err != nil {
			return nil, fmt.Errorf("failed to update cart item: %w", err)
		}
	}

	s.touch(cart.ID, now)
	return s.Get(userID)
}

// UpdateItem sets the quantity of a cart line. The new quantity must
// be covered by the current stock.
func (s *CartService) UpdateItem(userID, productID string, req *models.CartItemUpdate) (*models.Cart, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}

	product, err := s.productService.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if !product.InStock(req.Quantity) {
		return nil, apperr.InsufficientStock(product.Name)
	}

	cart, err := s.getOrCreate(userID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	res, err := s.db.Exec("UPDATE cart_items SET quantity = ?, updated_at = ? WHERE cart_id = ? AND product_id = ?",
		req.Quantity, now, cart.ID, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to update cart item: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return nil, apperr.Cart("product is not in the cart")
	}

	s.touch(cart.ID, now)
	return s.Get(userID)
}

// RemoveItem drops a product from the cart
func (s *CartService) RemoveItem(userID, productID string) (*models.Cart, error) {
	cart, err := s.getOrCreate(userID)
	if err != nil {
		return nil, err
	}

	res, err := s.db.Exec("DELETE FROM cart_items WHERE cart_id = ? AND product_id = ?", cart.ID, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to remove cart item: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return nil, apperr.Cart("product is not in the cart")
	}

	s.touch(cart.ID, time.Now())
	return s.Get(userID)
}

// Clear empties the cart
func (s *CartService) Clear(userID string) error {
	cart, err := s.getOrCreate(userID)
	if err != nil {
		return err
	}
	if _, err := s.db.Exec("DELETE FROM cart_items WHERE cart_id = ?", cart.ID); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	s.touch(cart.ID, time.Now())
	return nil
}

func (s *CartService) touch(cartID string, at time.Time) {
	if _, err := s.db.Exec("UPDATE carts SET updated_at = ? WHERE id = ?", at, cartID); err != nil {
		log.Printf("failed to touch cart %s: %v", cartID, err)
	}
}
