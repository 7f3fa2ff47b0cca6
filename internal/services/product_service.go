package services

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"sokoni-backend/internal/apperr"
	"sokoni-backend/internal/models"
	"sokoni-backend/internal/utils"
)

// ProductService manages the product catalog
type ProductService struct {
	db              *sql.DB
	vendorService   *VendorService
	categoryService *CategoryService
}

// NewProductService creates a new product service
func NewProductService(db *sql.DB, vendorService *VendorService, categoryService *CategoryService) *ProductService {
	return &ProductService{db: db, vendorService: vendorService, categoryService: categoryService}
}

// Create lists a new product under the actor's store
func (s *ProductService) Create(actor *models.User, req *models.ProductRequest) (*models.Product, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}
	if req.Price <= 0 {
		return nil, apperr.Validation("validation failed",
			apperr.FieldError{Field: "price", Message: "must be greater than zero"})
	}
	if req.StockQuantity < 0 {
		return nil, apperr.Validation("validation failed",
			apperr.FieldError{Field: "stockQuantity", Message: "must not be negative"})
	}

	vendor, err := s.vendorService.GetByUserID(actor.ID)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return nil, apperr.Business("a store is required before listing products")
		}
		return nil, err
	}

	if req.CategoryID != nil {
		if _, err := s.categoryService.GetByID(*req.CategoryID); err != nil {
			return nil, err
		}
	}

	now := time.Now()
	product := &models.Product{
		ID:            uuid.New().String(),
		Name:          utils.SanitizeString(req.Name),
		Description:   utils.SanitizeString(req.Description),
		Price:         req.Price,
		StockQuantity: req.StockQuantity,
		CategoryID:    req.CategoryID,
		VendorID:      vendor.ID,
		Active:        true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	_, err = s.db.Exec(`
		INSERT INTO products (id, name, description, price, stock_quantity, category_id, vendor_id, active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, 1, ?, ?)`,
		product.ID, product.Name, product.Description, product.Price, product.StockQuantity,
		product.CategoryID, product.VendorID, product.CreatedAt, product.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	return product, nil
}

// GetByID fetches a product by id
func (s *ProductService) GetByID(productID string) (*models.Product, error) {
	var p models.Product
	var desc, imageURL sql.NullString
	err := s.db.QueryRow(`
		SELECT id, name, description, price, stock_quantity, category_id, vendor_id, active, image_url, created_at, updated_at
		FROM products WHERE id = ?`, productID).Scan(
		&p.ID, &p.Name, &desc, &p.Price, &p.StockQuantity, &p.CategoryID, &p.VendorID,
		&p.Active, &imageURL, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("product", productID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	p.Description = desc.String
	if imageURL.Valid {
		p.ImageURL = &imageURL.String
	}
	return &p, nil
}

// List returns a page of active products matching the filter
func (s *ProductService) List(filter *models.ProductFilter) (*models.ProductPage, error) {
	filter.Normalize()

	where := []string{"active = 1"}
	args := []interface{}{}

	if q := strings.TrimSpace(filter.Query); q != "" {
		where = append(where, "(name LIKE ? OR description LIKE ?)")
		pattern := "%" + q + "%"
		args = append(args, pattern, pattern)
	}
	if filter.CategoryID != "" {
		where = append(where, "category_id = ?")
		args = append(args, filter.CategoryID)
	}
	if filter.VendorID != "" {
		where = append(where, "vendor_id = ?")
		args = append(args, filter.VendorID)
	}
	if filter.MinPrice != nil {
		where = append(where, "price >= ?")
		args = append(args, *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		where = append(where, "price <= ?")
		args = append(args, *filter.MaxPrice)
	}
	if filter.InStock != nil && *filter.InStock {
		where = append(where, "stock_quantity > 0")
	}

	whereClause := strings.Join(where, " AND ")

	var total int
	err := s.db.QueryRow("SELECT COUNT(*) FROM products WHERE "+whereClause, args...).Scan(&total)
	if err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}

	query := `
		SELECT id, name, description, price, stock_quantity, category_id, vendor_id, active, image_url, created_at, updated_at
		FROM products WHERE ` + whereClause + ` ORDER BY created_at DESC LIMIT ? OFFSET ?`
	args = append(args, filter.PageSize, filter.Offset())

	items, err := s.queryProducts(query, args...)
	if err != nil {
		return nil, err
	}

	totalPages := (total + filter.PageSize - 1) / filter.PageSize
	return &models.ProductPage{
		Items:      items,
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		TotalItems: total,
		TotalPages: totalPages,
	}, nil
}

// Featured returns the newest active products
func (s *ProductService) Featured(limit int) ([]models.Product, error) {
	if limit < 1 || limit > 50 {
		limit = 8
	}
	return s.queryProducts(`
		SELECT id, name, description, price, stock_quantity, category_id, vendor_id, active, image_url, created_at, updated_at
		FROM products WHERE active = 1 ORDER BY created_at DESC LIMIT ?`, limit)
}

// ListByVendor returns a store's active products
func (s *ProductService) ListByVendor(vendorID string) ([]models.Product, error) {
	return s.queryProducts(`
		SELECT id, name, description, price, stock_quantity, category_id, vendor_id, active, image_url, created_at, updated_at
		FROM products WHERE vendor_id = ? AND active = 1 ORDER BY created_at DESC`, vendorID)
}

// MyProducts returns every product in the actor's store, inactive ones
// included
func (s *ProductService) MyProducts(actor *models.User) ([]models.Product, error) {
	vendor, err := s.vendorService.GetByUserID(actor.ID)
	if err != nil {
		return nil, err
	}
	return s.queryProducts(`
		SELECT id, name, description, price, stock_quantity, category_id, vendor_id, active, image_url, created_at, updated_at
		FROM products WHERE vendor_id = ? ORDER BY created_at DESC`, vendor.ID)
}

func (s *ProductService) queryProducts(query string, args ...interface{}) ([]models.Product, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		var p models.Product
		var desc, imageURL sql.NullString
		if err := rows.Scan(&p.ID, &p.Name, &desc, &p.Price, &p.StockQuantity, &p.CategoryID,
			&p.VendorID, &p.Active, &imageURL, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		p.Description = desc.String
		if imageURL.Valid {
			p.ImageURL = &imageURL.String
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// authorize loads the product and verifies the actor may modify it.
// Admins bypass the ownership check; everyone else must own the store
// the product belongs to.
func (s *ProductService) authorize(productID string, actor *models.User) (*models.Product, error) {
	product, err := s.GetByID(productID)
	if err != nil {
		return nil, err
	}

	if actor.IsAdmin() {
		return product, nil
	}

	vendor, err := s.vendorService.GetByID(product.VendorID)
	if err != nil {
		return nil, err
	}
	if vendor.UserID != actor.ID {
		return nil, apperr.AccessDenied("not the owner of this product")
	}
	return product, nil
}

// Update modifies a product owned by the actor
func (s *ProductService) Update(productID string, actor *models.User, req *models.ProductUpdate) (*models.Product, error) {
	product, err := s.authorize(productID, actor)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		product.Name = utils.SanitizeString(*req.Name)
	}
	if req.Description != nil {
		product.Description = utils.SanitizeString(*req.Description)
	}
	if req.Price != nil {
		if *req.Price <= 0 {
			return nil, apperr.Validation("validation failed",
				apperr.FieldError{Field: "price", Message: "must be greater than zero"})
		}
		product.Price = *req.Price
	}
	if req.StockQuantity != nil {
		if *req.StockQuantity < 0 {
			return nil, apperr.Validation("validation failed",
				apperr.FieldError{Field: "stockQuantity", Message: "must not be negative"})
		}
		product.StockQuantity = *req.StockQuantity
	}
	if req.CategoryID != nil {
		if *req.CategoryID != "" {
			if _, err := s.categoryService.GetByID(*req.CategoryID); err != nil {
				return nil, err
			}
			product.CategoryID = req.CategoryID
		} else {
			product.CategoryID = nil
		}
	}
	if req.Active != nil {
		product.Active = *req.Active
	}
	product.UpdatedAt = time.Now()

	_, err = s.db.Exec(`
		UPDATE products SET name = ?, description = ?, price = ?, stock_quantity = ?, category_id = ?, active = ?, updated_at = ?
		WHERE id = ?`,
		product.Name, product.Description, product.Price, product.StockQuantity,
		product.CategoryID, product.Active, product.UpdatedAt, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	return product, nil
}

// SetImage stores the uploaded image URL on the product
func (s *ProductService) SetImage(productID string, actor *models.User, imageURL string) (*models.Product, error) {
	product, err := s.authorize(productID, actor)
	if err != nil {
		return nil, err
	}

	product.ImageURL = &imageURL
	product.UpdatedAt = time.Now()
	_, err = s.db.Exec("UPDATE products SET image_url = ?, updated_at = ? WHERE id = ?",
		imageURL, product.UpdatedAt, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to set product image: %w", err)
	}
	return product, nil
}

// Delete deactivates a product. Rows are kept because order history
// references them.
func (s *ProductService) Delete(productID string, actor *models.User) error {
	if _, err := s.authorize(productID, actor); err != nil {
		return err
	}

	_, err := s.db.Exec("UPDATE products SET active = 0, updated_at = ? WHERE id = ?",
		time.Now(), productID)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return nil
}

// AdjustStock applies a stock delta where positive values consume
// stock and negative values restore it. The resulting quantity must
// not go negative.
func (s *ProductService) AdjustStock(productID string, delta int) error {
	return adjustStockTx(s.db, productID, delta)
}

// execer covers *sql.DB and *sql.Tx so stock math can run inside the
// checkout transaction
type execer interface {
	QueryRow(query string, args ...interface{}) *sql.Row
	Exec(query string, args ...interface{}) (sql.Result, error)
}

func adjustStockTx(e execer, productID string, delta int) error {
	var name string
	var stock int
	err := e.QueryRow("SELECT name, stock_quantity FROM products WHERE id = ?", productID).Scan(&name, &stock)
	if err == sql.ErrNoRows {
		return apperr.NotFound("product", productID)
	}
	if err != nil {
		return fmt.Errorf("failed to read stock: %w", err)
	}

	newStock := stock - delta
	if newStock < 0 {
		return apperr.InsufficientStock(name)
	}

	_, err = e.Exec("UPDATE products SET stock_quantity = ?, updated_at = ? WHERE id = ?",
		newStock, time.Now(), productID)
	if err != nil {
		return fmt.Errorf("failed to adjust stock: %w", err)
	}
	return nil
}
