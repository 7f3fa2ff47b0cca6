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

const categoryListCacheKey = "categories:active"

// CategoryService manages catalog categories. The active category list
// is cached since it is read on nearly every catalog request.
type CategoryService struct {
	db    *sql.DB
	cache *CacheStore
}

// NewCategoryService creates a new category service
func NewCategoryService(db *sql.DB) *CategoryService {
	return &CategoryService{
		db:    db,
		cache: NewCacheStore(5 * time.Minute),
	}
}

// Create adds a new active category. Names must be unique among active
// categories; soft-deleted ones do not block reuse.
func (s *CategoryService) Create(req *models.CategoryRequest) (*models.Category, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}

	name := utils.SanitizeString(req.Name)
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM categories WHERE name = ? AND active = 1", name).Scan(&count)
	if err != nil {
		return nil, fmt.Errorf("failed to check category name: %w", err)
	}
	if count > 0 {
		return nil, apperr.Conflict("category name already exists")
	}

	now := time.Now()
	category := &models.Category{
		ID:          uuid.New().String(),
		Name:        name,
		Description: utils.SanitizeString(req.Description),
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	_, err = s.db.Exec(`
		INSERT INTO categories (id, name, description, active, created_at, updated_at)
		VALUES (?, ?, ?, 1, ?, ?)`,
		category.ID, category.Name, category.Description, category.CreatedAt, category.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	s.cache.Delete(categoryListCacheKey)
	return category, nil
}

// GetByID fetches an active category
func (s *CategoryService) GetByID(categoryID string) (*models.Category, error) {
	var c models.Category
	var imageURL sql.NullString
	var deletedAt sql.NullTime
	err := s.db.QueryRow(`
		SELECT id, name, description, image_url, active, deleted_at, created_at, updated_at
		FROM categories WHERE id = ? AND active = 1`, categoryID).Scan(
		&c.ID, &c.Name, &c.Description, &imageURL, &c.Active, &deletedAt, &c.CreatedAt, &c.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("category", categoryID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	if imageURL.Valid {
		c.ImageURL = &imageURL.String
	}
	if deletedAt.Valid {
		c.DeletedAt = &deletedAt.Time
	}
	return &c, nil
}

// List returns the active categories, served from cache when fresh
func (s *CategoryService) List() ([]models.Category, error) {
	if cached, ok := s.cache.Get(categoryListCacheKey); ok {
		return cached.([]models.Category), nil
	}

	categories, err := s.queryCategories(`
		SELECT id, name, description, image_url, active, created_at, updated_at
		FROM categories WHERE active = 1 ORDER BY name`)
	if err != nil {
		return nil, err
	}

	s.cache.Set(categoryListCacheKey, categories)
	return categories, nil
}

// Featured returns the active categories with the most active
// products
func (s *CategoryService) Featured(limit int) ([]models.Category, error) {
	if limit < 1 || limit > 50 {
		limit = 6
	}
	return s.queryCategories(`
		SELECT c.id, c.name, c.description, c.image_url, c.active, c.created_at, c.updated_at
		FROM categories c
		JOIN products p ON p.category_id = c.id AND p.active = 1
		WHERE c.active = 1
		GROUP BY c.id
		ORDER BY COUNT(p.id) DESC, c.name
		LIMIT ?`, limit)
}

func (s *CategoryService) queryCategories(query string, args ...interface{}) ([]models.Category, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	categories := []models.Category{}
	for rows.Next() {
		var c models.Category
		var imageURL sql.NullString
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &imageURL, &c.Active, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		if imageURL.Valid {
			c.ImageURL = &imageURL.String
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// Update modifies an active category
func (s *CategoryService) Update(categoryID string, req *models.CategoryRequest) (*models.Category, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}

	category, err := s.GetByID(categoryID)
	if err != nil {
		return nil, err
	}

	name := utils.SanitizeString(req.Name)
	var count int
	err = s.db.QueryRow("SELECT COUNT(*) FROM categories WHERE name = ? AND active = 1 AND id != ?",
		name, categoryID).Scan(&count)
	if err != nil {
		return nil, fmt.Errorf("failed to check category name: %w", err)
	}
	if count > 0 {
		return nil, apperr.Conflict("category name already exists")
	}

	category.Name = name
	category.Description = utils.SanitizeString(req.Description)
	category.UpdatedAt = time.Now()

	_, err = s.db.Exec(`
		UPDATE categories SET name = ?, description = ?, updated_at = ? WHERE id = ?`,
		category.Name, category.Description, category.UpdatedAt, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to update category: %w", err)
	}

	s.cache.Delete(categoryListCacheKey)
	return category, nil
}

// SetImage stores the uploaded image URL on the category
func (s *CategoryService) SetImage(categoryID, imageURL string) (*models.Category, error) {
	category, err := s.GetByID(categoryID)
	if err != nil {
		return nil, err
	}

	category.ImageURL = &imageURL
	category.UpdatedAt = time.Now()
	_, err = s.db.Exec("UPDATE categories SET image_url = ?, updated_at = ? WHERE id = ?",
		imageURL, category.UpdatedAt, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to set category image: %w", err)
	}

	s.cache.Delete(categoryListCacheKey)
	return category, nil
}

// Delete soft-deletes a category. In safe mode the delete is refused
// while active products still reference the category; force mode
// soft-deletes those products along with it, keeping the category link
// for order history.
func (s *CategoryService) Delete(categoryID string, force bool) error {
	if _, err := s.GetByID(categoryID); err != nil {
		return err
	}

	var productCount int
	err := s.db.QueryRow("SELECT COUNT(*) FROM products WHERE category_id = ? AND active = 1", categoryID).Scan(&productCount)
	if err != nil {
		return fmt.Errorf("failed to count category products: %w", err)
	}

	if productCount > 0 && !force {
		return apperr.Business(fmt.Sprintf("category has %d active products; deactivate them or delete with force", productCount))
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if productCount > 0 {
		if _, err := tx.Exec("UPDATE products SET active = 0, updated_at = ? WHERE category_id = ? AND active = 1",
			time.Now(), categoryID); err != nil {
			return fmt.Errorf("failed to deactivate products: %w", err)
		}
	}

	now := time.Now()
	if _, err := tx.Exec("UPDATE categories SET active = 0, deleted_at = ?, updated_at = ? WHERE id = ?",
		now, now, categoryID); err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit delete: %w", err)
	}

	s.cache.Delete(categoryListCacheKey)
	return nil
}
