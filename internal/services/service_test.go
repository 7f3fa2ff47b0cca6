package services

import (
	"database/sql"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"sokoni-backend/database"
	"sokoni-backend/internal/models"
)

// newTestDB opens a fresh in-memory database with the full schema.
// The shared cache keeps every pooled connection on the same database.
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=1", uuid.New().String())
	db, err := database.Initialize(dsn)
	require.NoError(t, err)

	// a single connection avoids shared-cache table locks under
	// concurrent test writes
	db.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))

	t.Cleanup(func() { db.Close() })
	return db
}

// registerTestUser creates a customer account through the service
func registerTestUser(t *testing.T, users *UserService, email string) *models.User {
	t.Helper()

	user, err := users.Register(&models.UserRegistration{
		Email:     email,
		Password:  "secret-password",
		FirstName: "Test",
		LastName:  "User",
	})
	require.NoError(t, err)
	return user
}

// registerTestVendor creates an account with an open store
func registerTestVendor(t *testing.T, users *UserService, vendors *VendorService, email, storeName string) (*models.User, *models.Vendor) {
	t.Helper()

	user := registerTestUser(t, users, email)
	vendor, err := vendors.Register(user.ID, &models.VendorRegistration{
		StoreName: storeName,
	})
	require.NoError(t, err)

	user, err = users.GetByID(user.ID)
	require.NoError(t, err)
	return user, vendor
}

// createTestProduct lists a product in the vendor's store
func createTestProduct(t *testing.T, products *ProductService, owner *models.User, name string, price float64, stock int) *models.Product {
	t.Helper()

	product, err := products.Create(owner, &models.ProductRequest{
		Name:          name,
		Price:         price,
		StockQuantity: stock,
	})
	require.NoError(t, err)
	return product
}
