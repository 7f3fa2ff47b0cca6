package services

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/suite"

	"sokoni-backend/internal/apperr"
	"sokoni-backend/internal/models"
)

type ProductServiceTestSuite struct {
	suite.Suite
	db         *sql.DB
	users      *UserService
	vendors    *VendorService
	categories *CategoryService
	products   *ProductService

	owner *models.User
	store *models.Vendor
}

func (s *ProductServiceTestSuite) SetupTest() {
	s.db = newTestDB(s.T())
	s.users = NewUserService(s.db)
	s.vendors = NewVendorService(s.db, s.users)
	s.categories = NewCategoryService(s.db)
	s.products = NewProductService(s.db, s.vendors, s.categories)

	s.owner, s.store = registerTestVendor(s.T(), s.users, s.vendors, "owner@example.com", "Fresh Farm")
}

func (s *ProductServiceTestSuite) TestCreateRequiresStore() {
	customer := registerTestUser(s.T(), s.users, "nobody@example.com")

	_, err := s.products.Create(customer, &models.ProductRequest{
		Name:  "Oranges",
		Price: 3.50,
	})
	s.Error(err)
	s.Equal(apperr.KindBusiness, apperr.KindOf(err))
}

func (s *ProductServiceTestSuite) TestCreateAssignsOwnStore() {
	product := createTestProduct(s.T(), s.products, s.owner, "Oranges", 3.50, 10)
	s.Equal(s.store.ID, product.VendorID)
	s.True(product.Active)
}

func (s *ProductServiceTestSuite) TestCreateRejectsUnknownCategory() {
	missing := "does-not-exist"
	_, err := s.products.Create(s.owner, &models.ProductRequest{
		Name:       "Oranges",
		Price:      3.50,
		CategoryID: &missing,
	})
	s.Error(err)
	s.Equal(apperr.KindNotFound, apperr.KindOf(err))
}

func (s *ProductServiceTestSuite) TestUpdateDeniedForForeignVendor() {
	product := createTestProduct(s.T(), s.products, s.owner, "Oranges", 3.50, 10)

	other, _ := registerTestVendor(s.T(), s.users, s.vendors, "rival@example.com", "Rival Store")
	name := "Stolen Oranges"
	_, err := s.products.Update(product.ID, other, &models.ProductUpdate{Name: &name})
	s.Error(err)
	s.Equal(apperr.KindAccessDenied, apperr.KindOf(err))
}

func (s *ProductServiceTestSuite) TestUpdateAllowedForAdmin() {
	product := createTestProduct(s.T(), s.products, s.owner, "Oranges", 3.50, 10)

	admin := registerTestUser(s.T(), s.users, "admin@example.com")
	s.Require().NoError(s.users.GrantRole(admin.ID, models.RoleAdmin))
	admin, err := s.users.GetByID(admin.ID)
	s.Require().NoError(err)

	name := "Corrected Oranges"
	updated, err := s.products.Update(product.ID, admin, &models.ProductUpdate{Name: &name})
	s.NoError(err)
	s.Equal("Corrected Oranges", updated.Name)
}

func (s *ProductServiceTestSuite) TestAdjustStockConsumesAndRestores() {
	product := createTestProduct(s.T(), s.products, s.owner, "Oranges", 3.50, 10)

	s.NoError(s.products.AdjustStock(product.ID, 4))
	fresh, err := s.products.GetByID(product.ID)
	s.Require().NoError(err)
	s.Equal(6, fresh.StockQuantity)

	s.NoError(s.products.AdjustStock(product.ID, -4))
	fresh, err = s.products.GetByID(product.ID)
	s.Require().NoError(err)
	s.Equal(10, fresh.StockQuantity)
}

func (s *ProductServiceTestSuite) TestAdjustStockNeverGoesNegative() {
	product := createTestProduct(s.T(), s.products, s.owner, "Oranges", 3.50, 2)

	err := s.products.AdjustStock(product.ID, 3)
	s.Error(err)
	s.Equal(apperr.KindInsufficientStock, apperr.KindOf(err))
	s.Contains(err.Error(), "Oranges")

	fresh, err := s.products.GetByID(product.ID)
	s.Require().NoError(err)
	s.Equal(2, fresh.StockQuantity)
}

func (s *ProductServiceTestSuite) TestListFiltersAndPaging() {
	for i := 0; i < 3; i++ {
		createTestProduct(s.T(), s.products, s.owner, "Oranges", 3.50, 10)
	}
	createTestProduct(s.T(), s.products, s.owner, "Milk", 1.20, 10)

	page, err := s.products.List(&models.ProductFilter{Query: "Oranges", Page: 1, PageSize: 2})
	s.Require().NoError(err)
	s.Equal(3, page.TotalItems)
	s.Equal(2, page.TotalPages)
	s.Len(page.Items, 2)

	min := 2.0
	page, err = s.products.List(&models.ProductFilter{MinPrice: &min})
	s.Require().NoError(err)
	s.Equal(3, page.TotalItems)
}

func (s *ProductServiceTestSuite) TestListInStockFilter() {
	createTestProduct(s.T(), s.products, s.owner, "Oranges", 3.50, 10)
	createTestProduct(s.T(), s.products, s.owner, "Milk", 1.20, 0)

	inStock := true
	page, err := s.products.List(&models.ProductFilter{InStock: &inStock})
	s.Require().NoError(err)
	s.Require().Equal(1, page.TotalItems)
	s.Equal("Oranges", page.Items[0].Name)

	// without the filter the sold-out product is still listed
	page, err = s.products.List(&models.ProductFilter{})
	s.Require().NoError(err)
	s.Equal(2, page.TotalItems)
}

func (s *ProductServiceTestSuite) TestDeleteHidesFromCatalog() {
	product := createTestProduct(s.T(), s.products, s.owner, "Oranges", 3.50, 10)

	s.Require().NoError(s.products.Delete(product.ID, s.owner))

	page, err := s.products.List(&models.ProductFilter{})
	s.Require().NoError(err)
	s.Equal(0, page.TotalItems)

	// still visible to the owner's store listing
	mine, err := s.products.MyProducts(s.owner)
	s.Require().NoError(err)
	s.Len(mine, 1)
	s.False(mine[0].Active)
}

func TestProductServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ProductServiceTestSuite))
}
