package api

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"sokoni-backend/config"
	"sokoni-backend/database"
	"sokoni-backend/internal/models"
	"sokoni-backend/internal/services"
)

type APITestSuite struct {
	suite.Suite
	db     *sql.DB
	router *gin.Engine
	users  *services.UserService
}

func (s *APITestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=1", uuid.New().String())
	db, err := database.Initialize(dsn)
	s.Require().NoError(err)
	db.SetMaxOpenConns(1)
	s.Require().NoError(database.Migrate(db))
	s.T().Cleanup(func() { db.Close() })
	s.db = db

	cfg := config.Load()
	cfg.UploadPath = s.T().TempDir()

	authService := services.NewAuthService("test-secret", time.Hour)
	s.users = services.NewUserService(db)
	vendorService := services.NewVendorService(db, s.users)
	categoryService := services.NewCategoryService(db)
	productService := services.NewProductService(db, vendorService, categoryService)
	cartService := services.NewCartService(db, productService)
	wishlistService := services.NewWishlistService(db, productService)
	favouriteService := services.NewFavouriteService(db, vendorService)
	orderService := services.NewOrderService(db, cartService, vendorService, nil, nil)

	storage, err := services.NewLocalStorage(cfg.UploadPath, cfg.BaseURL)
	s.Require().NoError(err)

	eventHub := services.NewEventHub()
	go eventHub.Run()

	handler := NewHandler(cfg, authService, s.users, vendorService, categoryService,
		productService, cartService, orderService, wishlistService, favouriteService,
		storage, eventHub)
	s.router = SetupRouter(cfg, handler, authService)
}

func (s *APITestSuite) request(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *APITestSuite) decode(rec *httptest.ResponseRecorder) map[string]interface{} {
	var out map[string]interface{}
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

// registerAndLogin signs up an account and returns its token
func (s *APITestSuite) registerAndLogin(email string) string {
	rec := s.request(http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"email":     email,
		"password":  "secret-password",
		"firstName": "Test",
		"lastName":  "User",
	})
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())

	data := s.decode(rec)["data"].(map[string]interface{})
	return data["token"].(string)
}

// promote grants a role directly and returns a fresh token via login
func (s *APITestSuite) promote(email string, role models.Role) string {
	user, err := s.users.GetByEmail(email)
	s.Require().NoError(err)
	s.Require().NoError(s.users.GrantRole(user.ID, role))

	rec := s.request(http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email":    email,
		"password": "secret-password",
	})
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	data := s.decode(rec)["data"].(map[string]interface{})
	return data["token"].(string)
}

func (s *APITestSuite) TestHealth() {
	rec := s.request(http.MethodGet, "/health", "", nil)
	s.Equal(http.StatusOK, rec.Code)
	s.Equal("ok", s.decode(rec)["status"])
}

func (s *APITestSuite) TestRegisterLoginMe() {
	token := s.registerAndLogin("alice@example.com")

	rec := s.request(http.MethodGet, "/api/v1/auth/me", token, nil)
	s.Require().Equal(http.StatusOK, rec.Code)

	data := s.decode(rec)["data"].(map[string]interface{})
	s.Equal("alice@example.com", data["email"])
}

func (s *APITestSuite) TestMeRequiresToken() {
	rec := s.request(http.MethodGet, "/api/v1/auth/me", "", nil)
	s.Equal(http.StatusUnauthorized, rec.Code)
}

func (s *APITestSuite) TestProblemPayloadForMissingProduct() {
	rec := s.request(http.MethodGet, "/api/v1/products/no-such-id", "", nil)
	s.Require().Equal(http.StatusNotFound, rec.Code)

	problem := s.decode(rec)
	s.Equal("https://sokoni.dev/problems/not-found", problem["type"])
	s.Equal("Not Found", problem["title"])
	s.Equal(float64(http.StatusNotFound), problem["status"])
	s.Contains(problem["detail"], "no-such-id")
	s.NotEmpty(problem["timestamp"])
}

func (s *APITestSuite) TestValidationProblemListsFields() {
	rec := s.request(http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"email": "not-an-email",
	})
	s.Require().Equal(http.StatusBadRequest, rec.Code)

	problem := s.decode(rec)
	s.Equal("Validation Failed", problem["title"])
}

func (s *APITestSuite) TestCategoryCRUDRequiresStaffRole() {
	token := s.registerAndLogin("alice@example.com")

	rec := s.request(http.MethodPost, "/api/v1/categories", token, gin.H{"name": "Fruits"})
	s.Equal(http.StatusForbidden, rec.Code)

	staff := s.promote("alice@example.com", models.RoleManager)
	rec = s.request(http.MethodPost, "/api/v1/categories", staff, gin.H{"name": "Fruits"})
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.request(http.MethodGet, "/api/v1/categories", "", nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	list := s.decode(rec)["data"].([]interface{})
	s.Len(list, 1)
}

func (s *APITestSuite) TestVendorAndCheckoutFlow() {
	sellerToken := s.registerAndLogin("seller@example.com")

	rec := s.request(http.MethodPost, "/api/v1/vendors", sellerToken, gin.H{
		"storeName": "Mama Mboga",
	})
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())

	// role changes require a fresh token
	sellerToken = s.promote("seller@example.com", models.RoleVendor)

	rec = s.request(http.MethodPost, "/api/v1/products", sellerToken, gin.H{
		"name":          "Apples",
		"price":         10.00,
		"stockQuantity": 5,
	})
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())
	product := s.decode(rec)["data"].(map[string]interface{})
	productID := product["id"].(string)

	buyerToken := s.registerAndLogin("buyer@example.com")
	rec = s.request(http.MethodPost, "/api/v1/cart/items", buyerToken, gin.H{
		"productId": productID,
		"quantity":  2,
	})
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

	rec = s.request(http.MethodPost, "/api/v1/orders/checkout", buyerToken, gin.H{
		"shippingAddress": "42 Market Street, Nairobi",
		"paymentMethod":   "card",
	})
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())

	order := s.decode(rec)["data"].(map[string]interface{})
	s.Equal("PAID", order["status"])
	s.InDelta(20.00, order["totalPrice"].(float64), 0.001)

	// insufficient stock surfaces as a conflict problem naming the product
	rec = s.request(http.MethodPost, "/api/v1/cart/items", buyerToken, gin.H{
		"productId": productID,
		"quantity":  3,
	})
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

	// stock shrinks after carting, checkout must catch it
	rec = s.request(http.MethodPut, "/api/v1/products/"+productID, sellerToken, gin.H{
		"stockQuantity": 1,
	})
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

	rec = s.request(http.MethodPost, "/api/v1/orders/checkout", buyerToken, gin.H{
		"shippingAddress": "42 Market Street, Nairobi",
		"paymentMethod":   "card",
	})
	s.Require().Equal(http.StatusConflict, rec.Code, rec.Body.String())
	problem := s.decode(rec)
	s.Equal("Insufficient Stock", problem["title"])
	s.Contains(problem["detail"], "Apples")

	// the cart itself refuses quantities the stock cannot cover
	rec = s.request(http.MethodPost, "/api/v1/cart/items", buyerToken, gin.H{
		"productId": productID,
		"quantity":  1,
	})
	s.Require().Equal(http.StatusConflict, rec.Code, rec.Body.String())
	s.Equal("Insufficient Stock", s.decode(rec)["title"])
}

func (s *APITestSuite) TestAdminCanDisableAccount() {
	s.registerAndLogin("victim@example.com")
	victim, err := s.users.GetByEmail("victim@example.com")
	s.Require().NoError(err)

	s.registerAndLogin("root@example.com")
	adminToken := s.promote("root@example.com", models.RoleAdmin)

	rec := s.request(http.MethodPut, "/api/v1/admin/users/"+victim.ID+"/enabled", adminToken, gin.H{
		"enabled": false,
	})
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

	// the disabled account can no longer log in
	rec = s.request(http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email":    "victim@example.com",
		"password": "secret-password",
	})
	s.Equal(http.StatusForbidden, rec.Code)
}

func (s *APITestSuite) TestProductCreateRequiresVendorRole() {
	token := s.registerAndLogin("customer@example.com")
	rec := s.request(http.MethodPost, "/api/v1/products", token, gin.H{
		"name":  "Contraband",
		"price": 1.00,
	})
	s.Equal(http.StatusForbidden, rec.Code)
}

func TestAPITestSuite(t *testing.T) {
	suite.Run(t, new(APITestSuite))
}
