package services

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/suite"

	"sokoni-backend/internal/apperr"
	"sokoni-backend/internal/models"
)

type OrderServiceTestSuite struct {
	suite.Suite
	db       *sql.DB
	users    *UserService
	vendors  *VendorService
	products *ProductService
	carts    *CartService
	orders   *OrderService

	customer *models.User
	vendor   *models.User
	store    *models.Vendor
}

func (s *OrderServiceTestSuite) SetupTest() {
	s.db = newTestDB(s.T())
	s.users = NewUserService(s.db)
	s.vendors = NewVendorService(s.db, s.users)
	categories := NewCategoryService(s.db)
	s.products = NewProductService(s.db, s.vendors, categories)
	s.carts = NewCartService(s.db, s.products)
	s.orders = NewOrderService(s.db, s.carts, s.vendors, nil, nil)

	s.customer = registerTestUser(s.T(), s.users, "customer@example.com")
	s.vendor, s.store = registerTestVendor(s.T(), s.users, s.vendors, "seller@example.com", "Mama Mboga")
}

func (s *OrderServiceTestSuite) addToCart(productID string, quantity int) {
	_, err := s.carts.AddItem(s.customer.ID, &models.CartItemRequest{
		ProductID: productID,
		Quantity:  quantity,
	})
	s.Require().NoError(err)
}

func (s *OrderServiceTestSuite) checkout() (*models.Order, error) {
	return s.orders.Checkout(s.customer, &models.CheckoutRequest{
		ShippingAddress: "42 Market Street, Nairobi",
		PaymentMethod:   "card",
	})
}

func (s *OrderServiceTestSuite) TestCheckoutTotalsAndSnapshots() {
	apples := createTestProduct(s.T(), s.products, s.vendor, "Apples", 10.00, 5)
	bread := createTestProduct(s.T(), s.products, s.vendor, "Bread", 5.00, 3)

	s.addToCart(apples.ID, 2)
	s.addToCart(bread.ID, 1)

	order, err := s.checkout()
	s.Require().NoError(err)

	s.Equal(models.OrderStatusPaid, order.Status)
	s.InDelta(25.00, order.TotalPrice, 0.001)
	s.Len(order.Items, 2)

	byName := map[string]models.OrderItem{}
	for _, item := range order.Items {
		byName[item.ProductName] = item
	}
	s.Equal(2, byName["Apples"].Quantity)
	s.InDelta(10.00, byName["Apples"].Price, 0.001)
	s.Equal(s.store.ID, byName["Apples"].VendorID)
	s.Equal(1, byName["Bread"].Quantity)

	// stock is consumed and the cart is emptied
	freshApples, err := s.products.GetByID(apples.ID)
	s.Require().NoError(err)
	s.Equal(3, freshApples.StockQuantity)

	cart, err := s.carts.Get(s.customer.ID)
	s.Require().NoError(err)
	s.True(cart.IsEmpty())
}

func (s *OrderServiceTestSuite) TestCheckoutEmptyCart() {
	_, err := s.checkout()
	s.Error(err)
	s.Equal(apperr.KindCart, apperr.KindOf(err))
}

func (s *OrderServiceTestSuite) TestCheckoutInsufficientStockIsAllOrNothing() {
	apples := createTestProduct(s.T(), s.products, s.vendor, "Apples", 10.00, 5)
	bread := createTestProduct(s.T(), s.products, s.vendor, "Bread", 5.00, 4)

	s.addToCart(apples.ID, 2)
	s.addToCart(bread.ID, 4)

	// stock shrinks between carting and checkout
	lowStock := 1
	_, err := s.products.Update(bread.ID, s.vendor, &models.ProductUpdate{StockQuantity: &lowStock})
	s.Require().NoError(err)

	_, err = s.checkout()
	s.Require().Error(err)
	s.Equal(apperr.KindInsufficientStock, apperr.KindOf(err))
	s.Contains(err.Error(), "Bread")

	// nothing was charged: stock untouched, cart intact, no order rows
	freshApples, err := s.products.GetByID(apples.ID)
	s.Require().NoError(err)
	s.Equal(5, freshApples.StockQuantity)

	cart, err := s.carts.Get(s.customer.ID)
	s.Require().NoError(err)
	s.Len(cart.Items, 2)

	orders, err := s.orders.ListByUser(s.customer.ID)
	s.Require().NoError(err)
	s.Empty(orders)
}

func (s *OrderServiceTestSuite) TestCheckoutUsesCurrentPrices() {
	apples := createTestProduct(s.T(), s.products, s.vendor, "Apples", 10.00, 5)
	s.addToCart(apples.ID, 1)

	newPrice := 12.50
	_, err := s.products.Update(apples.ID, s.vendor, &models.ProductUpdate{Price: &newPrice})
	s.Require().NoError(err)

	order, err := s.checkout()
	s.Require().NoError(err)
	s.InDelta(12.50, order.TotalPrice, 0.001)
}

func (s *OrderServiceTestSuite) TestOrderSnapshotSurvivesPriceChange() {
	apples := createTestProduct(s.T(), s.products, s.vendor, "Apples", 10.00, 5)
	s.addToCart(apples.ID, 1)

	order, err := s.checkout()
	s.Require().NoError(err)

	newPrice := 99.99
	_, err = s.products.Update(apples.ID, s.vendor, &models.ProductUpdate{Price: &newPrice})
	s.Require().NoError(err)

	fresh, err := s.orders.GetByID(order.ID, s.customer)
	s.Require().NoError(err)
	s.InDelta(10.00, fresh.Items[0].Price, 0.001)
	s.InDelta(10.00, fresh.TotalPrice, 0.001)
}

func (s *OrderServiceTestSuite) TestCancelRestoresStock() {
	apples := createTestProduct(s.T(), s.products, s.vendor, "Apples", 10.00, 5)
	s.addToCart(apples.ID, 3)

	order, err := s.checkout()
	s.Require().NoError(err)

	cancelled, err := s.orders.Cancel(order.ID, s.customer)
	s.Require().NoError(err)
	s.Equal(models.OrderStatusCancelled, cancelled.Status)

	fresh, err := s.products.GetByID(apples.ID)
	s.Require().NoError(err)
	s.Equal(5, fresh.StockQuantity)
}

func (s *OrderServiceTestSuite) TestCancelRejectedAfterShipping() {
	apples := createTestProduct(s.T(), s.products, s.vendor, "Apples", 10.00, 5)
	s.addToCart(apples.ID, 1)

	order, err := s.checkout()
	s.Require().NoError(err)

	_, err = s.orders.UpdateStatus(order.ID, s.vendor, string(models.OrderStatusShipped))
	s.Require().NoError(err)

	_, err = s.orders.Cancel(order.ID, s.customer)
	s.Error(err)
	s.Equal(apperr.KindBusiness, apperr.KindOf(err))
}

func (s *OrderServiceTestSuite) TestGetOrderOwnershipDenied() {
	apples := createTestProduct(s.T(), s.products, s.vendor, "Apples", 10.00, 5)
	s.addToCart(apples.ID, 1)

	order, err := s.checkout()
	s.Require().NoError(err)

	stranger := registerTestUser(s.T(), s.users, "stranger@example.com")
	_, err = s.orders.GetByID(order.ID, stranger)
	s.Error(err)
	s.Equal(apperr.KindAccessDenied, apperr.KindOf(err))
}

func (s *OrderServiceTestSuite) TestAdminSeesAnyOrder() {
	apples := createTestProduct(s.T(), s.products, s.vendor, "Apples", 10.00, 5)
	s.addToCart(apples.ID, 1)

	order, err := s.checkout()
	s.Require().NoError(err)

	admin := registerTestUser(s.T(), s.users, "admin@example.com")
	s.Require().NoError(s.users.GrantRole(admin.ID, models.RoleAdmin))
	admin, err = s.users.GetByID(admin.ID)
	s.Require().NoError(err)

	fetched, err := s.orders.GetByID(order.ID, admin)
	s.NoError(err)
	s.Equal(order.ID, fetched.ID)
}

func (s *OrderServiceTestSuite) TestVendorOrdersAndStatusUpdate() {
	apples := createTestProduct(s.T(), s.products, s.vendor, "Apples", 10.00, 5)
	s.addToCart(apples.ID, 2)

	order, err := s.checkout()
	s.Require().NoError(err)

	vendorOrders, err := s.orders.VendorOrders(s.vendor)
	s.Require().NoError(err)
	s.Require().Len(vendorOrders, 1)
	s.Equal(order.ID, vendorOrders[0].OrderID)
	s.InDelta(20.00, vendorOrders[0].VendorTotal, 0.001)

	updated, err := s.orders.UpdateStatus(order.ID, s.vendor, string(models.OrderStatusProcessing))
	s.Require().NoError(err)
	s.Equal(models.OrderStatusProcessing, updated.Status)
}

func (s *OrderServiceTestSuite) TestVendorOrdersHideOtherVendorsLines() {
	otherVendor, otherStore := registerTestVendor(s.T(), s.users, s.vendors, "other@example.com", "Duka Lingine")
	apples := createTestProduct(s.T(), s.products, s.vendor, "Apples", 10.00, 5)
	milk := createTestProduct(s.T(), s.products, otherVendor, "Milk", 2.00, 5)

	s.addToCart(apples.ID, 2)
	s.addToCart(milk.ID, 3)

	order, err := s.checkout()
	s.Require().NoError(err)
	s.InDelta(26.00, order.TotalPrice, 0.001)

	vendorOrders, err := s.orders.VendorOrders(s.vendor)
	s.Require().NoError(err)
	s.Require().Len(vendorOrders, 1)
	s.Require().Len(vendorOrders[0].Items, 1)
	s.Equal("Apples", vendorOrders[0].Items[0].ProductName)
	s.InDelta(20.00, vendorOrders[0].VendorTotal, 0.001)

	otherOrders, err := s.orders.VendorOrders(otherVendor)
	s.Require().NoError(err)
	s.Require().Len(otherOrders, 1)
	s.Require().Len(otherOrders[0].Items, 1)
	s.Equal(otherStore.ID, otherOrders[0].Items[0].VendorID)
	s.InDelta(6.00, otherOrders[0].VendorTotal, 0.001)
}

func (s *OrderServiceTestSuite) TestUpdateStatusRejectsForeignVendor() {
	apples := createTestProduct(s.T(), s.products, s.vendor, "Apples", 10.00, 5)
	s.addToCart(apples.ID, 1)

	order, err := s.checkout()
	s.Require().NoError(err)

	otherVendor, _ := registerTestVendor(s.T(), s.users, s.vendors, "other@example.com", "Duka Lingine")
	_, err = s.orders.UpdateStatus(order.ID, otherVendor, string(models.OrderStatusShipped))
	s.Error(err)
	s.Equal(apperr.KindAccessDenied, apperr.KindOf(err))
}

type recordingPublisher struct {
	userIDs []string
	events  []map[string]interface{}
}

func (p *recordingPublisher) PublishOrderEvent(vendorUserID string, event interface{}) {
	p.userIDs = append(p.userIDs, vendorUserID)
	p.events = append(p.events, event.(map[string]interface{}))
}

func (s *OrderServiceTestSuite) TestOrderEventsReachVendorFeed() {
	publisher := &recordingPublisher{}
	orders := NewOrderService(s.db, s.carts, s.vendors, nil, publisher)

	apples := createTestProduct(s.T(), s.products, s.vendor, "Apples", 10.00, 5)
	s.addToCart(apples.ID, 1)

	order, err := orders.Checkout(s.customer, &models.CheckoutRequest{
		ShippingAddress: "42 Market Street, Nairobi",
		PaymentMethod:   "card",
	})
	s.Require().NoError(err)

	s.Require().Len(publisher.events, 1)
	s.Equal(s.vendor.ID, publisher.userIDs[0])
	s.Equal("order.placed", publisher.events[0]["type"])

	_, err = orders.UpdateStatus(order.ID, s.vendor, string(models.OrderStatusShipped))
	s.Require().NoError(err)

	s.Require().Len(publisher.events, 2)
	s.Equal(s.vendor.ID, publisher.userIDs[1])
	s.Equal("order.status-changed", publisher.events[1]["type"])
	s.Equal(models.OrderStatusShipped, publisher.events[1]["status"])
}

func (s *OrderServiceTestSuite) TestUpdateStatusRejectsUnknownValue() {
	apples := createTestProduct(s.T(), s.products, s.vendor, "Apples", 10.00, 5)
	s.addToCart(apples.ID, 1)

	order, err := s.checkout()
	s.Require().NoError(err)

	_, err = s.orders.UpdateStatus(order.ID, s.vendor, "TELEPORTED")
	s.Error(err)
	s.Equal(apperr.KindValidation, apperr.KindOf(err))
}

func TestOrderServiceTestSuite(t *testing.T) {
	suite.Run(t, new(OrderServiceTestSuite))
}
