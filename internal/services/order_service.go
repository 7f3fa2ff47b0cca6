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

// OrderMailer sends order lifecycle emails
type OrderMailer interface {
	SendOrderConfirmation(user *models.User, order *models.Order) error
}

// OrderPublisher pushes order events to connected vendor feeds
type OrderPublisher interface {
	PublishOrderEvent(vendorUserID string, event interface{})
}

// OrderService manages checkout and order lifecycle
type OrderService struct {
	db            *sql.DB
	cartService   *CartService
	vendorService *VendorService
	mailer        OrderMailer
	publisher     OrderPublisher
}

// NewOrderService creates a new order service. Mailer and publisher are
// optional; pass nil to disable notifications.
func NewOrderService(db *sql.DB, cartService *CartService, vendorService *VendorService,
	mailer OrderMailer, publisher OrderPublisher) *OrderService {
	return &OrderService{
		db:            db,
		cartService:   cartService,
		vendorService: vendorService,
		mailer:        mailer,
		publisher:     publisher,
	}
}

// Checkout turns the user's cart into a paid order. The whole
// operation runs in one transaction: every line must have stock or
// nothing is charged and the cart is left untouched. Totals and item
// snapshots use the product prices current at checkout time.
func (s *OrderService) Checkout(user *models.User, req *models.CheckoutRequest) (*models.Order, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}

	cart, err := s.cartService.Get(user.ID)
	if err != nil {
		return nil, err
	}
	if cart.IsEmpty() {
		return nil, apperr.Cart("cart is empty")
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()
	order := &models.Order{
		ID:              uuid.New().String(),
		UserID:          user.ID,
		Status:          models.OrderStatusPaid,
		ShippingAddress: utils.SanitizeString(req.ShippingAddress),
		PaymentMethod:   utils.SanitizeString(req.PaymentMethod),
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	for _, line := range cart.Items {
		var name, vendorID string
		var price float64
		var stock int
		err := tx.QueryRow(`
			SELECT name, price, stock_quantity, vendor_id FROM products WHERE id = ? AND active = 1`,
			line.ProductID).Scan(&name, &price, &stock, &vendorID)
		if err == sql.ErrNoRows {
			return nil, apperr.NotFound("product", line.ProductID)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to load product: %w", err)
		}

		if stock < line.Quantity {
			return nil, apperr.InsufficientStock(name)
		}

		item := models.OrderItem{
			ID:          uuid.New().String(),
			OrderID:     order.ID,
			ProductID:   line.ProductID,
			VendorID:    vendorID,
			ProductName: name,
			Quantity:    line.Quantity,
			Price:       price,
		}
		order.Items = append(order.Items, item)
		order.TotalPrice += item.Subtotal()

		if err := adjustStockTx(tx, line.ProductID, line.Quantity); err != nil {
			return nil, err
		}
	}

	_, err = tx.Exec(`
		INSERT INTO orders (id, user_id, status, total_price, shipping_address, payment_method, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		order.ID, order.UserID, order.Status, order.TotalPrice,
		order.ShippingAddress, order.PaymentMethod, order.CreatedAt, order.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	for _, item := range order.Items {
		_, err = tx.Exec(`
			INSERT INTO order_items (id, order_id, product_id, vendor_id, product_name, quantity, price, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			item.ID, item.OrderID, item.ProductID, item.VendorID, item.ProductName,
			item.Quantity, item.Price, now)
		if err != nil {
			return nil, fmt.Errorf("failed to create order item: %w", err)
		}
	}

	if _, err := tx.Exec("DELETE FROM cart_items WHERE cart_id = ?", cart.ID); err != nil {
		return nil, fmt.Errorf("failed to clear cart: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit checkout: %w", err)
	}

	s.notify(user, order)
	return order, nil
}

// notify fans out post-checkout side effects. Failures are logged,
// never surfaced; the order is already committed.
func (s *OrderService) notify(user *models.User, order *models.Order) {
	if s.mailer != nil {
		go func() {
			if err := s.mailer.SendOrderConfirmation(user, order); err != nil {
				log.Printf("order confirmation email failed for order %s: %v", order.ID, err)
			}
		}()
	}
	s.publishToVendors(order, "order.placed")
}

// publishToVendors pushes an order event to every vendor with an item
// on the order, once per vendor. Lookup failures are logged and
// skipped.
func (s *OrderService) publishToVendors(order *models.Order, eventType string) {
	if s.publisher == nil {
		return
	}

	seen := map[string]bool{}
	for _, item := range order.Items {
		if seen[item.VendorID] {
			continue
		}
		seen[item.VendorID] = true

		vendor, err := s.vendorService.GetByID(item.VendorID)
		if err != nil {
			log.Printf("order event skipped, vendor %s lookup failed: %v", item.VendorID, err)
			continue
		}
		s.publisher.PublishOrderEvent(vendor.UserID, map[string]interface{}{
			"type":      eventType,
			"orderId":   order.ID,
			"status":    order.Status,
			"createdAt": order.CreatedAt,
		})
	}
}

// GetByID fetches an order. Admins see every order, customers only
// their own; a foreign order is access denied, not hidden.
func (s *OrderService) GetByID(orderID string, actor *models.User) (*models.Order, error) {
	order, err := s.getOrder(orderID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && order.UserID != actor.ID {
		return nil, apperr.AccessDenied("not the owner of this order")
	}
	return order, nil
}

func (s *OrderService) getOrder(orderID string) (*models.Order, error) {
	var o models.Order
	err := s.db.QueryRow(`
		SELECT id, user_id, status, total_price, shipping_address, payment_method, created_at, updated_at
		FROM orders WHERE id = ?`, orderID).Scan(
		&o.ID, &o.UserID, &o.Status, &o.TotalPrice, &o.ShippingAddress,
		&o.PaymentMethod, &o.CreatedAt, &o.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("order", orderID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	items, err := s.loadItems(o.ID)
	if err != nil {
		return nil, err
	}
	o.Items = items
	return &o, nil
}

func (s *OrderService) loadItems(orderID string) ([]models.OrderItem, error) {
	rows, err := s.db.Query(`
		SELECT id, order_id, product_id, vendor_id, product_name, quantity, price
		FROM order_items WHERE order_id = ?`, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load order items: %w", err)
	}
	defer rows.Close()

	items := []models.OrderItem{}
	for rows.Next() {
		var item models.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.VendorID,
			&item.ProductName, &item.Quantity, &item.Price); err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// ListByUser returns the user's orders, newest first
func (s *OrderService) ListByUser(userID string) ([]models.Order, error) {
	rows, err := s.db.Query(`
		SELECT id, user_id, status, total_price, shipping_address, payment_method, created_at, updated_at
		FROM orders WHERE user_id = ? ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	orders := []models.Order{}
	for rows.Next() {
		var o models.Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.Status, &o.TotalPrice, &o.ShippingAddress,
			&o.PaymentMethod, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range orders {
		items, err := s.loadItems(orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].Items = items
	}
	return orders, nil
}

// Cancel cancels an order and restores the reserved stock. Only the
// owner or an admin may cancel, and only before fulfilment starts.
func (s *OrderService) Cancel(orderID string, actor *models.User) (*models.Order, error) {
	order, err := s.GetByID(orderID, actor)
	if err != nil {
		return nil, err
	}
	if !order.CanCancel() {
		return nil, apperr.Business(fmt.Sprintf("order in status %s can no longer be cancelled", order.Status))
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, item := range order.Items {
		if err := adjustStockTx(tx, item.ProductID, -item.Quantity); err != nil {
			return nil, err
		}
	}

	order.Status = models.OrderStatusCancelled
	order.UpdatedAt = time.Now()
	if _, err := tx.Exec("UPDATE orders SET status = ?, updated_at = ? WHERE id = ?",
		order.Status, order.UpdatedAt, orderID); err != nil {
		return nil, fmt.Errorf("failed to cancel order: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit cancellation: %w", err)
	}
	return order, nil
}

// VendorOrders returns the actor's slice of every order carrying at
// least one of their items. Other vendors' lines and the whole-order
// total stay hidden; each entry carries the vendor's own subtotal.
func (s *OrderService) VendorOrders(actor *models.User) ([]models.VendorOrder, error) {
	vendor, err := s.vendorService.GetByUserID(actor.ID)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Query(`
		SELECT DISTINCT o.id, o.status, o.shipping_address, o.created_at, o.updated_at
		FROM orders o
		JOIN order_items oi ON oi.order_id = o.id
		WHERE oi.vendor_id = ?
		ORDER BY o.created_at DESC`, vendor.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list vendor orders: %w", err)
	}
	defer rows.Close()

	orders := []models.VendorOrder{}
	for rows.Next() {
		var vo models.VendorOrder
		if err := rows.Scan(&vo.OrderID, &vo.Status, &vo.ShippingAddress, &vo.CreatedAt, &vo.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, vo)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range orders {
		items, err := s.loadVendorItems(orders[i].OrderID, vendor.ID)
		if err != nil {
			return nil, err
		}
		orders[i].Items = items
		for _, item := range items {
			orders[i].VendorTotal += item.Subtotal()
		}
	}
	return orders, nil
}

func (s *OrderService) loadVendorItems(orderID, vendorID string) ([]models.OrderItem, error) {
	rows, err := s.db.Query(`
		SELECT id, order_id, product_id, vendor_id, product_name, quantity, price
		FROM order_items WHERE order_id = ? AND vendor_id = ?`, orderID, vendorID)
	if err != nil {
		return nil, fmt.Errorf("failed to load order items: %w", err)
	}
	defer rows.Close()

	items := []models.OrderItem{}
	for rows.Next() {
		var item models.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.VendorID,
			&item.ProductName, &item.Quantity, &item.Price); err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// UpdateStatus sets an order's status. Admins may touch any order;
// vendors only orders carrying their items.
func (s *OrderService) UpdateStatus(orderID string, actor *models.User, status string) (*models.Order, error) {
	if !models.ValidOrderStatus(status) {
		return nil, apperr.Validation("validation failed",
			apperr.FieldError{Field: "status", Message: "unknown order status"})
	}

	order, err := s.getOrder(orderID)
	if err != nil {
		return nil, err
	}

	if !actor.IsAdmin() {
		vendor, err := s.vendorService.GetByUserID(actor.ID)
		if err != nil {
			return nil, apperr.AccessDenied("not a vendor on this order")
		}
		owns := false
		for _, item := range order.Items {
			if item.VendorID == vendor.ID {
				owns = true
				break
			}
		}
		if !owns {
			return nil, apperr.AccessDenied("not a vendor on this order")
		}
	}

	order.Status = models.OrderStatus(status)
	order.UpdatedAt = time.Now()
	if _, err := s.db.Exec("UPDATE orders SET status = ?, updated_at = ? WHERE id = ?",
		order.Status, order.UpdatedAt, orderID); err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	s.publishToVendors(order, "order.status-changed")
	return order, nil
}
