package models

import "time"

// OrderStatus captures the lifecycle state of an order
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "PENDING"
	OrderStatusPaid       OrderStatus = "PAID"
	OrderStatusProcessing OrderStatus = "PROCESSING"
	OrderStatusShipped    OrderStatus = "SHIPPED"
	OrderStatusDelivered  OrderStatus = "DELIVERED"
	OrderStatusCancelled  OrderStatus = "CANCELLED"
)

// ValidOrderStatus reports whether s names a known status
func ValidOrderStatus(s string) bool {
	switch OrderStatus(s) {
	case OrderStatusPending, OrderStatusPaid, OrderStatusProcessing,
		OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// Order represents a placed purchase
type Order struct {
	ID              string      `json:"id" db:"id"`
	UserID          string      `json:"userId" db:"user_id"`
	Status          OrderStatus `json:"status" db:"status"`
	TotalPrice      float64     `json:"totalPrice" db:"total_price"`
	ShippingAddress string      `json:"shippingAddress" db:"shipping_address"`
	PaymentMethod   string      `json:"paymentMethod" db:"payment_method"`
	Items           []OrderItem `json:"items"`
	CreatedAt       time.Time   `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time   `json:"updatedAt" db:"updated_at"`
}

// CanCancel reports whether the order may still be cancelled. Orders
// become PAID at checkout, so both pre-payment and freshly paid orders
// remain cancellable until fulfilment starts.
func (o *Order) CanCancel() bool {
	return o.Status == OrderStatusPending || o.Status == OrderStatusPaid
}

// OrderItem is a snapshot of one purchased product line. Product name,
// vendor and price are copied at checkout so later catalog edits do not
// rewrite order history.
type OrderItem struct {
	ID          string  `json:"id" db:"id"`
	OrderID     string  `json:"-" db:"order_id"`
	ProductID   string  `json:"productId" db:"product_id"`
	VendorID    string  `json:"vendorId" db:"vendor_id"`
	ProductName string  `json:"productName" db:"product_name"`
	Quantity    int     `json:"quantity" db:"quantity"`
	Price       float64 `json:"price" db:"price"`
}

// Subtotal returns the line total at the captured price
func (oi *OrderItem) Subtotal() float64 {
	return oi.Price * float64(oi.Quantity)
}

// VendorOrder is one vendor's slice of an order: only that vendor's
// item lines and their subtotal, not the whole-order total
type VendorOrder struct {
	OrderID         string      `json:"orderId"`
	Status          OrderStatus `json:"status"`
	ShippingAddress string      `json:"shippingAddress"`
	Items           []OrderItem `json:"items"`
	VendorTotal     float64     `json:"vendorTotal"`
	CreatedAt       time.Time   `json:"createdAt"`
	UpdatedAt       time.Time   `json:"updatedAt"`
}

// CheckoutRequest represents data for placing an order from the cart
type CheckoutRequest struct {
	ShippingAddress string `json:"shippingAddress" binding:"required,min=5,max=500" validate:"required"`
	PaymentMethod   string `json:"paymentMethod" binding:"required" validate:"required"`
}

// OrderStatusUpdate represents a vendor's status change request
type OrderStatusUpdate struct {
	Status string `json:"status" binding:"required" validate:"required"`
}
