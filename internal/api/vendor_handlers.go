package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sokoni-backend/internal/models"
)

// RegisterVendor opens a store for the caller
func (h *Handler) RegisterVendor(c *gin.Context) {
	var req models.VendorRegistration
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBindError(c, err)
		return
	}

	vendor, err := h.vendorService.Register(c.GetString("userID"), &req)
	if err != nil {
		RespondError(c, err)
		return
	}
	Respond(c, http.StatusCreated, vendor)
}

// ListVendors returns every store
func (h *Handler) ListVendors(c *gin.Context) {
	vendors, err := h.vendorService.List()
	if err != nil {
		RespondError(c, err)
		return
	}
	Respond(c, http.StatusOK, vendors)
}

// GetVendor returns one store with its active products
func (h *Handler) GetVendor(c *gin.Context) {
	vendor, err := h.vendorService.GetByID(c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}

	products, err := h.productService.ListByVendor(vendor.ID)
	if err != nil {
		RespondError(c, err)
		return
	}

	Respond(c, http.StatusOK, gin.H{
		"vendor":   vendor,
		"products": products,
	})
}

// GetVendorByStoreName looks up a store by its exact name
func (h *Handler) GetVendorByStoreName(c *gin.Context) {
	vendor, err := h.vendorService.GetByStoreName(c.Param("name"))
	if err != nil {
		RespondError(c, err)
		return
	}
	Respond(c, http.StatusOK, vendor)
}

// MyVendor returns the caller's own store
func (h *Handler) MyVendor(c *gin.Context) {
	vendor, err := h.vendorService.GetByUserID(c.GetString("userID"))
	if err != nil {
		RespondError(c, err)
		return
	}
	Respond(c, http.StatusOK, vendor)
}

// UpdateVendor modifies a store profile
func (h *Handler) UpdateVendor(c *gin.Context) {
	var req models.VendorUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBindError(c, err)
		return
	}

	actor, err := h.currentUser(c)
	if err != nil {
		RespondError(c, err)
		return
	}

	vendor, err := h.vendorService.Update(c.Param("id"), actor, &req)
	if err != nil {
		RespondError(c, err)
		return
	}
	Respond(c, http.StatusOK, vendor)
}

// VendorOrders returns orders carrying the caller's items
func (h *Handler) VendorOrders(c *gin.Context) {
	actor, err := h.currentUser(c)
	if err != nil {
		RespondError(c, err)
		return
	}

	orders, err := h.orderService.VendorOrders(actor)
	if err != nil {
		RespondError(c, err)
		return
	}
	Respond(c, http.StatusOK, orders)
}

// UpdateOrderStatus lets a vendor or admin move an order along its
// lifecycle
func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	var req models.OrderStatusUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBindError(c, err)
		return
	}

	actor, err := h.currentUser(c)
	if err != nil {
		RespondError(c, err)
		return
	}

	order, err := h.orderService.UpdateStatus(c.Param("id"), actor, req.Status)
	if err != nil {
		RespondError(c, err)
		return
	}
	Respond(c, http.StatusOK, order)
}
