package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sokoni-backend/internal/models"
)

// GetCart returns the caller's cart with line totals
func (h *Handler) GetCart(c *gin.Context) {
	cart, err := h.cartService.Get(c.GetString("userID"))
	if err != nil {
		RespondError(c, err)
		return
	}
	Respond(c, http.StatusOK, gin.H{
		"cart":  cart,
		"total": cart.Total(),
	})
}

// AddCartItem puts a product in the caller's cart
func (h *Handler) AddCartItem(c *gin.Context) {
	var req models.CartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBindError(c, err)
		return
	}

	cart, err := h.cartService.AddItem(c.GetString("userID"), &req)
	if err != nil {
		RespondError(c, err)
		return
	}
	Respond(c, http.StatusOK, cart)
}

// UpdateCartItem changes a line quantity
func (h *Handler) UpdateCartItem(c *gin.Context) {
	var req models.CartItemUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBindError(c, err)
		return
	}

	cart, err := h.cartService.UpdateItem(c.GetString("userID"), c.Param("productId"), &req)
	if err != nil {
		RespondError(c, err)
		return
	}
	Respond(c, http.StatusOK, cart)
}

// RemoveCartItem drops a product from the cart
func (h *Handler) RemoveCartItem(c *gin.Context) {
	cart, err := h.cartService.RemoveItem(c.GetString("userID"), c.Param("productId"))
	if err != nil {
		RespondError(c, err)
		return
	}
	Respond(c, http.StatusOK, cart)
}

// ClearCart empties the caller's cart
func (h *Handler) ClearCart(c *gin.Context) {
	if err := h.cartService.Clear(c.GetString("userID")); err != nil {
		RespondError(c, err)
		return
	}
	Respond(c, http.StatusOK, gin.H{"cleared": true})
}
