package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sokoni-backend/internal/models"
)

// Checkout turns the caller's cart into an order
func (h *Handler) Checkout(c *gin.Context) {
	var req models.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBindError(c, err)
		return
	}

	user, err := h.currentUser(c)
	if err != nil {
		RespondError(c, err)
		return
	}

	order, err := h.orderService.Checkout(user, &req)
	if err != nil {
		RespondError(c, err)
		return
	}
	Respond(c, http.StatusCreated, order)
}

// ListOrders returns the caller's order history
func (h *Handler) ListOrders(c *gin.Context) {
	orders, err := h.orderService.ListByUser(c.GetString("userID"))
	if err != nil {
		RespondError(c, err)
		return
	}
	Respond(c, http.StatusOK, orders)
}

// GetOrder returns one order the caller may see
func (h *Handler) GetOrder(c *gin.Context) {
	actor, err := h.currentUser(c)
	if err != nil {
		RespondError(c, err)
		return
	}

	order, err := h.orderService.GetByID(c.Param("id"), actor)
	if err != nil {
		RespondError(c, err)
		return
	}
	Respond(c, http.StatusOK, order)
}

// CancelOrder cancels an order and restores its stock
func (h *Handler) CancelOrder(c *gin.Context) {
	actor, err := h.currentUser(c)
	if err != nil {
		RespondError(c, err)
		return
	}

	order, err := h.orderService.Cancel(c.Param("id"), actor)
	if err != nil {
		RespondError(c, err)
		return
	}
	Respond(c, http.StatusOK, order)
}
