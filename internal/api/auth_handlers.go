package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sokoni-backend/internal/models"
)

// Register creates a customer account and returns it with a token
func (h *Handler) Register(c *gin.Context) {
	var req models.UserRegistration
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBindError(c, err)
		return
	}

	user, err := h.userService.Register(&req)
	if err != nil {
		RespondError(c, err)
		return
	}

	token, err := h.authService.GenerateToken(user)
	if err != nil {
		RespondError(c, err)
		return
	}

	Respond(c, http.StatusCreated, gin.H{
		"token": token,
		"user":  user,
	})
}

// Login authenticates credentials and returns a fresh token
func (h *Handler) Login(c *gin.Context) {
	var req models.UserLogin
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBindError(c, err)
		return
	}

	user, err := h.userService.Authenticate(&req)
	if err != nil {
		RespondError(c, err)
		return
	}

	token, err := h.authService.GenerateToken(user)
	if err != nil {
		RespondError(c, err)
		return
	}

	Respond(c, http.StatusOK, gin.H{
		"token": token,
		"user":  user,
	})
}

// Me returns the authenticated user's profile
func (h *Handler) Me(c *gin.Context) {
	user, err := h.currentUser(c)
	if err != nil {
		RespondError(c, err)
		return
	}
	Respond(c, http.StatusOK, user)
}

// RefreshToken issues a new token for the authenticated user
func (h *Handler) RefreshToken(c *gin.Context) {
	user, err := h.currentUser(c)
	if err != nil {
		RespondError(c, err)
		return
	}

	token, err := h.authService.GenerateToken(user)
	if err != nil {
		RespondError(c, err)
		return
	}

	Respond(c, http.StatusOK, gin.H{"token": token})
}

// SetUserEnabled toggles an account on or off
func (h *Handler) SetUserEnabled(c *gin.Context) {
	var req struct {
		Enabled *bool `json:"enabled" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBindError(c, err)
		return
	}

	if err := h.userService.SetEnabled(c.Param("id"), *req.Enabled); err != nil {
		RespondError(c, err)
		return
	}
	Respond(c, http.StatusOK, gin.H{"enabled": *req.Enabled})
}

// UpdateProfile applies a partial profile update
func (h *Handler) UpdateProfile(c *gin.Context) {
	var req models.ProfileUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBindError(c, err)
		return
	}

	user, err := h.userService.UpdateProfile(c.GetString("userID"), &req)
	if err != nil {
		RespondError(c, err)
		return
	}
	Respond(c, http.StatusOK, user)
}
