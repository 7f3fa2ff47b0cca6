package api

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"sokoni-backend/internal/models"
)

// ListCategories returns the active categories
func (h *Handler) ListCategories(c *gin.Context) {
	categories, err := h.categoryService.List()
	if err != nil {
		RespondError(c, err)
		return
	}
	Respond(c, http.StatusOK, categories)
}

// FeaturedCategories returns the categories with the largest active
// catalogs
func (h *Handler) FeaturedCategories(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "6"))
	categories, err := h.categoryService.Featured(limit)
	if err != nil {
		RespondError(c, err)
		return
	}
	Respond(c, http.StatusOK, categories)
}

// GetCategory returns a single active category
func (h *Handler) GetCategory(c *gin.Context) {
	category, err := h.categoryService.GetByID(c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}
	Respond(c, http.StatusOK, category)
}

// CreateCategory adds a new category
func (h *Handler) CreateCategory(c *gin.Context) {
	var req models.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBindError(c, err)
		return
	}

	category, err := h.categoryService.Create(&req)
	if err != nil {
		RespondError(c, err)
		return
	}
	Respond(c, http.StatusCreated, category)
}

// UpdateCategory renames or redescribes a category
func (h *Handler) UpdateCategory(c *gin.Context) {
	var req models.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBindError(c, err)
		return
	}

	category, err := h.categoryService.Update(c.Param("id"), &req)
	if err != nil {
		RespondError(c, err)
		return
	}
	Respond(c, http.StatusOK, category)
}

// UploadCategoryImage accepts a multipart image and attaches its URL
// to the category. A replaced image is deleted best effort.
func (h *Handler) UploadCategoryImage(c *gin.Context) {
	previous, err := h.categoryService.GetByID(c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}

	url, err := h.storeUpload(c)
	if err != nil {
		return
	}

	category, err := h.categoryService.SetImage(c.Param("id"), url)
	if err != nil {
		RespondError(c, err)
		return
	}

	if previous.ImageURL != nil {
		if err := h.storage.Delete(c.Request.Context(), *previous.ImageURL); err != nil {
			log.Printf("failed to delete replaced category image %s: %v", *previous.ImageURL, err)
		}
	}
	Respond(c, http.StatusOK, category)
}

// DeleteCategory soft-deletes a category; force=true soft-deletes its
// products along with it
func (h *Handler) DeleteCategory(c *gin.Context) {
	force := c.Query("force") == "true"
	if err := h.categoryService.Delete(c.Param("id"), force); err != nil {
		RespondError(c, err)
		return
	}
	Respond(c, http.StatusOK, gin.H{"deleted": true})
}
