package api

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"sokoni-backend/internal/models"
	"sokoni-backend/internal/services"
)

// ListProducts returns a filtered page of the public catalog
func (h *Handler) ListProducts(c *gin.Context) {
	filter := &models.ProductFilter{
		Query:      c.Query("q"),
		CategoryID: c.Query("category"),
		VendorID:   c.Query("vendor"),
	}
	filter.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	filter.PageSize, _ = strconv.Atoi(c.DefaultQuery("pageSize", "20"))

	if raw := c.Query("minPrice"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			filter.MinPrice = &v
		}
	}
	if raw := c.Query("maxPrice"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			filter.MaxPrice = &v
		}
	}
	if raw := c.Query("inStock"); raw != "" {
		if v, err := strconv.ParseBool(raw); err == nil {
			filter.InStock = &v
		}
	}

	page, err := h.productService.List(filter)
	if err != nil {
		RespondError(c, err)
		return
	}
	Respond(c, http.StatusOK, page)
}

// FeaturedProducts returns the newest catalog additions
func (h *Handler) FeaturedProducts(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "8"))
	products, err := h.productService.Featured(limit)
	if err != nil {
		RespondError(c, err)
		return
	}
	Respond(c, http.StatusOK, products)
}

// GetProduct returns a single product
func (h *Handler) GetProduct(c *gin.Context) {
	product, err := h.productService.GetByID(c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}
	Respond(c, http.StatusOK, product)
}

// CreateProduct lists a new product under the caller's store
func (h *Handler) CreateProduct(c *gin.Context) {
	var req models.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBindError(c, err)
		return
	}

	actor, err := h.currentUser(c)
	if err != nil {
		RespondError(c, err)
		return
	}

	product, err := h.productService.Create(actor, &req)
	if err != nil {
		RespondError(c, err)
		return
	}
	Respond(c, http.StatusCreated, product)
}

// UpdateProduct modifies a product the caller owns
func (h *Handler) UpdateProduct(c *gin.Context) {
	var req models.ProductUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBindError(c, err)
		return
	}

	actor, err := h.currentUser(c)
	if err != nil {
		RespondError(c, err)
		return
	}

	product, err := h.productService.Update(c.Param("id"), actor, &req)
	if err != nil {
		RespondError(c, err)
		return
	}
	Respond(c, http.StatusOK, product)
}

// DeleteProduct removes a product from the catalog
func (h *Handler) DeleteProduct(c *gin.Context) {
	actor, err := h.currentUser(c)
	if err != nil {
		RespondError(c, err)
		return
	}

	if err := h.productService.Delete(c.Param("id"), actor); err != nil {
		RespondError(c, err)
		return
	}
	Respond(c, http.StatusOK, gin.H{"deleted": true})
}

// MyProducts returns everything in the caller's store
func (h *Handler) MyProducts(c *gin.Context) {
	actor, err := h.currentUser(c)
	if err != nil {
		RespondError(c, err)
		return
	}

	products, err := h.productService.MyProducts(actor)
	if err != nil {
		RespondError(c, err)
		return
	}
	Respond(c, http.StatusOK, products)
}

// UploadProductImage accepts a multipart image and attaches its URL to
// the product. A replaced image is deleted best effort.
func (h *Handler) UploadProductImage(c *gin.Context) {
	actor, err := h.currentUser(c)
	if err != nil {
		RespondError(c, err)
		return
	}

	previous, err := h.productService.GetByID(c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}

	url, err := h.storeUpload(c)
	if err != nil {
		return
	}

	product, err := h.productService.SetImage(c.Param("id"), actor, url)
	if err != nil {
		RespondError(c, err)
		return
	}

	if previous.ImageURL != nil {
		if err := h.storage.Delete(c.Request.Context(), *previous.ImageURL); err != nil {
			log.Printf("failed to delete replaced product image %s: %v", *previous.ImageURL, err)
		}
	}
	Respond(c, http.StatusOK, product)
}

// storeUpload validates the multipart file and writes it to storage,
// responding with the error itself when anything fails
func (h *Handler) storeUpload(c *gin.Context) (string, error) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		RespondBindError(c, err)
		return "", err
	}

	if err := services.ValidateUpload(h.cfg, fileHeader.Filename, fileHeader.Size); err != nil {
		RespondError(c, err)
		return "", err
	}

	file, err := fileHeader.Open()
	if err != nil {
		RespondBindError(c, err)
		return "", err
	}
	defer file.Close()

	url, err := h.storage.Store(c.Request.Context(), fileHeader.Filename, file, fileHeader.Size)
	if err != nil {
		RespondError(c, err)
		return "", err
	}
	return url, nil
}
