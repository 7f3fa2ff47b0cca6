package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetWishlist returns the caller's saved products
func (h *Handler) GetWishlist(c *gin.Context) {
	wishlist, err := h.wishlistService.Get(c.GetString("userID"))
	if err != nil {
		RespondError(c, err)
		return
	}
	Respond(c, http.StatusOK, wishlist)
}

// AddWishlistItem saves a product for later
func (h *Handler) AddWishlistItem(c *gin.Context) {
	wishlist, err := h.wishlistService.Add(c.GetString("userID"), c.Param("productId"))
	if err != nil {
		RespondError(c, err)
		return
	}
	Respond(c, http.StatusOK, wishlist)
}

// CheckWishlistItem reports whether the product is saved
func (h *Handler) CheckWishlistItem(c *gin.Context) {
	saved, err := h.wishlistService.Contains(c.GetString("userID"), c.Param("productId"))
	if err != nil {
		RespondError(c, err)
		return
	}
	Respond(c, http.StatusOK, gin.H{"saved": saved})
}

// ClearWishlist drops every saved product
func (h *Handler) ClearWishlist(c *gin.Context) {
	if err := h.wishlistService.Clear(c.GetString("userID")); err != nil {
		RespondError(c, err)
		return
	}
	Respond(c, http.StatusOK, gin.H{"cleared": true})
}

// RemoveWishlistItem drops a saved product
func (h *Handler) RemoveWishlistItem(c *gin.Context) {
	wishlist, err := h.wishlistService.Remove(c.GetString("userID"), c.Param("productId"))
	if err != nil {
		RespondError(c, err)
		return
	}
	Respond(c, http.StatusOK, wishlist)
}

// ListFavouriteVendors returns the stores the caller follows
func (h *Handler) ListFavouriteVendors(c *gin.Context) {
	favourites, err := h.favouriteService.List(c.GetString("userID"))
	if err != nil {
		RespondError(c, err)
		return
	}
	Respond(c, http.StatusOK, favourites)
}

// AddFavouriteVendor follows a store
func (h *Handler) AddFavouriteVendor(c *gin.Context) {
	if err := h.favouriteService.Add(c.GetString("userID"), c.Param("vendorId")); err != nil {
		RespondError(c, err)
		return
	}
	Respond(c, http.StatusOK, gin.H{"favourite": true})
}

// RemoveFavouriteVendor unfollows a store
func (h *Handler) RemoveFavouriteVendor(c *gin.Context) {
	if err := h.favouriteService.Remove(c.GetString("userID"), c.Param("vendorId")); err != nil {
		RespondError(c, err)
		return
	}
	Respond(c, http.StatusOK, gin.H{"favourite": false})
}

// CheckFavouriteVendor reports whether the caller follows the store
func (h *Handler) CheckFavouriteVendor(c *gin.Context) {
	favourite, err := h.favouriteService.IsFavourite(c.GetString("userID"), c.Param("vendorId"))
	if err != nil {
		RespondError(c, err)
		return
	}
	Respond(c, http.StatusOK, gin.H{"favourite": favourite})
}

// FavouriteVendorCount returns how many users follow the store
func (h *Handler) FavouriteVendorCount(c *gin.Context) {
	count, err := h.favouriteService.Count(c.Param("vendorId"))
	if err != nil {
		RespondError(c, err)
		return
	}
	Respond(c, http.StatusOK, gin.H{"count": count})
}
