package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"sokoni-backend/config"
	"sokoni-backend/internal/middleware"
	"sokoni-backend/internal/models"
	"sokoni-backend/internal/services"
)

// SetupRouter wires middleware and routes onto a gin engine
func SetupRouter(cfg *config.Config, h *Handler, authService *services.AuthService) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.CORS(cfg))
	router.Use(middleware.NewRateLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow).Middleware())
	router.Use(middleware.MaxBodySize(cfg.MaxFileSize + 1024*1024))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"time":   time.Now().UTC(),
		})
	})

	if cfg.StorageBackend == "local" {
		router.Static("/uploads", cfg.UploadPath)
	}

	auth := middleware.AuthRequired(authService)
	vendorOnly := middleware.RequireRoles(string(models.RoleVendor), string(models.RoleAdmin))
	staffOnly := middleware.RequireRoles(string(models.RoleManager), string(models.RoleAdmin))
	adminOnly := middleware.RequireRoles(string(models.RoleAdmin))

	v1 := router.Group("/api/v1")
	{
		v1.POST("/auth/register", h.Register)
		v1.POST("/auth/login", h.Login)
		v1.GET("/auth/me", auth, h.Me)
		v1.POST("/auth/refresh", auth, h.RefreshToken)
		v1.PUT("/users/profile", auth, h.UpdateProfile)
		v1.PUT("/admin/users/:id/enabled", auth, adminOnly, h.SetUserEnabled)

		v1.GET("/categories", h.ListCategories)
		v1.GET("/categories/featured", h.FeaturedCategories)
		v1.GET("/categories/:id", h.GetCategory)
		v1.POST("/categories", auth, staffOnly, h.CreateCategory)
		v1.PUT("/categories/:id", auth, staffOnly, h.UpdateCategory)
		v1.DELETE("/categories/:id", auth, staffOnly, h.DeleteCategory)
		v1.POST("/categories/:id/image", auth, staffOnly, h.UploadCategoryImage)

		v1.GET("/products", h.ListProducts)
		v1.GET("/products/featured", h.FeaturedProducts)
		v1.GET("/products/:id", h.GetProduct)
		v1.POST("/products", auth, vendorOnly, h.CreateProduct)
		v1.PUT("/products/:id", auth, vendorOnly, h.UpdateProduct)
		v1.DELETE("/products/:id", auth, vendorOnly, h.DeleteProduct)
		v1.POST("/products/:id/image", auth, vendorOnly, h.UploadProductImage)

		v1.GET("/vendors", h.ListVendors)
		v1.GET("/vendors/:id", h.GetVendor)
		v1.GET("/vendors/by-name/:name", h.GetVendorByStoreName)
		v1.POST("/vendors", auth, h.RegisterVendor)
		v1.PUT("/vendors/:id", auth, vendorOnly, h.UpdateVendor)
		v1.GET("/vendors/me/store", auth, vendorOnly, h.MyVendor)
		v1.GET("/vendors/me/products", auth, vendorOnly, h.MyProducts)
		v1.GET("/vendors/me/orders", auth, vendorOnly, h.VendorOrders)
		v1.PUT("/vendors/orders/:id/status", auth, vendorOnly, h.UpdateOrderStatus)

		v1.GET("/cart", auth, h.GetCart)
		v1.POST("/cart/items", auth, h.AddCartItem)
		v1.PUT("/cart/items/:productId", auth, h.UpdateCartItem)
		v1.DELETE("/cart/items/:productId", auth, h.RemoveCartItem)
		v1.DELETE("/cart", auth, h.ClearCart)

		v1.POST("/orders/checkout", auth, h.Checkout)
		v1.GET("/orders", auth, h.ListOrders)
		v1.GET("/orders/:id", auth, h.GetOrder)
		v1.POST("/orders/:id/cancel", auth, h.CancelOrder)

		v1.GET("/wishlist", auth, h.GetWishlist)
		v1.DELETE("/wishlist", auth, h.ClearWishlist)
		v1.POST("/wishlist/:productId", auth, h.AddWishlistItem)
		v1.DELETE("/wishlist/:productId", auth, h.RemoveWishlistItem)
		v1.GET("/wishlist/:productId/status", auth, h.CheckWishlistItem)

		v1.GET("/favourites/vendors", auth, h.ListFavouriteVendors)
		v1.POST("/favourites/vendors/:vendorId", auth, h.AddFavouriteVendor)
		v1.DELETE("/favourites/vendors/:vendorId", auth, h.RemoveFavouriteVendor)
		v1.GET("/favourites/vendors/:vendorId/status", auth, h.CheckFavouriteVendor)
		v1.GET("/favourites/vendors/:vendorId/count", auth, h.FavouriteVendorCount)

		v1.GET("/events/orders", auth, vendorOnly, h.OrderEvents)
	}

	return router
}
