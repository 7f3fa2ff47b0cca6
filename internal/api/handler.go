package api

import (
	"github.com/gin-gonic/gin"

	"sokoni-backend/config"
	"sokoni-backend/internal/middleware"
	"sokoni-backend/internal/models"
	"sokoni-backend/internal/services"
)

// Handler bundles the services the HTTP layer depends on
type Handler struct {
	cfg              *config.Config
	authService      *services.AuthService
	userService      *services.UserService
	vendorService    *services.VendorService
	categoryService  *services.CategoryService
	productService   *services.ProductService
	cartService      *services.CartService
	orderService     *services.OrderService
	wishlistService  *services.WishlistService
	favouriteService *services.FavouriteService
	storage          services.Storage
	eventHub         *services.EventHub
}

// NewHandler creates the HTTP handler set
func NewHandler(
	cfg *config.Config,
	authService *services.AuthService,
	userService *services.UserService,
	vendorService *services.VendorService,
	categoryService *services.CategoryService,
	productService *services.ProductService,
	cartService *services.CartService,
	orderService *services.OrderService,
	wishlistService *services.WishlistService,
	favouriteService *services.FavouriteService,
	storage services.Storage,
	eventHub *services.EventHub,
) *Handler {
	return &Handler{
		cfg:              cfg,
		authService:      authService,
		userService:      userService,
		vendorService:    vendorService,
		categoryService:  categoryService,
		productService:   productService,
		cartService:      cartService,
		orderService:     orderService,
		wishlistService:  wishlistService,
		favouriteService: favouriteService,
		storage:          storage,
		eventHub:         eventHub,
	}
}

// currentUser loads the authenticated user for ownership checks
func (h *Handler) currentUser(c *gin.Context) (*models.User, error) {
	return h.userService.GetByID(middleware.CurrentUserID(c))
}
