package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"sokoni-backend/internal/services"
)

// AuthRequired validates the bearer token and stores the identity on
// the request context
func AuthRequired(authService *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "authorization header required",
			})
			c.Abort()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "invalid authorization header format",
			})
			c.Abort()
			return
		}

		claims, err := authService.ValidateToken(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "invalid or expired token",
			})
			c.Abort()
			return
		}

		c.Set("userID", claims.UserID)
		c.Set("userEmail", claims.Email)
		c.Set("userRoles", claims.Roles)
		c.Next()
	}
}

// RequireRoles allows the request through when the authenticated user
// carries at least one of the given roles
func RequireRoles(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		value, exists := c.Get("userRoles")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "authentication required",
			})
			c.Abort()
			return
		}

		userRoles, _ := value.([]string)
		for _, have := range userRoles {
			for _, want := range roles {
				if have == want {
					c.Next()
					return
				}
			}
		}

		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error":   "insufficient permissions",
		})
		c.Abort()
	}
}

// CurrentUserID returns the authenticated user's id from the context
func CurrentUserID(c *gin.Context) string {
	return c.GetString("userID")
}
