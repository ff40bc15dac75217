package middleware

import (
	"net/http"
	"strings"

	"storefront-cart/utils"

	"github.com/gin-gonic/gin"
)

const (
	// ContextUserID holds the uuid.UUID of the verified caller.
	ContextUserID = "user_id"
	// ContextUserRole holds the role claim of the verified caller.
	ContextUserRole = "user_role"

	RoleAdmin = "admin"
)

// AuthMiddleware verifies the bearer token and stores the caller on the context. Cart routes
// read the user id from here only, never from the request.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized", "message": "Authorization header required"})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized", "message": "Invalid authorization header format"})
			return
		}

		claims, err := utils.ValidateToken(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized", "message": "Invalid or expired token"})
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextUserRole, claims.Role)
		c.Next()
	}
}

func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get(ContextUserRole)
		if !exists || role != RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden", "message": "Admin access required"})
			return
		}
		c.Next()
	}
}
