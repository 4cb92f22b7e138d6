package middleware

import (
	"context"  // Lookup context
	"errors"   // Error matching
	"net/http" // HTTP status codes

	"bookstore/internal/domain" // Domain models and errors

	"github.com/gin-gonic/gin" // Gin web framework
)

// UserFinder loads the stored user behind a token
type UserFinder interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
}

// AdminOnlyMiddleware checks the user's role from the database on each request
func AdminOnlyMiddleware(users UserFinder) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := UserID(c) // Set by JWTAuthMiddleware
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		user, err := users.FindByID(c.Request.Context(), userID)
		switch {
		case errors.Is(err, domain.ErrNotFound):
			// Token outlived its user
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			return
		case err != nil:
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
			return
		}
		// Check if user role is admin
		if !user.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			return
		}
		c.Next() // If admin, proceed to the next handler
	}
}
