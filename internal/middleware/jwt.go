package middleware

import (
	"net/http" // HTTP status codes
	"strings"  // String manipulation

	"bookstore/internal/utils" // JWT claims

	"github.com/gin-gonic/gin" // Gin web framework
)

// Context keys set by JWTAuthMiddleware
const (
	UserIDKey   = "userID"   // Authenticated user id (token subject)
	UsernameKey = "username" // Authenticated username
)

// TokenParser verifies access tokens
type TokenParser interface {
	ParseJWT(tokenStr string) (*utils.Claims, error)
}

// JWTAuthMiddleware validates JWT tokens and extracts user information
func JWTAuthMiddleware(tokens TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization") // Get Authorization header
		// Check if the Authorization header is present and properly formatted
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
			return
		}
		tokenStr := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer ")) // Extract the token string
		claims, err := tokens.ParseJWT(tokenStr)                                 // Verify signature and expiry
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}
		c.Set(UserIDKey, claims.Subject)    // Store userID in context
		c.Set(UsernameKey, claims.Username) // Store username in context
		c.Next()                            // Proceed to the next handler
	}
}

// UserID returns the authenticated user id, or "" outside JWTAuthMiddleware
func UserID(c *gin.Context) string {
	return c.GetString(UserIDKey)
}
