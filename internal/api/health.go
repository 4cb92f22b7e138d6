package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// InfoHandler answers the root path
func InfoHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Bookstore API is running"})
	}
}

// HealthHandler reports liveness and process uptime in seconds
func HealthHandler(started time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "uptime": time.Since(started).Seconds()})
	}
}
