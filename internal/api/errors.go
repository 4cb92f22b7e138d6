package api

import (
	"errors"   // Error matching
	"net/http" // HTTP status codes

	"bookstore/internal/domain"     // Error taxonomy
	"bookstore/internal/middleware" // Request id for error logs
	"bookstore/internal/validate"   // Validation issues

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// respondError maps a service error onto the HTTP error taxonomy. Unmapped errors
// are logged and hidden behind a generic 500.
func respondError(c *gin.Context, log logrus.FieldLogger, err error) {
	var (
		invalid  *validate.Error
		conflict *domain.ConflictError
		missing  *domain.NotFoundError
	)
	switch {
	case errors.As(err, &invalid):
		c.JSON(http.StatusBadRequest, gin.H{"error": invalid.Error(), "details": invalid.Issues})
	case errors.Is(err, domain.ErrInsufficientFunds):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Insufficient funds"})
	case errors.Is(err, domain.ErrNegativeBalance):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Balance cannot be negative"})
	case errors.Is(err, domain.ErrRegistration):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Registration failed"})
	case errors.Is(err, domain.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrInvalidCredential):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
	case errors.Is(err, domain.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
	case errors.Is(err, domain.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
	case errors.As(err, &missing):
		c.JSON(http.StatusNotFound, gin.H{"error": missing.Error()})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.As(err, &conflict):
		c.JSON(http.StatusConflict, gin.H{"error": conflict.Error()})
	default:
		log.WithFields(logrus.Fields{
			"request_id": middleware.RequestID(c),
			"route":      c.FullPath(),
			"error":      err.Error(),
		}).Error("Unhandled error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
	}
}
