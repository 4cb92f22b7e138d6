package api

import (
	"net/http" // HTTP status codes
	"strings"  // String manipulation

	"bookstore/internal/service"  // Auth service
	"bookstore/internal/validate" // Request validation

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// RegisterRequest is the registration body
type RegisterRequest struct {
	Email     string `json:"email" validate:"required,email,max=254"`
	Phone     string `json:"phone" validate:"required,min=7,max=20,phone"`
	FirstName string `json:"firstName" validate:"required,min=1,max=50"`
	LastName  string `json:"lastName" validate:"required,min=1,max=50"`
	Username  string `json:"username" validate:"required,min=3,max=30,username"`
	Password  string `json:"password" validate:"required,min=6,max=20"`
}

func (r *RegisterRequest) trim() {
	r.Email = strings.TrimSpace(r.Email)
	r.Phone = strings.TrimSpace(r.Phone)
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	r.Username = strings.TrimSpace(r.Username)
}

// LoginRequest is the login body
type LoginRequest struct {
	UsernameOrEmail string `json:"usernameOrEmail" validate:"required"`
	Password        string `json:"password" validate:"required,max=20"`
}

// AuthResponse carries the issued access token
type AuthResponse struct {
	Token string `json:"token"` // JWT token
}

// RegisterHandler creates a user and its wallet
func RegisterHandler(auth *service.AuthService, v *validate.Validator, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest
		if err := bindBody(c, v, &req); err != nil {
			respondError(c, log, err)
			return
		}
		user, wallet, err := auth.Register(c.Request.Context(), service.RegisterInput{
			Email:     req.Email,
			Phone:     req.Phone,
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Username:  req.Username,
			Password:  req.Password,
		})
		if err != nil {
			respondError(c, log, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"user": user, "wallet": wallet})
	}
}

// LoginHandler authenticates a user and returns a JWT token
func LoginHandler(auth *service.AuthService, v *validate.Validator, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := bindBody(c, v, &req); err != nil {
			respondError(c, log, err)
			return
		}
		token, err := auth.Login(c.Request.Context(), req.UsernameOrEmail, req.Password)
		if err != nil {
			respondError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, AuthResponse{Token: token})
	}
}
