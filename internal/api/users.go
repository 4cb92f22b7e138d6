package api

import (
	"net/http" // HTTP status codes
	"strings"  // String manipulation

	"bookstore/internal/middleware" // Authenticated caller
	"bookstore/internal/service"    // User service
	"bookstore/internal/validate"   // Request validation

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// UpdateUserRequest is a partial profile update; at least one field is required
type UpdateUserRequest struct {
	FirstName *string `json:"firstName" validate:"omitnil,min=1,max=50"`
	LastName  *string `json:"lastName" validate:"omitnil,min=1,max=50"`
	Phone     *string `json:"phone" validate:"omitnil,min=7,max=20,phone"`
	Username  *string `json:"username" validate:"omitnil,min=3,max=30,username"`
}

func (r *UpdateUserRequest) trim() {
	for _, f := range []*string{r.FirstName, r.LastName, r.Phone, r.Username} {
		if f != nil {
			*f = strings.TrimSpace(*f)
		}
	}
}

func (r *UpdateUserRequest) empty() bool {
	return r.FirstName == nil && r.LastName == nil && r.Phone == nil && r.Username == nil
}

// ListUsersHandler returns a page of users, optionally filtered by q
func ListUsersHandler(users *service.UserService, v *validate.Validator, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, q, err := bindPage(c, v)
		if err != nil {
			respondError(c, log, err)
			return
		}
		result, err := users.List(c.Request.Context(), q, page)
		if err != nil {
			respondError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, listResponse(result))
	}
}

// GetUserHandler returns one user
func GetUserHandler(users *service.UserService, v *validate.Validator, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := idParam(c, v, "id")
		if err != nil {
			respondError(c, log, err)
			return
		}
		user, err := users.Get(c.Request.Context(), id)
		if err != nil {
			respondError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": user})
	}
}

// UpdateUserHandler patches a profile for the user themselves or an admin
func UpdateUserHandler(users *service.UserService, v *validate.Validator, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := idParam(c, v, "id")
		if err != nil {
			respondError(c, log, err)
			return
		}
		var req UpdateUserRequest
		if err := bindBody(c, v, &req); err != nil {
			respondError(c, log, err)
			return
		}
		if req.empty() {
			var res validate.Result
			res.Add("", "custom", "At least one field must be provided")
			respondError(c, log, res.Err("body"))
			return
		}
		user, err := users.Update(c.Request.Context(), middleware.UserID(c), id, service.UserPatch{
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Phone:     req.Phone,
			Username:  req.Username,
		})
		if err != nil {
			respondError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": user})
	}
}

// DeleteUserHandler removes a user with their wallet and books
func DeleteUserHandler(users *service.UserService, v *validate.Validator, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := idParam(c, v, "id")
		if err != nil {
			respondError(c, log, err)
			return
		}
		if err := users.Delete(c.Request.Context(), middleware.UserID(c), id); err != nil {
			respondError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"deleted": true})
	}
}
