package domain

import (
	"strings" // Normalization of unique fields
	"time"    // Timestamps

	"gorm.io/gorm" // GORM hooks
)

// Roles a user can hold
const (
	RoleUser  = "user"  // Regular account
	RoleAdmin = "admin" // Administrative account, may mutate any book
)

// User Model
type User struct {
	ID           string    `gorm:"primaryKey;size:24" json:"id"`                 // 24 hex document id
	Email        string    `gorm:"uniqueIndex;size:254;not null" json:"email"`   // Unique, lowercase
	Phone        string    `gorm:"uniqueIndex;size:20;not null" json:"phone"`    // Unique
	FirstName    string    `gorm:"size:50;not null" json:"firstName"`            // Given name
	LastName     string    `gorm:"size:50;not null" json:"lastName"`             // Family name
	Username     string    `gorm:"uniqueIndex;size:30;not null" json:"username"` // Unique, lowercase
	PasswordHash string    `gorm:"not null" json:"-"`                            // Bcrypt hash, never serialized
	Role         string    `gorm:"size:16;default:user" json:"role"`             // Role: user or admin
	CreatedAt    time.Time `json:"createdAt"`                                    // Creation timestamp
	UpdatedAt    time.Time `json:"updatedAt"`                                    // Last update timestamp
}

// BeforeCreate assigns an id and normalizes the unique fields
func (u *User) BeforeCreate(_ *gorm.DB) error {
	if u.ID == "" {
		u.ID = NewID()
	}
	if u.Role == "" {
		u.Role = RoleUser
	}
	u.Normalize()
	return nil
}

// Normalize lowercases and trims the fields the store treats as unique keys
func (u *User) Normalize() {
	u.Email = NormalizeKey(u.Email)
	u.Username = NormalizeKey(u.Username)
	u.Phone = strings.TrimSpace(u.Phone)
	u.FirstName = strings.TrimSpace(u.FirstName)
	u.LastName = strings.TrimSpace(u.LastName)
}

// IsAdmin reports whether the user holds the administrative role
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// NormalizeKey lowercases and trims an email or username
func NormalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
