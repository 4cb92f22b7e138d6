package domain

import (
	"time" // Timestamps

	"github.com/shopspring/decimal" // Precise monetary values
	"gorm.io/gorm"                  // GORM hooks
)

// DefaultWalletBalance is credited to every wallet opened at registration
var DefaultWalletBalance = decimal.NewFromInt(20)

// Wallet Model
type Wallet struct {
	ID        string          `gorm:"primaryKey;size:24" json:"id"`                           // 24 hex document id
	UserID    string          `gorm:"uniqueIndex;size:24;not null" json:"userId"`             // One wallet per user
	Balance   decimal.Decimal `gorm:"type:decimal(20,2);not null;default:20" json:"balance"` // Never negative
	CreatedAt time.Time       `json:"createdAt"`                                              // Creation timestamp
	UpdatedAt time.Time       `json:"updatedAt"`                                              // Last update timestamp
}

// BeforeCreate assigns an id
func (w *Wallet) BeforeCreate(_ *gorm.DB) error {
	if w.ID == "" {
		w.ID = NewID()
	}
	return nil
}
