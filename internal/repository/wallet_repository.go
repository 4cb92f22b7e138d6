package repository

import (
	"context"

	"bookstore/internal/domain"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// WalletRepository persists wallet balances
type WalletRepository struct {
	db *gorm.DB
}

// NewWalletRepository creates a WalletRepository
func NewWalletRepository(db *gorm.DB) *WalletRepository {
	return &WalletRepository{db: db}
}

// FindByUserID returns the wallet owned by userID
func (r *WalletRepository) FindByUserID(ctx context.Context, userID string) (*domain.Wallet, error) {
	var wallet domain.Wallet
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&wallet).Error; err != nil {
		return nil, translateError(err, "Wallet")
	}
	return &wallet, nil
}

// SetBalance overwrites the balance. Callers reject negative amounts.
func (r *WalletRepository) SetBalance(ctx context.Context, userID string, amount decimal.Decimal) (*domain.Wallet, error) {
	wallet, err := r.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Model(wallet).Update("balance", amount).Error; err != nil {
		return nil, translateError(err, "Wallet")
	}
	wallet.Balance = amount
	return wallet, nil
}

// AdjustBalance adds delta to the balance in a single conditional statement, so
// concurrent adjustments cannot lose updates or push the balance below zero.
// Returns ErrInsufficientFunds when the result would be negative.
func (r *WalletRepository) AdjustBalance(ctx context.Context, userID string, delta decimal.Decimal) (*domain.Wallet, error) {
	res := r.db.WithContext(ctx).
		Model(&domain.Wallet{}).
		Where("user_id = ? AND balance + ? >= 0", userID, delta).
		Update("balance", gorm.Expr("balance + ?", delta))
	if res.Error != nil {
		return nil, translateError(res.Error, "Wallet")
	}
	if res.RowsAffected == 0 {
		// Either the wallet is missing or the guard rejected the update
		if _, err := r.FindByUserID(ctx, userID); err != nil {
			return nil, err
		}
		return nil, domain.ErrInsufficientFunds
	}
	return r.FindByUserID(ctx, userID)
}
