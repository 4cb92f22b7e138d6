package service

import (
	"context"
	"fmt"

	"bookstore/internal/domain"
	"bookstore/internal/utils"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// WalletService reads and moves wallet balances
type WalletService struct {
	wallets WalletStore
	rdb     *redis.Client // Read cache, nil disables caching
	log     logrus.FieldLogger
}

// NewWalletService creates a WalletService
func NewWalletService(wallets WalletStore, rdb *redis.Client, log logrus.FieldLogger) *WalletService {
	return &WalletService{wallets: wallets, rdb: rdb, log: log}
}

// GetByUser returns the wallet of userID, served from cache when possible
func (s *WalletService) GetByUser(ctx context.Context, userID string) (*domain.Wallet, error) {
	key := utils.WalletCacheKey(userID)
	var cached domain.Wallet
	found, err := utils.GetCache(ctx, s.rdb, key, &cached)
	if err != nil {
		s.log.WithFields(logrus.Fields{"user_id": userID, "error": err.Error()}).Warn("Wallet cache read failed")
	} else if found {
		return &cached, nil
	}

	wallet, err := s.wallets.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := utils.SetCache(ctx, s.rdb, key, wallet, utils.WalletCacheTTL); err != nil {
		s.log.WithFields(logrus.Fields{"user_id": userID, "error": err.Error()}).Warn("Wallet cache write failed")
	}
	return wallet, nil
}

// SetBalance overwrites the balance of userID. Negative amounts are refused.
func (s *WalletService) SetBalance(ctx context.Context, userID string, amount decimal.Decimal) (*domain.Wallet, error) {
	if amount.IsNegative() {
		return nil, domain.ErrNegativeBalance
	}
	wallet, err := s.wallets.SetBalance(ctx, userID, amount)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, userID)
	s.log.WithFields(logrus.Fields{
		"user_id": userID,
		"balance": wallet.Balance.String(),
	}).Info("Wallet balance set")
	return wallet, nil
}

// AdjustBalance adds delta (which may be negative) to the balance of userID.
// The balance never drops below zero; such adjustments fail with ErrInsufficientFunds.
func (s *WalletService) AdjustBalance(ctx context.Context, userID string, delta decimal.Decimal) (*domain.Wallet, error) {
	if delta.IsZero() {
		return nil, fmt.Errorf("amount must not be zero: %w", domain.ErrValidation)
	}
	wallet, err := s.wallets.AdjustBalance(ctx, userID, delta)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"user_id": userID,
			"amount":  delta.String(),
			"error":   err.Error(),
		}).Warn("Wallet adjustment rejected")
		return nil, err
	}
	s.invalidate(ctx, userID)
	s.log.WithFields(logrus.Fields{
		"user_id": userID,
		"amount":  delta.String(),
		"balance": wallet.Balance.String(),
	}).Info("Wallet balance adjusted")
	return wallet, nil
}

func (s *WalletService) invalidate(ctx context.Context, userID string) {
	if err := utils.DeleteCache(ctx, s.rdb, utils.WalletCacheKey(userID)); err != nil {
		s.log.WithFields(logrus.Fields{"user_id": userID, "error": err.Error()}).Warn("Wallet cache invalidation failed")
	}
}
