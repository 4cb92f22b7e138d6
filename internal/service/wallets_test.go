package service

import (
	"context"
	"testing"

	"bookstore/internal/domain"
	"bookstore/internal/logging"
	"bookstore/internal/utils"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newWalletFixture(t *testing.T) (*mockWalletStore, *miniredis.Miniredis, *WalletService) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	store := new(mockWalletStore)
	return store, mr, NewWalletService(store, rdb, logging.Discard())
}

func TestGetByUser_ReadThroughCache(t *testing.T) {
	store, mr, svc := newWalletFixture(t)
	store.On("FindByUserID", mock.Anything, ownerID).
		Return(&domain.Wallet{ID: "w1", UserID: ownerID, Balance: decimal.NewFromInt(20)}, nil).Once()

	first, err := svc.GetByUser(context.Background(), ownerID)
	require.NoError(t, err)
	assert.True(t, mr.Exists(utils.WalletCacheKey(ownerID)))

	second, err := svc.GetByUser(context.Background(), ownerID)
	require.NoError(t, err)
	assert.True(t, first.Balance.Equal(second.Balance))
	store.AssertNumberOfCalls(t, "FindByUserID", 1)
}

func TestGetByUser_Missing(t *testing.T) {
	store, _, svc := newWalletFixture(t)
	store.On("FindByUserID", mock.Anything, ownerID).Return(nil, domain.NotFound("Wallet")).Once()

	_, err := svc.GetByUser(context.Background(), ownerID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGetByUser_NoCache(t *testing.T) {
	store := new(mockWalletStore)
	svc := NewWalletService(store, nil, logging.Discard())
	store.On("FindByUserID", mock.Anything, ownerID).
		Return(&domain.Wallet{UserID: ownerID, Balance: decimal.NewFromInt(20)}, nil).Twice()

	for i := 0; i < 2; i++ {
		_, err := svc.GetByUser(context.Background(), ownerID)
		require.NoError(t, err)
	}
	store.AssertExpectations(t)
}

func TestSetBalance(t *testing.T) {
	store, mr, svc := newWalletFixture(t)
	require.NoError(t, mr.Set(utils.WalletCacheKey(ownerID), `{"balance":"20"}`))

	_, err := svc.SetBalance(context.Background(), ownerID, decimal.NewFromInt(-1))
	require.ErrorIs(t, err, domain.ErrNegativeBalance)
	store.AssertNotCalled(t, "SetBalance", mock.Anything, mock.Anything, mock.Anything)

	amount := decimal.NewFromInt(50)
	store.On("SetBalance", mock.Anything, ownerID, amount).
		Return(&domain.Wallet{UserID: ownerID, Balance: amount}, nil).Once()
	wallet, err := svc.SetBalance(context.Background(), ownerID, amount)
	require.NoError(t, err)
	assert.True(t, wallet.Balance.Equal(amount))
	assert.False(t, mr.Exists(utils.WalletCacheKey(ownerID)))
}

func TestAdjustBalance(t *testing.T) {
	store, mr, svc := newWalletFixture(t)

	_, err := svc.AdjustBalance(context.Background(), ownerID, decimal.Zero)
	require.ErrorIs(t, err, domain.ErrValidation)

	debit := decimal.NewFromInt(-25)
	store.On("AdjustBalance", mock.Anything, ownerID, debit).Return(nil, domain.ErrInsufficientFunds).Once()
	_, err = svc.AdjustBalance(context.Background(), ownerID, debit)
	require.ErrorIs(t, err, domain.ErrInsufficientFunds)

	require.NoError(t, mr.Set(utils.WalletCacheKey(ownerID), `{"balance":"20"}`))
	credit := decimal.NewFromInt(5)
	store.On("AdjustBalance", mock.Anything, ownerID, credit).
		Return(&domain.Wallet{UserID: ownerID, Balance: decimal.NewFromInt(25)}, nil).Once()
	wallet, err := svc.AdjustBalance(context.Background(), ownerID, credit)
	require.NoError(t, err)
	assert.Equal(t, "25", wallet.Balance.String())
	assert.False(t, mr.Exists(utils.WalletCacheKey(ownerID)))
}
