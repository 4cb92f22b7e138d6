package service

import (
	"context"

	"bookstore/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type mockUserStore struct {
	mock.Mock
}

func (m *mockUserStore) CreateWithWallet(ctx context.Context, user *domain.User, wallet *domain.Wallet) error {
	return m.Called(ctx, user, wallet).Error(0)
}

func (m *mockUserStore) FindByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserStore) FindByLogin(ctx context.Context, identifier string) (*domain.User, error) {
	args := m.Called(ctx, identifier)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserStore) List(ctx context.Context, q string, page domain.Page) ([]domain.User, int64, error) {
	args := m.Called(ctx, q, page)
	users, _ := args.Get(0).([]domain.User)
	return users, args.Get(1).(int64), args.Error(2)
}

func (m *mockUserStore) Update(ctx context.Context, id string, fields map[string]any) (*domain.User, error) {
	args := m.Called(ctx, id, fields)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserStore) Delete(ctx context.Context, id string) ([]domain.Book, error) {
	args := m.Called(ctx, id)
	books, _ := args.Get(0).([]domain.Book)
	return books, args.Error(1)
}

type mockBookStore struct {
	mock.Mock
}

func (m *mockBookStore) Create(ctx context.Context, book *domain.Book) error {
	return m.Called(ctx, book).Error(0)
}

func (m *mockBookStore) FindByID(ctx context.Context, id string) (*domain.Book, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Book), args.Error(1)
}

func (m *mockBookStore) List(ctx context.Context, ownerID string, page domain.Page) ([]domain.Book, int64, error) {
	args := m.Called(ctx, ownerID, page)
	books, _ := args.Get(0).([]domain.Book)
	return books, args.Get(1).(int64), args.Error(2)
}

func (m *mockBookStore) Update(ctx context.Context, id string, fields map[string]any) (*domain.Book, error) {
	args := m.Called(ctx, id, fields)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Book), args.Error(1)
}

func (m *mockBookStore) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockBookStore) FindByIDs(ctx context.Context, ids []string, ownerID string) ([]domain.Book, error) {
	args := m.Called(ctx, ids, ownerID)
	books, _ := args.Get(0).([]domain.Book)
	return books, args.Error(1)
}

func (m *mockBookStore) DeleteByIDs(ctx context.Context, ids []string) (int64, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).(int64), args.Error(1)
}

type mockWalletStore struct {
	mock.Mock
}

func (m *mockWalletStore) FindByUserID(ctx context.Context, userID string) (*domain.Wallet, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Wallet), args.Error(1)
}

func (m *mockWalletStore) SetBalance(ctx context.Context, userID string, amount decimal.Decimal) (*domain.Wallet, error) {
	args := m.Called(ctx, userID, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Wallet), args.Error(1)
}

func (m *mockWalletStore) AdjustBalance(ctx context.Context, userID string, delta decimal.Decimal) (*domain.Wallet, error) {
	args := m.Called(ctx, userID, delta)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Wallet), args.Error(1)
}

// recordingFiles remembers every path it was asked to remove
type recordingFiles struct {
	removed []string
}

func (r *recordingFiles) RemoveAll(paths []string) {
	r.removed = append(r.removed, paths...)
}

type mockTokens struct {
	mock.Mock
}

func (m *mockTokens) GenerateJWT(userID, username string) (string, error) {
	args := m.Called(userID, username)
	return args.String(0), args.Error(1)
}

func strPtr(s string) *string {
	return &s
}
