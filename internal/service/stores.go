// Package service holds the business rules behind the HTTP handlers: credential
// checks, ownership, wallet accounting and upload cleanup.
package service

import (
	"context"

	"bookstore/internal/domain"

	"github.com/shopspring/decimal"
)

// UserStore is the persistence the user and auth services need
type UserStore interface {
	CreateWithWallet(ctx context.Context, user *domain.User, wallet *domain.Wallet) error
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByLogin(ctx context.Context, identifier string) (*domain.User, error)
	List(ctx context.Context, q string, page domain.Page) ([]domain.User, int64, error)
	Update(ctx context.Context, id string, fields map[string]any) (*domain.User, error)
	Delete(ctx context.Context, id string) ([]domain.Book, error)
}

// BookStore is the persistence the book service needs
type BookStore interface {
	Create(ctx context.Context, book *domain.Book) error
	FindByID(ctx context.Context, id string) (*domain.Book, error)
	List(ctx context.Context, ownerID string, page domain.Page) ([]domain.Book, int64, error)
	Update(ctx context.Context, id string, fields map[string]any) (*domain.Book, error)
	Delete(ctx context.Context, id string) error
	FindByIDs(ctx context.Context, ids []string, ownerID string) ([]domain.Book, error)
	DeleteByIDs(ctx context.Context, ids []string) (int64, error)
}

// WalletStore is the persistence the wallet service needs
type WalletStore interface {
	FindByUserID(ctx context.Context, userID string) (*domain.Wallet, error)
	SetBalance(ctx context.Context, userID string, amount decimal.Decimal) (*domain.Wallet, error)
	AdjustBalance(ctx context.Context, userID string, delta decimal.Decimal) (*domain.Wallet, error)
}

// UserFinder resolves a caller to its stored record
type UserFinder interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
}

// FileRemover deletes stored uploads, best-effort
type FileRemover interface {
	RemoveAll(paths []string)
}

// TokenGenerator issues access tokens
type TokenGenerator interface {
	GenerateJWT(userID, username string) (string, error)
}
