package repository

import (
	"context"
	"strings"

	"bookstore/internal/domain"

	"gorm.io/gorm"
)

// UserRepository persists users and opens their wallets
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a UserRepository
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// CreateWithWallet stores the user and its wallet atomically
func (r *UserRepository) CreateWithWallet(ctx context.Context, user *domain.User, wallet *domain.Wallet) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err // Rollback, unique collisions surface here
		}
		wallet.UserID = user.ID
		return tx.Create(wallet).Error
	})
	return translateError(err, "User")
}

// FindByID returns the user with the given id
func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	var user domain.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, translateError(err, "User")
	}
	return &user, nil
}

// FindByLogin looks a user up by email or username, case-insensitively
func (r *UserRepository) FindByLogin(ctx context.Context, identifier string) (*domain.User, error) {
	key := domain.NormalizeKey(identifier)
	var user domain.User
	if err := r.db.WithContext(ctx).Where("email = ? OR username = ?", key, key).First(&user).Error; err != nil {
		return nil, translateError(err, "User")
	}
	return &user, nil
}

// List returns a page of users, newest first, optionally filtered by a substring
// of email, username, first name, last name or phone
func (r *UserRepository) List(ctx context.Context, q string, page domain.Page) ([]domain.User, int64, error) {
	query := r.db.WithContext(ctx).Model(&domain.User{})
	if q = strings.TrimSpace(q); q != "" {
		pattern := "%" + escapeLike(strings.ToLower(q)) + "%"
		query = query.Where(
			"LOWER(email) LIKE ? OR LOWER(username) LIKE ? OR LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR phone LIKE ?",
			pattern, pattern, pattern, pattern, pattern,
		)
	}
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translateError(err, "User")
	}
	var users []domain.User
	if err := query.Order("created_at desc").Offset(page.Offset()).Limit(page.Limit).Find(&users).Error; err != nil {
		return nil, 0, translateError(err, "User")
	}
	return users, total, nil
}

// Update applies the column/value pairs to the user and returns the stored row
func (r *UserRepository) Update(ctx context.Context, id string, fields map[string]any) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&user).Error; err != nil {
			return err
		}
		if err := tx.Model(&user).Updates(fields).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).First(&user).Error
	})
	if err != nil {
		return nil, translateError(err, "User")
	}
	return &user, nil
}

// Delete removes the user together with its wallet and books. The removed books are
// returned so their files can be cleaned up.
func (r *UserRepository) Delete(ctx context.Context, id string) ([]domain.Book, error) {
	var books []domain.Book
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user domain.User
		if err := tx.Where("id = ?", id).First(&user).Error; err != nil {
			return err
		}
		if err := tx.Where("uploaded_by = ?", id).Find(&books).Error; err != nil {
			return err
		}
		if err := tx.Where("uploaded_by = ?", id).Delete(&domain.Book{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&domain.Wallet{}).Error; err != nil {
			return err
		}
		return tx.Delete(&user).Error
	})
	if err != nil {
		return nil, translateError(err, "User")
	}
	return books, nil
}

// escapeLike neutralizes LIKE wildcards in user input
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
