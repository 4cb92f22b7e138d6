package repository

import (
	"context"

	"bookstore/internal/domain"

	"gorm.io/gorm"
)

// BookRepository persists the book catalog
type BookRepository struct {
	db *gorm.DB
}

// NewBookRepository creates a BookRepository
func NewBookRepository(db *gorm.DB) *BookRepository {
	return &BookRepository{db: db}
}

// withOwner expands the uploader's public name fields
func withOwner(tx *gorm.DB) *gorm.DB {
	return tx.Preload("Uploader", func(q *gorm.DB) *gorm.DB {
		return q.Select("id", "first_name", "last_name")
	})
}

// Create stores a new book
func (r *BookRepository) Create(ctx context.Context, book *domain.Book) error {
	return translateError(r.db.WithContext(ctx).Create(book).Error, "Book")
}

// FindByID returns the book with its uploader expanded
func (r *BookRepository) FindByID(ctx context.Context, id string) (*domain.Book, error) {
	var book domain.Book
	if err := withOwner(r.db.WithContext(ctx)).Where("id = ?", id).First(&book).Error; err != nil {
		return nil, translateError(err, "Book")
	}
	return &book, nil
}

// List returns a page of books, newest first. A non-empty ownerID restricts the
// result to that uploader.
func (r *BookRepository) List(ctx context.Context, ownerID string, page domain.Page) ([]domain.Book, int64, error) {
	query := r.db.WithContext(ctx).Model(&domain.Book{})
	if ownerID != "" {
		query = query.Where("uploaded_by = ?", ownerID)
	}
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translateError(err, "Book")
	}
	var books []domain.Book
	err := withOwner(query).Order("created_at desc").Offset(page.Offset()).Limit(page.Limit).Find(&books).Error
	if err != nil {
		return nil, 0, translateError(err, "Book")
	}
	return books, total, nil
}

// Update applies the column/value pairs and returns the stored row
func (r *BookRepository) Update(ctx context.Context, id string, fields map[string]any) (*domain.Book, error) {
	res := r.db.WithContext(ctx).Model(&domain.Book{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return nil, translateError(res.Error, "Book")
	}
	return r.FindByID(ctx, id)
}

// Delete removes a single book
func (r *BookRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Book{})
	if res.Error != nil {
		return translateError(res.Error, "Book")
	}
	if res.RowsAffected == 0 {
		return domain.NotFound("Book")
	}
	return nil
}

// FindByIDs returns the books among ids. A non-empty ownerID keeps only that
// uploader's rows.
func (r *BookRepository) FindByIDs(ctx context.Context, ids []string, ownerID string) ([]domain.Book, error) {
	query := r.db.WithContext(ctx).Where("id IN ?", ids)
	if ownerID != "" {
		query = query.Where("uploaded_by = ?", ownerID)
	}
	var books []domain.Book
	if err := query.Find(&books).Error; err != nil {
		return nil, translateError(err, "Book")
	}
	return books, nil
}

// DeleteByIDs removes the books among ids and reports how many rows went away
func (r *BookRepository) DeleteByIDs(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).Where("id IN ?", ids).Delete(&domain.Book{})
	if res.Error != nil {
		return 0, translateError(res.Error, "Book")
	}
	return res.RowsAffected, nil
}
