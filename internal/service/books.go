package service

import (
	"context"
	"strings"

	"bookstore/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// BookInput is a validated create request. ImagePath and PdfPath point at files
// already saved by the upload store.
type BookInput struct {
	Author    string
	ISBN      string
	Price     decimal.Decimal
	Genre     *string
	ImagePath *string
	PdfPath   *string
}

// BookPatch carries the fields to change; nil means unchanged
type BookPatch struct {
	Author    *string
	ISBN      *string
	Price     *decimal.Decimal
	Genre     *string
	ImagePath *string
	PdfPath   *string
}

// uploads returns the newly saved files referenced by the patch
func (p BookPatch) uploads() []string {
	var paths []string
	if p.ImagePath != nil {
		paths = append(paths, *p.ImagePath)
	}
	if p.PdfPath != nil {
		paths = append(paths, *p.PdfPath)
	}
	return paths
}

func (p BookPatch) fields() map[string]any {
	fields := map[string]any{}
	if p.Author != nil {
		fields["author"] = strings.TrimSpace(*p.Author)
	}
	if p.ISBN != nil {
		fields["isbn"] = strings.TrimSpace(*p.ISBN)
	}
	if p.Price != nil {
		fields["price"] = *p.Price
	}
	if p.Genre != nil {
		fields["genre"] = *p.Genre
	}
	if p.ImagePath != nil {
		fields["image_path"] = *p.ImagePath
	}
	if p.PdfPath != nil {
		fields["pdf_path"] = *p.PdfPath
	}
	return fields
}

// BookService manages the catalog
type BookService struct {
	books BookStore
	authz *Authorizer
	files FileRemover
	log   logrus.FieldLogger
}

// NewBookService creates a BookService
func NewBookService(books BookStore, authz *Authorizer, files FileRemover, log logrus.FieldLogger) *BookService {
	return &BookService{books: books, authz: authz, files: files, log: log}
}

// Create stores a book owned by callerID. When the insert fails the uploaded files
// are removed again.
func (s *BookService) Create(ctx context.Context, callerID string, in BookInput) (*domain.Book, error) {
	book := &domain.Book{
		Author:       in.Author,
		ISBN:         in.ISBN,
		Price:        in.Price,
		UploadedByID: callerID,
		Genre:        in.Genre,
		ImagePath:    in.ImagePath,
		PdfPath:      in.PdfPath,
	}
	if err := s.books.Create(ctx, book); err != nil {
		s.files.RemoveAll(book.Files())
		return nil, err
	}
	s.log.WithFields(logrus.Fields{
		"book_id": book.ID,
		"user_id": callerID,
		"isbn":    book.ISBN,
	}).Info("Book created")

	stored, err := s.books.FindByID(ctx, book.ID)
	if err != nil {
		return book, nil // Row is in; serve it without the expanded owner
	}
	return stored, nil
}

// List returns a page of the whole catalog
func (s *BookService) List(ctx context.Context, page domain.Page) (domain.PageResult[domain.Book], error) {
	return s.list(ctx, "", page)
}

// ListMine returns a page of the books callerID uploaded
func (s *BookService) ListMine(ctx context.Context, callerID string, page domain.Page) (domain.PageResult[domain.Book], error) {
	return s.list(ctx, callerID, page)
}

func (s *BookService) list(ctx context.Context, ownerID string, page domain.Page) (domain.PageResult[domain.Book], error) {
	books, total, err := s.books.List(ctx, ownerID, page)
	if err != nil {
		return domain.PageResult[domain.Book]{}, err
	}
	if books == nil {
		books = []domain.Book{}
	}
	return domain.PageResult[domain.Book]{Data: books, Total: total, Page: page.Page, Limit: page.Limit}, nil
}

// Get returns a single book
func (s *BookService) Get(ctx context.Context, id string) (*domain.Book, error) {
	return s.books.FindByID(ctx, id)
}

// Update applies patch for the owner or an admin. Files replaced by the patch are
// unlinked after the row is updated; on any failure the new uploads are discarded.
func (s *BookService) Update(ctx context.Context, callerID, id string, patch BookPatch) (*domain.Book, error) {
	book, err := s.books.FindByID(ctx, id)
	if err != nil {
		s.files.RemoveAll(patch.uploads())
		return nil, err
	}
	if err := s.authz.Authorize(ctx, callerID, book.UploadedByID); err != nil {
		s.files.RemoveAll(patch.uploads())
		return nil, err
	}
	fields := patch.fields()
	if len(fields) == 0 {
		return book, nil
	}
	updated, err := s.books.Update(ctx, id, fields)
	if err != nil {
		s.files.RemoveAll(patch.uploads())
		return nil, err
	}

	var replaced []string
	if patch.ImagePath != nil && book.ImagePath != nil && *book.ImagePath != *patch.ImagePath {
		replaced = append(replaced, *book.ImagePath)
	}
	if patch.PdfPath != nil && book.PdfPath != nil && *book.PdfPath != *patch.PdfPath {
		replaced = append(replaced, *book.PdfPath)
	}
	s.files.RemoveAll(replaced)

	s.log.WithFields(logrus.Fields{"book_id": id, "caller_id": callerID}).Info("Book updated")
	return updated, nil
}

// Delete removes a book for the owner or an admin, then unlinks its files
func (s *BookService) Delete(ctx context.Context, callerID, id string) error {
	book, err := s.books.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.authz.Authorize(ctx, callerID, book.UploadedByID); err != nil {
		return err
	}
	if err := s.books.Delete(ctx, id); err != nil {
		return err
	}
	s.files.RemoveAll(book.Files())
	s.log.WithFields(logrus.Fields{"book_id": id, "caller_id": callerID}).Info("Book deleted")
	return nil
}

// DeleteMany removes the listed books. Admins may remove any of them; other callers
// only their own, and ids they do not own are skipped without error.
func (s *BookService) DeleteMany(ctx context.Context, callerID string, ids []string) (int64, error) {
	admin, err := s.authz.IsAdmin(ctx, callerID)
	if err != nil {
		return 0, err
	}
	ownerID := callerID
	if admin {
		ownerID = ""
	}
	books, err := s.books.FindByIDs(ctx, ids, ownerID)
	if err != nil {
		return 0, err
	}
	if len(books) == 0 {
		return 0, nil
	}
	targets := make([]string, 0, len(books))
	var paths []string
	for i := range books {
		targets = append(targets, books[i].ID)
		paths = append(paths, books[i].Files()...)
	}
	deleted, err := s.books.DeleteByIDs(ctx, targets)
	if err != nil {
		return 0, err
	}
	s.files.RemoveAll(paths)
	s.log.WithFields(logrus.Fields{
		"caller_id": callerID,
		"requested": len(ids),
		"deleted":   deleted,
	}).Info("Books deleted")
	return deleted, nil
}
