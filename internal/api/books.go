package api

import (
	"errors"         // Error matching
	"io"             // Empty body detection
	"mime/multipart" // Uploaded file headers
	"net/http"       // HTTP status codes
	"strings"        // String manipulation

	"bookstore/internal/middleware" // Authenticated caller
	"bookstore/internal/service"    // Book service
	"bookstore/internal/storage"    // Upload kinds
	"bookstore/internal/validate"   // Request validation

	"github.com/gin-gonic/gin"      // Gin web framework
	"github.com/shopspring/decimal" // Prices
	"github.com/sirupsen/logrus"    // Logging library
)

// FileStore saves uploads and removes them again
type FileStore interface {
	Save(fh *multipart.FileHeader, kind storage.Kind) (string, error)
	RemoveAll(paths []string)
}

// bookFields is the book body, sent either as JSON or as multipart form fields.
// Nil means the field was not sent.
type bookFields struct {
	Author *string          `json:"author" validate:"omitnil,min=1,max=255"`
	ISBN   *string          `json:"isbn" validate:"omitnil,min=1,max=64"`
	Price  *decimal.Decimal `json:"price" validate:"-"`
	Genre  *string          `json:"genre" validate:"omitnil,max=100"`
}

func (b *bookFields) trim() {
	for _, f := range []*string{b.Author, b.ISBN, b.Genre} {
		if f != nil {
			*f = strings.TrimSpace(*f)
		}
	}
}

// check validates the fields; create additionally requires author, isbn and price
func (b *bookFields) check(v *validate.Validator, create bool) validate.Result {
	b.trim()
	res := v.Struct(b)
	if create {
		if b.Author == nil {
			res.Add("author", "required", "is required")
		}
		if b.ISBN == nil {
			res.Add("isbn", "required", "is required")
		}
		if b.Price == nil {
			res.Add("price", "required", "is required")
		}
	}
	if b.Price != nil && b.Price.IsNegative() {
		res.Add("price", "min", "must be at least 0")
	}
	return res
}

func isMultipart(c *gin.Context) bool {
	return strings.HasPrefix(c.ContentType(), "multipart/form-data")
}

// readBookFields decodes the body in whichever encoding the client used
func readBookFields(c *gin.Context) (bookFields, validate.Result) {
	var (
		b   bookFields
		res validate.Result
	)
	if isMultipart(c) {
		for name, dst := range map[string]**string{"author": &b.Author, "isbn": &b.ISBN, "genre": &b.Genre} {
			if val, ok := c.GetPostForm(name); ok {
				*dst = &val
			}
		}
		if raw, ok := c.GetPostForm("price"); ok {
			price, err := decimal.NewFromString(strings.TrimSpace(raw))
			if err != nil {
				res.Add("price", "invalid_type", "must be a number")
			} else {
				b.Price = &price
			}
		}
		return b, res
	}
	if err := c.ShouldBindJSON(&b); err != nil && !errors.Is(err, io.EOF) {
		res.Add("", "invalid_json", "Malformed JSON body")
	}
	return b, res
}

// saveUploads stores the optional image and pdf parts. Either both succeed or
// nothing is left on disk.
func saveUploads(c *gin.Context, files FileStore) (image, pdf *string, err error) {
	if !isMultipart(c) {
		return nil, nil, nil
	}
	var (
		saved []string
		res   validate.Result
	)
	for _, part := range []struct {
		field string
		kind  storage.Kind
		dst   **string
	}{
		{"image", storage.KindImage, &image},
		{"pdf", storage.KindPDF, &pdf},
	} {
		fh, ferr := c.FormFile(part.field)
		if errors.Is(ferr, http.ErrMissingFile) {
			continue
		}
		if ferr != nil {
			res.Add(part.field, "invalid", "Unreadable file")
			break
		}
		path, serr := files.Save(fh, part.kind)
		if errors.Is(serr, storage.ErrUnsupportedType) {
			res.Add(part.field, "invalid_type", "Unsupported file type")
			break
		}
		if serr != nil {
			files.RemoveAll(saved)
			return nil, nil, serr
		}
		saved = append(saved, path)
		*part.dst = &path
	}
	if !res.OK() {
		files.RemoveAll(saved)
		return nil, nil, res.Err("body")
	}
	return image, pdf, nil
}

// CreateBookHandler stores a book owned by the caller, with optional image and pdf
func CreateBookHandler(books *service.BookService, files FileStore, v *validate.Validator, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		fields, res := readBookFields(c)
		if res.OK() {
			res = fields.check(v, true)
		}
		if err := res.Err("body"); err != nil {
			respondError(c, log, err)
			return
		}
		image, pdf, err := saveUploads(c, files)
		if err != nil {
			respondError(c, log, err)
			return
		}
		book, err := books.Create(c.Request.Context(), middleware.UserID(c), service.BookInput{
			Author:    *fields.Author,
			ISBN:      *fields.ISBN,
			Price:     *fields.Price,
			Genre:     fields.Genre,
			ImagePath: image,
			PdfPath:   pdf,
		})
		if err != nil {
			respondError(c, log, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"book": book})
	}
}

// ListBooksHandler returns a page of the catalog, newest first
func ListBooksHandler(books *service.BookService, v *validate.Validator, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, _, err := bindPage(c, v)
		if err != nil {
			respondError(c, log, err)
			return
		}
		result, err := books.List(c.Request.Context(), page)
		if err != nil {
			respondError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, listResponse(result))
	}
}

// ListMyBooksHandler returns a page of the caller's own books
func ListMyBooksHandler(books *service.BookService, v *validate.Validator, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, _, err := bindPage(c, v)
		if err != nil {
			respondError(c, log, err)
			return
		}
		result, err := books.ListMine(c.Request.Context(), middleware.UserID(c), page)
		if err != nil {
			respondError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, listResponse(result))
	}
}

// GetBookHandler returns one book
func GetBookHandler(books *service.BookService, v *validate.Validator, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := idParam(c, v, "id")
		if err != nil {
			respondError(c, log, err)
			return
		}
		book, err := books.Get(c.Request.Context(), id)
		if err != nil {
			respondError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"book": book})
	}
}

// UpdateBookHandler patches a book for its owner or an admin
func UpdateBookHandler(books *service.BookService, files FileStore, v *validate.Validator, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := idParam(c, v, "id")
		if err != nil {
			respondError(c, log, err)
			return
		}
		fields, res := readBookFields(c)
		if res.OK() {
			res = fields.check(v, false)
		}
		if err := res.Err("body"); err != nil {
			respondError(c, log, err)
			return
		}
		image, pdf, err := saveUploads(c, files)
		if err != nil {
			respondError(c, log, err)
			return
		}
		book, err := books.Update(c.Request.Context(), middleware.UserID(c), id, service.BookPatch{
			Author:    fields.Author,
			ISBN:      fields.ISBN,
			Price:     fields.Price,
			Genre:     fields.Genre,
			ImagePath: image,
			PdfPath:   pdf,
		})
		if err != nil {
			respondError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"book": book})
	}
}

// DeleteBookHandler removes a book for its owner or an admin
func DeleteBookHandler(books *service.BookService, v *validate.Validator, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := idParam(c, v, "id")
		if err != nil {
			respondError(c, log, err)
			return
		}
		if err := books.Delete(c.Request.Context(), middleware.UserID(c), id); err != nil {
			respondError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"deleted": true})
	}
}

// DeleteManyRequest lists the books to remove
type DeleteManyRequest struct {
	IDs []string `json:"ids" validate:"required,min=1,dive,objectid"`
}

// DeleteManyBooksHandler removes several books. Ids the caller may not delete are skipped.
func DeleteManyBooksHandler(books *service.BookService, v *validate.Validator, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req DeleteManyRequest
		if err := bindBody(c, v, &req); err != nil {
			respondError(c, log, err)
			return
		}
		deleted, err := books.DeleteMany(c.Request.Context(), middleware.UserID(c), req.IDs)
		if err != nil {
			respondError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"deletedCount": deleted})
	}
}
