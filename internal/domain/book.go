package domain

import (
	"strings" // Trimming of indexed fields
	"time"    // Timestamps

	"github.com/shopspring/decimal" // Precise monetary values
	"gorm.io/gorm"                  // GORM hooks
)

// Book Model
type Book struct {
	ID           string          `gorm:"primaryKey;size:24" json:"id"`                                      // 24 hex document id
	Author       string          `gorm:"size:255;not null" json:"author"`                                   // Author name, trimmed
	ISBN         string          `gorm:"column:isbn;uniqueIndex;size:64;not null" json:"isbn"`              // Unique, trimmed
	Price        decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"price"`                          // Never negative
	UploadedByID string          `gorm:"column:uploaded_by;size:24;index;not null" json:"uploadedById"`     // Owner, immutable
	Uploader     *Owner          `gorm:"foreignKey:UploadedByID;references:ID" json:"uploadedBy,omitempty"` // Expanded owner names
	Genre        *string         `gorm:"size:100" json:"genre,omitempty"`                                   // Optional genre
	ImagePath    *string         `gorm:"size:255" json:"imagePath,omitempty"`                               // Stored cover image
	PdfPath      *string         `gorm:"size:255" json:"pdfPath,omitempty"`                                 // Stored PDF
	CreatedAt    time.Time       `json:"createdAt"`                                                         // Creation timestamp
	UpdatedAt    time.Time       `json:"updatedAt"`                                                         // Last update timestamp
}

// BeforeCreate assigns an id and trims the indexed fields.
func (b *Book) BeforeCreate(_ *gorm.DB) error {
	if b.ID == "" {
		b.ID = NewID()
	}
	b.Author = strings.TrimSpace(b.Author)
	b.ISBN = strings.TrimSpace(b.ISBN)
	return nil
}

// Files returns the stored upload paths referenced by the book.
func (b *Book) Files() []string {
	var paths []string
	if b.ImagePath != nil && *b.ImagePath != "" {
		paths = append(paths, *b.ImagePath)
	}
	if b.PdfPath != nil && *b.PdfPath != "" {
		paths = append(paths, *b.PdfPath)
	}
	return paths
}

// OwnedBy reports whether userID uploaded the book.
func (b *Book) OwnedBy(userID string) bool {
	return b.UploadedByID == userID
}

// Owner is the expanded uploader shown alongside a book.
// Column tags mirror User so migrations leave the users table untouched.
type Owner struct {
	ID        string `gorm:"primaryKey;size:24" json:"id"`        // Uploader id
	FirstName string `gorm:"size:50;not null" json:"firstName"` // Given name
	LastName  string `gorm:"size:50;not null" json:"lastName"`  // Family name
}

// TableName maps Owner onto the users table.
func (Owner) TableName() string {
	return "users"
}
