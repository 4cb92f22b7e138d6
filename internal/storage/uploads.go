package storage

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"bookstore/internal/domain"

	"github.com/gabriel-vasile/mimetype"
	"github.com/sirupsen/logrus"
)

// Kind selects the subdirectory an upload is stored in
type Kind string

const (
	KindImage Kind = "images"
	KindPDF   Kind = "pdfs"
)

// ErrUnsupportedType is returned when the uploaded content does not match its field
var ErrUnsupportedType = fmt.Errorf("unsupported file type: %w", domain.ErrValidation)

// ErrOutsideRoot is returned for paths that do not resolve inside the uploads root
var ErrOutsideRoot = errors.New("path outside uploads root")

// Store keeps uploaded book files on the local filesystem
type Store struct {
	root    string // Root as configured, used to build stored paths
	absRoot string // Absolute root, used for confinement checks
	log     logrus.FieldLogger
}

// NewStore creates the image and pdf directories under root
func NewStore(root string, log logrus.FieldLogger) (*Store, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve uploads root: %w", err)
	}
	for _, kind := range []Kind{KindImage, KindPDF} {
		if err := os.MkdirAll(filepath.Join(abs, string(kind)), 0o755); err != nil {
			return nil, fmt.Errorf("create %s dir: %w", kind, err)
		}
	}
	return &Store{root: filepath.Clean(root), absRoot: abs, log: log}, nil
}

// Save copies the upload into the directory for kind after sniffing its content,
// and returns the stored path relative to the working directory.
func (s *Store) Save(fh *multipart.FileHeader, kind Kind) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	mtype, err := mimetype.DetectReader(src)
	if err != nil {
		return "", fmt.Errorf("detect upload type: %w", err)
	}
	if !accepts(kind, mtype) {
		return "", fmt.Errorf("%s as %s: %w", mtype.String(), kind, ErrUnsupportedType)
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("rewind upload: %w", err)
	}

	name := newFileName(fh.Filename, mtype)
	dst, err := os.OpenFile(filepath.Join(s.absRoot, string(kind), name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		_ = os.Remove(dst.Name())
		return "", fmt.Errorf("write upload file: %w", err)
	}
	if err := dst.Close(); err != nil {
		return "", fmt.Errorf("close upload file: %w", err)
	}
	return filepath.ToSlash(filepath.Join(s.root, string(kind), name)), nil
}

// Remove deletes a stored file. Missing files are not an error; paths that
// resolve outside the root are refused.
func (s *Store) Remove(p string) error {
	if strings.TrimSpace(p) == "" {
		return nil
	}
	abs, err := s.resolve(p)
	if err != nil {
		return err
	}
	if err := os.Remove(abs); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// RemoveAll removes every path, logging failures instead of returning them
func (s *Store) RemoveAll(paths []string) {
	for _, p := range paths {
		if err := s.Remove(p); err != nil {
			s.log.WithFields(logrus.Fields{"path": p, "error": err.Error()}).Warn("Upload cleanup failed")
		}
	}
}

// resolve maps a stored path to an absolute path confined to the root
func (s *Store) resolve(p string) (string, error) {
	candidate := filepath.FromSlash(p)
	if !filepath.IsAbs(candidate) {
		var err error
		if candidate, err = filepath.Abs(candidate); err != nil {
			return "", err
		}
	}
	rel, err := filepath.Rel(s.absRoot, candidate)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", ErrOutsideRoot
	}
	return candidate, nil
}

func accepts(kind Kind, mtype *mimetype.MIME) bool {
	switch kind {
	case KindImage:
		// SVG can carry script
		return strings.HasPrefix(mtype.String(), "image/") && !mtype.Is("image/svg+xml")
	case KindPDF:
		return mtype.Is("application/pdf")
	}
	return false
}

// extAliases maps accepted client spellings onto the sniffed extension
var extAliases = map[string]string{
	".jpeg": ".jpg",
	".jpe":  ".jpg",
	".tif":  ".tiff",
}

// newFileName keeps the client's extension only when it agrees with the sniffed
// content, otherwise the sniffed one is used
func newFileName(original string, mtype *mimetype.MIME) string {
	ext := strings.ToLower(filepath.Ext(original))
	if ext != mtype.Extension() && extAliases[ext] != mtype.Extension() {
		ext = mtype.Extension()
	}
	var b [6]byte
	_, _ = rand.Read(b[:])
	return strconv.FormatInt(time.Now().UnixMilli(), 10) + "-" + hex.EncodeToString(b[:]) + ext
}
