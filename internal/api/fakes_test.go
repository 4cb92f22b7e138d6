package api

import (
	"context"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"bookstore/internal/domain"

	"github.com/shopspring/decimal"
)

// memStore is an in-memory stand-in for the gorm repositories, enforcing the same
// unique keys and error taxonomy
type memStore struct {
	mu      sync.Mutex
	users   map[string]*domain.User
	wallets map[string]*domain.Wallet // by user id
	books   map[string]*domain.Book
	clock   time.Time
}

func newMemStore() *memStore {
	return &memStore{
		users:   map[string]*domain.User{},
		wallets: map[string]*domain.Wallet{},
		books:   map[string]*domain.Book{},
		clock:   time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// tick returns strictly increasing timestamps so newest-first ordering is stable
func (s *memStore) tick() time.Time {
	s.clock = s.clock.Add(time.Second)
	return s.clock
}

type memUsers struct{ *memStore }
type memBooks struct{ *memStore }
type memWallets struct{ *memStore }

func (s memUsers) conflict(id string, u *domain.User) error {
	for _, other := range s.users {
		if other.ID == id {
			continue
		}
		switch {
		case other.Email == u.Email:
			return &domain.ConflictError{Field: "email"}
		case other.Username == u.Username:
			return &domain.ConflictError{Field: "username"}
		case other.Phone == u.Phone:
			return &domain.ConflictError{Field: "phone"}
		}
	}
	return nil
}

func (s memUsers) CreateWithWallet(_ context.Context, user *domain.User, wallet *domain.Wallet) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user.Normalize()
	if err := s.conflict("", user); err != nil {
		return err
	}
	user.ID = domain.NewID()
	user.CreatedAt = s.tick()
	user.UpdatedAt = user.CreatedAt
	wallet.ID = domain.NewID()
	wallet.UserID = user.ID
	stored := *user
	s.users[user.ID] = &stored
	w := *wallet
	s.wallets[user.ID] = &w
	return nil
}

func (s memUsers) FindByID(_ context.Context, id string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, domain.NotFound("User")
	}
	cp := *u
	return &cp, nil
}

func (s memUsers) FindByLogin(_ context.Context, identifier string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := domain.NormalizeKey(identifier)
	for _, u := range s.users {
		if u.Email == key || u.Username == key {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.NotFound("User")
}

func (s memUsers) List(_ context.Context, q string, page domain.Page) ([]domain.User, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q = strings.ToLower(strings.TrimSpace(q))
	var all []domain.User
	for _, u := range s.users {
		hay := strings.ToLower(strings.Join([]string{u.Email, u.Username, u.FirstName, u.LastName, u.Phone}, " "))
		if q == "" || strings.Contains(hay, q) {
			all = append(all, *u)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	return window(all, page), int64(len(all)), nil
}

func (s memUsers) Update(_ context.Context, id string, fields map[string]any) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, domain.NotFound("User")
	}
	next := *u
	for k, v := range fields {
		switch k {
		case "first_name":
			next.FirstName = v.(string)
		case "last_name":
			next.LastName = v.(string)
		case "phone":
			next.Phone = v.(string)
		case "username":
			next.Username = v.(string)
		}
	}
	if err := s.conflict(id, &next); err != nil {
		return nil, err
	}
	next.UpdatedAt = s.tick()
	s.users[id] = &next
	cp := next
	return &cp, nil
}

func (s memUsers) Delete(_ context.Context, id string) ([]domain.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return nil, domain.NotFound("User")
	}
	var removed []domain.Book
	for bid, b := range s.books {
		if b.UploadedByID == id {
			removed = append(removed, *b)
			delete(s.books, bid)
		}
	}
	delete(s.wallets, id)
	delete(s.users, id)
	return removed, nil
}

func (s memBooks) owner(b *domain.Book) *domain.Book {
	cp := *b
	if u, ok := s.users[b.UploadedByID]; ok {
		cp.Uploader = &domain.Owner{ID: u.ID, FirstName: u.FirstName, LastName: u.LastName}
	}
	return &cp
}

func (s memBooks) Create(_ context.Context, book *domain.Book) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, other := range s.books {
		if other.ISBN == strings.TrimSpace(book.ISBN) {
			return &domain.ConflictError{Field: "isbn"}
		}
	}
	book.ID = domain.NewID()
	book.CreatedAt = s.tick()
	book.UpdatedAt = book.CreatedAt
	stored := *book
	s.books[book.ID] = &stored
	return nil
}

func (s memBooks) FindByID(_ context.Context, id string) (*domain.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.books[id]
	if !ok {
		return nil, domain.NotFound("Book")
	}
	return s.owner(b), nil
}

func (s memBooks) List(_ context.Context, ownerID string, page domain.Page) ([]domain.Book, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var all []domain.Book
	for _, b := range s.books {
		if ownerID == "" || b.UploadedByID == ownerID {
			all = append(all, *s.owner(b))
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	return window(all, page), int64(len(all)), nil
}

func (s memBooks) Update(_ context.Context, id string, fields map[string]any) (*domain.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.books[id]
	if !ok {
		return nil, domain.NotFound("Book")
	}
	next := *b
	for k, v := range fields {
		switch k {
		case "author":
			next.Author = v.(string)
		case "isbn":
			next.ISBN = v.(string)
		case "price":
			next.Price = v.(decimal.Decimal)
		case "genre":
			g := v.(string)
			next.Genre = &g
		case "image_path":
			p := v.(string)
			next.ImagePath = &p
		case "pdf_path":
			p := v.(string)
			next.PdfPath = &p
		}
	}
	for oid, other := range s.books {
		if oid != id && other.ISBN == next.ISBN {
			return nil, &domain.ConflictError{Field: "isbn"}
		}
	}
	next.UpdatedAt = s.tick()
	s.books[id] = &next
	return s.owner(&next), nil
}

func (s memBooks) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.books[id]; !ok {
		return domain.NotFound("Book")
	}
	delete(s.books, id)
	return nil
}

func (s memBooks) FindByIDs(_ context.Context, ids []string, ownerID string) ([]domain.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var found []domain.Book
	for _, b := range s.books {
		if slices.Contains(ids, b.ID) && (ownerID == "" || b.UploadedByID == ownerID) {
			found = append(found, *b)
		}
	}
	return found, nil
}

func (s memBooks) DeleteByIDs(_ context.Context, ids []string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, id := range ids {
		if _, ok := s.books[id]; ok {
			delete(s.books, id)
			n++
		}
	}
	return n, nil
}

func (s memWallets) FindByUserID(_ context.Context, userID string) (*domain.Wallet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.wallets[userID]
	if !ok {
		return nil, domain.NotFound("Wallet")
	}
	cp := *w
	return &cp, nil
}

func (s memWallets) SetBalance(_ context.Context, userID string, amount decimal.Decimal) (*domain.Wallet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.wallets[userID]
	if !ok {
		return nil, domain.NotFound("Wallet")
	}
	w.Balance = amount
	cp := *w
	return &cp, nil
}

func (s memWallets) AdjustBalance(_ context.Context, userID string, delta decimal.Decimal) (*domain.Wallet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.wallets[userID]
	if !ok {
		return nil, domain.NotFound("Wallet")
	}
	next := w.Balance.Add(delta)
	if next.IsNegative() {
		return nil, domain.ErrInsufficientFunds
	}
	w.Balance = next
	cp := *w
	return &cp, nil
}

func window[T any](all []T, page domain.Page) []T {
	start := page.Offset()
	if start >= len(all) {
		return []T{}
	}
	end := min(start+page.Limit, len(all))
	return all[start:end]
}

// memFiles records saved and removed uploads without touching disk unless a
// real store is wrapped
type memFiles struct {
	FileStore
	mu      sync.Mutex
	removed []string
}

func (f *memFiles) RemoveAll(paths []string) {
	f.mu.Lock()
	f.removed = append(f.removed, paths...)
	f.mu.Unlock()
	f.FileStore.RemoveAll(paths)
}
