package service

import (
	"context"
	"fmt"
	"strings"

	"bookstore/internal/domain"
	"bookstore/internal/utils"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// UserPatch carries the profile fields a caller may change; nil means unchanged
type UserPatch struct {
	FirstName *string
	LastName  *string
	Phone     *string
	Username  *string
}

// fields maps the patch onto column/value pairs, normalized like new users are
func (p UserPatch) fields() map[string]any {
	fields := map[string]any{}
	if p.FirstName != nil {
		fields["first_name"] = strings.TrimSpace(*p.FirstName)
	}
	if p.LastName != nil {
		fields["last_name"] = strings.TrimSpace(*p.LastName)
	}
	if p.Phone != nil {
		fields["phone"] = strings.TrimSpace(*p.Phone)
	}
	if p.Username != nil {
		fields["username"] = domain.NormalizeKey(*p.Username)
	}
	return fields
}

// UserService manages user profiles
type UserService struct {
	users UserStore
	authz *Authorizer
	files FileRemover
	rdb   *redis.Client // Wallet cache, nil disables invalidation
	log   logrus.FieldLogger
}

// NewUserService creates a UserService
func NewUserService(users UserStore, authz *Authorizer, files FileRemover, rdb *redis.Client, log logrus.FieldLogger) *UserService {
	return &UserService{users: users, authz: authz, files: files, rdb: rdb, log: log}
}

// List returns a page of users matching q
func (s *UserService) List(ctx context.Context, q string, page domain.Page) (domain.PageResult[domain.User], error) {
	users, total, err := s.users.List(ctx, q, page)
	if err != nil {
		return domain.PageResult[domain.User]{}, err
	}
	if users == nil {
		users = []domain.User{}
	}
	return domain.PageResult[domain.User]{Data: users, Total: total, Page: page.Page, Limit: page.Limit}, nil
}

// Get returns a single user
func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	return s.users.FindByID(ctx, id)
}

// Update changes the profile of id. Only the user themselves or an admin may do so.
func (s *UserService) Update(ctx context.Context, callerID, id string, patch UserPatch) (*domain.User, error) {
	fields := patch.fields()
	if len(fields) == 0 {
		return nil, fmt.Errorf("at least one field is required: %w", domain.ErrValidation)
	}
	if _, err := s.users.FindByID(ctx, id); err != nil {
		return nil, err
	}
	if err := s.authz.Authorize(ctx, callerID, id); err != nil {
		return nil, err
	}
	user, err := s.users.Update(ctx, id, fields)
	if err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"user_id": id, "caller_id": callerID}).Info("User updated")
	return user, nil
}

// Delete removes the user with their wallet and books, then unlinks the books' files
func (s *UserService) Delete(ctx context.Context, callerID, id string) error {
	if _, err := s.users.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.authz.Authorize(ctx, callerID, id); err != nil {
		return err
	}
	books, err := s.users.Delete(ctx, id)
	if err != nil {
		return err
	}
	if err := utils.DeleteCache(ctx, s.rdb, utils.WalletCacheKey(id)); err != nil {
		s.log.WithFields(logrus.Fields{"user_id": id, "error": err.Error()}).Warn("Wallet cache invalidation failed")
	}
	var paths []string
	for i := range books {
		paths = append(paths, books[i].Files()...)
	}
	s.files.RemoveAll(paths)
	s.log.WithFields(logrus.Fields{
		"user_id":   id,
		"caller_id": callerID,
		"books":     len(books),
	}).Info("User deleted")
	return nil
}
