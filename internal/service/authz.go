package service

import (
	"context"
	"errors"

	"bookstore/internal/domain"
)

// Authorizer decides whether a caller may mutate a resource owned by someone else.
// Roles are read from the user store on every check, so a demotion takes effect
// without waiting for tokens to expire.
type Authorizer struct {
	users UserFinder
}

// NewAuthorizer creates an Authorizer
func NewAuthorizer(users UserFinder) *Authorizer {
	return &Authorizer{users: users}
}

// IsAdmin reports whether the caller holds the admin role. A caller that no longer
// exists is not an admin.
func (a *Authorizer) IsAdmin(ctx context.Context, callerID string) (bool, error) {
	caller, err := a.users.FindByID(ctx, callerID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return caller.IsAdmin(), nil
}

// Authorize allows the owner and admins, and returns ErrForbidden for anyone else
func (a *Authorizer) Authorize(ctx context.Context, callerID, ownerID string) error {
	if callerID != "" && callerID == ownerID {
		return nil
	}
	admin, err := a.IsAdmin(ctx, callerID)
	if err != nil {
		return err
	}
	if !admin {
		return domain.ErrForbidden
	}
	return nil
}
