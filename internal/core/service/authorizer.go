package service

import (
	"context"

	"voting/internal/core/model"
	"voting/internal/core/repository"
)

// Authorizer resolves the caller's stored record and checks its role's
// capabilities. Both endpoint groups gate through it.
type Authorizer struct {
	userRepo repository.UserRepository
}

func NewAuthorizer(userRepo repository.UserRepository) *Authorizer {
	return &Authorizer{userRepo: userRepo}
}

// Require returns the caller if their role grants capability. A missing
// caller yields ErrUserNotFound, a denied capability ErrCapabilityDenied.
func (a *Authorizer) Require(ctx context.Context, userID string, capability model.Capability) (*model.User, error) {
	user, err := a.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if !user.Role.Can(capability) {
		return user, ErrCapabilityDenied
	}
	return user, nil
}
