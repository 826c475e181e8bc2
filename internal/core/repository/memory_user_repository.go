package repository

import (
	"context"
	"fmt"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"voting/internal/core/model"
)

// inMemoryUserRepository mirrors the Mongo unique indexes on national ID
// and admin role.
type inMemoryUserRepository struct {
	users map[primitive.ObjectID]model.User
	mutex sync.RWMutex
}

func NewInMemoryUserRepository() UserRepository {
	return &inMemoryUserRepository{
		users: make(map[primitive.ObjectID]model.User),
	}
}

func (r *inMemoryUserRepository) Create(_ context.Context, user *model.User) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	if _, exists := r.users[user.ID]; exists {
		return fmt.Errorf("user with ID %s already exists", user.ID.Hex())
	}
	if err := r.checkUnique(user); err != nil {
		return err
	}

	r.users[user.ID] = *user
	return nil
}

func (r *inMemoryUserRepository) SetPassword(_ context.Context, id primitive.ObjectID, hash string) error {
	return r.modify(id, func(u *model.User) { u.Password = hash })
}

func (r *inMemoryUserRepository) MarkVoted(_ context.Context, id primitive.ObjectID) error {
	return r.modify(id, func(u *model.User) { u.IsVoted = true })
}

func (r *inMemoryUserRepository) modify(id primitive.ObjectID, apply func(*model.User)) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	user, exists := r.users[id]
	if !exists {
		return ErrNotFound
	}
	apply(&user)
	r.users[id] = user
	return nil
}

func (r *inMemoryUserRepository) checkUnique(user *model.User) error {
	for id, existing := range r.users {
		if id == user.ID {
			continue
		}
		if existing.AadharCardNumber == user.AadharCardNumber {
			return ErrDuplicateNationalID
		}
		if user.Role == model.RoleAdmin && existing.Role == model.RoleAdmin {
			return ErrAdminExists
		}
	}
	return nil
}

func (r *inMemoryUserRepository) FindByID(_ context.Context, id string) (*model.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}

	r.mutex.RLock()
	defer r.mutex.RUnlock()

	if user, exists := r.users[oid]; exists {
		return &user, nil
	}
	return nil, nil
}

func (r *inMemoryUserRepository) FindByNationalID(_ context.Context, nationalID model.NationalID) (*model.User, error) {
	return r.find(func(u *model.User) bool { return u.AadharCardNumber == nationalID }), nil
}

func (r *inMemoryUserRepository) FindAdmin(_ context.Context) (*model.User, error) {
	return r.find(func(u *model.User) bool { return u.Role == model.RoleAdmin }), nil
}

func (r *inMemoryUserRepository) find(match func(*model.User) bool) *model.User {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	for _, user := range r.users {
		if match(&user) {
			found := user
			return &found
		}
	}
	return nil
}
