package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"voting/internal/core/model"
	"voting/internal/core/repository"
	"voting/internal/core/token"
)

type SignupInput struct {
	Name             string           `json:"name"`
	Age              int              `json:"age"`
	Email            string           `json:"email"`
	Mobile           string           `json:"mobile"`
	Address          string           `json:"address"`
	AadharCardNumber model.NationalID `json:"aadharCardNumber"`
	Password         string           `json:"password"`
	Role             string           `json:"role"`
}

type UserService interface {
	Signup(ctx context.Context, in SignupInput) (*model.User, string, error)
	Login(ctx context.Context, nationalID model.NationalID, password string) (string, error)
	Profile(ctx context.Context, userID string) (*model.User, error)
	ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error
}

type userService struct {
	userRepo   repository.UserRepository
	authorizer *Authorizer
	tokens     *token.Service
}

func NewUserService(userRepo repository.UserRepository, authorizer *Authorizer, tokens *token.Service) UserService {
	return &userService{
		userRepo:   userRepo,
		authorizer: authorizer,
		tokens:     tokens,
	}
}

func (s *userService) Signup(ctx context.Context, in SignupInput) (*model.User, string, error) {
	if err := in.AadharCardNumber.Validate(); err != nil {
		return nil, "", ErrInvalidNationalID
	}
	if strings.TrimSpace(in.Name) == "" || in.Password == "" {
		return nil, "", ErrMissingFields
	}
	role, err := model.ParseRole(in.Role)
	if err != nil {
		return nil, "", ErrInvalidRole
	}

	if role == model.RoleAdmin {
		admin, err := s.userRepo.FindAdmin(ctx)
		if err != nil {
			return nil, "", fmt.Errorf("find admin: %w", err)
		}
		if admin != nil {
			return nil, "", ErrAdminExists
		}
	}

	existing, err := s.userRepo.FindByNationalID(ctx, in.AadharCardNumber)
	if err != nil {
		return nil, "", fmt.Errorf("find user by national id: %w", err)
	}
	if existing != nil {
		return nil, "", ErrDuplicateNationalID
	}

	user := model.NewUser(strings.TrimSpace(in.Name), in.AadharCardNumber, role)
	user.Age = in.Age
	user.Email = in.Email
	user.Mobile = in.Mobile
	user.Address = in.Address
	if err := user.SetPassword(in.Password); err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	// The unique indexes catch signups racing past the checks above.
	if err := s.userRepo.Create(ctx, user); err != nil {
		switch {
		case errors.Is(err, repository.ErrAdminExists):
			return nil, "", ErrAdminExists
		case errors.Is(err, repository.ErrDuplicateNationalID):
			return nil, "", ErrDuplicateNationalID
		}
		return nil, "", fmt.Errorf("create user: %w", err)
	}

	tok, err := s.tokens.Issue(user.ID.Hex())
	if err != nil {
		return nil, "", err
	}
	return user, tok, nil
}

// absentUser stands in for unknown national IDs at login.
var absentUser = sync.OnceValue(func() *model.User {
	u := &model.User{}
	if err := u.SetPassword("absent-user-placeholder"); err != nil {
		slog.Error("failed to hash placeholder password", "error", err)
	}
	return u
})

// Login reports ErrInvalidCredentials for both an unknown national ID and a
// wrong password.
func (s *userService) Login(ctx context.Context, nationalID model.NationalID, password string) (string, error) {
	if nationalID == "" || password == "" {
		return "", ErrLoginFieldsRequired
	}

	user, err := s.userRepo.FindByNationalID(ctx, nationalID)
	if err != nil {
		return "", fmt.Errorf("find user by national id: %w", err)
	}
	if user == nil {
		// Spend the same bcrypt work as a real comparison.
		absentUser().CheckPassword(password)
		return "", ErrInvalidCredentials
	}
	if !user.CheckPassword(password) {
		return "", ErrInvalidCredentials
	}

	return s.tokens.Issue(user.ID.Hex())
}

func (s *userService) Profile(ctx context.Context, userID string) (*model.User, error) {
	return s.authorizer.Require(ctx, userID, model.CapManageAccount)
}

func (s *userService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	if currentPassword == "" || newPassword == "" {
		return ErrPasswordsRequired
	}

	user, err := s.authorizer.Require(ctx, userID, model.CapManageAccount)
	if errors.Is(err, ErrUserNotFound) {
		return ErrWrongPassword
	}
	if err != nil {
		return err
	}
	if !user.CheckPassword(currentPassword) {
		return ErrWrongPassword
	}

	hash, err := model.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.userRepo.SetPassword(ctx, user.ID, hash); err != nil {
		return fmt.Errorf("set password: %w", err)
	}
	return nil
}
