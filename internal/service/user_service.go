package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"clubhub/internal/auth"
	apperrors "clubhub/internal/errors"
	"clubhub/internal/model"
	"clubhub/internal/repository"
	"clubhub/internal/validation"
)

// CreateUserInput is the admin payload for creating an account.
type CreateUserInput struct {
	Name     string     `json:"name" validate:"required,max=255"`
	Email    string     `json:"email" validate:"required,email,max=255"`
	Password string     `json:"password" validate:"required,min=6"`
	Role     model.Role `json:"role" validate:"omitempty,oneof=ADMIN USER"`
}

// UpdateUserInput is a partial update; nil fields are left unchanged.
type UpdateUserInput struct {
	Name     *string     `json:"name" validate:"omitnil,min=1,max=255"`
	Email    *string     `json:"email" validate:"omitnil,email,max=255"`
	Password *string     `json:"password" validate:"omitnil,min=6"`
	Role     *model.Role `json:"role" validate:"omitnil,oneof=ADMIN USER"`
}

// UserList is one page of users.
type UserList struct {
	Users []model.User `json:"users"`
	Total int64        `json:"total"`
}

// UserService exposes account administration.
type UserService interface {
	ListUsers(ctx context.Context, page repository.Page, search string) (*UserList, error)
	GetUser(ctx context.Context, id uint) (*model.User, error)
	CreateUser(ctx context.Context, in CreateUserInput) (*model.User, error)
	UpdateUser(ctx context.Context, id uint, in UpdateUserInput) (*model.User, error)
	DeleteUser(ctx context.Context, id uint) error
}

type userService struct {
	repo     repository.UserRepository
	hasher   *auth.PasswordHasher
	validate *validator.Validate
	log      *zap.Logger
}

// NewUserService builds a UserService. Accounts are read straight from the
// store so that WhoAmI always sees the latest role.
func NewUserService(repo repository.UserRepository, hasher *auth.PasswordHasher, log *zap.Logger) UserService {
	if log == nil {
		log = zap.NewNop()
	}
	return &userService{repo: repo, hasher: hasher, validate: validation.New(), log: log}
}

func (s *userService) ListUsers(ctx context.Context, page repository.Page, search string) (*UserList, error) {
	users, total, err := s.repo.List(ctx, page, search)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	if users == nil {
		users = []model.User{}
	}
	return &UserList{Users: users, Total: total}, nil
}

func (s *userService) GetUser(ctx context.Context, id uint) (*model.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, apperrors.ErrNotFound)
	}
	return user, nil
}

func (s *userService) CreateUser(ctx context.Context, in CreateUserInput) (*model.User, error) {
	if err := validation.Struct(s.validate, in); err != nil {
		return nil, err
	}
	if in.Role == "" {
		in.Role = model.RoleUser
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{Name: in.Name, Email: in.Email, PasswordHash: hash, Role: in.Role}
	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.log.Info("user created", zap.Uint("user_id", user.ID), zap.String("role", string(user.Role)))
	return user, nil
}

// UpdateUser applies the non-nil fields. A role change affects tokens issued
// afterwards only; existing tokens keep the role they were issued with.
func (s *userService) UpdateUser(ctx context.Context, id uint, in UpdateUserInput) (*model.User, error) {
	if err := validation.Struct(s.validate, in); err != nil {
		return nil, err
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, apperrors.ErrNotFound)
	}

	if in.Name != nil {
		user.Name = *in.Name
	}
	if in.Email != nil {
		user.Email = *in.Email
	}
	if in.Role != nil {
		user.Role = *in.Role
	}
	if in.Password != nil {
		hash, err := s.hasher.Hash(*in.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}

	if err := s.repo.Update(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}

func (s *userService) DeleteUser(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return notFound(err, apperrors.ErrNotFound)
	}
	s.log.Info("user deleted", zap.Uint("user_id", id))
	return nil
}

// notFound maps gorm.ErrRecordNotFound to target and wraps anything else.
func notFound(err, target error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return target
	}
	return fmt.Errorf("store: %w", err)
}
