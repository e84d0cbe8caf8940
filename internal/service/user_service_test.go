package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"clubhub/internal/auth"
	apperrors "clubhub/internal/errors"
	"clubhub/internal/model"
	"clubhub/internal/repository"
)

func newTestUserService(repo repository.UserRepository) (UserService, *auth.PasswordHasher) {
	hasher := auth.NewPasswordHasher(bcrypt.MinCost)
	return NewUserService(repo, hasher, nil), hasher
}

func ptr[T any](v T) *T { return &v }

func TestUserService_ListUsers(t *testing.T) {
	repo := new(MockUserRepository)
	svc, _ := newTestUserService(repo)
	page := repository.NewPage(2, 5)

	repo.On("List", mock.Anything, page, "ali").Return([]model.User{{ID: 1}, {ID: 2}}, int64(7), nil)

	list, err := svc.ListUsers(context.Background(), page, "ali")
	require.NoError(t, err)
	assert.Len(t, list.Users, 2)
	assert.Equal(t, int64(7), list.Total)
}

func TestUserService_ListUsers_EmptyIsNotNil(t *testing.T) {
	repo := new(MockUserRepository)
	svc, _ := newTestUserService(repo)
	repo.On("List", mock.Anything, mock.Anything, "").Return([]model.User(nil), int64(0), nil)

	list, err := svc.ListUsers(context.Background(), repository.NewPage(1, 10), "")
	require.NoError(t, err)
	assert.NotNil(t, list.Users)
}

func TestUserService_GetUser(t *testing.T) {
	repo := new(MockUserRepository)
	svc, _ := newTestUserService(repo)
	repo.On("FindByID", mock.Anything, uint(1)).Return(&model.User{ID: 1}, nil)
	repo.On("FindByID", mock.Anything, uint(2)).Return(nil, gorm.ErrRecordNotFound)

	user, err := svc.GetUser(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, uint(1), user.ID)

	_, err = svc.GetUser(context.Background(), 2)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestUserService_CreateUser(t *testing.T) {
	tests := []struct {
		name     string
		input    CreateUserInput
		repoErr  error
		wantErr  error
		wantRole model.Role
	}{
		{
			name:     "defaults to USER",
			input:    CreateUserInput{Name: "B", Email: "b@x.com", Password: "secret1"},
			wantRole: model.RoleUser,
		},
		{
			name:     "explicit admin",
			input:    CreateUserInput{Name: "B", Email: "b@x.com", Password: "secret1", Role: model.RoleAdmin},
			wantRole: model.RoleAdmin,
		},
		{
			name:    "unknown role",
			input:   CreateUserInput{Name: "B", Email: "b@x.com", Password: "secret1", Role: "ROOT"},
			wantErr: apperrors.ErrValidation,
		},
		{
			name:    "duplicate email",
			input:   CreateUserInput{Name: "B", Email: "b@x.com", Password: "secret1"},
			repoErr: gorm.ErrDuplicatedKey,
			wantErr: apperrors.ErrDuplicateEmail,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockUserRepository)
			svc, hasher := newTestUserService(repo)
			repo.On("Create", mock.Anything, mock.Anything).Return(tt.repoErr)

			user, err := svc.CreateUser(context.Background(), tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantRole, user.Role)
			assert.True(t, hasher.Verify(tt.input.Password, user.PasswordHash))
		})
	}
}

func TestUserService_UpdateUser(t *testing.T) {
	t.Run("partial update", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc, hasher := newTestUserService(repo)
		existing := &model.User{ID: 1, Name: "Old", Email: "o@x.com", PasswordHash: "h", Role: model.RoleUser}
		repo.On("FindByID", mock.Anything, uint(1)).Return(existing, nil)
		repo.On("Update", mock.Anything, mock.Anything).Return(nil)

		user, err := svc.UpdateUser(context.Background(), 1, UpdateUserInput{
			Role:     ptr(model.RoleAdmin),
			Password: ptr("newpass"),
		})
		require.NoError(t, err)
		assert.Equal(t, "Old", user.Name)
		assert.Equal(t, model.RoleAdmin, user.Role)
		assert.True(t, hasher.Verify("newpass", user.PasswordHash))
	})

	t.Run("invalid email", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc, _ := newTestUserService(repo)

		_, err := svc.UpdateUser(context.Background(), 1, UpdateUserInput{Email: ptr("nope")})
		assert.ErrorIs(t, err, apperrors.ErrValidation)
		repo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})

	t.Run("missing user", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc, _ := newTestUserService(repo)
		repo.On("FindByID", mock.Anything, uint(9)).Return(nil, gorm.ErrRecordNotFound)

		_, err := svc.UpdateUser(context.Background(), 9, UpdateUserInput{Name: ptr("x")})
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}

func TestUserService_DeleteUser(t *testing.T) {
	repo := new(MockUserRepository)
	svc, _ := newTestUserService(repo)
	repo.On("Delete", mock.Anything, uint(1)).Return(nil)
	repo.On("Delete", mock.Anything, uint(2)).Return(gorm.ErrRecordNotFound)
	repo.On("Delete", mock.Anything, uint(3)).Return(errors.New("boom"))

	assert.NoError(t, svc.DeleteUser(context.Background(), 1))
	assert.ErrorIs(t, svc.DeleteUser(context.Background(), 2), apperrors.ErrNotFound)
	assert.Equal(t, "INTERNAL_ERROR", apperrors.Code(svc.DeleteUser(context.Background(), 3)))
}
