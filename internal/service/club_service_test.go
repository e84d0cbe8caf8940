package service

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"clubhub/internal/cache"
	apperrors "clubhub/internal/errors"
	"clubhub/internal/model"
	"clubhub/internal/repository"
)

func newTestCache(t *testing.T) (*cache.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := cache.New(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestClubService_GetClub_Caches(t *testing.T) {
	repo := new(MockClubRepository)
	c, mr := newTestCache(t)
	svc := NewClubService(repo, c, nil)

	repo.On("FindByID", mock.Anything, uint(1)).Return(&model.Club{ID: 1, Name: "Chess"}, nil).Once()

	first, err := svc.GetClub(context.Background(), 1)
	require.NoError(t, err)
	second, err := svc.GetClub(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, "Chess", first.Name)
	assert.Equal(t, "Chess", second.Name)
	assert.True(t, mr.Exists("club:1"))
	repo.AssertNumberOfCalls(t, "FindByID", 1)
}

func TestClubService_GetClub_NotFound(t *testing.T) {
	repo := new(MockClubRepository)
	svc := NewClubService(repo, nil, nil)
	repo.On("FindByID", mock.Anything, uint(4)).Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.GetClub(context.Background(), 4)
	assert.ErrorIs(t, err, apperrors.ErrClubNotFound)
}

func TestClubService_CreateClub(t *testing.T) {
	tests := []struct {
		name    string
		input   ClubInput
		wantErr error
	}{
		{"valid", ClubInput{Name: "Chess", Description: "Weekly games", FacebookURL: ptr("https://facebook.com/chess")}, nil},
		{"blank facebook url is dropped", ClubInput{Name: "Chess", Description: "d", FacebookURL: ptr("")}, nil},
		{"missing name", ClubInput{Description: "d"}, apperrors.ErrValidation},
		{"missing description", ClubInput{Name: "Chess"}, apperrors.ErrValidation},
		{"bad facebook url", ClubInput{Name: "Chess", Description: "d", FacebookURL: ptr("not a url")}, apperrors.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockClubRepository)
			svc := NewClubService(repo, nil, nil)
			repo.On("Create", mock.Anything, mock.Anything).Return(nil)

			club, err := svc.CreateClub(context.Background(), tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.input.Name, club.Name)
			if tt.input.FacebookURL != nil && *tt.input.FacebookURL == "" {
				assert.Nil(t, club.FacebookURL)
			}
		})
	}
}

func TestClubService_UpdateClub_InvalidatesCache(t *testing.T) {
	repo := new(MockClubRepository)
	c, mr := newTestCache(t)
	svc := NewClubService(repo, c, nil)
	require.NoError(t, mr.Set("club:1", `{"id":1,"name":"Old"}`))

	repo.On("FindByID", mock.Anything, uint(1)).Return(&model.Club{ID: 1, Name: "Old", Description: "d"}, nil)
	repo.On("Update", mock.Anything, mock.Anything).Return(nil)

	club, err := svc.UpdateClub(context.Background(), 1, UpdateClubInput{Name: ptr("New")})
	require.NoError(t, err)
	assert.Equal(t, "New", club.Name)
	assert.False(t, mr.Exists("club:1"))
}

func TestClubService_UpdateClub_Partial(t *testing.T) {
	stored := func() *model.Club {
		return &model.Club{
			ID:          1,
			Name:        "Chess",
			Description: "Weekly games",
			Image:       ptr("https://cdn/x.png"),
			FacebookURL: ptr("https://facebook.com/chess"),
		}
	}

	tests := []struct {
		name  string
		input UpdateClubInput
		check func(t *testing.T, club *model.Club)
	}{
		{
			name:  "name only keeps everything else",
			input: UpdateClubInput{Name: ptr("Renamed")},
			check: func(t *testing.T, club *model.Club) {
				assert.Equal(t, "Renamed", club.Name)
				assert.Equal(t, "Weekly games", club.Description)
				require.NotNil(t, club.Image)
				assert.Equal(t, "https://cdn/x.png", *club.Image)
				require.NotNil(t, club.FacebookURL)
			},
		},
		{
			name:  "omitted image is kept",
			input: UpdateClubInput{Name: ptr("Chess"), Description: ptr("Monthly games")},
			check: func(t *testing.T, club *model.Club) {
				assert.Equal(t, "Monthly games", club.Description)
				require.NotNil(t, club.Image)
				assert.Equal(t, "https://cdn/x.png", *club.Image)
			},
		},
		{
			name:  "empty strings clear optional links",
			input: UpdateClubInput{Image: ptr(""), FacebookURL: ptr("")},
			check: func(t *testing.T, club *model.Club) {
				assert.Nil(t, club.Image)
				assert.Nil(t, club.FacebookURL)
				assert.Equal(t, "Chess", club.Name)
			},
		},
		{
			name:  "new image replaces the old one",
			input: UpdateClubInput{Image: ptr("https://cdn/y.png")},
			check: func(t *testing.T, club *model.Club) {
				require.NotNil(t, club.Image)
				assert.Equal(t, "https://cdn/y.png", *club.Image)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockClubRepository)
			svc := NewClubService(repo, nil, nil)
			repo.On("FindByID", mock.Anything, uint(1)).Return(stored(), nil)
			repo.On("Update", mock.Anything, mock.Anything).Return(nil)

			club, err := svc.UpdateClub(context.Background(), 1, tt.input)
			require.NoError(t, err)
			tt.check(t, club)
		})
	}
}

func TestClubService_UpdateClub_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		input UpdateClubInput
	}{
		{"empty name", UpdateClubInput{Name: ptr("")}},
		{"empty description", UpdateClubInput{Description: ptr("")}},
		{"bad facebook url", UpdateClubInput{FacebookURL: ptr("not a url")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockClubRepository)
			svc := NewClubService(repo, nil, nil)

			_, err := svc.UpdateClub(context.Background(), 1, tt.input)
			assert.ErrorIs(t, err, apperrors.ErrValidation)
			repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
		})
	}

	repo := new(MockClubRepository)
	svc := NewClubService(repo, nil, nil)
	repo.On("FindByID", mock.Anything, uint(9)).Return(nil, gorm.ErrRecordNotFound)
	_, err := svc.UpdateClub(context.Background(), 9, UpdateClubInput{Name: ptr("X")})
	assert.ErrorIs(t, err, apperrors.ErrClubNotFound)
}

func TestClubService_DeleteClub(t *testing.T) {
	repo := new(MockClubRepository)
	c, mr := newTestCache(t)
	svc := NewClubService(repo, c, nil)
	require.NoError(t, mr.Set("club:1", `{"id":1}`))

	repo.On("Delete", mock.Anything, uint(1)).Return(nil)
	repo.On("Delete", mock.Anything, uint(2)).Return(gorm.ErrRecordNotFound)

	require.NoError(t, svc.DeleteClub(context.Background(), 1))
	assert.False(t, mr.Exists("club:1"))
	assert.ErrorIs(t, svc.DeleteClub(context.Background(), 2), apperrors.ErrClubNotFound)
}

func TestClubService_ListClubs(t *testing.T) {
	repo := new(MockClubRepository)
	svc := NewClubService(repo, nil, nil)
	page := repository.NewPage(1, 10)
	rows := []model.ClubWithCounts{{Club: model.Club{ID: 1}, EventCount: 2, MemberCount: 3}}
	repo.On("List", mock.Anything, page, "ch").Return(rows, int64(1), nil)

	list, err := svc.ListClubs(context.Background(), page, "ch")
	require.NoError(t, err)
	assert.Equal(t, int64(1), list.Total)
	assert.Equal(t, int64(3), list.Clubs[0].MemberCount)
}
