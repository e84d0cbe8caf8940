package service

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"clubhub/internal/cache"
	apperrors "clubhub/internal/errors"
	"clubhub/internal/model"
	"clubhub/internal/repository"
	"clubhub/internal/validation"
)

// ClubInput is the create payload for clubs.
type ClubInput struct {
	Name        string  `json:"name" validate:"required,max=255"`
	Description string  `json:"description" validate:"required"`
	Image       *string `json:"image" validate:"omitnil,max=512"`
	FacebookURL *string `json:"facebook_url" validate:"omitnil,url,max=512"`
}

// UpdateClubInput is a partial club update. Omitted fields keep their stored
// value; an empty image or facebook_url clears it.
type UpdateClubInput struct {
	Name        *string `json:"name" validate:"omitnil,min=1,max=255"`
	Description *string `json:"description" validate:"omitnil,min=1"`
	Image       *string `json:"image" validate:"omitnil,max=512"`
	FacebookURL *string `json:"facebook_url" validate:"omitnil,url,max=512"`
}

// ClubList is one page of clubs.
type ClubList struct {
	Clubs []model.ClubWithCounts `json:"clubs"`
	Total int64                  `json:"total"`
}

// ClubService manages clubs.
type ClubService interface {
	ListClubs(ctx context.Context, page repository.Page, search string) (*ClubList, error)
	GetClub(ctx context.Context, id uint) (*model.Club, error)
	CreateClub(ctx context.Context, in ClubInput) (*model.Club, error)
	UpdateClub(ctx context.Context, id uint, in UpdateClubInput) (*model.Club, error)
	DeleteClub(ctx context.Context, id uint) error
}

type clubService struct {
	repo     repository.ClubRepository
	cache    *cache.Client
	validate *validator.Validate
	log      *zap.Logger
}

// NewClubService builds a ClubService with repository and cache.
func NewClubService(repo repository.ClubRepository, cache *cache.Client, log *zap.Logger) ClubService {
	if log == nil {
		log = zap.NewNop()
	}
	return &clubService{repo: repo, cache: cache, validate: validation.New(), log: log}
}

func clubCacheKey(id uint) string {
	return fmt.Sprintf("club:%d", id)
}

func (s *clubService) ListClubs(ctx context.Context, page repository.Page, search string) (*ClubList, error) {
	clubs, total, err := s.repo.List(ctx, page, search)
	if err != nil {
		return nil, fmt.Errorf("list clubs: %w", err)
	}
	if clubs == nil {
		clubs = []model.ClubWithCounts{}
	}
	return &ClubList{Clubs: clubs, Total: total}, nil
}

func (s *clubService) GetClub(ctx context.Context, id uint) (*model.Club, error) {
	return readThrough(ctx, s.cache, clubCacheKey(id), func() (*model.Club, error) {
		club, err := s.repo.FindByID(ctx, id)
		if err != nil {
			return nil, notFound(err, apperrors.ErrClubNotFound)
		}
		return club, nil
	})
}

func (s *clubService) CreateClub(ctx context.Context, in ClubInput) (*model.Club, error) {
	in.Image, in.FacebookURL = blankToNil(in.Image), blankToNil(in.FacebookURL)
	if err := validation.Struct(s.validate, in); err != nil {
		return nil, err
	}

	club := &model.Club{
		Name:        in.Name,
		Description: in.Description,
		Image:       in.Image,
		FacebookURL: in.FacebookURL,
	}
	if err := s.repo.Create(ctx, club); err != nil {
		return nil, fmt.Errorf("create club: %w", err)
	}
	s.log.Info("club created", zap.Uint("club_id", club.ID))
	return club, nil
}

func (s *clubService) UpdateClub(ctx context.Context, id uint, in UpdateClubInput) (*model.Club, error) {
	checked := in
	checked.Image, checked.FacebookURL = blankToNil(in.Image), blankToNil(in.FacebookURL)
	if err := validation.Struct(s.validate, checked); err != nil {
		return nil, err
	}

	club, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, apperrors.ErrClubNotFound)
	}

	if in.Name != nil {
		club.Name = *in.Name
	}
	if in.Description != nil {
		club.Description = *in.Description
	}
	patchOptional(&club.Image, in.Image)
	patchOptional(&club.FacebookURL, in.FacebookURL)
	if err := s.repo.Update(ctx, club); err != nil {
		return nil, fmt.Errorf("update club: %w", err)
	}

	_ = s.cache.Delete(ctx, clubCacheKey(id))
	return club, nil
}

func (s *clubService) DeleteClub(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return notFound(err, apperrors.ErrClubNotFound)
	}
	_ = s.cache.Delete(ctx, clubCacheKey(id))
	s.log.Info("club deleted", zap.Uint("club_id", id))
	return nil
}

// requireClub returns ErrClubNotFound unless the club exists.
func requireClub(ctx context.Context, repo repository.ClubRepository, id uint) error {
	ok, err := repo.Exists(ctx, id)
	if err != nil {
		return fmt.Errorf("check club: %w", err)
	}
	if !ok {
		return apperrors.ErrClubNotFound
	}
	return nil
}
