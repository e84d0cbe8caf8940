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

// AddMemberInput is the enrolment payload.
type AddMemberInput struct {
	UserID uint   `json:"user_id" validate:"required,gt=0"`
	Role   string `json:"role" validate:"omitempty,max=50"`
}

// MemberService manages club memberships.
type MemberService interface {
	ListMembers(ctx context.Context, clubID uint) ([]model.Member, error)
	AddMember(ctx context.Context, actor *auth.Identity, clubID uint, in AddMemberInput) (*model.Member, error)
	RemoveMember(ctx context.Context, actor *auth.Identity, clubID, userID uint) error
}

type memberService struct {
	repo     repository.MemberRepository
	clubs    repository.ClubRepository
	users    repository.UserRepository
	validate *validator.Validate
	log      *zap.Logger
}

// NewMemberService builds a MemberService.
func NewMemberService(repo repository.MemberRepository, clubs repository.ClubRepository, users repository.UserRepository, log *zap.Logger) MemberService {
	if log == nil {
		log = zap.NewNop()
	}
	return &memberService{repo: repo, clubs: clubs, users: users, validate: validation.New(), log: log}
}

func (s *memberService) ListMembers(ctx context.Context, clubID uint) ([]model.Member, error) {
	if err := requireClub(ctx, s.clubs, clubID); err != nil {
		return nil, err
	}
	members, err := s.repo.ListByClub(ctx, clubID)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	if members == nil {
		members = []model.Member{}
	}
	return members, nil
}

// AddMember enrols a user. Users may only enrol themselves with the default
// role; admins may enrol anyone with any role.
func (s *memberService) AddMember(ctx context.Context, actor *auth.Identity, clubID uint, in AddMemberInput) (*model.Member, error) {
	if err := validation.Struct(s.validate, in); err != nil {
		return nil, err
	}
	if err := mayActFor(actor, in.UserID); err != nil {
		return nil, err
	}
	if actor.Role != model.RoleAdmin || in.Role == "" {
		in.Role = model.DefaultMemberRole
	}

	if err := requireClub(ctx, s.clubs, clubID); err != nil {
		return nil, err
	}
	if _, err := s.users.FindByID(ctx, in.UserID); err != nil {
		return nil, notFound(err, apperrors.ErrNotFound)
	}

	exists, err := s.repo.Exists(ctx, clubID, in.UserID)
	if err != nil {
		return nil, fmt.Errorf("check membership: %w", err)
	}
	if exists {
		return nil, apperrors.ErrMemberExists
	}

	member := &model.Member{ClubID: clubID, UserID: in.UserID, Role: in.Role}
	if err := s.repo.Create(ctx, member); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrMemberExists
		}
		return nil, fmt.Errorf("create membership: %w", err)
	}

	s.log.Info("member added",
		zap.Uint("club_id", clubID),
		zap.Uint("user_id", in.UserID),
		zap.Uint("actor_id", actor.UserID),
	)
	return member, nil
}

// RemoveMember is idempotent: removing a non-member succeeds.
func (s *memberService) RemoveMember(ctx context.Context, actor *auth.Identity, clubID, userID uint) error {
	if err := mayActFor(actor, userID); err != nil {
		return err
	}
	if err := requireClub(ctx, s.clubs, clubID); err != nil {
		return err
	}

	removed, err := s.repo.Delete(ctx, clubID, userID)
	if err != nil {
		return fmt.Errorf("delete membership: %w", err)
	}
	if removed {
		s.log.Info("member removed", zap.Uint("club_id", clubID), zap.Uint("user_id", userID))
	}
	return nil
}

func mayActFor(actor *auth.Identity, userID uint) error {
	if actor == nil {
		return apperrors.ErrUnauthenticated
	}
	if actor.Role != model.RoleAdmin && actor.UserID != userID {
		return apperrors.ErrForbidden
	}
	return nil
}
