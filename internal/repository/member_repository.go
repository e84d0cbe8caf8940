package repository

import (
	"context"

	"gorm.io/gorm"

	"clubhub/internal/model"
)

// MemberRepository defines club membership persistence operations.
type MemberRepository interface {
	Create(ctx context.Context, member *model.Member) error
	Delete(ctx context.Context, clubID, userID uint) (bool, error)
	Exists(ctx context.Context, clubID, userID uint) (bool, error)
	ListByClub(ctx context.Context, clubID uint) ([]model.Member, error)
}

type memberRepository struct {
	db *gorm.DB
}

// NewMemberRepository creates a new member repository.
func NewMemberRepository(db *gorm.DB) MemberRepository {
	return &memberRepository{db: db}
}

func (r *memberRepository) Create(ctx context.Context, member *model.Member) error {
	return r.db.WithContext(ctx).Create(member).Error
}

// Delete removes a membership and reports whether one existed.
func (r *memberRepository) Delete(ctx context.Context, clubID, userID uint) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("club_id = ? AND user_id = ?", clubID, userID).
		Delete(&model.Member{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *memberRepository) Exists(ctx context.Context, clubID, userID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Member{}).
		Where("club_id = ? AND user_id = ?", clubID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListByClub returns the club's members with a summary of each user.
func (r *memberRepository) ListByClub(ctx context.Context, clubID uint) ([]model.Member, error) {
	var members []model.Member
	if err := r.db.WithContext(ctx).Where("club_id = ?", clubID).Order("joined_at ASC").Find(&members).Error; err != nil {
		return nil, err
	}
	if len(members) == 0 {
		return members, nil
	}

	userIDs := make([]uint, 0, len(members))
	for _, m := range members {
		userIDs = append(userIDs, m.UserID)
	}

	var users []model.UserSummary
	err := r.db.WithContext(ctx).Model(&model.User{}).
		Select("id", "name", "email").
		Where("id IN ?", userIDs).
		Find(&users).Error
	if err != nil {
		return nil, err
	}

	byID := make(map[uint]model.UserSummary, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	for i := range members {
		if u, ok := byID[members[i].UserID]; ok {
			u := u
			members[i].User = &u
		}
	}
	return members, nil
}
