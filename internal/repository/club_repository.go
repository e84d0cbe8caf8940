package repository

import (
	"context"

	"gorm.io/gorm"

	"clubhub/internal/model"
)

// ClubRepository defines club persistence operations.
type ClubRepository interface {
	Create(ctx context.Context, club *model.Club) error
	Update(ctx context.Context, club *model.Club) error
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (*model.Club, error)
	Exists(ctx context.Context, id uint) (bool, error)
	List(ctx context.Context, page Page, search string) ([]model.ClubWithCounts, int64, error)
}

type clubRepository struct {
	db *gorm.DB
}

// NewClubRepository creates a new club repository.
func NewClubRepository(db *gorm.DB) ClubRepository {
	return &clubRepository{db: db}
}

// Create creates a new club.
func (r *clubRepository) Create(ctx context.Context, club *model.Club) error {
	return r.db.WithContext(ctx).Create(club).Error
}

// Update saves all fields of an existing club.
func (r *clubRepository) Update(ctx context.Context, club *model.Club) error {
	return r.db.WithContext(ctx).Save(club).Error
}

// Delete removes a club; events and memberships cascade.
func (r *clubRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&model.Club{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// FindByID finds a club by ID.
func (r *clubRepository) FindByID(ctx context.Context, id uint) (*model.Club, error) {
	var club model.Club
	if err := r.db.WithContext(ctx).First(&club, id).Error; err != nil {
		return nil, err
	}
	return &club, nil
}

// Exists reports whether a club with id exists.
func (r *clubRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Club{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// List returns a page of clubs, newest first, with event and member counts.
func (r *clubRepository) List(ctx context.Context, page Page, search string) ([]model.ClubWithCounts, int64, error) {
	scope := func() *gorm.DB {
		q := r.db.WithContext(ctx).Model(&model.Club{})
		if search != "" {
			q = q.Where("clubs.name LIKE ?", likePattern(search))
		}
		return q
	}

	var total int64
	if err := scope().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	clubs := make([]model.ClubWithCounts, 0, page.Limit)
	err := scope().
		Select("clubs.*, " +
			"(SELECT COUNT(*) FROM events WHERE events.club_id = clubs.id) AS event_count, " +
			"(SELECT COUNT(*) FROM members WHERE members.club_id = clubs.id) AS member_count").
		Order("clubs.created_at DESC").
		Offset(page.Offset()).
		Limit(page.Limit).
		Scan(&clubs).Error
	if err != nil {
		return nil, 0, err
	}
	return clubs, total, nil
}
