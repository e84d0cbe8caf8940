package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"clubhub/internal/model"
)

// EventFilter narrows event listings. Zero values are ignored.
type EventFilter struct {
	Search    string
	ClubID    uint
	StartDate *time.Time
	EndDate   *time.Time
}

// EventRepository defines event persistence operations.
type EventRepository interface {
	Create(ctx context.Context, event *model.Event) error
	Update(ctx context.Context, event *model.Event) error
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (*model.Event, error)
	List(ctx context.Context, page Page, filter EventFilter) ([]model.EventWithClub, int64, error)
	ListUpcoming(ctx context.Context, from time.Time, limit int) ([]model.Event, error)
	ListByClub(ctx context.Context, clubID uint) ([]model.Event, error)
}

type eventRepository struct {
	db *gorm.DB
}

// NewEventRepository creates a new event repository.
func NewEventRepository(db *gorm.DB) EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) Create(ctx context.Context, event *model.Event) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *eventRepository) Update(ctx context.Context, event *model.Event) error {
	return r.db.WithContext(ctx).Save(event).Error
}

func (r *eventRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&model.Event{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *eventRepository) FindByID(ctx context.Context, id uint) (*model.Event, error) {
	var event model.Event
	if err := r.db.WithContext(ctx).First(&event, id).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

// List returns a page of events ordered by start date with the club name joined in.
func (r *eventRepository) List(ctx context.Context, page Page, filter EventFilter) ([]model.EventWithClub, int64, error) {
	scope := func() *gorm.DB {
		q := r.db.WithContext(ctx).Model(&model.Event{})
		if filter.Search != "" {
			q = q.Where("events.title LIKE ?", likePattern(filter.Search))
		}
		if filter.ClubID != 0 {
			q = q.Where("events.club_id = ?", filter.ClubID)
		}
		if filter.StartDate != nil {
			q = q.Where("events.start_date >= ?", *filter.StartDate)
		}
		if filter.EndDate != nil {
			q = q.Where("events.end_date <= ?", *filter.EndDate)
		}
		return q
	}

	var total int64
	if err := scope().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	events := make([]model.EventWithClub, 0, page.Limit)
	err := scope().
		Select("events.*, COALESCE(clubs.name, '') AS club_name").
		Joins("LEFT JOIN clubs ON clubs.id = events.club_id").
		Order("events.start_date ASC").
		Offset(page.Offset()).
		Limit(page.Limit).
		Scan(&events).Error
	if err != nil {
		return nil, 0, err
	}
	return events, total, nil
}

// ListUpcoming returns events starting at or after from, soonest first.
func (r *eventRepository) ListUpcoming(ctx context.Context, from time.Time, limit int) ([]model.Event, error) {
	var events []model.Event
	err := r.db.WithContext(ctx).
		Where("start_date >= ?", from).
		Order("start_date ASC").
		Limit(limit).
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}

// ListByClub returns a club's events, latest first.
func (r *eventRepository) ListByClub(ctx context.Context, clubID uint) ([]model.Event, error) {
	var events []model.Event
	if err := r.db.WithContext(ctx).Where("club_id = ?", clubID).Order("start_date DESC").Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}
