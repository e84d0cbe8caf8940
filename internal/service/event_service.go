package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"clubhub/internal/cache"
	apperrors "clubhub/internal/errors"
	"clubhub/internal/model"
	"clubhub/internal/repository"
	"clubhub/internal/validation"
)

const DefaultUpcomingLimit = 5

// EventInput is the create payload for events.
type EventInput struct {
	Title       string    `json:"title" validate:"required,max=255"`
	Description string    `json:"description" validate:"required"`
	ClubID      uint      `json:"club_id" validate:"required,gt=0"`
	StartDate   time.Time `json:"start_date" validate:"required"`
	EndDate     time.Time `json:"end_date" validate:"required,gtefield=StartDate"`
	Location    string    `json:"location" validate:"max=255"`
	Image       *string   `json:"image" validate:"omitnil,max=512"`
}

// UpdateEventInput is a partial event update. Omitted fields keep their stored
// value; an empty image clears it. The merged dates must still satisfy
// end >= start.
type UpdateEventInput struct {
	Title       *string    `json:"title" validate:"omitnil,min=1,max=255"`
	Description *string    `json:"description" validate:"omitnil,min=1"`
	ClubID      *uint      `json:"club_id" validate:"omitnil,gt=0"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	Location    *string    `json:"location" validate:"omitnil,max=255"`
	Image       *string    `json:"image" validate:"omitnil,max=512"`
}

// EventList is one page of events.
type EventList struct {
	Events []model.EventWithClub `json:"events"`
	Total  int64                 `json:"total"`
}

// EventService manages events.
type EventService interface {
	ListEvents(ctx context.Context, page repository.Page, filter repository.EventFilter) (*EventList, error)
	UpcomingEvents(ctx context.Context, limit int) ([]model.Event, error)
	ClubEvents(ctx context.Context, clubID uint) ([]model.Event, error)
	GetEvent(ctx context.Context, id uint) (*model.Event, error)
	CreateEvent(ctx context.Context, in EventInput) (*model.Event, error)
	UpdateEvent(ctx context.Context, id uint, in UpdateEventInput) (*model.Event, error)
	DeleteEvent(ctx context.Context, id uint) error
}

type eventService struct {
	repo     repository.EventRepository
	clubs    repository.ClubRepository
	cache    *cache.Client
	validate *validator.Validate
	now      func() time.Time
	log      *zap.Logger
}

// NewEventService builds an EventService.
func NewEventService(repo repository.EventRepository, clubs repository.ClubRepository, cache *cache.Client, log *zap.Logger) EventService {
	if log == nil {
		log = zap.NewNop()
	}
	return &eventService{
		repo:     repo,
		clubs:    clubs,
		cache:    cache,
		validate: validation.New(),
		now:      time.Now,
		log:      log,
	}
}

func eventCacheKey(id uint) string {
	return fmt.Sprintf("event:%d", id)
}

func (s *eventService) ListEvents(ctx context.Context, page repository.Page, filter repository.EventFilter) (*EventList, error) {
	if filter.StartDate != nil && filter.EndDate != nil && filter.EndDate.Before(*filter.StartDate) {
		return nil, apperrors.NewValidationError("end_date must not be before start_date")
	}
	events, total, err := s.repo.List(ctx, page, filter)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	if events == nil {
		events = []model.EventWithClub{}
	}
	return &EventList{Events: events, Total: total}, nil
}

// UpcomingEvents returns events that have not started yet, soonest first.
func (s *eventService) UpcomingEvents(ctx context.Context, limit int) ([]model.Event, error) {
	if limit < 1 {
		limit = DefaultUpcomingLimit
	}
	if limit > repository.MaxLimit {
		limit = repository.MaxLimit
	}
	events, err := s.repo.ListUpcoming(ctx, s.now(), limit)
	if err != nil {
		return nil, fmt.Errorf("list upcoming events: %w", err)
	}
	if events == nil {
		events = []model.Event{}
	}
	return events, nil
}

func (s *eventService) ClubEvents(ctx context.Context, clubID uint) ([]model.Event, error) {
	if err := requireClub(ctx, s.clubs, clubID); err != nil {
		return nil, err
	}
	events, err := s.repo.ListByClub(ctx, clubID)
	if err != nil {
		return nil, fmt.Errorf("list club events: %w", err)
	}
	if events == nil {
		events = []model.Event{}
	}
	return events, nil
}

func (s *eventService) GetEvent(ctx context.Context, id uint) (*model.Event, error) {
	return readThrough(ctx, s.cache, eventCacheKey(id), func() (*model.Event, error) {
		event, err := s.repo.FindByID(ctx, id)
		if err != nil {
			return nil, notFound(err, apperrors.ErrEventNotFound)
		}
		return event, nil
	})
}

func (s *eventService) CreateEvent(ctx context.Context, in EventInput) (*model.Event, error) {
	if err := s.check(ctx, &in); err != nil {
		return nil, err
	}

	event := &model.Event{}
	in.apply(event)
	if err := s.repo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	s.log.Info("event created", zap.Uint("event_id", event.ID), zap.Uint("club_id", event.ClubID))
	return event, nil
}

func (s *eventService) UpdateEvent(ctx context.Context, id uint, in UpdateEventInput) (*model.Event, error) {
	checked := in
	checked.Image = blankToNil(in.Image)
	if err := validation.Struct(s.validate, checked); err != nil {
		return nil, err
	}

	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, apperrors.ErrEventNotFound)
	}
	in.merge(event)
	if event.EndDate.Before(event.StartDate) {
		return nil, apperrors.NewValidationError("end_date must not be before start_date")
	}
	if in.ClubID != nil {
		if err := requireClub(ctx, s.clubs, event.ClubID); err != nil {
			return nil, err
		}
	}
	if err := s.repo.Update(ctx, event); err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}

	_ = s.cache.Delete(ctx, eventCacheKey(id))
	return event, nil
}

func (s *eventService) DeleteEvent(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return notFound(err, apperrors.ErrEventNotFound)
	}
	_ = s.cache.Delete(ctx, eventCacheKey(id))
	s.log.Info("event deleted", zap.Uint("event_id", id))
	return nil
}

func (s *eventService) check(ctx context.Context, in *EventInput) error {
	in.Image = blankToNil(in.Image)
	if err := validation.Struct(s.validate, in); err != nil {
		return err
	}
	return requireClub(ctx, s.clubs, in.ClubID)
}

func (in EventInput) apply(e *model.Event) {
	e.Title = in.Title
	e.Description = in.Description
	e.ClubID = in.ClubID
	e.StartDate = in.StartDate
	e.EndDate = in.EndDate
	e.Location = in.Location
	e.Image = in.Image
}

func (in UpdateEventInput) merge(e *model.Event) {
	if in.Title != nil {
		e.Title = *in.Title
	}
	if in.Description != nil {
		e.Description = *in.Description
	}
	if in.ClubID != nil {
		e.ClubID = *in.ClubID
	}
	if in.StartDate != nil {
		e.StartDate = *in.StartDate
	}
	if in.EndDate != nil {
		e.EndDate = *in.EndDate
	}
	if in.Location != nil {
		e.Location = *in.Location
	}
	patchOptional(&e.Image, in.Image)
}
