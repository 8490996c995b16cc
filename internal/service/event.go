package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"carefund/internal/domain"
	"carefund/internal/repository"
)

// EventService handles fundraising event operations.
type EventService struct {
	eventRepo repository.EventRepository
}

// NewEventService creates a new EventService.
func NewEventService(eventRepo repository.EventRepository) *EventService {
	return &EventService{eventRepo: eventRepo}
}

// CreateEventRequest contains the parameters for a new event.
type CreateEventRequest struct {
	Title       string
	Description string
	Location    string
	StartsAt    time.Time
	CreatedBy   string
}

// Create validates and persists a new event.
func (s *EventService) Create(ctx context.Context, req CreateEventRequest) (*domain.Event, error) {
	if req.Title == "" {
		return nil, ErrMissingTitle
	}

	event := &domain.Event{
		ID:          uuid.New().String(),
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		StartsAt:    req.StartsAt,
		CreatedBy:   req.CreatedBy,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, err
	}

	return event, nil
}

// Get retrieves an event by ID.
func (s *EventService) Get(ctx context.Context, id string) (*domain.Event, error) {
	if id == "" {
		return nil, ErrInvalidEventID
	}
	return s.eventRepo.GetByID(ctx, id)
}

// List retrieves all events.
func (s *EventService) List(ctx context.Context) ([]*domain.Event, error) {
	return s.eventRepo.GetAll(ctx)
}
