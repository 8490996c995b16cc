package repository

import (
	"context"

	"carefund/internal/domain"
)

// EventRepository defines the persistence operations for events.
type EventRepository interface {
	// Create persists a new event.
	Create(ctx context.Context, event *domain.Event) error

	// GetByID retrieves an event by ID.
	GetByID(ctx context.Context, id string) (*domain.Event, error)

	// GetAll retrieves all events, soonest first.
	GetAll(ctx context.Context) ([]*domain.Event, error)
}
