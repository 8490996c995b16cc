package postgres

import (
	"context"
	"database/sql"
	"errors"

	"carefund/internal/domain"
	"carefund/internal/repository"
)

// EventRepository is a PostgreSQL implementation of repository.EventRepository.
type EventRepository struct {
	q Querier
}

// NewEventRepository creates a new PostgreSQL event repository.
func NewEventRepository(db *sql.DB) *EventRepository {
	return &EventRepository{q: db}
}

// Create persists a new event.
func (r *EventRepository) Create(ctx context.Context, event *domain.Event) error {
	query := `
		INSERT INTO events (id, title, description, location, starts_at, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.q.ExecContext(ctx, query,
		event.ID,
		event.Title,
		event.Description,
		event.Location,
		event.StartsAt,
		event.CreatedBy,
		event.CreatedAt,
	)

	return err
}

// GetByID retrieves an event by ID.
func (r *EventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := `
		SELECT id, title, description, location, starts_at, created_by, created_at
		FROM events WHERE id = $1
	`

	var event domain.Event
	err := r.q.QueryRowContext(ctx, query, id).Scan(
		&event.ID,
		&event.Title,
		&event.Description,
		&event.Location,
		&event.StartsAt,
		&event.CreatedBy,
		&event.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return &event, nil
}

// GetAll retrieves all events, soonest first.
func (r *EventRepository) GetAll(ctx context.Context) ([]*domain.Event, error) {
	query := `
		SELECT id, title, description, location, starts_at, created_by, created_at
		FROM events ORDER BY starts_at ASC
	`

	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*domain.Event
	for rows.Next() {
		var event domain.Event
		err := rows.Scan(
			&event.ID,
			&event.Title,
			&event.Description,
			&event.Location,
			&event.StartsAt,
			&event.CreatedBy,
			&event.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		events = append(events, &event)
	}

	return events, rows.Err()
}
