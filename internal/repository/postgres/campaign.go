package postgres

import (
	"context"
	"database/sql"
	"errors"

	"carefund/internal/domain"
	"carefund/internal/repository"
)

// CampaignRepository is a PostgreSQL implementation of repository.CampaignRepository.
type CampaignRepository struct {
	q Querier
}

// NewCampaignRepository creates a new PostgreSQL campaign repository.
func NewCampaignRepository(db *sql.DB) *CampaignRepository {
	return &CampaignRepository{q: db}
}

// Create persists a new campaign.
func (r *CampaignRepository) Create(ctx context.Context, campaign *domain.Campaign) error {
	query := `
		INSERT INTO campaigns (id, title, description, goal_amount, raised_amount, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.q.ExecContext(ctx, query,
		campaign.ID,
		campaign.Title,
		campaign.Description,
		campaign.GoalAmount,
		campaign.RaisedAmount,
		campaign.CreatedBy,
		campaign.CreatedAt,
	)

	return err
}

// GetByID retrieves a campaign by ID.
func (r *CampaignRepository) GetByID(ctx context.Context, id string) (*domain.Campaign, error) {
	query := `
		SELECT id, title, description, goal_amount, raised_amount, created_by, created_at
		FROM campaigns WHERE id = $1
	`

	var campaign domain.Campaign
	err := r.q.QueryRowContext(ctx, query, id).Scan(
		&campaign.ID,
		&campaign.Title,
		&campaign.Description,
		&campaign.GoalAmount,
		&campaign.RaisedAmount,
		&campaign.CreatedBy,
		&campaign.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return &campaign, nil
}

// GetAll retrieves all campaigns, newest first.
func (r *CampaignRepository) GetAll(ctx context.Context) ([]*domain.Campaign, error) {
	query := `
		SELECT id, title, description, goal_amount, raised_amount, created_by, created_at
		FROM campaigns ORDER BY created_at DESC
	`

	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var campaigns []*domain.Campaign
	for rows.Next() {
		var campaign domain.Campaign
		err := rows.Scan(
			&campaign.ID,
			&campaign.Title,
			&campaign.Description,
			&campaign.GoalAmount,
			&campaign.RaisedAmount,
			&campaign.CreatedBy,
			&campaign.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		campaigns = append(campaigns, &campaign)
	}

	return campaigns, rows.Err()
}

// Update replaces the mutable fields of a campaign.
func (r *CampaignRepository) Update(ctx context.Context, campaign *domain.Campaign) error {
	query := `
		UPDATE campaigns SET title = $1, description = $2, goal_amount = $3
		WHERE id = $4
	`

	result, err := r.q.ExecContext(ctx, query,
		campaign.Title,
		campaign.Description,
		campaign.GoalAmount,
		campaign.ID,
	)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// Delete removes a campaign.
func (r *CampaignRepository) Delete(ctx context.Context, id string) error {
	result, err := r.q.ExecContext(ctx, `DELETE FROM campaigns WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return repository.ErrNotFound
	}

	return nil
}
