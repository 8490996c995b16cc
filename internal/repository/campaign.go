package repository

import (
	"context"

	"carefund/internal/domain"
)

// CampaignRepository defines the persistence operations for campaigns.
type CampaignRepository interface {
	// Create persists a new campaign.
	Create(ctx context.Context, campaign *domain.Campaign) error

	// GetByID retrieves a campaign by ID.
	GetByID(ctx context.Context, id string) (*domain.Campaign, error)

	// GetAll retrieves all campaigns, newest first.
	GetAll(ctx context.Context) ([]*domain.Campaign, error)

	// Update replaces the mutable fields of a campaign (title,
	// description, goal amount). RaisedAmount is never written through
	// this method; only the donation success credit touches it.
	Update(ctx context.Context, campaign *domain.Campaign) error

	// Delete removes a campaign.
	Delete(ctx context.Context, id string) error
}
