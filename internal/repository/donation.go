package repository

import (
	"context"

	"carefund/internal/domain"
)

// DonationRepository defines the persistence operations for donations.
type DonationRepository interface {
	// Create persists a new donation.
	Create(ctx context.Context, donation *domain.Donation) error

	// GetByID retrieves a donation by ID.
	GetByID(ctx context.Context, id string) (*domain.Donation, error)

	// GetByCampaign retrieves all successful donations for a campaign,
	// newest first.
	GetByCampaign(ctx context.Context, campaignID string) ([]*domain.Donation, error)

	// SetProviderReference stores the payment provider's reference on a
	// donation once the provider has accepted the request.
	SetProviderReference(ctx context.Context, id, reference string) error

	// ApplySuccessCredit transitions a donation from pending to success
	// and, if the donation references a campaign, increments that
	// campaign's raised amount by the donation amount. Both writes happen
	// atomically. Returns false without side effects when the donation is
	// not in the pending state, which makes the credit safe to attempt
	// from concurrent callers.
	ApplySuccessCredit(ctx context.Context, id string) (bool, error)

	// MarkFailed transitions a donation from pending to failed. Returns
	// false without side effects when the donation is not pending.
	MarkFailed(ctx context.Context, id string) (bool, error)
}
