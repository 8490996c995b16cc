package redis

import (
	"context"
	"time"

	"carefund/internal/domain"
)

// LockStoreInterface defines the interface for distributed locking.
type LockStoreInterface interface {
	AcquireDonationLock(ctx context.Context, donationID string, ttl time.Duration) (bool, error)
	ReleaseDonationLock(ctx context.Context, donationID string) error
}

// CampaignCacheInterface defines the interface for campaign caching.
type CampaignCacheInterface interface {
	GetCampaign(ctx context.Context, campaignID string) (*domain.Campaign, error)
	SetCampaign(ctx context.Context, campaign *domain.Campaign) error
	InvalidateCampaign(ctx context.Context, campaignID string) error
	GetCampaignList(ctx context.Context) ([]*domain.Campaign, error)
	SetCampaignList(ctx context.Context, campaigns []*domain.Campaign) error
	InvalidateCampaignList(ctx context.Context) error
}

// Ensure concrete types implement interfaces.
var (
	_ LockStoreInterface     = (*LockStore)(nil)
	_ CampaignCacheInterface = (*CampaignCache)(nil)
)
