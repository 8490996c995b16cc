package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"carefund/internal/domain"
)

// CampaignCache caches campaign reads in Redis. Entries are short-lived
// and are invalidated eagerly whenever a campaign mutates or a donation
// credit lands on it.
type CampaignCache struct {
	client *redis.Client
}

// NewCampaignCache creates a new CampaignCache.
func NewCampaignCache(client *redis.Client) *CampaignCache {
	return &CampaignCache{client: client}
}

// CampaignCacheTTL bounds staleness of cached campaign reads.
const CampaignCacheTTL = 30 * time.Second

const (
	campaignCachePrefix  = "cache:campaign:"
	campaignListCacheKey = "cache:campaigns"
)

// GetCampaign retrieves a campaign from cache. A nil campaign with a nil
// error is a cache miss.
func (s *CampaignCache) GetCampaign(ctx context.Context, campaignID string) (*domain.Campaign, error) {
	data, err := s.client.Get(ctx, campaignCachePrefix+campaignID).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var campaign domain.Campaign
	if err := json.Unmarshal(data, &campaign); err != nil {
		return nil, err
	}
	return &campaign, nil
}

// SetCampaign stores a campaign in cache.
func (s *CampaignCache) SetCampaign(ctx context.Context, campaign *domain.Campaign) error {
	data, err := json.Marshal(campaign)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, campaignCachePrefix+campaign.ID, data, CampaignCacheTTL).Err()
}

// InvalidateCampaign removes a campaign from cache.
func (s *CampaignCache) InvalidateCampaign(ctx context.Context, campaignID string) error {
	return s.client.Del(ctx, campaignCachePrefix+campaignID).Err()
}

// GetCampaignList retrieves the cached campaign listing. A nil slice with
// a nil error is a cache miss.
func (s *CampaignCache) GetCampaignList(ctx context.Context) ([]*domain.Campaign, error) {
	data, err := s.client.Get(ctx, campaignListCacheKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var campaigns []*domain.Campaign
	if err := json.Unmarshal(data, &campaigns); err != nil {
		return nil, err
	}
	return campaigns, nil
}

// SetCampaignList stores the campaign listing in cache.
func (s *CampaignCache) SetCampaignList(ctx context.Context, campaigns []*domain.Campaign) error {
	data, err := json.Marshal(campaigns)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, campaignListCacheKey, data, CampaignCacheTTL).Err()
}

// InvalidateCampaignList removes the campaign listing from cache.
func (s *CampaignCache) InvalidateCampaignList(ctx context.Context) error {
	return s.client.Del(ctx, campaignListCacheKey).Err()
}
