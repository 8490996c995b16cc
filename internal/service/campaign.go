package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"carefund/internal/domain"
	"carefund/internal/redis"
	"carefund/internal/repository"
)

// CampaignService handles campaign CRUD with read-through caching.
type CampaignService struct {
	campaignRepo repository.CampaignRepository
	cache        redis.CampaignCacheInterface
}

// NewCampaignService creates a new CampaignService. cache may be nil.
func NewCampaignService(campaignRepo repository.CampaignRepository, cache redis.CampaignCacheInterface) *CampaignService {
	return &CampaignService{campaignRepo: campaignRepo, cache: cache}
}

// CreateCampaignRequest contains the parameters for a new campaign.
type CreateCampaignRequest struct {
	Title       string
	Description string
	GoalAmount  int64
	CreatedBy   string
}

// Create validates and persists a new campaign.
func (s *CampaignService) Create(ctx context.Context, req CreateCampaignRequest) (*domain.Campaign, error) {
	if req.Title == "" {
		return nil, ErrMissingTitle
	}
	if req.GoalAmount <= 0 {
		return nil, ErrInvalidGoalAmount
	}

	campaign := &domain.Campaign{
		ID:          uuid.New().String(),
		Title:       req.Title,
		Description: req.Description,
		GoalAmount:  req.GoalAmount,
		CreatedBy:   req.CreatedBy,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.campaignRepo.Create(ctx, campaign); err != nil {
		return nil, err
	}

	if s.cache != nil {
		_ = s.cache.InvalidateCampaignList(ctx)
	}

	return campaign, nil
}

// Get retrieves a campaign, preferring the cache. Cached reads may lag a
// credit by at most the cache TTL; the credit path invalidates eagerly.
func (s *CampaignService) Get(ctx context.Context, id string) (*domain.Campaign, error) {
	if id == "" {
		return nil, ErrInvalidCampaignID
	}

	if s.cache != nil {
		if cached, err := s.cache.GetCampaign(ctx, id); err == nil && cached != nil {
			return cached, nil
		}
	}

	campaign, err := s.campaignRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		_ = s.cache.SetCampaign(ctx, campaign)
	}

	return campaign, nil
}

// List retrieves all campaigns, preferring the cache.
func (s *CampaignService) List(ctx context.Context) ([]*domain.Campaign, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetCampaignList(ctx); err == nil && cached != nil {
			return cached, nil
		}
	}

	campaigns, err := s.campaignRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		_ = s.cache.SetCampaignList(ctx, campaigns)
	}

	return campaigns, nil
}

// UpdateCampaignRequest contains the mutable fields of a campaign.
type UpdateCampaignRequest struct {
	ID          string
	Title       string
	Description string
	GoalAmount  int64
}

// Update replaces the mutable fields of a campaign. RaisedAmount is not
// writable here; only the donation success credit changes it.
func (s *CampaignService) Update(ctx context.Context, req UpdateCampaignRequest) (*domain.Campaign, error) {
	if req.ID == "" {
		return nil, ErrInvalidCampaignID
	}
	if req.Title == "" {
		return nil, ErrMissingTitle
	}
	if req.GoalAmount <= 0 {
		return nil, ErrInvalidGoalAmount
	}

	campaign := &domain.Campaign{
		ID:          req.ID,
		Title:       req.Title,
		Description: req.Description,
		GoalAmount:  req.GoalAmount,
	}

	if err := s.campaignRepo.Update(ctx, campaign); err != nil {
		return nil, err
	}

	s.invalidate(ctx, req.ID)

	return s.campaignRepo.GetByID(ctx, req.ID)
}

// Delete removes a campaign.
func (s *CampaignService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrInvalidCampaignID
	}

	if err := s.campaignRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidate(ctx, id)
	return nil
}

func (s *CampaignService) invalidate(ctx context.Context, id string) {
	if s.cache == nil {
		return
	}
	_ = s.cache.InvalidateCampaign(ctx, id)
	_ = s.cache.InvalidateCampaignList(ctx)
}
