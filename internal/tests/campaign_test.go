package tests

import (
	"context"
	"errors"
	"testing"

	"carefund/internal/domain"
	"carefund/internal/repository"
	"carefund/internal/service"
)

// ──────────────────────────────────────────────
// 4. CAMPAIGN SERVICE EDGE CASES
// ──────────────────────────────────────────────

func TestCampaignCreate_Validation(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		req     service.CreateCampaignRequest
		wantErr error
	}{
		{
			name:    "missing title",
			req:     service.CreateCampaignRequest{GoalAmount: 100_000},
			wantErr: service.ErrMissingTitle,
		},
		{
			name:    "zero goal",
			req:     service.CreateCampaignRequest{Title: "Dialysis fund"},
			wantErr: service.ErrInvalidGoalAmount,
		},
		{
			name:    "negative goal",
			req:     service.CreateCampaignRequest{Title: "Dialysis fund", GoalAmount: -1},
			wantErr: service.ErrInvalidGoalAmount,
		},
		{
			name: "valid",
			req:  service.CreateCampaignRequest{Title: "Dialysis fund", GoalAmount: 100_000},
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			campaignRepo := NewMockCampaignRepository()
			svc := service.NewCampaignService(campaignRepo, nil)

			campaign, err := svc.Create(context.Background(), tc.req)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("expected %v, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if campaign.ID == "" {
				t.Error("expected generated campaign id")
			}
			if campaign.RaisedAmount != 0 {
				t.Errorf("expected zero raised amount on creation, got %d", campaign.RaisedAmount)
			}
		})
	}
}

func TestCampaignUpdate_DoesNotTouchRaisedAmount(t *testing.T) {
	t.Parallel()

	campaignRepo := NewMockCampaignRepository()
	campaignRepo.AddCampaign(&domain.Campaign{
		ID:           "campaign-1",
		Title:        "Surgery fund",
		GoalAmount:   1_000_000,
		RaisedAmount: 25_000,
	})
	svc := service.NewCampaignService(campaignRepo, nil)

	updated, err := svc.Update(context.Background(), service.UpdateCampaignRequest{
		ID:         "campaign-1",
		Title:      "Surgery fund (extended)",
		GoalAmount: 2_000_000,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Title != "Surgery fund (extended)" {
		t.Errorf("expected updated title, got %s", updated.Title)
	}
	if updated.RaisedAmount != 25_000 {
		t.Errorf("expected raised amount preserved at 25000, got %d", updated.RaisedAmount)
	}
}

func TestCampaignUpdate_NotFound(t *testing.T) {
	t.Parallel()

	svc := service.NewCampaignService(NewMockCampaignRepository(), nil)

	_, err := svc.Update(context.Background(), service.UpdateCampaignRequest{
		ID:         "campaign-missing",
		Title:      "Surgery fund",
		GoalAmount: 1_000_000,
	})
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCampaignDelete_ThenGet_NotFound(t *testing.T) {
	t.Parallel()

	campaignRepo := NewMockCampaignRepository()
	campaignRepo.AddCampaign(&domain.Campaign{ID: "campaign-1", Title: "Surgery fund", GoalAmount: 1_000_000})
	svc := service.NewCampaignService(campaignRepo, nil)

	if err := svc.Delete(context.Background(), "campaign-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.Get(context.Background(), "campaign-1"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}
