package tests

import (
	"context"
	"errors"
	"testing"

	"carefund/internal/domain"
	"carefund/internal/momo"
	"carefund/internal/repository"
	"carefund/internal/service"
)

// ──────────────────────────────────────────────
// 1. DONATION CREATION EDGE CASES
// ──────────────────────────────────────────────

func newDonationFixture(gateway *MockGateway) (*service.DonationService, *MockDonationRepository, *MockCampaignRepository) {
	campaignRepo := NewMockCampaignRepository()
	campaignRepo.AddCampaign(&domain.Campaign{
		ID:         "campaign-1",
		Title:      "Surgery fund",
		GoalAmount: 1_000_000,
	})

	donationRepo := NewMockDonationRepository()
	donationRepo.Campaigns = campaignRepo

	eventRepo := NewMockEventRepository()

	svc := service.NewDonationService(donationRepo, campaignRepo, eventRepo, gateway, nil, nil)
	return svc, donationRepo, campaignRepo
}

func TestDonationCreation_PersistsPendingWithNormalizedPhone(t *testing.T) {
	t.Parallel()

	gateway := NewMockGateway("PENDING")
	svc, donationRepo, _ := newDonationFixture(gateway)

	result, err := svc.Create(context.Background(), service.CreateDonationRequest{
		Amount:        5000,
		DonorName:     "Ngwa Claire",
		DonorPhone:    "0671234567",
		PaymentMethod: "mtn",
		CampaignID:    "campaign-1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.RequestID != result.Donation.ID {
		t.Errorf("expected request id to match donation id, got %s vs %s", result.RequestID, result.Donation.ID)
	}

	stored := donationRepo.GetDonation(result.Donation.ID)
	if stored == nil {
		t.Fatal("expected donation to be persisted")
	}
	if stored.Status != domain.DonationStatusPending {
		t.Errorf("expected status pending, got %s", stored.Status)
	}
	if stored.DonorPhone != "237671234567" {
		t.Errorf("expected normalized phone 237671234567, got %s", stored.DonorPhone)
	}
	if stored.ProviderReference != result.RequestID {
		t.Errorf("expected provider reference %s, got %s", result.RequestID, stored.ProviderReference)
	}
	if gateway.InitiateCallCount != 1 {
		t.Errorf("expected one request-to-pay, got %d", gateway.InitiateCallCount)
	}
}

func TestDonationCreation_AnonymousDefaultName(t *testing.T) {
	t.Parallel()

	gateway := NewMockGateway("PENDING")
	svc, donationRepo, _ := newDonationFixture(gateway)

	result, err := svc.Create(context.Background(), service.CreateDonationRequest{
		Amount:        500,
		DonorPhone:    "237671234567",
		PaymentMethod: "mtn",
		CampaignID:    "campaign-1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stored := donationRepo.GetDonation(result.Donation.ID)
	if stored.DonorName != "Anonymous" {
		t.Errorf("expected donor name Anonymous, got %s", stored.DonorName)
	}
}

func TestDonationCreation_ValidationRejectsBeforeGateway(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		req     service.CreateDonationRequest
		wantErr error
	}{
		{
			name: "amount below minimum",
			req: service.CreateDonationRequest{
				Amount:        499,
				DonorPhone:    "237671234567",
				PaymentMethod: "mtn",
				CampaignID:    "campaign-1",
			},
			wantErr: service.ErrAmountBelowMinimum,
		},
		{
			name: "unsupported payment method",
			req: service.CreateDonationRequest{
				Amount:        5000,
				DonorPhone:    "237671234567",
				PaymentMethod: "orange",
				CampaignID:    "campaign-1",
			},
			wantErr: service.ErrInvalidPaymentMethod,
		},
		{
			name: "missing donor phone",
			req: service.CreateDonationRequest{
				Amount:        5000,
				PaymentMethod: "mtn",
				CampaignID:    "campaign-1",
			},
			wantErr: service.ErrMissingDonorPhone,
		},
		{
			name: "unknown campaign",
			req: service.CreateDonationRequest{
				Amount:        5000,
				DonorPhone:    "237671234567",
				PaymentMethod: "mtn",
				CampaignID:    "campaign-missing",
			},
			wantErr: repository.ErrNotFound,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			gateway := NewMockGateway("PENDING")
			svc, donationRepo, _ := newDonationFixture(gateway)

			_, err := svc.Create(context.Background(), tc.req)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
			if gateway.InitiateCallCount != 0 {
				t.Errorf("expected no request-to-pay for invalid input, got %d", gateway.InitiateCallCount)
			}
			if donationRepo.CreateCallCount != 0 {
				t.Errorf("expected no donation persisted for invalid input, got %d", donationRepo.CreateCallCount)
			}
		})
	}
}

func TestDonationCreation_InvalidPhone_NothingPersisted(t *testing.T) {
	t.Parallel()

	gateway := NewMockGateway("PENDING")
	svc, donationRepo, _ := newDonationFixture(gateway)

	_, err := svc.Create(context.Background(), service.CreateDonationRequest{
		Amount:        5000,
		DonorPhone:    "12ab34",
		PaymentMethod: "mtn",
		CampaignID:    "campaign-1",
	})
	if !errors.Is(err, momo.ErrInvalidPhoneNumber) {
		t.Fatalf("expected ErrInvalidPhoneNumber, got %v", err)
	}
	if donationRepo.CreateCallCount != 0 {
		t.Errorf("expected no donation persisted, got %d creates", donationRepo.CreateCallCount)
	}
}

func TestDonationCreation_ProviderRejection_MarksFailed(t *testing.T) {
	t.Parallel()

	gateway := NewMockGateway("PENDING")
	gateway.InitiateError = &momo.GatewayError{Op: "requesttopay", StatusCode: 500, Message: "internal error"}
	svc, donationRepo, _ := newDonationFixture(gateway)

	_, err := svc.Create(context.Background(), service.CreateDonationRequest{
		Amount:        5000,
		DonorPhone:    "237671234567",
		PaymentMethod: "mtn",
		CampaignID:    "campaign-1",
	})

	var gwErr *momo.GatewayError
	if !errors.As(err, &gwErr) {
		t.Fatalf("expected GatewayError, got %v", err)
	}

	// The donation exists but is failed, with no provider reference: the
	// provider never accepted the request, so nothing is left to reconcile.
	if donationRepo.CreateCallCount != 1 {
		t.Fatalf("expected one persisted donation, got %d", donationRepo.CreateCallCount)
	}
	all := donationRepo.Donations()
	if len(all) != 1 {
		t.Fatalf("expected one stored donation, got %d", len(all))
	}
	failed := all[0]
	if failed.Status != domain.DonationStatusFailed {
		t.Errorf("expected status failed, got %s", failed.Status)
	}
	if failed.ProviderReference != "" {
		t.Errorf("expected empty provider reference, got %s", failed.ProviderReference)
	}
}
