package tests

import (
	"context"
	"errors"
	"sync"
	"testing"

	"carefund/internal/domain"
	"carefund/internal/momo"
	"carefund/internal/repository"
	"carefund/internal/service"
)

// ──────────────────────────────────────────────
// 2. RECONCILIATION EDGE CASES
// ──────────────────────────────────────────────

// addPendingDonation seeds a pending donation with a provider reference,
// as if creation and request-to-pay already happened.
func addPendingDonation(donationRepo *MockDonationRepository, id, campaignID string, amount int64) {
	donationRepo.AddDonation(&domain.Donation{
		ID:                id,
		Amount:            amount,
		DonorName:         "Anonymous",
		DonorPhone:        "237671234567",
		PaymentMethod:     domain.PaymentMethodMTN,
		CampaignID:        campaignID,
		Status:            domain.DonationStatusPending,
		ProviderReference: id,
	})
}

func TestReconcile_SuccessfulPayment_CreditsCampaignOnce(t *testing.T) {
	t.Parallel()

	gateway := NewMockGateway("SUCCESSFUL")
	svc, donationRepo, campaignRepo := newDonationFixture(gateway)
	addPendingDonation(donationRepo, "donation-1", "campaign-1", 5000)

	result, err := svc.Reconcile(context.Background(), "donation-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Status != domain.DonationStatusSuccess {
		t.Errorf("expected status success, got %s", result.Status)
	}
	if result.ProviderStatus != "SUCCESSFUL" {
		t.Errorf("expected provider status SUCCESSFUL, got %s", result.ProviderStatus)
	}

	campaign := campaignRepo.GetCampaign("campaign-1")
	if campaign.RaisedAmount != 5000 {
		t.Errorf("expected raised amount 5000, got %d", campaign.RaisedAmount)
	}

	// A second reconcile short-circuits on the terminal status: no second
	// gateway query, no second credit.
	result, err = svc.Reconcile(context.Background(), "donation-1")
	if err != nil {
		t.Fatalf("unexpected error on repeat reconcile: %v", err)
	}
	if result.Status != domain.DonationStatusSuccess {
		t.Errorf("expected status success on repeat, got %s", result.Status)
	}
	if gateway.StatusCallCount != 1 {
		t.Errorf("expected one status query, got %d", gateway.StatusCallCount)
	}
	if campaign := campaignRepo.GetCampaign("campaign-1"); campaign.RaisedAmount != 5000 {
		t.Errorf("expected raised amount unchanged at 5000, got %d", campaign.RaisedAmount)
	}
}

func TestReconcile_FailureStatuses_MarkFailed(t *testing.T) {
	t.Parallel()

	for _, providerStatus := range []string{"FAILED", "REJECTED", "EXPIRED", "CANCELLED", "failed", "Rejected"} {
		providerStatus := providerStatus
		t.Run(providerStatus, func(t *testing.T) {
			t.Parallel()

			gateway := NewMockGateway(providerStatus)
			svc, donationRepo, campaignRepo := newDonationFixture(gateway)
			addPendingDonation(donationRepo, "donation-1", "campaign-1", 5000)

			result, err := svc.Reconcile(context.Background(), "donation-1")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result.Status != domain.DonationStatusFailed {
				t.Errorf("expected status failed, got %s", result.Status)
			}
			if campaign := campaignRepo.GetCampaign("campaign-1"); campaign.RaisedAmount != 0 {
				t.Errorf("expected no credit, got %d", campaign.RaisedAmount)
			}

			stored := donationRepo.GetDonation("donation-1")
			if stored.Status != domain.DonationStatusFailed {
				t.Errorf("expected stored status failed, got %s", stored.Status)
			}
		})
	}
}

func TestReconcile_PendingStatus_LeavesDonationPending(t *testing.T) {
	t.Parallel()

	gateway := NewMockGateway("PENDING")
	svc, donationRepo, campaignRepo := newDonationFixture(gateway)
	addPendingDonation(donationRepo, "donation-1", "campaign-1", 5000)

	result, err := svc.Reconcile(context.Background(), "donation-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Status != domain.DonationStatusPending {
		t.Errorf("expected status pending, got %s", result.Status)
	}
	if campaign := campaignRepo.GetCampaign("campaign-1"); campaign.RaisedAmount != 0 {
		t.Errorf("expected no credit while pending, got %d", campaign.RaisedAmount)
	}

	// The provider eventually settles; the next pass picks it up.
	gateway.StatusValue = "SUCCESSFUL"
	result, err = svc.Reconcile(context.Background(), "donation-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Status != domain.DonationStatusSuccess {
		t.Errorf("expected status success after settlement, got %s", result.Status)
	}
	if campaign := campaignRepo.GetCampaign("campaign-1"); campaign.RaisedAmount != 5000 {
		t.Errorf("expected raised amount 5000, got %d", campaign.RaisedAmount)
	}
}

func TestReconcile_UnknownProviderStatus_LeavesDonationPending(t *testing.T) {
	t.Parallel()

	gateway := NewMockGateway("ONGOING")
	svc, donationRepo, _ := newDonationFixture(gateway)
	addPendingDonation(donationRepo, "donation-1", "campaign-1", 5000)

	result, err := svc.Reconcile(context.Background(), "donation-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Status != domain.DonationStatusPending {
		t.Errorf("expected status pending for unrecognized vocabulary, got %s", result.Status)
	}
	if stored := donationRepo.GetDonation("donation-1"); stored.Status != domain.DonationStatusPending {
		t.Errorf("expected stored status pending, got %s", stored.Status)
	}
}

func TestReconcile_NoProviderReference_Rejected(t *testing.T) {
	t.Parallel()

	gateway := NewMockGateway("SUCCESSFUL")
	svc, donationRepo, _ := newDonationFixture(gateway)
	donationRepo.AddDonation(&domain.Donation{
		ID:            "donation-1",
		Amount:        5000,
		PaymentMethod: domain.PaymentMethodMTN,
		CampaignID:    "campaign-1",
		Status:        domain.DonationStatusPending,
	})

	_, err := svc.Reconcile(context.Background(), "donation-1")
	if !errors.Is(err, service.ErrNoProviderReference) {
		t.Fatalf("expected ErrNoProviderReference, got %v", err)
	}
	if gateway.StatusCallCount != 0 {
		t.Errorf("expected no gateway query without a reference, got %d", gateway.StatusCallCount)
	}
}

func TestReconcile_UnknownDonation_NotFound(t *testing.T) {
	t.Parallel()

	gateway := NewMockGateway("SUCCESSFUL")
	svc, _, _ := newDonationFixture(gateway)

	_, err := svc.Reconcile(context.Background(), "donation-missing")
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestReconcile_GatewayTransportError_LeavesDonationPending(t *testing.T) {
	t.Parallel()

	gateway := NewMockGateway("SUCCESSFUL")
	gateway.StatusError = &momo.GatewayError{Op: "paymentstatus", Message: "connection refused"}
	svc, donationRepo, campaignRepo := newDonationFixture(gateway)
	addPendingDonation(donationRepo, "donation-1", "campaign-1", 5000)

	_, err := svc.Reconcile(context.Background(), "donation-1")
	var gwErr *momo.GatewayError
	if !errors.As(err, &gwErr) {
		t.Fatalf("expected GatewayError, got %v", err)
	}

	if stored := donationRepo.GetDonation("donation-1"); stored.Status != domain.DonationStatusPending {
		t.Errorf("expected donation still pending after transport failure, got %s", stored.Status)
	}
	if campaign := campaignRepo.GetCampaign("campaign-1"); campaign.RaisedAmount != 0 {
		t.Errorf("expected no credit after transport failure, got %d", campaign.RaisedAmount)
	}
}

func TestReconcile_LockHeldElsewhere_ReportsStoredStatus(t *testing.T) {
	t.Parallel()

	gateway := NewMockGateway("SUCCESSFUL")
	campaignRepo := NewMockCampaignRepository()
	campaignRepo.AddCampaign(&domain.Campaign{ID: "campaign-1", Title: "Surgery fund", GoalAmount: 1_000_000})
	donationRepo := NewMockDonationRepository()
	donationRepo.Campaigns = campaignRepo
	addPendingDonation(donationRepo, "donation-1", "campaign-1", 5000)

	locks := NewMockLockStore()
	if _, err := locks.AcquireDonationLock(context.Background(), "donation-1", 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	svc := service.NewDonationService(donationRepo, campaignRepo, NewMockEventRepository(), gateway, locks, nil)

	result, err := svc.Reconcile(context.Background(), "donation-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Status != domain.DonationStatusPending {
		t.Errorf("expected stored pending status while lock is held, got %s", result.Status)
	}
	if gateway.StatusCallCount != 0 {
		t.Errorf("expected no gateway query while lock is held, got %d", gateway.StatusCallCount)
	}
}

func TestReconcile_SuccessfulPayment_InvalidatesCampaignCache(t *testing.T) {
	t.Parallel()

	gateway := NewMockGateway("SUCCESSFUL")
	campaignRepo := NewMockCampaignRepository()
	campaignRepo.AddCampaign(&domain.Campaign{ID: "campaign-1", Title: "Surgery fund", GoalAmount: 1_000_000})
	donationRepo := NewMockDonationRepository()
	donationRepo.Campaigns = campaignRepo
	addPendingDonation(donationRepo, "donation-1", "campaign-1", 5000)

	cache := NewMockCampaignCache()
	svc := service.NewDonationService(donationRepo, campaignRepo, NewMockEventRepository(), gateway, nil, cache)

	if _, err := svc.Reconcile(context.Background(), "donation-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	invalidated := cache.Invalidations()
	if len(invalidated) != 1 || invalidated[0] != "campaign-1" {
		t.Errorf("expected one invalidation of campaign-1, got %v", invalidated)
	}
	if cache.ListInvalidations != 1 {
		t.Errorf("expected one list invalidation, got %d", cache.ListInvalidations)
	}

	// Reconciling the settled donation again must not invalidate anything:
	// the credit only applied once.
	if _, err := svc.Reconcile(context.Background(), "donation-1"); err != nil {
		t.Fatalf("unexpected error on repeat reconcile: %v", err)
	}
	if n := len(cache.Invalidations()); n != 1 {
		t.Errorf("expected no further invalidations, got %d", n)
	}
	if cache.ListInvalidations != 1 {
		t.Errorf("expected no further list invalidations, got %d", cache.ListInvalidations)
	}
}

func TestReconcile_NonSuccessOutcomes_LeaveCacheAlone(t *testing.T) {
	t.Parallel()

	for _, providerStatus := range []string{"PENDING", "FAILED"} {
		providerStatus := providerStatus
		t.Run(providerStatus, func(t *testing.T) {
			t.Parallel()

			gateway := NewMockGateway(providerStatus)
			campaignRepo := NewMockCampaignRepository()
			campaignRepo.AddCampaign(&domain.Campaign{ID: "campaign-1", Title: "Surgery fund", GoalAmount: 1_000_000})
			donationRepo := NewMockDonationRepository()
			donationRepo.Campaigns = campaignRepo
			addPendingDonation(donationRepo, "donation-1", "campaign-1", 5000)

			cache := NewMockCampaignCache()
			svc := service.NewDonationService(donationRepo, campaignRepo, NewMockEventRepository(), gateway, nil, cache)

			if _, err := svc.Reconcile(context.Background(), "donation-1"); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if n := len(cache.Invalidations()); n != 0 {
				t.Errorf("expected no invalidations without a credit, got %d", n)
			}
			if cache.ListInvalidations != 0 {
				t.Errorf("expected no list invalidations without a credit, got %d", cache.ListInvalidations)
			}
		})
	}
}

// ──────────────────────────────────────────────
// 3. CONCURRENT RECONCILIATION
// ──────────────────────────────────────────────

func TestReconcile_ConcurrentCalls_CreditAppliedExactlyOnce(t *testing.T) {
	t.Parallel()

	gateway := NewMockGateway("SUCCESSFUL")
	// No lock store: every goroutine reaches the conditional update, which
	// must still apply the credit exactly once.
	svc, donationRepo, campaignRepo := newDonationFixture(gateway)
	addPendingDonation(donationRepo, "donation-1", "campaign-1", 5000)

	const goroutines = 50
	var wg sync.WaitGroup
	results := make([]*service.ReconcileResult, goroutines)
	errs := make([]error, goroutines)

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = svc.Reconcile(context.Background(), "donation-1")
		}(i)
	}
	wg.Wait()

	for i := 0; i < goroutines; i++ {
		if errs[i] != nil {
			t.Fatalf("goroutine %d: unexpected error: %v", i, errs[i])
		}
		if results[i].Status != domain.DonationStatusSuccess {
			t.Errorf("goroutine %d: expected status success, got %s", i, results[i].Status)
		}
	}

	campaign := campaignRepo.GetCampaign("campaign-1")
	if campaign.RaisedAmount != 5000 {
		t.Errorf("expected exactly one credit of 5000, got %d", campaign.RaisedAmount)
	}
	if stored := donationRepo.GetDonation("donation-1"); stored.Status != domain.DonationStatusSuccess {
		t.Errorf("expected stored status success, got %s", stored.Status)
	}
}
