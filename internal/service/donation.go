package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"carefund/internal/domain"
	"carefund/internal/momo"
	"carefund/internal/repository"
)

const (
	// reconcileLockTTL bounds how long a reconcile poll holds the
	// per-donation lock that dedupes overlapping status checks.
	reconcileLockTTL = 15 * time.Second

	defaultPayeeNote = "Hospital care donation"
)

// Gateway is the mobile-money collection API the donation service talks to.
type Gateway interface {
	PreparePaymentRequest(amount int64, phoneNumber, externalID, payerMessage, payeeNote string) (*momo.PaymentRequest, error)
	RequestToPay(ctx context.Context, payment *momo.PaymentRequest) (*momo.InitiateResult, error)
	PaymentStatus(ctx context.Context, requestID string) (*momo.StatusResult, error)
}

// ReconcileLocker dedupes overlapping reconcile polls for one donation.
// It is an optimization only: the at-most-once credit guarantee comes from
// the repository's conditional update, never from this lock.
type ReconcileLocker interface {
	AcquireDonationLock(ctx context.Context, donationID string, ttl time.Duration) (bool, error)
	ReleaseDonationLock(ctx context.Context, donationID string) error
}

// CampaignCacheInvalidator drops cached campaign reads after a credit or
// mutation changes the underlying row.
type CampaignCacheInvalidator interface {
	InvalidateCampaign(ctx context.Context, campaignID string) error
	InvalidateCampaignList(ctx context.Context) error
}

// DonationService owns the donation lifecycle: intake, payment initiation,
// and reconciliation of the provider's outcome against the ledger.
type DonationService struct {
	donationRepo repository.DonationRepository
	campaignRepo repository.CampaignRepository
	eventRepo    repository.EventRepository
	gateway      Gateway
	locks        ReconcileLocker
	cache        CampaignCacheInvalidator
}

// NewDonationService creates a new DonationService. locks and cache may be
// nil; both are optional collaborators.
func NewDonationService(
	donationRepo repository.DonationRepository,
	campaignRepo repository.CampaignRepository,
	eventRepo repository.EventRepository,
	gateway Gateway,
	locks ReconcileLocker,
	cache CampaignCacheInvalidator,
) *DonationService {
	return &DonationService{
		donationRepo: donationRepo,
		campaignRepo: campaignRepo,
		eventRepo:    eventRepo,
		gateway:      gateway,
		locks:        locks,
		cache:        cache,
	}
}

// CreateDonationRequest contains the parameters for a new donation.
type CreateDonationRequest struct {
	Amount        int64
	DonorName     string
	DonorPhone    string
	PaymentMethod string
	CampaignID    string
	EventID       string
	Message       string
}

// CreateDonationResult is returned after a donation is created and the
// payment request has been accepted by the provider.
type CreateDonationResult struct {
	Donation  *domain.Donation
	RequestID string
}

// Create validates the request, persists a pending donation with the
// normalized donor phone, and dispatches the payment request to the
// provider. On provider rejection the donation is marked failed before the
// error is propagated, so no donation is left pending for a request the
// provider never received.
func (s *DonationService) Create(ctx context.Context, req CreateDonationRequest) (*CreateDonationResult, error) {
	if req.Amount < domain.MinDonationAmount {
		return nil, ErrAmountBelowMinimum
	}
	if domain.PaymentMethod(req.PaymentMethod) != domain.PaymentMethodMTN {
		return nil, ErrInvalidPaymentMethod
	}
	if req.DonorPhone == "" {
		return nil, ErrMissingDonorPhone
	}

	donorName := req.DonorName
	if donorName == "" {
		donorName = "Anonymous"
	}

	// Verify the beneficiary exists before taking money for it.
	if req.CampaignID != "" {
		if _, err := s.campaignRepo.GetByID(ctx, req.CampaignID); err != nil {
			return nil, err
		}
	}
	if req.EventID != "" {
		if _, err := s.eventRepo.GetByID(ctx, req.EventID); err != nil {
			return nil, err
		}
	}

	donationID := uuid.New().String()
	payerMessage := fmt.Sprintf("Donation from %s", donorName)

	// Prepare first: phone validation happens here, before anything is
	// persisted or sent over the wire.
	payment, err := s.gateway.PreparePaymentRequest(req.Amount, req.DonorPhone, donationID, payerMessage, defaultPayeeNote)
	if err != nil {
		return nil, err
	}

	donation := &domain.Donation{
		ID:            donationID,
		Amount:        req.Amount,
		DonorName:     donorName,
		DonorPhone:    payment.Payer.PartyID,
		PaymentMethod: domain.PaymentMethodMTN,
		CampaignID:    req.CampaignID,
		EventID:       req.EventID,
		Message:       req.Message,
		Status:        domain.DonationStatusPending,
		CreatedAt:     time.Now().UTC(),
	}

	if err := s.donationRepo.Create(ctx, donation); err != nil {
		return nil, err
	}

	result, err := s.gateway.RequestToPay(ctx, payment)
	if err != nil {
		_, _ = s.donationRepo.MarkFailed(ctx, donationID)
		return nil, err
	}

	if err := s.donationRepo.SetProviderReference(ctx, donationID, result.RequestID); err != nil {
		return nil, err
	}
	donation.ProviderReference = result.RequestID

	return &CreateDonationResult{Donation: donation, RequestID: result.RequestID}, nil
}

// ReconcileResult is the outcome of a reconciliation pass.
type ReconcileResult struct {
	Status         domain.DonationStatus
	ProviderStatus string
}

// Reconcile queries the provider for the donation's payment outcome and
// applies it to the ledger. Terminal donations short-circuit without a
// gateway call, so the operation is idempotent once a donation settles.
// A transport failure leaves the donation pending for a later retry.
func (s *DonationService) Reconcile(ctx context.Context, donationID string) (*ReconcileResult, error) {
	if donationID == "" {
		return nil, ErrInvalidDonationID
	}

	donation, err := s.donationRepo.GetByID(ctx, donationID)
	if err != nil {
		return nil, err
	}

	if donation.Status.IsTerminal() {
		return &ReconcileResult{Status: donation.Status}, nil
	}

	if donation.ProviderReference == "" {
		return nil, ErrNoProviderReference
	}

	// Best-effort dedup of overlapping polls. Losing the lock race means
	// another caller is already asking the provider; report the stored
	// status rather than doubling the query. Lock errors (redis down) do
	// not block reconciliation.
	if s.locks != nil {
		locked, lockErr := s.locks.AcquireDonationLock(ctx, donationID, reconcileLockTTL)
		if lockErr == nil {
			if !locked {
				return &ReconcileResult{Status: donation.Status}, nil
			}
			defer func() {
				_ = s.locks.ReleaseDonationLock(ctx, donationID)
			}()
		}
	}

	status, err := s.gateway.PaymentStatus(ctx, donation.ProviderReference)
	if err != nil {
		return nil, err
	}

	switch strings.ToUpper(status.Status) {
	case "SUCCESSFUL", "SUCCESS":
		applied, err := s.donationRepo.ApplySuccessCredit(ctx, donationID)
		if err != nil {
			return nil, err
		}
		if applied {
			s.invalidateCampaign(ctx, donation.CampaignID)
			return &ReconcileResult{Status: domain.DonationStatusSuccess, ProviderStatus: status.Status}, nil
		}
		// A concurrent reconcile settled the donation first. Report
		// whatever it decided.
		settled, err := s.donationRepo.GetByID(ctx, donationID)
		if err != nil {
			return nil, err
		}
		return &ReconcileResult{Status: settled.Status, ProviderStatus: status.Status}, nil

	case "FAILED", "REJECTED", "EXPIRED", "CANCELLED":
		if _, err := s.donationRepo.MarkFailed(ctx, donationID); err != nil {
			return nil, err
		}
		return &ReconcileResult{Status: domain.DonationStatusFailed, ProviderStatus: status.Status}, nil

	default:
		// PENDING or any vocabulary this service does not recognize:
		// leave the donation alone and let the caller retry later.
		return &ReconcileResult{Status: domain.DonationStatusPending, ProviderStatus: status.Status}, nil
	}
}

// GetDonation retrieves a donation by ID.
func (s *DonationService) GetDonation(ctx context.Context, donationID string) (*domain.Donation, error) {
	if donationID == "" {
		return nil, ErrInvalidDonationID
	}
	return s.donationRepo.GetByID(ctx, donationID)
}

// GetCampaignDonations lists the successful donations for a campaign.
func (s *DonationService) GetCampaignDonations(ctx context.Context, campaignID string) ([]*domain.Donation, error) {
	if campaignID == "" {
		return nil, ErrInvalidCampaignID
	}
	return s.donationRepo.GetByCampaign(ctx, campaignID)
}

func (s *DonationService) invalidateCampaign(ctx context.Context, campaignID string) {
	if s.cache == nil || campaignID == "" {
		return
	}
	_ = s.cache.InvalidateCampaign(ctx, campaignID)
	_ = s.cache.InvalidateCampaignList(ctx)
}
