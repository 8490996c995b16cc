package tests

import (
	"context"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"carefund/internal/domain"
	"carefund/internal/momo"
	"carefund/internal/repository"
)

// ──────────────────────────────────────────────
// MOCK CAMPAIGN REPOSITORY
// ──────────────────────────────────────────────

// MockCampaignRepository is a mock implementation of CampaignRepository.
type MockCampaignRepository struct {
	mu        sync.RWMutex
	campaigns map[string]*domain.Campaign

	// Counters for verification
	CreateCallCount int32
	UpdateCallCount int32

	// Error injection
	CreateError error
	UpdateError error
}

// NewMockCampaignRepository creates a new mock campaign repository.
func NewMockCampaignRepository() *MockCampaignRepository {
	return &MockCampaignRepository{
		campaigns: make(map[string]*domain.Campaign),
	}
}

// AddCampaign adds a campaign to the mock repository.
func (m *MockCampaignRepository) AddCampaign(campaign *domain.Campaign) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.campaigns[campaign.ID] = campaign
}

func (m *MockCampaignRepository) Create(ctx context.Context, campaign *domain.Campaign) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.campaigns[campaign.ID] = campaign
	return nil
}

func (m *MockCampaignRepository) GetByID(ctx context.Context, id string) (*domain.Campaign, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	campaign, ok := m.campaigns[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	// Return a copy to avoid mutation issues.
	copy := *campaign
	return &copy, nil
}

func (m *MockCampaignRepository) GetAll(ctx context.Context) ([]*domain.Campaign, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Campaign, 0, len(m.campaigns))
	for _, campaign := range m.campaigns {
		copy := *campaign
		result = append(result, &copy)
	}
	return result, nil
}

func (m *MockCampaignRepository) Update(ctx context.Context, campaign *domain.Campaign) error {
	atomic.AddInt32(&m.UpdateCallCount, 1)
	if m.UpdateError != nil {
		return m.UpdateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.campaigns[campaign.ID]
	if !ok {
		return repository.ErrNotFound
	}
	existing.Title = campaign.Title
	existing.Description = campaign.Description
	existing.GoalAmount = campaign.GoalAmount
	return nil
}

func (m *MockCampaignRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.campaigns[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.campaigns, id)
	return nil
}

// credit adds to a campaign's raised amount; called by the donation mock
// inside its success-credit transition.
func (m *MockCampaignRepository) credit(id string, amount int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if campaign, ok := m.campaigns[id]; ok {
		campaign.RaisedAmount += amount
	}
}

// GetCampaign returns a campaign for test assertions.
func (m *MockCampaignRepository) GetCampaign(id string) *domain.Campaign {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.campaigns[id]
}

// ──────────────────────────────────────────────
// MOCK DONATION REPOSITORY
// ──────────────────────────────────────────────

// MockDonationRepository is a mock implementation of DonationRepository.
// ApplySuccessCredit and MarkFailed perform their check-then-update under
// one mutex, mirroring the conditional single-row UPDATE the PostgreSQL
// implementation uses.
type MockDonationRepository struct {
	mu        sync.Mutex
	donations map[string]*domain.Donation

	// Campaigns receives the success credit when set.
	Campaigns *MockCampaignRepository

	// Counters for verification
	CreateCallCount      int32
	ApplyCreditCallCount int32

	// Error injection
	CreateError      error
	ApplyCreditError error
	MarkFailedError  error
}

// NewMockDonationRepository creates a new mock donation repository.
func NewMockDonationRepository() *MockDonationRepository {
	return &MockDonationRepository{
		donations: make(map[string]*domain.Donation),
	}
}

// AddDonation adds a donation to the mock repository.
func (m *MockDonationRepository) AddDonation(donation *domain.Donation) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.donations[donation.ID] = donation
}

func (m *MockDonationRepository) Create(ctx context.Context, donation *domain.Donation) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *donation
	m.donations[donation.ID] = &copy
	return nil
}

func (m *MockDonationRepository) GetByID(ctx context.Context, id string) (*domain.Donation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	donation, ok := m.donations[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *donation
	return &copy, nil
}

func (m *MockDonationRepository) GetByCampaign(ctx context.Context, campaignID string) ([]*domain.Donation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []*domain.Donation
	for _, donation := range m.donations {
		if donation.CampaignID == campaignID && donation.Status == domain.DonationStatusSuccess {
			copy := *donation
			result = append(result, &copy)
		}
	}
	return result, nil
}

func (m *MockDonationRepository) SetProviderReference(ctx context.Context, id, reference string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	donation, ok := m.donations[id]
	if !ok {
		return repository.ErrNotFound
	}
	donation.ProviderReference = reference
	return nil
}

func (m *MockDonationRepository) ApplySuccessCredit(ctx context.Context, id string) (bool, error) {
	atomic.AddInt32(&m.ApplyCreditCallCount, 1)
	if m.ApplyCreditError != nil {
		return false, m.ApplyCreditError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	donation, ok := m.donations[id]
	if !ok {
		return false, repository.ErrNotFound
	}
	if donation.Status != domain.DonationStatusPending {
		return false, nil
	}
	donation.Status = domain.DonationStatusSuccess
	if m.Campaigns != nil && donation.CampaignID != "" {
		m.Campaigns.credit(donation.CampaignID, donation.Amount)
	}
	return true, nil
}

func (m *MockDonationRepository) MarkFailed(ctx context.Context, id string) (bool, error) {
	if m.MarkFailedError != nil {
		return false, m.MarkFailedError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	donation, ok := m.donations[id]
	if !ok {
		return false, nil
	}
	if donation.Status != domain.DonationStatusPending {
		return false, nil
	}
	donation.Status = domain.DonationStatusFailed
	return true, nil
}

// Donations returns every stored donation for test assertions.
func (m *MockDonationRepository) Donations() []*domain.Donation {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]*domain.Donation, 0, len(m.donations))
	for _, donation := range m.donations {
		copy := *donation
		result = append(result, &copy)
	}
	return result
}

// GetDonation returns a donation for test assertions.
func (m *MockDonationRepository) GetDonation(id string) *domain.Donation {
	m.mu.Lock()
	defer m.mu.Unlock()
	donation, ok := m.donations[id]
	if !ok {
		return nil
	}
	copy := *donation
	return &copy
}

// ──────────────────────────────────────────────
// MOCK EVENT REPOSITORY
// ──────────────────────────────────────────────

// MockEventRepository is a mock implementation of EventRepository.
type MockEventRepository struct {
	mu     sync.RWMutex
	events map[string]*domain.Event
}

// NewMockEventRepository creates a new mock event repository.
func NewMockEventRepository() *MockEventRepository {
	return &MockEventRepository{events: make(map[string]*domain.Event)}
}

// AddEvent adds an event to the mock repository.
func (m *MockEventRepository) AddEvent(event *domain.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events[event.ID] = event
}

func (m *MockEventRepository) Create(ctx context.Context, event *domain.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events[event.ID] = event
	return nil
}

func (m *MockEventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	event, ok := m.events[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *event
	return &copy, nil
}

func (m *MockEventRepository) GetAll(ctx context.Context) ([]*domain.Event, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Event, 0, len(m.events))
	for _, event := range m.events {
		copy := *event
		result = append(result, &copy)
	}
	return result, nil
}

// ──────────────────────────────────────────────
// MOCK USER REPOSITORY
// ──────────────────────────────────────────────

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mu    sync.RWMutex
	users map[string]*domain.User
}

// NewMockUserRepository creates a new mock user repository.
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{users: make(map[string]*domain.User)}
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.ID] = user
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	user, ok := m.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *user
	return &copy, nil
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, user := range m.users {
		if user.Email == email {
			copy := *user
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

// ──────────────────────────────────────────────
// MOCK PAYMENT GATEWAY
// ──────────────────────────────────────────────

// MockGateway is a mock implementation of the payment gateway.
type MockGateway struct {
	// StatusValue is the raw provider status returned by PaymentStatus.
	StatusValue string

	// Counters for verification
	InitiateCallCount int32
	StatusCallCount   int32

	// Error injection
	PrepareError  error
	InitiateError error
	StatusError   error
}

// NewMockGateway creates a new mock gateway reporting the given provider status.
func NewMockGateway(statusValue string) *MockGateway {
	return &MockGateway{StatusValue: statusValue}
}

func (m *MockGateway) PreparePaymentRequest(amount int64, phoneNumber, externalID, payerMessage, payeeNote string) (*momo.PaymentRequest, error) {
	if m.PrepareError != nil {
		return nil, m.PrepareError
	}
	normalized, err := momo.NormalizePhone(phoneNumber, "237")
	if err != nil {
		return nil, err
	}
	return &momo.PaymentRequest{
		Amount:       strconv.FormatInt(amount, 10),
		Currency:     "XAF",
		ExternalID:   externalID,
		Payer:        momo.Party{PartyIDType: "MSISDN", PartyID: normalized},
		PayerMessage: payerMessage,
		PayeeNote:    payeeNote,
	}, nil
}

func (m *MockGateway) RequestToPay(ctx context.Context, payment *momo.PaymentRequest) (*momo.InitiateResult, error) {
	atomic.AddInt32(&m.InitiateCallCount, 1)
	if m.InitiateError != nil {
		return nil, m.InitiateError
	}
	return &momo.InitiateResult{RequestID: payment.ExternalID, Status: "initiated"}, nil
}

func (m *MockGateway) PaymentStatus(ctx context.Context, requestID string) (*momo.StatusResult, error) {
	atomic.AddInt32(&m.StatusCallCount, 1)
	if m.StatusError != nil {
		return nil, m.StatusError
	}
	return &momo.StatusResult{Status: m.StatusValue}, nil
}

// ──────────────────────────────────────────────
// MOCK CAMPAIGN CACHE
// ──────────────────────────────────────────────

// MockCampaignCache records campaign cache invalidations.
type MockCampaignCache struct {
	mu          sync.Mutex
	invalidated []string

	// ListInvalidations counts InvalidateCampaignList calls.
	ListInvalidations int32

	// Error injection
	InvalidateError error
}

// NewMockCampaignCache creates a new mock campaign cache.
func NewMockCampaignCache() *MockCampaignCache {
	return &MockCampaignCache{}
}

func (m *MockCampaignCache) InvalidateCampaign(ctx context.Context, campaignID string) error {
	if m.InvalidateError != nil {
		return m.InvalidateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.invalidated = append(m.invalidated, campaignID)
	return nil
}

func (m *MockCampaignCache) InvalidateCampaignList(ctx context.Context) error {
	atomic.AddInt32(&m.ListInvalidations, 1)
	return nil
}

// Invalidations returns the campaign ids invalidated so far.
func (m *MockCampaignCache) Invalidations() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.invalidated...)
}

// ──────────────────────────────────────────────
// MOCK LOCK STORE
// ──────────────────────────────────────────────

// MockLockStore is an in-memory implementation of the reconcile lock.
type MockLockStore struct {
	mu    sync.Mutex
	locks map[string]bool
}

// NewMockLockStore creates a new mock lock store.
func NewMockLockStore() *MockLockStore {
	return &MockLockStore{locks: make(map[string]bool)}
}

func (m *MockLockStore) AcquireDonationLock(ctx context.Context, donationID string, ttl time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.locks[donationID] {
		return false, nil
	}
	m.locks[donationID] = true
	return true, nil
}

func (m *MockLockStore) ReleaseDonationLock(ctx context.Context, donationID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.locks, donationID)
	return nil
}
