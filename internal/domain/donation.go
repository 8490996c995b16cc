package domain

import "time"

// DonationStatus represents the current status of a donation.
type DonationStatus string

const (
	DonationStatusPending DonationStatus = "pending"
	DonationStatusSuccess DonationStatus = "success"
	DonationStatusFailed  DonationStatus = "failed"
)

// IsTerminal reports whether the status admits no further transitions.
func (s DonationStatus) IsTerminal() bool {
	return s == DonationStatusSuccess || s == DonationStatusFailed
}

// PaymentMethod identifies how a donation is collected.
type PaymentMethod string

const (
	// PaymentMethodMTN is MTN Mobile Money, the only method wired to the
	// reconciliation engine.
	PaymentMethodMTN PaymentMethod = "mtn"
)

// MinDonationAmount is the smallest accepted donation, in whole XAF.
const MinDonationAmount int64 = 500

// Donation represents one attempted contribution. Amounts are whole
// currency units (XAF). DonorPhone is stored in normalized form
// (country code + subscriber number, no plus sign).
type Donation struct {
	ID                string
	Amount            int64
	DonorName         string
	DonorPhone        string
	PaymentMethod     PaymentMethod
	CampaignID        string
	EventID           string
	Message           string
	Status            DonationStatus
	ProviderReference string
	CreatedAt         time.Time
}
