package service

import "errors"

var (
	// ErrAmountBelowMinimum is returned when a donation is below the minimum amount.
	ErrAmountBelowMinimum = errors.New("donation amount below minimum")

	// ErrInvalidPaymentMethod is returned when the payment method is not supported.
	ErrInvalidPaymentMethod = errors.New("unsupported payment method")

	// ErrMissingDonorPhone is returned when the donor phone number is empty.
	ErrMissingDonorPhone = errors.New("donor phone is required")

	// ErrInvalidDonationID is returned when a donation ID is empty.
	ErrInvalidDonationID = errors.New("invalid donation id")

	// ErrNoProviderReference is returned when reconciliation is attempted on a
	// donation that has no provider reference, so there is nothing to check.
	ErrNoProviderReference = errors.New("donation has no provider reference")

	// ErrInvalidCampaignID is returned when a campaign ID is empty.
	ErrInvalidCampaignID = errors.New("invalid campaign id")

	// ErrMissingTitle is returned when a campaign or event title is empty.
	ErrMissingTitle = errors.New("title is required")

	// ErrInvalidGoalAmount is returned when a campaign goal is not positive.
	ErrInvalidGoalAmount = errors.New("goal amount must be positive")

	// ErrInvalidEventID is returned when an event ID is empty.
	ErrInvalidEventID = errors.New("invalid event id")

	// ErrEmailAlreadyRegistered is returned when registering an email that exists.
	ErrEmailAlreadyRegistered = errors.New("email already registered")

	// ErrInvalidCredentials is returned when login fails.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrMissingEmail is returned when an email is empty.
	ErrMissingEmail = errors.New("email is required")

	// ErrWeakPassword is returned when a password is shorter than 8 characters.
	ErrWeakPassword = errors.New("password must be at least 8 characters")

	// ErrInvalidRole is returned when a registration role is unknown.
	ErrInvalidRole = errors.New("invalid role")
)
