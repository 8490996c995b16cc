package momo

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingCredentials is returned when the API user/key pair is not configured.
	ErrMissingCredentials = errors.New("momo: api user and key are required")

	// ErrInvalidPhoneNumber is returned when a phone number does not match
	// the accepted numbering plan after normalization.
	ErrInvalidPhoneNumber = errors.New("momo: invalid phone number")
)

// AuthError indicates the provider rejected the credential exchange.
type AuthError struct {
	StatusCode int
	Message    string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("momo: token exchange rejected (%d): %s", e.StatusCode, e.Message)
}

// GatewayError indicates a transport failure or provider-side rejection
// during a collection API call. Message carries the provider's message
// when one was returned.
type GatewayError struct {
	Op         string
	StatusCode int
	Message    string
}

func (e *GatewayError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("momo: %s: %s", e.Op, e.Message)
	}
	return fmt.Sprintf("momo: %s failed (%d): %s", e.Op, e.StatusCode, e.Message)
}
