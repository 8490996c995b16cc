package momo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

const (
	// SandboxBaseURL is the MTN MoMo developer sandbox.
	SandboxBaseURL = "https://sandbox.momodeveloper.mtn.com"

	defaultTimeout = 30 * time.Second

	// tokenSafetyMargin is subtracted from the provider's expires_in so a
	// token is refreshed before it actually expires.
	tokenSafetyMargin = 60 * time.Second
	minTokenLifetime  = 60 * time.Second
)

// Config holds the collection API credentials and environment.
type Config struct {
	BaseURL           string
	SubscriptionKey   string
	APIUser           string
	APIKey            string
	TargetEnvironment string // "sandbox" or "production"
	Currency          string // e.g. "XAF"
	CountryCode       string // e.g. "237"
	Timeout           time.Duration
}

// Client talks to the MTN Mobile Money collection API. It caches the
// access token process-wide; concurrent callers hitting a cold or expired
// cache share a single in-flight exchange.
type Client struct {
	cfg        Config
	httpClient *http.Client

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time
	refresh     singleflight.Group

	now func() time.Time
}

// NewClient creates a collection API client. Zero-value config fields fall
// back to sandbox defaults.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = SandboxBaseURL
	}
	if cfg.TargetEnvironment == "" {
		cfg.TargetEnvironment = "sandbox"
	}
	if cfg.Currency == "" {
		cfg.Currency = "XAF"
	}
	if cfg.CountryCode == "" {
		cfg.CountryCode = "237"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		now:        time.Now,
	}
}

// Party identifies the paying account.
type Party struct {
	PartyIDType string `json:"partyIdType"`
	PartyID     string `json:"partyId"`
}

// PaymentRequest is the request-to-pay payload. ExternalID is the
// donation id and doubles as the X-Reference-Id correlation key.
type PaymentRequest struct {
	Amount       string `json:"amount"`
	Currency     string `json:"currency"`
	ExternalID   string `json:"externalId"`
	Payer        Party  `json:"payer"`
	PayerMessage string `json:"payerMessage,omitempty"`
	PayeeNote    string `json:"payeeNote,omitempty"`
}

// InitiateResult is returned when the provider accepts a request-to-pay.
type InitiateResult struct {
	RequestID string
	Status    string
}

// StatusResult is the provider's view of a previously submitted request.
type StatusResult struct {
	Status                 string
	FinancialTransactionID string
	Amount                 string
	Payer                  *Party
	Reason                 string
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}

// AccessToken returns a cached bearer token, performing a credential
// exchange when the cache is cold or expired.
func (c *Client) AccessToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	if c.token != "" && c.now().Before(c.tokenExpiry) {
		token := c.token
		c.mu.Unlock()
		return token, nil
	}
	c.mu.Unlock()

	v, err, _ := c.refresh.Do("token", func() (any, error) {
		// Re-check under the singleflight: a caller queued behind the
		// winning exchange can use the token it just cached.
		c.mu.Lock()
		if c.token != "" && c.now().Before(c.tokenExpiry) {
			token := c.token
			c.mu.Unlock()
			return token, nil
		}
		c.mu.Unlock()

		token, expiry, err := c.exchangeToken(ctx)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.token = token
		c.tokenExpiry = expiry
		c.mu.Unlock()
		return token, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (c *Client) exchangeToken(ctx context.Context) (string, time.Time, error) {
	if c.cfg.APIUser == "" || c.cfg.APIKey == "" {
		return "", time.Time{}, ErrMissingCredentials
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/collection/token/", nil)
	if err != nil {
		return "", time.Time{}, err
	}
	req.SetBasicAuth(c.cfg.APIUser, c.cfg.APIKey)
	req.Header.Set("Ocp-Apim-Subscription-Key", c.cfg.SubscriptionKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", time.Time{}, &AuthError{Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", time.Time{}, &AuthError{StatusCode: resp.StatusCode, Message: readProviderMessage(resp.Body)}
	}

	var out tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", time.Time{}, &AuthError{Message: "malformed token response: " + err.Error()}
	}

	lifetime := time.Duration(out.ExpiresIn)*time.Second - tokenSafetyMargin
	if lifetime < minTokenLifetime {
		lifetime = minTokenLifetime
	}

	return out.AccessToken, c.now().Add(lifetime), nil
}

// PreparePaymentRequest normalizes and validates the payer phone number
// and builds the request-to-pay payload.
func (c *Client) PreparePaymentRequest(amount int64, phoneNumber, externalID, payerMessage, payeeNote string) (*PaymentRequest, error) {
	normalized, err := NormalizePhone(phoneNumber, c.cfg.CountryCode)
	if err != nil {
		return nil, err
	}

	return &PaymentRequest{
		Amount:     strconv.FormatInt(amount, 10),
		Currency:   c.cfg.Currency,
		ExternalID: externalID,
		Payer: Party{
			PartyIDType: "MSISDN",
			PartyID:     normalized,
		},
		PayerMessage: payerMessage,
		PayeeNote:    payeeNote,
	}, nil
}

// RequestToPay submits a payment request. The ExternalID is sent as the
// X-Reference-Id header so the provider and this system agree on which
// request a later status query refers to. No retries happen here; retry
// policy belongs to the caller.
func (c *Client) RequestToPay(ctx context.Context, payment *PaymentRequest) (*InitiateResult, error) {
	token, err := c.AccessToken(ctx)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(payment)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.cfg.BaseURL+"/collection/v1_0/requesttopay", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	c.setCollectionHeaders(req, token)
	req.Header.Set("X-Reference-Id", payment.ExternalID)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &GatewayError{Op: "requesttopay", Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &GatewayError{Op: "requesttopay", StatusCode: resp.StatusCode, Message: readProviderMessage(resp.Body)}
	}

	return &InitiateResult{RequestID: payment.ExternalID, Status: "initiated"}, nil
}

type statusResponse struct {
	Status                 string `json:"status"`
	FinancialTransactionID string `json:"financialTransactionId"`
	Amount                 string `json:"amount"`
	Payer                  *Party `json:"payer"`
	Reason                 string `json:"reason"`
}

// PaymentStatus queries the provider for the outcome of a previously
// submitted request-to-pay, by its correlation id.
func (c *Client) PaymentStatus(ctx context.Context, requestID string) (*StatusResult, error) {
	token, err := c.AccessToken(ctx)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.cfg.BaseURL+"/collection/v1_0/requesttopay/"+requestID, nil)
	if err != nil {
		return nil, err
	}
	c.setCollectionHeaders(req, token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &GatewayError{Op: "paymentstatus", Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg := readProviderMessage(resp.Body)
		if resp.StatusCode == http.StatusNotFound {
			msg = fmt.Sprintf("reference %s unknown to provider", requestID)
		}
		return nil, &GatewayError{Op: "paymentstatus", StatusCode: resp.StatusCode, Message: msg}
	}

	var out statusResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, &GatewayError{Op: "paymentstatus", Message: "malformed status response: " + err.Error()}
	}

	return &StatusResult{
		Status:                 out.Status,
		FinancialTransactionID: out.FinancialTransactionID,
		Amount:                 out.Amount,
		Payer:                  out.Payer,
		Reason:                 out.Reason,
	}, nil
}

func (c *Client) setCollectionHeaders(req *http.Request, token string) {
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Ocp-Apim-Subscription-Key", c.cfg.SubscriptionKey)
	req.Header.Set("X-Target-Environment", c.cfg.TargetEnvironment)
}

// readProviderMessage extracts the provider's error message from a
// response body, falling back to the raw body text.
func readProviderMessage(r io.Reader) string {
	raw, _ := io.ReadAll(io.LimitReader(r, 4096))
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil && payload.Message != "" {
		return payload.Message
	}
	return string(bytes.TrimSpace(raw))
}
