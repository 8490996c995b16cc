package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"carefund/internal/domain"
	"carefund/internal/service"
)

// DonationHandler handles HTTP requests for donations.
type DonationHandler struct {
	donationService *service.DonationService
}

// NewDonationHandler creates a new DonationHandler.
func NewDonationHandler(donationService *service.DonationService) *DonationHandler {
	return &DonationHandler{donationService: donationService}
}

// CreateDonationRequest is the HTTP request body for creating a donation.
type CreateDonationRequest struct {
	Amount        int64  `json:"amount"`
	DonorName     string `json:"donor_name"`
	DonorPhone    string `json:"donor_phone"`
	PaymentMethod string `json:"payment_method"`
	CampaignID    string `json:"campaign_id"`
	EventID       string `json:"event_id"`
	Message       string `json:"message"`
}

// DonationResponse is the HTTP response for donation data.
type DonationResponse struct {
	ID                string `json:"id"`
	Amount            int64  `json:"amount"`
	DonorName         string `json:"donor_name"`
	DonorPhone        string `json:"donor_phone"`
	PaymentMethod     string `json:"payment_method"`
	CampaignID        string `json:"campaign_id,omitempty"`
	EventID           string `json:"event_id,omitempty"`
	Message           string `json:"message,omitempty"`
	Status            string `json:"status"`
	ProviderReference string `json:"provider_reference,omitempty"`
	CreatedAt         string `json:"created_at"`
}

func toDonationResponse(d *domain.Donation) DonationResponse {
	return DonationResponse{
		ID:                d.ID,
		Amount:            d.Amount,
		DonorName:         d.DonorName,
		DonorPhone:        d.DonorPhone,
		PaymentMethod:     string(d.PaymentMethod),
		CampaignID:        d.CampaignID,
		EventID:           d.EventID,
		Message:           d.Message,
		Status:            string(d.Status),
		ProviderReference: d.ProviderReference,
		CreatedAt:         d.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// Create handles POST /v1/donations
func (h *DonationHandler) Create(c *gin.Context) {
	var req CreateDonationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	result, err := h.donationService.Create(c.Request.Context(), service.CreateDonationRequest{
		Amount:        req.Amount,
		DonorName:     req.DonorName,
		DonorPhone:    req.DonorPhone,
		PaymentMethod: req.PaymentMethod,
		CampaignID:    req.CampaignID,
		EventID:       req.EventID,
		Message:       req.Message,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, gin.H{
		"donation": toDonationResponse(result.Donation),
		"payment": gin.H{
			"status":     "PENDING",
			"request_id": result.RequestID,
			"message":    "Payment request sent. Awaiting confirmation on the donor's phone.",
			"poll_url":   "/v1/donations/" + result.Donation.ID + "/status",
		},
	})
}

// Get handles GET /v1/donations/:id
func (h *DonationHandler) Get(c *gin.Context) {
	donation, err := h.donationService.GetDonation(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toDonationResponse(donation))
}

// CheckStatus handles GET /v1/donations/:id/status. Each call performs one
// reconciliation pass against the payment provider.
func (h *DonationHandler) CheckStatus(c *gin.Context) {
	result, err := h.donationService.Reconcile(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, gin.H{
		"donation_id":     c.Param("id"),
		"status":          string(result.Status),
		"provider_status": result.ProviderStatus,
	})
}

// GetCampaignDonations handles GET /v1/campaigns/:id/donations
func (h *DonationHandler) GetCampaignDonations(c *gin.Context) {
	donations, err := h.donationService.GetCampaignDonations(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]DonationResponse, 0, len(donations))
	for _, d := range donations {
		responses = append(responses, toDonationResponse(d))
	}

	respondJSON(c, http.StatusOK, responses)
}
