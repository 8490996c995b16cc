package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"carefund/internal/domain"
	"carefund/internal/middleware"
	"carefund/internal/service"
)

// CampaignHandler handles HTTP requests for campaigns.
type CampaignHandler struct {
	campaignService *service.CampaignService
}

// NewCampaignHandler creates a new CampaignHandler.
func NewCampaignHandler(campaignService *service.CampaignService) *CampaignHandler {
	return &CampaignHandler{campaignService: campaignService}
}

// CampaignRequest is the HTTP request body for creating or updating a campaign.
type CampaignRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	GoalAmount  int64  `json:"goal_amount"`
}

// CampaignResponse is the HTTP response for campaign data.
type CampaignResponse struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	GoalAmount   int64  `json:"goal_amount"`
	RaisedAmount int64  `json:"raised_amount"`
	CreatedBy    string `json:"created_by"`
	CreatedAt    string `json:"created_at"`
}

func toCampaignResponse(campaign *domain.Campaign) CampaignResponse {
	return CampaignResponse{
		ID:           campaign.ID,
		Title:        campaign.Title,
		Description:  campaign.Description,
		GoalAmount:   campaign.GoalAmount,
		RaisedAmount: campaign.RaisedAmount,
		CreatedBy:    campaign.CreatedBy,
		CreatedAt:    campaign.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// Create handles POST /v1/campaigns
func (h *CampaignHandler) Create(c *gin.Context) {
	var req CampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	campaign, err := h.campaignService.Create(c.Request.Context(), service.CreateCampaignRequest{
		Title:       req.Title,
		Description: req.Description,
		GoalAmount:  req.GoalAmount,
		CreatedBy:   middleware.GetUserID(c),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toCampaignResponse(campaign))
}

// Get handles GET /v1/campaigns/:id
func (h *CampaignHandler) Get(c *gin.Context) {
	campaign, err := h.campaignService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toCampaignResponse(campaign))
}

// GetAll handles GET /v1/campaigns
func (h *CampaignHandler) GetAll(c *gin.Context) {
	campaigns, err := h.campaignService.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]CampaignResponse, 0, len(campaigns))
	for _, campaign := range campaigns {
		responses = append(responses, toCampaignResponse(campaign))
	}

	respondJSON(c, http.StatusOK, responses)
}

// Update handles PUT /v1/campaigns/:id
func (h *CampaignHandler) Update(c *gin.Context) {
	var req CampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	campaign, err := h.campaignService.Update(c.Request.Context(), service.UpdateCampaignRequest{
		ID:          c.Param("id"),
		Title:       req.Title,
		Description: req.Description,
		GoalAmount:  req.GoalAmount,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toCampaignResponse(campaign))
}

// Delete handles DELETE /v1/campaigns/:id
func (h *CampaignHandler) Delete(c *gin.Context) {
	if err := h.campaignService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
