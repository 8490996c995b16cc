package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"carefund/internal/domain"
	"carefund/internal/middleware"
	"carefund/internal/service"
)

// EventHandler handles HTTP requests for events.
type EventHandler struct {
	eventService *service.EventService
}

// NewEventHandler creates a new EventHandler.
func NewEventHandler(eventService *service.EventService) *EventHandler {
	return &EventHandler{eventService: eventService}
}

// EventRequest is the HTTP request body for creating an event.
type EventRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	StartsAt    time.Time `json:"starts_at"`
}

// EventResponse is the HTTP response for event data.
type EventResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Location    string `json:"location"`
	StartsAt    string `json:"starts_at"`
	CreatedBy   string `json:"created_by"`
}

func toEventResponse(event *domain.Event) EventResponse {
	return EventResponse{
		ID:          event.ID,
		Title:       event.Title,
		Description: event.Description,
		Location:    event.Location,
		StartsAt:    event.StartsAt.Format("2006-01-02T15:04:05Z07:00"),
		CreatedBy:   event.CreatedBy,
	}
}

// Create handles POST /v1/events
func (h *EventHandler) Create(c *gin.Context) {
	var req EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	event, err := h.eventService.Create(c.Request.Context(), service.CreateEventRequest{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		StartsAt:    req.StartsAt,
		CreatedBy:   middleware.GetUserID(c),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toEventResponse(event))
}

// Get handles GET /v1/events/:id
func (h *EventHandler) Get(c *gin.Context) {
	event, err := h.eventService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toEventResponse(event))
}

// GetAll handles GET /v1/events
func (h *EventHandler) GetAll(c *gin.Context) {
	events, err := h.eventService.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]EventResponse, 0, len(events))
	for _, event := range events {
		responses = append(responses, toEventResponse(event))
	}

	respondJSON(c, http.StatusOK, responses)
}
