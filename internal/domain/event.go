package domain

import "time"

// Event represents a fundraising event. Donations may reference an event
// instead of a campaign; event donations carry no running total.
type Event struct {
	ID          string
	Title       string
	Description string
	Location    string
	StartsAt    time.Time
	CreatedBy   string
	CreatedAt   time.Time
}
