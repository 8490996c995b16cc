package domain

import "time"

// Campaign represents a fundraising campaign.
// RaisedAmount is a monotonically non-decreasing accumulator: it is only
// ever incremented by the success credit of a donation, exactly once per
// donation that reaches the success state.
type Campaign struct {
	ID          string
	Title       string
	Description string
	GoalAmount  int64
	RaisedAmount int64
	CreatedBy   string
	CreatedAt   time.Time
}
