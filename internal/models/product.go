package models

import "time"

// TimeLayout is the timestamp format used for CreatedAt/UpdatedAt.
// ISO-8601 with millisecond precision, always UTC. Lexicographic order
// on these strings matches chronological order.
const TimeLayout = "2006-01-02T15:04:05.000Z07:00"

// Now returns the current time formatted with TimeLayout.
func Now() string {
	return time.Now().UTC().Format(TimeLayout)
}

// Product represents a product in the shop.
// Records are never physically removed; delete flips the Deleted flag
// and list queries filter on it.
type Product struct {
	ID        string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Title     string `json:"title" validate:"required"`
	Like      bool   `json:"like"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
	Deleted   bool   `json:"deleted"`
}
