package dto

import "time"

// NotificationResponse is one in-app inbox entry.
type NotificationResponse struct {
	ID          string    `json:"id"`
	ComplaintID string    `json:"complaint_id"`
	Title       string    `json:"title"`
	Body        string    `json:"body"`
	Read        bool      `json:"read"`
	CreatedAt   time.Time `json:"created_at"`
}

// UnreadCountResponse payload.
type UnreadCountResponse struct {
	Count int64 `json:"count"`
}
