package domain

import "time"

// Channel is a delivery medium with independent availability and retry policy.
type Channel string

const (
	ChannelInApp Channel = "in-app"
	ChannelSMS   Channel = "sms"
	ChannelEmail Channel = "email"
)

// Notification is a durable in-app message. It is the audit-of-record for
// dispatched events; SMS/email deliveries are transient attempts and only
// leave a success/failure log line.
type Notification struct {
	ID          string
	RecipientID string
	ComplaintID string
	Title       string
	Body        string
	Read        bool
	CreatedAt   time.Time
}
