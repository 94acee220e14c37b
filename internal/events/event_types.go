package events

import (
	"fmt"
	"time"

	"github.com/grievance-hub/complaint-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventComplaintCreated  EventType = "complaint_created"
	EventStatusChanged     EventType = "complaint_status_changed"
	EventFeedbackSubmitted EventType = "complaint_feedback_submitted"
)

// TransitionEvent is emitted exactly once per committed transition. It is
// immutable and consumed at-least-once by the notification dispatcher.
type TransitionEvent struct {
	ID              string          `json:"id"`
	Type            EventType       `json:"type"`
	ComplaintID     string          `json:"complaint_id"`
	ComplaintTitle  string          `json:"complaint_title"`
	SubmitterID     string          `json:"submitter_id"`
	AssigneeID      *string         `json:"assignee_id,omitempty"`
	FromStatus      domain.Status   `json:"from_status,omitempty"`
	ToStatus        domain.Status   `json:"to_status"`
	ActorID         string          `json:"actor_id"`
	ActorRole       domain.Role     `json:"actor_role"`
	Category        domain.Category `json:"category,omitempty"`
	ResolutionNotes *string         `json:"resolution_notes,omitempty"`
	Rating          *int            `json:"rating,omitempty"`
	OccurredAt      time.Time       `json:"occurred_at"`
}

// IdempotencyKey identifies the event for at-least-once consumers.
func (e TransitionEvent) IdempotencyKey() string {
	return fmt.Sprintf("%s|%s|%d", e.ComplaintID, e.ToStatus, e.OccurredAt.UnixNano())
}
