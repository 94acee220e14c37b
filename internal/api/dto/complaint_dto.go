package dto

import (
	"time"

	"github.com/grievance-hub/complaint-service/internal/domain"
)

// CreateComplaintRequest payload.
type CreateComplaintRequest struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Category    domain.Category `json:"category"`
}

// AssignComplaintRequest payload.
type AssignComplaintRequest struct {
	StaffID string `json:"staff_id"`
}

// UpdateStatusRequest payload.
type UpdateStatusRequest struct {
	Status          domain.Status `json:"status"`
	ResolutionNotes *string       `json:"resolution_notes,omitempty"`
}

// SubmitFeedbackRequest payload.
type SubmitFeedbackRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment,omitempty"`
}

// ComplaintResponse is the full complaint view.
type ComplaintResponse struct {
	ID              string          `json:"id"`
	ExternalKey     string          `json:"external_key"`
	SubmitterID     string          `json:"submitter_id"`
	AssigneeID      *string         `json:"assignee_id,omitempty"`
	Title           string          `json:"title"`
	Description     string          `json:"description"`
	Category        domain.Category `json:"category"`
	Status          domain.Status   `json:"status"`
	ResolutionNotes *string         `json:"resolution_notes,omitempty"`
	FeedbackRating  *int            `json:"feedback_rating,omitempty"`
	FeedbackComment *string         `json:"feedback_comment,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}
