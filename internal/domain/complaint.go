package domain

import "time"

// Status enumerates lifecycle states for complaints.
type Status string

const (
	StatusOpen       Status = "Open"
	StatusAssigned   Status = "Assigned"
	StatusInProgress Status = "In-progress"
	StatusResolved   Status = "Resolved"
)

// Category is the versioned closed set of complaint categories (v1).
// The state machine is agnostic to it; only intake validates membership.
type Category string

const (
	CategoryPlumbing    Category = "plumbing"
	CategoryElectrical  Category = "electrical"
	CategoryFacility    Category = "facility"
	CategoryMaintenance Category = "maintenance"
	CategoryCleaning    Category = "cleaning"
	CategorySecurity    Category = "security"
	CategoryOther       Category = "other"
)

// Categories lists the v1 category set in a stable order.
func Categories() []Category {
	return []Category{
		CategoryPlumbing,
		CategoryElectrical,
		CategoryFacility,
		CategoryMaintenance,
		CategoryCleaning,
		CategorySecurity,
		CategoryOther,
	}
}

// ValidCategory reports membership in the v1 category set.
func ValidCategory(c Category) bool {
	for _, known := range Categories() {
		if known == c {
			return true
		}
	}
	return false
}

// Complaint is the aggregate for facility grievances. It is mutated only
// through the state machine and never deleted.
type Complaint struct {
	ID              string
	ExternalKey     string
	SubmitterID     string
	AssigneeID      *string
	Title           string
	Description     string
	Category        Category
	Status          Status
	ResolutionNotes *string
	FeedbackRating  *int
	FeedbackComment *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// HasFeedback reports whether feedback was already submitted.
func (c *Complaint) HasFeedback() bool {
	return c.FeedbackRating != nil
}

// AssignedTo reports whether the given user is the current assignee.
func (c *Complaint) AssignedTo(userID string) bool {
	return c.AssigneeID != nil && *c.AssigneeID == userID
}
