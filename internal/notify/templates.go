package notify

import (
	"fmt"

	"github.com/grievance-hub/complaint-service/internal/domain"
	"github.com/grievance-hub/complaint-service/internal/events"
)

// audience classifies a recipient relative to the complaint; per-channel text
// varies by it. The wording follows the portal's established copy.
type audience int

const (
	audienceSubmitter audience = iota
	audienceAssignee
	audienceAdmin
)

// templateContext carries everything rendering may mention: complaint title
// and id, old/new status, actor names. Internal identifiers beyond the
// complaint id never appear in message text.
type templateContext struct {
	Event         events.TransitionEvent
	SubmitterName string
}

func renderInApp(kind audience, tc templateContext) (title, body string) {
	ev := tc.Event
	switch ev.Type {
	case events.EventComplaintCreated:
		if kind == audienceAdmin {
			return "New Complaint",
				fmt.Sprintf("New complaint %q (%s) from %s. Please assign to staff.",
					ev.ComplaintTitle, ev.Category, tc.SubmitterName)
		}
		return "Complaint Registered",
			fmt.Sprintf("Your complaint %q has been registered successfully.", ev.ComplaintTitle)

	case events.EventStatusChanged:
		if kind == audienceAssignee {
			return "New Complaint Assigned",
				fmt.Sprintf("You have been assigned: %q from %s.", ev.ComplaintTitle, tc.SubmitterName)
		}
		title = fmt.Sprintf("Complaint Update: %s", ev.ToStatus)
		switch ev.ToStatus {
		case domain.StatusAssigned:
			body = fmt.Sprintf("Your complaint %q has been assigned to a staff member.", ev.ComplaintTitle)
		case domain.StatusInProgress:
			body = fmt.Sprintf("Your complaint %q is now being worked on.", ev.ComplaintTitle)
		case domain.StatusResolved:
			body = fmt.Sprintf("Your complaint %q has been resolved. Please rate your experience.", ev.ComplaintTitle)
		default:
			body = fmt.Sprintf("Your complaint %q status: %s.", ev.ComplaintTitle, ev.ToStatus)
		}
		return title, body

	case events.EventFeedbackSubmitted:
		rating := 0
		if ev.Rating != nil {
			rating = *ev.Rating
		}
		if kind == audienceAssignee {
			return "Feedback Received",
				fmt.Sprintf("User rated your resolution for %q - %d/5 stars.", ev.ComplaintTitle, rating)
		}
		return "Feedback Received",
			fmt.Sprintf("Feedback received - %q rated %d/5 by %s.", ev.ComplaintTitle, rating, tc.SubmitterName)
	}
	return "Complaint Update", fmt.Sprintf("Update on complaint %q.", ev.ComplaintTitle)
}

func renderSMS(kind audience, tc templateContext) string {
	ev := tc.Event
	switch ev.Type {
	case events.EventComplaintCreated:
		if kind == audienceAdmin {
			return fmt.Sprintf("Grievance Portal: New complaint - %q (%s) from %s. Please assign to staff.",
				ev.ComplaintTitle, ev.Category, tc.SubmitterName)
		}
		return fmt.Sprintf("Grievance Portal: Your complaint %q (ID: %s) has been registered successfully.",
			ev.ComplaintTitle, ev.ComplaintID)

	case events.EventStatusChanged:
		if kind == audienceAssignee {
			return fmt.Sprintf("Grievance Portal: New complaint assigned - %q from %s. Please login to take action.",
				ev.ComplaintTitle, tc.SubmitterName)
		}
		switch ev.ToStatus {
		case domain.StatusAssigned:
			return fmt.Sprintf("Grievance Portal: Your complaint %q has been assigned to a staff member.", ev.ComplaintTitle)
		case domain.StatusInProgress:
			return fmt.Sprintf("Grievance Portal: Your complaint %q is now being worked on.", ev.ComplaintTitle)
		case domain.StatusResolved:
			return fmt.Sprintf("Grievance Portal: Your complaint %q has been resolved. Please login to provide feedback.", ev.ComplaintTitle)
		}
		return fmt.Sprintf("Grievance Portal: Your complaint %q status: %s.", ev.ComplaintTitle, ev.ToStatus)

	case events.EventFeedbackSubmitted:
		rating := 0
		if ev.Rating != nil {
			rating = *ev.Rating
		}
		if kind == audienceAssignee {
			return fmt.Sprintf("Grievance Portal: User rated your resolution for %q - %d/5 stars.", ev.ComplaintTitle, rating)
		}
		return fmt.Sprintf("Grievance Portal: Feedback received - %q rated %d/5 by %s.", ev.ComplaintTitle, rating, tc.SubmitterName)
	}
	return fmt.Sprintf("Grievance Portal: Update on complaint %q.", ev.ComplaintTitle)
}

// renderEmail renders the submitter-facing status mails; returns ok=false for
// combinations the email channel does not cover.
func renderEmail(kind audience, tc templateContext) (subject, body string, ok bool) {
	ev := tc.Event
	if kind != audienceSubmitter || ev.Type != events.EventStatusChanged {
		return "", "", false
	}

	if ev.ToStatus == domain.StatusResolved {
		notes := "Issue has been resolved."
		if ev.ResolutionNotes != nil && *ev.ResolutionNotes != "" {
			notes = *ev.ResolutionNotes
		}
		subject = fmt.Sprintf("Your Complaint %q Has Been Resolved", ev.ComplaintTitle)
		body = fmt.Sprintf(
			"Hi %s,\n\nYour complaint has been resolved.\n\nComplaint: %s\nComplaint ID: %s\nResolution notes: %s\n\nPlease login to rate your experience.\n\nThank you for using the Complaint Portal.",
			tc.SubmitterName, ev.ComplaintTitle, ev.ComplaintID, notes)
		return subject, body, true
	}

	subject = fmt.Sprintf("Complaint Status Update: %s", ev.ToStatus)
	body = fmt.Sprintf(
		"Hi %s,\n\nThere's an update on your complaint.\n\nComplaint: %s\nComplaint ID: %s\nStatus: %s -> %s\n\nThank you for using the Complaint Portal.",
		tc.SubmitterName, ev.ComplaintTitle, ev.ComplaintID, ev.FromStatus, ev.ToStatus)
	return subject, body, true
}
