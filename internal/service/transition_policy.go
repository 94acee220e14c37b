package service

import (
	"github.com/grievance-hub/complaint-service/internal/domain"
	apperrors "github.com/grievance-hub/complaint-service/pkg/util/errorutil"
)

// Lifecycle edges and the role required to traverse them. Staff edges are
// additionally restricted to the complaint's current assignee.
var allowedTransitions = map[domain.Status]map[domain.Status]domain.Role{
	domain.StatusOpen: {
		domain.StatusAssigned: domain.RoleAdmin,
	},
	domain.StatusAssigned: {
		domain.StatusInProgress: domain.RoleStaff,
		domain.StatusResolved:   domain.RoleStaff,
	},
	domain.StatusInProgress: {
		domain.StatusResolved: domain.RoleStaff,
	},
}

// decideTransition is the pure transition policy: it inspects the loaded
// record and the actor but never mutates either. A nil return allows the
// edge; otherwise the typed rejection is returned to the caller untouched.
func decideTransition(complaint *domain.Complaint, actor domain.Actor, requested domain.Status) error {
	edges, ok := allowedTransitions[complaint.Status]
	if !ok {
		return apperrors.NewInvalidTransition(string(complaint.Status), string(requested))
	}
	requiredRole, ok := edges[requested]
	if !ok {
		return apperrors.NewInvalidTransition(string(complaint.Status), string(requested))
	}
	if actor.Role != requiredRole {
		return apperrors.NewNotAuthorized("role " + string(actor.Role) + " may not perform this transition")
	}
	if requiredRole == domain.RoleStaff && !complaint.AssignedTo(actor.ID) {
		return apperrors.NewNotAuthorized("only the assigned staff member may work this complaint")
	}
	return nil
}

// decideFeedback gates the feedback side-channel: only the original submitter,
// only on a resolved complaint, and only once.
func decideFeedback(complaint *domain.Complaint, actor domain.Actor) error {
	if complaint.Status != domain.StatusResolved {
		return apperrors.NewFeedbackNotAllowed("feedback is only accepted on resolved complaints")
	}
	if actor.ID != complaint.SubmitterID {
		return apperrors.NewFeedbackNotAllowed("only the submitter may rate a complaint")
	}
	if complaint.HasFeedback() {
		return apperrors.NewFeedbackNotAllowed("feedback was already submitted")
	}
	return nil
}
