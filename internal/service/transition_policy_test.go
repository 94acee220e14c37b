package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grievance-hub/complaint-service/internal/domain"
	apperrors "github.com/grievance-hub/complaint-service/pkg/util/errorutil"
)

func strPtr(s string) *string { return &s }

func TestDecideTransitionEdges(t *testing.T) {
	staffID := "staff-7"

	tests := []struct {
		name     string
		from     domain.Status
		to       domain.Status
		actor    domain.Actor
		assignee *string
		wantCode string
	}{
		{
			name:  "admin assigns open complaint",
			from:  domain.StatusOpen,
			to:    domain.StatusAssigned,
			actor: domain.Actor{ID: "admin-1", Role: domain.RoleAdmin},
		},
		{
			name:     "assigned staff starts work",
			from:     domain.StatusAssigned,
			to:       domain.StatusInProgress,
			actor:    domain.Actor{ID: staffID, Role: domain.RoleStaff},
			assignee: &staffID,
		},
		{
			name:     "assigned staff resolves directly",
			from:     domain.StatusAssigned,
			to:       domain.StatusResolved,
			actor:    domain.Actor{ID: staffID, Role: domain.RoleStaff},
			assignee: &staffID,
		},
		{
			name:     "assigned staff resolves in-progress work",
			from:     domain.StatusInProgress,
			to:       domain.StatusResolved,
			actor:    domain.Actor{ID: staffID, Role: domain.RoleStaff},
			assignee: &staffID,
		},
		{
			name:     "open cannot jump to resolved",
			from:     domain.StatusOpen,
			to:       domain.StatusResolved,
			actor:    domain.Actor{ID: "admin-1", Role: domain.RoleAdmin},
			wantCode: apperrors.CodeInvalidTransition,
		},
		{
			name:     "open cannot jump to in-progress",
			from:     domain.StatusOpen,
			to:       domain.StatusInProgress,
			actor:    domain.Actor{ID: "admin-1", Role: domain.RoleAdmin},
			wantCode: apperrors.CodeInvalidTransition,
		},
		{
			name:     "resolved is terminal",
			from:     domain.StatusResolved,
			to:       domain.StatusInProgress,
			actor:    domain.Actor{ID: staffID, Role: domain.RoleStaff},
			assignee: &staffID,
			wantCode: apperrors.CodeInvalidTransition,
		},
		{
			name:     "no backward edge from assigned to open",
			from:     domain.StatusAssigned,
			to:       domain.StatusOpen,
			actor:    domain.Actor{ID: "admin-1", Role: domain.RoleAdmin},
			assignee: &staffID,
			wantCode: apperrors.CodeInvalidTransition,
		},
		{
			name:     "staff cannot assign",
			from:     domain.StatusOpen,
			to:       domain.StatusAssigned,
			actor:    domain.Actor{ID: staffID, Role: domain.RoleStaff},
			wantCode: apperrors.CodeNotAuthorized,
		},
		{
			name:     "admin cannot resolve",
			from:     domain.StatusAssigned,
			to:       domain.StatusResolved,
			actor:    domain.Actor{ID: "admin-1", Role: domain.RoleAdmin},
			assignee: &staffID,
			wantCode: apperrors.CodeNotAuthorized,
		},
		{
			name:     "submitter cannot resolve own complaint",
			from:     domain.StatusInProgress,
			to:       domain.StatusResolved,
			actor:    domain.Actor{ID: "user-1", Role: domain.RoleUser},
			assignee: &staffID,
			wantCode: apperrors.CodeNotAuthorized,
		},
		{
			name:     "staff other than assignee is rejected",
			from:     domain.StatusAssigned,
			to:       domain.StatusInProgress,
			actor:    domain.Actor{ID: "staff-9", Role: domain.RoleStaff},
			assignee: &staffID,
			wantCode: apperrors.CodeNotAuthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			complaint := &domain.Complaint{
				ID:          "id-42",
				SubmitterID: "user-1",
				Status:      tt.from,
				AssigneeID:  tt.assignee,
			}
			err := decideTransition(complaint, tt.actor, tt.to)
			if tt.wantCode == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, apperrors.IsCode(err, tt.wantCode), "want %s, got %v", tt.wantCode, err)
		})
	}
}

func TestDecideFeedback(t *testing.T) {
	rating := 4
	submitter := domain.Actor{ID: "user-1", Role: domain.RoleUser}

	t.Run("submitter may rate resolved complaint once", func(t *testing.T) {
		complaint := &domain.Complaint{SubmitterID: "user-1", Status: domain.StatusResolved}
		assert.NoError(t, decideFeedback(complaint, submitter))
	})

	t.Run("unresolved complaint rejects feedback", func(t *testing.T) {
		complaint := &domain.Complaint{SubmitterID: "user-1", Status: domain.StatusInProgress}
		err := decideFeedback(complaint, submitter)
		assert.True(t, apperrors.IsCode(err, apperrors.CodeFeedbackNotAllowed))
	})

	t.Run("only the submitter may rate", func(t *testing.T) {
		complaint := &domain.Complaint{SubmitterID: "user-1", Status: domain.StatusResolved}
		err := decideFeedback(complaint, domain.Actor{ID: "user-2", Role: domain.RoleUser})
		assert.True(t, apperrors.IsCode(err, apperrors.CodeFeedbackNotAllowed))
	})

	t.Run("second rating is rejected", func(t *testing.T) {
		complaint := &domain.Complaint{
			SubmitterID:    "user-1",
			Status:         domain.StatusResolved,
			FeedbackRating: &rating,
		}
		err := decideFeedback(complaint, submitter)
		assert.True(t, apperrors.IsCode(err, apperrors.CodeFeedbackNotAllowed))
	})
}
