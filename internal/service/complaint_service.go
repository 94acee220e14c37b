package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/grievance-hub/complaint-service/internal/domain"
	"github.com/grievance-hub/complaint-service/internal/events"
	"github.com/grievance-hub/complaint-service/internal/repository"
	apperrors "github.com/grievance-hub/complaint-service/pkg/util/errorutil"
)

// EventSink receives committed transition events. Enqueue must not block on
// delivery; the state machine returns to its caller as soon as the record is
// persisted and the event handed off.
type EventSink interface {
	Enqueue(events.TransitionEvent)
}

// ComplaintService is the complaint state machine. Every mutation of a
// complaint flows through it: intake, lifecycle transitions and the feedback
// side-channel.
type ComplaintService struct {
	complaints repository.ComplaintRepository
	users      repository.UserRepository
	sink       EventSink
	logger     *zap.Logger

	// commitLocks spans persist+enqueue per complaint: without it a
	// fast-follow transition could enqueue its event before an earlier
	// commit's event, and the queue would dispatch them out of order.
	commitLocks *keyedMutex
}

// ComplaintDependencies bundles collaborators for the service.
type ComplaintDependencies struct {
	ComplaintRepo repository.ComplaintRepository
	UserRepo      repository.UserRepository
	Sink          EventSink
	Logger        *zap.Logger
}

// ComplaintCreateInput describes intake payload.
type ComplaintCreateInput struct {
	Title       string
	Description string
	Category    domain.Category
}

// TransitionExtras carries edge-specific payload: the staff member for
// Open->Assigned, resolution notes for ->Resolved.
type TransitionExtras struct {
	AssigneeID      *string
	ResolutionNotes *string
}

// NewComplaintService constructs the service.
func NewComplaintService(deps ComplaintDependencies) *ComplaintService {
	return &ComplaintService{
		complaints:  deps.ComplaintRepo,
		users:       deps.UserRepo,
		sink:        deps.Sink,
		logger:      deps.Logger,
		commitLocks: newKeyedMutex(),
	}
}

// Create registers a complaint for a submitter and emits the creation
// pseudo-event (submitter confirmation + admin alert).
func (s *ComplaintService) Create(ctx context.Context, submitterID string, input ComplaintCreateInput) (*domain.Complaint, error) {
	title := strings.TrimSpace(input.Title)
	description := strings.TrimSpace(input.Description)
	if title == "" || description == "" {
		return nil, apperrors.NewValidationError("title and description are required", nil)
	}
	if !domain.ValidCategory(input.Category) {
		return nil, apperrors.NewValidationError("invalid category", map[string]any{"category": input.Category})
	}

	complaint := &domain.Complaint{
		ExternalKey: generateComplaintKey(),
		SubmitterID: submitterID,
		Title:       title,
		Description: description,
		Category:    input.Category,
		Status:      domain.StatusOpen,
	}
	if err := s.complaints.Create(ctx, complaint); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.commitLocks.Lock(complaint.ID)
	defer s.commitLocks.Unlock(complaint.ID)

	s.emit(events.TransitionEvent{
		Type:           events.EventComplaintCreated,
		ComplaintID:    complaint.ID,
		ComplaintTitle: complaint.Title,
		SubmitterID:    complaint.SubmitterID,
		ToStatus:       domain.StatusOpen,
		ActorID:        submitterID,
		ActorRole:      domain.RoleUser,
		Category:       complaint.Category,
	})
	return complaint, nil
}

// Transition validates the requested edge, commits the mutation with an
// optimistic version check, and emits exactly one TransitionEvent. Rejections
// leave storage untouched; the caller never waits on notification delivery.
func (s *ComplaintService) Transition(ctx context.Context, complaintID string, actor domain.Actor, requested domain.Status, extras TransitionExtras) (*domain.Complaint, error) {
	complaint, err := s.loadComplaint(ctx, complaintID)
	if err != nil {
		return nil, err
	}
	if err := decideTransition(complaint, actor, requested); err != nil {
		return nil, err
	}

	fromStatus := complaint.Status
	loadedVersion := complaint.UpdatedAt

	if requested == domain.StatusAssigned {
		if extras.AssigneeID == nil {
			return nil, apperrors.NewInvalidAssignee("")
		}
		assignee, err := s.users.GetByID(ctx, *extras.AssigneeID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.NewInvalidAssignee(*extras.AssigneeID)
			}
			return nil, apperrors.MapError(err)
		}
		if assignee.Role != domain.RoleStaff {
			return nil, apperrors.NewInvalidAssignee(assignee.ID)
		}
		complaint.AssigneeID = &assignee.ID
	}
	if requested == domain.StatusResolved && extras.ResolutionNotes != nil {
		notes := strings.TrimSpace(*extras.ResolutionNotes)
		if notes != "" {
			complaint.ResolutionNotes = &notes
		}
	}
	complaint.Status = requested

	s.commitLocks.Lock(complaint.ID)
	defer s.commitLocks.Unlock(complaint.ID)

	if err := s.complaints.UpdateLifecycle(ctx, complaint, loadedVersion); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewConcurrentModification("complaint")
		}
		return nil, apperrors.MapError(err)
	}

	s.emit(events.TransitionEvent{
		Type:            events.EventStatusChanged,
		ComplaintID:     complaint.ID,
		ComplaintTitle:  complaint.Title,
		SubmitterID:     complaint.SubmitterID,
		AssigneeID:      complaint.AssigneeID,
		FromStatus:      fromStatus,
		ToStatus:        requested,
		ActorID:         actor.ID,
		ActorRole:       actor.Role,
		ResolutionNotes: complaint.ResolutionNotes,
	})
	return complaint, nil
}

// SubmitFeedback records a one-time rating on a resolved complaint and
// notifies the assignee plus all admins.
func (s *ComplaintService) SubmitFeedback(ctx context.Context, complaintID, actorID string, rating int, comment string) (*domain.Complaint, error) {
	if rating < 1 || rating > 5 {
		return nil, apperrors.NewValidationError("rating must be between 1 and 5", map[string]any{"rating": rating})
	}

	complaint, err := s.loadComplaint(ctx, complaintID)
	if err != nil {
		return nil, err
	}
	if err := decideFeedback(complaint, domain.Actor{ID: actorID, Role: domain.RoleUser}); err != nil {
		return nil, err
	}

	loadedVersion := complaint.UpdatedAt
	complaint.FeedbackRating = &rating
	trimmed := strings.TrimSpace(comment)
	if trimmed != "" {
		complaint.FeedbackComment = &trimmed
	}

	s.commitLocks.Lock(complaint.ID)
	defer s.commitLocks.Unlock(complaint.ID)

	if err := s.complaints.SetFeedback(ctx, complaint, loadedVersion); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Either a concurrent writer bumped the version or feedback
			// landed first; reload to report the precise reason.
			current, loadErr := s.loadComplaint(ctx, complaintID)
			if loadErr == nil && current.HasFeedback() {
				return nil, apperrors.NewFeedbackNotAllowed("feedback was already submitted")
			}
			return nil, apperrors.NewConcurrentModification("complaint")
		}
		return nil, apperrors.MapError(err)
	}

	s.emit(events.TransitionEvent{
		Type:           events.EventFeedbackSubmitted,
		ComplaintID:    complaint.ID,
		ComplaintTitle: complaint.Title,
		SubmitterID:    complaint.SubmitterID,
		AssigneeID:     complaint.AssigneeID,
		FromStatus:     domain.StatusResolved,
		ToStatus:       domain.StatusResolved,
		ActorID:        actorID,
		ActorRole:      domain.RoleUser,
		Rating:         complaint.FeedbackRating,
	})
	return complaint, nil
}

// GetForActor fetches a complaint applying role-based access: submitters see
// their own, staff their assignments, admins everything.
func (s *ComplaintService) GetForActor(ctx context.Context, actor domain.Actor, complaintID string) (*domain.Complaint, error) {
	complaint, err := s.loadComplaint(ctx, complaintID)
	if err != nil {
		return nil, err
	}
	switch actor.Role {
	case domain.RoleAdmin:
	case domain.RoleStaff:
		if !complaint.AssignedTo(actor.ID) {
			return nil, apperrors.NewForbidden("access denied")
		}
	default:
		if complaint.SubmitterID != actor.ID {
			return nil, apperrors.NewForbidden("access denied")
		}
	}
	return complaint, nil
}

// ListForSubmitter returns the submitter's own complaints.
func (s *ComplaintService) ListForSubmitter(ctx context.Context, submitterID string, limit, offset int) ([]domain.Complaint, error) {
	result, err := s.complaints.ListBySubmitter(ctx, submitterID, limit, offset)
	return result, apperrors.MapError(err)
}

// ListForAssignee returns complaints assigned to a staff member.
func (s *ComplaintService) ListForAssignee(ctx context.Context, assigneeID string, limit, offset int) ([]domain.Complaint, error) {
	result, err := s.complaints.ListByAssignee(ctx, assigneeID, limit, offset)
	return result, apperrors.MapError(err)
}

// ListAll returns every complaint for administrators.
func (s *ComplaintService) ListAll(ctx context.Context, limit, offset int) ([]domain.Complaint, error) {
	result, err := s.complaints.ListAll(ctx, limit, offset)
	return result, apperrors.MapError(err)
}

// Analytics summarizes complaint and user populations for the admin dashboard.
type Analytics struct {
	StatusCounts   []repository.StatusCount
	CategoryCounts []repository.CategoryCount
	RoleCounts     []repository.RoleCount
}

// GetAnalytics aggregates dashboard counters.
func (s *ComplaintService) GetAnalytics(ctx context.Context) (*Analytics, error) {
	statusCounts, err := s.complaints.CountByStatus(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	categoryCounts, err := s.complaints.CountByCategory(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	roleCounts, err := s.users.CountByRole(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return &Analytics{
		StatusCounts:   statusCounts,
		CategoryCounts: categoryCounts,
		RoleCounts:     roleCounts,
	}, nil
}

func (s *ComplaintService) loadComplaint(ctx context.Context, complaintID string) (*domain.Complaint, error) {
	complaint, err := s.complaints.GetByID(ctx, complaintID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("complaint", map[string]any{"complaint_id": complaintID})
		}
		return nil, apperrors.MapError(err)
	}
	return complaint, nil
}

func (s *ComplaintService) emit(event events.TransitionEvent) {
	if s.sink == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}
	s.sink.Enqueue(event)
}

func generateComplaintKey() string {
	return "CMP-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}
