package notify

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/grievance-hub/complaint-service/internal/domain"
	"github.com/grievance-hub/complaint-service/internal/events"
	"github.com/grievance-hub/complaint-service/internal/observability"
	"github.com/grievance-hub/complaint-service/internal/repository"
)

type stubUserRepo struct {
	users map[string]*domain.User
}

func (s *stubUserRepo) Create(_ context.Context, user *domain.User) error {
	s.users[user.ID] = user
	return nil
}

func (s *stubUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	user, ok := s.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return user, nil
}

func (s *stubUserRepo) GetByEmail(_ context.Context, _ string) (*domain.User, error) {
	return nil, pgx.ErrNoRows
}

func (s *stubUserRepo) ListByRole(_ context.Context, role domain.Role) ([]domain.User, error) {
	var result []domain.User
	for _, u := range s.users {
		if u.Role == role {
			result = append(result, *u)
		}
	}
	return result, nil
}

func (s *stubUserRepo) CountByRole(_ context.Context) ([]repository.RoleCount, error) {
	return nil, nil
}

// capturingChannel records every message it is asked to deliver.
type capturingChannel struct {
	mu      sync.Mutex
	channel domain.Channel
	sent    []Message
	err     error
}

func (c *capturingChannel) Channel() domain.Channel { return c.channel }

func (c *capturingChannel) Send(_ context.Context, _ *domain.User, msg Message) error {
	c.mu.Lock()
	c.sent = append(c.sent, msg)
	c.mu.Unlock()
	return c.err
}

func (c *capturingChannel) recipients() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	var ids []string
	for _, msg := range c.sent {
		ids = append(ids, msg.RecipientID)
	}
	return ids
}

func phonePtr(s string) *string { return &s }

func testUsers() *stubUserRepo {
	return &stubUserRepo{users: map[string]*domain.User{
		"user-1":  {ID: "user-1", Name: "Priya", Role: domain.RoleUser, Phone: phonePtr("+919800000001"), Email: "priya@example.com"},
		"staff-7": {ID: "staff-7", Name: "Sam", Role: domain.RoleStaff, Phone: phonePtr("+919800000002"), Email: "sam@example.com"},
		"admin-1": {ID: "admin-1", Name: "Asha", Role: domain.RoleAdmin, Phone: phonePtr("+919800000003"), Email: "asha@example.com"},
	}}
}

func newTestDispatcher(users *stubUserRepo) (*Dispatcher, *capturingChannel, *capturingChannel, *capturingChannel) {
	inApp := &capturingChannel{channel: domain.ChannelInApp}
	sms := &capturingChannel{channel: domain.ChannelSMS}
	email := &capturingChannel{channel: domain.ChannelEmail}
	d := NewDispatcher(DispatcherDependencies{
		UserRepo: users,
		InApp:    inApp,
		SMS:      sms,
		Email:    email,
		Metrics:  observability.NewMetrics(),
		Logger:   zap.NewNop(),
	})
	return d, inApp, sms, email
}

func TestHandleComplaintCreated(t *testing.T) {
	d, inApp, sms, email := newTestDispatcher(testUsers())

	d.Handle(context.Background(), events.TransitionEvent{
		ID:             "ev-1",
		Type:           events.EventComplaintCreated,
		ComplaintID:    "c-1",
		ComplaintTitle: "Broken AC",
		SubmitterID:    "user-1",
		ToStatus:       domain.StatusOpen,
		Category:       domain.CategoryMaintenance,
	})

	assert.ElementsMatch(t, []string{"user-1", "admin-1"}, inApp.recipients())
	assert.ElementsMatch(t, []string{"user-1", "admin-1"}, sms.recipients())
	assert.Empty(t, email.sent, "creation produces no email")
}

func TestHandleAssignmentNotifiesSubmitterAndAssignee(t *testing.T) {
	d, inApp, sms, email := newTestDispatcher(testUsers())

	d.Handle(context.Background(), events.TransitionEvent{
		ID:             "ev-2",
		Type:           events.EventStatusChanged,
		ComplaintID:    "c-1",
		ComplaintTitle: "Broken AC",
		SubmitterID:    "user-1",
		AssigneeID:     phonePtr("staff-7"),
		FromStatus:     domain.StatusOpen,
		ToStatus:       domain.StatusAssigned,
	})

	assert.ElementsMatch(t, []string{"user-1", "staff-7"}, inApp.recipients())
	assert.ElementsMatch(t, []string{"user-1", "staff-7"}, sms.recipients())

	// Only the submitter-facing status mail goes out.
	require.Len(t, email.sent, 1)
	assert.Equal(t, "user-1", email.sent[0].RecipientID)
}

func TestHandleResolutionEmailsSubmitter(t *testing.T) {
	d, _, _, email := newTestDispatcher(testUsers())

	d.Handle(context.Background(), events.TransitionEvent{
		ID:             "ev-3",
		Type:           events.EventStatusChanged,
		ComplaintID:    "c-1",
		ComplaintTitle: "Broken AC",
		SubmitterID:    "user-1",
		AssigneeID:     phonePtr("staff-7"),
		FromStatus:     domain.StatusInProgress,
		ToStatus:       domain.StatusResolved,
	})

	require.Len(t, email.sent, 1)
	assert.Equal(t, "user-1", email.sent[0].RecipientID)
	assert.Contains(t, email.sent[0].Title, "Resolved")
}

func TestHandleFeedbackNotifiesAssigneeAndAdmins(t *testing.T) {
	d, inApp, _, email := newTestDispatcher(testUsers())

	rating := 4
	d.Handle(context.Background(), events.TransitionEvent{
		ID:             "ev-4",
		Type:           events.EventFeedbackSubmitted,
		ComplaintID:    "c-1",
		ComplaintTitle: "Broken AC",
		SubmitterID:    "user-1",
		AssigneeID:     phonePtr("staff-7"),
		FromStatus:     domain.StatusResolved,
		ToStatus:       domain.StatusResolved,
		Rating:         &rating,
	})

	assert.ElementsMatch(t, []string{"staff-7", "admin-1"}, inApp.recipients())
	assert.Empty(t, email.sent)
}

func TestHandleSkipsSMSWithoutPhone(t *testing.T) {
	users := testUsers()
	users.users["user-1"].Phone = nil
	d, inApp, sms, _ := newTestDispatcher(users)

	d.Handle(context.Background(), events.TransitionEvent{
		ID:             "ev-5",
		Type:           events.EventStatusChanged,
		ComplaintID:    "c-1",
		ComplaintTitle: "Broken AC",
		SubmitterID:    "user-1",
		FromStatus:     domain.StatusAssigned,
		ToStatus:       domain.StatusInProgress,
	})

	assert.ElementsMatch(t, []string{"user-1"}, inApp.recipients())
	assert.Empty(t, sms.sent)
}

func TestHandleDropsEventWhenSubmitterUnresolvable(t *testing.T) {
	d, inApp, sms, email := newTestDispatcher(testUsers())

	d.Handle(context.Background(), events.TransitionEvent{
		ID:          "ev-6",
		Type:        events.EventComplaintCreated,
		ComplaintID: "c-1",
		SubmitterID: "ghost",
	})

	assert.Empty(t, inApp.sent)
	assert.Empty(t, sms.sent)
	assert.Empty(t, email.sent)
}

func TestHandleChannelFailureIsIsolated(t *testing.T) {
	users := testUsers()
	inApp := &capturingChannel{channel: domain.ChannelInApp}
	sms := &capturingChannel{channel: domain.ChannelSMS, err: errors.New("twilio down")}
	email := &capturingChannel{channel: domain.ChannelEmail}
	metrics := observability.NewMetrics()
	d := NewDispatcher(DispatcherDependencies{
		UserRepo: users,
		InApp:    inApp,
		SMS:      sms,
		Email:    email,
		Metrics:  metrics,
		Logger:   zap.NewNop(),
	})

	d.Handle(context.Background(), events.TransitionEvent{
		ID:             "ev-7",
		Type:           events.EventStatusChanged,
		ComplaintID:    "c-1",
		ComplaintTitle: "Broken AC",
		SubmitterID:    "user-1",
		FromStatus:     domain.StatusAssigned,
		ToStatus:       domain.StatusInProgress,
	})

	// In-app and email still go out when SMS fails.
	assert.Len(t, inApp.sent, 1)
	assert.Len(t, email.sent, 1)
	assert.Equal(t, int64(1), metrics.DeliveryCount(string(domain.ChannelSMS), false))
	assert.Equal(t, int64(1), metrics.DeliveryCount(string(domain.ChannelInApp), true))
}
