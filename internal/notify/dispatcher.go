package notify

import (
	"context"

	"go.uber.org/zap"

	"github.com/grievance-hub/complaint-service/internal/domain"
	"github.com/grievance-hub/complaint-service/internal/events"
	"github.com/grievance-hub/complaint-service/internal/observability"
	"github.com/grievance-hub/complaint-service/internal/repository"
)

// Dispatcher turns a TransitionEvent into per-recipient messages and fans
// them out to the channel adapters. Audience resolution happens exactly once
// per event; each channel then delivers (or fails) independently.
//
// Everything here is best-effort: the triggering transition already committed,
// so failures are logged and counted, never surfaced to the original caller.
type Dispatcher struct {
	users   repository.UserRepository
	inApp   ChannelAdapter
	sms     ChannelAdapter
	email   ChannelAdapter
	metrics *observability.Metrics
	logger  *zap.Logger
}

// DispatcherDependencies bundles collaborators for the dispatcher.
type DispatcherDependencies struct {
	UserRepo repository.UserRepository
	InApp    ChannelAdapter
	SMS      ChannelAdapter
	Email    ChannelAdapter
	Metrics  *observability.Metrics
	Logger   *zap.Logger
}

// NewDispatcher constructs the dispatcher.
func NewDispatcher(deps DispatcherDependencies) *Dispatcher {
	return &Dispatcher{
		users:   deps.UserRepo,
		inApp:   deps.InApp,
		sms:     deps.SMS,
		email:   deps.Email,
		metrics: deps.Metrics,
		logger:  deps.Logger,
	}
}

type recipientPlan struct {
	user *domain.User
	kind audience
}

// Handle consumes one event from the per-complaint queue.
func (d *Dispatcher) Handle(ctx context.Context, event events.TransitionEvent) {
	plans, tc, err := d.resolveAudience(ctx, event)
	if err != nil {
		// Best-effort: an unresolvable audience drops the event.
		d.logger.Error("audience resolution failed, dropping event",
			zap.String("event_id", event.ID),
			zap.String("idempotency_key", event.IdempotencyKey()),
			zap.String("complaint_id", event.ComplaintID),
			zap.Error(err))
		return
	}

	for _, plan := range plans {
		d.deliver(ctx, event, plan, tc)
	}
}

// resolveAudience loads the recipients a transition must notify.
func (d *Dispatcher) resolveAudience(ctx context.Context, event events.TransitionEvent) ([]recipientPlan, templateContext, error) {
	tc := templateContext{Event: event}

	submitter, err := d.users.GetByID(ctx, event.SubmitterID)
	if err != nil {
		return nil, tc, err
	}
	tc.SubmitterName = submitter.Name

	var plans []recipientPlan
	switch event.Type {
	case events.EventComplaintCreated:
		plans = append(plans, recipientPlan{user: submitter, kind: audienceSubmitter})
		admins, err := d.users.ListByRole(ctx, domain.RoleAdmin)
		if err != nil {
			return nil, tc, err
		}
		for i := range admins {
			plans = append(plans, recipientPlan{user: &admins[i], kind: audienceAdmin})
		}

	case events.EventStatusChanged:
		plans = append(plans, recipientPlan{user: submitter, kind: audienceSubmitter})
		if event.ToStatus == domain.StatusAssigned && event.AssigneeID != nil {
			assignee, err := d.users.GetByID(ctx, *event.AssigneeID)
			if err != nil {
				return nil, tc, err
			}
			plans = append(plans, recipientPlan{user: assignee, kind: audienceAssignee})
		}

	case events.EventFeedbackSubmitted:
		if event.AssigneeID != nil {
			assignee, err := d.users.GetByID(ctx, *event.AssigneeID)
			if err != nil {
				return nil, tc, err
			}
			plans = append(plans, recipientPlan{user: assignee, kind: audienceAssignee})
		}
		admins, err := d.users.ListByRole(ctx, domain.RoleAdmin)
		if err != nil {
			return nil, tc, err
		}
		for i := range admins {
			plans = append(plans, recipientPlan{user: &admins[i], kind: audienceAdmin})
		}

	default:
		d.logger.Warn("unknown event type", zap.String("type", string(event.Type)))
	}
	return plans, tc, nil
}

// deliver renders one message per enabled channel for the recipient and hands
// each to its adapter: always in-app; SMS when a phone is configured; email
// for the submitter-facing status mails.
func (d *Dispatcher) deliver(ctx context.Context, event events.TransitionEvent, plan recipientPlan, tc templateContext) {
	title, body := renderInApp(plan.kind, tc)
	d.send(ctx, d.inApp, plan.user, Message{
		RecipientID: plan.user.ID,
		ComplaintID: event.ComplaintID,
		Channel:     domain.ChannelInApp,
		Title:       title,
		Body:        body,
	})

	if d.sms != nil && plan.user.Phone != nil {
		d.send(ctx, d.sms, plan.user, Message{
			RecipientID: plan.user.ID,
			ComplaintID: event.ComplaintID,
			Channel:     domain.ChannelSMS,
			Body:        renderSMS(plan.kind, tc),
		})
	}

	if d.email != nil {
		if subject, emailBody, ok := renderEmail(plan.kind, tc); ok {
			d.send(ctx, d.email, plan.user, Message{
				RecipientID: plan.user.ID,
				ComplaintID: event.ComplaintID,
				Channel:     domain.ChannelEmail,
				Title:       subject,
				Body:        emailBody,
			})
		}
	}
}

func (d *Dispatcher) send(ctx context.Context, adapter ChannelAdapter, recipient *domain.User, msg Message) {
	err := adapter.Send(ctx, recipient, msg)
	d.metrics.RecordDelivery(string(msg.Channel), err == nil)
	if err != nil {
		d.logger.Error("notification delivery failed",
			zap.String("channel", string(msg.Channel)),
			zap.String("recipient_id", msg.RecipientID),
			zap.String("complaint_id", msg.ComplaintID),
			zap.Error(err))
	}
}
