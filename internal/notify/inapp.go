package notify

import (
	"context"

	"go.uber.org/zap"

	"github.com/grievance-hub/complaint-service/internal/domain"
	"github.com/grievance-hub/complaint-service/internal/repository"
)

// InAppChannel persists durable notification rows. It is the audit-of-record
// channel: no retry, no timeout, fails only when storage is unreachable.
type InAppChannel struct {
	notifications repository.NotificationRepository
	cache         *UnreadCache
	logger        *zap.Logger
}

// NewInAppChannel constructs the channel.
func NewInAppChannel(notifications repository.NotificationRepository, cache *UnreadCache, logger *zap.Logger) *InAppChannel {
	return &InAppChannel{notifications: notifications, cache: cache, logger: logger}
}

// Channel implements ChannelAdapter.
func (c *InAppChannel) Channel() domain.Channel {
	return domain.ChannelInApp
}

// Send writes the notification row and invalidates the recipient's cached
// unread count.
func (c *InAppChannel) Send(ctx context.Context, recipient *domain.User, msg Message) error {
	notification := &domain.Notification{
		RecipientID: recipient.ID,
		ComplaintID: msg.ComplaintID,
		Title:       msg.Title,
		Body:        msg.Body,
	}
	if err := c.notifications.Create(ctx, notification); err != nil {
		return err
	}
	c.cache.Invalidate(ctx, recipient.ID)
	return nil
}
