package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/grievance-hub/complaint-service/internal/domain"
	"github.com/grievance-hub/complaint-service/internal/notify"
	"github.com/grievance-hub/complaint-service/internal/repository"
	apperrors "github.com/grievance-hub/complaint-service/pkg/util/errorutil"
)

// NotificationService is the pull-based query surface for the in-app channel:
// history, unread count, read marks. Delivery is the dispatcher's job.
type NotificationService struct {
	notifications repository.NotificationRepository
	cache         *notify.UnreadCache
	logger        *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(notifications repository.NotificationRepository, cache *notify.UnreadCache, logger *zap.Logger) *NotificationService {
	return &NotificationService{notifications: notifications, cache: cache, logger: logger}
}

// List returns the recipient's notification history, newest first.
func (n *NotificationService) List(ctx context.Context, userID string, limit int) ([]domain.Notification, error) {
	result, err := n.notifications.ListByRecipient(ctx, userID, limit)
	return result, apperrors.MapError(err)
}

// UnreadCount returns the number of unread notifications, served from the
// cache when warm.
func (n *NotificationService) UnreadCount(ctx context.Context, userID string) (int64, error) {
	if count, ok := n.cache.Get(ctx, userID); ok {
		return count, nil
	}
	count, err := n.notifications.UnreadCount(ctx, userID)
	if err != nil {
		return 0, apperrors.MapError(err)
	}
	n.cache.Set(ctx, userID, count)
	return count, nil
}

// MarkRead marks one notification read, scoped to its recipient.
func (n *NotificationService) MarkRead(ctx context.Context, id, userID string) error {
	if err := n.notifications.MarkRead(ctx, id, userID); err != nil {
		return apperrors.MapError(err)
	}
	n.cache.Invalidate(ctx, userID)
	return nil
}

// MarkAllRead marks the recipient's whole inbox read.
func (n *NotificationService) MarkAllRead(ctx context.Context, userID string) error {
	if err := n.notifications.MarkAllRead(ctx, userID); err != nil {
		return apperrors.MapError(err)
	}
	n.cache.Invalidate(ctx, userID)
	return nil
}
