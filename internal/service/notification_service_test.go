package service

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/grievance-hub/complaint-service/internal/domain"
	"github.com/grievance-hub/complaint-service/internal/notify"
	apperrors "github.com/grievance-hub/complaint-service/pkg/util/errorutil"
)

type fakeNotificationRepo struct {
	rows        []domain.Notification
	unreadCalls int
}

func (f *fakeNotificationRepo) Create(_ context.Context, notification *domain.Notification) error {
	f.rows = append(f.rows, *notification)
	return nil
}

func (f *fakeNotificationRepo) ListByRecipient(_ context.Context, recipientID string, _ int) ([]domain.Notification, error) {
	var result []domain.Notification
	for _, row := range f.rows {
		if row.RecipientID == recipientID {
			result = append(result, row)
		}
	}
	return result, nil
}

func (f *fakeNotificationRepo) UnreadCount(_ context.Context, recipientID string) (int64, error) {
	f.unreadCalls++
	var count int64
	for _, row := range f.rows {
		if row.RecipientID == recipientID && !row.Read {
			count++
		}
	}
	return count, nil
}

func (f *fakeNotificationRepo) MarkRead(_ context.Context, id, recipientID string) error {
	for i, row := range f.rows {
		if row.ID == id && row.RecipientID == recipientID {
			f.rows[i].Read = true
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (f *fakeNotificationRepo) MarkAllRead(_ context.Context, recipientID string) error {
	for i, row := range f.rows {
		if row.RecipientID == recipientID {
			f.rows[i].Read = true
		}
	}
	return nil
}

func newNotificationTestService(repo *fakeNotificationRepo) *NotificationService {
	// A nil Redis client disables caching, so every read hits the repo.
	return NewNotificationService(repo, notify.NewUnreadCache(nil), zap.NewNop())
}

func TestNotificationListScopedToRecipient(t *testing.T) {
	repo := &fakeNotificationRepo{rows: []domain.Notification{
		{ID: "n-1", RecipientID: "user-1", Title: "a"},
		{ID: "n-2", RecipientID: "user-2", Title: "b"},
	}}
	svc := newNotificationTestService(repo)

	rows, err := svc.List(context.Background(), "user-1", 20)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "n-1", rows[0].ID)
}

func TestUnreadCountAndMarkRead(t *testing.T) {
	repo := &fakeNotificationRepo{rows: []domain.Notification{
		{ID: "n-1", RecipientID: "user-1"},
		{ID: "n-2", RecipientID: "user-1"},
	}}
	svc := newNotificationTestService(repo)

	count, err := svc.UnreadCount(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	require.NoError(t, svc.MarkRead(context.Background(), "n-1", "user-1"))

	count, err = svc.UnreadCount(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	require.NoError(t, svc.MarkAllRead(context.Background(), "user-1"))

	count, err = svc.UnreadCount(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestMarkReadScopedToRecipient(t *testing.T) {
	repo := &fakeNotificationRepo{rows: []domain.Notification{
		{ID: "n-1", RecipientID: "user-1"},
	}}
	svc := newNotificationTestService(repo)

	err := svc.MarkRead(context.Background(), "n-1", "user-2")
	assert.True(t, apperrors.IsCode(err, apperrors.CodeNotFound), "another user's notification reads as missing")
}
