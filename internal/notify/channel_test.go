package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/grievance-hub/complaint-service/internal/domain"
)

// flakySender fails a fixed number of attempts before succeeding.
type flakySender struct {
	mu       sync.Mutex
	failures int
	calls    int
	to       []string
}

func (f *flakySender) Send(_ context.Context, phone, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.to = append(f.to, phone)
	if f.calls <= f.failures {
		return errors.New("transient transport error")
	}
	return nil
}

func fastRetry() RetryPolicy {
	return RetryPolicy{MaxAttempts: 3, InitialBackoff: time.Millisecond, AttemptTimeout: time.Second}
}

func TestSMSChannelRetriesUntilSuccess(t *testing.T) {
	sender := &flakySender{failures: 2}
	ch := NewSMSChannel(sender, "+91", fastRetry(), zap.NewNop())

	err := ch.Send(context.Background(), &domain.User{ID: "u-1", Phone: phonePtr("+919800000001")}, Message{Body: "hi"})
	require.NoError(t, err)
	assert.Equal(t, 3, sender.calls)
}

func TestSMSChannelExhaustsRetries(t *testing.T) {
	sender := &flakySender{failures: 10}
	ch := NewSMSChannel(sender, "+91", fastRetry(), zap.NewNop())

	err := ch.Send(context.Background(), &domain.User{ID: "u-1", Phone: phonePtr("+919800000001")}, Message{Body: "hi"})
	require.Error(t, err)
	assert.Equal(t, 3, sender.calls, "attempts are bounded")
}

func TestSMSChannelDisabledIsNoOpSuccess(t *testing.T) {
	ch := NewSMSChannel(nil, "+91", fastRetry(), zap.NewNop())

	err := ch.Send(context.Background(), &domain.User{ID: "u-1", Phone: phonePtr("+919800000001")}, Message{Body: "hi"})
	assert.NoError(t, err)
}

func TestSMSChannelSkipsRecipientsWithoutPhone(t *testing.T) {
	sender := &flakySender{}
	ch := NewSMSChannel(sender, "+91", fastRetry(), zap.NewNop())

	require.NoError(t, ch.Send(context.Background(), &domain.User{ID: "u-1"}, Message{Body: "hi"}))
	require.NoError(t, ch.Send(context.Background(), &domain.User{ID: "u-2", Phone: phonePtr("   ")}, Message{Body: "hi"}))
	assert.Zero(t, sender.calls)
}

func TestNormalizePhone(t *testing.T) {
	ch := NewSMSChannel(&flakySender{}, "+91", fastRetry(), zap.NewNop())

	tests := []struct {
		in   string
		want string
	}{
		{"+919800000001", "+919800000001"},
		{"98000 00001", "+919800000001"},
		{"098-000-00001", "+919800000001"},
		{"+1 415 555 0000", "+14155550000"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ch.normalizePhone(tt.in), "input %q", tt.in)
	}
}

func TestSendWithRetryHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	attempts := 0
	err := sendWithRetry(ctx, RetryPolicy{MaxAttempts: 5, InitialBackoff: time.Minute, AttemptTimeout: time.Second},
		func(context.Context) error {
			attempts++
			return errors.New("fail")
		})
	require.Error(t, err)
	assert.Equal(t, 1, attempts, "cancellation skips the backoff wait")
}

func TestEmailChannelDisabledIsNoOpSuccess(t *testing.T) {
	ch := NewEmailChannel(nil, fastRetry(), zap.NewNop())

	err := ch.Send(context.Background(), &domain.User{ID: "u-1", Email: "u@example.com"}, Message{Title: "s", Body: "b"})
	assert.NoError(t, err)
}
