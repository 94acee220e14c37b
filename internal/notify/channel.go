package notify

import (
	"context"
	"time"

	"github.com/grievance-hub/complaint-service/internal/domain"
)

// Message is a rendered notification bound for one recipient on one channel.
// Title doubles as the email subject; SMS uses Body only.
type Message struct {
	RecipientID string
	ComplaintID string
	Channel     domain.Channel
	Title       string
	Body        string
}

// ChannelAdapter attempts delivery of a rendered message. Implementations own
// their retry policy; a returned error means the delivery is abandoned, never
// that the triggering transition failed.
type ChannelAdapter interface {
	Channel() domain.Channel
	Send(ctx context.Context, recipient *domain.User, msg Message) error
}

// RetryPolicy bounds transport attempts for the transient channels.
type RetryPolicy struct {
	MaxAttempts    int
	InitialBackoff time.Duration
	AttemptTimeout time.Duration
}

func (p RetryPolicy) normalized() RetryPolicy {
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = 3
	}
	if p.InitialBackoff <= 0 {
		p.InitialBackoff = time.Second
	}
	if p.AttemptTimeout <= 0 {
		p.AttemptTimeout = 10 * time.Second
	}
	return p
}

// sendWithRetry runs fn up to MaxAttempts times with exponential backoff,
// each attempt under its own timeout. It returns the last attempt's error.
func sendWithRetry(ctx context.Context, policy RetryPolicy, fn func(context.Context) error) error {
	policy = policy.normalized()
	backoff := policy.InitialBackoff

	var lastErr error
	for attempt := 1; attempt <= policy.MaxAttempts; attempt++ {
		attemptCtx, cancel := context.WithTimeout(ctx, policy.AttemptTimeout)
		lastErr = fn(attemptCtx)
		cancel()
		if lastErr == nil {
			return nil
		}
		if attempt == policy.MaxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}
	return lastErr
}
