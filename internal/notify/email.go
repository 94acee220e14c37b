package notify

import (
	"context"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	sestypes "github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	"go.uber.org/zap"

	"github.com/grievance-hub/complaint-service/internal/domain"
)

// EmailSender is the wire transport behind the email channel.
type EmailSender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// SESSender sends mail through AWS SESv2.
type SESSender struct {
	client *sesv2.Client
	from   string
}

// NewSESSender builds the transport from a resolved AWS config.
func NewSESSender(cfg aws.Config, from string) *SESSender {
	return &SESSender{client: sesv2.NewFromConfig(cfg), from: from}
}

// Send implements EmailSender.
func (s *SESSender) Send(ctx context.Context, to, subject, body string) error {
	_, err := s.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(s.from),
		Destination: &sestypes.Destination{
			ToAddresses: []string{to},
		},
		Content: &sestypes.EmailContent{
			Simple: &sestypes.Message{
				Subject: &sestypes.Content{Data: aws.String(subject)},
				Body: &sestypes.Body{
					Text: &sestypes.Content{Data: aws.String(body)},
				},
			},
		},
	})
	return err
}

// EmailChannel delivers mail with bounded retry. A nil sender means the
// transport is unconfigured and every send is a silent no-op success.
type EmailChannel struct {
	sender EmailSender
	retry  RetryPolicy
	logger *zap.Logger
}

// NewEmailChannel constructs the channel.
func NewEmailChannel(sender EmailSender, retry RetryPolicy, logger *zap.Logger) *EmailChannel {
	return &EmailChannel{sender: sender, retry: retry, logger: logger}
}

// Channel implements ChannelAdapter.
func (c *EmailChannel) Channel() domain.Channel {
	return domain.ChannelEmail
}

// Send mails the recipient. Recipients without an address are skipped.
func (c *EmailChannel) Send(ctx context.Context, recipient *domain.User, msg Message) error {
	if c.sender == nil {
		c.logger.Debug("email channel disabled, skipping",
			zap.String("recipient_id", recipient.ID),
			zap.String("complaint_id", msg.ComplaintID))
		return nil
	}
	if strings.TrimSpace(recipient.Email) == "" {
		return nil
	}
	return sendWithRetry(ctx, c.retry, func(attemptCtx context.Context) error {
		return c.sender.Send(attemptCtx, recipient.Email, msg.Title, msg.Body)
	})
}
