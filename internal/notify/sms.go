package notify

import (
	"context"
	"strings"

	"github.com/twilio/twilio-go"
	twilioapi "github.com/twilio/twilio-go/rest/api/v2010"
	"go.uber.org/zap"

	"github.com/grievance-hub/complaint-service/internal/config"
	"github.com/grievance-hub/complaint-service/internal/domain"
)

// SMSSender is the wire transport behind the SMS channel.
type SMSSender interface {
	Send(ctx context.Context, phone, text string) error
}

// TwilioSender sends texts through the Twilio REST API.
type TwilioSender struct {
	client *twilio.RestClient
	from   string
}

// NewTwilioSender builds the transport from credentials. Callers should only
// construct it when the configuration is complete (cfg.Enabled()).
func NewTwilioSender(cfg config.SMSConfig) *TwilioSender {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.AccountSID,
		Password: cfg.AuthToken,
	})
	return &TwilioSender{client: client, from: cfg.FromNumber}
}

// Send implements SMSSender. The Twilio client has no context plumbing; the
// per-attempt timeout is enforced around this call by the channel.
func (t *TwilioSender) Send(_ context.Context, phone, text string) error {
	params := &twilioapi.CreateMessageParams{}
	params.SetTo(phone)
	params.SetFrom(t.from)
	params.SetBody(text)
	_, err := t.client.Api.CreateMessage(params)
	return err
}

// SMSChannel delivers texts with bounded retry. A nil sender means the
// transport is unconfigured and every send is a silent no-op success.
type SMSChannel struct {
	sender      SMSSender
	countryCode string
	retry       RetryPolicy
	logger      *zap.Logger
}

// NewSMSChannel constructs the channel.
func NewSMSChannel(sender SMSSender, countryCode string, retry RetryPolicy, logger *zap.Logger) *SMSChannel {
	return &SMSChannel{sender: sender, countryCode: countryCode, retry: retry, logger: logger}
}

// Channel implements ChannelAdapter.
func (c *SMSChannel) Channel() domain.Channel {
	return domain.ChannelSMS
}

// Send texts the recipient's phone. Recipients without a phone are skipped.
func (c *SMSChannel) Send(ctx context.Context, recipient *domain.User, msg Message) error {
	if c.sender == nil {
		c.logger.Debug("sms channel disabled, skipping",
			zap.String("recipient_id", recipient.ID),
			zap.String("complaint_id", msg.ComplaintID))
		return nil
	}
	if recipient.Phone == nil || strings.TrimSpace(*recipient.Phone) == "" {
		return nil
	}
	phone := c.normalizePhone(*recipient.Phone)
	return sendWithRetry(ctx, c.retry, func(attemptCtx context.Context) error {
		return c.sender.Send(attemptCtx, phone, msg.Body)
	})
}

// normalizePhone strips separators and prefixes the default country code when
// no international prefix is present.
func (c *SMSChannel) normalizePhone(phone string) string {
	phone = strings.ReplaceAll(phone, " ", "")
	phone = strings.ReplaceAll(phone, "-", "")
	if strings.HasPrefix(phone, "+") {
		return phone
	}
	return c.countryCode + strings.TrimLeft(phone, "0")
}
