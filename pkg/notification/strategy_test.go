package notification_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopkit-dev/shopkit/pkg/mailer"
	"github.com/shopkit-dev/shopkit/pkg/notification"
)

// captureSender records the params it was asked to send.
type captureSender struct {
	sent []mailer.SendEmailParams
	err  error
}

func (c *captureSender) SendEmail(_ context.Context, params mailer.SendEmailParams) error {
	if c.err != nil {
		return c.err
	}
	c.sent = append(c.sent, params)
	return nil
}

func TestEmailStrategy_SimulatedSendSucceeds(t *testing.T) {
	t.Parallel()

	strategy, err := notification.NewEmailStrategy(notification.SMTPConfig{})
	require.NoError(t, err)

	n := notification.New(1, notification.ChannelEmail, "Welcome", "Thanks")
	assert.NoError(t, strategy.Send(context.Background(), n))
	assert.Equal(t, "EmailStrategy", strategy.Name())
}

func TestEmailStrategy_InvalidPort(t *testing.T) {
	t.Parallel()

	_, err := notification.NewEmailStrategy(notification.SMTPConfig{Port: -1})
	require.Error(t, err)
}

func TestEmailStrategy_DelegatesToSender(t *testing.T) {
	t.Parallel()

	sender := &captureSender{}
	strategy, err := notification.NewEmailStrategy(
		notification.SMTPConfig{},
		notification.WithEmailSender(sender, func(userID int64) string {
			return "user@example.com"
		}),
	)
	require.NoError(t, err)

	n := notification.New(1, notification.ChannelEmail, "Welcome", "Thanks")
	require.NoError(t, strategy.Send(context.Background(), n))

	require.Len(t, sender.sent, 1)
	assert.Equal(t, "user@example.com", sender.sent[0].SendTo)
	assert.Equal(t, "Welcome", sender.sent[0].Subject)
	assert.Equal(t, "Thanks", sender.sent[0].Body)
}

func TestEmailStrategy_SenderFailurePropagates(t *testing.T) {
	t.Parallel()

	sender := &captureSender{err: errors.New("smtp down")}
	strategy, err := notification.NewEmailStrategy(
		notification.SMTPConfig{},
		notification.WithEmailSender(sender, func(int64) string { return "user@example.com" }),
	)
	require.NoError(t, err)

	n := notification.New(1, notification.ChannelEmail, "Welcome", "Thanks")
	assert.Error(t, strategy.Send(context.Background(), n))
}

func TestSMSStrategy_DefaultsProvider(t *testing.T) {
	t.Parallel()

	strategy := notification.NewSMSStrategy("", nil)
	n := notification.New(1, notification.ChannelSMS, "T", "M")

	assert.NoError(t, strategy.Send(context.Background(), n))
	assert.Equal(t, "SMSStrategy", strategy.Name())
}

func TestPushStrategy_Send(t *testing.T) {
	t.Parallel()

	strategy := notification.NewPushStrategy("OneSignal", nil)
	n := notification.New(1, notification.ChannelPush, "T", "M")

	assert.NoError(t, strategy.Send(context.Background(), n))
	assert.Equal(t, "PushStrategy", strategy.Name())
}

func TestLogStrategy_AlwaysSucceeds(t *testing.T) {
	t.Parallel()

	strategy := notification.NewLogStrategy(nil)
	n := notification.New(1, notification.ChannelEmail, "T", "M")

	assert.NoError(t, strategy.Send(context.Background(), n))
	assert.Equal(t, "LogStrategy", strategy.Name())
}
