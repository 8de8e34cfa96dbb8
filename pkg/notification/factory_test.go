package notification_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopkit-dev/shopkit/pkg/notification"
)

func TestFactory_CreateBuiltins(t *testing.T) {
	t.Parallel()

	factory := notification.NewFactory(notification.FactoryConfig{})

	tests := []struct {
		channel notification.Channel
		want    string
	}{
		{channel: notification.ChannelEmail, want: "EmailStrategy"},
		{channel: notification.ChannelSMS, want: "SMSStrategy"},
		{channel: notification.ChannelPush, want: "PushStrategy"},
	}

	for _, tt := range tests {
		t.Run(string(tt.channel), func(t *testing.T) {
			t.Parallel()

			strategy, err := factory.Create(tt.channel)
			require.NoError(t, err)
			assert.Equal(t, tt.want, strategy.Name())
		})
	}
}

func TestFactory_CreateUnsupportedChannel(t *testing.T) {
	t.Parallel()

	factory := notification.NewFactory(notification.FactoryConfig{})

	_, err := factory.Create("whatsapp")
	require.Error(t, err)
	assert.True(t, notification.IsUnsupportedChannel(err))

	var typed *notification.UnsupportedChannelError
	require.ErrorAs(t, err, &typed)
	assert.Equal(t, notification.Channel("whatsapp"), typed.Channel)
}

type whatsappStrategy struct{}

func (whatsappStrategy) Send(context.Context, notification.Notification) error { return nil }
func (whatsappStrategy) Name() string                                          { return "WhatsAppStrategy" }

func TestFactory_RegisterExtendsChannels(t *testing.T) {
	t.Parallel()

	factory := notification.NewFactory(notification.FactoryConfig{})

	factory.Register("whatsapp", func(notification.FactoryConfig) (notification.Strategy, error) {
		return whatsappStrategy{}, nil
	})

	assert.Equal(t, []notification.Channel{
		notification.ChannelEmail,
		notification.ChannelPush,
		notification.ChannelSMS,
		"whatsapp",
	}, factory.SupportedChannels())

	strategy, err := factory.Create("whatsapp")
	require.NoError(t, err)
	assert.IsType(t, whatsappStrategy{}, strategy)
}

func TestFactory_RegisterOverridesExisting(t *testing.T) {
	t.Parallel()

	factory := notification.NewFactory(notification.FactoryConfig{})

	factory.Register(notification.ChannelEmail, func(notification.FactoryConfig) (notification.Strategy, error) {
		return whatsappStrategy{}, nil
	})

	strategy, err := factory.Create(notification.ChannelEmail)
	require.NoError(t, err)
	assert.Equal(t, "WhatsAppStrategy", strategy.Name())
	assert.Len(t, factory.SupportedChannels(), 3, "overriding must not add a channel")
}
