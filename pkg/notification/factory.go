package notification

import (
	"log/slog"
	"sort"
	"sync"

	"github.com/shopkit-dev/shopkit/pkg/mailer"
)

// FactoryConfig carries the per-channel configuration the built-in
// strategies pull their settings from. Zero values fall back to documented
// defaults (Gmail SMTP, Twilio, Firebase).
type FactoryConfig struct {
	SMTP        SMTPConfig
	SMSProvider string `env:"SMS_PROVIDER" envDefault:"Twilio"`
	PushService string `env:"PUSH_SERVICE" envDefault:"Firebase"`

	// EmailSender and ResolveAddress, when both set, switch the email
	// strategy from simulated delivery to a real transport.
	EmailSender    mailer.EmailSender
	ResolveAddress AddressResolver

	Logger *slog.Logger
}

// StrategyConstructor builds a strategy from the factory configuration.
type StrategyConstructor func(cfg FactoryConfig) (Strategy, error)

// Factory maps channel tags to strategy constructors. The built-in channels
// are registered at construction; Register is the extension point for new
// channels, added without touching the Dispatcher.
type Factory struct {
	cfg FactoryConfig

	mu           sync.RWMutex
	constructors map[Channel]StrategyConstructor
}

// NewFactory creates a factory with the email, sms and push constructors
// registered.
func NewFactory(cfg FactoryConfig) *Factory {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	f := &Factory{
		cfg:          cfg,
		constructors: make(map[Channel]StrategyConstructor, 3),
	}

	f.Register(ChannelEmail, func(cfg FactoryConfig) (Strategy, error) {
		opts := []EmailOption{WithEmailLogger(cfg.Logger)}
		if cfg.EmailSender != nil && cfg.ResolveAddress != nil {
			opts = append(opts, WithEmailSender(cfg.EmailSender, cfg.ResolveAddress))
		}
		return NewEmailStrategy(cfg.SMTP, opts...)
	})
	f.Register(ChannelSMS, func(cfg FactoryConfig) (Strategy, error) {
		return NewSMSStrategy(cfg.SMSProvider, cfg.Logger), nil
	})
	f.Register(ChannelPush, func(cfg FactoryConfig) (Strategy, error) {
		return NewPushStrategy(cfg.PushService, cfg.Logger), nil
	})

	return f
}

// Register adds or replaces the constructor for a channel.
func (f *Factory) Register(channel Channel, ctor StrategyConstructor) {
	if ctor == nil {
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.constructors[channel] = ctor
}

// Create builds the strategy for the given channel. Unregistered channels
// yield an UnsupportedChannelError.
func (f *Factory) Create(channel Channel) (Strategy, error) {
	f.mu.RLock()
	ctor, ok := f.constructors[channel]
	f.mu.RUnlock()

	if !ok {
		return nil, &UnsupportedChannelError{Channel: channel}
	}
	return ctor(f.cfg)
}

// SupportedChannels returns the registered channel tags, sorted for stable
// output.
func (f *Factory) SupportedChannels() []Channel {
	f.mu.RLock()
	defer f.mu.RUnlock()

	out := make([]Channel, 0, len(f.constructors))
	for ch := range f.constructors {
		out = append(out, ch)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
