package notification

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopkit-dev/shopkit/pkg/mailer"
)

// Strategy is one delivery channel implementation. Send returns nil when the
// notification was accepted for delivery; any error counts as a failed
// outcome for that channel. Implementations must be safe for concurrent use
// and must not block beyond what a single request tolerates.
type Strategy interface {
	Send(ctx context.Context, n Notification) error
	Name() string
}

// SMTPConfig carries the email strategy's server configuration.
type SMTPConfig struct {
	Host   string `env:"SMTP_HOST" envDefault:"smtp.gmail.com"`
	Port   int    `env:"SMTP_PORT" envDefault:"587"`
	UseTLS bool   `env:"SMTP_TLS" envDefault:"true"`
}

// AddressResolver maps a user identifier to an email address. The store only
// keeps numeric user ids, so whoever owns the user database provides this.
type AddressResolver func(userID int64) string

// EmailStrategy delivers notifications over email. Without a sender it only
// simulates delivery by logging; with a mailer.EmailSender and an address
// resolver it hands the message to the real transport.
type EmailStrategy struct {
	cfg     SMTPConfig
	sender  mailer.EmailSender
	resolve AddressResolver
	logger  *slog.Logger
}

// EmailOption configures an EmailStrategy.
type EmailOption func(*EmailStrategy)

// WithEmailSender plugs in a real transport and the resolver that turns user
// ids into addresses.
func WithEmailSender(sender mailer.EmailSender, resolve AddressResolver) EmailOption {
	return func(s *EmailStrategy) {
		s.sender = sender
		s.resolve = resolve
	}
}

// WithEmailLogger sets the logger for the EmailStrategy.
func WithEmailLogger(logger *slog.Logger) EmailOption {
	return func(s *EmailStrategy) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewEmailStrategy creates the email delivery strategy.
func NewEmailStrategy(cfg SMTPConfig, opts ...EmailOption) (*EmailStrategy, error) {
	if cfg.Host == "" {
		cfg.Host = "smtp.gmail.com"
	}
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	if cfg.Port < 0 {
		return nil, fmt.Errorf("email strategy: invalid SMTP port %d", cfg.Port)
	}

	s := &EmailStrategy{cfg: cfg, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *EmailStrategy) Send(ctx context.Context, n Notification) error {
	if s.sender != nil && s.resolve != nil {
		return s.sender.SendEmail(ctx, mailer.SendEmailParams{
			SendTo:  s.resolve(n.UserID),
			Subject: n.Title,
			Body:    n.Message,
			Tag:     "notification",
		})
	}

	s.logger.InfoContext(ctx, "email notification sent (simulated)",
		slog.Int64("user_id", n.UserID),
		slog.String("subject", n.Title),
		slog.String("smtp", fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)),
	)
	return nil
}

func (s *EmailStrategy) Name() string { return "EmailStrategy" }

// SMSStrategy delivers notifications over SMS through a named provider.
// Delivery is simulated; the provider name is what a real Twilio or SNS
// client would be constructed from.
type SMSStrategy struct {
	provider string
	logger   *slog.Logger
}

// NewSMSStrategy creates the SMS delivery strategy. An empty provider
// defaults to Twilio.
func NewSMSStrategy(provider string, logger *slog.Logger) *SMSStrategy {
	if provider == "" {
		provider = "Twilio"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SMSStrategy{provider: provider, logger: logger}
}

func (s *SMSStrategy) Send(ctx context.Context, n Notification) error {
	s.logger.InfoContext(ctx, "sms notification sent (simulated)",
		slog.Int64("user_id", n.UserID),
		slog.String("provider", s.provider),
		slog.String("message", n.Message),
	)
	return nil
}

func (s *SMSStrategy) Name() string { return "SMSStrategy" }

// PushStrategy delivers push notifications through a named push service.
type PushStrategy struct {
	service string
	logger  *slog.Logger
}

// NewPushStrategy creates the push delivery strategy. An empty service
// defaults to Firebase.
func NewPushStrategy(service string, logger *slog.Logger) *PushStrategy {
	if service == "" {
		service = "Firebase"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PushStrategy{service: service, logger: logger}
}

func (s *PushStrategy) Send(ctx context.Context, n Notification) error {
	s.logger.InfoContext(ctx, "push notification sent (simulated)",
		slog.Int64("user_id", n.UserID),
		slog.String("service", s.service),
		slog.String("title", n.Title),
	)
	return nil
}

func (s *PushStrategy) Name() string { return "PushStrategy" }

// LogStrategy writes the notification to the log and always succeeds.
// Useful in development and as a harmless default in tests.
type LogStrategy struct {
	logger *slog.Logger
}

// NewLogStrategy creates the logging strategy.
func NewLogStrategy(logger *slog.Logger) *LogStrategy {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogStrategy{logger: logger}
}

func (s *LogStrategy) Send(ctx context.Context, n Notification) error {
	s.logger.InfoContext(ctx, "notification logged",
		slog.Int64("user_id", n.UserID),
		slog.String("message", n.Message),
	)
	return nil
}

func (s *LogStrategy) Name() string { return "LogStrategy" }
