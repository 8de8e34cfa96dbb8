package notification

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopkit-dev/shopkit/pkg/eventbus"
)

// DeliveryOutcome is the transient per-channel result of one send attempt.
type DeliveryOutcome struct {
	Channel  Channel
	Strategy string
	Err      error
}

// Succeeded reports whether the channel accepted the notification.
func (o DeliveryOutcome) Succeeded() bool { return o.Err == nil }

// BulkResult summarizes a bulk send.
type BulkResult struct {
	Sent   int `json:"sent"`
	Failed int `json:"failed"`
}

// Dispatcher orchestrates persistence, multi-channel delivery and status
// transitions. It also implements eventbus.Observer so domain events turn
// into notifications without the producers knowing about this package.
type Dispatcher struct {
	storage         Storage
	factory         *Factory
	defaultChannels []Channel
	logger          *slog.Logger
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithDefaultChannels sets the channels Send uses when the caller does not
// name any. The default is email only.
func WithDefaultChannels(channels ...Channel) DispatcherOption {
	return func(d *Dispatcher) {
		d.defaultChannels = channels
	}
}

// WithDispatcherLogger sets the logger for the Dispatcher.
func WithDispatcherLogger(logger *slog.Logger) DispatcherOption {
	return func(d *Dispatcher) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// NewDispatcher creates a dispatcher over the given storage and factory.
func NewDispatcher(storage Storage, factory *Factory, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		storage:         storage,
		factory:         factory,
		defaultChannels: []Channel{ChannelEmail},
		logger:          slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Send persists the notification and dispatches it on the default channel
// set. See SendVia for the delivery semantics.
func (d *Dispatcher) Send(ctx context.Context, n Notification) (bool, error) {
	return d.SendVia(ctx, n, d.defaultChannels)
}

// SendVia persists the notification first, then attempts delivery on each of
// the given channels. Channel failures are isolated: an unsupported channel
// or a strategy error is recorded as a failed outcome and the remaining
// channels still run. The returned bool is the logical AND of all outcomes,
// so an empty channel list is vacuously successful. The persisted record
// ends up sent or failed accordingly. The error return is reserved for
// validation and persistence problems; delivery failures never raise it.
func (d *Dispatcher) SendVia(ctx context.Context, n Notification, channels []Channel) (bool, error) {
	saved, err := d.storage.Save(ctx, n)
	if err != nil {
		return false, fmt.Errorf("persist notification: %w", err)
	}

	outcomes := make([]DeliveryOutcome, 0, len(channels))
	for _, channel := range channels {
		outcomes = append(outcomes, d.deliver(ctx, saved, channel))
	}

	ok := true
	for _, outcome := range outcomes {
		if outcome.Succeeded() {
			d.logger.InfoContext(ctx, "notification delivered",
				slog.Int64("notification_id", saved.ID),
				slog.String("strategy", outcome.Strategy),
			)
			continue
		}
		ok = false
		d.logger.WarnContext(ctx, "notification delivery failed",
			slog.Int64("notification_id", saved.ID),
			slog.String("channel", string(outcome.Channel)),
			slog.String("error", outcome.Err.Error()),
		)
	}

	if ok {
		_, err = d.storage.MarkSent(ctx, saved.ID)
	} else {
		_, err = d.storage.MarkFailed(ctx, saved.ID)
	}
	if err != nil {
		return ok, fmt.Errorf("update notification status: %w", err)
	}
	return ok, nil
}

// deliver runs one channel attempt, converting panics inside a strategy into
// a failed outcome so a broken channel cannot take down the dispatch.
func (d *Dispatcher) deliver(ctx context.Context, n Notification, channel Channel) (outcome DeliveryOutcome) {
	outcome = DeliveryOutcome{Channel: channel}

	defer func() {
		if r := recover(); r != nil {
			outcome.Err = fmt.Errorf("strategy panic: %v", r)
		}
	}()

	strategy, err := d.factory.Create(channel)
	if err != nil {
		outcome.Err = err
		return outcome
	}

	outcome.Strategy = strategy.Name()
	outcome.Err = strategy.Send(ctx, n)
	return outcome
}

// SendBulk sends each notification independently on the default channels.
// There is no transactional grouping; one failure does not stop the rest.
func (d *Dispatcher) SendBulk(ctx context.Context, notifications []Notification) (BulkResult, error) {
	var result BulkResult
	for _, n := range notifications {
		ok, err := d.Send(ctx, n)
		if err != nil {
			return result, err
		}
		if ok {
			result.Sent++
		} else {
			result.Failed++
		}
	}
	return result, nil
}

// UserNotifications returns a user's notifications, optionally narrowed to
// one status. An empty status means no filtering.
func (d *Dispatcher) UserNotifications(ctx context.Context, userID int64, status Status) ([]Notification, error) {
	all, err := d.storage.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if status == "" {
		return all, nil
	}

	filtered := make([]Notification, 0, len(all))
	for _, n := range all {
		if n.Status == status {
			filtered = append(filtered, n)
		}
	}
	return filtered, nil
}

// PendingNotifications returns every notification still pending.
func (d *Dispatcher) PendingNotifications(ctx context.Context) ([]Notification, error) {
	return d.storage.FindByStatus(ctx, StatusPending)
}

// RetryFailed re-dispatches every failed notification on its own recorded
// channel and returns how many became sent. Retries are synchronous and
// on-demand; the dispatcher never schedules them by itself.
func (d *Dispatcher) RetryFailed(ctx context.Context) (int, error) {
	failed, err := d.storage.FindByStatus(ctx, StatusFailed)
	if err != nil {
		return 0, err
	}

	recovered := 0
	for _, n := range failed {
		ok, err := d.SendVia(ctx, n, []Channel{n.Channel})
		if err != nil {
			return recovered, err
		}
		if ok {
			recovered++
		}
	}
	return recovered, nil
}

// OnEvent implements eventbus.Observer. Known events become notifications on
// the channel natural to the event; unknown events are logged and ignored.
func (d *Dispatcher) OnEvent(ctx context.Context, event eventbus.Event) {
	var n Notification

	switch event.Name {
	case eventbus.FavoriteAdded:
		n = New(
			event.Payload.UserID,
			ChannelEmail,
			"Product added to favorites!",
			fmt.Sprintf("You added '%s' to your favorites.", productName(event.Payload)),
		)
	case eventbus.ProductPriceChanged:
		n = New(
			event.Payload.UserID,
			ChannelPush,
			"Price change!",
			fmt.Sprintf("The price of '%s' changed from $%.2f to $%.2f.",
				productName(event.Payload), event.Payload.OldPrice, event.Payload.NewPrice),
		)
	case eventbus.ProductBackInStock:
		n = New(
			event.Payload.UserID,
			ChannelSMS,
			"Product available!",
			fmt.Sprintf("'%s' is back in stock.", productName(event.Payload)),
		)
	default:
		d.logger.WarnContext(ctx, "unhandled event", slog.String("event", string(event.Name)))
		return
	}

	if _, err := d.SendVia(ctx, n, []Channel{n.Channel}); err != nil {
		d.logger.ErrorContext(ctx, "failed to send event notification",
			slog.String("event", string(event.Name)),
			slog.String("error", err.Error()),
		)
	}
}

func productName(p eventbus.Payload) string {
	if p.ProductName != "" {
		return p.ProductName
	}
	return fmt.Sprintf("Product #%d", p.ProductID)
}
