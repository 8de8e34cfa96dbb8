// Package notification implements the event-driven notification subsystem:
// a typed repository over the flat-file store, a set of pluggable delivery
// strategies, the factory that maps channel tags to strategies, and the
// dispatcher that ties them together.
//
// # Architecture
//
// The package follows a layered design:
//
//   - Storage / Repository: persistence with status transitions
//   - Strategy: one implementation per delivery channel
//   - Factory: channel tag -> strategy constructor registry
//   - Dispatcher: orchestration, fan-out and outcome aggregation
//
// # Lifecycle
//
// A notification is created pending, persisted on first send (which assigns
// its id), and transitioned to sent or failed depending on the aggregated
// per-channel outcome. Failed notifications can be re-dispatched in bulk via
// Dispatcher.RetryFailed. A sent notification is terminal and keeps its
// original sent timestamp even if marked again.
//
// # Basic usage
//
//	store, _ := jsonstore.Open("db.json")
//	repo := notification.NewRepository(store)
//	factory := notification.NewFactory(notification.FactoryConfig{})
//	dispatcher := notification.NewDispatcher(repo, factory)
//
//	ok, err := dispatcher.SendVia(ctx,
//	    notification.New(3, notification.ChannelEmail, "Welcome", "Thanks"),
//	    []notification.Channel{notification.ChannelEmail},
//	)
//
// The dispatcher also implements eventbus.Observer; subscribe it to a bus
// and domain events such as favorite_added become notifications without the
// producers importing this package.
//
// # Extending channels
//
// New channels are added by registering a constructor:
//
//	factory.Register("webhook", func(cfg notification.FactoryConfig) (notification.Strategy, error) {
//	    return newWebhookStrategy(cfg)
//	})
//
// Delivery here is simulated: strategies log instead of performing network
// I/O. The Strategy interface is the seam where real transports plug in, as
// the email strategy demonstrates with its optional mailer.EmailSender.
package notification
