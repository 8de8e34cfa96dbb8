// Command server wires the store, event bus, notification dispatcher and
// HTTP API together and runs until interrupted.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/shopkit-dev/shopkit/modules/catalog"
	"github.com/shopkit-dev/shopkit/modules/favorites"
	"github.com/shopkit-dev/shopkit/modules/notifications"
	"github.com/shopkit-dev/shopkit/pkg/authtoken"
	"github.com/shopkit-dev/shopkit/pkg/config"
	"github.com/shopkit-dev/shopkit/pkg/eventbus"
	"github.com/shopkit-dev/shopkit/pkg/httpserver"
	"github.com/shopkit-dev/shopkit/pkg/jsonstore"
	"github.com/shopkit-dev/shopkit/pkg/logger"
	"github.com/shopkit-dev/shopkit/pkg/mailer"
	"github.com/shopkit-dev/shopkit/pkg/notification"
	"github.com/shopkit-dev/shopkit/pkg/requestid"
)

type appConfig struct {
	ServiceName  string `env:"SERVICE_NAME" envDefault:"shopkit"`
	DatabaseFile string `env:"DATABASE_FILE" envDefault:"db.json"`
	AuthToken    string `env:"AUTH_TOKEN" envDefault:"abcd12345"`
	DevMode      bool   `env:"DEV_MODE" envDefault:"false"`
	DevMailDir   string `env:"DEV_MAIL_DIR"`

	SMTP        notification.SMTPConfig
	SMSProvider string `env:"SMS_PROVIDER" envDefault:"Twilio"`
	PushService string `env:"PUSH_SERVICE" envDefault:"Firebase"`

	Mailer mailer.Config
	Server httpserver.Config
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	var cfg appConfig
	if err := config.Load(&cfg); err != nil {
		return err
	}

	logOpts := []logger.Option{logger.WithService(cfg.ServiceName)}
	if cfg.DevMode {
		logOpts = append(logOpts, logger.WithDevelopment())
	}
	log := logger.New(logOpts...)
	slog.SetDefault(log)

	store, err := jsonstore.Open(cfg.DatabaseFile, jsonstore.WithLogger(log))
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}

	bus := eventbus.New(eventbus.WithLogger(log))

	factoryCfg := notification.FactoryConfig{
		SMTP:        cfg.SMTP,
		SMSProvider: cfg.SMSProvider,
		PushService: cfg.PushService,
		Logger:      log,
	}
	if sender := emailSender(cfg, log); sender != nil {
		factoryCfg.EmailSender = sender
		factoryCfg.ResolveAddress = func(userID int64) string {
			return fmt.Sprintf("user-%d@shopkit.local", userID)
		}
	}

	repo := notification.NewRepository(store)
	factory := notification.NewFactory(factoryCfg)
	dispatcher := notification.NewDispatcher(repo, factory,
		notification.WithDispatcherLogger(log),
	)
	bus.Subscribe(dispatcher)

	catalogSvc := catalog.NewService(store, bus, catalog.WithLogger(log))
	favoritesSvc := favorites.NewService(store, bus,
		favorites.WithLogger(log),
		favorites.WithProductNamer(favorites.ProductNamerFunc(func(ctx context.Context, productID int64) string {
			p, err := catalogSvc.ProductByID(ctx, productID)
			if err != nil {
				return ""
			}
			return p.Name
		})),
	)

	r := chi.NewRouter()
	r.Use(requestid.Middleware)
	r.Use(middleware.Recoverer)
	r.Use(authtoken.Middleware(authtoken.NewStaticValidator(cfg.AuthToken)))
	r.Mount("/", catalog.Router(catalogSvc))
	r.Mount("/users/{userID}/favorites", favorites.Router(favoritesSvc))
	r.Mount("/notifications", notifications.Router(dispatcher))

	log.Info("starting server",
		slog.String("addr", cfg.Server.Addr),
		slog.String("database", store.Path()),
	)
	return httpserver.NewFromConfig(cfg.Server, httpserver.WithLogger(log)).Run(context.Background(), r)
}

// emailSender picks the real Postmark transport when tokens are configured,
// the file-writing dev sender when a mail directory is set, and otherwise
// nil, which leaves the email strategy in simulated mode.
func emailSender(cfg appConfig, log *slog.Logger) mailer.EmailSender {
	if cfg.Mailer.PostmarkServerToken != "" {
		sender, err := mailer.NewPostmarkSender(cfg.Mailer)
		if err != nil {
			log.Warn("postmark sender unavailable, falling back to simulated email",
				slog.String("error", err.Error()))
			return nil
		}
		return sender
	}
	if cfg.DevMailDir != "" {
		return mailer.NewDevSender(cfg.DevMailDir)
	}
	return nil
}
