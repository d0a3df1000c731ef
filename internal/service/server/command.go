package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/oshokin/alert-relay/internal/api/webhook"
	"github.com/oshokin/alert-relay/internal/config"
	"github.com/oshokin/alert-relay/internal/logger"
	"github.com/oshokin/alert-relay/internal/repository/contacts"
	tokenrepo "github.com/oshokin/alert-relay/internal/repository/token"
	"github.com/oshokin/alert-relay/internal/service/dispatcher"
	"github.com/oshokin/alert-relay/internal/service/sms"
	tokensvc "github.com/oshokin/alert-relay/internal/service/token"
)

// Options controls the alert-relay process and configuration.
type Options struct {
	// ConfigPath specifies the path to the settings YAML file.
	ConfigPath string
	// ListenAddress provides an optional listen address override.
	ListenAddress string
	// ContactsFile provides an optional contact directory path override.
	ContactsFile string
}

// shutdownTimeout bounds graceful HTTP server shutdown.
const shutdownTimeout = 10 * time.Second

// Run starts the webhook server and blocks until the context is canceled or
// the server stops. Configuration and contact directory failures are fatal:
// the process must not serve without them.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "alert-relay")

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	if level, ok := logger.ParseLogLevel(cfg.LogLevel); ok {
		logger.SetLevel(level)
	}

	// Command line overrides take precedence over config values.
	contactsFile := cfg.ContactsFile
	if opts.ContactsFile != "" {
		contactsFile = opts.ContactsFile
	}

	listenAddress := cfg.ListenAddress
	if opts.ListenAddress != "" {
		listenAddress = opts.ListenAddress
	}

	directory, err := contacts.NewFileDirectory(contactsFile)
	if err != nil {
		return fmt.Errorf("load contact directory: %w", err)
	}

	store, err := newTokenStore(ctx, cfg)
	if err != nil {
		return err
	}

	provider := tokensvc.NewProvider(
		store,
		&http.Client{Timeout: cfg.Timeout},
		cfg.AuthURL,
		tokensvc.Credentials{
			ClientID:     cfg.AuthClientID,
			ClientSecret: cfg.AuthClientSecret,
			Username:     cfg.AuthUsername,
			Password:     cfg.AuthPassword,
		},
		cfg.TokenTTL,
	)

	sender := sms.NewSender(cfg.SMSGatewayURL, cfg.Timeout, cfg.SMSInsecureSkipVerify)
	service := dispatcher.NewService(directory, provider, sender)
	router := webhook.NewRouter(webhook.NewHandler(service))

	httpServer := &http.Server{
		Addr:              listenAddress,
		Handler:           router,
		ReadHeaderTimeout: cfg.Timeout,
	}

	logger.InfoKV(ctx, "Alert relay listening",
		"listen_address", listenAddress, "contacts_file", contactsFile)

	// Done channel is closed after Shutdown finishes to ensure we block
	// until the server fully stops before returning.
	done := make(chan struct{})

	go func() {
		<-ctx.Done()
		logger.Info(ctx, "Shutting down HTTP server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.ErrorKV(ctx, "HTTP server shutdown failed", "error", err)
		}

		close(done)
	}()

	if err = httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve HTTP: %w", err)
	}

	<-done
	logger.Info(ctx, "HTTP server stopped")

	return nil
}

// newTokenStore selects the credential cache backend. Without a configured
// Redis address the relay keeps the token in process memory, losing reuse
// across instances but nothing else.
func newTokenStore(ctx context.Context, cfg *config.Config) (tokenrepo.Store, error) {
	if cfg.RedisAddress == "" {
		logger.Warn(ctx, "No Redis address configured, caching tokens in process memory")

		return tokenrepo.NewMemoryStore(), nil
	}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	client, err := tokenrepo.NewRedisClient(pingCtx, cfg.RedisAddress, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		return nil, fmt.Errorf("connect token cache: %w", err)
	}

	return tokenrepo.NewRedisStore(client), nil
}
