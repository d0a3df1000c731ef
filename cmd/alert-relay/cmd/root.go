package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/alert-relay/internal/config"
	"github.com/oshokin/alert-relay/internal/service/server"
	"github.com/oshokin/alert-relay/internal/version"
)

var (
	// configPath to the configuration YAML file.
	configPath string
	// contactsFile path to the JSON contact directory.
	contactsFile string

	// rootCmd represents the base command for running the webhook server.
	rootCmd = &cobra.Command{
		Use:   "alert-relay [listen-address]",
		Short: "Run the alert relay webhook server.",
		Long: `Starts the HTTP server that receives alert-notification webhooks and relays
each alert to the resolved team's members over SMS.

The server listens on the address from the configuration file unless a listen
address argument is provided (e.g., :9090, 0.0.0.0:8000). Access tokens for
the SMS gateway are cached in Redis so concurrent instances share one token.
The contact directory is loaded once at startup; the process refuses to start
without it.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			// Use listen address argument if provided, otherwise rely on config.
			var listenAddress string
			if len(args) > 0 {
				listenAddress = args[0]
			}

			options := &server.Options{
				ConfigPath:    configPath,
				ListenAddress: listenAddress,
				ContactsFile:  contactsFile,
			}

			return server.Run(ctx, options)
		},
	}
)

// Execute runs the alert-relay CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup command flags with consistent naming and descriptions.
	rootCmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.Flags().
		StringVarP(&contactsFile, "contacts", "d", "", "path to the JSON contact directory (overrides config)")
}
