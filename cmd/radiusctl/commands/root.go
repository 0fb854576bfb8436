// Package commands implements the radiusctl CLI commands.
package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/lp-radius/goradius/internal/config"
	"github.com/lp-radius/goradius/internal/radiusmetrics"
	"github.com/lp-radius/goradius/internal/transport"
)

var (
	// activeClient is the transport client, initialized in PersistentPreRunE.
	activeClient *transport.Client

	// metricsCollector is attached to activeClient when non-nil. Set via
	// SetMetricsCollector before Execute is called.
	metricsCollector *radiusmetrics.Collector

	// outputFormat controls the output format for all commands (table or json).
	outputFormat string

	// serverHost is the RADIUS server hostname or literal IP address.
	serverHost string

	// authPort is the authentication/authorization/CoA UDP port.
	authPort uint16

	// acctPort is the accounting UDP port.
	acctPort uint16

	// secret is the shared secret used to sign requests and verify responses.
	secret string

	// socketTimeoutMs is the per-attempt response wait in milliseconds.
	socketTimeoutMs int

	// maxAttempts is the number of send attempts before giving up.
	maxAttempts int
)

// rootCmd is the top-level cobra command for radiusctl.
var rootCmd = &cobra.Command{
	Use:   "radiusctl",
	Short: "CLI client for RADIUS authentication, authorization, and accounting",
	Long:  "radiusctl sends RADIUS requests (RFC 2865/2866/5997) to a server and renders the response.",
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if cmd.Name() == "version" {
			return nil
		}
		if serverHost == "" {
			return fmt.Errorf("--host is required")
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		opts := []transport.ClientOption{
			transport.WithSocketTimeout(time.Duration(socketTimeoutMs) * time.Millisecond),
			transport.WithLogger(slog.Default()),
		}
		if metricsCollector != nil {
			opts = append(opts, transport.WithMetrics(metricsCollector))
		}

		c, err := transport.NewClient(ctx, serverHost, authPort, acctPort, opts...)
		if err != nil {
			return fmt.Errorf("connect to %s: %w", serverHost, err)
		}
		activeClient = c
		return nil
	},
	PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
		if activeClient != nil {
			return activeClient.Close()
		}
		return nil
	},
	// Silence cobra's built-in usage/error printing so we control it.
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverHost, "host", "", "RADIUS server hostname or IP address")
	rootCmd.PersistentFlags().Uint16Var(&authPort, "auth-port", 1812, "authentication/CoA UDP port")
	rootCmd.PersistentFlags().Uint16Var(&acctPort, "acct-port", 1813, "accounting UDP port")
	rootCmd.PersistentFlags().StringVar(&secret, "secret", "", "shared secret")
	rootCmd.PersistentFlags().IntVar(&socketTimeoutMs, "timeout-ms", 3000, "per-attempt response wait in milliseconds")
	rootCmd.PersistentFlags().IntVar(&maxAttempts, "attempts", 3, "number of send attempts before giving up")
	rootCmd.PersistentFlags().StringVar(&outputFormat, "format", "table", "output format: table, json")

	rootCmd.AddCommand(sendCmd())
	rootCmd.AddCommand(acctCmd())
	rootCmd.AddCommand(pingCmd())
	rootCmd.AddCommand(versionCmd())
	rootCmd.AddCommand(shellCmd())
}

// ApplyConfig seeds the persistent flag variables from cfg. Must be called
// before Execute, which parses the actual command line; any flag the user
// passes explicitly overrides the value set here.
func ApplyConfig(cfg *config.Config) {
	if cfg.Server.Host != "" {
		serverHost = cfg.Server.Host
	}
	if cfg.Server.Secret != "" {
		secret = cfg.Server.Secret
	}
	if cfg.Server.AuthPort != 0 {
		authPort = cfg.Server.AuthPort
	}
	if cfg.Server.AcctPort != 0 {
		acctPort = cfg.Server.AcctPort
	}
	if cfg.Server.SocketTimeoutMs != 0 {
		socketTimeoutMs = cfg.Server.SocketTimeoutMs
	}
}

// SetMetricsCollector attaches a radiusmetrics.Collector to every client
// built by subsequent commands. Must be called before Execute.
func SetMetricsCollector(c *radiusmetrics.Collector) {
	metricsCollector = c
}

// Execute runs the root command and exits with code 1 on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
