// Package main provides the entry point for the StaffPilot operator console.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/staffpilot/internal/config"
	"github.com/jonathan/staffpilot/internal/gateway"
	"github.com/jonathan/staffpilot/internal/gateway/throttle"
	"github.com/jonathan/staffpilot/internal/observability"
	"github.com/jonathan/staffpilot/internal/session"
)

// rootOptions are the persistent flags shared by every command.
type rootOptions struct {
	configPath string
	baseURL    string
	timeout    int
	ordering   string
	timezone   string
	logFile    string
	verbose    bool

	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:               "staffpilot",
		Short:             "StaffPilot hiring assistant console",
		Long:              "StaffPilot talks to the hiring-assistant service: chat with the assistant, upload resumes, match candidates to jobs and send recruiting email.",
		SilenceUsage:      true,
		PersistentPreRunE: opts.setup,
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if opts.logger != nil {
				_ = opts.logger.Sync()
			}
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "Path to a JSON or YAML config file")
	flags.StringVar(&opts.baseURL, "base-url", "", "Service root including the /api prefix (overrides config)")
	flags.IntVar(&opts.timeout, "timeout", 0, "Request timeout in seconds (overrides config)")
	flags.StringVar(&opts.ordering, "ordering", "", "Result ordering: latest-issued or last-settled (overrides config)")
	flags.StringVar(&opts.timezone, "timezone", "", "IANA zone used for \"sent today\" (overrides config)")
	flags.StringVar(&opts.logFile, "log-file", "", "Write logs to this file instead of stderr")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")

	cmd.AddCommand(
		newChatCmd(),
		newAskCmd(),
		newClearMemoryCmd(),
		newUploadCmd(),
		newResumesCmd(),
		newNotifyCmd(),
		newTestEmailCmd(),
		newEmailsCmd(),
		newEmailCmd(),
		newJobsCmd(),
		newDashboardCmd(),
	)
	return cmd
}

// setup resolves configuration (file, then environment, then flags) and
// attaches a session to the command context.
func (o *rootOptions) setup(cmd *cobra.Command, _ []string) error {
	var cfg config.Config
	if o.configPath != "" {
		loaded, err := config.LoadConfig(o.configPath)
		if err != nil {
			return err
		}
		cfg = *loaded
	}
	if err := cfg.ApplyEnv(); err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("base-url") {
		cfg.BaseURL = o.baseURL
	}
	if flags.Changed("timeout") {
		cfg.TimeoutSeconds = o.timeout
	}
	if flags.Changed("ordering") {
		cfg.OrderingPolicy = o.ordering
	}
	if flags.Changed("timezone") {
		cfg.Timezone = o.timezone
	}
	if o.verbose {
		cfg.Verbose = true
	}

	cfg = cfg.MergeWithDefaults(config.Defaults())
	if err := cfg.Validate(); err != nil {
		return err
	}

	var paths []string
	if o.logFile != "" {
		paths = append(paths, o.logFile)
	}
	logger, err := observability.NewLogger(cfg.Verbose, paths...)
	if err != nil {
		return err
	}
	o.logger = logger

	var limiter *throttle.Limiter
	if cfg.Throttled() {
		limiter = throttle.NewLimiter(throttle.LoadConfig())
	}

	client, err := gateway.New(&gateway.Options{
		BaseURL: cfg.BaseURL,
		Timeout: cfg.Timeout(),
		Limiter: limiter,
		Logger:  logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create gateway client: %w", err)
	}

	s, err := session.New(session.Options{
		Client:             client,
		Policy:             cfg.Policy(),
		Location:           cfg.Location(),
		Logger:             logger,
		RefreshConcurrency: cfg.RefreshConcurrency,
	})
	if err != nil {
		return err
	}

	logger.Debug("session ready",
		zap.String("base_url", client.BaseURL()),
		zap.Stringer("ordering", cfg.Policy()),
		zap.Bool("throttled", cfg.Throttled()),
	)
	cmd.SetContext(session.NewContext(cmd.Context(), s))
	return nil
}

// sessionFrom returns the session attached by setup.
func sessionFrom(cmd *cobra.Command) (*session.Session, error) {
	s, ok := session.FromContext(cmd.Context())
	if !ok {
		return nil, errors.New("no session configured")
	}
	return s, nil
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
