package cli

import (
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"pricewatch/internal/config"
	"pricewatch/internal/monitor"
	"pricewatch/pkg/extract"
	"pricewatch/pkg/fetch"
	"pricewatch/pkg/notify"
)

// Version is set at build time via ldflags.
var Version = "dev"

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "pricewatch",
	Short: "pricewatch - Product price monitoring with WhatsApp alerts",
	Long: `pricewatch fetches a product page, extracts its price and sends a
WhatsApp notification when the price drops to or below a target,
optionally after a delay. Run it as an HTTP service with "serve" or do a
one-shot check with "check".`,
	SilenceUsage: true,
}

// Execute runs the CLI.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./pricewatch.yaml)")
}

// loadConfig loads the configuration.
func loadConfig() (*config.Config, error) {
	return config.Load(cfgFile)
}

// newLogger creates a structured logger from config.
func newLogger(cfg *config.Config) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.Logging.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	var handler slog.Handler
	if cfg.Logging.Format == "text" {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	} else {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	}

	return slog.New(handler)
}

// initService wires the fetcher, extractor and dispatcher into the check
// pipeline.
func initService(cfg *config.Config, logger *slog.Logger) (*monitor.Service, error) {
	rules := extract.DefaultRules()
	if cfg.Extract.RulesPath != "" {
		loaded, err := extract.LoadRules(cfg.Extract.RulesPath)
		if err != nil {
			return nil, err
		}
		rules = loaded
	}

	fetchTimeout, _ := time.ParseDuration(cfg.Fetch.Timeout)
	fetcher := fetch.NewClient(cfg.Fetch.UserAgent, fetchTimeout)

	messagingCfg := notify.Config{
		AccountSID: cfg.Messaging.AccountSID,
		AuthToken:  cfg.Messaging.AuthToken,
		From:       cfg.Messaging.From,
		DefaultTo:  cfg.Messaging.DefaultTo,
	}
	messenger := notify.NewTwilioMessenger(cfg.Messaging.AccountSID, cfg.Messaging.AuthToken)
	dispatcher := notify.NewDispatcher(messagingCfg, messenger, logger)

	return monitor.NewService(fetcher, extract.New(rules), dispatcher, logger), nil
}
