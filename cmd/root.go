/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/jfmyers9/fmscrobble/internal/config"
	"github.com/jfmyers9/fmscrobble/internal/journal"
	"github.com/jfmyers9/fmscrobble/internal/scrobbler"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// Version information (set via ldflags during build)
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

var (
	configFile string
	logLevel   string
	logFile    string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "fmscrobble",
	Short: "Last.fm scrobbling client",
	Long: `fmscrobble is a command line client for the Last.fm scrobble API.

It authenticates a Last.fm account, then submits "now playing" updates
and scrobbles, one at a time or in batches of up to 50 tracks.

Every submission is recorded in a local journal which can be listed
with 'fmscrobble history'.`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildDate),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		initColors()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		colorError.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default: ~/.config/fmscrobble/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error); overrides config")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Log file path (default: stderr)")
}

// loadConfig reads configuration, honoring the --config flag
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadFrom(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	return cfg, nil
}

// saveConfig writes configuration back to the file it was loaded from
func saveConfig(cfg *config.Config) (string, error) {
	path := configFile
	if path == "" {
		path = filepath.Join(config.GetConfigDir(), "config.yaml")
	}
	if err := cfg.SaveTo(path); err != nil {
		return "", fmt.Errorf("failed to save config: %w", err)
	}
	return path, nil
}

// setupLogger creates a logger with the specified configuration
func setupLogger(logFile, logLevel string) zerolog.Logger {
	level, err := zerolog.ParseLevel(logLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	var output io.Writer = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
		} else {
			output = f
		}
	}

	return zerolog.New(output).
		Level(level).
		With().
		Timestamp().
		Logger()
}

// session bundles what most commands need: config, logger, journal and an
// API client
type session struct {
	cfg     *config.Config
	logger  zerolog.Logger
	journal *journal.Journal
	client  *scrobbler.Client
}

// openSession loads config and builds a scrobbler client with the journal
// attached
func openSession() (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	if cfg.LastFM.APIKey == "" || cfg.LastFM.APISecret == "" {
		return nil, fmt.Errorf("Last.fm API credentials not configured. Set lastfm.api_key and lastfm.api_secret in the config file or FMSCROBBLE_LASTFM_API_KEY and FMSCROBBLE_LASTFM_API_SECRET")
	}

	logger := setupLogger(logFile, cfg.LogLevel)

	client, err := scrobbler.New(scrobbler.Config{
		APIKey:     cfg.LastFM.APIKey,
		APISecret:  cfg.LastFM.APISecret,
		SessionKey: cfg.LastFM.SessionKey,
		BaseURL:    cfg.LastFM.BaseURL,
	}, logger)
	if err != nil {
		return nil, err
	}

	j, err := journal.Open(cfg.JournalPath)
	if err != nil {
		// Submissions still work without the journal
		logger.Warn().Err(err).Str("path", cfg.JournalPath).Msg("Journal unavailable")
	} else {
		client.WithJournal(j)
	}

	return &session{cfg: cfg, logger: logger, journal: j, client: client}, nil
}

func (s *session) Close() {
	if s.journal != nil {
		if err := s.journal.Close(); err != nil {
			s.logger.Warn().Err(err).Msg("Failed to close journal")
		}
	}
}

// requireAuth fails when no session key has been stored yet
func (s *session) requireAuth() error {
	if !s.client.IsAuthenticated() {
		return fmt.Errorf("not authenticated with Last.fm. Run 'fmscrobble auth' first")
	}
	return nil
}
