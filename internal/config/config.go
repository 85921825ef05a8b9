package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	// Log level for CLI commands (debug, info, warn, error)
	// Default: "info"
	LogLevel string

	// Path of the submission journal database
	// Default: ~/.local/share/fmscrobble/journal.db
	JournalPath string

	// Last.fm API credentials
	LastFM LastFMConfig
}

// LastFMConfig holds Last.fm specific configuration
type LastFMConfig struct {
	APIKey     string
	APISecret  string
	SessionKey string
	Username   string
	BaseURL    string
}

// Load reads configuration from file and environment
func Load() (*Config, error) {
	return LoadFrom("")
}

// LoadFrom reads configuration from the given file, or from the default
// locations when path is empty
func LoadFrom(path string) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		// Config file locations (in order of precedence)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(getConfigDir())
		v.AddConfigPath(".")
	}

	// Set defaults
	v.SetDefault("log_level", "info")
	v.SetDefault("journal_path", filepath.Join(getDataDir(), "journal.db"))

	// Read config file (optional - don't fail if missing)
	if err := v.ReadInConfig(); err != nil && !isConfigNotFound(err) {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	// Read from environment variables: FMSCROBBLE_LASTFM_API_KEY, ...
	v.SetEnvPrefix("FMSCROBBLE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		LogLevel:    v.GetString("log_level"),
		JournalPath: v.GetString("journal_path"),
		LastFM: LastFMConfig{
			APIKey:     v.GetString("lastfm.api_key"),
			APISecret:  v.GetString("lastfm.api_secret"),
			SessionKey: v.GetString("lastfm.session_key"),
			Username:   v.GetString("lastfm.username"),
			BaseURL:    v.GetString("lastfm.base_url"),
		},
	}

	return cfg, nil
}

// isConfigNotFound reports whether err means there is no config file to read.
// Search paths yield viper.ConfigFileNotFoundError, an explicit path the
// underlying fs error.
func isConfigNotFound(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist)
}

// getConfigDir returns the configuration directory path
// Creates the directory if it doesn't exist
func getConfigDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "."
	}

	configDir := filepath.Join(homeDir, ".config", "fmscrobble")

	// Create config directory if it doesn't exist
	_ = os.MkdirAll(configDir, 0755)

	return configDir
}

// getDataDir returns the data directory path
func getDataDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(homeDir, ".local", "share", "fmscrobble")
}

// GetConfigDir returns the configuration directory path (public helper)
func GetConfigDir() string {
	return getConfigDir()
}

// Save writes configuration to the default config file
func (c *Config) Save() error {
	return c.SaveTo(filepath.Join(getConfigDir(), "config.yaml"))
}

// SaveTo writes configuration to the given file
func (c *Config) SaveTo(path string) error {
	v := viper.New()

	v.Set("log_level", c.LogLevel)
	v.Set("journal_path", c.JournalPath)
	v.Set("lastfm.api_key", c.LastFM.APIKey)
	v.Set("lastfm.api_secret", c.LastFM.APISecret)
	v.Set("lastfm.session_key", c.LastFM.SessionKey)
	v.Set("lastfm.username", c.LastFM.Username)
	if c.LastFM.BaseURL != "" {
		v.Set("lastfm.base_url", c.LastFM.BaseURL)
	}

	return v.WriteConfigAs(path)
}
