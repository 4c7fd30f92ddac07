// ABOUTME: rowlog configuration: JSON file at the XDG config path plus env overrides.
// ABOUTME: Environment variables win over the file; .env files are honored.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"github.com/harperreed/rowlog/internal/storage"
)

// Config stores rowlog configuration.
type Config struct {
	// TelegramToken authenticates the bot with the Telegram API.
	TelegramToken string `json:"telegram_token,omitempty"`

	// SpreadsheetID is the destination Google Sheets workbook.
	SpreadsheetID string `json:"spreadsheet_id,omitempty"`

	// CredentialsFile points at the Google service account JSON key.
	CredentialsFile string `json:"credentials_file,omitempty"`

	// DataDir is the root directory for the SQLite database.
	// Supports ~ expansion. Defaults to ~/.local/share/rowlog.
	DataDir string `json:"data_dir,omitempty"`

	// ListenAddr is the webhook server bind address. Defaults to :8080.
	ListenAddr string `json:"listen_addr,omitempty"`

	// WebhookURL is the public base URL Telegram should deliver updates to.
	WebhookURL string `json:"webhook_url,omitempty"`
}

// GetDataDir returns the configured data directory with ~ expanded,
// defaulting to the standard XDG data directory.
func (c *Config) GetDataDir() string {
	if c.DataDir == "" {
		return storage.DataDir()
	}
	return ExpandPath(c.DataDir)
}

// DBPath returns the SQLite database path inside the data directory.
func (c *Config) DBPath() string {
	return filepath.Join(c.GetDataDir(), "rowlog.db")
}

// GetListenAddr returns the webhook bind address, defaulting to :8080.
func (c *Config) GetListenAddr() string {
	if c.ListenAddr == "" {
		return ":8080"
	}
	return c.ListenAddr
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" {
		home, _ := os.UserHomeDir()
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// GetConfigPath returns the config file path.
func GetConfigPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "rowlog", "config.json")
}

// Load reads config from disk, then applies env overrides. A .env file in
// the working directory is loaded first, so it feeds the same overrides.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	path := GetConfigPath()
	data, err := os.ReadFile(path)
	if err == nil {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	cfg.applyEnv()
	return cfg, nil
}

// applyEnv overrides file values with environment variables.
func (c *Config) applyEnv() {
	c.TelegramToken = envOr("TELEGRAM_TOKEN", c.TelegramToken)
	c.SpreadsheetID = envOr("SPREADSHEET_ID", c.SpreadsheetID)
	c.CredentialsFile = envOr("GOOGLE_CREDENTIALS_FILE", c.CredentialsFile)
	c.DataDir = envOr("ROWLOG_DATA_DIR", c.DataDir)
	c.ListenAddr = envOr("ROWLOG_ADDR", c.ListenAddr)
	c.WebhookURL = envOr("WEBHOOK_URL", c.WebhookURL)
}

// envOr returns the environment value for key, or the fallback when unset.
func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Save writes config to disk.
func (c *Config) Save() error {
	path := GetConfigPath()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
