// Package common provides shared utilities for rhsheets
package common

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for rhsheets
type Config struct {
	Environment string        `toml:"environment"`
	Export      ExportConfig  `toml:"export"`
	Clients     ClientsConfig `toml:"clients"`
	Storage     StorageConfig `toml:"storage"`
	Secrets     SecretsConfig `toml:"secrets"`
	Logging     LoggingConfig `toml:"logging"`
}

// ExportConfig holds the pipeline feature flags
type ExportConfig struct {
	IncludeFundamentals    bool     `toml:"include_fundamentals"`
	IncludeDividendWindows bool     `toml:"include_dividend_windows"`
	MonthlyDividendTickers []string `toml:"monthly_dividend_tickers"` // Tickers paying monthly; rate and amount are scaled x3
}

// ClientsConfig holds API client configurations
type ClientsConfig struct {
	Robinhood RobinhoodConfig `toml:"robinhood"`
	Sheets    SheetsConfig    `toml:"sheets"`
}

// RobinhoodConfig holds brokerage API configuration
type RobinhoodConfig struct {
	BaseURL   string `toml:"base_url"`
	ClientID  string `toml:"client_id"`
	RateLimit int    `toml:"rate_limit"`
	Timeout   string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *RobinhoodConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// SheetsConfig holds Google Sheets destination configuration
type SheetsConfig struct {
	SpreadsheetID   string `toml:"spreadsheet_id"`
	CredentialsFile string `toml:"credentials_file"` // Service account JSON
	StockSheet      string `toml:"stock_sheet"`
	ETFSheet        string `toml:"etf_sheet"`
}

// StorageConfig holds snapshot storage configuration
type StorageConfig struct {
	Backend     string         `toml:"backend"` // "file" or "s3"
	SnapshotKey string         `toml:"snapshot_key"`
	File        FileBlobConfig `toml:"file"`
	S3          S3BlobConfig   `toml:"s3"`
}

// FileBlobConfig holds file-based blob store configuration.
type FileBlobConfig struct {
	BasePath string `toml:"base_path"`
}

// S3BlobConfig holds AWS S3 configuration.
type S3BlobConfig struct {
	Bucket   string `toml:"bucket"`
	Prefix   string `toml:"prefix"`   // Optional key prefix
	Region   string `toml:"region"`   // AWS region
	Endpoint string `toml:"endpoint"` // Custom endpoint for S3-compatible stores (MinIO, R2)
}

// SecretsConfig selects how credential values from the environment are decoded
type SecretsConfig struct {
	Mode         string `toml:"mode"` // "none", "kms" or "fernet"
	KMSRegion    string `toml:"kms_region"`
	FernetKeyEnv string `toml:"fernet_key_env"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level    string `toml:"level"`
	Format   string `toml:"format"`
	FilePath string `toml:"file_path"`
}

// DefaultMonthlyDividendTickers are the monthly payers known at the time of writing.
var DefaultMonthlyDividendTickers = []string{"STAG", "O", "LAND", "ADC"}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Export: ExportConfig{
			IncludeFundamentals:    true,
			IncludeDividendWindows: true,
			MonthlyDividendTickers: append([]string(nil), DefaultMonthlyDividendTickers...),
		},
		Clients: ClientsConfig{
			Robinhood: RobinhoodConfig{
				BaseURL:   "https://api.robinhood.com",
				ClientID:  "c82SH0WZOsabOXGP2sxqcj34FxkvfnWRZBKlBjFS",
				RateLimit: 5,
				Timeout:   "30s",
			},
			Sheets: SheetsConfig{
				CredentialsFile: "config/service_account.json",
				StockSheet:      "rh_stock_dump",
				ETFSheet:        "rh_etf_dump",
			},
		},
		Storage: StorageConfig{
			Backend:     "file",
			SnapshotKey: "mock_holdings.json",
			File:        FileBlobConfig{BasePath: "data"},
		},
		Secrets: SecretsConfig{
			Mode:         "none",
			KMSRegion:    "us-west-2",
			FernetKeyEnv: "RH_FERNET_KEY",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// LoadConfig loads configuration from files with environment overrides.
// A .env file in the working directory is loaded first when present.
func LoadConfig(paths ...string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: load .env: %v", ErrConfig, err)
	}

	config := NewDefaultConfig()

	// Load and merge each config file in order (later files override earlier)
	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue // Skip missing files
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)
	normalize(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("RHSHEETS_ENV"); env != "" {
		config.Environment = env
	}

	if level := os.Getenv("RHSHEETS_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if id := os.Getenv("RHSHEETS_SPREADSHEET_ID"); id != "" {
		config.Clients.Sheets.SpreadsheetID = id
	}

	if path := os.Getenv("RHSHEETS_SHEETS_CREDENTIALS"); path != "" {
		config.Clients.Sheets.CredentialsFile = path
	}

	if backend := os.Getenv("RHSHEETS_STORAGE_BACKEND"); backend != "" {
		config.Storage.Backend = backend
	}

	if mode := os.Getenv("RHSHEETS_SECRETS_MODE"); mode != "" {
		config.Secrets.Mode = mode
	}

	if tickers := os.Getenv("RHSHEETS_MONTHLY_TICKERS"); tickers != "" {
		config.Export.MonthlyDividendTickers = splitList(tickers)
	}
}

// normalize lower-cases enum-like settings and upper-cases tickers
func normalize(config *Config) {
	config.Storage.Backend = strings.ToLower(strings.TrimSpace(config.Storage.Backend))
	config.Secrets.Mode = strings.ToLower(strings.TrimSpace(config.Secrets.Mode))
	if config.Secrets.Mode == "" {
		config.Secrets.Mode = "none"
	}

	tickers := make([]string, 0, len(config.Export.MonthlyDividendTickers))
	for _, t := range config.Export.MonthlyDividendTickers {
		if t = strings.ToUpper(strings.TrimSpace(t)); t != "" {
			tickers = append(tickers, t)
		}
	}
	config.Export.MonthlyDividendTickers = tickers
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Validate checks the settings needed before any network activity.
// The returned error wraps ErrConfig and lists every missing value.
func (c *Config) Validate() error {
	var missing []string

	if c.Clients.Sheets.SpreadsheetID == "" {
		missing = append(missing, "clients.sheets.spreadsheet_id")
	}
	if c.Clients.Sheets.CredentialsFile == "" {
		missing = append(missing, "clients.sheets.credentials_file")
	}
	if c.Clients.Robinhood.BaseURL == "" {
		missing = append(missing, "clients.robinhood.base_url")
	}

	switch c.Storage.Backend {
	case "file":
		if c.Storage.File.BasePath == "" {
			missing = append(missing, "storage.file.base_path")
		}
	case "s3":
		if c.Storage.S3.Bucket == "" {
			missing = append(missing, "storage.s3.bucket")
		}
	default:
		return fmt.Errorf("%w: unknown storage backend %q", ErrConfig, c.Storage.Backend)
	}

	switch c.Secrets.Mode {
	case "none", "kms", "fernet":
	default:
		return fmt.Errorf("%w: unknown secrets mode %q", ErrConfig, c.Secrets.Mode)
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrConfig, strings.Join(missing, ", "))
	}
	return nil
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}
