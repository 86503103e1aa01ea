package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bobmcallan/rhsheets/internal/clients/robinhood"
	"github.com/bobmcallan/rhsheets/internal/clients/sheets"
	"github.com/bobmcallan/rhsheets/internal/common"
	"github.com/bobmcallan/rhsheets/internal/interfaces"
	"github.com/bobmcallan/rhsheets/internal/models"
	"github.com/bobmcallan/rhsheets/internal/secrets"
	"github.com/bobmcallan/rhsheets/internal/services/export"
	"github.com/bobmcallan/rhsheets/internal/storage"
)

// App holds the initialized clients, storage and configuration shared by
// every rhsheets command.
type App struct {
	Config      *common.Config
	Logger      *common.Logger
	Blob        storage.BlobStore
	Snapshots   interfaces.SnapshotStore
	Brokerage   interfaces.BrokerageClient
	Decrypter   interfaces.Decrypter
	StartupTime time.Time

	getenv func(string) string
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// ResolveConfigPath picks the config file: the given path, RHSHEETS_CONFIG,
// rhsheets.toml next to the binary, then config/rhsheets.toml.
func ResolveConfigPath(configPath string) string {
	if configPath == "" {
		configPath = os.Getenv("RHSHEETS_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(getBinaryDir(), "rhsheets.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/rhsheets.toml" // fallback for development
		}
	}
	return configPath
}

// NewApp loads configuration and initializes storage, the secrets decrypter
// and the brokerage client. No network call is made here.
func NewApp(ctx context.Context, configPath string) (*App, error) {
	startupStart := time.Now()

	common.LoadVersionFromFile()

	config, err := common.LoadConfig(ResolveConfigPath(configPath))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger := common.NewLoggerFromConfig(config.Logging)
	return newApp(ctx, config, logger, startupStart)
}

func newApp(ctx context.Context, config *common.Config, logger *common.Logger, start time.Time) (*App, error) {
	blob, err := storage.NewBlobStore(ctx, logger, &config.Storage)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to initialize storage: %v", common.ErrConfig, err)
	}

	decrypter, err := secrets.NewDecrypter(ctx, config.Secrets, logger)
	if err != nil {
		blob.Close()
		return nil, err
	}

	rh := config.Clients.Robinhood
	brokerage := robinhood.NewClient(
		robinhood.WithBaseURL(rh.BaseURL),
		robinhood.WithClientID(rh.ClientID),
		robinhood.WithRateLimit(rh.RateLimit),
		robinhood.WithTimeout(rh.GetTimeout()),
		robinhood.WithLogger(logger),
	)

	a := &App{
		Config:      config,
		Logger:      logger,
		Blob:        blob,
		Snapshots:   storage.NewSnapshotStore(blob, config.Storage.SnapshotKey, logger),
		Brokerage:   brokerage,
		Decrypter:   decrypter,
		StartupTime: start,
		getenv:      os.Getenv,
	}

	logger.Debug().
		Str("storage", config.Storage.Backend).
		Str("secrets", config.Secrets.Mode).
		Dur("elapsed", time.Since(start)).
		Msg("App initialized")
	return a, nil
}

// Credentials reads the brokerage credentials from the environment
func (a *App) Credentials(ctx context.Context) (models.Credentials, error) {
	return secrets.LoadCredentials(ctx, a.getenv, a.Decrypter)
}

// ExportOptions combines the command flags with the configured feature flags
func (a *App) ExportOptions(live, writeSnapshot bool) models.ExportOptions {
	return models.ExportOptions{
		Live:                   live,
		WriteSnapshot:          writeSnapshot,
		IncludeFundamentals:    a.Config.Export.IncludeFundamentals,
		IncludeDividendWindows: a.Config.Export.IncludeDividendWindows,
	}
}

// ExportService validates the full configuration and connects the sheet writer
func (a *App) ExportService(ctx context.Context) (*export.Service, error) {
	if err := a.Config.Validate(); err != nil {
		return nil, err
	}

	sc := a.Config.Clients.Sheets
	writer, err := sheets.NewWriter(ctx, sc.SpreadsheetID, sc.CredentialsFile, a.Logger)
	if err != nil {
		return nil, err
	}
	return a.newService(writer), nil
}

// SnapshotService returns a service that can capture snapshots but not write sheets
func (a *App) SnapshotService() *export.Service {
	return a.newService(nil)
}

func (a *App) newService(writer interfaces.SheetWriter) *export.Service {
	return export.NewService(
		a.Brokerage,
		writer,
		a.Snapshots,
		a.Credentials,
		export.Destinations{
			Stocks: a.Config.Clients.Sheets.StockSheet,
			ETFs:   a.Config.Clients.Sheets.ETFSheet,
		},
		a.Config.Export.MonthlyDividendTickers,
		a.Logger,
	)
}

// Close releases storage resources
func (a *App) Close() {
	if a.Blob != nil {
		if err := a.Blob.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close blob store")
		}
	}
}
