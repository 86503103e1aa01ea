// Package export runs the holdings to spreadsheet pipeline
package export

import (
	"context"
	"fmt"
	"time"

	"github.com/bobmcallan/rhsheets/internal/common"
	"github.com/bobmcallan/rhsheets/internal/interfaces"
	"github.com/bobmcallan/rhsheets/internal/models"
	"github.com/bobmcallan/rhsheets/internal/services/dividend"
	"github.com/bobmcallan/rhsheets/internal/services/enrich"
	"github.com/bobmcallan/rhsheets/internal/services/report"
)

// CredentialsFunc resolves brokerage credentials for a run
type CredentialsFunc func(ctx context.Context) (models.Credentials, error)

// Destinations names the two sheets written per run
type Destinations struct {
	Stocks string
	ETFs   string
}

// Service implements ExportService
type Service struct {
	client      interfaces.BrokerageClient
	writer      interfaces.SheetWriter
	snapshots   interfaces.SnapshotStore
	credentials CredentialsFunc
	dest        Destinations
	aggregator  *dividend.Aggregator
	joiner      *enrich.Joiner
	logger      *common.Logger
	now         func() time.Time
}

var _ interfaces.ExportService = (*Service)(nil)

// NewService creates a new export service
func NewService(
	client interfaces.BrokerageClient,
	writer interfaces.SheetWriter,
	snapshots interfaces.SnapshotStore,
	credentials CredentialsFunc,
	dest Destinations,
	monthlyTickers []string,
	logger *common.Logger,
) *Service {
	return &Service{
		client:      client,
		writer:      writer,
		snapshots:   snapshots,
		credentials: credentials,
		dest:        dest,
		aggregator:  dividend.NewAggregator(monthlyTickers, logger),
		joiner:      enrich.NewJoiner(logger),
		logger:      logger,
		now:         time.Now,
	}
}

// sheet is one fully built destination awaiting its write
type sheet struct {
	destination string
	frame       *models.Frame
	summary     models.SheetSummary
}

// Export builds the stock and ETF sheets and writes them. Credentials are
// resolved before any fetch; both sheets are built before either is written,
// so a failure anywhere leaves the destinations untouched.
func (s *Service) Export(ctx context.Context, opts models.ExportOptions) (*models.ExportSummary, error) {
	run := NewRun(s.client, s.now(), s.logger)
	logger := run.Logger()

	if err := s.login(ctx); err != nil {
		return nil, err
	}

	raw, err := s.holdings(ctx, run, opts)
	if err != nil {
		return nil, err
	}

	holdings, err := models.ParseHoldings(raw)
	if err != nil {
		return nil, fmt.Errorf("parse holdings: %w", err)
	}

	stocks, etps := report.Partition(holdings)
	logger.Info().Int("stocks", len(stocks)).Int("etps", len(etps)).Msg("Partitioned holdings")

	var sheets []sheet
	for _, part := range []struct {
		destination string
		holdings    []models.Holding
	}{
		{s.dest.Stocks, stocks},
		{s.dest.ETFs, etps},
	} {
		built, err := s.build(ctx, run, part.destination, part.holdings, opts)
		if err != nil {
			return nil, fmt.Errorf("build %s: %w", part.destination, err)
		}
		sheets = append(sheets, built)
	}

	summary := &models.ExportSummary{RunID: run.ID, Live: opts.Live}
	for _, sh := range sheets {
		if err := s.writer.WriteTable(ctx, sh.frame, sh.destination); err != nil {
			return nil, err
		}
		summary.Sheets = append(summary.Sheets, sh.summary)

		logger.Info().
			Str("sheet", sh.destination).
			Int("rows", sh.summary.Rows).
			Str("invested", common.FormatMoney(sh.summary.Invested)).
			Str("projected_dividends", common.FormatMoney(sh.summary.Projected)).
			Msg("Sheet written")
	}

	logger.Info().Msg("Export complete")
	return summary, nil
}

// Snapshot fetches live holdings and saves them as the snapshot
func (s *Service) Snapshot(ctx context.Context) (int, error) {
	if err := s.login(ctx); err != nil {
		return 0, err
	}

	raw, err := s.client.GetHoldings(ctx)
	if err != nil {
		return 0, fmt.Errorf("fetch holdings: %w", err)
	}
	if err := s.snapshots.Save(ctx, raw); err != nil {
		return 0, err
	}
	return len(raw), nil
}

func (s *Service) login(ctx context.Context) error {
	creds, err := s.credentials(ctx)
	if err != nil {
		return err
	}
	return s.client.Login(ctx, creds)
}

// holdings returns the raw ticker-keyed map from the live account or the snapshot
func (s *Service) holdings(ctx context.Context, run *Run, opts models.ExportOptions) (map[string]models.HoldingAttributes, error) {
	logger := run.Logger()

	if !opts.Live {
		if opts.WriteSnapshot {
			logger.Warn().Msg("Snapshot writing needs live holdings, ignoring")
		}
		raw, err := s.snapshots.Load(ctx)
		if err != nil {
			return nil, fmt.Errorf("load snapshot: %w", err)
		}
		return raw, nil
	}

	start := time.Now()
	raw, err := s.client.GetHoldings(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch holdings: %w", err)
	}
	logger.Info().Int("holdings", len(raw)).Dur("elapsed", time.Since(start)).Msg("Fetched live holdings")

	if opts.WriteSnapshot {
		if err := s.snapshots.Save(ctx, raw); err != nil {
			return nil, err
		}
	}
	return raw, nil
}

// build runs joins and calculated columns on one partition and formats it
func (s *Service) build(ctx context.Context, run *Run, destination string, holdings []models.Holding, opts models.ExportOptions) (sheet, error) {
	tbl := models.NewTable(holdings)

	if opts.IncludeFundamentals {
		records, err := run.Fundamentals(ctx, tbl.Tickers())
		if err != nil {
			return sheet{}, fmt.Errorf("fundamentals: %w", err)
		}
		s.joiner.JoinFundamentals(tbl, records)
	}

	latest, err := run.LatestDividends(ctx)
	if err != nil {
		return sheet{}, fmt.Errorf("dividends: %w", err)
	}
	s.aggregator.JoinLatest(tbl, latest)
	if _, err := s.aggregator.ApplyMonthlyCorrection(tbl); err != nil {
		return sheet{}, err
	}

	enrich.AddTotal(tbl)
	if err := enrich.AddDiversity(tbl); err != nil {
		return sheet{}, err
	}
	if err := enrich.AddProjectedDividend(tbl); err != nil {
		return sheet{}, err
	}

	if opts.IncludeDividendWindows {
		windows, err := run.DividendWindows(ctx)
		if err != nil {
			return sheet{}, fmt.Errorf("dividend windows: %w", err)
		}
		dividend.JoinWindows(tbl, windows)
	}

	summary := models.SheetSummary{Destination: destination, Rows: len(tbl.Rows)}
	for _, row := range tbl.Rows {
		summary.Invested = summary.Invested.Add(row.Total)
		summary.Projected = summary.Projected.Add(row.ProjectedDividend)
	}

	return sheet{
		destination: destination,
		frame:       report.Format(tbl.Frame()),
		summary:     summary,
	}, nil
}
