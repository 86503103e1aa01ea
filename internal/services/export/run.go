package export

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/bobmcallan/rhsheets/internal/common"
	"github.com/bobmcallan/rhsheets/internal/interfaces"
	"github.com/bobmcallan/rhsheets/internal/models"
	"github.com/bobmcallan/rhsheets/internal/services/dividend"
)

const (
	keyDividendHistory = "dividends:history"
	keyLatestDividends = "dividends:latest"
	keyDividendWindows = "dividends:windows"
	keyFundamentals    = "fundamentals:"
)

// Run is the context of one export. Fetch results are memoised for the
// lifetime of the run and discarded with it.
type Run struct {
	ID    string
	Today time.Time

	client interfaces.BrokerageClient
	cache  *cache.Cache
	logger *common.Logger
}

// NewRun starts a run dated today
func NewRun(client interfaces.BrokerageClient, today time.Time, logger *common.Logger) *Run {
	id := uuid.NewString()
	return &Run{
		ID:     id,
		Today:  today,
		client: client,
		cache:  cache.New(cache.NoExpiration, 0),
		logger: logger.WithField("run_id", id),
	}
}

// Logger returns the run-scoped logger
func (r *Run) Logger() *common.Logger {
	return r.logger
}

// DividendHistory returns the account's non-voided dividend payments
func (r *Run) DividendHistory(ctx context.Context) ([]models.DividendPayment, error) {
	if v, ok := r.cache.Get(keyDividendHistory); ok {
		return v.([]models.DividendPayment), nil
	}

	raw, err := r.client.GetDividends(ctx)
	if err != nil {
		return nil, err
	}
	history := dividend.FilterVoided(raw)
	r.cache.Set(keyDividendHistory, history, cache.NoExpiration)

	r.logger.Info().Int("records", len(raw)).Int("voided", len(raw)-len(history)).Msg("Loaded dividend history")
	return history, nil
}

// LatestDividends returns the latest dividend record per instrument
func (r *Run) LatestDividends(ctx context.Context) (map[string]models.LatestDividend, error) {
	if v, ok := r.cache.Get(keyLatestDividends); ok {
		return v.(map[string]models.LatestDividend), nil
	}

	history, err := r.DividendHistory(ctx)
	if err != nil {
		return nil, err
	}
	latest, err := dividend.Latest(history)
	if err != nil {
		return nil, err
	}
	r.cache.Set(keyLatestDividends, latest, cache.NoExpiration)
	return latest, nil
}

// DividendWindows returns last-year and year-to-date totals per instrument
func (r *Run) DividendWindows(ctx context.Context) (map[string]models.DividendAggregate, error) {
	if v, ok := r.cache.Get(keyDividendWindows); ok {
		return v.(map[string]models.DividendAggregate), nil
	}

	history, err := r.DividendHistory(ctx)
	if err != nil {
		return nil, err
	}
	windows, err := dividend.Windows(history, r.Today)
	if err != nil {
		return nil, err
	}
	r.cache.Set(keyDividendWindows, windows, cache.NoExpiration)
	return windows, nil
}

// Fundamentals returns fundamentals for tickers, fetching each distinct set once
func (r *Run) Fundamentals(ctx context.Context, tickers []string) ([]models.Fundamentals, error) {
	if len(tickers) == 0 {
		return nil, nil
	}

	sorted := append([]string(nil), tickers...)
	sort.Strings(sorted)
	key := keyFundamentals + strings.Join(sorted, ",")

	if v, ok := r.cache.Get(key); ok {
		return v.([]models.Fundamentals), nil
	}

	records, err := r.client.GetFundamentals(ctx, tickers)
	if err != nil {
		return nil, err
	}
	r.cache.Set(key, records, cache.NoExpiration)
	return records, nil
}
