// Package dividend aggregates the account's dividend history per instrument:
// the latest declared record and the paid totals of the last calendar year
// and the current year to date.
package dividend

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bobmcallan/rhsheets/internal/common"
	"github.com/bobmcallan/rhsheets/internal/models"
)

// MonthsInQuarter scales a monthly payer's rate and amount to a quarter
const MonthsInQuarter = 3

// Aggregator joins dividend data onto holdings tables
type Aggregator struct {
	monthly map[string]bool
	logger  *common.Logger
}

// NewAggregator creates an aggregator that treats monthlyTickers as monthly payers
func NewAggregator(monthlyTickers []string, logger *common.Logger) *Aggregator {
	monthly := make(map[string]bool, len(monthlyTickers))
	for _, t := range monthlyTickers {
		monthly[strings.ToUpper(strings.TrimSpace(t))] = true
	}
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &Aggregator{monthly: monthly, logger: logger}
}

// IsMonthly reports whether ticker pays monthly
func (a *Aggregator) IsMonthly(ticker string) bool {
	return a.monthly[strings.ToUpper(ticker)]
}

// FilterVoided drops voided payments. It must run before any other step.
func FilterVoided(payments []models.DividendPayment) []models.DividendPayment {
	out := make([]models.DividendPayment, 0, len(payments))
	for _, p := range payments {
		if p.State == models.DividendStateVoided {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Latest selects the record with the greatest payable date per instrument.
// Ties keep the earlier record in input order. Records without a payable
// date are never selected. A payable date that is present but unparsable is
// an upstream data error; unparsable rate or amount read as zero.
func Latest(payments []models.DividendPayment) (map[string]models.LatestDividend, error) {
	type dated struct {
		payment models.DividendPayment
		payable time.Time
	}

	records := make([]dated, 0, len(payments))
	for _, p := range payments {
		if strings.TrimSpace(p.PayableDate) == "" {
			continue
		}
		payable, err := parseDate(p.PayableDate)
		if err != nil {
			return nil, fmt.Errorf("dividend %s: payable_date: %w", p.ID, err)
		}
		records = append(records, dated{payment: p, payable: payable})
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].payable.After(records[j].payable)
	})

	latest := make(map[string]models.LatestDividend)
	for _, r := range records {
		id := r.payment.InstrumentID()
		if _, seen := latest[id]; seen {
			continue
		}
		rate, _ := parseDecimal(r.payment.Rate)
		amount, _ := parseDecimal(r.payment.Amount)
		latest[id] = models.LatestDividend{
			InstrumentID: id,
			Rate:         rate,
			Amount:       amount,
			PayableDate:  r.payable,
		}
	}
	return latest, nil
}

// JoinLatest left-joins the latest record onto every row by instrument id.
// Rows without history keep zero rate and amount.
func (a *Aggregator) JoinLatest(t *models.Table, latest map[string]models.LatestDividend) {
	matched := 0
	for _, row := range t.Rows {
		l, ok := latest[row.InstrumentID]
		if !ok {
			row.LatestRate = decimal.Zero
			row.LatestAmount = decimal.Zero
			row.LatestPayableDate = time.Time{}
			continue
		}
		row.LatestRate = l.Rate
		row.LatestAmount = l.Amount
		row.LatestPayableDate = l.PayableDate
		matched++
	}
	t.AddColumns(models.LatestDividendColumns...)

	a.logger.Debug().Int("rows", len(t.Rows)).Int("matched", matched).Msg("Joined latest dividends")
}

// ApplyMonthlyCorrection scales the latest rate and amount of monthly payers
// by MonthsInQuarter. It requires JoinLatest to have run and is applied at
// most once per row. Returns the number of rows corrected by this call.
func (a *Aggregator) ApplyMonthlyCorrection(t *models.Table) (int, error) {
	if !t.HasColumn(models.ColumnDividendRate) {
		return 0, fmt.Errorf("monthly correction needs the latest dividend join first")
	}

	factor := decimal.NewFromInt(MonthsInQuarter)
	corrected := 0
	for _, row := range t.Rows {
		if row.MonthlyAdjusted || !a.IsMonthly(row.Ticker) {
			continue
		}
		row.LatestRate = row.LatestRate.Mul(factor)
		row.LatestAmount = row.LatestAmount.Mul(factor)
		row.MonthlyAdjusted = true
		corrected++
	}

	if corrected > 0 {
		a.logger.Debug().Int("rows", corrected).Msg("Applied monthly dividend correction")
	}
	return corrected, nil
}

// Windows sums paid amounts per instrument for the last full calendar year
// and the current year to date, relative to today. Payments without a paid
// date are skipped, as are amounts that do not parse. Paid timestamps are
// compared by their wall-clock date.
func Windows(payments []models.DividendPayment, today time.Time) (map[string]models.DividendAggregate, error) {
	year := today.Year()
	startOfYear := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	startOfLastYear := time.Date(year-1, time.January, 1, 0, 0, 0, 0, time.UTC)
	endOfLastYear := time.Date(year-1, time.December, 31, 0, 0, 0, 0, time.UTC)

	aggs := make(map[string]models.DividendAggregate)
	for _, p := range payments {
		if p.PaidAt == nil || strings.TrimSpace(*p.PaidAt) == "" {
			continue
		}
		paid, err := parseDate(*p.PaidAt)
		if err != nil {
			return nil, fmt.Errorf("dividend %s: paid_at: %w", p.ID, err)
		}
		amount, ok := parseDecimal(p.Amount)
		if !ok {
			continue
		}

		inLastYear := !paid.Before(startOfLastYear) && !paid.After(endOfLastYear)
		inYTD := !paid.Before(startOfYear)
		if !inLastYear && !inYTD {
			continue
		}

		id := p.InstrumentID()
		agg, ok := aggs[id]
		if !ok {
			agg = models.DividendAggregate{
				InstrumentID:          id,
				LastCalendarYearTotal: decimal.Zero,
				YearToDateTotal:       decimal.Zero,
			}
		}
		if inLastYear {
			agg.LastCalendarYearTotal = agg.LastCalendarYearTotal.Add(amount)
		}
		if inYTD {
			agg.YearToDateTotal = agg.YearToDateTotal.Add(amount)
		}
		aggs[id] = agg
	}
	return aggs, nil
}

// JoinWindows left-joins the windowed totals by instrument id, zero-filling misses
func JoinWindows(t *models.Table, aggs map[string]models.DividendAggregate) {
	for _, row := range t.Rows {
		agg, ok := aggs[row.InstrumentID]
		if !ok {
			row.LastYearDividend = decimal.Zero
			row.YTDDividend = decimal.Zero
			continue
		}
		row.LastYearDividend = agg.LastCalendarYearTotal
		row.YTDDividend = agg.YearToDateTotal
	}
	t.AddColumns(models.DividendWindowColumns...)
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// parseDate reduces a date or timestamp to its wall-clock date in UTC
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("unparsable date %q", s)
}

func parseDecimal(v models.FlexString) (decimal.Decimal, bool) {
	d, err := decimal.NewFromString(strings.TrimSpace(string(v)))
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}
