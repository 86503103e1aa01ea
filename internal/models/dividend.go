package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DividendState is the lifecycle state of a dividend payment
type DividendState string

const (
	DividendStateVoided     DividendState = "voided"
	DividendStatePending    DividendState = "pending"
	DividendStateReinvested DividendState = "reinvested"
	DividendStatePaid       DividendState = "paid"
)

// DividendPayment is one record of the account's dividend history as the
// brokerage returns it. Numeric and date fields stay raw; the aggregator
// decides how each is coerced.
type DividendPayment struct {
	ID          string        `json:"id"`
	Instrument  string        `json:"instrument"`
	State       DividendState `json:"state"`
	Rate        FlexString    `json:"rate"`
	Amount      FlexString    `json:"amount"`
	Position    FlexString    `json:"position"`
	PayableDate string        `json:"payable_date"`
	RecordDate  string        `json:"record_date"`
	PaidAt      *string       `json:"paid_at"`
}

// InstrumentID returns the join key of the payment
func (d DividendPayment) InstrumentID() string {
	return InstrumentID(d.Instrument)
}

// LatestDividend is the most recent payment record of one instrument
type LatestDividend struct {
	InstrumentID string          `json:"instrument_id"`
	Rate         decimal.Decimal `json:"rate"`
	Amount       decimal.Decimal `json:"amount"`
	PayableDate  time.Time       `json:"payable_date"`
}

// DividendAggregate holds the windowed payout totals of one instrument
type DividendAggregate struct {
	InstrumentID          string          `json:"instrument_id"`
	LastCalendarYearTotal decimal.Decimal `json:"last_year_dvd"`
	YearToDateTotal       decimal.Decimal `json:"ytd_dvd"`
}
