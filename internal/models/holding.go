// Package models defines data structures for rhsheets
package models

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/bobmcallan/rhsheets/internal/common"
)

// ProductType is the brokerage's instrument classification
type ProductType string

const (
	ProductTypeStock ProductType = "stock"
	ProductTypeETP   ProductType = "etp" // exchange-traded product
	ProductTypeADR   ProductType = "adr"
)

// IsETP reports whether the product is an exchange-traded product
func (p ProductType) IsETP() bool {
	return p == ProductTypeETP
}

// FlexString decodes JSON strings, numbers and null into a string.
// Holdings snapshots and API payloads mix quoted and bare numbers.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*f = FlexString(n.String())
		return nil
	}
	return fmt.Errorf("cannot unmarshal %s into string", string(data))
}

// HoldingAttributes is one value of the holdings map keyed by ticker.
// It is also the on-disk snapshot format.
type HoldingAttributes struct {
	Price           FlexString `json:"price,omitempty"`
	Quantity        FlexString `json:"quantity"`
	AverageBuyPrice FlexString `json:"average_buy_price"`
	Equity          FlexString `json:"equity,omitempty"`
	PERatio         FlexString `json:"pe_ratio,omitempty"`
	Percentage      FlexString `json:"percentage,omitempty"`
	Name            string     `json:"name"`
	ID              string     `json:"id"`
	Instrument      string     `json:"instrument,omitempty"`
	Type            string     `json:"type"`

	// Extra holds attributes this tool does not interpret. They survive a
	// decode and re-encode of the snapshot unchanged.
	Extra map[string]json.RawMessage `json:"-"`
}

// holdingAttributesJSON has the known fields only
type holdingAttributesJSON HoldingAttributes

var knownHoldingAttributes = map[string]bool{
	"price": true, "quantity": true, "average_buy_price": true, "equity": true,
	"pe_ratio": true, "percentage": true, "name": true, "id": true,
	"instrument": true, "type": true,
}

func (a *HoldingAttributes) UnmarshalJSON(data []byte) error {
	var known holdingAttributesJSON
	if err := json.Unmarshal(data, &known); err != nil {
		return err
	}
	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return err
	}

	*a = HoldingAttributes(known)
	for k, v := range all {
		if knownHoldingAttributes[k] {
			continue
		}
		if a.Extra == nil {
			a.Extra = make(map[string]json.RawMessage)
		}
		a.Extra[k] = v
	}
	return nil
}

func (a HoldingAttributes) MarshalJSON() ([]byte, error) {
	data, err := json.Marshal(holdingAttributesJSON(a))
	if err != nil || len(a.Extra) == 0 {
		return data, err
	}

	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, err
	}
	for k, v := range a.Extra {
		if _, ok := all[k]; !ok {
			all[k] = v
		}
	}
	return json.Marshal(all)
}

// MergeExtra copies attributes from prev that a is missing, for tickers
// whose snapshot entry is being replaced.
func (a *HoldingAttributes) MergeExtra(prev HoldingAttributes) {
	for k, v := range prev.Extra {
		if _, ok := a.Extra[k]; ok {
			continue
		}
		if a.Extra == nil {
			a.Extra = make(map[string]json.RawMessage)
		}
		a.Extra[k] = v
	}
}

// Holding is one owned instrument
type Holding struct {
	InstrumentID    string          `json:"instrument_id"`
	Ticker          string          `json:"ticker"`
	Name            string          `json:"name"`
	AverageBuyPrice decimal.Decimal `json:"average_buy_price"`
	Quantity        decimal.Decimal `json:"quantity"`
	ProductType     ProductType     `json:"product_type"`
	Price           decimal.Decimal `json:"price"`
	Equity          decimal.Decimal `json:"equity"`
}

// InstrumentID reduces an instrument URL such as
// "https://api.robinhood.com/instruments/<id>/" to its trailing id.
// Values that are not URLs are returned trimmed.
func InstrumentID(ref string) string {
	ref = strings.TrimSpace(ref)
	if !strings.Contains(ref, "/") {
		return ref
	}
	ref = strings.TrimRight(ref, "/")
	if idx := strings.LastIndexByte(ref, '/'); idx >= 0 {
		return ref[idx+1:]
	}
	return ref
}

// ParseHoldings converts the ticker-keyed attribute map to holdings sorted
// by ticker. Quantity and average buy price are required: a value that is
// not a non-negative decimal is a DataQualityError. Empty values read as 0.
func ParseHoldings(raw map[string]HoldingAttributes) ([]Holding, error) {
	tickers := make([]string, 0, len(raw))
	for t := range raw {
		tickers = append(tickers, t)
	}
	sort.Strings(tickers)

	holdings := make([]Holding, 0, len(raw))
	for _, ticker := range tickers {
		attrs := raw[ticker]

		qty, err := requiredDecimal(ticker, "quantity", attrs.Quantity)
		if err != nil {
			return nil, err
		}
		avg, err := requiredDecimal(ticker, "average_buy_price", attrs.AverageBuyPrice)
		if err != nil {
			return nil, err
		}

		id := attrs.Instrument
		if id == "" {
			id = attrs.ID
		}
		if InstrumentID(id) == "" {
			return nil, &common.DataQualityError{Ticker: ticker, Field: "id", Value: id}
		}

		holdings = append(holdings, Holding{
			InstrumentID:    InstrumentID(id),
			Ticker:          ticker,
			Name:            attrs.Name,
			AverageBuyPrice: avg,
			Quantity:        qty,
			ProductType:     ProductType(strings.ToLower(strings.TrimSpace(attrs.Type))),
			Price:           optionalDecimal(attrs.Price),
			Equity:          optionalDecimal(attrs.Equity),
		})
	}
	return holdings, nil
}

func requiredDecimal(ticker, field string, v FlexString) (decimal.Decimal, error) {
	s := strings.TrimSpace(string(v))
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, &common.DataQualityError{Ticker: ticker, Field: field, Value: s, Err: err}
	}
	if d.IsNegative() {
		return decimal.Zero, &common.DataQualityError{Ticker: ticker, Field: field, Value: s}
	}
	return d, nil
}

func optionalDecimal(v FlexString) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(string(v)))
	if err != nil {
		return decimal.Zero
	}
	return d
}
