package robinhood

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/bobmcallan/rhsheets/internal/models"
)

// quoteChunkSize bounds the symbols per quotes request
const quoteChunkSize = 100

type position struct {
	Instrument      string            `json:"instrument"`
	Quantity        models.FlexString `json:"quantity"`
	AverageBuyPrice models.FlexString `json:"average_buy_price"`
}

type instrument struct {
	ID         string `json:"id"`
	URL        string `json:"url"`
	Symbol     string `json:"symbol"`
	SimpleName string `json:"simple_name"`
	Name       string `json:"name"`
	Type       string `json:"type"`
}

type quote struct {
	Symbol         string            `json:"symbol"`
	LastTradePrice models.FlexString `json:"last_trade_price"`
}

// GetHoldings retrieves non-zero positions keyed by ticker. Each position's
// instrument is resolved for its symbol, name and product type, and the last
// trade price is attached when a quote is available.
func (c *Client) GetHoldings(ctx context.Context) (map[string]models.HoldingAttributes, error) {
	positions, err := getAll[position](ctx, c, "/positions/?nonzero=true")
	if err != nil {
		return nil, fmt.Errorf("fetch positions: %w", err)
	}

	holdings := make(map[string]models.HoldingAttributes, len(positions))
	for _, p := range positions {
		var inst instrument
		if err := c.get(ctx, p.Instrument, &inst); err != nil {
			return nil, fmt.Errorf("fetch instrument %s: %w", p.Instrument, err)
		}
		if inst.Symbol == "" {
			return nil, fmt.Errorf("instrument %s has no symbol", p.Instrument)
		}

		name := inst.SimpleName
		if name == "" {
			name = inst.Name
		}
		id := inst.ID
		if id == "" {
			id = models.InstrumentID(p.Instrument)
		}

		holdings[inst.Symbol] = models.HoldingAttributes{
			Quantity:        p.Quantity,
			AverageBuyPrice: p.AverageBuyPrice,
			Name:            name,
			ID:              id,
			Type:            inst.Type,
		}
	}

	if err := c.attachPrices(ctx, holdings); err != nil {
		return nil, err
	}

	c.logger.Info().Int("positions", len(holdings)).Msg("Fetched Robinhood holdings")
	return holdings, nil
}

// attachPrices fills price and equity from the quotes endpoint
func (c *Client) attachPrices(ctx context.Context, holdings map[string]models.HoldingAttributes) error {
	symbols := make([]string, 0, len(holdings))
	for s := range holdings {
		symbols = append(symbols, s)
	}

	for _, chunk := range chunks(symbols, quoteChunkSize) {
		var resp struct {
			Results []*quote `json:"results"`
		}
		path := "/quotes/?symbols=" + url.QueryEscape(strings.Join(chunk, ","))
		if err := c.get(ctx, path, &resp); err != nil {
			return fmt.Errorf("fetch quotes: %w", err)
		}

		for _, q := range resp.Results {
			if q == nil {
				continue
			}
			h, ok := holdings[q.Symbol]
			if !ok {
				continue
			}
			price, err := decimal.NewFromString(string(q.LastTradePrice))
			if err != nil {
				continue
			}
			h.Price = models.FlexString(price.String())
			if qty, err := decimal.NewFromString(string(h.Quantity)); err == nil {
				h.Equity = models.FlexString(qty.Mul(price).StringFixed(2))
			}
			holdings[q.Symbol] = h
		}
	}
	return nil
}

// chunks splits items into consecutive slices of at most size elements
func chunks(items []string, size int) [][]string {
	var out [][]string
	for len(items) > size {
		out = append(out, items[:size])
		items = items[size:]
	}
	if len(items) > 0 {
		out = append(out, items)
	}
	return out
}
