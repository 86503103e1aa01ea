package robinhood

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/bobmcallan/rhsheets/internal/models"
)

// fundamentalsChunkSize bounds the symbols per fundamentals request
const fundamentalsChunkSize = 100

type fundamentalsResult struct {
	Symbol      string `json:"symbol"`
	Description string `json:"description"`
	Sector      string `json:"sector"`
	Industry    string `json:"industry"`
}

// GetFundamentals retrieves sector, industry and description for tickers.
// Results come back in request order; a null entry means the symbol is
// unknown and is skipped.
func (c *Client) GetFundamentals(ctx context.Context, tickers []string) ([]models.Fundamentals, error) {
	var out []models.Fundamentals

	for _, chunk := range chunks(tickers, fundamentalsChunkSize) {
		var resp struct {
			Results []*fundamentalsResult `json:"results"`
		}
		path := "/fundamentals/?symbols=" + url.QueryEscape(strings.Join(chunk, ","))
		if err := c.get(ctx, path, &resp); err != nil {
			return nil, fmt.Errorf("fetch fundamentals: %w", err)
		}

		for i, r := range resp.Results {
			if r == nil {
				continue
			}
			symbol := r.Symbol
			if symbol == "" && i < len(chunk) {
				symbol = chunk[i]
			}
			out = append(out, models.Fundamentals{
				Symbol:      strings.ToUpper(symbol),
				Description: r.Description,
				Sector:      r.Sector,
				Industry:    r.Industry,
			})
		}
	}

	c.logger.Info().Int("tickers", len(tickers)).Int("records", len(out)).Msg("Fetched fundamentals")
	return out, nil
}
