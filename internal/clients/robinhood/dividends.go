package robinhood

import (
	"context"
	"fmt"

	"github.com/bobmcallan/rhsheets/internal/models"
)

// GetDividends retrieves every dividend record of the account, all pages.
// Records are returned as sent; voided entries are filtered by the aggregator.
func (c *Client) GetDividends(ctx context.Context) ([]models.DividendPayment, error) {
	payments, err := getAll[models.DividendPayment](ctx, c, "/dividends/")
	if err != nil {
		return nil, fmt.Errorf("fetch dividends: %w", err)
	}

	c.logger.Info().Int("records", len(payments)).Msg("Fetched dividend history")
	return payments, nil
}
