// Package enrich joins fundamentals onto holdings and derives the calculated columns.
package enrich

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/bobmcallan/rhsheets/internal/common"
	"github.com/bobmcallan/rhsheets/internal/models"
)

// Joiner attaches sector, industry and description to holdings by ticker
type Joiner struct {
	policy *bluemonday.Policy
	logger *common.Logger
}

// NewJoiner creates a fundamentals joiner
func NewJoiner(logger *common.Logger) *Joiner {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &Joiner{policy: bluemonday.StrictPolicy(), logger: logger}
}

// JoinFundamentals left-joins records onto rows by ticker. Rows without a
// record keep empty fundamentals; duplicate symbols keep the first record.
func (j *Joiner) JoinFundamentals(t *models.Table, records []models.Fundamentals) {
	bySymbol := make(map[string]models.Fundamentals, len(records))
	for _, r := range records {
		symbol := strings.ToUpper(strings.TrimSpace(r.Symbol))
		if _, ok := bySymbol[symbol]; !ok {
			bySymbol[symbol] = r
		}
	}

	var missing []string
	for _, row := range t.Rows {
		f, ok := bySymbol[strings.ToUpper(row.Ticker)]
		if !ok {
			missing = append(missing, row.Ticker)
			continue
		}
		row.Description = j.CleanText(f.Description)
		row.Sector = strings.TrimSpace(f.Sector)
		row.Industry = strings.TrimSpace(f.Industry)
	}
	t.AddColumns(models.FundamentalsColumns...)

	if len(missing) > 0 {
		j.logger.Warn().Strs("tickers", missing).Msg("No fundamentals for some holdings")
	}
}

// CleanText strips markup and collapses whitespace so the value fits one cell
func (j *Joiner) CleanText(s string) string {
	text := html.UnescapeString(j.policy.Sanitize(s))
	return strings.Join(strings.Fields(text), " ")
}
