package report

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/bobmcallan/rhsheets/internal/common"
	"github.com/bobmcallan/rhsheets/internal/models"
)

// FormatSummary renders a completed export as markdown
func FormatSummary(summary *models.ExportSummary) string {
	var sb strings.Builder

	source := "snapshot"
	if summary.Live {
		source = "live"
	}
	sb.WriteString(fmt.Sprintf("# Export %s\n\n", summary.RunID))
	sb.WriteString(fmt.Sprintf("**Source:** %s\n\n", source))

	invested := decimal.Zero
	for _, s := range summary.Sheets {
		invested = invested.Add(s.Invested)
	}

	sb.WriteString("| Sheet | Rows | Invested | Share | Projected DVD |\n")
	sb.WriteString("|-------|------|----------|-------|---------------|\n")
	for _, s := range summary.Sheets {
		share := decimal.Zero
		if !invested.IsZero() {
			share = s.Invested.Div(invested)
		}
		sb.WriteString(fmt.Sprintf("| %s | %d | %s | %s | %s |\n",
			s.Destination, s.Rows, common.FormatMoney(s.Invested), common.FormatPct(share), common.FormatMoney(s.Projected)))
	}
	return sb.String()
}
