package enrich

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/bobmcallan/rhsheets/internal/models"
)

// AddTotal sets total = average buy price × quantity on every row
func AddTotal(t *models.Table) {
	for _, row := range t.Rows {
		row.Total = row.AverageBuyPrice.Mul(row.Quantity)
	}
	t.AddColumns(models.ColumnTotal)
}

// AddDiversity sets each row's share of the table's summed total. The table
// must be the partition that will be written so shares sum to one per sheet.
// A zero sum gives every row zero.
func AddDiversity(t *models.Table) error {
	if !t.HasColumn(models.ColumnTotal) {
		return fmt.Errorf("diversity needs the total column first")
	}

	sum := decimal.Zero
	for _, row := range t.Rows {
		sum = sum.Add(row.Total)
	}

	for _, row := range t.Rows {
		if sum.IsZero() {
			row.Diversity = decimal.Zero
			continue
		}
		row.Diversity = row.Total.Div(sum)
	}
	t.AddColumns(models.ColumnDiversity)
	return nil
}

// AddProjectedDividend sets projected = latest rate × quantity. Monthly
// payers must already carry their corrected rate.
func AddProjectedDividend(t *models.Table) error {
	if !t.HasColumn(models.ColumnDividendRate) {
		return fmt.Errorf("projected dividend needs the latest dividend join first")
	}

	for _, row := range t.Rows {
		row.ProjectedDividend = row.LatestRate.Mul(row.Quantity)
	}
	t.AddColumns(models.ColumnProjectedDividend)
	return nil
}
