// Package report shapes enriched holdings into the sheets that are written
package report

import "github.com/bobmcallan/rhsheets/internal/models"

// Schema is the fixed column order of every written sheet: identity,
// calculated, fundamentals, then dividend columns.
var Schema = []models.ColumnKey{
	models.ColumnTicker,
	models.ColumnName,
	models.ColumnAverageBuyPrice,
	models.ColumnQuantity,
	models.ColumnTotal,
	models.ColumnDiversity,
	models.ColumnDescription,
	models.ColumnSector,
	models.ColumnIndustry,
	models.ColumnDividendRate,
	models.ColumnLastDividend,
	models.ColumnProjectedDividend,
	models.ColumnLastYearDividend,
	models.ColumnYTDDividend,
}

// Headers returns the display labels of the schema in order
func Headers() []string {
	out := make([]string, len(Schema))
	for i, k := range Schema {
		out[i] = models.Columns[k].Label
	}
	return out
}
