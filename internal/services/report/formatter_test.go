package report

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/rhsheets/internal/models"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestPartition_Disjoint(t *testing.T) {
	holdings := []models.Holding{
		{Ticker: "AAPL", ProductType: models.ProductTypeStock},
		{Ticker: "VTI", ProductType: models.ProductTypeETP},
		{Ticker: "TSM", ProductType: models.ProductTypeADR},
		{Ticker: "SCHD", ProductType: models.ProductTypeETP},
		{Ticker: "ODD", ProductType: ""},
	}

	stocks, etps := Partition(holdings)
	assert.Len(t, stocks, 3)
	assert.Len(t, etps, 2)

	seen := map[string]int{}
	for _, h := range stocks {
		assert.False(t, h.ProductType.IsETP())
		seen[h.Ticker]++
	}
	for _, h := range etps {
		assert.True(t, h.ProductType.IsETP())
		seen[h.Ticker]++
	}
	for _, h := range holdings {
		assert.Equal(t, 1, seen[h.Ticker], h.Ticker)
	}
}

func enrichedFrame() *models.Frame {
	tbl := models.NewTable([]models.Holding{
		{InstrumentID: "a", Ticker: "SMALL", Name: "Small Co", AverageBuyPrice: d("1"), Quantity: d("10"), ProductType: models.ProductTypeStock},
		{InstrumentID: "b", Ticker: "BIG", Name: "Big Co", AverageBuyPrice: d("100"), Quantity: d("10"), ProductType: models.ProductTypeStock},
		{InstrumentID: "c", Ticker: "TIE", Name: "Tie Co", AverageBuyPrice: d("10"), Quantity: d("1"), ProductType: models.ProductTypeStock},
	})
	for _, row := range tbl.Rows {
		row.Total = row.AverageBuyPrice.Mul(row.Quantity)
	}
	tbl.AddColumns(models.ColumnTotal)
	return tbl.Frame()
}

func TestFormat_SelectsOrdersRenamesAndSorts(t *testing.T) {
	out := Format(enrichedFrame())

	assert.Equal(t, []string{"Ticker", "Name", "Avg Price", "Quantity", "Total"}, out.Columns,
		"absent schema columns are omitted and non-schema columns dropped")

	tickers := []interface{}{out.Rows[0][0], out.Rows[1][0], out.Rows[2][0]}
	assert.Equal(t, []interface{}{"BIG", "SMALL", "TIE"}, tickers, "descending total, ties keep input order")
}

func TestFormat_IdempotentOnOwnOutput(t *testing.T) {
	once := Format(enrichedFrame())
	twice := Format(once)

	assert.Equal(t, once.Columns, twice.Columns)
	assert.Equal(t, once.Rows, twice.Rows)
}

func TestFormat_FullSchemaOrder(t *testing.T) {
	tbl := models.NewTable([]models.Holding{{InstrumentID: "a", Ticker: "A"}})
	tbl.AddColumns(models.ColumnYTDDividend, models.ColumnSector, models.ColumnTotal, models.ColumnDiversity,
		models.ColumnDescription, models.ColumnIndustry, models.ColumnDividendRate, models.ColumnLastDividend,
		models.ColumnProjectedDividend, models.ColumnLastYearDividend)

	out := Format(tbl.Frame())
	assert.Equal(t, Headers(), out.Columns)
}

func TestFormat_EmptyFrame(t *testing.T) {
	out := Format(&models.Frame{})
	assert.Empty(t, out.Columns)
	assert.Empty(t, out.Rows)
}

func TestSortByTotal_MixedCellTypes(t *testing.T) {
	frame := &models.Frame{
		Columns: []string{"Ticker", "Total"},
		Rows: [][]interface{}{
			{"A", "5"},
			{"B", 7.5},
			{"C", d("6")},
			{"D", "bad"},
		},
	}
	SortByTotal(frame)

	var got []interface{}
	for _, r := range frame.Rows {
		got = append(got, r[0])
	}
	assert.Equal(t, []interface{}{"B", "C", "A", "D"}, got)
}

func TestFormatSummary(t *testing.T) {
	out := FormatSummary(&models.ExportSummary{
		RunID: "run-1",
		Live:  true,
		Sheets: []models.SheetSummary{
			{Destination: "rh_stock_dump", Rows: 2, Invested: d("750"), Projected: d("10")},
			{Destination: "rh_etf_dump", Rows: 1, Invested: d("250"), Projected: d("2.5")},
		},
	})

	require.Contains(t, out, "# Export run-1")
	assert.Contains(t, out, "**Source:** live")
	assert.Contains(t, out, "| rh_stock_dump | 2 | $750.00 | 75.0% | $10.00 |")
	assert.Contains(t, out, "| rh_etf_dump | 1 | $250.00 | 25.0% | $2.50 |")
}

func TestFormatSummary_EmptyAccount(t *testing.T) {
	out := FormatSummary(&models.ExportSummary{
		RunID:  "run-2",
		Sheets: []models.SheetSummary{{Destination: "rh_stock_dump"}},
	})

	assert.Contains(t, out, "**Source:** snapshot")
	assert.Contains(t, out, "| rh_stock_dump | 0 | $0.00 | 0.0% | $0.00 |")
}
