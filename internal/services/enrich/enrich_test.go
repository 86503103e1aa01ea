package enrich

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/rhsheets/internal/models"
	"github.com/bobmcallan/rhsheets/internal/services/dividend"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func holding(ticker, instrument, avg, qty string) models.Holding {
	return models.Holding{
		InstrumentID:    instrument,
		Ticker:          ticker,
		AverageBuyPrice: d(avg),
		Quantity:        d(qty),
		ProductType:     models.ProductTypeStock,
	}
}

func TestAddTotal(t *testing.T) {
	tbl := models.NewTable([]models.Holding{holding("AAPL", "A", "150.25", "3.5")})
	AddTotal(tbl)

	assert.True(t, d("525.875").Equal(tbl.Rows[0].Total))
	assert.True(t, tbl.HasColumn(models.ColumnTotal))
}

func TestAddDiversity_SumsToOne(t *testing.T) {
	tbl := models.NewTable([]models.Holding{
		holding("A", "a", "13.37", "7"),
		holding("B", "b", "0.33", "3"),
		holding("C", "c", "1024.01", "0.125"),
		holding("D", "d", "7", "1"),
	})
	AddTotal(tbl)
	require.NoError(t, AddDiversity(tbl))

	sum := 0.0
	for _, row := range tbl.Rows {
		sum += row.Diversity.InexactFloat64()
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
}

func TestAddDiversity_ZeroTotal(t *testing.T) {
	tbl := models.NewTable([]models.Holding{holding("A", "a", "0", "5"), holding("B", "b", "10", "0")})
	AddTotal(tbl)
	require.NoError(t, AddDiversity(tbl))

	for _, row := range tbl.Rows {
		assert.True(t, row.Diversity.IsZero())
	}
}

func TestAddDiversity_RequiresTotal(t *testing.T) {
	tbl := models.NewTable([]models.Holding{holding("A", "a", "1", "1")})
	assert.Error(t, AddDiversity(tbl))
}

func TestAddProjectedDividend_MonthlyPayerTripled(t *testing.T) {
	tbl := models.NewTable([]models.Holding{
		holding("O", "o", "55", "10"),
		holding("AAPL", "a", "150", "10"),
	})
	require.Error(t, AddProjectedDividend(tbl), "needs the latest join")

	agg := dividend.NewAggregator([]string{"O"}, nil)
	agg.JoinLatest(tbl, map[string]models.LatestDividend{
		"o": {InstrumentID: "o", Rate: d("0.2625"), Amount: d("2.625")},
		"a": {InstrumentID: "a", Rate: d("0.24"), Amount: d("2.40")},
	})
	_, err := agg.ApplyMonthlyCorrection(tbl)
	require.NoError(t, err)
	require.NoError(t, AddProjectedDividend(tbl))

	raw := d("0.2625").Mul(d("10"))
	assert.True(t, raw.Mul(d("3")).Equal(tbl.Rows[0].ProjectedDividend))
	assert.False(t, raw.Equal(tbl.Rows[0].ProjectedDividend))
	assert.True(t, d("2.4").Equal(tbl.Rows[1].ProjectedDividend))
}

func TestAddColumns_KeepSchemaOrder(t *testing.T) {
	tbl := models.NewTable([]models.Holding{holding("A", "a", "1", "1")})
	joiner := NewJoiner(nil)

	joiner.JoinFundamentals(tbl, nil)
	AddTotal(tbl)
	require.NoError(t, AddDiversity(tbl))

	total := indexOf(tbl.Columns, models.ColumnTotal)
	diversity := indexOf(tbl.Columns, models.ColumnDiversity)
	sector := indexOf(tbl.Columns, models.ColumnSector)
	assert.Less(t, total, diversity)
	assert.Less(t, diversity, sector)
}

func TestJoinFundamentals_LeftJoinAndCleanText(t *testing.T) {
	tbl := models.NewTable([]models.Holding{
		holding("AAPL", "a", "1", "1"),
		holding("ZZZZ", "z", "1", "1"),
	})

	NewJoiner(nil).JoinFundamentals(tbl, []models.Fundamentals{
		{Symbol: "aapl", Sector: " Electronic Technology ", Industry: "Telecommunications Equipment",
			Description: "<p>Apple Inc. designs &amp; sells\n\n  phones.</p>"},
	})

	require.Len(t, tbl.Rows, 2, "rows without fundamentals are kept")
	assert.Equal(t, "Electronic Technology", tbl.Rows[0].Sector)
	assert.Equal(t, "Apple Inc. designs & sells phones.", tbl.Rows[0].Description)
	assert.Empty(t, tbl.Rows[1].Sector)
	assert.True(t, tbl.HasColumn(models.ColumnDescription))
}

func TestCalculatedColumns_NeverChangeJoinKeys(t *testing.T) {
	tbl := models.NewTable([]models.Holding{holding("AAPL", "inst-1", "2", "3")})
	AddTotal(tbl)
	require.NoError(t, AddDiversity(tbl))

	assert.Equal(t, "inst-1", tbl.Rows[0].InstrumentID)
	assert.Equal(t, "AAPL", tbl.Rows[0].Ticker)
}

func indexOf(keys []models.ColumnKey, k models.ColumnKey) int {
	for i, c := range keys {
		if c == k {
			return i
		}
	}
	return -1
}
