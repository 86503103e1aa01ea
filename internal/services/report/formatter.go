package report

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/bobmcallan/rhsheets/internal/models"
)

// Partition splits holdings by product type: exchange-traded products in
// etps, everything else in stocks. Every holding lands in exactly one.
func Partition(holdings []models.Holding) (stocks, etps []models.Holding) {
	for _, h := range holdings {
		if h.ProductType.IsETP() {
			etps = append(etps, h)
		} else {
			stocks = append(stocks, h)
		}
	}
	return stocks, etps
}

// Format selects the schema columns present in frame, orders them by the
// schema, renames them to their labels and sorts rows by total, largest
// first. Columns are matched by internal key or by label, so formatting an
// already formatted frame returns it unchanged. Schema columns missing from
// frame are omitted; non-schema columns are dropped.
func Format(frame *models.Frame) *models.Frame {
	var (
		labels []string
		source []int
	)
	headers := Headers()
	for i, key := range Schema {
		idx := frame.Index(models.Columns[key].Key)
		if idx < 0 {
			idx = frame.Index(headers[i])
		}
		if idx < 0 {
			continue
		}
		labels = append(labels, headers[i])
		source = append(source, idx)
	}

	out := &models.Frame{
		Columns: labels,
		Rows:    make([][]interface{}, len(frame.Rows)),
	}
	for r, row := range frame.Rows {
		cells := make([]interface{}, len(source))
		for i, idx := range source {
			cells[i] = row[idx]
		}
		out.Rows[r] = cells
	}

	SortByTotal(out)
	return out
}

// SortByTotal stable-sorts rows descending by the Total column when present
func SortByTotal(frame *models.Frame) {
	idx := frame.Index(models.Columns[models.ColumnTotal].Label)
	if idx < 0 {
		idx = frame.Index(models.Columns[models.ColumnTotal].Key)
	}
	if idx < 0 {
		return
	}

	totals := make([]decimal.Decimal, len(frame.Rows))
	for i, row := range frame.Rows {
		totals[i] = toDecimal(row[idx])
	}
	order := make([]int, len(frame.Rows))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return totals[order[a]].GreaterThan(totals[order[b]])
	})

	sorted := make([][]interface{}, len(frame.Rows))
	for i, o := range order {
		sorted[i] = frame.Rows[o]
	}
	frame.Rows = sorted
}

func toDecimal(v interface{}) decimal.Decimal {
	switch x := v.(type) {
	case decimal.Decimal:
		return x
	case float64:
		return decimal.NewFromFloat(x)
	case int:
		return decimal.NewFromInt(int64(x))
	case int64:
		return decimal.NewFromInt(x)
	case string:
		if d, err := decimal.NewFromString(x); err == nil {
			return d
		}
	}
	return decimal.Zero
}
