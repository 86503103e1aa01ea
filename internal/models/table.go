package models

import "sort"

// Table is a partition of enriched holdings together with the columns that
// have been populated so far. Columns stay ordered by ColumnKey.
type Table struct {
	Columns []ColumnKey
	Rows    []*EnrichedHolding
}

// NewTable builds a table holding only the identity columns.
func NewTable(holdings []Holding) *Table {
	t := &Table{Rows: make([]*EnrichedHolding, 0, len(holdings))}
	for _, h := range holdings {
		t.Rows = append(t.Rows, &EnrichedHolding{Holding: h})
	}
	t.AddColumns(IdentityColumns...)
	return t
}

// HasColumn reports whether key has been populated
func (t *Table) HasColumn(key ColumnKey) bool {
	for _, c := range t.Columns {
		if c == key {
			return true
		}
	}
	return false
}

// AddColumns records keys as populated. Adding a key twice is a no-op.
func (t *Table) AddColumns(keys ...ColumnKey) {
	for _, k := range keys {
		if !t.HasColumn(k) {
			t.Columns = append(t.Columns, k)
		}
	}
	sort.Slice(t.Columns, func(i, j int) bool { return t.Columns[i] < t.Columns[j] })
}

// Tickers returns the tickers of all rows in row order
func (t *Table) Tickers() []string {
	out := make([]string, len(t.Rows))
	for i, r := range t.Rows {
		out[i] = r.Ticker
	}
	return out
}

// Frame renders the table as a generic frame keyed by internal column keys.
func (t *Table) Frame() *Frame {
	f := &Frame{
		Columns: make([]string, len(t.Columns)),
		Rows:    make([][]interface{}, len(t.Rows)),
	}
	for i, key := range t.Columns {
		f.Columns[i] = Columns[key].Key
	}
	for r, row := range t.Rows {
		cells := make([]interface{}, len(t.Columns))
		for i, key := range t.Columns {
			cells[i] = Columns[key].Value(row)
		}
		f.Rows[r] = cells
	}
	return f
}

// Frame is a named-column table of cells, the shape handed to a sheet.
type Frame struct {
	Columns []string
	Rows    [][]interface{}
}

// Index returns the position of column name, or -1.
func (f *Frame) Index(name string) int {
	for i, c := range f.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Len returns the number of data rows
func (f *Frame) Len() int {
	return len(f.Rows)
}
