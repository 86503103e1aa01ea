package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// EnrichedHolding is a holding plus every joined and calculated field
type EnrichedHolding struct {
	Holding

	// Fundamentals
	Description string `json:"description"`
	Sector      string `json:"sector"`
	Industry    string `json:"industry"`

	// Latest dividend record, zero when the instrument never paid
	LatestRate        decimal.Decimal `json:"rate"`
	LatestAmount      decimal.Decimal `json:"amount"`
	LatestPayableDate time.Time       `json:"payable_date"`
	MonthlyAdjusted   bool            `json:"-"`

	// Calculated
	Total             decimal.Decimal `json:"total"`
	Diversity         decimal.Decimal `json:"portfolio_diversity"`
	ProjectedDividend decimal.Decimal `json:"projected_dvd"`

	// Windowed payouts
	LastYearDividend decimal.Decimal `json:"last_year_dvd"`
	YTDDividend      decimal.Decimal `json:"ytd_dvd"`
}

// ColumnKey enumerates every column the pipeline can produce.
// Declaration order is the insertion order within a Table.
type ColumnKey int

const (
	ColumnInstrument ColumnKey = iota
	ColumnTicker
	ColumnName
	ColumnAverageBuyPrice
	ColumnQuantity
	ColumnProductType
	ColumnPrice
	ColumnEquity
	ColumnTotal
	ColumnDiversity
	ColumnDescription
	ColumnSector
	ColumnIndustry
	ColumnDividendRate
	ColumnLastDividend
	ColumnProjectedDividend
	ColumnLastYearDividend
	ColumnYTDDividend
)

// ColumnCategory groups columns by origin
type ColumnCategory string

const (
	CategoryID           ColumnCategory = "id"
	CategoryPortfolio    ColumnCategory = "portfolio"
	CategoryCalculated   ColumnCategory = "calculated"
	CategoryFundamentals ColumnCategory = "fundamentals"
	CategoryDividend     ColumnCategory = "dividend"
)

// SemanticType is the value kind a column carries
type SemanticType string

const (
	TypeString  SemanticType = "string"
	TypeDecimal SemanticType = "decimal"
	TypeRatio   SemanticType = "ratio"
)

// ColumnDescriptor describes one column: its internal key, the label shown
// in the sheet, its value kind and category, and how to read it from a row.
type ColumnDescriptor struct {
	Key      string
	Label    string
	Type     SemanticType
	Category ColumnCategory
	Value    func(*EnrichedHolding) interface{}
}

// Columns maps each column key to its descriptor.
var Columns = map[ColumnKey]ColumnDescriptor{
	ColumnInstrument: {"instrument", "Instrument URL", TypeString, CategoryID,
		func(h *EnrichedHolding) interface{} { return h.InstrumentID }},
	ColumnTicker: {"ticker", "Ticker", TypeString, CategoryPortfolio,
		func(h *EnrichedHolding) interface{} { return h.Ticker }},
	ColumnName: {"name", "Name", TypeString, CategoryPortfolio,
		func(h *EnrichedHolding) interface{} { return h.Name }},
	ColumnAverageBuyPrice: {"average_buy_price", "Avg Price", TypeDecimal, CategoryPortfolio,
		func(h *EnrichedHolding) interface{} { return h.AverageBuyPrice }},
	ColumnQuantity: {"quantity", "Quantity", TypeDecimal, CategoryPortfolio,
		func(h *EnrichedHolding) interface{} { return h.Quantity }},
	ColumnProductType: {"type", "Type", TypeString, CategoryPortfolio,
		func(h *EnrichedHolding) interface{} { return string(h.ProductType) }},
	ColumnPrice: {"price", "Price", TypeDecimal, CategoryPortfolio,
		func(h *EnrichedHolding) interface{} { return h.Price }},
	ColumnEquity: {"equity", "Equity", TypeDecimal, CategoryPortfolio,
		func(h *EnrichedHolding) interface{} { return h.Equity }},
	ColumnTotal: {"total", "Total", TypeDecimal, CategoryCalculated,
		func(h *EnrichedHolding) interface{} { return h.Total }},
	ColumnDiversity: {"portfolio_diversity", "Diversity", TypeRatio, CategoryCalculated,
		func(h *EnrichedHolding) interface{} { return h.Diversity }},
	ColumnDescription: {"description", "Description", TypeString, CategoryFundamentals,
		func(h *EnrichedHolding) interface{} { return h.Description }},
	ColumnSector: {"sector", "Sector", TypeString, CategoryFundamentals,
		func(h *EnrichedHolding) interface{} { return h.Sector }},
	ColumnIndustry: {"industry", "Industry", TypeString, CategoryFundamentals,
		func(h *EnrichedHolding) interface{} { return h.Industry }},
	ColumnDividendRate: {"rate", "DVD Rate", TypeDecimal, CategoryDividend,
		func(h *EnrichedHolding) interface{} { return h.LatestRate }},
	ColumnLastDividend: {"amount", "Last Dividend", TypeDecimal, CategoryDividend,
		func(h *EnrichedHolding) interface{} { return h.LatestAmount }},
	ColumnProjectedDividend: {"projected_dvd", "Projected DVD", TypeDecimal, CategoryDividend,
		func(h *EnrichedHolding) interface{} { return h.ProjectedDividend }},
	ColumnLastYearDividend: {"last_year_dvd", "Last Year's DVD", TypeDecimal, CategoryDividend,
		func(h *EnrichedHolding) interface{} { return h.LastYearDividend }},
	ColumnYTDDividend: {"ytd_dvd", "YTD DVD", TypeDecimal, CategoryDividend,
		func(h *EnrichedHolding) interface{} { return h.YTDDividend }},
}

// IdentityColumns are present in every table built from holdings.
var IdentityColumns = []ColumnKey{
	ColumnInstrument,
	ColumnTicker,
	ColumnName,
	ColumnAverageBuyPrice,
	ColumnQuantity,
	ColumnProductType,
	ColumnPrice,
	ColumnEquity,
}

// FundamentalsColumns are added by the fundamentals join.
var FundamentalsColumns = []ColumnKey{ColumnDescription, ColumnSector, ColumnIndustry}

// LatestDividendColumns are added by the latest-dividend join.
var LatestDividendColumns = []ColumnKey{ColumnDividendRate, ColumnLastDividend}

// DividendWindowColumns are added by the payout window join.
var DividendWindowColumns = []ColumnKey{ColumnLastYearDividend, ColumnYTDDividend}
