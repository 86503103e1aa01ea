package models

import "github.com/shopspring/decimal"

// Credentials are the brokerage login values read from the environment
type Credentials struct {
	Email    string
	Password string
	OTPKey   string // base32 TOTP secret
}

// ExportOptions selects the holdings source and the optional pipeline stages
type ExportOptions struct {
	Live                   bool // Fetch holdings from the brokerage instead of the snapshot
	WriteSnapshot          bool // Persist live holdings as the new snapshot
	IncludeFundamentals    bool
	IncludeDividendWindows bool
}

// SheetSummary describes one written destination
type SheetSummary struct {
	Destination string          `json:"destination"`
	Rows        int             `json:"rows"`
	Invested    decimal.Decimal `json:"invested"`
	Projected   decimal.Decimal `json:"projected_dividends"`
}

// ExportSummary is returned by a completed export run
type ExportSummary struct {
	RunID  string         `json:"run_id"`
	Live   bool           `json:"live"`
	Sheets []SheetSummary `json:"sheets"`
}
