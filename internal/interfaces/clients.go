// Package interfaces defines service contracts for rhsheets
package interfaces

import (
	"context"

	"github.com/bobmcallan/rhsheets/internal/models"
)

// BrokerageClient provides access to the brokerage account
type BrokerageClient interface {
	// Login authenticates with a password and a one-time code derived from the OTP key
	Login(ctx context.Context, creds models.Credentials) error

	// GetHoldings retrieves current non-zero positions keyed by ticker
	GetHoldings(ctx context.Context) (map[string]models.HoldingAttributes, error)

	// GetDividends retrieves the account's full dividend payment history
	GetDividends(ctx context.Context) ([]models.DividendPayment, error)

	// GetFundamentals retrieves descriptive metadata for tickers
	GetFundamentals(ctx context.Context, tickers []string) ([]models.Fundamentals, error)
}

// SheetWriter persists a formatted table to a named destination.
// The destination is cleared before the header and rows are written.
type SheetWriter interface {
	WriteTable(ctx context.Context, frame *models.Frame, destination string) error
}

// Decrypter decodes a credential value read from the environment
type Decrypter interface {
	Decrypt(ctx context.Context, value string) (string, error)
}
