package interfaces

import (
	"context"

	"github.com/bobmcallan/rhsheets/internal/models"
)

// ExportService runs the holdings to spreadsheet pipeline
type ExportService interface {
	// Export builds both partitions and writes them. Nothing is written when any step fails.
	Export(ctx context.Context, opts models.ExportOptions) (*models.ExportSummary, error)

	// Snapshot fetches live holdings and saves them without writing sheets
	Snapshot(ctx context.Context) (int, error)
}
