// Package sheets writes formatted tables to Google Sheets
package sheets

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"

	"github.com/bobmcallan/rhsheets/internal/common"
	"github.com/bobmcallan/rhsheets/internal/interfaces"
	"github.com/bobmcallan/rhsheets/internal/models"
)

// Writer implements the SheetWriter interface against one spreadsheet
type Writer struct {
	svc           *gsheets.Service
	spreadsheetID string
	logger        *common.Logger
}

var _ interfaces.SheetWriter = (*Writer)(nil)

// NewWriter authenticates with a service account JSON file
func NewWriter(ctx context.Context, spreadsheetID, credentialsFile string, logger *common.Logger) (*Writer, error) {
	data, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("%w: read sheets credentials %s: %v", common.ErrConfig, credentialsFile, err)
	}

	creds, err := google.CredentialsFromJSON(ctx, data, gsheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("%w: parse sheets credentials: %v", common.ErrConfig, err)
	}

	return NewWriterWithOptions(ctx, spreadsheetID, logger, option.WithCredentials(creds))
}

// NewWriterWithOptions builds the Sheets service from client options
func NewWriterWithOptions(ctx context.Context, spreadsheetID string, logger *common.Logger, opts ...option.ClientOption) (*Writer, error) {
	svc, err := gsheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &Writer{svc: svc, spreadsheetID: spreadsheetID, logger: logger}, nil
}

// WriteTable clears the destination sheet, then writes the header row and
// every data row starting at A1.
func (w *Writer) WriteTable(ctx context.Context, frame *models.Frame, destination string) error {
	rng := sheetRange(destination)

	if _, err := w.svc.Spreadsheets.Values.Clear(w.spreadsheetID, rng, &gsheets.ClearValuesRequest{}).
		Context(ctx).Do(); err != nil {
		return fmt.Errorf("clear sheet %s: %w", destination, err)
	}

	vr := &gsheets.ValueRange{
		MajorDimension: "ROWS",
		Values:         Values(frame),
	}
	resp, err := w.svc.Spreadsheets.Values.Update(w.spreadsheetID, rng+"!A1", vr).
		ValueInputOption("RAW").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("write sheet %s: %w", destination, err)
	}

	w.logger.Info().
		Str("sheet", destination).
		Int64("rows", resp.UpdatedRows).
		Msg("Updated Google sheet")
	return nil
}

// sheetRange quotes a sheet title for A1 notation
func sheetRange(title string) string {
	return "'" + strings.ReplaceAll(title, "'", "''") + "'"
}

// Values converts a frame to sheet cells: header first, decimals as numbers.
func Values(frame *models.Frame) [][]interface{} {
	out := make([][]interface{}, 0, len(frame.Rows)+1)

	header := make([]interface{}, len(frame.Columns))
	for i, c := range frame.Columns {
		header[i] = c
	}
	out = append(out, header)

	for _, row := range frame.Rows {
		cells := make([]interface{}, len(row))
		for i, v := range row {
			cells[i] = cell(v)
		}
		out = append(out, cells)
	}
	return out
}

func cell(v interface{}) interface{} {
	switch x := v.(type) {
	case decimal.Decimal:
		return x.InexactFloat64()
	case time.Time:
		if x.IsZero() {
			return ""
		}
		return x.Format("2006-01-02")
	case nil:
		return ""
	default:
		return x
	}
}
