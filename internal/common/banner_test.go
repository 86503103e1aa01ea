package common

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrintBanner_Development(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Clients.Sheets.SpreadsheetID = "sheet-123"

	var out, logs bytes.Buffer
	PrintBanner(&out, cfg, true, NewLoggerWithOutput("info", &logs))

	assert.Contains(t, out.String(), "RHSHEETS")
	assert.Contains(t, out.String(), "sheet-123")
	assert.Contains(t, out.String(), "live")
	assert.Contains(t, logs.String(), `"holdings_source":"live"`)
}

func TestPrintBanner_ProductionOnlyLogs(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Environment = "Production"

	var out, logs bytes.Buffer
	PrintBanner(&out, cfg, false, NewLoggerWithOutput("info", &logs))

	assert.Empty(t, out.String())
	assert.Contains(t, logs.String(), `"holdings_source":"snapshot"`)
	assert.Contains(t, logs.String(), "Export starting")
}
