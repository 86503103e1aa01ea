package common

import (
	"fmt"
	"io"
	"strings"

	"github.com/ternarybob/banner"
)

// PrintBanner writes the startup banner for an export run to w and logs the
// run start. In production only the log line is emitted.
func PrintBanner(w io.Writer, config *Config, live bool, logger *Logger) {
	source := "snapshot"
	if live {
		source = "live"
	}

	if !config.IsProduction() {
		writeBanner(w, config, source)
	}

	logger.Info().
		Str("version", GetVersion()).
		Str("environment", config.Environment).
		Str("holdings_source", source).
		Msg("Export starting")
}

func writeBanner(w io.Writer, config *Config, source string) {
	lineColor := banner.ColorCyan
	textColor := banner.ColorBold + banner.ColorWhite
	hr := lineColor + strings.Repeat("═", 60) + banner.ColorReset

	fmt.Fprintf(w, "\n%s\n", hr)
	fmt.Fprintf(w, "%s  RHSHEETS  holdings -> spreadsheet%s\n", textColor, banner.ColorReset)
	fmt.Fprintf(w, "%s\n", hr)

	kvLines := [][2]string{
		{"Version", GetFullVersion()},
		{"Environment", config.Environment},
		{"Holdings", source},
		{"Spreadsheet", config.Clients.Sheets.SpreadsheetID},
		{"Storage", config.Storage.Backend},
	}
	for _, kv := range kvLines {
		fmt.Fprintf(w, "%s  %-14s %s%s\n", textColor, kv[0], kv[1], banner.ColorReset)
	}
	fmt.Fprintf(w, "%s\n\n", hr)
}
