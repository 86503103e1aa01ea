package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/bobmcallan/rhsheets/internal/app"
	"github.com/bobmcallan/rhsheets/internal/common"
	"github.com/bobmcallan/rhsheets/internal/services/report"
)

// exportCmd holds the flags for the 'export' subcommand.
type exportCmd struct {
	live          bool
	writeSnapshot bool
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "write the stock and ETF sheets" }
func (*exportCmd) Usage() string {
	return `rhsheets [-config <file>] export [-live] [-write-snapshot]

  Builds the stock and ETF tables and overwrites both destination sheets.
  Holdings come from the stored snapshot unless -live is given.
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.live, "live", false, "fetch holdings from the brokerage instead of the snapshot")
	f.BoolVar(&c.writeSnapshot, "write-snapshot", false, "store the live holdings as the new snapshot (requires -live)")
}

func (c *exportCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := app.NewApp(ctx, *configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	svc, err := a.ExportService(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error configuring export: %v\n", err)
		return subcommands.ExitFailure
	}

	common.PrintBanner(os.Stderr, a.Config, c.live, a.Logger)

	summary, err := svc.Export(ctx, a.ExportOptions(c.live, c.writeSnapshot))
	if err != nil {
		a.Logger.Error().Err(err).Msg("Export failed")
		fmt.Fprintf(os.Stderr, "Error exporting: %v\n", err)
		return subcommands.ExitFailure
	}

	fmt.Fprint(os.Stdout, report.FormatSummary(summary))
	return subcommands.ExitSuccess
}
