package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/bobmcallan/rhsheets/internal/app"
)

// snapshotCmd fetches live holdings and stores them without touching any sheet.
type snapshotCmd struct{}

func (*snapshotCmd) Name() string     { return "snapshot" }
func (*snapshotCmd) Synopsis() string { return "capture live holdings to the snapshot store" }
func (*snapshotCmd) Usage() string {
	return `rhsheets [-config <file>] snapshot

  Logs in, fetches current holdings and saves them as the offline snapshot.
`
}

func (*snapshotCmd) SetFlags(*flag.FlagSet) {}

func (*snapshotCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := app.NewApp(ctx, *configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	n, err := a.SnapshotService().Snapshot(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error capturing snapshot: %v\n", err)
		return subcommands.ExitFailure
	}

	fmt.Fprintf(os.Stdout, "Saved %d holdings to %s\n", n, a.Config.Storage.SnapshotKey)
	return subcommands.ExitSuccess
}
