package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/finledger/backend/internal/infrastructure/config"
	"github.com/finledger/backend/internal/infrastructure/storage"
	"github.com/google/subcommands"
	"go.uber.org/zap"
)

type archiveCmd struct {
	day string
	key string
}

func (*archiveCmd) Name() string     { return "archive" }
func (*archiveCmd) Synopsis() string { return "list or fetch committed plans from the audit archive" }
func (*archiveCmd) Usage() string {
	return `ledgerctl archive [-day 2006-01-02 | -key <object key>]

  Reads the S3 audit archive configured by the FINLEDGER_STORAGE_* settings.
  -day lists the plans committed that day (UTC), -key prints one plan.
`
}

func (c *archiveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.day, "day", "", "List the plans archived on this UTC day.")
	f.StringVar(&c.key, "key", "", "Print the archived plan stored under this key.")
}

func (c *archiveCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	if (c.day == "") == (c.key == "") {
		fmt.Fprint(os.Stderr, "exactly one of -day or -key is required\n", c.Usage())
		return subcommands.ExitUsageError
	}
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if !cfg.Storage.Enabled {
		fmt.Fprintln(os.Stderr, "the audit archive is disabled (FINLEDGER_STORAGE_ENABLED)")
		return subcommands.ExitFailure
	}
	store, err := storage.NewS3ObjectStorage(ctx, &cfg.Storage)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	archiver := storage.NewAuditArchiver(store, cfg.Storage.Prefix, zap.NewNop())

	if c.key != "" {
		plan, err := archiver.Fetch(ctx, c.key)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitFailure
		}
		if err := printJSON(os.Stdout, plan); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}

	day, err := time.Parse("2006-01-02", c.day)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid -day: %v\n", err)
		return subcommands.ExitUsageError
	}
	keys, err := archiver.Keys(ctx, day)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	for _, k := range keys {
		fmt.Println(k)
	}
	return subcommands.ExitSuccess
}
