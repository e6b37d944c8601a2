package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/finledger/backend/internal/domain/reconcile"
	"github.com/google/subcommands"
)

type checkCmd struct {
	snapshot string
	asJSON   bool
}

func (*checkCmd) Name() string     { return "check" }
func (*checkCmd) Synopsis() string { return "verify the derived state of a snapshot" }
func (*checkCmd) Usage() string {
	return `ledgerctl check -snapshot <file> [-json]

  Recomputes invoice statuses and balances, chit auction months, liability
  bounds and cross references, and reports every inconsistency. Exits 1
  when any is found.
`
}

func (c *checkCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.snapshot, "snapshot", "", "Snapshot JSON file, - for stdin.")
	f.BoolVar(&c.asJSON, "json", false, "Print violations as JSON.")
}

func (c *checkCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	snap, err := newService(c.snapshot).Snapshot(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	violations := reconcile.Verify(snap)
	if err := reportViolations(os.Stdout, violations, c.asJSON); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if len(violations) > 0 {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func reportViolations(w io.Writer, violations []reconcile.Violation, asJSON bool) error {
	if asJSON {
		if violations == nil {
			violations = []reconcile.Violation{}
		}
		return printJSON(w, violations)
	}
	if len(violations) == 0 {
		_, err := fmt.Fprintln(w, "ok: no inconsistencies found")
		return err
	}
	for _, v := range violations {
		if _, err := fmt.Fprintln(w, v.String()); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "%d inconsistencies found\n", len(violations))
	return err
}
