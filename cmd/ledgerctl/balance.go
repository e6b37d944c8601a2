package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/google/subcommands"
)

type balanceCmd struct {
	snapshot string
	mode     string
	currency string
}

func (*balanceCmd) Name() string     { return "balance" }
func (*balanceCmd) Synopsis() string { return "print account balances derived from the payments" }
func (*balanceCmd) Usage() string {
	return `ledgerctl balance -snapshot <file> [-mode CASH|BANK_<id>] [-currency INR]

  Prints every account's balance, or one account's with -mode.
`
}

func (c *balanceCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.snapshot, "snapshot", "", "Snapshot JSON file, - for stdin.")
	f.StringVar(&c.mode, "mode", "", "Only print this account.")
	f.StringVar(&c.currency, "currency", "INR", "ISO 4217 currency used for formatting.")
}

func (c *balanceCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	svc := newService(c.snapshot)

	if c.mode != "" {
		balance, err := svc.Balance(ctx, c.mode)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitFailure
		}
		s, err := formatMoney(balance, c.currency)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitUsageError
		}
		fmt.Println(s)
		return subcommands.ExitSuccess
	}

	balances, err := svc.Balances(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "ACCOUNT\tNAME\tBALANCE\t")
	for _, b := range balances {
		s, err := formatMoney(b.Balance, c.currency)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitUsageError
		}
		name := b.Name
		if b.Archived {
			name += " (archived)"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t\n", b.Mode, name, s)
	}
	if err := w.Flush(); err != nil {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

type dashboardCmd struct {
	snapshot string
}

func (*dashboardCmd) Name() string     { return "dashboard" }
func (*dashboardCmd) Synopsis() string { return "print the aggregate ledger figures as JSON" }
func (*dashboardCmd) Usage() string {
	return "ledgerctl dashboard -snapshot <file>\n"
}

func (c *dashboardCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.snapshot, "snapshot", "", "Snapshot JSON file, - for stdin.")
}

func (c *dashboardCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	stats, err := newService(c.snapshot).Dashboard(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if err := printJSON(os.Stdout, stats); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
