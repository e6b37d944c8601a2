// Command ledgerctl inspects ledger snapshots offline: balances, dashboard
// figures, consistency checks, JSONPath queries and dry-run write plans.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")

	for _, c := range commands {
		commander.Register(c, "")
	}
	commander.Register(&archiveCmd{}, "storage")

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

var commands = []subcommands.Command{
	&balanceCmd{},
	&dashboardCmd{},
	&checkCmd{},
	&queryCmd{},
	&planCmd{},
}
