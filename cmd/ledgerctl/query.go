package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/PaesslerAG/jsonpath"
	"github.com/google/subcommands"
)

type queryCmd struct {
	snapshot string
	path     string
}

func (*queryCmd) Name() string     { return "query" }
func (*queryCmd) Synopsis() string { return "evaluate a JSONPath expression against a snapshot" }
func (*queryCmd) Usage() string {
	return `ledgerctl query -snapshot <file> -path <expr>

  Example: ledgerctl query -snapshot s.json -path '$.invoices[?(@.status=="UNPAID")].invoice_number'
`
}

func (c *queryCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.snapshot, "snapshot", "", "Snapshot JSON file, - for stdin.")
	f.StringVar(&c.path, "path", "$", "JSONPath expression.")
}

func (c *queryCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	// Going through the service normalizes the document to the snapshot schema
	snap, err := newService(c.snapshot).Snapshot(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	result, err := query(snap, c.path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	if err := printJSON(os.Stdout, result); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// query evaluates expr over v's JSON form
func query(v any, expr string) (any, error) {
	doc, err := toJSONValue(v)
	if err != nil {
		return nil, err
	}
	result, err := jsonpath.Get(expr, doc)
	if err != nil {
		return nil, fmt.Errorf("evaluate %q: %w", expr, err)
	}
	return result, nil
}

func toJSONValue(v any) (any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}
