package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/finledger/backend/internal/domain/reconcile"
	"github.com/finledger/backend/internal/interfaces/http/dto"
	"github.com/google/subcommands"
)

type planCmd struct {
	snapshot string
	op       string
	id       string
	group    string
	reason   string
	input    string
	actor    string
}

// planners build a plan for one mutation against a snapshot
var planners = map[string]func(c *planCmd, co *reconcile.Coordinator, s *reconcile.Snapshot) (any, error){
	"apply-payment": func(c *planCmd, co *reconcile.Coordinator, s *reconcile.Snapshot) (any, error) {
		var req dto.PaymentRequest
		if err := c.decodeInput(&req); err != nil {
			return nil, err
		}
		return co.ApplyPayment(s, req.ToInput(), c.actor)
	},
	"reverse-payment": func(c *planCmd, co *reconcile.Coordinator, s *reconcile.Snapshot) (any, error) {
		return co.ReversePayment(s, c.id, c.actor)
	},
	"create-invoice": func(c *planCmd, co *reconcile.Coordinator, s *reconcile.Snapshot) (any, error) {
		var req dto.InvoiceRequest
		if err := c.decodeInput(&req); err != nil {
			return nil, err
		}
		return co.CreateInvoice(s, req.ToInput(), c.actor)
	},
	"void-invoice": func(c *planCmd, co *reconcile.Coordinator, s *reconcile.Snapshot) (any, error) {
		return co.VoidInvoice(s, c.id, c.reason, c.actor)
	},
	"delete-invoice": func(c *planCmd, co *reconcile.Coordinator, s *reconcile.Snapshot) (any, error) {
		return co.DeleteInvoice(s, c.id, c.actor)
	},
	"record-auction": func(c *planCmd, co *reconcile.Coordinator, s *reconcile.Snapshot) (any, error) {
		var req dto.AuctionRequest
		if err := c.decodeInput(&req); err != nil {
			return nil, err
		}
		return co.RecordAuction(s, c.group, req.ToRequest(), c.actor)
	},
	"delete-auction": func(c *planCmd, co *reconcile.Coordinator, s *reconcile.Snapshot) (any, error) {
		return co.DeleteAuction(s, c.group, c.id, c.actor)
	},
	"archive-bank-account": func(c *planCmd, co *reconcile.Coordinator, s *reconcile.Snapshot) (any, error) {
		return co.ArchiveBankAccount(s, c.id, c.actor)
	},
}

func (*planCmd) Name() string     { return "plan" }
func (*planCmd) Synopsis() string { return "print the write plan of a mutation without executing it" }
func (*planCmd) Usage() string {
	ops := make([]string, 0, len(planners))
	for op := range planners {
		ops = append(ops, op)
	}
	sort.Strings(ops)
	return `ledgerctl plan -snapshot <file> -op <operation> [-id <id>] [-group <chit group>] [-reason <text>] [-input <request.json>]

  Operations: ` + strings.Join(ops, ", ") + `
  apply-payment, create-invoice and record-auction read the API request body from -input.
`
}

func (c *planCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.snapshot, "snapshot", "", "Snapshot JSON file, - for stdin.")
	f.StringVar(&c.op, "op", "", "Mutation to plan.")
	f.StringVar(&c.id, "id", "", "Target entity ID.")
	f.StringVar(&c.group, "group", "", "Chit group ID for auction operations.")
	f.StringVar(&c.reason, "reason", "", "Void reason.")
	f.StringVar(&c.input, "input", "", "JSON request body file.")
	f.StringVar(&c.actor, "actor", "ledgerctl", "Actor recorded in the plan's audit logs.")
}

func (c *planCmd) decodeInput(v any) error {
	if c.input == "" {
		return fmt.Errorf("-input is required for %s", c.op)
	}
	raw, err := os.ReadFile(c.input)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decode %s: %w", c.input, err)
	}
	return nil
}

func (c *planCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	build, ok := planners[c.op]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown operation %q\n%s", c.op, c.Usage())
		return subcommands.ExitUsageError
	}
	svc := newService(c.snapshot)
	snap, err := svc.Snapshot(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	plan, err := build(c, svc.Coordinator(), snap)
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
