package ledger

import (
	"context"
	"fmt"
	"sort"

	"github.com/finledger/backend/internal/domain/audit"
	"github.com/finledger/backend/internal/domain/chit"
	"github.com/finledger/backend/internal/domain/investment"
	"github.com/finledger/backend/internal/domain/invoice"
	"github.com/finledger/backend/internal/domain/ledger"
	"github.com/finledger/backend/internal/domain/reconcile"
	"github.com/finledger/backend/internal/domain/report"
	"github.com/finledger/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// AccountBalance is the derived balance of one account
type AccountBalance struct {
	Mode     ledger.AccountMode `json:"mode"`
	Name     string             `json:"name"`
	Archived bool               `json:"archived"`
	Balance  decimal.Decimal    `json:"balance"`
}

// Snapshot returns the current state
func (s *Service) Snapshot(ctx context.Context) (*reconcile.Snapshot, error) {
	snap, err := s.loader.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	return snap, nil
}

// Balances returns every account's balance, cash first then banks by name
func (s *Service) Balances(ctx context.Context) ([]AccountBalance, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	all := ledger.ComputeBalances(snap.Payments, snap.OpeningBalances())
	out := []AccountBalance{{Mode: ledger.CashMode, Name: "Cash", Balance: all[ledger.CashMode]}}
	banks := make([]AccountBalance, 0, len(snap.BankAccounts))
	for _, a := range snap.BankAccounts {
		banks = append(banks, AccountBalance{
			Mode:     a.Mode(),
			Name:     a.Name,
			Archived: a.IsArchived(),
			Balance:  all[a.Mode()],
		})
	}
	sort.Slice(banks, func(i, j int) bool { return banks[i].Name < banks[j].Name })
	return append(out, banks...), nil
}

// Balance returns one account's balance
func (s *Service) Balance(ctx context.Context, mode string) (decimal.Decimal, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	m, err := snap.Accounts().Resolve(mode)
	if err != nil {
		return decimal.Zero, err
	}
	return ledger.ComputeAccountBalance(snap.Payments, snap.OpeningBalances(), m), nil
}

// Dashboard returns the aggregate figures of the whole ledger
func (s *Service) Dashboard(ctx context.Context) (report.DashboardStats, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return report.DashboardStats{}, err
	}
	return report.ComputeDashboardStats(snap), nil
}

// Invoice returns one invoice
func (s *Service) Invoice(ctx context.Context, id string) (*invoice.Invoice, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	for i := range snap.Invoices {
		if snap.Invoices[i].ID == id {
			return &snap.Invoices[i], nil
		}
	}
	return nil, shared.NewDependencyNotFound("invoice", id)
}

// ChitState returns the derived state of a chit group
func (s *Service) ChitState(ctx context.Context, groupID string) (chit.ChitState, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return chit.ChitState{}, err
	}
	for i := range snap.ChitGroups {
		if snap.ChitGroups[i].ID == groupID {
			return chit.ComputeChitState(&snap.ChitGroups[i]), nil
		}
	}
	return chit.ChitState{}, shared.NewDependencyNotFound("chit group", groupID)
}

// InvestmentTotal returns how much has gone into an investment
func (s *Service) InvestmentTotal(ctx context.Context, investmentID string) (decimal.Decimal, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	for i := range snap.Investments {
		inv := &snap.Investments[i]
		if inv.ID == investmentID {
			return investment.ComputeInvestmentTotal(inv, inv.Transactions), nil
		}
	}
	return decimal.Zero, shared.NewDependencyNotFound("investment", investmentID)
}

// AuditLogs lists audit entries. An entity filter narrows to one entity's history.
func (s *Service) AuditLogs(ctx context.Context, entityType, entityID string, filter shared.Filter) ([]audit.AuditLog, int64, error) {
	if s.audits == nil {
		return nil, 0, shared.NewInvalidState("audit log queries are not configured")
	}
	if entityType != "" && entityID != "" {
		logs, err := s.audits.FindByEntity(ctx, entityType, entityID)
		if err != nil {
			return nil, 0, fmt.Errorf("find audit logs: %w", err)
		}
		return logs, int64(len(logs)), nil
	}
	if entityType != "" {
		if filter.Filters == nil {
			filter.Filters = map[string]any{}
		}
		filter.Filters["entity_type"] = entityType
	}
	logs, total, err := s.audits.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("list audit logs: %w", err)
	}
	return logs, total, nil
}
