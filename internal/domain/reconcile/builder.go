package reconcile

import (
	"slices"

	"github.com/finledger/backend/internal/domain/audit"
	"github.com/finledger/backend/internal/domain/chit"
	"github.com/finledger/backend/internal/domain/investment"
	"github.com/finledger/backend/internal/domain/invoice"
	"github.com/finledger/backend/internal/domain/ledger"
	"github.com/finledger/backend/internal/domain/partner"
	"github.com/finledger/backend/internal/domain/shared"
)

// builder stages mutations over clones of snapshot entities and records the
// resulting writes. The snapshot itself is never touched.
type builder struct {
	idx      *index
	accounts *ledger.AccountRegistry
	actor    string
	op       string
	plan     *Plan

	invoices    map[string]*invoice.Invoice
	payments    map[string]*ledger.Payment
	liabilities map[string]*partner.Liability
	investments map[string]*investment.Investment
	groups      map[string]*chit.ChitGroup
	bank        map[string]*ledger.BankAccount
	deleted     map[EntityType]map[string]bool

	// doomed invoices are deleted later in the plan; reversals skip them
	doomed map[string]bool
}

func newBuilder(s *Snapshot, operation, actor string) *builder {
	b := &builder{
		idx:         newIndex(s),
		accounts:    s.Accounts(),
		actor:       actor,
		op:          operation,
		invoices:    make(map[string]*invoice.Invoice),
		payments:    make(map[string]*ledger.Payment),
		liabilities: make(map[string]*partner.Liability),
		investments: make(map[string]*investment.Investment),
		groups:      make(map[string]*chit.ChitGroup),
		bank:        make(map[string]*ledger.BankAccount),
		deleted:     make(map[EntityType]map[string]bool),
		doomed:      make(map[string]bool),
	}
	b.plan = b.newPlan()
	return b
}

func (b *builder) newPlan() *Plan {
	return &Plan{
		ID:        shared.NewID(),
		Operation: b.op,
		ActorID:   b.actor,
		Writes:    make([]Write, 0),
		AuditLogs: make([]*audit.AuditLog, 0),
	}
}

// cut closes the current plan and starts a new one. Staged state carries over.
func (b *builder) cut() *Plan {
	closed := b.plan
	b.plan = b.newPlan()
	return closed
}

func (b *builder) isDeleted(entity EntityType, id string) bool {
	return b.deleted[entity][id]
}

func (b *builder) invoice(id string) (*invoice.Invoice, error) {
	if inv, ok := b.invoices[id]; ok {
		return inv, nil
	}
	src, ok := b.idx.invoices[id]
	if !ok || b.isDeleted(EntityInvoice, id) {
		return nil, shared.NewDependencyNotFound("invoice", id)
	}
	inv := src.Clone()
	b.invoices[id] = inv
	return inv, nil
}

func (b *builder) payment(id string) (*ledger.Payment, error) {
	if p, ok := b.payments[id]; ok {
		return p, nil
	}
	src, ok := b.idx.payments[id]
	if !ok || b.isDeleted(EntityPayment, id) {
		return nil, shared.NewDependencyNotFound("payment", id)
	}
	p := src.Clone()
	b.payments[id] = p
	return p, nil
}

// liability returns nil when id does not name a liability
func (b *builder) liability(id string) *partner.Liability {
	if id == "" {
		return nil
	}
	if l, ok := b.liabilities[id]; ok {
		return l
	}
	src, ok := b.idx.liabilities[id]
	if !ok {
		return nil
	}
	l := src.Clone()
	b.liabilities[id] = l
	return l
}

func (b *builder) investment(id string) (*investment.Investment, error) {
	if inv, ok := b.investments[id]; ok {
		return inv, nil
	}
	src, ok := b.idx.investments[id]
	if !ok {
		return nil, shared.NewDependencyNotFound("investment", id)
	}
	inv := src.Clone()
	b.investments[id] = inv
	return inv, nil
}

// investmentForPayment returns the staged investment holding a transaction backed by paymentID
func (b *builder) investmentForPayment(paymentID string) *investment.Investment {
	for _, inv := range b.investments {
		if _, ok := inv.FindByPayment(paymentID); ok {
			return inv
		}
	}
	src, ok := b.idx.investmentByPay[paymentID]
	if !ok {
		return nil
	}
	if _, staged := b.investments[src.ID]; staged {
		return nil
	}
	inv, _ := b.investment(src.ID)
	return inv
}

func (b *builder) group(id string) (*chit.ChitGroup, error) {
	if g, ok := b.groups[id]; ok {
		return g, nil
	}
	src, ok := b.idx.chitGroups[id]
	if !ok {
		return nil, shared.NewDependencyNotFound("chit group", id)
	}
	g := src.Clone()
	b.groups[id] = g
	return g, nil
}

func (b *builder) bankAccount(id string) (*ledger.BankAccount, error) {
	if a, ok := b.bank[id]; ok {
		return a, nil
	}
	src, ok := b.idx.bankAccounts[id]
	if !ok {
		return nil, shared.NewDependencyNotFound("account", id)
	}
	a := *src
	a.ClearDomainEvents()
	b.bank[id] = &a
	return &a, nil
}

// auctionExists reports whether an auction id is recorded on any group, staged or stored
func (b *builder) auctionExists(auctionID string) bool {
	for _, g := range b.groups {
		if _, found := g.FindAuction(auctionID); found {
			return true
		}
	}
	src, ok := b.idx.groupByAuction[auctionID]
	if !ok {
		return false
	}
	_, staged := b.groups[src.ID]
	return !staged
}

func (b *builder) insert(entity EntityType, id string, value any) {
	b.plan.Writes = append(b.plan.Writes, Write{Op: OpInsert, Entity: entity, ID: id, Value: value})
}

func (b *builder) update(entity EntityType, id string, expected int, value any) {
	b.plan.Writes = append(b.plan.Writes, Write{
		Op:              OpUpdate,
		Entity:          entity,
		ID:              id,
		ExpectedVersion: expected,
		Value:           value,
	})
}

func (b *builder) upsert(entity EntityType, id string, value any) {
	b.plan.Writes = append(b.plan.Writes, Write{Op: OpUpsert, Entity: entity, ID: id, Value: value})
}

func (b *builder) remove(entity EntityType, id string, expected int) {
	if b.deleted[entity] == nil {
		b.deleted[entity] = make(map[string]bool)
	}
	b.deleted[entity][id] = true
	b.plan.Writes = append(b.plan.Writes, Write{Op: OpDelete, Entity: entity, ID: id, ExpectedVersion: expected})
}

// audit appends an audit entry tagged with the current plan
func (b *builder) audit(action audit.Action, entityType, entityID string, before, after any) error {
	entry, err := audit.NewAuditLog(action, entityType, entityID, b.actor, before, after)
	if err != nil {
		return err
	}
	entry.PlanID = b.plan.ID
	b.plan.AuditLogs = append(b.plan.AuditLogs, entry)
	return nil
}

// collect moves pending domain events from an aggregate into the plan
func (b *builder) collect(agg shared.AggregateRoot) {
	b.plan.Events = append(b.plan.Events, agg.PullDomainEvents()...)
}

func (b *builder) event(e shared.DomainEvent) {
	b.plan.Events = append(b.plan.Events, e)
}

func (b *builder) scope(scopes ...string) {
	for _, s := range scopes {
		if !slices.Contains(b.plan.Scopes, s) {
			b.plan.Scopes = append(b.plan.Scopes, s)
		}
	}
}

