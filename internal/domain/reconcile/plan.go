package reconcile

import (
	"github.com/finledger/backend/internal/domain/audit"
	"github.com/finledger/backend/internal/domain/shared"
)

// Op is the kind of storage write
type Op string

const (
	OpInsert Op = "INSERT"
	OpUpdate Op = "UPDATE"
	OpDelete Op = "DELETE"
	OpUpsert Op = "UPSERT"
)

// EntityType names the stored entity a write targets
type EntityType string

const (
	EntityPayment        EntityType = "PAYMENT"
	EntityInvoice        EntityType = "INVOICE"
	EntityChitGroup      EntityType = "CHIT_GROUP"
	EntityInvestment     EntityType = "INVESTMENT"
	EntityLiability      EntityType = "LIABILITY"
	EntityCustomer       EntityType = "CUSTOMER"
	EntityBankAccount    EntityType = "BANK_ACCOUNT"
	EntityOpeningBalance EntityType = "OPENING_BALANCE"
)

// Audit-only entity types that have no table of their own
const (
	AuditEntityChitAuction           = "CHIT_AUCTION"
	AuditEntityInvestmentTransaction = "INVESTMENT_TRANSACTION"
	AuditEntitySession               = "SESSION"
)

// Write is one storage mutation.
// For UPDATE and DELETE the stored version must equal ExpectedVersion,
// otherwise the write is stale and the whole plan is rejected.
type Write struct {
	Op              Op         `json:"op"`
	Entity          EntityType `json:"entity"`
	ID              string     `json:"id"`
	ExpectedVersion int        `json:"expected_version,omitempty"`
	Value           any        `json:"value,omitempty"`
}

// Plan is the ordered set of writes for one logical mutation.
// Writes must be applied in order; audit logs and events follow a successful commit.
type Plan struct {
	ID        string               `json:"id"`
	Operation string               `json:"operation"`
	ActorID   string               `json:"actor_id"`
	Writes    []Write              `json:"writes"`
	AuditLogs []*audit.AuditLog    `json:"audit_logs"`
	Events    []shared.DomainEvent `json:"-"`
	// Scopes are the sequence locks to hold while the plan executes
	Scopes []string `json:"scopes,omitempty"`
}

// IsEmpty returns true when the plan changes nothing
func (p *Plan) IsEmpty() bool {
	return len(p.Writes) == 0 && len(p.AuditLogs) == 0
}

// BulkPlan is a chunked mutation. Each chunk is committed on its own;
// a failure at chunk k leaves chunks 0..k-1 committed.
type BulkPlan struct {
	ID        string   `json:"id"`
	Operation string   `json:"operation"`
	Total     int      `json:"total"`
	Chunks    []*Plan  `json:"chunks"`
	ChunkSize []int    `json:"chunk_sizes"`
	Scopes    []string `json:"scopes,omitempty"`
}

// CommittedBefore returns how many items are committed once chunks [0, k) succeed
func (b *BulkPlan) CommittedBefore(k int) int {
	n := 0
	for i := 0; i < k && i < len(b.ChunkSize); i++ {
		n += b.ChunkSize[i]
	}
	return n
}

// PlanCommittedEvent is published after a plan's writes are durable
type PlanCommittedEvent struct {
	shared.BaseDomainEvent
	PlanID    string            `json:"plan_id"`
	Operation string            `json:"operation"`
	ActorID   string            `json:"actor_id"`
	Writes    int               `json:"writes"`
	AuditLogs []*audit.AuditLog `json:"audit_logs"`
}

// EventTypePlanCommitted is the event type of PlanCommittedEvent
const EventTypePlanCommitted = "PlanCommitted"

// NewPlanCommittedEvent creates a new PlanCommittedEvent
func NewPlanCommittedEvent(p *Plan) *PlanCommittedEvent {
	return &PlanCommittedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePlanCommitted, "Plan", p.ID),
		PlanID:          p.ID,
		Operation:       p.Operation,
		ActorID:         p.ActorID,
		Writes:          len(p.Writes),
		AuditLogs:       p.AuditLogs,
	}
}
