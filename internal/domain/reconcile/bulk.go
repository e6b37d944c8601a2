package reconcile

import (
	"slices"

	"github.com/finledger/backend/internal/domain/shared"
)

// bulkBuilder groups a builder's output into chunks of at most chunkSize items
type bulkBuilder struct {
	*BulkPlan
	pending int
}

func newBulkPlan(operation string, total int) *bulkBuilder {
	return &bulkBuilder{BulkPlan: &BulkPlan{
		ID:        shared.NewID(),
		Operation: operation,
		Total:     total,
		Chunks:    make([]*Plan, 0, 1),
	}}
}

func (bb *bulkBuilder) count() {
	bb.pending++
}

// close seals the builder's current plan as a chunk
func (bb *bulkBuilder) close(b *builder) {
	chunk := b.cut()
	for _, s := range chunk.Scopes {
		if !slices.Contains(bb.Scopes, s) {
			bb.Scopes = append(bb.Scopes, s)
		}
	}
	bb.Chunks = append(bb.Chunks, chunk)
	bb.ChunkSize = append(bb.ChunkSize, bb.pending)
	bb.pending = 0
}

func (bb *bulkBuilder) finish(b *builder) {
	if bb.pending > 0 {
		bb.close(b)
	}
}

func checkBulkIDs(ids []string, entity string) error {
	if len(ids) == 0 {
		return shared.NewValidationError("no %s ids given", entity)
	}
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if id == "" {
			return shared.NewValidationError("empty %s id in batch", entity)
		}
		if _, dup := seen[id]; dup {
			return shared.NewValidationError("%s %s appears twice in batch", entity, id)
		}
		seen[id] = struct{}{}
	}
	return nil
}
