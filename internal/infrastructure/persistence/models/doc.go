// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer pure and free
// from ORM concerns.
//
// Key Principles:
// 1. Domain entities carry no table mapping or column types
// 2. Persistence models contain all GORM annotations and table mappings
// 3. Mappers convert between domain entities and persistence models
// 4. The plan executor and snapshot loader use persistence models for database operations
//
// Structure:
// - base.go: Base persistence models (BaseModel, AggregateModel)
// - json.go: JSON column wrapper for nested values (auctions, audit snapshots)
// - ledger.go: payments, bank accounts and the cash opening balance
// - invoice.go, chit.go, investment.go, partner.go: one file per bounded context
// - audit.go: the append-only audit trail
package models
