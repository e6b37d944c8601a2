package chit

import "context"

// Repository reads chit groups with their auctions
type Repository interface {
	FindByID(ctx context.Context, id string) (*ChitGroup, error)
	FindAll(ctx context.Context) ([]ChitGroup, error)
}
