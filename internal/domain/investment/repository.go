package investment

import "context"

// Repository reads investments with their transactions
type Repository interface {
	FindByID(ctx context.Context, id string) (*Investment, error)
	FindAll(ctx context.Context) ([]Investment, error)
}
