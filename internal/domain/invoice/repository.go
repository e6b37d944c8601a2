package invoice

import "context"

// Repository reads invoices
type Repository interface {
	FindByID(ctx context.Context, id string) (*Invoice, error)
	FindAll(ctx context.Context) ([]Invoice, error)
}
