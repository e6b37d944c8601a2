package ledger

import "context"

// PaymentRepository reads payments
type PaymentRepository interface {
	FindByID(ctx context.Context, id string) (*Payment, error)
	FindAll(ctx context.Context) ([]Payment, error)
}

// BankAccountRepository reads bank accounts
type BankAccountRepository interface {
	FindByID(ctx context.Context, id string) (*BankAccount, error)
	FindAll(ctx context.Context) ([]BankAccount, error)
}
