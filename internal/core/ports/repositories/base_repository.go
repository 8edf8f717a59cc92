package repositories

import (
	"context"
)

// TransactionManager runs a unit of work inside a single storage transaction.
// Repository calls made with the ctx handed to fn join that transaction;
// the unit commits only if fn returns nil and ctx is still live.
type TransactionManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
