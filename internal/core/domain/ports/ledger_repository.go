package ports

import (
	"context"

	"ledger-service/internal/core/domain/entity"
)

// LedgerRepository is the durable store behind the applier and the
// statement reader.
//
// Apply must execute the limit check, the balance update, the transaction
// insert and the outbox insert as one atomic unit: either all of it commits
// or none of it does, and concurrent applies for the same customer
// serialize. It returns entity.ErrLimitExceeded when the predicate
// balance + delta + limit >= 0 fails, leaving state untouched.
//
// Statement must return a snapshot in which the balance reflects every
// transaction in the returned list.
type LedgerRepository interface {
	Apply(ctx context.Context, tx *entity.Transaction, outbox *entity.Outbox) (*entity.CustomerAccount, error)
	Statement(ctx context.Context, customerID, limit int) (*entity.Statement, error)
}
