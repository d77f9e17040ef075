package memory

import (
	"context"
	"sync"
	"time"

	"ledger-service/internal/core/domain/entity"
)

// Ledger is an in-memory implementation of ports.LedgerRepository. The
// mutex makes every Apply a single atomic check-and-commit and every
// Statement a consistent snapshot, mirroring the guarantees of the
// Postgres implementation without a database.
type Ledger struct {
	mu           sync.Mutex
	accounts     map[int]*entity.CustomerAccount
	transactions map[int][]entity.Transaction
	outbox       []entity.Outbox
	nextTxID     int64
}

func NewLedger(accounts ...entity.CustomerAccount) *Ledger {
	l := &Ledger{
		accounts:     make(map[int]*entity.CustomerAccount),
		transactions: make(map[int][]entity.Transaction),
	}
	for _, account := range accounts {
		a := account
		l.accounts[a.ID] = &a
	}
	return l
}

func (l *Ledger) Apply(_ context.Context, tx *entity.Transaction, outbox *entity.Outbox) (*entity.CustomerAccount, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	account, ok := l.accounts[tx.CustomerID]
	if !ok {
		return nil, entity.ErrCustomerNotFound
	}

	newBalance := account.Balance + tx.Delta()
	if newBalance+account.Limit < 0 {
		return nil, entity.ErrLimitExceeded
	}
	account.Balance = newBalance

	l.nextTxID++
	record := *tx
	record.ID = l.nextTxID
	record.OccurredAt = time.Now().UTC()
	l.transactions[tx.CustomerID] = append(l.transactions[tx.CustomerID], record)
	l.outbox = append(l.outbox, *outbox)

	snapshot := *account
	return &snapshot, nil
}

func (l *Ledger) Statement(_ context.Context, customerID, limit int) (*entity.Statement, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	account, ok := l.accounts[customerID]
	if !ok {
		return nil, entity.ErrCustomerNotFound
	}

	history := l.transactions[customerID]
	n := limit
	if n > len(history) {
		n = len(history)
	}

	// Newest first: history is append-ordered, so walk it backwards.
	recent := make([]entity.Transaction, 0, n)
	for i := len(history) - 1; i >= len(history)-n; i-- {
		recent = append(recent, history[i])
	}

	return &entity.Statement{
		Balance:      account.Balance,
		Limit:        account.Limit,
		IssuedAt:     time.Now().UTC(),
		Transactions: recent,
	}, nil
}

// PendingOutbox returns a copy of the outbox rows recorded so far.
func (l *Ledger) PendingOutbox() []entity.Outbox {
	l.mu.Lock()
	defer l.mu.Unlock()

	copied := make([]entity.Outbox, len(l.outbox))
	copy(copied, l.outbox)
	return copied
}
