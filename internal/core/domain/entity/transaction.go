package entity

import (
	"errors"
	"time"
	"unicode/utf8"
)

type TransactionKind string

const (
	KindDebit  TransactionKind = "d"
	KindCredit TransactionKind = "c"
)

const (
	descriptionMinLen = 1
	descriptionMaxLen = 10
)

var (
	ErrInvalidKind          = errors.New("tipo must be 'd' or 'c'")
	ErrInvalidDescription   = errors.New("descricao must be between 1 and 10 characters")
	ErrAmountMustBePositive = errors.New("valor must be a positive integer")
)

// Transaction is an append-only ledger record. The id and OccurredAt are
// assigned by the store at the moment the balance effect commits; a
// Transaction is never mutated after that.
type Transaction struct {
	ID          int64
	CustomerID  int
	Amount      int64
	Kind        TransactionKind
	Description string
	OccurredAt  time.Time
}

// NewTransaction validates kind, description and amount, in that order.
// Description length is counted in characters, not bytes.
func NewTransaction(customerID int, kind string, amount int64, description string) (*Transaction, error) {
	if kind != string(KindDebit) && kind != string(KindCredit) {
		return nil, ErrInvalidKind
	}
	if n := utf8.RuneCountInString(description); n < descriptionMinLen || n > descriptionMaxLen {
		return nil, ErrInvalidDescription
	}
	if amount <= 0 {
		return nil, ErrAmountMustBePositive
	}

	return &Transaction{
		CustomerID:  customerID,
		Amount:      amount,
		Kind:        TransactionKind(kind),
		Description: description,
	}, nil
}

// Delta is the signed balance effect: negative for debits, positive for
// credits. Amount itself stays unsigned in the ledger record.
func (t *Transaction) Delta() int64 {
	if t.Kind == KindDebit {
		return -t.Amount
	}
	return t.Amount
}
