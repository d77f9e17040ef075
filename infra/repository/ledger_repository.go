package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"ledger-service/internal/core/domain/entity"
)

type PostgresLedgerRepository struct {
	db *sql.DB
}

func NewLedgerRepository(db *sql.DB) *PostgresLedgerRepository {
	return &PostgresLedgerRepository{db: db}
}

// Apply commits the balance update, the transaction row and the outbox row
// in one database transaction. The limit check and the balance write are a
// single conditional UPDATE, so concurrent applies for the same customer
// serialize on the row lock and each one re-evaluates the predicate against
// the committed balance; there is no read-then-write window.
func (r *PostgresLedgerRepository) Apply(ctx context.Context, tx *entity.Transaction, outbox *entity.Outbox) (*entity.CustomerAccount, error) {
	dbTx, err := r.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return nil, fmt.Errorf("begin apply: %w", err)
	}
	defer func() { _ = dbTx.Rollback() }()

	const updateBalance = `
		UPDATE customers
		SET balance = balance + $1
		WHERE id = $2 AND balance + $1 + credit_limit >= 0
		RETURNING credit_limit, balance
	`
	account := entity.CustomerAccount{ID: tx.CustomerID}
	err = dbTx.QueryRowContext(ctx, updateBalance, tx.Delta(), tx.CustomerID).
		Scan(&account.Limit, &account.Balance)
	if errors.Is(err, sql.ErrNoRows) {
		// Customer ids are validated against the seeded set before this
		// call, so an empty update means the limit predicate failed.
		return nil, entity.ErrLimitExceeded
	}
	if err != nil {
		return nil, fmt.Errorf("update balance: %w", err)
	}

	const insertTx = `
		INSERT INTO transactions (customer_id, amount, kind, description, occurred_at)
		VALUES ($1, $2, $3, $4, now())
	`
	if _, err := dbTx.ExecContext(ctx, insertTx,
		tx.CustomerID, tx.Amount, string(tx.Kind), tx.Description,
	); err != nil {
		return nil, fmt.Errorf("insert transaction: %w", err)
	}

	const insertOutbox = `
		INSERT INTO outbox (id, type, payload, status, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	if _, err := dbTx.ExecContext(ctx, insertOutbox,
		outbox.ID, outbox.Type, outbox.Payload, string(outbox.Status), outbox.CreatedAt,
	); err != nil {
		return nil, fmt.Errorf("insert outbox: %w", err)
	}

	if err := dbTx.Commit(); err != nil {
		return nil, fmt.Errorf("commit apply: %w", err)
	}
	return &account, nil
}

// Statement reads the balance and the recent transactions inside one
// repeatable-read, read-only transaction: both reflect the same snapshot.
func (r *PostgresLedgerRepository) Statement(ctx context.Context, customerID, limit int) (*entity.Statement, error) {
	dbTx, err := r.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
	if err != nil {
		return nil, fmt.Errorf("begin statement: %w", err)
	}
	defer func() { _ = dbTx.Rollback() }()

	const selectCustomer = `
		SELECT balance, credit_limit, now()
		FROM customers
		WHERE id = $1
	`
	var statement entity.Statement
	err = dbTx.QueryRowContext(ctx, selectCustomer, customerID).
		Scan(&statement.Balance, &statement.Limit, &statement.IssuedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrCustomerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select customer: %w", err)
	}

	const selectRecent = `
		SELECT id, customer_id, amount, kind, description, occurred_at
		FROM transactions
		WHERE customer_id = $1
		ORDER BY occurred_at DESC, id DESC
		LIMIT $2
	`
	rows, err := dbTx.QueryContext(ctx, selectRecent, customerID, limit)
	if err != nil {
		return nil, fmt.Errorf("select transactions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var tx entity.Transaction
		if err := rows.Scan(
			&tx.ID, &tx.CustomerID, &tx.Amount, &tx.Kind, &tx.Description, &tx.OccurredAt,
		); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		statement.Transactions = append(statement.Transactions, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}

	if err := dbTx.Commit(); err != nil {
		return nil, fmt.Errorf("commit statement: %w", err)
	}
	return &statement, nil
}
