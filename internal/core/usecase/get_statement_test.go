package usecase_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"ledger-service/internal/core/domain/entity"
	"ledger-service/internal/core/usecase"
)

func TestGetStatement_Success(t *testing.T) {
	now := time.Now().UTC()
	repo := &mockLedgerRepository{
		statementFn: func(_ context.Context, customerID, limit int) (*entity.Statement, error) {
			if customerID != 1 {
				t.Fatalf("expected customer 1, got %d", customerID)
			}
			if limit != 10 {
				t.Fatalf("expected a 10-entry window, got %d", limit)
			}
			return &entity.Statement{
				Balance:  -500,
				Limit:    1000,
				IssuedAt: now,
				Transactions: []entity.Transaction{
					{CustomerID: 1, Amount: 500, Kind: entity.KindDebit, Description: "compra", OccurredAt: now},
				},
			}, nil
		},
	}
	uc := usecase.NewGetStatementUseCase(repo, testLogger())

	statement, err := uc.Execute(context.Background(), usecase.StatementInput{CustomerID: 1})

	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if statement.Balance != -500 {
		t.Fatalf("expected balance -500, got %d", statement.Balance)
	}
	if len(statement.Transactions) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(statement.Transactions))
	}
}

func TestGetStatement_UnknownCustomer(t *testing.T) {
	called := false
	repo := &mockLedgerRepository{
		statementFn: func(_ context.Context, _, _ int) (*entity.Statement, error) {
			called = true
			return nil, nil
		},
	}
	uc := usecase.NewGetStatementUseCase(repo, testLogger())

	_, err := uc.Execute(context.Background(), usecase.StatementInput{CustomerID: 99})

	assertException(t, err, http.StatusNotFound)
	if called {
		t.Fatal("expected no storage access for an unknown customer")
	}
}

func TestGetStatement_RepositoryNotFound(t *testing.T) {
	repo := &mockLedgerRepository{
		statementFn: func(_ context.Context, _, _ int) (*entity.Statement, error) {
			return nil, entity.ErrCustomerNotFound
		},
	}
	uc := usecase.NewGetStatementUseCase(repo, testLogger())

	_, err := uc.Execute(context.Background(), usecase.StatementInput{CustomerID: 3})

	assertException(t, err, http.StatusNotFound)
}

func TestGetStatement_RepositoryError(t *testing.T) {
	repo := &mockLedgerRepository{
		statementFn: func(_ context.Context, _, _ int) (*entity.Statement, error) {
			return nil, errors.New("db error")
		},
	}
	uc := usecase.NewGetStatementUseCase(repo, testLogger())

	_, err := uc.Execute(context.Background(), usecase.StatementInput{CustomerID: 1})

	assertException(t, err, http.StatusInternalServerError)
}
