package usecase_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"

	"ledger-service/internal/core/domain/entity"
	apperrors "ledger-service/internal/core/errors"
	"ledger-service/internal/core/usecase"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type mockLedgerRepository struct {
	applyFn     func(ctx context.Context, tx *entity.Transaction, outbox *entity.Outbox) (*entity.CustomerAccount, error)
	statementFn func(ctx context.Context, customerID, limit int) (*entity.Statement, error)
	applyCalls  int
}

func (m *mockLedgerRepository) Apply(ctx context.Context, tx *entity.Transaction, outbox *entity.Outbox) (*entity.CustomerAccount, error) {
	m.applyCalls++
	if m.applyFn != nil {
		return m.applyFn(ctx, tx, outbox)
	}
	return &entity.CustomerAccount{ID: tx.CustomerID, Limit: 1000, Balance: tx.Delta()}, nil
}

func (m *mockLedgerRepository) Statement(ctx context.Context, customerID, limit int) (*entity.Statement, error) {
	if m.statementFn != nil {
		return m.statementFn(ctx, customerID, limit)
	}
	return &entity.Statement{}, nil
}

func assertException(t *testing.T, err error, expectedCode int) *apperrors.Exception {
	t.Helper()
	exc, ok := err.(*apperrors.Exception)
	if !ok {
		t.Fatalf("expected *apperrors.Exception, got: %T (%v)", err, err)
	}
	if exc.Code != expectedCode {
		t.Fatalf("expected code %d, got %d", expectedCode, exc.Code)
	}
	return exc
}

func TestApplyTransaction_Success(t *testing.T) {
	repo := &mockLedgerRepository{}
	uc := usecase.NewApplyTransactionUseCase(repo, testLogger())

	out, err := uc.Execute(context.Background(), usecase.ApplyInput{
		CustomerID:  1,
		Kind:        "d",
		Amount:      500,
		Description: "compra",
	})

	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if out.Limit != 1000 {
		t.Fatalf("expected limit 1000, got %d", out.Limit)
	}
	if out.Balance != -500 {
		t.Fatalf("expected balance -500, got %d", out.Balance)
	}
}

func TestApplyTransaction_UnknownCustomer(t *testing.T) {
	repo := &mockLedgerRepository{}
	uc := usecase.NewApplyTransactionUseCase(repo, testLogger())

	_, err := uc.Execute(context.Background(), usecase.ApplyInput{
		CustomerID:  99,
		Kind:        "d",
		Amount:      100,
		Description: "compra",
	})

	assertException(t, err, http.StatusNotFound)
	if repo.applyCalls != 0 {
		t.Fatal("expected no storage access for an unknown customer")
	}
}

func TestApplyTransaction_ValidationBeforeStorage(t *testing.T) {
	cases := []struct {
		name  string
		input usecase.ApplyInput
	}{
		{"invalid kind", usecase.ApplyInput{CustomerID: 1, Kind: "x", Amount: 100, Description: "compra"}},
		{"empty description", usecase.ApplyInput{CustomerID: 1, Kind: "d", Amount: 100, Description: ""}},
		{"long description", usecase.ApplyInput{CustomerID: 1, Kind: "d", Amount: 100, Description: strings.Repeat("a", 11)}},
		{"zero amount", usecase.ApplyInput{CustomerID: 1, Kind: "d", Amount: 0, Description: "compra"}},
		{"negative amount", usecase.ApplyInput{CustomerID: 1, Kind: "d", Amount: -10, Description: "compra"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := &mockLedgerRepository{}
			uc := usecase.NewApplyTransactionUseCase(repo, testLogger())

			_, err := uc.Execute(context.Background(), tc.input)

			assertException(t, err, http.StatusUnprocessableEntity)
			if repo.applyCalls != 0 {
				t.Fatal("expected no storage access for invalid input")
			}
		})
	}
}

func TestApplyTransaction_KindCheckedBeforeDescription(t *testing.T) {
	repo := &mockLedgerRepository{}
	uc := usecase.NewApplyTransactionUseCase(repo, testLogger())

	_, err := uc.Execute(context.Background(), usecase.ApplyInput{
		CustomerID:  1,
		Kind:        "x",
		Amount:      0,
		Description: "",
	})

	exc := assertException(t, err, http.StatusUnprocessableEntity)
	if exc.Message != entity.ErrInvalidKind.Error() {
		t.Fatalf("expected first failure to win (%q), got %q", entity.ErrInvalidKind.Error(), exc.Message)
	}
}

func TestApplyTransaction_LimitExceeded(t *testing.T) {
	repo := &mockLedgerRepository{
		applyFn: func(_ context.Context, _ *entity.Transaction, _ *entity.Outbox) (*entity.CustomerAccount, error) {
			return nil, entity.ErrLimitExceeded
		},
	}
	uc := usecase.NewApplyTransactionUseCase(repo, testLogger())

	_, err := uc.Execute(context.Background(), usecase.ApplyInput{
		CustomerID:  1,
		Kind:        "d",
		Amount:      1100,
		Description: "compra",
	})

	exc := assertException(t, err, http.StatusUnprocessableEntity)
	if exc.Message != entity.ErrLimitExceeded.Error() {
		t.Fatalf("expected limit exceeded message, got %q", exc.Message)
	}
}

func TestApplyTransaction_SavesOutboxEvent(t *testing.T) {
	var capturedOutbox *entity.Outbox

	repo := &mockLedgerRepository{
		applyFn: func(_ context.Context, tx *entity.Transaction, outbox *entity.Outbox) (*entity.CustomerAccount, error) {
			capturedOutbox = outbox
			return &entity.CustomerAccount{ID: tx.CustomerID, Limit: 1000, Balance: tx.Delta()}, nil
		},
	}
	uc := usecase.NewApplyTransactionUseCase(repo, testLogger())

	_, err := uc.Execute(context.Background(), usecase.ApplyInput{
		CustomerID:  1,
		Kind:        "c",
		Amount:      500,
		Description: "deposito",
	})

	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if capturedOutbox == nil {
		t.Fatal("expected outbox event to be saved")
	}
	if capturedOutbox.Type != "TransactionApplied" {
		t.Fatalf("expected outbox type 'TransactionApplied', got '%s'", capturedOutbox.Type)
	}
	if capturedOutbox.Status != entity.OutboxStatusPending {
		t.Fatalf("expected outbox status PENDING, got '%s'", capturedOutbox.Status)
	}
	if !strings.Contains(capturedOutbox.Payload, `"amount":500`) {
		t.Fatalf("expected payload to carry the amount, got: %s", capturedOutbox.Payload)
	}
}

func TestApplyTransaction_RepositoryError(t *testing.T) {
	repo := &mockLedgerRepository{
		applyFn: func(_ context.Context, _ *entity.Transaction, _ *entity.Outbox) (*entity.CustomerAccount, error) {
			return nil, errors.New("db error")
		},
	}
	uc := usecase.NewApplyTransactionUseCase(repo, testLogger())

	_, err := uc.Execute(context.Background(), usecase.ApplyInput{
		CustomerID:  1,
		Kind:        "d",
		Amount:      100,
		Description: "compra",
	})

	assertException(t, err, http.StatusInternalServerError)
}
