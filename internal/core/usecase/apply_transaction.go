package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"ledger-service/internal/core/domain/entity"
	"ledger-service/internal/core/domain/ports"
	apperrors "ledger-service/internal/core/errors"
)

type (
	ApplyInput struct {
		CustomerID  int
		Kind        string
		Amount      int64
		Description string
	}

	ApplyOutput struct {
		Limit   int64
		Balance int64
	}

	ApplyTransactionUseCase struct {
		repo   ports.LedgerRepository
		logger *slog.Logger
	}
)

func NewApplyTransactionUseCase(repo ports.LedgerRepository, logger *slog.Logger) *ApplyTransactionUseCase {
	return &ApplyTransactionUseCase{repo: repo, logger: logger}
}

// Execute validates the request and applies it atomically. Validation runs
// entirely before any storage access: unknown customer first, then kind,
// description and amount, first failure wins.
func (uc *ApplyTransactionUseCase) Execute(ctx context.Context, input ApplyInput) (*ApplyOutput, error) {
	if !entity.KnownCustomer(input.CustomerID) {
		uc.logger.WarnContext(ctx, "apply rejected", slog.Int("customer_id", input.CustomerID), slog.String("reason", "unknown customer"))
		return nil, apperrors.NotFound(apperrors.WithMessage(entity.ErrCustomerNotFound.Error()))
	}

	tx, err := entity.NewTransaction(input.CustomerID, input.Kind, input.Amount, input.Description)
	if err != nil {
		uc.logger.WarnContext(ctx, "apply rejected", slog.Int("customer_id", input.CustomerID), slog.String("reason", err.Error()))
		return nil, apperrors.UnprocessableEntity(apperrors.WithMessage(err.Error()))
	}

	payload, err := json.Marshal(map[string]any{
		"customerId":  tx.CustomerID,
		"kind":        tx.Kind,
		"amount":      tx.Amount,
		"description": tx.Description,
	})
	if err != nil {
		return nil, apperrors.Unexpected(apperrors.WithError(err))
	}

	outbox := entity.NewOutbox("TransactionApplied", string(payload))

	account, err := uc.repo.Apply(ctx, tx, outbox)
	if err != nil {
		switch {
		case errors.Is(err, entity.ErrLimitExceeded):
			uc.logger.WarnContext(ctx, "apply rejected",
				slog.Int("customer_id", input.CustomerID),
				slog.String("reason", "limit exceeded"),
			)
			return nil, apperrors.UnprocessableEntity(apperrors.WithMessage(entity.ErrLimitExceeded.Error()))
		case errors.Is(err, entity.ErrCustomerNotFound):
			return nil, apperrors.NotFound(apperrors.WithMessage(entity.ErrCustomerNotFound.Error()))
		default:
			uc.logger.ErrorContext(ctx, "apply failed",
				slog.Int("customer_id", input.CustomerID),
				slog.String("error", err.Error()),
			)
			return nil, apperrors.Unexpected(apperrors.WithError(err))
		}
	}

	uc.logger.InfoContext(ctx, "transaction applied",
		slog.Int("customer_id", account.ID),
		slog.String("kind", string(tx.Kind)),
		slog.Int64("amount", tx.Amount),
		slog.Int64("balance", account.Balance),
	)

	return &ApplyOutput{
		Limit:   account.Limit,
		Balance: account.Balance,
	}, nil
}
