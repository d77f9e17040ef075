package usecase

import (
	"context"
	"errors"
	"log/slog"

	"ledger-service/internal/core/domain/entity"
	"ledger-service/internal/core/domain/ports"
	apperrors "ledger-service/internal/core/errors"
)

// A statement carries at most the 10 most recent transactions.
const statementEntries = 10

type (
	StatementInput struct {
		CustomerID int
	}

	GetStatementUseCase struct {
		repo   ports.LedgerRepository
		logger *slog.Logger
	}
)

func NewGetStatementUseCase(repo ports.LedgerRepository, logger *slog.Logger) *GetStatementUseCase {
	return &GetStatementUseCase{repo: repo, logger: logger}
}

func (uc *GetStatementUseCase) Execute(ctx context.Context, input StatementInput) (*entity.Statement, error) {
	if !entity.KnownCustomer(input.CustomerID) {
		uc.logger.WarnContext(ctx, "statement rejected", slog.Int("customer_id", input.CustomerID), slog.String("reason", "unknown customer"))
		return nil, apperrors.NotFound(apperrors.WithMessage(entity.ErrCustomerNotFound.Error()))
	}

	statement, err := uc.repo.Statement(ctx, input.CustomerID, statementEntries)
	if err != nil {
		if errors.Is(err, entity.ErrCustomerNotFound) {
			return nil, apperrors.NotFound(apperrors.WithMessage(entity.ErrCustomerNotFound.Error()))
		}
		uc.logger.ErrorContext(ctx, "statement failed",
			slog.Int("customer_id", input.CustomerID),
			slog.String("error", err.Error()),
		)
		return nil, apperrors.Unexpected(apperrors.WithError(err))
	}

	uc.logger.InfoContext(ctx, "statement issued",
		slog.Int("customer_id", input.CustomerID),
		slog.Int64("balance", statement.Balance),
		slog.Int("transactions", len(statement.Transactions)),
	)

	return statement, nil
}
