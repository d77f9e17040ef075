package usecase

import (
	"log/slog"

	"ledger-service/internal/core/domain/ports"
)

type Factory struct {
	Apply     *ApplyTransactionUseCase
	Statement *GetStatementUseCase
}

func NewFactory(repo ports.LedgerRepository, logger *slog.Logger) *Factory {
	return &Factory{
		Apply:     NewApplyTransactionUseCase(repo, logger),
		Statement: NewGetStatementUseCase(repo, logger),
	}
}
