package handler

import "ledger-service/internal/core/usecase"

func NewHandlerFactory(f *usecase.Factory) *Handler {
	return NewHandler(f.Apply, f.Statement)
}
