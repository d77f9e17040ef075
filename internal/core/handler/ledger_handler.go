package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"ledger-service/internal/core/domain/entity"
	apperrors "ledger-service/internal/core/errors"
	"ledger-service/internal/core/usecase"
)

type Handler struct {
	applyUC     *usecase.ApplyTransactionUseCase
	statementUC *usecase.GetStatementUseCase
	BaseHandler
}

// transactionRequest decodes the POST body. Valor is a json.Number so that
// non-integer amounts fail validation instead of being truncated, and
// Descricao is a pointer so that an absent field is distinguishable from an
// empty one (both are rejected).
type transactionRequest struct {
	Valor     json.Number `json:"valor"`
	Tipo      string      `json:"tipo"`
	Descricao *string     `json:"descricao"`
}

type transactionResponse struct {
	Limite int64 `json:"limite"`
	Saldo  int64 `json:"saldo"`
}

type statementBalance struct {
	Total    int64     `json:"total"`
	IssuedAt time.Time `json:"data_extrato"`
	Limite   int64     `json:"limite"`
}

type statementTransaction struct {
	Valor       int64     `json:"valor"`
	Tipo        string    `json:"tipo"`
	Descricao   string    `json:"descricao"`
	RealizadaEm time.Time `json:"realizada_em"`
}

type statementResponse struct {
	Saldo             statementBalance       `json:"saldo"`
	UltimasTransacoes []statementTransaction `json:"ultimas_transacoes"`
}

func NewHandler(applyUC *usecase.ApplyTransactionUseCase, statementUC *usecase.GetStatementUseCase) *Handler {
	return &Handler{
		applyUC:     applyUC,
		statementUC: statementUC,
	}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/customers/{id}/transactions", h.wrap(h.handleApplyTransaction)).Methods(http.MethodPost)
	r.HandleFunc("/customers/{id}/statement", h.wrap(h.handleGetStatement)).Methods(http.MethodGet)
	r.HandleFunc("/health", h.handleHealth).Methods(http.MethodGet)
}

func (h *Handler) handleApplyTransaction(w http.ResponseWriter, r *http.Request) error {
	customerID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		h.RespondWithError(w, r, http.StatusNotFound, "not found", "customer id must be an integer")
		return nil
	}

	// A body that fails to decode is applied as a zero request: an unknown
	// customer still answers 404 before any shape validation runs.
	var req transactionRequest
	_ = json.NewDecoder(r.Body).Decode(&req)

	amount, err := req.Valor.Int64()
	if err != nil {
		amount = 0
	}

	var description string
	if req.Descricao != nil {
		description = *req.Descricao
	}

	out, err := h.applyUC.Execute(r.Context(), usecase.ApplyInput{
		CustomerID:  customerID,
		Kind:        req.Tipo,
		Amount:      amount,
		Description: description,
	})
	if err != nil {
		observeTransaction(req.Tipo, outcomeForError(err))
		return err
	}

	observeTransaction(req.Tipo, "applied")
	h.RespondWithJSON(w, http.StatusOK, transactionResponse{
		Limite: out.Limit,
		Saldo:  out.Balance,
	})
	return nil
}

func (h *Handler) handleGetStatement(w http.ResponseWriter, r *http.Request) error {
	customerID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		h.RespondWithError(w, r, http.StatusNotFound, "not found", "customer id must be an integer")
		return nil
	}

	statement, err := h.statementUC.Execute(r.Context(), usecase.StatementInput{CustomerID: customerID})
	if err != nil {
		return err
	}

	transactions := make([]statementTransaction, 0, len(statement.Transactions))
	for _, tx := range statement.Transactions {
		transactions = append(transactions, statementTransaction{
			Valor:       tx.Amount,
			Tipo:        string(tx.Kind),
			Descricao:   tx.Description,
			RealizadaEm: tx.OccurredAt,
		})
	}

	h.RespondWithJSON(w, http.StatusOK, statementResponse{
		Saldo: statementBalance{
			Total:    statement.Balance,
			IssuedAt: statement.IssuedAt,
			Limite:   statement.Limit,
		},
		UltimasTransacoes: transactions,
	})
	return nil
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	h.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) wrap(fn func(http.ResponseWriter, *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := fn(w, r)
		if err == nil {
			return
		}
		if exc, ok := err.(*apperrors.Exception); ok {
			h.RespondWithError(w, r, exc.Code, exc.Message, exc.Err)
			return
		}
		h.RespondWithError(w, r, http.StatusInternalServerError, "internal server error", err.Error())
	}
}

func outcomeForError(err error) string {
	exc, ok := err.(*apperrors.Exception)
	if !ok {
		return "error"
	}
	switch exc.Code {
	case http.StatusNotFound:
		return "not_found"
	case http.StatusUnprocessableEntity:
		if exc.Message == entity.ErrLimitExceeded.Error() {
			return "limit_exceeded"
		}
		return "invalid"
	default:
		return "error"
	}
}
