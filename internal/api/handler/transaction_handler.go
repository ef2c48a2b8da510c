package handler

import (
	"loan-ledger/internal/api/handler/dto"
	"loan-ledger/internal/domain/loan"
	"log/slog"
	"net/http"
	"strings"
)

type TransactionHandler struct {
	service loan.LedgerService
	logger  *slog.Logger
}

func NewTransactionHandler(s loan.LedgerService, l *slog.Logger) *TransactionHandler {
	if s == nil {
		panic("ledger service cannot be nil")
	}
	return &TransactionHandler{
		service: s,
		logger:  l.With("component", "TransactionHandler"),
	}
}

// ListTransactions returns ledger entries, newest first.
//
// @Summary List transactions
// @Tags Transactions
// @Produce json
// @Param type query string false "Transaction type, e.g. Pay Loan"
// @Param startDate query string false "YYYY-MM-DD or RFC3339"
// @Param endDate query string false "YYYY-MM-DD or RFC3339, a date covers the whole day"
// @Success 200 {array} dto.TransactionResponse "Transactions"
// @Failure 400 {object} dto.ErrorResponse "Invalid date"
// @Router /api/transactions [get]
// @Security BearerAuth
func (h *TransactionHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	from, err := parseDateParam("startDate", query.Get("startDate"), false)
	if err != nil {
		respondError(w, err)
		return
	}
	to, err := parseDateParam("endDate", query.Get("endDate"), true)
	if err != nil {
		respondError(w, err)
		return
	}

	txs, err := h.service.GetTransactions(r.Context(), loan.TransactionFilter{
		Type: loan.TransactionType(strings.TrimSpace(query.Get("type"))),
		From: from,
		To:   to,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.NewTransactionResponses(txs))
}

// GetTransaction returns one ledger entry.
//
// @Summary Retrieve a transaction
// @Tags Transactions
// @Produce json
// @Param transactionID path string true "Transaction ID"
// @Success 200 {object} dto.TransactionResponse "Transaction"
// @Failure 404 {object} dto.ErrorResponse "Transaction not found"
// @Router /api/transactions/{transactionID} [get]
// @Security BearerAuth
func (h *TransactionHandler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	txID, err := pathParam(r, "transactionID")
	if err != nil {
		respondError(w, err)
		return
	}

	tx, err := h.service.GetTransaction(r.Context(), txID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.NewTransactionResponse(tx))
}

// GetBalance returns the account balance derived from the ledger.
//
// @Summary Get account balance
// @Tags Account
// @Produce json
// @Success 200 {object} dto.BalanceResponse "Balance"
// @Router /api/account/balance [get]
// @Security BearerAuth
func (h *TransactionHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	balance, err := h.service.Balance(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.BalanceResponse{
		Balance:  balance.StringFixed(2),
		Currency: h.service.Terms().Currency,
	})
}

// CreateDebit records a non-loan debit such as an airtime purchase.
//
// @Summary Debit the account
// @Tags Account
// @Accept json
// @Produce json
// @Param request body dto.DebitRequest true "Debit payload"
// @Param Idempotency-Key header string false "Replays the first response for a repeated key"
// @Success 201 {object} dto.TransactionResponse "Recorded debit"
// @Failure 400 {object} dto.ErrorResponse "Invalid type, amount or insufficient balance"
// @Router /api/account/debits [post]
// @Security BearerAuth
func (h *TransactionHandler) CreateDebit(w http.ResponseWriter, r *http.Request) {
	var req dto.DebitRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, invalidArgument("%v", err))
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, invalidArgument("%v", err))
		return
	}

	tx, err := h.service.Debit(r.Context(), req.ToDomain(idempotencyKey(r)))
	if err != nil {
		respondError(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "Debit recorded", "transaction_id", tx.ID, "type", tx.Type)
	respondJSON(w, http.StatusCreated, dto.NewTransactionResponse(tx))
}
