package handler

import (
	"loan-ledger/internal/api/handler/dto"
	"loan-ledger/internal/domain/loan"
	"log/slog"
	"net/http"
	"strings"
)

type LoanHandler struct {
	service loan.LedgerService
	logger  *slog.Logger
}

func NewLoanHandler(s loan.LedgerService, l *slog.Logger) *LoanHandler {
	if s == nil {
		panic("ledger service cannot be nil")
	}
	return &LoanHandler{
		service: s,
		logger:  l.With("component", "LoanHandler"),
	}
}

// GetLoanConfig returns the lending terms.
//
// @Summary Get loan configuration
// @Description Returns the minimum amount, default rate, durations, purposes and currency the ledger enforces.
// @Tags Loans
// @Produce json
// @Success 200 {object} dto.LoanConfigResponse "Lending terms"
// @Router /api/loan-config [get]
func (h *LoanHandler) GetLoanConfig(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, dto.NewLoanConfigResponse(h.service.Terms()))
}

// CreateLoan handles the creation of a new loan.
//
// @Summary Create a new loan
// @Description Creates an Approved loan and credits the principal to the account. Numeric fields accept numbers or strings with thousands separators. The owner falls back to the User-Id header.
// @Tags Loans
// @Accept json
// @Produce json
// @Param request body dto.CreateLoanRequest true "Loan creation request payload"
// @Param User-Id header string false "Loan owner when userId is absent"
// @Param Idempotency-Key header string false "Replays the first response for a repeated key"
// @Success 201 {object} dto.CreateLoanResponse "Loan successfully created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request payload or validation error"
// @Failure 409 {object} dto.ErrorResponse "Idempotency key reused with a different payload"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /api/loans [post]
// @Security BearerAuth
func (h *LoanHandler) CreateLoan(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateLoanRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode create loan request", "error", err)
		respondError(w, invalidArgument("%v", err))
		return
	}

	result, err := h.service.CreateLoan(r.Context(), req.ToDomain(ownerFromRequest(r, req.UserID), idempotencyKey(r)))
	if err != nil {
		respondError(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "Loan created", "loan_id", result.Loan.ID, "owner_id", result.Loan.OwnerID)
	respondJSON(w, http.StatusCreated, dto.NewCreateLoanResponse(result))
}

// ListLoans returns loans in creation order.
//
// @Summary List loans
// @Description Lists loans, optionally filtered by status and owner.
// @Tags Loans
// @Produce json
// @Param status query string false "Loan status, e.g. Active"
// @Param userId query string false "Owner id"
// @Success 200 {array} dto.LoanResponse "Loans"
// @Failure 400 {object} dto.ErrorResponse "Unknown status"
// @Router /api/loans [get]
// @Security BearerAuth
func (h *LoanHandler) ListLoans(w http.ResponseWriter, r *http.Request) {
	var filter loan.LoanFilter
	if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
		status, err := loan.ParseStatus(raw)
		if err != nil {
			respondError(w, err)
			return
		}
		filter.Status = status
	}
	filter.OwnerID = strings.TrimSpace(r.URL.Query().Get("userId"))

	loans, err := h.service.GetLoans(r.Context(), filter)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.NewLoanResponses(loans))
}

// ListActiveLoans returns loans that still accept payments.
//
// @Summary List active loans
// @Description Lists Approved or Active loans with a positive remaining balance.
// @Tags Loans
// @Produce json
// @Success 200 {array} dto.LoanResponse "Active loans"
// @Router /api/loans/active [get]
// @Security BearerAuth
func (h *LoanHandler) ListActiveLoans(w http.ResponseWriter, r *http.Request) {
	loans, err := h.service.GetActiveLoans(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.NewLoanResponses(loans))
}

// GetLoan retrieves the details of a specific loan.
//
// @Summary Retrieve loan details
// @Tags Loans
// @Produce json
// @Param loanID path string true "Loan ID"
// @Success 200 {object} dto.LoanResponse "Loan details"
// @Failure 404 {object} dto.ErrorResponse "Loan not found"
// @Router /api/loans/{loanID} [get]
// @Security BearerAuth
func (h *LoanHandler) GetLoan(w http.ResponseWriter, r *http.Request) {
	loanID, err := pathParam(r, "loanID")
	if err != nil {
		respondError(w, err)
		return
	}

	l, err := h.service.GetLoan(r.Context(), loanID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.NewLoanResponse(l))
}

// UpdateLoanStatus applies an administrative status change.
//
// @Summary Update loan status
// @Description Pending loans may be approved, rejected or cancelled; open loans may be cancelled or defaulted.
// @Tags Loans
// @Accept json
// @Produce json
// @Param loanID path string true "Loan ID"
// @Param request body dto.UpdateStatusRequest true "Target status"
// @Success 200 {object} dto.LoanResponse "Updated loan"
// @Failure 400 {object} dto.ErrorResponse "Unknown status or forbidden transition"
// @Failure 404 {object} dto.ErrorResponse "Loan not found"
// @Router /api/loans/{loanID}/status [patch]
// @Security BearerAuth
func (h *LoanHandler) UpdateLoanStatus(w http.ResponseWriter, r *http.Request) {
	loanID, err := pathParam(r, "loanID")
	if err != nil {
		respondError(w, err)
		return
	}

	var req dto.UpdateStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, invalidArgument("%v", err))
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, invalidArgument("%v", err))
		return
	}

	updated, err := h.service.UpdateLoanStatus(r.Context(), loanID, req.Status)
	if err != nil {
		respondError(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "Loan status updated", "loan_id", loanID, "status", updated.Status)
	respondJSON(w, http.StatusOK, dto.NewLoanResponse(updated))
}

// GetSchedule returns the amortization schedule.
//
// @Summary Get repayment schedule
// @Tags Loans
// @Produce json
// @Param loanID path string true "Loan ID"
// @Success 200 {array} dto.ScheduleEntryResponse "Monthly schedule"
// @Failure 404 {object} dto.ErrorResponse "Loan not found"
// @Router /api/loans/{loanID}/schedule [get]
// @Security BearerAuth
func (h *LoanHandler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	loanID, err := pathParam(r, "loanID")
	if err != nil {
		respondError(w, err)
		return
	}

	schedule, err := h.service.GetSchedule(r.Context(), loanID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.NewScheduleResponse(schedule))
}

// GetStatement summarizes payments made within a date range.
//
// @Summary Get loan statement
// @Tags Loans
// @Produce json
// @Param loanID path string true "Loan ID"
// @Param startDate query string true "YYYY-MM-DD or RFC3339"
// @Param endDate query string true "YYYY-MM-DD or RFC3339, a date covers the whole day"
// @Success 200 {object} dto.StatementResponse "Statement"
// @Failure 400 {object} dto.ErrorResponse "Missing or invalid dates"
// @Failure 404 {object} dto.ErrorResponse "Loan not found"
// @Router /api/loans/{loanID}/statement [get]
// @Security BearerAuth
func (h *LoanHandler) GetStatement(w http.ResponseWriter, r *http.Request) {
	loanID, err := pathParam(r, "loanID")
	if err != nil {
		respondError(w, err)
		return
	}

	query := r.URL.Query()
	if strings.TrimSpace(query.Get("startDate")) == "" || strings.TrimSpace(query.Get("endDate")) == "" {
		respondError(w, invalidArgument("start and end dates are required"))
		return
	}
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

	statement, err := h.service.GenerateStatement(r.Context(), loanID, from, to)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.NewStatementResponse(statement))
}

// MakePayment processes a payment for a specific loan.
//
// @Summary Make a loan payment
// @Description Applies a payment to the loan and debits the account. A payment that clears the balance completes the loan.
// @Tags Loans
// @Accept json
// @Produce json
// @Param loanID path string true "Loan ID"
// @Param request body dto.MakePaymentRequest true "Payment request payload"
// @Param Idempotency-Key header string false "Replays the first response for a repeated key"
// @Success 201 {object} dto.MakePaymentResponse "Payment applied"
// @Failure 400 {object} dto.ErrorResponse "Invalid amount or loan not payable"
// @Failure 404 {object} dto.ErrorResponse "Loan not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /api/loans/{loanID}/payments [post]
// @Security BearerAuth
func (h *LoanHandler) MakePayment(w http.ResponseWriter, r *http.Request) {
	loanID, err := pathParam(r, "loanID")
	if err != nil {
		respondError(w, err)
		return
	}

	var req dto.MakePaymentRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, invalidArgument("%v", err))
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, invalidArgument("%v", err))
		return
	}

	result, err := h.service.MakePayment(r.Context(), loan.MakePaymentRequest{
		LoanID:         loanID,
		Amount:         req.Amount.String(),
		Method:         req.Method,
		IdempotencyKey: idempotencyKey(r),
	})
	if err != nil {
		respondError(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "Payment applied", "loan_id", loanID, "payment_id", result.Payment.ID, "status", result.Loan.Status)
	respondJSON(w, http.StatusCreated, dto.NewMakePaymentResponse(result))
}

// CalculateLoan quotes repayments without creating a loan.
//
// @Summary Calculate loan repayments
// @Tags Calculator
// @Accept json
// @Produce json
// @Param request body dto.CalculateLoanRequest true "Amount, optional rate and duration in months"
// @Success 200 {object} dto.QuoteResponse "Repayment quote"
// @Failure 400 {object} dto.ErrorResponse "Missing or invalid parameters"
// @Router /api/calculate-loan [post]
func (h *LoanHandler) CalculateLoan(w http.ResponseWriter, r *http.Request) {
	var req dto.CalculateLoanRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, invalidArgument("%v", err))
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, invalidArgument("%v", err))
		return
	}

	quote, err := h.service.Quote(r.Context(), req.ToDomain())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.NewQuoteResponse(quote))
}

// AssessEligibility scores an applicant profile.
//
// @Summary Assess loan eligibility
// @Description Every profile field is optional; missing fields use the profile of a typical salaried customer.
// @Tags Calculator
// @Accept json
// @Produce json
// @Param request body dto.EligibilityRequest false "Applicant profile"
// @Success 200 {object} dto.EligibilityResponse "Assessment"
// @Failure 400 {object} dto.ErrorResponse "Invalid profile field"
// @Router /api/loan-eligibility [post]
func (h *LoanHandler) AssessEligibility(w http.ResponseWriter, r *http.Request) {
	var req dto.EligibilityRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(r, &req); err != nil {
			respondError(w, invalidArgument("%v", err))
			return
		}
	}

	profile, err := req.ToDomain()
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.NewEligibilityResponse(h.service.AssessEligibility(r.Context(), profile)))
}
