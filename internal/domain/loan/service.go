package loan

import (
	"context"
	"errors"
	"fmt"
	"loan-ledger/internal/event"
	"loan-ledger/internal/infrastructure/monitoring"
	"loan-ledger/internal/pkg/apperrors"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreateLoanRequest struct {
	Amount         string
	InterestRate   string
	Duration       string
	Purpose        string
	OwnerID        string
	IdempotencyKey string
}

type CreateLoanResult struct {
	Loan          Loan
	TransactionID string
}

type MakePaymentRequest struct {
	LoanID         string
	Amount         string
	Method         string
	IdempotencyKey string
}

type PaymentResult struct {
	Payment       Payment
	Loan          Loan
	TransactionID string
}

type DebitRequest struct {
	Type           string
	Amount         string
	Description    string
	ReferenceID    string
	IdempotencyKey string
}

type QuoteRequest struct {
	Amount       string
	InterestRate string
	Duration     string
}

// LoanFilter matches every loan when its fields are empty.
type LoanFilter struct {
	Status  Status
	OwnerID string
}

// TransactionFilter bounds are inclusive; zero times are unbounded.
type TransactionFilter struct {
	Type TransactionType
	From time.Time
	To   time.Time
}

type StatusChange struct {
	LoanID  string
	OwnerID string
	From    Status
	To      Status
	Reason  string
}

type Statement struct {
	Loan           Loan
	From           time.Time
	To             time.Time
	Payments       []Payment
	TotalPaid      decimal.Decimal
	OpeningBalance decimal.Decimal
	ClosingBalance decimal.Decimal
}

type LedgerService interface {
	CreateLoan(ctx context.Context, req CreateLoanRequest) (CreateLoanResult, error)

	MakePayment(ctx context.Context, req MakePaymentRequest) (PaymentResult, error)

	GetLoan(ctx context.Context, loanID string) (Loan, error)

	GetLoans(ctx context.Context, filter LoanFilter) ([]Loan, error)

	GetActiveLoans(ctx context.Context) ([]Loan, error)

	GetTransaction(ctx context.Context, transactionID string) (Transaction, error)

	GetTransactions(ctx context.Context, filter TransactionFilter) ([]Transaction, error)

	UpdateLoanStatus(ctx context.Context, loanID, status string) (Loan, error)

	SweepOverdue(ctx context.Context) ([]StatusChange, error)

	GetSchedule(ctx context.Context, loanID string) ([]ScheduleEntry, error)

	GenerateStatement(ctx context.Context, loanID string, from, to time.Time) (Statement, error)

	Debit(ctx context.Context, req DebitRequest) (Transaction, error)

	Balance(ctx context.Context) (decimal.Decimal, error)

	Quote(ctx context.Context, req QuoteRequest) (Quote, error)

	AssessEligibility(ctx context.Context, profile EligibilityProfile) EligibilityAssessment

	Terms() Terms
}

type Option func(*Ledger)

func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// WithIDGenerator replaces the uuid based identifiers. gen receives "LOAN", "PAY" or "TX".
func WithIDGenerator(gen func(prefix string) string) Option {
	return func(l *Ledger) { l.newID = gen }
}

func WithPublisher(p event.EventPublisher) Option {
	return func(l *Ledger) { l.publisher = p }
}

type idempotencyRecord struct {
	fingerprint string
	result      any
}

// Ledger owns all loans, payments and transactions. Mutations are serialized by mu
// and only reach memory after the repository accepted them.
type Ledger struct {
	mu sync.RWMutex

	repo      Repository
	terms     Terms
	publisher event.EventPublisher
	logger    *slog.Logger
	now       func() time.Time
	newID     func(prefix string) string

	loans        []Loan
	loanIndex    map[string]int
	transactions []Transaction
	txIndex      map[string]int
	idempotency  map[string]idempotencyRecord
}

var _ LedgerService = (*Ledger)(nil)

func NewLedger(ctx context.Context, repo Repository, terms Terms, logger *slog.Logger, opts ...Option) (*Ledger, error) {
	if repo == nil {
		return nil, errors.New("ledger repository cannot be nil")
	}
	l := &Ledger{
		repo:        repo,
		terms:       terms,
		publisher:   event.NoopPublisher{},
		logger:      logger.With("component", "Ledger"),
		now:         time.Now,
		newID:       func(prefix string) string { return prefix + "-" + uuid.NewString() },
		loanIndex:   make(map[string]int),
		txIndex:     make(map[string]int),
		idempotency: make(map[string]idempotencyRecord),
	}
	for _, opt := range opts {
		opt(l)
	}

	loans, err := repo.LoadLoans(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load loans: %w", err)
	}
	transactions, err := repo.LoadTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}

	for _, ln := range loans {
		l.appendLoan(ln)
	}
	for _, tx := range transactions {
		l.appendTransaction(tx)
	}

	l.logger.InfoContext(ctx, "Ledger loaded", slog.Int("loans", len(l.loans)), slog.Int("transactions", len(l.transactions)))
	return l, nil
}

func (l *Ledger) timestamp() time.Time {
	return l.now().UTC().Truncate(time.Microsecond)
}

func (l *Ledger) appendLoan(ln Loan) {
	if ln.Payments == nil {
		ln.Payments = []Payment{}
	}
	l.loanIndex[ln.ID] = len(l.loans)
	l.loans = append(l.loans, ln)
}

func (l *Ledger) appendTransaction(tx Transaction) {
	l.txIndex[tx.ID] = len(l.transactions)
	l.transactions = append(l.transactions, tx)
}

func (l *Ledger) formatMoney(d decimal.Decimal) string {
	f, _ := d.Round(2).Float64()
	return l.terms.Currency + " " + humanize.FormatFloat("#,###.##", f)
}

func (l *Ledger) formatWhole(d decimal.Decimal) string {
	return l.terms.Currency + " " + humanize.Commaf(d.InexactFloat64())
}

// replay returns a stored result for a repeated idempotency key. A key reused with
// different parameters is a conflict.
func (l *Ledger) replay(scope, key, fingerprint string) (any, bool, error) {
	if key == "" {
		return nil, false, nil
	}
	rec, ok := l.idempotency[scope+":"+key]
	if !ok {
		return nil, false, nil
	}
	if rec.fingerprint != fingerprint {
		return nil, false, fmt.Errorf("%w: idempotency key %q was already used with different parameters", apperrors.ErrConflict, key)
	}
	return rec.result, true, nil
}

func (l *Ledger) remember(scope, key, fingerprint string, result any) {
	if key == "" {
		return
	}
	l.idempotency[scope+":"+key] = idempotencyRecord{fingerprint: fingerprint, result: result}
}

func (l *Ledger) canonicalPurpose(raw string) (string, bool) {
	purpose := strings.TrimSpace(raw)
	if len(l.terms.Purposes) == 0 {
		return purpose, true
	}
	for _, p := range l.terms.Purposes {
		if strings.EqualFold(p, purpose) {
			return p, true
		}
	}
	return "", false
}

func (l *Ledger) resolveRate(raw string) (float64, error) {
	if strings.TrimSpace(raw) == "" {
		return l.terms.DefaultInterestRate, nil
	}
	rate, err := parseRate(raw)
	if err != nil {
		return 0, apperrors.NewValidationError("interestRate", "interest rate must be a finite number")
	}
	if rate < 0 || rate > MaxInterestRate {
		return 0, apperrors.NewValidationError("interestRate", fmt.Sprintf("interest rate must be between 0 and %g", MaxInterestRate))
	}
	return rate, nil
}

func (l *Ledger) resolveMonths(raw string) (int, error) {
	months, err := parseMonths(raw)
	if err != nil {
		return 0, apperrors.NewValidationError("duration", "duration must be a whole number of months")
	}
	if months < 1 || months > l.terms.MaxDurationMonths {
		return 0, apperrors.NewValidationError("duration", fmt.Sprintf("duration must be between 1 and %d months", l.terms.MaxDurationMonths))
	}
	return months, nil
}

func (l *Ledger) CreateLoan(ctx context.Context, req CreateLoanRequest) (CreateLoanResult, error) {
	result, replayed, err := l.createLoan(ctx, req)
	if err != nil || replayed {
		return result, err
	}

	l.publishLoanCreated(ctx, result)
	return result, nil
}

func (l *Ledger) createLoan(ctx context.Context, req CreateLoanRequest) (CreateLoanResult, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	fingerprint := strings.Join([]string{req.Amount, req.InterestRate, req.Duration, req.Purpose, req.OwnerID}, "|")
	if prev, ok, err := l.replay("create", req.IdempotencyKey, fingerprint); err != nil || ok {
		if err != nil {
			return CreateLoanResult{}, false, err
		}
		l.logger.InfoContext(ctx, "Replaying idempotent loan creation", "idempotencyKey", req.IdempotencyKey)
		return prev.(CreateLoanResult), true, nil
	}

	if strings.TrimSpace(req.Amount) == "" || strings.TrimSpace(req.Duration) == "" || strings.TrimSpace(req.Purpose) == "" {
		return CreateLoanResult{}, false, apperrors.NewValidationError("", "missing required loan information")
	}

	principal, err := parseAmount(req.Amount)
	if err != nil {
		return CreateLoanResult{}, false, amountError("loan amount", err)
	}
	if principal.LessThan(l.terms.MinLoanAmount) {
		return CreateLoanResult{}, false, apperrors.NewValidationError("amount",
			fmt.Sprintf("loan amount must be at least %s", l.formatWhole(l.terms.MinLoanAmount)))
	}

	months, err := l.resolveMonths(req.Duration)
	if err != nil {
		return CreateLoanResult{}, false, err
	}
	rate, err := l.resolveRate(req.InterestRate)
	if err != nil {
		return CreateLoanResult{}, false, err
	}
	purpose, ok := l.canonicalPurpose(req.Purpose)
	if !ok {
		return CreateLoanResult{}, false, apperrors.NewValidationError("purpose",
			fmt.Sprintf("loan purpose must be one of: %s", strings.Join(l.terms.Purposes, ", ")))
	}
	owner := strings.TrimSpace(req.OwnerID)
	if owner == "" {
		owner = DefaultOwnerID
	}

	now := l.timestamp()
	quote := NewQuote(principal, rate, months)
	newLoan := Loan{
		ID:               l.newID("LOAN"),
		OwnerID:          owner,
		Principal:        principal,
		InterestRate:     rate,
		DurationMonths:   months,
		Purpose:          purpose,
		MonthlyPayment:   quote.MonthlyPayment,
		TotalRepayment:   quote.TotalRepayment,
		RemainingBalance: principal,
		Status:           StatusApproved,
		Payments:         []Payment{},
		CreatedAt:        now,
		DueDate:          now.AddDate(0, months, 0),
		UpdatedAt:        now,
	}
	tx := Transaction{
		ID:          l.newID("TX"),
		Type:        TypeTakeLoan,
		Amount:      principal,
		Description: fmt.Sprintf("Take Loan (%s)", purpose),
		ReferenceID: newLoan.ID,
		CreatedAt:   now,
	}

	if err := l.repo.Apply(ctx, Mutation{Loans: []Loan{newLoan}, Transactions: []Transaction{tx}}); err != nil {
		l.logger.ErrorContext(ctx, "Failed to persist new loan", "error", err)
		return CreateLoanResult{}, false, fmt.Errorf("%w: failed to save loan: %w", apperrors.ErrInternalServer, err)
	}

	l.appendLoan(newLoan)
	l.appendTransaction(tx)

	result := CreateLoanResult{Loan: newLoan.clone(), TransactionID: tx.ID}
	l.remember("create", req.IdempotencyKey, fingerprint, result)
	monitoring.RecordLoanCreated(purpose)
	l.logger.InfoContext(ctx, "Loan created successfully",
		"loanID", newLoan.ID, "ownerID", owner, "principal", principal.StringFixed(2), "months", months)

	return CreateLoanResult{Loan: newLoan.clone(), TransactionID: tx.ID}, false, nil
}

// MakePayment applies a payment to an Approved, Active or Overdue loan. Overdue
// loans stay Overdue after a partial payment and complete once fully repaid.
// Unknown loans and non-payable statuses are rejected before the amount is parsed.
func (l *Ledger) MakePayment(ctx context.Context, req MakePaymentRequest) (PaymentResult, error) {
	result, previous, replayed, err := l.makePayment(ctx, req)
	if err != nil || replayed {
		return result, err
	}

	l.publishPaymentMade(ctx, result)
	if previous != result.Loan.Status {
		l.publishStatusChanged(ctx, StatusChange{
			LoanID:  result.Loan.ID,
			OwnerID: result.Loan.OwnerID,
			From:    previous,
			To:      result.Loan.Status,
			Reason:  "payment applied",
		})
	}
	return result, nil
}

func (l *Ledger) makePayment(ctx context.Context, req MakePaymentRequest) (result PaymentResult, previous Status, replayed bool, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var amount decimal.Decimal
	defer func() {
		if replayed {
			return
		}
		status := "success"
		switch {
		case err == nil:
		case errors.Is(err, apperrors.ErrNotFound):
			status = "failure_not_found"
		case errors.Is(err, apperrors.ErrInvalidState):
			status = "failure_state"
		case errors.Is(err, apperrors.ErrValidation), errors.Is(err, apperrors.ErrConflict):
			status = "failure_validation"
		default:
			status = "failure_internal"
		}
		monitoring.RecordPayment(status, amount.InexactFloat64())
	}()

	fingerprint := strings.Join([]string{req.LoanID, req.Amount, req.Method}, "|")
	if prev, ok, replayErr := l.replay("pay", req.IdempotencyKey, fingerprint); replayErr != nil || ok {
		if replayErr != nil {
			return PaymentResult{}, "", false, replayErr
		}
		l.logger.InfoContext(ctx, "Replaying idempotent payment", "idempotencyKey", req.IdempotencyKey)
		return prev.(PaymentResult), "", true, nil
	}

	idx, ok := l.loanIndex[req.LoanID]
	if !ok {
		l.logger.WarnContext(ctx, "Loan not found", "loanID", req.LoanID)
		return PaymentResult{}, "", false, apperrors.NewNotFoundError("loan", req.LoanID)
	}
	current := l.loans[idx]

	if !current.Status.IsPayable() {
		return PaymentResult{}, "", false, apperrors.NewInvalidStateError(
			fmt.Sprintf("loan %s is %s and cannot accept payments", current.ID, current.Status))
	}

	amount, err = parseAmount(req.Amount)
	if err != nil {
		amount = decimal.Zero
		return PaymentResult{}, "", false, amountError("payment amount", err)
	}
	if !amount.IsPositive() {
		return PaymentResult{}, "", false, apperrors.NewValidationError("amount", "payment amount must be greater than zero")
	}
	if amount.GreaterThan(current.RemainingBalance) {
		return PaymentResult{}, "", false, apperrors.NewValidationError("amount",
			fmt.Sprintf("payment amount exceeds remaining balance of %s", l.formatMoney(current.RemainingBalance)))
	}

	method := strings.TrimSpace(req.Method)
	if method == "" {
		method = DefaultPaymentMethod
	}

	now := l.timestamp()
	payment := Payment{
		ID:        l.newID("PAY"),
		LoanID:    current.ID,
		Amount:    amount,
		Method:    method,
		CreatedAt: now,
	}

	updated := current.clone()
	updated.Payments = append(updated.Payments, payment)
	updated.RemainingBalance = current.RemainingBalance.Sub(amount)
	if !updated.RemainingBalance.IsPositive() {
		updated.RemainingBalance = decimal.Zero
		updated.Status = StatusCompleted
	} else if current.Status == StatusApproved {
		updated.Status = StatusActive
	}
	updated.UpdatedAt = now

	tx := Transaction{
		ID:          l.newID("TX"),
		Type:        TypePayLoan,
		Amount:      amount.Neg(),
		Description: fmt.Sprintf("Pay Loan (%s)", method),
		ReferenceID: current.ID,
		CreatedAt:   now,
	}

	err = l.repo.Apply(ctx, Mutation{Loans: []Loan{updated}, Payment: &payment, Transactions: []Transaction{tx}})
	if err != nil {
		l.logger.ErrorContext(ctx, "Failed to persist payment", "loanID", current.ID, "error", err)
		return PaymentResult{}, "", false, fmt.Errorf("%w: failed to save payment: %w", apperrors.ErrInternalServer, err)
	}

	l.loans[idx] = updated
	l.appendTransaction(tx)

	result = PaymentResult{Payment: payment, Loan: updated.clone(), TransactionID: tx.ID}
	l.remember("pay", req.IdempotencyKey, fingerprint, result)
	if updated.Status != current.Status {
		monitoring.RecordStatusTransition(string(current.Status), string(updated.Status))
	}
	l.logger.InfoContext(ctx, "Payment processed successfully",
		"loanID", current.ID, "amount", amount.StringFixed(2), "remaining", updated.RemainingBalance.StringFixed(2), "status", updated.Status)

	return PaymentResult{Payment: payment, Loan: updated.clone(), TransactionID: tx.ID}, current.Status, false, nil
}

func (l *Ledger) GetLoan(ctx context.Context, loanID string) (Loan, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	idx, ok := l.loanIndex[loanID]
	if !ok {
		l.logger.DebugContext(ctx, "Loan not found", "loanID", loanID)
		return Loan{}, apperrors.NewNotFoundError("loan", loanID)
	}
	return l.loans[idx].clone(), nil
}

func (l *Ledger) GetLoans(ctx context.Context, filter LoanFilter) ([]Loan, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	loans := make([]Loan, 0, len(l.loans))
	for _, ln := range l.loans {
		if filter.Status != "" && ln.Status != filter.Status {
			continue
		}
		if filter.OwnerID != "" && !strings.EqualFold(ln.OwnerID, filter.OwnerID) {
			continue
		}
		loans = append(loans, ln.clone())
	}
	return loans, nil
}

func (l *Ledger) GetActiveLoans(ctx context.Context) ([]Loan, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	loans := make([]Loan, 0)
	for _, ln := range l.loans {
		if ln.IsActive() {
			loans = append(loans, ln.clone())
		}
	}
	return loans, nil
}

func (l *Ledger) GetTransaction(ctx context.Context, transactionID string) (Transaction, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	idx, ok := l.txIndex[transactionID]
	if !ok {
		return Transaction{}, apperrors.NewNotFoundError("transaction", transactionID)
	}
	return l.transactions[idx], nil
}

// GetTransactions returns matching transactions newest first. Entries sharing a
// timestamp keep reverse insertion order.
func (l *Ledger) GetTransactions(ctx context.Context, filter TransactionFilter) ([]Transaction, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]Transaction, 0, len(l.transactions))
	for i := len(l.transactions) - 1; i >= 0; i-- {
		tx := l.transactions[i]
		if filter.Type != "" && !strings.EqualFold(string(tx.Type), string(filter.Type)) {
			continue
		}
		if !filter.From.IsZero() && tx.CreatedAt.Before(filter.From) {
			continue
		}
		if !filter.To.IsZero() && tx.CreatedAt.After(filter.To) {
			continue
		}
		out = append(out, tx)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (l *Ledger) UpdateLoanStatus(ctx context.Context, loanID, status string) (Loan, error) {
	updated, change, err := l.updateLoanStatus(ctx, loanID, status)
	if err != nil {
		return Loan{}, err
	}
	l.publishStatusChanged(ctx, change)
	return updated, nil
}

func (l *Ledger) updateLoanStatus(ctx context.Context, loanID, raw string) (Loan, StatusChange, error) {
	target, err := ParseStatus(raw)
	if err != nil {
		return Loan{}, StatusChange{}, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	idx, ok := l.loanIndex[loanID]
	if !ok {
		return Loan{}, StatusChange{}, apperrors.NewNotFoundError("loan", loanID)
	}
	current := l.loans[idx]
	if !current.Status.CanTransitionManually(target) {
		return Loan{}, StatusChange{}, apperrors.NewInvalidStateError(
			fmt.Sprintf("cannot change loan %s from %s to %s", current.ID, current.Status, target))
	}

	updated := current.clone()
	updated.Status = target
	updated.UpdatedAt = l.timestamp()

	if err := l.repo.Apply(ctx, Mutation{Loans: []Loan{updated}}); err != nil {
		l.logger.ErrorContext(ctx, "Failed to persist status change", "loanID", loanID, "error", err)
		return Loan{}, StatusChange{}, fmt.Errorf("%w: failed to save loan status: %w", apperrors.ErrInternalServer, err)
	}
	l.loans[idx] = updated

	monitoring.RecordStatusTransition(string(current.Status), string(target))
	l.logger.InfoContext(ctx, "Loan status updated", "loanID", loanID, "from", current.Status, "to", target)

	change := StatusChange{LoanID: updated.ID, OwnerID: updated.OwnerID, From: current.Status, To: target, Reason: "manual update"}
	return updated.clone(), change, nil
}

// SweepOverdue classifies loans against the clock: open loans past their due date
// with an outstanding balance become Overdue, and Overdue loans past the grace
// window become Default. Each loan moves at most one step per sweep.
func (l *Ledger) SweepOverdue(ctx context.Context) ([]StatusChange, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.timestamp()
	var changed []Loan
	var changes []StatusChange
	var indexes []int

	for i, ln := range l.loans {
		next, reason := l.sweepTarget(ln, now)
		if next == "" {
			continue
		}
		updated := ln.clone()
		updated.Status = next
		updated.UpdatedAt = now
		changed = append(changed, updated)
		indexes = append(indexes, i)
		changes = append(changes, StatusChange{LoanID: ln.ID, OwnerID: ln.OwnerID, From: ln.Status, To: next, Reason: reason})
	}

	if len(changed) == 0 {
		return nil, nil
	}

	if err := l.repo.Apply(ctx, Mutation{Loans: changed}); err != nil {
		l.logger.ErrorContext(ctx, "Failed to persist overdue sweep", "error", err, "changes", len(changed))
		return nil, fmt.Errorf("%w: failed to save overdue sweep: %w", apperrors.ErrInternalServer, err)
	}
	for k, idx := range indexes {
		l.loans[idx] = changed[k]
		monitoring.RecordStatusTransition(string(changes[k].From), string(changes[k].To))
	}

	l.logger.InfoContext(ctx, "Overdue sweep applied", slog.Int("changes", len(changes)))
	return changes, nil
}

func (l *Ledger) sweepTarget(ln Loan, now time.Time) (Status, string) {
	if !ln.RemainingBalance.IsPositive() || !now.After(ln.DueDate) {
		return "", ""
	}
	switch ln.Status {
	case StatusApproved, StatusActive:
		return StatusOverdue, "past due date"
	case StatusOverdue:
		if l.terms.DefaultAfterDays > 0 && now.After(ln.DueDate.AddDate(0, 0, l.terms.DefaultAfterDays)) {
			return StatusDefault, fmt.Sprintf("overdue for more than %d days", l.terms.DefaultAfterDays)
		}
		return "", ""
	case StatusPending, StatusCompleted, StatusDefault, StatusCancelled, StatusRejected:
		return "", ""
	default:
		return "", ""
	}
}

func (l *Ledger) GetSchedule(ctx context.Context, loanID string) ([]ScheduleEntry, error) {
	ln, err := l.GetLoan(ctx, loanID)
	if err != nil {
		return nil, err
	}
	return GenerateSchedule(ln), nil
}

func (l *Ledger) GenerateStatement(ctx context.Context, loanID string, from, to time.Time) (Statement, error) {
	if !from.IsZero() && !to.IsZero() && from.After(to) {
		return Statement{}, apperrors.NewValidationError("startDate", "start date must not be after end date")
	}

	ln, err := l.GetLoan(ctx, loanID)
	if err != nil {
		return Statement{}, err
	}

	paidBefore := decimal.Zero
	paidThrough := decimal.Zero
	totalInRange := decimal.Zero
	payments := make([]Payment, 0)
	for _, p := range ln.Payments {
		if !from.IsZero() && p.CreatedAt.Before(from) {
			paidBefore = paidBefore.Add(p.Amount)
			paidThrough = paidThrough.Add(p.Amount)
			continue
		}
		if !to.IsZero() && p.CreatedAt.After(to) {
			continue
		}
		paidThrough = paidThrough.Add(p.Amount)
		totalInRange = totalInRange.Add(p.Amount)
		payments = append(payments, p)
	}

	return Statement{
		Loan:           ln,
		From:           from,
		To:             to,
		Payments:       payments,
		TotalPaid:      totalInRange,
		OpeningBalance: ln.Principal.Sub(paidBefore),
		ClosingBalance: ln.Principal.Sub(paidThrough),
	}, nil
}

func (l *Ledger) Debit(ctx context.Context, req DebitRequest) (Transaction, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	fingerprint := strings.Join([]string{req.Type, req.Amount, req.Description, req.ReferenceID}, "|")
	if prev, ok, err := l.replay("debit", req.IdempotencyKey, fingerprint); err != nil || ok {
		if err != nil {
			return Transaction{}, err
		}
		return prev.(Transaction), nil
	}

	txType := TransactionType(strings.TrimSpace(req.Type))
	if txType == "" {
		return Transaction{}, apperrors.NewValidationError("type", "transaction type is required")
	}
	if strings.EqualFold(string(txType), string(TypeTakeLoan)) || strings.EqualFold(string(txType), string(TypePayLoan)) {
		return Transaction{}, apperrors.NewValidationError("type", "loan transactions can only be recorded through loan operations")
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		return Transaction{}, amountError("debit amount", err)
	}
	if !amount.IsPositive() {
		return Transaction{}, apperrors.NewValidationError("amount", "debit amount must be greater than zero")
	}
	balance := l.balanceLocked()
	if amount.GreaterThan(balance) {
		return Transaction{}, apperrors.NewValidationError("amount",
			fmt.Sprintf("insufficient account balance: available %s", l.formatMoney(balance)))
	}

	description := strings.TrimSpace(req.Description)
	if description == "" {
		description = string(txType)
	}

	tx := Transaction{
		ID:          l.newID("TX"),
		Type:        txType,
		Amount:      amount.Neg(),
		Description: description,
		ReferenceID: strings.TrimSpace(req.ReferenceID),
		CreatedAt:   l.timestamp(),
	}
	if err := l.repo.Apply(ctx, Mutation{Transactions: []Transaction{tx}}); err != nil {
		l.logger.ErrorContext(ctx, "Failed to persist debit", "error", err)
		return Transaction{}, fmt.Errorf("%w: failed to save transaction: %w", apperrors.ErrInternalServer, err)
	}
	l.appendTransaction(tx)
	l.remember("debit", req.IdempotencyKey, fingerprint, tx)

	l.logger.InfoContext(ctx, "Account debited", "transactionID", tx.ID, "type", tx.Type, "amount", amount.StringFixed(2))
	return tx, nil
}

func (l *Ledger) Balance(ctx context.Context) (decimal.Decimal, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.balanceLocked(), nil
}

func (l *Ledger) balanceLocked() decimal.Decimal {
	balance := l.terms.OpeningBalance
	for _, tx := range l.transactions {
		balance = balance.Add(tx.Amount)
	}
	return balance
}

func (l *Ledger) Quote(ctx context.Context, req QuoteRequest) (Quote, error) {
	principal, err := parseAmount(req.Amount)
	if err != nil {
		return Quote{}, amountError("loan amount", err)
	}
	if !principal.IsPositive() {
		return Quote{}, apperrors.NewValidationError("amount", "loan amount must be greater than zero")
	}
	months, err := l.resolveMonths(req.Duration)
	if err != nil {
		return Quote{}, err
	}
	rate, err := l.resolveRate(req.InterestRate)
	if err != nil {
		return Quote{}, err
	}
	return NewQuote(principal, rate, months), nil
}

func (l *Ledger) AssessEligibility(ctx context.Context, profile EligibilityProfile) EligibilityAssessment {
	return AssessEligibility(profile, l.terms)
}

func (l *Ledger) Terms() Terms {
	t := l.terms
	t.AvailableDurations = append([]int(nil), l.terms.AvailableDurations...)
	t.Purposes = append([]string(nil), l.terms.Purposes...)
	return t
}

func (l *Ledger) publishLoanCreated(ctx context.Context, result CreateLoanResult) {
	ln := result.Loan
	err := l.publisher.PublishLoanCreated(ctx, event.LoanCreatedEvent{
		LoanID:         ln.ID,
		OwnerID:        ln.OwnerID,
		Purpose:        ln.Purpose,
		Principal:      ln.Principal.StringFixed(2),
		MonthlyPayment: ln.MonthlyPayment.StringFixed(2),
		DurationMonths: ln.DurationMonths,
		TransactionID:  result.TransactionID,
		Timestamp:      ln.CreatedAt,
	})
	if err != nil {
		l.logger.WarnContext(ctx, "Failed to publish loan created event", "loanID", ln.ID, "error", err)
	}
}

func (l *Ledger) publishPaymentMade(ctx context.Context, result PaymentResult) {
	err := l.publisher.PublishPaymentMade(ctx, event.PaymentMadeEvent{
		LoanID:           result.Loan.ID,
		OwnerID:          result.Loan.OwnerID,
		PaymentID:        result.Payment.ID,
		Amount:           result.Payment.Amount.StringFixed(2),
		RemainingBalance: result.Loan.RemainingBalance.StringFixed(2),
		Status:           string(result.Loan.Status),
		TransactionID:    result.TransactionID,
		Timestamp:        result.Payment.CreatedAt,
	})
	if err != nil {
		l.logger.WarnContext(ctx, "Failed to publish payment event", "loanID", result.Loan.ID, "error", err)
	}
}

func (l *Ledger) publishStatusChanged(ctx context.Context, change StatusChange) {
	if err := l.publisher.PublishLoanStatusChanged(ctx, NewStatusChangedEvent(change, l.timestamp())); err != nil {
		l.logger.WarnContext(ctx, "Failed to publish status change event", "loanID", change.LoanID, "error", err)
	}
}

func NewStatusChangedEvent(change StatusChange, at time.Time) event.LoanStatusChangedEvent {
	return event.LoanStatusChangedEvent{
		LoanID:    change.LoanID,
		OwnerID:   change.OwnerID,
		OldStatus: string(change.From),
		NewStatus: string(change.To),
		Reason:    change.Reason,
		Timestamp: at,
	}
}
