package postgres

import (
	"context"
	"errors"
	"fmt"
	"loan-ledger/internal/domain/loan"
	"loan-ledger/internal/infrastructure/monitoring"
	"loan-ledger/internal/pkg/apperrors"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const (
	selectLoansSQL = `
        SELECT id, owner_id, principal::text, interest_rate, duration_months, purpose,
               monthly_payment::text, total_repayment::text, remaining_balance::text,
               status, created_at, due_date, updated_at
        FROM loans
        ORDER BY seq ASC`

	selectPaymentsSQL = `
        SELECT id, loan_id, amount::text, method, created_at
        FROM payments
        ORDER BY seq ASC`

	selectTransactionsSQL = `
        SELECT id, type, amount::text, description, reference_id, created_at
        FROM transactions
        ORDER BY seq ASC`

	upsertLoanSQL = `
        INSERT INTO loans (id, owner_id, principal, interest_rate, duration_months, purpose,
                           monthly_payment, total_repayment, remaining_balance, status,
                           created_at, due_date, updated_at)
        VALUES ($1, $2, $3::numeric, $4, $5, $6, $7::numeric, $8::numeric, $9::numeric, $10, $11, $12, $13)
        ON CONFLICT (id) DO UPDATE
        SET remaining_balance = EXCLUDED.remaining_balance,
            status = EXCLUDED.status,
            updated_at = EXCLUDED.updated_at`

	insertPaymentSQL = `
        INSERT INTO payments (id, loan_id, amount, method, created_at)
        VALUES ($1, $2, $3::numeric, $4, $5)`

	insertTransactionSQL = `
        INSERT INTO transactions (id, type, amount, description, reference_id, created_at)
        VALUES ($1, $2, $3::numeric, $4, $5, $6)`
)

var errMsgFormat = "%w: %w"

type LedgerRepository struct {
	db     DBPool
	logger *slog.Logger
}

var _ loan.Repository = (*LedgerRepository)(nil)

func NewLedgerRepository(db DBPool, logger *slog.Logger) *LedgerRepository {
	return &LedgerRepository{db: db, logger: logger.With("component", "LedgerRepository")}
}

func (r *LedgerRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to begin transaction", "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return tx, nil
}

func (r *LedgerRepository) CommitTx(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Commit(ctx); err != nil {
		r.logger.ErrorContext(ctx, "Failed to commit transaction", "error", err)
		return fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return nil
}

func (r *LedgerRepository) RollbackTx(ctx context.Context, tx pgx.Tx) error {
	err := tx.Rollback(ctx)
	if err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		r.logger.ErrorContext(ctx, "Failed to rollback transaction", "error", err)
		return fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return nil
}

func (r *LedgerRepository) LoadLoans(ctx context.Context) ([]loan.Loan, error) {
	startTime := time.Now()
	loans, err := r.loadLoans(ctx)
	status := "success"
	if err != nil {
		status = "error"
	}
	monitoring.RecordDBQuery("LoadLoans", status, time.Since(startTime))
	return loans, err
}

func (r *LedgerRepository) loadLoans(ctx context.Context) ([]loan.Loan, error) {
	rows, err := r.db.Query(ctx, selectLoansSQL)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to query loans", "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	defer rows.Close()

	loans := make([]loan.Loan, 0)
	index := make(map[string]int)
	for rows.Next() {
		var (
			l                                              loan.Loan
			principal, monthly, total, remaining, statusDB string
		)
		err := rows.Scan(
			&l.ID, &l.OwnerID, &principal, &l.InterestRate, &l.DurationMonths, &l.Purpose,
			&monthly, &total, &remaining, &statusDB, &l.CreatedAt, &l.DueDate, &l.UpdatedAt,
		)
		if err != nil {
			r.logger.ErrorContext(ctx, "Failed to scan loan row", "error", err)
			return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
		}
		if err := parseDecimals(
			decimalField{principal, &l.Principal},
			decimalField{monthly, &l.MonthlyPayment},
			decimalField{total, &l.TotalRepayment},
			decimalField{remaining, &l.RemainingBalance},
		); err != nil {
			return nil, fmt.Errorf("%w: loan %s: %w", apperrors.ErrDatabase, l.ID, err)
		}
		l.Status = loan.Status(statusDB)
		l.Payments = []loan.Payment{}
		index[l.ID] = len(loans)
		loans = append(loans, l)
	}
	if err := rows.Err(); err != nil {
		r.logger.ErrorContext(ctx, "Error iterating loan rows", "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}

	payments, err := r.loadPayments(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range payments {
		idx, ok := index[p.LoanID]
		if !ok {
			r.logger.WarnContext(ctx, "Skipping payment for unknown loan", "paymentID", p.ID, "loanID", p.LoanID)
			continue
		}
		loans[idx].Payments = append(loans[idx].Payments, p)
	}

	r.logger.DebugContext(ctx, "Loaded loans", slog.Int("loans", len(loans)), slog.Int("payments", len(payments)))
	return loans, nil
}

func (r *LedgerRepository) loadPayments(ctx context.Context) ([]loan.Payment, error) {
	rows, err := r.db.Query(ctx, selectPaymentsSQL)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to query payments", "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	defer rows.Close()

	payments := make([]loan.Payment, 0)
	for rows.Next() {
		var (
			p      loan.Payment
			amount string
		)
		if err := rows.Scan(&p.ID, &p.LoanID, &amount, &p.Method, &p.CreatedAt); err != nil {
			r.logger.ErrorContext(ctx, "Failed to scan payment row", "error", err)
			return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
		}
		if err := parseDecimals(decimalField{amount, &p.Amount}); err != nil {
			return nil, fmt.Errorf("%w: payment %s: %w", apperrors.ErrDatabase, p.ID, err)
		}
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		r.logger.ErrorContext(ctx, "Error iterating payment rows", "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return payments, nil
}

func (r *LedgerRepository) LoadTransactions(ctx context.Context) ([]loan.Transaction, error) {
	startTime := time.Now()
	status := "success"
	defer func() {
		monitoring.RecordDBQuery("LoadTransactions", status, time.Since(startTime))
	}()

	rows, err := r.db.Query(ctx, selectTransactionsSQL)
	if err != nil {
		status = "error"
		r.logger.ErrorContext(ctx, "Failed to query transactions", "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	defer rows.Close()

	txs := make([]loan.Transaction, 0)
	for rows.Next() {
		var (
			t              loan.Transaction
			txType, amount string
		)
		if err := rows.Scan(&t.ID, &txType, &amount, &t.Description, &t.ReferenceID, &t.CreatedAt); err != nil {
			status = "error"
			r.logger.ErrorContext(ctx, "Failed to scan transaction row", "error", err)
			return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
		}
		if err := parseDecimals(decimalField{amount, &t.Amount}); err != nil {
			status = "error"
			return nil, fmt.Errorf("%w: transaction %s: %w", apperrors.ErrDatabase, t.ID, err)
		}
		t.Type = loan.TransactionType(txType)
		txs = append(txs, t)
	}
	if err := rows.Err(); err != nil {
		status = "error"
		r.logger.ErrorContext(ctx, "Error iterating transaction rows", "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return txs, nil
}

// Apply writes a mutation in one database transaction.
func (r *LedgerRepository) Apply(ctx context.Context, m loan.Mutation) (err error) {
	if m.IsEmpty() {
		return nil
	}

	startTime := time.Now()
	defer func() {
		status := "success"
		if err != nil {
			status = "error"
		}
		monitoring.RecordDBQuery("Apply", status, time.Since(startTime))
	}()

	tx, err := r.BeginTx(ctx)
	if err != nil {
		return err
	}

	for _, l := range m.Loans {
		_, err = tx.Exec(ctx, upsertLoanSQL,
			l.ID, l.OwnerID, l.Principal.String(), l.InterestRate, l.DurationMonths, l.Purpose,
			l.MonthlyPayment.String(), l.TotalRepayment.String(), l.RemainingBalance.String(),
			string(l.Status), l.CreatedAt, l.DueDate, l.UpdatedAt,
		)
		if err != nil {
			return r.abort(ctx, tx, "Failed to upsert loan", err, "loanID", l.ID)
		}
	}

	if p := m.Payment; p != nil {
		_, err = tx.Exec(ctx, insertPaymentSQL, p.ID, p.LoanID, p.Amount.String(), p.Method, p.CreatedAt)
		if err != nil {
			return r.abort(ctx, tx, "Failed to insert payment", err, "paymentID", p.ID)
		}
	}

	for _, t := range m.Transactions {
		_, err = tx.Exec(ctx, insertTransactionSQL, t.ID, string(t.Type), t.Amount.String(), t.Description, t.ReferenceID, t.CreatedAt)
		if err != nil {
			return r.abort(ctx, tx, "Failed to insert transaction", err, "transactionID", t.ID)
		}
	}

	if err = r.CommitTx(ctx, tx); err != nil {
		return err
	}
	r.logger.DebugContext(ctx, "Mutation applied",
		slog.Int("loans", len(m.Loans)), slog.Bool("payment", m.Payment != nil), slog.Int("transactions", len(m.Transactions)))
	return nil
}

func (r *LedgerRepository) abort(ctx context.Context, tx pgx.Tx, msg string, cause error, attrs ...any) error {
	r.logger.ErrorContext(ctx, msg, append(attrs, "error", cause)...)
	if rbErr := r.RollbackTx(ctx, tx); rbErr != nil {
		return errors.Join(fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, cause), rbErr)
	}
	return fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, cause)
}

type decimalField struct {
	raw  string
	dest *decimal.Decimal
}

func parseDecimals(fields ...decimalField) error {
	for _, f := range fields {
		d, err := decimal.NewFromString(f.raw)
		if err != nil {
			return fmt.Errorf("invalid numeric value %q: %w", f.raw, err)
		}
		*f.dest = d
	}
	return nil
}
