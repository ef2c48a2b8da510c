package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"loan-ledger/internal/domain/loan"
	"loan-ledger/internal/infrastructure/monitoring"
	"loan-ledger/internal/pkg/apperrors"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"
)

const timeLayout = time.RFC3339Nano

// LedgerRepository persists the ledger in a single SQLite file. Money is stored
// as decimal text and timestamps as RFC 3339 strings in UTC.
type LedgerRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

var _ loan.Repository = (*LedgerRepository)(nil)

func NewLedgerRepository(dbPath string, logger *slog.Logger) (*LedgerRepository, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("sqlite path is empty in configuration")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	logger.Info("SQLite ledger store ready", "path", dbPath)
	return &LedgerRepository{db: db, logger: logger.With("component", "SQLiteLedgerRepository")}, nil
}

func (r *LedgerRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *LedgerRepository) LoadLoans(ctx context.Context) ([]loan.Loan, error) {
	startTime := time.Now()
	loans, err := r.loadLoans(ctx)
	status := "success"
	if err != nil {
		status = "error"
		r.logger.ErrorContext(ctx, "Failed to load loans", "error", err)
	}
	monitoring.RecordDBQuery("LoadLoans", status, time.Since(startTime))
	return loans, err
}

func (r *LedgerRepository) loadLoans(ctx context.Context) ([]loan.Loan, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT id, owner_id, principal, interest_rate, duration_months, purpose,
               monthly_payment, total_repayment, remaining_balance, status,
               created_at, due_date, updated_at
        FROM loans ORDER BY seq ASC`)
	if err != nil {
		return nil, fmt.Errorf("%w: query loans: %w", apperrors.ErrDatabase, err)
	}
	defer rows.Close()

	loans := make([]loan.Loan, 0)
	index := make(map[string]int)
	for rows.Next() {
		var (
			l                                    loan.Loan
			principal, monthly, total, remaining string
			status, created, due, updated        string
		)
		if err := rows.Scan(&l.ID, &l.OwnerID, &principal, &l.InterestRate, &l.DurationMonths, &l.Purpose,
			&monthly, &total, &remaining, &status, &created, &due, &updated); err != nil {
			return nil, fmt.Errorf("%w: scan loan: %w", apperrors.ErrDatabase, err)
		}
		if l.Principal, err = decimal.NewFromString(principal); err != nil {
			return nil, fmt.Errorf("%w: loan %s principal: %w", apperrors.ErrDatabase, l.ID, err)
		}
		if l.MonthlyPayment, err = decimal.NewFromString(monthly); err != nil {
			return nil, fmt.Errorf("%w: loan %s monthly payment: %w", apperrors.ErrDatabase, l.ID, err)
		}
		if l.TotalRepayment, err = decimal.NewFromString(total); err != nil {
			return nil, fmt.Errorf("%w: loan %s total repayment: %w", apperrors.ErrDatabase, l.ID, err)
		}
		if l.RemainingBalance, err = decimal.NewFromString(remaining); err != nil {
			return nil, fmt.Errorf("%w: loan %s balance: %w", apperrors.ErrDatabase, l.ID, err)
		}
		if l.CreatedAt, err = time.Parse(timeLayout, created); err != nil {
			return nil, fmt.Errorf("%w: loan %s created_at: %w", apperrors.ErrDatabase, l.ID, err)
		}
		if l.DueDate, err = time.Parse(timeLayout, due); err != nil {
			return nil, fmt.Errorf("%w: loan %s due_date: %w", apperrors.ErrDatabase, l.ID, err)
		}
		if l.UpdatedAt, err = time.Parse(timeLayout, updated); err != nil {
			return nil, fmt.Errorf("%w: loan %s updated_at: %w", apperrors.ErrDatabase, l.ID, err)
		}
		l.Status = loan.Status(status)
		l.Payments = []loan.Payment{}
		index[l.ID] = len(loans)
		loans = append(loans, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate loans: %w", apperrors.ErrDatabase, err)
	}

	payRows, err := r.db.QueryContext(ctx, `SELECT id, loan_id, amount, method, created_at FROM payments ORDER BY seq ASC`)
	if err != nil {
		return nil, fmt.Errorf("%w: query payments: %w", apperrors.ErrDatabase, err)
	}
	defer payRows.Close()

	for payRows.Next() {
		var (
			p               loan.Payment
			amount, created string
		)
		if err := payRows.Scan(&p.ID, &p.LoanID, &amount, &p.Method, &created); err != nil {
			return nil, fmt.Errorf("%w: scan payment: %w", apperrors.ErrDatabase, err)
		}
		if p.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("%w: payment %s amount: %w", apperrors.ErrDatabase, p.ID, err)
		}
		if p.CreatedAt, err = time.Parse(timeLayout, created); err != nil {
			return nil, fmt.Errorf("%w: payment %s created_at: %w", apperrors.ErrDatabase, p.ID, err)
		}
		if idx, ok := index[p.LoanID]; ok {
			loans[idx].Payments = append(loans[idx].Payments, p)
		}
	}
	if err := payRows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate payments: %w", apperrors.ErrDatabase, err)
	}

	return loans, nil
}

func (r *LedgerRepository) LoadTransactions(ctx context.Context) ([]loan.Transaction, error) {
	startTime := time.Now()
	status := "success"
	defer func() {
		monitoring.RecordDBQuery("LoadTransactions", status, time.Since(startTime))
	}()

	rows, err := r.db.QueryContext(ctx, `
        SELECT id, type, amount, description, reference_id, created_at
        FROM transactions ORDER BY seq ASC`)
	if err != nil {
		status = "error"
		return nil, fmt.Errorf("%w: query transactions: %w", apperrors.ErrDatabase, err)
	}
	defer rows.Close()

	txs := make([]loan.Transaction, 0)
	for rows.Next() {
		var (
			t                       loan.Transaction
			txType, amount, created string
		)
		if err := rows.Scan(&t.ID, &txType, &amount, &t.Description, &t.ReferenceID, &created); err != nil {
			status = "error"
			return nil, fmt.Errorf("%w: scan transaction: %w", apperrors.ErrDatabase, err)
		}
		if t.Amount, err = decimal.NewFromString(amount); err != nil {
			status = "error"
			return nil, fmt.Errorf("%w: transaction %s amount: %w", apperrors.ErrDatabase, t.ID, err)
		}
		if t.CreatedAt, err = time.Parse(timeLayout, created); err != nil {
			status = "error"
			return nil, fmt.Errorf("%w: transaction %s created_at: %w", apperrors.ErrDatabase, t.ID, err)
		}
		t.Type = loan.TransactionType(txType)
		txs = append(txs, t)
	}
	if err := rows.Err(); err != nil {
		status = "error"
		return nil, fmt.Errorf("%w: iterate transactions: %w", apperrors.ErrDatabase, err)
	}
	return txs, nil
}

func (r *LedgerRepository) Apply(ctx context.Context, m loan.Mutation) (err error) {
	if m.IsEmpty() {
		return nil
	}

	startTime := time.Now()
	defer func() {
		status := "success"
		if err != nil {
			status = "error"
			r.logger.ErrorContext(ctx, "Failed to apply mutation", "error", err)
		}
		monitoring.RecordDBQuery("Apply", status, time.Since(startTime))
	}()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin: %w", apperrors.ErrDatabase, err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, l := range m.Loans {
		_, err = tx.ExecContext(ctx, `
            INSERT INTO loans (id, owner_id, principal, interest_rate, duration_months, purpose,
                               monthly_payment, total_repayment, remaining_balance, status,
                               created_at, due_date, updated_at)
            VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
            ON CONFLICT(id) DO UPDATE SET
                remaining_balance = excluded.remaining_balance,
                status = excluded.status,
                updated_at = excluded.updated_at`,
			l.ID, l.OwnerID, l.Principal.String(), l.InterestRate, l.DurationMonths, l.Purpose,
			l.MonthlyPayment.String(), l.TotalRepayment.String(), l.RemainingBalance.String(), string(l.Status),
			formatTime(l.CreatedAt), formatTime(l.DueDate), formatTime(l.UpdatedAt),
		)
		if err != nil {
			return fmt.Errorf("%w: upsert loan %s: %w", apperrors.ErrDatabase, l.ID, err)
		}
	}

	if p := m.Payment; p != nil {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO payments (id, loan_id, amount, method, created_at) VALUES (?, ?, ?, ?, ?)`,
			p.ID, p.LoanID, p.Amount.String(), p.Method, formatTime(p.CreatedAt))
		if err != nil {
			return fmt.Errorf("%w: insert payment %s: %w", apperrors.ErrDatabase, p.ID, err)
		}
	}

	for _, t := range m.Transactions {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO transactions (id, type, amount, description, reference_id, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
			t.ID, string(t.Type), t.Amount.String(), t.Description, t.ReferenceID, formatTime(t.CreatedAt))
		if err != nil {
			return fmt.Errorf("%w: insert transaction %s: %w", apperrors.ErrDatabase, t.ID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %w", apperrors.ErrDatabase, err)
	}
	return nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}
