package batch

import (
	"context"
	"fmt"
	"loan-ledger/internal/domain/loan"
	"loan-ledger/internal/event"
	"loan-ledger/internal/infrastructure/monitoring"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"
)

const publishConcurrency = 8

// Sweeper is the part of the ledger the overdue job drives.
type Sweeper interface {
	SweepOverdue(ctx context.Context) ([]loan.StatusChange, error)
}

type OverdueSweepJob struct {
	ledger    Sweeper
	publisher event.EventPublisher
	now       func() time.Time
	logger    *slog.Logger
}

func NewOverdueSweepJob(ledger Sweeper, publisher event.EventPublisher, logger *slog.Logger) *OverdueSweepJob {
	if ledger == nil || publisher == nil || logger == nil {
		panic("OverdueSweepJob dependencies cannot be nil")
	}
	return &OverdueSweepJob{
		ledger:    ledger,
		publisher: publisher,
		now:       time.Now,
		logger:    logger.With("job", "OverdueSweep"),
	}
}

// Run classifies overdue loans and announces every status change. Events are
// published concurrently; a failed publish is counted but does not undo the sweep.
func (j *OverdueSweepJob) Run(ctx context.Context) error {
	startTime := time.Now()
	j.logger.InfoContext(ctx, "Starting overdue sweep job.")

	changes, err := j.ledger.SweepOverdue(ctx)
	if err != nil {
		monitoring.RecordSweepRun("error")
		j.logger.ErrorContext(ctx, "Overdue sweep failed, aborting job.", slog.Any("error", err))
		return fmt.Errorf("overdue sweep failed: %w", err)
	}

	if len(changes) == 0 {
		monitoring.RecordSweepRun("success")
		j.logger.InfoContext(ctx, "No loans changed status.", slog.Duration("duration", time.Since(startTime)))
		return nil
	}

	var failed atomic.Int32
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(publishConcurrency)
	at := j.now().UTC()
	for _, change := range changes {
		g.Go(func() error {
			logCtx := j.logger.With(slog.String("loanID", change.LoanID), slog.String("to", string(change.To)))
			if err := j.publisher.PublishLoanStatusChanged(gctx, loan.NewStatusChangedEvent(change, at)); err != nil {
				failed.Add(1)
				logCtx.WarnContext(gctx, "Failed to publish status change", slog.Any("error", err))
				return nil
			}
			logCtx.DebugContext(gctx, "Published status change.")
			return nil
		})
	}
	_ = g.Wait()

	summary := j.logger.With(
		slog.Duration("duration", time.Since(startTime)),
		slog.Int("status_changes", len(changes)),
		slog.Int("publish_failures", int(failed.Load())),
	)
	if n := failed.Load(); n > 0 {
		monitoring.RecordSweepRun("partial")
		summary.WarnContext(ctx, "Overdue sweep job finished with publish errors.")
		return fmt.Errorf("sweep applied but %d status events failed to publish", n)
	}

	monitoring.RecordSweepRun("success")
	summary.InfoContext(ctx, "Overdue sweep job finished successfully.")
	return nil
}

// Schedule registers the job on c with a per-run timeout.
func Schedule(c *cron.Cron, spec string, timeout time.Duration, job *OverdueSweepJob, logger *slog.Logger) (cron.EntryID, error) {
	if timeout <= 0 {
		timeout = 30 * time.Minute
	}
	return c.AddJob(spec, cron.FuncJob(func() {
		jobLogger := logger.With("job_name", "OverdueSweep")
		jobLogger.Info("Cron triggered: Running overdue sweep job.")

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		if err := job.Run(ctx); err != nil {
			jobLogger.Error("Overdue sweep job finished with error", slog.Any("error", err))
		}
	}))
}
