package main

import (
	"context"
	"loan-ledger/internal/api/middleware"
	"loan-ledger/internal/batch"
	"loan-ledger/internal/config"
	"loan-ledger/internal/domain/loan"
	"loan-ledger/internal/event"
	"loan-ledger/internal/infrastructure/database/memory"
	"loan-ledger/internal/infrastructure/logging"
	"net/http"
	"os"
	"path/filepath"
	"syscall"
	"testing"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeApp(t *testing.T) {
	cfg, log := initializeApp()

	assert.NotNil(t, cfg, "Config should not be nil")
	assert.NotNil(t, log, "Logger should not be nil")
	assert.Equal(t, "memory", cfg.Database.Driver)
}

func TestLoanTerms(t *testing.T) {
	t.Run("zero config keeps defaults", func(t *testing.T) {
		assert.Equal(t, loan.DefaultTerms(), loanTerms(config.LoanConfig{}))
	})

	t.Run("overrides configured values", func(t *testing.T) {
		terms := loanTerms(config.LoanConfig{
			MinAmount:           50000,
			DefaultInterestRate: 12,
			AvailableDurations:  []int{6, 12},
			Purposes:            []string{"Business"},
			Currency:            "KES",
			OpeningBalance:      1000000,
		})

		assert.True(t, decimal.NewFromInt(50000).Equal(terms.MinLoanAmount))
		assert.Equal(t, 12.0, terms.DefaultInterestRate)
		assert.Equal(t, []int{6, 12}, terms.AvailableDurations)
		assert.Equal(t, []string{"Business"}, terms.Purposes)
		assert.Equal(t, "KES", terms.Currency)
		assert.True(t, decimal.NewFromInt(1000000).Equal(terms.OpeningBalance))
		assert.Equal(t, loan.DefaultTerms().MaxDurationMonths, terms.MaxDurationMonths)
	})
}

func TestOpenStorage(t *testing.T) {
	logger := logging.NewLogger(config.LoggerConfig{})
	ctx := context.Background()

	t.Run("memory", func(t *testing.T) {
		repo, closeFn, err := openStorage(ctx, config.DatabaseConfig{Driver: "memory"}, logger)
		require.NoError(t, err)
		defer closeFn()
		assert.IsType(t, &memory.LedgerRepository{}, repo)
	})

	t.Run("sqlite", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "ledger.db")
		repo, closeFn, err := openStorage(ctx, config.DatabaseConfig{Driver: "SQLite", SQLitePath: path}, logger)
		require.NoError(t, err)
		defer closeFn()

		ledger, err := loan.NewLedger(ctx, repo, loan.DefaultTerms(), logger)
		require.NoError(t, err)
		_, err = ledger.CreateLoan(ctx, loan.CreateLoanRequest{Amount: "200000", Duration: "12", Purpose: "Business"})
		require.NoError(t, err)

		_, statErr := os.Stat(path)
		assert.NoError(t, statErr)
	})

	t.Run("unsupported driver", func(t *testing.T) {
		_, _, err := openStorage(ctx, config.DatabaseConfig{Driver: "mysql"}, logger)
		assert.ErrorContains(t, err, `unsupported database driver "mysql"`)
	})
}

func TestInitializePublisherWithoutRabbitMQ(t *testing.T) {
	logger := logging.NewLogger(config.LoggerConfig{})
	cfg := &config.Config{}

	assert.Nil(t, setupRabbitMQ(cfg, logger))
	assert.Equal(t, event.NoopPublisher{}, initializePublisher(cfg, nil, logger))
	assert.Nil(t, initializeRedisClient(cfg, logger))
}

func TestStartBatchJobs(t *testing.T) {
	logger := logging.NewLogger(config.LoggerConfig{})
	ledger, err := loan.NewLedger(context.Background(), memory.NewLedgerRepository(), loan.DefaultTerms(), logger)
	require.NoError(t, err)

	cfg := &config.Config{Batch: config.BatchConfig{OverdueSweepSchedule: "*/5 * * * *"}}
	c := startBatchJobs(cfg, logger, batch.NewOverdueSweepJob(ledger, event.NoopPublisher{}, logger))
	defer c.Stop()

	assert.Len(t, c.Entries(), 1)
}

func TestStartServer(t *testing.T) {
	cfg := &config.Config{
		Server: config.ServerConfig{
			Port:         0,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 5 * time.Second,
			IdleTimeout:  5 * time.Second,
		},
	}
	logger := logging.NewLogger(config.LoggerConfig{})
	router := http.NewServeMux()

	srv, serverErrors, shutdownChan := startServer(cfg, router, logger)
	defer srv.Close()

	assert.NotNil(t, srv, "Server should not be nil")
	assert.NotNil(t, serverErrors, "Server errors channel should not be nil")
	assert.NotNil(t, shutdownChan, "Shutdown channel should not be nil")
}

func TestHandleShutdown(t *testing.T) {
	logger := logging.NewLogger(config.LoggerConfig{})
	cronScheduler := cron.New()
	srv := &http.Server{}
	rateLimiter := middleware.NewRateLimiterMiddleware(config.RateLimitConfig{Enabled: true, RPS: 1, Burst: 1}, logger)
	shutdownChan := make(chan os.Signal, 1)
	serverErrors := make(chan error, 1)

	shutdownChan <- syscall.SIGINT
	go func() {
		time.Sleep(50 * time.Millisecond)
		serverErrors <- nil
	}()

	done := make(chan struct{})
	go func() {
		handleShutdown(srv, cronScheduler, nil, nil, rateLimiter, shutdownChan, serverErrors, logger)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("graceful shutdown did not complete")
	}
}
