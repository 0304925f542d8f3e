package backend

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"spendwise/internal/adapters"
	"spendwise/internal/amqp"
	"spendwise/internal/cache"
	"spendwise/internal/limits"
	"spendwise/internal/log"
	"spendwise/internal/services"
	"spendwise/internal/storage"
	"spendwise/internal/storage/memory"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *log.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *log.Logger) Factory {
	if logger == nil {
		logger = log.Nop()
	}
	return &DefaultFactory{logger: logger.WithComponent(log.ComponentBackend)}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	var (
		kv      storage.KV
		closers []func() error
	)
	switch config.Type {
	case SQLiteBackend:
		db, err := storage.NewSQLiteKV(config.SQLiteDBPath, f.logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite store: %w", err)
		}
		kv = db
		closers = append(closers, db.Close)
		f.logger.InfoContext(ctx, "Initialized SQLite backend", log.FieldPath, config.SQLiteDBPath)
	case MemoryBackend:
		store, err := memory.NewFromSeedFile(config.SeedFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load seed file: %w", err)
		}
		kv = store
		f.logger.InfoContext(ctx, "Initialized memory backend", log.FieldPath, config.SeedFile, log.FieldCount, store.Len())
	default:
		return nil, fmt.Errorf("unsupported backend type: %s (want one of %s)", config.Type, strings.Join(GetBackendTypeStrings(), ", "))
	}

	if config.CacheSize > 0 {
		cached := cache.NewKV(kv, config.CacheSize, config.CacheTTL)
		kv = cached
		if config.CacheTTL > 0 {
			closers = append(closers, startCleanup(cached, config.CacheTTL))
		}
	}

	// AMQP is optional; a broker that is down only disables notifications.
	var alerts *amqp.Client
	if config.AMQPURL != "" {
		c, err := amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue)
		if err != nil {
			f.logger.WarnContext(ctx, "Failed to initialize AMQP client, continuing without alert publishing", log.FieldError, err)
		} else {
			alerts = c
			closers = append(closers, c.Close)
			f.logger.InfoContext(ctx, "Initialized AMQP client", "exchange", config.AMQPExchange, "queue", config.AMQPQueue)
		}
	}

	now := clock(config.Location)

	expenses := adapters.NewExpenseStore(kv)
	expenses.Now = now
	lm := limits.NewManager(adapters.NewLimitStore(kv), f.logger)
	lm.Now = now

	var publisher services.AlertPublisher
	if alerts != nil {
		publisher = alerts
	}
	svc := services.NewExpenseService(expenses, lm, publisher, f.logger)
	svc.Now = now

	return &BackendResult{
		KV:        kv,
		Expenses:  expenses,
		Limits:    lm,
		Service:   svc,
		Dashboard: services.NewDashboard(expenses, lm),
		Alerts:    alerts,
		Cleanup:   cleanup(closers),
	}, nil
}

func clock(loc *time.Location) func() time.Time {
	if loc == nil {
		return time.Now
	}
	return func() time.Time { return time.Now().In(loc) }
}

// startCleanup expires cached documents in the background and returns the
// func that stops it.
func startCleanup(c *cache.KV, interval time.Duration) func() error {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		c.RunCleanup(ctx, interval)
	}()
	return func() error {
		cancel()
		<-done
		return nil
	}
}

// cleanup closes in reverse order of acquisition.
func cleanup(closers []func() error) CleanupFunc {
	return func() error {
		var errs []error
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i](); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	}
}
