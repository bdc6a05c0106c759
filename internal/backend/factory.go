package backend

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"expensetracker/internal/amqp"
	"expensetracker/internal/ports"
	"expensetracker/internal/services"
	"expensetracker/internal/storage"
	"expensetracker/internal/storage/memory"
)

// NotifierDialer opens the change notifier for an AMQP URL.
type NotifierDialer func(url, exchange, queue string) (ports.ChangeNotifier, error)

func dialAMQP(url, exchange, queue string) (ports.ChangeNotifier, error) {
	client, err := amqp.NewClient(url, exchange, queue)
	if err != nil {
		return nil, err
	}
	return client, nil
}

var _ Factory = (*DefaultFactory)(nil)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *slog.Logger
	now    func() time.Time
	dial   NotifierDialer
}

// NewFactory creates a new backend factory
func NewFactory(logger *slog.Logger) *DefaultFactory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{
		logger: logger,
		now:    time.Now,
		dial:   dialAMQP,
	}
}

// WithClock sets the clock handed to stores and the service.
func (f *DefaultFactory) WithClock(now func() time.Time) *DefaultFactory {
	if now != nil {
		f.now = now
	}
	return f
}

// WithDialer replaces the AMQP dialer.
func (f *DefaultFactory) WithDialer(dial NotifierDialer) *DefaultFactory {
	if dial != nil {
		f.dial = dial
	}
	return f
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	var (
		store ports.ExpenseStore
		err   error
	)
	switch config.Type {
	case SQLiteBackend:
		store, err = f.createSQLiteStore(config)
	case MemoryBackend:
		store = f.createMemoryStore(config)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
	if err != nil {
		return nil, err
	}

	notifier := f.createNotifier(ctx, config)
	service := services.NewExpenseService(store, notifier, f.now)

	f.logger.InfoContext(ctx, "Initialized backend",
		"backend", config.Type,
		"amqp_enabled", notifier != nil)

	return &BackendResult{
		Service: service,
		Cleanup: service.Close,
	}, nil
}

func (f *DefaultFactory) createSQLiteStore(config Config) (ports.ExpenseStore, error) {
	repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath, storage.WithClock(f.now))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
	}
	f.logger.Debug("Opened SQLite database", "db_path", config.SQLiteDBPath)
	return repo, nil
}

func (f *DefaultFactory) createMemoryStore(config Config) ports.ExpenseStore {
	dataDir := config.DataDirectory
	if dataDir == "" {
		dataDir = "data" // Default directory
	}
	f.logger.Debug("Seeding memory backend", "data_directory", dataDir)
	return memory.NewFromFiles(dataDir, f.now)
}

// createNotifier returns nil when notifications are disabled or the
// broker is unreachable; expenses are still stored either way.
func (f *DefaultFactory) createNotifier(ctx context.Context, config Config) ports.ChangeNotifier {
	if config.AMQPURL == "" {
		return nil
	}
	notifier, err := f.dial(config.AMQPURL, config.AMQPExchange, config.AMQPQueue)
	if err != nil {
		f.logger.WarnContext(ctx, "Failed to initialize AMQP client, continuing without notifications", "error", err)
		return nil
	}
	f.logger.InfoContext(ctx, "Initialized AMQP client",
		"exchange", config.AMQPExchange,
		"queue", config.AMQPQueue)
	return notifier
}
