package backend

import (
	"context"
	"fmt"

	"cofrinho/internal/amqp"
	"cofrinho/internal/ledger"
	"cofrinho/internal/ledger/memory"
	"cofrinho/internal/ledger/sqlite"
	"cofrinho/internal/log"
	"cofrinho/internal/metrics"
	"cofrinho/internal/services"
)

// Result is the assembled ledger service plus its cleanup.
type Result struct {
	Service *services.LedgerService
	Cleanup func() error
}

type Factory struct {
	logger  *log.Logger
	metrics *metrics.Metrics
}

func NewFactory(logger *log.Logger, m *metrics.Metrics) *Factory {
	if logger == nil {
		logger = log.FromContext(context.Background())
	}
	return &Factory{
		logger:  logger.WithComponent(log.ComponentBackend),
		metrics: m,
	}
}

// Create opens the configured store and, when AMQP is set, an event
// publisher. A broker that cannot be reached is logged and skipped.
func (f *Factory) Create(ctx context.Context, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	store, err := f.openStore(cfg.Type)
	if err != nil {
		return nil, err
	}

	var publisher services.EventPublisher
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, f.logger)
		if err != nil {
			f.logger.WarnContext(ctx, "Failed to initialize AMQP client, continuing without ledger events", "error", err)
		} else {
			publisher = client
			f.logger.InfoContext(ctx, "Initialized AMQP client",
				"exchange", cfg.AMQPExchange,
				"queue", cfg.AMQPQueue)
		}
	}

	svc := services.NewLedgerService(store, publisher, f.metrics, f.logger)
	f.logger.InfoContext(ctx, "Initialized ledger backend",
		"backend", cfg.Type.String(),
		"events_enabled", publisher != nil)

	return &Result{Service: svc, Cleanup: svc.Close}, nil
}

func (f *Factory) openStore(t BackendType) (ledger.Store, error) {
	switch t {
	case MemoryBackend:
		return memory.New(), nil
	case SQLiteBackend:
		store, err := sqlite.New()
		if err != nil {
			return nil, fmt.Errorf("open sqlite ledger: %w", err)
		}
		return store, nil
	}
	return nil, fmt.Errorf("unsupported backend type: %s", t)
}
