package services

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/multierr"

	"cofrinho/internal/amqp"
	"cofrinho/internal/core"
	"cofrinho/internal/ledger"
	"cofrinho/internal/log"
	"cofrinho/internal/metrics"
)

// EventPublisher receives a LedgerEvent after every successful mutation.
type EventPublisher interface {
	Publish(ctx context.Context, ev *amqp.LedgerEvent) error
}

// LedgerService applies mutations to the store and announces them. The
// store is the source of truth: publishing problems are logged and never
// fail the mutation.
type LedgerService struct {
	store     ledger.Store
	publisher EventPublisher
	metrics   *metrics.Metrics
	logger    *log.Logger
}

func NewLedgerService(store ledger.Store, publisher EventPublisher, m *metrics.Metrics, logger *log.Logger) *LedgerService {
	if logger == nil {
		logger = log.FromContext(context.Background())
	}
	return &LedgerService{
		store:     store,
		publisher: publisher,
		metrics:   m,
		logger:    logger.WithComponent(log.ComponentLedger),
	}
}

// Append stores e at the front of the ledger.
func (s *LedgerService) Append(ctx context.Context, e core.Entry) error {
	if err := s.store.Append(ctx, e); err != nil {
		return fmt.Errorf("append entry: %w", err)
	}
	s.metrics.IncLedgerOp(log.OpAppend)
	s.logger.InfoContext(ctx, "Entry appended", entryFields(e, log.OpAppend).ToSlice()...)
	s.publish(ctx, amqp.NewAppendedEvent(e))
	return nil
}

// Remove deletes the entry with id. Unknown IDs are a no-op and publish nothing.
func (s *LedgerService) Remove(ctx context.Context, id string) error {
	entries, err := s.store.All(ctx)
	if err != nil {
		return fmt.Errorf("load entries: %w", err)
	}
	var (
		removed core.Entry
		found   bool
	)
	for _, e := range entries {
		if e.ID == id {
			removed, found = e, true
			break
		}
	}

	if err := s.store.Remove(ctx, id); err != nil {
		return fmt.Errorf("remove entry: %w", err)
	}
	if !found {
		s.logger.DebugContext(ctx, "Remove ignored unknown entry", log.FieldEntryID, id)
		return nil
	}

	s.metrics.IncLedgerOp(log.OpRemove)
	s.logger.InfoContext(ctx, "Entry removed", entryFields(removed, log.OpRemove).ToSlice()...)
	s.publish(ctx, amqp.NewRemovedEvent(removed))
	return nil
}

// Entries returns the whole ledger, most recent first.
func (s *LedgerService) Entries(ctx context.Context) ([]core.Entry, error) {
	entries, err := s.store.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	return entries, nil
}

// Ping reports whether the store can still be read.
func (s *LedgerService) Ping(ctx context.Context) error {
	_, err := s.store.All(ctx)
	return err
}

// Close releases the store and, when it holds resources, the publisher.
func (s *LedgerService) Close() error {
	err := s.store.Close()
	if c, ok := s.publisher.(io.Closer); ok {
		err = multierr.Append(err, c.Close())
	}
	return err
}

func (s *LedgerService) publish(ctx context.Context, ev *amqp.LedgerEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, ev); err != nil {
		s.logger.WarnContext(ctx, "Failed to publish ledger event",
			log.NewFields().
				WithOperation(log.OpPublish).
				WithError(err).
				ToSlice()...)
	}
}

func entryFields(e core.Entry, op string) log.LogFields {
	return log.NewFields().
		WithOperation(op).
		WithMonth(core.MonthName(e.Month())).
		WithEntry(e.ID, e.Amount, string(e.Kind), string(e.Category), string(e.Owner))
}
