package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cofrinho/internal/amqp"
	"cofrinho/internal/core"
	"cofrinho/internal/ledger/memory"
	"cofrinho/internal/metrics"
)

type fakePublisher struct {
	mu     sync.Mutex
	events []*amqp.LedgerEvent
	err    error
	closed bool
}

func (f *fakePublisher) Publish(_ context.Context, ev *amqp.LedgerEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, ev)
	return nil
}

func (f *fakePublisher) Close() error {
	f.closed = true
	return nil
}

func entry(id string, amount float64) core.Entry {
	return core.Entry{
		ID:          id,
		Description: "Feira " + id,
		Amount:      amount,
		Kind:        core.Expense,
		Category:    core.Food,
		Owner:       core.PersonA,
		OccurredAt:  time.Date(2025, time.May, 3, 9, 0, 0, 0, time.UTC),
	}
}

func TestLedgerServiceAppendPublishes(t *testing.T) {
	pub := &fakePublisher{}
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	svc := NewLedgerService(memory.New(), pub, m, nil)
	ctx := context.Background()

	require.NoError(t, svc.Append(ctx, entry("a", 10)))
	require.NoError(t, svc.Append(ctx, entry("b", 20)))

	entries, err := svc.Entries(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "b", entries[0].ID)

	require.Len(t, pub.events, 2)
	assert.Equal(t, amqp.EventEntryAppended, pub.events[0].Type)
	assert.Equal(t, 4, pub.events[0].Month)

	count, err := testutil.GatherAndCount(reg, "cofrinho_ledger_operations_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestLedgerServiceRemove(t *testing.T) {
	pub := &fakePublisher{}
	svc := NewLedgerService(memory.New(entry("a", 10)), pub, nil, nil)
	ctx := context.Background()

	require.NoError(t, svc.Remove(ctx, "missing"))
	assert.Empty(t, pub.events, "unknown id publishes nothing")

	require.NoError(t, svc.Remove(ctx, "a"))
	entries, err := svc.Entries(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)

	require.Len(t, pub.events, 1)
	assert.Equal(t, amqp.EventEntryRemoved, pub.events[0].Type)
	assert.Equal(t, 10.0, pub.events[0].Amount)
}

func TestLedgerServicePublishFailureKeepsMutation(t *testing.T) {
	pub := &fakePublisher{err: errors.New("broker down")}
	svc := NewLedgerService(memory.New(), pub, nil, nil)

	require.NoError(t, svc.Append(context.Background(), entry("a", 10)))

	entries, err := svc.Entries(context.Background())
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestLedgerServiceRejectsInvalidEntry(t *testing.T) {
	pub := &fakePublisher{}
	svc := NewLedgerService(memory.New(), pub, nil, nil)

	err := svc.Append(context.Background(), entry("a", 0))

	assert.ErrorIs(t, err, core.ErrInvalidAmount)
	assert.Empty(t, pub.events)
}

func TestLedgerServiceWithoutPublisher(t *testing.T) {
	svc := NewLedgerService(memory.New(), nil, nil, nil)
	ctx := context.Background()

	require.NoError(t, svc.Append(ctx, entry("a", 10)))
	require.NoError(t, svc.Remove(ctx, "a"))
	require.NoError(t, svc.Ping(ctx))
	require.NoError(t, svc.Close())
}

func TestLedgerServiceCloseClosesPublisher(t *testing.T) {
	pub := &fakePublisher{}
	svc := NewLedgerService(memory.New(), pub, nil, nil)

	require.NoError(t, svc.Close())
	assert.True(t, pub.closed)
}
