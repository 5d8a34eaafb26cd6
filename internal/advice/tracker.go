package advice

import (
	"context"
	"sync"

	"cofrinho/internal/core"
)

// Ticket identifies one advice request and the month it was made for.
type Ticket struct {
	Month int
	seq   uint64
}

// Tracker remembers which month the dashboard currently shows and which
// advice request is the latest one. Starting a request cancels the one in
// flight, and answers whose ticket is no longer current must be dropped.
type Tracker struct {
	mu     sync.Mutex
	month  int
	seq    uint64
	cancel context.CancelFunc
}

func NewTracker(month int) *Tracker {
	return &Tracker{month: core.WrapMonth(month)}
}

// Select records the month being shown. Moving to another month cancels the
// pending request.
func (t *Tracker) Select(month int) {
	month = core.WrapMonth(month)

	t.mu.Lock()
	defer t.mu.Unlock()
	if month == t.month {
		return
	}
	t.month = month
	t.stop()
}

// Begin starts a request for month. The returned context is cancelled when a
// newer request begins, when another month is selected, or by Finish.
func (t *Tracker) Begin(parent context.Context, month int) (context.Context, Ticket) {
	month = core.WrapMonth(month)

	t.mu.Lock()
	defer t.mu.Unlock()
	t.stop()
	t.seq++
	t.month = month

	ctx, cancel := context.WithCancel(parent)
	t.cancel = cancel
	return ctx, Ticket{Month: month, seq: t.seq}
}

// Current reports whether tk is still the latest request for the selected month.
func (t *Tracker) Current(tk Ticket) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return tk.seq == t.seq && tk.Month == t.month
}

// Finish releases the context of tk if it is still the latest request.
func (t *Tracker) Finish(tk Ticket) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if tk.seq == t.seq {
		t.stop()
	}
}

// Month returns the selected month index.
func (t *Tracker) Month() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.month
}

func (t *Tracker) stop() {
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
}
