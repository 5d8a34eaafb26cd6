package ledger

import (
	"context"

	"cofrinho/internal/core"
)

// Ports for ledger backends.
type (
	// Store holds the process-scoped ledger, most recent entry first.
	Store interface {
		// Append inserts e before every existing entry. An ID already
		// present fails with core.ErrDuplicateID.
		Append(ctx context.Context, e core.Entry) error
		// Remove deletes the entry with the given id. Unknown ids are a no-op.
		Remove(ctx context.Context, id string) error
		// All returns a copy of the ledger in display order.
		All(ctx context.Context) ([]core.Entry, error)
		Close() error
	}
)
