package service

import (
	"context"
	"sync"
	"time"

	dErrors "sudsy/pkg/domain-errors"
)

// StoreTx provides the atomic boundary for finalize: the claim-row update and
// the tenant domain-pointer update commit or roll back together.
type StoreTx interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Snapshotter is implemented by in-memory stores that can capture and restore
// their full state.
type Snapshotter interface {
	Snapshot() any
	Restore(snapshot any)
}

const defaultTxTimeout = 5 * time.Second

// inMemoryStoreTx serializes mutations and rolls back participating stores by
// snapshot when the transaction body fails. This gives the memory backend the
// same all-or-nothing finalize the postgres backend gets from a real
// transaction.
type inMemoryStoreTx struct {
	mu      sync.Mutex
	stores  []Snapshotter
	timeout time.Duration
}

// NewInMemoryStoreTx builds a snapshot-rollback transaction boundary over the
// given stores.
func NewInMemoryStoreTx(stores ...Snapshotter) StoreTx {
	return &inMemoryStoreTx{stores: stores}
}

func (t *inMemoryStoreTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	timeout := t.timeout
	if timeout == 0 {
		timeout = defaultTxTimeout
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	snapshots := make([]any, len(t.stores))
	for i, s := range t.stores {
		snapshots[i] = s.Snapshot()
	}

	if err := fn(ctx); err != nil {
		for i, s := range t.stores {
			s.Restore(snapshots[i])
		}
		return err
	}
	return nil
}
