package tx

import (
	"context"
	"database/sql"
	"time"

	dErrors "sudsy/pkg/domain-errors"
)

const defaultRunnerTimeout = 5 * time.Second

// Runner executes a function inside a single database transaction. The
// transaction handle travels in the context; stores pick it up via
// QuerierFrom. Nested RunInTx calls join the outer transaction.
type Runner struct {
	db      *sql.DB
	timeout time.Duration
}

// NewRunner builds a transaction runner over the database handle.
func NewRunner(db *sql.DB) *Runner {
	return &Runner{db: db}
}

func (r *Runner) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	if _, ok := From(ctx); ok {
		return fn(ctx)
	}

	timeout := r.timeout
	if timeout == 0 {
		timeout = defaultRunnerTimeout
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = dbTx.Rollback() //nolint:errcheck // rollback after commit is a no-op
	}()

	txCtx := WithTx(ctx, dbTx)
	if err := fn(txCtx); err != nil {
		return err
	}

	return dbTx.Commit()
}
