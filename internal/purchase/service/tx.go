package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	id "shopstream/pkg/domain"
	dErrors "shopstream/pkg/domain-errors"
	"shopstream/pkg/platform/tx"
)

// Runner provides the transactional boundary for a purchase: every read and
// mutation inside fn must observe and apply a consistent view of the buyer's
// wallet, inventory, the stock ledger, and the purchase ledger.
type Runner interface {
	RunInTx(ctx context.Context, accountID id.AccountID, fn func(ctx context.Context) error) error
}

// numShards spreads in-memory purchase locking across shards keyed by buyer,
// so concurrent purchases by different shoppers rarely contend.
const numShards = 128

// defaultTxTimeout bounds how long a purchase transaction may run.
const defaultTxTimeout = 5 * time.Second

// ShardedRunner is the in-memory Runner. A purchase locks its buyer's shard
// for the duration of fn, which serializes same-account purchases; the
// underlying stores keep their own locks for cross-account safety.
type ShardedRunner struct {
	shards  [numShards]sync.Mutex
	timeout time.Duration
}

func NewShardedRunner() *ShardedRunner {
	return &ShardedRunner{timeout: defaultTxTimeout}
}

func (r *ShardedRunner) RunInTx(ctx context.Context, accountID id.AccountID, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "purchase aborted: context cancelled")
	}

	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	shard := shardFor(accountID)
	r.shards[shard].Lock()
	defer r.shards[shard].Unlock()

	// Check again after acquiring the lock.
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "purchase aborted: context cancelled")
	}

	return fn(ctx)
}

// shardFor hashes the account ID with FNV-1a.
func shardFor(accountID id.AccountID) int {
	const (
		fnvOffset = 2166136261
		fnvPrime  = 16777619
	)
	s := accountID.String()
	h := uint32(fnvOffset)
	for i := 0; i < len(s); i++ {
		h ^= uint32(s[i])
		h *= fnvPrime
	}
	return int(h % numShards)
}

// SQLRunner is the production Runner. It opens a database transaction and
// carries it in the context so every store statement inside fn joins it; the
// account row lock taken by the stores serializes same-account purchases.
type SQLRunner struct {
	db *sql.DB
}

func NewSQLRunner(db *sql.DB) *SQLRunner {
	return &SQLRunner{db: db}
}

func (r *SQLRunner) RunInTx(ctx context.Context, _ id.AccountID, fn func(ctx context.Context) error) error {
	if _, ok := tx.From(ctx); ok {
		// Already inside a transaction; join it.
		return fn(ctx)
	}

	sqlTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin purchase tx: %w", err)
	}

	if err := fn(tx.WithTx(ctx, sqlTx)); err != nil {
		if rbErr := sqlTx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			return errors.Join(err, fmt.Errorf("rollback purchase tx: %w", rbErr))
		}
		return err
	}
	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("commit purchase tx: %w", err)
	}
	return nil
}
