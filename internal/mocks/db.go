package mocks

import (
	"context"
	"database/sql"

	"github.com/hdhector/taskflow/internal/store"
)

// MockTxRunner implements store.TxRunner for testing. It never opens a real
// transaction; services under test inject a runInTx that calls the
// transactional function with a nil *sql.Tx, and the store mocks return
// themselves from WithTx(nil).
type MockTxRunner struct {
	BeginTxFn func(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

// BeginTx implements the store.TxRunner interface
func (m *MockTxRunner) BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error) {
	if m.BeginTxFn != nil {
		return m.BeginTxFn(ctx, opts)
	}
	return nil, nil
}

// RunTxDirect is a drop-in replacement for store.RunInTransaction in tests:
// it invokes fn immediately with a nil transaction and no commit/rollback.
func RunTxDirect(ctx context.Context, db store.TxRunner, fn store.TxFn) error {
	return fn(ctx, nil)
}

// Ensure MockTxRunner implements store.TxRunner
var _ store.TxRunner = (*MockTxRunner)(nil)
