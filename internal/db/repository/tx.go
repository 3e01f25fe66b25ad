package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"graphauth/internal/domain"
)

var _ domain.TxRunner = (*Tx)(nil)

// Tx coordinates composite units of work: every store mutation inside the
// unit runs on one SQL transaction, so intermediate writes are not
// independently durable. A nil return from the unit commits once; any
// failure rolls back and surfaces wrapped in *domain.TransactionError.
// A rollback failure is logged and never masks the original failure.
type Tx struct {
	db    *sql.DB
	log   *slog.Logger
	build func(q DBTX) *domain.Stores
}

// NewTx creates a transaction coordinator over the write connection.
func NewTx(db *sql.DB, log *slog.Logger) *Tx {
	return NewTxWithStores(db, log, NewStores)
}

// NewTxWithStores creates a coordinator whose transaction-bound stores come
// from a custom factory. Tests use this to decorate stores with injected
// failures.
func NewTxWithStores(db *sql.DB, log *slog.Logger, build func(q DBTX) *domain.Stores) *Tx {
	if log == nil {
		log = slog.Default()
	}
	return &Tx{db: db, log: log, build: build}
}

// RunInTx implements domain.TxRunner. A panic raised by an underlying store
// call is recovered at this boundary and converted into the same failure
// shape as an error return.
func (t *Tx) RunInTx(ctx context.Context, fn func(s *domain.Stores) error) error {
	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return &domain.TransactionError{Cause: fmt.Errorf("begin: %w", err)}
	}

	err = func() (unitErr error) {
		defer func() {
			if r := recover(); r != nil {
				unitErr = fmt.Errorf("unit of work panicked: %v", r)
			}
		}()
		return fn(t.build(tx))
	}()

	if err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			t.log.Error("transaction rollback failed", "error", rbErr)
		}
		return &domain.TransactionError{Cause: err}
	}

	if err := tx.Commit(); err != nil {
		return &domain.TransactionError{Cause: fmt.Errorf("commit: %w", err)}
	}
	return nil
}
