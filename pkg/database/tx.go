package database

import (
	"context"
	"database/sql"
	"fmt"
)

type contextKey string

const txKey contextKey = "tx"

// Querier is the subset of *sql.DB and *sql.Tx the repositories use.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// GetTx retrieves the transaction stored in ctx by WithTx.
func GetTx(ctx context.Context) (*sql.Tx, bool) {
	tx, ok := ctx.Value(txKey).(*sql.Tx)
	return tx, ok
}

func (db *DB) querier(ctx context.Context) Querier {
	if tx, ok := GetTx(ctx); ok {
		return tx
	}
	return db.DB
}

// Exec runs a statement on the transaction in ctx, or on the pool.
func (db *DB) Exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return db.querier(ctx).ExecContext(ctx, db.Rebind(query), args...)
}

// Query runs a query on the transaction in ctx, or on the pool.
func (db *DB) Query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return db.querier(ctx).QueryContext(ctx, db.Rebind(query), args...)
}

// QueryRow runs a single-row query on the transaction in ctx, or on the pool.
func (db *DB) QueryRow(ctx context.Context, query string, args ...any) *sql.Row {
	return db.querier(ctx).QueryRowContext(ctx, db.Rebind(query), args...)
}

// WithTx runs fn inside a transaction. Repository calls made with the ctx
// passed to fn join that transaction. If ctx already carries a transaction,
// fn joins it instead of starting a new one.
//
// The transaction is detached from ctx cancellation: once started it either
// commits or rolls back as a whole.
func (db *DB) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := GetTx(ctx); ok {
		return fn(ctx)
	}

	txCtx := context.WithoutCancel(ctx)
	tx, err := db.BeginTx(txCtx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(context.WithValue(txCtx, txKey, tx)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
