// package repositories provides persistence layer implementations of [models.Store].
package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"
)

// querier is the subset of [sql.DB] and [sql.Tx] the SQL store runs statements through.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// rowScanner is implemented by both [sql.Row] and [sql.Rows].
type rowScanner interface {
	Scan(dest ...any) error
}

// SQLStore implements [models.Store] over database/sql with the SQLite schema from shared/sql.
//
// A SQLStore returned by [NewSQLStore] runs each call on the pool; inside [SQLStore.Tx] every
// call goes through the same transaction.
type SQLStore struct {
	db *sql.DB
	q  querier
}

// NewSQLStore creates a new SQLStore with the given database connection
func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db, q: db}
}

// inTx reports whether the store is bound to a transaction.
func (s *SQLStore) inTx() bool {
	_, ok := s.q.(*sql.Tx)
	return ok
}

// atomic runs fn inside the current transaction, or a new one when the store is not bound to one.
func (s *SQLStore) atomic(ctx context.Context, fn func(q querier) error) error {
	if s.inTx() {
		return fn(s.q)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// isUniqueViolation reports whether err comes from a UNIQUE constraint.
func isUniqueViolation(err error) bool {
	var se sqlite3.Error
	if errors.As(err, &se) {
		return se.Code == sqlite3.ErrConstraint && se.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	return false
}
