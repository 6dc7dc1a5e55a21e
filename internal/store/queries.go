package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/nhle/listly/internal/model"
)

// extContext is satisfied by both *sqlx.DB and *sqlx.Tx.
type extContext interface {
	sqlx.ExtContext
	PreparexContext(ctx context.Context, query string) (*sqlx.Stmt, error)
}

// queries implements Queries against either the database handle or an
// open transaction.
type queries struct {
	ext extContext
}

// get runs a single-row query. sql.ErrNoRows becomes model.ErrNotFound.
func (q queries) get(ctx context.Context, dest any, op, what string, query string, args ...any) error {
	err := sqlx.GetContext(ctx, q.ext, dest, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return model.NotFoundf("%s", what)
	}
	if err != nil {
		return storageErr(op, err)
	}
	return nil
}

// execOne runs a statement expected to touch exactly one row.
func (q queries) execOne(ctx context.Context, op, what string, query string, args ...any) error {
	result, err := q.ext.ExecContext(ctx, query, args...)
	if err != nil {
		return storageErr(op, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return model.NotFoundf("%s", what)
	}
	return nil
}

// execMany runs a statement that may touch any number of rows.
func (q queries) execMany(ctx context.Context, op string, query string, args ...any) (int64, error) {
	result, err := q.ext.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, storageErr(op, err)
	}
	rows, _ := result.RowsAffected()
	return rows, nil
}

// maxOrder returns the highest sort_order among rows matching the query,
// and false when there are none.
func (q queries) maxOrder(ctx context.Context, op string, query string, args ...any) (int, bool, error) {
	var top sql.NullInt64
	if err := sqlx.GetContext(ctx, q.ext, &top, query, args...); err != nil {
		return 0, false, storageErr(op, err)
	}
	if !top.Valid {
		return 0, false, nil
	}
	return int(top.Int64), true, nil
}

func utc(t *time.Time) {
	*t = t.UTC()
}

func utcPtr(t *time.Time) {
	if t != nil {
		*t = t.UTC()
	}
}

func notFoundWhat(kind, id string) string {
	return fmt.Sprintf("%s %s", kind, id)
}
